package overlay

import (
	"errors"
	"reflect"
	"testing"

	"github.com/codyseavey/pokeprice/internal/models"
)

func floatPtr(v float64) *float64 {
	return &v
}

func testCard() *models.CardRecord {
	return &models.CardRecord{
		ID:           "base1-4",
		Name:         "Charizard",
		SetName:      "Base",
		SetSeries:    "Base",
		ThumbnailURL: "https://images.pokemontcg.io/base1/4.png",
		Price:        floatPtr(120.5),
	}
}

func kinds(effects []Effect) []EffectKind {
	out := make([]EffectKind, 0, len(effects))
	for _, e := range effects {
		out = append(out, e.Kind)
	}
	return out
}

func TestReduce_Transitions(t *testing.T) {
	card := testCard()
	shown := Snapshot{State: StateResultShown, Card: card, Range: models.Range3M}

	tests := []struct {
		name      string
		from      Snapshot
		event     Event
		wantState State
		wantKinds []EffectKind
	}{
		{
			name:      "unidentified scan asks for manual input",
			from:      Snapshot{State: StateHidden},
			event:     ScanUnidentified{},
			wantState: StateManualInputNeeded,
			wantKinds: []EffectKind{EffectShowPanel, EffectShowManualInput},
		},
		{
			name:      "search shows loading",
			from:      Snapshot{State: StateHidden},
			event:     SearchStarted{Query: "charizard"},
			wantState: StateLoading,
			wantKinds: []EffectKind{EffectShowPanel, EffectShowLoading},
		},
		{
			name:      "rescan while result shown",
			from:      shown,
			event:     SearchStarted{Query: "pikachu"},
			wantState: StateLoading,
			wantKinds: []EffectKind{EffectShowPanel, EffectShowLoading},
		},
		{
			name:      "manual submit",
			from:      Snapshot{State: StateManualInputNeeded},
			event:     ManualSubmitted{Query: "Umbreon VMAX"},
			wantState: StateLoading,
			wantKinds: []EffectKind{EffectShowLoading},
		},
		{
			name:      "no result",
			from:      Snapshot{State: StateLoading},
			event:     LookupCompleted{},
			wantState: StateManualInputNeeded,
			wantKinds: []EffectKind{EffectShowManualInput},
		},
		{
			name:      "result",
			from:      Snapshot{State: StateLoading},
			event:     LookupCompleted{Card: card},
			wantState: StateResultShown,
			wantKinds: []EffectKind{EffectShowResult, EffectSetActiveRange, EffectDrawChart},
		},
		{
			name:      "range switch",
			from:      shown,
			event:     RangeSelected{Range: models.Range1Y},
			wantState: StateResultShown,
			wantKinds: []EffectKind{EffectSetActiveRange, EffectDrawChart},
		},
		{
			name:      "close from loading",
			from:      Snapshot{State: StateLoading},
			event:     Closed{},
			wantState: StateHidden,
			wantKinds: []EffectKind{EffectHidePanel},
		},
		{
			name:      "close from hidden",
			from:      Snapshot{State: StateHidden},
			event:     Closed{},
			wantState: StateHidden,
			wantKinds: []EffectKind{EffectHidePanel},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, effects, err := Reduce(tt.from, tt.event)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if next.State != tt.wantState {
				t.Errorf("state = %s, want %s", next.State, tt.wantState)
			}
			if got := kinds(effects); !reflect.DeepEqual(got, tt.wantKinds) {
				t.Errorf("effects = %v, want %v", got, tt.wantKinds)
			}
		})
	}
}

func TestReduce_Rejections(t *testing.T) {
	card := testCard()
	tests := []struct {
		name    string
		from    Snapshot
		event   Event
		wantErr error
	}{
		{"range while hidden", Snapshot{State: StateHidden, Card: card}, RangeSelected{Range: models.Range6M}, ErrInvalidTransition},
		{"range while loading", Snapshot{State: StateLoading}, RangeSelected{Range: models.Range6M}, ErrInvalidTransition},
		{"unknown range", Snapshot{State: StateResultShown, Card: card}, RangeSelected{Range: "5y"}, ErrUnknownRange},
		{"manual while hidden", Snapshot{State: StateHidden}, ManualSubmitted{Query: "mew"}, ErrInvalidTransition},
		{"manual while result shown", Snapshot{State: StateResultShown, Card: card}, ManualSubmitted{Query: "mew"}, ErrInvalidTransition},
		{"empty manual query", Snapshot{State: StateManualInputNeeded}, ManualSubmitted{Query: "  "}, ErrEmptyQuery},
		{"empty search", Snapshot{State: StateHidden}, SearchStarted{}, ErrEmptyQuery},
		{"result while manual input", Snapshot{State: StateManualInputNeeded}, LookupCompleted{Card: card}, ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, effects, err := Reduce(tt.from, tt.event)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(next, tt.from) {
				t.Errorf("snapshot changed on error: %+v", next)
			}
			if len(effects) != 0 {
				t.Errorf("expected no effects on error, got %v", kinds(effects))
			}
		})
	}
}

func TestReduce_ResultEffects(t *testing.T) {
	card := testCard()
	next, effects, err := Reduce(Snapshot{State: StateLoading}, LookupCompleted{Card: card})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.Card != card || next.Range != models.Range3M {
		t.Errorf("unexpected snapshot %+v", next)
	}
	if effects[0].PriceText != "$120.50" {
		t.Errorf("price text = %q", effects[0].PriceText)
	}
	if effects[2].Range != models.Range3M || effects[2].Basis != 120.5 {
		t.Errorf("unexpected draw effect %+v", effects[2])
	}
}

func TestReduce_DefaultBasis(t *testing.T) {
	card := testCard()
	card.Price = nil
	_, effects, err := Reduce(Snapshot{State: StateResultShown, Card: card}, RangeSelected{Range: models.Range6M})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if effects[1].Basis != models.DefaultPriceBasis {
		t.Errorf("basis = %v, want %v", effects[1].Basis, models.DefaultPriceBasis)
	}
}

func TestReduce_CloseRetainsCard(t *testing.T) {
	card := testCard()
	next, _, _ := Reduce(Snapshot{State: StateResultShown, Card: card, Range: models.Range1Y}, Closed{})
	if next.Card != card || next.Range != models.Range1Y {
		t.Errorf("close should keep card and range, got %+v", next)
	}
}

func TestReduce_LateResultWhileHidden(t *testing.T) {
	card := testCard()
	next, effects, err := Reduce(Snapshot{State: StateHidden}, LookupCompleted{Card: card})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.State != StateHidden || next.Card != card {
		t.Errorf("unexpected snapshot %+v", next)
	}
	if len(effects) != 0 {
		t.Errorf("hidden overlay should not present, got %v", kinds(effects))
	}
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	from := Snapshot{State: StateLoading}
	Reduce(from, LookupCompleted{Card: testCard()})
	if from.State != StateLoading || from.Card != nil {
		t.Errorf("input snapshot mutated: %+v", from)
	}
}

func TestStateString(t *testing.T) {
	text, _ := StateManualInputNeeded.MarshalText()
	if string(text) != "manual_input_needed" {
		t.Errorf("unexpected text %q", text)
	}
}
