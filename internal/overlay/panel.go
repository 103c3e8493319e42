package overlay

import (
	"sync"

	"github.com/codyseavey/pokeprice/internal/models"
)

// PanelView is what the panel currently displays
type PanelView struct {
	Visible            bool         `json:"visible"`
	State              State        `json:"state"`
	LoadingVisible     bool         `json:"loading_visible"`
	ManualInputVisible bool         `json:"manual_input_visible"`
	ResultVisible      bool         `json:"result_visible"`
	Name               string       `json:"name,omitempty"`
	SetLabel           string       `json:"set_label,omitempty"`
	ThumbnailURL       string       `json:"thumbnail_url,omitempty"`
	TCGPlayerURL       string       `json:"tcgplayer_url,omitempty"`
	PriceText          string       `json:"price_text,omitempty"`
	ActiveRange        models.Range `json:"active_range,omitempty"`
	Ranges             []RangeTab   `json:"ranges"`
	Chart              *Chart       `json:"chart,omitempty"`
	Generation         uint64       `json:"generation"`
}

// RangeTab is one of the chart range selectors
type RangeTab struct {
	Range  models.Range `json:"range"`
	Label  string       `json:"label"`
	Active bool         `json:"active"`
}

// Panel applies effect batches to an in-memory view of the overlay.
// Exactly one of the loading, manual input and result areas is visible at a time.
type Panel struct {
	mu   sync.RWMutex
	view PanelView
}

// NewPanel creates a hidden panel
func NewPanel() *Panel {
	return &Panel{}
}

// Present implements Presenter
func (p *Panel) Present(b Batch) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.view.State = b.State
	p.view.Generation = b.Generation
	for _, e := range b.Effects {
		p.apply(e)
	}
}

func (p *Panel) apply(e Effect) {
	v := &p.view
	switch e.Kind {
	case EffectShowPanel:
		v.Visible = true
	case EffectHidePanel:
		v.Visible = false
	case EffectShowLoading:
		v.LoadingVisible, v.ManualInputVisible, v.ResultVisible = true, false, false
	case EffectShowManualInput:
		v.LoadingVisible, v.ManualInputVisible, v.ResultVisible = false, true, false
	case EffectShowResult:
		v.LoadingVisible, v.ManualInputVisible, v.ResultVisible = false, false, true
		if e.Card != nil {
			v.Name = e.Card.Name
			v.SetLabel = e.Card.SetLabel()
			v.ThumbnailURL = e.Card.ThumbnailURL
			v.TCGPlayerURL = e.Card.TCGPlayerURL
		}
		v.PriceText = e.PriceText
	case EffectSetActiveRange:
		v.ActiveRange = e.Range
	case EffectDrawChart:
		v.Chart = e.Chart
	}
}

// View returns a snapshot of the panel
func (p *Panel) View() PanelView {
	p.mu.RLock()
	defer p.mu.RUnlock()

	v := p.view
	v.Ranges = make([]RangeTab, 0, len(models.AllRanges()))
	for _, r := range models.AllRanges() {
		v.Ranges = append(v.Ranges, RangeTab{Range: r, Label: r.Label(), Active: r == v.ActiveRange})
	}
	return v
}
