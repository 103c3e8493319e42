package overlay

import (
	"github.com/codyseavey/pokeprice/internal/chart"
	"github.com/codyseavey/pokeprice/internal/models"
	"github.com/codyseavey/pokeprice/internal/trend"
)

// EffectKind names a presentation update
type EffectKind string

const (
	EffectShowPanel       EffectKind = "show_panel"
	EffectHidePanel       EffectKind = "hide_panel"
	EffectShowLoading     EffectKind = "show_loading"
	EffectShowManualInput EffectKind = "show_manual_input"
	EffectShowResult      EffectKind = "show_result"
	EffectSetActiveRange  EffectKind = "set_active_range"
	EffectDrawChart       EffectKind = "draw_chart"
)

// Effect is a single presentation update produced by Reduce.
// DrawChart effects leave Reduce with Range and Basis set; the Controller
// fills in Chart before they reach a Presenter.
type Effect struct {
	Kind      EffectKind         `json:"kind"`
	Card      *models.CardRecord `json:"card,omitempty"`
	PriceText string             `json:"price_text,omitempty"`
	Range     models.Range       `json:"range,omitempty"`
	Basis     float64            `json:"basis,omitempty"`
	Chart     *Chart             `json:"chart,omitempty"`
}

// Chart is a rendered trend for one range. The series is synthetic.
type Chart struct {
	Range     models.Range `json:"range"`
	Series    trend.Series `json:"series"`
	Path      chart.Path   `json:"path"`
	Canvas    chart.Canvas `json:"canvas"`
	Synthetic bool         `json:"synthetic"`
}

// Batch is the set of effects from one transition
type Batch struct {
	Generation uint64   `json:"generation"`
	State      State    `json:"state"`
	Effects    []Effect `json:"effects"`
}

// Presenter applies effect batches to a rendering surface
type Presenter interface {
	Present(b Batch)
}

// Presenters fans a batch out to several presenters in order
type Presenters []Presenter

func (ps Presenters) Present(b Batch) {
	for _, p := range ps {
		p.Present(b)
	}
}
