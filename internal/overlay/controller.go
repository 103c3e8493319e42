package overlay

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/codyseavey/pokeprice/internal/chart"
	"github.com/codyseavey/pokeprice/internal/metrics"
	"github.com/codyseavey/pokeprice/internal/models"
	"github.com/codyseavey/pokeprice/internal/query"
	"github.com/codyseavey/pokeprice/internal/trend"
)

// CardLookup resolves a query to a card; nil means no result or failure.
type CardLookup interface {
	Lookup(ctx context.Context, query string) *models.CardRecord
}

// Synthesizer produces the trend drawn for a price basis and month count
type Synthesizer func(currentPrice float64, months int) trend.Series

// Option customizes a Controller
type Option func(*Controller)

// WithSynthesizer replaces the trend generator, mainly for tests
func WithSynthesizer(fn Synthesizer) Option {
	return func(c *Controller) {
		c.synthesize = fn
	}
}

// WithCanvas sets the chart drawing surface
func WithCanvas(canvas chart.Canvas) Option {
	return func(c *Controller) {
		c.canvas = canvas
	}
}

// Controller owns one overlay: its state, the current card and the latest chart.
//
// Every StartScan and Search bumps a generation counter. A lookup result is
// applied only if no newer search started while it was in flight. The lock
// is never held across a lookup.
type Controller struct {
	mu         sync.Mutex
	snap       Snapshot
	generation uint64
	chart      *Chart

	lookup     CardLookup
	presenter  Presenter
	synthesize Synthesizer
	canvas     chart.Canvas
}

// NewController creates an overlay in the Hidden state
func NewController(lookup CardLookup, presenter Presenter, opts ...Option) *Controller {
	c := &Controller{
		snap:       Snapshot{State: StateHidden},
		lookup:     lookup,
		presenter:  presenter,
		synthesize: trend.Synthesize,
		canvas:     chart.DefaultCanvas(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StartScan identifies the card from the image metadata and searches for it.
// When nothing can be identified the overlay asks for manual input without
// touching the network.
func (c *Controller) StartScan(ctx context.Context, signal models.ImageSignal) error {
	q, ok := query.Normalize(signal.AltText, signal.SourceURL)
	if !ok {
		log.Printf("Overlay: could not identify card from %q", signal.SourceURL)
		_, err := c.begin(ScanUnidentified{})
		return err
	}
	return c.Search(ctx, q)
}

// Search looks up query and shows the result, or the manual form when there is none.
func (c *Controller) Search(ctx context.Context, q string) error {
	gen, err := c.begin(SearchStarted{Query: q})
	if err != nil {
		return err
	}
	return c.resolve(ctx, gen, q)
}

// SubmitManual searches for text verbatim. Only valid while the manual form is shown.
func (c *Controller) SubmitManual(ctx context.Context, text string) error {
	q := strings.TrimSpace(text)
	gen, err := c.begin(ManualSubmitted{Query: q})
	if err != nil {
		return err
	}
	return c.resolve(ctx, gen, q)
}

// SwitchRange redraws the chart for r from the current card. No network call.
func (c *Controller) SwitchRange(r models.Range) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dispatch(RangeSelected{Range: r})
}

// Close hides the panel. An in-flight lookup is not cancelled and the
// current card is kept.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.dispatch(Closed{}); err != nil {
		log.Printf("Overlay: close failed: %v", err)
	}
}

// State returns the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap.State
}

// Card returns a copy of the current card, which survives Close
func (c *Controller) Card() *models.CardRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap.Card.Clone()
}

// Range returns the active chart range
func (c *Controller) Range() models.Range {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap.Range
}

// Chart returns the most recently drawn chart, or nil
func (c *Controller) Chart() *Chart {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chart
}

// Generation returns the current search generation
func (c *Controller) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// begin applies ev and starts a new generation
func (c *Controller) begin(ev Event) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, effects, err := Reduce(c.snap, ev)
	if err != nil {
		return 0, err
	}
	c.generation++
	c.commit(next, effects)
	return c.generation, nil
}

// resolve runs the lookup outside the lock and applies the result if gen is still current
func (c *Controller) resolve(ctx context.Context, gen uint64, q string) error {
	card := c.lookup.Lookup(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		log.Printf("Overlay: discarding stale result for %q (generation %d, current %d)", q, gen, c.generation)
		metrics.OverlayStaleResultsTotal.Inc()
		return nil
	}
	return c.dispatch(LookupCompleted{Card: card})
}

// dispatch applies ev within the current generation. Caller holds mu.
func (c *Controller) dispatch(ev Event) error {
	next, effects, err := Reduce(c.snap, ev)
	if err != nil {
		return err
	}
	c.commit(next, effects)
	return nil
}

// commit renders pending charts, stores next and presents the batch. Caller holds mu.
func (c *Controller) commit(next Snapshot, effects []Effect) {
	// A card stored without a redraw (late result while hidden) must not
	// keep the previous card's chart.
	if next.Card != c.snap.Card {
		c.chart = nil
	}
	for i := range effects {
		if effects[i].Kind != EffectDrawChart {
			continue
		}
		effects[i].Chart = c.renderChart(effects[i].Range, effects[i].Basis)
		c.chart = effects[i].Chart
	}

	if c.snap.State != next.State {
		metrics.OverlayTransitionsTotal.WithLabelValues(c.snap.State.String(), next.State.String()).Inc()
	}
	c.snap = next

	if c.presenter != nil && len(effects) > 0 {
		c.presenter.Present(Batch{Generation: c.generation, State: next.State, Effects: effects})
	}
}

// renderChart synthesizes a fresh series; nothing is reused from earlier draws
func (c *Controller) renderChart(r models.Range, basis float64) *Chart {
	series := c.synthesize(basis, r.Months())
	metrics.ChartRendersTotal.WithLabelValues(string(r)).Inc()
	return &Chart{
		Range:     r,
		Series:    series,
		Path:      chart.RenderPath(series, c.canvas),
		Canvas:    c.canvas,
		Synthetic: true,
	}
}
