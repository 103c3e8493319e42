// Package overlay drives the price panel shown over a host page: identify the
// card, look it up, show the result and redraw the chart on range changes.
//
// Transitions are computed by the pure Reduce function. The Controller owns
// the mutable state and hands the resulting effects to a Presenter.
package overlay

import (
	"errors"
	"fmt"
	"strings"

	"github.com/codyseavey/pokeprice/internal/models"
)

var (
	// ErrInvalidTransition is returned for an operation not allowed in the current state
	ErrInvalidTransition = errors.New("operation not allowed in current overlay state")
	// ErrUnknownRange is returned for a range other than 3m, 6m or 1y
	ErrUnknownRange = errors.New("unknown chart range")
	// ErrEmptyQuery is returned when a manual search has no text
	ErrEmptyQuery = errors.New("search query is empty")
)

// State is the overlay's presentation state
type State int

const (
	StateHidden State = iota
	StateLoading
	StateManualInputNeeded
	StateResultShown
)

func (s State) String() string {
	switch s {
	case StateHidden:
		return "hidden"
	case StateLoading:
		return "loading"
	case StateManualInputNeeded:
		return "manual_input_needed"
	case StateResultShown:
		return "result_shown"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MarshalText encodes the state by name in JSON
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Snapshot is everything Reduce needs to know about an overlay
type Snapshot struct {
	State State
	Card  *models.CardRecord // retained after close
	Range models.Range
}

// Event is an input to Reduce
type Event interface {
	isEvent()
}

// ScanUnidentified: the image metadata did not yield a query
type ScanUnidentified struct{}

// SearchStarted: a lookup for Query is about to be issued
type SearchStarted struct {
	Query string
}

// ManualSubmitted: the user typed Query into the fallback form
type ManualSubmitted struct {
	Query string
}

// LookupCompleted: the lookup returned; Card is nil for no result
type LookupCompleted struct {
	Card *models.CardRecord
}

// RangeSelected: a chart tab was clicked
type RangeSelected struct {
	Range models.Range
}

// Closed: the close button was clicked
type Closed struct{}

func (ScanUnidentified) isEvent() {}
func (SearchStarted) isEvent()    {}
func (ManualSubmitted) isEvent()  {}
func (LookupCompleted) isEvent()  {}
func (RangeSelected) isEvent()    {}
func (Closed) isEvent()           {}

// Reduce computes the next snapshot and the presentation effects for ev.
// It never mutates s. On error the snapshot is returned unchanged with no effects.
func Reduce(s Snapshot, ev Event) (Snapshot, []Effect, error) {
	next := s

	switch e := ev.(type) {
	case ScanUnidentified:
		next.State = StateManualInputNeeded
		return next, []Effect{{Kind: EffectShowPanel}, {Kind: EffectShowManualInput}}, nil

	case SearchStarted:
		if strings.TrimSpace(e.Query) == "" {
			return s, nil, ErrEmptyQuery
		}
		next.State = StateLoading
		return next, []Effect{{Kind: EffectShowPanel}, {Kind: EffectShowLoading}}, nil

	case ManualSubmitted:
		if s.State != StateManualInputNeeded {
			return s, nil, fmt.Errorf("manual search while %s: %w", s.State, ErrInvalidTransition)
		}
		if strings.TrimSpace(e.Query) == "" {
			return s, nil, ErrEmptyQuery
		}
		next.State = StateLoading
		return next, []Effect{{Kind: EffectShowLoading}}, nil

	case LookupCompleted:
		switch s.State {
		case StateLoading:
		case StateHidden:
			// Closed while the lookup was in flight: keep the record, stay hidden
			if e.Card != nil {
				next.Card = e.Card
				next.Range = models.DefaultRange
			}
			return next, nil, nil
		default:
			return s, nil, fmt.Errorf("lookup result while %s: %w", s.State, ErrInvalidTransition)
		}

		if e.Card == nil {
			next.State = StateManualInputNeeded
			return next, []Effect{{Kind: EffectShowManualInput}}, nil
		}

		next.State = StateResultShown
		next.Card = e.Card
		next.Range = models.DefaultRange
		return next, []Effect{
			{Kind: EffectShowResult, Card: e.Card, PriceText: e.Card.PriceText()},
			{Kind: EffectSetActiveRange, Range: models.DefaultRange},
			{Kind: EffectDrawChart, Range: models.DefaultRange, Basis: e.Card.PriceBasis()},
		}, nil

	case RangeSelected:
		if e.Range.Months() == 0 {
			return s, nil, fmt.Errorf("%w: %q", ErrUnknownRange, e.Range)
		}
		if s.State != StateResultShown || s.Card == nil {
			return s, nil, fmt.Errorf("range switch while %s: %w", s.State, ErrInvalidTransition)
		}
		next.Range = e.Range
		return next, []Effect{
			{Kind: EffectSetActiveRange, Range: e.Range},
			{Kind: EffectDrawChart, Range: e.Range, Basis: s.Card.PriceBasis()},
		}, nil

	case Closed:
		next.State = StateHidden
		return next, []Effect{{Kind: EffectHidePanel}}, nil

	default:
		return s, nil, fmt.Errorf("unknown overlay event %T", ev)
	}
}
