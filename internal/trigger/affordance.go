package trigger

import (
	"log"
	"sync"
	"time"

	"github.com/codyseavey/pokeprice/internal/models"
)

// DefaultGracePeriod is how long the scan button lingers after the pointer leaves the image
const DefaultGracePeriod = 2 * time.Second

// Affordance is the scan button shown over one image.
//
// Leaving the image arms a grace timer. When it fires the button is dismissed
// unless the pointer is over the button; leaving the button re-arms it.
// A click dismisses immediately and yields the scan signal.
type Affordance struct {
	mu         sync.Mutex
	hover      Hover
	grace      time.Duration
	timer      *time.Timer
	overButton bool
	dismissed  bool
	onDismiss  func(*Affordance)
}

// Hover returns the image the button belongs to
func (a *Affordance) Hover() Hover {
	return a.hover
}

// Dismissed reports whether the button has been removed
func (a *Affordance) Dismissed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dismissed
}

// ImageLeave arms the grace timer
func (a *Affordance) ImageLeave() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.arm()
}

// ButtonEnter keeps the button alive while the pointer is over it
func (a *Affordance) ButtonEnter() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.overButton = true
}

// ButtonLeave re-arms the grace timer
func (a *Affordance) ButtonLeave() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.overButton = false
	a.arm()
}

// Click dismisses the button and returns the signal to scan
func (a *Affordance) Click() (models.ImageSignal, error) {
	a.mu.Lock()
	if a.dismissed {
		a.mu.Unlock()
		return models.ImageSignal{}, ErrDismissed
	}
	a.dismissLocked()
	a.mu.Unlock()

	a.notify()
	return a.hover.Signal()
}

// arm (re)starts the grace timer. Caller holds mu.
func (a *Affordance) arm() {
	if a.dismissed {
		return
	}
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.grace, a.expire)
}

func (a *Affordance) expire() {
	a.mu.Lock()
	if a.dismissed || a.overButton {
		a.mu.Unlock()
		return
	}
	a.dismissLocked()
	a.mu.Unlock()

	a.notify()
}

func (a *Affordance) dismissLocked() {
	a.dismissed = true
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

func (a *Affordance) notify() {
	if a.onDismiss != nil {
		a.onDismiss(a)
	}
}

// Affordances tracks the scan buttons of one page, at most one per image.
type Affordances struct {
	mu      sync.Mutex
	grace   time.Duration
	buttons map[string]*Affordance
}

// NewAffordances creates a tracker; a non-positive grace uses DefaultGracePeriod
func NewAffordances(grace time.Duration) *Affordances {
	if grace <= 0 {
		grace = DefaultGracePeriod
	}
	return &Affordances{
		grace:   grace,
		buttons: make(map[string]*Affordance),
	}
}

// Show returns the button for the hovered image, creating it on first hover.
// The boolean is true when a new button was created.
func (t *Affordances) Show(h Hover) (*Affordance, bool, error) {
	if _, err := h.Signal(); err != nil {
		return nil, false, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if a, ok := t.buttons[h.Src]; ok && !a.Dismissed() {
		return a, false, nil
	}
	a := &Affordance{hover: h, grace: t.grace, onDismiss: t.remove}
	t.buttons[h.Src] = a
	log.Printf("Trigger: showing scan button for %s", h.Src)
	return a, true, nil
}

// Get returns the live button for src
func (t *Affordances) Get(src string) (*Affordance, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	a, ok := t.buttons[src]
	return a, ok
}

// Len returns the number of visible buttons
func (t *Affordances) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.buttons)
}

// Clear dismisses every button
func (t *Affordances) Clear() {
	t.mu.Lock()
	buttons := t.buttons
	t.buttons = make(map[string]*Affordance)
	t.mu.Unlock()

	for _, a := range buttons {
		a.mu.Lock()
		a.dismissLocked()
		a.mu.Unlock()
	}
}

func (t *Affordances) remove(a *Affordance) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.buttons[a.hover.Src] == a {
		delete(t.buttons, a.hover.Src)
	}
}
