// Package trigger turns host page interactions into scan requests: the
// context-menu message, the hover button and page image discovery.
package trigger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/codyseavey/pokeprice/internal/models"
)

// ActionContextMenuScan is the only message action the overlay accepts
const ActionContextMenuScan = "contextMenuScan"

// MinImageDimension is the size an image must exceed on both axes to get a scan button
const MinImageDimension = 100

var (
	ErrUnsupportedAction = errors.New("unsupported trigger action")
	ErrImageTooSmall     = errors.New("image too small to scan")
	ErrMissingSource     = errors.New("image source is required")
	ErrDismissed         = errors.New("scan button already dismissed")
)

// Message is a request from the host page's context menu
type Message struct {
	Action string `json:"action"`
	Src    string `json:"src"`
}

// Signal maps a context-menu message to a scan signal. Alt text is not
// available from the context menu.
func (m Message) Signal() (models.ImageSignal, error) {
	if m.Action != ActionContextMenuScan {
		return models.ImageSignal{}, fmt.Errorf("%w: %q", ErrUnsupportedAction, m.Action)
	}
	if strings.TrimSpace(m.Src) == "" {
		return models.ImageSignal{}, ErrMissingSource
	}
	return models.ImageSignal{SourceURL: m.Src}, nil
}

// Hover describes the image under the pointer
type Hover struct {
	Src    string `json:"src"`
	Alt    string `json:"alt"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Eligible reports whether an image of this size gets a scan button
func Eligible(width, height int) bool {
	return width > MinImageDimension && height > MinImageDimension
}

// Signal maps a hovered image to a scan signal
func (h Hover) Signal() (models.ImageSignal, error) {
	if strings.TrimSpace(h.Src) == "" {
		return models.ImageSignal{}, ErrMissingSource
	}
	if !Eligible(h.Width, h.Height) {
		return models.ImageSignal{}, fmt.Errorf("%w: %dx%d", ErrImageTooSmall, h.Width, h.Height)
	}
	return models.ImageSignal{SourceURL: h.Src, AltText: h.Alt}, nil
}
