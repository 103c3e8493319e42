package trigger

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestEligible(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		want          bool
	}{
		{"both above threshold", 101, 101, true},
		{"width at threshold", 100, 300, false},
		{"height at threshold", 300, 100, false},
		{"tiny", 16, 16, false},
		{"large", 245, 342, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Eligible(tt.width, tt.height); got != tt.want {
				t.Errorf("Eligible(%d, %d) = %v, want %v", tt.width, tt.height, got, tt.want)
			}
		})
	}
}

func TestMessageSignal(t *testing.T) {
	sig, err := Message{Action: ActionContextMenuScan, Src: "https://x/img/charizard.png"}.Signal()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig.SourceURL != "https://x/img/charizard.png" || sig.AltText != "" {
		t.Errorf("unexpected signal %+v", sig)
	}

	if _, err := (Message{Action: "openTab", Src: "https://x/a.png"}).Signal(); !errors.Is(err, ErrUnsupportedAction) {
		t.Errorf("expected ErrUnsupportedAction, got %v", err)
	}
	if _, err := (Message{Action: ActionContextMenuScan}).Signal(); !errors.Is(err, ErrMissingSource) {
		t.Errorf("expected ErrMissingSource, got %v", err)
	}
}

func TestHoverSignal(t *testing.T) {
	sig, err := Hover{Src: "https://x/a.jpg", Alt: "Pikachu", Width: 200, Height: 280}.Signal()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig.AltText != "Pikachu" {
		t.Errorf("alt text not carried: %+v", sig)
	}

	if _, err := (Hover{Src: "https://x/a.jpg", Width: 50, Height: 280}).Signal(); !errors.Is(err, ErrImageTooSmall) {
		t.Errorf("expected ErrImageTooSmall, got %v", err)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestAffordances_OncePerImage(t *testing.T) {
	tr := NewAffordances(time.Hour)
	h := Hover{Src: "https://x/a.jpg", Width: 200, Height: 200}

	first, created, err := tr.Show(h)
	if err != nil || !created {
		t.Fatalf("first Show: created=%v err=%v", created, err)
	}
	second, created, err := tr.Show(h)
	if err != nil || created {
		t.Fatalf("second Show: created=%v err=%v", created, err)
	}
	if first != second {
		t.Error("expected the same button for the same image")
	}
	if tr.Len() != 1 {
		t.Errorf("expected 1 button, got %d", tr.Len())
	}

	if _, _, err := tr.Show(Hover{Src: "https://x/icon.png", Width: 32, Height: 32}); !errors.Is(err, ErrImageTooSmall) {
		t.Errorf("expected ErrImageTooSmall, got %v", err)
	}
}

func TestAffordance_GraceExpires(t *testing.T) {
	tr := NewAffordances(20 * time.Millisecond)
	a, _, _ := tr.Show(Hover{Src: "https://x/a.jpg", Width: 200, Height: 200})

	a.ImageLeave()
	waitFor(t, a.Dismissed)
	waitFor(t, func() bool { return tr.Len() == 0 })
}

func TestAffordance_StaysWhileOverButton(t *testing.T) {
	tr := NewAffordances(20 * time.Millisecond)
	a, _, _ := tr.Show(Hover{Src: "https://x/a.jpg", Width: 200, Height: 200})

	a.ImageLeave()
	a.ButtonEnter()
	time.Sleep(60 * time.Millisecond)
	if a.Dismissed() {
		t.Fatal("button dismissed while pointer was over it")
	}

	a.ButtonLeave()
	waitFor(t, a.Dismissed)
}

func TestAffordance_Click(t *testing.T) {
	tr := NewAffordances(time.Hour)
	a, _, _ := tr.Show(Hover{Src: "https://x/umbreon.jpg", Alt: "Umbreon VMAX", Width: 245, Height: 342})

	sig, err := a.Click()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig.SourceURL != "https://x/umbreon.jpg" || sig.AltText != "Umbreon VMAX" {
		t.Errorf("unexpected signal %+v", sig)
	}
	if !a.Dismissed() || tr.Len() != 0 {
		t.Error("click should dismiss the button immediately")
	}
	if _, err := a.Click(); !errors.Is(err, ErrDismissed) {
		t.Errorf("expected ErrDismissed on second click, got %v", err)
	}

	// a fresh hover gets a new button
	if _, created, _ := tr.Show(a.Hover()); !created {
		t.Error("expected a new button after dismissal")
	}
}

func TestAffordances_Clear(t *testing.T) {
	tr := NewAffordances(time.Hour)
	a, _, _ := tr.Show(Hover{Src: "https://x/a.jpg", Width: 200, Height: 200})
	tr.Show(Hover{Src: "https://x/b.jpg", Width: 200, Height: 200})

	tr.Clear()
	if tr.Len() != 0 || !a.Dismissed() {
		t.Error("Clear should dismiss all buttons")
	}
}

func TestExtractImages(t *testing.T) {
	page := `<html><head><base href="/shop/"></head><body>
		<img src="cards/charizard-base-set.jpg" alt="Charizard Holo" width="245" height="342">
		<img src="https://cdn.example.com/pikachu.png" width="200px" height="280px">
		<img src="/icons/cart.png" alt="cart" width="24" height="24">
		<img src="cards/nosize.jpg" alt="no size">
		<img src="data:image/png;base64,AAAA" width="300" height="300">
		<img src="cards/charizard-base-set.jpg" width="245" height="342">
	</body></html>`

	images, err := ExtractImages(strings.NewReader(page), "https://example.com/listing/42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(images) != 2 {
		t.Fatalf("expected 2 images, got %d: %+v", len(images), images)
	}

	if images[0].SourceURL != "https://example.com/shop/cards/charizard-base-set.jpg" {
		t.Errorf("unexpected first url %q", images[0].SourceURL)
	}
	if images[0].AltText != "Charizard Holo" || images[0].Width != 245 || images[0].Height != 342 {
		t.Errorf("unexpected first image %+v", images[0])
	}
	if images[1].SourceURL != "https://cdn.example.com/pikachu.png" || images[1].Width != 200 {
		t.Errorf("unexpected second image %+v", images[1])
	}
}

func TestExtractImages_BadBase(t *testing.T) {
	if _, err := ExtractImages(strings.NewReader("<img>"), "://bad"); err == nil {
		t.Error("expected error for invalid base url")
	}
}
