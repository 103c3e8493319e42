package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/pokeprice/internal/metrics"
	"github.com/codyseavey/pokeprice/internal/models"
	"github.com/codyseavey/pokeprice/internal/overlay"
	"github.com/codyseavey/pokeprice/internal/trigger"
)

// Scan trigger labels
const (
	triggerScan    = "scan"
	triggerMessage = "context_menu"
	triggerHover   = "hover"
	triggerButton  = "button"
	triggerManual  = "manual"
)

type OverlayHandler struct {
	sessions *overlay.SessionStore
}

func NewOverlayHandler(sessions *overlay.SessionStore) *OverlayHandler {
	return &OverlayHandler{
		sessions: sessions,
	}
}

type overlayResponse struct {
	ID    string            `json:"id"`
	Panel overlay.PanelView `json:"panel"`
}

type manualRequest struct {
	Query string `json:"query" binding:"required"`
}

type rangeRequest struct {
	Range string `json:"range" binding:"required"`
}

// CreateOverlay starts a new hidden overlay
func (h *OverlayHandler) CreateOverlay(c *gin.Context) {
	sess := h.sessions.Create()
	c.JSON(http.StatusCreated, overlayResponse{ID: sess.ID, Panel: sess.Panel.View()})
}

// GetOverlay returns the overlay's panel
func (h *OverlayHandler) GetOverlay(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, overlayResponse{ID: sess.ID, Panel: sess.Panel.View()})
}

// DeleteOverlay discards the overlay and disconnects its event streams
func (h *OverlayHandler) DeleteOverlay(c *gin.Context) {
	id := c.Param("id")
	if !h.sessions.Delete(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": overlay.ErrSessionNotFound.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "overlay deleted"})
}

// Scan starts a scan from image metadata
func (h *OverlayHandler) Scan(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var signal models.ImageSignal
	if err := c.ShouldBindJSON(&signal); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if signal.SourceURL == "" && signal.AltText == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "src_url or alt_text is required"})
		return
	}

	h.startScan(c, sess, triggerScan, signal)
}

// HandleMessage accepts a message from the host page's context menu
func (h *OverlayHandler) HandleMessage(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var msg trigger.Message
	if err := c.ShouldBindJSON(&msg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	signal, err := msg.Signal()
	if err != nil {
		respondError(c, err)
		return
	}

	h.startScan(c, sess, triggerMessage, signal)
}

// Hover scans the image a hover button was shown for
func (h *OverlayHandler) Hover(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var hover trigger.Hover
	if err := c.ShouldBindJSON(&hover); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	signal, err := hover.Signal()
	if err != nil {
		respondError(c, err)
		return
	}

	h.startScan(c, sess, triggerHover, signal)
}

// SubmitManual searches with the text typed into the fallback form
func (h *OverlayHandler) SubmitManual(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req manualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := sess.Controller.SubmitManual(c.Request.Context(), req.Query); err != nil {
		respondError(c, err)
		return
	}
	recordScan(triggerManual, sess)
	c.JSON(http.StatusOK, overlayResponse{ID: sess.ID, Panel: sess.Panel.View()})
}

// SwitchRange redraws the chart for another range
func (h *OverlayHandler) SwitchRange(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req rangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := sess.Controller.SwitchRange(models.Range(req.Range)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overlayResponse{ID: sess.ID, Panel: sess.Panel.View()})
}

// CloseOverlay hides the panel
func (h *OverlayHandler) CloseOverlay(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	sess.Controller.Close()
	c.JSON(http.StatusOK, overlayResponse{ID: sess.ID, Panel: sess.Panel.View()})
}

func (h *OverlayHandler) startScan(c *gin.Context, sess *overlay.Session, source string, signal models.ImageSignal) {
	if err := sess.Controller.StartScan(c.Request.Context(), signal); err != nil {
		respondError(c, err)
		return
	}
	recordScan(source, sess)
	c.JSON(http.StatusOK, overlayResponse{ID: sess.ID, Panel: sess.Panel.View()})
}

// session resolves the :id parameter, writing a 404 when it is unknown
func (h *OverlayHandler) session(c *gin.Context) (*overlay.Session, bool) {
	sess, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil, false
	}
	return sess, true
}

func recordScan(source string, sess *overlay.Session) {
	metrics.ScansTotal.WithLabelValues(source, sess.Controller.State().String()).Inc()
}

// respondError maps domain errors onto HTTP status codes
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, overlay.ErrInvalidTransition),
		errors.Is(err, trigger.ErrDismissed):
		status = http.StatusConflict
	case errors.Is(err, overlay.ErrUnknownRange),
		errors.Is(err, overlay.ErrEmptyQuery),
		errors.Is(err, trigger.ErrUnsupportedAction),
		errors.Is(err, trigger.ErrImageTooSmall),
		errors.Is(err, trigger.ErrMissingSource):
		status = http.StatusBadRequest
	case errors.Is(err, overlay.ErrSessionNotFound):
		status = http.StatusNotFound
	default:
		log.Printf("Overlay: request failed: %v", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
