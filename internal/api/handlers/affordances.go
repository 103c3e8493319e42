package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/pokeprice/internal/overlay"
	"github.com/codyseavey/pokeprice/internal/trigger"
)

// Pointer events reported for a scan button
const (
	pointerImageLeave  = "image_leave"
	pointerButtonEnter = "button_enter"
	pointerButtonLeave = "button_leave"
)

type pointerRequest struct {
	Src   string `json:"src" binding:"required"`
	Event string `json:"event" binding:"required"`
}

type clickRequest struct {
	Src string `json:"src" binding:"required"`
}

type affordanceResponse struct {
	Src       string `json:"src"`
	Created   bool   `json:"created,omitempty"`
	Dismissed bool   `json:"dismissed"`
}

// ShowAffordance shows the scan button for a hovered image, once per image
func (h *OverlayHandler) ShowAffordance(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var hover trigger.Hover
	if err := c.ShouldBindJSON(&hover); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a, created, err := sess.Affordances.Show(hover)
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, affordanceResponse{Src: a.Hover().Src, Created: created, Dismissed: a.Dismissed()})
}

// AffordancePointer reports pointer movement around a scan button
func (h *OverlayHandler) AffordancePointer(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req pointerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, ok := h.affordance(c, sess, req.Src)
	if !ok {
		return
	}

	switch req.Event {
	case pointerImageLeave:
		a.ImageLeave()
	case pointerButtonEnter:
		a.ButtonEnter()
	case pointerButtonLeave:
		a.ButtonLeave()
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "event must be image_leave, button_enter or button_leave"})
		return
	}
	c.JSON(http.StatusOK, affordanceResponse{Src: req.Src, Dismissed: a.Dismissed()})
}

// ClickAffordance dismisses the scan button and scans its image
func (h *OverlayHandler) ClickAffordance(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req clickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, ok := h.affordance(c, sess, req.Src)
	if !ok {
		return
	}

	signal, err := a.Click()
	if err != nil {
		respondError(c, err)
		return
	}
	h.startScan(c, sess, triggerButton, signal)
}

func (h *OverlayHandler) affordance(c *gin.Context, sess *overlay.Session, src string) (*trigger.Affordance, bool) {
	a, ok := sess.Affordances.Get(src)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no scan button for image"})
		return nil, false
	}
	return a, true
}
