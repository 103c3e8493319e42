package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/pokeprice/internal/chart"
	"github.com/codyseavey/pokeprice/internal/overlay"
)

// maxExportDimension caps the PNG size a client may request
const maxExportDimension = 2000

// ChartSVG serves the current chart as SVG
func (h *OverlayHandler) ChartSVG(c *gin.Context) {
	_, current, ok := h.currentChart(c)
	if !ok {
		return
	}
	c.Data(http.StatusOK, "image/svg+xml", chart.SVG(current.Path, current.Canvas))
}

// ChartPNG rasterizes the current chart. Optional width and height query
// parameters scale the output.
func (h *OverlayHandler) ChartPNG(c *gin.Context) {
	_, current, ok := h.currentChart(c)
	if !ok {
		return
	}

	width, err := dimensionParam(c, "width", int(current.Canvas.Width))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	height, err := dimensionParam(c, "height", int(current.Canvas.Height))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	data, err := chart.PNG(chart.SVG(current.Path, current.Canvas), width, height)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render chart: " + err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}

// ChartHTML serves the current series as an interactive page
func (h *OverlayHandler) ChartHTML(c *gin.Context) {
	sess, current, ok := h.currentChart(c)
	if !ok {
		return
	}

	cfg := chart.DefaultHTMLConfig()
	if card := sess.Controller.Card(); card != nil {
		cfg.Title = card.Name + " (" + current.Range.Label() + ")"
	}

	var buf bytes.Buffer
	if err := chart.HTML(&buf, current.Series, current.Range.Months(), cfg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render chart: " + err.Error()})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (h *OverlayHandler) currentChart(c *gin.Context) (*overlay.Session, *overlay.Chart, bool) {
	sess, ok := h.session(c)
	if !ok {
		return nil, nil, false
	}
	current := sess.Controller.Chart()
	if current == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no chart drawn yet"})
		return nil, nil, false
	}
	return sess, current, true
}

func dimensionParam(c *gin.Context, name string, def int) (int, error) {
	v := c.Query(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 || n > maxExportDimension {
		return 0, fmt.Errorf("invalid %s %q: must be between 1 and %d", name, v, maxExportDimension)
	}
	return n, nil
}
