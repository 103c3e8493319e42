package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/pokeprice/internal/query"
	"github.com/codyseavey/pokeprice/internal/trigger"
)

type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

type pageImagesRequest struct {
	HTML    string `json:"html" binding:"required"`
	BaseURL string `json:"base_url"`
}

type normalizeResponse struct {
	Candidate  string `json:"candidate"`
	Query      string `json:"query"`
	Identified bool   `json:"identified"`
}

// PageImages lists the scannable images of a page snapshot
func (h *PageHandler) PageImages(c *gin.Context) {
	var req pageImagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	images, err := trigger.ExtractImages(strings.NewReader(req.HTML), req.BaseURL)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if images == nil {
		images = []trigger.PageImage{}
	}
	c.JSON(http.StatusOK, gin.H{
		"images": images,
		"count":  len(images),
	})
}

// Normalize previews the query derived from image metadata
func (h *PageHandler) Normalize(c *gin.Context) {
	alt := c.Query("alt")
	src := c.Query("src")
	if alt == "" && src == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'alt' or 'src' is required"})
		return
	}

	q, ok := query.Normalize(alt, src)
	c.JSON(http.StatusOK, normalizeResponse{
		Candidate:  query.Candidate(alt, src),
		Query:      q,
		Identified: ok,
	})
}
