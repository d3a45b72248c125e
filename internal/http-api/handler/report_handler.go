package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"foundhub/internal/http-api/repository"
	"foundhub/internal/http-api/service"
)

type ReportHandler struct {
	svc service.ReportService
}

func NewReportHandler(svc service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/frequent-lost", h.FrequentLost)
	rg.GET("/claimed", h.Claimed)
}

// parseDateRange reads optional start/end query params as YYYY-MM-DD.
func parseDateRange(c *gin.Context) (start, end *time.Time, ok bool) {
	if v := c.Query("start"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start must be YYYY-MM-DD"})
			return nil, nil, false
		}
		start = &parsed
	}
	if v := c.Query("end"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end must be YYYY-MM-DD"})
			return nil, nil, false
		}
		// End of that day, so the range is inclusive.
		e := parsed.AddDate(0, 0, 1).Add(-time.Nanosecond)
		end = &e
	}
	return start, end, true
}

func (h *ReportHandler) FrequentLost(c *gin.Context) {
	start, end, ok := parseDateRange(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	rows, err := h.svc.FrequentLostItems(ctx, start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if rows == nil {
		rows = []repository.CategoryCount{}
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (h *ReportHandler) Claimed(c *gin.Context) {
	start, end, ok := parseDateRange(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	rows, err := h.svc.ClaimedItems(ctx, start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if rows == nil {
		rows = []repository.CategoryCount{}
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (h *ReportHandler) HomeStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	stats, err := h.svc.HomeStats(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}
