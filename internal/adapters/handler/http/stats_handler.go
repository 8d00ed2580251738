package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/kanso-insights/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-insights/internal/core/domain"
	"github.com/comitanigiacomo/kanso-insights/internal/core/services"
)

type StatsHandler struct {
	svc *services.StatsService
}

func NewStatsHandler(svc *services.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

func (h *StatsHandler) RegisterRoutes(r *gin.RouterGroup) {
	stats := r.Group("/stats")
	{
		stats.GET("/report", h.GetReport)
		stats.GET("/annual", h.GetAnnual)
		stats.GET("/compare", h.GetComparison)
		stats.GET("/week", h.GetWeek)
		stats.GET("/month", h.GetMonth)
		stats.GET("/day", h.GetDay)
		stats.POST("/refresh", h.Refresh)
	}
}

// parseView reads year, month (1-12), week_offset and start_of_week. Missing
// values default to the current month and week.
func (h *StatsHandler) parseView(c *gin.Context) (domain.ViewWindow, error) {
	view := h.svc.DefaultView()

	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return view, fmt.Errorf("%w: year must be a number", domain.ErrInvalidView)
		}
		view.Year = year
	}

	if raw := c.Query("month"); raw != "" {
		month, err := strconv.Atoi(raw)
		if err != nil || month < 1 || month > 12 {
			return view, fmt.Errorf("%w: month must be between 1 and 12", domain.ErrInvalidView)
		}
		view.MonthIndex = month - 1
	}

	if raw := c.Query("week_offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			return view, fmt.Errorf("%w: week_offset must be a number", domain.ErrInvalidView)
		}
		view.WeekOffset = offset
	}

	if raw := c.Query("start_of_week"); raw != "" {
		sow, err := domain.ParseStartOfWeek(raw)
		if err != nil {
			return view, fmt.Errorf("%w: %v", domain.ErrInvalidView, err)
		}
		view.StartOfWeek = sow
	}

	return view, view.Validate()
}

func (h *StatsHandler) userID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok || userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return "", false
	}
	return userID, true
}

func (h *StatsHandler) handleError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrInvalidView) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	log.WithField("path", c.FullPath()).Errorf("stats request failed: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to calculate stats"})
}

func (h *StatsHandler) GetReport(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	view, err := h.parseView(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	report, err := h.svc.Report(c.Request.Context(), userID, view)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *StatsHandler) GetAnnual(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	view, err := h.parseView(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	annual, err := h.svc.Annual(c.Request.Context(), userID, view)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, annual)
}

func (h *StatsHandler) GetComparison(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	view, err := h.parseView(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	cmp, err := h.svc.Compare(c.Request.Context(), userID, view)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, cmp)
}

func (h *StatsHandler) GetWeek(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	view, err := h.parseView(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	week, err := h.svc.Week(c.Request.Context(), userID, view)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, week)
}

func (h *StatsHandler) GetMonth(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	view, err := h.parseView(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	month, err := h.svc.Month(c.Request.Context(), userID, view)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, month)
}

func (h *StatsHandler) GetDay(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	day := h.svc.Today()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(domain.DateKeyLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, expected YYYY-MM-DD"})
			return
		}
		day = parsed
	}

	stat, err := h.svc.Day(c.Request.Context(), userID, day)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, stat)
}

// Refresh is called after the user's habits or completions changed.
func (h *StatsHandler) Refresh(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	if err := h.svc.Invalidate(c.Request.Context(), userID); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "refresh scheduled"})
}
