package api

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sadopc/pomoscreen/internal/scheduler"
	"github.com/sadopc/pomoscreen/internal/store"
)

const maxStatsDays = 90

// StatsSource is the read side of the statistics store.
type StatsSource interface {
	GetTodaySummary() (store.DailySummary, error)
	GetDailySummary(from, to time.Time) ([]store.DailySummary, error)
}

type Handler struct {
	board    *StatusBoard
	dispatch Dispatcher
	stats    StatsSource
	logger   *slog.Logger
	now      func() time.Time
}

func NewHandler(board *StatusBoard, dispatch Dispatcher, stats StatsSource, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler{
		board:    board,
		dispatch: dispatch,
		stats:    stats,
		logger:   logger,
		now:      time.Now,
	}
}

type statusResponse struct {
	scheduler.Snapshot
	UpdatedAt *time.Time `json:"updated_at"`
}

type summaryResponse struct {
	Date                   string `json:"date"`
	CompletedPomodoros     int    `json:"completed_pomodoros"`
	WorkSeconds            int64  `json:"work_seconds"`
	ShortBreaks            int    `json:"short_breaks"`
	LongBreaks             int    `json:"long_breaks"`
	BreakSeconds           int64  `json:"break_seconds"`
	CancelledBreaks        int    `json:"cancelled_breaks"`
	ScreenLocks            int    `json:"screen_locks"`
	ScreensaverActivations int    `json:"screensaver_activations"`
	StayUpLate             int    `json:"stay_up_late"`
}

func toSummaryResponse(ds store.DailySummary) summaryResponse {
	return summaryResponse{
		Date:                   ds.Date,
		CompletedPomodoros:     ds.CompletedPomodoros,
		WorkSeconds:            ds.WorkSeconds,
		ShortBreaks:            ds.ShortBreaks,
		LongBreaks:             ds.LongBreaks,
		BreakSeconds:           ds.BreakSeconds,
		CancelledBreaks:        ds.CancelledBreaks,
		ScreenLocks:            ds.ScreenLocks,
		ScreensaverActivations: ds.ScreensaverActivations,
		StayUpLate:             ds.StayUpLate,
	}
}

func (h *Handler) GetStatus(c *gin.Context) {
	snap, at := h.board.Current()
	resp := statusResponse{Snapshot: snap}
	if !at.IsZero() {
		resp.UpdatedAt = &at
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) PostCommand(c *gin.Context) {
	cmd, err := ParseCommand(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error() + ": " + c.Param("name")})
		return
	}
	h.accept(c, cmd)
}

func (h *Handler) PostEvent(c *gin.Context) {
	cmd, err := ParseEventCommand(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error() + ": " + c.Param("name")})
		return
	}
	h.accept(c, cmd)
}

func (h *Handler) accept(c *gin.Context, cmd Command) {
	h.logger.Info("api command accepted", "kind", cmd.Kind, "name", cmd.Name)
	h.dispatch(cmd)
	c.JSON(http.StatusAccepted, gin.H{"accepted": cmd.Name, "kind": cmd.Kind})
}

func (h *Handler) GetTodayStats(c *gin.Context) {
	if h.stats == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "statistics unavailable"})
		return
	}
	ds, err := h.stats.GetTodaySummary()
	if err != nil {
		h.logger.Error("today stats", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load statistics"})
		return
	}
	c.JSON(http.StatusOK, toSummaryResponse(ds))
}

// GetDailyStats returns one entry per day for the last ?days= days
// (default 7), oldest first. Days without events are omitted.
func (h *Handler) GetDailyStats(c *gin.Context) {
	if h.stats == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "statistics unavailable"})
		return
	}
	days := 7
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxStatsDays {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 1 and 90"})
			return
		}
		days = n
	}

	end := h.now().UTC().Truncate(24*time.Hour).AddDate(0, 0, 1)
	summaries, err := h.stats.GetDailySummary(end.AddDate(0, 0, -days), end)
	if err != nil {
		h.logger.Error("daily stats", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load statistics"})
		return
	}

	resp := make([]summaryResponse, 0, len(summaries))
	for _, ds := range summaries {
		resp = append(resp, toSummaryResponse(ds))
	}
	c.JSON(http.StatusOK, gin.H{"days": days, "summaries": resp})
}
