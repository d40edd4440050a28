// Package api exposes the timer state and remote controls over a local
// HTTP interface.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/sadopc/pomoscreen/internal/mw"
	"golang.org/x/time/rate"
)

const (
	// RateLimit and RateBurst bound requests per client.
	RateLimit = 10
	RateBurst = 5

	statsCacheTTL = 15 * time.Second
)

func NewRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), mw.Logger(h.logger))

	statsCache := cache.New(statsCacheTTL, time.Minute)

	api := r.Group("/api")
	api.Use(mw.RateLimiter(rate.Limit(RateLimit), RateBurst))
	{
		api.GET("/status", h.GetStatus)
		api.POST("/commands/:name", h.PostCommand)
		api.POST("/events/:name", h.PostEvent)

		stats := api.Group("/stats")
		stats.Use(mw.Cache(statsCache, statsCacheTTL))
		stats.GET("/today", h.GetTodayStats)
		stats.GET("/daily", h.GetDailyStats)
	}

	return r
}

// Serve listens on 127.0.0.1:port until ctx is cancelled.
func Serve(ctx context.Context, port int, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf("127.0.0.1:%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("api listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("api server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("api shutdown: %w", err)
		}
		return nil
	}
}
