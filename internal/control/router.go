package control

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"headline-trader/internal/store"
	"headline-trader/internal/types"
)

// runRequest holds optional per-run overrides of the base configuration.
type runRequest struct {
	Mode          string `json:"mode"`
	HeadlineLimit int    `json:"headline_limit"`
}

// NewRouter exposes the controller over HTTP. base is copied for every run.
func NewRouter(c *Controller, base *store.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "ok")
	})

	api := r.Group("/api")
	{
		api.POST("/run", func(ctx *gin.Context) {
			var req runRequest
			// an empty body means no overrides
			if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			cfg := *base
			if req.Mode != "" {
				cfg.Mode = req.Mode
			}
			if req.HeadlineLimit != 0 {
				cfg.HeadlineLimit = req.HeadlineLimit
			}
			if err := cfg.Validate(); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			if err := c.StartRun(&cfg); err != nil {
				status := http.StatusInternalServerError
				if errors.Is(err, types.ErrRunInProgress) {
					status = http.StatusConflict
				}
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusAccepted, gin.H{"started": true, "mode": cfg.Mode})
		})

		api.POST("/stop", func(ctx *gin.Context) {
			c.RequestStop()
			ctx.JSON(http.StatusOK, gin.H{"stop_requested": true, "running": c.Status().Running})
		})

		api.GET("/logs", func(ctx *gin.Context) {
			n, err := strconv.Atoi(ctx.DefaultQuery("n", "100"))
			if err != nil || n < 0 {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "n must be a non-negative integer"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"entries": c.RecentLogEntries(n)})
		})

		api.GET("/status", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, c.Status())
		})
	}

	return r
}
