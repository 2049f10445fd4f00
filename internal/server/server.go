package server

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"clubhub-bot/internal/config"
	"clubhub-bot/internal/eventapi"
	"clubhub-bot/internal/export"
	"clubhub-bot/internal/models"
	"clubhub-bot/internal/server/middleware"
	"clubhub-bot/internal/util"
)

type ParticipantSource interface {
	ListParticipants(ctx context.Context, eventID string) ([]models.Registration, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Participants ParticipantSource
	// Redis is nil when sessions are kept in memory.
	Redis Pinger
	Log   *logrus.Entry
}

func New(cfg config.Config, deps Deps) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           Router(cfg, deps),
		ReadHeaderTimeout: 3 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
}

func Router(cfg config.Config, deps Deps) *gin.Engine {
	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	log := deps.Log.WithField("component", "http")

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(log))

	router.GET("/healthz", func(c *gin.Context) {
		body := gin.H{"status": "ok", "ts": util.NowISO()}
		if deps.Redis != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := deps.Redis.Ping(ctx); err != nil {
				body["status"] = "degraded"
				body["redis"] = err.Error()
				c.JSON(http.StatusServiceUnavailable, body)
				return
			}
			body["redis"] = "ok"
		}
		c.JSON(http.StatusOK, body)
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// CSV export (organizer link with token = HMAC)
	router.GET("/export/participants.csv", func(c *gin.Context) {
		eventID := c.Query("event_id")
		token := c.Query("token")
		if cfg.ExportSecret == "" {
			c.String(http.StatusNotFound, "export disabled")
			return
		}
		if eventID == "" || token == "" {
			c.String(http.StatusBadRequest, "event_id and token required")
			return
		}
		if !util.ValidHMAC(cfg.ExportSecret, "export:"+eventID, token) {
			c.String(http.StatusForbidden, "invalid token")
			return
		}

		regs, err := deps.Participants.ListParticipants(c.Request.Context(), eventID)
		if err != nil {
			log.WithError(err).WithField("event_id", eventID).Warn("export: list participants")
			if errors.Is(err, eventapi.ErrNotFound) {
				c.String(http.StatusNotFound, "event not found")
				return
			}
			c.String(http.StatusBadGateway, "event platform unavailable")
			return
		}

		csv, err := export.CSV(regs)
		if err != nil {
			c.String(http.StatusInternalServerError, err.Error())
			return
		}
		c.Header("Content-Disposition", attachment("participants_"+eventID+".csv"))
		c.Data(http.StatusOK, "text/csv; charset=utf-8", csv)
	})

	return router
}

func attachment(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "attachment"
}

// ExportURL is the public CSV link for one event.
func ExportURL(cfg config.Config, eventID string) string {
	q := url.Values{}
	q.Set("event_id", eventID)
	q.Set("token", util.ExportToken(cfg.ExportSecret, eventID))
	return cfg.PublicURL() + "/export/participants.csv?" + q.Encode()
}
