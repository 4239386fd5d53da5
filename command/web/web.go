package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"fuel-dashboard/connectors/config"
	ccsv "fuel-dashboard/connectors/csv"
	dc "fuel-dashboard/domain/config"
	"fuel-dashboard/domain/fuel"
)

// NewCommand returns the web subcommand.
//
// Usage:
//
//	fuel-dashboard web [--addr :8080] [--ui ./ui/dist]
//
// Endpoints:
//
//	POST   /api/upload      multipart field "file" -> dashboard for the latest date
//	GET    /api/dashboard   ?date=YYYY-MM-DD -> full dashboard
//	GET    /api/metrics     metric values and tiles
//	GET    /api/dates       selectable dates
//	GET    /api/capacity    capacity per sector bar chart
//	GET    /api/trends      daily consumption and stock trends
//	GET    /api/sectors     ?date=YYYY-MM-DD -> per sector post charts
//	DELETE /api/session     discard the uploaded table
//	GET    /api/health
//
// When --ui points to a built app (index.html exists), static files are served at / and
// unknown routes fall back to index.html for SPA routing.
func NewCommand(load func() (*config.Config, error)) *cobra.Command {
	var addr, uiDir string
	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the dashboard API and optional UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if uiDir != "" {
				cfg.Server.UIDir = uiDir
			}
			return Run(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "http listen address (host:port), overrides server.addr")
	cmd.Flags().StringVar(&uiDir, "ui", "", "directory containing built UI, overrides server.ui_dir")
	return cmd
}

// Run serves until ctx is cancelled or the process receives SIGINT/SIGTERM.
func Run(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	e := NewServer(cfg)
	errCh := make(chan error, 1)
	go func() {
		slog.Info("web.start", "addr", cfg.Server.Addr, "weekday_filter", cfg.Pipeline.ApplyWeekdayFilter,
			"trailing_days", cfg.Pipeline.TrailingWindowDays, "trailing_metric", cfg.Pipeline.TrailingMetric, "auth", cfg.Auth.Enabled(), "session_ttl", cfg.Server.SessionTTL)
		errCh <- e.Start(cfg.Server.Addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	slog.Info("web.shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// NewServer builds the echo instance with all routes registered.
func NewServer(cfg *config.Config) *echo.Echo {
	return newServer(cfg, newSessionStore(cfg.Server.SessionTTL))
}

func newServer(cfg *config.Config, sessions *sessionStore) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(requestLogger())
	if cfg.Server.MaxUpload != "" {
		e.Use(middleware.BodyLimit(cfg.Server.MaxUpload))
	}
	if cfg.Auth.Enabled() {
		e.Use(basicAuth(cfg.Auth))
	}

	h := &handler{pipeline: cfg.Pipeline, sessions: sessions}

	// APIs
	e.GET("/api/health", h.health)
	e.POST("/api/upload", h.upload)
	e.GET("/api/dashboard", h.dashboard)
	e.GET("/api/metrics", h.metrics)
	e.GET("/api/dates", h.dates)
	e.GET("/api/capacity", h.capacity)
	e.GET("/api/trends", h.trends)
	e.GET("/api/sectors", h.sectors)
	e.DELETE("/api/session", h.reset)

	// Static UI (optional)
	indexPath := filepath.Join(cfg.Server.UIDir, "index.html")
	if fi, err := os.Stat(indexPath); err == nil && !fi.IsDir() {
		// Serve built assets under /
		e.Static("/", cfg.Server.UIDir)
		e.GET("/", func(c echo.Context) error { return c.File(indexPath) })

		// Fallback to index.html for non-API 404s (SPA routing) while keeping static assets working
		e.HTTPErrorHandler = func(err error, c echo.Context) {
			if he, ok := err.(*echo.HTTPError); ok && he.Code == http.StatusNotFound {
				if !strings.HasPrefix(c.Request().URL.Path, "/api") {
					_ = c.File(indexPath)
					return
				}
			}
			e.DefaultHTTPErrorHandler(err, c)
		}
	}
	return e
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				slog.Warn("http.request", append(attrs, "error", v.Error)...)
				return nil
			}
			slog.Debug("http.request", attrs...)
			return nil
		},
	})
}

type handler struct {
	pipeline dc.Pipeline
	sessions *sessionStore
}

func (h *handler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"status": "ok", "sessions": h.sessions.Count()})
}

// upload parses the posted CSV and replaces the session table. The old table
// stays in place until the new one is fully built.
func (h *handler) upload(c echo.Context) error {
	id := sessionID(c)
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"error":   err.Error(),
			"message": "multipart field \"file\" is required",
		})
	}
	slog.Info("upload.start", "file", fh.Filename, "size", fh.Size)
	f, err := fh.Open()
	if err != nil {
		return internalError(c, fmt.Errorf("opening upload: %w", err))
	}
	defer f.Close()

	raw, err := ccsv.ReadTable(f)
	if err != nil {
		var dfe *fuel.DataFormatError
		if errors.As(err, &dfe) {
			slog.Warn("upload.format.error", "file", fh.Filename, "error", err)
			return c.JSON(http.StatusUnprocessableEntity, map[string]any{
				"error":            err.Error(),
				"message":          "Please ensure your CSV file has the correct columns and data format.",
				"required_columns": fuel.RequiredColumns,
			})
		}
		return internalError(c, fmt.Errorf("reading upload: %w", err))
	}

	working := fuel.Prepare(raw, h.pipeline)
	h.sessions.Put(id, &session{File: fh.Filename, UploadedAt: time.Now(), Raw: len(raw), Working: working})
	slog.Info("upload.done", "file", fh.Filename, "rows", len(raw), "working", len(working))

	return c.JSON(http.StatusOK, h.build(working, nil))
}

func (h *handler) dashboard(c echo.Context) error {
	return h.withDashboard(c, func(d fuel.Dashboard) any { return d })
}

func (h *handler) metrics(c echo.Context) error {
	return h.withDashboard(c, func(d fuel.Dashboard) any {
		return map[string]any{"metrics": d.Metrics.Values(), "tiles": d.Tiles}
	})
}

func (h *handler) dates(c echo.Context) error {
	return h.withDashboard(c, func(d fuel.Dashboard) any { return d.Dates })
}

func (h *handler) capacity(c echo.Context) error {
	return h.withDashboard(c, func(d fuel.Dashboard) any { return d.CapacityBySector })
}

func (h *handler) trends(c echo.Context) error {
	return h.withDashboard(c, func(d fuel.Dashboard) any { return d.Trends })
}

func (h *handler) sectors(c echo.Context) error {
	return h.withDashboard(c, func(d fuel.Dashboard) any {
		return map[string]any{
			"selected_date": d.SelectedDate,
			"sectors":       d.Sectors,
			"no_data":       d.NoData,
			"notices":       d.Notices,
		}
	})
}

func (h *handler) reset(c echo.Context) error {
	h.sessions.Delete(sessionID(c))
	return c.NoContent(http.StatusNoContent)
}

// withDashboard runs one recomputation pass for the caller's session and
// renders the part selected by pick.
func (h *handler) withDashboard(c echo.Context, pick func(fuel.Dashboard) any) error {
	sess, ok := h.sessions.Get(sessionID(c))
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]any{
			"error":   fuel.ErrNoData.Error(),
			"message": "Please upload a CSV file to begin.",
		})
	}
	date, err := dateParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, pick(h.build(sess.Working, date)))
}

func (h *handler) build(working fuel.Table, date *time.Time) fuel.Dashboard {
	return fuel.BuildDashboard(working, h.pipeline, date)
}

func dateParam(c echo.Context) (*time.Time, error) {
	raw := c.QueryParam("date")
	if raw == "" {
		return nil, nil
	}
	d, err := fuel.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func internalError(c echo.Context, err error) error {
	slog.Error("web.error", "path", c.Request().URL.Path, "error", err)
	return c.JSON(http.StatusInternalServerError, map[string]any{
		"error":   err.Error(),
		"message": "failed to process the request",
	})
}
