package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"HoldingsView/internal/collector"
	"HoldingsView/internal/model"
	"HoldingsView/internal/period"
	"HoldingsView/internal/recorder"
)

// maxWatchSymbols bounds a single watchlist request.
const maxWatchSymbols = 50

// Defaults fill in query parameters a request leaves out.
type Defaults struct {
	Period      string
	Interval    string
	Concurrency int
}

// Server exposes series over HTTP.
type Server struct {
	source   collector.Source
	recorder recorder.Recorder
	defaults Defaults
	log      *zap.Logger
	srv      *http.Server
}

// NewServer creates a Server listening on addr. A nil recorder disables /api/fetches.
func NewServer(addr string, src collector.Source, rec recorder.Recorder, defaults Defaults, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{source: src, recorder: rec, defaults: defaults, log: log}
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Router builds the gin engine.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	api := r.Group("/api")
	{
		api.GET("/series/:symbol", s.getSeries)
		api.GET("/watchlist", s.getWatchlist)
		api.GET("/fetches", s.getFetches)
	}
	return r
}

// ListenAndServe blocks until the server stops. A clean shutdown returns nil.
func (s *Server) ListenAndServe() error {
	s.log.Info("http server listening", zap.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) query(c *gin.Context) (displayPeriod, interval string, ok bool) {
	displayPeriod = c.DefaultQuery("period", s.defaults.Period)
	interval = c.DefaultQuery("interval", s.defaults.Interval)
	if !period.ValidInterval(interval) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown interval " + strconv.Quote(interval)})
		return "", "", false
	}
	return displayPeriod, interval, true
}

func (s *Server) getSeries(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	displayPeriod, interval, ok := s.query(c)
	if !ok {
		return
	}
	res, err := s.source.GetHistoricalSeries(c.Request.Context(), symbol, displayPeriod, interval)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case collector.IsNotFound(err):
			status = http.StatusNotFound
		case errors.Is(err, collector.ErrTransport):
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) getWatchlist(c *gin.Context) {
	var reqs []model.SeriesRequest
	displayPeriod, interval, ok := s.query(c)
	if !ok {
		return
	}
	for _, sym := range strings.Split(c.Query("symbols"), ",") {
		if sym = strings.ToUpper(strings.TrimSpace(sym)); sym != "" {
			reqs = append(reqs, model.SeriesRequest{Symbol: sym, Period: displayPeriod, Interval: interval})
		}
	}
	if len(reqs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbols is required"})
		return
	}
	if len(reqs) > maxWatchSymbols {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many symbols"})
		return
	}
	outcomes := collector.CollectMany(c.Request.Context(), s.source, reqs, s.defaults.Concurrency)
	c.JSON(http.StatusOK, collector.Entries(outcomes))
}

func (s *Server) getFetches(c *gin.Context) {
	if s.recorder == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "fetch log disabled"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return
	}
	records, err := s.recorder.RecentFetches(strings.ToUpper(c.Query("symbol")), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if records == nil {
		records = []recorder.FetchRecord{}
	}
	c.JSON(http.StatusOK, records)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
