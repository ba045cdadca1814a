// Package server serves the map over HTTP: static SVG renders and interactive
// WebSocket sessions, each session owning its own Map.
package server

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/akmonengine/mercator"
	"github.com/akmonengine/mercator/geodata"
	"github.com/akmonengine/mercator/svg"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	DEFAULT_WIDTH  = 600
	DEFAULT_HEIGHT = 600

	// Read deadline of an idle session
	pongWait = 60 * time.Second
	// Write timeout
	writeTimeout = 10 * time.Second
	// Graceful shutdown timeout
	shutdownTimeout = 5 * time.Second

	svgNamespace = "http://www.w3.org/2000/svg"
)

var (
	errUnknownMessage = errors.New("unknown message type")
	errInvalidSize    = errors.New("width and height must be positive")
)

// Server renders one polygon set for every client
type Server struct {
	Polygons []geodata.Polygon
	Config   mercator.Config
	Metrics  *Metrics

	logger   *zap.Logger
	upgrader websocket.Upgrader
	mux      *http.ServeMux
}

// New creates a server drawing polygons with cfg. A nil logger disables logging.
func New(polygons []geodata.Polygon, cfg mercator.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		Polygons: polygons,
		Config:   cfg,
		Metrics:  NewMetrics(),
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		mux: http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /map.svg", s.handleSVG)
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
	s.mux.Handle("GET /metrics", s.Metrics.Handler())

	return s
}

// Handler returns the HTTP handler of the server
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: writeTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr), zap.Int("polygons", len(s.Polygons)))
		errc <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return errors.Wrap(err, "serving")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutting down")
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// handleSVG renders a still map: width and height in pixels, long and lat the view rotation
func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	width, err := floatParam(query.Get("width"), DEFAULT_WIDTH)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	height, err := floatParam(query.Get("height"), DEFAULT_HEIGHT)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if width <= 0 || height <= 0 {
		http.Error(w, "width and height must be positive", http.StatusBadRequest)
		return
	}

	cfg := s.Config
	if cfg.InitialLong, err = floatParam(query.Get("long"), cfg.InitialLong); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if cfg.InitialLat, err = floatParam(query.Get("lat"), cfg.InitialLat); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	doc := svg.NewDocument()
	doc.SetAttribute("xmlns", svgNamespace)
	m := mercator.New(s.Polygons, doc, cfg)
	s.observe(m)

	start := time.Now()
	m.SetBounds(width, height)
	s.Metrics.RenderDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000)

	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write([]byte(doc.String()))
}

// observe counts the frames rendered by m
func (s *Server) observe(m *mercator.Map) {
	m.Events.Subscribe(mercator.RENDERED, func(event mercator.Event) {
		rendered := event.(mercator.RenderedEvent)
		s.Metrics.FramesRendered.Inc()
		s.Metrics.CrossingPolygons.Add(float64(rendered.Crossing))
	})
}

func floatParam(value string, fallback float64) (float64, error) {
	if value == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.Errorf("invalid number %q", value)
	}
	return f, nil
}
