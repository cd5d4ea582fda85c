package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	charts "github.com/midbel/dashcharts"
	"github.com/midbel/dashcharts/config"
	"github.com/midbel/dashcharts/datasource"
	"github.com/midbel/dashcharts/svgdraw"
)

var ErrNotFound = errors.New("chart not found")

// Server serves the charts of one dashboard definition.
type Server struct {
	logger *slog.Logger
	path   string
	hub    *Hub

	mu   sync.RWMutex
	app  *config.AppConfig
	data map[string][]charts.Record
}

// New loads the dashboard found at path and the data of all its charts.
func New(ctx context.Context, logger *slog.Logger, path string) (*Server, error) {
	s := Server{
		logger: logger.With(slog.String("module", "server")),
		path:   path,
	}
	s.hub = NewHub(s.logger)
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return &s, nil
}

// Reload reads the dashboard definition again, reloads every source and
// refreshes the charts shown by connected clients.
func (s *Server) Reload(ctx context.Context) error {
	app, err := config.Load(s.path)
	if err != nil {
		return err
	}
	data, err := Load(ctx, app)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.app = app
	s.data = data
	s.mu.Unlock()

	s.hub.Each(func(c *Client) {
		kind, cfg, err := s.chart(c.chart)
		if err != nil {
			c.push(outbound{Type: "reload", Chart: c.chart})
			return
		}
		c.Refresh(kind, cfg)
	})
	return nil
}

// Load fetches the records of every chart of app concurrently.
func Load(ctx context.Context, app *config.AppConfig) (map[string][]charts.Record, error) {
	sources := make(map[string]datasource.Source)
	for _, c := range app.Charts {
		src, err := datasource.Open(c.Source)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.Name, err)
		}
		sources[c.Name] = src
	}
	return datasource.LoadAll(ctx, sources)
}

func (s *Server) chart(name string) (charts.Kind, charts.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.app.Chart(name)
	if !ok {
		return "", charts.Config{}, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	kind, cfg, err := c.Options()
	if err != nil {
		return "", charts.Config{}, err
	}
	cfg.Data = s.data[name]
	return kind, cfg, nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /charts", s.handleList)
	mux.HandleFunc("GET /charts/{file}", s.handleChart)
	mux.HandleFunc("GET /ws/{name}", s.handleSocket)
	return logRequests(s.logger, mux)
}

func logRequests(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("http request",
			slog.String("method", r.Method),
			slog.String("url", r.URL.String()),
			slog.String("remoteAddr", r.RemoteAddr))
		next.ServeHTTP(w, r)
	})
}

type chartInfo struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Title string `json:"title,omitempty"`
	Rows  int    `json:"rows"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	list := make([]chartInfo, 0, len(s.app.Charts))
	for _, c := range s.app.Charts {
		list = append(list, chartInfo{
			Name:  c.Name,
			Kind:  c.Kind,
			Title: c.Title,
			Rows:  len(s.data[c.Name]),
		})
	}
	s.mu.RUnlock()
	slices.SortFunc(list, func(a, b chartInfo) int {
		return strings.Compare(a.Name, b.Name)
	})
	writeJSON(w, list)
}

// handleChart serves name.svg or name.json. The svg accepts width, height,
// at (milliseconds into the animation) and x, y (a hovered position).
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	var (
		file = r.PathValue("file")
		ext  = filepath.Ext(file)
		name = strings.TrimSuffix(file, ext)
	)
	kind, cfg, err := s.chart(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	query := r.URL.Query()
	if cfg.Width, err = floatParam(query.Get("width"), cfg.Width); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if cfg.Height, err = floatParam(query.Get("height"), cfg.Height); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	frame := charts.Render(kind, cfg)
	for _, warn := range frame.Warnings {
		s.logger.Warn("chart rendered with warnings", slog.String("chart", name), slog.String("warning", warn.String()))
	}
	switch ext {
	case ".json":
		writeJSON(w, frame)
	case ".svg":
		opts := svgdraw.DefaultOptions()
		if title := s.title(name); title != "" {
			opts.Title = title
		}
		at, err := floatParam(query.Get("at"), 0)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		opts.At = time.Duration(at) * time.Millisecond
		if query.Has("x") && query.Has("y") {
			x, err1 := floatParam(query.Get("x"), 0)
			y, err2 := floatParam(query.Get("y"), 0)
			if err := errors.Join(err1, err2); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			hover := frame.Hover(charts.NewPos(x, y))
			opts.Hover = &hover
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		if err := svgdraw.Write(w, frame, opts); err != nil {
			s.logger.Error("svg rendering failed", slog.String("chart", name), slog.Any("error", err))
		}
	default:
		http.Error(w, fmt.Sprintf("%s: unsupported format", ext), http.StatusNotFound)
	}
}

func (s *Server) title(name string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, _ := s.app.Chart(name)
	return c.Title
}

func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	kind, cfg, err := s.chart(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	client, err := NewClient(s.hub, w, r, name)
	if err != nil {
		s.logger.Error("new websocket client failed", slog.Any("error", err))
		return
	}
	// the first render waits in the send buffer until the write pump runs
	client.Attach(kind, cfg)
	if !s.hub.register(client) {
		client.close()
		client.conn.Close()
		return
	}
	go client.WritePump()
	go client.ReadPump()
}

// Run serves until ctx is cancelled. The dashboard file is watched and
// reloaded whenever it is written.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}
	go s.hub.Run(ctx)

	stop, err := s.watch(ctx)
	if err != nil {
		return err
	}
	defer stop()

	errs := make(chan error, 1)
	go func() {
		s.logger.Info("starting server...", slog.String("addr", addr))
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	}
}

func (s *Server) watch(ctx context.Context) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create config watcher: %w", err)
	}
	// editors often replace the file: watch its directory instead
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch config: %w", err)
	}
	target := filepath.Clean(s.path)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := s.Reload(ctx); err != nil {
					s.logger.Error("error reloading config", slog.Any("error", err))
				} else {
					s.logger.Info("config reloaded")
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Debug("error watching config", slog.Any("error", err))
			}
		}
	}()
	return func() { watcher.Close() }, nil
}

func floatParam(str string, def float64) (float64, error) {
	if str == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number", str)
	}
	return f, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
