package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/orakul/orakul/pkg/buildinfo"
	"github.com/orakul/orakul/pkg/errors"
	"github.com/orakul/orakul/pkg/graph"
	"github.com/orakul/orakul/pkg/interaction"
	"github.com/orakul/orakul/pkg/layout"
	"github.com/orakul/orakul/pkg/observability"
	"github.com/orakul/orakul/pkg/projection"
	"github.com/orakul/orakul/pkg/render/nodelink"
	"github.com/orakul/orakul/pkg/scene"
	"github.com/orakul/orakul/pkg/views"
)

// maxEventBytes bounds a POST /events body.
const maxEventBytes = 64 << 10

// serveCommand creates the HTTP host for browser front ends.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags   viewFlags
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve [system.json|yaml|toml|mongodb://...]",
		Short: "Serve a live scene over HTTP",
		Long: `Serve a live scene over HTTP.

Routes:
  GET  /scene       current scene as JSON
  GET  /scene.svg   current scene rendered with Graphviz
  POST /events      apply an event, e.g. {"type":"select","ids":["api"]}
  GET  /levels      level selector options
  GET  /healthz     liveness
  GET  /metrics     Prometheus metrics`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args[0], flags, firstNonEmpty(addr, c.Config.Serve.Addr), noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, src string, flags viewFlags, addr string, noCache bool) error {
	opts := c.pipelineOptions(src, flags)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	m := newMetrics()
	m.register()
	defer observability.Reset()

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	raw, err := runner.Load(ctx, opts)
	runner.Close()
	if err != nil {
		return err
	}

	srv := newSceneServer(raw, opts.SceneLevel(), opts.SceneDirection(), opts.Layout, c.Logger)
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.routes(m),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- httpSrv.ListenAndServe() }()

	printSuccess("Serving %s", src)
	printDetail("http://%s/scene", addr)
	printNextStep("Stop", "ctrl+c")

	select {
	case err := <-errc:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// sceneServer serialises HTTP access to one controller.
type sceneServer struct {
	mu       sync.Mutex
	ctrl     *interaction.Controller
	selector views.Selector
	layout   layout.Options
	logger   *log.Logger
}

func newSceneServer(raw projection.RawData, level scene.Level, dir scene.Direction, lo layout.Options, logger *log.Logger) *sceneServer {
	s := &sceneServer{layout: lo.WithDefaults(), logger: logger}
	s.ctrl = interaction.New(interaction.Config{
		Raw:       raw,
		Level:     level,
		Direction: dir,
		Layout:    lo,
		Logger:    logger,
		Host: interaction.HostFuncs{
			// Called with mu held from inside Dispatch.
			OnEnterNode: func(id string) {
				logger.Debug("enter node", "id", id)
				if s.ctrl.Level() != scene.Components {
					s.selector.Next()
				}
			},
			OnNodeSelected: func(id string) { logger.Debug("node selected", "id", id) },
			OnLevelChanged: func(l scene.Level) { logger.Info("level changed", "level", l) },
		},
	})
	s.selector = views.Selector{
		Current:  s.ctrl.Level,
		OnChange: func(l scene.Level) { s.ctrl.SetLevel(l) },
	}
	return s
}

func (s *sceneServer) routes(m *metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestHooks)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
	})
	r.Get("/scene", s.handleScene)
	r.Get("/scene.svg", s.handleSceneSVG)
	r.Get("/levels", s.handleLevels)
	r.Post("/events", s.handleEvent)
	if m != nil {
		r.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	}
	return r
}

// scene returns the wire form of the current state.
func (s *sceneServer) scene() graph.Scene {
	s.mu.Lock()
	defer s.mu.Unlock()
	return graph.FromSnapshot(s.ctrl.Snapshot(), s.layout)
}

func (s *sceneServer) handleScene(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.scene())
}

func (s *sceneServer) handleSceneSVG(w http.ResponseWriter, r *http.Request) {
	svg, err := nodelink.RenderSVG(r.Context(), nodelink.ToDOT(s.scene(), nodelink.Options{Engine: nodelink.EnginePinned}), nodelink.EnginePinned)
	if err != nil {
		respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(svg)
}

func (s *sceneServer) handleLevels(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	opts := s.selector.Options()
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, opts)
}

type eventResponse struct {
	Changed bool        `json:"changed"`
	Scene   graph.Scene `json:"scene"`
}

func (s *sceneServer) handleEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxEventBytes))
	if err != nil {
		respondError(w, errors.Wrap(errors.ErrCodeInvalidEvent, err, "read event"))
		return
	}
	ev, err := interaction.DecodeEvent(body)
	if err != nil {
		respondError(w, err)
		return
	}

	s.mu.Lock()
	changed := s.ctrl.Dispatch(ev)
	out := graph.FromSnapshot(s.ctrl.Snapshot(), s.layout)
	s.mu.Unlock()

	s.logger.Debug("event", "type", ev.Type(), "changed", changed)
	respondJSON(w, http.StatusOK, eventResponse{Changed: changed, Scene: out})
}

// requestHooks reports every request to the HTTP hooks, labelled by route
// pattern.
func requestHooks(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		observability.HTTP().OnRequest(r.Context(), r.Method, route, status, time.Since(start))
	})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	respondJSON(w, status, map[string]string{
		"error":   http.StatusText(status),
		"code":    string(errors.GetCode(err)),
		"message": errors.UserMessage(err),
	})
}
