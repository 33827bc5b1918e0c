package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/dockgrid/dockgrid/pkg/cache"
	apperrors "github.com/dockgrid/dockgrid/pkg/errors"
	"github.com/dockgrid/dockgrid/pkg/grid"
	"github.com/dockgrid/dockgrid/pkg/manifest"
	"github.com/dockgrid/dockgrid/pkg/observability"
	"github.com/dockgrid/dockgrid/pkg/pipeline"
	"github.com/dockgrid/dockgrid/pkg/render/svg"
	"github.com/dockgrid/dockgrid/pkg/session"
	"github.com/dockgrid/dockgrid/pkg/snapshot"
)

// sessionCookie is the cookie carrying the layout session ID.
const sessionCookie = "dockgrid_session"

// serveCommand creates the serve command for the layout HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve <manifest.toml>",
		Short: "Serve the layout API over HTTP",
		Long: `Serve the layout API over HTTP.

The serve command loads the manifest once and exposes per-client layout
state: each browser gets a session (cookie) tracking which panes it has
detached. Sessions are stored in memory by default, on disk with
--session-dir, or in MongoDB with --mongo-uri for multi-instance
deployments. Layouts are cached on disk by default, or in Redis with
--redis-addr when several instances should share one cache.

Endpoints:

  GET  /                        HTML preview page
  GET  /healthz                 liveness probe
  GET  /api/layout              current layout snapshot (JSON)
  GET  /api/svg                 current layout as SVG
  POST /api/panes/{pane}/detach detach a pane
  POST /api/panes/{pane}/attach reattach a pane
  POST /api/reset               reattach all panes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable layout caching")
	cmd.Flags().StringVar(&opts.redisAddr, "redis-addr", "", "Redis address for layout caching (default: file cache)")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", "", "MongoDB URI for session storage (default: in-memory)")
	cmd.Flags().StringVar(&opts.sessionDir, "session-dir", "", "directory for file-based session storage (default: in-memory)")

	return cmd
}

// serveOptions collects the serve command's backend flags.
type serveOptions struct {
	addr       string
	noCache    bool
	redisAddr  string
	mongoURI   string
	sessionDir string
}

func (c *CLI) runServe(ctx context.Context, manifestPath string, opts serveOptions) error {
	def, reg, meta, err := manifest.Load(manifestPath)
	if err != nil {
		return err
	}

	var runner *pipeline.Runner
	if opts.redisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: opts.redisAddr})
		if err != nil {
			return fmt.Errorf("connect layout cache: %w", err)
		}
		runner = pipeline.NewRunner(rc, nil, c.Logger)
	} else {
		runner, err = c.newRunner(opts.noCache)
		if err != nil {
			return fmt.Errorf("initialize runner: %w", err)
		}
	}
	defer runner.Close()

	// Namespace the server's cache entries away from CLI runs sharing
	// the same backend.
	runner.Keyer = cache.NewScopedKeyer(runner.Keyer, "serve:")

	// Manifest hash anchors cache keys and session validity.
	loadOpts := pipeline.Options{ManifestPath: manifestPath, Logger: c.Logger}
	_, _, _, hash, err := runner.Load(ctx, loadOpts)
	if err != nil {
		return err
	}

	var store session.Store
	switch {
	case opts.mongoURI != "":
		store, err = session.NewMongoStore(ctx, session.MongoConfig{URI: opts.mongoURI})
		if err != nil {
			return fmt.Errorf("connect session store: %w", err)
		}
	case opts.sessionDir != "":
		store, err = session.NewFileStore(opts.sessionDir)
		if err != nil {
			return fmt.Errorf("open session store: %w", err)
		}
	default:
		store = session.NewMemoryStore()
	}
	defer store.Close(context.Background())

	srv := &server{
		def:    def,
		reg:    reg,
		meta:   meta,
		hash:   hash,
		runner: runner,
		store:  store,
		logger: c.Logger,
	}

	httpSrv := &http.Server{
		Addr:              opts.addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", opts.addr, "manifest", manifestPath)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		c.Logger.Info("server stopped")
		return nil
	}
}

// server holds the immutable manifest state and per-client sessions.
// The manifest is loaded once at startup; all mutation is per-session.
type server struct {
	def    *grid.Definition
	reg    grid.Registry
	meta   manifest.Meta
	hash   string
	runner *pipeline.Runner
	store  session.Store
	logger *log.Logger
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/", s.handleIndex)
	r.Route("/api", func(r chi.Router) {
		r.Get("/layout", s.handleLayout)
		r.Get("/svg", s.handleSVG)
		r.Post("/panes/{pane}/detach", s.handleDetach)
		r.Post("/panes/{pane}/attach", s.handleAttach)
		r.Post("/reset", s.handleReset)
	})

	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "ok")
}

// session loads the client's session from its cookie, creating a fresh one
// if the cookie is missing, unknown, expired, or bound to a different
// manifest.
func (s *server) session(w http.ResponseWriter, r *http.Request) (*session.Session, error) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		// Reject malformed cookie values before they reach the store.
		if err := apperrors.ValidateSessionID(cookie.Value); err == nil {
			sess, err := s.store.Get(r.Context(), cookie.Value)
			if err != nil {
				return nil, err
			}
			if sess != nil && sess.ManifestHash == s.hash {
				return sess, nil
			}
		}
	}

	sess := session.New(s.hash, session.DefaultTTL)
	if err := s.store.Set(r.Context(), sess); err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  sess.ExpiresAt,
	})
	return sess, nil
}

// compute resolves the session's layout through the runner so repeated
// requests with the same detached set hit the cache.
func (s *server) compute(ctx context.Context, sess *session.Session) (snapshot.Snapshot, error) {
	opts := pipeline.Options{Detached: sess.Detached}
	return s.runner.Compute(ctx, s.def, s.reg, s.meta, s.hash, opts)
}

func (s *server) handleLayout(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(w, r)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	snap, err := s.compute(r.Context(), sess)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *server) handleSVG(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(w, r)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	snap, err := s.compute(r.Context(), sess)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(svg.Render(s.def, snap.Placements()))
}

func (s *server) handleDetach(w http.ResponseWriter, r *http.Request) {
	s.togglePane(w, r, true)
}

func (s *server) handleAttach(w http.ResponseWriter, r *http.Request) {
	s.togglePane(w, r, false)
}

func (s *server) togglePane(w http.ResponseWriter, r *http.Request, detach bool) {
	pane := chi.URLParam(r, "pane")
	if err := apperrors.ValidatePaneName(pane); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if !s.def.Has(pane) {
		s.writeError(w, http.StatusNotFound, apperrors.New(apperrors.ErrCodePaneNotFound, "unknown pane: %s", pane))
		return
	}

	sess, err := s.session(w, r)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	start := time.Now()
	if detach {
		sess.Detach(pane)
	} else {
		sess.Attach(pane)
	}
	err = s.store.Set(r.Context(), sess)
	if detach {
		observability.Engine().OnDetach(r.Context(), pane, time.Since(start), err)
	} else {
		observability.Engine().OnAttach(r.Context(), pane, time.Since(start), err)
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	// Form posts from the preview page go back to it.
	if strings.Contains(r.Header.Get("Accept"), "text/html") {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	snap, err := s.compute(r.Context(), sess)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(w, r)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	sess.Reset()
	if err := s.store.Set(r.Context(), sess); err != nil {
		s.internalError(w, r, err)
		return
	}
	if strings.Contains(r.Header.Get("Accept"), "text/html") {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	snap, err := s.compute(r.Context(), sess)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(w, r)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	snap, err := s.compute(r.Context(), sess)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	title := s.meta.Name
	if title == "" {
		title = "dockgrid"
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, indexPage, title, title, svg.Render(s.def, snap.Placements()), paneButtons(snap))
}

// paneButtons renders a detach/attach toggle per pane.
func paneButtons(snap snapshot.Snapshot) string {
	out := ""
	for _, pane := range snap.Panes {
		action := "detach"
		label := "Detach"
		if pane.State == snapshot.StateDetached {
			action = "attach"
			label = "Attach"
		}
		out += fmt.Sprintf(
			`<form method="post" action="/api/panes/%s/%s"><button>%s %s</button></form>`,
			pane.Name, action, label, pane.Name)
	}
	return out
}

const indexPage = `<!DOCTYPE html>
<html>
<head><title>%s</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
form { display: inline-block; margin-right: .5rem; }
</style>
</head>
<body>
<h1>%s</h1>
%s
<p>%s</p>
<form method="post" action="/api/reset"><button>Reset</button></form>
</body>
</html>
`

func (s *server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

// writeError renders a structured error as JSON, including the machine
// readable code when the error carries one.
func (s *server) writeError(w http.ResponseWriter, status int, err error) {
	body := map[string]string{"error": apperrors.UserMessage(err)}
	if code := apperrors.GetCode(err); code != "" {
		body["code"] = string(code)
	}
	s.writeJSON(w, status, body)
}

func (s *server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	s.writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal error",
	})
}
