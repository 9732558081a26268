package server

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/candlecake/pkg/buildinfo"
	"github.com/matzehuels/candlecake/pkg/errors"
	"github.com/matzehuels/candlecake/pkg/httputil"
	"github.com/matzehuels/candlecake/pkg/shortlink"
)

// ShutdownTimeout bounds how long Run waits for in-flight requests.
const ShutdownTimeout = 10 * time.Second

// Config configures a Server.
type Config struct {
	Addr           string
	Origin         string // scheme and host of generated links
	Path           string // page path of generated links
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RequestTimeout time.Duration
}

// Server is the share service.
type Server struct {
	cfg    Config
	links  *shortlink.Store
	logger *log.Logger
	router chi.Router
}

// New builds a server. links may be nil, in which case the short link
// routes answer UNSUPPORTED.
func New(cfg Config, links *shortlink.Store, logger *log.Logger) (*Server, error) {
	if err := errors.ValidateOrigin(cfg.Origin); err != nil {
		return nil, err
	}
	if err := errors.ValidatePath(cfg.Path); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{cfg: cfg, links: links, logger: logger}
	s.router = s.routes()
	return s, nil
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(versionHeader)
	if s.cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteError(w, errors.New(errors.ErrCodeNotFound, "no route for %s", r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusMethodNotAllowed, httputil.ErrorBody{
			Code:    errors.ErrCodeUnsupported,
			Message: r.Method + " not allowed on " + r.URL.Path,
		})
	})

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/candles", s.handleDecode)
		r.Post("/encode", s.handleEncode)
		r.Post("/links", s.handleShorten)
	})
	r.Get("/s/{id}", s.handleResolve)
	r.Get(s.cfg.Path, s.handleCake)
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "listen on %s", s.cfg.Addr)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("Share service listening", "addr", ln.Addr().String(), "origin", s.cfg.Origin, "version", buildinfo.Version)
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down share service")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
