package http

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	srv *http.Server
}

// RouteRegistrar hangs application routes off the router.
type RouteRegistrar interface {
	Register(r *mux.Router)
}

func New(addr string, exposeMetrics bool, app RouteRegistrar) *Server {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if exposeMetrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	if app != nil {
		app.Register(r)
	}

	return &Server{srv: &http.Server{Addr: addr, Handler: r}}
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
