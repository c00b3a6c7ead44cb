// Package api exposes the read side of the engine over HTTP.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/CosmWasm/tinyjson/jwriter"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"okinoko_multichoice/contract"
	"okinoko_multichoice/sdk"
)

// HeadFunc reports the block queries are evaluated against.
type HeadFunc func() sdk.Env

// Server serves proposal, vote, hook and config queries.
type Server struct {
	engine  *contract.Engine
	head    HeadFunc
	log     *zap.Logger
	router  *mux.Router
	handler http.Handler
}

// NewServer wires the routes. origins configures CORS, empty allows any origin.
func NewServer(engine *contract.Engine, head HeadFunc, log *zap.Logger, origins []string) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{engine: engine, head: head, log: log, router: mux.NewRouter()}
	s.setupRoutes()
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	})
	s.handler = c.Handler(s.router)
	return s
}

func (s *Server) setupRoutes() {
	r := s.router
	r.HandleFunc("/config", s.getConfig).Methods(http.MethodGet)
	r.HandleFunc("/proposals", s.listProposals).Methods(http.MethodGet)
	r.HandleFunc("/proposals/reverse", s.reverseProposals).Methods(http.MethodGet)
	r.HandleFunc("/proposals/count", s.proposalCount).Methods(http.MethodGet)
	r.HandleFunc("/proposals/{id:[0-9]+}", s.getProposal).Methods(http.MethodGet)
	r.HandleFunc("/proposals/{id:[0-9]+}/votes", s.listVotes).Methods(http.MethodGet)
	r.HandleFunc("/proposals/{id:[0-9]+}/votes/{voter}", s.getVote).Methods(http.MethodGet)
	r.HandleFunc("/hooks/{kind}", s.listHooks).Methods(http.MethodGet)
	r.HandleFunc("/filter", s.filterProposals).Methods(http.MethodGet)
}

// Handle mounts an extra handler next to the query routes, e.g. /metrics.
func (s *Server) Handle(path string, h http.Handler) {
	s.router.Handle(path, h).Methods(http.MethodGet)
}

// ServeHTTP makes the server usable with httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info("api listening", zap.String("addr", ln.Addr().String()))
		errc <- srv.Serve(ln)
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// env is the head block, optionally pinned with ?height= and ?time=.
func (s *Server) env(r *http.Request) (sdk.Env, error) {
	env := s.head()
	q := r.URL.Query()
	if h := q.Get("height"); h != "" {
		n, err := strconv.ParseUint(h, 10, 64)
		if err != nil {
			return env, badRequest("height", err)
		}
		env.Height = n
	}
	if ts := q.Get("time"); ts != "" {
		n, err := strconv.ParseInt(ts, 10, 64)
		if err != nil {
			return env, badRequest("time", err)
		}
		env.Timestamp = n
	}
	return env, nil
}

type requestError struct {
	param string
	err   error
}

func (e *requestError) Error() string { return "bad " + e.param + ": " + e.err.Error() }

func badRequest(param string, err error) error { return &requestError{param: param, err: err} }

func statusFor(err error) int {
	var re *requestError
	if errors.As(err, &re) {
		return http.StatusBadRequest
	}
	switch contract.KindOf(err) {
	case contract.KindNotFound:
		return http.StatusNotFound
	case contract.KindInvalid:
		return http.StatusBadRequest
	case contract.KindUnauthorized:
		return http.StatusForbidden
	case contract.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.log.Error("query failed", zap.Error(err))
	}
	jw := &jwriter.Writer{}
	jw.RawString(`{"error":`)
	jw.String(err.Error())
	jw.RawString(`,"kind":`)
	jw.String(string(contract.KindOf(err)))
	jw.RawByte('}')
	body, _ := jw.BuildBytes()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}

func (s *Server) writeJSON(w http.ResponseWriter, v contract.JSONMarshaler) {
	body, err := contract.MarshalJSON(v)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}
