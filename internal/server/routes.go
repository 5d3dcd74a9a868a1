package server

import (
	"net/http"

	"connectrpc.com/connect"
	"connectrpc.com/grpchealth"
	"connectrpc.com/grpcreflect"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rudransh61/Bhandar/api/bhandar/v1/bhandarv1connect"
)

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)

	r.Post("/set", s.serveSet)
	r.Get("/get", s.serveGet)
	r.Get("/ttl", s.serveTTL)
	r.Get("/list", s.serveList)
	r.Post("/delete", s.serveDelete)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		Response{Status: http.StatusOK, Body: "ok\n"}.Write(w)
	})
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	svc := &cacheServer{h: s.handler, store: s.store, done: s.streams}
	reflector := grpcreflect.NewStaticReflector(grpchealth.HealthV1ServiceName)

	mount := func(path string, h http.Handler) { r.Handle(path+"*", h) }
	mount(bhandarv1connect.NewCacheServiceHandler(svc, connect.WithInterceptors(unaryLogging())))
	mount(grpchealth.NewHandler(s.checker))
	mount(grpcreflect.NewHandlerV1(reflector))
	mount(grpcreflect.NewHandlerV1Alpha(reflector))

	return r
}

func (s *Server) serveSet(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		Response{Status: http.StatusBadRequest, Body: "malformed form body\n"}.Write(w)
		return
	}
	s.handler.HandleSet(r.Context(), r.Form.Get("key"), r.Form.Get("value"), r.Form.Get("ttl")).Write(w)
}

func (s *Server) serveGet(w http.ResponseWriter, r *http.Request) {
	s.handler.HandleGet(r.Context(), r.URL.Query().Get("key")).Write(w)
}

func (s *Server) serveTTL(w http.ResponseWriter, r *http.Request) {
	s.handler.HandleTTL(r.Context(), r.URL.Query().Get("key")).Write(w)
}

func (s *Server) serveList(w http.ResponseWriter, r *http.Request) {
	s.handler.HandleList(r.Context()).Write(w)
}

func (s *Server) serveDelete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		Response{Status: http.StatusBadRequest, Body: "malformed form body\n"}.Write(w)
		return
	}
	s.handler.HandleDelete(r.Context(), r.Form.Get("key")).Write(w)
}
