// Package server exposes jsonlate over HTTP for an editor front-end.
//
// Stateless endpoints (/api/fields, /api/translate, /api/format,
// /api/detect) take the document in the request. The /api/workspace
// endpoints drive a single shared session.Workspace, the way one editor
// window would.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/minios-linux/jsonlate/session"
	"github.com/minios-linux/jsonlate/translate"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 8 << 20

// Server is the HTTP API server for jsonlate.
type Server struct {
	router     chi.Router
	translator translate.Translator
	workspace  *session.Workspace
	target     string
	log        *slog.Logger
}

// New creates and configures the HTTP server. target is the default
// language for stateless translate requests that name none.
func New(t translate.Translator, ws *session.Workspace, target string, log *slog.Logger) *Server {
	s := &Server{
		translator: t,
		workspace:  ws,
		target:     target,
		log:        log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/languages", s.handleLanguages)
		r.Post("/detect", s.handleDetect)
		r.Post("/fields", s.handleFields)
		r.Post("/translate", s.handleTranslate)
		r.Post("/format", s.handleFormat)

		r.Route("/workspace", func(r chi.Router) {
			r.Get("/", s.handleWorkspace)
			r.Delete("/", s.handleWorkspaceReset)
			r.Put("/source", s.handleWorkspaceSource)
			r.Post("/source/format", s.handleWorkspaceFormatSource)
			r.Put("/selection", s.handleWorkspaceSelection)
			r.Put("/target", s.handleWorkspaceTarget)
			r.Post("/translate", s.handleWorkspaceTranslate)
			r.Get("/result", s.handleWorkspaceResult)
			r.Put("/result", s.handleWorkspaceSetResult)
			r.Post("/result/format", s.handleWorkspaceFormatResult)
			r.Post("/example", s.handleWorkspaceExample)
		})
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
