// Package web exposes the kernel over HTTP. Handlers translate wire DTOs
// into kernel calls; all scene state lives in the injected SceneStore.
package web

import (
	"net/http"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/polyforge/scenekit/config"
	"github.com/polyforge/scenekit/logger"
	"github.com/polyforge/scenekit/solver"
)

type Server struct {
	cfg   *config.Config
	store *SceneStore
}

func NewServer(cfg *config.Config, store *SceneStore) *Server {
	return &Server{cfg: cfg, store: store}
}

func (s *Server) solverOptions() solver.Options {
	return solver.Options{
		MaxIterations:     s.cfg.Solver.MaxIterations,
		DistanceTolerance: s.cfg.Solver.DistanceTolerance,
		AngleTolerance:    mgl32.DegToRad(s.cfg.Solver.AngleToleranceDeg),
	}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/json/scene/build", s.HandlerBuildScene).Methods("POST")
	r.HandleFunc("/json/scene/vector-explorer", s.HandlerVectorExplorer)
	r.HandleFunc("/json/scene", s.HandlerSceneList)
	r.HandleFunc("/json/scene/{id}", s.HandlerScene)
	r.HandleFunc("/json/scene/{id}/view", s.HandlerView)
	r.HandleFunc("/json/scene/{id}/pick", s.HandlerPick)
	r.HandleFunc("/dump/scene/{id}", s.HandlerDumpScene)
	r.HandleFunc("/debug/scene/{id}", s.HandlerDebugScene)
	return r
}

func StartServer(addr string, cfg *config.Config, store *SceneStore) error {
	s := NewServer(cfg, store)

	h := handlers.RecoveryHandler()(s.Router())
	h = handlers.LoggingHandler(os.Stdout, h)

	logger.Sugar.Infow("starting server", "addr", addr)
	return http.ListenAndServe(addr, h)
}
