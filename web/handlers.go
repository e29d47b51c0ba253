package web

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/polyforge/scenekit/builder"
	"github.com/polyforge/scenekit/gltfconv"
	"github.com/polyforge/scenekit/logger"
	"github.com/polyforge/scenekit/utils"
	"github.com/polyforge/scenekit/view"
	"github.com/polyforge/scenekit/webutils"
)

func (s *Server) HandlerBuildScene(w http.ResponseWriter, r *http.Request) {
	var req BuildRequest
	if err := webutils.ReadJsonBody(r, &req); err != nil {
		webutils.WriteError(w, http.StatusBadRequest, err)
		return
	}
	recipe, err := req.toRecipe(s)
	if err != nil {
		webutils.WriteError(w, http.StatusBadRequest, err)
		return
	}
	sc, report, err := builder.BuildRoom(recipe)
	if err != nil {
		webutils.WriteError(w, http.StatusBadRequest, err)
		return
	}
	s.store.Put(sc)
	logger.Sugar.Infow("scene built", "id", sc.ID, "nodes", sc.NodeCount())

	summary := sceneSummary(sc)
	if report != nil {
		summary.Solver = &SolverSummary{
			Iterations:  report.Iterations,
			MaxDistance: report.MaxDistance,
			Converged:   report.Converged,
		}
	}
	webutils.WriteJson(w, summary)
}

func (s *Server) HandlerVectorExplorer(w http.ResponseWriter, r *http.Request) {
	sc := s.store.Get("vector-explorer")
	if sc == nil {
		built, err := builder.VectorExplorerScene()
		if err != nil {
			webutils.WriteError(w, http.StatusInternalServerError, err)
			return
		}
		s.store.Put(built)
		sc = built
	}
	webutils.WriteJson(w, sceneDTO(sc))
}

func (s *Server) HandlerScene(w http.ResponseWriter, r *http.Request) {
	sc := s.store.Get(mux.Vars(r)["id"])
	if sc == nil {
		webutils.WriteError(w, http.StatusNotFound, errors.Errorf("scene %q not found", mux.Vars(r)["id"]))
		return
	}
	webutils.WriteJson(w, sceneDTO(sc))
}

func (s *Server) HandlerSceneList(w http.ResponseWriter, r *http.Request) {
	webutils.WriteJson(w, s.store.IDs())
}

func (s *Server) HandlerView(w http.ResponseWriter, r *http.Request) {
	sc := s.store.Get(mux.Vars(r)["id"])
	if sc == nil {
		webutils.WriteError(w, http.StatusNotFound, errors.Errorf("scene %q not found", mux.Vars(r)["id"]))
		return
	}
	if sc.Camera == nil {
		webutils.WriteError(w, http.StatusBadRequest, errors.Errorf("scene %q has no camera", sc.ID))
		return
	}
	width := queryInt(r, "width", 800)
	height := queryInt(r, "height", 600)
	vp := view.FromCamera(sc.Camera, width, height)
	webutils.WriteJson(w, view.Analyze(sc, vp))
}

func (s *Server) HandlerPick(w http.ResponseWriter, r *http.Request) {
	sc := s.store.Get(mux.Vars(r)["id"])
	if sc == nil {
		webutils.WriteError(w, http.StatusNotFound, errors.Errorf("scene %q not found", mux.Vars(r)["id"]))
		return
	}
	if sc.Camera == nil {
		webutils.WriteError(w, http.StatusBadRequest, errors.Errorf("scene %q has no camera", sc.ID))
		return
	}
	x, errX := queryFloat(r, "x")
	y, errY := queryFloat(r, "y")
	if errX != nil || errY != nil {
		webutils.WriteError(w, http.StatusBadRequest, errors.Errorf("pick needs x and y in [0,1]"))
		return
	}
	vp := view.FromCamera(sc.Camera, queryInt(r, "width", 800), queryInt(r, "height", 600))

	type pickResponse struct {
		Hit    bool             `json:"hit"`
		Result *view.PickResult `json:"result,omitempty"`
	}
	result := view.Pick(sc, vp, x, y)
	webutils.WriteJson(w, pickResponse{Hit: result != nil, Result: result})
}

func (s *Server) HandlerDumpScene(w http.ResponseWriter, r *http.Request) {
	sc := s.store.Get(mux.Vars(r)["id"])
	if sc == nil {
		webutils.WriteError(w, http.StatusNotFound, errors.Errorf("scene %q not found", mux.Vars(r)["id"]))
		return
	}
	doc, err := gltfconv.Export(sc)
	if err != nil {
		webutils.WriteError(w, http.StatusInternalServerError, err)
		return
	}
	var buf bytes.Buffer
	if err := gltfconv.Encode(&buf, doc); err != nil {
		webutils.WriteError(w, http.StatusInternalServerError, err)
		return
	}
	webutils.WriteFile(w, &buf, sc.ID+".gltf")
}

// HandlerDebugScene dumps the full in-memory scene value as text, for
// poking at solver/binding results without a client.
func (s *Server) HandlerDebugScene(w http.ResponseWriter, r *http.Request) {
	sc := s.store.Get(mux.Vars(r)["id"])
	if sc == nil {
		webutils.WriteError(w, http.StatusNotFound, errors.Errorf("scene %q not found", mux.Vars(r)["id"]))
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	webutils.WriteResult(w, []byte(utils.SDump(sc)))
}

func queryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v < 1 {
		return def
	}
	return v
}

func queryFloat(r *http.Request, key string) (float32, error) {
	v, err := strconv.ParseFloat(r.URL.Query().Get(key), 32)
	return float32(v), err
}
