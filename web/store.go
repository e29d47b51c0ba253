package web

import (
	"sort"
	"sync"

	"github.com/polyforge/scenekit/scene"
)

// SceneStore is the in-memory scene registry shared by the handlers. It is
// handed to the server explicitly; nothing in this package keeps global
// state.
type SceneStore struct {
	mu     sync.RWMutex
	scenes map[string]*scene.Scene
}

func NewSceneStore() *SceneStore {
	return &SceneStore{scenes: make(map[string]*scene.Scene)}
}

func (s *SceneStore) Put(sc *scene.Scene) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scenes[sc.ID] = sc
}

func (s *SceneStore) Get(id string) *scene.Scene {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scenes[id]
}

func (s *SceneStore) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.scenes))
	for id := range s.scenes {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
