package cache

import (
	"encoding/json"
	"time"

	"github.com/ppiankov/ruleaudit/internal/model"
)

// AnalysisSnapshot is the cacheable portion of a document analysis: only
// what is derived from the content alone. Anything depending on other
// documents (findings) or the filesystem (reference resolution) is
// recomputed every run.
type AnalysisSnapshot struct {
	Scope      model.ActivationScope `json:"scope"`
	Unscoped   bool                  `json:"unscoped,omitempty"`
	Directives []model.Directive     `json:"directives,omitempty"`
	References []string              `json:"references,omitempty"`
}

// PutSnapshot stores a snapshot under the document's content key
func PutSnapshot(store Store, key string, snap AnalysisSnapshot, ttl time.Duration) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return store.Set(key, data, ttl)
}

// GetSnapshot retrieves a snapshot; a corrupt entry reads as a miss
func GetSnapshot(store Store, key string) (AnalysisSnapshot, bool) {
	data, found := store.Get(key)
	if !found {
		return AnalysisSnapshot{}, false
	}
	var snap AnalysisSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return AnalysisSnapshot{}, false
	}
	return snap, true
}
