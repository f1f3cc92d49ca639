// Package catalog maintains the language-model catalog: a static embedded
// list, a sqlite-backed store seeded from it, live Ollama discovery, and an
// OpenRouter refresh.
package catalog

import (
	_ "embed"
	"encoding/json"
	"log"
	"sync"
)

//go:embed models.json
var staticModelsJSON []byte

// StaticModel is one entry of the embedded default catalog. JSONMode is
// declarative: it states whether the provider honors an OpenAI-style
// response_format for this model, instead of guessing from the model name.
type StaticModel struct {
	DisplayName string `json:"display_name"`
	ModelName   string `json:"model_name"`
	Provider    string `json:"provider"`
	JSONMode    bool   `json:"json_mode"`
}

var (
	staticOnce   sync.Once
	staticModels []StaticModel
)

// StaticModels returns the embedded default catalog in file order.
func StaticModels() []StaticModel {
	staticOnce.Do(func() {
		if err := json.Unmarshal(staticModelsJSON, &staticModels); err != nil {
			// The embedded file ships with the binary, so this only fires on
			// a broken build.
			log.Printf("[Catalog] failed to parse embedded model list: %v", err)
			staticModels = nil
		}
	})
	return staticModels
}

// SupportsJSONMode reports whether the named model is flagged as JSON-mode
// capable in the static catalog. Models not listed default to false, which
// degrades to plain prompting rather than a request the provider rejects.
func SupportsJSONMode(modelName string) bool {
	for _, m := range StaticModels() {
		if m.ModelName == modelName {
			return m.JSONMode
		}
	}
	return false
}
