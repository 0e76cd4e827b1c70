// Package preset loads named filter presets: JSON files bundling the path and
// content patterns of a recurring query so they can be reused across runs.
package preset

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/asynkron/patchscope/pkg/patch"
)

var (
	schemaLoader     gojsonschema.JSONLoader
	schemaLoaderOnce sync.Once
)

// Preset mirrors the fields of a preset file. Empty pattern strings mean the
// corresponding predicate is not configured.
type Preset struct {
	Path        string `json:"path"`
	InvertPath  bool   `json:"invertPath"`
	Match       string `json:"match"`
	Match2      string `json:"match2"`
	Combine     string `json:"combine"`
	InvertMatch bool   `json:"invertMatch"`
}

// ValidationError reports the schema violations found in a preset file.
type ValidationError struct {
	issues []string
}

func (e *ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "preset failed schema validation"
	}
	return strings.Join(e.issues, "; ")
}

// Load reads and validates the named preset file. Schema violations surface
// as *ValidationError so the CLI can report every issue at once.
func Load(name string) (*Preset, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read preset %s: %w", name, err)
	}

	result, err := gojsonschema.Validate(loadSchema(), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("validate preset %s: %w", name, err)
	}
	if !result.Valid() {
		issues := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			issues = append(issues, desc.String())
		}
		return nil, &ValidationError{issues: issues}
	}

	var p Preset
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode preset %s: %w", name, err)
	}
	return &p, nil
}

func loadSchema() gojsonschema.JSONLoader {
	schemaLoaderOnce.Do(func() {
		schemaLoader = gojsonschema.NewGoLoader(FileSchema())
	})
	return schemaLoader
}

// Filter compiles the preset's patterns into a patch.Filter.
func (p *Preset) Filter() (*patch.Filter, error) {
	f := &patch.Filter{
		InvertPath:    p.InvertPath,
		InvertContent: p.InvertMatch,
	}
	if p.Combine == "or" {
		f.Combine = patch.CombineOr
	}

	var err error
	if p.Path != "" {
		if f.Path, err = regexp.Compile(p.Path); err != nil {
			return nil, fmt.Errorf("preset path pattern: %w", err)
		}
	}
	if p.Match != "" {
		if f.Content, err = regexp.Compile(p.Match); err != nil {
			return nil, fmt.Errorf("preset match pattern: %w", err)
		}
	}
	if p.Match2 != "" {
		if f.Content2, err = regexp.Compile(p.Match2); err != nil {
			return nil, fmt.Errorf("preset match2 pattern: %w", err)
		}
	}
	return f, nil
}
