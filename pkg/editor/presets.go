package editor

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Presets is a named set of decoded editor options loaded from disk.
type Presets struct {
	options map[string]Options
	sources map[string]string
}

type presetFile struct {
	Presets map[string]map[string]any `json:"presets" yaml:"presets"`
}

// LoadPresets walks fsys and decodes every JSON/YAML file holding a top-level
// `presets` mapping. Preset names must be unique across files. A nil fsys
// yields an empty set.
func LoadPresets(fsys fs.FS) (*Presets, error) {
	set := &Presets{
		options: make(map[string]Options),
		sources: make(map[string]string),
	}
	if fsys == nil {
		return set, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isPresetFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("editor: read %s: %w", path, err)
		}
		doc, err := parsePresetFile(data, path)
		if err != nil {
			return err
		}

		for name, raw := range doc.Presets {
			id := strings.TrimSpace(name)
			if id == "" {
				return fmt.Errorf("editor: file %s defines a preset with an empty name", path)
			}
			if existing, exists := set.sources[id]; exists {
				return fmt.Errorf("editor: duplicate preset %q (files %s and %s)", id, existing, path)
			}
			opts, err := DecodeOptions(raw)
			if err != nil {
				return fmt.Errorf("editor: preset %q in %s: %w", id, path, err)
			}
			set.options[id] = opts
			set.sources[id] = path
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

// Get returns a copy of the named preset.
func (p *Presets) Get(name string) (Options, bool) {
	if p == nil {
		return Options{}, false
	}
	opts, ok := p.options[strings.TrimSpace(name)]
	if !ok {
		return Options{}, false
	}
	return opts.Clone(), true
}

// Names lists the loaded presets in sorted order.
func (p *Presets) Names() []string {
	if p == nil || len(p.options) == 0 {
		return nil
	}
	names := make([]string, 0, len(p.options))
	for name := range p.options {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func parsePresetFile(data []byte, source string) (presetFile, error) {
	var doc presetFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return presetFile{}, fmt.Errorf("editor: file %s is empty", source)
	}

	if strings.EqualFold(filepath.Ext(source), ".json") {
		if err := json.Unmarshal(data, &doc); err != nil {
			return presetFile{}, fmt.Errorf("editor: parse %s: %w", source, err)
		}
		return doc, nil
	}

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return presetFile{}, fmt.Errorf("editor: parse %s: %w", source, err)
	}
	return doc, nil
}

func isPresetFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
