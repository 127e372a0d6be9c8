package projection

import "github.com/orakul/orakul/pkg/scene"

// systemRecord is one entry of the "systems" section.
type systemRecord struct {
	ID          string   `json:"id" validate:"required"`
	Name        string   `json:"name"`
	Kind        string   `json:"kind"`
	Description string   `json:"description"`
	DependsOn   []string `json:"dependsOn"`
}

func (r systemRecord) entity() entity {
	meta := scene.Metadata{}
	putString(meta, "description", r.Description)
	return entity{
		id:      r.ID,
		name:    r.Name,
		kind:    rawKind(r.Kind),
		meta:    meta,
		targets: r.DependsOn,
	}
}

// moduleRecord is one entry of the "modules" section.
type moduleRecord struct {
	ID      string         `json:"id" validate:"required"`
	Name    string         `json:"name"`
	Path    string         `json:"path"`
	System  string         `json:"system"`
	Kind    string         `json:"kind"`
	Imports []string       `json:"imports"`
	Stats   map[string]any `json:"stats"`
}

func (r moduleRecord) entity() entity {
	meta := scene.Metadata{}
	putString(meta, "path", r.Path)
	putString(meta, "system", r.System)
	if len(r.Stats) > 0 {
		meta["stats"] = r.Stats
	}
	return entity{
		id:      r.ID,
		name:    r.Name,
		kind:    rawKind(r.Kind),
		meta:    meta,
		targets: r.Imports,
	}
}

// componentRecord is one entry of the "components" section.
type componentRecord struct {
	ID     string         `json:"id" validate:"required"`
	Name   string         `json:"name"`
	Path   string         `json:"path"`
	Module string         `json:"module"`
	Kind   string         `json:"kind"`
	Calls  []string       `json:"calls"`
	Stats  map[string]any `json:"stats"`
}

func (r componentRecord) entity() entity {
	meta := scene.Metadata{}
	putString(meta, "path", r.Path)
	putString(meta, "module", r.Module)
	if len(r.Stats) > 0 {
		meta["stats"] = r.Stats
	}
	return entity{
		id:      r.ID,
		name:    r.Name,
		kind:    rawKind(r.Kind),
		meta:    meta,
		targets: r.Calls,
	}
}
