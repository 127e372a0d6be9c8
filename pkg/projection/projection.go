// Package projection maps raw system data to a scene for one level.
//
// This is the only package that interprets [RawData]. The raw document is a
// generic map (decoded from JSON, YAML, TOML or a MongoDB document) with one
// section per level:
//
//	systems     Abstract    edge a→b: system a depends on system b
//	modules     Modules     edge a→b: module a imports module b
//	components  Components  edge a→b: component a calls component b
//
// Example document:
//
//	{
//	  "systems": [
//	    {"id": "api", "name": "API", "dependsOn": ["store"]},
//	    {"id": "store", "name": "Store", "kind": "database"}
//	  ],
//	  "modules": [
//	    {"id": "billing", "path": "src/billing", "system": "api", "imports": ["auth"]},
//	    {"id": "auth", "path": "src/auth", "system": "api"}
//	  ],
//	  "components": [
//	    {"id": "billing/invoice.go", "module": "billing", "calls": ["auth/token.go"]},
//	    {"id": "auth/token.go", "module": "auth", "stats": {"lines": 120}}
//	  ]
//	}
//
// # Guarantees
//
// [Project] never fails. A missing or malformed section (wrong types, an
// entity without an id) yields an empty scene. References to unknown ids,
// self-references and repeated references are dropped. Output is sorted
// (nodes by id, edges by source then target) and edge ids are derived from
// their endpoints, so the same input always yields the same scene.
//
// Raw data never produces Planned nodes: "kind" is either "database" or
// treated as an actual element.
package projection

import (
	"cmp"
	"encoding/json"
	"maps"
	"slices"

	"github.com/go-playground/validator/v10"

	"github.com/orakul/orakul/pkg/scene"
)

// RawData is the opaque document supplied by the data-model service.
type RawData map[string]any

// Section keys of the raw document.
const (
	KeySystems    = "systems"
	KeyModules    = "modules"
	KeyComponents = "components"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// entity is the level-independent view of one raw record.
type entity struct {
	id      string
	name    string
	kind    scene.Kind
	meta    scene.Metadata
	targets []string
}

type record interface {
	entity() entity
}

// section binds a raw document key to the record type of one level.
type section struct {
	key     string
	project func(raw RawData) ([]scene.Node, []scene.Edge)
	valid   func(raw RawData) bool
}

func newSection[T record](key string) section {
	return section{
		key: key,
		project: func(raw RawData) ([]scene.Node, []scene.Edge) {
			records, ok := decode[T](raw, key)
			if !ok {
				return []scene.Node{}, []scene.Edge{}
			}
			entities := make([]entity, len(records))
			for i, r := range records {
				entities[i] = r.entity()
			}
			return assemble(entities)
		},
		valid: func(raw RawData) bool {
			_, ok := decode[T](raw, key)
			return ok
		},
	}
}

var sections = map[scene.Level]section{
	scene.Abstract:   newSection[systemRecord](KeySystems),
	scene.Modules:    newSection[moduleRecord](KeyModules),
	scene.Components: newSection[componentRecord](KeyComponents),
}

// Project derives the nodes and edges of level from raw. It returns empty
// (non-nil) slices when raw has nothing usable for the level.
func Project(level scene.Level, raw RawData) ([]scene.Node, []scene.Edge) {
	s, ok := sections[level]
	if !ok {
		return []scene.Node{}, []scene.Edge{}
	}
	return s.project(raw)
}

// Levels reports the levels for which raw holds a well-formed section.
func Levels(raw RawData) []scene.Level {
	var out []scene.Level
	for _, l := range scene.Levels {
		if sections[l].valid(raw) {
			out = append(out, l)
		}
	}
	return out
}

// SectionKey returns the raw document key read for level.
func SectionKey(level scene.Level) string { return sections[level].key }

// decode re-encodes the generic section and decodes it into typed records.
// Any failure, including a record that fails validation, rejects the whole
// section.
func decode[T any](raw RawData, key string) ([]T, bool) {
	section, ok := raw[key]
	if !ok || section == nil {
		return nil, false
	}
	data, err := json.Marshal(section)
	if err != nil {
		return nil, false
	}
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, false
	}
	for i := range records {
		if err := validate.Struct(&records[i]); err != nil {
			return nil, false
		}
	}
	return records, true
}

func assemble(entities []entity) ([]scene.Node, []scene.Edge) {
	byID := make(map[string]entity, len(entities))
	for _, e := range entities {
		if _, dup := byID[e.id]; dup {
			continue
		}
		byID[e.id] = e
	}

	nodes := make([]scene.Node, 0, len(byID))
	for _, id := range slices.Sorted(maps.Keys(byID)) {
		e := byID[id]
		name := e.name
		if name == "" {
			name = e.id
		}
		var meta scene.Metadata
		if len(e.meta) > 0 {
			meta = maps.Clone(e.meta)
		}
		nodes = append(nodes, scene.Node{
			ID:   e.id,
			Kind: e.kind,
			Data: scene.Data{Name: name, Meta: meta},
		})
	}

	type pair struct{ source, target string }
	seen := make(map[pair]bool)
	edges := make([]scene.Edge, 0)
	for _, n := range nodes {
		for _, target := range byID[n.ID].targets {
			p := pair{n.ID, target}
			if target == n.ID || seen[p] {
				continue
			}
			if _, ok := byID[target]; !ok {
				continue
			}
			seen[p] = true
			edges = append(edges, scene.Edge{
				ID:     scene.PairID(p.source, p.target),
				Source: p.source,
				Target: p.target,
			})
		}
	}
	slices.SortFunc(edges, func(a, b scene.Edge) int {
		if c := cmp.Compare(a.Source, b.Source); c != 0 {
			return c
		}
		return cmp.Compare(a.Target, b.Target)
	})

	return nodes, edges
}

func rawKind(s string) scene.Kind {
	if k, err := scene.ParseKind(s); err == nil && k == scene.Database {
		return scene.Database
	}
	return scene.Actual
}

// putString stores v under key unless it is empty.
func putString(m scene.Metadata, key, v string) {
	if v != "" {
		m[key] = v
	}
}
