// Package router translates between URL-style fragments and workstream paths.
//
// A fragment is the composite key of a workstream behind a leading marker:
// "#dept-area-ws". Because ids may themselves contain the separator, decoding
// never splits positionally. It scans the tree and compares re-encoded keys,
// so the first exact match in tree order wins.
package router

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/connecthear/opsportal/pkg/model"
)

// Marker prefixes every fragment
const Marker = "#"

// Encode builds the fragment for a workstream.
func Encode(deptID, areaID, wsID string) string {
	return Marker + model.Path{DeptID: deptID, AreaID: areaID, WorkstreamID: wsID}.Key()
}

// EncodePath is Encode for an existing path
func EncodePath(p model.Path) string {
	return Marker + p.Key()
}

// Decode resolves a fragment (with or without the leading marker) against the
// tree. It returns ok=false for an empty or unknown fragment.
func Decode(fragment string, tree []model.Department) (model.Path, bool) {
	key := strings.TrimPrefix(fragment, Marker)
	if key == "" {
		return model.Path{}, false
	}

	for _, dept := range tree {
		// cheap prefix check before walking the department
		if !strings.HasPrefix(key, dept.ID+model.Separator) {
			continue
		}
		for _, area := range dept.Areas {
			for _, ws := range area.Workstreams {
				p := model.Path{DeptID: dept.ID, AreaID: area.ID, WorkstreamID: ws.ID}
				if p.Key() == key {
					return p, true
				}
			}
		}
	}
	return model.Path{}, false
}

// Collision is a composite key produced by more than one path. Only the first
// path is reachable through Decode.
type Collision struct {
	Key   string
	Paths []model.Path
}

// Collisions lists every composite key shared by two or more workstreams, in
// tree order of first occurrence.
func Collisions(tree []model.Department) []Collision {
	byKey := make(map[string][]model.Path)
	var order []string

	for _, dept := range tree {
		for _, area := range dept.Areas {
			for _, ws := range area.Workstreams {
				p := model.Path{DeptID: dept.ID, AreaID: area.ID, WorkstreamID: ws.ID}
				k := p.Key()
				if _, ok := byKey[k]; !ok {
					order = append(order, k)
				}
				byKey[k] = append(byKey[k], p)
			}
		}
	}

	var out []Collision
	for _, k := range order {
		if paths := byKey[k]; len(paths) > 1 {
			out = append(out, Collision{Key: k, Paths: paths})
		}
	}
	return out
}

// Suggest returns up to limit fragments that fuzzily resemble an unresolvable
// fragment, best first. It is a diagnostic aid only.
func Suggest(fragment string, tree []model.Department, limit int) []string {
	pattern := strings.TrimPrefix(fragment, Marker)
	if pattern == "" || limit <= 0 {
		return nil
	}

	var candidates []string
	for _, dept := range tree {
		for _, area := range dept.Areas {
			for _, ws := range area.Workstreams {
				candidates = append(candidates, model.Path{DeptID: dept.ID, AreaID: area.ID, WorkstreamID: ws.ID}.Key())
			}
		}
	}

	matches := fuzzy.Find(pattern, candidates)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, Marker+m.Str)
	}
	return out
}
