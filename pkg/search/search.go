// Package search scores workstreams against a free-text query.
//
// The engine is a full linear scan with fixed per-field weights. It is pure
// and synchronous: debouncing and UI state live elsewhere.
package search

import (
	"fmt"
	"sort"
	"strings"

	"github.com/connecthear/opsportal/pkg/model"
)

// Field labels reported in Match.Matched
const (
	FieldName         = "name"
	FieldDescription  = "description"
	FieldFrequency    = "frequency"
	FieldRACI         = "raci"
	FieldDependencies = "dependencies"
	FieldOutput       = "output"
)

// Per-field weights. RACI, dependency and output weights apply once per
// matching entry.
const (
	WeightName        = 10
	WeightDescription = 5
	WeightFrequency   = 3
	WeightRACI        = 7
	WeightDependency  = 4
	WeightOutput      = 2
)

// Match is a scored workstream together with its ancestors
type Match struct {
	Department *model.Department
	Area       *model.Area
	Workstream *model.Workstream
	Score      int
	Matched    []string // distinct field labels, first-hit order
}

// Path returns the address of the matched workstream
func (m Match) Path() model.Path {
	return model.Path{DeptID: m.Department.ID, AreaID: m.Area.ID, WorkstreamID: m.Workstream.ID}
}

// HasField reports whether the given field label contributed to the score
func (m Match) HasField(field string) bool {
	for _, f := range m.Matched {
		if f == field {
			return true
		}
	}
	return false
}

// Normalize trims and lower-cases a raw query.
func Normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Search scores every workstream in tree against query.
//
// An empty or whitespace-only query returns active=false, meaning "no active
// search" rather than zero results. Otherwise results hold every workstream
// with a positive score, sorted by descending score. Equal scores keep tree
// order.
func Search(query string, tree []model.Department) (results []Match, active bool) {
	q := Normalize(query)
	if q == "" {
		return nil, false
	}

	results = []Match{}
	for i := range tree {
		dept := &tree[i]
		for j := range dept.Areas {
			area := &dept.Areas[j]
			for k := range area.Workstreams {
				ws := &area.Workstreams[k]
				score, matched := Score(q, ws)
				if score == 0 {
					continue
				}
				results = append(results, Match{
					Department: dept,
					Area:       area,
					Workstream: ws,
					Score:      score,
					Matched:    matched,
				})
			}
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results, true
}

// Score computes the weight sum for a single workstream. q must already be
// normalized.
func Score(q string, ws *model.Workstream) (int, []string) {
	score := 0
	var matched []string
	hit := func(field string, weight int) {
		score += weight
		for _, f := range matched {
			if f == field {
				return
			}
		}
		matched = append(matched, field)
	}

	if contains(ws.Name, q) {
		hit(FieldName, WeightName)
	}
	if contains(ws.Description, q) {
		hit(FieldDescription, WeightDescription)
	}
	if contains(ws.Frequency, q) {
		hit(FieldFrequency, WeightFrequency)
	}
	for _, r := range ws.RACI {
		if contains(r.Role, q) {
			hit(FieldRACI, WeightRACI)
		}
	}
	for _, dep := range ws.Dependencies {
		if contains(dep.Team, q) {
			hit(FieldDependencies, WeightDependency)
		}
	}
	for _, out := range ws.Output {
		if contains(out, q) {
			hit(FieldOutput, WeightOutput)
		}
	}
	return score, matched
}

func contains(field, q string) bool {
	if field == "" {
		return false
	}
	return strings.Contains(strings.ToLower(field), q)
}

// Summary returns the banner shown above filtered results. The query is
// quoted as it was matched: trimmed and lower-cased.
func Summary(results []Match, query string) string {
	q := Normalize(query)
	switch len(results) {
	case 0:
		return fmt.Sprintf("No results found for %q", q)
	case 1:
		return fmt.Sprintf("Showing 1 result for %q", q)
	default:
		return fmt.Sprintf("Showing %d results for %q", len(results), q)
	}
}
