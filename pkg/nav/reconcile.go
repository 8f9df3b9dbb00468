package nav

import (
	"github.com/connecthear/opsportal/pkg/model"
	"github.com/connecthear/opsportal/pkg/search"
)

// HomeLabel is the root breadcrumb
const HomeLabel = "Home"

// Crumb is one breadcrumb segment
type Crumb struct {
	Label string
	Emoji string
}

// SearchResult is an active search: the raw query plus its ranked matches.
// A nil *SearchResult means no search is active.
type SearchResult struct {
	Query   string
	Matches []search.Match
}

// Decision is everything a renderer needs to draw the tree. Sets are keyed
// by id tuples, never by composite keys, so ids containing the separator
// cannot alias each other.
type Decision struct {
	VisibleDepartments  map[string]bool
	VisibleAreas        map[model.AreaRef]bool
	VisibleWorkstreams  map[model.Path]bool
	ExpandedDepartments map[string]bool
	ExpandedAreas       map[model.AreaRef]bool

	// Active is the selected workstream, or nil.
	Active *model.Path
	// ScrollTo is set when the active workstream is visible and should be
	// brought into view.
	ScrollTo *model.Path

	Breadcrumbs []Crumb

	Searching  bool
	SearchInfo string
}

// DepartmentVisible reports whether the department header should be drawn
func (d Decision) DepartmentVisible(deptID string) bool {
	return d.VisibleDepartments[deptID]
}

// AreaVisible reports whether the area header should be drawn
func (d Decision) AreaVisible(deptID, areaID string) bool {
	return d.VisibleAreas[model.AreaRef{DeptID: deptID, AreaID: areaID}]
}

// WorkstreamVisible reports whether the workstream link should be drawn
func (d Decision) WorkstreamVisible(p model.Path) bool {
	return d.VisibleWorkstreams[p]
}

// DepartmentExpanded reports whether the department renders open
func (d Decision) DepartmentExpanded(deptID string) bool {
	return d.ExpandedDepartments[deptID]
}

// AreaExpanded reports whether the area renders open
func (d Decision) AreaExpanded(deptID, areaID string) bool {
	return d.ExpandedAreas[model.AreaRef{DeptID: deptID, AreaID: areaID}]
}

// Reconcile derives visibility, expansion, selection and breadcrumbs from the
// directory, the navigation state and an optional active search. It has no
// side effects.
//
// Without a search every node is visible; collapsed nodes are still visible
// as headers. With a search only matched workstreams and their ancestors are
// visible, and every ancestor of a match is expanded. Ancestors of the active
// selection are always expanded.
func Reconcile(dir *model.Directory, state State, sr *SearchResult) Decision {
	d := Decision{
		VisibleDepartments:  make(map[string]bool),
		VisibleAreas:        make(map[model.AreaRef]bool),
		VisibleWorkstreams:  make(map[model.Path]bool),
		ExpandedDepartments: make(map[string]bool),
		ExpandedAreas:       make(map[model.AreaRef]bool),
		Breadcrumbs:         []Crumb{{Label: HomeLabel}},
	}
	if dir == nil {
		return d
	}

	for k, v := range state.ExpandedDepartments {
		if v {
			d.ExpandedDepartments[k] = true
		}
	}
	for k, v := range state.ExpandedAreas {
		if v {
			d.ExpandedAreas[k] = true
		}
	}

	if sr == nil {
		for _, dept := range dir.Departments {
			d.VisibleDepartments[dept.ID] = true
			for _, area := range dept.Areas {
				d.VisibleAreas[model.AreaRef{DeptID: dept.ID, AreaID: area.ID}] = true
				for _, ws := range area.Workstreams {
					d.VisibleWorkstreams[model.Path{DeptID: dept.ID, AreaID: area.ID, WorkstreamID: ws.ID}] = true
				}
			}
		}
	} else {
		d.Searching = true
		d.SearchInfo = search.Summary(sr.Matches, sr.Query)
		for _, m := range sr.Matches {
			p := m.Path()
			d.VisibleDepartments[p.DeptID] = true
			d.VisibleAreas[p.Area()] = true
			d.VisibleWorkstreams[p] = true
			d.ExpandedDepartments[p.DeptID] = true
			d.ExpandedAreas[p.Area()] = true
		}
	}

	if state.Active == nil {
		return d
	}
	dept, area, ws, ok := dir.Lookup(*state.Active)
	if !ok {
		return d
	}

	p := *state.Active
	d.Active = &p
	d.ExpandedDepartments[p.DeptID] = true
	d.ExpandedAreas[p.Area()] = true
	if d.VisibleWorkstreams[p] {
		scroll := p
		d.ScrollTo = &scroll
	}
	d.Breadcrumbs = Breadcrumbs(dept, area, ws)
	return d
}

// Breadcrumbs returns Home › Department › Area › Workstream.
func Breadcrumbs(dept model.Department, area model.Area, ws model.Workstream) []Crumb {
	return []Crumb{
		{Label: HomeLabel},
		{Label: dept.Name, Emoji: dept.Emoji},
		{Label: area.Name, Emoji: area.Emoji},
		{Label: ws.Name},
	}
}
