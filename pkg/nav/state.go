// Package nav owns navigation state for the operations directory and derives
// what the tree should look like from it.
package nav

import (
	"github.com/connecthear/opsportal/pkg/model"
)

// State is the navigation state for one session. The zero value is not
// usable; call NewState.
type State struct {
	// Active is the single selected workstream, or nil on the home view.
	Active *model.Path

	// ExpandedDepartments holds department ids the user (or a selection) has
	// opened.
	ExpandedDepartments map[string]bool
	ExpandedAreas       map[model.AreaRef]bool

	// Query is the raw search text; empty means no active search.
	Query string
}

// NewState returns the startup state: nothing selected, everything collapsed.
func NewState() State {
	return State{
		ExpandedDepartments: make(map[string]bool),
		ExpandedAreas:       make(map[model.AreaRef]bool),
	}
}

// Clone returns a deep copy so callers cannot mutate controller state.
func (s State) Clone() State {
	out := State{
		ExpandedDepartments: make(map[string]bool, len(s.ExpandedDepartments)),
		ExpandedAreas:       make(map[model.AreaRef]bool, len(s.ExpandedAreas)),
		Query:               s.Query,
	}
	if s.Active != nil {
		p := *s.Active
		out.Active = &p
	}
	for k, v := range s.ExpandedDepartments {
		out.ExpandedDepartments[k] = v
	}
	for k, v := range s.ExpandedAreas {
		out.ExpandedAreas[k] = v
	}
	return out
}

// expandAncestors opens the department and area above p. Expansion only
// grows here.
func (s *State) expandAncestors(p model.Path) {
	s.ExpandedDepartments[p.DeptID] = true
	s.ExpandedAreas[p.Area()] = true
}

func (s *State) resetExpansion() {
	s.ExpandedDepartments = make(map[string]bool)
	s.ExpandedAreas = make(map[model.AreaRef]bool)
}
