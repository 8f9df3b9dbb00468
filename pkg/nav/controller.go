package nav

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/connecthear/opsportal/pkg/model"
	"github.com/connecthear/opsportal/pkg/router"
	"github.com/connecthear/opsportal/pkg/search"
)

// Controller owns the navigation state of one session. All methods run to
// completion on the caller's goroutine; it is not safe for concurrent use.
//
// Selection from navigation flows only through HandleFragment: Navigate
// returns the fragment to write, and the fragment handler applies it.
type Controller struct {
	dir    *model.Directory
	state  State
	search *SearchResult
	logger *zap.Logger
}

// NewController creates a controller in the startup state. A nil or empty
// directory is refused with model.ErrNoData.
func NewController(dir *model.Directory, logger *zap.Logger) (*Controller, error) {
	if dir == nil || len(dir.Departments) == 0 {
		return nil, fmt.Errorf("cannot initialize navigation: %w", model.ErrNoData)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		dir:    dir,
		state:  NewState(),
		logger: logger,
	}, nil
}

// Directory returns the tree the controller navigates
func (c *Controller) Directory() *model.Directory {
	return c.dir
}

// State returns a copy of the current state
func (c *Controller) State() State {
	return c.state.Clone()
}

// Active returns the selected workstream, if any
func (c *Controller) Active() (model.Path, bool) {
	if c.state.Active == nil {
		return model.Path{}, false
	}
	return *c.state.Active, true
}

// Search returns the active search, or nil
func (c *Controller) Search() *SearchResult {
	return c.search
}

// Decision reconciles the current state into render decisions
func (c *Controller) Decision() Decision {
	return Reconcile(c.dir, c.state, c.search)
}

// Select makes p the single active workstream and expands its ancestors
// without collapsing anything else. An unknown path is a silent no-op.
func (c *Controller) Select(p model.Path) bool {
	if _, _, _, ok := c.dir.Lookup(p); !ok {
		c.logger.Debug("select ignored: unknown workstream", zap.String("key", p.Key()))
		return false
	}
	active := p
	c.state.Active = &active
	c.state.expandAncestors(p)
	return true
}

// Home clears the selection, any search, and all expansion.
func (c *Controller) Home() {
	c.state = NewState()
	c.search = nil
}

// SetQuery runs a search for q. An empty or blank query clears the search.
func (c *Controller) SetQuery(q string) {
	matches, active := search.Search(q, c.dir.Departments)
	if !active {
		c.ClearSearch()
		return
	}
	c.state.Query = q
	c.search = &SearchResult{Query: q, Matches: matches}
	c.logger.Debug("search",
		zap.String("query", search.Normalize(q)),
		zap.Int("results", len(matches)),
	)
}

// ClearSearch drops the search and restores default expansion, then
// re-expands the ancestors of the active selection, if any.
func (c *Controller) ClearSearch() {
	c.state.Query = ""
	c.search = nil
	c.state.resetExpansion()
	if c.state.Active != nil {
		c.state.expandAncestors(*c.state.Active)
	}
}

// ToggleDepartment opens or closes a department. Unknown ids are ignored.
func (c *Controller) ToggleDepartment(deptID string) bool {
	if _, ok := c.dir.Department(deptID); !ok {
		return false
	}
	c.state.ExpandedDepartments[deptID] = !c.state.ExpandedDepartments[deptID]
	return true
}

// ToggleArea opens or closes an area. Unknown ids are ignored.
func (c *Controller) ToggleArea(deptID, areaID string) bool {
	if _, ok := c.dir.Area(deptID, areaID); !ok {
		return false
	}
	ref := model.AreaRef{DeptID: deptID, AreaID: areaID}
	c.state.ExpandedAreas[ref] = !c.state.ExpandedAreas[ref]
	return true
}

// Navigate returns the fragment that selects p. It does not change state;
// the caller writes the fragment and feeds it back through HandleFragment.
func (c *Controller) Navigate(p model.Path) string {
	return router.EncodePath(p)
}

// HandleFragment applies a fragment change. A resolvable fragment selects its
// workstream; anything else returns to Home. It reports whether a workstream
// is now active.
func (c *Controller) HandleFragment(fragment string) bool {
	p, ok := router.Decode(fragment, c.dir.Departments)
	if !ok {
		if fragment != "" && fragment != router.Marker {
			c.logger.Debug("unresolved fragment, showing home", zap.String("fragment", fragment))
		}
		c.goHomeKeepingSearch()
		return false
	}
	return c.Select(p)
}

// goHomeKeepingSearch is the fragment-driven home transition. The search box
// is independent of the fragment, so an active filter stays applied.
func (c *Controller) goHomeKeepingSearch() {
	sr := c.search
	q := c.state.Query
	c.Home()
	if sr != nil {
		c.search = sr
		c.state.Query = q
	}
}
