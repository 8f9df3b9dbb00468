package model

import (
	"fmt"
	"strings"
)

// Separator joins department, area and workstream ids into a composite key.
const Separator = "-"

// Directory is the complete operations directory: an ordered tree of
// departments plus build metadata. It is never modified after loading.
type Directory struct {
	Departments []Department `json:"departments" yaml:"departments"`
	Metadata    Metadata     `json:"metadata" yaml:"metadata"`
}

// Metadata describes how and when the directory was built
type Metadata struct {
	Version          string `json:"version,omitempty" yaml:"version,omitempty"`
	LastUpdated      string `json:"last_updated,omitempty" yaml:"last_updated,omitempty"`
	TotalDepartments int    `json:"total_departments" yaml:"total_departments"`
	TotalAreas       int    `json:"total_areas" yaml:"total_areas"`
	TotalWorkstreams int    `json:"total_workstreams" yaml:"total_workstreams"`
}

// Department is the top level of the tree
type Department struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Emoji string `json:"emoji,omitempty" yaml:"emoji,omitempty"`
	Areas []Area `json:"areas" yaml:"areas"`
}

// Area groups workstreams inside a department. Its ID is unique only within
// the parent department.
type Area struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Emoji       string       `json:"emoji,omitempty" yaml:"emoji,omitempty"`
	Workstreams []Workstream `json:"workstreams" yaml:"workstreams"`
}

// Workstream is the leaf unit of operational work
type Workstream struct {
	ID           string        `json:"id" yaml:"id"`
	Name         string        `json:"name" yaml:"name"`
	Description  string        `json:"description,omitempty" yaml:"description,omitempty"`
	Frequency    string        `json:"frequency,omitempty" yaml:"frequency,omitempty"`
	RACI         []RACIRole    `json:"raci,omitempty" yaml:"raci,omitempty"`
	Dependencies []Dependency  `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	Output       []string      `json:"output,omitempty" yaml:"output,omitempty"`
	Notes        []Note        `json:"notes,omitempty" yaml:"notes,omitempty"`
	ProcessSteps *ProcessSteps `json:"process_steps,omitempty" yaml:"process_steps,omitempty"`
}

// RACIRole is one row of a RACI matrix
type RACIRole struct {
	Role        string `json:"role" yaml:"role"`
	Responsible bool   `json:"responsible,omitempty" yaml:"responsible,omitempty"`
	Accountable bool   `json:"accountable,omitempty" yaml:"accountable,omitempty"`
	Consulted   bool   `json:"consulted,omitempty" yaml:"consulted,omitempty"`
	Informed    bool   `json:"informed,omitempty" yaml:"informed,omitempty"`
}

// Dependency names another team the workstream relies on
type Dependency struct {
	Team   string `json:"team" yaml:"team"`
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Note is a titled block of free-form notes
type Note struct {
	Title   string   `json:"title" yaml:"title"`
	Content []string `json:"content" yaml:"content"`
}

// ProcessSteps holds the step-by-step runbook attached to a workstream.
type ProcessSteps struct {
	Steps              []Step     `json:"steps,omitempty" yaml:"steps,omitempty"`
	DecisionPoints     []Decision `json:"decision_points,omitempty" yaml:"decision_points,omitempty"`
	CommonIssues       []Issue    `json:"common_issues,omitempty" yaml:"common_issues,omitempty"`
	Tools              []string   `json:"tools,omitempty" yaml:"tools,omitempty"`
	RelatedWorkstreams []string   `json:"related_workstreams,omitempty" yaml:"related_workstreams,omitempty"`
}

// IsEmpty reports whether no section of the runbook has content
func (p *ProcessSteps) IsEmpty() bool {
	if p == nil {
		return true
	}
	return len(p.Steps) == 0 && len(p.DecisionPoints) == 0 && len(p.CommonIssues) == 0 &&
		len(p.Tools) == 0 && len(p.RelatedWorkstreams) == 0
}

// Step is a numbered runbook step
type Step struct {
	Number  int      `json:"number" yaml:"number"`
	Title   string   `json:"title" yaml:"title"`
	Details []string `json:"details,omitempty" yaml:"details,omitempty"`
}

// Decision maps a condition to the action to take
type Decision struct {
	Condition string `json:"condition" yaml:"condition"`
	Action    string `json:"action" yaml:"action"`
}

// Issue is a known problem with its fix
type Issue struct {
	Issue    string `json:"issue" yaml:"issue"`
	Solution string `json:"solution,omitempty" yaml:"solution,omitempty"`
}

// Owners returns the roles marked responsible or accountable, in RACI order.
func (w Workstream) Owners() []string {
	var owners []string
	for _, r := range w.RACI {
		if r.Responsible || r.Accountable {
			owners = append(owners, r.Role)
		}
	}
	return owners
}

// Path addresses a single workstream by its id triple
type Path struct {
	DeptID       string `json:"dept_id"`
	AreaID       string `json:"area_id"`
	WorkstreamID string `json:"workstream_id"`
}

// Key returns the composite key for the path. Ids may contain Separator, so
// keys are not guaranteed to decode back unambiguously.
func (p Path) Key() string {
	return p.DeptID + Separator + p.AreaID + Separator + p.WorkstreamID
}

func (p Path) String() string {
	return p.Key()
}

// AreaRef addresses an area by its department and area ids. Use it, not a
// joined string, as a map key: ids may contain Separator.
type AreaRef struct {
	DeptID string
	AreaID string
}

func (a AreaRef) String() string {
	return a.DeptID + "/" + a.AreaID
}

// Area returns the area above p
func (p Path) Area() AreaRef {
	return AreaRef{DeptID: p.DeptID, AreaID: p.AreaID}
}

// Lookup resolves a path to its nodes. A miss returns ok=false and zero values.
func (d *Directory) Lookup(p Path) (Department, Area, Workstream, bool) {
	for _, dept := range d.Departments {
		if dept.ID != p.DeptID {
			continue
		}
		for _, area := range dept.Areas {
			if area.ID != p.AreaID {
				continue
			}
			for _, ws := range area.Workstreams {
				if ws.ID == p.WorkstreamID {
					return dept, area, ws, true
				}
			}
		}
	}
	return Department{}, Area{}, Workstream{}, false
}

// Department returns the first department with the given id
func (d *Directory) Department(id string) (Department, bool) {
	for _, dept := range d.Departments {
		if dept.ID == id {
			return dept, true
		}
	}
	return Department{}, false
}

// Area returns the area with the given id inside the given department
func (d *Directory) Area(deptID, areaID string) (Area, bool) {
	dept, ok := d.Department(deptID)
	if !ok {
		return Area{}, false
	}
	for _, area := range dept.Areas {
		if area.ID == areaID {
			return area, true
		}
	}
	return Area{}, false
}

// Walk visits every workstream in tree order. Returning false stops the walk.
func (d *Directory) Walk(fn func(dept *Department, area *Area, ws *Workstream) bool) {
	for i := range d.Departments {
		dept := &d.Departments[i]
		for j := range dept.Areas {
			area := &dept.Areas[j]
			for k := range area.Workstreams {
				if !fn(dept, area, &area.Workstreams[k]) {
					return
				}
			}
		}
	}
}

// Counts returns the number of departments, areas and workstreams.
func (d *Directory) Counts() (departments, areas, workstreams int) {
	departments = len(d.Departments)
	for _, dept := range d.Departments {
		areas += len(dept.Areas)
		for _, area := range dept.Areas {
			workstreams += len(area.Workstreams)
		}
	}
	return departments, areas, workstreams
}

// RefreshMetadata recomputes the totals from the tree
func (d *Directory) RefreshMetadata() {
	d.Metadata.TotalDepartments, d.Metadata.TotalAreas, d.Metadata.TotalWorkstreams = d.Counts()
}

// Validate checks that ids are present and that every id triple is unique.
// Composite-key collisions between different triples are legal and are not
// reported here.
func (d *Directory) Validate() error {
	var problems []string
	seen := make(map[Path]bool)
	deptSeen := make(map[string]bool)

	for _, dept := range d.Departments {
		if strings.TrimSpace(dept.ID) == "" {
			problems = append(problems, fmt.Sprintf("department %q has an empty id", dept.Name))
			continue
		}
		if deptSeen[dept.ID] {
			problems = append(problems, fmt.Sprintf("duplicate department id %q", dept.ID))
		}
		deptSeen[dept.ID] = true

		areaSeen := make(map[string]bool)
		for _, area := range dept.Areas {
			if strings.TrimSpace(area.ID) == "" {
				problems = append(problems, fmt.Sprintf("area %q in %q has an empty id", area.Name, dept.ID))
				continue
			}
			if areaSeen[area.ID] {
				problems = append(problems, fmt.Sprintf("duplicate area id %q in %q", area.ID, dept.ID))
			}
			areaSeen[area.ID] = true

			for _, ws := range area.Workstreams {
				if strings.TrimSpace(ws.ID) == "" {
					problems = append(problems, fmt.Sprintf("workstream %q in %s has an empty id", ws.Name, AreaRef{DeptID: dept.ID, AreaID: area.ID}))
					continue
				}
				p := Path{DeptID: dept.ID, AreaID: area.ID, WorkstreamID: ws.ID}
				if seen[p] {
					problems = append(problems, fmt.Sprintf("duplicate workstream %s", p))
				}
				seen[p] = true
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid directory: %s", strings.Join(problems, "; "))
	}
	return nil
}
