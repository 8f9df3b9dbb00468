package ui

import (
	"github.com/connecthear/opsportal/pkg/model"
	"github.com/connecthear/opsportal/pkg/nav"
)

// ══════════════════════════════════════════════════════════════════════════════
// TREE ROWS - Flattening the directory into visible rows
// ══════════════════════════════════════════════════════════════════════════════

type rowKind int

const (
	rowDepartment rowKind = iota
	rowArea
	rowWorkstream
)

// treeRow is one visible line of the navigation tree
type treeRow struct {
	kind     rowKind
	path     model.Path // only the ids relevant to kind are set
	label    string
	emoji    string
	count    int // workstreams in an area
	expanded bool
	active   bool
}

func (r treeRow) depth() int {
	return int(r.kind)
}

// rowKey identifies a row across rebuilds
type rowKey struct {
	kind rowKind
	path model.Path
}

func (r treeRow) key() rowKey {
	return rowKey{kind: r.kind, path: r.path}
}

// buildRows lists the rows a renderer should draw for decision d: visible
// departments, then visible areas of expanded departments, then visible
// workstreams of expanded areas.
func buildRows(dir *model.Directory, d nav.Decision) []treeRow {
	var rows []treeRow
	for _, dept := range dir.Departments {
		if !d.DepartmentVisible(dept.ID) {
			continue
		}
		deptOpen := d.DepartmentExpanded(dept.ID)
		rows = append(rows, treeRow{
			kind:     rowDepartment,
			path:     model.Path{DeptID: dept.ID},
			label:    dept.Name,
			emoji:    dept.Emoji,
			expanded: deptOpen,
		})
		if !deptOpen {
			continue
		}

		for _, area := range dept.Areas {
			if !d.AreaVisible(dept.ID, area.ID) {
				continue
			}
			areaOpen := d.AreaExpanded(dept.ID, area.ID)
			rows = append(rows, treeRow{
				kind:     rowArea,
				path:     model.Path{DeptID: dept.ID, AreaID: area.ID},
				label:    area.Name,
				emoji:    area.Emoji,
				count:    len(area.Workstreams),
				expanded: areaOpen,
			})
			if !areaOpen {
				continue
			}

			for _, ws := range area.Workstreams {
				p := model.Path{DeptID: dept.ID, AreaID: area.ID, WorkstreamID: ws.ID}
				if !d.WorkstreamVisible(p) {
					continue
				}
				rows = append(rows, treeRow{
					kind:   rowWorkstream,
					path:   p,
					label:  ws.Name,
					active: d.Active != nil && *d.Active == p,
				})
			}
		}
	}
	return rows
}

// indexOf returns the index of the row with the given key, or -1.
func indexOf(rows []treeRow, key rowKey) int {
	for i, r := range rows {
		if r.key() == key {
			return i
		}
	}
	return -1
}
