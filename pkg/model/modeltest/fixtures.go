// Package modeltest provides shared directory fixtures for tests.
package modeltest

import "github.com/connecthear/opsportal/pkg/model"

// Sample returns a small three-department directory. Ids deliberately contain
// the composite-key separator.
func Sample() *model.Directory {
	d := &model.Directory{
		Departments: []model.Department{
			{
				ID:    "people-ops",
				Name:  "People Ops",
				Emoji: "🔷",
				Areas: []model.Area{
					{
						ID:    "onboarding",
						Name:  "Onboarding",
						Emoji: "📍",
						Workstreams: []model.Workstream{
							{
								ID:          "staff-training",
								Name:        "Staff Training",
								Description: "Run induction sessions for new hires.",
								Frequency:   "Monthly",
								RACI: []model.RACIRole{
									{Role: "HR Lead", Responsible: true},
									{Role: "Head of Ops", Accountable: true},
									{Role: "Team Leads", Consulted: true},
								},
								Dependencies: []model.Dependency{{Team: "Finance", Reason: "training budget"}},
								Output:       []string{"Attendance sheet", "Feedback summary"},
							},
							{
								ID:        "equipment",
								Name:      "Equipment Handover",
								Frequency: "Per hire",
							},
						},
					},
					{
						ID:    "reviews",
						Name:  "Reviews",
						Emoji: "📍",
						Workstreams: []model.Workstream{
							{
								ID:          "quarterly-reviews",
								Name:        "Performance Reviews",
								Description: "Structured check-ins with every employee.",
								Frequency:   "quarterly training",
							},
						},
					},
				},
			},
			{
				ID:    "finance",
				Name:  "Finance",
				Emoji: "🔷",
				Areas: []model.Area{
					{
						ID:    "payables",
						Name:  "Payables",
						Emoji: "📍",
						Workstreams: []model.Workstream{
							{
								ID:          "invoices",
								Name:        "Invoice Processing",
								Description: "Verify and pay supplier invoices.",
								Frequency:   "Weekly",
								RACI: []model.RACIRole{
									{Role: "Finance Officer", Responsible: true, Accountable: true},
								},
								Output: []string{"Payment batch", "Payment log"},
							},
						},
					},
				},
			},
			{
				ID:    "dept-a",
				Name:  "Department A",
				Emoji: "🔷",
				Areas: []model.Area{
					{
						ID:    "area-1",
						Name:  "Area One",
						Emoji: "📍",
						Workstreams: []model.Workstream{
							{ID: "ws-main", Name: "Main Workstream"},
						},
					},
				},
			},
		},
	}
	d.RefreshMetadata()
	return d
}

// Path is shorthand for building a model.Path in tests.
func Path(dept, area, ws string) model.Path {
	return model.Path{DeptID: dept, AreaID: area, WorkstreamID: ws}
}
