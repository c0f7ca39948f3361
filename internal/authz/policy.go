// Package authz maps a user's role and department to the set of dashboard
// sections they may see. The policy is pure and evaluated once per session;
// a department change requires a fresh login to take effect.
package authz

import "strings"

// Role is the coarse privilege level carried by a credential.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Section identifies one functional area of the dashboard.
type Section string

const (
	SectionDashboard     Section = "dashboard"
	SectionUsers         Section = "users"
	SectionShipOrders    Section = "ship-orders"
	SectionRepairs       Section = "repairs"
	SectionTenders       Section = "tenders"
	SectionInventory     Section = "inventory"
	SectionStockExports  Section = "stock-exports"
	SectionPayments      Section = "payments"
	SectionNotifications Section = "notifications"
)

// AllSections returns the full section universe in navigation order.
func AllSections() []Section {
	return []Section{
		SectionDashboard,
		SectionUsers,
		SectionShipOrders,
		SectionRepairs,
		SectionTenders,
		SectionInventory,
		SectionStockExports,
		SectionPayments,
		SectionNotifications,
	}
}

// ParseSection returns the Section for an id tag, reporting whether the id is
// part of the known universe.
func ParseSection(id string) (Section, bool) {
	for _, s := range AllSections() {
		if string(s) == id {
			return s, true
		}
	}
	return "", false
}

// AccessTable maps an upper-cased department name to the ordered sections its
// members may see.
type AccessTable map[string][]Section

// DefaultAccessTable returns the built-in department grants.
func DefaultAccessTable() AccessTable {
	return AccessTable{
		"ENGINEERING":     {SectionDashboard, SectionShipOrders, SectionRepairs, SectionInventory, SectionStockExports},
		"OPERATIONS":      {SectionDashboard, SectionShipOrders, SectionRepairs, SectionStockExports},
		"FINANCE":         {SectionDashboard, SectionPayments},
		"PROCUREMENT":     {SectionDashboard, SectionInventory, SectionStockExports, SectionTenders},
		"ADMINISTRATION":  {SectionDashboard, SectionUsers, SectionShipOrders, SectionRepairs, SectionTenders, SectionInventory, SectionStockExports, SectionPayments, SectionNotifications},
		"QUALITY_CONTROL": {SectionDashboard, SectionRepairs, SectionShipOrders},
		"SAFETY":          {SectionDashboard, SectionRepairs},
		"OTHER":           {SectionDashboard},
	}
}

// Policy resolves visible sections from an access table.
type Policy struct {
	table AccessTable
}

// NewPolicy validates the access table and returns a Policy. Every department
// must map to a non-empty list of known sections.
func NewPolicy(table AccessTable) (*Policy, error) {
	if table == nil {
		table = DefaultAccessTable()
	}
	for dept, sections := range table {
		if len(sections) == 0 {
			return nil, &TableError{Department: dept, Reason: "empty section list"}
		}
		for _, s := range sections {
			if _, ok := ParseSection(string(s)); !ok {
				return nil, &TableError{Department: dept, Reason: "unknown section " + string(s)}
			}
		}
	}
	return &Policy{table: table}, nil
}

// TableError reports an invalid access table entry.
type TableError struct {
	Department string
	Reason     string
}

func (e *TableError) Error() string {
	return "access table: department " + e.Department + ": " + e.Reason
}

// VisibleSections returns the sections the given role/department pair may
// see. ADMIN bypasses the table entirely. An unmapped or empty department
// resolves to the minimal {dashboard} set; this is not an error.
func (p *Policy) VisibleSections(role Role, department string) []Section {
	if role == RoleAdmin {
		return AllSections()
	}
	if sections, ok := p.table[strings.ToUpper(department)]; ok {
		out := make([]Section, len(sections))
		copy(out, sections)
		return out
	}
	return []Section{SectionDashboard}
}

// Allows reports whether the role/department pair may see the section.
func (p *Policy) Allows(role Role, department string, section Section) bool {
	for _, s := range p.VisibleSections(role, department) {
		if s == section {
			return true
		}
	}
	return false
}
