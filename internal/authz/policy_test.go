package authz

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPolicy(t *testing.T) *Policy {
	t.Helper()
	p, err := NewPolicy(DefaultAccessTable())
	require.NoError(t, err)
	return p
}

func TestVisibleSections_AdminBypassesTable(t *testing.T) {
	p := mustPolicy(t)

	for _, dept := range []string{"", "FINANCE", "unknown-dept", "ENGINEERING"} {
		got := p.VisibleSections(RoleAdmin, dept)
		if diff := cmp.Diff(AllSections(), got); diff != "" {
			t.Errorf("admin with department %q (-want +got):\n%s", dept, diff)
		}
	}
}

func TestVisibleSections_UserDepartments(t *testing.T) {
	p := mustPolicy(t)

	cases := []struct {
		dept string
		want []Section
	}{
		{"FINANCE", []Section{SectionDashboard, SectionPayments}},
		{"finance", []Section{SectionDashboard, SectionPayments}},
		{"ENGINEERING", []Section{SectionDashboard, SectionShipOrders, SectionRepairs, SectionInventory, SectionStockExports}},
		{"SAFETY", []Section{SectionDashboard, SectionRepairs}},
		{"unknown-dept", []Section{SectionDashboard}},
		{"", []Section{SectionDashboard}},
	}
	for _, tc := range cases {
		t.Run(tc.dept, func(t *testing.T) {
			got := p.VisibleSections(RoleUser, tc.dept)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("VisibleSections(USER, %q) (-want +got):\n%s", tc.dept, diff)
			}
		})
	}
}

func TestVisibleSections_EveryDepartmentNonEmpty(t *testing.T) {
	p := mustPolicy(t)
	for dept := range DefaultAccessTable() {
		assert.NotEmpty(t, p.VisibleSections(RoleUser, dept), "department %s", dept)
	}
}

func TestAllows(t *testing.T) {
	p := mustPolicy(t)

	assert.True(t, p.Allows(RoleUser, "FINANCE", SectionPayments))
	assert.False(t, p.Allows(RoleUser, "FINANCE", SectionTenders))
	assert.True(t, p.Allows(RoleAdmin, "", SectionUsers))
}

func TestNewPolicy_RejectsInvalidTables(t *testing.T) {
	t.Run("empty section list", func(t *testing.T) {
		_, err := NewPolicy(AccessTable{"DOCKS": {}})
		var terr *TableError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, "DOCKS", terr.Department)
	})

	t.Run("unknown section", func(t *testing.T) {
		_, err := NewPolicy(AccessTable{"DOCKS": {Section("drydock")}})
		assert.Error(t, err)
	})

	t.Run("nil table uses defaults", func(t *testing.T) {
		p, err := NewPolicy(nil)
		require.NoError(t, err)
		assert.Equal(t, []Section{SectionDashboard, SectionPayments}, p.VisibleSections(RoleUser, "FINANCE"))
	})
}

func TestParseSection(t *testing.T) {
	s, ok := ParseSection("stock-exports")
	assert.True(t, ok)
	assert.Equal(t, SectionStockExports, s)

	_, ok = ParseSection("drydock")
	assert.False(t, ok)
}

func TestLoadAccessTable(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(dir, "access.yaml")
		data := "DOCKS:\n  - dashboard\n  - repairs\nFINANCE:\n  - dashboard\n  - payments\n"
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

		table, err := LoadAccessTable(path)
		require.NoError(t, err)

		p, err := NewPolicy(table)
		require.NoError(t, err)
		assert.Equal(t, []Section{SectionDashboard, SectionRepairs}, p.VisibleSections(RoleUser, "DOCKS"))
		// Departments absent from the override fall back to {dashboard}.
		assert.Equal(t, []Section{SectionDashboard}, p.VisibleSections(RoleUser, "ENGINEERING"))
	})

	t.Run("unknown section id", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("DOCKS:\n  - drydock\n"), 0o644))

		_, err := LoadAccessTable(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadAccessTable(filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
	})
}
