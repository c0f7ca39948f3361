package authz

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadAccessTable reads a department→sections mapping from a YAML file:
//
//	ENGINEERING:
//	  - dashboard
//	  - ship-orders
//
// Section ids use the same tags as the navigation surface. The result is
// validated by NewPolicy; loading does not merge with the defaults.
func LoadAccessTable(path string) (AccessTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read access table: %w", err)
	}

	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse access table: %w", err)
	}

	table := make(AccessTable, len(raw))
	for dept, ids := range raw {
		sections := make([]Section, 0, len(ids))
		for _, id := range ids {
			s, ok := ParseSection(id)
			if !ok {
				return nil, &TableError{Department: dept, Reason: "unknown section " + id}
			}
			sections = append(sections, s)
		}
		table[dept] = sections
	}
	return table, nil
}
