package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackpearl/shipyard-console/internal/authz"
	"github.com/blackpearl/shipyard-console/internal/console"
)

// sectionsCmd lists the sections the current session may see
var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "List the sections visible to the current session",
	RunE:  runSections,
}

// showCmd renders one section once
var showCmd = &cobra.Command{
	Use:   "show <section>",
	Short: "Fetch and render one section",
	Long: `Fetch a section's current server state and render it once.

Section ids: ` + sectionIDs() + `.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func sectionIDs() string {
	all := authz.AllSections()
	ids := make([]string, len(all))
	for i, s := range all {
		ids[i] = string(s)
	}
	return strings.Join(ids, ", ")
}

func runSections(cmd *cobra.Command, args []string) error {
	c, err := buildConsole(nil)
	if err != nil {
		return err
	}
	sections, err := c.VisibleSections()
	if err != nil {
		return err
	}
	for _, s := range sections {
		fmt.Println(s)
	}
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	section, ok := authz.ParseSection(args[0])
	if !ok {
		return fmt.Errorf("unknown section %q (want one of: %s)", args[0], sectionIDs())
	}

	c, err := buildConsole(func() {
		fmt.Println("Session expired; please log in again.")
	})
	if err != nil {
		return err
	}

	if err := c.ShowSection(cmd.Context(), section); err != nil {
		if errors.Is(err, console.ErrSectionNotVisible) {
			return fmt.Errorf("section %q is not visible for your department", section)
		}
		return err
	}
	return nil
}
