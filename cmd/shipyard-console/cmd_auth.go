package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	loginEmail    string
	loginPassword string
	loginAdmin    bool
)

// loginCmd exchanges credentials for a session
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the shipyard API",
	Long: `Authenticate against the shipyard API and store the trust context
locally. Subsequent commands reuse the stored session until logout or
expiry.`,
	RunE: runLogin,
}

// logoutCmd ends the session
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear the stored session",
	RunE:  runLogout,
}

// whoamiCmd prints the stored trust context
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session's identity",
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "account email")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "account password (prompted when omitted)")
	loginCmd.Flags().BoolVar(&loginAdmin, "admin", false, "require an ADMIN account")
}

func runLogin(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)
	if loginEmail == "" {
		fmt.Print("Email: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read email: %w", err)
		}
		loginEmail = strings.TrimSpace(line)
	}
	if loginPassword == "" {
		fmt.Print("Password: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		loginPassword = strings.TrimSpace(line)
	}

	c, err := buildConsole(nil)
	if err != nil {
		return err
	}

	trust, err := c.Login(cmd.Context(), loginEmail, loginPassword, loginAdmin)
	if err != nil {
		return err
	}

	fmt.Printf("Logged in as %s (%s, %s)\n", trust.Email, trust.Role, trust.Department)
	sections, err := c.VisibleSections()
	if err != nil {
		return err
	}
	ids := make([]string, len(sections))
	for i, s := range sections {
		ids[i] = string(s)
	}
	fmt.Printf("Visible sections: %s\n", strings.Join(ids, ", "))
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	c, err := buildConsole(nil)
	if err != nil {
		return err
	}
	if !c.Sessions().IsLoggedIn() {
		fmt.Println("Not logged in.")
		return nil
	}
	c.Logout(cmd.Context())
	fmt.Println("Logged out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	c, err := buildConsole(nil)
	if err != nil {
		return err
	}
	trust, ok := c.Sessions().Read()
	if !ok {
		fmt.Println("Not logged in.")
		return nil
	}
	fmt.Printf("Email:      %s\n", trust.Email)
	fmt.Printf("Role:       %s\n", trust.Role)
	fmt.Printf("Department: %s\n", trust.Department)
	return nil
}
