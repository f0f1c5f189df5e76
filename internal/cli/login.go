package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/logistics/internal/store"
	"github.com/mesh-intelligence/logistics/pkg/types"
)

type loginResult struct {
	ID            types.ID `json:"id"`
	Username      string   `json:"username"`
	Administrator bool     `json:"administrator"`
}

func newLoginCmd(a *app) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Check a username and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd, func(db *store.Database) error {
				u, err := db.Authenticate(username, password)
				if err != nil {
					return err
				}
				role := "user"
				if u.Administrator {
					role = "administrator"
				}
				res := loginResult{ID: u.ID, Username: u.Username, Administrator: u.Administrator}
				return a.message(cmd, res, "Logged in as %s (%s)", u.Username, role)
			})
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "login name")
	cmd.Flags().StringVar(&password, "password", "", "login password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
