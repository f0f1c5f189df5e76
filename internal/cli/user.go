package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/logistics/internal/store"
	"github.com/mesh-intelligence/logistics/pkg/types"
)

func newUserCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	cmd.AddCommand(
		newUserListCmd(a),
		newUserAddCmd(a),
		newUpdateCmd(a, types.KindUser),
		newDeleteCmd(a, types.KindUser),
	)
	return cmd
}

func newUserListCmd(a *app) *cobra.Command {
	var sortKey string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := types.ParseUserKey(sortKey)
			if err != nil {
				return err
			}
			return a.withStore(cmd, func(db *store.Database) error {
				us, err := db.Users(key)
				if err != nil {
					return err
				}
				return a.render(cmd, us, (&types.User{}).Header(), rowsOf(us))
			})
		},
	}
	cmd.Flags().StringVar(&sortKey, "sort", string(types.UserByLastName), "ordering: firstName, lastName, birthday, username, id")
	return cmd
}

func newUserAddCmd(a *app) *cobra.Command {
	var (
		first, last, birthday string
		username, password    string
		admin                 bool
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := parseOptionalDate(birthday)
			if err != nil {
				return err
			}
			return a.insertNew(cmd, types.KindUser, func(_ *store.Database, id types.ID) (types.Record, error) {
				return types.NewUser(first, last, d, id, admin, username, password), nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&first, "first", "", "first name")
	f.StringVar(&last, "last", "", "last name")
	f.StringVar(&birthday, "birthday", "", "birthday mm/dd/yyyy (default: today)")
	f.BoolVar(&admin, "admin", false, "grant administrator rights")
	f.StringVar(&username, "username", "", "login name")
	f.StringVar(&password, "password", "", "login password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
