package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kailas-cloud/taggate/internal/domain"
)

var (
	userKey     string
	userLimit   int
	userEnabled bool
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage gateway API users",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an API user (generates the key unless --key is given)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		storage, err := openStorage(ctx)
		if err != nil {
			return err
		}
		defer storage.Close()

		key := userKey
		if key == "" {
			key = uuid.NewString()
		}
		exists, err := storage.Users.Exists(ctx, key)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("API key %q already exists", key)
		}

		u, err := domain.NewUser(uuid.NewString(), key, true)
		if err != nil {
			return err
		}
		if err := storage.Users.Save(ctx, u); err != nil {
			return fmt.Errorf("save user: %w", err)
		}
		logger.Info("user created", "id", u.ID(), "driver", storage.Driver)
		fmt.Fprintf(cmd.OutOrStdout(), "id:      %s\napi_key: %s\n", u.ID(), u.APIKey())
		return nil
	},
}

var userActivateCmd = &cobra.Command{
	Use:   "set-active <api-key>",
	Short: "Activate or deactivate an API key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		storage, err := openStorage(ctx)
		if err != nil {
			return err
		}
		defer storage.Close()

		u, err := storage.Users.FindByAPIKey(ctx, args[0])
		if err != nil {
			return err
		}
		updated := domain.ReconstructUser(u.ID(), u.APIKey(), userEnabled)
		if err := storage.Users.Save(ctx, updated); err != nil {
			return fmt.Errorf("save user: %w", err)
		}
		logger.Info("user updated", "id", u.ID(), "active", userEnabled)
		return nil
	},
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete <api-key>",
	Short: "Delete an API user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		storage, err := openStorage(ctx)
		if err != nil {
			return err
		}
		defer storage.Close()

		if err := storage.Users.Delete(ctx, args[0]); err != nil {
			return err
		}
		logger.Info("user deleted")
		return nil
	},
}

var userQueriesCmd = &cobra.Command{
	Use:   "queries <api-key>",
	Short: "List a user's most recent tagging requests",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		storage, err := openStorage(ctx)
		if err != nil {
			return err
		}
		defer storage.Close()

		u, err := storage.Users.FindByAPIKey(ctx, args[0])
		if err != nil {
			return err
		}
		queries, err := storage.Queries.Recent(ctx, u.ID(), userLimit)
		if err != nil {
			return err
		}
		printQueries(cmd, queries)
		return nil
	},
}

func printQueries(cmd *cobra.Command, queries []domain.Query) {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CREATED\tSTATUS\tID\tREQUEST\tRESPONSE")
	for _, q := range queries {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n",
			q.CreatedAt().UTC().Format(time.RFC3339),
			q.Status(),
			q.ID(),
			compact(q.Request()),
			compact(q.Response()),
		)
	}
	_ = tw.Flush()
}

func compact(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "null"
	}
	return string(raw)
}

func init() {
	userCreateCmd.Flags().StringVar(&userKey, "key", "", "API key to assign (default: random)")
	userActivateCmd.Flags().BoolVar(&userEnabled, "active", true, "new active state")
	userQueriesCmd.Flags().IntVarP(&userLimit, "limit", "n", 20, "number of records (0 for all)")

	userCmd.AddCommand(userCreateCmd, userActivateCmd, userDeleteCmd, userQueriesCmd)
}
