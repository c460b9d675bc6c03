package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"schoolnews/internal/app"
)

var subscribersCmd = &cobra.Command{
	Use:   "subscribers",
	Short: "Manage newsletter subscribers",
}

var subscribersAddCmd = &cobra.Command{
	Use:   "add <name> <email>",
	Short: "Subscribe a reader",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.Subscribers.Create(ctx, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "subscribed: %s\n", args[1])
			return nil
		})
	},
}

var subscribersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List subscribers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			list, err := a.Subscribers.List(ctx)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tSINCE")
			for _, s := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, s.Name, s.Email, s.SubscribedAt)
			}
			return tw.Flush()
		})
	},
}

var publishersCmd = &cobra.Command{
	Use:   "publishers",
	Short: "Onboard and check publishers",
}

var publishersAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a publisher, authorized by an admin",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		admin, _ := cmd.Flags().GetString("admin")
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			r := a.Publishers.CreatePublisher(ctx, name, email, admin)
			if !r.OK {
				return fmt.Errorf("%s: %w", r.Reason, r.Err())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "publisher registered: %s\n", email)
			return nil
		})
	},
}

var publishersCheckCmd = &cobra.Command{
	Use:   "check <email>",
	Short: "Report whether an e-mail belongs to a publisher",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			fmt.Fprintf(cmd.OutOrStdout(), "publisher: %t\n", a.Publishers.IsPublisher(ctx, args[0]))
			return nil
		})
	},
}

var adminsCmd = &cobra.Command{
	Use:   "admins",
	Short: "Check and seed admins",
}

var adminsCheckCmd = &cobra.Command{
	Use:   "check <email>",
	Short: "Report whether an e-mail belongs to an admin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			fmt.Fprintf(cmd.OutOrStdout(), "admin: %t\n", a.Publishers.IsAdmin(ctx, args[0]))
			return nil
		})
	},
}

var adminsAddCmd = &cobra.Command{
	Use:   "add <email>",
	Short: "Add an admin to a self-hosted remote store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.Publishers.AddAdmin(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin added: %s\n", args[0])
			return nil
		})
	},
}

func init() {
	f := publishersAddCmd.Flags()
	f.String("name", "", "publisher name")
	f.String("email", "", "publisher e-mail")
	f.String("admin", "", "e-mail of the authorizing admin")

	subscribersCmd.AddCommand(subscribersAddCmd, subscribersListCmd)
	publishersCmd.AddCommand(publishersAddCmd, publishersCheckCmd)
	adminsCmd.AddCommand(adminsCheckCmd, adminsAddCmd)
	rootCmd.AddCommand(subscribersCmd, publishersCmd, adminsCmd)
}
