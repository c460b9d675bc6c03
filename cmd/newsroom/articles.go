package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"schoolnews/internal/app"
	"schoolnews/internal/articles"
)

var articlesCmd = &cobra.Command{
	Use:   "articles",
	Short: "List, publish and delete articles",
}

var articlesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List articles, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			list := a.Articles.ListAll(ctx)
			if asJSON {
				return writeJSON(cmd, list)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDATE\tTITLE\tAUTHOR")
			for _, art := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", art.ID, art.PublishedAtDisplay, art.Title, art.AuthorEmail)
			}
			return tw.Flush()
		})
	},
}

var articlesGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Print one article as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			art, err := a.Articles.Get(ctx, args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd, art)
		})
	},
}

var articlesPublishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish an article as a registered publisher and notify subscribers",
	Long: `Publish an article. The --as e-mail must belong to a registered publisher.

After the article is stored every subscriber is e-mailed; failed e-mails are
counted but never undo the publish.

Example:
  newsroom articles publish --as ana@school.edu --title "Feria de Ciencias" \
    --banner https://example.com/feria.jpg --body-file feria.txt`,
	Args: cobra.NoArgs,
	RunE: runPublish,
}

func runPublish(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	as, _ := f.GetString("as")
	d := articles.Draft{AuthorEmail: as}
	d.Title, _ = f.GetString("title")
	d.BannerURL, _ = f.GetString("banner")
	d.Body, _ = f.GetString("body")
	d.AuthorName, _ = f.GetString("author-name")
	if path, _ := f.GetString("body-file"); path != "" {
		if d.Body != "" {
			return errors.New("use either --body or --body-file")
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		d.Body = string(b)
	}

	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		res := a.Newsroom.Publish(ctx, as, d)
		if res.Err != nil {
			return res.Err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "published: %s\n", d.Title)
		switch {
		case !res.Notified:
			fmt.Fprintln(out, "notifications: disabled")
		case res.Report.Err != nil:
			fmt.Fprintf(out, "notifications: not sent (%v)\n", res.Report.Err)
		default:
			fmt.Fprintf(out, "notifications: %d sent, %d failed\n", res.Report.Sent, res.Report.Failed)
		}
		return nil
	})
}

var articlesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an article",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.Articles.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted: %s\n", args[0])
			return nil
		})
	},
}

var articlesSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Store the sample school articles (demo data)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			n := a.Articles.SeedSamples(ctx)
			fmt.Fprintf(cmd.OutOrStdout(), "seeded: %d\n", n)
			return nil
		})
	},
}

func init() {
	articlesListCmd.Flags().Bool("json", false, "print JSON instead of a table")

	pf := articlesPublishCmd.Flags()
	pf.String("as", "", "publisher e-mail (required)")
	pf.String("title", "", "article title")
	pf.String("banner", "", "banner image URL")
	pf.String("body", "", "article body")
	pf.String("body-file", "", "read the article body from a file")
	pf.String("author-name", "", "author display name")
	_ = articlesPublishCmd.MarkFlagRequired("as")

	articlesCmd.AddCommand(articlesListCmd, articlesGetCmd, articlesPublishCmd, articlesDeleteCmd, articlesSeedCmd)
	rootCmd.AddCommand(articlesCmd)
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
