package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newCrawlCmd() *cobra.Command {
	var (
		owner    string
		category string
		count    int
	)

	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Runs one ingest pass for a registered blog",
		Long: `Resolves the blog's category taxonomy, enumerates post ids in the
requested category, extracts each post's content, and persists the
assembled records. Already-ingested posts are skipped.`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			logger := appInstance.Logger()

			blog, err := appInstance.Store().GetBlogByOwner(cmd.Context(), owner)
			if err != nil {
				return fmt.Errorf("look up blog %q: %w", owner, err)
			}

			crawler, err := appInstance.NewCrawler(cmd.Context(), blog.Owner)
			if err != nil {
				return fmt.Errorf("build crawler: %w", err)
			}

			if count <= 0 {
				count = appInstance.Config().Crawler.DefaultCount
			}
			result, err := appInstance.Ingestor().Run(cmd.Context(), blog, crawler, category, count)
			if err != nil {
				return fmt.Errorf("run ingest: %w", err)
			}

			logger.Info("crawl finished",
				zap.Int("found", result.Found),
				zap.Int("saved", result.Saved),
				zap.Int("skipped", result.Skipped),
				zap.Int("failed", result.Failed),
			)
			return json.NewEncoder(os.Stdout).Encode(result)
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "platform owner handle of the registered blog")
	cmd.Flags().StringVar(&category, "category", "", "category to enumerate (defaults to the blog's target category)")
	cmd.Flags().IntVar(&count, "count", 0, "page size hint for post enumeration")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}
