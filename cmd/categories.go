package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCategoriesCmd() *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Prints a blog's resolved category taxonomy",

		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}

			crawler, err := appInstance.NewCrawler(cmd.Context(), owner)
			if err != nil {
				return fmt.Errorf("build crawler: %w", err)
			}

			index := crawler.Categories()
			for _, name := range crawler.CategoryNames() {
				cat := index[name]
				if cat.ParentID != nil {
					fmt.Printf("%s\t(id %d, parent %d)\n", name, cat.ID, *cat.ParentID)
					continue
				}
				fmt.Printf("%s\t(id %d)\n", name, cat.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "platform owner handle of the blog")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}
