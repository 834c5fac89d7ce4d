package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Bitlatte/pinpage/internal/site"
)

func newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Builds the blog from content, layouts, and static assets",
		Long: `The build command reads Markdown posts from the content directory,
renders each post and the paginated home listing with the layouts (or the
built-in theme), copies static assets, and writes the site to the output
directory (default './public/').`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := site.NewBuilder(appConfig).Build(cmd.Context())
			return err
		},
	}
}
