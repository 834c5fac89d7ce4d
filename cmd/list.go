package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/Bitlatte/pinpage/internal/compose"
	"github.com/Bitlatte/pinpage/internal/site"
)

type listedPost struct {
	Title  string `yaml:"title"`
	Date   string `yaml:"date,omitempty"`
	URL    string `yaml:"url"`
	Pinned bool   `yaml:"pinned"`
	Words  int    `yaml:"words"`
}

type listedPage struct {
	Page       int          `yaml:"page"`
	TotalPages int          `yaml:"total_pages"`
	PerPage    int          `yaml:"per_page"`
	Posts      []listedPost `yaml:"posts"`
}

func newListCmd() *cobra.Command {
	var (
		page   int
		format string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Prints the posts shown on one page of the home listing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b := site.NewBuilder(appConfig)
			data, err := b.LoadSite(cmd.Context())
			if err != nil {
				return err
			}
			pg := compose.NewPaginator(page, appConfig.Paginate, data.Pinned, data.Defaults, b.PagePath)

			out := listedPage{Page: pg.Page, TotalPages: pg.TotalPages, PerPage: pg.PerPage, Posts: []listedPost{}}
			for _, p := range pg.Posts {
				lp := listedPost{Title: p.Title, URL: p.URL, Pinned: p.Pin, Words: p.WordCount}
				if !p.Date.IsZero() {
					lp.Date = p.Date.Format(time.DateOnly)
				}
				out.Posts = append(out.Posts, lp)
			}

			switch format {
			case "yaml":
				enc, err := yaml.Marshal(out)
				if err != nil {
					return fmt.Errorf("failed to encode page: %w", err)
				}
				_, err = cmd.OutOrStdout().Write(enc)
				return err
			case "table":
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintf(w, "PAGE %d/%d\n", out.Page, out.TotalPages)
				for _, p := range out.Posts {
					pin := ""
					if p.Pinned {
						pin = "pinned"
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Date, pin, p.Title, p.URL)
				}
				return w.Flush()
			default:
				return fmt.Errorf("unknown format %q (want table or yaml)", format)
			}
		},
	}
	cmd.Flags().IntVarP(&page, "page", "n", 1, "page number (1-based)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table or yaml")
	return cmd
}
