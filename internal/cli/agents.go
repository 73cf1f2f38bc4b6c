package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	domainagent "github.com/alanyang/agent-marketplace/internal/domain/agent"
	"github.com/alanyang/agent-marketplace/internal/wire"
)

func newAgentsCmd() *cobra.Command {
	var (
		query    string
		category string
		tags     []string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "agents",
		Short: "List catalog agents, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := wire.BuildCore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer core.Shutdown(cmd.Context()) //nolint:errcheck

			f := domainagent.FilterState{
				Query:    query,
				Category: domainagent.NormalizeCategoryParam(category),
				Tags:     tags,
			}
			agents := core.Catalog.List(f)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(agents)
			}
			if len(agents) == 0 {
				fmt.Fprintln(out, "No agents found")
				return nil
			}

			p := message.NewPrinter(language.English)
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tSCORE\tUSES\tTAGS")
			for _, a := range agents {
				p.Fprintf(w, "%s\t%s\t%s\t%.1f\t%d\t%s\n",
					a.ID, a.Name, a.Category, a.PopularityScore, a.UsageCount, strings.Join(a.Tags, ","))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "text matched against name and description")
	cmd.Flags().StringVar(&category, "category", "", "category, e.g. writing or Writing")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "required tag (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}
