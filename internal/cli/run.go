package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alanyang/agent-marketplace/internal/wire"
)

func newRunCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "run <agent-id> <prompt>...",
		Short: "Run an agent on a prompt and print its response",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := wire.BuildCore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer core.Shutdown(cmd.Context()) //nolint:errcheck

			r, err := core.Runs.Run(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(r)
			}

			var pretty bytes.Buffer
			if err := json.Indent(&pretty, r.Payload, "", "  "); err != nil {
				return fmt.Errorf("format payload: %w", err)
			}
			fmt.Fprintln(out, pretty.String())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the whole run record")
	return cmd
}
