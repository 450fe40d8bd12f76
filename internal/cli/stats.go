package cli

import (
	"context"
	"encoding/json"
	"fmt"

	service "github.com/okian/netninja/internal/app"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Output formats of the stats command.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

func (a *app) statsCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show level, XP, streak, badges and inventory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withService(cmd, func(_ context.Context, svc *service.Service) error {
				st := svc.Stats()
				out := cmd.OutOrStdout()
				switch output {
				case outputText:
					_, err := fmt.Fprintln(out, renderStats(st))
					if err != nil {
						return err
					}
					_, err = fmt.Fprintln(out, renderGallery(svc.Badges()))
					return err
				case outputJSON:
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(st)
				case outputYAML:
					enc := yaml.NewEncoder(out)
					enc.SetIndent(2)
					if err := enc.Encode(st); err != nil {
						return err
					}
					return enc.Close()
				}
				return fmt.Errorf("unknown output %q: want text, json or yaml", output)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "text, json or yaml")
	return cmd
}
