package cli

import (
	"context"
	"fmt"
	"strings"

	service "github.com/okian/netninja/internal/app"
	"github.com/spf13/cobra"
)

func (a *app) hintCmd() *cobra.Command {
	var (
		ip   string
		cidr int
	)
	cmd := &cobra.Command{
		Use:   "hint <topic> [context]",
		Short: "Ask the tutor about a concept",
		Long:  "Ask the tutor about a concept. With --ip and --cidr it breaks the subnet down instead.",
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if ip == "" && len(args) == 0 {
				return fmt.Errorf("hint needs a topic or --ip")
			}
			return a.withService(cmd, func(ctx context.Context, svc *service.Service) error {
				var (
					text string
					err  error
				)
				if ip != "" {
					text, err = svc.Breakdown(ctx, ip, cidr)
				} else {
					text, err = svc.Hint(ctx, args[0], strings.Join(args[1:], " "))
				}
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), panel("Tutor", text))
				return err
			})
		},
	}
	cmd.Flags().StringVar(&ip, "ip", "", "address to break down")
	cmd.Flags().IntVar(&cidr, "cidr", 24, "prefix length used with --ip")
	return cmd
}
