package cli

import (
	"context"
	"fmt"

	service "github.com/okian/netninja/internal/app"
	"github.com/spf13/cobra"
)

func (a *app) shopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shop",
		Short: "Spend XP on themes, avatars, frames and upgrades",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withService(cmd, func(_ context.Context, svc *service.Service) error {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), renderShop(svc.Shop(), svc.Stats().XP))
				return err
			})
		},
	}

	buy := &cobra.Command{
		Use:   "buy <id>",
		Short: "Buy an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *service.Service) error {
				bought, err := svc.Purchase(ctx, args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if !bought {
					_, err = fmt.Fprintln(out, colorNotice.Sprintf("You already own %s.", args[0]))
					return err
				}
				_, err = fmt.Fprintln(out, colorCorrect.Sprintf("Bought %s. %d XP left.", args[0], svc.Stats().XP))
				return err
			})
		},
	}

	equip := &cobra.Command{
		Use:   "equip <id>",
		Short: "Equip an owned theme, avatar or frame",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *service.Service) error {
				if err := svc.Equip(ctx, args[0]); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), colorCorrect.Sprintf("Equipped %s.", args[0]))
				return err
			})
		},
	}

	cmd.AddCommand(list, buy, equip)
	return cmd
}
