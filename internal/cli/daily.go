package cli

import (
	"context"
	"errors"

	service "github.com/okian/netninja/internal/app"
	"github.com/okian/netninja/internal/domain/daily"
	"github.com/okian/netninja/internal/domain/progression"
	"github.com/spf13/cobra"
)

func (a *app) dailyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daily",
		Short: "Play today's three-stage challenge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			return a.withService(cmd, func(ctx context.Context, svc *service.Service) error {
				for {
					v, err := svc.Daily(ctx)
					if err != nil {
						return err
					}
					p.say("%s", renderDaily(v))
					if v.Completed {
						return nil
					}

					in, ok := p.ask("> ")
					if !ok || isQuit(in) {
						return nil
					}
					res, err := svc.DailyAnswer(ctx, in)
					switch {
					case errors.Is(err, daily.ErrWrongAnswer):
						p.say("%s", colorWrong.Sprint("Wrong answer, try again."))
						continue
					case errors.Is(err, daily.ErrAlreadyCompleted):
						continue
					case err != nil:
						return err
					}
					if !res.Completed {
						p.say("%s", colorCorrect.Sprint("Correct!"))
						continue
					}
					if res.Outcome != nil {
						p.say("%s", colorCorrect.Sprintf("Challenge complete! +%d XP, streak %d",
							progression.DailyBonusXP, res.Outcome.Stats.Streak))
					}
				}
			})
		},
	}
}
