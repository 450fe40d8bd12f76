package cli

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"

	service "github.com/okian/netninja/internal/app"
	"github.com/okian/netninja/internal/domain/puzzle"
	"github.com/spf13/cobra"
)

func (a *app) playCmd() *cobra.Command {
	var (
		rounds int
		params puzzle.Params
	)
	names := make([]string, 0, len(puzzle.Kinds()))
	for _, k := range puzzle.Kinds() {
		names = append(names, string(k))
	}
	cmd := &cobra.Command{
		Use:       "play <kind>",
		Short:     "Answer puzzles of one kind",
		Long:      "Answer puzzles of one kind. Kinds: " + strings.Join(names, ", ") + ". Type q to stop.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := puzzle.ParseKind(args[0])
			if err != nil {
				return err
			}
			p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			return a.withService(cmd, func(ctx context.Context, svc *service.Service) error {
				for i := 0; rounds <= 0 || i < rounds; i++ {
					more, err := playOne(ctx, svc, p, kind, params)
					if err != nil || !more {
						return err
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&rounds, "rounds", "n", 5, "number of puzzles (0 plays until q)")
	cmd.Flags().BoolVar(&params.Hard, "hard", false, "hard mode for bitwise puzzles")
	cmd.Flags().IntVar(&params.Wave, "wave", 1, "firewall wave for firewall_judgement")
	return cmd
}

// playOne issues a puzzle and asks until a well-formed answer arrives.
func playOne(ctx context.Context, svc *service.Service, p *prompter, kind puzzle.Kind, params puzzle.Params) (bool, error) {
	is, err := svc.NewPuzzle(ctx, kind, params)
	if err != nil {
		return false, err
	}
	p.say("%s", renderPuzzle(is))
	for {
		in, ok := p.ask("> ")
		if !ok || isQuit(in) {
			return false, nil
		}
		if len(is.Choices) > 0 {
			in = choice(in, is.Choices)
		}
		res, err := svc.Answer(ctx, is.ID, in)
		if errors.Is(err, puzzle.ErrInvalidFormat) {
			p.say("%s", colorNotice.Sprint(err.Error()))
			continue
		}
		if err != nil {
			return false, err
		}
		p.say("%s", renderVerdict(res))
		return true, nil
	}
}

// choice maps a 1-based menu number to its option. Input that names an
// option literally passes through unchanged.
func choice(in string, choices []string) string {
	if slices.Contains(choices, in) {
		return in
	}
	if n, err := strconv.Atoi(in); err == nil && n >= 1 && n <= len(choices) {
		return choices[n-1]
	}
	return in
}
