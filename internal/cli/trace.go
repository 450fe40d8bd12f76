package cli

import (
	"context"
	"errors"
	"strings"

	service "github.com/okian/netninja/internal/app"
	"github.com/okian/netninja/internal/domain/tracer"
	"github.com/spf13/cobra"
)

func (a *app) traceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trace",
		Short: "Route a packet hop by hop before its integrity runs out",
		Long:  "Route a packet hop by hop. Pick a route by number or by typing it. Type q to stop.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			return a.withService(cmd, func(ctx context.Context, svc *service.Service) error {
				id, snap, err := svc.StartTracer(ctx)
				if err != nil {
					return err
				}
				defer func() { _ = svc.StopTracer(ctx, id) }()

				earned, err := trace(svc, p, id, snap)
				p.say("XP earned this session: %d", earned)
				return err
			})
		},
	}
}

func trace(svc *service.Service, p *prompter, id string, snap tracer.Snapshot) (int, error) {
	earned := 0
	for {
		p.say("%s", renderTracer(snap))
		in, ok := p.ask("route> ")
		if !ok || isQuit(in) {
			return earned, nil
		}

		res, err := svc.TracerSelect(id, in)
		switch {
		case errors.Is(err, tracer.ErrUnknownOption):
			p.say("%s", colorNotice.Sprint("Pick one of the listed routes."))
			snap, err = svc.Tracer(id)
			if err != nil {
				return earned, err
			}
			continue
		case errors.Is(err, tracer.ErrRoundOver):
			snap, err = svc.Tracer(id)
			if err != nil {
				return earned, err
			}
			res = tracer.Result{Feedback: snap.Feedback}
		case err != nil:
			return earned, err
		}
		earned += res.XP

		switch {
		case res.Delivered:
			p.say("%s", colorCorrect.Sprintf("%s +%d XP", res.Feedback, res.XP))
			if !confirm(p, "next level? [Y/n] ", true) {
				return earned, nil
			}
			snap, err = svc.TracerNext(id)
		case res.Correct:
			p.say("%s", colorCorrect.Sprintf("Hop cleared. +%d XP", res.XP))
			snap, err = svc.Tracer(id)
		default:
			p.say("%s", colorWrong.Sprint(res.Feedback))
			if !confirm(p, "retry? [Y/n] ", true) {
				return earned, nil
			}
			snap, err = svc.TracerRetry(id)
		}
		if err != nil {
			return earned, err
		}
	}
}

func confirm(p *prompter, label string, def bool) bool {
	in, ok := p.ask(label)
	if !ok {
		return false
	}
	switch strings.ToLower(in) {
	case "":
		return def
	case "y", "yes":
		return true
	}
	return false
}
