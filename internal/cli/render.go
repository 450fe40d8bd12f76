package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gookit/color"
	service "github.com/okian/netninja/internal/app"
	"github.com/okian/netninja/internal/domain/progression"
	"github.com/okian/netninja/internal/domain/shop"
	"github.com/okian/netninja/internal/domain/tracer"
)

// Terminal palette.
const (
	cyan   = "#8be9fd"
	green  = "#50fa7b"
	purple = "#bd93f9"
	gray   = "#6272a4"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(purple))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(cyan)).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(gray)).
			Width(11)

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(green))

	colorCorrect = color.Style{color.FgGreen, color.OpBold}
	colorWrong   = color.Style{color.FgRed, color.OpBold}
	colorNotice  = color.Style{color.FgYellow}
	colorSubtle  = color.Style{color.FgGray}
)

func disableColor() {
	color.Disable()
}

func panel(title string, lines ...string) string {
	body := titleStyle.Render(title) + "\n" + strings.Join(lines, "\n")
	return panelStyle.Render(body)
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
}

// bar draws filled out of width cells for ratio in [0,1].
func bar(ratio float64, width int) string {
	ratio = min(max(ratio, 0), 1)
	filled := int(ratio * float64(width))
	return barStyle.Render(strings.Repeat("█", filled)) + strings.Repeat("░", width-filled)
}

func renderStats(st progression.Stats) string {
	into := st.XP % progression.XPPerLevel
	badges := "none yet"
	if len(st.Badges) > 0 {
		names := make([]string, 0, len(st.Badges))
		for _, id := range st.Badges {
			if b, ok := progression.BadgeByID(id); ok {
				names = append(names, b.Icon+" "+b.Name)
			}
		}
		badges = strings.Join(names, ", ")
	}
	return panel("Player",
		row("Level", fmt.Sprintf("%d", st.Level)),
		row("XP", fmt.Sprintf("%d  %s %d/%d", st.XP, bar(float64(into)/progression.XPPerLevel, 20), into, progression.XPPerLevel)),
		row("Streak", fmt.Sprintf("%d", st.Streak)),
		row("Badges", badges),
		row("Equipped", fmt.Sprintf("%s / %s / %s", st.Equipped.Theme, st.Equipped.Avatar, st.Equipped.Frame)),
		row("Inventory", strings.Join(st.Inventory, ", ")),
	)
}

func renderGallery(gallery []progression.BadgeStatus) string {
	lines := make([]string, 0, len(gallery))
	for _, b := range gallery {
		mark := colorSubtle.Sprint("·")
		if b.Earned {
			mark = colorCorrect.Sprint("✔")
		}
		lines = append(lines, fmt.Sprintf("%s %s %-14s %s %s", mark, b.Icon, b.Name, bar(b.Progress/100, 10), b.Label))
	}
	return panel("Badges", lines...)
}

func renderPuzzle(is service.Issued) string {
	lines := []string{is.Prompt}
	for i, c := range is.Choices {
		lines = append(lines, fmt.Sprintf("  %d) %s", i+1, c))
	}
	return panel(strings.ReplaceAll(string(is.Kind), "_", " "), lines...)
}

func renderVerdict(a service.Answered) string {
	var b strings.Builder
	if a.Correct {
		b.WriteString(colorCorrect.Sprintf("✔ Correct! +%d XP", a.XP))
	} else {
		b.WriteString(colorWrong.Sprint("✘ Not quite."))
	}
	if a.Explanation != "" {
		b.WriteString("\n" + colorSubtle.Sprint(a.Explanation))
	}
	if a.LeveledUp {
		b.WriteString("\n" + colorNotice.Sprintf("Level up! You are now level %d.", a.Stats.Level))
	}
	for _, id := range a.Unlocked {
		if badge, ok := progression.BadgeByID(id); ok {
			b.WriteString("\n" + colorNotice.Sprintf("Badge unlocked: %s %s", badge.Icon, badge.Name))
		}
	}
	return b.String()
}

func renderTracer(s tracer.Snapshot) string {
	lines := []string{
		row("Level", fmt.Sprintf("%d", s.Level)),
		row("Target", s.Destination),
		row("Router", fmt.Sprintf("%s (hop %d/%d)", s.Router, s.Hop+1, s.Hops)),
		row("Integrity", fmt.Sprintf("%s %.0f%%", bar(s.Integrity/100, 20), s.Integrity)),
	}
	for i, o := range s.Options {
		lines = append(lines, fmt.Sprintf("  %d) %s", i+1, o))
	}
	return panel("Packet Tracer", lines...)
}

func renderShop(items []shop.Listing, xp int) string {
	lines := []string{row("Balance", fmt.Sprintf("%d XP", xp))}
	for _, it := range items {
		state := fmt.Sprintf("%d XP", it.Price)
		switch {
		case it.Equipped:
			state = colorCorrect.Sprint("equipped")
		case it.Owned:
			state = colorNotice.Sprint("owned")
		case !it.Affordable:
			state = colorSubtle.Sprint(state)
		}
		lines = append(lines, fmt.Sprintf("%s %-16s %-18s %s", it.Icon, it.ID, it.Name, state))
	}
	return panel("Shop", lines...)
}

func renderDaily(v service.DailyView) string {
	if v.Completed || v.Stage == nil {
		return panel("Daily Challenge "+v.Date, colorCorrect.Sprint("Completed. Come back tomorrow."))
	}
	return panel(fmt.Sprintf("Daily Challenge %s  stage %d/%d", v.Date, v.Index+1, v.Total),
		v.Stage.Question,
		colorSubtle.Sprint("hint: "+v.Stage.Hint),
	)
}
