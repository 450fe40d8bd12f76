package progression

import (
	"fmt"
)

// Badge is a catalog achievement. Every non-zero threshold must be met.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	ReqXP       int    `json:"req_xp,omitempty"`
	ReqLevel    int    `json:"req_level,omitempty"`
	ReqStreak   int    `json:"req_streak,omitempty"`
}

var catalog = []Badge{
	{ID: "hello_world", Name: "Hello World", Description: "Earn your first 50 XP", Icon: "🌱", ReqXP: 50},
	{ID: "script_kiddie", Name: "Script Kiddie", Description: "Reach Level 2", Icon: "⚡", ReqLevel: 2},
	{ID: "packet_stream", Name: "Packet Stream", Description: "Reach a streak of 5", Icon: "🌊", ReqStreak: 5},
	{ID: "binary_baron", Name: "Binary Baron", Description: "Reach Level 3", Icon: "🤖", ReqLevel: 3},
	{ID: "net_ninja", Name: "Net Ninja", Description: "Reach Level 5", Icon: "🥷", ReqLevel: 5},
	{ID: "cyber_master", Name: "Cyber Master", Description: "Reach Level 10", Icon: "👑", ReqLevel: 10},
}

// Badges returns the catalog in display order.
func Badges() []Badge {
	out := make([]Badge, len(catalog))
	copy(out, catalog)
	return out
}

// BadgeByID looks a badge up.
func BadgeByID(id string) (Badge, bool) {
	for _, b := range catalog {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}

func (b Badge) hasThreshold() bool {
	return b.ReqXP > 0 || b.ReqLevel > 0 || b.ReqStreak > 0
}

// Earned reports whether s meets every threshold of b. A badge without
// thresholds is never earned.
func (b Badge) Earned(s Stats) bool {
	if !b.hasThreshold() {
		return false
	}
	if b.ReqXP > 0 && s.XP < b.ReqXP {
		return false
	}
	if b.ReqLevel > 0 && s.Level < b.ReqLevel {
		return false
	}
	if b.ReqStreak > 0 && s.Streak < b.ReqStreak {
		return false
	}
	return true
}

// Progress is the completion percentage in [0,100] measured on the first
// threshold present.
func (b Badge) Progress(s Stats) float64 {
	if s.HasBadge(b.ID) {
		return 100
	}
	var p float64
	switch {
	case b.ReqXP > 0:
		p = float64(s.XP) / float64(b.ReqXP) * 100
	case b.ReqLevel > 0:
		p = float64(s.Level) / float64(b.ReqLevel) * 100
	case b.ReqStreak > 0:
		p = float64(s.Streak) / float64(b.ReqStreak) * 100
	}
	return min(100, max(0, p))
}

// ProgressLabel renders the first threshold as "have/need".
func (b Badge) ProgressLabel(s Stats) string {
	switch {
	case b.ReqXP > 0:
		return fmt.Sprintf("%d/%d XP", s.XP, b.ReqXP)
	case b.ReqLevel > 0:
		return fmt.Sprintf("Lvl %d/%d", s.Level, b.ReqLevel)
	case b.ReqStreak > 0:
		return fmt.Sprintf("%d/%d", s.Streak, b.ReqStreak)
	}
	return ""
}

// BadgeStatus is one gallery entry: the badge and how close s is to it.
type BadgeStatus struct {
	Badge
	Earned   bool    `json:"earned"`
	Progress float64 `json:"progress"`
	Label    string  `json:"label"`
}

// Gallery reports every catalog badge against s, in display order.
func Gallery(s Stats) []BadgeStatus {
	out := make([]BadgeStatus, 0, len(catalog))
	for _, b := range catalog {
		out = append(out, BadgeStatus{
			Badge:    b,
			Earned:   s.HasBadge(b.ID),
			Progress: b.Progress(s),
			Label:    b.ProgressLabel(s),
		})
	}
	return out
}
