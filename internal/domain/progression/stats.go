package progression

import (
	"slices"

	"github.com/zyedidia/generic/mapset"
)

// Default inventory and equips.
const (
	DefaultTheme  = "theme_default"
	DefaultAvatar = "av_robot"
	DefaultFrame  = "frame_default"
)

// XPPerLevel is the XP span of one level.
const XPPerLevel = 500

// DailyBonusXP is granted on completing the daily challenge.
const DailyBonusXP = 300

// Slot names an equip slot.
type Slot string

// Equip slots.
const (
	SlotTheme  Slot = "theme"
	SlotAvatar Slot = "avatar"
	SlotFrame  Slot = "frame"
)

// Equipped holds one item id per slot.
type Equipped struct {
	Theme  string `json:"theme" yaml:"theme"`
	Avatar string `json:"avatar" yaml:"avatar"`
	Frame  string `json:"frame" yaml:"frame"`
}

// Get returns the item in slot.
func (e Equipped) Get(slot Slot) string {
	switch slot {
	case SlotTheme:
		return e.Theme
	case SlotAvatar:
		return e.Avatar
	case SlotFrame:
		return e.Frame
	}
	return ""
}

// Set puts id into slot. Unknown slots are ignored.
func (e *Equipped) Set(slot Slot, id string) {
	switch slot {
	case SlotTheme:
		e.Theme = id
	case SlotAvatar:
		e.Avatar = id
	case SlotFrame:
		e.Frame = id
	}
}

// Stats is the persisted player record.
type Stats struct {
	XP        int      `json:"xp" yaml:"xp"`
	Level     int      `json:"level" yaml:"level"`
	Streak    int      `json:"streak" yaml:"streak"`
	Badges    []string `json:"badges" yaml:"badges"`
	Inventory []string `json:"inventory" yaml:"inventory"`
	Equipped  Equipped `json:"equipped" yaml:"equipped"`
}

// DefaultStats is the record of a new player.
func DefaultStats() Stats {
	return Stats{
		Level:     1,
		Badges:    []string{},
		Inventory: []string{DefaultTheme, DefaultAvatar},
		Equipped:  Equipped{Theme: DefaultTheme, Avatar: DefaultAvatar, Frame: DefaultFrame},
	}
}

// Clone returns a deep copy.
func (s Stats) Clone() Stats {
	s.Badges = slices.Clone(s.Badges)
	s.Inventory = slices.Clone(s.Inventory)
	if s.Badges == nil {
		s.Badges = []string{}
	}
	return s
}

// Owns reports whether id is in the inventory.
func (s Stats) Owns(id string) bool {
	return slices.Contains(s.Inventory, id)
}

// HasBadge reports whether badge id was earned.
func (s Stats) HasBadge(id string) bool {
	return slices.Contains(s.Badges, id)
}

// LevelFor is the level the formula gives for xp.
func LevelFor(xp int) int {
	return max(0, xp)/XPPerLevel + 1
}

func isDefault(id string) bool {
	return id == DefaultTheme || id == DefaultAvatar || id == DefaultFrame
}

// normalize repairs a decoded record so every invariant holds: level matches
// xp, defaults are owned, badges are unique and equips are owned.
func (s *Stats) normalize() {
	s.XP = max(0, s.XP)
	s.Streak = max(0, s.Streak)
	s.Level = max(s.Level, LevelFor(s.XP))

	s.Badges = dedupe(s.Badges)
	s.Inventory = dedupe(append([]string{DefaultTheme, DefaultAvatar}, s.Inventory...))

	def := DefaultStats().Equipped
	for _, slot := range []Slot{SlotTheme, SlotAvatar, SlotFrame} {
		id := s.Equipped.Get(slot)
		if id == "" || (!isDefault(id) && !s.Owns(id)) {
			s.Equipped.Set(slot, def.Get(slot))
		}
	}
}

func dedupe(ids []string) []string {
	seen := mapset.New[string]()
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen.Has(id) {
			continue
		}
		seen.Put(id)
		out = append(out, id)
	}
	return out
}
