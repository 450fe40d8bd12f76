package shop

import (
	"fmt"
	"maps"

	"github.com/okian/netninja/internal/domain/progression"
)

// ItemType is the category of a shop item.
type ItemType string

// Item types.
const (
	TypeTheme   ItemType = "theme"
	TypeAvatar  ItemType = "avatar"
	TypeUpgrade ItemType = "upgrade"
)

// TimeDilation slows the packet tracer integrity decay.
const TimeDilation = "time_dilation"

// Item is a catalog entry. Config carries theme colors keyed by CSS custom
// property name and is passed through untouched.
type Item struct {
	ID          string            `json:"id"`
	Type        ItemType          `json:"type"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Price       int               `json:"price"`
	Icon        string            `json:"icon"`
	Config      map[string]string `json:"config,omitempty"`
}

// Slot is the equip slot of the item; upgrades have none.
func (i Item) Slot() (progression.Slot, bool) {
	switch i.Type {
	case TypeTheme:
		return progression.SlotTheme, true
	case TypeAvatar:
		return progression.SlotAvatar, true
	}
	return "", false
}

func palette(blue, purple, green, pink, dark, card string) map[string]string {
	return map[string]string{
		"--neon-blue":   blue,
		"--neon-purple": purple,
		"--neon-green":  green,
		"--neon-pink":   pink,
		"--neon-dark":   dark,
		"--neon-card":   card,
	}
}

var catalog = []Item{
	{
		ID: progression.DefaultTheme, Type: TypeTheme, Name: "Cyber Core",
		Description: "The standard issue NetNinja interface.", Price: 0, Icon: "🔵",
		Config: palette("#00f3ff", "#bc13fe", "#0aff0a", "#ff00ff", "#050508", "#13131f"),
	},
	{
		ID: "theme_matrix", Type: TypeTheme, Name: "The Source",
		Description: "Everything is code. Green phosphor aesthetic.", Price: 1000, Icon: "🟢",
		Config: palette("#00ff00", "#003300", "#33ff33", "#ccffcc", "#000000", "#001100"),
	},
	{
		ID: "theme_vapor", Type: TypeTheme, Name: "Vaporwave",
		Description: "Sunset vibes and retro synths.", Price: 1500, Icon: "🌸",
		Config: palette("#00ffff", "#ff77ff", "#ffcc00", "#ff99cc", "#1a0a2e", "#2d1b4e"),
	},
	{
		ID: "theme_gold", Type: TypeTheme, Name: "Golden Legacy",
		Description: "For the elite. Pure luxury.", Price: 3000, Icon: "👑",
		Config: palette("#ffd700", "#b8860b", "#ffffff", "#ffcc00", "#111111", "#1a1a1a"),
	},
	{ID: progression.DefaultAvatar, Type: TypeAvatar, Name: "Droid Unit", Description: "Standard issue bot.", Price: 0, Icon: "🤖"},
	{ID: "av_ninja", Type: TypeAvatar, Name: "Shadow Ops", Description: "Stealth mode engaged.", Price: 500, Icon: "🥷"},
	{ID: "av_alien", Type: TypeAvatar, Name: "Star Walker", Description: "From a galaxy far away.", Price: 800, Icon: "👽"},
	{ID: "av_skull", Type: TypeAvatar, Name: "Net Lich", Description: "Undead coding wizard.", Price: 1200, Icon: "💀"},
	{
		ID: TimeDilation, Type: TypeUpgrade, Name: "No Time :)",
		Description: "For those who have lots of time wink wink", Price: 5000, Icon: "⏳",
	},
}

func (i Item) clone() Item {
	i.Config = maps.Clone(i.Config)
	return i
}

// Catalog returns every item in display order.
func Catalog() []Item {
	out := make([]Item, len(catalog))
	for n, it := range catalog {
		out[n] = it.clone()
	}
	return out
}

// ByType returns the items of type t.
func ByType(t ItemType) []Item {
	var out []Item
	for _, it := range catalog {
		if it.Type == t {
			out = append(out, it.clone())
		}
	}
	return out
}

// ItemByID looks an item up.
func ItemByID(id string) (Item, error) {
	for _, it := range catalog {
		if it.ID == id {
			return it.clone(), nil
		}
	}
	return Item{}, fmt.Errorf("%w: %q", ErrUnknownItem, id)
}
