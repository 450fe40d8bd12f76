// Package shop sells cosmetics and upgrades for XP and equips them.
package shop

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/netninja/internal/domain/progression"
	"github.com/okian/netninja/pkg/logger"
	"github.com/okian/netninja/pkg/metrics"
)

// Purchase outcomes recorded in metrics.
const (
	outcomeBought       = "bought"
	outcomeOwned        = "owned"
	outcomeInsufficient = "insufficient"
)

// Ledger applies an atomic change to the player record.
type Ledger interface {
	Update(ctx context.Context, fn func(*progression.Stats) error) (progression.Outcome, error)
}

// Option configures a Shop.
type Option func(*Shop)

// WithLogger sets the shop logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Shop) {
		if l != nil {
			s.log = l
		}
	}
}

// Shop validates purchases and equips against the player record.
type Shop struct {
	ledger Ledger
	log    logger.Logger
}

// New creates a Shop writing through ledger.
func New(ledger Ledger, opts ...Option) *Shop {
	s := &Shop{ledger: ledger}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Named("shop")
	}
	return s
}

// Purchase buys item id. Buying an owned item is a no-op that reports false.
// A price above the current XP returns ErrInsufficientFunds and changes
// nothing.
func (s *Shop) Purchase(ctx context.Context, id string) (bool, error) {
	item, err := ItemByID(id)
	if err != nil {
		return false, err
	}

	_, err = s.ledger.Update(ctx, func(st *progression.Stats) error {
		if st.Owns(item.ID) {
			return errOwned
		}
		if st.XP < item.Price {
			return fmt.Errorf("%w: %s costs %d, have %d", ErrInsufficientFunds, item.ID, item.Price, st.XP)
		}
		st.XP -= item.Price
		st.Inventory = append(st.Inventory, item.ID)
		return nil
	})
	switch {
	case errors.Is(err, errOwned):
		metrics.RecordPurchase(item.ID, outcomeOwned)
		return false, nil
	case errors.Is(err, ErrInsufficientFunds):
		metrics.RecordPurchase(item.ID, outcomeInsufficient)
		return false, err
	case err != nil:
		return false, err
	}

	metrics.RecordPurchase(item.ID, outcomeBought)
	s.log.Info(ctx, "item purchased", logger.String("item", item.ID), logger.Int("price", item.Price))
	return true, nil
}

// Equip puts item id into its slot. Only owned themes and avatars can be
// equipped.
func (s *Shop) Equip(ctx context.Context, id string) error {
	item, err := ItemByID(id)
	if err != nil {
		return err
	}
	slot, ok := item.Slot()
	if !ok {
		return fmt.Errorf("%w: %s is an %s", ErrNotEquippable, item.ID, item.Type)
	}

	_, err = s.ledger.Update(ctx, func(st *progression.Stats) error {
		if !st.Owns(item.ID) {
			return fmt.Errorf("%w: %s", ErrNotOwned, item.ID)
		}
		st.Equipped.Set(slot, item.ID)
		return nil
	})
	if err != nil {
		return err
	}
	metrics.RecordEquip(string(slot))
	s.log.Debug(ctx, "item equipped", logger.String("item", item.ID), logger.String("slot", string(slot)))
	return nil
}

// Listing is an item annotated for one player.
type Listing struct {
	Item
	Owned      bool `json:"owned"`
	Equipped   bool `json:"equipped"`
	Affordable bool `json:"affordable"`
}

// List annotates the catalog against st.
func List(st progression.Stats) []Listing {
	out := make([]Listing, 0, len(catalog))
	for _, it := range Catalog() {
		l := Listing{Item: it, Owned: st.Owns(it.ID), Affordable: st.XP >= it.Price}
		if slot, ok := it.Slot(); ok {
			l.Equipped = st.Equipped.Get(slot) == it.ID
		}
		out = append(out, l)
	}
	return out
}

// ActiveTheme returns the color config of the equipped theme, falling back
// to the default theme.
func ActiveTheme(st progression.Stats) map[string]string {
	if it, err := ItemByID(st.Equipped.Theme); err == nil && it.Type == TypeTheme {
		return it.Config
	}
	it, _ := ItemByID(progression.DefaultTheme)
	return it.Config
}

// HasTimeDilation reports whether the upgrade is owned.
func HasTimeDilation(st progression.Stats) bool {
	return st.Owns(TimeDilation)
}
