package npc

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// Rarity classifies how often a drop entry triggers. The set is closed.
type Rarity int

const (
	RarityUnknown Rarity = iota
	RarityAlways
	RarityCommon
	RarityUncommon
	RarityRare
	RarityCustom
)

// String returns the lowercase rarity name.
func (r Rarity) String() string {
	switch r {
	case RarityAlways:
		return "always"
	case RarityCommon:
		return "common"
	case RarityUncommon:
		return "uncommon"
	case RarityRare:
		return "rare"
	case RarityCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// ParseRarity converts a rarity name into a Rarity, case-insensitively.
func ParseRarity(name string) (Rarity, error) {
	for _, r := range []Rarity{RarityAlways, RarityCommon, RarityUncommon, RarityRare, RarityCustom} {
		if strings.EqualFold(r.String(), name) {
			return r, nil
		}
	}
	return RarityUnknown, fmt.Errorf("unknown rarity %q", name)
}

// UnmarshalYAML decodes a rarity name.
func (r *Rarity) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseRarity(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*r = parsed
	return nil
}

// MarshalYAML encodes the rarity by name.
func (r Rarity) MarshalYAML() (interface{}, error) {
	return r.String(), nil
}

// CommonRate is the fixed 1-in-N denominator of RarityCommon.
const CommonRate = 5

// RarityRates holds the content-tuned 1-in-N denominators for the
// Uncommon and Rare rarities.
type RarityRates struct {
	Uncommon int `mapstructure:"uncommon"`
	Rare     int `mapstructure:"rare"`
}

// DefaultRarityRates returns the stock tuning: uncommon 1/25, rare 1/128.
func DefaultRarityRates() RarityRates {
	return RarityRates{Uncommon: 25, Rare: 128}
}

// Validate checks that both denominators are at least CommonRate.
func (r RarityRates) Validate() error {
	if r.Uncommon < CommonRate {
		return fmt.Errorf("drop rates: uncommon must be >= %d, got %d", CommonRate, r.Uncommon)
	}
	if r.Rare < r.Uncommon {
		return fmt.Errorf("drop rates: rare (%d) must be >= uncommon (%d)", r.Rare, r.Uncommon)
	}
	return nil
}

// Denominator returns N for an entry that triggers 1-in-N times.
//
// Postcondition: Returns >= 1.
func (r RarityRates) Denominator(e DropEntry) int {
	n := 1
	switch e.Rarity {
	case RarityAlways:
		n = 1
	case RarityCommon:
		n = CommonRate
	case RarityUncommon:
		n = r.Uncommon
	case RarityRare:
		n = r.Rare
	case RarityCustom:
		n = e.CustomRate
	}
	if n < 1 {
		return 1
	}
	return n
}

// DropEntry is one possible drop in a creature's drop table.
type DropEntry struct {
	ItemID string `yaml:"item"`
	Rarity Rarity `yaml:"rarity"`
	MinQty int    `yaml:"min_qty"`
	MaxQty int    `yaml:"max_qty"`
	// CustomRate is the 1-in-N denominator; only used with RarityCustom.
	CustomRate int `yaml:"rate"`
}

// DropTable defines the possible drops for a creature.
type DropTable struct {
	Entries []DropEntry `yaml:"entries"`
}

// Validate checks that the drop table satisfies its invariants.
//
// Precondition: dt must not be nil.
// Postcondition: Returns nil iff every entry has an item id, a known rarity,
// 1 <= min_qty <= max_qty and, for custom rarity, rate >= 1. An empty table is valid.
func (dt *DropTable) Validate() error {
	for i, e := range dt.Entries {
		if e.ItemID == "" {
			return fmt.Errorf("drop table: entry[%d] must have a non-empty item id", i)
		}
		if e.Rarity == RarityUnknown {
			return fmt.Errorf("drop table: entry[%d] (%s) must have a rarity", i, e.ItemID)
		}
		if e.Rarity == RarityCustom && e.CustomRate < 1 {
			return fmt.Errorf("drop table: entry[%d] (%s) custom rate must be >= 1, got %d", i, e.ItemID, e.CustomRate)
		}
		if e.MinQty < 1 {
			return fmt.Errorf("drop table: entry[%d] (%s) min_qty must be >= 1, got %d", i, e.ItemID, e.MinQty)
		}
		if e.MinQty > e.MaxQty {
			return fmt.Errorf("drop table: entry[%d] (%s) min_qty (%d) must be <= max_qty (%d)", i, e.ItemID, e.MinQty, e.MaxQty)
		}
	}
	return nil
}

// Drop is a single triggered drop.
type Drop struct {
	ItemID     string `json:"item_id"`
	InstanceID string `json:"instance_id"`
	Quantity   int    `json:"quantity"`
}

// Roll rolls every entry of the table in declared order.
//
// For each entry one integer in [1, denominator] is drawn; the entry triggers
// iff the draw is 1. A triggered entry with min == max drops that fixed
// quantity; otherwise one further draw picks a quantity in [min, max].
//
// Precondition: dt must have passed Validate(); src must be non-nil.
// Postcondition: Returned drops preserve table order and every Quantity is in
// [MinQty, MaxQty]. A nil or empty table returns no drops.
func (dt *DropTable) Roll(src dice.Source, rates RarityRates) []Drop {
	if dt == nil {
		return nil
	}
	var drops []Drop
	for _, e := range dt.Entries {
		if dice.Between(src, 1, rates.Denominator(e)) != 1 {
			continue
		}
		qty := e.MinQty
		if e.MaxQty > e.MinQty {
			qty = dice.Between(src, e.MinQty, e.MaxQty)
		}
		drops = append(drops, Drop{
			ItemID:     e.ItemID,
			InstanceID: uuid.New().String(),
			Quantity:   qty,
		})
	}
	return drops
}
