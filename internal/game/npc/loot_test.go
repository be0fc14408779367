package npc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/dice/dicetest"
	"github.com/cory-johannsen/skirmish/internal/game/npc"
)

func validDropTable() *npc.DropTable {
	return &npc.DropTable{Entries: []npc.DropEntry{
		{ItemID: "bones", Rarity: npc.RarityAlways, MinQty: 1, MaxQty: 1},
		{ItemID: "coins", Rarity: npc.RarityCommon, MinQty: 5, MaxQty: 25},
		{ItemID: "bronze_spear", Rarity: npc.RarityUncommon, MinQty: 1, MaxQty: 1},
		{ItemID: "goblin_mail", Rarity: npc.RarityCustom, CustomRate: 50, MinQty: 1, MaxQty: 1},
	}}
}

func TestDropTable_Validate_AcceptsValid(t *testing.T) {
	assert.NoError(t, validDropTable().Validate())
}

func TestDropTable_Validate_Empty(t *testing.T) {
	dt := npc.DropTable{}
	assert.NoError(t, dt.Validate())
}

func TestDropTable_Validate_Rejects(t *testing.T) {
	cases := map[string]npc.DropEntry{
		"missing item":        {Rarity: npc.RarityAlways, MinQty: 1, MaxQty: 1},
		"missing rarity":      {ItemID: "x", MinQty: 1, MaxQty: 1},
		"custom without rate": {ItemID: "x", Rarity: npc.RarityCustom, MinQty: 1, MaxQty: 1},
		"zero min":            {ItemID: "x", Rarity: npc.RarityCommon, MinQty: 0, MaxQty: 1},
		"min above max":       {ItemID: "x", Rarity: npc.RarityCommon, MinQty: 3, MaxQty: 2},
	}
	for name, e := range cases {
		t.Run(name, func(t *testing.T) {
			dt := npc.DropTable{Entries: []npc.DropEntry{e}}
			assert.Error(t, dt.Validate())
		})
	}
}

func TestRarityRates_Denominator(t *testing.T) {
	rates := npc.RarityRates{Uncommon: 30, Rare: 200}
	assert.Equal(t, 1, rates.Denominator(npc.DropEntry{Rarity: npc.RarityAlways}))
	assert.Equal(t, 5, rates.Denominator(npc.DropEntry{Rarity: npc.RarityCommon}))
	assert.Equal(t, 30, rates.Denominator(npc.DropEntry{Rarity: npc.RarityUncommon}))
	assert.Equal(t, 200, rates.Denominator(npc.DropEntry{Rarity: npc.RarityRare}))
	assert.Equal(t, 17, rates.Denominator(npc.DropEntry{Rarity: npc.RarityCustom, CustomRate: 17}))
	assert.Equal(t, 1, rates.Denominator(npc.DropEntry{Rarity: npc.RarityCustom}))
}

func TestRarityRates_Validate(t *testing.T) {
	assert.NoError(t, npc.DefaultRarityRates().Validate())
	assert.Error(t, npc.RarityRates{Uncommon: 2, Rare: 100}.Validate())
	assert.Error(t, npc.RarityRates{Uncommon: 50, Rare: 10}.Validate())
}

func TestRoll_NilAndEmptyTables(t *testing.T) {
	var nilTable *npc.DropTable
	src := dicetest.NewScripted()
	assert.Empty(t, nilTable.Roll(src, npc.DefaultRarityRates()))
	assert.Empty(t, (&npc.DropTable{}).Roll(src, npc.DefaultRarityRates()))
	assert.Equal(t, 0, src.IntCalls())
}

func TestRoll_AlwaysEntryDrops(t *testing.T) {
	dt := &npc.DropTable{Entries: []npc.DropEntry{
		{ItemID: "bones", Rarity: npc.RarityAlways, MinQty: 1, MaxQty: 1},
	}}
	drops := dt.Roll(dice.NewCryptoSource(), npc.DefaultRarityRates())
	require.Len(t, drops, 1)
	assert.Equal(t, "bones", drops[0].ItemID)
	assert.Equal(t, 1, drops[0].Quantity)
	assert.NotEmpty(t, drops[0].InstanceID)
}

func TestRoll_DrawOfOneTriggers(t *testing.T) {
	// Intn draws are 0-based, so 0 maps to a roll of 1 on [1, N].
	// bones: draw 0 (trigger). coins: draw 0 (trigger), qty draw 10 -> 15.
	// spear: draw 3 (miss). mail: draw 0 (trigger).
	src := dicetest.NewScripted(0, 0, 10, 3, 0)
	drops := validDropTable().Roll(src, npc.DefaultRarityRates())

	require.Len(t, drops, 3)
	assert.Equal(t, "bones", drops[0].ItemID)
	assert.Equal(t, "coins", drops[1].ItemID)
	assert.Equal(t, 15, drops[1].Quantity)
	assert.Equal(t, "goblin_mail", drops[2].ItemID)
	assert.Equal(t, 5, src.IntCalls())
}

func TestRoll_NoTriggerSkipsQuantityDraw(t *testing.T) {
	dt := &npc.DropTable{Entries: []npc.DropEntry{
		{ItemID: "coins", Rarity: npc.RarityCommon, MinQty: 1, MaxQty: 100},
	}}
	src := dicetest.NewScripted(4)
	assert.Empty(t, dt.Roll(src, npc.DefaultRarityRates()))
	assert.Equal(t, 1, src.IntCalls())
}

func TestParseRarity(t *testing.T) {
	r, err := npc.ParseRarity("Rare")
	require.NoError(t, err)
	assert.Equal(t, npc.RarityRare, r)
	_, err = npc.ParseRarity("legendary")
	assert.Error(t, err)
}

// Property: triggered drops preserve declared order and stay within quantity bounds.
func TestProperty_Roll_OrderAndQuantity(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 8).Draw(rt, "entries")
		dt := &npc.DropTable{}
		for i := 0; i < n; i++ {
			minQty := rapid.IntRange(1, 10).Draw(rt, "min")
			maxQty := rapid.IntRange(minQty, minQty+20).Draw(rt, "max")
			rarity := rapid.SampledFrom([]npc.Rarity{
				npc.RarityAlways, npc.RarityCommon, npc.RarityUncommon, npc.RarityRare,
			}).Draw(rt, "rarity")
			dt.Entries = append(dt.Entries, npc.DropEntry{
				ItemID: string(rune('a' + i)),
				Rarity: rarity,
				MinQty: minQty,
				MaxQty: maxQty,
			})
		}
		require.NoError(rt, dt.Validate())

		seed := rapid.Uint64().Draw(rt, "seed")
		drops := dt.Roll(dice.NewSeededSource(seed), npc.DefaultRarityRates())

		idx := map[string]int{}
		for i, e := range dt.Entries {
			idx[e.ItemID] = i
		}
		last := -1
		for _, d := range drops {
			i := idx[d.ItemID]
			assert.Greater(rt, i, last, "drops must preserve table order")
			last = i
			e := dt.Entries[i]
			assert.GreaterOrEqual(rt, d.Quantity, e.MinQty)
			assert.LessOrEqual(rt, d.Quantity, e.MaxQty)
		}
		for _, e := range dt.Entries {
			if e.Rarity == npc.RarityAlways {
				found := false
				for _, d := range drops {
					found = found || d.ItemID == e.ItemID
				}
				assert.True(rt, found, "always entry %s must drop", e.ItemID)
			}
		}
	})
}
