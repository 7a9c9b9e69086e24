// Copyright (c) 2026 Aroti. All rights reserved.
// Author: platform@aroti.app

package insight_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arotihq/aroti-server/internal/insight"
)

/*
TestDeck_Shape verifies the deck holds exactly 78 cards with unique slug IDs.
*/
func TestDeck_Shape(t *testing.T) {
	cards := insight.Deck()
	require.Len(t, cards, insight.DeckSize)

	seen := make(map[string]bool, len(cards))
	majors, minors := 0, 0

	for _, card := range cards {
		assert.NotEmpty(t, card.ID)
		assert.NotEmpty(t, card.Name)
		assert.NotEmpty(t, card.Keywords)
		assert.NotEmpty(t, card.Interpretation)
		assert.False(t, seen[card.ID], "duplicate card id %q", card.ID)
		seen[card.ID] = true

		switch card.Arcana {
		case "major":
			majors++
		case "minor":
			minors++
		default:
			t.Fatalf("unknown arcana %q", card.Arcana)
		}
	}

	assert.Equal(t, 22, majors)
	assert.Equal(t, 56, minors)
}

/*
TestDeck_CanonicalOrder pins the first card and a couple of slug spellings —
the deck order is part of the frozen determinism contract.
*/
func TestDeck_CanonicalOrder(t *testing.T) {
	cards := insight.Deck()

	assert.Equal(t, "the-fool", cards[0].ID)
	assert.Equal(t, "The Fool", cards[0].Name)
	assert.Equal(t, "the-world", cards[21].ID)
	assert.Equal(t, "ace-of-wands", cards[22].ID)
	assert.Equal(t, "king-of-pentacles", cards[77].ID)
}

/*
TestCardByID resolves known and unknown identifiers.
*/
func TestCardByID(t *testing.T) {
	card, ok := insight.CardByID("wheel-of-fortune")
	require.True(t, ok)
	assert.Equal(t, "Wheel of Fortune", card.Name)

	_, ok = insight.CardByID("the-joker")
	assert.False(t, ok)
}
