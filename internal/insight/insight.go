// Copyright (c) 2026 Aroti. All rights reserved.
// Author: platform@aroti.app

/*
Package insight derives a user's daily guidance content (tarot card,
horoscope, numerology number, affirmation, ritual) from stable identity data
and a calendar day.

# Architecture

  - Entities: Seed (input), Insight (output), TarotCard, ZodiacSign.
  - Purity: Generate is a pure function. It performs no I/O, holds no state,
    and returns byte-identical output for identical inputs on any process.
  - Determinism: the pseudo-random index stream is seeded from
    xxhash64(userID) XOR dayKey and advanced with splitmix64. Both algorithms
    are frozen; see generator.go.

Callers that need the same answer for a whole day simply call Generate again
with the same (Seed, Date) pair — nothing is persisted.
*/
package insight

import (
	"time"

	"github.com/arotihq/aroti-server/pkg/civildate"
)

// # Domain Entities

// Seed is the stable per-user identity input to the generator.
//
// It is owned by the identity domain; this package treats it as read-only.
type Seed struct {
	// UserID is an opaque stable identifier. It is the only mandatory field.
	UserID string `json:"user_id"`

	// BirthDate drives the numerology number and the horoscope sign.
	// When nil, numerology falls back to the per-day pseudo-random stream
	// and the horoscope uses the caller-supplied default sign.
	BirthDate *civildate.Date `json:"birth_date,omitempty"`

	// BirthTime is carried for future cycle features (rising sign); the
	// daily generator does not consume it.
	BirthTime *time.Time `json:"birth_time,omitempty"`
}

// NumerologyInsight pairs the life-path number with its daily preview line.
type NumerologyInsight struct {
	Number  int    `json:"number"`
	Preview string `json:"preview"`

	// IsFallback is true when the number was derived from the per-day
	// pseudo-random stream because no birth date was available. Callers must
	// not present fallback values as birth-data-derived numerology.
	IsFallback bool `json:"is_fallback"`
}

// Insight is the full daily guidance bundle for one (user, day) pair.
//
// It is derived, never persisted, and recomputable at any time.
type Insight struct {
	Day civildate.Date `json:"day"`

	// TarotCardID indexes the fixed 78-card deck (0..77).
	TarotCardID int       `json:"tarot_card_id"`
	TarotCard   TarotCard `json:"tarot_card"`

	HoroscopeSign    ZodiacSign `json:"horoscope_sign"`
	HoroscopePreview string     `json:"horoscope_preview"`

	Numerology NumerologyInsight `json:"numerology"`

	AffirmationIndex    int    `json:"affirmation_index"`
	Affirmation         string `json:"affirmation"`
	AffirmationSubtitle string `json:"affirmation_subtitle"`

	Ritual           Ritual `json:"ritual"`
	ReflectionPrompt string `json:"reflection_prompt"`
}

// TarotCard is one entry of the fixed 78-card deck.
type TarotCard struct {
	// ID is the URL-safe slug of the card name (e.g. "the-fool").
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Arcana   string   `json:"arcana"` // "major" or "minor"
	Keywords []string `json:"keywords"`

	Interpretation string `json:"interpretation"`
}

// Ritual is a short guided practice selected per day.
type Ritual struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Duration    string   `json:"duration"`
	Type        string   `json:"type"`
	Steps       []string `json:"steps"`
	Affirmation string   `json:"affirmation"`
}

// # Zodiac

// ZodiacSign is one of the twelve fixed sun signs.
type ZodiacSign string

const (
	Aries       ZodiacSign = "Aries"
	Taurus      ZodiacSign = "Taurus"
	Gemini      ZodiacSign = "Gemini"
	Cancer      ZodiacSign = "Cancer"
	Leo         ZodiacSign = "Leo"
	Virgo       ZodiacSign = "Virgo"
	Libra       ZodiacSign = "Libra"
	Scorpio     ZodiacSign = "Scorpio"
	Sagittarius ZodiacSign = "Sagittarius"
	Capricorn   ZodiacSign = "Capricorn"
	Aquarius    ZodiacSign = "Aquarius"
	Pisces      ZodiacSign = "Pisces"
)

// AllSigns lists the twelve signs in zodiacal order, starting at Aries.
func AllSigns() []ZodiacSign {
	return []ZodiacSign{
		Aries, Taurus, Gemini, Cancer, Leo, Virgo,
		Libra, Scorpio, Sagittarius, Capricorn, Aquarius, Pisces,
	}
}

// IsValid reports whether s names one of the twelve signs.
func (s ZodiacSign) IsValid() bool {
	for _, sign := range AllSigns() {
		if s == sign {
			return true
		}
	}
	return false
}
