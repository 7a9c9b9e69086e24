// Copyright (c) 2026 Aroti. All rights reserved.
// Author: platform@aroti.app

package insight

import (
	"github.com/cespare/xxhash/v2"

	"github.com/arotihq/aroti-server/pkg/civildate"
)

// # Deterministic Generation
//
// The daily key is xxhash64 of the user ID XORed with the integer day
// encoding (year*10000 + month*100 + day). The key seeds a splitmix64
// stream whose successive outputs index the content tables.
//
// Both algorithms are frozen. Go's built-in string hash is randomized per
// process and must never be used here; xxhash64 and splitmix64 are stable
// across platforms, processes, and reimplementations. Changing either one
// (or the draw order below) silently changes which card every existing user
// sees on which day.

// DayKey derives the 64-bit deterministic key for a (userID, day) pair.
func DayKey(userID string, day civildate.Date) uint64 {
	return xxhash.Sum64String(userID) ^ uint64(uint32(day.Key()))
}

// stream is a splitmix64 sequence generator.
//
// Reference constants from Steele, Lea & Flood, "Fast Splittable
// Pseudorandom Number Generators" (2014).
type stream struct {
	state uint64
}

func newStream(seed uint64) *stream {
	return &stream{state: seed}
}

// next advances the stream and returns the next 64-bit value.
func (s *stream) next() uint64 {
	s.state += 0x9E3779B97F4A7C15
	z := s.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// pick returns the next stream value reduced modulo n.
func (s *stream) pick(n int) int {
	return int(s.next() % uint64(n))
}

// Generate derives the full daily insight for a seed and calendar day.
//
// It is pure: no side effects, no stored state, byte-identical output for
// identical inputs. defaultSign is used for the horoscope when the seed has
// no birth date.
//
// The draw order below (card, affirmation, ritual, horoscope preview,
// reflection prompt, numerology fallback) is part of the frozen contract.
func Generate(seed Seed, day civildate.Date, defaultSign ZodiacSign) Insight {
	rng := newStream(DayKey(seed.UserID, day))

	cardID := rng.pick(DeckSize)
	affirmationIndex := rng.pick(len(affirmations))
	ritualIndex := rng.pick(len(rituals))
	previewDraw := rng.next()
	promptIndex := rng.pick(len(reflectionPrompts))
	fallbackDraw := rng.next()

	sign := defaultSign
	if seed.BirthDate != nil {
		sign = SignForBirthDate(*seed.BirthDate)
	}
	if !sign.IsValid() {
		sign = Pisces
	}

	numerology := numerologyFor(seed, fallbackDraw)

	previews := horoscopePreviews[sign]

	return Insight{
		Day:                 day,
		TarotCardID:         cardID,
		TarotCard:           deck[cardID],
		HoroscopeSign:       sign,
		HoroscopePreview:    previews[int(previewDraw%uint64(len(previews)))],
		Numerology:          numerology,
		AffirmationIndex:    affirmationIndex,
		Affirmation:         affirmations[affirmationIndex],
		AffirmationSubtitle: affirmationSubtitles[affirmationIndex%len(affirmationSubtitles)],
		Ritual:              rituals[ritualIndex],
		ReflectionPrompt:    reflectionPrompts[promptIndex],
	}
}

// GenerateShuffled re-derives the insight with a shuffle offset applied to
// the affirmation draw only. The tarot card, horoscope, and numerology are
// unaffected: shuffling re-rolls the affirmation, never the day's card.
func GenerateShuffled(seed Seed, day civildate.Date, defaultSign ZodiacSign, shuffle int) Insight {
	result := Generate(seed, day, defaultSign)
	if shuffle <= 0 {
		return result
	}

	index := (result.AffirmationIndex + shuffle) % len(affirmations)
	result.AffirmationIndex = index
	result.Affirmation = affirmations[index]
	result.AffirmationSubtitle = affirmationSubtitles[index%len(affirmationSubtitles)]
	return result
}

// numerologyFor resolves the life-path number, falling back to the per-day
// stream when no birth date is present.
func numerologyFor(seed Seed, fallbackDraw uint64) NumerologyInsight {
	if seed.BirthDate != nil {
		number := LifePathNumber(*seed.BirthDate)
		return NumerologyInsight{
			Number:  number,
			Preview: numerologyPreviews[number],
		}
	}

	number := int(fallbackDraw%9) + 1
	return NumerologyInsight{
		Number:     number,
		Preview:    numerologyPreviews[number],
		IsFallback: true,
	}
}
