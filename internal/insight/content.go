// Copyright (c) 2026 Aroti. All rights reserved.
// Author: platform@aroti.app

package insight

import (
	"fmt"

	"github.com/arotihq/aroti-server/pkg/slug"
)

// # Content Tables
//
// These tables are fixed editorial data. Order matters: the generator indexes
// into them with a deterministic stream, so reordering or removing entries
// silently changes which content every existing user sees on which day.
// Append-only edits are safe.

// DeckSize is the number of cards in the full tarot deck.
const DeckSize = 78

// majorArcana lists the 22 trumps in traditional order (0 = The Fool).
var majorArcana = []TarotCard{
	{Name: "The Fool", Arcana: "major", Keywords: []string{"New beginnings", "Innocence", "Adventure"}, Interpretation: "A new beginning, innocence, spontaneity, and a free spirit. Embrace new opportunities with an open heart."},
	{Name: "The Magician", Arcana: "major", Keywords: []string{"Manifestation", "Power", "Will"}, Interpretation: "Manifestation, resourcefulness, power, and inspired action. You have all the tools you need to succeed."},
	{Name: "The High Priestess", Arcana: "major", Keywords: []string{"Intuition", "Mystery", "Wisdom"}, Interpretation: "Intuition, mystery, and inner wisdom. Trust your inner voice and look beyond the surface."},
	{Name: "The Empress", Arcana: "major", Keywords: []string{"Fertility", "Abundance", "Nature"}, Interpretation: "Fertility, abundance, and nurturing energy. Connect with nature and embrace your creative power."},
	{Name: "The Emperor", Arcana: "major", Keywords: []string{"Authority", "Structure", "Control"}, Interpretation: "Authority, structure, and stability. Take control and establish order in your life."},
	{Name: "The Hierophant", Arcana: "major", Keywords: []string{"Tradition", "Spirituality", "Guidance"}, Interpretation: "Tradition, spirituality, and seeking guidance. Connect with established wisdom and spiritual practices."},
	{Name: "The Lovers", Arcana: "major", Keywords: []string{"Love", "Harmony", "Choices"}, Interpretation: "Love, harmony, and important choices. Balance your heart and mind in decisions."},
	{Name: "The Chariot", Arcana: "major", Keywords: []string{"Victory", "Willpower", "Control"}, Interpretation: "Victory, willpower, and determination. Harness opposing forces to move forward."},
	{Name: "Strength", Arcana: "major", Keywords: []string{"Courage", "Patience", "Inner strength"}, Interpretation: "Courage, patience, and inner strength. True power comes from gentleness and self-control."},
	{Name: "The Hermit", Arcana: "major", Keywords: []string{"Introspection", "Guidance", "Solitude"}, Interpretation: "Introspection, guidance, and inner wisdom. Take time for solitude and reflection."},
	{Name: "Wheel of Fortune", Arcana: "major", Keywords: []string{"Change", "Cycles", "Destiny"}, Interpretation: "Change, cycles, and destiny. Life is in constant motion, embrace the turning wheel."},
	{Name: "Justice", Arcana: "major", Keywords: []string{"Balance", "Fairness", "Truth"}, Interpretation: "Balance, fairness, and truth. Seek justice and make decisions with integrity."},
	{Name: "The Hanged Man", Arcana: "major", Keywords: []string{"Surrender", "Letting go", "New perspective"}, Interpretation: "Surrender, letting go, and new perspectives. Sometimes you must pause to see clearly."},
	{Name: "Death", Arcana: "major", Keywords: []string{"Transformation", "Endings", "Rebirth"}, Interpretation: "Transformation, endings, and rebirth. Let go of what no longer serves to make room for new growth."},
	{Name: "Temperance", Arcana: "major", Keywords: []string{"Balance", "Moderation", "Harmony"}, Interpretation: "Balance, moderation, and harmony. Find the middle path and blend opposites."},
	{Name: "The Devil", Arcana: "major", Keywords: []string{"Bondage", "Materialism", "Shadow"}, Interpretation: "Bondage, materialism, and shadow aspects. Recognize what holds you back and break free."},
	{Name: "The Tower", Arcana: "major", Keywords: []string{"Sudden change", "Revelation", "Breakthrough"}, Interpretation: "Sudden change, revelation, and breakthrough. Sometimes destruction clears the way for truth."},
	{Name: "The Star", Arcana: "major", Keywords: []string{"Hope", "Inspiration", "Healing"}, Interpretation: "Hope, inspiration, and healing. After darkness comes light and renewed faith."},
	{Name: "The Moon", Arcana: "major", Keywords: []string{"Illusion", "Intuition", "Unconscious"}, Interpretation: "Illusion, intuition, and the unconscious. Trust your intuition but beware of deception."},
	{Name: "The Sun", Arcana: "major", Keywords: []string{"Joy", "Success", "Vitality"}, Interpretation: "Joy, success, and vitality. Embrace positivity and let your light shine brightly."},
	{Name: "Judgement", Arcana: "major", Keywords: []string{"Reflection", "Awakening", "Forgiveness"}, Interpretation: "Reflection, awakening, and forgiveness. It's time to evaluate your past and rise to a higher calling."},
	{Name: "The World", Arcana: "major", Keywords: []string{"Completion", "Achievement", "Fulfillment"}, Interpretation: "Completion, achievement, and fulfillment. You've reached a milestone and are ready for new beginnings."},
}

// minorSuits and minorRanks define the 56 minor arcana (4 suits x 14 ranks).
var minorSuits = []struct {
	name  string
	theme string
}{
	{"Wands", "creativity, ambition, and inspired action"},
	{"Cups", "emotion, relationships, and intuition"},
	{"Swords", "intellect, conflict, and clarity of thought"},
	{"Pentacles", "work, resources, and material foundations"},
}

var minorRanks = []struct {
	name    string
	keyword string
}{
	{"Ace", "Potential"},
	{"Two", "Balance"},
	{"Three", "Growth"},
	{"Four", "Stability"},
	{"Five", "Conflict"},
	{"Six", "Harmony"},
	{"Seven", "Assessment"},
	{"Eight", "Movement"},
	{"Nine", "Resilience"},
	{"Ten", "Completion"},
	{"Page", "Curiosity"},
	{"Knight", "Pursuit"},
	{"Queen", "Nurturing"},
	{"King", "Mastery"},
}

// deck is the full 78-card table, built once at package load.
var deck = buildDeck()

// buildDeck assembles the majors followed by the minors in suit order.
func buildDeck() []TarotCard {
	cards := make([]TarotCard, 0, DeckSize)

	for _, card := range majorArcana {
		card.ID = slug.From(card.Name)
		cards = append(cards, card)
	}

	for _, suit := range minorSuits {
		for _, rank := range minorRanks {
			name := fmt.Sprintf("%s of %s", rank.name, suit.name)
			cards = append(cards, TarotCard{
				ID:       slug.From(name),
				Name:     name,
				Arcana:   "minor",
				Keywords: []string{rank.keyword, suit.name},
				Interpretation: fmt.Sprintf(
					"%s in the realm of %s. The %s speaks to themes of %s surfacing in your day.",
					rank.keyword, suit.theme, name, suit.theme,
				),
			})
		}
	}

	return cards
}

// Deck returns the full fixed 78-card deck in canonical order.
func Deck() []TarotCard {
	return deck
}

// CardByID looks up a card by its slug identifier.
func CardByID(id string) (TarotCard, bool) {
	for _, card := range deck {
		if card.ID == id {
			return card, true
		}
	}
	return TarotCard{}, false
}

// affirmations is the daily affirmation pool.
var affirmations = []string{
	"I am worthy of love and abundance",
	"I honor my needs and create boundaries that protect my energy",
	"I trust my intuition and follow my inner guidance",
	"I am open to receiving all the good things life has to offer",
	"I embrace change and welcome new opportunities",
	"I am at peace with who I am and where I am",
	"I radiate confidence and attract positive energy",
	"I am grateful for all the blessings in my life",
	"I trust the journey and believe in my path",
	"I am strong, resilient, and capable of overcoming any challenge",
}

// affirmationSubtitles frame the affirmation as a stabilizing anchor, not advice.
var affirmationSubtitles = []string{
	"A grounding focus aligned with today",
	"A stabilizing thought for the day",
	"Mental support tuned to today's context",
	"A calm anchor for today's energy",
	"A centering focus aligned with today",
	"Psychological support for today's patterns",
	"A steadying thought aligned with today",
	"Mental grounding tuned to today",
	"A stabilizing anchor for today",
	"A calm focus aligned with today's context",
}

// reflectionPrompts are interpretive, resonance-based questions.
var reflectionPrompts = []string{
	"How does this resonate with your day so far?",
	"Where do you notice this most today?",
	"What connection do you feel to today's insights?",
	"How does this align with what you're experiencing?",
	"What feels most present in relation to this?",
	"Where does this show up in your day?",
	"How does this reflect what you're noticing?",
	"What feels aligned with this today?",
	"How does this connect to your experience?",
	"Where do you see this pattern today?",
	"What feels most relevant about this?",
	"How does this relate to your day?",
	"What stands out in connection to this?",
	"How does this match what you're feeling?",
	"What feels true about this for you today?",
}

// horoscopePreviews holds the observational daily lines per sign.
var horoscopePreviews = map[ZodiacSign][]string{
	Aries:       {"Emotional intensity feels heightened today", "Action-oriented energy is more present", "Impulse plays a stronger role today"},
	Taurus:      {"Stability feels more grounding today", "Practical awareness is heightened", "Sensory perception feels more active"},
	Gemini:      {"Communication patterns become more noticeable", "Mental curiosity feels more active", "Social awareness is heightened today"},
	Cancer:      {"Emotional sensitivity is heightened today", "Intuition plays a stronger role today", "Inner awareness feels more active"},
	Leo:         {"Creative expression feels more natural", "Confidence surfaces more easily", "Self-expression feels more aligned"},
	Virgo:       {"Attention to detail becomes more noticeable", "Analytical thinking feels more active", "Order brings mental clarity today"},
	Libra:       {"Balance feels more accessible today", "Harmony plays a stronger role", "Aesthetic awareness is heightened"},
	Scorpio:     {"Emotional depth feels more present", "Transformation feels more accessible", "Intensity surfaces more easily"},
	Sagittarius: {"Expansive thinking feels more active", "Optimism plays a stronger role", "Exploration feels more natural"},
	Capricorn:   {"Structure supports clear thinking", "Discipline feels more aligned", "Long-term focus becomes more noticeable"},
	Aquarius:    {"Innovation feels more accessible", "Unique perspective plays a stronger role", "Independence surfaces more easily"},
	Pisces:      {"Intuition plays a stronger role today", "Emotional sensitivity is heightened", "Spiritual awareness feels more active"},
}

// numerologyPreviews maps each life-path number to its daily preview line.
var numerologyPreviews = map[int]string{
	1:  "Patterns of leadership become more noticeable",
	2:  "Cooperation patterns feel more accessible",
	3:  "Creative patterns surface more easily",
	4:  "Structure supports clear thinking",
	5:  "Change patterns become more noticeable",
	6:  "Care patterns feel more aligned",
	7:  "Introspection patterns play a stronger role",
	8:  "Material patterns become more noticeable",
	9:  "Completion patterns feel more accessible",
	11: "Intuitive vision plays a stronger role today",
	22: "Large-scale building patterns feel more accessible",
	33: "Teaching and healing patterns surface more easily",
}

// rituals is the guided practice pool.
var rituals = []Ritual{
	{
		ID:          "grounding-breath",
		Title:       "Grounding Breath",
		Description: "A simple breathing practice to center yourself and reconnect with your body.",
		Duration:    "3 min",
		Type:        "Grounding",
		Steps: []string{
			"Find a quiet space and sit comfortably.",
			"Take three slow, deep breaths.",
			"Place your hand over your heart and set your intention.",
			"Repeat the affirmation silently three times.",
		},
		Affirmation: "I am grounded, centered, and at peace.",
	},
	{
		ID:          "morning-intention",
		Title:       "Morning Intention",
		Description: "Set a meaningful intention for your day with this gentle morning practice.",
		Duration:    "5 min",
		Type:        "Intention",
		Steps: []string{
			"Sit comfortably with your back straight.",
			"Take three deep breaths, inhaling through your nose and exhaling through your mouth.",
			"Bring to mind three things you're grateful for today.",
			"Ask yourself: 'What is one intention I want to set for today?'",
			"Visualize yourself embodying this intention throughout your day.",
		},
		Affirmation: "I move through my day with intention and grace.",
	},
	{
		ID:          "evening-gratitude",
		Title:       "Evening Gratitude",
		Description: "End your day with gratitude and reflection.",
		Duration:    "4 min",
		Type:        "Gratitude",
		Steps: []string{
			"Find a comfortable seated or lying position.",
			"Close your eyes and take five deep breaths.",
			"Think of three things from today you're grateful for.",
			"Allow yourself to feel the warmth of gratitude in your heart.",
			"Set an intention for restful sleep.",
		},
		Affirmation: "I am grateful for all the blessings in my life.",
	},
}

// Affirmations returns the fixed affirmation pool.
func Affirmations() []string {
	return affirmations
}
