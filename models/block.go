package models

import "strings"

// BlockStatic marks a block whose slides pass through the expander
// unchanged; everything else is a round-type tag.
const BlockStatic = "static"

// Round-type tags as authored by the quiz editor.
const (
	RoundWarmUp     = "warm up"
	RoundThematic   = "thematic"
	RoundConnection = "connection"
	RoundImages     = "images"
	RoundWhoAmI     = "who am i"
	RoundPickOne    = "pick one"
	RoundMinefield  = "minefield"
	RoundSounds     = "sounds"
	RoundPlusTen    = "plus ten"
)

// Block is one themed round: a type tag, an optional topic and an ordered
// slide list. Cumulative-clue rounds carry their content in BlockQuestion
// and BlockAnswer instead of Slides.
type Block struct {
	Type          string   `json:"type"`
	Topic         string   `json:"topic,omitempty"`
	BlockQuestion []string `json:"blockQuestion,omitempty"`
	BlockAnswer   string   `json:"blockAnswer,omitempty"`
	Background    string   `json:"background,omitempty"`
	TextColour    string   `json:"textColour,omitempty"`
	Slides        []Slide  `json:"slides,omitempty"`
}

// Older decks carry Hungarian round tags; both spellings drive the same
// generators.
var (
	connectionAliases = []string{RoundConnection, "kapcsolat kör"}
	whoAmIAliases     = []string{RoundWhoAmI, "ki vagyok én?"}
)

func matchesAlias(blockType string, aliases []string) bool {
	t := strings.ToLower(strings.TrimSpace(blockType))
	for _, a := range aliases {
		if t == a {
			return true
		}
	}
	return false
}

// IsConnectionRound reports whether the block is a connection round.
func (b *Block) IsConnectionRound() bool { return matchesAlias(b.Type, connectionAliases) }

// IsWhoAmIRound reports whether the block is a cumulative-clue round.
func (b *Block) IsWhoAmIRound() bool { return matchesAlias(b.Type, whoAmIAliases) }

// IsStatic reports whether the block bypasses expansion.
func (b *Block) IsStatic() bool { return b.Type == BlockStatic }
