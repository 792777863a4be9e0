package classifier

import "strings"

// Default styles for players missing from the lookup.
const (
	DefaultBattingStyle = "Unknown"
	DefaultBowlingStyle = "Right-arm Medium"
)

// Style is a player's batting hand and bowling type.
type Style struct {
	Batting string `mapstructure:"batting" json:"batting"`
	Bowling string `mapstructure:"bowling" json:"bowling"`
}

// StyleLookup maps player name to style. It is a static table supplied by
// configuration; nothing here infers style from data.
type StyleLookup map[string]Style

// Lookup returns the player's style, filling blanks with the defaults. Names
// are matched exactly, then lower-cased, since config keys arrive folded. A
// nil lookup returns the defaults for everyone.
func (l StyleLookup) Lookup(player string) Style {
	s, ok := l[player]
	if !ok {
		s = l[strings.ToLower(player)]
	}
	if s.Batting == "" {
		s.Batting = DefaultBattingStyle
	}
	if s.Bowling == "" {
		s.Bowling = DefaultBowlingStyle
	}
	return s
}
