package domain

type FocusMode string

const (
	ModeWork  FocusMode = "work"
	ModePlay  FocusMode = "play"
	ModeRest  FocusMode = "rest"
	ModeSleep FocusMode = "sleep"
)

// ValidFocusModes is the canonical set of accepted focus mode strings.
var ValidFocusModes = map[string]bool{
	"work": true, "play": true, "rest": true, "sleep": true,
}

// ParseFocusMode converts a raw string into a FocusMode.
// Returns false if the string is not a known mode.
func ParseFocusMode(s string) (FocusMode, bool) {
	if !ValidFocusModes[s] {
		return "", false
	}
	return FocusMode(s), true
}

type BadgeCategory string

const (
	CategoryTrees          BadgeCategory = "trees"
	CategoryLeavesAndFungi BadgeCategory = "leaves_fungi"
	CategoryAnimals        BadgeCategory = "animals"
)

// Categories lists all badge categories in a fixed order, used for
// uniform random selection.
var Categories = []BadgeCategory{
	CategoryTrees,
	CategoryLeavesAndFungi,
	CategoryAnimals,
}

// Palettes maps each category to its fixed emoji palette. Badge emoji
// are always drawn from these sets; the sets themselves never change.
var Palettes = map[BadgeCategory][]string{
	CategoryTrees:          {"🌲", "🌳", "🌴", "🎄", "🌵"},
	CategoryLeavesAndFungi: {"🍁", "🍂", "🍄"},
	CategoryAnimals:        {"🐿️", "🦉", "🦊", "🐻"},
}
