package model

import "strings"

// Level is the CEFR-style difficulty level the wiki assigns to a grammar
// point (A1 through C2). The site organizes grammar points into per-level
// index pages, so the level is known from the index a point was discovered
// on rather than from the point page itself.
type Level string

// Levels used by the wiki. C2 exists in the site's URL scheme but its index
// is currently unpopulated; we still accept it when parsing.
const (
	LevelA1      Level = "A1"
	LevelA2      Level = "A2"
	LevelB1      Level = "B1"
	LevelB2      Level = "B2"
	LevelC1      Level = "C1"
	LevelC2      Level = "C2"
	LevelUnknown Level = "unknown"
)

// String returns the level as a string.
func (l Level) String() string {
	return string(l)
}

// Tag returns the level formatted as a deck tag (e.g. "level::A1").
func (l Level) Tag() string {
	return "level::" + string(l)
}

// LevelFromIndexURL extracts the level from a level index URL such as
// "https://example.org/chinese/grammar/A1_grammar_points".
// Returns LevelUnknown if the URL does not follow the index naming scheme.
func LevelFromIndexURL(indexURL string) Level {
	base := indexURL
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}
	name, ok := strings.CutSuffix(base, "_grammar_points")
	if !ok {
		return LevelUnknown
	}
	switch Level(strings.ToUpper(name)) {
	case LevelA1, LevelA2, LevelB1, LevelB2, LevelC1, LevelC2:
		return Level(strings.ToUpper(name))
	default:
		return LevelUnknown
	}
}
