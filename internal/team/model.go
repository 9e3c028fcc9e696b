package team

import (
	"log/slog"
	"maps"
	"slices"

	"golang.org/x/text/language"
)

// Record holds the metadata served for a single team.
type Record struct {
	ID           string
	Name         string
	Translations map[string]string // language tag -> localized name
}

// NewPlaceholder returns the record cached for an id the source knows nothing about.
func NewPlaceholder(teamID string) *Record {
	return &Record{
		ID:           teamID,
		Name:         "",
		Translations: map[string]string{},
	}
}

// IsPlaceholder reports whether the record carries no name.
func (r *Record) IsPlaceholder() bool {
	return r.Name == ""
}

// Clone returns a deep copy so cached records are never mutated by callers.
func (r *Record) Clone() *Record {
	c := *r
	c.Translations = maps.Clone(r.Translations)
	if c.Translations == nil {
		c.Translations = map[string]string{}
	}
	return &c
}

// normalize pins the record to teamID and canonicalizes translation keys.
// Keys that are not valid BCP 47 tags are dropped. When several keys share a
// canonical tag, the one already in canonical form wins, otherwise the
// lexically smallest key.
func normalize(teamID string, r *Record) *Record {
	out := &Record{
		ID:           teamID,
		Name:         r.Name,
		Translations: make(map[string]string, len(r.Translations)),
	}
	fromCanonical := make(map[string]bool, len(r.Translations))
	for _, code := range slices.Sorted(maps.Keys(r.Translations)) {
		tag, err := language.Parse(code)
		if err != nil {
			slog.Debug("dropping translation with invalid language tag", "teamId", teamID, "code", code, "error", err)
			continue
		}
		key := tag.String()
		if _, seen := out.Translations[key]; seen && (fromCanonical[key] || code != key) {
			continue
		}
		out.Translations[key] = r.Translations[code]
		fromCanonical[key] = code == key
	}
	return out
}
