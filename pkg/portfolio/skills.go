package portfolio

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Display levels for each proficiency tier.
const (
	LevelExpert       = 95
	LevelAdvanced     = 80
	LevelIntermediate = 65
)

// SkillTiers groups the skills of one category by proficiency.
type SkillTiers struct {
	Expert       []string `json:"expert,omitempty"`
	Advanced     []string `json:"advanced,omitempty"`
	Intermediate []string `json:"intermediate,omitempty"`
}

// SkillLevel is a skill paired with its display level.
type SkillLevel struct {
	Skill string `json:"skill"`
	Level int    `json:"level"`
}

// SkillCategory is a named group of tiered skills.
type SkillCategory struct {
	Name  string
	Tiers SkillTiers
}

// TechnicalSkills holds skill categories in the order the document lists them.
type TechnicalSkills []SkillCategory

// Flatten returns every skill in the category: expert, then advanced, then intermediate.
func (t SkillTiers) Flatten() (skills []string) {
	skills = make([]string, 0, len(t.Expert)+len(t.Advanced)+len(t.Intermediate))
	skills = append(skills, t.Expert...)
	skills = append(skills, t.Advanced...)
	skills = append(skills, t.Intermediate...)
	return skills
}

// Levels returns every skill with its display level, in Flatten order.
func (t SkillTiers) Levels() (levels []SkillLevel) {
	levels = make([]SkillLevel, 0, len(t.Expert)+len(t.Advanced)+len(t.Intermediate))
	for _, s := range t.Expert {
		levels = append(levels, SkillLevel{Skill: s, Level: LevelExpert})
	}
	for _, s := range t.Advanced {
		levels = append(levels, SkillLevel{Skill: s, Level: LevelAdvanced})
	}
	for _, s := range t.Intermediate {
		levels = append(levels, SkillLevel{Skill: s, Level: LevelIntermediate})
	}
	return levels
}

// LevelOf returns the display level of skill, or 0 if the category does not list it.
// A skill listed in more than one tier takes the highest.
func (t SkillTiers) LevelOf(skill string) (level int) {
	switch {
	case contains(t.Expert, skill):
		level = LevelExpert
	case contains(t.Advanced, skill):
		level = LevelAdvanced
	case contains(t.Intermediate, skill):
		level = LevelIntermediate
	}
	return level
}

// Names returns the category names in document order.
func (ts TechnicalSkills) Names() (names []string) {
	names = make([]string, len(ts))
	for i, c := range ts {
		names[i] = c.Name
	}
	return names
}

// Get returns the tiers of the named category.
func (ts TechnicalSkills) Get(name string) (tiers SkillTiers, found bool) {
	for _, c := range ts {
		if c.Name == name {
			tiers = c.Tiers
			found = true
			return tiers, found
		}
	}
	return tiers, found
}

// Default returns the category that is selected before the user picks one.
func (ts TechnicalSkills) Default() (name string) {
	if len(ts) > 0 {
		name = ts[0].Name
	}
	return name
}

// UnmarshalJSON decodes the category object keeping its key order.
func (ts *TechnicalSkills) UnmarshalJSON(data []byte) (err error) {
	categories := make(TechnicalSkills, 0)

	err = decodeObject(data, func(key string, raw json.RawMessage) (fnErr error) {
		var tiers SkillTiers
		fnErr = json.Unmarshal(raw, &tiers)
		if fnErr != nil {
			fnErr = errors.Wrapf(fnErr, "failed to parse skill category %q", key)
			return fnErr
		}

		for i := range categories {
			if categories[i].Name == key {
				categories[i].Tiers = tiers
				return fnErr
			}
		}

		categories = append(categories, SkillCategory{Name: key, Tiers: tiers})
		return fnErr
	})
	if err != nil {
		return err
	}

	*ts = categories
	return err
}

// MarshalJSON encodes the categories as a JSON object in order.
func (ts TechnicalSkills) MarshalJSON() (data []byte, err error) {
	data, err = encodeObject(ts.Names(), func(i int) (v interface{}) {
		v = ts[i].Tiers
		return v
	})
	return data, err
}

func contains(slice []string, item string) (found bool) {
	for _, s := range slice {
		if s == item {
			found = true
			return found
		}
	}
	return found
}
