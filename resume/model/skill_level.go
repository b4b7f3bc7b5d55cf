package model

// SkillLevel is an ordered proficiency scale.
type SkillLevel string

const (
	LevelBeginner     SkillLevel = "Beginner"
	LevelIntermediate SkillLevel = "Intermediate"
	LevelAdvanced     SkillLevel = "Advanced"
	LevelExpert       SkillLevel = "Expert"
)

// SkillLevels lists the levels from lowest to highest.
var SkillLevels = []SkillLevel{LevelBeginner, LevelIntermediate, LevelAdvanced, LevelExpert}

// Rank returns 1..4 for known levels and 0 otherwise.
func (l SkillLevel) Rank() int {
	for i, level := range SkillLevels {
		if level == l {
			return i + 1
		}
	}
	return 0
}

func (l SkillLevel) Valid() bool {
	return l.Rank() > 0
}
