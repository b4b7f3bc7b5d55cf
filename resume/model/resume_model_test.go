package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"ada@example.com", true},
		{"a.b+c@sub.example.org", true},
		{"ada@example", false},
		{"ada example@x.io", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidEmail(tt.email))
		})
	}
}

func TestValidPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"+1 (555) 123-4567", true},
		{"5551234567", true},
		{"0123", false},
		{"+", false},
		{"12345678901234567", false},
		{"555-abc", false},
	}
	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidPhone(tt.phone))
		})
	}
}

func TestValidYears(t *testing.T) {
	assert.True(t, ValidYears(0))
	assert.True(t, ValidYears(2.5))
	assert.True(t, ValidYears(50))
	assert.False(t, ValidYears(2.25))
	assert.False(t, ValidYears(-1))
	assert.False(t, ValidYears(50.5))
}

func TestSkillLevelOrdering(t *testing.T) {
	assert.Less(t, LevelBeginner.Rank(), LevelIntermediate.Rank())
	assert.Less(t, LevelIntermediate.Rank(), LevelAdvanced.Rank())
	assert.Less(t, LevelAdvanced.Rank(), LevelExpert.Rank())
	assert.Equal(t, 0, SkillLevel("Guru").Rank())
	assert.False(t, SkillLevel("").Valid())
}

func TestAppendThenRemoveIsInverse(t *testing.T) {
	skills := []Skill{}
	added := Append(skills, Skill{ID: "s1", Name: "Go", Level: LevelIntermediate, Category: "Technical"})
	require.Len(t, added, 1)
	assert.Empty(t, skills)

	removed, err := RemoveAt(added, 0)
	require.NoError(t, err)
	assert.Equal(t, skills, removed)
}

func TestReplaceAtDoesNotAlias(t *testing.T) {
	original := []string{"a", "b", "c"}
	updated, err := ReplaceAt(original, 1, "B")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "B", "c"}, updated)
	assert.Equal(t, []string{"a", "b", "c"}, original)

	_, err = ReplaceAt(original, 3, "x")
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = RemoveAt(original, -1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestCloneIsDeep(t *testing.T) {
	years := 3.0
	data := ResumeData{
		WorkExperience: []WorkExperience{{ID: "w1", Achievements: []string{"shipped"}}},
		Skills:         []Skill{{ID: "s1", YearsOfExperience: &years}},
		Projects:       []Project{{ID: "p1", Technologies: []string{"go"}}},
	}
	clone := data.Clone()
	clone.WorkExperience[0].Achievements[0] = "changed"
	*clone.Skills[0].YearsOfExperience = 9
	clone.Projects[0].Technologies[0] = "rust"

	assert.Equal(t, "shipped", data.WorkExperience[0].Achievements[0])
	assert.Equal(t, 3.0, *data.Skills[0].YearsOfExperience)
	assert.Equal(t, "go", data.Projects[0].Technologies[0])
	assert.NotNil(t, clone.Education)
	assert.NotNil(t, clone.Certifications)
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "Present", FormatDate(""))
	assert.Equal(t, "Jan 2020", FormatDate("2020-01"))
	assert.Equal(t, "Mar 2021", FormatDate("2021-03-15"))
	assert.Equal(t, "someday", FormatDate("someday"))
}

func TestDateRange(t *testing.T) {
	assert.Equal(t, "Jan 2020 - Present", DateRange("2020-01", "2022-05", true))
	assert.Equal(t, "Jan 2020 - May 2022", DateRange("2020-01", "2022-05", false))
	assert.Equal(t, "Jan 2020 - Present", DateRange("2020-01", "", false))
}

func TestDuration(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2 years 4 months", Duration("2020-01", "2022-05", false, now))
	assert.Equal(t, "1 year", Duration("2023-06", "", true, now))
	assert.Equal(t, "1 month", Duration("2024-05", "", true, now))
	assert.Equal(t, "", Duration("bad", "", true, now))
}

func TestImportJSONRoundTrip(t *testing.T) {
	years := 1.5
	data := ResumeData{
		PersonalInfo: PersonalInfo{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
		Education:    []Education{{ID: "e1", Institution: "Cambridge", CurrentlyStudying: true}},
		WorkExperience: []WorkExperience{
			{ID: "w1", Company: "Engines", Position: "Analyst", Achievements: []string{"notes"}},
		},
		Skills:         []Skill{{ID: "s1", Name: "Math", Level: LevelExpert, Category: "Technical", YearsOfExperience: &years}},
		Projects:       []Project{{ID: "p1", Name: "Analytical", Technologies: []string{"brass"}}},
		Certifications: []Certification{{ID: "c1", Name: "Cert", Issuer: "RS"}},
	}

	raw, err := ExportJSON(data)
	require.NoError(t, err)
	got, err := ImportJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestImportJSONRejectsInvalid(t *testing.T) {
	_, err := ImportJSON([]byte(`{"personalInfo": {"firstName": 3}}`))
	assert.ErrorIs(t, err, ErrInvalidJSON)

	_, err = ImportJSON([]byte(`{"personalInfo": {}, "skills": [{"level": "Guru"}]}`))
	assert.ErrorIs(t, err, ErrInvalidJSON)

	_, err = ImportJSON([]byte(`not json`))
	assert.ErrorIs(t, err, ErrInvalidJSON)
}
