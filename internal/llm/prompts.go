package llm

import (
	"fmt"
	"strings"

	"resume-builder/resume/model"
)

// SummaryPrompt asks for a short professional summary built from the skills and positions.
func SummaryPrompt(data model.ResumeData) string {
	skills := make([]string, 0, len(data.Skills))
	for _, s := range data.Skills {
		if s.Name != "" {
			skills = append(skills, s.Name)
		}
	}
	positions := make([]string, 0, len(data.WorkExperience))
	for _, exp := range data.WorkExperience {
		if exp.Position != "" {
			positions = append(positions, exp.Position)
		}
	}
	info := data.PersonalInfo
	return fmt.Sprintf(
		"Write a concise, professional resume summary for %s %s. Include skills: %s. Highlight experience from positions: %s. Keep it under 60 words.",
		info.FirstName, info.LastName, strings.Join(skills, ", "), strings.Join(positions, ", "),
	)
}

// BulletsPrompt asks for achievement bullet points for one position.
func BulletsPrompt(exp model.WorkExperience) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write three achievement bullet points for a %s at %s.", exp.Position, exp.Company)
	if d := strings.TrimSpace(exp.Description); d != "" {
		fmt.Fprintf(&b, " Role description: %s.", d)
	}
	b.WriteString(" Start each line with a strong action verb and quantify results where possible.")
	return b.String()
}
