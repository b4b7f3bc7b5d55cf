// Package defaults builds empty entities for form initialization and the template catalog.
package defaults

import (
	"github.com/google/uuid"

	"resume-builder/resume/model"
)

const (
	DefaultSummary       = "Experienced professional seeking new opportunities..."
	DefaultSkillCategory = "Technical"
)

// NewID returns an opaque unique identifier for a list entry.
func NewID() string {
	return uuid.NewString()
}

// NewResumeData returns the session-start aggregate: blank personal info with the default
// summary and empty lists.
func NewResumeData() model.ResumeData {
	return model.ResumeData{
		PersonalInfo: model.PersonalInfo{
			Summary: DefaultSummary,
		},
		Education:      []model.Education{},
		WorkExperience: []model.WorkExperience{},
		Skills:         []model.Skill{},
		Projects:       []model.Project{},
		Certifications: []model.Certification{},
	}
}

func NewEducation() model.Education {
	return model.Education{ID: NewID()}
}

func NewWorkExperience() model.WorkExperience {
	return model.WorkExperience{ID: NewID(), Achievements: []string{}}
}

// NewSkill defaults the level to Intermediate and the category to Technical.
func NewSkill() model.Skill {
	return model.Skill{
		ID:       NewID(),
		Level:    model.LevelIntermediate,
		Category: DefaultSkillCategory,
	}
}

func NewProject() model.Project {
	return model.Project{ID: NewID(), Technologies: []string{}}
}

func NewCertification() model.Certification {
	return model.Certification{ID: NewID()}
}

var catalog = []model.Template{
	{
		ID:          model.TemplateModern,
		Name:        "Modern",
		Description: "Clean and professional design with modern typography",
		Category:    "Professional",
		Color:       "blue",
		Preview:     "modern-preview",
	},
	{
		ID:          model.TemplateClassic,
		Name:        "Classic",
		Description: "Traditional resume format trusted by recruiters",
		Category:    "Traditional",
		Color:       "green",
		Preview:     "classic-preview",
	},
	{
		ID:          model.TemplateCreative,
		Name:        "Creative",
		Description: "Modern design with creative elements for design roles",
		Category:    "Creative",
		Color:       "purple",
		Preview:     "creative-preview",
	},
}

// Templates returns a copy of the template catalog.
func Templates() []model.Template {
	out := make([]model.Template, len(catalog))
	copy(out, catalog)
	return out
}

// DefaultTemplate is the modern template.
func DefaultTemplate() model.Template {
	return catalog[0]
}

// TemplateByID looks up a template, reporting false and returning the default for unknown ids.
func TemplateByID(id model.TemplateID) (model.Template, bool) {
	for _, tmpl := range catalog {
		if tmpl.ID == id {
			return tmpl, true
		}
	}
	return DefaultTemplate(), false
}
