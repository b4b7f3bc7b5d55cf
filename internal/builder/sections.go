package builder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"resume-builder/resume/defaults"
	"resume-builder/resume/model"
)

// Section names an editable list of the aggregate.
type Section string

const (
	SectionEducation      Section = "education"
	SectionExperience     Section = "experience"
	SectionSkills         Section = "skills"
	SectionProjects       Section = "projects"
	SectionCertifications Section = "certifications"
)

var (
	ErrUnknownSection = errors.New("unknown section")
	ErrInvalidEntry   = errors.New("invalid entry")
)

// ParseSection accepts the section names used in URLs, plus "workExperience".
func ParseSection(raw string) (Section, error) {
	switch s := Section(strings.TrimSpace(raw)); s {
	case SectionEducation, SectionExperience, SectionSkills, SectionProjects, SectionCertifications:
		return s, nil
	case "workExperience":
		return SectionExperience, nil
	default:
		return "", fmt.Errorf("%q: %w", raw, ErrUnknownSection)
	}
}

// AddEntry appends a fresh factory entry to section and returns the new aggregate and
// the index of the added entry.
func (s *Session) AddEntry(ctx context.Context, section Section) (model.ResumeData, int, error) {
	var index int
	out, err := s.update(ctx, func(d *model.ResumeData) error {
		switch section {
		case SectionEducation:
			d.Education = model.Append(d.Education, defaults.NewEducation())
			index = len(d.Education) - 1
		case SectionExperience:
			d.WorkExperience = model.Append(d.WorkExperience, defaults.NewWorkExperience())
			index = len(d.WorkExperience) - 1
		case SectionSkills:
			d.Skills = model.Append(d.Skills, defaults.NewSkill())
			index = len(d.Skills) - 1
		case SectionProjects:
			d.Projects = model.Append(d.Projects, defaults.NewProject())
			index = len(d.Projects) - 1
		case SectionCertifications:
			d.Certifications = model.Append(d.Certifications, defaults.NewCertification())
			index = len(d.Certifications) - 1
		default:
			return ErrUnknownSection
		}
		return nil
	})
	return out, index, err
}

// UpdateEntry overwrites the entry at index with raw, a JSON object of the entry's fields.
// Fields missing from raw keep their current values; the id never changes.
func (s *Session) UpdateEntry(ctx context.Context, section Section, index int, raw []byte) (model.ResumeData, error) {
	return s.update(ctx, func(d *model.ResumeData) error {
		switch section {
		case SectionEducation:
			return patch(&d.Education, index, raw, func(e *model.Education) *string { return &e.ID })
		case SectionExperience:
			return patch(&d.WorkExperience, index, raw, func(e *model.WorkExperience) *string { return &e.ID })
		case SectionSkills:
			if err := patch(&d.Skills, index, raw, func(e *model.Skill) *string { return &e.ID }); err != nil {
				return err
			}
			return validateSkill(d.Skills[index])
		case SectionProjects:
			return patch(&d.Projects, index, raw, func(e *model.Project) *string { return &e.ID })
		case SectionCertifications:
			return patch(&d.Certifications, index, raw, func(e *model.Certification) *string { return &e.ID })
		default:
			return ErrUnknownSection
		}
	})
}

// RemoveEntry deletes the entry at index.
func (s *Session) RemoveEntry(ctx context.Context, section Section, index int) (model.ResumeData, error) {
	return s.update(ctx, func(d *model.ResumeData) error {
		var err error
		switch section {
		case SectionEducation:
			d.Education, err = model.RemoveAt(d.Education, index)
		case SectionExperience:
			d.WorkExperience, err = model.RemoveAt(d.WorkExperience, index)
		case SectionSkills:
			d.Skills, err = model.RemoveAt(d.Skills, index)
		case SectionProjects:
			d.Projects, err = model.RemoveAt(d.Projects, index)
		case SectionCertifications:
			d.Certifications, err = model.RemoveAt(d.Certifications, index)
		default:
			err = ErrUnknownSection
		}
		return err
	})
}

// AddAchievement appends text to the achievements of the work entry at expIndex.
func (s *Session) AddAchievement(ctx context.Context, expIndex int, text string) (model.ResumeData, error) {
	return s.update(ctx, func(d *model.ResumeData) error {
		if expIndex < 0 || expIndex >= len(d.WorkExperience) {
			return model.ErrIndexOutOfRange
		}
		exp := d.WorkExperience[expIndex]
		exp.Achievements = model.Append(exp.Achievements, text)
		var err error
		d.WorkExperience, err = model.ReplaceAt(d.WorkExperience, expIndex, exp)
		return err
	})
}

// RemoveAchievement deletes achievement achIndex of the work entry at expIndex.
func (s *Session) RemoveAchievement(ctx context.Context, expIndex, achIndex int) (model.ResumeData, error) {
	return s.update(ctx, func(d *model.ResumeData) error {
		if expIndex < 0 || expIndex >= len(d.WorkExperience) {
			return model.ErrIndexOutOfRange
		}
		exp := d.WorkExperience[expIndex]
		achievements, err := model.RemoveAt(exp.Achievements, achIndex)
		if err != nil {
			return err
		}
		exp.Achievements = achievements
		d.WorkExperience, err = model.ReplaceAt(d.WorkExperience, expIndex, exp)
		return err
	})
}

// patch decodes raw over a copy of (*list)[index] and writes it back without aliasing.
func patch[T any](list *[]T, index int, raw []byte, id func(*T) *string) error {
	if index < 0 || index >= len(*list) {
		return model.ErrIndexOutOfRange
	}
	entry := (*list)[index]
	original := *id(&entry)
	if err := json.Unmarshal(raw, &entry); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	*id(&entry) = original
	updated, err := model.ReplaceAt(*list, index, entry)
	if err != nil {
		return err
	}
	*list = updated
	return nil
}

func validateSkill(skill model.Skill) error {
	if skill.Level != "" && !skill.Level.Valid() {
		return fmt.Errorf("%w: unknown skill level %q", ErrInvalidEntry, skill.Level)
	}
	if skill.YearsOfExperience != nil && !model.ValidYears(*skill.YearsOfExperience) {
		return fmt.Errorf("%w: years of experience must be 0-50 in 0.5 steps", ErrInvalidEntry)
	}
	return nil
}
