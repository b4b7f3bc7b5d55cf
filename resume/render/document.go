// Package render turns a resume into a variant-specific document tree and HTML page.
package render

import (
	"strings"

	"resume-builder/resume/model"
)

// SectionKind identifies the content of a section.
type SectionKind string

const (
	KindSummary        SectionKind = "summary"
	KindExperience     SectionKind = "experience"
	KindEducation      SectionKind = "education"
	KindProjects       SectionKind = "projects"
	KindSkills         SectionKind = "skills"
	KindCertifications SectionKind = "certifications"
	KindContact        SectionKind = "contact"
)

// Header is the name and contact block.
type Header struct {
	Name      string
	Email     string
	Phone     string
	Address   string
	LinkedIn  string
	Portfolio string
}

// Contact lists the non-empty contact values in display order. Labeled adds the
// "LinkedIn:" and "Portfolio:" prefixes.
func (h Header) Contact(labeled bool) []string {
	var out []string
	for _, v := range []string{h.Email, h.Phone, h.Address} {
		if v != "" {
			out = append(out, v)
		}
	}
	if h.LinkedIn != "" {
		if labeled {
			out = append(out, "LinkedIn: "+h.LinkedIn)
		} else {
			out = append(out, h.LinkedIn)
		}
	}
	if h.Portfolio != "" {
		if labeled {
			out = append(out, "Portfolio: "+h.Portfolio)
		} else {
			out = append(out, h.Portfolio)
		}
	}
	return out
}

// Entry is one dated item of a list section.
type Entry struct {
	Title       string
	Subtitle    string
	Location    string
	Dates       string
	Detail      string
	Description string
	Bullets     []string
	Tags        []string
	URL         string
}

// SkillItem is one skill with its indicator fill (0-4).
type SkillItem struct {
	Name  string
	Level model.SkillLevel
	Rank  int
}

// Group is a skill category in first-occurrence order.
type Group struct {
	Name   string
	Skills []SkillItem
}

// Section is a titled block. Exactly one of Text, Entries, Groups or Lines is populated.
type Section struct {
	Kind    SectionKind
	Title   string
	Text    string
	Entries []Entry
	Groups  []Group
	Lines   []string
}

// Document is the render tree for one variant.
type Document struct {
	Variant model.TemplateID
	Header  Header
	Main    []Section
	Sidebar []Section
	Palette Palette
}

// Sections returns the sidebar followed by the main column.
func (d Document) Sections() []Section {
	out := make([]Section, 0, len(d.Sidebar)+len(d.Main))
	out = append(out, d.Sidebar...)
	return append(out, d.Main...)
}

// Find returns the first section of the given kind.
func (d Document) Find(kind SectionKind) (Section, bool) {
	for _, s := range d.Sections() {
		if s.Kind == kind {
			return s, true
		}
	}
	return Section{}, false
}

const otherCategory = "Other"

// GroupSkills buckets skills by category keeping first-occurrence order. Blank categories
// fall into "Other".
func GroupSkills(skills []model.Skill) []Group {
	var groups []Group
	index := map[string]int{}
	for _, skill := range skills {
		cat := strings.TrimSpace(skill.Category)
		if cat == "" {
			cat = otherCategory
		}
		i, ok := index[cat]
		if !ok {
			i = len(groups)
			index[cat] = i
			groups = append(groups, Group{Name: cat})
		}
		groups[i].Skills = append(groups[i].Skills, SkillItem{
			Name:  skill.Name,
			Level: skill.Level,
			Rank:  skill.Level.Rank(),
		})
	}
	return groups
}

func headerOf(info model.PersonalInfo) Header {
	return Header{
		Name:      strings.TrimSpace(info.FullName()),
		Email:     info.Email,
		Phone:     info.Phone,
		Address:   info.Address,
		LinkedIn:  info.LinkedIn,
		Portfolio: info.Portfolio,
	}
}

func summarySection(info model.PersonalInfo) (Section, bool) {
	if strings.TrimSpace(info.Summary) == "" {
		return Section{}, false
	}
	return Section{Kind: KindSummary, Title: "Professional Summary", Text: info.Summary}, true
}

func experienceSection(items []model.WorkExperience) (Section, bool) {
	if len(items) == 0 {
		return Section{}, false
	}
	entries := make([]Entry, 0, len(items))
	for _, exp := range items {
		entries = append(entries, Entry{
			Title:       exp.Position,
			Subtitle:    exp.Company,
			Location:    exp.Location,
			Dates:       model.DateRange(exp.StartDate, exp.EndDate, exp.CurrentlyWorking),
			Description: exp.Description,
			Bullets:     append([]string(nil), exp.Achievements...),
		})
	}
	return Section{Kind: KindExperience, Title: "Work Experience", Entries: entries}, true
}

func educationSection(items []model.Education) (Section, bool) {
	if len(items) == 0 {
		return Section{}, false
	}
	entries := make([]Entry, 0, len(items))
	for _, edu := range items {
		entry := Entry{
			Title:       edu.Degree,
			Subtitle:    edu.Institution,
			Dates:       model.DateRange(edu.StartDate, edu.EndDate, edu.CurrentlyStudying),
			Description: edu.Description,
		}
		if edu.FieldOfStudy != "" {
			entry.Detail = edu.FieldOfStudy
		}
		if edu.GPA != "" {
			entry.Location = "GPA: " + edu.GPA
		}
		entries = append(entries, entry)
	}
	return Section{Kind: KindEducation, Title: "Education", Entries: entries}, true
}

func projectsSection(items []model.Project) (Section, bool) {
	if len(items) == 0 {
		return Section{}, false
	}
	entries := make([]Entry, 0, len(items))
	for _, p := range items {
		entries = append(entries, Entry{
			Title:       p.Name,
			Dates:       model.DateRange(p.StartDate, p.EndDate, false),
			Description: p.Description,
			Tags:        append([]string(nil), p.Technologies...),
			URL:         p.URL,
		})
	}
	return Section{Kind: KindProjects, Title: "Projects", Entries: entries}, true
}

func skillsSection(items []model.Skill) (Section, bool) {
	if len(items) == 0 {
		return Section{}, false
	}
	return Section{Kind: KindSkills, Title: "Skills", Groups: GroupSkills(items)}, true
}

func certificationsSection(items []model.Certification) (Section, bool) {
	if len(items) == 0 {
		return Section{}, false
	}
	entries := make([]Entry, 0, len(items))
	for _, c := range items {
		issued := "Issued: " + model.FormatDate(c.IssueDate)
		if c.ExpirationDate != "" {
			issued += " • Expires: " + model.FormatDate(c.ExpirationDate)
		}
		entries = append(entries, Entry{
			Title:    c.Name,
			Subtitle: c.Issuer,
			Dates:    issued,
			URL:      c.URL,
		})
	}
	return Section{Kind: KindCertifications, Title: "Certifications", Entries: entries}, true
}

func collect(builders ...func() (Section, bool)) []Section {
	var out []Section
	for _, build := range builders {
		if s, ok := build(); ok {
			out = append(out, s)
		}
	}
	return out
}
