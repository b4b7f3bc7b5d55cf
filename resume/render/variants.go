package render

import "resume-builder/resume/model"

// Render builds the document for the given variant. Unknown ids render as modern.
func Render(data model.ResumeData, id model.TemplateID) Document {
	switch id {
	case model.TemplateClassic:
		return classic(data)
	case model.TemplateCreative:
		return creative(data)
	default:
		return modern(data)
	}
}

func modern(data model.ResumeData) Document {
	info := data.PersonalInfo
	return Document{
		Variant: model.TemplateModern,
		Header:  headerOf(info),
		Main: collect(
			func() (Section, bool) { return summarySection(info) },
			func() (Section, bool) { return experienceSection(data.WorkExperience) },
			func() (Section, bool) { return educationSection(data.Education) },
			func() (Section, bool) { return projectsSection(data.Projects) },
		),
		Sidebar: collect(
			func() (Section, bool) { return skillsSection(data.Skills) },
			func() (Section, bool) { return certificationsSection(data.Certifications) },
		),
		Palette: PaletteFor(model.TemplateModern),
	}
}

func classic(data model.ResumeData) Document {
	info := data.PersonalInfo
	return Document{
		Variant: model.TemplateClassic,
		Header:  headerOf(info),
		Main: collect(
			func() (Section, bool) { return summarySection(info) },
			func() (Section, bool) { return experienceSection(data.WorkExperience) },
			func() (Section, bool) { return educationSection(data.Education) },
			func() (Section, bool) { return projectsSection(data.Projects) },
			func() (Section, bool) { return skillsSection(data.Skills) },
			func() (Section, bool) { return certificationsSection(data.Certifications) },
		),
		Palette: PaletteFor(model.TemplateClassic),
	}
}

// creative moves the contact block into the sidebar next to the skills.
func creative(data model.ResumeData) Document {
	info := data.PersonalInfo
	header := headerOf(info)
	return Document{
		Variant: model.TemplateCreative,
		Header:  header,
		Main: collect(
			func() (Section, bool) { return summarySection(info) },
			func() (Section, bool) { return experienceSection(data.WorkExperience) },
			func() (Section, bool) { return educationSection(data.Education) },
			func() (Section, bool) { return projectsSection(data.Projects) },
		),
		Sidebar: collect(
			func() (Section, bool) {
				lines := header.Contact(false)
				return Section{Kind: KindContact, Title: "Contact", Lines: lines}, len(lines) > 0
			},
			func() (Section, bool) { return skillsSection(data.Skills) },
		),
		Palette: PaletteFor(model.TemplateCreative),
	}
}
