package render

import (
	"bytes"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/resume/model"
)

func sampleResume() model.ResumeData {
	return model.ResumeData{
		PersonalInfo: model.PersonalInfo{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
			Phone:     "+44 20 1234",
			LinkedIn:  "in/ada",
			Summary:   "Analyst of engines.",
		},
		WorkExperience: []model.WorkExperience{
			{ID: "w1", Position: "Analyst", Company: "Engines Ltd", StartDate: "2020-01", EndDate: "2022-05", CurrentlyWorking: true, Achievements: []string{"Wrote the first program"}},
			{ID: "w2", Position: "Translator", Company: "Journal", StartDate: "2018-03", EndDate: "2019-12"},
		},
		Education: []model.Education{
			{ID: "e1", Institution: "Home", Degree: "Private tutoring", FieldOfStudy: "Mathematics", StartDate: "2010-01", GPA: "4.0"},
		},
		Skills: []model.Skill{
			{ID: "s1", Name: "Go", Level: model.LevelExpert, Category: "Technical"},
			{ID: "s2", Name: "Writing", Level: model.LevelAdvanced, Category: ""},
			{ID: "s3", Name: "SQL", Level: model.LevelBeginner, Category: "Technical"},
		},
		Certifications: []model.Certification{
			{ID: "c1", Name: "Fellow", Issuer: "Royal Society", IssueDate: "2021-06", ExpirationDate: "2024-06"},
		},
	}
}

func kinds(sections []Section) []SectionKind {
	var out []SectionKind
	for _, s := range sections {
		out = append(out, s.Kind)
	}
	return out
}

func TestRenderVariantsSectionOrder(t *testing.T) {
	data := sampleResume()

	modern := Render(data, model.TemplateModern)
	assert.Equal(t, []SectionKind{KindSummary, KindExperience, KindEducation}, kinds(modern.Main))
	assert.Equal(t, []SectionKind{KindSkills, KindCertifications}, kinds(modern.Sidebar))

	classic := Render(data, model.TemplateClassic)
	assert.Empty(t, classic.Sidebar)
	assert.Equal(t, []SectionKind{KindSummary, KindExperience, KindEducation, KindSkills, KindCertifications}, kinds(classic.Main))
	assert.Contains(t, classic.Palette.Font, "serif")

	creative := Render(data, model.TemplateCreative)
	assert.Equal(t, []SectionKind{KindContact, KindSkills}, kinds(creative.Sidebar))
	assert.Equal(t, []SectionKind{KindSummary, KindExperience, KindEducation}, kinds(creative.Main))
}

func TestRenderUnknownTemplateFallsBackToModern(t *testing.T) {
	doc := Render(sampleResume(), "neon")
	assert.Equal(t, model.TemplateModern, doc.Variant)
}

func TestRenderOmitsEmptySections(t *testing.T) {
	data := model.ResumeData{PersonalInfo: model.PersonalInfo{FirstName: "Ada", LastName: "Lovelace"}}
	for _, id := range []model.TemplateID{model.TemplateModern, model.TemplateClassic, model.TemplateCreative} {
		t.Run(string(id), func(t *testing.T) {
			doc := Render(data, id)
			assert.Empty(t, doc.Main)
			assert.Empty(t, doc.Sidebar)
			assert.Equal(t, "Ada Lovelace", doc.Header.Name)

			page, err := HTML(doc)
			require.NoError(t, err)
			dom, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
			require.NoError(t, err)
			assert.Equal(t, "Ada Lovelace", dom.Find("h1").First().Text())
			assert.Equal(t, 0, dom.Find("section").Length())
		})
	}
}

func TestInProgressEntryHidesEndDate(t *testing.T) {
	doc := Render(sampleResume(), model.TemplateModern)
	exp, ok := doc.Find(KindExperience)
	require.True(t, ok)
	assert.Equal(t, "Jan 2020 - Present", exp.Entries[0].Dates)
	assert.Equal(t, "Mar 2018 - Dec 2019", exp.Entries[1].Dates)

	edu, ok := doc.Find(KindEducation)
	require.True(t, ok)
	assert.Equal(t, "Jan 2010 - Present", edu.Entries[0].Dates)
}

func TestGroupSkillsFirstOccurrenceOrder(t *testing.T) {
	groups := GroupSkills(sampleResume().Skills)
	require.Len(t, groups, 2)
	assert.Equal(t, "Technical", groups[0].Name)
	assert.Equal(t, "Other", groups[1].Name)
	require.Len(t, groups[0].Skills, 2)
	assert.Equal(t, "SQL", groups[0].Skills[1].Name)
	assert.Equal(t, 4, groups[0].Skills[0].Rank)
}

func TestCertificationLine(t *testing.T) {
	doc := Render(sampleResume(), model.TemplateModern)
	certs, ok := doc.Find(KindCertifications)
	require.True(t, ok)
	assert.Equal(t, "Issued: Jun 2021 • Expires: Jun 2024", certs.Entries[0].Dates)
}

func TestHTMLModernStructure(t *testing.T) {
	page, err := HTML(Render(sampleResume(), model.TemplateModern))
	require.NoError(t, err)

	dom, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", dom.Find(".header h1").Text())
	assert.Equal(t, "Resume - Ada Lovelace", dom.Find("title").Text())
	var contact []string
	dom.Find(".contact span").Each(func(_ int, s *goquery.Selection) {
		contact = append(contact, s.Text())
	})
	assert.Equal(t, []string{"ada@example.com", "+44 20 1234", "LinkedIn: in/ada"}, contact)

	assert.Equal(t, 1, dom.Find(".main section.experience").Length())
	assert.Equal(t, 1, dom.Find(".sidebar section.skills").Length())
	assert.Equal(t, "Wrote the first program", dom.Find(".experience li").First().Text())

	expert := dom.Find(".skill").First()
	assert.Equal(t, "Go", expert.Find(".skill-name").Text())
	assert.Equal(t, 4, expert.Find(".dot.filled").Length())
	beginner := dom.Find(".skill").Eq(1)
	assert.Equal(t, 1, beginner.Find(".dot.filled").Length())
	assert.Equal(t, 4, beginner.Find(".dot").Length())
}

func TestHTMLCreativeHasNoTopHeader(t *testing.T) {
	page, err := HTML(Render(sampleResume(), model.TemplateCreative))
	require.NoError(t, err)

	dom, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	require.NoError(t, err)
	assert.Equal(t, 0, dom.Find(".header").Length())
	assert.Equal(t, "Ada Lovelace", dom.Find("aside.sidebar h1").Text())
	assert.Equal(t, "in/ada", dom.Find("section.contact .line").Last().Text())
}

func TestHTMLEscapesUserText(t *testing.T) {
	data := model.ResumeData{PersonalInfo: model.PersonalInfo{FirstName: "<script>", Summary: "a & b"}}
	page, err := HTML(Render(data, model.TemplateClassic))
	require.NoError(t, err)
	assert.NotContains(t, string(page), "<script>")
	assert.Contains(t, string(page), "a &amp; b")
}

func TestHTMLLinksProjectAndCertificationURLs(t *testing.T) {
	data := sampleResume()
	data.Projects = []model.Project{{ID: "p1", Name: "Engine notes", URL: "https://example.com/notes"}}
	data.Certifications[0].URL = "https://example.com/cert"
	data.Certifications = append(data.Certifications, model.Certification{ID: "c2", Name: "Bad", URL: "javascript:alert(1)"})

	page, err := HTML(Render(data, model.TemplateClassic))
	require.NoError(t, err)
	dom, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	require.NoError(t, err)

	href, ok := dom.Find("section.projects a.link").Attr("href")
	require.True(t, ok)
	assert.Equal(t, "https://example.com/notes", href)
	links := dom.Find("section.certifications a.link")
	require.Equal(t, 2, links.Length())
	assert.Equal(t, "https://example.com/cert", links.First().AttrOr("href", ""))
	assert.NotContains(t, links.Last().AttrOr("href", ""), "javascript")
}
