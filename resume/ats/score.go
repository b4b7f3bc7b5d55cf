// Package ats approximates applicant-tracking-system keyword screening.
package ats

import (
	"math"
	"strings"

	"resume-builder/resume/model"
)

const (
	baseScore        = 50.0
	keywordWeight    = 30.0
	sectionWeight    = 15.0
	lengthBonus      = 5.0
	minWords         = 300
	maxWords         = 1000
	minSectionsFound = 3
)

// Keywords are matched as case-insensitive substrings.
var Keywords = []string{
	"skills",
	"experience",
	"education",
	"employment",
	"work history",
	"technical skills",
	"certifications",
	"awards",
	"projects",
	"responsibilities",
	"achievements",
}

// Sections are the headings a screener expects to find.
var Sections = []string{"education", "experience", "skills", "certification"}

const (
	FeedbackKeywords = "Add more industry keywords such as skills, experience and achievements."
	FeedbackSections = "Organize the resume into clear Education, Experience, Skills and Certification sections."
	FeedbackTooShort = "Resume is too short; aim for at least 300 words."
	FeedbackTooLong  = "Resume is too long; keep it under 1000 words."
)

// Result is the outcome of one scoring pass.
type Result struct {
	Score          float64  `json:"score"`
	Feedback       []string `json:"feedback"`
	KeywordMatches int      `json:"keywordMatches"`
	TotalKeywords  int      `json:"totalKeywords"`
	SectionMatches int      `json:"sectionMatches"`
	WordCount      int      `json:"wordCount"`
}

// Score rates text from 0 to 100, rounded to one decimal place.
func Score(text string) Result {
	lower := strings.ToLower(text)
	keywordHits := countContained(lower, Keywords)
	sectionHits := countContained(lower, Sections)
	words := len(strings.Fields(text))

	score := baseScore
	score += float64(keywordHits) / float64(len(Keywords)) * keywordWeight
	score += float64(sectionHits) / float64(len(Sections)) * sectionWeight
	if words >= minWords && words <= maxWords {
		score += lengthBonus
	}
	score = math.Max(0, math.Min(100, score))
	score = math.Round(score*10) / 10

	feedback := []string{}
	if float64(keywordHits) < float64(len(Keywords))/2 {
		feedback = append(feedback, FeedbackKeywords)
	}
	if sectionHits < minSectionsFound {
		feedback = append(feedback, FeedbackSections)
	}
	if words < minWords {
		feedback = append(feedback, FeedbackTooShort)
	} else if words > maxWords {
		feedback = append(feedback, FeedbackTooLong)
	}

	return Result{
		Score:          score,
		Feedback:       feedback,
		KeywordMatches: keywordHits,
		TotalKeywords:  len(Keywords),
		SectionMatches: sectionHits,
		WordCount:      words,
	}
}

func countContained(haystack string, needles []string) int {
	n := 0
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			n++
		}
	}
	return n
}

// Text flattens the non-empty resume fields into one blob in a fixed order.
func Text(data model.ResumeData) string {
	var parts []string
	add := func(values ...string) {
		for _, v := range values {
			if v = strings.TrimSpace(v); v != "" {
				parts = append(parts, v)
			}
		}
	}

	info := data.PersonalInfo
	add(info.FirstName, info.LastName, info.Email, info.Phone, info.Summary)
	for _, edu := range data.Education {
		add(edu.Institution, edu.Degree, edu.FieldOfStudy, edu.Description)
	}
	for _, exp := range data.WorkExperience {
		add(exp.Position, exp.Company, exp.Description)
		add(exp.Achievements...)
	}
	for _, skill := range data.Skills {
		add(skill.Name, skill.Category)
	}
	return strings.Join(parts, " ")
}
