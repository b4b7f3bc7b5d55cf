package llm

import (
	"context"
	"strings"
)

const (
	mockSummary = "Driven software professional with 5+ years of experience in full-stack development, cloud technologies, and team leadership. Proven ability to design and implement scalable solutions that increase operational efficiency by 40%. Strong expertise in modern frameworks, agile methodologies, and cross-functional collaboration."
	mockBullets = "• Led development of microservices architecture serving 100K+ daily users with 99.9% uptime\n• Implemented CI/CD pipelines reducing deployment time by 60%\n• Mentored team of 5 junior developers, improving code quality by 35%"
	mockSkills  = "JavaScript: Advanced, Python: Advanced, React: Expert, AWS: Intermediate, Docker: Intermediate, Leadership: Advanced, Problem Solving: Expert"
	mockDefault = "Dedicated professional with strong technical background and proven track record of delivering high-impact solutions. Experienced in collaborating with cross-functional teams to achieve business objectives and drive innovation."
)

// Mock answers from a fixed table keyed by prompt substrings. It never fails.
type Mock struct{}

func (Mock) Generate(_ context.Context, req Request) (Response, error) {
	return Response{GeneratedText: MockText(req.Prompt), Source: SourceMock}, nil
}

// MockText picks the canned reply for prompt.
func MockText(prompt string) string {
	lower := strings.ToLower(prompt)
	switch {
	case strings.Contains(lower, "summary"):
		return mockSummary
	case strings.Contains(lower, "bullet"), strings.Contains(lower, "point"):
		return mockBullets
	case strings.Contains(lower, "skill"):
		return mockSkills
	default:
		return mockDefault
	}
}
