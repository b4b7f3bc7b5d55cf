package model

// PersonalInfo holds the resume header fields.
type PersonalInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	LinkedIn  string `json:"linkedIn,omitempty"`
	Portfolio string `json:"portfolio,omitempty"`
	Summary   string `json:"summary,omitempty"`
}

// FullName joins first and last name with a single space.
func (p PersonalInfo) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Education is one entry of the education list. EndDate is ignored while CurrentlyStudying is set.
type Education struct {
	ID                string `json:"id"`
	Institution       string `json:"institution"`
	Degree            string `json:"degree"`
	FieldOfStudy      string `json:"fieldOfStudy"`
	StartDate         string `json:"startDate"`
	EndDate           string `json:"endDate"`
	GPA               string `json:"gpa,omitempty"`
	Description       string `json:"description"`
	CurrentlyStudying bool   `json:"currentlyStudying"`
}

// WorkExperience is one entry of the work history. EndDate is ignored while CurrentlyWorking is set.
type WorkExperience struct {
	ID               string   `json:"id"`
	Company          string   `json:"company"`
	Position         string   `json:"position"`
	Location         string   `json:"location,omitempty"`
	StartDate        string   `json:"startDate"`
	EndDate          string   `json:"endDate"`
	CurrentlyWorking bool     `json:"currentlyWorking"`
	Description      string   `json:"description"`
	Achievements     []string `json:"achievements"`
}

// Skill is a named skill with a proficiency level.
type Skill struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Level             SkillLevel `json:"level" binding:"omitempty,skilllevel"`
	Category          string     `json:"category"`
	YearsOfExperience *float64   `json:"yearsOfExperience,omitempty" binding:"omitempty,yearsstep"`
}

type Project struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	URL          string   `json:"url,omitempty"`
}

type Certification struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Issuer         string `json:"issuer"`
	IssueDate      string `json:"issueDate"`
	ExpirationDate string `json:"expirationDate,omitempty"`
	URL            string `json:"url,omitempty"`
}

// ResumeData is the resume aggregate. Editors replace it wholesale; see Clone.
type ResumeData struct {
	PersonalInfo   PersonalInfo     `json:"personalInfo"`
	Education      []Education      `json:"education" binding:"dive"`
	WorkExperience []WorkExperience `json:"workExperience" binding:"dive"`
	Skills         []Skill          `json:"skills" binding:"dive"`
	Projects       []Project        `json:"projects" binding:"dive"`
	Certifications []Certification  `json:"certifications" binding:"dive"`
}

// Clone returns a deep copy that shares no slices with d. Nil lists come back empty.
func (d ResumeData) Clone() ResumeData {
	out := d
	out.Education = cloneSlice(d.Education)
	out.WorkExperience = make([]WorkExperience, len(d.WorkExperience))
	for i, exp := range d.WorkExperience {
		exp.Achievements = cloneSlice(exp.Achievements)
		out.WorkExperience[i] = exp
	}
	out.Skills = make([]Skill, len(d.Skills))
	for i, skill := range d.Skills {
		if skill.YearsOfExperience != nil {
			years := *skill.YearsOfExperience
			skill.YearsOfExperience = &years
		}
		out.Skills[i] = skill
	}
	out.Projects = make([]Project, len(d.Projects))
	for i, project := range d.Projects {
		project.Technologies = cloneSlice(project.Technologies)
		out.Projects[i] = project
	}
	out.Certifications = cloneSlice(d.Certifications)
	return out
}

// TemplateID selects one of the closed set of layout variants.
type TemplateID string

const (
	TemplateModern   TemplateID = "modern"
	TemplateClassic  TemplateID = "classic"
	TemplateCreative TemplateID = "creative"
)

// Valid reports whether id names a known variant.
func (id TemplateID) Valid() bool {
	switch id {
	case TemplateModern, TemplateClassic, TemplateCreative:
		return true
	default:
		return false
	}
}

// Template describes a layout variant. Only ID affects rendering.
type Template struct {
	ID          TemplateID `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Color       string     `json:"color"`
	Preview     string     `json:"preview"`
}
