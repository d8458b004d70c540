package model

// Go models for the wizard's career profile. JSON names match the payloads
// persisted in the records' data column.

type DocumentType string

const (
	DocumentResume    DocumentType = "resume"
	DocumentPortfolio DocumentType = "portfolio"
	DocumentBoth      DocumentType = "both"
)

// WantsResume reports whether a save should write a resume record.
func (d DocumentType) WantsResume() bool { return d == DocumentResume || d == DocumentBoth }

// WantsPortfolio reports whether a save should write a portfolio record.
func (d DocumentType) WantsPortfolio() bool { return d == DocumentPortfolio || d == DocumentBoth }

const (
	DefaultResumeTemplate    = "classic-ats"
	DefaultPortfolioTemplate = "minimal-ai"
)

type PersonalDetails struct {
	FullName      string `json:"fullName"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Location      string `json:"location"`
	LinkedIn      string `json:"linkedin"`
	GitHub        string `json:"github"`
	PortfolioLink string `json:"portfolioLink,omitempty"`
}

type Education struct {
	Degree   string `json:"degree"`
	College  string `json:"college"`
	GradYear string `json:"gradYear"`
	CGPA     string `json:"cgpa"`
}

// Skills holds five comma-separated free-text categories.
type Skills struct {
	Languages  string `json:"languages"`
	MLSkills   string `json:"mlSkills"`
	Tools      string `json:"tools"`
	Frameworks string `json:"frameworks"`
	Databases  string `json:"databases"`
}

type Project struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Problem       string `json:"problem"`
	TechStack     string `json:"techStack"`
	Contributions string `json:"contributions"`
	Outcome       string `json:"outcome"`
}

type Experience struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

// Profile is the whole wizard state.
type Profile struct {
	PersonalDetails   PersonalDetails `json:"personalDetails"`
	Education         Education       `json:"education"`
	TargetRole        string          `json:"targetRole"`
	Skills            Skills          `json:"skills"`
	Projects          []Project       `json:"projects"`
	Experiences       []Experience    `json:"experiences"`
	Certifications    string          `json:"certifications"`
	DocumentType      DocumentType    `json:"documentType"`
	ResumeTemplate    string          `json:"resumeTemplate"`
	PortfolioTemplate string          `json:"portfolioTemplate"`
}

// Defaults returns an empty profile with the default output preferences.
func Defaults() Profile {
	return Profile{
		Projects:          []Project{},
		Experiences:       []Experience{},
		DocumentType:      DocumentResume,
		ResumeTemplate:    DefaultResumeTemplate,
		PortfolioTemplate: DefaultPortfolioTemplate,
	}
}

// Clone returns a copy that shares no slices with p.
func (p Profile) Clone() Profile {
	out := p
	out.Projects = append([]Project{}, p.Projects...)
	out.Experiences = append([]Experience{}, p.Experiences...)
	return out
}

// SuggestedRoles are offered by the target role step; the role itself stays free text.
var SuggestedRoles = []string{
	"AI Engineer",
	"ML Engineer",
	"Data Scientist",
	"GenAI Developer",
	"NLP Engineer",
	"Computer Vision Engineer",
	"MLOps Engineer",
	"AI Research Scientist",
	"Deep Learning Engineer",
	"Data Analyst (AI)",
}
