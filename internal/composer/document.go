package composer

type SectionKind string

const (
	SectionEducation      SectionKind = "education"
	SectionSkills         SectionKind = "skills"
	SectionProjects       SectionKind = "projects"
	SectionExperience     SectionKind = "experience"
	SectionCertifications SectionKind = "certifications"
)

type ContactKind string

const (
	ContactEmail     ContactKind = "email"
	ContactPhone     ContactKind = "phone"
	ContactLocation  ContactKind = "location"
	ContactLinkedIn  ContactKind = "linkedin"
	ContactGitHub    ContactKind = "github"
	ContactPortfolio ContactKind = "portfolio"
)

// Document is the template-independent view of a profile.
type Document struct {
	Header   Header
	Sections []Section
}

type Header struct {
	Name     string
	Role     string
	Contacts []Contact
}

// Contact is one header item. Href and Site are only set for values that
// look like web addresses.
type Contact struct {
	Kind  ContactKind
	Value string
	Href  string
	Site  string
}

type Section struct {
	Kind  SectionKind
	Title string

	Education      *EducationItem
	Skills         []SkillGroup
	Projects       []ProjectItem
	Experience     []ExperienceItem
	Certifications []string
}

type EducationItem struct {
	Degree   string
	College  string
	GradYear string
	CGPA     string
}

type SkillGroup struct {
	Label string
	Tags  []string
}

type ProjectItem struct {
	ID            string
	Title         string
	Problem       string
	TechStack     string
	Tech          []string
	Contributions []string
	Outcome       string
}

type ExperienceItem struct {
	ID       string
	Title    string
	Company  string
	Duration string
	Bullets  []string
}

// Section returns the first section of the given kind, or nil.
func (d Document) Section(kind SectionKind) *Section {
	for i := range d.Sections {
		if d.Sections[i].Kind == kind {
			return &d.Sections[i]
		}
	}
	return nil
}

// Has reports whether the document carries a section of the given kind.
func (d Document) Has(kind SectionKind) bool {
	return d.Section(kind) != nil
}
