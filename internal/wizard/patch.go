package wizard

import "ai-folio/internal/model"

// Patch is a partial profile. Nil fields are left alone. The nested
// objects merge key by key; the two lists are replaced wholesale.
type Patch struct {
	PersonalDetails   *PersonalDetailsPatch `json:"personalDetails,omitempty"`
	Education         *EducationPatch       `json:"education,omitempty"`
	TargetRole        *string               `json:"targetRole,omitempty"`
	Skills            *SkillsPatch          `json:"skills,omitempty"`
	Projects          *[]model.Project      `json:"projects,omitempty"`
	Experiences       *[]model.Experience   `json:"experiences,omitempty"`
	Certifications    *string               `json:"certifications,omitempty"`
	DocumentType      *model.DocumentType   `json:"documentType,omitempty" validate:"omitempty,oneof=resume portfolio both"`
	ResumeTemplate    *string               `json:"resumeTemplate,omitempty" validate:"omitempty,oneof=classic-ats modern-ai fresher-ai"`
	PortfolioTemplate *string               `json:"portfolioTemplate,omitempty" validate:"omitempty,oneof=minimal-ai modern-dev research"`
}

type PersonalDetailsPatch struct {
	FullName      *string `json:"fullName,omitempty"`
	Email         *string `json:"email,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Location      *string `json:"location,omitempty"`
	LinkedIn      *string `json:"linkedin,omitempty"`
	GitHub        *string `json:"github,omitempty"`
	PortfolioLink *string `json:"portfolioLink,omitempty"`
}

type EducationPatch struct {
	Degree   *string `json:"degree,omitempty"`
	College  *string `json:"college,omitempty"`
	GradYear *string `json:"gradYear,omitempty"`
	CGPA     *string `json:"cgpa,omitempty"`
}

type SkillsPatch struct {
	Languages  *string `json:"languages,omitempty"`
	MLSkills   *string `json:"mlSkills,omitempty"`
	Tools      *string `json:"tools,omitempty"`
	Frameworks *string `json:"frameworks,omitempty"`
	Databases  *string `json:"databases,omitempty"`
}

func set(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func (pp *PersonalDetailsPatch) apply(d *model.PersonalDetails) {
	if pp == nil {
		return
	}
	set(&d.FullName, pp.FullName)
	set(&d.Email, pp.Email)
	set(&d.Phone, pp.Phone)
	set(&d.Location, pp.Location)
	set(&d.LinkedIn, pp.LinkedIn)
	set(&d.GitHub, pp.GitHub)
	set(&d.PortfolioLink, pp.PortfolioLink)
}

func (ep *EducationPatch) apply(e *model.Education) {
	if ep == nil {
		return
	}
	set(&e.Degree, ep.Degree)
	set(&e.College, ep.College)
	set(&e.GradYear, ep.GradYear)
	set(&e.CGPA, ep.CGPA)
}

func (sp *SkillsPatch) apply(s *model.Skills) {
	if sp == nil {
		return
	}
	set(&s.Languages, sp.Languages)
	set(&s.MLSkills, sp.MLSkills)
	set(&s.Tools, sp.Tools)
	set(&s.Frameworks, sp.Frameworks)
	set(&s.Databases, sp.Databases)
}

// String is a convenience for building patches in code.
func String(s string) *string { return &s }
