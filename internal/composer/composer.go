// Package composer projects a career profile into the section lists that the
// resume and portfolio layouts render. Everything here is pure: absent fields
// drop their section, nothing returns an error.
package composer

import (
	"net/url"
	"strings"

	"ai-folio/internal/model"

	"golang.org/x/net/publicsuffix"
)

type titles map[SectionKind]string

var resumeTitles = titles{
	SectionEducation:      "Education",
	SectionSkills:         "Technical Skills",
	SectionProjects:       "Projects",
	SectionExperience:     "Experience",
	SectionCertifications: "Certifications & Achievements",
}

var portfolioTitles = titles{
	SectionSkills:         "Skills",
	SectionProjects:       "Projects",
	SectionExperience:     "Experience",
	SectionEducation:      "Education",
	SectionCertifications: "Certifications",
}

var (
	resumeOrder    = []SectionKind{SectionEducation, SectionSkills, SectionProjects, SectionExperience, SectionCertifications}
	portfolioOrder = []SectionKind{SectionSkills, SectionProjects, SectionExperience, SectionEducation, SectionCertifications}
)

// Resume composes the printable resume view.
func Resume(p model.Profile) Document {
	return compose(p, resumeOrder, resumeTitles)
}

// Portfolio composes the public portfolio view.
func Portfolio(p model.Profile) Document {
	return compose(p, portfolioOrder, portfolioTitles)
}

func compose(p model.Profile, order []SectionKind, t titles) Document {
	doc := Document{Header: header(p), Sections: []Section{}}
	for _, kind := range order {
		s, ok := build(p, kind)
		if !ok {
			continue
		}
		s.Title = t[kind]
		doc.Sections = append(doc.Sections, s)
	}
	return doc
}

func build(p model.Profile, kind SectionKind) (Section, bool) {
	s := Section{Kind: kind}
	switch kind {
	case SectionEducation:
		e := p.Education
		if strings.TrimSpace(e.Degree) == "" {
			return s, false
		}
		s.Education = &EducationItem{Degree: e.Degree, College: e.College, GradYear: e.GradYear, CGPA: e.CGPA}
	case SectionSkills:
		s.Skills = skillGroups(p.Skills)
		if len(s.Skills) == 0 {
			return s, false
		}
	case SectionProjects:
		if len(p.Projects) == 0 {
			return s, false
		}
		for _, pr := range p.Projects {
			s.Projects = append(s.Projects, ProjectItem{
				ID:            pr.ID,
				Title:         pr.Title,
				Problem:       pr.Problem,
				TechStack:     strings.TrimSpace(pr.TechStack),
				Tech:          SplitTags(pr.TechStack),
				Contributions: SplitLines(pr.Contributions),
				Outcome:       strings.TrimSpace(pr.Outcome),
			})
		}
	case SectionExperience:
		if len(p.Experiences) == 0 {
			return s, false
		}
		for _, ex := range p.Experiences {
			s.Experience = append(s.Experience, ExperienceItem{
				ID:       ex.ID,
				Title:    ex.Title,
				Company:  ex.Company,
				Duration: ex.Duration,
				Bullets:  SplitLines(ex.Description),
			})
		}
	case SectionCertifications:
		s.Certifications = SplitLines(p.Certifications)
		if len(s.Certifications) == 0 {
			return s, false
		}
	default:
		return s, false
	}
	return s, true
}

func skillGroups(sk model.Skills) []SkillGroup {
	cats := []struct {
		label string
		value string
	}{
		{"Languages", sk.Languages},
		{"AI/ML", sk.MLSkills},
		{"Frameworks", sk.Frameworks},
		{"Tools", sk.Tools},
		{"Databases", sk.Databases},
	}
	out := []SkillGroup{}
	for _, c := range cats {
		tags := SplitTags(c.value)
		if len(tags) == 0 {
			continue
		}
		out = append(out, SkillGroup{Label: c.label, Tags: tags})
	}
	return out
}

func header(p model.Profile) Header {
	pd := p.PersonalDetails
	h := Header{
		Name:     strings.TrimSpace(pd.FullName),
		Role:     strings.TrimSpace(p.TargetRole),
		Contacts: []Contact{},
	}
	fields := []struct {
		kind  ContactKind
		value string
		link  bool
	}{
		{ContactEmail, pd.Email, false},
		{ContactPhone, pd.Phone, false},
		{ContactLocation, pd.Location, false},
		{ContactLinkedIn, pd.LinkedIn, true},
		{ContactGitHub, pd.GitHub, true},
		{ContactPortfolio, pd.PortfolioLink, true},
	}
	for _, f := range fields {
		v := strings.TrimSpace(f.value)
		if v == "" {
			continue
		}
		c := Contact{Kind: f.kind, Value: v}
		if f.link {
			c.Href, c.Site = linkTarget(v)
		}
		h.Contacts = append(h.Contacts, c)
	}
	return h
}

// linkTarget derives an absolute URL and a short site label (eTLD+1) for a
// profile link. Bare handles without a dotted host get neither.
func linkTarget(v string) (href, site string) {
	candidate := v
	if !strings.HasPrefix(candidate, "http://") && !strings.HasPrefix(candidate, "https://") {
		candidate = "https://" + candidate
	}
	u, err := url.Parse(candidate)
	if err != nil {
		return "", ""
	}
	host := strings.ToLower(u.Hostname())
	if !strings.Contains(host, ".") {
		return "", ""
	}
	if etld, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		site = etld
	} else {
		site = strings.TrimPrefix(host, "www.")
	}
	return u.String(), site
}
