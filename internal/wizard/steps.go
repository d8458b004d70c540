package wizard

import (
	"fmt"
	"strings"

	"ai-folio/internal/model"
)

type Step int

const (
	StepPersonal Step = iota
	StepEducation
	StepRole
	StepSkills
	StepProjects
	StepExperience
	StepCertifications
	StepOutput
)

var stepNames = []string{
	"Personal Details",
	"Education",
	"Target Role",
	"Skills",
	"Projects",
	"Experience",
	"Certifications",
	"Choose Output",
}

// StepCount is the number of wizard steps.
var StepCount = len(stepNames)

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return fmt.Sprintf("Step(%d)", int(s))
	}
	return stepNames[s]
}

// StepNames lists the step titles in order.
func StepNames() []string {
	return append([]string{}, stepNames...)
}

// Missing returns the dotted paths of fields the given step marks as
// required but that are still blank. The result is a hint for the UI;
// nothing in the wizard refuses to advance because of it.
func Missing(p model.Profile, s Step) []string {
	missing := []string{}
	blank := func(v string) bool { return strings.TrimSpace(v) == "" }

	switch s {
	case StepPersonal:
		if blank(p.PersonalDetails.FullName) {
			missing = append(missing, "personalDetails.fullName")
		}
		if blank(p.PersonalDetails.Email) {
			missing = append(missing, "personalDetails.email")
		}
	case StepEducation:
		if blank(p.Education.Degree) {
			missing = append(missing, "education.degree")
		}
		if blank(p.Education.College) {
			missing = append(missing, "education.college")
		}
	}
	return missing
}
