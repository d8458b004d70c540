// Package wizard holds the in-progress career profile while a user walks
// through the builder steps.
package wizard

import "ai-folio/internal/model"

// Wizard is not safe for concurrent use; callers serialize access per draft.
type Wizard struct {
	step    Step
	profile model.Profile
}

// New starts a wizard on the first step with an all-default profile.
func New() *Wizard {
	return &Wizard{profile: model.Defaults()}
}

// Restore resumes a wizard from a saved step and profile.
func Restore(step int, p model.Profile) *Wizard {
	w := &Wizard{profile: p.Clone()}
	if w.profile.Projects == nil {
		w.profile.Projects = []model.Project{}
	}
	if w.profile.Experiences == nil {
		w.profile.Experiences = []model.Experience{}
	}
	w.Goto(step)
	return w
}

// Profile returns a copy of the current state.
func (w *Wizard) Profile() model.Profile {
	return w.profile.Clone()
}

func (w *Wizard) Step() Step { return w.step }

// Update merges a partial profile into the current state.
func (w *Wizard) Update(p Patch) {
	p.PersonalDetails.apply(&w.profile.PersonalDetails)
	p.Education.apply(&w.profile.Education)
	p.Skills.apply(&w.profile.Skills)
	set(&w.profile.TargetRole, p.TargetRole)
	set(&w.profile.Certifications, p.Certifications)
	set(&w.profile.ResumeTemplate, p.ResumeTemplate)
	set(&w.profile.PortfolioTemplate, p.PortfolioTemplate)
	if p.DocumentType != nil {
		w.profile.DocumentType = *p.DocumentType
	}
	if p.Projects != nil {
		w.profile.Projects = append([]model.Project{}, (*p.Projects)...)
	}
	if p.Experiences != nil {
		w.profile.Experiences = append([]model.Experience{}, (*p.Experiences)...)
	}
	model.EnsureIDs(&w.profile)
}

// AddProject appends pr under a fresh id and returns that id.
func (w *Wizard) AddProject(pr model.Project) string {
	pr.ID = model.NewID()
	next := append(append([]model.Project{}, w.profile.Projects...), pr)
	w.Update(Patch{Projects: &next})
	return pr.ID
}

// UpdateProject applies fn to the project with the given id. It reports
// false when no project has that id.
func (w *Wizard) UpdateProject(id string, fn func(*model.Project)) bool {
	next := append([]model.Project{}, w.profile.Projects...)
	for i := range next {
		if next[i].ID == id {
			fn(&next[i])
			next[i].ID = id
			w.Update(Patch{Projects: &next})
			return true
		}
	}
	return false
}

// RemoveProject drops the project with the given id, reporting whether it existed.
func (w *Wizard) RemoveProject(id string) bool {
	next := make([]model.Project, 0, len(w.profile.Projects))
	for _, pr := range w.profile.Projects {
		if pr.ID != id {
			next = append(next, pr)
		}
	}
	if len(next) == len(w.profile.Projects) {
		return false
	}
	w.Update(Patch{Projects: &next})
	return true
}

// AddExperience appends ex under a fresh id and returns that id.
func (w *Wizard) AddExperience(ex model.Experience) string {
	ex.ID = model.NewID()
	next := append(append([]model.Experience{}, w.profile.Experiences...), ex)
	w.Update(Patch{Experiences: &next})
	return ex.ID
}

func (w *Wizard) UpdateExperience(id string, fn func(*model.Experience)) bool {
	next := append([]model.Experience{}, w.profile.Experiences...)
	for i := range next {
		if next[i].ID == id {
			fn(&next[i])
			next[i].ID = id
			w.Update(Patch{Experiences: &next})
			return true
		}
	}
	return false
}

func (w *Wizard) RemoveExperience(id string) bool {
	next := make([]model.Experience, 0, len(w.profile.Experiences))
	for _, ex := range w.profile.Experiences {
		if ex.ID != id {
			next = append(next, ex)
		}
	}
	if len(next) == len(w.profile.Experiences) {
		return false
	}
	w.Update(Patch{Experiences: &next})
	return true
}

// Next advances one step. Advancing is always allowed; the last step stays put.
func (w *Wizard) Next() { w.Goto(int(w.step) + 1) }

// Prev goes back one step, stopping at the first.
func (w *Wizard) Prev() { w.Goto(int(w.step) - 1) }

// Goto moves to step i, clamped to the valid range.
func (w *Wizard) Goto(i int) {
	switch {
	case i < 0:
		i = 0
	case i >= StepCount:
		i = StepCount - 1
	}
	w.step = Step(i)
}

// IsLast reports whether the wizard is on the output step, where saving happens.
func (w *Wizard) IsLast() bool { return int(w.step) == StepCount-1 }

// Progress is the completed fraction, counting the current step.
func (w *Wizard) Progress() float64 {
	return float64(w.step+1) / float64(StepCount)
}

// Missing lists advisory required fields for the current step.
func (w *Wizard) Missing() []string {
	return Missing(w.profile, w.step)
}
