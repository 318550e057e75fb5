// Package job loads job postings and derives their skill requirements.
package job

import (
	"strings"

	"github.com/hrkit/talentscout/internal/skills"
)

// Job is a single posting. SkillsRequired and SkillsPreferred are derived
// lists: they are filled either from the posting's explicit fields or by
// scanning the description, and are not authoritative.
type Job struct {
	Title           string   `json:"title" mapstructure:"title" validate:"required"`
	Company         string   `json:"company" mapstructure:"company"`
	Department      string   `json:"department,omitempty" mapstructure:"department"`
	Location        string   `json:"location,omitempty" mapstructure:"location"`
	ExperienceLevel string   `json:"experience_level,omitempty" mapstructure:"experience_level"`
	EmploymentType  string   `json:"employment_type,omitempty" mapstructure:"employment_type"`
	Description     string   `json:"description,omitempty" mapstructure:"description"`
	SkillsRequired  []string `json:"skills_required,omitempty" mapstructure:"-"`
	SkillsPreferred []string `json:"skills_preferred,omitempty" mapstructure:"-"`
	SalaryRange     string   `json:"salary_range,omitempty" mapstructure:"salary_range"`
	Benefits        string   `json:"benefits,omitempty" mapstructure:"benefits"`
	ReportingTo     string   `json:"reporting_to,omitempty" mapstructure:"reporting_to"`
	TeamSize        string   `json:"team_size,omitempty" mapstructure:"team_size"`
}

// AllSkills returns required plus preferred skills, required first.
func (j *Job) AllSkills() []string {
	out := make([]string, 0, len(j.SkillsRequired)+len(j.SkillsPreferred))
	out = append(out, j.SkillsRequired...)
	out = append(out, j.SkillsPreferred...)
	return out
}

// Jobs is an ordered collection of postings.
type Jobs struct {
	Items []*Job
}

func (j *Jobs) Len() int {
	return len(j.Items)
}

func (j *Jobs) FindByTitle(title string) *Job {
	for _, job := range j.Items {
		if strings.EqualFold(job.Title, title) {
			return job
		}
	}
	return nil
}

func (j *Jobs) Titles() []string {
	titles := make([]string, 0, len(j.Items))
	for _, job := range j.Items {
		titles = append(titles, job.Title)
	}
	return titles
}

// DeriveSkills fills the job's skill lists from its description when the
// posting declared none. Skills named in a "required" section go to
// SkillsRequired, a "preferred"/"bonus" section to SkillsPreferred; without
// such sections every vocabulary term found anywhere counts as required.
func (j *Job) DeriveSkills(extractor *skills.TermSet) {
	if len(j.SkillsRequired) > 0 || len(j.SkillsPreferred) > 0 {
		return
	}

	required, preferred := splitSections(j.Description)
	j.SkillsRequired = extractor.MatchedIn(required)

	for _, skill := range extractor.MatchedIn(preferred) {
		if !containsFold(j.SkillsRequired, skill) {
			j.SkillsPreferred = append(j.SkillsPreferred, skill)
		}
	}

	if len(j.SkillsRequired) == 0 && len(j.SkillsPreferred) == 0 {
		j.SkillsRequired = extractor.MatchedIn(j.Description)
	}
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
