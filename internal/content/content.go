// Package content defines the portfolio's projects and skills.
package content

import (
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Technology is one entry in a project's tech stack.
type Technology struct {
	Name string `json:"name" yaml:"name"`
}

// Details is the long-form write-up shown for a project.
type Details struct {
	Problem    string   `json:"problem,omitempty" yaml:"problem"`
	Solution   string   `json:"solution,omitempty" yaml:"solution"`
	Challenges []string `json:"challenges" yaml:"challenges"`
}

// Project is a portfolio project.
type Project struct {
	ID           string       `json:"_id,omitempty" yaml:"-"`
	Title        string       `json:"title" yaml:"title"`
	Description  string       `json:"description" yaml:"description"`
	Featured     bool         `json:"featured" yaml:"featured"`
	ImageSrc     string       `json:"imageSrc" yaml:"image_src"`
	ImageSrc2    string       `json:"imageSrc2,omitempty" yaml:"image_src2"`
	Technologies []Technology `json:"technologies" yaml:"technologies"`
	GithubLink   string       `json:"githubLink,omitempty" yaml:"github_link"`
	LiveLink     string       `json:"liveLink,omitempty" yaml:"live_link"`
	Details      Details      `json:"details" yaml:"details"`
	CreatedAt    time.Time    `json:"createdAt,omitzero" yaml:"created_at"`
	UpdatedAt    time.Time    `json:"updatedAt,omitzero" yaml:"updated_at"`
}

// Normalize trims surrounding whitespace from every text field.
func (p *Project) Normalize() {
	p.Title = strings.TrimSpace(p.Title)
	p.Description = strings.TrimSpace(p.Description)
	p.ImageSrc = strings.TrimSpace(p.ImageSrc)
	p.ImageSrc2 = strings.TrimSpace(p.ImageSrc2)
	p.GithubLink = strings.TrimSpace(p.GithubLink)
	p.LiveLink = strings.TrimSpace(p.LiveLink)
	p.Details.Problem = strings.TrimSpace(p.Details.Problem)
	p.Details.Solution = strings.TrimSpace(p.Details.Solution)
	for i := range p.Technologies {
		p.Technologies[i].Name = strings.TrimSpace(p.Technologies[i].Name)
	}
	if p.Details.Challenges == nil {
		p.Details.Challenges = []string{}
	}
	if p.Technologies == nil {
		p.Technologies = []Technology{}
	}
}

// Validate validates the project.
func (p Project) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required.Error("Please provide a project title")),
		validation.Field(&p.Description, validation.Required.Error("Please provide a project description")),
		validation.Field(&p.Technologies),
	)
}

// Validate validates the technology.
func (t Technology) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Name, validation.Required.Error("Please provide a technology name")),
	)
}

// Uses reports whether the project lists technology name (case-insensitive).
func (p Project) Uses(name string) bool {
	for _, t := range p.Technologies {
		if strings.EqualFold(t.Name, name) {
			return true
		}
	}
	return false
}

// Skill is one skill badge.
type Skill struct {
	ID        string    `json:"_id,omitempty" yaml:"-"`
	Name      string    `json:"name" yaml:"name"`
	Icon      string    `json:"icon" yaml:"icon"`
	CreatedAt time.Time `json:"createdAt,omitzero" yaml:"-"`
}

// Normalize trims surrounding whitespace.
func (s *Skill) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Icon = strings.TrimSpace(s.Icon)
}

// Validate validates the skill.
func (s Skill) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Name, validation.Required.Error("Please provide a skill name")),
		validation.Field(&s.Icon, validation.Required.Error("Please provide an icon for the skill")),
	)
}

// SortProjects orders featured projects first, then newer before older when
// both have a creation time. Otherwise the input order is kept.
func SortProjects(projects []Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		a, b := projects[i], projects[j]
		if a.Featured != b.Featured {
			return a.Featured
		}
		if !a.CreatedAt.IsZero() && !b.CreatedAt.IsZero() {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return false
	})
}

// Filter narrows a project list. Zero value matches everything.
type Filter struct {
	Featured   *bool
	Technology string
}

// Apply returns the projects matching f, preserving order.
func (f Filter) Apply(projects []Project) []Project {
	out := make([]Project, 0, len(projects))
	for _, p := range projects {
		if f.Featured != nil && p.Featured != *f.Featured {
			continue
		}
		if f.Technology != "" && !p.Uses(f.Technology) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Split separates featured projects from the rest.
func Split(projects []Project) (featured, other []Project) {
	for _, p := range projects {
		if p.Featured {
			featured = append(featured, p)
		} else {
			other = append(other, p)
		}
	}
	return featured, other
}
