package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/scroll"
	"github.com/Zachkp/folio/internal/web"
)

// lineHeight converts terminal rows into the surface's offset units, so the
// controller's pixel-based thresholds keep their meaning.
const lineHeight = 16

// Content is what the browser renders.
type Content struct {
	Projects []content.Project
	Skills   []content.Skill
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	headingStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	featuredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	techStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("36"))
)

type block struct {
	id    string
	title string
	lines []string
}

// document is the page laid out as terminal lines.
type document struct {
	lines    []string
	titles   []string
	sections []scroll.SectionRect
	markers  map[string]float64
}

// layout renders c for a content area width columns wide. Every section
// except the work section is padded to at least viewport rows.
func layout(c Content, width, viewport int) *document {
	if width < 20 {
		width = 20
	}
	wrap := func(s string) []string {
		return strings.Split(lipgloss.NewStyle().Width(width).Render(s), "\n")
	}

	hero := block{id: web.SectionHero, title: "Home"}
	hero.lines = append(hero.lines, "", titleStyle.Render("Hi, I'm Zach."), "")
	hero.lines = append(hero.lines, wrap(web.HeroTagline)...)

	about := block{id: web.SectionAbout, title: "About"}
	about.lines = append(about.lines, headingStyle.Render("About Me"), "")
	about.lines = append(about.lines, wrap(strings.Join(strings.Fields(web.AboutMe), " "))...)
	if len(c.Skills) > 0 {
		names := make([]string, len(c.Skills))
		for i, s := range c.Skills {
			names[i] = s.Name
		}
		about.lines = append(about.lines, "", mutedStyle.Render("Skills"))
		about.lines = append(about.lines, wrap(techStyle.Render(strings.Join(names, " · ")))...)
	}

	work := block{id: web.SectionWork, title: "Projects"}
	work.lines = append(work.lines, headingStyle.Render("Projects"), "")
	for _, p := range c.Projects {
		work.lines = append(work.lines, projectLines(p, wrap)...)
	}
	if len(c.Projects) == 0 {
		work.lines = append(work.lines, mutedStyle.Render("No projects yet."), "")
	}

	contact := block{id: web.SectionContact, title: "Contact"}
	contact.lines = append(contact.lines, headingStyle.Render("Get In Touch"), "")
	contact.lines = append(contact.lines, wrap(strings.Join(strings.Fields(web.ContactBlurb), " "))...)
	contact.lines = append(contact.lines, "", mutedStyle.Render("Send a message at /contact on the web site."))

	d := &document{markers: map[string]float64{}}
	for _, b := range []block{hero, about, work, contact} {
		lines := b.lines
		if b.id == web.SectionWork {
			d.markers[web.WorkEndMarker] = float64(len(d.lines)+len(lines)) * lineHeight
			lines = append(lines, "")
		} else {
			for len(lines) < viewport {
				lines = append(lines, "")
			}
		}
		d.sections = append(d.sections, scroll.SectionRect{
			ID:     b.id,
			Top:    float64(len(d.lines)) * lineHeight,
			Height: float64(len(lines)) * lineHeight,
		})
		d.titles = append(d.titles, b.title)
		d.lines = append(d.lines, lines...)
	}
	return d
}

func projectLines(p content.Project, wrap func(string) []string) []string {
	title := lipgloss.NewStyle().Bold(true).Render(p.Title)
	if p.Featured {
		title += " " + featuredStyle.Render("★")
	}
	lines := []string{title}
	lines = append(lines, wrap(p.Description)...)
	if len(p.Technologies) > 0 {
		names := make([]string, len(p.Technologies))
		for i, t := range p.Technologies {
			names[i] = t.Name
		}
		lines = append(lines, techStyle.Render(strings.Join(names, ", ")))
	}
	for _, link := range []struct{ label, url string }{{"GitHub", p.GithubLink}, {"Live", p.LiveLink}} {
		if link.url != "" {
			lines = append(lines, mutedStyle.Render(fmt.Sprintf("%s: %s", link.label, link.url)))
		}
	}
	return append(lines, "")
}

// height returns the document height in offset units.
func (d *document) height() float64 {
	return float64(len(d.lines)) * lineHeight
}
