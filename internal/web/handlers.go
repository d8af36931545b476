package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/folio/internal/contact"
	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/store"
)

const (
	msgContactFailed = "Sorry, there was an error sending your message. Please try again later."
	msgContactSent   = "Thank you for your message! I'll get back to you soon."
)

func ok(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// sortedProjects lists projects featured first, newest first.
func (h *handler) sortedProjects(c *gin.Context) ([]content.Project, error) {
	projects, err := h.content.ListProjects(c.Request.Context())
	if err != nil {
		h.log.Error("list projects", slog.String("error", err.Error()))
		return nil, err
	}
	content.SortProjects(projects)
	return projects, nil
}

func (h *handler) index(c *gin.Context) {
	ctx := c.Request.Context()
	projects, err := h.sortedProjects(c)
	if err != nil {
		c.String(http.StatusInternalServerError, "Server Error")
		return
	}
	skills, err := h.content.ListSkills(ctx)
	if err != nil {
		h.log.Error("list skills", slog.String("error", err.Error()))
		c.String(http.StatusInternalServerError, "Server Error")
		return
	}
	featured, other := content.Split(projects)

	c.HTML(http.StatusOK, "index.html", gin.H{
		"heroTagline":  HeroTagline,
		"aboutMe":      AboutMe,
		"contactBlurb": ContactBlurb,
		"navLinks":     NavLinks,
		"featured":     featured,
		"other":        other,
		"skills":       skills,
		"ids": gin.H{
			"hero":    SectionHero,
			"about":   SectionAbout,
			"work":    SectionWork,
			"workEnd": WorkEndMarker,
			"contact": SectionContact,
		},
	})
}

// filterFromQuery reads the featured and tech query parameters. An
// unparseable featured value is ignored.
func filterFromQuery(c *gin.Context) content.Filter {
	var f content.Filter
	if v, present := c.GetQuery("featured"); present {
		if b, err := strconv.ParseBool(v); err == nil {
			f.Featured = &b
		}
	}
	f.Technology = c.Query("tech")
	return f
}

func (h *handler) projectsPartial(c *gin.Context) {
	projects, err := h.sortedProjects(c)
	if err != nil {
		c.String(http.StatusInternalServerError, "Server Error")
		return
	}
	c.HTML(http.StatusOK, "projects.html", filterFromQuery(c).Apply(projects))
}

func (h *handler) listProjects(c *gin.Context) {
	projects, err := h.sortedProjects(c)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to fetch projects")
		return
	}
	ok(c, http.StatusOK, filterFromQuery(c).Apply(projects))
}

func (h *handler) getProject(c *gin.Context) {
	p, err := h.content.GetProject(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, store.ErrNotFound):
		fail(c, http.StatusNotFound, "Project not found")
		return
	case err != nil:
		h.log.Error("get project", slog.String("id", c.Param("id")), slog.String("error", err.Error()))
		fail(c, http.StatusInternalServerError, "Failed to fetch project")
		return
	}
	ok(c, http.StatusOK, p)
}

func (h *handler) listSkills(c *gin.Context) {
	skills, err := h.content.ListSkills(c.Request.Context())
	if err != nil {
		h.log.Error("list skills", slog.String("error", err.Error()))
		fail(c, http.StatusInternalServerError, "Failed to fetch skills")
		return
	}
	ok(c, http.StatusOK, skills)
}

// HTMX Contact form endpoint - returns just the form HTML
func (h *handler) contactForm(c *gin.Context) {
	c.HTML(http.StatusOK, "contact.html", gin.H{
		"title": "Contact Me",
		"form":  contact.Form{},
	})
}

// Handle contact form submission with HTMX. Validation failures re-render
// the form with per-field messages.
func (h *handler) submitContactForm(c *gin.Context) {
	var f contact.Form
	if err := c.ShouldBind(&f); err != nil {
		c.HTML(http.StatusOK, "contact-error.html", gin.H{"error": msgContactFailed})
		return
	}

	_, err := h.contact.Submit(c.Request.Context(), f)
	if fields := contact.FieldErrors(err); fields != nil {
		f.Normalize()
		c.HTML(http.StatusOK, "contact.html", gin.H{
			"title":  "Contact Me",
			"form":   f,
			"errors": fields,
		})
		return
	}
	if err != nil {
		c.HTML(http.StatusOK, "contact-error.html", gin.H{"error": msgContactFailed})
		return
	}
	c.HTML(http.StatusOK, "contact-success.html", gin.H{"success": msgContactSent})
}

func (h *handler) submitContactJSON(c *gin.Context) {
	var f contact.Form
	if err := c.ShouldBindJSON(&f); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	m, err := h.contact.Submit(c.Request.Context(), f)
	if fields := contact.FieldErrors(err); fields != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Please correct the highlighted fields",
			"errors":  fields,
		})
		return
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, msgContactFailed)
		return
	}
	ok(c, http.StatusCreated, m)
}
