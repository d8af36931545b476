// Package web serves the portfolio site and its JSON API.
package web

import (
	"context"
	"embed"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/folio/internal/contact"
	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/visitors"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// ContentSource reads portfolio content.
type ContentSource interface {
	ListProjects(ctx context.Context) ([]content.Project, error)
	GetProject(ctx context.Context, id string) (*content.Project, error)
	ListSkills(ctx context.Context) ([]content.Skill, error)
}

// Deps are the collaborators the router needs. Tracker and Ready are optional.
type Deps struct {
	Content ContentSource
	Contact *contact.Service
	Tracker *visitors.Tracker
	Ready   func(ctx context.Context) error
	Logger  *slog.Logger
}

type handler struct {
	content ContentSource
	contact *contact.Service
	ready   func(ctx context.Context) error
	log     *slog.Logger
}

// NewRouter builds the gin engine with every route mounted.
func NewRouter(d Deps) *gin.Engine {
	h := &handler{
		content: d.Content,
		contact: d.Contact,
		ready:   d.Ready,
		log:     d.Logger,
	}
	if h.log == nil {
		h.log = slog.Default()
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(h.log))
	if d.Tracker != nil {
		r.Use(d.Tracker.Middleware())
	}

	r.SetHTMLTemplate(template.Must(template.New("").Funcs(template.FuncMap{
		"markdown": content.RenderMarkdown,
	}).ParseFS(templateFS, "templates/*.html")))

	static, _ := fs.Sub(staticFS, "static")
	r.StaticFS("/static", http.FS(static))

	// Health check endpoints.
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", h.readyCheck)

	// Home page route
	r.GET("/", h.index)

	// HTMX partials
	r.GET("/partials/projects", h.projectsPartial)
	r.GET("/contact-form", h.contactForm)
	r.POST("/contact", h.submitContactForm)

	api := r.Group("/api")
	api.GET("/projects", h.listProjects)
	api.GET("/projects/:id", h.getProject)
	api.GET("/skills", h.listSkills)
	api.POST("/contact", h.submitContactJSON)

	return r
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)))
	}
}

func (h *handler) readyCheck(c *gin.Context) {
	if h.ready != nil {
		if err := h.ready(c.Request.Context()); err != nil {
			h.log.Warn("readiness check failed", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
