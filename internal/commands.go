package internal

import (
	"context"
	"fmt"

	"github.com/Zachkp/folio/internal/contact"
	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/store"
	"github.com/Zachkp/folio/internal/visitors"
)

func openStore(opts []Option) (*application, *store.DB, error) {
	app, err := newApplication(opts)
	if err != nil {
		return nil, nil, err
	}
	db, err := store.Open(app.config.SQLite.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("init store: %w", err)
	}
	return app, db, nil
}

// Seed replaces the stored projects and skills with the configured seed file.
func Seed(ctx context.Context, opts ...Option) (*content.Seed, error) {
	app, db, err := openStore(opts)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return seedFrom(ctx, db, app.config.Content.SeedPath)
}

// Report is what `folio stats` prints.
type Report struct {
	Visitors *visitors.Stats   `json:"visitors"`
	Messages []contact.Message `json:"messages"`
}

// Stats collects visitor statistics and the latest contact messages.
func Stats(ctx context.Context, messages int, opts ...Option) (*Report, error) {
	app, db, err := openStore(opts)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	cfg := app.config
	tracker := visitors.NewTracker(db, cfg.Visitors.Salt, cfg.Visitors.Retention(), app.logger)
	stats, err := tracker.Stats(ctx)
	if err != nil {
		return nil, err
	}
	msgs, err := contact.NewStore(db).List(ctx, messages)
	if err != nil {
		return nil, err
	}
	return &Report{Visitors: stats, Messages: msgs}, nil
}

// LoadContent returns stored projects, sorted for display, and skills.
func LoadContent(ctx context.Context, opts ...Option) ([]content.Project, []content.Skill, error) {
	_, db, err := openStore(opts)
	if err != nil {
		return nil, nil, err
	}
	defer db.Close()

	projects, err := db.ListProjects(ctx)
	if err != nil {
		return nil, nil, err
	}
	content.SortProjects(projects)
	skills, err := db.ListSkills(ctx)
	if err != nil {
		return nil, nil, err
	}
	return projects, skills, nil
}
