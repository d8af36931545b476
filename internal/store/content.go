package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Zachkp/folio/internal/content"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const projectColumns = `id, title, description, featured, image_src, image_src2,
	github_link, live_link, problem, solution, created_at, updated_at`

// ListProjects returns every project in insertion order.
func (d *DB) ListProjects(ctx context.Context) ([]content.Project, error) {
	rows, err := d.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []content.Project
	index := map[string]int{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		index[p.ID] = len(projects)
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	techRows, err := d.QueryContext(ctx, `SELECT project_id, name FROM project_technologies ORDER BY project_id, position`)
	if err != nil {
		return nil, fmt.Errorf("list technologies: %w", err)
	}
	defer techRows.Close()
	for techRows.Next() {
		var id, name string
		if err := techRows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan technology: %w", err)
		}
		if i, ok := index[id]; ok {
			projects[i].Technologies = append(projects[i].Technologies, content.Technology{Name: name})
		}
	}
	if err := techRows.Err(); err != nil {
		return nil, fmt.Errorf("list technologies: %w", err)
	}

	chRows, err := d.QueryContext(ctx, `SELECT project_id, text FROM project_challenges ORDER BY project_id, position`)
	if err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}
	defer chRows.Close()
	for chRows.Next() {
		var id, text string
		if err := chRows.Scan(&id, &text); err != nil {
			return nil, fmt.Errorf("scan challenge: %w", err)
		}
		if i, ok := index[id]; ok {
			projects[i].Details.Challenges = append(projects[i].Details.Challenges, text)
		}
	}
	if err := chRows.Err(); err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}

	for i := range projects {
		projects[i].Normalize()
	}
	return projects, nil
}

// GetProject returns one project by id.
func (d *DB) GetProject(ctx context.Context, id string) (*content.Project, error) {
	row := d.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if p.Technologies, err = d.technologies(ctx, id); err != nil {
		return nil, err
	}
	if p.Details.Challenges, err = d.challenges(ctx, id); err != nil {
		return nil, err
	}
	p.Normalize()
	return &p, nil
}

func (d *DB) technologies(ctx context.Context, projectID string) ([]content.Technology, error) {
	rows, err := d.QueryContext(ctx, `SELECT name FROM project_technologies WHERE project_id = ? ORDER BY position`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list technologies: %w", err)
	}
	defer rows.Close()

	var out []content.Technology
	for rows.Next() {
		var t content.Technology
		if err := rows.Scan(&t.Name); err != nil {
			return nil, fmt.Errorf("scan technology: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (d *DB) challenges(ctx context.Context, projectID string) ([]string, error) {
	rows, err := d.QueryContext(ctx, `SELECT text FROM project_challenges WHERE project_id = ? ORDER BY position`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan challenge: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(s scanner) (content.Project, error) {
	var (
		p                content.Project
		featured         int
		created, updated string
	)
	err := s.Scan(&p.ID, &p.Title, &p.Description, &featured, &p.ImageSrc, &p.ImageSrc2,
		&p.GithubLink, &p.LiveLink, &p.Details.Problem, &p.Details.Solution, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, err
		}
		return p, fmt.Errorf("scan project: %w", err)
	}
	p.Featured = featured != 0
	if p.CreatedAt, err = ParseTime(created); err != nil {
		return p, err
	}
	if p.UpdatedAt, err = ParseTime(updated); err != nil {
		return p, err
	}
	return p, nil
}

// UpsertProject inserts p, or updates the project with the same title.
// The stored project is returned with its id and timestamps set.
func (d *DB) UpsertProject(ctx context.Context, p content.Project) (*content.Project, error) {
	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}

	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if err := upsertProject(ctx, tx, &p, time.Now()); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &p, nil
}

func upsertProject(ctx context.Context, q querier, p *content.Project, now time.Time) error {
	var existingID, existingCreated string
	err := q.QueryRowContext(ctx, `SELECT id, created_at FROM projects WHERE title = ?`, p.Title).
		Scan(&existingID, &existingCreated)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		p.ID = uuid.NewString()
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
	case err != nil:
		return fmt.Errorf("lookup project %q: %w", p.Title, err)
	default:
		p.ID = existingID
		if p.CreatedAt.IsZero() {
			if p.CreatedAt, err = ParseTime(existingCreated); err != nil {
				return err
			}
		}
	}
	if p.UpdatedAt.IsZero() || p.UpdatedAt.Before(p.CreatedAt) {
		p.UpdatedAt = now
	}

	featured := 0
	if p.Featured {
		featured = 1
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO projects (`+projectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			description = excluded.description,
			featured = excluded.featured,
			image_src = excluded.image_src,
			image_src2 = excluded.image_src2,
			github_link = excluded.github_link,
			live_link = excluded.live_link,
			problem = excluded.problem,
			solution = excluded.solution,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`,
		p.ID, p.Title, p.Description, featured, p.ImageSrc, p.ImageSrc2,
		p.GithubLink, p.LiveLink, p.Details.Problem, p.Details.Solution,
		FormatTime(p.CreatedAt), FormatTime(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("write project %q: %w", p.Title, err)
	}

	if _, err := q.ExecContext(ctx, `DELETE FROM project_technologies WHERE project_id = ?`, p.ID); err != nil {
		return fmt.Errorf("clear technologies: %w", err)
	}
	for i, t := range p.Technologies {
		if _, err := q.ExecContext(ctx,
			`INSERT INTO project_technologies (project_id, position, name) VALUES (?, ?, ?)`,
			p.ID, i, t.Name); err != nil {
			return fmt.Errorf("write technology: %w", err)
		}
	}

	if _, err := q.ExecContext(ctx, `DELETE FROM project_challenges WHERE project_id = ?`, p.ID); err != nil {
		return fmt.Errorf("clear challenges: %w", err)
	}
	for i, c := range p.Details.Challenges {
		if _, err := q.ExecContext(ctx,
			`INSERT INTO project_challenges (project_id, position, text) VALUES (?, ?, ?)`,
			p.ID, i, c); err != nil {
			return fmt.Errorf("write challenge: %w", err)
		}
	}
	return nil
}

// DeleteProject removes a project and its technologies and challenges.
func (d *DB) DeleteProject(ctx context.Context, id string) error {
	res, err := d.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListSkills returns every skill in insertion order.
func (d *DB) ListSkills(ctx context.Context) ([]content.Skill, error) {
	rows, err := d.QueryContext(ctx, `SELECT id, name, icon, created_at FROM skills ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	defer rows.Close()

	var skills []content.Skill
	for rows.Next() {
		var (
			s       content.Skill
			created string
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.Icon, &created); err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		if s.CreatedAt, err = ParseTime(created); err != nil {
			return nil, err
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

// UpsertSkill inserts s, or updates the icon of the skill with the same name.
func (d *DB) UpsertSkill(ctx context.Context, s content.Skill) (*content.Skill, error) {
	s.Normalize()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if err := upsertSkill(ctx, d, &s, time.Now()); err != nil {
		return nil, err
	}
	return &s, nil
}

func upsertSkill(ctx context.Context, q querier, s *content.Skill, now time.Time) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	var created string
	err := q.QueryRowContext(ctx, `
		INSERT INTO skills (id, name, icon, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET icon = excluded.icon
		RETURNING id, created_at`,
		uuid.NewString(), s.Name, s.Icon, FormatTime(s.CreatedAt)).
		Scan(&s.ID, &created)
	if err != nil {
		return fmt.Errorf("write skill %q: %w", s.Name, err)
	}
	s.CreatedAt, err = ParseTime(created)
	return err
}

// ReplaceContent swaps all projects and skills for the seed's in one
// transaction.
func (d *DB) ReplaceContent(ctx context.Context, seed *content.Seed) error {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM project_challenges`,
		`DELETE FROM project_technologies`,
		`DELETE FROM projects`,
		`DELETE FROM skills`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear content: %w", err)
		}
	}

	now := time.Now()
	for i := range seed.Projects {
		p := seed.Projects[i]
		if err := upsertProject(ctx, tx, &p, now); err != nil {
			return err
		}
	}
	for i := range seed.Skills {
		s := seed.Skills[i]
		if err := upsertSkill(ctx, tx, &s, now); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
