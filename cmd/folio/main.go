package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/Zachkp/folio/internal"
	"github.com/Zachkp/folio/internal/scroll"
	"github.com/Zachkp/folio/internal/tui"
	pkgconfig "github.com/Zachkp/folio/pkg/config"
)

const recentMessages = 20

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.Root().String("config"), internal.EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func seed(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := internal.Seed(ctx, internal.WithConfig(cfg))
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	fmt.Printf("Seeded %d projects and %d skills from %s\n", len(s.Projects), len(s.Skills), cfg.Content.SeedPath)
	return nil
}

func stats(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	report, err := internal.Stats(ctx, recentMessages, internal.WithConfig(cfg))
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}

	if cmd.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	v := report.Visitors
	fmt.Printf("Visitors: %d total, %d unique, %d today, %d this week\n",
		v.TotalVisitors, v.UniqueVisitors, v.VisitorsToday, v.VisitorsThisWeek)
	if len(v.TopPaths) > 0 {
		fmt.Println("\nTop paths:")
		for _, p := range v.TopPaths {
			fmt.Printf("  %6d  %s\n", p.Visits, p.Path)
		}
	}
	if len(report.Messages) > 0 {
		fmt.Println("\nRecent messages:")
		for _, m := range report.Messages {
			status := "sent"
			if !m.Delivered {
				status = "NOT SENT"
			}
			fmt.Printf("  %s  %-8s  %s <%s>  %s\n",
				m.CreatedAt.Format("2006-01-02 15:04"), status, m.Name, m.Email, m.Subject)
		}
	}
	return nil
}

func browse(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// The terminal belongs to the UI, so logs go to a file or nowhere.
	var out io.Writer = io.Discard
	if path := cmd.String("log-file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))

	projects, skills, err := internal.LoadContent(ctx, internal.WithConfig(cfg), internal.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("load content: %w", err)
	}
	return tui.Run(ctx, tui.Content{Projects: projects, Skills: skills}, scroll.WithLogger(logger))
}

func main() {
	cmd := &cli.Command{
		Name:  "folio",
		Usage: "Personal portfolio site with a terminal browser",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("FOLIO_CONFIG_FILE"),
			},
		},
		DefaultCommand: "serve",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the web server",
				Action: serve,
			},
			{
				Name:   "seed",
				Usage:  "Replace stored projects and skills with the seed file",
				Action: seed,
			},
			{
				Name:   "stats",
				Usage:  "Print visitor statistics and recent contact messages",
				Action: stats,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Print as JSON"},
				},
			},
			{
				Name:   "browse",
				Usage:  "Browse the portfolio in the terminal",
				Action: browse,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "log-file", Usage: "Write debug logs to this file"},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
