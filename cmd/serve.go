package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/igreview/internal/server"
	"github.com/desertthunder/igreview/internal/services"
	"github.com/desertthunder/igreview/internal/tasks"
	"github.com/urfave/cli/v3"
)

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the login & publish web app",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (overrides config)",
			},
		},
		Action: r.Serve,
	}
}

// Serve wires the Instagram service, publish workflow and web server together
// and runs until the process is interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd.String("config"))
	if port := cmd.Int("port"); port != 0 {
		config.Server.Port = int(port)
	}

	// Missing credentials warn rather than abort: the app still serves its
	// pages so the home page can report what is unset.
	if missing := config.MissingCredentials(); len(missing) > 0 {
		r.logger.Warn("missing configuration, OAuth will fail until these are set",
			"missing", strings.Join(missing, ", "))
	}

	appID := config.Credentials.Instagram.AppID
	if appID == "" {
		appID = "unset"
	}
	appSecret := config.Credentials.Instagram.AppSecret
	if appSecret == "" {
		appSecret = "unset"
	}

	instagram, err := services.NewInstagramService(map[string]string{
		"app_id":       appID,
		"app_secret":   appSecret,
		"redirect_uri": strings.TrimRight(config.Credentials.Instagram.BaseURL, "/") + "/auth/callback",
	})
	if err != nil {
		return fmt.Errorf("failed to create Instagram service: %w", err)
	}

	engine := tasks.NewPublishEngine(instagram, r.logger)

	app, err := server.New(server.Options{
		Auth:      instagram,
		Comments:  instagram,
		Publisher: engine,
		Logger:    r.logger,
		Config:    config,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return app.Start(ctx)
}
