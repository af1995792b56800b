package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/igreview/internal/shared"
	"github.com/urfave/cli/v3"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Logger:     logger,
				Output:     output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})
	})

	t.Run("register returns serve and setup", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) != 2 {
			t.Fatalf("expected 2 commands, got %d", len(commands))
		}
		names := []string{commands[0].Name, commands[1].Name}
		if names[0] != "serve" || names[1] != "setup" {
			t.Errorf("expected serve and setup commands, got %v", names)
		}
	})

	t.Run("loadConfig", func(t *testing.T) {
		t.Run("prefers the injected config", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Server.Port = 9999
			runner := NewRunner(RunnerOpts{Config: config})

			if got := runner.loadConfig("nope.toml"); got.Server.Port != 9999 {
				t.Errorf("expected injected config, got port %d", got.Server.Port)
			}
		})

		t.Run("falls back to defaults for a missing file", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{ConfigPath: filepath.Join(t.TempDir(), "absent.toml")})

			config := runner.loadConfig("")
			if config == nil {
				t.Fatal("expected a config")
			}
			if config.Server.Port != 3000 {
				t.Errorf("expected default port 3000, got %d", config.Server.Port)
			}
		})

		t.Run("reads the config file", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := shared.CreateConfigFile(path); err != nil {
				t.Fatalf("failed to create config: %v", err)
			}

			runner := NewRunner(RunnerOpts{})
			config := runner.loadConfig(path)
			if config.Server.Host != "127.0.0.1" {
				t.Errorf("expected host from file, got %s", config.Server.Host)
			}
		})

		t.Run("environment overrides the file", func(t *testing.T) {
			t.Setenv("PORT", "8123")
			t.Setenv("IG_APP_ID", "env-app-id")

			runner := NewRunner(RunnerOpts{ConfigPath: filepath.Join(t.TempDir(), "absent.toml")})
			config := runner.loadConfig("")

			if config.Server.Port != 8123 {
				t.Errorf("expected PORT override, got %d", config.Server.Port)
			}
			if config.Credentials.Instagram.AppID != "env-app-id" {
				t.Errorf("expected IG_APP_ID override, got %s", config.Credentials.Instagram.AppID)
			}
		})
	})
}

func TestSetup(t *testing.T) {
	runSetup := func(runner *Runner, path string) error {
		app := &cli.Command{Name: "igreview", Commands: runner.register()}
		return app.Run(context.Background(), []string{"igreview", "setup", "--config", path})
	}

	t.Run("creates the config file and lists missing values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output, Logger: shared.NewLogger(output)})

		if err := runSetup(runner, path); err != nil {
			t.Fatalf("setup failed: %v", err)
		}

		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected config file to exist: %v", err)
		}
		if !strings.Contains(output.String(), "Still missing:") {
			t.Errorf("expected missing credential report, got %s", output.String())
		}
		if !strings.Contains(output.String(), "IG_APP_ID") {
			t.Errorf("expected placeholder app ID to be flagged, got %s", output.String())
		}
	})

	t.Run("leaves an existing config untouched", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("[server]\nport = 4444\n"), 0644); err != nil {
			t.Fatalf("failed to seed config: %v", err)
		}

		runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}, Logger: shared.NewLogger(&bytes.Buffer{})})
		if err := runSetup(runner, path); err != nil {
			t.Fatalf("setup failed: %v", err)
		}

		contents, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read config: %v", err)
		}
		if !strings.Contains(string(contents), "port = 4444") {
			t.Error("expected existing config to be preserved")
		}
	})
}
