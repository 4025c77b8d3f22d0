package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"bennypowers.dev/stylenorm/internal/config"
	"bennypowers.dev/stylenorm/internal/log"
	cli "github.com/urfave/cli/v3"
)

type envKey struct{}

// env is the state shared by every command
type env struct {
	root string
	cfg  config.Config
}

func envFrom(ctx context.Context) *env {
	if e, ok := ctx.Value(envKey{}).(*env); ok {
		return e
	}
	return &env{root: ".", cfg: config.DefaultConfig()}
}

// initializeEnv loads configuration after the command line is parsed
func initializeEnv(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	root, err := filepath.Abs(cmd.String("root"))
	if err != nil {
		return ctx, fmt.Errorf("unable to resolve project root: %w", err)
	}

	e := &env{root: root}
	if file := cmd.String("config"); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return ctx, fmt.Errorf("unable to read configuration: %w", err)
		}
		if e.cfg, err = config.Parse(data, file); err != nil {
			return ctx, err
		}
	} else if e.cfg, _, err = config.Load(root); err != nil {
		return ctx, err
	}

	levelName := e.cfg.LogLevel
	if cmd.IsSet("log-level") {
		levelName = cmd.String("log-level")
	}
	level, err := log.ParseLevel(levelName)
	if err != nil {
		return ctx, usageError("%v", err)
	}
	log.SetLevel(level)

	return context.WithValue(ctx, envKey{}, e), nil
}

// documents returns the documents named on the command line, or the
// configured documents under the root when none are
func (e *env) documents(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	paths, err := e.cfg.Discover(e.root)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, usageError("no style documents found under %s", e.root)
	}
	return paths, nil
}
