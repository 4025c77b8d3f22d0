package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bennypowers.dev/stylenorm/internal/log"
	"bennypowers.dev/stylenorm/internal/version"
	cli "github.com/urfave/cli/v3"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:            "stylenorm",
		Usage:           "normalizes nested style descriptions into flat rule trees and CSS",
		Version:         version.Get().String(),
		HideHelpCommand: true,
		Before:          initializeEnv,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "root", Aliases: []string{"C"}, Value: ".", Usage: "project `DIR` holding .config/stylenorm.yaml"},
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` instead of the project root"},
			&cli.StringFlag{Name: "log-level", Usage: "override the configured log `LEVEL` (debug, info, warn, error)"},
		},
		Commands: []*cli.Command{
			{
				Name:      "normalize",
				Usage:     "Prints the normalized rule trees as JSON",
				ArgsUsage: "[DOCUMENT...]",
				Action:    runNormalize,
			},
			{
				Name:      "build",
				Usage:     "Compiles documents to CSS",
				ArgsUsage: "[DOCUMENT...]",
				Action:    runBuild,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "write CSS to `FILE` (default: configured out, else STDOUT)"},
					&cli.BoolFlag{Name: "validate", Usage: "parse the emitted CSS and fail on syntax errors"},
				},
			},
			{
				Name:      "check",
				Usage:     "Compiles documents without writing output and reports problems",
				ArgsUsage: "[DOCUMENT...]",
				Action:    runCheck,
			},
			{
				Name:      "tree",
				Usage:     "Prints the normalized rules as a tree",
				ArgsUsage: "[DOCUMENT...]",
				Action:    runTree,
			},
			{
				Name:   "lsp",
				Usage:  "Runs the language server over stdio",
				Action: runLSP,
			},
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	var err error
	defer func() {
		stop()
		if err != nil {
			log.Error("%v", err)
			os.Exit(1)
		}
	}()
	err = newApp().Run(ctx, os.Args)
}

// usageError marks problems with the command line itself
func usageError(format string, args ...any) error {
	return fmt.Errorf("usage: "+format, args...)
}
