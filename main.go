/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/humaidq/labwave/cmd"
	"github.com/humaidq/labwave/logging"
)

func main() {
	logging.Init()

	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:  "labwave",
		Usage: "Labwave - Lab report extraction and scoring",
		Commands: []*cli.Command{
			cmd.CmdAnalyze,
			cmd.CmdNarrate,
			cmd.CmdServe,
			cmd.CmdPolicy,
		},
	}

	return app.Run(ctx, os.Args)
}
