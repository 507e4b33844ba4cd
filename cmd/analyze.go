/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/humaidq/labwave/narrative"
	"github.com/humaidq/labwave/scoring"
)

var (
	CmdAnalyze = analyzeCommand()
	CmdNarrate = narrateCommand()
	CmdPolicy  = policyCommand()
)

func analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Score a lab report and print the metrics as JSON",
		ArgsUsage: "[FILE|-]",
		Flags: append([]cli.Flag{
			styleFlag(),
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "indent the JSON output",
			},
		}, scoringFlags()...),
		Action: analyze,
	}
}

func narrateCommand() *cli.Command {
	return &cli.Command{
		Name:      "narrate",
		Usage:     "Score a lab report and stream a narrative from the model server",
		ArgsUsage: "FILE|-",
		Flags:     append([]cli.Flag{styleFlag()}, scoringFlags()...),
		Action:    narrate,
	}
}

func policyCommand() *cli.Command {
	return &cli.Command{
		Name:   "policy",
		Usage:  "Print the scoring policy as YAML",
		Flags:  scoringFlags()[:1],
		Action: printPolicy,
	}
}

func analyze(_ context.Context, cmd *cli.Command) error {
	m, err := scoreReport(cmd)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(output(cmd))
	if cmd.Bool("pretty") {
		enc.SetIndent("", "  ")
	}

	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}

	return nil
}

func narrate(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return errNarrateFileRequired
	}

	cfg, err := narrative.ConfigFromEnv()
	if err != nil {
		return err
	}

	m, err := scoreReport(cmd)
	if err != nil {
		return err
	}

	w := output(cmd)

	err = narrative.Stream(ctx, cfg, m, func(chunk string) error {
		_, err := io.WriteString(w, chunk)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to generate narrative: %w", err)
	}

	_, err = io.WriteString(w, "\n")

	return err
}

func printPolicy(_ context.Context, cmd *cli.Command) error {
	policy, err := loadPolicy(cmd)
	if err != nil {
		return err
	}

	content, err := policy.YAML()
	if err != nil {
		return err
	}

	_, err = output(cmd).Write(content)

	return err
}

func scoreReport(cmd *cli.Command) (scoring.Metrics, error) {
	opts, err := scoringOptions(cmd)
	if err != nil {
		return scoring.Metrics{}, err
	}

	text, err := readReport(cmd)
	if err != nil {
		return scoring.Metrics{}, err
	}

	started := time.Now()
	m := scoring.Assemble(text, opts)

	appLogger.Debug("report scored",
		"style", m.Style,
		"observations", len(m.Observations),
		"duration_ms", time.Since(started).Milliseconds(),
	)

	return m, nil
}
