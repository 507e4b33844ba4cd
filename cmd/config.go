/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/humaidq/labwave/labs"
	"github.com/humaidq/labwave/scoring"
)

const (
	policyEnvVar        = "LABWAVE_POLICY"
	catalogEnvVar       = "LABWAVE_CATALOG_RANGES"
	styleEnvVar         = "LABWAVE_STYLE"
	sessionSecretEnvVar = "LABWAVE_SESSION_SECRET"
	runtimeEnvVar       = "LABWAVE_ENV"
)

// scoringFlags are shared by every command that scores reports.
func scoringFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "policy",
			Sources: cli.EnvVars(policyEnvVar),
			Usage:   "YAML scoring policy overriding the reference values",
		},
		&cli.BoolFlag{
			Name:    "catalog-ranges",
			Sources: cli.EnvVars(catalogEnvVar),
			Usage:   "fill missing reference ranges from the built-in catalog",
		},
	}
}

func styleFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "style",
		Value:   string(labs.StyleAuto),
		Sources: cli.EnvVars(styleEnvVar),
		Usage:   "report style: auto, tabular or narrative",
	}
}

// loadPolicy returns the reference policy unless a policy file is set.
func loadPolicy(cmd *cli.Command) (*scoring.Policy, error) {
	path := cmd.String("policy")
	if path == "" {
		return scoring.DefaultPolicy(), nil
	}

	policy, err := scoring.LoadPolicy(path)
	if err != nil {
		return nil, err
	}

	appLogger.Info("loaded scoring policy", "path", path)

	return policy, nil
}

func loadCatalog(cmd *cli.Command) *labs.Catalog {
	if !cmd.Bool("catalog-ranges") {
		return nil
	}

	return labs.DefaultCatalog()
}

// scoringOptions builds engine options from the shared flags.
func scoringOptions(cmd *cli.Command) (scoring.Options, error) {
	style, err := labs.ParseStyle(cmd.String("style"))
	if err != nil {
		return scoring.Options{}, fmt.Errorf("invalid --style: %w", err)
	}

	policy, err := loadPolicy(cmd)
	if err != nil {
		return scoring.Options{}, err
	}

	return scoring.Options{
		Style:   style,
		Policy:  policy,
		Catalog: loadCatalog(cmd),
	}, nil
}

// readReport reads the report named by the only argument, or stdin when the
// argument is "-" or missing.
func readReport(cmd *cli.Command) (string, error) {
	if cmd.Args().Len() > 1 {
		return "", errTooManyArgs
	}

	name := cmd.Args().First()
	if name == "" || name == "-" {
		in := cmd.Root().Reader
		if in == nil {
			in = os.Stdin
		}

		content, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}

		return string(content), nil
	}

	content, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("failed to read report: %w", err)
	}

	return string(content), nil
}

func output(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}

	return os.Stdout
}
