/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package narrative

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/humaidq/labwave/scoring"
)

// Environment variables read by ConfigFromEnv.
const (
	URLEnvVar   = "OLLAMA_URL"
	ModelEnvVar = "OLLAMA_MODEL"
)

// defaultTemperature keeps the narrative close to the data.
const defaultTemperature = 0.3

// Config holds the OpenAI-compatible model server configuration.
type Config struct {
	URL         string
	Model       string
	Temperature float64
}

// ConfigFromEnv loads the model server configuration from the environment.
func ConfigFromEnv() (*Config, error) {
	url := strings.TrimSpace(os.Getenv(URLEnvVar))
	model := strings.TrimSpace(os.Getenv(ModelEnvVar))

	if url == "" || model == "" {
		return nil, ErrConfigIncomplete
	}

	return &Config{
		URL:         url,
		Model:       model,
		Temperature: defaultTemperature,
	}, nil
}

const systemPrompt = `You write educational clinical laboratory reports.

RULES:
- Use ONLY the data present in the JSON.
- Never invent analytes, values, units or diagnoses.
- Write N/E wherever information is missing.
- Interpret for education only, never diagnose.
- Show a traffic light (green, yellow, red) per finding based on the flags already computed.
- Finish with 3-5 next steps and 4-6 personalised FAQ.
Use basic markdown (bold, lists, tables).`

var reportSections = []string{
	"Patient details",
	"Clinical urgency tier (U0-U3) with a brief explanation",
	"Executive summary: global health index, inflammation index, metabolic age",
	"Risk by organ system (N/E when missing)",
	"Highlighted findings with traffic lights and values",
	"General interpretation (no diagnosis)",
	"Next steps (3-5)",
	"FAQ (4-6)",
}

// BuildPrompt renders the user prompt for one report. The metrics are
// embedded as JSON and are the only data the model may use.
func BuildPrompt(m scoring.Metrics) (string, error) {
	payload, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode metrics: %w", err)
	}

	var sb strings.Builder

	sb.WriteString("Write a clinical laboratory report with these sections:\n\n")

	for i, section := range reportSections {
		fmt.Fprintf(&sb, "%d) %s\n", i+1, section)
	}

	if m.Indices.UrgencyTier != nil {
		fmt.Fprintf(&sb, "\nThe urgency tier %s means: %s.\n", *m.Indices.UrgencyTier, m.Indices.UrgencyTier.Description())
	}

	sb.WriteString("\nJSON (use ONLY this):\n")
	sb.Write(payload)
	sb.WriteString("\n")

	return sb.String(), nil
}
