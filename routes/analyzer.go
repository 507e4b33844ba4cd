/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"time"

	"github.com/google/uuid"

	"github.com/humaidq/labwave/labs"
	"github.com/humaidq/labwave/logging"
	"github.com/humaidq/labwave/narrative"
	"github.com/humaidq/labwave/scoring"
)

var engineLogger = logging.Logger(logging.SourceEngine)

// maxReportBytes caps request bodies holding report text.
const maxReportBytes = 1 << 20

// Analyzer carries the scoring configuration shared by all handlers. It is
// read-only after startup.
type Analyzer struct {
	Policy  *scoring.Policy
	Catalog *labs.Catalog
	// Narrative is nil when no model server is configured.
	Narrative *narrative.Config
}

// Report is one scored submission. Nothing about it is stored.
type Report struct {
	ID        uuid.UUID       `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Metrics   scoring.Metrics `json:"metrics"`
}

// NewAnalyzer returns an Analyzer using the reference policy when policy is nil.
func NewAnalyzer(policy *scoring.Policy, catalog *labs.Catalog, narrativeConfig *narrative.Config) *Analyzer {
	if policy == nil {
		policy = scoring.DefaultPolicy()
	}

	return &Analyzer{
		Policy:    policy,
		Catalog:   catalog,
		Narrative: narrativeConfig,
	}
}

// Analyze scores text and stamps the result with a fresh report ID.
func (a *Analyzer) Analyze(text string, style labs.Style) Report {
	started := time.Now()

	report := Report{
		ID:        uuid.New(),
		CreatedAt: started.UTC(),
		Metrics: scoring.Assemble(text, scoring.Options{
			Style:   style,
			Policy:  a.Policy,
			Catalog: a.Catalog,
		}),
	}

	fields := []interface{}{
		"report_id", report.ID.String(),
		"style", report.Metrics.Style,
		"observations", len(report.Metrics.Observations),
		"duration_ms", time.Since(started).Milliseconds(),
	}
	if tier := report.Metrics.Indices.UrgencyTier; tier != nil {
		fields = append(fields, "urgency", string(*tier))
	}

	engineLogger.Info("report analyzed", fields...)

	return report
}
