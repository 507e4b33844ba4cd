/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"bytes"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/humaidq/labwave/labs"
	"github.com/humaidq/labwave/scoring"
)

// notEvaluated is shown wherever a value could not be read or computed.
const notEvaluated = "N/E"

type patientView struct {
	Name string
	Age  string
	Sex  string
}

type kpiView struct {
	Label string
	Value string
	Hint  string
}

type observationRow struct {
	Key       string
	Value     string
	Unit      string
	Reference string
	Source    string
	Light     string
	FlagLabel string
}

type systemRow struct {
	Name   string
	Score  string
	Detail string
	Light  string
}

type reportView struct {
	ID           string
	CreatedAt    string
	Style        string
	Patient      patientView
	KPIs         []kpiView
	Urgency      string
	UrgencyLabel string
	UrgencyLight string
	Rows         []observationRow
	Systems      []systemRow
	RedFlags     []observationRow
}

var flagLabels = map[scoring.Flag]string{
	scoring.FlagInRange:       "In range",
	scoring.FlagMild:          "Mild deviation",
	scoring.FlagSevere:        "Severe deviation",
	scoring.FlagIndeterminate: "Not evaluable",
}

var systemLabels = map[string]string{
	"cardiometabolic":          "Cardiometabolic",
	"renal":                    "Renal",
	"hepatic":                  "Hepatic",
	"hematologic_inflammatory": "Hematologic / inflammatory",
}

func flagLight(f scoring.Flag) string {
	switch f {
	case scoring.FlagInRange:
		return "green"
	case scoring.FlagMild:
		return "yellow"
	case scoring.FlagSevere:
		return "red"
	default:
		return "grey"
	}
}

func urgencyLight(t *scoring.Tier) string {
	if t == nil {
		return "grey"
	}

	switch *t {
	case scoring.TierU0:
		return "green"
	case scoring.TierU1:
		return "yellow"
	default:
		return "red"
	}
}

func scoreLight(score *int) string {
	switch {
	case score == nil:
		return "grey"
	case *score >= 80:
		return "green"
	case *score >= 50:
		return "yellow"
	default:
		return "red"
	}
}

func formatInt(v *int) string {
	if v == nil {
		return notEvaluated
	}

	return strconv.Itoa(*v)
}

func formatFloat(v *float64) string {
	if v == nil {
		return notEvaluated
	}

	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatString(v *string) string {
	if v == nil || *v == "" {
		return notEvaluated
	}

	return *v
}

func referenceText(o labs.Observation) string {
	switch {
	case o.RefText != "":
		return o.RefText
	case o.RefLow != nil && o.RefHigh != nil:
		return formatFloat(o.RefLow) + " - " + formatFloat(o.RefHigh)
	case o.RefHigh != nil:
		return "< " + formatFloat(o.RefHigh)
	case o.RefLow != nil:
		return ">= " + formatFloat(o.RefLow)
	default:
		return notEvaluated
	}
}

func newReportView(r Report) reportView {
	m := r.Metrics

	view := reportView{
		ID:        r.ID.String(),
		CreatedAt: r.CreatedAt.Format("2006-01-02 15:04 MST"),
		Style:     string(m.Style),
		Patient: patientView{
			Name: formatString(m.Patient.Name),
			Age:  formatInt(m.Patient.Age),
			Sex:  formatString(m.Patient.Sex),
		},
		KPIs: []kpiView{
			{Label: "Global health", Value: formatInt(m.Indices.GlobalHealth), Hint: "0-100, higher is better"},
			{Label: "Inflammation", Value: formatInt(m.Indices.Inflammation), Hint: "0-100, lower is better"},
			{Label: "Metabolic age", Value: formatInt(m.Indices.MetabolicAge), Hint: "years"},
			{Label: "Red flags", Value: formatInt(m.Indices.RedFlagCount), Hint: "severe deviations"},
		},
		Urgency:      notEvaluated,
		UrgencyLabel: "not enough data",
		UrgencyLight: urgencyLight(m.Indices.UrgencyTier),
	}

	if tier := m.Indices.UrgencyTier; tier != nil {
		view.Urgency = string(*tier)
		view.UrgencyLabel = tier.Description()
	}

	for _, o := range m.Observations {
		row := observationRow{
			Key:       o.Key,
			Value:     formatFloat(o.Value),
			Unit:      o.Unit,
			Reference: referenceText(o.Observation),
			Source:    string(o.RefSource),
			Light:     flagLight(o.Flag),
			FlagLabel: flagLabels[o.Flag],
		}

		view.Rows = append(view.Rows, row)
		if o.Flag == scoring.FlagSevere {
			view.RedFlags = append(view.RedFlags, row)
		}
	}

	for _, s := range m.Systems {
		label, ok := systemLabels[s.System]
		if !ok {
			label = s.System
		}

		view.Systems = append(view.Systems, systemRow{
			Name:   label,
			Score:  formatInt(s.Score),
			Detail: strconv.Itoa(s.InRange) + "/" + strconv.Itoa(s.Evaluated) + " in range",
			Light:  scoreLight(s.Score),
		})
	}

	return view
}

// renderIndicesChart draws the 0-100 scores of a report as a bar chart. It
// returns an empty string when no score is available.
func renderIndicesChart(m scoring.Metrics) (string, error) {
	xAxis := make([]string, 0, 2+len(m.Systems))
	bars := make([]opts.BarData, 0, 2+len(m.Systems))

	add := func(label string, value *int, light string) {
		if value == nil {
			return
		}

		xAxis = append(xAxis, label)
		bars = append(bars, opts.BarData{
			Value:     *value,
			ItemStyle: &opts.ItemStyle{Color: chartColors[light]},
		})
	}

	add("Global health", m.Indices.GlobalHealth, scoreLight(m.Indices.GlobalHealth))
	add("Inflammation", m.Indices.Inflammation, inflammationLight(m.Indices.Inflammation))

	for _, s := range m.Systems {
		label, ok := systemLabels[s.System]
		if !ok {
			label = s.System
		}

		add(label, s.Score, scoreLight(s.Score))
	}

	if len(bars) == 0 {
		return "", nil
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:   "100%",
			Height:  "320px",
			ChartID: "report_indices",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: "Indices",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{
				Rotate:      20,
				HideOverlap: opts.Bool(true),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Min: 0,
			Max: 100,
		}),
	)

	bar.SetXAxis(xAxis).AddSeries("Score", bars)

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		return "", err
	}

	return buf.String(), nil
}

var chartColors = map[string]string{
	"green":  "#16a34a",
	"yellow": "#ca8a04",
	"red":    "#dc2626",
	"grey":   "#6b7280",
}

func inflammationLight(v *int) string {
	switch {
	case v == nil:
		return "grey"
	case *v >= 60:
		return "red"
	case *v >= 30:
		return "yellow"
	default:
		return "green"
	}
}
