/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"errors"
	htmltemplate "html/template"
	"net/http"
	"strings"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"

	"github.com/humaidq/labwave/labs"
)

var reportStyles = []labs.Style{labs.StyleAuto, labs.StyleTabular, labs.StyleNarrative}

// Index renders the report submission form.
func Index(t template.Template, data template.Data) {
	data["Styles"] = reportStyles
	t.HTML(http.StatusOK, "index")
}

// CreateReport scores the submitted report text and renders the result.
func CreateReport(c flamego.Context, s session.Session, a *Analyzer, t template.Template, data template.Data) {
	req := c.Request().Request
	req.Body = http.MaxBytesReader(c.ResponseWriter(), req.Body, maxReportBytes)

	if err := req.ParseForm(); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			logRejectedReport(c, errReportTooLarge.Error(), http.StatusSeeOther)
			SetErrorFlash(s, "The report text is larger than 1 MiB")
		} else {
			logRejectedReport(c, "invalid_form", http.StatusSeeOther, "error", err)
			SetErrorFlash(s, "Failed to parse form data")
		}

		c.Redirect("/", http.StatusSeeOther)

		return
	}

	text := strings.TrimSpace(req.Form.Get("text"))
	if text == "" {
		logRejectedReport(c, errEmptyReport.Error(), http.StatusSeeOther)
		SetErrorFlash(s, "Paste the text of a lab report first")
		c.Redirect("/", http.StatusSeeOther)

		return
	}

	style, err := labs.ParseStyle(req.Form.Get("style"))
	if err != nil {
		logRejectedReport(c, err.Error(), http.StatusSeeOther)
		SetErrorFlash(s, "Unknown report style")
		c.Redirect("/", http.StatusSeeOther)

		return
	}

	report := a.Analyze(text, style)

	chart, err := renderIndicesChart(report.Metrics)
	if err != nil {
		engineLogger.Error("failed to render indices chart", "report_id", report.ID.String(), "error", err)
	}

	data["Report"] = newReportView(report)
	data["Chart"] = htmltemplate.HTML(chart)
	data["Text"] = text
	data["NarrativeEnabled"] = a.Narrative != nil

	if len(report.Metrics.Observations) == 0 {
		data["Warning"] = "No results could be read from this text. Try forcing a different style."
	}

	t.HTML(http.StatusOK, "report")
}
