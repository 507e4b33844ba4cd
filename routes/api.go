/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/flamego/flamego"

	"github.com/humaidq/labwave/labs"
	"github.com/humaidq/labwave/narrative"
)

// Healthz reports that the server is up.
func Healthz(c flamego.Context) {
	writeJSON(c, http.StatusOK, map[string]string{"status": "ok"})
}

// reportIDHeader carries the ID stamped on an API report.
const reportIDHeader = "X-Report-ID"

// APIMetrics scores a report sent as a text/plain body or as a "text" form
// field and answers with the metrics JSON. The style query parameter forces
// the extraction style.
func APIMetrics(c flamego.Context, a *Analyzer) {
	text, style, status, err := readReportRequest(c)
	if err != nil {
		logRejectedReport(c, err.Error(), status)
		writeJSON(c, status, map[string]string{"error": err.Error()})

		return
	}

	report := a.Analyze(text, style)
	c.ResponseWriter().Header().Set(reportIDHeader, report.ID.String())
	writeJSON(c, http.StatusOK, report.Metrics)
}

// APINarrative scores a report and streams a narrative for it with
// Server-Sent Events. SSE keeps data flowing, preventing reverse proxy
// timeouts during long generations.
func APINarrative(c flamego.Context, a *Analyzer) {
	if a.Narrative == nil {
		logRejectedReport(c, errNarrativeOff.Error(), http.StatusServiceUnavailable)
		writeJSON(c, http.StatusServiceUnavailable, map[string]string{"error": errNarrativeOff.Error()})

		return
	}

	text, style, status, err := readReportRequest(c)
	if err != nil {
		logRejectedReport(c, err.Error(), status)
		writeJSON(c, status, map[string]string{"error": err.Error()})

		return
	}

	report := a.Analyze(text, style)
	w := c.ResponseWriter()

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	sendEvent := func(event, data string) {
		if event != "" {
			_, _ = w.Write([]byte("event: " + event + "\n"))
		}
		// Escape newlines in data for SSE format
		escapedData := strings.ReplaceAll(data, "\n", "\ndata: ")
		_, _ = w.Write([]byte("data: " + escapedData + "\n\n"))

		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}
	}

	sendEvent("report", report.ID.String())

	err = narrative.Stream(c.Request().Context(), a.Narrative, report.Metrics, func(chunk string) error {
		sendEvent("chunk", chunk)
		return nil
	})
	if err != nil {
		engineLogger.Error("narrative generation failed", "report_id", report.ID.String(), "error", err)
		sendEvent("error", "Failed to generate narrative")

		return
	}

	sendEvent("done", "")
}

// readReportRequest extracts report text and style from an API request. The
// returned status is meaningful only with a non-nil error.
func readReportRequest(c flamego.Context) (string, labs.Style, int, error) {
	req := c.Request().Request
	req.Body = http.MaxBytesReader(c.ResponseWriter(), req.Body, maxReportBytes)

	style, err := labs.ParseStyle(req.URL.Query().Get("style"))
	if err != nil {
		return "", "", http.StatusBadRequest, err
	}

	mediaType := "text/plain"
	if ct := req.Header.Get("Content-Type"); ct != "" {
		if mediaType, _, err = mime.ParseMediaType(ct); err != nil {
			return "", "", http.StatusUnsupportedMediaType, errUnsupportedBody
		}
	}

	var text string

	switch mediaType {
	case "text/plain":
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return "", "", bodyErrorStatus(err), bodyError(err)
		}

		text = string(body)
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := parseForm(req, mediaType); err != nil {
			return "", "", bodyErrorStatus(err), bodyError(err)
		}

		text = req.FormValue("text")
		if s := req.FormValue("style"); s != "" {
			if style, err = labs.ParseStyle(s); err != nil {
				return "", "", http.StatusBadRequest, err
			}
		}
	default:
		return "", "", http.StatusUnsupportedMediaType, errUnsupportedBody
	}

	if strings.TrimSpace(text) == "" {
		return "", "", http.StatusBadRequest, errEmptyReport
	}

	return text, style, 0, nil
}

func parseForm(req *http.Request, mediaType string) error {
	if mediaType == "multipart/form-data" {
		return req.ParseMultipartForm(maxReportBytes)
	}

	return req.ParseForm()
}

func bodyErrorStatus(err error) int {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge
	}

	return http.StatusBadRequest
}

func bodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return errReportTooLarge
	}

	return err
}

func writeJSON(c flamego.Context, status int, v interface{}) {
	w := c.ResponseWriter()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		engineLogger.Error("failed to encode response", "error", err)
	}
}
