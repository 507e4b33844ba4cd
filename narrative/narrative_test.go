// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/humaidq/labwave/scoring"
)

const sampleReport = `Paciente: Juana Pérez Edad: 37 años Sexo: F
Colesterol Sérico 243 mg/dl 0 - 200
Glucosa 92 mg/dl 70 - 110
`

func sseServer(t *testing.T, lines ...string) (*httptest.Server, <-chan chatRequest) {
	t.Helper()

	received := make(chan chatRequest, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		var req chatRequest

		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &req)

		select {
		case received <- req:
		default:
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)

		for _, line := range lines {
			_, _ = w.Write([]byte(line + "\n"))
		}
	}))
	t.Cleanup(server.Close)

	return server, received
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv(URLEnvVar, "")
	t.Setenv(ModelEnvVar, "")

	if _, err := ConfigFromEnv(); !errors.Is(err, ErrConfigIncomplete) {
		t.Fatalf("expected ErrConfigIncomplete, got %v", err)
	}

	t.Setenv(URLEnvVar, "http://localhost:11434")
	t.Setenv(ModelEnvVar, "llama3")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv failed: %v", err)
	}

	if cfg.URL != "http://localhost:11434" || cfg.Model != "llama3" || cfg.Temperature != defaultTemperature {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestBuildPrompt(t *testing.T) {
	t.Parallel()

	prompt, err := BuildPrompt(scoring.Assemble(sampleReport, scoring.Options{}))
	if err != nil {
		t.Fatalf("BuildPrompt failed: %v", err)
	}

	for _, want := range []string{
		"1) Patient details",
		"8) FAQ (4-6)",
		"JSON (use ONLY this):",
		`"key": "Colesterol Sérico"`,
		`"flag": "severe_deviation"`,
		"The urgency tier U1 means: schedulable consult.",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("expected prompt to contain %q, got:\n%s", want, prompt)
		}
	}
}

func TestBuildPromptWithoutIndices(t *testing.T) {
	t.Parallel()

	prompt, err := BuildPrompt(scoring.Assemble("", scoring.Options{}))
	if err != nil {
		t.Fatalf("BuildPrompt failed: %v", err)
	}

	if strings.Contains(prompt, "The urgency tier") {
		t.Fatalf("expected no urgency explanation without a tier")
	}

	if !strings.Contains(prompt, `"urgency_tier": null`) {
		t.Fatalf("expected null urgency tier in JSON, got:\n%s", prompt)
	}
}

func TestStream(t *testing.T) {
	t.Parallel()

	server, received := sseServer(t,
		`data: {"choices":[{"delta":{"content":"Hello "}}]}`,
		``,
		`: keep-alive`,
		`data: not json`,
		`data: {"choices":[{"delta":{"content":"world"}}]}`,
		`data: [DONE]`,
		`data: {"choices":[{"delta":{"content":"ignored"}}]}`,
	)

	cfg := &Config{URL: server.URL + "/", Model: "test-model", Temperature: 0.3}

	var streamed strings.Builder
	if err := Stream(context.Background(), cfg, scoring.Assemble(sampleReport, scoring.Options{}), func(chunk string) error {
		streamed.WriteString(chunk)
		return nil
	}); err != nil {
		t.Fatalf("Stream failed: %v", err)
	}

	if streamed.String() != "Hello world" {
		t.Fatalf("expected streamed output, got %q", streamed.String())
	}

	req := <-received
	if req.Model != "test-model" || !req.Stream || len(req.Messages) != 2 {
		t.Fatalf("unexpected request %+v", req)
	}

	if req.Messages[0].Role != "system" || !strings.Contains(req.Messages[1].Content, "Colesterol Sérico") {
		t.Fatalf("expected system and user messages, got %+v", req.Messages)
	}
}

func TestStreamWithoutDoneMarker(t *testing.T) {
	t.Parallel()

	server, _ := sseServer(t, `data: {"choices":[{"delta":{"content":"partial"}}]}`)

	var streamed string
	if err := Stream(context.Background(), &Config{URL: server.URL, Model: "m"}, scoring.Metrics{}, func(chunk string) error {
		streamed += chunk
		return nil
	}); err != nil {
		t.Fatalf("Stream failed: %v", err)
	}

	if streamed != "partial" {
		t.Fatalf("expected partial output, got %q", streamed)
	}
}

func TestStreamErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing config", func(t *testing.T) {
		t.Parallel()

		err := Stream(context.Background(), nil, scoring.Metrics{}, func(string) error { return nil })
		if !errors.Is(err, ErrConfigIncomplete) {
			t.Fatalf("expected ErrConfigIncomplete, got %v", err)
		}
	})

	t.Run("upstream status", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "model not found", http.StatusNotFound)
		}))
		t.Cleanup(server.Close)

		err := Stream(context.Background(), &Config{URL: server.URL, Model: "m"}, scoring.Metrics{}, func(string) error { return nil })
		if !errors.Is(err, errUpstreamStatus) || !strings.Contains(err.Error(), "model not found") {
			t.Fatalf("expected upstream status error, got %v", err)
		}
	})

	t.Run("upstream error event", func(t *testing.T) {
		t.Parallel()

		server, _ := sseServer(t, `data: {"error":{"message":"overloaded"}}`)

		err := Stream(context.Background(), &Config{URL: server.URL, Model: "m"}, scoring.Metrics{}, func(string) error { return nil })
		if !errors.Is(err, errUpstreamMessage) {
			t.Fatalf("expected upstream message error, got %v", err)
		}
	})

	t.Run("callback error stops stream", func(t *testing.T) {
		t.Parallel()

		server, _ := sseServer(t,
			`data: {"choices":[{"delta":{"content":"a"}}]}`,
			`data: {"choices":[{"delta":{"content":"b"}}]}`,
		)

		stop := errors.New("client gone")
		calls := 0

		err := Stream(context.Background(), &Config{URL: server.URL, Model: "m"}, scoring.Metrics{}, func(string) error {
			calls++
			return stop
		})
		if !errors.Is(err, stop) || calls != 1 {
			t.Fatalf("expected callback error after one call, got %v after %d calls", err, calls)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		server, _ := sseServer(t, `data: [DONE]`)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := Stream(ctx, &Config{URL: server.URL, Model: "m"}, scoring.Metrics{}, func(string) error { return nil })
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	})
}
