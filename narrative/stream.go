/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package narrative

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/humaidq/labwave/logging"
	"github.com/humaidq/labwave/scoring"
)

var logger = logging.Logger(logging.SourceNarrative)

// streamTimeout bounds a whole streamed completion.
const streamTimeout = 300 * time.Second

// OpenAI-compatible request/response structures
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream,omitempty"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
	Delta   chatMessage `json:"delta,omitempty"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Stream asks the model server for a narrative of m and calls onChunk with
// each piece of text as it arrives. An error from onChunk stops the stream.
func Stream(ctx context.Context, cfg *Config, m scoring.Metrics, onChunk func(string) error) error {
	prompt, err := BuildPrompt(m)
	if err != nil {
		return err
	}

	return streamChatCompletion(ctx, cfg, systemPrompt, prompt, onChunk)
}

func streamChatCompletion(ctx context.Context, cfg *Config, system, user string, onChunk func(string) error) error {
	if cfg == nil || cfg.URL == "" || cfg.Model == "" {
		return ErrConfigIncomplete
	}

	reqBody := chatRequest{
		Model:       cfg.Model,
		Stream:      true,
		Temperature: cfg.Temperature,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := strings.TrimSuffix(cfg.URL, "/") + "/v1/chat/completions"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	client := &http.Client{Timeout: streamTimeout}

	started := time.Now()

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call model server: %w", err)
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Warn("Failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: %d: %s", errUpstreamStatus, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	events := 0
	reader := bufio.NewReader(resp.Body)

	for {
		line, readErr := reader.ReadBytes('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return fmt.Errorf("failed to read stream: %w", readErr)
		}

		done, err := handleEvent(strings.TrimSpace(string(line)), onChunk)
		if err != nil {
			return err
		}

		events++

		if done || errors.Is(readErr, io.EOF) {
			break
		}
	}

	logger.Debug("Narrative stream finished", "model", cfg.Model, "events", events, "duration", time.Since(started))

	return nil
}

// handleEvent processes one SSE line and reports whether the stream ended.
func handleEvent(line string, onChunk func(string) error) (bool, error) {
	// SSE format: "data: {...}"
	data, ok := strings.CutPrefix(line, "data:")
	if !ok {
		return false, nil
	}

	data = strings.TrimSpace(data)
	if data == "[DONE]" {
		return true, nil
	}

	var chatResp chatResponse
	if err := json.Unmarshal([]byte(data), &chatResp); err != nil {
		logger.Debug("Skipping malformed stream chunk", "error", err)
		return false, nil
	}

	if chatResp.Error != nil {
		return false, fmt.Errorf("%w: %s", errUpstreamMessage, chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return false, nil
	}

	content := chatResp.Choices[0].Delta.Content
	if content == "" {
		return false, nil
	}

	return false, onChunk(content)
}
