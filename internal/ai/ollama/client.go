// Package ollama implements the ai.Generator contract against a local
// Ollama server's /api/generate endpoint.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	defaultHost  = "http://localhost:11434"
	defaultModel = "llama3.1:8b"

	generatePath = "/api/generate"
	tagsPath     = "/api/tags"
)

// Generator talks to a local Ollama instance.
type Generator struct {
	host       string
	modelName  string
	HTTPClient *http.Client
}

// New creates a generator for the given host and model, falling back to the
// standard local defaults when either is empty.
func New(host, model string) *Generator {
	if host = strings.TrimRight(strings.TrimSpace(host), "/"); host == "" {
		host = defaultHost
	}
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &Generator{
		host:      host,
		modelName: model,
		HTTPClient: &http.Client{
			// Local generation on CPU hardware is slow; anything beyond this
			// is treated as a failed provider.
			Timeout: 60 * time.Second,
		},
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// GenerateContent posts the prompt to /api/generate and returns the response
// text. A single attempt, no retries.
func (g *Generator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if g == nil {
		return "", errors.New("ollama generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	payload, err := json.Marshal(generateRequest{
		Model:  g.modelName,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.host+generatePath, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama: bad status: %s", resp.Status)
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode ollama response: %w", err)
	}

	output := strings.TrimSpace(decoded.Response)
	if output == "" {
		return "", errors.New("ollama returned empty response")
	}
	return output, nil
}

// Ping reports whether the Ollama server answers on /api/tags. Used to skip
// the provider early instead of waiting out a generation timeout.
func (g *Generator) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.host+tagsPath, nil)
	if err != nil {
		return err
	}

	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("ollama is not reachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama: bad status: %s", resp.Status)
	}
	return nil
}

func (g *Generator) Provider() string {
	return "ollama"
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.modelName
}
