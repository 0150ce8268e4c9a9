package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// HTTPClient talks to an Ollama-compatible generate endpoint. Transport and
// status errors are wrapped and propagated as-is; there is no retry here.
type HTTPClient struct {
	httpClient *http.Client
	baseURL    string
	model      string
	segments   SegmentSource
}

func NewHTTPClient(cfg Config, segments SegmentSource) *HTTPClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &HTTPClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		segments:   segments,
	}
}

type generateRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Images []string `json:"images,omitempty"`
	Stream bool     `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func (c *HTTPClient) Generate(ctx context.Context, p *Payload) (string, error) {
	if p == nil || p.VideoHandle == "" {
		return "", fmt.Errorf("no video handle in payload")
	}

	segs, err := c.segments.Get(ctx, p.VideoHandle)
	if err != nil {
		return "", fmt.Errorf("load video segments: %w", err)
	}
	if len(segs) == 0 {
		return "", fmt.Errorf("no stored payload for handle %s", p.VideoHandle)
	}

	images := make([]string, len(segs))
	for i, seg := range segs {
		images[i] = base64.StdEncoding.EncodeToString(seg)
	}

	reqBody := generateRequest{
		Model:  c.model,
		Prompt: renderPrompt(p),
		Images: images,
		Stream: false,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("model request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("model returned status %d", resp.StatusCode)
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	return genResp.Response, nil
}

func (c *HTTPClient) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

// renderPrompt flattens instruction, windowed history and the new prompt
// into the single text the generate endpoint expects.
func renderPrompt(p *Payload) string {
	var b strings.Builder
	b.WriteString(p.Instruction)
	b.WriteString("\n")

	if len(p.History) > 0 {
		b.WriteString("\nConversation so far:\n")
		for _, turn := range p.History {
			switch turn.Role {
			case "assistant":
				b.WriteString("Assistant: ")
			default:
				b.WriteString("User: ")
			}
			b.WriteString(turn.Content)
			b.WriteString("\n")
		}
	}

	b.WriteString("\nUser: ")
	b.WriteString(p.Prompt)
	return b.String()
}
