package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/aquarela/backend/internal/config"
)

// maxVisionResponseSize caps the API response body read into memory.
const maxVisionResponseSize = 1 * 1024 * 1024

// analysisPrompt demands a strict JSON reply; models still wrap it in code
// fences often enough that ExtractJSON has to peel them off.
const analysisPrompt = `Analisa esta pintura de aguarela como um especialista em arte. Responde APENAS em formato JSON válido, sem markdown, sem explicações extras:

{
  "description": "Descrição poética de 2-3 frases sobre a pintura, focando na técnica de aguarela, atmosfera e emoção transmitida",
  "keywords": ["5 a 8 palavras-chave em português que descrevam a obra"],
  "mood": "Uma palavra que capture a emoção principal (ex: sereno, vibrante, melancólico, luminoso)",
  "colors": ["lista das 3-5 cores dominantes em português"]
}`

var ErrVisionNotConfigured = errors.New("vision API key not configured")

// PaintingAnalysis is the structured result of one vision call.
type PaintingAnalysis struct {
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
	Mood        string   `json:"mood"`
	Colors      []string `json:"colors"`
}

// VisionService shapes a prompt for the vision-capable chat-completions API
// and parses its JSON reply. Every failure is returned as an error the caller
// is expected to treat as "no analysis available"; nothing here is fatal to
// an upload.
type VisionService struct {
	cfg        *config.Config
	httpClient *http.Client
}

func NewVisionService(cfg *config.Config) *VisionService {
	return &VisionService{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.VisionTimeout},
	}
}

// IsConfigured reports whether an API key is present.
func (s *VisionService) IsConfigured() bool {
	return s.cfg.VisionAPIKey != ""
}

type visionContent struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL *struct {
		URL string `json:"url"`
	} `json:"image_url,omitempty"`
}

type visionRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string          `json:"role"`
		Content []visionContent `json:"content"`
	} `json:"messages"`
	MaxTokens int `json:"max_tokens"`
}

type visionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// AnalyzePainting sends the image URL to the vision model and returns the
// parsed analysis.
func (s *VisionService) AnalyzePainting(ctx context.Context, imageURL string) (*PaintingAnalysis, error) {
	if !s.IsConfigured() {
		return nil, ErrVisionNotConfigured
	}

	reqBody := visionRequest{Model: s.cfg.VisionModel, MaxTokens: 500}
	reqBody.Messages = make([]struct {
		Role    string          `json:"role"`
		Content []visionContent `json:"content"`
	}, 1)
	reqBody.Messages[0].Role = "user"
	image := &struct {
		URL string `json:"url"`
	}{URL: imageURL}
	reqBody.Messages[0].Content = []visionContent{
		{Type: "text", Text: analysisPrompt},
		{Type: "image_url", ImageURL: image},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode vision request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.VisionAPIURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build vision request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.VisionAPIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vision API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxVisionResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read vision response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("vision API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed visionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode vision response: %w", err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return nil, errors.New("no content in vision response")
	}

	raw := ExtractJSON(parsed.Choices[0].Message.Content)
	if raw == "" {
		return nil, errors.New("no JSON object in vision response")
	}

	var analysis PaintingAnalysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse analysis JSON: %w", err)
	}
	if analysis.Description == "" {
		return nil, errors.New("vision analysis missing description")
	}
	return &analysis, nil
}

var (
	// jsonBlockPattern matches JSON inside markdown code blocks: ```json { ... } ```
	jsonBlockPattern = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(\\{.*\\})\\s*```")
	// jsonObjectPattern matches any JSON object (greedy fallback).
	jsonObjectPattern = regexp.MustCompile(`(?s)\{[\s\S]*\}`)
)

// ExtractJSON pulls a JSON object out of a model reply, stripping any
// surrounding markdown code-fence markup.
func ExtractJSON(content string) string {
	content = strings.TrimSpace(content)
	if matches := jsonBlockPattern.FindStringSubmatch(content); len(matches) > 1 {
		return matches[1]
	}
	if match := jsonObjectPattern.FindString(content); match != "" {
		return match
	}
	return ""
}
