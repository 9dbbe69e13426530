package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"lumen/config"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
)

const (
	GEMINI_BREAKER_NAME          = "gemini"
	GEMINI_BREAKER_FAILURES      = 5
	GEMINI_BREAKER_OPEN_DURATION = 30 * time.Second
	GEMINI_ERROR_BODY_LIMIT      = 2048
)

var (
	ErrAIDisabled      = errors.New("ai client is not configured")
	ErrAIEmptyResponse = errors.New("ai response contained no text")
)

type GeminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type GeminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *GeminiInlineData `json:"inlineData,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []GeminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string `json:"responseMimeType"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GeminiService is a thin client for the generateContent REST endpoint.
type GeminiService struct {
	client  *http.Client
	baseURL string
	model   string
	apiKey  string
	breaker *gobreaker.CircuitBreaker[string]
	log     logger.Logger
}

func NewGeminiService(config config.Config) *GeminiService {
	log := logger.New("GeminiService")

	timeout := time.Duration(config.AITimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        GEMINI_BREAKER_NAME,
		MaxRequests: 1,
		Timeout:     GEMINI_BREAKER_OPEN_DURATION,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= GEMINI_BREAKER_FAILURES
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Function("OnStateChange").
				Warn("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})

	return &GeminiService{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(config.GeminiBaseURL, "/"),
		model:   config.GeminiModel,
		apiKey:  config.GeminiAPIKey,
		breaker: breaker,
		log:     log,
	}
}

func (s *GeminiService) Enabled() bool {
	return s.apiKey != ""
}

// GenerateContent sends a single user turn and returns the concatenated text
// of the first candidate.
func (s *GeminiService) GenerateContent(ctx context.Context, parts ...GeminiPart) (string, error) {
	if !s.Enabled() {
		return "", ErrAIDisabled
	}

	return s.breaker.Execute(func() (string, error) {
		return s.generate(ctx, parts)
	})
}

func (s *GeminiService) generate(ctx context.Context, parts []GeminiPart) (string, error) {
	log := s.log.TraceFromContext(ctx).Function("generate")

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: parts}},
		GenerationConfig: geminiGenerationConfig{
			ResponseMimeType: "application/json",
		},
	})
	if err != nil {
		return "", log.Err("failed to marshal gemini request", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", s.baseURL, s.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", log.Err("failed to create gemini request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", log.Err("failed to call gemini", err, "model", s.model)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, GEMINI_ERROR_BODY_LIMIT))
		return "", log.Error(
			"gemini returned non-success status",
			"status", resp.StatusCode,
			"body", string(snippet),
		)
	}

	var decoded geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", log.Err("failed to decode gemini response", err)
	}

	if len(decoded.Candidates) == 0 {
		return "", ErrAIEmptyResponse
	}

	var text strings.Builder
	for _, part := range decoded.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	if text.Len() == 0 {
		return "", ErrAIEmptyResponse
	}

	return text.String(), nil
}
