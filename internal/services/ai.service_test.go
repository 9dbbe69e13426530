package services

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"lumen/config"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geminiReply(text string) string {
	body, _ := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"parts": []any{map[string]any{"text": text}},
				},
			},
		},
	})
	return string(body)
}

func newTestAIService(t *testing.T, handler http.HandlerFunc) *AIService {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	gemini := NewGeminiService(config.Config{
		GeminiAPIKey:     "test-key",
		GeminiModel:      "gemini-2.5-flash",
		GeminiBaseURL:    server.URL,
		AITimeoutSeconds: 2,
	})

	return NewAIService(gemini)
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain", input: `{"a":1}`, expected: `{"a":1}`},
		{name: "json fence", input: "```json\n{\"a\":1}\n```", expected: `{"a":1}`},
		{name: "bare fence", input: "```\n{\"a\":1}\n```  ", expected: `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripCodeFences(tt.input))
		})
	}
}

func TestScore_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Score
	}{
		{name: "integer", input: `{"fraudScore": 42}`, expected: 42},
		{name: "fraction kept", input: `{"fraudScore": 60.4}`, expected: 60.4},
		{name: "fractional string", input: `{"fraudScore": "72.5"}`, expected: 72.5},
		{name: "numeric string", input: `{"fraudScore": "75"}`, expected: 75},
		{name: "above range", input: `{"fraudScore": 250}`, expected: 100},
		{name: "below range", input: `{"fraudScore": -3}`, expected: 0},
		{name: "null", input: `{"fraudScore": null}`, expected: 0},
		{name: "garbage string", input: `{"fraudScore": "high"}`, expected: 0},
		{name: "missing", input: `{}`, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var analysis FraudAnalysis
			require.NoError(t, json.Unmarshal([]byte(tt.input), &analysis))
			assert.Equal(t, tt.expected, analysis.FraudScore)
		})
	}
}

func TestFraudAnalysis_Blocked(t *testing.T) {
	tests := []struct {
		name    string
		score   Score
		blocked bool
	}{
		{name: "zero", score: 0, blocked: false},
		{name: "threshold", score: 60.0, blocked: false},
		{name: "fraction above threshold", score: 60.4, blocked: true},
		{name: "integer above threshold", score: 61, blocked: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.blocked, FraudAnalysis{FraudScore: tt.score}.Blocked())
		})
	}
}

func TestFraudAnalysis_BlockedFromJSON(t *testing.T) {
	var analysis FraudAnalysis
	require.NoError(t, json.Unmarshal([]byte(`{"fraudScore": 60.4, "riskLevel": "MEDIUM"}`), &analysis))

	assert.True(t, analysis.Blocked())
	assert.Equal(t, 60, analysis.FraudScore.Int())
}

func TestScore_Int(t *testing.T) {
	assert.Equal(t, 60, Score(60.4).Int())
	assert.Equal(t, 61, Score(60.5).Int())
	assert.Equal(t, 100, Score(100).Int())
}

func TestSentimentAnalysis_IsHighPriority(t *testing.T) {
	assert.True(t, SentimentAnalysis{Priority: "HIGH"}.IsHighPriority())
	assert.True(t, SentimentAnalysis{Priority: " high "}.IsHighPriority())
	assert.False(t, SentimentAnalysis{Priority: "NORMAL"}.IsHighPriority())
	assert.False(t, SentimentAnalysis{}.IsHighPriority())
}

func TestAIService_AnalyzeID_SendsInlineImage(t *testing.T) {
	var captured map[string]any
	service := newTestAIService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-2.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))

		_, _ = io.WriteString(w, geminiReply("```json\n{\"isValid\":true,\"extractedName\":\"Ada Lovelace\",\"dob\":\"1815-12-10\",\"fraudScore\":12,\"reason\":\"Looks genuine\"}\n```"))
	})

	result := service.AnalyzeID(context.Background(), []byte{0x89, 0x50}, "image/png")

	assert.True(t, result.IsValid)
	assert.Equal(t, "Ada Lovelace", result.ExtractedName)
	assert.Equal(t, Score(12), result.FraudScore)

	contents := captured["contents"].([]any)
	parts := contents[0].(map[string]any)["parts"].([]any)
	require.Len(t, parts, 2)
	inline := parts[1].(map[string]any)["inlineData"].(map[string]any)
	assert.Equal(t, "image/png", inline["mimeType"])
	assert.Equal(t, "iVA=", inline["data"])
	generationConfig := captured["generationConfig"].(map[string]any)
	assert.Equal(t, "application/json", generationConfig["responseMimeType"])
}

func TestAIService_FallbacksOnFailure(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, geminiReply("I am not JSON"))
			},
		},
		{
			name: "no candidates",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `{"candidates":[]}`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestAIService(t, tt.handler)
			ctx := context.Background()

			assert.Equal(t, FallbackIDAnalysis(), service.AnalyzeID(ctx, []byte("img"), "image/jpeg"))
			assert.Equal(t, FallbackFraudAnalysis(), service.CheckBookingFraud(ctx, FraudCheckInput{FormName: "Ada"}))
			assert.Equal(t, FallbackSentimentAnalysis(), service.AnalyzeSentiment(ctx, "The shower is cold"))
			assert.Equal(t, FallbackIoTAnalysis(), service.AnalyzeIoTData(ctx, IoTPayload{Metric: "Water"}))
			assert.Equal(t, FallbackConciergeReply(), service.ChatWithConcierge(ctx, "Hi", ""))
		})
	}
}

func TestAIService_DisabledWithoutKey(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	service := NewAIService(NewGeminiService(config.Config{GeminiBaseURL: server.URL, GeminiModel: "m"}))

	assert.Equal(t, FallbackSentimentAnalysis(), service.AnalyzeSentiment(context.Background(), "hello there"))
	assert.Equal(t, int32(0), calls.Load())
}

func TestAIService_CheckBookingFraud_SendsContext(t *testing.T) {
	var prompt string
	service := newTestAIService(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		prompt = body.Contents[0].Parts[0].Text

		_, _ = io.WriteString(w, geminiReply(`{"fraudScore":"88","riskLevel":"HIGH","reason":"Name mismatch"}`))
	})

	result := service.CheckBookingFraud(context.Background(), FraudCheckInput{
		FormName:        "Eve",
		FormEmail:       "eve@example.com",
		IDExtractedName: "Mallory",
		IDIsValid:       true,
		CheckInDate:     "2026-01-10",
	})

	assert.Equal(t, Score(88), result.FraudScore)
	assert.True(t, result.Blocked())
	assert.True(t, strings.Contains(prompt, `"idExtractedName":"Mallory"`))
}

func TestGeminiService_CircuitOpensAfterConsecutiveFailures(t *testing.T) {
	var calls atomic.Int32
	service := newTestAIService(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	for i := 0; i < GEMINI_BREAKER_FAILURES+3; i++ {
		service.AnalyzeSentiment(context.Background(), "Where is my towel?")
	}

	assert.Equal(t, int32(GEMINI_BREAKER_FAILURES), calls.Load())
}
