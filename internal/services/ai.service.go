package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"lumen/internal/metrics"
	"lumen/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/goccy/go-json"
)

// FraudRejectThreshold is the highest fraud score that still lets a booking through.
const FraudRejectThreshold = 60

const (
	AI_OPERATION_ANALYZE_ID    = "analyze_id"
	AI_OPERATION_BOOKING_FRAUD = "booking_fraud"
	AI_OPERATION_SENTIMENT     = "sentiment"
	AI_OPERATION_IOT_ANOMALY   = "iot_anomaly"
	AI_OPERATION_CHAT          = "chat"
)

// Score is a 0..100 risk score. It decodes from JSON numbers or numeric
// strings and clamps into range. The fraction is kept so the fraud gate
// compares the model's raw value.
type Score float64

func (s *Score) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		*s = 0
		return nil
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) {
		*s = 0
		return nil
	}

	*s = ClampScore(value)
	return nil
}

func ClampScore(value float64) Score {
	switch {
	case value < models.MinFraudScore:
		return models.MinFraudScore
	case value > models.MaxFraudScore:
		return models.MaxFraudScore
	}
	return Score(value)
}

// Int rounds the score for integer columns and response bodies.
func (s Score) Int() int {
	return int(math.Round(float64(s)))
}

type IDAnalysis struct {
	IsValid       bool   `json:"isValid"`
	ExtractedName string `json:"extractedName"`
	DOB           string `json:"dob,omitempty"`
	FraudScore    Score  `json:"fraudScore"`
	Reason        string `json:"reason"`
}

type FraudCheckInput struct {
	FormName        string `json:"formName"`
	FormEmail       string `json:"formEmail"`
	IDExtractedName string `json:"idExtractedName"`
	IDIsValid       bool   `json:"idIsValid"`
	CheckInDate     string `json:"checkInDate"`
}

type FraudAnalysis struct {
	FraudScore Score  `json:"fraudScore"`
	RiskLevel  string `json:"riskLevel"`
	Reason     string `json:"reason"`
}

// Blocked reports whether the score is above the rejection threshold.
func (f FraudAnalysis) Blocked() bool {
	return float64(f.FraudScore) > FraudRejectThreshold
}

type SentimentAnalysis struct {
	Sentiment string `json:"sentiment"`
	Priority  string `json:"priority"`
	Analysis  string `json:"analysis"`
}

// IsHighPriority is true only when the model explicitly asked for HIGH.
func (s SentimentAnalysis) IsHighPriority() bool {
	return strings.EqualFold(strings.TrimSpace(s.Priority), string(models.PriorityHigh))
}

type SensorReading struct {
	Time     string  `json:"time"`
	Value    float64 `json:"value"`
	Baseline float64 `json:"baseline,omitempty"`
}

type IoTPayload struct {
	Metric string          `json:"metric"`
	Data   []SensorReading `json:"data"`
}

type IoTAnalysis struct {
	AnomalyDetected bool   `json:"anomalyDetected"`
	Time            string `json:"time,omitempty"`
	Severity        string `json:"severity,omitempty"`
	Description     string `json:"description"`
	Recommendation  string `json:"recommendation,omitempty"`
}

type ConciergeReply struct {
	Reply string `json:"reply"`
}

func FallbackIDAnalysis() IDAnalysis {
	return IDAnalysis{IsValid: true, ExtractedName: "Demo User", FraudScore: 0, Reason: "AI Service Unavailable"}
}

func FallbackFraudAnalysis() FraudAnalysis {
	return FraudAnalysis{FraudScore: 0, RiskLevel: "LOW", Reason: "AI Check Skipped"}
}

func FallbackSentimentAnalysis() SentimentAnalysis {
	return SentimentAnalysis{Sentiment: "NEUTRAL", Priority: "NORMAL", Analysis: "AI Busy"}
}

func FallbackIoTAnalysis() IoTAnalysis {
	return IoTAnalysis{AnomalyDetected: false, Description: "Analysis unavailable"}
}

func FallbackConciergeReply() ConciergeReply {
	return ConciergeReply{Reply: "Our concierge is momentarily unavailable. Please contact the front desk."}
}

// AIGateway never returns errors; every operation degrades to a fixed fallback.
type AIGateway interface {
	AnalyzeID(ctx context.Context, image []byte, mimeType string) IDAnalysis
	CheckBookingFraud(ctx context.Context, input FraudCheckInput) FraudAnalysis
	AnalyzeSentiment(ctx context.Context, text string) SentimentAnalysis
	AnalyzeIoTData(ctx context.Context, payload IoTPayload) IoTAnalysis
	ChatWithConcierge(ctx context.Context, message, guestContext string) ConciergeReply
}

type AIService struct {
	gemini *GeminiService
	log    logger.Logger
}

func NewAIService(gemini *GeminiService) *AIService {
	return &AIService{
		gemini: gemini,
		log:    logger.New("AIService"),
	}
}

const analyzeIDPrompt = `Act as a security officer. Analyze this image of an ID card.
1. Extract the Name and Date of Birth.
2. Check for visual signs of forgery (blurry text, mismatched fonts).
3. Return a STRICT JSON object. Do not use Markdown.

JSON Format:
{
  "isValid": boolean,
  "extractedName": string,
  "dob": string,
  "fraudScore": number (0-100, where 100 is fake),
  "reason": string
}`

func (s *AIService) AnalyzeID(ctx context.Context, image []byte, mimeType string) IDAnalysis {
	return generateJSON(ctx, s, AI_OPERATION_ANALYZE_ID, FallbackIDAnalysis(),
		GeminiPart{Text: analyzeIDPrompt},
		GeminiPart{InlineData: &GeminiInlineData{
			MimeType: mimeType,
			Data:     base64.StdEncoding.EncodeToString(image),
		}},
	)
}

func (s *AIService) CheckBookingFraud(ctx context.Context, input FraudCheckInput) FraudAnalysis {
	data, err := json.Marshal(input)
	if err != nil {
		s.log.Function("CheckBookingFraud").Er("failed to marshal fraud context", err)
		metrics.AIRequestsTotal.WithLabelValues(AI_OPERATION_BOOKING_FRAUD, metrics.OutcomeFallback).Inc()
		return FallbackFraudAnalysis()
	}

	prompt := fmt.Sprintf(`Analyze this hotel booking for fraud risk.
Data: %s

Rules:
- Last minute bookings (same day) are slightly suspicious.
- A name on the form that does not match the name read from the ID is HIGH risk.
- An ID that failed validation is HIGH risk.
- Return STRICT JSON.

JSON Format:
{
  "fraudScore": number (0-100),
  "riskLevel": "LOW" | "MEDIUM" | "HIGH",
  "reason": string
}`, data)

	return generateJSON(ctx, s, AI_OPERATION_BOOKING_FRAUD, FallbackFraudAnalysis(), GeminiPart{Text: prompt})
}

func (s *AIService) AnalyzeSentiment(ctx context.Context, text string) SentimentAnalysis {
	prompt := fmt.Sprintf(`Analyze the sentiment of this hotel guest request: %q.

Rules:
- If the guest is angry, frustrated, or threatening, priority is 'HIGH'.
- If the guest is polite or neutral, priority is 'NORMAL'.
- If the guest is complimenting, priority is 'LOW'.

Return STRICT JSON:
{
  "sentiment": "POSITIVE" | "NEUTRAL" | "NEGATIVE",
  "priority": "HIGH" | "NORMAL" | "LOW",
  "analysis": "Short explanation of why"
}`, text)

	return generateJSON(ctx, s, AI_OPERATION_SENTIMENT, FallbackSentimentAnalysis(), GeminiPart{Text: prompt})
}

func (s *AIService) AnalyzeIoTData(ctx context.Context, payload IoTPayload) IoTAnalysis {
	data, err := json.Marshal(payload.Data)
	if err != nil {
		s.log.Function("AnalyzeIoTData").Er("failed to marshal sensor data", err)
		metrics.AIRequestsTotal.WithLabelValues(AI_OPERATION_IOT_ANOMALY, metrics.OutcomeFallback).Inc()
		return FallbackIoTAnalysis()
	}

	prompt := fmt.Sprintf(`You are a Hotel Facilities AI. Analyze this sensor data for a hotel room.

Metric: %s
Data: %s

Task:
1. Identify the specific hour of the anomaly.
2. Explain the physical cause based on the metric (e.g., "Burst Pipe" for Water, "Heater malfunction" for Temperature).
3. Assess severity.

Return STRICT JSON:
{
  "anomalyDetected": boolean,
  "time": string,
  "severity": "HIGH" | "MEDIUM",
  "description": string,
  "recommendation": string
}`, payload.Metric, data)

	return generateJSON(ctx, s, AI_OPERATION_IOT_ANOMALY, FallbackIoTAnalysis(), GeminiPart{Text: prompt})
}

func (s *AIService) ChatWithConcierge(ctx context.Context, message, guestContext string) ConciergeReply {
	if strings.TrimSpace(guestContext) == "" {
		guestContext = "No additional context."
	}

	prompt := fmt.Sprintf(`You are the concierge of Lumen Hotel. Answer the guest politely and briefly.
Only offer services a hotel front desk could arrange.

Guest context: %s
Guest message: %q

Return STRICT JSON:
{
  "reply": string
}`, guestContext, message)

	return generateJSON(ctx, s, AI_OPERATION_CHAT, FallbackConciergeReply(), GeminiPart{Text: prompt})
}

// StripCodeFences removes Markdown code fences the model sometimes wraps JSON in.
func StripCodeFences(text string) string {
	cleaned := strings.ReplaceAll(text, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}

func generateJSON[T any](
	ctx context.Context,
	s *AIService,
	operation string,
	fallback T,
	parts ...GeminiPart,
) T {
	log := s.log.TraceFromContext(ctx).Function("generateJSON")

	start := time.Now()
	defer func() {
		metrics.AIRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}()

	text, err := s.gemini.GenerateContent(ctx, parts...)
	if err != nil {
		log.Warn("AI request failed, using fallback", "operation", operation, "error", err)
		metrics.AIRequestsTotal.WithLabelValues(operation, metrics.OutcomeFallback).Inc()
		return fallback
	}

	var result T
	if err := json.Unmarshal([]byte(StripCodeFences(text)), &result); err != nil {
		log.Warn("AI returned malformed JSON, using fallback", "operation", operation, "error", err)
		metrics.AIRequestsTotal.WithLabelValues(operation, metrics.OutcomeFallback).Inc()
		return fallback
	}

	metrics.AIRequestsTotal.WithLabelValues(operation, metrics.OutcomeOK).Inc()
	return result
}
