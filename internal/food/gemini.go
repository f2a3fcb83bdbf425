package food

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	"glucoguard/internal/habits"
	"glucoguard/internal/llm"
	"glucoguard/internal/shared"
)

const visionPrompt = `Identify this food item. Return ONLY a JSON object with these fields:
{
  "foodName": "name of the food",
  "estimatedCalories": number,
  "estimatedSugar": number (grams),
  "estimatedFat": number (grams),
  "servingSize": "description"
}
No markdown, no code blocks, just the JSON.`

const advisorPrompt = `You are a teen-friendly health advisor for a diabetes prevention app called GlucoGuard. Be encouraging, use emojis, keep language simple. Never diagnose. Focus on actionable advice.

A teen (age %d, BMI %s, family diabetes history: %s, daily sugar intake: %s) just scanned: %s (%g cal, %gg sugar, %gg fat).

Return ONLY a JSON object:
{
  "isGoodChoice": boolean,
  "explanation": "2-3 sentences why this is good or bad for them right now",
  "healthierSwap": "specific alternative food suggestion",
  "swapReason": "1 sentence why the swap is better",
  "tip": "one actionable health tip"
}
No markdown, no code blocks.`

// visionResult is the raw answer of the vision model.
type visionResult struct {
	FoodName          string   `json:"foodName"`
	EstimatedCalories float64  `json:"estimatedCalories"`
	EstimatedSugar    float64  `json:"estimatedSugar"`
	EstimatedFat      *float64 `json:"estimatedFat"`
	ServingSize       string   `json:"servingSize"`
}

func fallbackVision() visionResult {
	fat := 8.0
	return visionResult{FoodName: "Unknown Food", EstimatedCalories: 200, EstimatedSugar: 10, EstimatedFat: &fat, ServingSize: "1 serving"}
}

// ModelRecognizer identifies food with a vision model and asks a text
// model for advice. A failed vision call is an error; unreadable answers
// and advisor failures fall back to fixed defaults.
type ModelRecognizer struct {
	vision   llm.VisionGenerator
	advisor  llm.TextGenerator
	recorder Recorder
	logger   hclog.Logger
}

// NewModelRecognizer creates a recognizer. advisor and recorder may be nil.
func NewModelRecognizer(vision llm.VisionGenerator, advisor llm.TextGenerator, recorder Recorder, logger hclog.Logger) *ModelRecognizer {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &ModelRecognizer{vision: vision, advisor: advisor, recorder: recorder, logger: logger}
}

func (r *ModelRecognizer) Analyze(ctx context.Context, img Image, profile habits.Profile) (Analysis, error) {
	if len(img.Data) == 0 {
		return Analysis{}, ErrNoImage
	}

	start := time.Now()
	resp, err := r.vision.GenerateFromImage(ctx, visionPrompt, img.MimeType, img.Data)
	r.record("FoodVision", resp.Usage, time.Since(start), err)
	if err != nil {
		return Analysis{}, fmt.Errorf("food identification failed: %w", err)
	}

	info := fallbackVision()
	if err := json.Unmarshal([]byte(llm.ExtractJSON(resp.Content)), &info); err != nil || info.FoodName == "" {
		r.logger.Warn("unreadable vision answer, using fallback nutrition", "error", err)
		info = fallbackVision()
	}

	nutrition := Nutrition{
		Name:        info.FoodName,
		Calories:    max(0, info.EstimatedCalories),
		Sugar:       max(0, info.EstimatedSugar),
		Fat:         info.EstimatedFat,
		ServingSize: info.ServingSize,
	}
	if nutrition.ServingSize == "" {
		nutrition.ServingSize = "1 serving"
	}

	advice := r.advise(ctx, nutrition, profile)
	return Analysis{
		Nutrition:  nutrition,
		SugarLevel: SugarLevelFor(nutrition.Sugar),
		Advice:     &advice,
	}, nil
}

func (r *ModelRecognizer) advise(ctx context.Context, n Nutrition, p habits.Profile) Advice {
	if r.advisor == nil {
		return DefaultAdvice()
	}

	bmi := "unknown"
	if v, ok := p.BMI(); ok {
		bmi = fmt.Sprintf("%.1f", v)
	}
	family := "no"
	if p.FamilyDiabetesHistory {
		family = "yes"
	}
	fat := 0.0
	if n.Fat != nil {
		fat = *n.Fat
	}
	prompt := fmt.Sprintf(advisorPrompt, p.Age, bmi, family, p.DailySugar, n.Name, n.Calories, n.Sugar, fat)

	start := time.Now()
	resp, err := r.advisor.GenerateContent(ctx, prompt)
	r.record("FoodAdvisor", resp.Usage, time.Since(start), err)
	if err != nil {
		r.logger.Warn("advisor unavailable, using default advice", "error", err)
		return DefaultAdvice()
	}

	var advice Advice
	if err := json.Unmarshal([]byte(llm.ExtractJSON(resp.Content)), &advice); err != nil {
		r.logger.Warn("unreadable advisor answer, using default advice", "error", err)
		return DefaultAdvice()
	}
	return advice
}

func (r *ModelRecognizer) record(agent string, usage shared.TokenUsage, latency time.Duration, err error) {
	if r.recorder == nil {
		return
	}
	meta := shared.AgentMeta{AgentName: agent, Usage: usage, Latency: latency, Failed: err != nil}
	if rerr := r.recorder.RecordMeta(meta); rerr != nil {
		r.logger.Warn("failed to record metrics", "agent", agent, "error", rerr)
	}
}
