package risk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"glucoguard/internal/habits"
)

// ErrMalformedResponse is returned when the predictor answers 2xx with a
// body that cannot be turned into a DiabetesRisk.
var ErrMalformedResponse = errors.New("malformed risk predictor response")

// onboardingSugar approximates daily sugar servings from the onboarding
// answer when no habit sugar has been logged yet.
var onboardingSugar = map[habits.SugarIntake]int{
	habits.SugarLow:      2,
	habits.SugarModerate: 5,
	habits.SugarHigh:     8,
	habits.SugarVeryHigh: 10,
}

// defaultActivityMinutes stands in for an activity value nobody entered.
const defaultActivityMinutes = 30

// Request is the predictor's input document.
type Request struct {
	Age           int     `json:"age"`
	Weight        float64 `json:"weight"`
	Height        float64 `json:"height"`
	FamilyHistory bool    `json:"family_history"`
	SugarIntake   int     `json:"sugar_intake"`
	ActivityMins  int     `json:"activity_mins"`
	SleepHours    float64 `json:"sleep_hours"`
}

// NewRequest builds the predictor input from the current profile and habits.
func NewRequest(p habits.Profile, h habits.DailyHabits) Request {
	sugar := h.SugarItems + h.SugaryDrinks
	if sugar == 0 {
		sugar = onboardingSugar[p.DailySugar]
	}
	activity := h.ActivityMinutes
	if activity == 0 {
		activity = defaultActivityMinutes
	}
	return Request{
		Age:           p.Age,
		Weight:        p.WeightKg,
		Height:        p.HeightCm,
		FamilyHistory: p.FamilyDiabetesHistory,
		SugarIntake:   sugar,
		ActivityMins:  activity,
		SleepHours:    h.SleepHours,
	}
}

// Response is the predictor's output document.
type Response struct {
	Level            string   `json:"level"`
	CurrentRiskScore *float64 `json:"currentRiskScore"`
	FutureRiskScore  *float64 `json:"futureRiskScore,omitempty"`
	Message          string   `json:"message,omitempty"`
}

// ToRisk validates the response and converts it. The remote answer replaces
// the estimate wholesale; nothing from the local heuristic is kept.
func (r Response) ToRisk() (DiabetesRisk, error) {
	level := Level(r.Level)
	if !level.valid() {
		return DiabetesRisk{}, fmt.Errorf("%w: unknown level %q", ErrMalformedResponse, r.Level)
	}
	if r.CurrentRiskScore == nil {
		return DiabetesRisk{}, fmt.Errorf("%w: missing currentRiskScore", ErrMalformedResponse)
	}

	out := DiabetesRisk{
		Level:   level,
		Score:   clamp(int(math.Round(*r.CurrentRiskScore))),
		Factors: []string{},
	}
	if r.FutureRiskScore != nil {
		future := clamp(int(math.Round(*r.FutureRiskScore)))
		out.FutureScore = &future
	}
	if r.Message != "" {
		out.Factors = []string{r.Message}
	}
	return out, nil
}

// Predictor is anything that can produce a remote risk estimate.
type Predictor interface {
	Predict(ctx context.Context, req Request) (DiabetesRisk, error)
}

// Client calls the remote risk predictor over HTTP.
type Client struct {
	url        string
	secret     []byte
	httpClient *http.Client
}

// NewClient creates a predictor client. When secret is non-empty every
// request carries a short-lived HS256 bearer token.
func NewClient(url, secret string, timeout time.Duration) *Client {
	c := &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
	if secret != "" {
		c.secret = []byte(secret)
	}
	return c
}

// Predict posts req and decodes the predictor's answer.
func (c *Client) Predict(ctx context.Context, req Request) (DiabetesRisk, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return DiabetesRisk{}, fmt.Errorf("failed to marshal request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return DiabetesRisk{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	if c.secret != nil {
		token, err := c.createToken()
		if err != nil {
			return DiabetesRisk{}, fmt.Errorf("failed to create predictor token: %w", err)
		}
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return DiabetesRisk{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return DiabetesRisk{}, fmt.Errorf("risk predictor error: status=%d body=%s", resp.StatusCode, string(bodyBytes))
	}

	var decoded Response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return DiabetesRisk{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return decoded.ToRisk()
}

// createToken generates a short-lived JWT for the predictor.
func (c *Client) createToken() (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iat": now.Unix(),
		"exp": now.Add(5 * time.Minute).Unix(),
		"aud": "risk-predictor",
	})
	return token.SignedString(c.secret)
}
