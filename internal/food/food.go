// Package food turns a meal photo into a logged FoodEntry.
package food

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"glucoguard/internal/habits"
	"glucoguard/internal/shared"
)

// ErrNoImage is returned when a scan is requested without image bytes.
var ErrNoImage = errors.New("no image provided")

// SugarLevel classifies the sugar content of one food item.
type SugarLevel string

const (
	SugarSafe     SugarLevel = "safe"
	SugarModerate SugarLevel = "moderate"
	SugarHigh     SugarLevel = "high"
)

// Valid reports whether l is a known level.
func (l SugarLevel) Valid() bool {
	return l == SugarSafe || l == SugarModerate || l == SugarHigh
}

// SugarLevelFor buckets grams of sugar.
func SugarLevelFor(grams float64) SugarLevel {
	switch {
	case grams > 20:
		return SugarHigh
	case grams > 8:
		return SugarModerate
	default:
		return SugarSafe
	}
}

// Advice is the advisor's take on a scanned item.
type Advice struct {
	IsGoodChoice  bool   `json:"isGoodChoice"`
	Explanation   string `json:"explanation"`
	HealthierSwap string `json:"healthierSwap"`
	SwapReason    string `json:"swapReason"`
	Tip           string `json:"tip"`
}

// DefaultAdvice is used when the advisor is unavailable or unreadable.
func DefaultAdvice() Advice {
	return Advice{
		IsGoodChoice: true,
		Explanation:  "This food is okay in moderation!",
		Tip:          "Stay hydrated!",
	}
}

// FoodEntry is one item in the food log. Entries are never mutated once
// logged.
type FoodEntry struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Calories   float64    `json:"calories"`
	Sugar      float64    `json:"sugar"`
	Fat        *float64   `json:"fat,omitempty"`
	SugarLevel SugarLevel `json:"sugarLevel"`
	LoggedAt   time.Time  `json:"loggedAt"`
	Advice     *Advice    `json:"advice,omitempty"`
}

// Nutrition is the per-serving estimate for a recognized item.
type Nutrition struct {
	Name        string   `json:"name"`
	Calories    float64  `json:"calories"`
	Sugar       float64  `json:"sugar"`
	Fat         *float64 `json:"fat,omitempty"`
	ServingSize string   `json:"servingSize,omitempty"`
}

// Analysis is what a Recognizer returns for one photo.
type Analysis struct {
	Nutrition  Nutrition  `json:"nutrition"`
	SugarLevel SugarLevel `json:"sugarLevel"`
	Advice     *Advice    `json:"advice,omitempty"`
}

// Entry converts the analysis into a new log entry stamped at now.
func (a Analysis) Entry(now time.Time) FoodEntry {
	e := NewEntry(a.Nutrition.Name, a.Nutrition.Calories, a.Nutrition.Sugar, a.Nutrition.Fat, now)
	if a.SugarLevel.Valid() {
		e.SugarLevel = a.SugarLevel
	}
	if a.Advice != nil {
		advice := *a.Advice
		e.Advice = &advice
	}
	return e
}

// NewEntry builds an entry for a manually logged item. Negative amounts
// are clamped to zero.
func NewEntry(name string, calories, sugar float64, fat *float64, now time.Time) FoodEntry {
	if name == "" {
		name = "Unknown Food"
	}
	e := FoodEntry{
		ID:       newID(),
		Name:     name,
		Calories: max(0, calories),
		Sugar:    max(0, sugar),
		LoggedAt: now,
	}
	if fat != nil {
		f := max(0, *fat)
		e.Fat = &f
	}
	e.SugarLevel = SugarLevelFor(e.Sugar)
	return e
}

// newID returns a time-ordered identifier.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Image is a photo to analyze.
type Image struct {
	MimeType string
	Data     []byte
}

// ProfileSummary is the part of the profile the advisor sees.
type ProfileSummary struct {
	Age            int                `json:"age"`
	Height         float64            `json:"height"`
	Weight         float64            `json:"weight"`
	FamilyDiabetes bool               `json:"familyDiabetes"`
	DailySugar     habits.SugarIntake `json:"dailySugar"`
}

// Summarize extracts the advisor's view of p.
func Summarize(p habits.Profile) ProfileSummary {
	return ProfileSummary{
		Age:            p.Age,
		Height:         p.HeightCm,
		Weight:         p.WeightKg,
		FamilyDiabetes: p.FamilyDiabetesHistory,
		DailySugar:     p.DailySugar,
	}
}

// Recognizer identifies the food in a photo and advises on it.
type Recognizer interface {
	Analyze(ctx context.Context, img Image, profile habits.Profile) (Analysis, error)
}

// Recorder receives one execution record per model call.
type Recorder interface {
	RecordMeta(meta shared.AgentMeta) error
}
