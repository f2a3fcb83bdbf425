package food

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"glucoguard/internal/habits"
)

// RemoteRecognizer delegates recognition to an analyze-food HTTP service.
type RemoteRecognizer struct {
	url        string
	httpClient *http.Client
}

// NewRemoteRecognizer creates a recognizer for the service at url.
func NewRemoteRecognizer(url string, timeout time.Duration) *RemoteRecognizer {
	return &RemoteRecognizer{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type remoteRequest struct {
	ImageBase64 string         `json:"imageBase64"`
	UserProfile ProfileSummary `json:"userProfile"`
}

type remoteResponse struct {
	Analysis
	Error string `json:"error,omitempty"`
}

func (r *RemoteRecognizer) Analyze(ctx context.Context, img Image, profile habits.Profile) (Analysis, error) {
	if len(img.Data) == 0 {
		return Analysis{}, ErrNoImage
	}

	body, err := json.Marshal(remoteRequest{
		ImageBase64: base64.StdEncoding.EncodeToString(img.Data),
		UserProfile: Summarize(profile),
	})
	if err != nil {
		return Analysis{}, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return Analysis{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return Analysis{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Analysis{}, fmt.Errorf("failed to read response: %w", err)
	}

	var decoded remoteResponse
	jsonErr := json.Unmarshal(raw, &decoded)

	if resp.StatusCode != http.StatusOK {
		if jsonErr == nil && decoded.Error != "" {
			return Analysis{}, fmt.Errorf("analyze-food error: status=%d: %s", resp.StatusCode, decoded.Error)
		}
		return Analysis{}, fmt.Errorf("analyze-food error: status=%d body=%s", resp.StatusCode, string(raw))
	}
	if jsonErr != nil {
		return Analysis{}, fmt.Errorf("failed to decode response: %w", jsonErr)
	}

	out := decoded.Analysis
	if !out.SugarLevel.Valid() {
		out.SugarLevel = SugarLevelFor(out.Nutrition.Sugar)
	}
	return out, nil
}
