package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// HTTPScorer calls a remote scoring service: POST {BaseURL}/sentiment with
// {"text": ...}, expecting {"compound": <float>}.
type HTTPScorer struct {
	BaseURL string
	Client  *http.Client
}

type requestBody struct {
	Text string `json:"text"`
}

type responseBody struct {
	Compound float64 `json:"compound"`
}

func (h HTTPScorer) Score(ctx context.Context, text string) (float64, error) {
	if h.Client == nil {
		h.Client = &http.Client{Timeout: 15 * time.Second}
	}

	b, _ := json.Marshal(requestBody{Text: text})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.BaseURL+"/sentiment", bytes.NewBuffer(b))
	if err != nil {
		return 0, err
	}

	req.Header.Set("Content-Type", "application/json")
	resp, err := h.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, errors.New("sentiment service error")
	}

	var r responseBody
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return 0, err
	}
	return r.Compound, nil
}
