package aiservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	ErrGenerationFailed = errors.New("content generation failed")
)

func NewAIService(url, key string) *AIService {
	return &AIService{
		client: &http.Client{Timeout: 30 * time.Second},
		url:    url,
		key:    key,
	}
}

// Generate asks the generation API for a blog body draft. Title and category
// are required; subtitle is optional extra context for the prompt.
func (s *AIService) Generate(ctx context.Context, title, category, subtitle string) (string, error) {
	if title == "" || category == "" {
		return "", fmt.Errorf("%w: title and category are required", ErrGenerationFailed)
	}

	prompt := fmt.Sprintf("Write a blog post titled %q for the %s category.", title, category)
	if subtitle != "" {
		prompt = fmt.Sprintf("%s The subtitle is %q.", prompt, subtitle)
	}

	body, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.key)

	res, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: unexpected status %d", ErrGenerationFailed, res.StatusCode)
	}

	var out struct {
		Content string `json:"content"`
	}
	err = json.NewDecoder(res.Body).Decode(&out)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	if out.Content == "" {
		return "", fmt.Errorf("%w: empty response", ErrGenerationFailed)
	}

	return out.Content, nil
}
