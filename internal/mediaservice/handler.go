package mediaservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

var (
	ErrUploadFailed = errors.New("media upload failed")
)

func NewMediaService(url, key, folder string) *MediaService {
	return &MediaService{
		client: &http.Client{Timeout: 30 * time.Second},
		url:    url,
		key:    key,
		folder: folder,
	}
}

// Upload sends the file to the media endpoint as multipart form data and
// returns the hosted URL. The caller stores the URL on the blog record.
func (s *MediaService) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("%w: filename is required", ErrUploadFailed)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	_, err = io.Copy(part, r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	err = mw.WriteField("folder", s.folder)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	err = mw.Close()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, &buf)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.key)

	res, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("%w: unexpected status %d", ErrUploadFailed, res.StatusCode)
	}

	var out struct {
		URL string `json:"url"`
	}
	err = json.NewDecoder(res.Body).Decode(&out)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	if out.URL == "" {
		return "", fmt.Errorf("%w: empty url in response", ErrUploadFailed)
	}

	return out.URL, nil
}
