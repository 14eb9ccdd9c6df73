package mediaservice

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		err := r.ParseMultipartForm(32 << 20)
		assert.NoError(t, err)
		assert.Equal(t, "blogs", r.FormValue("folder"))

		file, header, err := r.FormFile("file")
		assert.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "cover.png", header.Filename)

		content, err := io.ReadAll(file)
		assert.NoError(t, err)
		assert.Equal(t, "fake image bytes", string(content))

		json.NewEncoder(w).Encode(map[string]string{"url": "https://cdn.example.com/blogs/cover.png"})
	}))
	defer srv.Close()

	s := NewMediaService(srv.URL, "test-key", "blogs")

	url, err := s.Upload(context.Background(), "cover.png", strings.NewReader("fake image bytes"))
	assert.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/blogs/cover.png", url)
}

func TestUploadErrors(t *testing.T) {
	testCases := []struct {
		name     string
		filename string
		handler  http.HandlerFunc
	}{
		{
			name:     "missing filename",
			filename: "",
		},
		{
			name:     "upstream failure",
			filename: "cover.png",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
		},
		{
			name:     "empty url",
			filename: "cover.png",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]string{"url": ""})
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			url := "http://localhost:0"
			if tc.handler != nil {
				srv := httptest.NewServer(tc.handler)
				defer srv.Close()
				url = srv.URL
			}

			s := NewMediaService(url, "test-key", "blogs")

			_, err := s.Upload(context.Background(), tc.filename, strings.NewReader("x"))
			assert.ErrorIs(t, err, ErrUploadFailed)
		})
	}
}
