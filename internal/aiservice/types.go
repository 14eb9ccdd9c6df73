package aiservice

import "net/http"

// AIService drafts blog content by calling an external generation API.
type AIService struct {
	client *http.Client
	url    string
	key    string
}
