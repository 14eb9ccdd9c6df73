package mediaservice

import "net/http"

// MediaService uploads blog images to the media endpoint and hands back the
// public CDN URL to store on the blog record.
type MediaService struct {
	client *http.Client
	url    string
	key    string
	folder string
}
