package blogservice

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inkpress/inkpress/internal/common"
)

func TestValidatePublishFields(t *testing.T) {
	full := Blog{
		Title:       "A Title",
		Subtitle:    "A Subtitle",
		Description: "<p>body</p>",
		Category:    "Technology",
		Image:       "https://cdn.example.com/img.webp",
		IsPublished: true,
	}

	testCases := []struct {
		name       string
		mutate     func(b *Blog)
		wantFields []string
	}{
		{
			name:       "published with all fields",
			mutate:     func(b *Blog) {},
			wantFields: nil,
		},
		{
			name: "draft needs only a title",
			mutate: func(b *Blog) {
				*b = Blog{Title: "Draft title", IsPublished: false}
			},
			wantFields: nil,
		},
		{
			name: "draft without title",
			mutate: func(b *Blog) {
				*b = Blog{IsPublished: false}
			},
			wantFields: []string{"title"},
		},
		{
			name: "publish without image",
			mutate: func(b *Blog) {
				b.Image = ""
			},
			wantFields: []string{"image"},
		},
		{
			name: "publish missing everything but title",
			mutate: func(b *Blog) {
				*b = Blog{Title: "Only title", IsPublished: true}
			},
			wantFields: []string{"subtitle", "description", "category", "image"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := full
			tc.mutate(&b)

			v := common.NewValidator()
			validatePublishFields(v, &b)

			if len(tc.wantFields) == 0 {
				assert.True(t, v.Valid())
				return
			}

			assert.False(t, v.Valid())
			for _, field := range tc.wantFields {
				assert.Contains(t, v.Errors, field)
			}
		})
	}
}
