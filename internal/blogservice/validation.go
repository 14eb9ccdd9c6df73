package blogservice

import (
	"github.com/inkpress/inkpress/internal/common"
)

func validateTitle(v *common.Validator, title string) {
	v.Check(title != "", "title", "must be provided")
	v.Check(v.CheckStringLength(title, 1, 200), "title", "must not be more than 200 characters long")
}

// validatePublishFields enforces the publish contract: a draft only needs a
// title, a published post needs every field including an image.
func validatePublishFields(v *common.Validator, b *Blog) {
	validateTitle(v, b.Title)

	if !b.IsPublished {
		return
	}

	v.Check(b.Subtitle != "", "subtitle", "must be provided to publish")
	v.Check(b.Description != "", "description", "must be provided to publish")
	v.Check(b.Category != "", "category", "must be provided to publish")
	v.Check(b.Image != "", "image", "must be provided to publish")
}

func validateInt(v *common.Validator, num int, name string) {
	v.Check(num > 0, name, "must be greater than zero")
}

func validateAuthor(v *common.Validator, email string) {
	v.Check(email != "", "author_email", "must be provided")
}
