package wikitext

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// PageInfo is the caller-supplied metadata of the page being rendered.
type PageInfo struct {
	Slug     string   `json:"slug" yaml:"slug" validate:"required"`
	AltSlug  *string  `json:"alt_slug,omitempty" yaml:"alt_slug,omitempty"`
	Locale   string   `json:"locale" yaml:"locale" validate:"required"`
	Title    string   `json:"title" yaml:"title" validate:"required"`
	AltTitle *string  `json:"alt_title,omitempty" yaml:"alt_title,omitempty"`
	Score    float64  `json:"score" yaml:"score"`
	Tags     []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Language string   `json:"language" yaml:"language" validate:"required"`
}

// validate is safe for concurrent use and caches struct metadata.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks that all required fields are present.
// The returned error wraps ErrInvalidPageInfo.
func (p *PageInfo) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		missing := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			missing = append(missing, strings.ToLower(fe.Field()))
		}
		return fmt.Errorf("%w: missing %s", ErrInvalidPageInfo, strings.Join(missing, ", "))
	}
	return fmt.Errorf("%w: %v", ErrInvalidPageInfo, err)
}

// StringPtr returns a pointer to s, for the optional PageInfo fields.
func StringPtr(s string) *string {
	return &s
}

// placeholderPage stands in when a document is parsed without a page.
func placeholderPage() *PageInfo {
	return &PageInfo{
		Slug:     "untitled",
		Locale:   "C",
		Title:    "Untitled",
		Language: "default",
	}
}
