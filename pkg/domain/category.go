package domain

import dErrors "medgate/pkg/domain-errors"

// Category groups records for consent scoping (lab results, imaging, and so
// on). The set of categories is owned by the record-producing systems, so the
// core validates shape rather than enforcing an allowlist: a lowercase slug of
// letters, digits, and underscores.
type Category string

const maxCategoryLen = 64

// ParseCategory constructs a Category from external input.
//
// Errors: returns CodeInvalidInput when the value is empty, too long, or not
// a lowercase slug.
func ParseCategory(s string) (Category, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "category cannot be empty")
	}
	if len(s) > maxCategoryLen {
		return "", dErrors.New(dErrors.CodeInvalidInput, "category exceeds maximum length")
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_' {
			continue
		}
		return "", dErrors.New(dErrors.CodeInvalidInput, "category must be a lowercase slug")
	}
	return Category(s), nil
}

func (c Category) String() string { return string(c) }

// IsNil returns true when the category is unset.
func (c Category) IsNil() bool { return c == "" }
