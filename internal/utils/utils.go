package utils

import (
	"mime"
	"regexp"
	"strings"
)

// textContentTypePatterns matches content types considered text-based:
// "text/*", JSON, and form-encoded bodies (the token endpoint speaks the latter).
//
//nolint:gochecknoglobals // Immutable, pre-compiled regex patterns used as constants.
var textContentTypePatterns = []*regexp.Regexp{
	regexp.MustCompile("^text/.+"),
	regexp.MustCompile("^application/json$"),
	regexp.MustCompile("^application/x-www-form-urlencoded$"),
}

// IsTextContentType checks if the given content type represents a text-based format.
// The charset, if present, must be either "utf-8" or "us-ascii".
func IsTextContentType(contentType string) bool {
	parsedType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	for _, pattern := range textContentTypePatterns {
		if !pattern.MatchString(parsedType) {
			continue
		}

		charset := strings.ToLower(params["charset"])

		return charset == "" || charset == "utf-8" || charset == "us-ascii"
	}

	return false
}
