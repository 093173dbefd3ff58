package matching

import (
	"strings"
	"unicode/utf8"

	"github.com/teamup-uiuc/teamup/pkg/tmerr"
)

const (
	MinTargetSize    = 1
	MaxTargetSize    = 10
	MaxTeamNameLen   = 128
	MaxTitleLen      = 128
	MaxContentLen    = 4000
	MaxCommentLen    = 2000
	DefaultListLimit = 50
)

// requireText trims s and checks it is non-empty and at most max characters.
func requireText(field, s string, max int) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", tmerr.Validation("%s cannot be empty", field)
	}

	if utf8.RuneCountInString(s) > max {
		return "", tmerr.Validation("%s cannot exceed %d characters", field, max)
	}

	return s, nil
}

func validateTargetSize(targetSize int) error {
	if targetSize < MinTargetSize || targetSize > MaxTargetSize {
		return tmerr.Validation("target size must be between %d and %d", MinTargetSize, MaxTargetSize)
	}

	return nil
}
