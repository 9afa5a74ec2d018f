package common

import (
	"strings"

	"github.com/google/uuid"
)

// NewLabel returns a debug label for a device object, made unique with a short UUID suffix.
// Labels show up in validation errors and GPU captures, so two bind groups built from the
// same layout remain distinguishable.
//
// Parameters:
//   - kind: a short description of the object (e.g. "bind-group", "texture")
//
// Returns:
//   - string: the label, formatted as "<kind>-<8 hex chars>"
func NewLabel(kind string) string {
	id := uuid.NewString()
	return kind + "-" + id[:8]
}

// LabelOr returns label when it is not blank, otherwise a freshly generated label for kind.
//
// Parameters:
//   - label: the caller-provided label
//   - kind: the fallback object kind
//
// Returns:
//   - string: the resolved label
func LabelOr(label, kind string) string {
	if strings.TrimSpace(label) != "" {
		return label
	}
	return NewLabel(kind)
}
