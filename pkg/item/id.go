package item

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a fresh item id. Dashes are stripped so ids stay safe to
// embed in store keys that use `-` as a path separator.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
