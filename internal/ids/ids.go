// Package ids generates the storefront's record identifiers: a millisecond
// timestamp followed by a short random suffix, optionally prefixed by kind.
package ids

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const suffixLen = 9

// New returns "<prefix>-<ms>-<suffix>", e.g. "user-1735689600000-3f9a0c1b2".
func New(prefix string, now time.Time) string {
	return prefix + "-" + Plain(now)
}

// Plain returns "<ms>-<suffix>" for nested records such as addresses or messages.
func Plain(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + suffix()
}

// Stamped returns "<prefix>-<ms>" without a random part.
func Stamped(prefix string, now time.Time) string {
	return prefix + "-" + strconv.FormatInt(now.UnixMilli(), 10)
}

func suffix() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return raw[:suffixLen]
}
