package middleware

import (
	"strings"

	"github.com/aegisproj/aegis/backend/internal/util"
)

// SanitizePath prepares a request path for safe logging by removing control
// characters, the query string, and truncating long values.
func SanitizePath(p string) string {
	if i := strings.Index(p, "?"); i != -1 {
		p = p[:i]
	}
	return util.Truncate(util.SanitizeForLog(p), 200)
}
