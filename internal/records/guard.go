package records

import (
	"mime"
	"path/filepath"
	"strings"
)

// FileGuard accepts files by extension or declared MIME type.
type FileGuard struct {
	Extensions []string
	MIMETypes  []string
}

// CSVGuard is shared by every list variant.
var CSVGuard = FileGuard{Extensions: []string{".csv"}, MIMETypes: []string{"text/csv"}}

// Allows reports whether either the name or the declared type is acceptable.
func (g FileGuard) Allows(name, contentType string) bool {
	ext := filepath.Ext(name)
	for _, e := range g.Extensions {
		if ext == e {
			return true
		}
	}
	if contentType == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt = strings.TrimSpace(contentType)
	}
	for _, m := range g.MIMETypes {
		if strings.EqualFold(mt, m) {
			return true
		}
	}
	return false
}
