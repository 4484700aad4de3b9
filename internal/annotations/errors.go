package annotations

import (
	"fmt"
	"strings"
)

// SchemaError reports an annotation table that lacks required columns or is
// otherwise structurally malformed.
type SchemaError struct {
	Path    string
	Missing []string
	Reason  string
}

func (e *SchemaError) Error() string {
	subject := e.Path
	if subject == "" {
		subject = "annotation table"
	}
	if len(e.Missing) > 0 {
		return fmt.Sprintf("%s: missing required column(s) %s", subject, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("%s: %s", subject, e.Reason)
}
