package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML escapes text for element content and attribute values using the
// named &quot; entity, matching the markup the client widget has always
// received.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// DisplayText coerces an attribute value into the text shown to users. Nil
// renders as the empty string and entities render as their identifier.
func DisplayText(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case Entity:
		return v.Ref().ID
	case time.Time:
		return v.Format(time.RFC3339)
	case fmt.Stringer:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
