package editor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var singleQuoteEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
	"\u2028", `\u2028`,
	"\u2029", `\u2029`,
)

// quote renders s as a single-quoted JavaScript string.
func quote(s string) string {
	return "'" + singleQuoteEscaper.Replace(s) + "'"
}

func jsonString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(true)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}

// jsonLiteral renders scalar values the way the collection payload has
// always been serialised: numbers and booleans bare, strings double quoted.
func jsonLiteral(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "null", nil
	case string:
		return jsonString(v), nil
	case JS:
		return string(v), nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(v), nil
	case float32:
		return formatFloat(float64(v)), nil
	case float64:
		return formatFloat(v), nil
	default:
		return "", fmt.Errorf("unsupported literal type %T", value)
	}
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func displayScalar(value any) string {
	if value == nil {
		return ""
	}
	return fmt.Sprint(value)
}

// collectionLiteral renders a flat collection as ["a", "b"] and a paired one
// as [[0, "No"], [1, "Yes"]].
func collectionLiteral(c *Collection) (string, error) {
	if len(c.Values) > 0 && len(c.Choices) > 0 {
		return "", invalidf("collection sets both values and choices")
	}

	parts := make([]string, 0, len(c.Values)+len(c.Choices))
	for _, value := range c.Values {
		parts = append(parts, jsonString(value))
	}
	for idx, choice := range c.Choices {
		raw := strings.TrimSpace(string(choice.Value))
		if raw == "" {
			return "", invalidf("collection choice %d has an empty value", idx)
		}
		parts = append(parts, "["+raw+", "+jsonString(choice.Label)+"]")
	}
	return "[" + strings.Join(parts, ", ") + "]", nil
}
