package editor

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// DecodeOptions converts a loosely typed option map (snake_case keys, as found
// in preset files or request payloads) into Options. Unknown keys are ignored
// and nil values are treated as absent. A value of the wrong kind, such as a
// collection that is not a sequence, yields ErrInvalidConfiguration.
func DecodeOptions(raw map[string]any) (Options, error) {
	var opts Options
	if len(raw) == 0 {
		return opts, nil
	}

	d := decoder{raw: raw}
	opts.URL = d.endpoint("url")
	opts.CancelText = d.text("cancel_text")
	opts.SaveText = d.text("save_text")
	opts.LoadingText = d.text("loading_text")
	opts.SavingText = d.text("saving_text")
	opts.ClickToEditText = d.text("click_to_edit_text")
	opts.TextBetweenControls = d.text("text_between_controls")
	opts.Rows = d.number("rows")
	opts.Cols = d.number("cols")
	opts.Size = d.number("size")
	opts.ExternalControl = d.text("external_control")
	opts.LoadTextURL = d.endpoint("load_text_url")
	opts.AjaxOptions = d.ajaxOptions("options")
	opts.Script = d.flag("script")
	opts.With = JS(d.text("with"))
	opts.Value = d.snippet("value")
	opts.SaveControl = d.text("save_control")
	opts.CancelControl = d.text("cancel_control")
	opts.ExternalControlOnly = d.flag("external_control_only")
	opts.HighlightColor = d.text("highlight_color")
	opts.HighlightEndColor = d.text("highlight_end_color")
	opts.SavingClass = d.text("saving_class")
	opts.FormClass = d.text("form_class")
	opts.HoverClass = d.text("hover_class")
	opts.OnComplete = JS(d.text("oncomplete"))
	opts.OnFailure = JS(d.text("onfailure"))
	opts.Collection = d.collection("collection")
	opts.LoadCollectionURL = d.endpoint("load_collection_url")
	opts.LoadCollectionText = d.text("load_collection_text")
	opts.LoadClass = d.text("load_class")

	if d.err != nil {
		return Options{}, d.err
	}
	return opts, nil
}

type decoder struct {
	raw map[string]any
	err error
}

func (d *decoder) fail(key string, format string, args ...any) {
	if d.err != nil {
		return
	}
	d.err = invalidf("option %q: %s", key, fmt.Sprintf(format, args...))
}

func (d *decoder) lookup(key string) (any, bool) {
	if d.err != nil {
		return nil, false
	}
	value, ok := d.raw[key]
	if !ok || value == nil {
		return nil, false
	}
	return value, true
}

func (d *decoder) text(key string) string {
	value, ok := d.lookup(key)
	if !ok {
		return ""
	}
	text, ok := scalarText(value)
	if !ok {
		d.fail(key, "expected a string, got %T", value)
		return ""
	}
	return text
}

func (d *decoder) snippet(key string) JS {
	value, ok := d.lookup(key)
	if !ok {
		return ""
	}
	literal, err := jsonLiteral(value)
	if err != nil {
		d.fail(key, "expected a scalar, got %T", value)
		return ""
	}
	if s, isString := value.(string); isString {
		// Strings are already code.
		return JS(s)
	}
	return JS(literal)
}

func (d *decoder) number(key string) *int {
	value, ok := d.lookup(key)
	if !ok {
		return nil
	}
	switch v := value.(type) {
	case int:
		return Int(v)
	case int64:
		return Int(int(v))
	case uint64:
		return Int(int(v))
	case float64:
		if v != math.Trunc(v) {
			d.fail(key, "expected an integer, got %v", v)
			return nil
		}
		return Int(int(v))
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			d.fail(key, "expected an integer, got %q", v.String())
			return nil
		}
		return Int(int(n))
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			d.fail(key, "expected an integer, got %q", v)
			return nil
		}
		return Int(n)
	default:
		d.fail(key, "expected an integer, got %T", value)
		return nil
	}
}

// flag treats any present value as true except false, the empty string and
// strings that parse as false ("false", "0", "f").
func (d *decoder) flag(key string) bool {
	value, ok := d.lookup(key)
	if !ok {
		return false
	}
	switch v := value.(type) {
	case bool:
		return v
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return false
		}
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		return true
	default:
		return true
	}
}

func (d *decoder) endpoint(key string) Endpoint {
	value, ok := d.lookup(key)
	if !ok {
		return Endpoint{}
	}
	switch v := value.(type) {
	case string:
		return URL(v)
	case map[string]any:
		var e Endpoint
		for field, raw := range v {
			text, ok := scalarText(raw)
			switch field {
			case "url", "action", "id":
				if !ok {
					d.fail(key, "field %q must be a scalar", field)
					return Endpoint{}
				}
			}
			switch field {
			case "url":
				e.URL = text
			case "action":
				e.Action = text
			case "id":
				e.ID = text
			case "params":
				params, ok := raw.(map[string]any)
				if !ok {
					d.fail(key, "params must be a mapping, got %T", raw)
					return Endpoint{}
				}
				e.Params = make(map[string]string, len(params))
				for name, param := range params {
					text, ok := scalarText(param)
					if !ok {
						d.fail(key, "param %q must be a scalar", name)
						return Endpoint{}
					}
					e.Params[name] = text
				}
			}
		}
		return e
	default:
		d.fail(key, "expected a url string or route mapping, got %T", value)
		return Endpoint{}
	}
}

func (d *decoder) ajaxOptions(key string) JS {
	value, ok := d.lookup(key)
	if !ok {
		return ""
	}
	switch v := value.(type) {
	case string:
		return JS(v)
	case map[string]any:
		return JS(objectLiteral(v))
	default:
		d.fail(key, "expected a snippet or mapping, got %T", value)
		return ""
	}
}

func (d *decoder) collection(key string) *Collection {
	value, ok := d.lookup(key)
	if !ok {
		return nil
	}
	var items []any
	switch v := value.(type) {
	case []string:
		return Values(v...)
	case []any:
		items = v
	default:
		d.fail(key, "expected a sequence, got %T", value)
		return nil
	}

	out := &Collection{}
	for idx, item := range items {
		if pair, isPair := item.([]any); isPair {
			if len(out.Values) > 0 || len(pair) != 2 {
				d.fail(key, "item %d: expected [value, label] pairs", idx)
				return nil
			}
			literal, err := jsonLiteral(pair[0])
			if err != nil {
				d.fail(key, "item %d: %v", idx, err)
				return nil
			}
			label, ok := scalarText(pair[1])
			if !ok {
				d.fail(key, "item %d: label must be a scalar", idx)
				return nil
			}
			out.Choices = append(out.Choices, Choice{Value: JS(literal), Label: label})
			continue
		}
		text, ok := scalarText(item)
		if !ok || len(out.Choices) > 0 {
			d.fail(key, "item %d: mixes flat values with pairs or holds %T", idx, item)
			return nil
		}
		out.Values = append(out.Values, text)
	}
	return out
}

func scalarText(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case int, int64, uint64, json.Number:
		return fmt.Sprint(v), true
	case float64:
		return formatFloat(v), true
	default:
		return "", false
	}
}

// objectLiteral renders a pass-through mapping as a JavaScript object with
// keys sorted. Nested values are JSON encoded.
func objectLiteral(values map[string]any) string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		literal, err := jsonLiteral(values[key])
		if err != nil {
			payload, marshalErr := json.Marshal(values[key])
			if marshalErr != nil {
				continue
			}
			literal = string(payload)
		}
		parts = append(parts, key+":"+literal)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
