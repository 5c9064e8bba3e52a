package editor

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Widget constructors exposed by the client library.
const (
	WidgetEditor           = "Ajax.InPlaceEditor"
	WidgetCollectionEditor = "Ajax.InPlaceCollectionEditor"
)

const forgerySuffix = " + '&authenticity_token=' + encodeURIComponent(%s)"

// Entry is a single key of the configuration literal with its already
// rendered value.
type Entry struct {
	Key   string
	Value string
}

func (e Entry) String() string {
	return e.Key + ":" + e.Value
}

// Call is the translated widget constructor invocation.
type Call struct {
	Widget  string
	FieldID string
	URL     string
	Config  []Entry
}

// String renders the constructor call, omitting the configuration literal
// when it has no entries.
func (c Call) String() string {
	var builder strings.Builder
	builder.WriteString("new ")
	builder.WriteString(c.Widget)
	builder.WriteByte('(')
	builder.WriteString(quote(c.FieldID))
	builder.WriteString(", ")
	builder.WriteString(quote(c.URL))
	if len(c.Config) > 0 {
		builder.WriteString(", {")
		for idx, entry := range c.Config {
			if idx > 0 {
				builder.WriteString(", ")
			}
			builder.WriteString(entry.String())
		}
		builder.WriteByte('}')
	}
	builder.WriteByte(')')
	return builder.String()
}

// Lookup returns the rendered value for key.
func (c Call) Lookup(key string) (string, bool) {
	for _, entry := range c.Config {
		if entry.Key == key {
			return entry.Value, true
		}
	}
	return "", false
}

// Translate builds the widget call for fieldID. Options are copied before the
// forgery payload is appended, so translating the same input twice yields the
// same output.
func Translate(fieldID string, opts Options, env Env) (Call, error) {
	if opts.URL.IsZero() {
		return Call{}, invalidf("field %q has no url", fieldID)
	}
	opts = opts.Clone()
	resolver := env.resolver()

	target, err := resolver.URLFor(opts.URL)
	if err != nil {
		return Call{}, fmt.Errorf("editor: resolve url for %q: %w", fieldID, err)
	}

	call := Call{
		Widget:  WidgetEditor,
		FieldID: fieldID,
		URL:     target,
	}
	if opts.Collection != nil {
		call.Widget = WidgetCollectionEditor
	}

	if env.Forgery != nil {
		token, err := env.Forgery.Token()
		if err != nil {
			return Call{}, fmt.Errorf("editor: forgery token: %w", err)
		}
		if strings.TrimSpace(string(opts.With)) == "" {
			opts.With = DefaultWith
		}
		opts.With += JS(fmt.Sprintf(forgerySuffix, quote(token)))
	}

	b := &entryBuilder{resolver: resolver}
	b.quoted("cancelText", opts.CancelText)
	b.quoted("okText", opts.SaveText)
	b.quoted("loadingText", opts.LoadingText)
	b.quoted("savingText", opts.SavingText)
	b.number("rows", opts.Rows)
	b.number("cols", opts.Cols)
	b.number("size", opts.Size)
	b.quoted("externalControl", opts.ExternalControl)
	b.url("loadTextURL", opts.LoadTextURL)
	b.raw("ajaxOptions", opts.AjaxOptions)
	if opts.Script {
		b.add("htmlResponse", "false")
	}
	if opts.With != "" {
		b.add("callback", "function(form) { return "+string(opts.With)+" }")
	}
	b.quoted("clickToEditText", opts.ClickToEditText)
	b.quoted("textBetweenControls", opts.TextBetweenControls)

	b.raw("value", opts.Value)
	b.quoted("okControl", opts.SaveControl)
	b.quoted("cancelControl", opts.CancelControl)
	if opts.ExternalControlOnly {
		b.add("externalControlOnly", "true")
	}
	b.quoted("highlightcolor", opts.HighlightColor)
	b.quoted("highlightendcolor", opts.HighlightEndColor)
	b.quoted("savingClassName", opts.SavingClass)
	b.quoted("formClassName", opts.FormClass)
	b.quoted("hoverClassName", opts.HoverClass)

	b.raw("onComplete", opts.OnComplete)
	b.raw("onFailure", opts.OnFailure)

	if opts.Collection != nil {
		literal, err := collectionLiteral(opts.Collection)
		if err != nil {
			return Call{}, fmt.Errorf("editor: field %q: %w", fieldID, err)
		}
		b.add("collection", literal)
	}
	b.url("loadCollectionURL", opts.LoadCollectionURL)
	b.quoted("loadingCollectionText", opts.LoadCollectionText)
	b.quoted("loadingClassName", opts.LoadClass)

	if b.err != nil {
		return Call{}, fmt.Errorf("editor: field %q: %w", fieldID, b.err)
	}

	call.Config = b.sorted()
	return call, nil
}

// Expression translates and renders the call in one step.
func Expression(fieldID string, opts Options, env Env) (string, error) {
	call, err := Translate(fieldID, opts, env)
	if err != nil {
		return "", err
	}
	return call.String(), nil
}

type entryBuilder struct {
	resolver URLResolver
	entries  []Entry
	err      error
}

func (b *entryBuilder) add(key, value string) {
	b.entries = append(b.entries, Entry{Key: key, Value: value})
}

func (b *entryBuilder) quoted(key, value string) {
	if value == "" {
		return
	}
	b.add(key, quote(value))
}

func (b *entryBuilder) raw(key string, value JS) {
	if value == "" {
		return
	}
	b.add(key, string(value))
}

func (b *entryBuilder) number(key string, value *int) {
	if value == nil {
		return
	}
	b.add(key, strconv.Itoa(*value))
}

func (b *entryBuilder) url(key string, endpoint Endpoint) {
	if endpoint.IsZero() || b.err != nil {
		return
	}
	resolved, err := b.resolver.URLFor(endpoint)
	if err != nil {
		b.err = fmt.Errorf("resolve %s: %w", key, err)
		return
	}
	b.add(key, quote(resolved))
}

// sorted orders entries by their rendered key:value text, which is the order
// the widget helpers have always produced.
func (b *entryBuilder) sorted() []Entry {
	if len(b.entries) == 0 {
		return nil
	}
	out := append([]Entry(nil), b.entries...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out
}
