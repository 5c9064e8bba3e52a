package field

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/goliatone/go-inplace/pkg/editor"
	"github.com/goliatone/go-inplace/pkg/model"
)

// Defaults applied when TagOptions leaves a value empty.
const (
	DefaultTag   = "span"
	DefaultClass = "in_place_editor_field"
	idSuffix     = "_in_place_editor"
)

var (
	// ErrUnknownAttribute is returned when the entity does not expose the
	// requested attribute.
	ErrUnknownAttribute = errors.New("field: unknown attribute")
	// ErrInvalidMarkup is returned for tag or attribute names that cannot be
	// rendered safely.
	ErrInvalidMarkup = errors.New("field: invalid markup")

	namePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_:.-]*$`)
)

// TagOptions controls the element wrapping the displayed value.
type TagOptions struct {
	// Tag is the element name. Defaults to span.
	Tag string
	// ID overrides <type>_<attribute>_<id>_in_place_editor.
	ID string
	// Class overrides in_place_editor_field.
	Class string
	// Display replaces the attribute value as the shown text. It is escaped.
	Display string
	// DisplayHTML replaces the attribute value with markup that is sanitised
	// rather than escaped. Display wins when both are set.
	DisplayHTML string
	// Attrs are extra HTML attributes. id and class keys are ignored in
	// favour of the fields above.
	Attrs map[string]string
}

// Renderer composes the editable element and its activation script.
type Renderer struct {
	env editor.Env
}

// New returns a Renderer translating editor options within env.
func New(env editor.Env) *Renderer {
	return &Renderer{env: env}
}

// Env returns the translation environment used by the renderer.
func (r *Renderer) Env() editor.Env {
	if r == nil {
		return editor.Env{}
	}
	return r.env
}

// ElementID returns the default element id for an entity attribute.
func ElementID(ref model.Ref, attribute string) string {
	return ref.Type + "_" + attribute + "_" + ref.ID + idSuffix
}

// Render returns the element displaying entity's attribute followed by the
// editor script. When opts has no URL the conventional
// set_<type>_<attribute> action for the entity is used.
func (r *Renderer) Render(entity model.Entity, attribute string, tag TagOptions, opts editor.Options) (string, error) {
	if entity == nil {
		return "", errors.New("field: nil entity")
	}
	attribute = strings.TrimSpace(attribute)
	if attribute == "" {
		return "", errors.New("field: empty attribute name")
	}
	ref := entity.Ref()

	tagName := strings.TrimSpace(tag.Tag)
	if tagName == "" {
		tagName = DefaultTag
	}
	if !namePattern.MatchString(tagName) {
		return "", fmt.Errorf("%w: tag %q", ErrInvalidMarkup, tagName)
	}

	attrs := make(map[string]string, len(tag.Attrs)+2)
	for name, value := range tag.Attrs {
		name = strings.TrimSpace(name)
		if name == "id" || name == "class" {
			continue
		}
		if !namePattern.MatchString(name) {
			return "", fmt.Errorf("%w: attribute %q", ErrInvalidMarkup, name)
		}
		attrs[name] = value
	}
	elementID := strings.TrimSpace(tag.ID)
	if elementID == "" {
		elementID = ElementID(ref, attribute)
	}
	attrs["id"] = elementID
	attrs["class"] = DefaultClass
	if cls := strings.TrimSpace(tag.Class); cls != "" {
		attrs["class"] = cls
	}

	content, err := displayContent(entity, attribute, tag)
	if err != nil {
		return "", err
	}

	if opts.URL.IsZero() {
		opts.URL = editor.Route(model.ActionName(ref.Type, attribute), ref.ID)
	}
	script, err := editor.Script(elementID, opts, r.Env())
	if err != nil {
		return "", fmt.Errorf("field: %s.%s: %w", ref, attribute, err)
	}

	return buildTag(tagName, attrs, content) + script, nil
}

func displayContent(entity model.Entity, attribute string, tag TagOptions) (string, error) {
	if tag.Display != "" {
		return model.EscapeHTML(tag.Display), nil
	}
	if tag.DisplayHTML != "" {
		return sanitizeMarkup(tag.DisplayHTML), nil
	}
	value, ok := entity.Get(attribute)
	if !ok {
		return "", fmt.Errorf("%w: %s has no %q", ErrUnknownAttribute, entity.Ref(), attribute)
	}
	return model.EscapeHTML(model.DisplayText(value)), nil
}

// buildTag renders attributes sorted by name with escaped values.
func buildTag(name string, attrs map[string]string, content string) string {
	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var builder strings.Builder
	builder.Grow(len(content) + 64)
	builder.WriteByte('<')
	builder.WriteString(name)
	for _, key := range keys {
		builder.WriteByte(' ')
		builder.WriteString(key)
		builder.WriteString(`="`)
		builder.WriteString(model.EscapeHTML(attrs[key]))
		builder.WriteByte('"')
	}
	builder.WriteByte('>')
	builder.WriteString(content)
	builder.WriteString("</")
	builder.WriteString(name)
	builder.WriteByte('>')
	return builder.String()
}
