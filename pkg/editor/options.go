package editor

// JS is a raw JavaScript snippet. It is emitted unquoted.
type JS string

// DefaultWith is the submission payload expression used when forgery
// protection is active and no explicit With snippet was supplied.
const DefaultWith JS = "Form.serialize(form)"

// Options enumerates every option the translator understands. Zero values are
// treated as absent: empty strings and snippets, nil pointers, false flags, a
// nil collection and a zero Endpoint never produce output. Rows, Cols and
// Size are pointers so that an explicit 0 is still emitted.
type Options struct {
	// URL is the endpoint receiving the edited value. Required.
	URL Endpoint

	CancelText          string
	SaveText            string
	LoadingText         string
	SavingText          string
	ClickToEditText     string
	TextBetweenControls string

	Rows *int
	Cols *int
	Size *int

	// ExternalControl is the id of an element that switches the field into
	// edit mode.
	ExternalControl string
	// LoadTextURL is fetched to obtain the initial editor content.
	LoadTextURL Endpoint
	// AjaxOptions is passed through verbatim to the underlying Ajax call.
	AjaxOptions JS
	// Script asks the widget to evaluate the response as JavaScript; it is
	// emitted as htmlResponse:false.
	Script bool
	// With returns the payload sent to the server; form is in scope.
	With JS

	Value               JS
	SaveControl         string
	CancelControl       string
	ExternalControlOnly bool
	HighlightColor      string
	HighlightEndColor   string
	SavingClass         string
	FormClass           string
	HoverClass          string

	OnComplete JS
	OnFailure  JS

	// Collection switches the widget to the collection editor.
	Collection         *Collection
	LoadCollectionURL  Endpoint
	LoadCollectionText string
	LoadClass          string
}

// Collection holds the choices offered by the collection editor. Exactly one
// of Values or Choices may be populated; an empty collection renders as [].
type Collection struct {
	Values  []string
	Choices []Choice
}

// Choice is a value/label pair. Value is emitted raw, Label as a quoted
// string.
type Choice struct {
	Value JS
	Label string
}

// Values builds a flat collection.
func Values(values ...string) *Collection {
	return &Collection{Values: append([]string(nil), values...)}
}

// Choices builds a paired collection.
func Choices(choices ...Choice) *Collection {
	return &Collection{Choices: append([]Choice(nil), choices...)}
}

// NewChoice renders value as a JavaScript literal (numbers and booleans bare,
// strings double quoted) and pairs it with label.
func NewChoice(value any, label string) Choice {
	literal, err := jsonLiteral(value)
	if err != nil {
		literal = jsonString(displayScalar(value))
	}
	return Choice{Value: JS(literal), Label: label}
}

// Int returns a pointer to n, for the numeric layout options.
func Int(n int) *int {
	return &n
}

// Clone returns a copy that shares no mutable state with o.
func (o Options) Clone() Options {
	out := o
	out.URL = o.URL.clone()
	out.LoadTextURL = o.LoadTextURL.clone()
	out.LoadCollectionURL = o.LoadCollectionURL.clone()
	out.Rows = cloneInt(o.Rows)
	out.Cols = cloneInt(o.Cols)
	out.Size = cloneInt(o.Size)
	if o.Collection != nil {
		out.Collection = &Collection{
			Values:  append([]string(nil), o.Collection.Values...),
			Choices: append([]Choice(nil), o.Collection.Choices...),
		}
	}
	return out
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
