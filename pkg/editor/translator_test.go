package editor_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-inplace/pkg/editor"
)

var testEnv = editor.Env{URLs: editor.RouteResolver{Base: "http://www.example.com/"}}

func inplaceEdit(opts editor.Options) editor.Options {
	opts.URL = editor.Route("inplace_edit", "")
	return opts
}

func TestExpression_SingleOptions(t *testing.T) {
	cases := []struct {
		name string
		opts editor.Options
		want string
	}{
		{
			name: "no options",
			opts: editor.Options{},
			want: "new Ajax.InPlaceEditor('some_input', 'http://www.example.com/inplace_edit')",
		},
		{
			name: "external control",
			opts: editor.Options{ExternalControl: "blah"},
			want: "new Ajax.InPlaceEditor('some_input', 'http://www.example.com/inplace_edit', {externalControl:'blah'})",
		},
		{
			name: "size",
			opts: editor.Options{Size: editor.Int(4)},
			want: "new Ajax.InPlaceEditor('some_input', 'http://www.example.com/inplace_edit', {size:4})",
		},
		{
			name: "cols without rows",
			opts: editor.Options{Cols: editor.Int(4)},
			want: "new Ajax.InPlaceEditor('some_input', 'http://www.example.com/inplace_edit', {cols:4})",
		},
		{
			name: "cols with rows",
			opts: editor.Options{Rows: editor.Int(5), Cols: editor.Int(40)},
			want: "new Ajax.InPlaceEditor('some_input', 'http://www.example.com/inplace_edit', {cols:40, rows:5})",
		},
		{
			name: "zero rows is emitted",
			opts: editor.Options{Rows: editor.Int(0)},
			want: "new Ajax.InPlaceEditor('some_input', 'http://www.example.com/inplace_edit', {rows:0})",
		},
		{
			name: "loading text",
			opts: editor.Options{LoadingText: "Why are we waiting?"},
			want: "new Ajax.InPlaceEditor('some_input', 'http://www.example.com/inplace_edit', {loadingText:'Why are we waiting?'})",
		},
		{
			name: "load text url",
			opts: editor.Options{LoadTextURL: editor.Route("action_to_get_value", "")},
			want: "new Ajax.InPlaceEditor('some_input', 'http://www.example.com/inplace_edit', {loadTextURL:'http://www.example.com/action_to_get_value'})",
		},
		{
			name: "script",
			opts: editor.Options{Script: true},
			want: "new Ajax.InPlaceEditor('some_input', 'http://www.example.com/inplace_edit', {htmlResponse:false})",
		},
		{
			name: "text between controls",
			opts: editor.Options{TextBetweenControls: "or"},
			want: "new Ajax.InPlaceEditor('some_input', 'http://www.example.com/inplace_edit', {textBetweenControls:'or'})",
		},
		{
			name: "value",
			opts: editor.Options{Value: "1"},
			want: "new Ajax.InPlaceEditor('some_input', 'http://www.example.com/inplace_edit', {value:1})",
		},
		{
			name: "save control",
			opts: editor.Options{SaveControl: "button"},
			want: "new Ajax.InPlaceEditor('some_input', 'http://www.example.com/inplace_edit', {okControl:'button'})",
		},
		{
			name: "cancel control",
			opts: editor.Options{CancelControl: "button"},
			want: "new Ajax.InPlaceEditor('some_input', 'http://www.example.com/inplace_edit', {cancelControl:'button'})",
		},
		{
			name: "external control only",
			opts: editor.Options{ExternalControlOnly: true},
			want: "new Ajax.InPlaceEditor('some_input', 'http://www.example.com/inplace_edit', {externalControlOnly:true})",
		},
		{
			name: "highlight color",
			opts: editor.Options{HighlightColor: "#C0FFEE"},
			want: "new Ajax.InPlaceEditor('some_input', 'http://www.example.com/inplace_edit', {highlightcolor:'#C0FFEE'})",
		},
		{
			name: "highlight end color",
			opts: editor.Options{HighlightEndColor: "#C0FFEE"},
			want: "new Ajax.InPlaceEditor('some_input', 'http://www.example.com/inplace_edit', {highlightendcolor:'#C0FFEE'})",
		},
		{
			name: "saving class",
			opts: editor.Options{SavingClass: "save"},
			want: "new Ajax.InPlaceEditor('some_input', 'http://www.example.com/inplace_edit', {savingClassName:'save'})",
		},
		{
			name: "form class",
			opts: editor.Options{FormClass: "edit"},
			want: "new Ajax.InPlaceEditor('some_input', 'http://www.example.com/inplace_edit', {formClassName:'edit'})",
		},
		{
			name: "hover class",
			opts: editor.Options{HoverClass: "underline"},
			want: "new Ajax.InPlaceEditor('some_input', 'http://www.example.com/inplace_edit', {hoverClassName:'underline'})",
		},
		{
			name: "on complete",
			opts: editor.Options{OnComplete: `alert("Yo!")`},
			want: `new Ajax.InPlaceEditor('some_input', 'http://www.example.com/inplace_edit', {onComplete:alert("Yo!")})`,
		},
		{
			name: "on failure",
			opts: editor.Options{OnFailure: `alert("Fail!")`},
			want: `new Ajax.InPlaceEditor('some_input', 'http://www.example.com/inplace_edit', {onFailure:alert("Fail!")})`,
		},
		{
			name: "ajax options pass through",
			opts: editor.Options{AjaxOptions: "{method:'put'}"},
			want: "new Ajax.InPlaceEditor('some_input', 'http://www.example.com/inplace_edit', {ajaxOptions:{method:'put'}})",
		},
		{
			name: "with",
			opts: editor.Options{With: "'value=' + escape(value)"},
			want: "new Ajax.InPlaceEditor('some_input', 'http://www.example.com/inplace_edit', {callback:function(form) { return 'value=' + escape(value) }})",
		},
		{
			name: "cancel and save text",
			opts: editor.Options{CancelText: "nope", SaveText: "yes"},
			want: "new Ajax.InPlaceEditor('some_input', 'http://www.example.com/inplace_edit', {cancelText:'nope', okText:'yes'})",
		},
		{
			name: "click to edit and saving text",
			opts: editor.Options{ClickToEditText: "Edit me", SavingText: "Wait"},
			want: "new Ajax.InPlaceEditor('some_input', 'http://www.example.com/inplace_edit', {clickToEditText:'Edit me', savingText:'Wait'})",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := editor.Expression("some_input", inplaceEdit(tc.opts), testEnv)
			if err != nil {
				t.Fatalf("expression: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("expression mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTranslate_EachOptionProducesOneEntry(t *testing.T) {
	cases := map[string]editor.Options{
		"cancelText":            {CancelText: "x"},
		"okText":                {SaveText: "x"},
		"loadingText":           {LoadingText: "x"},
		"savingText":            {SavingText: "x"},
		"clickToEditText":       {ClickToEditText: "x"},
		"textBetweenControls":   {TextBetweenControls: "x"},
		"rows":                  {Rows: editor.Int(1)},
		"cols":                  {Cols: editor.Int(1)},
		"size":                  {Size: editor.Int(1)},
		"externalControl":       {ExternalControl: "x"},
		"loadTextURL":           {LoadTextURL: editor.URL("/x")},
		"ajaxOptions":           {AjaxOptions: "{}"},
		"htmlResponse":          {Script: true},
		"callback":              {With: "x"},
		"value":                 {Value: "x"},
		"okControl":             {SaveControl: "x"},
		"cancelControl":         {CancelControl: "x"},
		"externalControlOnly":   {ExternalControlOnly: true},
		"highlightcolor":        {HighlightColor: "x"},
		"highlightendcolor":     {HighlightEndColor: "x"},
		"savingClassName":       {SavingClass: "x"},
		"formClassName":         {FormClass: "x"},
		"hoverClassName":        {HoverClass: "x"},
		"onComplete":            {OnComplete: "x"},
		"onFailure":             {OnFailure: "x"},
		"collection":            {Collection: editor.Values("x")},
		"loadCollectionURL":     {LoadCollectionURL: editor.URL("/x")},
		"loadingCollectionText": {LoadCollectionText: "x"},
		"loadingClassName":      {LoadClass: "x"},
	}

	for key, opts := range cases {
		call, err := editor.Translate("f", inplaceEdit(opts), testEnv)
		if err != nil {
			t.Fatalf("%s: translate: %v", key, err)
		}
		if len(call.Config) != 1 {
			t.Fatalf("%s: expected exactly one entry, got %#v", key, call.Config)
		}
		if call.Config[0].Key != key {
			t.Fatalf("expected key %q, got %q", key, call.Config[0].Key)
		}
	}
}

func TestTranslate_FalsyFlagsAreAbsent(t *testing.T) {
	call, err := editor.Translate("f", inplaceEdit(editor.Options{Script: false, ExternalControlOnly: false}), testEnv)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if len(call.Config) != 0 {
		t.Fatalf("expected empty config, got %#v", call.Config)
	}
	if strings.Contains(call.String(), "{") {
		t.Fatalf("expected no configuration literal, got %s", call.String())
	}
}

func TestExpression_Collection(t *testing.T) {
	cases := []struct {
		name string
		opts editor.Options
		want string
	}{
		{
			name: "flat",
			opts: editor.Options{Collection: editor.Values("a", "b", "c")},
			want: `new Ajax.InPlaceCollectionEditor('id-goes-here', 'http://www.example.com/inplace_edit', {collection:["a", "b", "c"]})`,
		},
		{
			name: "pairs",
			opts: editor.Options{Collection: editor.Choices(editor.NewChoice(0, "No"), editor.NewChoice(1, "Yes"))},
			want: `new Ajax.InPlaceCollectionEditor('id-goes-here', 'http://www.example.com/inplace_edit', {collection:[[0, "No"], [1, "Yes"]]})`,
		},
		{
			name: "load collection url",
			opts: editor.Options{
				Collection:        editor.Values("a", "b", "c"),
				LoadCollectionURL: editor.Route("load_collection", ""),
			},
			want: `new Ajax.InPlaceCollectionEditor('id-goes-here', 'http://www.example.com/inplace_edit', {collection:["a", "b", "c"], loadCollectionURL:'http://www.example.com/load_collection'})`,
		},
		{
			name: "load collection text",
			opts: editor.Options{
				Collection:         editor.Values("a", "b", "c"),
				LoadCollectionText: "Loading...",
			},
			want: `new Ajax.InPlaceCollectionEditor('id-goes-here', 'http://www.example.com/inplace_edit', {collection:["a", "b", "c"], loadingCollectionText:'Loading...'})`,
		},
		{
			name: "load class",
			opts: editor.Options{
				Collection: editor.Values("a", "b", "c"),
				LoadClass:  "rotate",
			},
			want: `new Ajax.InPlaceCollectionEditor('id-goes-here', 'http://www.example.com/inplace_edit', {collection:["a", "b", "c"], loadingClassName:'rotate'})`,
		},
		{
			name: "empty collection still selects the collection editor",
			opts: editor.Options{Collection: &editor.Collection{}},
			want: `new Ajax.InPlaceCollectionEditor('id-goes-here', 'http://www.example.com/inplace_edit', {collection:[]})`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := editor.Expression("id-goes-here", inplaceEdit(tc.opts), testEnv)
			if err != nil {
				t.Fatalf("expression: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("expression mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTranslate_InvalidCollection(t *testing.T) {
	opts := inplaceEdit(editor.Options{Collection: &editor.Collection{
		Values:  []string{"a"},
		Choices: []editor.Choice{{Value: "1", Label: "One"}},
	}})
	if _, err := editor.Translate("f", opts, testEnv); !errors.Is(err, editor.ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}

	opts = inplaceEdit(editor.Options{Collection: editor.Choices(editor.Choice{Label: "Blank"})})
	if _, err := editor.Translate("f", opts, testEnv); !errors.Is(err, editor.ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration for empty choice value, got %v", err)
	}
}

func TestTranslate_MissingURL(t *testing.T) {
	if _, err := editor.Translate("f", editor.Options{}, testEnv); !errors.Is(err, editor.ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestTranslate_ResolverErrorIsWrapped(t *testing.T) {
	boom := errors.New("no route")
	env := editor.Env{URLs: editor.URLResolverFunc(func(editor.Endpoint) (string, error) {
		return "", boom
	})}
	if _, err := editor.Translate("f", editor.Options{URL: editor.Route("x", "")}, env); !errors.Is(err, boom) {
		t.Fatalf("expected resolver error, got %v", err)
	}
}

func TestExpression_ForgeryProtection(t *testing.T) {
	env := testEnv
	env.Forgery = editor.StaticToken("authenticity token")
	opts := editor.Options{URL: editor.Route("action_to_set_value", "")}

	got, err := editor.Expression("id-goes-here", opts, env)
	if err != nil {
		t.Fatalf("expression: %v", err)
	}
	want := "new Ajax.InPlaceEditor('id-goes-here', 'http://www.example.com/action_to_set_value', {callback:function(form) { return Form.serialize(form) + '&authenticity_token=' + encodeURIComponent('authenticity token') }})"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("expression mismatch (-want +got):\n%s", diff)
	}

	again, err := editor.Expression("id-goes-here", opts, env)
	if err != nil {
		t.Fatalf("second expression: %v", err)
	}
	if again != got {
		t.Fatalf("expected idempotent output, got %q then %q", got, again)
	}
	if opts.With != "" {
		t.Fatalf("caller options were mutated: %q", opts.With)
	}
}

func TestExpression_ForgeryProtectionKeepsExplicitWith(t *testing.T) {
	env := testEnv
	env.Forgery = editor.StaticToken("tok")
	opts := editor.Options{URL: editor.Route("save", ""), With: "'value=' + value"}

	got, err := editor.Expression("f", opts, env)
	if err != nil {
		t.Fatalf("expression: %v", err)
	}
	want := "new Ajax.InPlaceEditor('f', 'http://www.example.com/save', {callback:function(form) { return 'value=' + value + '&authenticity_token=' + encodeURIComponent('tok') }})"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("expression mismatch (-want +got):\n%s", diff)
	}
}

func TestExpression_TokenErrorPropagates(t *testing.T) {
	boom := errors.New("no session")
	env := editor.Env{Forgery: editor.TokenFunc(func() (string, error) { return "", boom })}
	if _, err := editor.Expression("f", editor.Options{URL: editor.URL("/x")}, env); !errors.Is(err, boom) {
		t.Fatalf("expected token error, got %v", err)
	}
}

func TestExpression_QuotesAreEscaped(t *testing.T) {
	got, err := editor.Expression("f", editor.Options{URL: editor.URL("/x"), CancelText: "don't"}, editor.Env{})
	if err != nil {
		t.Fatalf("expression: %v", err)
	}
	if want := `{cancelText:'don\'t'}`; !strings.Contains(got, want) {
		t.Fatalf("expected %s in %s", want, got)
	}
}

func TestRouteResolver(t *testing.T) {
	resolver := editor.RouteResolver{Base: "http://www.example.com"}

	cases := []struct {
		endpoint editor.Endpoint
		want     string
	}{
		{editor.URL("/literal"), "/literal"},
		{editor.Route("set_object_name", "123"), "http://www.example.com/set_object_name?id=123"},
		{editor.Endpoint{Action: "list", Params: map[string]string{"page": "2", "b": "x"}}, "http://www.example.com/list?b=x&page=2"},
	}
	for _, tc := range cases {
		got, err := resolver.URLFor(tc.endpoint)
		if err != nil {
			t.Fatalf("resolve %#v: %v", tc.endpoint, err)
		}
		if got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}

	if _, err := resolver.URLFor(editor.Endpoint{ID: "1"}); !errors.Is(err, editor.ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration for missing action, got %v", err)
	}
}

func TestScript_WrapsExpression(t *testing.T) {
	got, err := editor.Script("some_input", inplaceEdit(editor.Options{ExternalControl: "blah"}), testEnv)
	if err != nil {
		t.Fatalf("script: %v", err)
	}
	want := "<script type=\"text/javascript\">\n//<![CDATA[\nnew Ajax.InPlaceEditor('some_input', 'http://www.example.com/inplace_edit', {externalControl:'blah'})\n//]]>\n</script>"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("script mismatch (-want +got):\n%s", diff)
	}
}

func TestCall_Lookup(t *testing.T) {
	call, err := editor.Translate("f", inplaceEdit(editor.Options{Size: editor.Int(9)}), testEnv)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if value, ok := call.Lookup("size"); !ok || value != "9" {
		t.Fatalf("expected size 9, got %q (%v)", value, ok)
	}
	if _, ok := call.Lookup("rows"); ok {
		t.Fatalf("did not expect rows entry")
	}
}
