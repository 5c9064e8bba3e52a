package editor

// JavaScriptTag wraps code in a CDATA-guarded script element.
func JavaScriptTag(code string) string {
	return "<script type=\"text/javascript\">\n//<![CDATA[\n" + code + "\n//]]>\n</script>"
}

// Script translates the options and returns the call wrapped in a script tag,
// ready to be placed after the element identified by fieldID.
func Script(fieldID string, opts Options, env Env) (string, error) {
	expr, err := Expression(fieldID, opts, env)
	if err != nil {
		return "", err
	}
	return JavaScriptTag(expr), nil
}
