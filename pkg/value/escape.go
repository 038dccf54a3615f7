package value

import "strings"

var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"`", "&#x60;",
	"=", "&#x3D;",
)

// Escape converts v to a string and HTML-escapes it. Values implementing
// HTMLer (SafeString included) are returned verbatim and nil becomes the
// empty string.
func Escape(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return EscapeString(x)
	case HTMLer:
		return x.ToHTML()
	}
	return EscapeString(Stringify(v))
}

// EscapeString escapes & < > " ' ` and =.
func EscapeString(s string) string {
	if !strings.ContainsAny(s, "&<>\"'`=") {
		return s
	}
	return htmlReplacer.Replace(s)
}
