package engine

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/goliatone/go-handlebars/pkg/value"
)

func registerDefaultFilters(e *Engine) {
	if !e.hb.IsHelper("trim") {
		_ = e.RegisterFilter("trim", filterTrim)
	}
	if !e.hb.IsHelper("lowerfirst") {
		_ = e.RegisterFilter("lowerfirst", filterLowerFirst)
	}
}

func filterTrim(in any, _ any) (any, error) {
	if in == nil {
		return "", nil
	}
	return strings.TrimSpace(value.Stringify(in)), nil
}

// filterLowerFirst lowercases the first non-whitespace rune.
func filterLowerFirst(in any, _ any) (any, error) {
	if in == nil {
		return "", nil
	}
	t := value.Stringify(in)
	for i, r := range t {
		if unicode.IsSpace(r) {
			continue
		}
		return t[:i] + string(unicode.ToLower(r)) + t[i+utf8.RuneLen(r):], nil
	}
	return t, nil
}
