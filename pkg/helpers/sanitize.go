package helpers

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-handlebars/pkg/runtime"
	"github.com/goliatone/go-handlebars/pkg/value"
)

var (
	sanitizePolicyOnce sync.Once
	sanitizePolicy     *bluemonday.Policy
)

// Sanitize strips unsafe markup from its argument and returns the rest as a
// SafeString, so `{{sanitize body}}` emits user HTML without escaping it.
func Sanitize(args []any, _ *runtime.Options) (any, error) {
	if len(args) != 1 {
		return nil, arityError("sanitize requires exactly one argument")
	}
	raw := strings.TrimSpace(value.Stringify(args[0]))
	if raw == "" {
		return value.SafeString(""), nil
	}
	return value.SafeString(sanitizer().Sanitize(raw)), nil
}

func sanitizer() *bluemonday.Policy {
	sanitizePolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.RequireNoFollowOnLinks(true)
		sanitizePolicy = policy
	})
	return sanitizePolicy
}
