package access

import (
	"fmt"
	"sync"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("handlebars.access")

const deniedFormat = "Handlebars: Access has been denied to resolve the property \"%s\" because it is not an \"own property\" of its parent.\n" +
	"You can add a runtime option to disable the check or this warning:\n" +
	"See https://handlebarsjs.com/api-reference/runtime-options.html#options-to-control-prototype-access for details"

// DeniedMessage is the diagnostic emitted the first time name is denied.
func DeniedMessage(name string) string {
	return fmt.Sprintf(deniedFormat, name)
}

var (
	warnMu  sync.Mutex
	warned  = map[string]struct{}{}
	handler = defaultHandler
)

func defaultHandler(message string) {
	log.Error(message)
}

// SetWarningHandler replaces the sink that receives denial diagnostics and
// returns the previous one. A nil handler restores the commonlog sink.
func SetWarningHandler(fn func(message string)) func(message string) {
	warnMu.Lock()
	defer warnMu.Unlock()
	previous := handler
	if fn == nil {
		fn = defaultHandler
	}
	handler = fn
	return previous
}

// ResetLoggedProperties forgets which names were already reported.
func ResetLoggedProperties() {
	warnMu.Lock()
	defer warnMu.Unlock()
	warned = map[string]struct{}{}
}

// warnOnce reports name unless it was reported before. The check and the
// insert happen under one lock.
func warnOnce(name string) {
	warnMu.Lock()
	if _, done := warned[name]; done {
		warnMu.Unlock()
		return
	}
	warned[name] = struct{}{}
	sink := handler
	warnMu.Unlock()

	sink(DeniedMessage(name))
}
