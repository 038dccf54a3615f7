package helpers

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/tliron/commonlog"

	"github.com/goliatone/go-handlebars/pkg/runtime"
	"github.com/goliatone/go-handlebars/pkg/value"
)

// Log levels understood by the log helper, lowest first.
const (
	LevelDebug = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	log      = commonlog.GetLogger("handlebars.log")
	logLevel atomic.Int32

	sinkMu sync.RWMutex
	sink   = commonlogSink
)

func init() {
	logLevel.Store(LevelInfo)
}

var levelNames = map[string]int{
	"debug": LevelDebug,
	"info":  LevelInfo,
	"warn":  LevelWarn,
	"error": LevelError,
}

// SetLogLevel sets the lowest level the log helper emits.
func SetLogLevel(level int) {
	logLevel.Store(int32(level))
}

// LogLevel returns the current threshold.
func LogLevel() int {
	return int(logLevel.Load())
}

// ParseLevel accepts a level name or number.
func ParseLevel(v any) (int, bool) {
	if s, ok := v.(string); ok {
		if level, ok := levelNames[strings.ToLower(s)]; ok {
			return level, true
		}
	}
	return value.ToInt(v)
}

// Log writes its arguments, space separated, at the level given by the
// level hash argument, then @level, defaulting to info. It renders nothing.
func Log(args []any, opts *runtime.Options) (any, error) {
	level := LevelInfo
	switch {
	case opts.HashArg("level") != nil:
		if l, ok := ParseLevel(opts.HashArg("level")); ok {
			level = l
		}
	case opts != nil && opts.Data != nil:
		if v, ok := opts.Data.Get("level"); ok {
			if l, ok := ParseLevel(v); ok {
				level = l
			}
		}
	}
	Write(level, args...)
	return nil, nil
}

// Write emits args at level when it meets the threshold.
func Write(level int, args ...any) {
	if level < LogLevel() {
		return
	}
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = value.Stringify(arg)
	}
	msg := strings.Join(parts, " ")

	sinkMu.RLock()
	emit := sink
	sinkMu.RUnlock()
	emit(level, msg)
}

// SetLogSink replaces the writer behind the log helper and returns the
// previous one. A nil sink restores the commonlog writer.
func SetLogSink(fn func(level int, message string)) func(level int, message string) {
	sinkMu.Lock()
	defer sinkMu.Unlock()
	previous := sink
	if fn == nil {
		fn = commonlogSink
	}
	sink = fn
	return previous
}

func commonlogSink(level int, msg string) {
	switch {
	case level <= LevelDebug:
		log.Debug(msg)
	case level == LevelInfo:
		log.Info(msg)
	case level == LevelWarn:
		log.Warning(msg)
	default:
		log.Error(msg)
	}
}
