package value

// SafeString marks content that must not be escaped again when written by an
// escaped mustache.
type SafeString string

// String returns the raw content.
func (s SafeString) String() string { return string(s) }

// ToHTML returns the raw content; escaping honours this contract.
func (s SafeString) ToHTML() string { return string(s) }

// HTMLer is implemented by values that render their own HTML.
type HTMLer interface {
	ToHTML() string
}
