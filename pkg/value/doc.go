// Package value implements the value semantics templates observe: private
// data frames, safe strings, HTML escaping, string conversion, the `+`
// concatenation used when joining statement results, and the truthiness and
// emptiness rules block helpers branch on.
//
// Conversions do not use fmt verbs. Integral floats print without a
// fractional part, sequences join with commas and objects print as
// "[object Object]".
package value
