// Package access guards template reads of inherited members. Members a value
// owns (map entries, sequence indices, declared struct fields) are always
// readable; members reached through embedding or method sets are checked
// against allow lists and denied otherwise, with a one-time diagnostic per
// member name for the life of the process.
package access
