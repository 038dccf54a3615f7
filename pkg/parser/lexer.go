package parser

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokenID tokenKind = iota
	tokenSep
	tokenData
	tokenString
	tokenNumber
	tokenBool
	tokenNull
	tokenUndefined
	tokenOpenParen
	tokenCloseParen
	tokenEquals
	tokenOpenBlockParams
	tokenCloseBlockParams
	tokenEOF
)

func (k tokenKind) String() string {
	switch k {
	case tokenID:
		return "identifier"
	case tokenSep:
		return "separator"
	case tokenData:
		return "'@'"
	case tokenString:
		return "string"
	case tokenNumber:
		return "number"
	case tokenBool:
		return "boolean"
	case tokenNull:
		return "null"
	case tokenUndefined:
		return "undefined"
	case tokenOpenParen:
		return "'('"
	case tokenCloseParen:
		return "')'"
	case tokenEquals:
		return "'='"
	case tokenOpenBlockParams:
		return "'as |'"
	case tokenCloseBlockParams:
		return "'|'"
	default:
		return "end of tag"
	}
}

type token struct {
	kind tokenKind
	// raw is the source text; for strings it is the unquoted value and for
	// `[literal]` identifiers it excludes the brackets.
	raw      string
	original string
	literal  bool
	offset   int
}

// idExcluded lists the characters that end an identifier.
const idExcluded = "!\"#%&'()*+,./;<=>@[\\]^`{|}~"

func isIDChar(c byte) bool {
	return c > ' ' && c != 0x7f && !strings.ContainsRune(idExcluded, rune(c))
}

// atLookahead reports whether position i ends an identifier-like token.
func atLookahead(input string, i int, set string) bool {
	return i >= len(input) || unicode.IsSpace(rune(input[i])) || strings.ContainsRune(set, rune(input[i]))
}

const (
	idLookahead      = "=~}/.)|"
	literalLookahead = "~})"
)

type lexError struct {
	message string
	offset  int
}

func (e *lexError) Error() string { return e.message }

// tokenize splits a tag body into expression tokens. base is the body's
// offset in the template, used for error positions.
func tokenize(input string, base int) ([]token, error) {
	var tokens []token
	i := 0
	emit := func(kind tokenKind, raw string, start int) {
		tokens = append(tokens, token{kind: kind, raw: raw, original: raw, offset: base + start})
	}
	inParams := false

	for i < len(input) {
		c := input[i]
		start := i
		switch {
		case unicode.IsSpace(rune(c)):
			i++
		case c == '(':
			emit(tokenOpenParen, "(", start)
			i++
		case c == ')':
			emit(tokenCloseParen, ")", start)
			i++
		case c == '=':
			emit(tokenEquals, "=", start)
			i++
		case c == '@':
			emit(tokenData, "@", start)
			i++
		case c == '|':
			emit(tokenCloseBlockParams, "|", start)
			inParams = false
			i++
		case c == '"' || c == '\'':
			value, next, err := readString(input, i)
			if err != nil {
				return nil, &lexError{message: err.Error(), offset: base + start}
			}
			tokens = append(tokens, token{kind: tokenString, raw: value, original: input[start:next], offset: base + start})
			i = next
		case c == '[':
			end := strings.IndexByte(input[i+1:], ']')
			if end < 0 {
				return nil, &lexError{message: "unterminated [segment]", offset: base + start}
			}
			next := i + 1 + end + 1
			tokens = append(tokens, token{kind: tokenID, raw: input[i+1 : next-1], original: input[start:next], literal: true, offset: base + start})
			i = next
		case strings.HasPrefix(input[i:], "..") && atLookahead(input, i+2, idLookahead):
			emit(tokenID, "..", start)
			i += 2
		case c == '.' && atLookahead(input, i+1, idLookahead) && !precededByID(tokens, input, i):
			emit(tokenID, ".", start)
			i++
		case c == '.' || c == '/':
			emit(tokenSep, string(c), start)
			i++
		default:
			if !inParams && strings.HasPrefix(input[i:], "as") && i+2 < len(input) && unicode.IsSpace(rune(input[i+2])) {
				rest := strings.TrimLeftFunc(input[i+2:], unicode.IsSpace)
				if strings.HasPrefix(rest, "|") {
					emit(tokenOpenBlockParams, "as |", start)
					i = len(input) - len(rest) + 1
					inParams = true
					continue
				}
			}
			if kind, n := scanLiteral(input, i); n > 0 {
				emit(kind, input[i:i+n], start)
				i += n
				continue
			}
			n := 0
			for i+n < len(input) && isIDChar(input[i+n]) {
				n++
			}
			if n == 0 {
				return nil, &lexError{message: fmt.Sprintf("unexpected character %q", c), offset: base + start}
			}
			emit(tokenID, input[i:i+n], start)
			i += n
		}
	}
	tokens = append(tokens, token{kind: tokenEOF, offset: base + len(input)})
	return tokens, nil
}

// precededByID distinguishes `a.b` (separator) from a lone `.` path.
func precededByID(tokens []token, input string, i int) bool {
	if len(tokens) == 0 || i == 0 || unicode.IsSpace(rune(input[i-1])) {
		return false
	}
	last := tokens[len(tokens)-1].kind
	return last == tokenID || last == tokenCloseParen
}

// scanLiteral recognises numbers, booleans, null and undefined when they
// are followed by a literal boundary.
func scanLiteral(input string, i int) (tokenKind, int) {
	for _, kw := range []struct {
		word string
		kind tokenKind
	}{
		{"true", tokenBool},
		{"false", tokenBool},
		{"null", tokenNull},
		{"undefined", tokenUndefined},
	} {
		if strings.HasPrefix(input[i:], kw.word) && atLookahead(input, i+len(kw.word), literalLookahead) {
			return kw.kind, len(kw.word)
		}
	}

	j := i
	if j < len(input) && input[j] == '-' {
		j++
	}
	digits := j
	for j < len(input) && input[j] >= '0' && input[j] <= '9' {
		j++
	}
	if j == digits {
		return 0, 0
	}
	if j+1 < len(input) && input[j] == '.' && input[j+1] >= '0' && input[j+1] <= '9' {
		j++
		for j < len(input) && input[j] >= '0' && input[j] <= '9' {
			j++
		}
	}
	if !atLookahead(input, j, literalLookahead) {
		return 0, 0
	}
	return tokenNumber, j - i
}

func readString(input string, i int) (string, int, error) {
	quote := input[i]
	var b strings.Builder
	for j := i + 1; j < len(input); j++ {
		c := input[j]
		if c == '\\' && j+1 < len(input) && input[j+1] == quote {
			b.WriteByte(quote)
			j++
			continue
		}
		if c == quote {
			return b.String(), j + 1, nil
		}
		b.WriteByte(c)
	}
	return "", 0, errors.New("unterminated string")
}
