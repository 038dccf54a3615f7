package parser

import (
	"sort"
	"strings"
	"unicode"

	"github.com/goliatone/go-handlebars/pkg/ast"
)

type tagKind int

const (
	tagMustache tagKind = iota
	tagUnescaped
	tagComment
	tagBlockOpen
	tagInverseOpen
	tagElse
	tagClose
	tagPartial
	tagPartialBlockOpen
	tagDecorator
	tagDecoratorBlockOpen
	tagRaw
)

// segment is either literal content or one `{{…}}` tag.
type segment struct {
	content    bool
	text       string // content text, or the tag body without delimiters and markers
	kind       tagKind
	stripLeft  bool
	stripRight bool
	raw        string // body of a raw block
	start, end int    // byte offsets into the source
}

type scanner struct {
	src        string
	name       string
	lineStarts []int
	segments   []segment
}

func newScanner(name, src string) *scanner {
	s := &scanner{src: src, name: name, lineStarts: []int{0}}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			s.lineStarts = append(s.lineStarts, i+1)
		}
	}
	return s
}

func (s *scanner) position(offset int) ast.Position {
	line := sort.Search(len(s.lineStarts), func(i int) bool { return s.lineStarts[i] > offset }) - 1
	return ast.Position{Line: line + 1, Column: offset - s.lineStarts[line]}
}

func (s *scanner) loc(start, end int) ast.Loc {
	return ast.Loc{Source: s.name, Start: s.position(start), End: s.position(end)}
}

func (s *scanner) errorAt(offset int, message string) *Error {
	pos := s.position(offset)
	return &Error{Message: message, Source: s.name, Line: pos.Line, Column: pos.Column}
}

func (s *scanner) emitContent(text string, start, end int) {
	if text == "" {
		return
	}
	s.segments = append(s.segments, segment{content: true, text: text, start: start, end: end})
}

// scan splits the source into content and tag segments, then applies `~`
// whitespace control to the content around stripping tags.
func (s *scanner) scan() ([]segment, error) {
	src := s.src
	i := 0
	for i < len(src) {
		rel := strings.Index(src[i:], "{{")
		if rel < 0 {
			s.emitContent(src[i:], i, len(src))
			break
		}
		j := i + rel

		escapes := 0
		for k := j - 1; k >= i && src[k] == '\\'; k-- {
			escapes++
		}
		if escapes%2 == 1 {
			// \{{ renders the following text literally up to the next tag.
			s.emitContent(src[i:j-1], i, j-1)
			next := len(src)
			if rel := strings.Index(src[j+2:], "{{"); rel >= 0 {
				next = j + 2 + rel
				if src[next-1] == '\\' {
					next--
				}
			}
			s.emitContent(src[j:next], j, next)
			i = next
			continue
		}
		if escapes > 0 {
			// \\{{ keeps one backslash and opens a real tag.
			s.emitContent(src[i:j-1], i, j-1)
		} else {
			s.emitContent(src[i:j], i, j)
		}

		end, err := s.scanTag(j)
		if err != nil {
			return nil, err
		}
		i = end
	}
	s.applyStrip()
	return s.segments, nil
}

func (s *scanner) scanTag(start int) (int, error) {
	src := s.src
	if strings.HasPrefix(src[start:], "{{{{") {
		return s.scanRaw(start)
	}

	p := start + 2
	triple := false
	if p < len(src) && src[p] == '{' {
		triple = true
		p++
	}
	seg := segment{start: start}
	if p < len(src) && src[p] == '~' {
		seg.stripLeft = true
		p++
	}

	if !triple && p < len(src) && src[p] == '!' {
		return s.scanComment(seg, p)
	}

	closer := "}}"
	if triple {
		closer = "}}}"
	}
	bodyEnd, end, err := s.findClose(p, closer)
	if err != nil {
		return 0, err
	}
	body := src[p:bodyEnd]
	if strings.HasSuffix(body, "~") {
		seg.stripRight = true
		body = body[:len(body)-1]
	}
	seg.end = end

	if triple {
		seg.kind = tagUnescaped
		seg.text = body
	} else {
		seg.kind, seg.text = classifyTag(body)
	}
	s.segments = append(s.segments, seg)
	return end, nil
}

// findClose returns where the tag body ends and where the closing
// delimiter ends, skipping over quoted strings.
func (s *scanner) findClose(from int, closer string) (int, int, error) {
	src := s.src
	var quote byte
	for k := from; k < len(src); k++ {
		c := src[k]
		switch {
		case quote != 0:
			if c == '\\' && k+1 < len(src) && src[k+1] == quote {
				k++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case strings.HasPrefix(src[k:], closer):
			return k, k + len(closer), nil
		}
	}
	return 0, 0, s.errorAt(from, "unterminated mustache, expected "+closer)
}

func (s *scanner) scanComment(seg segment, p int) (int, error) {
	src := s.src
	seg.kind = tagComment

	if strings.HasPrefix(src[p:], "!--") {
		bodyStart := p + 3
		for from := bodyStart; ; {
			rel := strings.Index(src[from:], "--")
			if rel < 0 {
				return 0, s.errorAt(seg.start, "unterminated comment")
			}
			at := from + rel
			after := at + 2
			strip := false
			if after < len(src) && src[after] == '~' {
				strip = true
				after++
			}
			if strings.HasPrefix(src[after:], "}}") {
				seg.text = src[bodyStart:at]
				seg.stripRight = strip
				seg.end = after + 2
				s.segments = append(s.segments, seg)
				return seg.end, nil
			}
			from = at + 1
		}
	}

	bodyStart := p + 1
	rel := strings.Index(src[bodyStart:], "}}")
	if rel < 0 {
		return 0, s.errorAt(seg.start, "unterminated comment")
	}
	bodyEnd := bodyStart + rel
	seg.end = bodyEnd + 2
	if bodyEnd > bodyStart && src[bodyEnd-1] == '~' {
		seg.stripRight = true
		bodyEnd--
	}
	seg.text = src[bodyStart:bodyEnd]
	s.segments = append(s.segments, seg)
	return seg.end, nil
}

func (s *scanner) scanRaw(start int) (int, error) {
	src := s.src
	rel := strings.Index(src[start+4:], "}}}}")
	if rel < 0 {
		return 0, s.errorAt(start, "unterminated raw block")
	}
	openEnd := start + 4 + rel
	body := strings.TrimSpace(src[start+4 : openEnd])
	if strings.HasPrefix(body, "/") {
		return 0, s.errorAt(start, "unexpected raw block close")
	}
	name := body
	if idx := strings.IndexFunc(body, unicode.IsSpace); idx >= 0 {
		name = body[:idx]
	}

	closeTag := "{{{{/" + name + "}}}}"
	crel := strings.Index(src[openEnd+4:], closeTag)
	if crel < 0 {
		return 0, s.errorAt(start, "raw block "+name+" is never closed")
	}
	contentStart := openEnd + 4
	contentEnd := contentStart + crel
	s.segments = append(s.segments, segment{
		kind:  tagRaw,
		text:  body,
		raw:   src[contentStart:contentEnd],
		start: start,
		end:   contentEnd + len(closeTag),
	})
	return contentEnd + len(closeTag), nil
}

// classifyTag inspects the marker after `{{` and returns the tag kind with
// the remaining body.
func classifyTag(body string) (tagKind, string) {
	if body == "" {
		return tagMustache, body
	}
	switch body[0] {
	case '#':
		rest := body[1:]
		switch {
		case strings.HasPrefix(rest, ">"):
			return tagPartialBlockOpen, rest[1:]
		case strings.HasPrefix(rest, "*"):
			return tagDecoratorBlockOpen, rest[1:]
		}
		return tagBlockOpen, rest
	case '^':
		if strings.TrimSpace(body[1:]) == "" {
			return tagElse, ""
		}
		return tagInverseOpen, body[1:]
	case '/':
		return tagClose, body[1:]
	case '>':
		return tagPartial, body[1:]
	case '*':
		return tagDecorator, body[1:]
	case '&':
		return tagUnescaped, body[1:]
	}
	trimmed := strings.TrimLeftFunc(body, unicode.IsSpace)
	if rest, ok := strings.CutPrefix(trimmed, "else"); ok && (rest == "" || unicode.IsSpace(rune(rest[0]))) {
		return tagElse, rest
	}
	return tagMustache, body
}

// applyStrip trims whitespace from content that touches a `~` marker and
// drops content that becomes empty.
func (s *scanner) applyStrip() {
	segs := s.segments
	for i, seg := range segs {
		if seg.content {
			continue
		}
		if seg.stripLeft && i > 0 && segs[i-1].content {
			segs[i-1].text = strings.TrimRightFunc(segs[i-1].text, unicode.IsSpace)
		}
		if seg.stripRight && i+1 < len(segs) && segs[i+1].content {
			segs[i+1].text = strings.TrimLeftFunc(segs[i+1].text, unicode.IsSpace)
		}
	}
	out := segs[:0]
	for _, seg := range segs {
		if seg.content && seg.text == "" {
			continue
		}
		out = append(out, seg)
	}
	s.segments = out
}
