// Package parser extracts workbook data from SpreadsheetML payloads.
//
// Payloads are not parsed into a tree. A forward-only scanner looks for the
// handful of element shapes a conversion needs (sheet declarations, shared
// string items, cells and their value children) and slices their tags and
// bodies out of the raw bytes. The scanner is non-validating: malformed
// markup is skipped rather than reported, namespace prefixes are not
// resolved, and comments or CDATA sections get no special treatment.
package parser

import "bytes"

// pattern holds the byte sequences that open and close one element name.
type pattern struct {
	open  []byte
	close []byte
}

func newPattern(name string) pattern {
	return pattern{
		open:  []byte("<" + name),
		close: []byte("</" + name + ">"),
	}
}

var (
	sheetPattern  = newPattern("sheet")
	itemPattern   = newPattern("si")
	cellPattern   = newPattern("c")
	valuePattern  = newPattern("v")
	inlinePattern = newPattern("is")
	textPattern   = newPattern("t")
)

// element is one occurrence of an element in the payload.
type element struct {
	// tag is the open tag, from '<' through '>'.
	tag []byte
	// body is the content between the open and close tags.
	body []byte
	// selfClosing is set for <name ... /> elements, which have no body.
	selfClosing bool
}

// scanner walks a payload with a cursor that only moves forward.
type scanner struct {
	data []byte
	pos  int
}

func newScanner(data []byte) *scanner {
	return &scanner{data: data}
}

// next returns the next element matching p at or after the cursor and moves
// the cursor past it. An element whose close tag never appears is skipped.
func (s *scanner) next(p pattern) (element, bool) {
	for {
		start := s.findOpen(p)
		if start < 0 {
			s.pos = len(s.data)
			return element{}, false
		}
		end := tagEnd(s.data, start)
		if end < 0 {
			s.pos = len(s.data)
			return element{}, false
		}
		tag := s.data[start : end+1]
		if s.data[end-1] == '/' {
			s.pos = end + 1
			return element{tag: tag, selfClosing: true}, true
		}

		k := bytes.Index(s.data[end+1:], p.close)
		if k < 0 {
			s.pos = end + 1
			continue
		}
		body := s.data[end+1 : end+1+k]
		s.pos = end + 1 + k + len(p.close)
		return element{tag: tag, body: body}, true
	}
}

// findOpen returns the offset of the next open tag for p, requiring the
// element name to end right after the match so "<c" does not match "<cols>".
func (s *scanner) findOpen(p pattern) int {
	for s.pos < len(s.data) {
		i := bytes.Index(s.data[s.pos:], p.open)
		if i < 0 {
			return -1
		}
		start := s.pos + i
		after := start + len(p.open)
		if after >= len(s.data) {
			return -1
		}
		if isNameEnd(s.data[after]) {
			return start
		}
		s.pos = start + 1
	}
	return -1
}

// tagEnd returns the offset of the '>' closing the tag that starts at start,
// ignoring any '>' inside quoted attribute values.
func tagEnd(data []byte, start int) int {
	var quote byte
	for i := start + 1; i < len(data); i++ {
		c := data[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '>':
			return i
		}
	}
	return -1
}

// attr returns the value of the attribute key in an open tag. Attributes are
// walked in order, so a key appearing inside another attribute's value is
// never matched. Whitespace around '=' is tolerated.
func attr(tag []byte, key string) (string, bool) {
	i := 1
	for i < len(tag) && !isNameEnd(tag[i]) {
		i++
	}
	for {
		i = skipSpace(tag, i)
		if i >= len(tag) || tag[i] == '>' || tag[i] == '/' {
			return "", false
		}
		nameStart := i
		for i < len(tag) && tag[i] != '=' && tag[i] != '>' && tag[i] != '/' && !isSpace(tag[i]) {
			i++
		}
		name := tag[nameStart:i]
		i = skipSpace(tag, i)
		if i >= len(tag) || tag[i] != '=' {
			continue
		}
		i = skipSpace(tag, i+1)
		if i >= len(tag) || (tag[i] != '"' && tag[i] != '\'') {
			return "", false
		}
		quote := tag[i]
		end := bytes.IndexByte(tag[i+1:], quote)
		if end < 0 {
			return "", false
		}
		value := tag[i+1 : i+1+end]
		i += end + 2
		if string(name) == key {
			return string(value), true
		}
	}
}

func skipSpace(b []byte, i int) int {
	for i < len(b) && isSpace(b[i]) {
		i++
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func isNameEnd(c byte) bool {
	return isSpace(c) || c == '>' || c == '/'
}
