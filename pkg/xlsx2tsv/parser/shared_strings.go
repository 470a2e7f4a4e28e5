package parser

// SharedStrings is the workbook's shared string table. Position i holds the
// i-th string item of the payload, empty items included, so indices taken
// from cells always line up. A nil *SharedStrings is an empty table.
type SharedStrings struct {
	items []string
}

// ParseSharedStrings reads every <si> item of a shared strings payload.
// Rich text runs are flattened: the character data of all nested elements
// is kept and their tags are dropped. Entities are decoded afterwards.
func ParseSharedStrings(data []byte) *SharedStrings {
	ss := &SharedStrings{}
	sc := newScanner(data)
	for {
		el, ok := sc.next(itemPattern)
		if !ok {
			break
		}
		if el.selfClosing {
			ss.items = append(ss.items, "")
			continue
		}
		ss.items = append(ss.items, UnescapeXML(stripMarkup(el.body)))
	}
	return ss
}

// Len returns the number of strings in the table.
func (s *SharedStrings) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// At returns the string at index i.
func (s *SharedStrings) At(i int) (string, bool) {
	if s == nil || i < 0 || i >= len(s.items) {
		return "", false
	}
	return s.items[i], true
}
