package jsondoc

import (
	"strconv"
	"strings"
)

// Segment is one step of a path.
//
// Key always holds the raw token text. IsIndex is set when the token was
// written in brackets and is a non-negative integer; Index then holds its
// value.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// KeySegment returns an object key segment.
func KeySegment(key string) Segment { return Segment{Key: key} }

// IndexSegment returns an array index segment.
func IndexSegment(i int) Segment { return Segment{Key: strconv.Itoa(i), Index: i, IsIndex: true} }

// arrayIndex returns the index this segment addresses when applied to an
// array. Dotted numeric tokens ("items.0") address arrays too.
func (s Segment) arrayIndex() (int, bool) {
	if s.IsIndex {
		return s.Index, true
	}
	n, err := strconv.Atoi(s.Key)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// ParsePath splits a path on '.', '[' and ']' and drops empty tokens.
//
// Keys that themselves contain those characters cannot be addressed; such
// paths resolve to a different location and write-back creates it.
func ParsePath(path string) []Segment {
	var (
		segs       []Segment
		tok        strings.Builder
		inBrackets bool
	)

	flush := func() {
		if tok.Len() == 0 {
			return
		}
		text := tok.String()
		tok.Reset()
		if inBrackets {
			if n, err := strconv.Atoi(text); err == nil && n >= 0 {
				segs = append(segs, IndexSegment(n))
				return
			}
		}
		segs = append(segs, KeySegment(text))
	}

	for _, r := range path {
		switch r {
		case '.':
			flush()
		case '[':
			flush()
			inBrackets = true
		case ']':
			flush()
			inBrackets = false
		default:
			tok.WriteRune(r)
		}
	}
	flush()

	return segs
}

// FormatPath is the inverse of ParsePath for paths produced by
// ExtractFields.
func FormatPath(segs []Segment) string {
	var b strings.Builder
	for i, s := range segs {
		if s.IsIndex {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(s.Index))
			b.WriteByte(']')
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.Key)
	}
	return b.String()
}

func childKeyPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

func childIndexPath(parent string, i int) string {
	return parent + "[" + strconv.Itoa(i) + "]"
}
