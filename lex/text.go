package lex

import (
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"
)

// Text is an immutable view of the input at some offset. Every transition
// returns a new Text, so holding on to an earlier value is all it takes to
// come back to it.
type Text struct {
	input  string
	offset int
	lines  *lineIndex
}

// lineIndex records the offset at which every line of an input starts. It
// is built on first use and shared by every Text derived from the same input.
type lineIndex struct {
	once   sync.Once
	starts []int
}

// NewText returns a Text positioned at the start of input.
func NewText(input string) Text {
	return Text{input: input, lines: &lineIndex{}}
}

// Peek returns up to n bytes following the current offset without advancing.
func (t Text) Peek(n int) string {
	end := t.offset + n
	if end > len(t.input) {
		end = len(t.input)
	}
	return t.input[t.offset:end]
}

// Advance returns the text n bytes further along. Advancing past the end
// stops at the end.
func (t Text) Advance(n int) Text {
	next := t
	next.offset += n
	if next.offset > len(t.input) {
		next.offset = len(t.input)
	}
	return next
}

// Offset is the byte offset into the original input.
func (t Text) Offset() int {
	return t.offset
}

// Rest returns the unread part of the input.
func (t Text) Rest() string {
	return t.input[t.offset:]
}

// EndOfInput reports whether there is nothing left to read.
func (t Text) EndOfInput() bool {
	return t.offset >= len(t.input)
}

// Match tries re anchored at the current offset. The expression must have
// been compiled with a leading \A (see anchor); anything else may match
// further along the input and is rejected.
func (t Text) Match(re *regexp.Regexp) MatchResult {
	if t.EndOfInput() {
		return MatchResult{}
	}
	loc := re.FindStringIndex(t.input[t.offset:])
	if loc == nil || loc[0] != 0 {
		return MatchResult{}
	}
	return MatchResult{Success: true, Value: t.input[t.offset : t.offset+loc[1]]}
}

// Position computes the line and column of the current offset.
func (t Text) Position() Position {
	lines := t.lineStarts()
	// index of the last line start <= offset
	line := sort.Search(len(lines), func(i int) bool { return lines[i] > t.offset }) - 1
	column := utf8.RuneCountInString(t.input[lines[line]:t.offset]) + 1
	return Position{Line: line + 1, Column: column}
}

func (t Text) String() string {
	return t.Rest()
}

func (t Text) lineStarts() []int {
	if t.lines == nil {
		return computeLineStarts(t.input)
	}
	t.lines.once.Do(func() {
		t.lines.starts = computeLineStarts(t.input)
	})
	return t.lines.starts
}

func computeLineStarts(input string) []int {
	starts := []int{0}
	for i := 0; ; {
		j := strings.IndexByte(input[i:], '\n')
		if j < 0 {
			break
		}
		i += j + 1
		starts = append(starts, i)
	}
	return starts
}

// MatchResult is the outcome of matching a pattern at a Text's offset.
type MatchResult struct {
	Success bool
	Value   string
}

// anchor compiles expr so that it only matches at the start of the input.
func anchor(expr string) (*regexp.Regexp, error) {
	return regexp.Compile(`\A(?:` + expr + `)`)
}
