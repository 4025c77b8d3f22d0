package document

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

// SyntaxError is a parse failure located in the document source
type SyntaxError struct {
	Span Span
	Err  error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %d:%d: %v", e.Span.Line+1, e.Span.Column+1, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// lines maps byte offsets to line/column pairs
type lines []int

func newLines(data []byte) lines {
	starts := lines{0}
	for i, b := range data {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// span returns the span of a byte offset
func (l lines) span(offset int) Span {
	line := sort.Search(len(l), func(i int) bool { return l[i] > offset }) - 1
	if line < 0 {
		line = 0
	}
	return Span{Offset: offset, Line: line, Column: offset - l[line]}
}

// at returns the span of a zero-based line and byte column
func (l lines) at(line, column int) Span {
	if line < 0 {
		line = 0
	}
	if line >= len(l) {
		line = len(l) - 1
	}
	return Span{Offset: l[line] + column, Line: line, Column: column}
}

var yamlLinePattern = regexp.MustCompile(`line (\d+)`)

// yamlErrorSpan pulls the line out of a yaml.v3 error message
func yamlErrorSpan(err error, l lines) Span {
	m := yamlLinePattern.FindStringSubmatch(err.Error())
	if m == nil {
		return Span{}
	}
	n, convErr := strconv.Atoi(m[1])
	if convErr != nil {
		return Span{}
	}
	return l.at(n-1, 0)
}

// AsSyntaxError reports whether err carries a source location
func AsSyntaxError(err error) (*SyntaxError, bool) {
	var syntax *SyntaxError
	if errors.As(err, &syntax) {
		return syntax, true
	}
	return nil, false
}
