package internal

import (
	"fmt"
	"regexp"
	"strings"
)

// PatternSet holds compiled keybind patterns in declaration order.
// Each compiled pattern carries exactly one capture group: the key name.
type PatternSet struct {
	patterns []*regexp.Regexp
	sources  []string
}

// CompilePatterns compiles the given pattern strings. Whole-word mode wraps
// each pattern in word-boundary assertions with a non-capturing group so the
// single-capture-group invariant is unaffected.
func CompilePatterns(patterns []string, caseInsensitive, wholeWord bool) (*PatternSet, error) {
	ps := &PatternSet{
		patterns: make([]*regexp.Regexp, 0, len(patterns)),
		sources:  make([]string, 0, len(patterns)),
	}
	for _, src := range patterns {
		expr := src
		if wholeWord {
			expr = `\b(?:` + expr + `)\b`
		}
		if caseInsensitive {
			expr = `(?i)` + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidPattern, src, err)
		}
		if n := re.NumSubexp(); n != 1 {
			return nil, fmt.Errorf("%w %q: expected exactly one capture group, got %d", ErrInvalidPattern, src, n)
		}
		ps.patterns = append(ps.patterns, re)
		ps.sources = append(ps.sources, src)
	}
	return ps, nil
}

// Len returns the number of compiled patterns.
func (ps *PatternSet) Len() int { return len(ps.patterns) }

// LineMatch is one pattern hit on one line of text.
type LineMatch struct {
	LineNumber  int // 1-based
	Line        string
	KeyName     string
	MatchedText string
}

// MatchLines runs every pattern against every line of text. Lines are
// numbered from 1. A line may yield several matches; they come out in
// pattern-declaration order, then left to right within a pattern.
func (ps *PatternSet) MatchLines(text string) []LineMatch {
	var out []LineMatch
	for i, line := range splitLines(text) {
		lineNo := i + 1
		for _, re := range ps.patterns {
			for _, loc := range re.FindAllStringSubmatchIndex(line, -1) {
				// loc[0:2] whole match, loc[2:4] the key-name group
				if loc[2] < 0 {
					continue
				}
				out = append(out, LineMatch{
					LineNumber:  lineNo,
					Line:        line,
					KeyName:     line[loc[2]:loc[3]],
					MatchedText: line[loc[0]:loc[1]],
				})
			}
		}
	}
	return out
}

// splitLines splits on \n and tolerates \r\n endings. A trailing newline
// does not produce a phantom empty last line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
