// Package indent re-indents flat, bracket-annotated text.
//
// The engine is line oriented and knows nothing about the grammar it formats.
// It tracks four scoping tokens: an opening and closing bracket, a quote, and
// the pipe used for cardinality intervals. Brackets inside quotes or pipes do
// not change depth. Unbalanced input is not rejected: indentation simply drifts
// for the lines that follow.
//
//	e := indent.New(indent.WithUnit("\t"))
//	out := e.Format("a = <\nb = <\"x < y\">\n>")
//	// a = <
//	// 	b = <"x < y">
//	// >
package indent

import "strings"

// Tokens is the set of scoping characters the engine tracks
type Tokens struct {
	Open  rune
	Close rune
	Quote rune
	Pipe  rune
}

// AngleTokens scope ODIN/BMM style sections: < > " |
var AngleTokens = Tokens{Open: '<', Close: '>', Quote: '"', Pipe: '|'}

// BraceTokens scope cADL definition blocks: { } " |
var BraceTokens = Tokens{Open: '{', Close: '}', Quote: '"', Pipe: '|'}

// Engine formats text. It holds no state between Format calls and is safe for concurrent use.
type Engine struct {
	tokens    Tokens
	unit      string
	baseDepth int
}

// Option configures an Engine
type Option func(*Engine)

// WithTokens selects the scoping characters (default AngleTokens)
func WithTokens(t Tokens) Option {
	return func(e *Engine) {
		e.tokens = t
	}
}

// WithUnit sets the string repeated once per depth level (default tab)
func WithUnit(unit string) Option {
	return func(e *Engine) {
		e.unit = unit
	}
}

// WithBaseDepth indents every line by an extra fixed number of units
func WithBaseDepth(depth int) Option {
	return func(e *Engine) {
		e.baseDepth = depth
	}
}

// New creates an Engine
func New(opts ...Option) *Engine {
	e := &Engine{
		tokens: AngleTokens,
		unit:   "\t",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Format strips leading whitespace from every line and re-indents it by the
// scoping depth reached before the line. A line consisting only of the close
// token sits one level shallower, since it ends its own scope. Blank lines stay
// empty.
func (e *Engine) Format(text string) string {
	s := &scope{tokens: e.tokens}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			lines[i] = ""
			continue
		}

		depth := s.depth
		if strings.TrimSpace(trimmed) == string(e.tokens.Close) && !s.inQuote {
			depth--
		}
		if depth < 0 {
			depth = 0
		}
		lines[i] = strings.Repeat(e.unit, e.baseDepth+depth) + trimmed
		s.scan(trimmed)
	}
	return strings.Join(lines, "\n")
}

// scope is the automaton state carried across the lines of one Format call
type scope struct {
	tokens  Tokens
	stack   []rune
	depth   int
	inQuote bool
	inPipe  bool
}

func (s *scope) top() rune {
	if len(s.stack) == 0 {
		return 0
	}
	return s.stack[len(s.stack)-1]
}

func (s *scope) push(r rune) {
	s.stack = append(s.stack, r)
}

func (s *scope) pop() {
	if len(s.stack) > 0 {
		s.stack = s.stack[:len(s.stack)-1]
	}
}

// scan applies every scoping token in line, left to right
func (s *scope) scan(line string) {
	t := s.tokens
	for _, r := range line {
		switch r {
		case t.Quote:
			if s.inPipe {
				continue
			}
			if s.inQuote {
				s.pop()
				s.inQuote = false
			} else {
				s.push(r)
				s.inQuote = true
			}
		case t.Pipe:
			if s.inQuote {
				continue
			}
			if s.inPipe {
				s.pop()
				s.inPipe = false
			} else {
				s.push(r)
				s.inPipe = true
			}
		case t.Open:
			if s.inQuote || s.inPipe {
				continue
			}
			s.push(r)
			s.depth++
		case t.Close:
			if s.inQuote || s.inPipe {
				continue
			}
			if s.top() == t.Open {
				s.pop()
				s.depth--
			} else {
				// unmatched close: keep it on the stack, depth is unchanged
				s.push(r)
			}
		}
	}
}
