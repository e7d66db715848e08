package engine

import (
	"math"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"
)

// Halstead holds the operator/operand counts of a source file and the
// measures derived from them.
type Halstead struct {
	DistinctOperators int `json:"distinctOperators"`
	DistinctOperands  int `json:"distinctOperands"`
	TotalOperators    int `json:"totalOperators"`
	TotalOperands     int `json:"totalOperands"`

	// Functions counts function keywords, arrows and method shorthands.
	Functions int `json:"functions"`
}

// Vocabulary is n1 + n2.
func (h Halstead) Vocabulary() int { return h.DistinctOperators + h.DistinctOperands }

// Length is N1 + N2.
func (h Halstead) Length() int { return h.TotalOperators + h.TotalOperands }

// Volume is N * log2(n).
func (h Halstead) Volume() float64 {
	n := h.Vocabulary()
	if n == 0 {
		return 0
	}
	return float64(h.Length()) * math.Log2(float64(n))
}

// Difficulty is (n1 / 2) * (N2 / n2).
func (h Halstead) Difficulty() float64 {
	if h.DistinctOperands == 0 {
		return 0
	}
	return float64(h.DistinctOperators) / 2 * float64(h.TotalOperands) / float64(h.DistinctOperands)
}

// Effort is Difficulty * Volume.
func (h Halstead) Effort() float64 { return h.Difficulty() * h.Volume() }

// keywords are counted as operators rather than operands.
var keywords = map[string]bool{
	"await": true, "break": true, "case": true, "catch": true, "class": true,
	"const": true, "continue": true, "debugger": true, "default": true,
	"delete": true, "do": true, "else": true, "export": true, "extends": true,
	"finally": true, "for": true, "function": true, "if": true, "import": true,
	"in": true, "instanceof": true, "let": true, "new": true, "of": true,
	"return": true, "static": true, "super": true, "switch": true, "throw": true,
	"try": true, "typeof": true, "var": true, "void": true, "while": true,
	"with": true, "yield": true, "async": true,
}

// controlWords look like calls when followed by "(" but never start a method.
var controlWords = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "catch": true,
	"with": true, "function": true, "return": true, "typeof": true,
}

// valueWords end an expression, so a following "/" is division.
var valueWords = map[string]bool{
	"this": true, "super": true, "true": true, "false": true, "null": true,
	"undefined": true,
}

// MeasureHalstead tokenizes src and counts Halstead operators and operands.
// Lexing stops at the first error; counts up to that point are kept.
func MeasureHalstead(src []byte) Halstead {
	var (
		h         Halstead
		operators = map[string]int{}
		operands  = map[string]int{}
		prev      []string // last significant tokens, most recent last
		depth     int      // nesting of "(" since a candidate method name
		candidate bool
	)

	l := js.NewLexer(parse.NewInputBytes(src))
	for {
		tt, data := l.Next()
		if tt == js.ErrorToken {
			break
		}
		switch tt {
		case js.WhitespaceToken, js.LineTerminatorToken, js.CommentToken, js.CommentLineTerminatorToken:
			continue
		}

		text := string(data)
		if (text == "/" || text == "/=") && !endsOperand(prev) {
			rt, re := l.RegExp()
			if rt == js.ErrorToken {
				break
			}
			tt, text = rt, string(re)
		}

		operator := js.IsPunctuator(tt) || js.IsOperator(tt) || keywords[text]
		if operator {
			operators[text]++
			h.TotalOperators++
		} else {
			operands[text]++
			h.TotalOperands++
		}

		// Function detection: `function`, `=>` and `name(...) {`.
		switch {
		case text == "function" || text == "=>":
			h.Functions++
			candidate = false
		case text == "(" && !candidate && isMethodName(prev):
			candidate, depth = true, 1
		case candidate && text == "(":
			depth++
		case candidate && text == ")":
			depth--
		case candidate && depth == 0:
			if text == "{" {
				h.Functions++
			}
			candidate = false
		}

		prev = append(prev, text)
		if len(prev) > 2 {
			prev = prev[1:]
		}
	}

	h.DistinctOperators = len(operators)
	h.DistinctOperands = len(operands)
	return h
}

// isMethodName reports whether the last token can name a method shorthand:
// an identifier that is not a control keyword and does not follow "function".
func isMethodName(prev []string) bool {
	if len(prev) == 0 {
		return false
	}
	name := prev[len(prev)-1]
	if !isIdentifier(name) || controlWords[name] || keywords[name] && name != "async" {
		return false
	}
	if len(prev) > 1 && prev[len(prev)-2] == "function" {
		return false
	}
	return true
}

// endsOperand reports whether the previous token closes an expression.
func endsOperand(prev []string) bool {
	if len(prev) == 0 {
		return false
	}
	last := prev[len(prev)-1]
	switch last {
	case ")", "]", "}":
		return true
	}
	if valueWords[last] {
		return true
	}
	if keywords[last] {
		return false
	}
	c := last[0]
	return isIdentStart(c) || c >= '0' && c <= '9' || c == '"' || c == '\'' || c == '`'
}

func isIdentifier(s string) bool {
	if s == "" || !isIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if !isIdentStart(c) && !(c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= 0x80
}
