package quill

import "fmt"

// Pos is a 1-based source position (spec.md §3).
type Pos struct {
	Line int
	Col  int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// TokenKind classifies a Token (spec.md §3).
type TokenKind int

const (
	TokName TokenKind = iota
	TokKeyword
	TokOperator
	TokString
	TokInt
	TokFloat
	TokText
	TokNewline
	TokStartQuote
	TokEndQuote
	TokPunct
	TokEOF
)

func (k TokenKind) String() string {
	switch k {
	case TokName:
		return "name"
	case TokKeyword:
		return "keyword"
	case TokOperator:
		return "operator"
	case TokString:
		return "string"
	case TokInt:
		return "int"
	case TokFloat:
		return "float"
	case TokText:
		return "text"
	case TokNewline:
		return "newline"
	case TokStartQuote:
		return "start-quote"
	case TokEndQuote:
		return "end-quote"
	case TokPunct:
		return "punctuation"
	case TokEOF:
		return "eof"
	default:
		return "unknown"
	}
}

// Token is a single lexical element produced by the Lexer; it carries a
// module reference so the parser and evaluator can attribute errors and
// AST spans back to a source file even once tokens are scattered across
// AST nodes (spec.md §3).
type Token struct {
	Kind TokenKind

	// Val is the token's payload: the identifier/keyword/operator text,
	// the (already-unescaped) string content, the raw numeral text, or
	// the literal text run.
	Val string

	// IntVal/FloatVal hold the parsed numeral for TokInt/TokFloat tokens.
	IntVal   int64
	FloatVal float64

	Module *Module
	Start  Pos
	End    Pos

	// Err is set when this token represents (or immediately follows) a
	// lexical error; ErrMsg carries the diagnostic text.
	Err    bool
	ErrMsg string
}

func (t *Token) String() string {
	return fmt.Sprintf("<%s %q %s-%s>", t.Kind, t.Val, t.Start, t.End)
}

// keywords lists the language's reserved words (spec.md §4.1).
var keywords = map[string]bool{
	"if": true, "else": true, "for": true, "in": true, "switch": true,
	"case": true, "default": true, "end": true, "fn": true, "and": true,
	"or": true, "not": true, "do": true, "return": true, "break": true,
	"continue": true, "export": true,
}

// operatorSymbols lists recognized operator/punctuation runs, ordered
// longest-first for greedy matching (mirrors pongo2's TokenSymbols).
// "->" is recognized by the lexer (spec.md §4.1 lists it among the
// two-character combinations) but has no grammar production consuming
// it yet; spec.md leaves its purpose unspecified.
// ";" is not listed among spec.md §4.1's operator characters but is
// required by its own grammar sketch ("command := statement (';' |
// NEWLINE)*"); it is lexed here as an ordinary operator token so the
// parser can treat it exactly like a statement-separating NEWLINE.
var operatorSymbols = []string{
	"-=", "->", "+=", "*=", "/=", "<=", ">=", "==", "!=",
	"+", "-", "*", "/", "%", "!", "<", ">", "=", "|", ".", ",", ":", ";", "?",
}

var punctSymbols = []string{"(", ")", "[", "]", "{", "}"}
