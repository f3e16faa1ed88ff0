package quill

import "strings"

// parseExpr is the expression entry point: cascading precedence-climbing
// over logical/comparison/additive/multiplicative/unary/postfix/atom
// (spec.md §4.2). Grounded on pongo2 parser_expression.go's cascade
// (Expression -> relationalExpression -> simpleExpression -> term ->
// power -> factor), adapted to this grammar's operator set.
func (p *Parser) parseExpr() Node {
	return p.parseLogical()
}

func (p *Parser) parseLogical() Node {
	left := p.parseComparison()
	for p.isKeyword("and") || p.isKeyword("or") {
		op := p.advance().Val
		start, _ := left.Span()
		right := p.parseComparison()
		left = &InfixNode{NodeBase: p.nb(start, p.cur().Start), Op: op, L: left, R: right}
	}
	return left
}

var comparisonOps = map[string]bool{
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
}

func (p *Parser) parseComparison() Node {
	left := p.parseAdditive()
	for p.cur().Kind == TokOperator && comparisonOps[p.cur().Val] {
		op := p.advance().Val
		start, _ := left.Span()
		right := p.parseAdditive()
		left = &InfixNode{NodeBase: p.nb(start, p.cur().Start), Op: op, L: left, R: right}
	}
	return left
}

func (p *Parser) parseAdditive() Node {
	left := p.parseMultiplicative()
	for p.cur().Kind == TokOperator && (p.cur().Val == "+" || p.cur().Val == "-") {
		op := p.advance().Val
		start, _ := left.Span()
		right := p.parseMultiplicative()
		left = &InfixNode{NodeBase: p.nb(start, p.cur().Start), Op: op, L: left, R: right}
	}
	return left
}

func (p *Parser) parseMultiplicative() Node {
	left := p.parseUnary()
	for p.cur().Kind == TokOperator && (p.cur().Val == "*" || p.cur().Val == "/" || p.cur().Val == "%") {
		op := p.advance().Val
		start, _ := left.Span()
		right := p.parseUnary()
		left = &InfixNode{NodeBase: p.nb(start, p.cur().Start), Op: op, L: left, R: right}
	}
	return left
}

func (p *Parser) parseUnary() Node {
	if p.cur().Kind == TokOperator && p.cur().Val == "-" {
		start := p.advance().Start
		x := p.parseUnary()
		return &PrefixNode{NodeBase: p.nb(start, p.cur().Start), Op: "-", X: x}
	}
	if p.isKeyword("not") {
		start := p.advance().Start
		x := p.parseUnary()
		return &PrefixNode{NodeBase: p.nb(start, p.cur().Start), Op: "not", X: x}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() Node {
	expr := p.parseAtom()
	for {
		switch {
		case p.isOp("."):
			p.advance()
			name, _, _ := p.expectName()
			suppress := p.consumeSuppress()
			start, _ := expr.Span()
			expr = &DotNode{NodeBase: p.nb(start, p.cur().Start), Target: expr, Name: name, Suppress: suppress}
		case p.isPunct("["):
			p.advance()
			idx := p.parseExpr()
			p.expectPunct("]")
			suppress := p.consumeSuppress()
			start, _ := expr.Span()
			expr = &SubscriptNode{NodeBase: p.nb(start, p.cur().Start), Target: expr, Index: idx, Suppress: suppress}
		case p.isPunct("("):
			p.advance()
			var args []Node
			for !p.isPunct(")") && !p.atEOF() {
				args = append(args, p.parseExpr())
				if p.isOp(",") {
					p.advance()
				} else {
					break
				}
			}
			p.expectPunct(")")
			start, _ := expr.Span()
			expr = &AppNode{NodeBase: p.nb(start, p.cur().Start), Callee: expr, Args: args}
		case p.isOp("?"):
			p.advance()
			expr = p.markSuppress(expr)
		default:
			return expr
		}
	}
}

// consumeSuppress consumes a trailing '?' if present, reporting whether
// one was found, for use directly on the dot/subscript node just built.
func (p *Parser) consumeSuppress() bool {
	if p.isOp("?") {
		p.advance()
		return true
	}
	return false
}

// markSuppress sets the Suppress flag on a name/dot/subscript node; for
// anything else in the postfix chain (e.g. a '?' following a call) there
// is no lvalue field to flip, so it falls back to wrapping in a
// SuppressNode.
func (p *Parser) markSuppress(n Node) Node {
	switch t := n.(type) {
	case *NameNode:
		t.Suppress = true
		return t
	case *DotNode:
		t.Suppress = true
		return t
	case *SubscriptNode:
		t.Suppress = true
		return t
	default:
		start, end := n.Span()
		return &SuppressNode{NodeBase: p.nb(start, end), X: n}
	}
}

func (p *Parser) parseAtom() Node {
	tok := p.cur()
	switch {
	case tok.Kind == TokInt:
		p.advance()
		return &IntLit{NodeBase: p.nb(tok.Start, tok.End), Value: tok.IntVal}
	case tok.Kind == TokFloat:
		p.advance()
		return &FloatLit{NodeBase: p.nb(tok.Start, tok.End), Value: tok.FloatVal}
	case tok.Kind == TokString:
		p.advance()
		return &StringLit{NodeBase: p.nb(tok.Start, tok.End), Parts: []StringPart{{Text: tok.Val}}}
	case tok.Kind == TokStartQuote:
		return p.parseInterpString()
	case tok.Kind == TokName:
		p.advance()
		sym := Intern(tok.Val)
		p.noteRef(sym)
		suppress := p.consumeSuppress()
		return &NameNode{NodeBase: p.nb(tok.Start, tok.End), Name: sym, Suppress: suppress}
	case tok.Kind == TokPunct && tok.Val == "(":
		p.advance()
		inner := p.parseExpr()
		if p.isOp(",") {
			items := []Node{inner}
			for p.isOp(",") {
				p.advance()
				if p.isPunct(")") {
					break
				}
				items = append(items, p.parseExpr())
			}
			p.expectPunct(")")
			return &TupleNode{NodeBase: p.nb(tok.Start, p.cur().Start), Items: items}
		}
		p.expectPunct(")")
		return inner
	case tok.Kind == TokPunct && tok.Val == "[":
		return p.parseListLit()
	case tok.Kind == TokPunct && tok.Val == "{":
		return p.parseObjectLit()
	case tok.Kind == TokKeyword && tok.Val == "fn":
		return p.parseFuncLiteral()
	default:
		p.errorHere("expected an expression, found " + describeToken(tok))
		p.advance()
		return &NameNode{NodeBase: p.nb(tok.Start, tok.End), Name: Intern("?")}
	}
}

func describeToken(t *Token) string {
	if t.Kind == TokEOF {
		return "end of input"
	}
	var b strings.Builder
	b.WriteByte('"')
	b.WriteString(t.Val)
	b.WriteByte('"')
	return b.String()
}

func (p *Parser) parseListLit() Node {
	start := p.advance().Start // '['
	var items []Node
	for !p.isPunct("]") && !p.atEOF() {
		items = append(items, p.parseExpr())
		if p.isOp(",") {
			p.advance()
		} else {
			break
		}
	}
	p.expectPunct("]")
	return &ListLit{NodeBase: p.nb(start, p.cur().Start), Items: items}
}

func (p *Parser) parseObjectLit() Node {
	start := p.advance().Start // '{'
	var keys, vals []Node
	for !p.isPunct("}") && !p.atEOF() {
		var key Node
		if p.isPunct("(") {
			p.advance()
			key = p.parseExpr()
			p.expectPunct(")")
		} else {
			name, kstart, _ := p.expectName()
			key = &ObjectKeyNode{NodeBase: p.nb(kstart, p.cur().Start), Name: name}
		}
		if p.isOp(":") {
			p.advance()
		} else {
			p.errorHere("expected \":\", found " + describeToken(p.cur()))
		}
		val := p.parseExpr()
		keys = append(keys, key)
		vals = append(vals, val)
		if p.isOp(",") {
			p.advance()
		} else {
			break
		}
	}
	p.expectPunct("}")
	return &ObjectLit{NodeBase: p.nb(start, p.cur().Start), Keys: keys, Values: vals}
}

// parseInterpString parses a double-quoted string's TokStartQuote ...
// (TokText | embedded-expr) ... TokEndQuote sequence into a StringLit
// with one StringPart per literal run / interpolation (spec.md §6).
func (p *Parser) parseInterpString() Node {
	start := p.advance().Start // TokStartQuote
	var parts []StringPart
	for {
		tok := p.cur()
		switch {
		case tok.Kind == TokText:
			p.advance()
			parts = append(parts, StringPart{Text: tok.Val})
		case tok.Kind == TokEndQuote:
			p.advance()
			return &StringLit{NodeBase: p.nb(start, tok.End), Parts: parts}
		case tok.Kind == TokPunct && tok.Val == "{":
			p.advance() // consume the interpolation-opening '{'
			expr := p.parseExpr()
			p.expectPunct("}")
			parts = append(parts, StringPart{Expr: expr})
		case tok.Kind == TokEOF:
			p.errorAt(tok.Start, "unterminated string")
			return &StringLit{NodeBase: p.nb(start, tok.Start), Parts: parts}
		default:
			p.errorHere("unexpected token inside string")
			p.advance()
		}
	}
}
