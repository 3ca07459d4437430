package parser

import (
	"gaut/internal/ast"
	"gaut/internal/token"
)

func (p *Parser) parseExpr() ast.Expr {
	return p.parseOr()
}

func (p *Parser) parseOr() ast.Expr {
	expr := p.parseAnd()
	for expr != nil && p.eat(token.OrOr) {
		right := p.parseAnd()
		if right == nil {
			return nil
		}
		expr = &ast.BinaryExpr{Left: expr, Op: ast.BinOr, Right: right}
	}
	return expr
}

func (p *Parser) parseAnd() ast.Expr {
	expr := p.parseEq()
	for expr != nil && p.eat(token.AndAnd) {
		right := p.parseEq()
		if right == nil {
			return nil
		}
		expr = &ast.BinaryExpr{Left: expr, Op: ast.BinAnd, Right: right}
	}
	return expr
}

func (p *Parser) parseEq() ast.Expr {
	expr := p.parseRel()
	for expr != nil && p.eat(token.EqEq) {
		right := p.parseRel()
		if right == nil {
			return nil
		}
		expr = &ast.BinaryExpr{Left: expr, Op: ast.BinEq, Right: right}
	}
	return expr
}

func (p *Parser) parseRel() ast.Expr {
	expr := p.parseAdd()
	for expr != nil && p.eat(token.Lt) {
		right := p.parseAdd()
		if right == nil {
			return nil
		}
		expr = &ast.BinaryExpr{Left: expr, Op: ast.BinLt, Right: right}
	}
	return expr
}

func (p *Parser) parseAdd() ast.Expr {
	expr := p.parseMul()
	for expr != nil {
		var op ast.BinaryOp
		switch {
		case p.eat(token.Plus):
			op = ast.BinAdd
		case p.eat(token.Minus):
			op = ast.BinSub
		default:
			return expr
		}
		right := p.parseMul()
		if right == nil {
			return nil
		}
		expr = &ast.BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) parseMul() ast.Expr {
	expr := p.parseUnary()
	for expr != nil {
		var op ast.BinaryOp
		switch {
		case p.eat(token.Star):
			op = ast.BinMul
		case p.eat(token.Slash):
			op = ast.BinDiv
		default:
			return expr
		}
		right := p.parseUnary()
		if right == nil {
			return nil
		}
		expr = &ast.BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) parseUnary() ast.Expr {
	if tok, ok := p.eatTok(token.Minus); ok {
		x := p.parseUnary()
		if x == nil {
			return nil
		}
		return &ast.UnaryExpr{Op: ast.UnaryNeg, X: x, Sp: tok.Span.Cover(x.Span())}
	}
	if tok, ok := p.eatTok(token.Bang); ok {
		x := p.parseUnary()
		if x == nil {
			return nil
		}
		return &ast.UnaryExpr{Op: ast.UnaryNot, X: x, Sp: tok.Span.Cover(x.Span())}
	}
	if tok, ok := p.eatTok(token.KwCopy); ok {
		x := p.parseUnary()
		if x == nil {
			return nil
		}
		return &ast.CopyExpr{X: x, Sp: tok.Span.Cover(x.Span())}
	}
	if tok, ok := p.eatTok(token.Amp); ok {
		x := p.parseUnary()
		if x == nil {
			return nil
		}
		return &ast.RefExpr{X: x, Sp: tok.Span.Cover(x.Span())}
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() ast.Expr {
	switch {
	case p.at(token.KwIf):
		return p.parseIf()
	case p.at(token.LBrace):
		return p.parseBraced()
	case p.at(token.IntLit):
		tok := p.advance()
		return &ast.IntLit{Value: tok.Int, Sp: tok.Span}
	case p.at(token.StringLit):
		tok := p.advance()
		return &ast.StrLit{Value: tok.Text, Sp: tok.Span}
	case p.at(token.KwTrue), p.at(token.KwFalse):
		tok := p.advance()
		return &ast.BoolLit{Value: tok.Kind == token.KwTrue, Sp: tok.Span}
	case p.at(token.LParen):
		p.advance()
		expr := p.parseExpr()
		if expr == nil {
			return nil
		}
		if !p.expect(token.RParen, "')' to close expression") {
			return nil
		}
		return expr
	case p.at(token.Ident):
		return p.parsePathOrCall()
	}
	p.fail("expected expression")
	return nil
}

func (p *Parser) parseIf() ast.Expr {
	tok := p.advance() // if
	cond := p.parseExpr()
	if cond == nil {
		return nil
	}
	if !p.expect(token.KwThen, "'then' in if expression") {
		return nil
	}
	then := p.parseExpr()
	if then == nil {
		return nil
	}
	if !p.expect(token.KwElse, "'else' in if expression") {
		return nil
	}
	els := p.parseExpr()
	if els == nil {
		return nil
	}
	return &ast.IfExpr{Cond: cond, Then: then, Else: els, Sp: tok.Span.Cover(els.Span())}
}

// parseBraced disambiguates record literals from blocks. Both may start
// '{ ident :', so the lookahead has to scan past the first field/binding.
func (p *Parser) parseBraced() ast.Expr {
	if p.looksLikeRecordLit() {
		return p.parseRecordLit()
	}
	if p.atNext(token.RBrace) {
		// empty braces: a unit-valued block
		open := p.advance()
		closing := p.advance()
		return &ast.BlockExpr{Block: &ast.Block{Sp: open.Span.Cover(closing.Span)}}
	}
	block := p.parseBlock()
	if block == nil {
		return nil
	}
	return &ast.BlockExpr{Block: block}
}

// looksLikeRecordLit reports whether the '{' at the current position opens
// a record literal rather than a block. After '{ ident :' the two shapes
// diverge at the first top-level token that ends the field: ',' or '}'
// closes a record field, while '=' means the colon annotated a binding
// ('{ x: i32 = 1 ... }' is a block). Nested parens and braces are skipped.
func (p *Parser) looksLikeRecordLit() bool {
	if !p.atNext(token.Ident) || p.pos+2 >= len(p.toks) || p.toks[p.pos+2].Kind != token.Colon {
		return false
	}
	depthParen, depthBrace := 0, 0
	for i := p.pos + 3; i < len(p.toks); i++ {
		switch p.toks[i].Kind {
		case token.LParen:
			depthParen++
		case token.RParen:
			if depthParen > 0 {
				depthParen--
			}
		case token.LBrace:
			depthBrace++
		case token.RBrace:
			if depthBrace == 0 && depthParen == 0 {
				return true
			}
			depthBrace--
		case token.Comma:
			if depthBrace == 0 && depthParen == 0 {
				return true
			}
		case token.Assign:
			if depthBrace == 0 && depthParen == 0 {
				return false
			}
		case token.EOF:
			return false
		}
	}
	return false
}

func (p *Parser) parseRecordLit() ast.Expr {
	open := p.advance() // {
	var fields []ast.FieldInit
	for {
		name, ok := p.expectIdent("field name")
		if !ok {
			return nil
		}
		if !p.expect(token.Colon, "':' after field name") {
			return nil
		}
		value := p.parseExpr()
		if value == nil {
			return nil
		}
		fields = append(fields, ast.FieldInit{Name: name, Value: value})
		if !p.eat(token.Comma) {
			break
		}
	}
	closing := p.peek().Span
	if !p.expect(token.RBrace, "'}' to close record literal") {
		return nil
	}
	return &ast.RecordLit{Fields: fields, Sp: open.Span.Cover(closing)}
}

func (p *Parser) parseBlock() *ast.Block {
	open := p.peek()
	if !p.expect(token.LBrace, "'{' to start block") {
		return nil
	}
	block := &ast.Block{Sp: open.Span}
	for {
		if tok, ok := p.eatTok(token.RBrace); ok {
			block.Sp = block.Sp.Cover(tok.Span)
			return block
		}
		if p.at(token.EOF) {
			p.fail("unexpected end of file inside block")
			return nil
		}
		stmt := p.parseStmt()
		if stmt == nil {
			return nil
		}
		if tok, ok := p.eatTok(token.RBrace); ok {
			// a trailing expression statement becomes the block's tail value
			if es, isExpr := stmt.(*ast.ExprStmt); isExpr {
				block.Tail = es.X
			} else {
				block.Stmts = append(block.Stmts, stmt)
			}
			block.Sp = block.Sp.Cover(tok.Span)
			return block
		}
		block.Stmts = append(block.Stmts, stmt)
	}
}

func (p *Parser) parseStmt() ast.Stmt {
	if p.eat(token.KwMut) {
		b := p.parseBinding(true)
		if b == nil {
			return nil
		}
		return &ast.BindingStmt{Binding: b}
	}
	if p.at(token.Ident) && p.atNext(token.Colon) {
		b := p.parseBinding(false)
		if b == nil {
			return nil
		}
		return &ast.BindingStmt{Binding: b}
	}

	// assignment: Path '=' Expr. Rewind when '=' does not follow a path.
	if p.at(token.Ident) {
		save := p.pos
		path := p.parsePath()
		if tok, ok := p.eatTok(token.Assign); ok {
			value := p.parseExpr()
			if value == nil {
				return nil
			}
			return &ast.AssignStmt{Target: path, Value: value, Sp: tok.Span.Cover(value.Span())}
		}
		p.pos = save
	}

	expr := p.parseExpr()
	if expr == nil {
		return nil
	}
	return &ast.ExprStmt{X: expr}
}

func (p *Parser) parsePath() ast.Path {
	var path ast.Path
	for {
		tok := p.advance()
		path.Idents = append(path.Idents, ast.Ident{Name: tok.Text, Sp: tok.Span})
		if !p.at(token.Dot) || !p.atNext(token.Ident) {
			return path
		}
		p.advance() // dot
	}
}

func (p *Parser) parsePathOrCall() ast.Expr {
	path := p.parsePath()
	if p.at(token.LParen) {
		p.advance()
		var args []ast.Expr
		if !p.at(token.RParen) {
			for {
				arg := p.parseExpr()
				if arg == nil {
					return nil
				}
				args = append(args, arg)
				if !p.eat(token.Comma) {
					break
				}
			}
		}
		closing := p.peek().Span
		if !p.expect(token.RParen, "')' to close call") {
			return nil
		}
		return &ast.CallExpr{Callee: path, Args: args, Sp: path.Span().Cover(closing)}
	}
	return &ast.PathExpr{Path: path}
}
