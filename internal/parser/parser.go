// Package parser builds the Gaut AST via recursive descent.
package parser

import (
	"fmt"

	"gaut/internal/ast"
	"gaut/internal/diag"
	"gaut/internal/lexer"
	"gaut/internal/source"
	"gaut/internal/token"
)

// Parser consumes one file's token stream. Errors go to the reporter; the
// first syntax error aborts the file since the grammar has no recovery
// points worth the complexity.
type Parser struct {
	toks     []token.Token
	pos      int
	reporter diag.Reporter
	failed   bool
}

// ParseFile lexes and parses one file into its declaration list.
func ParseFile(file *source.File, reporter diag.Reporter) (*ast.Program, bool) {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	toks := lexer.New(file, reporter).Tokenize()
	p := &Parser{toks: toks, reporter: reporter}
	prog := p.parseProgram()
	return prog, !p.failed
}

func (p *Parser) parseProgram() *ast.Program {
	prog := &ast.Program{}
	for !p.at(token.EOF) && !p.failed {
		decl := p.parseDecl()
		if decl == nil {
			break
		}
		prog.Decls = append(prog.Decls, decl)
	}
	return prog
}

func (p *Parser) parseDecl() ast.Decl {
	switch {
	case p.eat(token.KwImport):
		name, ok := p.expectIdent("module name")
		if !ok {
			return nil
		}
		return &ast.ImportDecl{Module: name, Sp: name.Sp}

	case p.eat(token.KwGlobal):
		b := p.parseBinding(p.eat(token.KwMut))
		if b == nil {
			return nil
		}
		return &ast.GlobalDecl{Binding: b}

	case p.eat(token.KwType):
		name, ok := p.expectIdent("type name")
		if !ok {
			return nil
		}
		if !p.expect(token.Assign, "'=' after type name") {
			return nil
		}
		ty := p.parseType()
		if ty == nil {
			return nil
		}
		return &ast.TypeDecl{Name: name, Ty: ty, Sp: name.Sp.Cover(ty.Span())}
	}

	// function: ident '(' ... ; otherwise a top-level binding
	if p.at(token.Ident) && p.atNext(token.LParen) {
		return p.parseFunc()
	}
	mut := p.eat(token.KwMut)
	b := p.parseBinding(mut)
	if b == nil {
		return nil
	}
	return &ast.LetDecl{Binding: b}
}

func (p *Parser) parseFunc() ast.Decl {
	name, _ := p.expectIdent("function name")
	p.expect(token.LParen, "'(' after function name")
	var params []ast.Param
	if !p.at(token.RParen) {
		for {
			mut := p.eat(token.KwMut)
			pname, ok := p.expectIdent("parameter name")
			if !ok {
				return nil
			}
			if p.at(token.Comma) || p.at(token.RParen) {
				p.failMissingType(pname, "parameter")
				return nil
			}
			if !p.expect(token.Colon, "':' after parameter name") {
				return nil
			}
			ty := p.parseType()
			if ty == nil {
				return nil
			}
			params = append(params, ast.Param{Mutable: mut, Name: pname, Ty: ty})
			if !p.eat(token.Comma) {
				break
			}
		}
	}
	if !p.expect(token.RParen, "')' after parameters") {
		return nil
	}
	var ret ast.TypeExpr
	if p.eat(token.Arrow) {
		ret = p.parseType()
		if ret == nil {
			return nil
		}
	}
	if !p.expect(token.Assign, "'=' before function body") {
		return nil
	}
	body := p.parseExpr()
	if body == nil {
		return nil
	}
	return &ast.FuncDecl{
		Name:   name,
		Params: params,
		Ret:    ret,
		Body:   body,
		Sp:     name.Sp.Cover(body.Span()),
	}
}

func (p *Parser) parseBinding(mutable bool) *ast.Binding {
	name, ok := p.expectIdent("binding name")
	if !ok {
		return nil
	}
	if p.at(token.Assign) {
		p.failMissingType(name, "binding")
		return nil
	}
	if !p.expect(token.Colon, "':' after binding name") {
		return nil
	}
	ty := p.parseType()
	if ty == nil {
		return nil
	}
	if !p.expect(token.Assign, "'=' after binding type") {
		return nil
	}
	value := p.parseExpr()
	if value == nil {
		return nil
	}
	return &ast.Binding{
		Mutable: mutable,
		Name:    name,
		Ty:      ty,
		Value:   value,
		Sp:      name.Sp.Cover(value.Span()),
	}
}

func (p *Parser) parseType() ast.TypeExpr {
	if tok, ok := p.eatTok(token.Amp); ok {
		elem := p.parseType()
		if elem == nil {
			return nil
		}
		return &ast.RefType{Elem: elem, Sp: tok.Span.Cover(elem.Span())}
	}
	if tok, ok := p.eatTok(token.LBrace); ok {
		var fields []ast.FieldType
		if !p.at(token.RBrace) {
			for {
				name, ok := p.expectIdent("field name")
				if !ok {
					return nil
				}
				if !p.expect(token.Colon, "':' after field name") {
					return nil
				}
				ty := p.parseType()
				if ty == nil {
					return nil
				}
				fields = append(fields, ast.FieldType{Name: name, Ty: ty})
				if !p.eat(token.Comma) {
					break
				}
			}
		}
		end := p.peek().Span
		if !p.expect(token.RBrace, "'}' to close record type") {
			return nil
		}
		return &ast.RecordType{Fields: fields, Sp: tok.Span.Cover(end)}
	}
	name, ok := p.expectIdent("type name")
	if !ok {
		return nil
	}
	return &ast.NamedType{Name: name}
}

// helpers

func (p *Parser) peek() token.Token {
	return p.toks[p.pos]
}

func (p *Parser) at(kind token.Kind) bool {
	return p.toks[p.pos].Kind == kind
}

func (p *Parser) atNext(kind token.Kind) bool {
	if p.pos+1 >= len(p.toks) {
		return false
	}
	return p.toks[p.pos+1].Kind == kind
}

func (p *Parser) advance() token.Token {
	tok := p.toks[p.pos]
	if p.pos+1 < len(p.toks) {
		p.pos++
	}
	return tok
}

func (p *Parser) eat(kind token.Kind) bool {
	if p.at(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) eatTok(kind token.Kind) (token.Token, bool) {
	if p.at(kind) {
		return p.advance(), true
	}
	return token.Token{}, false
}

func (p *Parser) expect(kind token.Kind, what string) bool {
	if p.eat(kind) {
		return true
	}
	p.fail(fmt.Sprintf("expected %s, found %q", what, p.peek().Kind))
	return false
}

func (p *Parser) expectIdent(what string) (ast.Ident, bool) {
	if tok, ok := p.eatTok(token.Ident); ok {
		return ast.Ident{Name: tok.Text, Sp: tok.Span}, true
	}
	p.fail(fmt.Sprintf("expected %s, found %q", what, p.peek().Kind))
	return ast.Ident{}, false
}

func (p *Parser) fail(msg string) {
	if p.failed {
		return
	}
	p.failed = true
	code := diag.SynUnexpectedToken
	if p.at(token.EOF) {
		code = diag.SynUnexpectedEOF
	}
	p.reporter.Report(diag.NewError(code, p.peek().Span, msg))
}

// failMissingType reports an omitted type annotation under its dedicated
// code rather than as a generic token error.
func (p *Parser) failMissingType(name ast.Ident, what string) {
	if p.failed {
		return
	}
	p.failed = true
	p.reporter.Report(diag.NewError(diag.SemaMissingType, name.Sp,
		fmt.Sprintf("%s %s needs an explicit type", what, name.Name)))
}
