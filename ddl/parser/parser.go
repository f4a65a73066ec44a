// Copyright 2026 The ddlcore Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

// Package parser implements component B of the DDL core: a recursive
// descent parser turning a token.Token stream into a schema.Change
// description. Feature-gated grammar (stored generated columns, column
// default values, check constraints) is controlled by a Gates value
// threaded through every call, never by global state, per the governing
// design notes.
package parser

import (
	"strconv"
	"strings"

	"ddlcore.dev/ddlcore/ddl/lexer"
	"ddlcore.dev/ddlcore/ddl/token"
	"ddlcore.dev/ddlcore/internal/errcode"
	"ddlcore.dev/ddlcore/internal/exprscan"
	"ddlcore.dev/ddlcore/schema"
)

// Gates controls which feature-gated grammar this parse accepts. Tests
// construct a Gates value directly; production callers load one from
// admin/config.
type Gates struct {
	EnableStoredGeneratedColumns bool
	EnableColumnDefaultValues    bool
	EnableCheckConstraint        bool
}

// Parser holds per-call state: the token source and a small lookahead
// buffer. A Parser is never reused across statements.
type Parser struct {
	lex   *lexer.Lexer
	buf   []token.Token
	gates Gates
}

// Parse parses a single DDL statement and returns its change description.
func Parse(src string, gates Gates) (schema.Change, error) {
	p := &Parser{lex: lexer.New(src), gates: gates}
	change, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	t, err := p.peek(0)
	if err != nil {
		return nil, err
	}
	if t.Kind != token.EOF {
		return nil, p.errf(t, "Expecting %s but found %s", tokenKindDisplay(token.EOF), tokenDisplay(t))
	}
	return change, nil
}

func (p *Parser) peek(n int) (token.Token, error) {
	for len(p.buf) <= n {
		t, err := p.lex.Next()
		if err != nil {
			return token.Token{}, err
		}
		p.buf = append(p.buf, t)
	}
	return p.buf[n], nil
}

func (p *Parser) advance() (token.Token, error) {
	t, err := p.peek(0)
	if err != nil {
		return token.Token{}, err
	}
	p.buf = p.buf[1:]
	return t, nil
}

func (p *Parser) at(k token.Kind) bool {
	t, err := p.peek(0)
	return err == nil && t.Kind == k
}

func (p *Parser) expect(k token.Kind) (token.Token, error) {
	t, err := p.peek(0)
	if err != nil {
		return token.Token{}, err
	}
	if t.Kind != k {
		return token.Token{}, p.errf(t, "Expecting %s but found %s", tokenKindDisplay(k), tokenDisplay(t))
	}
	p.advance()
	return t, nil
}

// peekWord and expectWord recognize a not-otherwise-reserved word (ACTION,
// DELETE, DAY) as a contextual keyword: it lexes as a plain IDENT, and is
// only meaningful in the grammar positions that check for it explicitly
// (spec §1, "keyword/identifier ambiguity").
func (p *Parser) peekWord(word string) bool {
	t, err := p.peek(0)
	return err == nil && t.Kind == token.IDENT && !t.Quoted && strings.EqualFold(t.Text, word)
}

func (p *Parser) expectWord(word string) error {
	if !p.peekWord(word) {
		t, _ := p.peek(0)
		return p.errf(t, "Expecting %q but found %s", word, tokenDisplay(t))
	}
	p.advance()
	return nil
}

func (p *Parser) expectIdent() (string, error) {
	t, err := p.peek(0)
	if err != nil {
		return "", err
	}
	// COLUMN has no identifier-grammar ambiguity the way ACTION/DELETE/DAY
	// do (it is always reserved), but "ADD COLUMN COLUMN ..." still needs a
	// column literally named COLUMN to parse, so its own keyword spelling is
	// accepted here as an identifier too.
	if t.Kind != token.IDENT && t.Kind != token.COLUMN {
		return "", p.errf(t, "Expecting an identifier but found %s", tokenDisplay(t))
	}
	p.advance()
	return t.Text, nil
}

func (p *Parser) errf(t token.Token, format string, args ...any) error {
	return errcode.At(errcode.InvalidArgument, t.Pos.Line, t.Pos.Column, format, args...)
}

func tokenDisplay(t token.Token) string {
	if t.Text != "" {
		return "'" + t.Text + "'"
	}
	return "'" + t.Kind.String() + "'"
}

func tokenKindDisplay(k token.Kind) string { return "'" + k.String() + "'" }

// captureExpr extracts the verbatim text of a parenthesized expression
// already positioned just past its opening '(', using internal/exprscan so
// that nested parens and embedded string literals are handled correctly.
// It must be called with no tokens buffered ahead of the current position.
func (p *Parser) captureExpr(openParen token.Token) (string, error) {
	pos := p.lex.Pos()
	body, end, endLine, endCol, err := exprscan.Balanced(p.lex.Rest(), pos.Line, pos.Column)
	if err != nil {
		return "", err
	}
	p.lex.Seek(p.lex.Offset()+end+1, endLine, endCol)
	return body, nil
}

func (p *Parser) parseStatement() (schema.Change, error) {
	t, err := p.peek(0)
	if err != nil {
		return nil, err
	}
	switch t.Kind {
	case token.CREATE:
		return p.parseCreate()
	case token.ALTER:
		return p.parseAlter()
	case token.DROP:
		return p.parseDrop()
	case token.ANALYZE:
		p.advance()
		return schema.Analyze{}, nil
	default:
		return nil, p.errf(t, "Expecting a statement but found %s", tokenDisplay(t))
	}
}

func (p *Parser) parseCreate() (schema.Change, error) {
	p.advance() // CREATE
	t, err := p.peek(0)
	if err != nil {
		return nil, err
	}
	switch {
	case t.Kind == token.DATABASE:
		return p.parseCreateDatabase()
	case t.Kind == token.TABLE:
		return p.parseCreateTable()
	case t.Kind == token.UNIQUE || t.Kind == token.NULL_FILTERED || t.Kind == token.INDEX:
		return p.parseCreateIndex()
	default:
		return nil, p.errf(t, "Expecting DATABASE, TABLE or INDEX but found %s", tokenDisplay(t))
	}
}

func (p *Parser) parseCreateDatabase() (schema.Change, error) {
	p.advance() // DATABASE
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	return schema.CreateDatabase{Name: name}, nil
}

func (p *Parser) parseCreateTable() (schema.Change, error) {
	p.advance() // TABLE
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var columns []schema.ColumnDef
	var constraints []schema.ConstraintDef
	for {
		if p.at(token.RPAREN) {
			break
		}
		if p.at(token.CONSTRAINT) || p.at(token.FOREIGN) || p.at(token.CHECK) {
			c, err := p.parseTableConstraint()
			if err != nil {
				return nil, err
			}
			constraints = append(constraints, c)
		} else {
			col, err := p.parseColumnDef()
			if err != nil {
				return nil, err
			}
			columns = append(columns, col)
		}
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.PRIMARY); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KEY); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	keyParts, err := p.parseKeyPartList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	constraints = append([]schema.ConstraintDef{schema.PrimaryKeyDef{KeyParts: keyParts}}, constraints...)

	var rowDeletion *schema.RowDeletionPolicyDef
	for p.at(token.COMMA) {
		p.advance()
		switch {
		case p.at(token.INTERLEAVE):
			p.advance()
			if _, err := p.expect(token.IN); err != nil {
				return nil, err
			}
			if p.at(token.PARENT) {
				p.advance()
			}
			parent, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			onDelete := schema.NoAction
			if p.at(token.ON) {
				p.advance()
				if err := p.expectWord("DELETE"); err != nil {
					return nil, err
				}
				od, err := p.parseOnDeleteAction()
				if err != nil {
					return nil, err
				}
				onDelete = od
			}
			constraints = append(constraints, schema.InterleaveDef{Parent: parent, OnDelete: onDelete})
		case p.at(token.ROW):
			p.advance()
			if _, err := p.expect(token.DELETION); err != nil {
				return nil, err
			}
			if _, err := p.expect(token.POLICY); err != nil {
				return nil, err
			}
			pol, err := p.parseRowDeletionPolicyBody()
			if err != nil {
				return nil, err
			}
			rowDeletion = &pol
		default:
			t, _ := p.peek(0)
			return nil, p.errf(t, "Expecting INTERLEAVE or ROW DELETION POLICY but found %s", tokenDisplay(t))
		}
	}
	return schema.CreateTable{Name: name, Columns: columns, Constraints: constraints, RowDeletionPolicy: rowDeletion}, nil
}

func (p *Parser) parseOnDeleteAction() (schema.OnDeleteAction, error) {
	if p.at(token.CASCADE) {
		p.advance()
		return schema.Cascade, nil
	}
	if _, err := p.expect(token.NO); err != nil {
		return schema.NoAction, err
	}
	if err := p.expectWord("ACTION"); err != nil {
		return schema.NoAction, err
	}
	return schema.NoAction, nil
}

func (p *Parser) parseRowDeletionPolicyBody() (schema.RowDeletionPolicyDef, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return schema.RowDeletionPolicyDef{}, err
	}
	predicate, err := p.peek(0)
	if err != nil {
		return schema.RowDeletionPolicyDef{}, err
	}
	if predicate.Kind != token.OLDER_THAN {
		return schema.RowDeletionPolicyDef{}, errcode.At(errcode.InvalidArgument, predicate.Pos.Line, predicate.Pos.Column, "Only OLDER_THAN is supported.")
	}
	p.advance()
	if _, err := p.expect(token.LPAREN); err != nil {
		return schema.RowDeletionPolicyDef{}, err
	}
	col, err := p.expectIdent()
	if err != nil {
		return schema.RowDeletionPolicyDef{}, err
	}
	if _, err := p.expect(token.COMMA); err != nil {
		return schema.RowDeletionPolicyDef{}, err
	}
	if _, err := p.expect(token.INTERVAL); err != nil {
		return schema.RowDeletionPolicyDef{}, err
	}
	nt, err := p.expect(token.INT)
	if err != nil {
		return schema.RowDeletionPolicyDef{}, err
	}
	days, err := strconv.ParseInt(nt.Text, 10, 64)
	if err != nil {
		return schema.RowDeletionPolicyDef{}, p.errf(nt, "Invalid interval day count: %s", nt.Text)
	}
	if err := p.expectWord("DAY"); err != nil {
		return schema.RowDeletionPolicyDef{}, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return schema.RowDeletionPolicyDef{}, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return schema.RowDeletionPolicyDef{}, err
	}
	return schema.RowDeletionPolicyDef{Column: col, IntervalDays: days}, nil
}

// parseTableConstraint parses an optional "CONSTRAINT name" prefix
// followed by either a FOREIGN KEY or CHECK clause.
func (p *Parser) parseTableConstraint() (schema.ConstraintDef, error) {
	name := ""
	if p.at(token.CONSTRAINT) {
		p.advance()
		n, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		name = n
	}
	t, err := p.peek(0)
	if err != nil {
		return nil, err
	}
	switch t.Kind {
	case token.FOREIGN:
		return p.parseForeignKeyBody(name)
	case token.CHECK:
		return p.parseCheckBody(name)
	default:
		return nil, p.errf(t, "Expecting FOREIGN KEY or CHECK but found %s", tokenDisplay(t))
	}
}

func (p *Parser) parseForeignKeyBody(name string) (schema.ConstraintDef, error) {
	p.advance() // FOREIGN
	if _, err := p.expect(token.KEY); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cols, err := p.parseIdentList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.REFERENCES); err != nil {
		return nil, err
	}
	refTable, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	refCols, err := p.parseIdentList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return schema.ForeignKeyDef{
		ConstraintName:     name,
		ReferencingColumns: cols,
		ReferencedTable:    refTable,
		ReferencedColumns:  refCols,
	}, nil
}

func (p *Parser) parseCheckBody(name string) (schema.ConstraintDef, error) {
	checkTok, err := p.expect(token.CHECK)
	if err != nil {
		return nil, err
	}
	if !p.gates.EnableCheckConstraint {
		return nil, errcode.At(errcode.Unimplemented, checkTok.Pos.Line, checkTok.Pos.Column, "CHECK constraints are not enabled")
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	expr, err := p.captureExpr(checkTok)
	if err != nil {
		return nil, err
	}
	return schema.CheckDef{ConstraintName: name, SQLText: expr}, nil
}

func (p *Parser) parseIdentList() ([]string, error) {
	var names []string
	for {
		n, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		names = append(names, n)
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return names, nil
}

func (p *Parser) parseKeyPartList() ([]schema.KeyPart, error) {
	var parts []schema.KeyPart
	for {
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		order := schema.Asc
		if p.at(token.ASC) {
			p.advance()
		} else if p.at(token.DESC) {
			p.advance()
			order = schema.Desc
		}
		parts = append(parts, schema.KeyPart{Column: name, Order: order})
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return parts, nil
}

func (p *Parser) parseType() (schema.Type, *schema.Length, error) {
	t, err := p.peek(0)
	if err != nil {
		return schema.Type{}, nil, err
	}
	switch t.Kind {
	case token.INT64:
		p.advance()
		return schema.Type{Scalar: schema.Int64}, nil, nil
	case token.BOOL:
		p.advance()
		return schema.Type{Scalar: schema.Bool}, nil, nil
	case token.FLOAT64:
		p.advance()
		return schema.Type{Scalar: schema.Float64}, nil, nil
	case token.DATE:
		p.advance()
		return schema.Type{Scalar: schema.Date}, nil, nil
	case token.TIMESTAMP:
		p.advance()
		return schema.Type{Scalar: schema.Timestamp}, nil, nil
	case token.NUMERIC:
		p.advance()
		return schema.Type{Scalar: schema.Numeric}, nil, nil
	case token.JSON:
		p.advance()
		return schema.Type{Scalar: schema.JSON}, nil, nil
	case token.STRING_KW:
		p.advance()
		l, err := p.parseLengthClause()
		if err != nil {
			return schema.Type{}, nil, err
		}
		return schema.Type{Scalar: schema.StringType}, l, nil
	case token.BYTES_KW:
		p.advance()
		l, err := p.parseLengthClause()
		if err != nil {
			return schema.Type{}, nil, err
		}
		return schema.Type{Scalar: schema.BytesType}, l, nil
	case token.ARRAY:
		p.advance()
		if _, err := p.expect(token.LANGLE); err != nil {
			return schema.Type{}, nil, err
		}
		inner, l, err := p.parseType()
		if err != nil {
			return schema.Type{}, nil, err
		}
		if _, err := p.expect(token.RANGLE); err != nil {
			return schema.Type{}, nil, err
		}
		return schema.Type{Scalar: inner.Scalar, IsArray: true}, l, nil
	default:
		return schema.Type{}, nil, p.errf(t, "Expecting a column type but found %s", tokenDisplay(t))
	}
}

func (p *Parser) parseLengthClause() (*schema.Length, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	t, err := p.peek(0)
	if err != nil {
		return nil, err
	}
	var l schema.Length
	switch t.Kind {
	case token.MAX:
		p.advance()
		l = schema.Length{Max: true}
	case token.INT:
		p.advance()
		// base 0 lets strconv infer the base from the literal's own
		// spelling, so a hex length like 0x42 parses as 66 instead of
		// failing as an invalid decimal integer.
		v, err := strconv.ParseInt(t.Text, 0, 64)
		if err != nil {
			return nil, p.errf(t, "Invalid length: %s", t.Text)
		}
		l = schema.Length{Value: v}
	default:
		return nil, p.errf(t, "Expecting a length or MAX but found %s", tokenDisplay(t))
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return &l, nil
}

func (p *Parser) parseOptions() (map[string]schema.OptionValue, error) {
	if _, err := p.expect(token.OPTIONS); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	opts := map[string]schema.OptionValue{}
	for {
		if p.at(token.RPAREN) {
			break
		}
		key, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.EQ); err != nil {
			return nil, err
		}
		t, err := p.peek(0)
		if err != nil {
			return nil, err
		}
		switch t.Kind {
		case token.TRUE:
			p.advance()
			opts[key] = schema.OptionValue{Bool: true}
		case token.FALSE:
			p.advance()
			opts[key] = schema.OptionValue{Bool: false}
		case token.NULL:
			p.advance()
			opts[key] = schema.OptionValue{Null: true}
		default:
			return nil, p.errf(t, "Expecting TRUE, FALSE or NULL but found %s", tokenDisplay(t))
		}
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return opts, nil
}

func (p *Parser) parseColumnDef() (schema.ColumnDef, error) {
	name, err := p.expectIdent()
	if err != nil {
		return schema.ColumnDef{}, err
	}
	typ, maxLen, err := p.parseType()
	if err != nil {
		return schema.ColumnDef{}, err
	}
	col := schema.ColumnDef{Name: name, Type: typ, MaxLength: maxLen, Nullable: true}
	if p.at(token.NOT) {
		p.advance()
		if _, err := p.expect(token.NULL); err != nil {
			return schema.ColumnDef{}, err
		}
		col.Nullable = false
	}
	if p.at(token.AS) {
		asTok, _ := p.peek(0)
		p.advance()
		if !p.gates.EnableStoredGeneratedColumns {
			return schema.ColumnDef{}, errcode.At(errcode.Unimplemented, asTok.Pos.Line, asTok.Pos.Column, "Stored generated columns are not enabled")
		}
		if _, err := p.expect(token.LPAREN); err != nil {
			return schema.ColumnDef{}, err
		}
		expr, err := p.captureExpr(asTok)
		if err != nil {
			return schema.ColumnDef{}, err
		}
		if _, err := p.expect(token.STORED); err != nil {
			return schema.ColumnDef{}, err
		}
		col.Expression = expr
		col.IsStoredGenerated = true
		col.HasDefault = true
	} else if p.at(token.DEFAULT) {
		defTok, _ := p.peek(0)
		p.advance()
		if !p.gates.EnableColumnDefaultValues {
			return schema.ColumnDef{}, errcode.At(errcode.Unimplemented, defTok.Pos.Line, defTok.Pos.Column, "Column default values are not enabled")
		}
		if _, err := p.expect(token.LPAREN); err != nil {
			return schema.ColumnDef{}, err
		}
		expr, err := p.captureExpr(defTok)
		if err != nil {
			return schema.ColumnDef{}, err
		}
		col.Expression = expr
		col.HasDefault = true
	}
	if p.at(token.OPTIONS) {
		opts, err := p.parseOptions()
		if err != nil {
			return schema.ColumnDef{}, err
		}
		col.Options = opts
	}
	return col, nil
}

func (p *Parser) parseCreateIndex() (schema.Change, error) {
	unique, nullFiltered := false, false
	for {
		if p.at(token.UNIQUE) {
			p.advance()
			unique = true
			continue
		}
		if p.at(token.NULL_FILTERED) {
			p.advance()
			nullFiltered = true
			continue
		}
		break
	}
	if _, err := p.expect(token.INDEX); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ON); err != nil {
		return nil, err
	}
	table, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	keyParts, err := p.parseKeyPartList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	var storedCols []string
	if p.at(token.STORING) {
		p.advance()
		if _, err := p.expect(token.LPAREN); err != nil {
			return nil, err
		}
		storedCols, err = p.parseIdentList()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
	}
	interleaveParent := ""
	if p.at(token.COMMA) {
		p.advance()
		if _, err := p.expect(token.INTERLEAVE); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.IN); err != nil {
			return nil, err
		}
		interleaveParent, err = p.expectIdent()
		if err != nil {
			return nil, err
		}
	}
	return schema.CreateIndex{
		Name:             name,
		Table:            table,
		Unique:           unique,
		NullFiltered:     nullFiltered,
		KeyParts:         keyParts,
		StoredColumns:    storedCols,
		InterleaveParent: interleaveParent,
	}, nil
}

func (p *Parser) parseDrop() (schema.Change, error) {
	p.advance() // DROP
	t, err := p.peek(0)
	if err != nil {
		return nil, err
	}
	switch t.Kind {
	case token.TABLE:
		p.advance()
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		return schema.DropTable{Name: name}, nil
	case token.INDEX:
		p.advance()
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		return schema.DropIndex{Name: name}, nil
	default:
		return nil, p.errf(t, "Expecting TABLE or INDEX but found %s", tokenDisplay(t))
	}
}

func (p *Parser) parseAlter() (schema.Change, error) {
	p.advance() // ALTER
	if _, err := p.expect(token.TABLE); err != nil {
		return nil, err
	}
	table, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	action, err := p.parseAlterAction()
	if err != nil {
		return nil, err
	}
	return schema.AlterTable{Table: table, Action: action}, nil
}

func (p *Parser) parseAlterAction() (schema.AlterAction, error) {
	t, err := p.peek(0)
	if err != nil {
		return nil, err
	}
	switch t.Kind {
	case token.ADD:
		return p.parseAddAction()
	case token.DROP:
		return p.parseAlterDropAction()
	case token.ALTER:
		return p.parseAlterColumnAction()
	case token.SET:
		return p.parseSetOnDeleteAction()
	case token.REPLACE:
		p.advance()
		if _, err := p.expect(token.ROW); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.DELETION); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.POLICY); err != nil {
			return nil, err
		}
		pol, err := p.parseRowDeletionPolicyBody()
		if err != nil {
			return nil, err
		}
		return schema.ReplaceRowDeletionPolicyAction{Policy: pol}, nil
	default:
		return nil, p.errf(t, "Expecting ADD, DROP, ALTER, SET or REPLACE but found %s", tokenDisplay(t))
	}
}

func (p *Parser) parseAddAction() (schema.AlterAction, error) {
	p.advance() // ADD
	t, err := p.peek(0)
	if err != nil {
		return nil, err
	}
	switch t.Kind {
	case token.COLUMN:
		p.advance()
		col, err := p.parseColumnDef()
		if err != nil {
			return nil, err
		}
		return schema.AddColumnAction{Column: col}, nil
	case token.CONSTRAINT, token.FOREIGN, token.CHECK:
		cons, err := p.parseTableConstraint()
		if err != nil {
			return nil, err
		}
		return schema.AddConstraintAction{Constraint: cons}, nil
	case token.ROW:
		p.advance()
		if _, err := p.expect(token.DELETION); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.POLICY); err != nil {
			return nil, err
		}
		pol, err := p.parseRowDeletionPolicyBody()
		if err != nil {
			return nil, err
		}
		return schema.AddRowDeletionPolicyAction{Policy: pol}, nil
	default:
		return nil, p.errf(t, "Expecting COLUMN, CONSTRAINT, FOREIGN KEY, CHECK or ROW DELETION POLICY but found %s", tokenDisplay(t))
	}
}

func (p *Parser) parseAlterDropAction() (schema.AlterAction, error) {
	p.advance() // DROP
	t, err := p.peek(0)
	if err != nil {
		return nil, err
	}
	switch t.Kind {
	case token.COLUMN:
		p.advance()
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		return schema.DropColumnAction{Name: name}, nil
	case token.CONSTRAINT:
		p.advance()
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		return schema.DropConstraintAction{Name: name}, nil
	case token.ROW:
		p.advance()
		if _, err := p.expect(token.DELETION); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.POLICY); err != nil {
			return nil, err
		}
		return schema.DropRowDeletionPolicyAction{}, nil
	default:
		return nil, p.errf(t, "Expecting COLUMN, CONSTRAINT or ROW DELETION POLICY but found %s", tokenDisplay(t))
	}
}

func (p *Parser) parseAlterColumnAction() (schema.AlterAction, error) {
	p.advance() // ALTER
	if _, err := p.expect(token.COLUMN); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if p.at(token.SET) {
		p.advance()
		t, err := p.peek(0)
		if err != nil {
			return nil, err
		}
		switch t.Kind {
		case token.OPTIONS:
			opts, err := p.parseOptions()
			if err != nil {
				return nil, err
			}
			return schema.SetColumnOptionsAction{Name: name, Options: opts}, nil
		case token.DEFAULT:
			defTok := t
			p.advance()
			if !p.gates.EnableColumnDefaultValues {
				return nil, errcode.At(errcode.Unimplemented, defTok.Pos.Line, defTok.Pos.Column, "Column default values are not enabled")
			}
			if _, err := p.expect(token.LPAREN); err != nil {
				return nil, err
			}
			expr, err := p.captureExpr(defTok)
			if err != nil {
				return nil, err
			}
			return schema.SetColumnDefaultAction{Name: name, Expression: expr}, nil
		default:
			return nil, p.errf(t, "Expecting OPTIONS or DEFAULT but found %s", tokenDisplay(t))
		}
	}
	if p.at(token.DROP) {
		p.advance()
		if _, err := p.expect(token.DEFAULT); err != nil {
			return nil, err
		}
		return schema.DropColumnDefaultAction{Name: name}, nil
	}
	typ, maxLen, err := p.parseType()
	if err != nil {
		return nil, err
	}
	nullable := true
	if p.at(token.NOT) {
		p.advance()
		if _, err := p.expect(token.NULL); err != nil {
			return nil, err
		}
		nullable = false
	}
	return schema.AlterColumnAction{Column: schema.ColumnDef{Name: name, Type: typ, MaxLength: maxLen, Nullable: nullable}}, nil
}

func (p *Parser) parseSetOnDeleteAction() (schema.AlterAction, error) {
	p.advance() // SET
	if _, err := p.expect(token.ON); err != nil {
		return nil, err
	}
	if err := p.expectWord("DELETE"); err != nil {
		return nil, err
	}
	action, err := p.parseOnDeleteAction()
	if err != nil {
		return nil, err
	}
	return schema.AlterInterleaveOnDeleteAction{OnDelete: action}, nil
}
