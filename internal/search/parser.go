package search

import (
	"fmt"
	"strings"

	internalErrors "github.com/gcbaptista/go-bug-analysis/internal/errors"
)

type tokenKind int

const (
	tkEOF tokenKind = iota
	tkWord
	tkPhrase
	tkAnd
	tkOr
	tkNot
	tkLParen
	tkRParen
)

type token struct {
	kind  tokenKind
	text  string
	field string
	pos   int
}

// Parse parses a boolean query.
//
// Supported syntax: bare terms, quoted phrases, field:term, trailing-wildcard
// prefixes (log*), AND / && , OR / ||, NOT / ! / leading '-', and parentheses.
// Adjacent clauses without an operator are combined with OR. AND binds tighter than OR.
// A prohibited clause removes its matches from the group it belongs to, so
// "error -payment" is error AND NOT payment, and a group made only of
// prohibited clauses matches nothing.
func Parse(raw string) (*Query, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, internalErrors.NewQuerySyntaxError(raw, -1, "empty query")
	}
	tokens, err := lex(raw)
	if err != nil {
		return nil, err
	}
	p := &parser{raw: raw, tokens: tokens}
	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tkEOF {
		return nil, p.errorf(tok.pos, "unexpected '%s'", tok.text)
	}
	return &Query{Raw: raw, Root: root}, nil
}

type parser struct {
	raw    string
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tkEOF {
		p.pos++
	}
	return tok
}

func (p *parser) errorf(pos int, format string, args ...interface{}) error {
	return internalErrors.NewQuerySyntaxError(p.raw, pos, fmt.Sprintf(format, args...))
}

func startsClause(kind tokenKind) bool {
	return kind == tkWord || kind == tkPhrase || kind == tkNot || kind == tkLParen
}

func (p *parser) parseOr() (Node, error) {
	first, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	clauses := []Node{first}
	for {
		tok := p.peek()
		if tok.kind == tkOr {
			p.next()
			if !startsClause(p.peek().kind) {
				return nil, p.errorf(p.peek().pos, "expected term after '%s'", tok.text)
			}
		} else if !startsClause(tok.kind) {
			break
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, right)
	}

	children, exclude := splitProhibited(clauses)
	if len(exclude) == 0 && len(children) == 1 {
		return children[0], nil
	}
	return &OrNode{Children: children, Exclude: exclude}, nil
}

func (p *parser) parseAnd() (Node, error) {
	first, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	clauses := []Node{first}
	for p.peek().kind == tkAnd {
		op := p.next()
		if !startsClause(p.peek().kind) {
			return nil, p.errorf(p.peek().pos, "expected term after '%s'", op.text)
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, right)
	}
	// A lone clause, prohibited or not, is left for parseOr to place.
	if len(clauses) == 1 {
		return first, nil
	}
	children, exclude := splitProhibited(clauses)
	return &AndNode{Children: children, Exclude: exclude}, nil
}

// splitProhibited separates NOT clauses from the others, unwrapping them.
func splitProhibited(clauses []Node) (children, exclude []Node) {
	for _, c := range clauses {
		if n, ok := c.(*NotNode); ok {
			exclude = append(exclude, n.Child)
			continue
		}
		children = append(children, c)
	}
	return children, exclude
}

func (p *parser) parseUnary() (Node, error) {
	if p.peek().kind == tkNot {
		op := p.next()
		if !startsClause(p.peek().kind) {
			return nil, p.errorf(p.peek().pos, "expected term after '%s'", op.text)
		}
		child, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &NotNode{Child: child}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Node, error) {
	tok := p.next()
	switch tok.kind {
	case tkLParen:
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.peek().kind != tkRParen {
			return nil, p.errorf(tok.pos, "missing closing parenthesis")
		}
		p.next()
		return inner, nil
	case tkWord:
		if strings.HasSuffix(tok.text, "*") {
			return &TermNode{Field: tok.field, Text: strings.TrimSuffix(tok.text, "*"), Prefix: true}, nil
		}
		return &TermNode{Field: tok.field, Text: tok.text}, nil
	case tkPhrase:
		return &TermNode{Field: tok.field, Text: tok.text, Phrase: true}, nil
	case tkEOF:
		return nil, p.errorf(tok.pos, "expected term")
	default:
		return nil, p.errorf(tok.pos, "unexpected '%s'", tok.text)
	}
}

func lex(raw string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(raw) {
		c := raw[i]
		switch {
		case isSpace(c):
			i++
		case c == '(':
			tokens = append(tokens, token{kind: tkLParen, text: "(", pos: i})
			i++
		case c == ')':
			tokens = append(tokens, token{kind: tkRParen, text: ")", pos: i})
			i++
		case c == '"':
			text, end, ok := readPhrase(raw, i)
			if !ok {
				return nil, internalErrors.NewQuerySyntaxError(raw, i, "unterminated quote")
			}
			tokens = append(tokens, token{kind: tkPhrase, text: text, pos: i})
			i = end
		case (c == '-' || c == '!') && i+1 < len(raw) && !isBreak(raw[i+1]):
			tokens = append(tokens, token{kind: tkNot, text: string(c), pos: i})
			i++
		case c == '+' && i+1 < len(raw) && !isBreak(raw[i+1]):
			// Required marker; every clause of an AND is already required.
			i++
		default:
			start := i
			for i < len(raw) && !isBreak(raw[i]) && raw[i] != '"' {
				i++
			}
			word := raw[start:i]
			tok, err := classifyWord(raw, word, start, &i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		}
	}
	tokens = append(tokens, token{kind: tkEOF, text: "end of query", pos: len(raw)})
	return tokens, nil
}

// classifyWord turns a bare word into an operator, term or field-qualified term.
// A field prefix directly followed by a quote consumes the phrase and advances *i.
func classifyWord(raw, word string, start int, i *int) (token, error) {
	switch word {
	case "AND", "&&":
		return token{kind: tkAnd, text: word, pos: start}, nil
	case "OR", "||":
		return token{kind: tkOr, text: word, pos: start}, nil
	case "NOT":
		return token{kind: tkNot, text: word, pos: start}, nil
	}

	field, text := "", word
	if colon := strings.IndexByte(word, ':'); colon >= 0 {
		field, text = word[:colon], word[colon+1:]
		if field == "" {
			return token{}, internalErrors.NewQuerySyntaxError(raw, start, "missing field name before ':'")
		}
		if text == "" {
			if *i < len(raw) && raw[*i] == '"' {
				phrase, end, ok := readPhrase(raw, *i)
				if !ok {
					return token{}, internalErrors.NewQuerySyntaxError(raw, *i, "unterminated quote")
				}
				*i = end
				return token{kind: tkPhrase, text: phrase, field: field, pos: start}, nil
			}
			return token{}, internalErrors.NewQuerySyntaxError(raw, start+len(word), "expected term after '"+field+":'")
		}
	}

	if strings.HasPrefix(text, "*") || strings.HasPrefix(text, "?") {
		return token{}, internalErrors.NewQuerySyntaxError(raw, start, "leading wildcard is not supported")
	}
	if idx := strings.IndexAny(strings.TrimSuffix(text, "*"), "*?"); idx >= 0 {
		return token{}, internalErrors.NewQuerySyntaxError(raw, start, "only trailing '*' wildcards are supported")
	}
	return token{kind: tkWord, text: text, field: field, pos: start}, nil
}

func readPhrase(raw string, open int) (string, int, bool) {
	closeIdx := strings.IndexByte(raw[open+1:], '"')
	if closeIdx < 0 {
		return "", 0, false
	}
	return raw[open+1 : open+1+closeIdx], open + closeIdx + 2, true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isBreak(c byte) bool {
	return c == '(' || c == ')' || isSpace(c)
}
