package xray

import (
	"strings"

	"github.com/bikeracer4487/xray-mcp/internal/xrayerrors"
)

// The upstream accepts raw JQL, so every user-supplied filter expression is
// parsed here against a closed whitelist before it reaches the API. The
// parser is the enforcer: anything outside the grammar below is rejected,
// which is strictly stronger than pattern-based blocklists.

// maxJQLLength caps input before tokenization.
const maxJQLLength = 4096

// jqlFields maps lowercase field names to their canonical spelling.
var jqlFields = canonicalSet(
	"project", "issueType", "status", "summary", "description",
	"assignee", "reporter", "created", "updated", "resolved",
	"resolution", "priority", "labels", "fixVersion", "affectedVersion",
	"component", "key", "id", "text",
)

// jqlFunctions maps lowercase function names to their canonical spelling.
var jqlFunctions = canonicalSet(
	"currentUser", "now",
	"startOfDay", "endOfDay",
	"startOfWeek", "endOfWeek",
	"startOfMonth", "endOfMonth",
	"startOfYear", "endOfYear",
)

func canonicalSet(names ...string) map[string]string {
	m := make(map[string]string, len(names))
	for _, n := range names {
		m[strings.ToLower(n)] = n
	}
	return m
}

type jqlTokenType int

const (
	tokIdent jqlTokenType = iota
	tokString
	tokNumber
	tokDuration
	tokOp
	tokLParen
	tokRParen
	tokComma
	tokEOF
)

type jqlToken struct {
	typ  jqlTokenType
	text string
}

// ValidateJQL checks a user-supplied JQL expression against the whitelist
// grammar and returns it with internal whitespace normalized. Any construct
// outside the grammar raises a ValidationError naming the first offending
// token.
func ValidateJQL(jql string) (string, error) {
	trimmed := strings.TrimSpace(jql)
	if trimmed == "" {
		return "", xrayerrors.New(xrayerrors.KindValidation, "JQL query cannot be empty")
	}
	if len(jql) > maxJQLLength {
		return "", xrayerrors.New(xrayerrors.KindValidation, "JQL query too long (max %d characters)", maxJQLLength)
	}

	tokens, err := tokenizeJQL(trimmed)
	if err != nil {
		return "", err
	}

	p := &jqlParser{tokens: tokens}
	if err := p.parseQuery(); err != nil {
		return "", err
	}

	return renderJQL(p.normalized), nil
}

func tokenizeJQL(input string) ([]jqlToken, error) {
	var tokens []jqlToken
	i := 0
	n := len(input)

	for i < n {
		c := input[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++

		case c == '(':
			tokens = append(tokens, jqlToken{tokLParen, "("})
			i++
		case c == ')':
			tokens = append(tokens, jqlToken{tokRParen, ")"})
			i++
		case c == ',':
			tokens = append(tokens, jqlToken{tokComma, ","})
			i++

		case c == '"' || c == '\'':
			quote := c
			j := i + 1
			for j < n {
				if input[j] == '\\' && j+1 < n {
					j += 2
					continue
				}
				if input[j] == quote {
					break
				}
				j++
			}
			if j >= n {
				return nil, xrayerrors.New(xrayerrors.KindValidation, "unterminated string literal in JQL")
			}
			tokens = append(tokens, jqlToken{tokString, input[i : j+1]})
			i = j + 1

		case c == '=':
			tokens = append(tokens, jqlToken{tokOp, "="})
			i++
		case c == '!':
			if i+1 < n && input[i+1] == '=' {
				tokens = append(tokens, jqlToken{tokOp, "!="})
				i += 2
			} else if i+1 < n && input[i+1] == '~' {
				tokens = append(tokens, jqlToken{tokOp, "!~"})
				i += 2
			} else {
				return nil, xrayerrors.New(xrayerrors.KindValidation, "unexpected character '!' in JQL")
			}
		case c == '<':
			if i+1 < n && input[i+1] == '=' {
				tokens = append(tokens, jqlToken{tokOp, "<="})
				i += 2
			} else {
				tokens = append(tokens, jqlToken{tokOp, "<"})
				i++
			}
		case c == '>':
			if i+1 < n && input[i+1] == '=' {
				tokens = append(tokens, jqlToken{tokOp, ">="})
				i += 2
			} else {
				tokens = append(tokens, jqlToken{tokOp, ">"})
				i++
			}
		case c == '~':
			tokens = append(tokens, jqlToken{tokOp, "~"})
			i++

		case c == '+' || c == '-':
			tok, next, err := lexDuration(input, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			i = next

		case c >= '0' && c <= '9':
			j := i
			for j < n && input[j] >= '0' && input[j] <= '9' {
				j++
			}
			if j < n && isDurationUnit(input[j]) && (j+1 >= n || !isIdentChar(input[j+1])) {
				tokens = append(tokens, jqlToken{tokDuration, input[i : j+1]})
				i = j + 1
			} else {
				tokens = append(tokens, jqlToken{tokNumber, input[i:j]})
				i = j
			}

		case isIdentStart(c):
			j := i
			for j < n && isIdentChar(input[j]) {
				j++
			}
			tokens = append(tokens, jqlToken{tokIdent, input[i:j]})
			i = j

		default:
			return nil, xrayerrors.New(xrayerrors.KindValidation, "disallowed character %q in JQL", string(c))
		}
	}

	tokens = append(tokens, jqlToken{tokEOF, ""})
	return tokens, nil
}

func lexDuration(input string, i int) (jqlToken, int, error) {
	n := len(input)
	j := i + 1
	start := j
	for j < n && input[j] >= '0' && input[j] <= '9' {
		j++
	}
	if j == start || j >= n || !isDurationUnit(input[j]) {
		return jqlToken{}, 0, xrayerrors.New(xrayerrors.KindValidation, "malformed duration literal in JQL near %q", input[i:min(i+8, n)])
	}
	if j+1 < n && isIdentChar(input[j+1]) {
		return jqlToken{}, 0, xrayerrors.New(xrayerrors.KindValidation, "malformed duration literal in JQL near %q", input[i:min(j+2, n)])
	}
	return jqlToken{tokDuration, input[i : j+1]}, j + 1, nil
}

func isDurationUnit(c byte) bool {
	switch c {
	case 'd', 'w', 'm', 'y', 'h', 'D', 'W', 'M', 'Y', 'H':
		return true
	}
	return false
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// jqlParser is a recursive-descent parser whose productions are exactly the
// whitelist grammar. Accepted tokens are appended to normalized in canonical
// spelling as parsing proceeds.
type jqlParser struct {
	tokens     []jqlToken
	pos        int
	normalized []jqlToken
}

func (p *jqlParser) peek() jqlToken {
	return p.tokens[p.pos]
}

func (p *jqlParser) next() jqlToken {
	t := p.tokens[p.pos]
	if t.typ != tokEOF {
		p.pos++
	}
	return t
}

// emit records a token in its canonical form for normalization.
func (p *jqlParser) emit(typ jqlTokenType, text string) {
	p.normalized = append(p.normalized, jqlToken{typ, text})
}

// peekKeyword reports whether the next token is the given keyword
// (case-insensitive identifier match).
func (p *jqlParser) peekKeyword(word string) bool {
	t := p.peek()
	return t.typ == tokIdent && strings.EqualFold(t.text, word)
}

// acceptKeyword consumes the next token if it matches the keyword and emits
// it lowercased.
func (p *jqlParser) acceptKeyword(word string) bool {
	if p.peekKeyword(word) {
		p.next()
		p.emit(tokIdent, strings.ToLower(word))
		return true
	}
	return false
}

func (p *jqlParser) parseQuery() error {
	if err := p.parseOr(); err != nil {
		return err
	}
	if p.peekKeyword("order") {
		if err := p.parseOrderBy(); err != nil {
			return err
		}
	}
	if t := p.peek(); t.typ != tokEOF {
		return xrayerrors.New(xrayerrors.KindValidation, "unexpected token in JQL: %s", t.text)
	}
	return nil
}

func (p *jqlParser) parseOr() error {
	if err := p.parseAnd(); err != nil {
		return err
	}
	for p.acceptKeyword("or") {
		if err := p.parseAnd(); err != nil {
			return err
		}
	}
	return nil
}

func (p *jqlParser) parseAnd() error {
	if err := p.parseNot(); err != nil {
		return err
	}
	for {
		if p.peekKeyword("order") {
			return nil
		}
		if !p.acceptKeyword("and") {
			return nil
		}
		if err := p.parseNot(); err != nil {
			return err
		}
	}
}

func (p *jqlParser) parseNot() error {
	for p.acceptKeyword("not") {
	}
	return p.parsePrimary()
}

func (p *jqlParser) parsePrimary() error {
	if p.peek().typ == tokLParen {
		p.next()
		p.emit(tokLParen, "(")
		if err := p.parseOr(); err != nil {
			return err
		}
		if p.peek().typ != tokRParen {
			return xrayerrors.New(xrayerrors.KindValidation, "unbalanced parentheses in JQL")
		}
		p.next()
		p.emit(tokRParen, ")")
		return nil
	}
	return p.parseClause()
}

// parseClause handles one field/operator/value comparison. Position in the
// grammar disambiguates identifiers: the leading identifier must be a
// whitelisted field, identifiers after the operator are values.
func (p *jqlParser) parseClause() error {
	t := p.peek()
	if t.typ != tokIdent {
		if t.typ == tokEOF {
			return xrayerrors.New(xrayerrors.KindValidation, "unexpected end of JQL query")
		}
		return xrayerrors.New(xrayerrors.KindValidation, "expected a field name, got: %s", t.text)
	}

	canonical, ok := jqlFields[strings.ToLower(t.text)]
	if !ok {
		return xrayerrors.New(xrayerrors.KindValidation, "Unknown or disallowed field: %s", t.text)
	}
	p.next()
	p.emit(tokIdent, canonical)

	op := p.peek()
	switch {
	case op.typ == tokOp:
		p.next()
		p.emit(tokOp, op.text)
		return p.parseValue()

	case op.typ == tokIdent:
		switch strings.ToLower(op.text) {
		case "in":
			p.next()
			p.emit(tokIdent, "in")
			return p.parseValueList()
		case "not":
			p.next()
			p.emit(tokIdent, "not")
			if !p.acceptKeyword("in") {
				return xrayerrors.New(xrayerrors.KindValidation, "expected 'in' after 'not' in JQL")
			}
			return p.parseValueList()
		case "is":
			p.next()
			p.emit(tokIdent, "is")
			p.acceptKeyword("not")
			if p.acceptKeyword("empty") || p.acceptKeyword("null") {
				return nil
			}
			return xrayerrors.New(xrayerrors.KindValidation, "expected 'empty' or 'null' after 'is' in JQL, got: %s", p.peek().text)
		case "was":
			p.next()
			p.emit(tokIdent, "was")
			p.acceptKeyword("not")
			if p.acceptKeyword("in") {
				return p.parseValueList()
			}
			return p.parseValue()
		case "changed":
			p.next()
			p.emit(tokIdent, "changed")
			return nil
		}
		return xrayerrors.New(xrayerrors.KindValidation, "Unknown or disallowed operator: %s", op.text)
	}

	return xrayerrors.New(xrayerrors.KindValidation, "expected an operator after field %s", canonical)
}

func (p *jqlParser) parseValueList() error {
	if p.peek().typ != tokLParen {
		return xrayerrors.New(xrayerrors.KindValidation, "expected '(' to open a value list in JQL")
	}
	p.next()
	p.emit(tokLParen, "(")

	for {
		if err := p.parseValue(); err != nil {
			return err
		}
		if p.peek().typ == tokComma {
			p.next()
			p.emit(tokComma, ",")
			continue
		}
		break
	}

	if p.peek().typ != tokRParen {
		return xrayerrors.New(xrayerrors.KindValidation, "unbalanced parentheses in JQL value list")
	}
	p.next()
	p.emit(tokRParen, ")")
	return nil
}

func (p *jqlParser) parseValue() error {
	t := p.peek()
	switch t.typ {
	case tokString, tokNumber, tokDuration:
		p.next()
		p.emit(t.typ, t.text)
		return nil

	case tokIdent:
		// A whitelisted function call, or a bare identifier literal.
		if canonical, ok := jqlFunctions[strings.ToLower(t.text)]; ok && p.tokens[p.pos+1].typ == tokLParen {
			p.next()
			p.emit(tokIdent, canonical)
			return p.parseFunctionArgs()
		}
		if p.tokens[p.pos+1].typ == tokLParen {
			return xrayerrors.New(xrayerrors.KindValidation, "Unknown or disallowed function: %s", t.text)
		}
		p.next()
		p.emit(tokIdent, t.text)
		return nil

	case tokEOF:
		return xrayerrors.New(xrayerrors.KindValidation, "unexpected end of JQL query, expected a value")
	}
	return xrayerrors.New(xrayerrors.KindValidation, "expected a value in JQL, got: %s", t.text)
}

func (p *jqlParser) parseFunctionArgs() error {
	p.next() // consume '('
	p.emit(tokLParen, "(")

	if p.peek().typ != tokRParen {
		for {
			t := p.peek()
			switch t.typ {
			case tokString, tokNumber, tokDuration, tokIdent:
				p.next()
				p.emit(t.typ, t.text)
			default:
				return xrayerrors.New(xrayerrors.KindValidation, "invalid function argument in JQL: %s", t.text)
			}
			if p.peek().typ == tokComma {
				p.next()
				p.emit(tokComma, ",")
				continue
			}
			break
		}
	}

	if p.peek().typ != tokRParen {
		return xrayerrors.New(xrayerrors.KindValidation, "unbalanced parentheses in JQL function call")
	}
	p.next()
	p.emit(tokRParen, ")")
	return nil
}

func (p *jqlParser) parseOrderBy() error {
	if !p.acceptKeyword("order") {
		return xrayerrors.New(xrayerrors.KindValidation, "expected 'order' in JQL")
	}
	if !p.acceptKeyword("by") {
		return xrayerrors.New(xrayerrors.KindValidation, "expected 'by' after 'order' in JQL")
	}

	for {
		t := p.peek()
		if t.typ != tokIdent {
			return xrayerrors.New(xrayerrors.KindValidation, "expected a field name in order by clause, got: %s", t.text)
		}
		canonical, ok := jqlFields[strings.ToLower(t.text)]
		if !ok {
			return xrayerrors.New(xrayerrors.KindValidation, "Unknown or disallowed field: %s", t.text)
		}
		p.next()
		p.emit(tokIdent, canonical)

		if !p.acceptKeyword("asc") {
			p.acceptKeyword("desc")
		}

		if p.peek().typ == tokComma {
			p.next()
			p.emit(tokComma, ",")
			continue
		}
		break
	}
	return nil
}

// renderJQL reconstructs normalized JQL from accepted tokens: single spaces
// between tokens, tight parentheses and commas, function names attached to
// their argument list.
func renderJQL(tokens []jqlToken) string {
	var b strings.Builder
	for i, t := range tokens {
		if i > 0 && needsSpace(tokens[i-1], t) {
			b.WriteByte(' ')
		}
		b.WriteString(t.text)
	}
	return b.String()
}

func needsSpace(prev, cur jqlToken) bool {
	switch cur.typ {
	case tokComma, tokRParen:
		return false
	}
	switch prev.typ {
	case tokLParen:
		return false
	}
	// Keep function names tight against their open paren; jqlFunctions only
	// contains canonical spellings, which emit uses.
	if cur.typ == tokLParen && prev.typ == tokIdent {
		if _, ok := jqlFunctions[strings.ToLower(prev.text)]; ok {
			return false
		}
	}
	return true
}
