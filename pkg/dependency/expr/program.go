package expr

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Lookup resolves an identifier to the current value of a field.
type Lookup func(name string) (any, bool)

// Program is a compiled rule expression. Programs are immutable and safe to
// evaluate concurrently.
//
// Supported syntax:
//   - truthiness: `enabled`, `!enabled`
//   - equality: `role == "admin"`, `count != 3`, `note == null`
//   - ordering on numbers: `age < 18`, `score >= 4.5`
//   - membership: `country in ["fr", "de"]`
//   - composition: `a && (b || !c)`
type Program struct {
	source      string
	root        exprNode
	identifiers []string
}

// Compile parses rule. An empty rule compiles to a program that is always
// true.
func Compile(rule string) (*Program, error) {
	trimmed := strings.TrimSpace(rule)
	program := &Program{source: trimmed}
	if trimmed == "" {
		return program, nil
	}

	tokens, err := tokenize(trimmed)
	if err != nil {
		return nil, err
	}
	root, err := parseExpression(tokens)
	if err != nil {
		return nil, err
	}
	program.root = root

	seen := make(map[string]struct{})
	for _, tok := range tokens {
		if tok.kind != tokenIdentifier || tok.literal {
			continue
		}
		if _, ok := seen[tok.raw]; ok {
			continue
		}
		seen[tok.raw] = struct{}{}
		program.identifiers = append(program.identifiers, tok.raw)
	}
	sort.Strings(program.identifiers)
	return program, nil
}

// MustCompile is Compile that panics on error.
func MustCompile(rule string) *Program {
	program, err := Compile(rule)
	if err != nil {
		panic(err)
	}
	return program
}

// String returns the normalised source.
func (p *Program) String() string { return p.source }

// Identifiers lists the field references in the expression, sorted.
func (p *Program) Identifiers() []string {
	return append([]string(nil), p.identifiers...)
}

// Eval evaluates the program. Missing identifiers read as null.
func (p *Program) Eval(lookup Lookup) (bool, error) {
	if p == nil || p.root == nil {
		return true, nil
	}
	if lookup == nil {
		lookup = func(string) (any, bool) { return nil, false }
	}
	return p.root.eval(lookup)
}

type tokenKind int

const (
	tokenIdentifier tokenKind = iota
	tokenString
	tokenNumber
	tokenBool
	tokenNull
	tokenEq
	tokenNeq
	tokenLt
	tokenLte
	tokenGt
	tokenGte
	tokenIn
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
	tokenLBracket
	tokenRBracket
	tokenComma
)

type token struct {
	kind tokenKind
	raw  string
	// literal marks identifiers consumed as bare string literals.
	literal bool
}

func isDelimiter(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '(', ')', '[', ']', ',', '!', '=', '&', '|', '<', '>':
		return true
	default:
		return false
	}
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	i := 0

	peek := func(offset int) byte {
		if i+offset >= len(input) {
			return 0
		}
		return input[i+offset]
	}
	emit := func(kind tokenKind, raw string) {
		tokens = append(tokens, token{kind: kind, raw: raw})
		i += len(raw)
	}

	for i < len(input) {
		ch := input[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		case ch == '(':
			emit(tokenLParen, "(")
		case ch == ')':
			emit(tokenRParen, ")")
		case ch == '[':
			emit(tokenLBracket, "[")
		case ch == ']':
			emit(tokenRBracket, "]")
		case ch == ',':
			emit(tokenComma, ",")
		case ch == '!' && peek(1) == '=':
			emit(tokenNeq, "!=")
		case ch == '!':
			emit(tokenNot, "!")
		case ch == '=' && peek(1) == '=':
			emit(tokenEq, "==")
		case ch == '=':
			return nil, errors.New("dependency/expr: unexpected '='; use '=='")
		case ch == '<' && peek(1) == '=':
			emit(tokenLte, "<=")
		case ch == '<':
			emit(tokenLt, "<")
		case ch == '>' && peek(1) == '=':
			emit(tokenGte, ">=")
		case ch == '>':
			emit(tokenGt, ">")
		case ch == '&' && peek(1) == '&':
			emit(tokenAnd, "&&")
		case ch == '&':
			return nil, errors.New("dependency/expr: unexpected '&'; use '&&'")
		case ch == '|' && peek(1) == '|':
			emit(tokenOr, "||")
		case ch == '|':
			return nil, errors.New("dependency/expr: unexpected '|'; use '||'")
		case ch == '"' || ch == '\'':
			value, width, err := readString(input[i:])
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokenString, raw: value})
			i += width
		default:
			start := i
			for i < len(input) && !isDelimiter(input[i]) {
				i++
			}
			raw := input[start:i]
			switch strings.ToLower(raw) {
			case "true", "false":
				tokens = append(tokens, token{kind: tokenBool, raw: strings.ToLower(raw)})
			case "null", "nil":
				tokens = append(tokens, token{kind: tokenNull, raw: "null"})
			case "in":
				tokens = append(tokens, token{kind: tokenIn, raw: "in"})
			default:
				if looksLikeNumber(raw) {
					tokens = append(tokens, token{kind: tokenNumber, raw: raw})
				} else {
					tokens = append(tokens, token{kind: tokenIdentifier, raw: raw})
				}
			}
		}
	}
	return tokens, nil
}

// readString reads a quoted literal at the start of input and returns the
// unquoted value and the number of bytes consumed.
func readString(input string) (string, int, error) {
	quote := input[0]
	escaped := false
	for i := 1; i < len(input); i++ {
		c := input[i]
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		if c != quote {
			continue
		}
		body := input[1:i]
		if quote == '\'' {
			body = strings.ReplaceAll(body, `\'`, `'`)
			body = strings.ReplaceAll(body, `"`, `\"`)
		}
		value, err := strconv.Unquote(`"` + body + `"`)
		if err != nil {
			return "", 0, fmt.Errorf("dependency/expr: invalid string literal: %w", err)
		}
		return value, i + 1, nil
	}
	return "", 0, errors.New("dependency/expr: unterminated string literal")
}

func looksLikeNumber(raw string) bool {
	if raw == "" {
		return false
	}
	if c := raw[0]; !(c >= '0' && c <= '9') && c != '-' && c != '+' && c != '.' {
		return false
	}
	_, err := strconv.ParseFloat(raw, 64)
	return err == nil
}

type exprNode interface {
	eval(lookup Lookup) (bool, error)
}

type exprOr struct{ left, right exprNode }

func (n exprOr) eval(lookup Lookup) (bool, error) {
	ok, err := n.left.eval(lookup)
	if err != nil || ok {
		return ok, err
	}
	return n.right.eval(lookup)
}

type exprAnd struct{ left, right exprNode }

func (n exprAnd) eval(lookup Lookup) (bool, error) {
	ok, err := n.left.eval(lookup)
	if err != nil || !ok {
		return false, err
	}
	return n.right.eval(lookup)
}

type exprNot struct{ inner exprNode }

func (n exprNot) eval(lookup Lookup) (bool, error) {
	ok, err := n.inner.eval(lookup)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

type literalKind int

const (
	litString literalKind = iota
	litNumber
	litBool
	litNull
)

type literal struct {
	kind   literalKind
	raw    string
	number float64
}

type exprCompare struct {
	identifier string
	op         tokenKind
	literal    literal
}

func (n exprCompare) eval(lookup Lookup) (bool, error) {
	value, _ := lookup(n.identifier)

	switch n.op {
	case tokenLt, tokenLte, tokenGt, tokenGte:
		if n.literal.kind != litNumber {
			return false, fmt.Errorf("dependency/expr: ordering %s needs a number literal", n.identifier)
		}
		got, ok := coerceNumber(value)
		if !ok {
			return false, nil
		}
		return compareOrdered(n.op, got, n.literal.number), nil
	}

	equal := literalMatches(n.literal, value)
	if n.op == tokenNeq {
		return !equal, nil
	}
	return equal, nil
}

func compareOrdered(op tokenKind, got, want float64) bool {
	switch op {
	case tokenLt:
		return got < want
	case tokenLte:
		return got <= want
	case tokenGt:
		return got > want
	default:
		return got >= want
	}
}

func literalMatches(lit literal, value any) bool {
	switch lit.kind {
	case litNull:
		return value == nil
	case litBool:
		got, _ := coerceBool(value)
		return got == (lit.raw == "true")
	case litNumber:
		got, ok := coerceNumber(value)
		return ok && got == lit.number
	default:
		return value != nil && coerceString(value) == lit.raw
	}
}

type exprIn struct {
	identifier string
	set        []literal
}

func (n exprIn) eval(lookup Lookup) (bool, error) {
	value, _ := lookup(n.identifier)
	for _, lit := range n.set {
		if literalMatches(lit, value) {
			return true, nil
		}
	}
	return false, nil
}

type exprTruthy struct{ identifier string }

func (n exprTruthy) eval(lookup Lookup) (bool, error) {
	value, ok := lookup(n.identifier)
	if !ok {
		return false, nil
	}
	return truthy(value), nil
}

type tokenStream struct {
	tokens []token
	pos    int
}

func parseExpression(tokens []token) (exprNode, error) {
	stream := &tokenStream{tokens: tokens}
	node, err := parseOr(stream)
	if err != nil {
		return nil, err
	}
	if stream.pos < len(stream.tokens) {
		return nil, fmt.Errorf("dependency/expr: unexpected token %q", stream.tokens[stream.pos].raw)
	}
	return node, nil
}

func parseOr(stream *tokenStream) (exprNode, error) {
	left, err := parseAnd(stream)
	if err != nil {
		return nil, err
	}
	for stream.match(tokenOr) {
		right, err := parseAnd(stream)
		if err != nil {
			return nil, err
		}
		left = exprOr{left: left, right: right}
	}
	return left, nil
}

func parseAnd(stream *tokenStream) (exprNode, error) {
	left, err := parseUnary(stream)
	if err != nil {
		return nil, err
	}
	for stream.match(tokenAnd) {
		right, err := parseUnary(stream)
		if err != nil {
			return nil, err
		}
		left = exprAnd{left: left, right: right}
	}
	return left, nil
}

func parseUnary(stream *tokenStream) (exprNode, error) {
	if stream.match(tokenNot) {
		inner, err := parseUnary(stream)
		if err != nil {
			return nil, err
		}
		return exprNot{inner: inner}, nil
	}
	return parsePrimary(stream)
}

var comparisonOps = []tokenKind{tokenEq, tokenNeq, tokenLt, tokenLte, tokenGt, tokenGte}

func parsePrimary(stream *tokenStream) (exprNode, error) {
	if stream.match(tokenLParen) {
		inner, err := parseOr(stream)
		if err != nil {
			return nil, err
		}
		if !stream.match(tokenRParen) {
			return nil, errors.New("dependency/expr: missing closing ')'")
		}
		return inner, nil
	}

	ident, ok := stream.consume(tokenIdentifier)
	if !ok {
		if stream.pos >= len(stream.tokens) {
			return nil, errors.New("dependency/expr: empty expression")
		}
		return nil, fmt.Errorf("dependency/expr: expected identifier, got %q", stream.tokens[stream.pos].raw)
	}

	for _, op := range comparisonOps {
		if !stream.match(op) {
			continue
		}
		lit, err := stream.consumeLiteral()
		if err != nil {
			return nil, err
		}
		return exprCompare{identifier: ident.raw, op: op, literal: lit}, nil
	}

	if stream.match(tokenIn) {
		set, err := stream.consumeList()
		if err != nil {
			return nil, err
		}
		return exprIn{identifier: ident.raw, set: set}, nil
	}

	return exprTruthy{identifier: ident.raw}, nil
}

func (s *tokenStream) match(kind tokenKind) bool {
	if s.pos >= len(s.tokens) || s.tokens[s.pos].kind != kind {
		return false
	}
	s.pos++
	return true
}

func (s *tokenStream) consume(kind tokenKind) (token, bool) {
	if s.pos >= len(s.tokens) || s.tokens[s.pos].kind != kind {
		return token{}, false
	}
	out := s.tokens[s.pos]
	s.pos++
	return out, true
}

func (s *tokenStream) consumeList() ([]literal, error) {
	if !s.match(tokenLBracket) {
		return nil, errors.New("dependency/expr: expected '[' after in")
	}
	var set []literal
	if s.match(tokenRBracket) {
		return set, nil
	}
	for {
		lit, err := s.consumeLiteral()
		if err != nil {
			return nil, err
		}
		set = append(set, lit)
		if s.match(tokenRBracket) {
			return set, nil
		}
		if !s.match(tokenComma) {
			return nil, errors.New("dependency/expr: expected ',' or ']' in list")
		}
	}
}

func (s *tokenStream) consumeLiteral() (literal, error) {
	if s.pos >= len(s.tokens) {
		return literal{}, errors.New("dependency/expr: missing literal")
	}
	tok := &s.tokens[s.pos]
	s.pos++
	switch tok.kind {
	case tokenString:
		return literal{kind: litString, raw: tok.raw}, nil
	case tokenNumber:
		value, err := strconv.ParseFloat(tok.raw, 64)
		if err != nil {
			return literal{}, fmt.Errorf("dependency/expr: invalid number literal %q", tok.raw)
		}
		return literal{kind: litNumber, raw: tok.raw, number: value}, nil
	case tokenBool:
		return literal{kind: litBool, raw: tok.raw}, nil
	case tokenNull:
		return literal{kind: litNull, raw: "null"}, nil
	case tokenIdentifier:
		// Bare words on the right hand side read as strings.
		tok.literal = true
		return literal{kind: litString, raw: tok.raw}, nil
	default:
		return literal{}, fmt.Errorf("dependency/expr: expected literal, got %q", tok.raw)
	}
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		if f, ok := coerceNumber(value); ok {
			return f != 0
		}
		return true
	}
}

func coerceBool(value any) (bool, bool) {
	switch v := value.(type) {
	case nil:
		return false, false
	case bool:
		return v, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err == nil {
			return parsed, true
		}
		return strings.TrimSpace(v) != "", true
	default:
		return truthy(value), true
	}
}

func coerceNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func coerceString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(value)
	}
}
