package puzzle

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var errMalformed = errors.New("malformed answer")

// normalizeAnswer strips whitespace and explicit AND operators and
// upper-cases variable names
func normalizeAnswer(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsSpace(r), r == '*', r == '.', r == '·':
			continue
		case r == '’' || r == '`':
			b.WriteByte('\'')
		default:
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// literal is a variable reference, possibly complemented
type literal struct {
	v          int
	complement bool
}

// parseLiterals reads a run of literals such as A'BC or !AB
func parseLiterals(s string, numVars int) ([]literal, error) {
	var lits []literal
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		negate := false
		for i < len(runes) && (runes[i] == '!' || runes[i] == '~') {
			negate = !negate
			i++
		}
		if i >= len(runes) {
			return nil, errMalformed
		}
		r := runes[i]
		v := int(r - 'A')
		if v < 0 || v >= numVars {
			return nil, fmt.Errorf("%w: unknown variable %q", errMalformed, r)
		}
		for i+1 < len(runes) && runes[i+1] == '\'' {
			negate = !negate
			i++
		}
		lits = append(lits, literal{v: v, complement: negate})
	}
	if len(lits) == 0 {
		return nil, errMalformed
	}
	return lits, nil
}

// toImplicant folds literals into an implicant. positive gives the cell bit
// value that an uncomplemented literal requires.
func toImplicant(lits []literal, numVars int, positive bool) (implicant, error) {
	mask := fullMask(numVars)
	var value uint32
	for _, l := range lits {
		bit := varBit(numVars, l.v)
		want := positive != l.complement
		if mask&bit == 0 {
			if (value&bit != 0) != want {
				return implicant{}, fmt.Errorf("%w: contradictory literals", errMalformed)
			}
			continue
		}
		mask &^= bit
		if want {
			value |= bit
		}
	}
	return newImplicant(value, mask), nil
}

// parseSOP reads a sum of products into implicants over the one cells
func parseSOP(s string, numVars int) ([]implicant, error) {
	if s == "" {
		return nil, errMalformed
	}
	if s == "0" {
		return nil, nil
	}
	var out []implicant
	for _, term := range strings.Split(s, "+") {
		if term == "1" {
			out = append(out, newImplicant(0, fullMask(numVars)))
			continue
		}
		lits, err := parseLiterals(term, numVars)
		if err != nil {
			return nil, err
		}
		im, err := toImplicant(lits, numVars, true)
		if err != nil {
			return nil, err
		}
		out = append(out, im)
	}
	return out, nil
}

// parsePOS reads a product of sums into implicants over the zero cells
func parsePOS(s string, numVars int) ([]implicant, error) {
	if s == "" {
		return nil, errMalformed
	}
	if s == "1" {
		return nil, nil
	}

	var clauses []string
	if strings.ContainsAny(s, "()") {
		rest := s
		for rest != "" {
			if rest[0] != '(' {
				return nil, fmt.Errorf("%w: expected '('", errMalformed)
			}
			end := strings.IndexByte(rest, ')')
			if end < 0 {
				return nil, fmt.Errorf("%w: unclosed clause", errMalformed)
			}
			clauses = append(clauses, rest[1:end])
			rest = rest[end+1:]
		}
	} else {
		clauses = []string{s}
	}

	var out []implicant
	for _, clause := range clauses {
		if clause == "0" {
			out = append(out, newImplicant(0, fullMask(numVars)))
			continue
		}
		var lits []literal
		for _, part := range strings.Split(clause, "+") {
			l, err := parseLiterals(part, numVars)
			if err != nil {
				return nil, err
			}
			if len(l) != 1 {
				return nil, fmt.Errorf("%w: clause literal %q", errMalformed, part)
			}
			lits = append(lits, l[0])
		}
		im, err := toImplicant(lits, numVars, false)
		if err != nil {
			return nil, err
		}
		out = append(out, im)
	}
	return out, nil
}
