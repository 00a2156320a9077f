package puzzle

import (
	"math/bits"
	"sort"
	"strings"
)

// maxVars is the largest variable count the engine can render (A..F)
const maxVars = 6

// implicant is a product term over the K-map cells. Bits set in mask are
// eliminated variables; value holds the required bits of the rest.
type implicant struct {
	value uint32
	mask  uint32
}

func newImplicant(value, mask uint32) implicant {
	return implicant{value: value &^ mask, mask: mask}
}

func (im implicant) covers(cell int) bool {
	return uint32(cell)&^im.mask == im.value
}

func (im implicant) literals(numVars int) int {
	return numVars - bits.OnesCount32(im.mask)
}

func (im implicant) cells(numVars int) []int {
	var out []int
	for c := 0; c < 1<<numVars; c++ {
		if im.covers(c) {
			out = append(out, c)
		}
	}
	return out
}

func fullMask(numVars int) uint32 {
	return uint32(1)<<numVars - 1
}

func varBit(numVars, v int) uint32 {
	return uint32(1) << (numVars - 1 - v)
}

func varName(v int) string {
	return string(rune('A' + v))
}

// renderProduct writes an implicant as a product term, e.g. A'BC
func renderProduct(im implicant, numVars int) string {
	var b strings.Builder
	for v := 0; v < numVars; v++ {
		bit := varBit(numVars, v)
		if im.mask&bit != 0 {
			continue
		}
		b.WriteString(varName(v))
		if im.value&bit == 0 {
			b.WriteByte('\'')
		}
	}
	if b.Len() == 0 {
		return "1"
	}
	return b.String()
}

// renderSum writes an implicant over the zero cells as a sum clause, e.g. (A+B'+C)
func renderSum(im implicant, numVars int) string {
	var lits []string
	for v := 0; v < numVars; v++ {
		bit := varBit(numVars, v)
		if im.mask&bit != 0 {
			continue
		}
		if im.value&bit != 0 {
			lits = append(lits, varName(v)+"'")
		} else {
			lits = append(lits, varName(v))
		}
	}
	if len(lits) == 0 {
		return "0"
	}
	return "(" + strings.Join(lits, "+") + ")"
}

// renderSOP writes a cover as a sum of products
func renderSOP(cover []implicant, numVars int) string {
	if len(cover) == 0 {
		return "0"
	}
	terms := make([]string, len(cover))
	for i, im := range cover {
		terms[i] = renderProduct(im, numVars)
	}
	sort.Strings(terms)
	return strings.Join(terms, " + ")
}

// renderPOS writes a cover of the zero cells as a product of sums
func renderPOS(cover []implicant, numVars int) string {
	if len(cover) == 0 {
		return "1"
	}
	clauses := make([]string, len(cover))
	for i, im := range cover {
		clauses[i] = renderSum(im, numVars)
	}
	sort.Strings(clauses)
	return strings.Join(clauses, "")
}
