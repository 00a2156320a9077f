package cli

import (
	"fmt"
	"strings"

	"github.com/mcoot/kmapgame/internal/model"
)

const variableNames = "ABCDE"

// renderKMap draws the puzzle as a Karnaugh map. Rows take the high
// variables and columns the low ones, both in Gray code order. Cells show
// the function value with X for don't cares.
func renderKMap(p model.Puzzle) []string {
	if p.NumVars < 2 || p.NumVars > len(variableNames) {
		return nil
	}

	rowBits := p.NumVars / 2
	colBits := p.NumVars - rowBits

	on, off := "1", "0"
	if p.Form == model.FormMax {
		on, off = "0", "1"
	}
	value := make(map[int]string, len(p.Terms)+len(p.DontCares))
	for _, t := range p.Terms {
		value[t] = on
	}
	for _, d := range p.DontCares {
		value[d] = "X"
	}

	rowLabel := variableNames[:rowBits]
	colLabel := variableNames[rowBits:p.NumVars]
	cellWidth := max(colBits, 1) + 1

	var lines []string

	header := fmt.Sprintf("%-*s|", rowBits+len(colLabel)+2, rowLabel+`\`+colLabel)
	for c := 0; c < 1<<colBits; c++ {
		header += fmt.Sprintf(" %-*s", cellWidth, bits(gray(c), colBits))
	}
	header = strings.TrimRight(header, " ")
	lines = append(lines, header, strings.Repeat("-", len(header)))

	for r := 0; r < 1<<rowBits; r++ {
		row := fmt.Sprintf("%-*s|", rowBits+len(colLabel)+2, bits(gray(r), rowBits))
		for c := 0; c < 1<<colBits; c++ {
			cell := gray(r)<<colBits | gray(c)
			v, ok := value[cell]
			if !ok {
				v = off
			}
			row += fmt.Sprintf(" %-*s", cellWidth, v)
		}
		lines = append(lines, strings.TrimRight(row, " "))
	}
	return lines
}

func gray(i int) int {
	return i ^ (i >> 1)
}

func bits(v, width int) string {
	return fmt.Sprintf("%0*b", width, v)
}
