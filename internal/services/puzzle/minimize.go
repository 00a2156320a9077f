package puzzle

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// maxCanonical caps how many equal-cost minimal covers are kept
const maxCanonical = 8

// cost orders covers by term count, then literal count
type cost struct {
	terms    int
	literals int
}

func (c cost) less(o cost) bool {
	if c.terms != o.terms {
		return c.terms < o.terms
	}
	return c.literals < o.literals
}

func coverCost(cover []implicant, numVars int) cost {
	c := cost{terms: len(cover)}
	for _, im := range cover {
		c.literals += im.literals(numVars)
	}
	return c
}

// primeImplicants merges adjacent implicants until nothing combines further.
// Whatever never combined is prime.
func primeImplicants(numVars int, cells []int) []implicant {
	current := make(map[implicant]bool, len(cells))
	for _, c := range cells {
		current[newImplicant(uint32(c), 0)] = true
	}

	var primes []implicant
	for len(current) > 0 {
		list := sortedImplicants(current)
		next := make(map[implicant]bool)
		combined := make(map[implicant]bool)

		for i := 0; i < len(list); i++ {
			for j := i + 1; j < len(list); j++ {
				a, b := list[i], list[j]
				if a.mask != b.mask {
					continue
				}
				diff := a.value ^ b.value
				if diff&(diff-1) != 0 {
					continue
				}
				next[newImplicant(a.value, a.mask|diff)] = true
				combined[a] = true
				combined[b] = true
			}
		}

		for _, im := range list {
			if !combined[im] {
				primes = append(primes, im)
			}
		}
		current = next
	}

	sort.Slice(primes, func(i, j int) bool {
		li, lj := primes[i].literals(numVars), primes[j].literals(numVars)
		if li != lj {
			return li < lj
		}
		if primes[i].mask != primes[j].mask {
			return primes[i].mask < primes[j].mask
		}
		return primes[i].value < primes[j].value
	})
	return primes
}

func sortedImplicants(set map[implicant]bool) []implicant {
	list := make([]implicant, 0, len(set))
	for im := range set {
		list = append(list, im)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].mask != list[j].mask {
			return list[i].mask < list[j].mask
		}
		return list[i].value < list[j].value
	})
	return list
}

// minimization is the outcome of minimizing one puzzle
type minimization struct {
	best   cost
	covers [][]implicant
}

// minimize finds every minimum-cost cover of required using implicants built
// from required plus dontCares. Covers are returned in a stable order.
func minimize(numVars int, required, dontCares []int) minimization {
	if len(required) == 0 {
		return minimization{covers: [][]implicant{{}}}
	}

	cells := append(append([]int{}, required...), dontCares...)
	primes := primeImplicants(numVars, cells)

	options := make(map[int][]int, len(required))
	for _, cell := range required {
		for i, p := range primes {
			if p.covers(cell) {
				options[cell] = append(options[cell], i)
			}
		}
	}

	s := &coverSearch{
		numVars:  numVars,
		required: required,
		primes:   primes,
		options:  options,
		best:     cost{terms: math.MaxInt, literals: math.MaxInt},
		seen:     make(map[string]bool),
	}
	s.search(nil, cost{})

	covers := make([][]implicant, len(s.found))
	for i, idx := range s.found {
		cover := make([]implicant, len(idx))
		for j, k := range idx {
			cover[j] = primes[k]
		}
		covers[i] = cover
	}
	return minimization{best: s.best, covers: covers}
}

type coverSearch struct {
	numVars  int
	required []int
	primes   []implicant
	options  map[int][]int
	best     cost
	found    [][]int
	seen     map[string]bool
}

func (s *coverSearch) search(chosen []int, current cost) {
	cell, ok := s.mostConstrainedUncovered(chosen)
	if !ok {
		s.record(chosen, current)
		return
	}

	for _, p := range s.options[cell] {
		next := cost{
			terms:    current.terms + 1,
			literals: current.literals + s.primes[p].literals(s.numVars),
		}
		if s.best.less(next) {
			continue
		}
		s.search(append(append([]int{}, chosen...), p), next)
	}
}

// mostConstrainedUncovered picks the uncovered cell with the fewest options
func (s *coverSearch) mostConstrainedUncovered(chosen []int) (int, bool) {
	bestCell, bestCount := -1, math.MaxInt
	for _, cell := range s.required {
		covered := false
		for _, p := range chosen {
			if s.primes[p].covers(cell) {
				covered = true
				break
			}
		}
		if covered {
			continue
		}
		if n := len(s.options[cell]); n < bestCount {
			bestCell, bestCount = cell, n
		}
	}
	return bestCell, bestCell >= 0
}

func (s *coverSearch) record(chosen []int, c cost) {
	if c.less(s.best) {
		s.best = c
		s.found = nil
		s.seen = make(map[string]bool)
	} else if s.best.less(c) {
		return
	}

	idx := append([]int{}, chosen...)
	sort.Ints(idx)
	parts := make([]string, len(idx))
	for i, k := range idx {
		parts[i] = strconv.Itoa(k)
	}
	key := strings.Join(parts, ",")
	if s.seen[key] || len(s.found) >= maxCanonical {
		return
	}
	s.seen[key] = true
	s.found = append(s.found, idx)
}
