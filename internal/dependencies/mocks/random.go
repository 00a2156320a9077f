package mocks

import (
	"sync"

	"github.com/mcoot/kmapgame/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing.
// Queued values are consumed in order; when a queue runs dry Intn returns 0
// and Perm returns the identity permutation.
type MockRandom struct {
	mu sync.Mutex

	intnResults []int
	intnIndex   int

	permResults [][]int
	permIndex   int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued result clamped into [0, n), or 0 if none remaining
func (r *MockRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.intnIndex >= len(r.intnResults) || n <= 0 {
		return 0
	}
	result := r.intnResults[r.intnIndex]
	r.intnIndex++
	if result >= n {
		result = n - 1
	}
	if result < 0 {
		result = 0
	}
	return result
}

// Perm returns the next queued permutation if it has length n,
// otherwise the identity permutation
func (r *MockRandom) Perm(n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.permIndex < len(r.permResults) && len(r.permResults[r.permIndex]) == n {
		p := append([]int{}, r.permResults[r.permIndex]...)
		r.permIndex++
		return p
	}
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return p
}

// QueueIntn adds values to the Intn result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.intnResults = append(r.intnResults, values...)
}

// QueuePerm adds a permutation to the Perm result queue
func (r *MockRandom) QueuePerm(p ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.permResults = append(r.permResults, append([]int{}, p...))
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.intnResults = nil
	r.intnIndex = 0
	r.permResults = nil
	r.permIndex = 0
}
