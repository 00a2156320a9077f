package mocks

import (
	"fmt"
	"sync"

	"github.com/mcoot/kmapgame/internal/dependencies/idgen"
)

// MockIDGenerator issues predictable IDs: id-1, id-2, ...
type MockIDGenerator struct {
	mu   sync.Mutex
	next int
}

// Ensure MockIDGenerator implements Generator
var _ idgen.Generator = (*MockIDGenerator)(nil)

// NewMockIDGenerator creates a new MockIDGenerator
func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

// NewID returns the next sequential ID
func (g *MockIDGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("id-%d", g.next)
}
