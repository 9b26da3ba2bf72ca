package workflow

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// IDGenerator hands out node and edge ids.
//
// Node ids keep the "<componentKey>-<epochMillis>" shape, but the millisecond
// part never repeats within one generator: when the clock has not moved past
// the last issued value, the last value plus one is used instead.
type IDGenerator struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// defaultIDs is shared by every Editor built without WithIDGenerator, so
// node ids stay unique across editors in one process.
var defaultIDs = NewIDGenerator()

// NewIDGenerator returns a generator reading the wall clock.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{now: time.Now}
}

// NewIDGeneratorWithClock returns a generator reading now. Used by tests.
func NewIDGeneratorWithClock(now func() time.Time) *IDGenerator {
	return &IDGenerator{now: now}
}

// NodeID returns a fresh node id for componentKey.
func (g *IDGenerator) NodeID(componentKey string) string {
	g.mu.Lock()
	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	g.mu.Unlock()
	return fmt.Sprintf("%s-%d", componentKey, ms)
}

// Observe moves the generator past the millisecond suffix of a node id
// issued elsewhere, such as one read from a document. Ids without a numeric
// suffix are ignored.
func (g *IDGenerator) Observe(id string) {
	i := strings.LastIndexByte(id, '-')
	if i < 0 {
		return
	}
	ms, err := strconv.ParseInt(id[i+1:], 10, 64)
	if err != nil {
		return
	}
	g.mu.Lock()
	if ms > g.last {
		g.last = ms
	}
	g.mu.Unlock()
}

// EdgeID returns a fresh edge id.
func (g *IDGenerator) EdgeID() string {
	return "edge-" + uuid.NewString()
}
