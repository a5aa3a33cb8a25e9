package sim

import (
	"strconv"
	"sync/atomic"

	"github.com/rs/xid"
)

// IDGenerator can generate IDs.
type IDGenerator interface {
	// Generate an ID
	Generate() string
}

// NewSequentialIDGenerator creates an IDGenerator that returns prefix1,
// prefix2, and so on.
func NewSequentialIDGenerator(prefix string) IDGenerator {
	return &sequentialIDGenerator{prefix: prefix}
}

// NewXIDGenerator creates an IDGenerator that returns globally unique IDs.
func NewXIDGenerator() IDGenerator {
	return xidGenerator{}
}

type sequentialIDGenerator struct {
	prefix string
	nextID uint64
}

func (g *sequentialIDGenerator) Generate() string {
	idNumber := atomic.AddUint64(&g.nextID, 1)
	return g.prefix + strconv.FormatUint(idNumber, 10)
}

type xidGenerator struct{}

func (xidGenerator) Generate() string {
	return xid.New().String()
}
