package mcts

import (
	"encoding/json"
	"math"
	"strings"
)

// Limits of a single search
type Limits struct {
	Depth    int
	Cycles   uint32
	Movetime int // milliseconds
	Infinite bool
	Threads  int
	ByteSize int64
	MultiPv  int
}

func (l Limits) String() string {
	builder := strings.Builder{}
	_ = json.NewEncoder(&builder).Encode(l)
	return builder.String()
}

const (
	DefaultDepthLimit    int    = math.MaxInt
	DefaultMovetimeLimit int    = -1
	DefaultByteSizeLimit int64  = -1
	DefaultCyclesLimit   uint32 = math.MaxUint32
)

// No limits at all, the search runs until it's stopped
func DefaultLimits() *Limits {
	return &Limits{
		Depth:    DefaultDepthLimit,
		Cycles:   DefaultCyclesLimit,
		Movetime: DefaultMovetimeLimit,
		Infinite: true,
		Threads:  1,
		ByteSize: DefaultByteSizeLimit,
		MultiPv:  1,
	}
}

// Set the maximum depth of the tree
func (l *Limits) SetDepth(depth int) *Limits {
	l.Depth = depth
	l.Infinite = false
	return l
}

// Set the number of rollouts
func (l *Limits) SetCycles(cycles uint32) *Limits {
	l.Cycles = cycles
	l.Infinite = false
	return l
}

// Set the maximum time to think, in milliseconds
func (l *Limits) SetMovetime(movetime int) *Limits {
	l.Movetime = movetime
	l.Infinite = false
	return l
}

func (l *Limits) SetThreads(threads int) *Limits {
	l.Threads = max(threads, 1)
	return l
}

func (l *Limits) SetMultiPv(multipv int) *Limits {
	l.MultiPv = max(1, multipv)
	return l
}

func (l *Limits) SetMbSize(mbsize int) *Limits {
	return l.SetByteSize(int64(mbsize) * (1 << 20))
}

func (l *Limits) SetByteSize(bytesize int64) *Limits {
	l.ByteSize = bytesize
	l.Infinite = false
	return l
}
