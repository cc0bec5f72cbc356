package mcts

import (
	"context"
	"math"
	"strings"
	"sync/atomic"
	"time"
)

type StopReason int

const (
	StopNone      StopReason = 0
	StopInterrupt StopReason = 1  // Stop called or context done
	StopMovetime  StopReason = 2  // Time limit reached
	StopMemory    StopReason = 4  // Memory limit reached
	StopDepth     StopReason = 8  // Depth limit reached
	StopCycles    StopReason = 16 // Cycle limit reached
)

var stopReasonNames = []struct {
	flag StopReason
	name string
}{
	{StopInterrupt, "Interrupt"},
	{StopMovetime, "Movetime"},
	{StopMemory, "Memory"},
	{StopDepth, "Depth"},
	{StopCycles, "Cycles"},
}

func (sr StopReason) String() string {
	if sr == StopNone {
		return "None"
	}

	names := make([]string, 0, len(stopReasonNames))
	for _, r := range stopReasonNames {
		if sr&r.flag == r.flag {
			names = append(names, r.name)
		}
	}
	return strings.Join(names, "|")
}

// Decides when the search ends and whether the tree may still grow
type Limiter struct {
	limits   *Limits
	timer    *timer
	nodeSize uint32
	maxSize  uint32
	expand   atomic.Bool
	stop     atomic.Bool
	isSet    StopReason
	reason   StopReason
	ctx      context.Context
}

// Create a limiter for nodes of given size in bytes
func NewLimiter(nodesize uint32) *Limiter {
	limiter := &Limiter{
		limits:   DefaultLimits(),
		timer:    newTimer(),
		nodeSize: max(nodesize, 1),
		ctx:      context.Background(),
	}

	limiter.expand.Store(true)
	return limiter
}

// Called before every search
func (l *Limiter) Reset() {
	duration := time.Duration(-1)
	if l.limits.Movetime >= 0 {
		duration = time.Duration(l.limits.Movetime) * time.Millisecond
	}
	l.timer.reset(duration)
	l.stop.Store(false)
	l.expand.Store(true)
	l.reason = StopNone

	l.maxSize = math.MaxUint32
	if l.limits.ByteSize != DefaultByteSizeLimit {
		l.maxSize = uint32(min(l.limits.ByteSize/int64(l.nodeSize), math.MaxUint32))
	}

	l.isSet = StopNone
	if l.timer.isSet() {
		l.isSet |= StopMovetime
	}
	if l.limits.ByteSize != DefaultByteSizeLimit {
		l.isSet |= StopMemory
	}
	if l.limits.Depth != DefaultDepthLimit {
		l.isSet |= StopDepth
	}
	if l.limits.Cycles != DefaultCyclesLimit {
		l.isSet |= StopCycles
	}
}

func (l *Limiter) SetContext(ctx context.Context) {
	l.ctx = ctx
}

func (l *Limiter) SetLimits(limits *Limits) {
	l.limits = limits
}

func (l *Limiter) Limits() *Limits {
	return l.limits
}

func (l *Limiter) SetStop(v bool) {
	l.stop.Store(v)
}

// Whether the search was told to stop, either directly or by the context
func (l *Limiter) Stop() bool {
	select {
	case <-l.ctx.Done():
		l.stop.Store(true)
	default:
	}
	return l.stop.Load()
}

// Elapsed time in ms since the last Reset
func (l *Limiter) Elapsed() uint32 {
	return l.timer.elapsedMs()
}

// Whether the tree can still grow
func (l *Limiter) Expand() bool {
	return l.expand.Load()
}

// Set of the limits reached, with the tree of given size, depth and cycles
func (l *Limiter) reached(size, depth, cycles uint32) StopReason {
	reached := StopNone
	if l.Stop() {
		reached |= StopInterrupt
	}
	if l.limits.Infinite {
		return reached
	}

	if l.timer.expired() {
		reached |= StopMovetime
	}
	if l.maxSize <= size {
		reached |= StopMemory
	}
	if l.limits.Depth <= int(depth) {
		reached |= StopDepth
	}
	if l.limits.Cycles <= cycles {
		reached |= StopCycles
	}

	// Memory combined with time or cycles: once the memory is exhausted,
	// stop growing the tree and keep searching until the other limit
	if l.isSet&StopMemory != 0 && l.isSet&(StopMovetime|StopCycles) != 0 && reached&StopMemory != 0 {
		l.expand.Store(false)
		reached &^= StopMemory
	}
	return reached
}

// Whether the search may continue, called in the main search loop
func (l *Limiter) Ok(size, depth, cycles uint32) bool {
	return l.reached(size, depth, cycles) == StopNone
}

// Store the reason of the stop, called once by the main thread after
// its search loop ends
func (l *Limiter) EvaluateStopReason(size, depth, cycles uint32) {
	l.reason = l.reached(size, depth, cycles)
}

// Reason why the search was stopped, valid after the search ends
func (l *Limiter) StopReason() StopReason {
	return l.reason
}
