package analysis

import (
	"encoding/json"
	"strings"

	"github.com/IlikeChooros/uttt-react-sub000/pkg/uttt"
)

// Search limits sent along with the position
type Limits struct {
	Depth   int `mapstructure:"depth" validate:"min=1,max=64"`
	Threads int `mapstructure:"threads" validate:"min=1,max=64"`
	SizeMB  int `mapstructure:"sizemb" validate:"min=1,max=4096"`
	MultiPv int `mapstructure:"multipv" validate:"min=1,max=81"`
}

func (l Limits) String() string {
	builder := strings.Builder{}
	_ = json.NewEncoder(&builder).Encode(l)
	return builder.String()
}

const (
	DefaultDepth   = 16
	DefaultThreads = 1
	DefaultSizeMB  = 16
	DefaultMultiPv = 3
)

func DefaultLimits() *Limits {
	return &Limits{
		Depth:   DefaultDepth,
		Threads: DefaultThreads,
		SizeMB:  DefaultSizeMB,
		MultiPv: DefaultMultiPv,
	}
}

// Set the maximum depth of the search
func (l *Limits) SetDepth(depth int) *Limits {
	l.Depth = max(depth, 1)
	return l
}

func (l *Limits) SetThreads(threads int) *Limits {
	l.Threads = max(threads, 1)
	return l
}

// Set the number of best lines the engine should report
func (l *Limits) SetMultiPv(multipv int) *Limits {
	l.MultiPv = max(1, multipv)
	return l
}

// Set the engine's hash table size in megabytes
func (l *Limits) SetMbSize(mbsize int) *Limits {
	l.SizeMB = max(1, mbsize)
	return l
}

// Build the analysis request for given position
func (l Limits) Request(pos uttt.Position) Request {
	return Request{
		Position: pos.Notation(),
		Depth:    l.Depth,
		Threads:  l.Threads,
		SizeMB:   l.SizeMB,
		MultiPv:  l.MultiPv,
	}
}
