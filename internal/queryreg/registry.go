// Package queryreg associates each query id with its module and drives
// dispatch. Query packages register themselves from init: importing
// flightdata/internal/queries pulls every module into the registry.
package queryreg

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"flightdata/internal/dataset"
)

// Args carries one dispatch's inputs. Sep is the output field separator:
// ';' by default, '=' when the command carried the alternate-separator
// suffix. It changes nothing but the byte between fields.
type Args struct {
	Arg1 string
	Arg2 string
	Sep  byte
}

// Context is a module's precomputed index, opaque to the engine. Contexts
// either own their derived state or borrow immutably from the dataset they
// were built from.
type Context any

// Module is one query implementation.
type Module interface {
	// ID returns the query's dispatch number.
	ID() int

	// Init builds the module's index from a Ready dataset.
	Init(ds *dataset.Dataset) (Context, error)

	// Run answers one dispatch, writing result rows (or a single newline
	// for an empty result) to w. Run must not mutate the dataset.
	Run(ctx Context, ds *dataset.Dataset, args Args, w io.Writer) error

	// Destroy releases the context. Called once per Init on engine close.
	Destroy(ctx Context)
}

// ErrUnknownQuery reports a dispatch id with no registered module.
var ErrUnknownQuery = errors.New("queryreg: unknown query id")

var (
	mu      sync.Mutex
	modules = make(map[int]Module)
)

// Register adds a module to the registry. Called during init in each query
// package; duplicate ids are a programming error.
func Register(m Module) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := modules[m.ID()]; dup {
		panic(fmt.Sprintf("queryreg: duplicate query id %d", m.ID()))
	}
	modules[m.ID()] = m
}

// Registered returns the registered modules in ascending id order.
func Registered() []Module {
	mu.Lock()
	defer mu.Unlock()
	out := make([]Module, 0, len(modules))
	for _, m := range modules {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Engine holds one context per registered module, built from a single
// Ready dataset. An engine is single-threaded, like everything above it.
type Engine struct {
	ds       *dataset.Dataset
	mods     map[int]Module
	contexts map[int]Context
	order    []int
}

// NewEngine instantiates every registered module against ds. The dataset
// must be Ready; it is not mutated again while the engine exists.
func NewEngine(ds *dataset.Dataset) (*Engine, error) {
	if ds.State() != dataset.Ready {
		return nil, fmt.Errorf("queryreg: dataset is %s, want ready", ds.State())
	}
	e := &Engine{
		ds:       ds,
		mods:     make(map[int]Module),
		contexts: make(map[int]Context),
	}
	for _, m := range Registered() {
		ctx, err := m.Init(ds)
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("queryreg: init query %d: %w", m.ID(), err)
		}
		e.mods[m.ID()] = m
		e.contexts[m.ID()] = ctx
		e.order = append(e.order, m.ID())
	}
	return e, nil
}

// Execute dispatches one query by id.
func (e *Engine) Execute(id int, args Args, w io.Writer) error {
	m, ok := e.mods[id]
	if !ok {
		return ErrUnknownQuery
	}
	return m.Run(e.contexts[id], e.ds, args, w)
}

// Close destroys all contexts in reverse construction order. The engine
// must not be used afterwards; a reload builds a fresh one.
func (e *Engine) Close() {
	for i := len(e.order) - 1; i >= 0; i-- {
		id := e.order[i]
		e.mods[id].Destroy(e.contexts[id])
	}
	e.order = nil
	e.mods = make(map[int]Module)
	e.contexts = make(map[int]Context)
}
