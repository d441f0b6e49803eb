// Package aircrafttop answers query 2: the N aircraft with the most
// non-cancelled flights, optionally restricted to one manufacturer.
package aircrafttop

import (
	"container/heap"
	"fmt"
	"io"
	"strconv"

	"flightdata/internal/airline"
	"flightdata/internal/dataset"
	"flightdata/internal/queryreg"
)

type module struct{}

func init() {
	queryreg.Register(module{})
}

// context pairs each aircraft with its precomputed flight count, both in
// dataset insertion order.
type context struct {
	aircraft []*airline.Aircraft
	counts   []int
}

func (module) ID() int { return 2 }

func (module) Init(ds *dataset.Dataset) (queryreg.Context, error) {
	ctx := &context{
		aircraft: make([]*airline.Aircraft, 0, ds.NumAircraft()),
	}
	index := make(map[string]int, ds.NumAircraft())

	it := ds.AllAircraft()
	for a, ok := it.Next(); ok; a, ok = it.Next() {
		index[a.ID] = len(ctx.aircraft)
		ctx.aircraft = append(ctx.aircraft, a)
	}
	ctx.counts = make([]int, len(ctx.aircraft))

	fit := ds.Flights()
	for f, ok := fit.Next(); ok; f, ok = fit.Next() {
		if f.Cancelled() {
			continue
		}
		if i, ok := index[f.AircraftID]; ok {
			ctx.counts[i]++
		}
	}
	return ctx, nil
}

// node is one heap entry.
type node struct {
	ac    *airline.Aircraft
	count int
}

// minHeap keeps the weakest of the current top N at the root: lowest
// count first, ties ordered so the lexicographically larger id is evicted
// first, which leaves ties sorted by smaller id in the final extraction.
type minHeap []node

func (h minHeap) Len() int { return len(h) }
func (h minHeap) Less(i, j int) bool {
	if h[i].count != h[j].count {
		return h[i].count < h[j].count
	}
	return h[i].ac.ID > h[j].ac.ID
}
func (h minHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x any)   { *h = append(*h, x.(node)) }
func (h *minHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

func (module) Run(c queryreg.Context, _ *dataset.Dataset, args queryreg.Args, w io.Writer) error {
	ctx := c.(*context)

	n, err := strconv.Atoi(args.Arg1)
	if err != nil || n <= 0 {
		_, err := fmt.Fprintln(w)
		return err
	}
	filter := args.Arg2

	capacity := n + 1
	if capacity > len(ctx.aircraft)+1 {
		capacity = len(ctx.aircraft) + 1
	}
	h := make(minHeap, 0, capacity)
	for i, ac := range ctx.aircraft {
		count := ctx.counts[i]
		if count == 0 {
			continue
		}
		if filter != "" && ac.Manufacturer != filter {
			continue
		}
		heap.Push(&h, node{ac: ac, count: count})
		if h.Len() > n {
			heap.Pop(&h)
		}
	}

	if h.Len() == 0 {
		_, err := fmt.Fprintln(w)
		return err
	}

	// Pop ascending, fill backwards: the output is descending by count,
	// ties by smaller id.
	rows := make([]node, h.Len())
	for i := len(rows) - 1; i >= 0; i-- {
		rows[i] = heap.Pop(&h).(node)
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%s%c%s%c%s%c%d\n",
			r.ac.ID, args.Sep, r.ac.Manufacturer, args.Sep, r.ac.Model, args.Sep, r.count); err != nil {
			return err
		}
	}
	return nil
}

func (module) Destroy(queryreg.Context) {}
