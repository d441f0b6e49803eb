// Package topspenders answers query 4: the passenger appearing most often
// in the weekly top-10 spender rankings over a week range.
package topspenders

import (
	"container/heap"
	"fmt"
	"io"
	"math"

	"flightdata/internal/dataset"
	"flightdata/internal/queryreg"
	"flightdata/internal/timeutil"
)

type module struct{}

func init() {
	queryreg.Register(module{})
}

const (
	weekSeconds = 604800
	// The epoch fell on a Thursday, three days into its Monday-started
	// week; shifting by three days lands week boundaries on Monday 00:00.
	mondayOffset = 259200

	topSize = 10
)

// weekIndex buckets a timestamp into its Monday-aligned week number.
func weekIndex(t int64) int {
	return int((t + mondayOffset) / weekSeconds)
}

type context struct {
	// tops holds, per week, the up-to-10 document numbers ranked by
	// (spend desc, document asc).
	tops    map[int][]int
	minWeek int
	maxWeek int
}

type spend struct {
	doc   int
	total float64
}

// spendHeap keeps the weakest spender of the current top 10 at the root:
// lowest total first, ties ordered so the larger document number is
// evicted first.
type spendHeap []spend

func (h spendHeap) Len() int { return len(h) }
func (h spendHeap) Less(i, j int) bool {
	if h[i].total != h[j].total {
		return h[i].total < h[j].total
	}
	return h[i].doc > h[j].doc
}
func (h spendHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *spendHeap) Push(x any)   { *h = append(*h, x.(spend)) }
func (h *spendHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

func (module) ID() int { return 4 }

func (module) Init(ds *dataset.Dataset) (queryreg.Context, error) {
	ctx := &context{
		tops:    make(map[int][]int),
		minWeek: math.MaxInt,
		maxWeek: math.MinInt,
	}

	// Week buckets keyed by the scheduled departure of each
	// reservation's first flight; spend accumulated per passenger.
	byWeek := make(map[int]map[int]float64)
	it := ds.Reservations()
	for r, ok := it.Next(); ok; r, ok = it.Next() {
		f, ok := ds.Flight(r.FlightIDs[0])
		if !ok || f.ScheduledDeparture <= 0 {
			continue
		}
		week := weekIndex(f.ScheduledDeparture)
		if week < ctx.minWeek {
			ctx.minWeek = week
		}
		if week > ctx.maxWeek {
			ctx.maxWeek = week
		}
		spends := byWeek[week]
		if spends == nil {
			spends = make(map[int]float64)
			byWeek[week] = spends
		}
		spends[r.DocumentNumber] += r.Price
	}

	for week, spends := range byWeek {
		h := make(spendHeap, 0, topSize+1)
		for doc, total := range spends {
			heap.Push(&h, spend{doc: doc, total: total})
			if h.Len() > topSize {
				heap.Pop(&h)
			}
		}
		top := make([]int, h.Len())
		for i := len(top) - 1; i >= 0; i-- {
			top[i] = heap.Pop(&h).(spend).doc
		}
		ctx.tops[week] = top
	}
	return ctx, nil
}

func (module) Run(c queryreg.Context, ds *dataset.Dataset, args queryreg.Args, w io.Writer) error {
	ctx := c.(*context)

	startWeek, endWeek := ctx.minWeek, ctx.maxWeek
	if args.Arg1 != "" {
		t, err := timeutil.ParseDate(args.Arg1)
		if err != nil {
			_, err := fmt.Fprintln(w)
			return err
		}
		startWeek = weekIndex(t)
	}
	if args.Arg2 != "" {
		t, err := timeutil.ParseDate(args.Arg2)
		if err != nil {
			_, err := fmt.Fprintln(w)
			return err
		}
		endWeek = weekIndex(t)
	}
	if startWeek > endWeek {
		_, err := fmt.Fprintln(w)
		return err
	}

	freq := make(map[int]int)
	for week := startWeek; week <= endWeek; week++ {
		for _, doc := range ctx.tops[week] {
			freq[doc]++
		}
	}

	winner, best := -1, -1
	for doc, count := range freq {
		if count > best || (count == best && (winner == -1 || doc < winner)) {
			winner = doc
			best = count
		}
	}
	if winner == -1 {
		_, err := fmt.Fprintln(w)
		return err
	}

	p, ok := ds.Passenger(winner)
	if !ok {
		_, err := fmt.Fprintln(w)
		return err
	}
	_, err := fmt.Fprintf(w, "%09d%c%s%c%s%c%s%c%s%c%d\n",
		p.DocumentNumber, args.Sep, p.FirstName, args.Sep, p.LastName, args.Sep,
		timeutil.FormatDate(p.DateOfBirth), args.Sep, p.Nationality, args.Sep, best)
	return err
}

func (module) Destroy(queryreg.Context) {}
