// Package topdepartures answers query 3: the airport with the most
// reservation-independent flight departures inside a date range. Each
// origin airport carries a Fenwick tree over its distinct departure days,
// so a range query costs two binary searches and two prefix sums per
// airport instead of a scan over flights.
package topdepartures

import (
	"fmt"
	"io"
	"sort"

	"flightdata/internal/dataset"
	"flightdata/internal/fenwick"
	"flightdata/internal/queryreg"
	"flightdata/internal/timeutil"
)

type module struct{}

func init() {
	queryreg.Register(module{})
}

// airportTree is one origin's day index: sorted distinct departure days
// and a Fenwick tree counting departures per day position (1-based).
type airportTree struct {
	days []int64
	tree *fenwick.Tree
}

type context struct {
	trees map[string]*airportTree
}

func (module) ID() int { return 3 }

func (module) Init(ds *dataset.Dataset) (queryreg.Context, error) {
	// First pass: distinct departure days per origin.
	daySets := make(map[string]map[int64]struct{})
	it := ds.Flights()
	for f, ok := it.Next(); ok; f, ok = it.Next() {
		if f.Cancelled() || f.ActualDeparture == timeutil.Absent {
			continue
		}
		day := timeutil.TruncateDay(f.ActualDeparture)
		set := daySets[f.Origin]
		if set == nil {
			set = make(map[int64]struct{})
			daySets[f.Origin] = set
		}
		set[day] = struct{}{}
	}

	ctx := &context{trees: make(map[string]*airportTree, len(daySets))}
	for code, set := range daySets {
		days := make([]int64, 0, len(set))
		for d := range set {
			days = append(days, d)
		}
		sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
		ctx.trees[code] = &airportTree{days: days, tree: fenwick.New(len(days))}
	}

	// Second pass: one point update per departure.
	it = ds.Flights()
	for f, ok := it.Next(); ok; f, ok = it.Next() {
		if f.Cancelled() || f.ActualDeparture == timeutil.Absent {
			continue
		}
		at := ctx.trees[f.Origin]
		day := timeutil.TruncateDay(f.ActualDeparture)
		i := sort.Search(len(at.days), func(i int) bool { return at.days[i] >= day })
		at.tree.Add(i+1, 1)
	}
	return ctx, nil
}

// rangeCount sums the departures with day in [start, end].
func (at *airportTree) rangeCount(start, end int64) int {
	lo := sort.Search(len(at.days), func(i int) bool { return at.days[i] >= start })
	hi := sort.Search(len(at.days), func(i int) bool { return at.days[i] > end })
	return at.tree.RangeSum(lo+1, hi)
}

func (module) Run(c queryreg.Context, ds *dataset.Dataset, args queryreg.Args, w io.Writer) error {
	ctx := c.(*context)

	start, err1 := timeutil.ParseDate(args.Arg1)
	end, err2 := timeutil.ParseDate(args.Arg2)
	if err1 != nil || err2 != nil {
		_, err := fmt.Fprintln(w)
		return err
	}

	best := ""
	bestCount := 0
	for code, at := range ctx.trees {
		count := at.rangeCount(start, end)
		if count > bestCount || (count == bestCount && (best == "" || code < best)) {
			best = code
			bestCount = count
		}
	}
	if bestCount == 0 || best == "" {
		_, err := fmt.Fprintln(w)
		return err
	}

	// Origins come from flights and may lack an airports.csv row; those
	// render with empty descriptive fields.
	var name, city, country string
	if a, ok := ds.Airport(best); ok {
		name, city, country = a.Name, a.City, a.Country
	}
	_, err := fmt.Fprintf(w, "%s%c%s%c%s%c%s%c%d\n",
		best, args.Sep, name, args.Sep, city, args.Sep, country, args.Sep, bestCount)
	return err
}

func (module) Destroy(queryreg.Context) {}
