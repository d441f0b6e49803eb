// Package natarrivals answers query 6: the airport where passengers of a
// given nationality most often arrive.
package natarrivals

import (
	"fmt"
	"io"

	"flightdata/internal/dataset"
	"flightdata/internal/queryreg"
)

type module struct{}

func init() {
	queryreg.Register(module{})
}

// context maps nationality to a histogram of arrival airports, counted
// per reservation flight leg, cancelled legs excluded.
type context struct {
	arrivals map[string]map[string]int
}

func (module) ID() int { return 6 }

func (module) Init(ds *dataset.Dataset) (queryreg.Context, error) {
	ctx := &context{arrivals: make(map[string]map[string]int)}

	it := ds.Reservations()
	for r, ok := it.Next(); ok; r, ok = it.Next() {
		p, ok := ds.Passenger(r.DocumentNumber)
		if !ok {
			continue
		}
		hist := ctx.arrivals[p.Nationality]
		if hist == nil {
			hist = make(map[string]int)
			ctx.arrivals[p.Nationality] = hist
		}
		for _, fid := range r.FlightIDs {
			f, ok := ds.Flight(fid)
			if !ok || f.Cancelled() {
				continue
			}
			hist[f.Destination]++
		}
	}
	return ctx, nil
}

func (module) Run(c queryreg.Context, _ *dataset.Dataset, args queryreg.Args, w io.Writer) error {
	ctx := c.(*context)

	hist, ok := ctx.arrivals[args.Arg1]
	if !ok {
		_, err := fmt.Fprintln(w)
		return err
	}

	best := ""
	bestCount := 0
	for code, count := range hist {
		if count > bestCount || (count == bestCount && (best == "" || code < best)) {
			best = code
			bestCount = count
		}
	}
	if best == "" {
		_, err := fmt.Fprintln(w)
		return err
	}
	_, err := fmt.Fprintf(w, "%s%c%d\n", best, args.Sep, bestCount)
	return err
}

func (module) Destroy(queryreg.Context) {}
