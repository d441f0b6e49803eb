// Package airlinedelays answers query 5: the N airlines with the worst
// average departure delay over their Delayed flights.
package airlinedelays

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"flightdata/internal/airline"
	"flightdata/internal/dataset"
	"flightdata/internal/queryreg"
)

type module struct{}

func init() {
	queryreg.Register(module{})
}

type airlineDelay struct {
	airline string
	count   int
	avg     float64
}

// context holds the airlines presorted by (avg desc, name asc); Run only
// slices off a prefix.
type context struct {
	ranked []airlineDelay
}

// round3 rounds half to even at three decimal places.
func round3(x float64) float64 {
	return math.RoundToEven(x*1000) / 1000
}

func (module) ID() int { return 5 }

func (module) Init(ds *dataset.Dataset) (queryreg.Context, error) {
	type acc struct {
		count int
		sum   float64
	}
	totals := make(map[string]*acc)
	var order []string

	it := ds.Flights()
	for f, ok := it.Next(); ok; f, ok = it.Next() {
		if f.Status != airline.StatusDelayed {
			continue
		}
		// Delayed rows always carry an actual departure.
		minutes := float64(f.ActualDeparture-f.ScheduledDeparture) / 60
		a := totals[f.Airline]
		if a == nil {
			a = &acc{}
			totals[f.Airline] = a
			order = append(order, f.Airline)
		}
		a.count++
		a.sum += minutes
	}

	ctx := &context{ranked: make([]airlineDelay, 0, len(order))}
	for _, name := range order {
		a := totals[name]
		ctx.ranked = append(ctx.ranked, airlineDelay{
			airline: name,
			count:   a.count,
			avg:     round3(a.sum / float64(a.count)),
		})
	}
	sort.Slice(ctx.ranked, func(i, j int) bool {
		if ctx.ranked[i].avg != ctx.ranked[j].avg {
			return ctx.ranked[i].avg > ctx.ranked[j].avg
		}
		return ctx.ranked[i].airline < ctx.ranked[j].airline
	})
	return ctx, nil
}

func (module) Run(c queryreg.Context, _ *dataset.Dataset, args queryreg.Args, w io.Writer) error {
	ctx := c.(*context)

	n, err := strconv.Atoi(args.Arg1)
	if err != nil || n <= 0 || len(ctx.ranked) == 0 {
		_, err := fmt.Fprintln(w)
		return err
	}
	if n > len(ctx.ranked) {
		n = len(ctx.ranked)
	}
	for _, r := range ctx.ranked[:n] {
		if _, err := fmt.Fprintf(w, "%s%c%d%c%.3f\n",
			r.airline, args.Sep, r.count, args.Sep, r.avg); err != nil {
			return err
		}
	}
	return nil
}

func (module) Destroy(queryreg.Context) {}
