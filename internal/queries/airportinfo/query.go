// Package airportinfo answers query 1: the identity card of one airport
// plus its reservation traffic totals.
package airportinfo

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

func (module) ID() int { return 1 }

// The traffic summary lives on the dataset already; there is no derived
// state to build.
func (module) Init(ds *dataset.Dataset) (queryreg.Context, error) { return nil, nil }

func (module) Run(_ queryreg.Context, ds *dataset.Dataset, args queryreg.Args, w io.Writer) error {
	a, ok := ds.Airport(args.Arg1)
	if !ok {
		_, err := fmt.Fprintln(w)
		return err
	}
	t := ds.Traffic(a.Code)
	if t.Arrivals == 0 && t.Departures == 0 {
		// An airport no accepted reservation touches has no summary.
		_, err := fmt.Fprintln(w)
		return err
	}
	_, err := fmt.Fprintf(w, "%s%c%s%c%s%c%s%c%s%c%d%c%d\n",
		a.Code, args.Sep, a.Name, args.Sep, a.City, args.Sep, a.Country, args.Sep,
		a.Type, args.Sep, t.Arrivals, args.Sep, t.Departures)
	return err
}

func (module) Destroy(queryreg.Context) {}
