package ingest

import (
	"bufio"

	"flightdata/internal/airline"
	"flightdata/internal/tokeniser"
	"flightdata/internal/validate"
)

// aircrafts.csv: id, manufacturer, model, year, capacity, range.
const aircraftArity = 6

func tokenise(raw string, arity int) ([]string, error) {
	return tokeniser.Fields(raw, arity)
}

func (l *loader) readAircraft(sc *bufio.Scanner, header string) {
	l.forEachRow(sc, "aircrafts", header, aircraftArity, func(f []string) validate.Kind {
		if !validate.AircraftID(f[0]) {
			return validate.BadFormat
		}
		if f[1] == "" || f[2] == "" {
			return validate.BadFormat
		}
		year, ok := validate.Year(f[3], l.refYear)
		if !ok {
			return validate.OutOfRange
		}
		capacity, ok := validate.PositiveInt(f[4])
		if !ok {
			return validate.OutOfRange
		}
		rng, ok := validate.PositiveInt(f[5])
		if !ok {
			return validate.OutOfRange
		}
		if err := l.ds.InsertAircraft(&airline.Aircraft{
			ID:           f[0],
			Manufacturer: f[1],
			Model:        f[2],
			Year:         year,
			Capacity:     capacity,
			Range:        rng,
		}); err != nil {
			return validate.Duplicate
		}
		return validate.None
	})
}
