package ingest

import (
	"bufio"

	"flightdata/internal/airline"
	"flightdata/internal/validate"
)

// airports.csv: code, name, city, country, latitude, longitude, icao,
// type. Coordinates are validated and dropped; the ICAO column is ignored.
const airportArity = 8

func (l *loader) readAirports(sc *bufio.Scanner, header string) {
	l.forEachRow(sc, "airports", header, airportArity, func(f []string) validate.Kind {
		if !validate.AirportCode(f[0]) {
			return validate.BadFormat
		}
		if f[1] == "" || f[2] == "" || f[3] == "" {
			return validate.BadFormat
		}
		if !validate.Coordinates(f[4], f[5]) {
			return validate.OutOfRange
		}
		if !validate.AirportType(f[7]) {
			return validate.BadEnum
		}
		if err := l.ds.InsertAirport(&airline.Airport{
			Code:    f[0],
			Name:    f[1],
			City:    f[2],
			Country: f[3],
			Type:    f[7],
		}); err != nil {
			return validate.Duplicate
		}
		return validate.None
	})
}
