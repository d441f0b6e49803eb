package ingest

import (
	"bufio"

	"flightdata/internal/airline"
	"flightdata/internal/tokeniser"
	"flightdata/internal/validate"
)

// reservations.csv: id, flight-id list, document_no, seat, price,
// extra_luggage, priority_boarding, qr_code. Seat and the trailing flags
// are not retained.
const reservationArity = 8

func (l *loader) readReservations(sc *bufio.Scanner, header string) {
	l.forEachRow(sc, "reservations", header, reservationArity, func(f []string) validate.Kind {
		if !validate.ReservationID(f[0]) {
			return validate.BadFormat
		}
		doc, ok := validate.DocumentNumber(f[2])
		if !ok {
			return validate.BadFormat
		}
		if !l.ds.HasPassenger(doc) {
			return validate.BadReference
		}

		ids, err := tokeniser.FlightIDs(f[1])
		if err != nil || len(ids) < 1 || len(ids) > 2 {
			return validate.BadFormat
		}
		for _, id := range ids {
			if !l.ds.HasFlight(id) {
				return validate.BadReference
			}
		}
		if len(ids) == 2 {
			first, _ := l.ds.Flight(ids[0])
			second, _ := l.ds.Flight(ids[1])
			if first.Destination != second.Origin {
				return validate.BadReference
			}
		}

		price, ok := validate.Price(f[4])
		if !ok {
			return validate.OutOfRange
		}
		if err := l.ds.InsertReservation(&airline.Reservation{
			ID:             f[0],
			FlightIDs:      ids,
			DocumentNumber: doc,
			Price:          price,
		}); err != nil {
			return validate.Duplicate
		}
		return validate.None
	})
}
