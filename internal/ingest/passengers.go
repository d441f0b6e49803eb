package ingest

import (
	"bufio"

	"flightdata/internal/airline"
	"flightdata/internal/timeutil"
	"flightdata/internal/validate"
)

// passengers.csv: document_no, first_name, last_name, dob, nationality,
// gender, email, phone, address, photo. The trailing contact columns are
// carried in the file but not retained.
const passengerArity = 10

func (l *loader) readPassengers(sc *bufio.Scanner, header string) {
	l.forEachRow(sc, "passengers", header, passengerArity, func(f []string) validate.Kind {
		doc, ok := validate.DocumentNumber(f[0])
		if !ok {
			return validate.BadFormat
		}
		if f[1] == "" || f[2] == "" || f[4] == "" {
			return validate.BadFormat
		}
		if !validate.Gender(f[5]) {
			return validate.BadEnum
		}
		dob, err := timeutil.ParseDate(f[3])
		if err != nil || dob > l.refDate {
			return validate.OutOfRange
		}
		if !validate.Email(f[6]) {
			return validate.BadFormat
		}
		if err := l.ds.InsertPassenger(&airline.Passenger{
			DocumentNumber: doc,
			FirstName:      f[1],
			LastName:       f[2],
			DateOfBirth:    dob,
			Nationality:    f[4],
			Gender:         f[5][0],
		}); err != nil {
			return validate.Duplicate
		}
		return validate.None
	})
}
