package ingest

import (
	"bufio"

	"flightdata/internal/airline"
	"flightdata/internal/timeutil"
	"flightdata/internal/validate"
)

// flights.csv: id, sched_dep, actual_dep, sched_arr, actual_arr, gate,
// status, origin, destination, aircraft_id, airline, tracking_url.
// Gate and tracking URL are carried in the file but not retained.
const flightArity = 12

func (l *loader) readFlights(sc *bufio.Scanner, header string) {
	l.forEachRow(sc, "flights", header, flightArity, func(f []string) validate.Kind {
		if !validate.FlightID(f[0]) {
			return validate.BadFormat
		}

		schedDep, err := timeutil.ParseDateTime(f[1])
		if err != nil {
			return validate.BadFormat
		}
		schedArr, err := timeutil.ParseDateTime(f[3])
		if err != nil {
			return validate.BadFormat
		}
		actDep, err := timeutil.ParseOptionalDateTime(f[2])
		if err != nil {
			return validate.BadFormat
		}
		actArr, err := timeutil.ParseOptionalDateTime(f[4])
		if err != nil {
			return validate.BadFormat
		}
		absent := actDep == timeutil.Absent || actArr == timeutil.Absent

		status := airline.ParseFlightStatus(f[6])
		if status == airline.StatusUnknown {
			return validate.BadEnum
		}
		if !validate.DelayConsistent(f[6], schedDep, schedArr, actDep, actArr, absent) {
			return validate.OutOfRange
		}
		if !validate.CancelConsistent(f[6], actDep, actArr) {
			return validate.OutOfRange
		}
		if f[7] == f[8] {
			return validate.OutOfRange
		}

		// Schedule ordering. Comparisons against an absent actual time
		// are vacuously satisfied.
		if schedDep >= schedArr {
			return validate.OutOfRange
		}
		if actDep != timeutil.Absent && schedDep > actDep {
			return validate.OutOfRange
		}
		if actArr != timeutil.Absent && schedArr > actArr {
			return validate.OutOfRange
		}
		if actDep != timeutil.Absent && actArr != timeutil.Absent && actDep >= actArr {
			return validate.OutOfRange
		}

		if !validate.AirportCode(f[7]) || !validate.AirportCode(f[8]) {
			return validate.BadFormat
		}
		if !l.ds.HasAircraft(f[9]) {
			return validate.BadReference
		}
		if !validate.AircraftID(f[9]) {
			return validate.BadFormat
		}
		if f[10] == "" {
			return validate.BadFormat
		}

		if err := l.ds.InsertFlight(&airline.Flight{
			ID:                 f[0],
			ScheduledDeparture: schedDep,
			ActualDeparture:    actDep,
			ScheduledArrival:   schedArr,
			ActualArrival:      actArr,
			Status:             status,
			Origin:             f[7],
			Destination:        f[8],
			AircraftID:         f[9],
			Airline:            f[10],
		}); err != nil {
			return validate.Duplicate
		}
		return validate.None
	})
}
