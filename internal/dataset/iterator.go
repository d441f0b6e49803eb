package dataset

import "flightdata/internal/airline"

// Iterators are single-pass, finite, and borrow from the dataset. Order is
// insertion order, which is deterministic for a given set of input files.
// A fresh iterator can always be taken from the same dataset.

// AirportIter iterates the airport table.
type AirportIter struct {
	ds *Dataset
	i  int
}

func (ds *Dataset) Airports() *AirportIter { return &AirportIter{ds: ds} }

func (it *AirportIter) Next() (*airline.Airport, bool) {
	if it.i >= len(it.ds.airportOrder) {
		return nil, false
	}
	a := it.ds.airports[it.ds.airportOrder[it.i]]
	it.i++
	return a, true
}

// AircraftIter iterates the aircraft table.
type AircraftIter struct {
	ds *Dataset
	i  int
}

func (ds *Dataset) AllAircraft() *AircraftIter { return &AircraftIter{ds: ds} }

func (it *AircraftIter) Next() (*airline.Aircraft, bool) {
	if it.i >= len(it.ds.aircraftOrder) {
		return nil, false
	}
	a := it.ds.aircraft[it.ds.aircraftOrder[it.i]]
	it.i++
	return a, true
}

// FlightIter iterates the flight table.
type FlightIter struct {
	ds *Dataset
	i  int
}

func (ds *Dataset) Flights() *FlightIter { return &FlightIter{ds: ds} }

func (it *FlightIter) Next() (*airline.Flight, bool) {
	if it.i >= len(it.ds.flightOrder) {
		return nil, false
	}
	f := it.ds.flights[it.ds.flightOrder[it.i]]
	it.i++
	return f, true
}

// PassengerIter iterates the passenger table.
type PassengerIter struct {
	ds *Dataset
	i  int
}

func (ds *Dataset) Passengers() *PassengerIter { return &PassengerIter{ds: ds} }

func (it *PassengerIter) Next() (*airline.Passenger, bool) {
	if it.i >= len(it.ds.passengerOrder) {
		return nil, false
	}
	p := it.ds.passengers[it.ds.passengerOrder[it.i]]
	it.i++
	return p, true
}

// ReservationIter iterates the reservation table.
type ReservationIter struct {
	ds *Dataset
	i  int
}

func (ds *Dataset) Reservations() *ReservationIter { return &ReservationIter{ds: ds} }

func (it *ReservationIter) Next() (*airline.Reservation, bool) {
	if it.i >= len(it.ds.reservationOrder) {
		return nil, false
	}
	r := it.ds.reservations[it.ds.reservationOrder[it.i]]
	it.i++
	return r, true
}
