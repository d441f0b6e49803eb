// Package storage materialises a loaded dataset into a SQLite snapshot
// file, for ad-hoc SQL inspection of what the engine accepted. Snapshots
// are write-once artifacts of a single load; the engine itself never
// reads them back.
package storage

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"flightdata/internal/dataset"
)

const schema = `
CREATE TABLE airports (
	code    TEXT PRIMARY KEY,
	name    TEXT NOT NULL,
	city    TEXT NOT NULL,
	country TEXT NOT NULL,
	type    TEXT NOT NULL
);
CREATE TABLE aircraft (
	id           TEXT PRIMARY KEY,
	manufacturer TEXT NOT NULL,
	model        TEXT NOT NULL,
	year         INTEGER NOT NULL,
	capacity     INTEGER NOT NULL,
	"range"      INTEGER NOT NULL
);
CREATE TABLE flights (
	id                  TEXT PRIMARY KEY,
	scheduled_departure INTEGER NOT NULL,
	actual_departure    INTEGER,
	scheduled_arrival   INTEGER NOT NULL,
	actual_arrival      INTEGER,
	status              TEXT NOT NULL,
	origin              TEXT NOT NULL,
	destination         TEXT NOT NULL,
	aircraft_id         TEXT NOT NULL,
	airline             TEXT NOT NULL
);
CREATE TABLE passengers (
	document_no   INTEGER PRIMARY KEY,
	first_name    TEXT NOT NULL,
	last_name     TEXT NOT NULL,
	date_of_birth INTEGER NOT NULL,
	nationality   TEXT NOT NULL,
	gender        TEXT NOT NULL
);
CREATE TABLE reservations (
	id          TEXT PRIMARY KEY,
	document_no INTEGER NOT NULL,
	price       REAL NOT NULL
);
CREATE TABLE reservation_flights (
	reservation_id TEXT NOT NULL,
	leg            INTEGER NOT NULL,
	flight_id      TEXT NOT NULL,
	PRIMARY KEY (reservation_id, leg)
);
CREATE TABLE airport_traffic (
	code       TEXT PRIMARY KEY,
	arrivals   INTEGER NOT NULL,
	departures INTEGER NOT NULL
);
`

// SnapshotDB wraps the SQLite connection a snapshot is written through.
type SnapshotDB struct {
	db *sql.DB
}

// Create opens a new snapshot database at path and installs the schema.
// The file must not already contain one.
func Create(path string) (*SnapshotDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SnapshotDB{db: db}, nil
}

// Close closes the underlying connection.
func (s *SnapshotDB) Close() error {
	return s.db.Close()
}

// WriteDataset copies every entity table and the traffic summary from a
// Ready dataset into the snapshot, in one transaction.
func (s *SnapshotDB) WriteDataset(ds *dataset.Dataset) error {
	if ds.State() != dataset.Ready {
		return fmt.Errorf("dataset is %s, want ready", ds.State())
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if err := writeAirports(tx, ds); err != nil {
		return err
	}
	if err := writeAircraft(tx, ds); err != nil {
		return err
	}
	if err := writeFlights(tx, ds); err != nil {
		return err
	}
	if err := writePassengers(tx, ds); err != nil {
		return err
	}
	if err := writeReservations(tx, ds); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func writeAirports(tx *sql.Tx, ds *dataset.Dataset) error {
	ins, err := tx.Prepare(`INSERT INTO airports (code, name, city, country, type) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare airports: %w", err)
	}
	defer ins.Close()
	traffic, err := tx.Prepare(`INSERT INTO airport_traffic (code, arrivals, departures) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare traffic: %w", err)
	}
	defer traffic.Close()

	it := ds.Airports()
	for a, ok := it.Next(); ok; a, ok = it.Next() {
		if _, err := ins.Exec(a.Code, a.Name, a.City, a.Country, a.Type); err != nil {
			return fmt.Errorf("insert airport %s: %w", a.Code, err)
		}
		t := ds.Traffic(a.Code)
		if _, err := traffic.Exec(a.Code, t.Arrivals, t.Departures); err != nil {
			return fmt.Errorf("insert traffic %s: %w", a.Code, err)
		}
	}
	return nil
}

func writeAircraft(tx *sql.Tx, ds *dataset.Dataset) error {
	ins, err := tx.Prepare(`INSERT INTO aircraft (id, manufacturer, model, year, capacity, "range") VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare aircraft: %w", err)
	}
	defer ins.Close()

	it := ds.AllAircraft()
	for a, ok := it.Next(); ok; a, ok = it.Next() {
		if _, err := ins.Exec(a.ID, a.Manufacturer, a.Model, a.Year, a.Capacity, a.Range); err != nil {
			return fmt.Errorf("insert aircraft %s: %w", a.ID, err)
		}
	}
	return nil
}

func writeFlights(tx *sql.Tx, ds *dataset.Dataset) error {
	ins, err := tx.Prepare(`INSERT INTO flights
		(id, scheduled_departure, actual_departure, scheduled_arrival, actual_arrival,
		 status, origin, destination, aircraft_id, airline)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare flights: %w", err)
	}
	defer ins.Close()

	it := ds.Flights()
	for f, ok := it.Next(); ok; f, ok = it.Next() {
		if _, err := ins.Exec(f.ID, f.ScheduledDeparture, nullableTime(f.ActualDeparture),
			f.ScheduledArrival, nullableTime(f.ActualArrival),
			f.Status.String(), f.Origin, f.Destination, f.AircraftID, f.Airline); err != nil {
			return fmt.Errorf("insert flight %s: %w", f.ID, err)
		}
	}
	return nil
}

func writePassengers(tx *sql.Tx, ds *dataset.Dataset) error {
	ins, err := tx.Prepare(`INSERT INTO passengers
		(document_no, first_name, last_name, date_of_birth, nationality, gender)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare passengers: %w", err)
	}
	defer ins.Close()

	it := ds.Passengers()
	for p, ok := it.Next(); ok; p, ok = it.Next() {
		if _, err := ins.Exec(p.DocumentNumber, p.FirstName, p.LastName,
			p.DateOfBirth, p.Nationality, string(p.Gender)); err != nil {
			return fmt.Errorf("insert passenger %d: %w", p.DocumentNumber, err)
		}
	}
	return nil
}

func writeReservations(tx *sql.Tx, ds *dataset.Dataset) error {
	ins, err := tx.Prepare(`INSERT INTO reservations (id, document_no, price) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare reservations: %w", err)
	}
	defer ins.Close()
	legs, err := tx.Prepare(`INSERT INTO reservation_flights (reservation_id, leg, flight_id) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare reservation legs: %w", err)
	}
	defer legs.Close()

	it := ds.Reservations()
	for r, ok := it.Next(); ok; r, ok = it.Next() {
		if _, err := ins.Exec(r.ID, r.DocumentNumber, r.Price); err != nil {
			return fmt.Errorf("insert reservation %s: %w", r.ID, err)
		}
		for i, fid := range r.FlightIDs {
			if _, err := legs.Exec(r.ID, i+1, fid); err != nil {
				return fmt.Errorf("insert reservation leg %s/%d: %w", r.ID, i+1, err)
			}
		}
	}
	return nil
}

// nullableTime maps the absent sentinel to SQL NULL.
func nullableTime(t int64) any {
	if t < 0 {
		return nil
	}
	return t
}
