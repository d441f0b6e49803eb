package storage

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightdata/internal/airline"
	"flightdata/internal/dataset"
	"flightdata/internal/timeutil"
)

func fixture(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds := dataset.New()
	require.NoError(t, ds.Begin())

	require.NoError(t, ds.InsertAircraft(&airline.Aircraft{ID: "AR-10001", Manufacturer: "Airbus", Model: "A380", Year: 2005, Capacity: 853, Range: 15700}))
	require.NoError(t, ds.InsertFlight(&airline.Flight{
		ID: "TP00001", Status: airline.StatusOnTime,
		ScheduledDeparture: 1717236000, ActualDeparture: 1717236000,
		ScheduledArrival: 1717241400, ActualArrival: 1717241400,
		Origin: "LIS", Destination: "OPO", AircraftID: "AR-10001", Airline: "TAP",
	}))
	require.NoError(t, ds.InsertFlight(&airline.Flight{
		ID: "AA00001", Status: airline.StatusCancelled,
		ScheduledDeparture: 1717315200, ActualDeparture: timeutil.Absent,
		ScheduledArrival: 1717358400, ActualArrival: timeutil.Absent,
		Origin: "JFK", Destination: "LIS", AircraftID: "AR-10001", Airline: "American",
	}))
	require.NoError(t, ds.InsertPassenger(&airline.Passenger{DocumentNumber: 100000001, FirstName: "Ana", LastName: "Silva", DateOfBirth: 801964800, Nationality: "Portuguese", Gender: 'F'}))
	require.NoError(t, ds.InsertAirport(&airline.Airport{Code: "LIS", Name: "Lisbon Airport", City: "Lisbon", Country: "Portugal", Type: "large_airport"}))
	require.NoError(t, ds.InsertReservation(&airline.Reservation{ID: "R000000001", FlightIDs: []string{"TP00001"}, DocumentNumber: 100000001, Price: 300}))

	require.NoError(t, ds.Finish())
	return ds
}

func TestSnapshotRoundTrip(t *testing.T) {
	ds := fixture(t)
	path := filepath.Join(t.TempDir(), "snapshot.db")

	snap, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, snap.WriteDataset(ds))
	require.NoError(t, snap.Close())

	db, err := sql.Open("sqlite", path+"?mode=ro")
	require.NoError(t, err)
	defer db.Close()

	count := func(table string) int {
		var n int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
		return n
	}
	assert.Equal(t, 1, count("airports"))
	assert.Equal(t, 1, count("aircraft"))
	assert.Equal(t, 2, count("flights"))
	assert.Equal(t, 1, count("passengers"))
	assert.Equal(t, 1, count("reservations"))
	assert.Equal(t, 1, count("reservation_flights"))
	assert.Equal(t, 1, count("airport_traffic"))

	// Absent actuals persist as NULL.
	var nulls int
	require.NoError(t, db.QueryRow(
		"SELECT COUNT(*) FROM flights WHERE actual_departure IS NULL AND status = 'Cancelled'").Scan(&nulls))
	assert.Equal(t, 1, nulls)

	// Traffic carries through.
	var arrivals, departures int
	require.NoError(t, db.QueryRow(
		"SELECT arrivals, departures FROM airport_traffic WHERE code = 'LIS'").Scan(&arrivals, &departures))
	assert.Equal(t, 0, arrivals)
	assert.Equal(t, 1, departures)
}

func TestWriteRequiresReady(t *testing.T) {
	ds := dataset.New()
	path := filepath.Join(t.TempDir(), "snapshot.db")

	snap, err := Create(path)
	require.NoError(t, err)
	defer snap.Close()

	assert.Error(t, snap.WriteDataset(ds))
}
