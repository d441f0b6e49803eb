package natarrivals

import (
	"strings"
	"testing"

	"flightdata/internal/airline"
	"flightdata/internal/dataset"
	"flightdata/internal/queryreg"
	"flightdata/internal/timeutil"
)

func mustTime(t *testing.T, s string) int64 {
	t.Helper()
	v, err := timeutil.ParseDateTime(s)
	if err != nil {
		t.Fatalf("ParseDateTime(%q): %v", s, err)
	}
	return v
}

func addFlight(t *testing.T, ds *dataset.Dataset, id, origin, dest string, status airline.FlightStatus) {
	t.Helper()
	f := &airline.Flight{
		ID: id, Status: status,
		ScheduledDeparture: mustTime(t, "2024-06-01 10:00"), ActualDeparture: mustTime(t, "2024-06-01 10:00"),
		ScheduledArrival: mustTime(t, "2024-06-01 11:30"), ActualArrival: mustTime(t, "2024-06-01 11:30"),
		Origin: origin, Destination: dest, AircraftID: "AR-10001", Airline: "TAP",
	}
	if status == airline.StatusCancelled {
		f.ActualDeparture = timeutil.Absent
		f.ActualArrival = timeutil.Absent
	}
	if err := ds.InsertFlight(f); err != nil {
		t.Fatal(err)
	}
}

func fixture(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds := dataset.New()
	if err := ds.Begin(); err != nil {
		t.Fatal(err)
	}
	ds.InsertAircraft(&airline.Aircraft{ID: "AR-10001", Manufacturer: "Airbus", Model: "A380"})

	addFlight(t, ds, "TP00001", "LIS", "OPO", airline.StatusOnTime)
	addFlight(t, ds, "TP00002", "OPO", "LIS", airline.StatusOnTime)
	addFlight(t, ds, "AA00001", "JFK", "LIS", airline.StatusCancelled)

	ds.InsertPassenger(&airline.Passenger{DocumentNumber: 100000001, FirstName: "Ana", LastName: "Silva", Nationality: "Portuguese", Gender: 'F'})
	ds.InsertPassenger(&airline.Passenger{DocumentNumber: 100000002, FirstName: "Bob", LastName: "Jones", Nationality: "American", Gender: 'M'})

	ds.InsertReservation(&airline.Reservation{ID: "R000000001", FlightIDs: []string{"TP00001", "TP00002"}, DocumentNumber: 100000001, Price: 300})
	ds.InsertReservation(&airline.Reservation{ID: "R000000002", FlightIDs: []string{"AA00001"}, DocumentNumber: 100000002, Price: 500})

	if err := ds.Finish(); err != nil {
		t.Fatal(err)
	}
	return ds
}

func run(t *testing.T, ds *dataset.Dataset, args queryreg.Args) string {
	t.Helper()
	m := module{}
	ctx, err := m.Init(ds)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer m.Destroy(ctx)

	var sb strings.Builder
	if err := m.Run(ctx, ds, args, &sb); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return sb.String()
}

func TestRun_TieBrokenBySmallerCode(t *testing.T) {
	ds := fixture(t)
	// Ana's reservation arrives once at OPO and once at LIS: a tie, so
	// the lexicographically smaller code wins.
	got := run(t, ds, queryreg.Args{Arg1: "Portuguese", Sep: ';'})
	want := "LIS;1\n"
	if got != want {
		t.Errorf("Run(Portuguese) = %q, want %q", got, want)
	}
}

func TestRun_CancelledLegsExcluded(t *testing.T) {
	ds := fixture(t)
	// Bob's only leg is cancelled; the nationality exists with an empty
	// histogram.
	if got := run(t, ds, queryreg.Args{Arg1: "American", Sep: ';'}); got != "\n" {
		t.Errorf("Run(American) = %q, want empty line", got)
	}
}

func TestRun_UnknownNationality(t *testing.T) {
	ds := fixture(t)
	if got := run(t, ds, queryreg.Args{Arg1: "Martian", Sep: ';'}); got != "\n" {
		t.Errorf("Run(Martian) = %q, want empty line", got)
	}
}

func TestRun_CountsAccumulate(t *testing.T) {
	ds := dataset.New()
	if err := ds.Begin(); err != nil {
		t.Fatal(err)
	}
	ds.InsertAircraft(&airline.Aircraft{ID: "AR-10001", Manufacturer: "Airbus", Model: "A380"})
	addFlight(t, ds, "TP00001", "LIS", "OPO", airline.StatusOnTime)
	addFlight(t, ds, "TP00002", "FAO", "OPO", airline.StatusOnTime)
	addFlight(t, ds, "TP00003", "OPO", "LIS", airline.StatusOnTime)
	ds.InsertPassenger(&airline.Passenger{DocumentNumber: 100000001, FirstName: "Ana", LastName: "Silva", Nationality: "Portuguese", Gender: 'F'})
	ds.InsertReservation(&airline.Reservation{ID: "R000000001", FlightIDs: []string{"TP00001"}, DocumentNumber: 100000001, Price: 100})
	ds.InsertReservation(&airline.Reservation{ID: "R000000002", FlightIDs: []string{"TP00002"}, DocumentNumber: 100000001, Price: 100})
	ds.InsertReservation(&airline.Reservation{ID: "R000000003", FlightIDs: []string{"TP00003"}, DocumentNumber: 100000001, Price: 100})
	if err := ds.Finish(); err != nil {
		t.Fatal(err)
	}

	got := run(t, ds, queryreg.Args{Arg1: "Portuguese", Sep: ';'})
	want := "OPO;2\n"
	if got != want {
		t.Errorf("Run = %q, want %q", got, want)
	}
}

func TestRun_SeparatorIsolation(t *testing.T) {
	ds := fixture(t)
	plain := run(t, ds, queryreg.Args{Arg1: "Portuguese", Sep: ';'})
	alt := run(t, ds, queryreg.Args{Arg1: "Portuguese", Sep: '='})
	if alt != strings.ReplaceAll(plain, ";", "=") {
		t.Errorf("separator changed more than the separator: %q vs %q", plain, alt)
	}
}
