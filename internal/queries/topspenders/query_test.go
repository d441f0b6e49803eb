package topspenders

import (
	"fmt"
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

func mustDate(t *testing.T, s string) int64 {
	t.Helper()
	v, err := timeutil.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return v
}

func addFlight(t *testing.T, ds *dataset.Dataset, id, dep string) {
	t.Helper()
	if err := ds.InsertFlight(&airline.Flight{
		ID: id, Status: airline.StatusOnTime,
		ScheduledDeparture: mustTime(t, dep), ActualDeparture: mustTime(t, dep),
		ScheduledArrival: mustTime(t, dep) + 5400, ActualArrival: mustTime(t, dep) + 5400,
		Origin: "LIS", Destination: "OPO", AircraftID: "AR-10001", Airline: "TAP",
	}); err != nil {
		t.Fatal(err)
	}
}

func addPassenger(t *testing.T, ds *dataset.Dataset, doc int, first, last, dob, nat string) {
	t.Helper()
	if err := ds.InsertPassenger(&airline.Passenger{
		DocumentNumber: doc, FirstName: first, LastName: last,
		DateOfBirth: mustDate(t, dob), Nationality: nat, Gender: 'F',
	}); err != nil {
		t.Fatal(err)
	}
}

func addReservation(t *testing.T, ds *dataset.Dataset, id string, flights []string, doc int, price float64) {
	t.Helper()
	if err := ds.InsertReservation(&airline.Reservation{
		ID: id, FlightIDs: flights, DocumentNumber: doc, Price: price,
	}); err != nil {
		t.Fatal(err)
	}
}

// fixture builds two weeks of reservations:
//
//	week of 2024-05-27: Ana spends 300, Bob spends 500
//	week of 2024-06-03: Ana spends 200
func fixture(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds := dataset.New()
	if err := ds.Begin(); err != nil {
		t.Fatal(err)
	}
	ds.InsertAircraft(&airline.Aircraft{ID: "AR-10001", Manufacturer: "Airbus", Model: "A380"})

	addFlight(t, ds, "TP00001", "2024-06-01 10:00") // Saturday, week of 05-27
	addFlight(t, ds, "TP00002", "2024-06-02 10:00") // Sunday, same week
	addFlight(t, ds, "TP00003", "2024-06-03 10:00") // Monday, next week

	addPassenger(t, ds, 100000001, "Ana", "Silva", "1995-05-20", "Portuguese")
	addPassenger(t, ds, 100000002, "Bob", "Jones", "1988-11-02", "American")

	addReservation(t, ds, "R000000001", []string{"TP00001"}, 100000001, 300)
	addReservation(t, ds, "R000000002", []string{"TP00002"}, 100000002, 500)
	addReservation(t, ds, "R000000003", []string{"TP00003"}, 100000001, 200)

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

func TestWeekIndex(t *testing.T) {
	mon := mustDate(t, "2024-05-27") // a Monday
	sun := mon + 6*86400 + 86399     // last second of that Sunday
	if weekIndex(mon) != weekIndex(sun) {
		t.Error("Monday and the following Sunday must share a week index")
	}
	if weekIndex(mon) == weekIndex(mon-1) {
		t.Error("Sunday 23:59:59 and Monday 00:00 must not share a week index")
	}
}

func TestRun_FullRange(t *testing.T) {
	ds := fixture(t)
	// Ana appears in both weekly top-10s, Bob only in one.
	got := run(t, ds, queryreg.Args{Sep: ';'})
	want := "100000001;Ana;Silva;1995-05-20;Portuguese;2\n"
	if got != want {
		t.Errorf("Run() = %q, want %q", got, want)
	}
}

func TestRun_RestrictedRange(t *testing.T) {
	ds := fixture(t)
	// Only the first week: both appear once, smaller document wins.
	got := run(t, ds, queryreg.Args{Arg1: "2024-05-27", Arg2: "2024-06-02", Sep: ';'})
	want := "100000001;Ana;Silva;1995-05-20;Portuguese;1\n"
	if got != want {
		t.Errorf("Run(first week) = %q, want %q", got, want)
	}

	// Only the second week.
	got = run(t, ds, queryreg.Args{Arg1: "2024-06-03", Arg2: "2024-06-09", Sep: ';'})
	if got != want {
		t.Errorf("Run(second week) = %q, want %q", got, want)
	}
}

func TestRun_OpenEndedRange(t *testing.T) {
	ds := fixture(t)
	// Begin only: runs to max week.
	got := run(t, ds, queryreg.Args{Arg1: "2024-06-03", Sep: ';'})
	want := "100000001;Ana;Silva;1995-05-20;Portuguese;1\n"
	if got != want {
		t.Errorf("Run(begin only) = %q, want %q", got, want)
	}
}

func TestRun_EmptyRange(t *testing.T) {
	ds := fixture(t)
	if got := run(t, ds, queryreg.Args{Arg1: "2023-01-01", Arg2: "2023-01-31", Sep: ';'}); got != "\n" {
		t.Errorf("Run outside data = %q, want empty line", got)
	}
}

func TestRun_NoReservations(t *testing.T) {
	ds := dataset.New()
	if err := ds.Begin(); err != nil {
		t.Fatal(err)
	}
	if err := ds.Finish(); err != nil {
		t.Fatal(err)
	}
	if got := run(t, ds, queryreg.Args{Sep: ';'}); got != "\n" {
		t.Errorf("Run on empty dataset = %q, want empty line", got)
	}
}

// The weekly ranking keeps only ten passengers: the eleventh, smallest
// spender must never surface.
func TestWeeklyTopIsCapped(t *testing.T) {
	ds := dataset.New()
	if err := ds.Begin(); err != nil {
		t.Fatal(err)
	}
	ds.InsertAircraft(&airline.Aircraft{ID: "AR-10001", Manufacturer: "Airbus", Model: "A380"})
	addFlight(t, ds, "TP00001", "2024-06-01 10:00")

	// Eleven passengers; document 100000011 spends the least.
	for i := 1; i <= 11; i++ {
		doc := 100000000 + i
		addPassenger(t, ds, doc, "P", "Q", "1990-01-01", "Portuguese")
		addReservation(t, ds, fmt.Sprintf("R%09d", i), []string{"TP00001"}, doc, float64(1200-i*100))
	}
	if err := ds.Finish(); err != nil {
		t.Fatal(err)
	}

	m := module{}
	c, err := m.Init(ds)
	if err != nil {
		t.Fatal(err)
	}
	ctx := c.(*context)
	if len(ctx.tops) != 1 {
		t.Fatalf("weeks = %d, want 1", len(ctx.tops))
	}
	for _, top := range ctx.tops {
		if len(top) != 10 {
			t.Fatalf("top size = %d, want 10", len(top))
		}
		for _, doc := range top {
			if doc == 100000011 {
				t.Error("lowest spender must be squeezed out of the top 10")
			}
		}
	}
}
