package ingest

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"flightdata/internal/dataset"
	"flightdata/internal/timeutil"
	"flightdata/internal/validate"
)

// DefaultReferenceDate bounds future-date validation when no configuration
// overrides it.
const DefaultReferenceDate = "2025-09-30"

// Options controls a load run.
type Options struct {
	// ResultsDir receives the per-entity error files.
	ResultsDir string
	// ReferenceDate is the fixed "today" (YYYY-MM-DD) bounding dates of
	// birth and aircraft years. Defaults to DefaultReferenceDate.
	ReferenceDate string
	// Timing logs per-file wall-clock durations.
	Timing bool
	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

type loader struct {
	ds      *dataset.Dataset
	sink    *Sink
	log     *slog.Logger
	refDate int64
	refYear int
	timing  bool
	errs    bool
}

// Load reads the five entity files under dir in dependency order and
// returns the Ready dataset plus a flag reporting whether any row or file
// was rejected. Row-level failures never abort the load; only an invalid
// reference date or an unusable dataset state is a hard error.
func Load(dir string, opts Options) (*dataset.Dataset, bool, error) {
	if opts.ReferenceDate == "" {
		opts.ReferenceDate = DefaultReferenceDate
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	refDate, err := timeutil.ParseDate(opts.ReferenceDate)
	if err != nil {
		return nil, false, fmt.Errorf("reference date %q: %w", opts.ReferenceDate, err)
	}
	refYear, err := strconv.Atoi(opts.ReferenceDate[:4])
	if err != nil {
		return nil, false, fmt.Errorf("reference date %q: %w", opts.ReferenceDate, err)
	}

	ds := dataset.New()
	if err := ds.Begin(); err != nil {
		return nil, false, err
	}

	l := &loader{
		ds:      ds,
		sink:    NewSink(opts.ResultsDir),
		log:     opts.Logger,
		refDate: refDate,
		refYear: refYear,
		timing:  opts.Timing,
	}
	defer l.sink.Close()
	l.sink.Reset()

	// Dependency order: flights check aircraft, reservations check
	// passengers and flights.
	l.loadFile(dir, "aircrafts", l.readAircraft)
	l.loadFile(dir, "flights", l.readFlights)
	l.loadFile(dir, "passengers", l.readPassengers)
	l.loadFile(dir, "airports", l.readAirports)
	l.loadFile(dir, "reservations", l.readReservations)

	if err := ds.Finish(); err != nil {
		return nil, false, err
	}
	return ds, l.errs, nil
}

// rowFunc validates one tokenised row and inserts it on success. A
// non-None kind reports why the row was rejected.
type rowFunc func(fields []string) validate.Kind

// loadFile runs one entity file through its reader. A file that cannot be
// opened or has no header leaves the table empty, sets the errors flag and
// lets the load continue.
func (l *loader) loadFile(dir, entity string, read func(sc *bufio.Scanner, header string)) {
	start := time.Now()
	path := filepath.Join(dir, entity+".csv")

	f, err := os.Open(path)
	if err != nil {
		l.errs = true
		l.log.Warn("dataset file unavailable", "entity", entity, "error", err)
		return
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !sc.Scan() {
		l.errs = true
		l.log.Warn("dataset file empty", "entity", entity, "path", path)
		return
	}
	header := strings.TrimRight(sc.Text(), "\r")

	read(sc, header)

	if l.timing {
		l.log.Info("entity file loaded", "entity", entity,
			"elapsed", time.Since(start).Round(time.Microsecond))
	}
}

// forEachRow drives the shared per-line loop: trim the line ending, hand
// the row to the entity's validator, and log the raw line on rejection.
func (l *loader) forEachRow(sc *bufio.Scanner, entity, header string, arity int, row rowFunc) {
	for sc.Scan() {
		raw := strings.TrimRight(sc.Text(), "\r")
		if raw == "" {
			continue
		}
		fields, err := tokenise(raw, arity)
		if err != nil {
			l.reject(entity, header, raw, validate.ArityMismatch)
			continue
		}
		if kind := row(fields); kind != validate.None {
			l.reject(entity, header, raw, kind)
		}
	}
	if err := sc.Err(); err != nil {
		l.errs = true
		l.log.Warn("dataset file read failed", "entity", entity, "error", err)
	}
}

func (l *loader) reject(entity, header, raw string, kind validate.Kind) {
	l.errs = true
	l.log.Debug("row rejected", "entity", entity, "reason", kind.String())
	if err := l.sink.Reject(entity, header, raw); err != nil {
		l.log.Warn("error log write failed", "entity", entity, "error", err)
	}
}
