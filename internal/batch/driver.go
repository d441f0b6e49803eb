// Package batch executes a command file against a query engine, writing
// one output file per command line.
package batch

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"flightdata/internal/queryreg"
)

// StatsFunc observes one executed command: its query id, the 1-based
// command-file line it came from, and how long the dispatch took.
type StatsFunc func(queryID, line int, elapsed time.Duration)

// Driver runs command files. Output files land in ResultsDir as
// command<line>_output.txt; Stats is optional.
type Driver struct {
	Engine     *queryreg.Engine
	ResultsDir string
	Stats      StatsFunc
	Logger     *slog.Logger
}

// command is one parsed command line.
type command struct {
	id   int
	args queryreg.Args
}

// parseCommand splits "<id>[S] [arg1] [arg2]". A trailing letter on the
// id token selects the '=' separator. Queries 2, 3 and 4 take two
// space-separated arguments; every other query consumes the remainder of
// the line as a single argument (nationalities contain spaces).
func parseCommand(line string) (command, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return command{}, false
	}
	tok := line
	rest := ""
	if i := strings.IndexFunc(line, unicode.IsSpace); i >= 0 {
		tok, rest = line[:i], strings.TrimSpace(line[i+1:])
	}

	sep := byte(';')
	if last := tok[len(tok)-1]; last >= 'A' && last <= 'Z' || last >= 'a' && last <= 'z' {
		sep = '='
		tok = tok[:len(tok)-1]
	}
	id, err := strconv.Atoi(tok)
	if err != nil {
		// Still a command: it gets an output file with an empty result.
		id = 0
	}

	args := queryreg.Args{Sep: sep}
	switch id {
	case 2, 3, 4:
		if i := strings.IndexByte(rest, ' '); i >= 0 {
			args.Arg1 = rest[:i]
			args.Arg2 = strings.TrimLeft(rest[i+1:], " ")
		} else {
			args.Arg1 = rest
		}
	default:
		args.Arg1 = rest
	}
	return command{id: id, args: args}, true
}

// Run processes every line of the command file. A file that cannot be
// opened is the caller's problem (usage-level failure). An unknown query
// id produces an empty output file and a log entry, and bad arguments
// produce an empty result; neither stops the run. A failure to create or
// write an output file ends the run and is returned.
func (d *Driver) Run(commandPath string) error {
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}

	f, err := os.Open(commandPath)
	if err != nil {
		return fmt.Errorf("open command file: %w", err)
	}
	defer f.Close()

	if err := os.MkdirAll(d.ResultsDir, 0o755); err != nil {
		return fmt.Errorf("create results dir: %w", err)
	}

	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		cmd, ok := parseCommand(strings.TrimRight(sc.Text(), "\r"))
		if !ok {
			continue
		}
		if err := d.execute(cmd, lineNo, log); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read command file: %w", err)
	}
	return nil
}

func (d *Driver) execute(cmd command, lineNo int, log *slog.Logger) error {
	path := filepath.Join(d.ResultsDir, fmt.Sprintf("command%d_output.txt", lineNo))
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	start := time.Now()
	err = d.Engine.Execute(cmd.id, cmd.args, w)
	elapsed := time.Since(start)

	if errors.Is(err, queryreg.ErrUnknownQuery) {
		fmt.Fprintln(w)
		log.Warn("unknown query id", "id", cmd.id, "line", lineNo)
		err = nil
	}
	if err != nil {
		return fmt.Errorf("query %d (line %d): %w", cmd.id, lineNo, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	if d.Stats != nil {
		d.Stats(cmd.id, lineNo, elapsed)
	}
	return nil
}
