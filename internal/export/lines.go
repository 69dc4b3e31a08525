package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/vec"
)

// LineSink writes one line per snapshot: the time followed by every body's
// x and y, separated by ", ". Call Flush when the run is over.
type LineSink struct {
	w *bufio.Writer
}

func NewLineSink(w io.Writer) *LineSink {
	return &LineSink{w: bufio.NewWriter(w)}
}

func (l *LineSink) Write(s sim.Snapshot) error {
	l.w.WriteString(fmt.Sprint(s.Time))
	for _, p := range s.Positions {
		l.w.WriteString(", ")
		l.w.WriteString(p.String())
	}
	return l.w.WriteByte('\n')
}

func (l *LineSink) Flush() error { return l.w.Flush() }

// ReadLines parses LineSink output back into snapshots. Step is the line
// index. Blank lines are skipped.
func ReadLines(r io.Reader) ([]sim.Snapshot, error) {
	var snaps []sim.Snapshot
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}

		fields := strings.Split(text, ",")
		if len(fields)%2 != 1 {
			return nil, fmt.Errorf("line %d: expected time plus x,y pairs, got %d fields", line, len(fields))
		}

		vals := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			vals[i] = v
		}

		pos := make([]vec.Vec2, 0, len(vals)/2)
		for i := 1; i < len(vals); i += 2 {
			pos = append(pos, vec.New(vals[i], vals[i+1]))
		}
		snaps = append(snaps, sim.Snapshot{Step: len(snaps), Time: vals[0], Positions: pos})
	}
	return snaps, sc.Err()
}

// Tracks turns snapshots into one position series per body.
func Tracks(snaps []sim.Snapshot) [][]vec.Vec2 {
	if len(snaps) == 0 {
		return nil
	}
	tracks := make([][]vec.Vec2, len(snaps[0].Positions))
	for _, s := range snaps {
		for i, p := range s.Positions {
			if i < len(tracks) {
				tracks[i] = append(tracks[i], p)
			}
		}
	}
	return tracks
}
