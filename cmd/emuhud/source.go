package main

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"

	"github.com/alexisbeaulieu97/emuhud/internal/session"
)

const (
	maxSnapshotLine = 8 << 20
	closedMarker    = "closed"
)

// openSource opens path, or returns stdin for "-" and the empty path.
func openSource(path string, stdin io.Reader) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(stdin), nil
	}
	return os.Open(path)
}

// scanSnapshots calls fn for every snapshot line in r. Blank lines and
// lines starting with '#' are skipped. A line reading "closed" is passed
// through as closed=true.
func scanSnapshots(r io.Reader, fn func(data string, closed bool) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxSnapshotLine)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := fn(line, line == closedMarker); err != nil {
			return err
		}
	}
	return sc.Err()
}

// feed queues every snapshot in r on sess. The first tick after the start
// and after each closed marker is flagged initial.
func feed(ctx context.Context, sess *session.Session, r io.Reader) error {
	initial := true
	return scanSnapshots(r, func(data string, closed bool) error {
		if closed {
			initial = true
			return sess.Close(ctx)
		}
		err := sess.Submit(ctx, data, initial)
		initial = false
		return err
	})
}
