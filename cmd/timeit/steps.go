package main

import (
	"fmt"
	"time"

	"github.com/yobert/functimer"
)

// timing turns on the step lines written by done.
var timing = false

type stepTimer struct {
	title string
	t     *functimer.Timer
}

func (s stepTimer) done() {
	if timing {
		fmt.Fprintf(stderr, "%12s │ %s\n", formatDur(s.t.Elapsed()), s.title)
	}
}

func timer(title string) stepTimer {
	return stepTimer{
		title: title,
		t:     functimer.New(functimer.Options{}).Start(),
	}
}

// formatDur trims a duration to the first unit it spans at least ten of.
func formatDur(d time.Duration) string {
	for _, unit := range []time.Duration{time.Second, time.Millisecond, time.Microsecond} {
		if d > 10*unit {
			return d.Truncate(unit).String()
		}
	}
	return d.String()
}
