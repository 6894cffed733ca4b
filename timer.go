// Package functimer times functions and blocks of code and prints or logs
// how long they took.
package functimer

import (
	"fmt"
	"io"
	"math"
	"os"
	"reflect"
	"runtime"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// ExecutionTitle is the title used for per-call timing lines.
	ExecutionTitle = "Execution time: "

	titleWidth = 80
	timeWidth  = 30
)

// processStart is the default reference for TotalTime. It is written once.
var processStart = time.Now()

// Colours are forced on here and only read afterwards; whether to use them
// is decided per Timer.
var (
	labelColor = newColor(color.FgWhite)
	nameColor  = newColor(color.FgYellow)
	titleColor = newColor(color.FgBlue)
	timeColor  = newColor(color.FgGreen)
)

func newColor(attr color.Attribute) *color.Color {
	c := color.New(attr)
	c.EnableColor()
	return c
}

// Timer measures how long something took. A Timer is not safe for
// concurrent use.
type Timer struct {
	PrintTime     bool
	PrintResponse bool
	LogNotPrint   bool
	Color         bool

	// Out receives printed lines. Nil means os.Stdout.
	Out io.Writer
	// Log receives timing records when LogNotPrint is set. Nil means the
	// global zerolog logger.
	Log *zerolog.Logger

	now       func() time.Time
	start     time.Time
	reference *time.Time
	name      string

	// set by a wrapper in log mode, consumed by finish
	response  interface{}
	responded bool
}

func New(opts Options) *Timer {
	return &Timer{
		PrintTime:     opts.PrintTime,
		PrintResponse: opts.PrintResponse,
		LogNotPrint:   opts.LogNotPrint,
		Color:         opts.Color,
		now:           time.Now,
	}
}

// Start records the start time and returns the timer, so that
//
//	defer t.Start().Done()
//
// times the rest of the enclosing function.
func (t *Timer) Start() *Timer {
	t.start = t.clock()()
	return t
}

// Done stops the timer and returns the elapsed seconds rounded to 4
// decimals, printing them first if PrintTime is set.
func (t *Timer) Done() float64 {
	return t.finish("")
}

// Elapsed returns the unrounded time since Start.
func (t *Timer) Elapsed() time.Duration {
	return t.clock()().Sub(t.start)
}

// Run times fn. The timing line is emitted whether fn returns an error or
// panics; fn's error is returned as is and panics are not recovered.
func (t *Timer) Run(fn func() error) error {
	defer t.Start().Done()
	return fn()
}

// Named returns a copy of t whose wrappers report name instead of the
// wrapped function's own name.
func (t *Timer) Named(name string) *Timer {
	c := *t
	c.name = name
	return &c
}

// SetReference rebinds the reference point used by TotalTime for this
// timer only.
func (t *Timer) SetReference(ref time.Time) {
	t.reference = &ref
}

// TotalTime returns the seconds since the reference point, rounded to 4
// decimals.
func (t *Timer) TotalTime() float64 {
	ref := processStart
	if t.reference != nil {
		ref = *t.reference
	}
	return round(t.clock()().Sub(ref).Seconds())
}

// PrintAndFormatTime emits one timing line for an explicit elapsed value,
// followed by a blank line when printing.
func (t *Timer) PrintAndFormatTime(title string, elapsed float64, funcName string) {
	t.emit(title, elapsed, true, funcName)
}

// PrintTotal emits one timing line with TotalTime as the value.
func (t *Timer) PrintTotal(title string) {
	t.emit(title, 0, false, "")
}

func (t *Timer) finish(funcName string) float64 {
	elapsed := round(t.Elapsed().Seconds())
	switch {
	case t.PrintTime:
		t.PrintAndFormatTime(ExecutionTitle, elapsed, funcName)
	case t.responded:
		t.logger().Info().Str("function", funcName).Interface("response", t.response).
			Msgf("(%s) %v", funcName, t.response)
	}
	t.response, t.responded = nil, false
	return elapsed
}

// respond prints a wrapped call's result. In log mode nothing may reach
// Out, so the result rides along on the call's single log record instead.
func (t *Timer) respond(v interface{}) {
	if !t.PrintResponse {
		return
	}
	if t.LogNotPrint {
		t.response, t.responded = v, true
		return
	}
	fmt.Fprintln(t.out(), v)
}

func (t *Timer) emit(title string, elapsed float64, explicit bool, funcName string) {
	if t.LogNotPrint {
		t.logTime(title, elapsed, explicit, funcName)
		return
	}

	if !explicit {
		elapsed = t.TotalTime()
	}
	seconds := formatSeconds(round(elapsed))

	plain := title
	styled := t.paint(titleColor, title)
	if funcName != "" {
		plain = "(Function: " + funcName + ") " + title
		styled = "(" + t.paint(labelColor, "Function:") + " " + t.paint(nameColor, funcName) + ") " + styled
	}
	timeText := seconds + " seconds"

	line := styled + padding(titleWidth-utf8.RuneCountInString(plain)) +
		" " + padding(timeWidth-len(timeText)) + t.paint(timeColor, seconds) + " seconds"

	out := t.out()
	fmt.Fprintln(out, line)
	if explicit {
		fmt.Fprintln(out)
	}
}

func (t *Timer) logTime(title string, elapsed float64, explicit bool, funcName string) {
	value := ""
	ev := t.logger().Info().Str("function", funcName).Str("title", title)
	if explicit {
		value = formatSeconds(round(elapsed))
		ev = ev.Float64("elapsed", round(elapsed))
	}
	if t.responded {
		ev = ev.Interface("response", t.response)
	}
	ev.Msgf("(%s) %s %s", funcName, title, value)
}

func (t *Timer) logger() *zerolog.Logger {
	if t.Log == nil {
		return &log.Logger
	}
	return t.Log
}

func (t *Timer) paint(c *color.Color, s string) string {
	if !t.Color {
		return s
	}
	return c.Sprint(s)
}

func (t *Timer) out() io.Writer {
	if t.Out == nil {
		return os.Stdout
	}
	return t.Out
}

func (t *Timer) clock() func() time.Time {
	if t.now == nil {
		return time.Now
	}
	return t.now
}

func round(seconds float64) float64 {
	return math.Round(seconds*1e4) / 1e4
}

func formatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', -1, 64)
}

func padding(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}

// FuncName returns the name of the function value fn without its package
// path, or "" if fn is not a function.
func FuncName(fn interface{}) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return ""
	}

	name := f.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, "-fm")
}
