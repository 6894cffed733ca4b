package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/yobert/functimer"
)

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

const usage = `Usage:

  timeit [options] <command> [args...]

Options:

  -h, --help:          Display this help
  -t, --time:          Print the execution time of the command
  -r, --response:      Capture the command's output and print it as the response
  -l, --log:           Log the timing line instead of printing it
      --color:         Force colored output
  -c, --config <file>: Read options from a YAML file
  -e, --env <file>:    Load environment variables from a dotenv file
      --total:         Print the total time since timeit started
      --no-color:      Disable colored output
      --example:       Print an example config file
  -d, --debug:         Also print timing of timeit's own steps

Options are applied in order: config file, FUNCTIMER_* environment, flags.
Color defaults to on for terminals; --no-color overrides everything.`

type invocation struct {
	help     bool
	example  bool
	total    bool
	noColor  bool
	debug    bool
	config   string
	envFiles []string
	command  []string
}

// flagKeys binds option flags to their functimer keys.
var flagKeys = map[string]string{
	"time":     functimer.KeyPrintTime,
	"response": functimer.KeyPrintResponse,
	"log":      functimer.KeyLogNotPrint,
	"color":    functimer.KeyColor,
}

func main() {
	code, err := mainRun(os.Args[1:])
	if err != nil {
		printErr(err)
		os.Exit(1)
	}
	os.Exit(code)
}

func mainRun(args []string) (int, error) {
	inv, flags, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n\n%s\n", err, usage)
		return 1, nil
	}
	if inv.help {
		fmt.Fprintln(stdout, usage)
		return 0, nil
	}
	if inv.example {
		example()
		return 0, nil
	}
	if len(inv.command) == 0 {
		fmt.Fprintln(stderr, usage)
		return 1, nil
	}

	timing = inv.debug

	opts, err := loadOptions(inv, flags)
	if err != nil {
		return 0, err
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr, NoColor: !opts.Color}).With().Timestamp().Logger()

	t := functimer.New(opts)
	t.Out = stdout
	t.Log = &logger

	run := functimer.WrapErr(t.Named(filepath.Base(inv.command[0])), func(argv []string) (string, error) {
		return runCommand(argv, opts.PrintResponse)
	})
	_, err = run(inv.command)

	if inv.total {
		printTotal(t)
	}

	if err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			return exitStatus(ee), nil
		}
		return 0, errors.Wrapf(err, "Run %#v", strings.Join(inv.command, " "))
	}
	return 0, nil
}

func parseArgs(args []string) (invocation, *pflag.FlagSet, error) {
	var inv invocation

	fs := pflag.NewFlagSet("timeit", pflag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.SetOutput(io.Discard)

	fs.BoolVarP(&inv.help, "help", "h", false, "")
	fs.BoolP("time", "t", false, "")
	fs.BoolP("response", "r", false, "")
	fs.BoolP("log", "l", false, "")
	fs.Bool("color", false, "")
	fs.BoolVar(&inv.noColor, "no-color", false, "")
	fs.BoolVar(&inv.total, "total", false, "")
	fs.BoolVar(&inv.example, "example", false, "")
	fs.BoolVarP(&inv.debug, "debug", "d", false, "")
	fs.StringVarP(&inv.config, "config", "c", "", "")
	fs.StringArrayVarP(&inv.envFiles, "env", "e", nil, "")

	if err := fs.Parse(args); err != nil {
		return inv, fs, err
	}
	if fs.NArg() > 0 {
		inv.command = fs.Args()
	}

	return inv, fs, nil
}

func loadOptions(inv invocation, flags *pflag.FlagSet) (functimer.Options, error) {
	defer timer("load options").done()

	if err := functimer.LoadEnvFiles(inv.envFiles...); err != nil {
		return functimer.Options{}, err
	}

	v := viper.New()
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return functimer.Options{}, errors.Wrapf(err, "Bind flag %s", name)
		}
	}
	if inv.noColor {
		v.Set(functimer.KeyColor, false)
	}

	// terminals get colour unless something above the defaults says otherwise
	return functimer.Load(v, functimer.Options{Color: !color.NoColor}, inv.config)
}

// printTotal reports the time since timeit started. Log records need the
// value passed explicitly or they carry no number.
func printTotal(t *functimer.Timer) {
	const title = "Total time: "
	if t.LogNotPrint {
		t.PrintAndFormatTime(title, t.TotalTime(), "")
		return
	}
	t.PrintTotal(title)
}

// exitStatus maps a failed command to the code timeit exits with. A
// command killed by a signal exits like a shell would report it.
func exitStatus(ee *exec.ExitError) int {
	if code := ee.ExitCode(); code >= 0 {
		return code
	}
	if ws, ok := ee.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return 1
}

// runCommand runs argv with the terminal attached. When capture is set the
// command's stdout is returned instead of passed through.
func runCommand(argv []string, capture bool) (string, error) {
	defer timer("run " + argv[0]).done()

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stderr = stderr

	if !capture {
		cmd.Stdout = stdout
		return "", cmd.Run()
	}

	var buf bytes.Buffer
	cmd.Stdout = &buf
	if err := cmd.Run(); err != nil {
		// the response is only printed on success, so don't swallow it
		stdout.Write(buf.Bytes())
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
