package main

import "fmt"

func example() {
	fmt.Fprint(stdout, `# timeit options. Any of these can be overridden with FUNCTIMER_* variables
# (FUNCTIMER_PRINT_TIME=true) or with flags.

# Print "(Function: cmd) Execution time:  1.2345 seconds" after the command.
print_time: true

# Capture the command's output and print it before the timing line.
print_response: false

# Send the timing line to the log on stderr instead of stdout.
log_not_print: false

# Force colored output even when stdout isn't a terminal. Terminals get
# color anyway; use --no-color to turn it off.
color: false
`)
}
