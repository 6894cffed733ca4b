package main

import (
	"fmt"

	"github.com/pkg/errors"
)

type stackTracer interface {
	StackTrace() errors.StackTrace
}

func printErr(e error) {
	fmt.Fprintln(stderr, e)

	err, ok := errors.Cause(e).(stackTracer)
	if !ok {
		return
	}

	for i, f := range err.StackTrace() {
		fmt.Fprintf(stderr, "%d %+v\n", i, f)
	}
}
