package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/vvka-141/webshot/internal/cli"
	"github.com/vvka-141/webshot/pkg/webshot"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(webshot.ExitPanic)
		}
	}()

	if os.Getenv("WEBSHOT_TEST_PANIC") == "1" {
		panic("intentional test panic")
	}

	if err := cli.Execute(); err != nil {
		os.Exit(webshot.ExitCodeForError(err))
	}
}
