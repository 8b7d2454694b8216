// Command formatsb compiles named-placeholder templates into
// composite format strings plus argument lists, and renders
// them.
package main

import (
	"log/slog"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}
