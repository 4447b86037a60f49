//go:build !debug

package main

import "log"

// Profiling is compiled in only with -tags debug; in release builds both
// hooks are no-ops.

func initProfiling(_ *log.Logger) {}

func finishProfiling() {}
