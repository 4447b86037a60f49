//go:build debug

package main

import (
	"flag"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
	"sync"
)

var (
	flagCPUProfile = flag.String("cpuprofile", "", "write cpu profile to file")
	flagMemProfile = flag.String("memprofile", "", "write memory profile to file")

	profilingCleanupOnce sync.Once
	cpuProfileFile       *os.File
	profilingLogger      *log.Logger
)

// initProfiling starts CPU profiling when -cpuprofile was given. Must run
// after flag.Parse. Messages go to the scan logger.
func initProfiling(l *log.Logger) {
	profilingLogger = l

	if *flagCPUProfile == "" {
		return
	}

	f, err := os.Create(*flagCPUProfile)
	if err != nil {
		profilingLogger.Printf("could not create CPU profile: %v", err)
		return
	}
	cpuProfileFile = f

	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		profilingLogger.Printf("could not start CPU profile: %v", err)
		return
	}

	profilingLogger.Printf("CPU profiling enabled, writing to: %s", *flagCPUProfile)
}

// finishProfiling writes the memory profile and stops CPU profiling. It
// may be called from several exit paths and runs once.
func finishProfiling() {
	profilingCleanupOnce.Do(func() {
		if *flagMemProfile != "" {
			f, err := os.Create(*flagMemProfile)
			if err != nil {
				profilingLogger.Printf("could not create memory profile: %v", err)
			} else {
				runtime.GC() // flush allocation stats before the snapshot
				if err := pprof.WriteHeapProfile(f); err != nil {
					profilingLogger.Printf("could not write memory profile: %v", err)
				} else {
					profilingLogger.Printf("Memory profile written to: %s", *flagMemProfile)
				}
				f.Close()
			}
		}

		if cpuProfileFile != nil {
			pprof.StopCPUProfile()
			cpuProfileFile.Close()
			profilingLogger.Printf("CPU profile written to: %s", *flagCPUProfile)
		}
	})
}
