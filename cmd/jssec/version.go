package main

// Version is the build version
var Version string

// GitTag is the git tag of the build
var GitTag string

// BuildDate is the date when the build was created
var BuildDate string

// prepareVersionInfo fills in a fallback version when none was injected
// into the binary at build time (e.g. go install from source).
func prepareVersionInfo() {
	if Version == "" {
		Version = "dev"
	}
}
