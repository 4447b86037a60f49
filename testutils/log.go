package testutils

import (
	"bytes"
	"log"
)

// NewLogger returns a logger along with the buffer it writes to, so tests
// can assert on the messages the analyzer emits.
func NewLogger() (*log.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return log.New(&buf, "", log.Lshortfile), &buf
}
