package vflag

import (
	"errors"
	"fmt"
	"strings"
)

// ValidatedFlag cli string type
type ValidatedFlag struct {
	Value string
}

func (f *ValidatedFlag) String() string {
	return fmt.Sprint(f.Value)
}

// Set will be called for flag that is of ValidatedFlag type
func (f *ValidatedFlag) Set(value string) error {
	if strings.Contains(value, "-") {
		return errors.New("flag value cannot contain '-'")
	}
	f.Value = value
	return nil
}
