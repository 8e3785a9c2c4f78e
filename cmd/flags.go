package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// enumValue is a pflag.Value restricted to a fixed set of choices, so bad
// --format values fail at parse time with the allowed set in the message.
type enumValue struct {
	value   *string
	choices []string
}

func newEnumValue(target *string, def string, choices ...string) pflag.Value {
	*target = def
	return &enumValue{value: target, choices: choices}
}

func (e *enumValue) String() string { return *e.value }

func (e *enumValue) Type() string { return "string" }

func (e *enumValue) Set(val string) error {
	for _, choice := range e.choices {
		if val == choice {
			*e.value = val
			return nil
		}
	}
	return fmt.Errorf("must be one of: %s", strings.Join(e.choices, ", "))
}
