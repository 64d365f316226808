package main

import (
	"testing"
	"unicode"

	"github.com/spf13/cobra"
)

func TestCommandHelpIsPlainASCII(t *testing.T) {
	cmds := []*cobra.Command{rootCmd}
	cmds = append(cmds, rootCmd.Commands()...)
	for _, c := range cmds {
		for _, r := range c.Short {
			if r > unicode.MaxASCII {
				t.Errorf("%s: short help has non-ASCII %q", c.Name(), r)
			}
		}
	}
}
