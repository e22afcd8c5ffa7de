// Package depfile writes the make-style dependency file named by §6: one
// target, backslash-continued onto one dependency per line.
package depfile

import (
	"fmt"
	"io"
)

// Write emits "target: dep1 \\\n  dep2 \\\n  ...\n" to w. An empty deps list
// still writes "target:\n".
func Write(w io.Writer, target string, deps []string) error {
	if len(deps) == 0 {
		_, err := fmt.Fprintf(w, "%s:\n", target)
		return err
	}

	if _, err := fmt.Fprintf(w, "%s: %s", target, deps[0]); err != nil {
		return err
	}
	for _, dep := range deps[1:] {
		if _, err := fmt.Fprintf(w, " \\\n  %s", dep); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}
