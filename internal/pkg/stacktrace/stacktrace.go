// Package stacktrace trims runtime stacks down to this module's own frames
// for panic logs.
package stacktrace

import (
	"bufio"
	"bytes"
	"strings"
)

const marker = "/internal/"

// InternalPaths returns "internal/<pkg>/<file>.go:<line>" for every frame of
// stack that points into the module's internal tree, outermost frame last.
func InternalPaths(stack []byte) []string {
	var paths []string

	sc := bufio.NewScanner(bytes.NewReader(stack))
	for sc.Scan() {
		line := sc.Text()
		// File lines are tab-indented; function lines are not.
		if !strings.HasPrefix(line, "\t") {
			continue
		}

		loc, _, _ := strings.Cut(strings.TrimSpace(line), " ")
		if !strings.Contains(loc, ".go:") {
			continue
		}

		if idx := strings.Index(loc, marker); idx >= 0 {
			paths = append(paths, loc[idx+1:])
		}
	}

	return paths
}
