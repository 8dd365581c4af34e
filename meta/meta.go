// Package meta identifies the runtime build and checks that the
// offline tool a recognizer was generated with is compatible with it.
package meta

import (
	"fmt"
	"io"
	"os"

	"github.com/blang/semver/v4"
)

// Version is the runtime's own version.
const Version = "4.13.1"

// checkWriter receives compatibility warnings; tests substitute it.
var checkWriter io.Writer = os.Stderr

// CheckVersion compares the version of the tool that generated a
// recognizer and the runtime version it was compiled against with this
// runtime. A major.minor disagreement writes one warning line per
// component to standard error; patch and suffix differences are benign.
// Generated recognizers call it from their init path.
func CheckVersion(generatingToolVersion, compileTimeVersion string) {
	if !minorMatches(generatingToolVersion, Version) {
		fmt.Fprintf(checkWriter, "Tool version %v used to generate this recognizer does not match the runtime version %v\n", generatingToolVersion, Version)
	}
	if !minorMatches(compileTimeVersion, Version) {
		fmt.Fprintf(checkWriter, "Runtime version %v used to compile this recognizer does not match the runtime version %v\n", compileTimeVersion, Version)
	}
}

func minorMatches(a, b string) bool {
	va, erra := semver.ParseTolerant(a)
	vb, errb := semver.ParseTolerant(b)
	if erra != nil || errb != nil {
		// An unparsable version cannot be vouched for.
		return false
	}
	return va.Major == vb.Major && va.Minor == vb.Minor
}
