package debug

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	enabled     = os.Getenv("JIRACTL_DEBUG") != ""
	verboseMode = false
	quietMode   = false
	logMutex    sync.Mutex

	stderr io.Writer = os.Stderr
)

func Enabled() bool {
	return enabled || verboseMode
}

// SetVerbose enables verbose/debug output
func SetVerbose(verbose bool) {
	verboseMode = verbose
}

// SetQuiet enables quiet mode. Narration printers created afterwards drop
// progress lines and keep failures and warnings.
func SetQuiet(quiet bool) {
	quietMode = quiet
}

// IsQuiet returns true if quiet mode is enabled
func IsQuiet() bool {
	return quietMode
}

// SetOutput redirects debug output. Used by tests.
func SetOutput(w io.Writer) {
	logMutex.Lock()
	defer logMutex.Unlock()
	stderr = w
}

func Logf(format string, args ...interface{}) {
	if enabled || verboseMode {
		logMutex.Lock()
		defer logMutex.Unlock()
		fmt.Fprintf(stderr, format, args...)
	}
}
