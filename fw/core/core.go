// Package core holds process-wide state shared by every other fw package:
// the active configuration, the module-tagged logger, and the forwarder's
// start time and shutdown flag.
package core

import (
	"time"

	"github.com/nfdgo/ndnd/std/log"
)

// C is the active configuration, set by cmd before any other subsystem
// starts.
var C = DefaultConfig()

// Log is the process-wide module-tagged logger used by every fw package.
var Log = log.Log

// StartTimestamp records when the forwarder came up, reported in the
// general status dataset.
var StartTimestamp = time.Now()

// ShouldQuit is polled by the TCP and Unix listeners' accept loops to
// cooperatively shut down.
var ShouldQuit = false
