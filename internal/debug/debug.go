package debug

import (
	"io"
	"log"
	"os"
)

// Debug levels
const (
	LevelOff     = 0 // No output
	LevelInfo    = 1 // Important info (field setup, result summaries)
	LevelLive    = 2 // Live info (compute requests, optimizer rows)
	LevelVerbose = 3 // Verbose (grid stats, contour details)
	LevelTrace   = 4 // Trace (per-cell, very low level)
)

var (
	level  int
	logger *log.Logger
)

// Init initializes the debug system with a level (0-4).
// 0 = no output
// 1 = important info (field setup, result summaries)
// 2 = live info (compute requests accepted/superseded, optimizer progress)
// 3 = verbose (sampling stats, contour counts, extent bisection)
// 4 = trace (very low level)
func Init(debugLevel int) {
	level = debugLevel
	if level > LevelOff {
		logger = log.New(os.Stdout, "[luxgrid] ", log.LstdFlags|log.Lmicroseconds)
	}
}

// SetOutput redirects debug output, mainly for tests.
func SetOutput(w io.Writer) {
	if logger != nil {
		logger.SetOutput(w)
	}
}

// Level returns the current debug level.
func Level() int {
	return level
}

// IsEnabled returns true if debug level is >= the requested level.
func IsEnabled(minLevel int) bool {
	return level >= minLevel
}

// --- Level 1 functions (Info): important info ---

// Info prints a level 1 message (important info).
func Info(format string, args ...interface{}) {
	if level >= LevelInfo && logger != nil {
		logger.Printf("[INFO] "+format, args...)
	}
}

// Field prints the configured array layout (level 1).
func Field(columns, rows int, hSpreadDeg, vSpreadDeg float64) {
	if level >= LevelInfo && logger != nil {
		logger.Printf("[INFO] Array: %d columns x %d rows, spread %.1f° x %.1f°", columns, rows, hSpreadDeg, vSpreadDeg)
	}
}

// Value prints a named value in formatted form (level 1).
func Value(name string, value interface{}) {
	if level >= LevelInfo && logger != nil {
		logger.Printf("[INFO]   %s = %v", name, value)
	}
}

// --- Level 2 functions (Live): real-time info ---

// Live prints a level 2 message (live info).
func Live(format string, args ...interface{}) {
	if level >= LevelLive && logger != nil {
		logger.Printf("[LIVE] "+format, args...)
	}
}

// Compute prints an accepted compute request (level 2).
func Compute(generation uint64, resolution int) {
	if level >= LevelLive && logger != nil {
		logger.Printf("[LIVE] Compute #%d: %dx%d grid", generation, resolution, resolution)
	}
}

// Candidate prints one optimizer result row (level 2).
func Candidate(hSpreadDeg, vSpreadDeg, coveragePct float64) {
	if level >= LevelLive && logger != nil {
		logger.Printf("[LIVE] Candidate h=%.0f° v=%.0f° coverage=%.1f%%", hSpreadDeg, vSpreadDeg, coveragePct)
	}
}

// --- Level 3 functions (Verbose): everything ---

// Verbose prints a level 3 message (verbose).
func Verbose(format string, args ...interface{}) {
	if level >= LevelVerbose && logger != nil {
		logger.Printf("[VERBOSE] "+format, args...)
	}
}

// Grid prints sampling statistics for one view (level 3).
func Grid(view string, width, height int, min, max float64) {
	if level >= LevelVerbose && logger != nil {
		logger.Printf("[VERBOSE] Grid %s: %dx%d, values [%g, %g]", view, width, height, min, max)
	}
}

// Contours prints the extraction outcome for one view (level 3).
func Contours(view string, lines int) {
	if level >= LevelVerbose && logger != nil {
		logger.Printf("[VERBOSE] Contours %s: %d polylines", view, lines)
	}
}

// PrintStruct prints a struct in formatted form (level 3).
func PrintStruct(name string, v interface{}) {
	if level >= LevelVerbose && logger != nil {
		logger.Printf("[VERBOSE] %s: %+v", name, v)
	}
}

// --- Level 4 functions (Trace): very low level ---

// Trace prints a level 4 message (trace).
func Trace(format string, args ...interface{}) {
	if level >= LevelTrace && logger != nil {
		logger.Printf("[TRACE] "+format, args...)
	}
}

// --- General functions ---

// Error prints a debug error (level 1+).
func Error(err error) {
	if level >= LevelInfo && logger != nil {
		logger.Printf("[ERROR] %v", err)
	}
}
