package log

import "sync"

var (
	global   *Logger
	globalMu sync.RWMutex
)

// SetGlobal sets the process-wide default logger.
func SetGlobal(logger *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	global = logger
}

// Global returns the process-wide default logger, lazily
// initializing it with standard defaults when none was configured.
func Global() *Logger {
	globalMu.RLock()
	if global != nil {
		defer globalMu.RUnlock()
		return global
	}
	globalMu.RUnlock()

	logger := Default()
	SetGlobal(logger)
	return logger
}
