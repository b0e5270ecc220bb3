package timing

import "errors"

var (
	ErrReporterClosed         = errors.New("reporter is closed")
	ErrReporterNotRunning     = errors.New("reporter is not running")
	ErrReporterAlreadyRunning = errors.New("reporter is already running")
)
