package tutor

import "errors"

var (
	ErrWrongScreen     = errors.New("action not available on this screen")
	ErrNoAnalysis      = errors.New("no analysis loaded")
	ErrInvalidAnalysis = errors.New("analysis is inconsistent")
	ErrAdvanceLocked   = errors.New("step not completed")
	ErrTerminalStep    = errors.New("exercise already completed")
	ErrAnalysisFailed  = errors.New("equation could not be analyzed")
	ErrBusy            = errors.New("analysis already in progress")
)
