package model

import "time"

// ----------------------------------------------------
// ================ Telemetry ================
// Action tags a telemetry event for the spreadsheet sink
type Action string

const (
	ActionLogin       Action = "LOGIN"
	ActionLogReaction Action = "LOG_REACTION"
	ActionLogError    Action = "LOG_ERROR"
)

// Event is a single fire-and-forget telemetry record
type Event struct {
	Action  Action    `json:"action"`
	Payload any       `json:"payload"`
	At      time.Time `json:"-"`
}

// LoginPayload identifies the student that just signed in
type LoginPayload struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Device string `json:"device"`
}

// ReactionPayload marks the start of a balancing session
type ReactionPayload struct {
	Email     string `json:"email"`
	Equation  string `json:"equation"`
	SessionID string `json:"sessionId"`
}

// StepErrorPayload records a failed step check
type StepErrorPayload struct {
	SessionID   string `json:"sessionId"`
	Email       string `json:"email"`
	Step        string `json:"step"`
	ErrorDetail string `json:"errorDetail"`
	Attempts    int    `json:"attempts"`
}
