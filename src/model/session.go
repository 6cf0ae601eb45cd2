package model

import "fmt"

// ----------------------------------------------------
// ================ Session ================
// User is the display identity captured at login. It is not authenticated.
type User struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	LoginCount int    `json:"login_count"`
	LastLogin  string `json:"last_login"`
}

// Screen is the top-level page the session is on
type Screen string

const (
	ScreenLogin  Screen = "login"
	ScreenInput  Screen = "input"
	ScreenWizard Screen = "wizard"
)

// Step is the wizard step, 1 through 4
type Step int

const (
	Step1 Step = iota + 1 // oxidation states and agents
	Step2                 // half-reaction processes
	Step3                 // electron multipliers
	Step4                 // final coefficients

	FirstStep = Step1
	LastStep  = Step4
)

// Valid reports whether s is one of the four wizard steps
func (s Step) Valid() bool {
	return s >= FirstStep && s <= LastStep
}

func (s Step) String() string {
	return fmt.Sprintf("step%d", int(s))
}

// FeedbackKind is the outcome shown after a check or a failed analysis
type FeedbackKind string

const (
	FeedbackSuccess FeedbackKind = "success"
	FeedbackError   FeedbackKind = "error"
)

// Feedback is the last banner shown to the student
type Feedback struct {
	Kind    FeedbackKind `json:"kind"`
	Message string       `json:"message"`
}

// Answers holds the free-text buffers of every wizard step
type Answers struct {
	// step 1, keyed "left_<i>" / "right_<i>" by changing-element index
	OxStates       map[string]string `json:"ox_states"`
	ReducingAgent  string            `json:"reducing_agent"`
	OxidizingAgent string            `json:"oxidizing_agent"`

	// step 2
	OxidationProcess string `json:"oxidation_process"`
	ReductionProcess string `json:"reduction_process"`

	// step 3
	MultiplierOx  string `json:"multiplier_ox"`
	MultiplierRed string `json:"multiplier_red"`

	// step 4, one per compound in left-then-right order
	Coefficients []string `json:"coefficients"`
}

// NewAnswers returns empty buffers sized for the given compound count
func NewAnswers(compounds int) Answers {
	return Answers{
		OxStates:     map[string]string{},
		Coefficients: make([]string, compounds),
	}
}

// OxStateKey names the step 1 buffer for element i on the given side
func OxStateKey(side string, i int) string {
	return fmt.Sprintf("%s_%d", side, i)
}

// CoefficientKey names the step 4 buffer for compound i
func CoefficientKey(i int) string {
	return fmt.Sprintf("coef_%d", i)
}

// Session is the whole per-browser tutoring state
type Session struct {
	User       *User     `json:"user,omitempty"`
	Screen     Screen    `json:"screen"`
	Equation   string    `json:"equation"`
	Analysis   *Analysis `json:"analysis,omitempty"`
	ReactionID string    `json:"reaction_id,omitempty"`
	Step       Step      `json:"step"`
	Answers    Answers   `json:"answers"`
	Feedback   *Feedback `json:"feedback,omitempty"`
	Wrong      []string  `json:"wrong,omitempty"` // buffer keys flagged by the last failed check
	Attempts   [4]int    `json:"attempts"`        // failed checks per step
	Loading    bool      `json:"loading"`
	// AnalysisSeq numbers analysis requests so a late oracle result for an
	// earlier request is never applied
	AnalysisSeq int `json:"analysis_seq"`
}

// NewSession returns a session sitting on the login screen
func NewSession(defaultEquation string) *Session {
	return &Session{
		Screen:   ScreenLogin,
		Equation: defaultEquation,
		Step:     Step1,
		Answers:  NewAnswers(0),
	}
}

// Succeeded reports whether the last check on the current step passed
func (s *Session) Succeeded() bool {
	return s.Feedback != nil && s.Feedback.Kind == FeedbackSuccess
}

// Failed reports whether the last check on the current step failed
func (s *Session) Failed() bool {
	return s.Feedback != nil && s.Feedback.Kind == FeedbackError
}
