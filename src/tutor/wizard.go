package tutor

import (
	"strconv"
	"strings"
	"time"

	"redox_tutor/src/model"
)

// ----------------------------------------------------
// ================ Session transitions ================
// Every mutation of a model.Session goes through one of these functions.

// Login records the student's display identity and moves to the input screen
func Login(s *model.Session, name, email string, now time.Time, messages Messages) error {
	if s.Screen != model.ScreenLogin {
		return ErrWrongScreen
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = messages.DefaultName
	}
	email = strings.TrimSpace(email)
	if email == "" {
		email = messages.DefaultEmail
	}

	s.User = &model.User{
		Name:       name,
		Email:      email,
		LoginCount: 1,
		LastLogin:  now.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}
	s.Screen = model.ScreenInput
	s.Feedback = nil
	return nil
}

// Logout forgets the user and returns to the login screen
func Logout(s *model.Session) error {
	if s.Screen != model.ScreenInput {
		return ErrWrongScreen
	}
	s.User = nil
	s.Feedback = nil
	s.Loading = false
	s.Screen = model.ScreenLogin
	return nil
}

// BeginAnalysis stores the equation, marks the session busy and bumps
// AnalysisSeq. It returns false without changing anything when the equation
// is blank.
func BeginAnalysis(s *model.Session, equation string) (bool, error) {
	if s.Screen != model.ScreenInput {
		return false, ErrWrongScreen
	}
	if s.Loading {
		return false, ErrBusy
	}
	if strings.TrimSpace(equation) == "" {
		return false, nil
	}

	s.Equation = equation
	s.Loading = true
	s.AnalysisSeq++
	s.Feedback = nil
	return true, nil
}

// FailAnalysis leaves the session on the input screen with an error banner
func FailAnalysis(s *model.Session, messages Messages) {
	s.Loading = false
	s.Feedback = &model.Feedback{Kind: model.FeedbackError, Message: messages.AnalysisFailed}
}

// StartWizard enters step 1 with fresh buffers for the analysis
func StartWizard(s *model.Session, analysis *model.Analysis, reactionID string) error {
	if s.Screen != model.ScreenInput {
		return ErrWrongScreen
	}
	if analysis == nil {
		return ErrNoAnalysis
	}

	s.Analysis = analysis
	s.ReactionID = reactionID
	s.Screen = model.ScreenWizard
	s.Step = model.Step1
	s.Answers = model.NewAnswers(analysis.CompoundCount())
	s.Feedback = nil
	s.Wrong = nil
	s.Attempts = [4]int{}
	s.Loading = false
	return nil
}

// UpdateAnswers copies submitted form fields into the answer buffers.
// Unknown keys and out-of-range indexes are ignored.
func UpdateAnswers(s *model.Session, fields map[string]string) error {
	if s.Screen != model.ScreenWizard {
		return ErrWrongScreen
	}
	if s.Analysis == nil {
		return ErrNoAnalysis
	}
	if s.Answers.OxStates == nil {
		s.Answers.OxStates = map[string]string{}
	}
	if len(s.Answers.Coefficients) < s.Analysis.CompoundCount() {
		grown := make([]string, s.Analysis.CompoundCount())
		copy(grown, s.Answers.Coefficients)
		s.Answers.Coefficients = grown
	}

	for key, value := range fields {
		switch key {
		case FieldReducing:
			s.Answers.ReducingAgent = value
		case FieldOxidizing:
			s.Answers.OxidizingAgent = value
		case FieldOxidationProcess:
			s.Answers.OxidationProcess = value
		case FieldReductionProcess:
			s.Answers.ReductionProcess = value
		case FieldMultiplierOx:
			s.Answers.MultiplierOx = value
		case FieldMultiplierRed:
			s.Answers.MultiplierRed = value
		default:
			if side, i, ok := splitIndexedKey(key); ok {
				switch {
				case (side == "left" || side == "right") && i < len(s.Analysis.ElementsChanging):
					s.Answers.OxStates[key] = value
				case side == "coef" && i < len(s.Answers.Coefficients):
					s.Answers.Coefficients[i] = value
				}
			}
		}
	}
	return nil
}

// splitIndexedKey splits "left_3" into ("left", 3)
func splitIndexedKey(key string) (string, int, bool) {
	prefix, index, found := strings.Cut(key, "_")
	if !found {
		return "", 0, false
	}
	i, err := strconv.Atoi(index)
	if err != nil || i < 0 || strconv.Itoa(i) != index {
		return "", 0, false
	}
	return prefix, i, true
}

// ApplyVerdict records the outcome of a check on the current step
func ApplyVerdict(s *model.Session, v Verdict, messages Messages) error {
	if s.Screen != model.ScreenWizard {
		return ErrWrongScreen
	}
	if Completed(s) {
		return ErrTerminalStep
	}
	if v.Step != s.Step {
		return ErrWrongScreen
	}

	if v.Correct {
		s.Feedback = &model.Feedback{Kind: model.FeedbackSuccess, Message: messages.Success}
		s.Wrong = nil
		return nil
	}
	s.Feedback = &model.Feedback{Kind: model.FeedbackError, Message: messages.Retry}
	s.Wrong = v.Wrong
	s.Attempts[s.Step-1]++
	return nil
}

// Advance moves to the next step after a successful check
func Advance(s *model.Session) error {
	if s.Screen != model.ScreenWizard {
		return ErrWrongScreen
	}
	if !s.Succeeded() {
		return ErrAdvanceLocked
	}
	if s.Step >= model.LastStep {
		return ErrTerminalStep
	}
	s.Step++
	s.Feedback = nil
	s.Wrong = nil
	return nil
}

// Skip moves past a failed step. On the last step it only clears the feedback.
func Skip(s *model.Session) error {
	if s.Screen != model.ScreenWizard {
		return ErrWrongScreen
	}
	if !s.Failed() {
		return ErrAdvanceLocked
	}
	if s.Step < model.LastStep {
		s.Step++
	}
	s.Feedback = nil
	s.Wrong = nil
	return nil
}

// Reset discards the analysis and every buffer and returns to the input screen
func Reset(s *model.Session) error {
	if s.Screen != model.ScreenWizard {
		return ErrWrongScreen
	}
	s.Screen = model.ScreenInput
	s.Analysis = nil
	s.ReactionID = ""
	s.Step = model.Step1
	s.Answers = model.NewAnswers(0)
	s.Feedback = nil
	s.Wrong = nil
	s.Attempts = [4]int{}
	s.Loading = false
	return nil
}

// Completed reports the terminal state: step 4 checked successfully
func Completed(s *model.Session) bool {
	return s.Screen == model.ScreenWizard && s.Step == model.LastStep && s.Succeeded()
}
