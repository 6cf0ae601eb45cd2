package tutor

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"redox_tutor/src/llm/oracle"
	"redox_tutor/src/logger"
	"redox_tutor/src/metrics"
	"redox_tutor/src/model"
	"redox_tutor/src/storage"
	"redox_tutor/src/telemetry"

	"github.com/google/uuid"
)

// Service runs tutoring actions against stored sessions. Actions on the same
// session token are serialized; the oracle call runs outside the lock.
type Service struct {
	store           storage.SessionStore[model.Session]
	oracle          oracle.Oracle
	notifier        telemetry.Notifier
	metrics         *metrics.Metrics
	messages        Messages
	defaultEquation string
	now             func() time.Time
	locks           keyedMutex
}

// ServiceConfig wires the Service collaborators
type ServiceConfig struct {
	Store           storage.SessionStore[model.Session]
	Oracle          oracle.Oracle
	Notifier        telemetry.Notifier
	Metrics         *metrics.Metrics
	Messages        Messages
	DefaultEquation string
}

func NewService(config ServiceConfig) *Service {
	notifier := config.Notifier
	if notifier == nil {
		notifier = telemetry.Nop{}
	}
	return &Service{
		store:           config.Store,
		oracle:          config.Oracle,
		notifier:        notifier,
		metrics:         config.Metrics,
		messages:        config.Messages,
		defaultEquation: config.DefaultEquation,
		now:             time.Now,
	}
}

// Messages returns the catalog the service reports with
func (s *Service) Messages() Messages {
	return s.messages
}

// Ping checks the session store
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Create stores a new session on the login screen and returns its token
func (s *Service) Create(ctx context.Context) (string, *model.Session, error) {
	token := uuid.NewString()
	session := model.NewSession(s.defaultEquation)
	if err := s.store.Save(ctx, token, session); err != nil {
		return "", nil, fmt.Errorf("failed to create session: %w", err)
	}
	logger.Session(token).Debug().Msg("Session created")
	return token, session, nil
}

// Get loads a session. A missing or expired one yields storage.ErrSessionNotFound.
func (s *Service) Get(ctx context.Context, token string) (*model.Session, error) {
	return s.store.Load(ctx, token)
}

// mutate loads, changes and saves a session under its lock
func (s *Service) mutate(ctx context.Context, token string, fn func(*model.Session) error) (*model.Session, error) {
	unlock := s.locks.Lock(token)
	defer unlock()

	session, err := s.store.Load(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := fn(session); err != nil {
		return session, err
	}
	if err := s.store.Save(ctx, token, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return session, nil
}

// Login captures the student's name and email and reports a LOGIN event
func (s *Service) Login(ctx context.Context, token, name, email, device string) (*model.Session, error) {
	session, err := s.mutate(ctx, token, func(session *model.Session) error {
		return Login(session, name, email, s.now(), s.messages)
	})
	if err != nil {
		return session, err
	}

	s.metrics.ObserveLogin()
	s.notifier.Notify(model.Event{
		Action: model.ActionLogin,
		Payload: model.LoginPayload{
			Name:   session.User.Name,
			Email:  session.User.Email,
			Device: device,
		},
	})
	logger.Session(token).Info().Str("email", session.User.Email).Msg("Student logged in")
	return session, nil
}

func (s *Service) Logout(ctx context.Context, token string) (*model.Session, error) {
	return s.mutate(ctx, token, Logout)
}

// Analyze sends the equation to the oracle and enters the wizard on success.
// A blank equation is ignored. An oracle failure leaves the session on the
// input screen with an error banner and returns ErrAnalysisFailed.
func (s *Service) Analyze(ctx context.Context, token, equation string) (*model.Session, error) {
	var started bool
	var seq int
	session, err := s.mutate(ctx, token, func(session *model.Session) error {
		var err error
		started, err = BeginAnalysis(session, equation)
		seq = session.AnalysisSeq
		return err
	})
	if err != nil || !started {
		return session, err
	}

	analysis, oracleErr := s.oracle.Analyze(ctx, equation)

	// the outcome is recorded even when the request went away
	saveCtx := context.WithoutCancel(ctx)
	var reactionID string
	var stale bool
	session, err = s.mutate(saveCtx, token, func(session *model.Session) error {
		if session.Screen != model.ScreenInput || !session.Loading || session.AnalysisSeq != seq {
			// logged out meanwhile, or a newer equation was submitted
			stale = true
			return nil
		}
		if oracleErr != nil {
			FailAnalysis(session, s.messages)
			return nil
		}
		reactionID = "SESS_" + strconv.FormatInt(s.now().UnixMilli(), 10)
		return StartWizard(session, analysis, reactionID)
	})
	if err != nil {
		return session, err
	}

	log := logger.Session(token)
	if stale {
		log.Debug().Int("analysis_seq", seq).Err(oracleErr).Msg("Stale analysis result dropped")
		return session, nil
	}
	if oracleErr != nil {
		log.Warn().Err(oracleErr).Str("equation", equation).Msg("Equation analysis failed")
		return session, fmt.Errorf("%w: %v", ErrAnalysisFailed, oracleErr)
	}

	s.notifier.Notify(model.Event{
		Action: model.ActionLogReaction,
		Payload: model.ReactionPayload{
			Email:     email(session),
			Equation:  equation,
			SessionID: reactionID,
		},
	})
	log.Info().Str("reaction_id", reactionID).Int("compounds", analysis.CompoundCount()).Msg("Wizard started")
	return session, nil
}

// Check stores the submitted fields and validates the current step. A failed
// check reports a LOG_ERROR event.
func (s *Service) Check(ctx context.Context, token string, fields map[string]string) (*model.Session, Verdict, error) {
	var verdict Verdict
	var invalid error
	session, err := s.mutate(ctx, token, func(session *model.Session) error {
		if err := UpdateAnswers(session, fields); err != nil {
			return err
		}
		if Completed(session) {
			return ErrTerminalStep
		}

		var err error
		verdict, err = Validate(session.Step, session.Analysis, session.Answers)
		if errors.Is(err, ErrInvalidAnalysis) {
			invalid = err
			if err := Reset(session); err != nil {
				return err
			}
			FailAnalysis(session, s.messages)
			return nil
		}
		if err != nil {
			return err
		}
		return ApplyVerdict(session, verdict, s.messages)
	})
	if err != nil {
		return session, verdict, err
	}
	if invalid != nil {
		logger.Session(token).Error().Err(invalid).Msg("Stored analysis rejected")
		return session, verdict, fmt.Errorf("%w: %v", ErrAnalysisFailed, invalid)
	}

	s.metrics.ObserveCheck(verdict.Step.String(), verdict.Correct)
	if !verdict.Correct {
		s.notifier.Notify(model.Event{
			Action: model.ActionLogError,
			Payload: model.StepErrorPayload{
				SessionID:   session.ReactionID,
				Email:       email(session),
				Step:        s.messages.Label(verdict.Step),
				ErrorDetail: s.messages.Category(verdict.Step),
				Attempts:    session.Attempts[verdict.Step-1],
			},
		})
	}
	logger.Session(token).Debug().
		Str("step", verdict.Step.String()).
		Bool("correct", verdict.Correct).
		Strs("wrong", verdict.Wrong).
		Msg("Step checked")
	return session, verdict, nil
}

// Next advances after a successful check
func (s *Service) Next(ctx context.Context, token string) (*model.Session, error) {
	return s.mutate(ctx, token, Advance)
}

// Skip moves on after a failed check
func (s *Service) Skip(ctx context.Context, token string) (*model.Session, error) {
	var step model.Step
	session, err := s.mutate(ctx, token, func(session *model.Session) error {
		step = session.Step
		return Skip(session)
	})
	if err == nil {
		s.metrics.ObserveSkip(step.String())
	}
	return session, err
}

func (s *Service) Reset(ctx context.Context, token string) (*model.Session, error) {
	return s.mutate(ctx, token, Reset)
}

func email(session *model.Session) string {
	if session.User == nil {
		return ""
	}
	return session.User.Email
}
