package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"antibias-assessment/internal/model"
	"antibias-assessment/internal/repository"
	"antibias-assessment/utilities"
)

var ErrNoResult = errors.New("no submitted result for this session")

type AssessmentService interface {
	Title() string
	Scale() model.Scale
	Questions() repository.QuestionRepository
	StartSession() (*model.Session, error)
	RestoreSession(sessionID string, seed uint64) (*model.Session, error)
	OrderedQuestions(session *model.Session) []model.Question
	Submit(session *model.Session, raw map[int]string) (*model.Result, error)
	LastResult(sessionID string) (*model.Result, error)
	Reset(sessionID string) (*model.Session, error)
}

type AssessmentOptions struct {
	Title   string
	Scale   model.Scale
	Shuffle bool
	Events  *utilities.EventBus
	Now     func() time.Time
}

type assessmentService struct {
	questions repository.QuestionRepository
	sessions  repository.SessionRepository
	opts      AssessmentOptions
}

func NewAssessmentService(questions repository.QuestionRepository, sessions repository.SessionRepository, opts AssessmentOptions) AssessmentService {
	if opts.Scale.Max == 0 {
		opts.Scale = model.FivePointScale
	}
	if opts.Title == "" {
		opts.Title = questions.Title()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &assessmentService{questions: questions, sessions: sessions, opts: opts}
}

func (s *assessmentService) Title() string {
	return s.opts.Title
}

func (s *assessmentService) Scale() model.Scale {
	return s.opts.Scale
}

func (s *assessmentService) Questions() repository.QuestionRepository {
	return s.questions
}

// StartSession creates a session with a fresh presentation order.
func (s *assessmentService) StartSession() (*model.Session, error) {
	seed, err := NewSeed()
	if err != nil {
		return nil, err
	}
	session := &model.Session{
		ID:        uuid.New().String(),
		Seed:      seed,
		CreatedAt: s.opts.Now(),
	}
	if err := s.sessions.CreateSession(session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	utilities.Debug("started session %s", session.ID)
	return session, nil
}

// RestoreSession returns the stored session, recreating it from the signed
// cookie values when it has expired or the process restarted.
func (s *assessmentService) RestoreSession(sessionID string, seed uint64) (*model.Session, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return nil, fmt.Errorf("invalid session id: %w", err)
	}
	session, err := s.sessions.GetSessionByID(sessionID)
	if err == nil && session.Seed == seed {
		return session, nil
	}
	if err != nil && !errors.Is(err, repository.ErrSessionNotFound) {
		return nil, err
	}
	session = &model.Session{ID: sessionID, Seed: seed, CreatedAt: s.opts.Now()}
	if err := s.sessions.CreateSession(session); err != nil {
		return nil, fmt.Errorf("recreate session: %w", err)
	}
	return session, nil
}

// OrderedQuestions returns the bank in the session's presentation order.
func (s *assessmentService) OrderedQuestions(session *model.Session) []model.Question {
	all := s.questions.GetAllQuestions()
	if !s.opts.Shuffle || session == nil {
		return all
	}
	return ShuffleQuestions(all, session.Seed)
}

// Submit scores the raw values and stores the result as the session's last.
func (s *assessmentService) Submit(session *model.Session, raw map[int]string) (*model.Result, error) {
	if session == nil {
		return nil, repository.ErrSessionNotFound
	}
	result := Score(s.questions, s.opts.Scale, raw)
	result.SessionID = session.ID
	result.SubmittedAt = s.opts.Now()

	if err := s.sessions.SaveResult(session.ID, result); err != nil {
		return nil, fmt.Errorf("save result: %w", err)
	}
	session.LastResult = result

	if s.opts.Events != nil {
		s.opts.Events.Publish(utilities.EventAssessmentSubmitted, *result)
	}
	return result, nil
}

func (s *assessmentService) LastResult(sessionID string) (*model.Result, error) {
	session, err := s.sessions.GetSessionByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session.LastResult == nil {
		return nil, ErrNoResult
	}
	return session.LastResult, nil
}

// Reset drops the session and its result and starts a new one.
func (s *assessmentService) Reset(sessionID string) (*model.Session, error) {
	if err := s.sessions.DeleteSession(sessionID); err != nil && !errors.Is(err, repository.ErrSessionNotFound) {
		return nil, err
	}
	return s.StartSession()
}

// LogSubmissions subscribes a handler that logs a summary of each result.
func LogSubmissions(bus *utilities.EventBus) {
	bus.Subscribe(utilities.EventAssessmentSubmitted, func(data interface{}) {
		result, ok := data.(model.Result)
		if !ok {
			utilities.Warn("unexpected %s payload %T", utilities.EventAssessmentSubmitted, data)
			return
		}
		utilities.Info("session %s submitted: %d/%d (%d%%), %d of %d answered, %d invalid",
			result.SessionID, result.Total, result.MaxTotal, result.Percentage,
			result.Answered, result.Questions, len(result.Invalid))
	})
}
