package service

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/menkyoquiz/menkyo-backend/internal/config"
	"github.com/menkyoquiz/menkyo-backend/internal/model"
	"github.com/menkyoquiz/menkyo-backend/internal/quiz"
	"github.com/menkyoquiz/menkyo-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Quiz orchestration errors.
var (
	ErrInvalidSet    = errors.New("practice set out of range")
	ErrPremiumLocked = errors.New("premium questions locked")
	ErrNoQuestions   = errors.New("no questions available for this category")
)

// completedSessionPayload is what gets queued for the persistence workers
// when a session reaches its terminal state.
type completedSessionPayload struct {
	model.SessionSummary
	CompletedAt time.Time `json:"completed_at"`
}

// QuizService orchestrates the session engine: it builds sessions from the
// question pool, relays submits and advances, and on completion folds the
// summary into the progress aggregate and queues durable persistence.
type QuizService struct {
	cfg        *config.Config
	questions  *QuestionService
	sharing    *repository.SharingRepository
	sessions   *repository.SessionStore
	aggregates *repository.AggregateStore
	rdb        *redis.Client

	mu  sync.Mutex
	rng *rand.Rand
}

// NewQuizService creates a new QuizService.
func NewQuizService(
	cfg *config.Config,
	questions *QuestionService,
	sharing *repository.SharingRepository,
	sessions *repository.SessionStore,
	aggregates *repository.AggregateStore,
	rdb *redis.Client,
) *QuizService {
	return &QuizService{
		cfg:        cfg,
		questions:  questions,
		sharing:    sharing,
		sessions:   sessions,
		aggregates: aggregates,
		rdb:        rdb,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SessionState is the client-safe view of a live session. Answers and
// explanations of unanswered questions are never exposed.
type SessionState struct {
	SessionID        string                   `json:"session_id"`
	Category         string                   `json:"category"`
	ChallengeType    string                   `json:"challenge_type,omitempty"`
	SetNumber        int                      `json:"set_number,omitempty"`
	CurrentIndex     int                      `json:"current_index"`
	TotalQuestions   int                      `json:"total_questions"`
	Score            int                      `json:"score"`
	Complete         bool                     `json:"complete"`
	CurrentQuestion  *model.QuestionForUser   `json:"current_question,omitempty"`
	Answered         []model.AnsweredQuestion `json:"answered"`
	RemainingSeconds *int                     `json:"remaining_seconds,omitempty"`
}

func (s *QuizService) stateOf(session *quiz.Session) *SessionState {
	state := &SessionState{
		SessionID:      session.ID,
		Category:       session.Category(),
		ChallengeType:  string(session.ChallengeType),
		SetNumber:      session.SetNumber,
		CurrentIndex:   session.CurrentIndex,
		TotalQuestions: session.TotalQuestions(),
		Score:          session.Score,
		Complete:       session.Complete(),
		Answered:       session.Answered,
	}
	if q, err := session.Current(); err == nil {
		view := q.ForUser()
		state.CurrentQuestion = &view
	}
	if session.ChallengeType == model.ChallengeTimed {
		remaining := s.cfg.TimedChallengeSeconds - int(time.Since(session.StartedAt).Seconds())
		if remaining < 0 {
			remaining = 0
		}
		state.RemainingSeconds = &remaining
	}
	return state
}

// StartSession builds a new session for the user. Any previous live
// session is discarded, matching the abort semantics of the DELETE
// endpoint: a session that never completes is never aggregated.
func (s *QuizService) StartSession(ctx context.Context, userID int, req model.StartSessionRequest) (*SessionState, error) {
	category := req.Category
	if category == "" {
		category = model.CategoryKarimen
	}

	pool, err := s.questions.ListByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, ErrNoQuestions
	}

	unlocked, err := s.premiumUnlocked(ctx, userID)
	if err != nil {
		return nil, err
	}

	challenge := model.ChallengeType(req.ChallengeType)
	var questions []model.Question
	var opts []quiz.Option

	switch {
	case req.SetNumber != nil:
		// Set-based practice: a fixed ordered range of the pool.
		n := *req.SetNumber
		questions = quiz.SliceSet(category, pool, n)
		if len(questions) == 0 {
			return nil, ErrInvalidSet
		}
		if !unlocked && containsPremium(questions) {
			return nil, ErrPremiumLocked
		}
		opts = append(opts, quiz.WithSetNumber(n))

	default:
		// Challenge or free practice: a uniform random draw.
		if !unlocked {
			pool = freeOnly(pool)
			if len(pool) == 0 {
				return nil, ErrNoQuestions
			}
		}
		switch challenge {
		case model.ChallengeSigns:
			pool = withImages(pool)
		case model.ChallengeRegulations:
			pool = withoutImages(pool)
		}
		if len(pool) == 0 {
			return nil, ErrNoQuestions
		}

		count := quiz.SetSize(category)
		if req.QuestionCount != nil {
			count = *req.QuestionCount
		}
		if count > len(pool) {
			count = len(pool)
		}

		s.mu.Lock()
		questions = quiz.Draw(pool, count, s.rng)
		s.mu.Unlock()
	}

	if challenge.Valid() {
		opts = append(opts, quiz.WithChallengeType(challenge))
	}

	session, err := quiz.NewSession(userID, questions, len(questions), opts...)
	if err != nil {
		return nil, err
	}

	// Discard any previous live session before installing the new one.
	if oldID, err := s.sessions.ActiveSessionID(ctx, userID); err == nil && oldID != session.ID {
		_ = s.sessions.Delete(ctx, userID, oldID)
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return s.stateOf(session), nil
}

// GetSession returns the live state of a session.
func (s *QuizService) GetSession(ctx context.Context, userID int, sessionID string) (*SessionState, error) {
	session, err := s.sessions.Load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.stateOf(session), nil
}

// ActiveSession returns the user's current session state, if any.
func (s *QuizService) ActiveSession(ctx context.Context, userID int) (*SessionState, error) {
	id, err := s.sessions.ActiveSessionID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.GetSession(ctx, userID, id)
}

// SubmitAnswer resolves the user's answer for the current slot and saves
// the updated session. It does not advance: the client shows feedback
// first and advances explicitly.
func (s *QuizService) SubmitAnswer(ctx context.Context, userID int, sessionID string, req model.SubmitAnswerRequest) (*model.Verdict, *SessionState, error) {
	session, err := s.sessions.Load(ctx, userID, sessionID)
	if err != nil {
		return nil, nil, err
	}

	_, verdict, err := session.Submit(*req.Answer, req.TimeSpentSeconds)
	if err != nil {
		return nil, nil, err
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, nil, err
	}
	return &verdict, s.stateOf(session), nil
}

// Advance moves the session to the next slot. When the terminal state is
// reached it finalizes: the summary is folded into the progress aggregate,
// queued for durable persistence, and the live session is dropped.
func (s *QuizService) Advance(ctx context.Context, userID int, sessionID string) (*SessionState, *model.SessionSummary, error) {
	session, err := s.sessions.Load(ctx, userID, sessionID)
	if err != nil {
		return nil, nil, err
	}

	done, err := session.Advance()
	if err != nil {
		return nil, nil, err
	}

	if !done {
		if err := s.sessions.Save(ctx, session); err != nil {
			return nil, nil, err
		}
		return s.stateOf(session), nil, nil
	}

	summary, err := session.Summary()
	if err != nil {
		return nil, nil, err
	}
	s.finalize(ctx, session, summary)
	return s.stateOf(session), &summary, nil
}

// Abort discards a live session without aggregating anything.
func (s *QuizService) Abort(ctx context.Context, userID int, sessionID string) error {
	if _, err := s.sessions.Load(ctx, userID, sessionID); err != nil {
		return err
	}
	return s.sessions.Delete(ctx, userID, sessionID)
}

// finalize folds the summary into the user's aggregate and queues the
// durable writes. Persistence is best-effort: failures are logged, never
// surfaced, because a finished quiz must always reach the result screen.
func (s *QuizService) finalize(ctx context.Context, session *quiz.Session, summary model.SessionSummary) {
	l := log.With().Str("component", "quiz_service").
		Int("user_id", summary.UserID).Str("session_id", summary.SessionID).Logger()

	foldProgress(ctx, s.aggregates, summary, l)

	payload, err := json.Marshal(completedSessionPayload{
		SessionSummary: summary,
		CompletedAt:    time.Now(),
	})
	if err == nil {
		if err := s.rdb.RPush(ctx, config.WorkerKey.PersistProgressQueue, payload).Err(); err != nil {
			l.Error().Err(err).Msg("Failed to queue progress persistence")
		}
		if err := s.rdb.RPush(ctx, config.WorkerKey.PersistSessionsQueue, payload).Err(); err != nil {
			l.Error().Err(err).Msg("Failed to queue session history persistence")
		}
	}

	if err := s.sessions.Delete(ctx, summary.UserID, session.ID); err != nil {
		l.Error().Err(err).Msg("Failed to drop finished session")
	}
}

// aggregateStore is the slice of AggregateStore that foldProgress needs.
type aggregateStore interface {
	Load(ctx context.Context, userID int) (*model.ProgressAggregate, error)
	Save(ctx context.Context, userID int, agg *model.ProgressAggregate) error
}

// foldProgress folds a completed summary into the user's stored
// aggregate. A load failure skips the fold entirely: a Save after a read
// blip would replace the stored history with a one-session aggregate.
// The queued user_progress row still records the session either way.
func foldProgress(ctx context.Context, store aggregateStore, summary model.SessionSummary, l zerolog.Logger) {
	agg, err := store.Load(ctx, summary.UserID)
	if err != nil {
		l.Error().Err(err).Msg("Failed to load progress aggregate, skipping fold")
		return
	}
	if err := quiz.RecordSession(agg, summary); err != nil {
		l.Warn().Err(err).Msg("Summary not aggregated")
		return
	}
	if err := store.Save(ctx, summary.UserID, agg); err != nil {
		l.Error().Err(err).Msg("Failed to save progress aggregate")
	}
}

// Sets lists the practice sets available in a category. Sets whose range
// starts beyond the free limit are flagged locked until a social unlock.
func (s *QuizService) Sets(ctx context.Context, userID int, category string) ([]LockablePracticeSet, error) {
	pool, err := s.questions.ListByCategory(ctx, category)
	if err != nil {
		return nil, err
	}

	unlocked, err := s.premiumUnlocked(ctx, userID)
	if err != nil {
		return nil, err
	}

	sets := quiz.Sets(category, len(pool))
	out := make([]LockablePracticeSet, 0, len(sets))
	for _, set := range sets {
		locked := !unlocked && containsPremium(quiz.SliceSet(category, pool, set.Number))
		out = append(out, LockablePracticeSet{PracticeSet: set, Locked: locked})
	}
	return out, nil
}

// LockablePracticeSet is a practice set with its premium lock state.
type LockablePracticeSet struct {
	quiz.PracticeSet
	Locked bool `json:"locked"`
}

func (s *QuizService) premiumUnlocked(ctx context.Context, userID int) (bool, error) {
	sharing, err := s.sharing.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	return sharing.HasShared, nil
}

func containsPremium(questions []model.Question) bool {
	for _, q := range questions {
		if q.IsPremium {
			return true
		}
	}
	return false
}

func freeOnly(pool []model.Question) []model.Question {
	out := make([]model.Question, 0, len(pool))
	for _, q := range pool {
		if !q.IsPremium {
			out = append(out, q)
		}
	}
	return out
}

func withImages(pool []model.Question) []model.Question {
	out := make([]model.Question, 0, len(pool))
	for _, q := range pool {
		if q.ImageURL != nil {
			out = append(out, q)
		}
	}
	return out
}

func withoutImages(pool []model.Question) []model.Question {
	out := make([]model.Question, 0, len(pool))
	for _, q := range pool {
		if q.ImageURL == nil {
			out = append(out, q)
		}
	}
	return out
}
