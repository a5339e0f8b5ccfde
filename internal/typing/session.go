package typing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/typetest/internal/model"
)

// ErrResultNotSaved wraps a result sink failure. The session is still finished
// and its result remains available.
var ErrResultNotSaved = errors.New("result not saved")

// Status is the lifecycle state of a Session.
type Status int

// Session states.
const (
	NotStarted Status = iota
	Active
	Finished
)

func (s Status) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Active:
		return "active"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// ResultSink receives each finished result exactly once.
type ResultSink interface {
	Submit(ctx context.Context, res model.Result) error
}

// Session tracks one typing test from the first keystroke to its result.
// All methods are safe for concurrent use; transitions are serialized.
type Session struct {
	mu sync.Mutex

	cfg       model.TestConfig
	sink      ResultSink
	reference []rune
	refText   string

	typed     []rune
	typedText string

	status    Status
	startedAt time.Time
	live      Stats

	result  *model.Result
	saveErr error
}

// NewSession validates cfg and returns a session over reference.
func NewSession(cfg model.TestConfig, reference string, sink ResultSink) (*Session, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if reference == "" {
		return nil, fmt.Errorf("%w: reference text is empty", ErrInvalidConfig)
	}
	return &Session{
		cfg:       cfg,
		sink:      sink,
		reference: []rune(reference),
		refText:   reference,
	}, nil
}

// Input replaces the typed buffer with buffer at time now.
//
// The first non-empty buffer starts the session. In word, quote and custom
// modes the session finishes once the buffer covers the reference. In time
// mode an input that arrives after the limit finishes the session with the
// previous buffer and is otherwise dropped. Inputs after finish are ignored.
// The returned error is only ever ErrResultNotSaved.
func (s *Session) Input(ctx context.Context, buffer string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.status {
	case Finished:
		return nil
	case NotStarted:
		if buffer == "" {
			return nil
		}
		s.status = Active
		s.startedAt = now
	case Active:
		if s.timeExpired(now) {
			return s.finishLocked(ctx, float64(s.cfg.TimeLimit))
		}
	}

	s.typed = []rune(buffer)
	s.typedText = buffer
	elapsed := s.elapsedAt(now)
	s.live = computeStats(s.typed, s.reference, elapsed)

	if s.cfg.Mode != model.ModeTime && len(s.typed) >= len(s.reference) {
		return s.finishLocked(ctx, elapsed)
	}
	return nil
}

// Tick refreshes the live snapshot and, in time mode, finishes the session
// once the limit has elapsed. Ticks outside the active state do nothing.
func (s *Session) Tick(ctx context.Context, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != Active {
		return nil
	}
	if s.timeExpired(now) {
		return s.finishLocked(ctx, float64(s.cfg.TimeLimit))
	}
	s.live = computeStats(s.typed, s.reference, s.elapsedAt(now))
	return nil
}

// Finish ends an active session at now. Finishing twice is a no-op.
func (s *Session) Finish(ctx context.Context, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != Active {
		return nil
	}
	elapsed := s.elapsedAt(now)
	if s.cfg.Mode == model.ModeTime && elapsed > float64(s.cfg.TimeLimit) {
		elapsed = float64(s.cfg.TimeLimit)
	}
	return s.finishLocked(ctx, elapsed)
}

func (s *Session) finishLocked(ctx context.Context, elapsed float64) error {
	if s.status == Finished {
		return nil
	}
	s.status = Finished
	st := computeStats(s.typed, s.reference, elapsed)
	s.live = st

	res := model.Result{
		ID:         uuid.NewString(),
		User:       s.cfg.User,
		Lang:       s.cfg.Lang,
		Mode:       s.cfg.Mode,
		ModeLimit:  s.cfg.ModeLimit(),
		StartedAt:  s.startedAt,
		EndedAt:    s.startedAt.Add(time.Duration(elapsed * float64(time.Second))),
		WPM:        st.WPM,
		RawWPM:     st.RawWPM,
		Accuracy:   st.Accuracy,
		Correct:    st.Correct,
		Incorrect:  st.Incorrect,
		Characters: st.Characters,
		Elapsed:    st.Elapsed,
		Reference:  s.refText,
		Typed:      s.typedText,
		Chars:      CharTallies(s.typedText, s.refText),
	}
	s.result = &res

	if s.sink == nil {
		return nil
	}
	if err := s.sink.Submit(ctx, res); err != nil {
		s.saveErr = fmt.Errorf("%w: %w", ErrResultNotSaved, err)
		return s.saveErr
	}
	return nil
}

func (s *Session) timeExpired(now time.Time) bool {
	return s.cfg.Mode == model.ModeTime && s.elapsedAt(now) >= float64(s.cfg.TimeLimit)
}

func (s *Session) elapsedAt(now time.Time) float64 {
	if s.startedAt.IsZero() {
		return 0
	}
	d := now.Sub(s.startedAt).Seconds()
	if d < 0 {
		return 0
	}
	return d
}

// Config returns the test configuration.
func (s *Session) Config() model.TestConfig {
	return s.cfg
}

// Reference returns the reference text.
func (s *Session) Reference() string {
	return s.refText
}

// Typed returns the current typed buffer.
func (s *Session) Typed() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.typedText
}

// Status returns the lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Live returns the most recent snapshot. After finish it equals the result stats.
func (s *Session) Live() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live
}

// Statuses classifies the current buffer against the reference.
func (s *Session) Statuses() []CharStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return characterStatuses(s.typed, s.reference)
}

// Remaining returns the time left in time mode, or zero in other modes.
func (s *Session) Remaining(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg.Mode != model.ModeTime {
		return 0
	}
	limit := time.Duration(s.cfg.TimeLimit) * time.Second
	switch s.status {
	case NotStarted:
		return limit
	case Finished:
		return 0
	}
	left := limit - now.Sub(s.startedAt)
	if left < 0 {
		return 0
	}
	return left
}

// Result returns the finished result, if any.
func (s *Session) Result() (model.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return model.Result{}, false
	}
	return *s.result, true
}

// SaveErr returns the sink failure recorded at finish, if any.
func (s *Session) SaveErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveErr
}
