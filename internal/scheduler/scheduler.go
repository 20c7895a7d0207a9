// Package scheduler maintains one recurring daily job per user, firing at
// the user's configured wall-clock time in their timezone.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/Fortune-Adekogbe/InterstellarInformant/internal/domain"
	"github.com/Fortune-Adekogbe/InterstellarInformant/internal/report"
	"github.com/Fortune-Adekogbe/InterstellarInformant/internal/store"
)

// Sender is the minimal interface the scheduler needs to push a text
// message. telegram.Router implements it.
type Sender interface {
	SendMessage(chatID int64, text string) error
}

// BackendRecorder is implemented by senders that track which render path
// produced the last message per chat, so /diag reflects scheduled pushes
// too.
type BackendRecorder interface {
	RecordBackend(chatID int64, b report.Backend)
}

// settingsRetryDelay spaces out re-reads after a failed settings load.
const settingsRetryDelay = time.Minute

// Builder produces the daily report; the same path /today uses.
type Builder interface {
	Today(ctx context.Context, u *domain.UserSettings) (string, report.Backend)
}

// Scheduler holds one job handle per chat. Rearming cancels the previous
// job before starting its replacement, so a settings change never leaves
// duplicate timers behind.
type Scheduler struct {
	repo    store.Repo
	builder Builder
	sender  Sender
	clock   clockwork.Clock
	log     *zap.Logger

	mu   sync.Mutex
	base context.Context
	jobs map[int64]context.CancelFunc
}

func New(repo store.Repo, builder Builder, sender Sender, clock clockwork.Clock, log *zap.Logger) *Scheduler {
	return &Scheduler{
		repo:    repo,
		builder: builder,
		sender:  sender,
		clock:   clock,
		log:     log,
		jobs:    make(map[int64]context.CancelFunc),
	}
}

// SetSender wires the outbound sender. The router implements Sender but is
// constructed after the scheduler, so this must be called before Start.
func (s *Scheduler) SetSender(sender Sender) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sender = sender
}

// Start binds the scheduler to its lifetime context and rearms a job for
// every stored user. Jobs stop when ctx is canceled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	s.base = ctx
	s.mu.Unlock()

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		s.Arm(u.ChatID)
	}
	s.log.Info("daily jobs armed", zap.Int("users", len(users)))
	return nil
}

// Arm creates (or replaces) the daily job for a chat.
func (s *Scheduler) Arm(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.base == nil {
		return // not started yet; Start will arm stored users
	}
	if cancel, ok := s.jobs[chatID]; ok {
		cancel()
	}
	ctx, cancel := context.WithCancel(s.base)
	s.jobs[chatID] = cancel
	go s.run(ctx, chatID)
}

// Disarm cancels a chat's daily job, if any.
func (s *Scheduler) Disarm(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cancel, ok := s.jobs[chatID]; ok {
		cancel()
		delete(s.jobs, chatID)
	}
}

// run is one user's job loop: sleep until the next fire instant, push the
// report, recompute. Settings are re-read each cycle so the loop always
// follows the stored schedule.
func (s *Scheduler) run(ctx context.Context, chatID int64) {
	for {
		u, err := s.repo.GetUser(ctx, chatID)
		if err != nil {
			s.log.Warn("job settings read failed, will retry",
				zap.Error(err), zap.Int64("chatID", chatID))
			select {
			case <-ctx.Done():
				return
			case <-s.clock.After(settingsRetryDelay):
			}
			continue
		}

		now := s.clock.Now().UTC()
		next := domain.NextDailyFire(now, u)

		select {
		case <-ctx.Done():
			return
		case <-s.clock.After(next.Sub(now)):
			s.fire(ctx, u)
		}
	}
}

// fire builds and pushes one daily report. Failures are logged; the loop
// continues and other users are unaffected.
func (s *Scheduler) fire(ctx context.Context, u *domain.UserSettings) {
	text, backend := s.builder.Today(ctx, u)
	if rec, ok := s.sender.(BackendRecorder); ok {
		rec.RecordBackend(u.ChatID, backend)
	}
	if err := s.sender.SendMessage(u.ChatID, text); err != nil {
		s.log.Error("daily push failed", zap.Error(err), zap.Int64("chatID", u.ChatID))
		return
	}
	s.log.Info("daily push sent",
		zap.Int64("chatID", u.ChatID), zap.String("backend", string(backend)))
}
