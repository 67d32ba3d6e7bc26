package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"arrow-be/internal/dto"
	"arrow-be/internal/entity"
	"arrow-be/internal/pkg/logger"
	"arrow-be/internal/repository/memory"
	"arrow-be/internal/session"
	"arrow-be/pkg/events"
	"arrow-be/pkg/livequery"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) ofType(eventType string) []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []events.Event
	for _, e := range p.events {
		if e.EventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}

type fakeMailer struct {
	resets  chan string
	notices chan string
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{resets: make(chan string, 8), notices: make(chan string, 8)}
}

func (m *fakeMailer) SendResetToken(toEmail, token string) error {
	m.resets <- token
	return nil
}

func (m *fakeMailer) SendInterestNotice(toEmail, investorEmail, pitchTitle string) error {
	m.notices <- toEmail + "|" + investorEmail + "|" + pitchTitle
	return nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	outs []uuid.UUID
}

func (n *fakeNotifier) SignedOut(ctx context.Context, userId uuid.UUID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.outs = append(n.outs, userId)
}

type logEntry struct {
	level   string
	module  string
	message string
	details map[string]interface{}
}

// recordingLogger keeps every entry for assertions.
type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) record(level, module, message string, details map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, module: module, message: message, details: details})
}

func (l *recordingLogger) Debug(module, message string, details map[string]interface{}) {
	l.record("DEBUG", module, message, details)
}

func (l *recordingLogger) Info(module, message string, details map[string]interface{}) {
	l.record("INFO", module, message, details)
}

func (l *recordingLogger) Warn(module, message string, details map[string]interface{}) {
	l.record("WARN", module, message, details)
}

func (l *recordingLogger) Error(module, message string, details map[string]interface{}) {
	l.record("ERROR", module, message, details)
}

func (l *recordingLogger) Sync() error { return nil }

func (l *recordingLogger) at(level string) []logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []logEntry
	for _, e := range l.entries {
		if e.level == level {
			out = append(out, e)
		}
	}
	return out
}

type fixture struct {
	store     *memory.Store
	feed      *livequery.GoChannelFeed
	publisher *recordingPublisher
	mailer    *fakeMailer
	notifier  *fakeNotifier
	issuer    *session.TokenIssuer

	auth     IAuthService
	pitches  IPitchService
	interest IInterestService
	chat     IChatService
	users    IUserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	feed := livequery.NewGoChannelFeed(nil)
	t.Cleanup(func() { feed.Close() })

	f := &fixture{
		store:     memory.NewStore(memory.NewKV(), feed),
		feed:      feed,
		publisher: &recordingPublisher{},
		mailer:    newFakeMailer(),
		notifier:  &fakeNotifier{},
		issuer:    session.NewTokenIssuer("test-secret", time.Hour),
	}
	log := logger.NewNopLogger()
	f.auth = NewAuthService(f.store, f.issuer, f.mailer, f.notifier, time.Hour, log)
	f.pitches = NewPitchService(f.store, memory.NewPitchSnapshotRepository(), f.publisher, log)
	f.interest = NewInterestService(f.store, f.publisher, log)
	f.chat = NewChatService(f.store, f.publisher, log)
	f.users = NewUserService(f.store)
	return f
}

func (f *fixture) signUp(t *testing.T, email string) *session.Identity {
	t.Helper()
	res, err := f.auth.SignUp(context.Background(), &dto.SignUpRequest{Email: email, Password: "secret123"})
	require.NoError(t, err)
	return &session.Identity{UserId: res.User.Id, Email: res.User.Email}
}

func (f *fixture) createPitch(t *testing.T, owner *session.Identity, title string) uuid.UUID {
	t.Helper()
	res, err := f.pitches.Create(context.Background(), owner, &dto.CreatePitchRequest{Title: title, Sector: "EdTech", Location: "NY", Equity: "8"})
	require.NoError(t, err)
	return res.Id
}

func (f *fixture) pitch(t *testing.T, id uuid.UUID) *entity.Pitch {
	t.Helper()
	p, err := f.store.NewUnitOfWork(context.Background()).PitchRepository().FindByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}
