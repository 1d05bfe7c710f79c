package outbox

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/outbox/mocks"
	"github.com/mcdev12/dynasty-draft/go/internal/draft/outbox/worker"
	workermocks "github.com/mcdev12/dynasty-draft/go/internal/draft/outbox/worker/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var errBus = errors.New("bus down")

func event(draftID uuid.UUID, seq uint64) worker.OutboxEvent {
	return worker.OutboxEvent{
		ID:        uuid.New(),
		DraftID:   draftID,
		Sequence:  seq,
		EventType: "PICK_MADE",
		Payload:   []byte(`{}`),
		CreatedAt: time.Now().UTC(),
	}
}

func newTestApp(t *testing.T) (*App, *mocks.MockOutboxRepository, *workermocks.MockEventPublisher, *Counters) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockOutboxRepository(ctrl)
	pub := workermocks.NewMockEventPublisher(ctrl)
	counters := NewCounters()
	app := NewApp(repo, pub, counters, Config{BatchSize: 10, MaxRetries: 0})
	return app, repo, pub, counters
}

func TestPublishByID(t *testing.T) {
	app, repo, pub, counters := newTestApp(t)
	ctx := context.Background()
	ev := event(uuid.New(), 1)

	repo.EXPECT().FetchOutboxByID(ctx, ev.ID).Return(&ev, nil)
	pub.EXPECT().Publish(ctx, ev).Return(nil)
	repo.EXPECT().MarkOutboxSent(ctx, ev.ID).Return(nil)

	require.NoError(t, app.PublishByID(ctx, ev.ID))

	n, last := app.Stats()
	assert.Equal(t, uint64(1), n)
	assert.False(t, last.IsZero())
	assert.Equal(t, uint64(1), counters.Snapshot().Published)
	assert.Equal(t, uint64(1), counters.Snapshot().Attempts)
}

func TestPublishByIDAlreadySent(t *testing.T) {
	app, repo, _, _ := newTestApp(t)
	id := uuid.New()

	repo.EXPECT().FetchOutboxByID(gomock.Any(), id).Return(nil, ErrAlreadySent)

	assert.NoError(t, app.PublishByID(context.Background(), id))
}

func TestPublishByIDRetries(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockOutboxRepository(ctrl)
	pub := workermocks.NewMockEventPublisher(ctrl)
	app := NewApp(repo, pub, nil, Config{BatchSize: 10, MaxRetries: 2, RetryDelay: time.Millisecond})
	ev := event(uuid.New(), 1)

	repo.EXPECT().FetchOutboxByID(gomock.Any(), ev.ID).Return(&ev, nil)
	gomock.InOrder(
		pub.EXPECT().Publish(gomock.Any(), ev).Return(errBus),
		pub.EXPECT().Publish(gomock.Any(), ev).Return(nil),
	)
	repo.EXPECT().MarkOutboxSent(gomock.Any(), ev.ID).Return(nil)

	assert.NoError(t, app.PublishByID(context.Background(), ev.ID))
}

func TestFailedDraftStallsLaterNotifications(t *testing.T) {
	app, repo, pub, counters := newTestApp(t)
	ctx := context.Background()
	draftID := uuid.New()
	first, second := event(draftID, 5), event(draftID, 6)

	repo.EXPECT().FetchOutboxByID(ctx, first.ID).Return(&first, nil)
	pub.EXPECT().Publish(ctx, first).Return(errBus)
	err := app.PublishByID(ctx, first.ID)
	assert.ErrorIs(t, err, errBus)
	assert.Equal(t, uint64(1), counters.Snapshot().Failed)

	// Sequence 6 must not overtake 5.
	repo.EXPECT().FetchOutboxByID(ctx, second.ID).Return(&second, nil)
	assert.NoError(t, app.PublishByID(ctx, second.ID))

	// The drain delivers both in order and clears the stall.
	repo.EXPECT().FetchUnsentOutbox(ctx, int32(10)).Return([]worker.OutboxEvent{first, second}, nil)
	repo.EXPECT().CountUnsentOutbox(ctx).Return(int64(2), nil)
	gomock.InOrder(
		pub.EXPECT().Publish(ctx, first).Return(nil),
		repo.EXPECT().MarkOutboxSent(ctx, first.ID).Return(nil),
		pub.EXPECT().Publish(ctx, second).Return(nil),
		repo.EXPECT().MarkOutboxSent(ctx, second.ID).Return(nil),
	)
	n, err := app.ProcessUnsentEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, int64(2), counters.Snapshot().Lag)

	third := event(draftID, 7)
	repo.EXPECT().FetchOutboxByID(ctx, third.ID).Return(&third, nil)
	pub.EXPECT().Publish(ctx, third).Return(nil)
	repo.EXPECT().MarkOutboxSent(ctx, third.ID).Return(nil)
	assert.NoError(t, app.PublishByID(ctx, third.ID))
}

func TestNotificationWaitsForRunningDrain(t *testing.T) {
	app, repo, pub, _ := newTestApp(t)
	draftID := uuid.New()
	first, second := event(draftID, 1), event(draftID, 2)

	started, release := make(chan struct{}), make(chan struct{})
	var mu sync.Mutex
	var order []uint64
	record := func(ev worker.OutboxEvent) {
		mu.Lock()
		order = append(order, ev.Sequence)
		mu.Unlock()
	}

	// The drain fetched only the first event; the second commits meanwhile.
	repo.EXPECT().FetchUnsentOutbox(gomock.Any(), int32(10)).Return([]worker.OutboxEvent{first}, nil)
	repo.EXPECT().CountUnsentOutbox(gomock.Any()).Return(int64(1), nil)
	pub.EXPECT().Publish(gomock.Any(), first).DoAndReturn(func(_ context.Context, ev worker.OutboxEvent) error {
		close(started)
		<-release
		record(ev)
		return nil
	})
	repo.EXPECT().MarkOutboxSent(gomock.Any(), first.ID).Return(nil)
	repo.EXPECT().FetchOutboxByID(gomock.Any(), second.ID).Return(&second, nil)
	pub.EXPECT().Publish(gomock.Any(), second).DoAndReturn(func(_ context.Context, ev worker.OutboxEvent) error {
		record(ev)
		return nil
	})
	repo.EXPECT().MarkOutboxSent(gomock.Any(), second.ID).Return(nil)

	drained := make(chan error, 1)
	go func() {
		_, err := app.ProcessUnsentEvents(context.Background())
		drained <- err
	}()
	<-started

	notified := make(chan error, 1)
	go func() { notified <- app.PublishByID(context.Background(), second.ID) }()
	select {
	case err := <-notified:
		t.Fatalf("notification relayed during a drain: %v", err)
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-drained)
	require.NoError(t, <-notified)
	assert.Equal(t, []uint64{1, 2}, order)
}

func TestNotificationAfterGapLeftForDrain(t *testing.T) {
	app, repo, pub, _ := newTestApp(t)
	ctx := context.Background()
	draftID := uuid.New()
	e1, e2, e3 := event(draftID, 1), event(draftID, 2), event(draftID, 3)

	repo.EXPECT().FetchOutboxByID(ctx, e1.ID).Return(&e1, nil)
	pub.EXPECT().Publish(ctx, e1).Return(nil)
	repo.EXPECT().MarkOutboxSent(ctx, e1.ID).Return(nil)
	require.NoError(t, app.PublishByID(ctx, e1.ID))

	// The notification for 2 never arrived; 3 must not overtake it.
	repo.EXPECT().FetchOutboxByID(ctx, e3.ID).Return(&e3, nil)
	require.NoError(t, app.PublishByID(ctx, e3.ID))
	assert.True(t, app.isStalled(draftID))

	repo.EXPECT().FetchUnsentOutbox(ctx, int32(10)).Return([]worker.OutboxEvent{e2, e3}, nil)
	repo.EXPECT().CountUnsentOutbox(ctx).Return(int64(2), nil)
	gomock.InOrder(
		pub.EXPECT().Publish(ctx, e2).Return(nil),
		repo.EXPECT().MarkOutboxSent(ctx, e2.ID).Return(nil),
		pub.EXPECT().Publish(ctx, e3).Return(nil),
		repo.EXPECT().MarkOutboxSent(ctx, e3.ID).Return(nil),
	)
	n, err := app.ProcessUnsentEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.False(t, app.isStalled(draftID))
}

func TestProcessUnsentSkipsRestOfFailedDraft(t *testing.T) {
	app, repo, pub, _ := newTestApp(t)
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()
	a1, a2, b1 := event(a, 1), event(a, 2), event(b, 1)

	repo.EXPECT().FetchUnsentOutbox(ctx, int32(10)).Return([]worker.OutboxEvent{a1, a2, b1}, nil)
	repo.EXPECT().CountUnsentOutbox(ctx).Return(int64(3), nil)
	pub.EXPECT().Publish(ctx, a1).Return(errBus)
	pub.EXPECT().Publish(ctx, b1).Return(nil)
	repo.EXPECT().MarkOutboxSent(ctx, b1.ID).Return(nil)

	n, err := app.ProcessUnsentEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, app.isStalled(a))
	assert.False(t, app.isStalled(b))
}

func TestProcessUnsentFetchError(t *testing.T) {
	app, repo, _, _ := newTestApp(t)
	repo.EXPECT().FetchUnsentOutbox(gomock.Any(), int32(10)).Return(nil, errors.New("db gone"))

	_, err := app.ProcessUnsentEvents(context.Background())
	assert.Error(t, err)
}

func TestListenerRelaysNotifications(t *testing.T) {
	app, repo, pub, _ := newTestApp(t)
	ev := event(uuid.New(), 1)
	notify := make(chan *pq.Notification)
	closed := make(chan struct{})

	// Startup drain, then a reconnect drain.
	repo.EXPECT().FetchUnsentOutbox(gomock.Any(), int32(10)).Return(nil, nil).Times(2)
	repo.EXPECT().CountUnsentOutbox(gomock.Any()).Return(int64(0), nil).Times(2)
	repo.EXPECT().FetchOutboxByID(gomock.Any(), ev.ID).Return(&ev, nil)
	pub.EXPECT().Publish(gomock.Any(), ev).Return(nil)
	repo.EXPECT().MarkOutboxSent(gomock.Any(), ev.ID).Return(nil)

	cfg := ListenerConfig{NotifyChannel: "draft_outbox_events", FallbackInterval: time.Hour, PingInterval: time.Hour}
	l := newListener(app, cfg, notify, func() error { return nil }, func() error {
		close(closed)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Start(ctx) }()

	notify <- &pq.Notification{Channel: cfg.NotifyChannel, Extra: ev.ID.String()}
	notify <- nil
	notify <- &pq.Notification{Channel: cfg.NotifyChannel, Extra: "not-a-uuid"}
	assert.True(t, l.Running())

	cancel()
	require.NoError(t, <-done)
	<-closed
	assert.False(t, l.Running())
}

func TestWorkerStartStop(t *testing.T) {
	app, repo, _, _ := newTestApp(t)
	repo.EXPECT().FetchUnsentOutbox(gomock.Any(), int32(10)).Return(nil, nil).AnyTimes()
	repo.EXPECT().CountUnsentOutbox(gomock.Any()).Return(int64(0), nil).AnyTimes()

	w := NewWorker(app, time.Millisecond)
	require.NoError(t, w.Start(context.Background()))
	assert.Error(t, w.Start(context.Background()))
	assert.True(t, w.Running())

	require.NoError(t, w.Stop())
	assert.Error(t, w.Stop())
	assert.False(t, w.Running())
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

type fakeRunner bool

func (r fakeRunner) Running() bool { return bool(r) }

func TestHealthChecker(t *testing.T) {
	app, repo, _, counters := newTestApp(t)
	repo.EXPECT().CountUnsentOutbox(gomock.Any()).Return(int64(3), nil).AnyTimes()

	healthy := NewHealthChecker(app, fakePinger{}, fakeRunner(true), func() bool { return true }, time.Minute)
	status := healthy.Check(context.Background())
	assert.True(t, status.Healthy)
	assert.Equal(t, int64(3), status.PendingEvents)

	rec := httptest.NewRecorder()
	healthy.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"pending_events":3`)

	sick := NewHealthChecker(app, fakePinger{err: errors.New("refused")}, fakeRunner(false), func() bool { return false }, time.Minute)
	status = sick.Check(context.Background())
	assert.False(t, status.Healthy)
	assert.False(t, status.DatabaseConnected)
	assert.False(t, status.BusConnected)
	assert.Len(t, status.Errors, 3)

	rec = httptest.NewRecorder()
	sick.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	text := NewPrometheusExporter(healthy, counters).Export(context.Background())
	assert.True(t, strings.Contains(text, "outbox_healthy 1"))
	assert.True(t, strings.Contains(text, "outbox_pending_events 3"))
}

func TestMultiPublisher(t *testing.T) {
	ctrl := gomock.NewController(t)
	ok := workermocks.NewMockEventPublisher(ctrl)
	bad := workermocks.NewMockEventPublisher(ctrl)
	ev := event(uuid.New(), 1)

	ok.EXPECT().Publish(gomock.Any(), ev).Return(nil)
	bad.EXPECT().Publish(gomock.Any(), ev).Return(errBus)

	err := NewMultiPublisher(ok, bad).Publish(context.Background(), ev)
	assert.ErrorIs(t, err, errBus)

	assert.NoError(t, NewMultiPublisher(NewLogPublisher()).Publish(context.Background(), ev))
}
