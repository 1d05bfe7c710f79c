package clock

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recvHandle(t *testing.T, ch <-chan Handle) Handle {
	t.Helper()
	select {
	case h := <-ch:
		return h
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for expiry")
		return Handle{}
	}
}

func assertNoExpiry(t *testing.T, ch <-chan Handle) {
	t.Helper()
	select {
	case h := <-ch:
		t.Fatalf("unexpected expiry for generation %d", h.Generation)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestArmFiresOnce(t *testing.T) {
	fc := clockwork.NewFakeClock()
	tc := New(fc)
	draftID := uuid.New()
	fired := make(chan Handle, 4)

	h := tc.Arm(draftID, 90*time.Second, func(h Handle) { fired <- h })
	assert.Equal(t, 90, tc.RemainingSeconds(draftID))

	fc.Advance(89 * time.Second)
	assertNoExpiry(t, fired)
	assert.Equal(t, 1, tc.RemainingSeconds(draftID))

	fc.Advance(time.Second)
	got := recvHandle(t, fired)
	assert.Equal(t, h, got)
	assert.Equal(t, 0, tc.ActiveCount())
	assert.Equal(t, time.Duration(0), tc.Remaining(draftID))

	fc.Advance(time.Hour)
	assertNoExpiry(t, fired)
}

func TestRearmCancelsPrevious(t *testing.T) {
	fc := clockwork.NewFakeClock()
	tc := New(fc)
	draftID := uuid.New()
	fired := make(chan Handle, 4)
	onExpire := func(h Handle) { fired <- h }

	first := tc.Arm(draftID, 10*time.Second, onExpire)
	second := tc.Arm(draftID, 30*time.Second, onExpire)
	assert.Greater(t, second.Generation, first.Generation)
	assert.Equal(t, 1, tc.ActiveCount())

	fc.Advance(10 * time.Second)
	assertNoExpiry(t, fired)

	fc.Advance(20 * time.Second)
	assert.Equal(t, second.Generation, recvHandle(t, fired).Generation)
}

func TestCancelIsIdempotent(t *testing.T) {
	fc := clockwork.NewFakeClock()
	tc := New(fc)
	draftID := uuid.New()
	fired := make(chan Handle, 1)

	tc.Arm(draftID, 5*time.Second, func(h Handle) { fired <- h })
	tc.Cancel(draftID)
	tc.Cancel(draftID)
	tc.Cancel(uuid.New())

	_, armed := tc.Armed(draftID)
	assert.False(t, armed)

	fc.Advance(time.Minute)
	assertNoExpiry(t, fired)
}

func TestArmAtPastDeadlineFiresImmediately(t *testing.T) {
	fc := clockwork.NewFakeClock()
	tc := New(fc)
	draftID := uuid.New()
	fired := make(chan Handle, 1)

	tc.ArmAt(draftID, fc.Now().Add(-time.Minute), func(h Handle) { fired <- h })
	recvHandle(t, fired)
}

func TestDraftsAreIndependent(t *testing.T) {
	fc := clockwork.NewFakeClock()
	tc := New(fc)
	a, b := uuid.New(), uuid.New()
	fired := make(chan Handle, 2)
	onExpire := func(h Handle) { fired <- h }

	tc.Arm(a, 10*time.Second, onExpire)
	tc.Arm(b, 20*time.Second, onExpire)
	tc.Cancel(a)

	fc.Advance(20 * time.Second)
	got := recvHandle(t, fired)
	require.Equal(t, b, got.DraftID)
	assertNoExpiry(t, fired)
}

func TestCeilSeconds(t *testing.T) {
	assert.Equal(t, 0, CeilSeconds(-time.Second))
	assert.Equal(t, 0, CeilSeconds(0))
	assert.Equal(t, 1, CeilSeconds(time.Millisecond))
	assert.Equal(t, 42, CeilSeconds(41300*time.Millisecond))
	assert.Equal(t, 42, CeilSeconds(42*time.Second))
}
