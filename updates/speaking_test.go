package updates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mqy/minisync/data"
	"github.com/mqy/minisync/tl"
)

// newSpeakingFixture sets up supergroup 100 as chat -100 with video chat 7
// running and users 3 and 4 loaded. The chat full info is not loaded.
func newSpeakingFixture(t *testing.T) *fixture {
	f := newFixture(t)
	f.u.Apply(&tl.UpdateUser{User: tl.User{ID: 3}})
	f.u.Apply(&tl.UpdateUser{User: tl.User{ID: 4}})
	f.u.Apply(&tl.UpdateSupergroup{Supergroup: tl.Supergroup{ID: 100}})
	f.u.Apply(&tl.UpdateNewChat{Chat: *supergroupChat(-100, 100, 7)})
	f.m.RunPending()
	return f
}

func permutations(n int) [][]int {
	if n == 1 {
		return [][]int{{0}}
	}
	var out [][]int
	for _, p := range permutations(n - 1) {
		for i := 0; i <= len(p); i++ {
			q := make([]int, 0, n)
			q = append(q, p[:i]...)
			q = append(q, n-1)
			q = append(q, p[i:]...)
			out = append(out, q)
		}
	}
	return out
}

// Speaking signals and the chat full info may arrive in any order; the
// participants that end up in the call are the same.
func TestSpeakingOrderIndependent(t *testing.T) {
	t1, t2 := t0.Add(time.Second), t0.Add(2*time.Second)
	steps := []func(*fixture){
		func(f *fixture) { f.u.Speaking().Handle(-100, 3, t1) },
		func(f *fixture) { f.u.Speaking().Handle(-100, 4, t2) },
		func(f *fixture) { f.u.Apply(&tl.UpdateSupergroupFullInfo{SupergroupID: 100}) },
	}
	want := []data.Participant{
		{PeerID: 3, Spoke: data.LastSpokeTimes{Anything: t1, Voice: t1}, Ephemeral: true},
		{PeerID: 4, Spoke: data.LastSpokeTimes{Anything: t2, Voice: t2}, Ephemeral: true},
	}

	orders := permutations(len(steps))
	require.Len(t, orders, 6)
	for _, order := range orders {
		f := newSpeakingFixture(t)
		for _, i := range order {
			steps[i](f)
			f.m.RunPending()
		}
		assert.LessOrEqual(t, len(f.rec.Of("getSupergroupFullInfo")), 1, "order %v", order)
		// A late reply to the full info request must not apply anything twice.
		for _, c := range f.rec.Of("getSupergroupFullInfo") {
			c.Reply(&tl.SupergroupFullInfo{})
		}
		f.m.RunPending()

		call := f.store.GroupCall(7)
		require.NotNil(t, call, "order %v", order)
		assert.Equal(t, want, call.Participants(), "order %v", order)
		assert.Empty(t, f.u.Speaking().Pending(-100), "order %v", order)
	}
}

func TestSpeakingKeepsLatestSignal(t *testing.T) {
	f := newSpeakingFixture(t)
	s := f.u.Speaking()
	s.Handle(-100, 3, t0.Add(5*time.Second))
	s.Handle(-100, 3, t0.Add(time.Second))
	s.Handle(-100, 4, t0)
	assert.Equal(t, []int64{3, 4}, s.Pending(-100))
	require.Len(t, f.rec.Of("getSupergroupFullInfo"), 1, "one request per chat")

	f.rec.Of("getSupergroupFullInfo")[0].Reply(&tl.SupergroupFullInfo{})
	f.m.RunPending()
	assert.Equal(t, t0.Add(5*time.Second), f.store.GroupCall(7).Participant(3).Spoke.Voice)
}

func TestSpeakingRequestFailureAllowsRetry(t *testing.T) {
	f := newSpeakingFixture(t)
	s := f.u.Speaking()
	s.Handle(-100, 3, t0)
	f.rec.Last().Fail(&tl.Error{Code: 500, Message: "INTERNAL"})
	s.Handle(-100, 4, t0)
	assert.Len(t, f.rec.Of("getSupergroupFullInfo"), 2)
	assert.Equal(t, []int64{3, 4}, s.Pending(-100))
}

func TestSpeakingUnknownPeer(t *testing.T) {
	f := newSpeakingFixture(t)
	f.u.Apply(&tl.UpdateSupergroupFullInfo{SupergroupID: 100})
	f.m.RunPending()
	call := f.store.GroupCall(7)
	require.NotNil(t, call)

	f.u.Speaking().Handle(-100, 9, t0)
	f.u.Speaking().Handle(-100, -200, t0)
	assert.Equal(t, []int64{-200, 9}, call.UnknownSpoken())
	require.Len(t, f.rec.Of("getUser"), 1)
	assert.Equal(t, int64(9), f.rec.Of("getUser")[0].Fn.(*tl.GetUser).UserID)
	require.Len(t, f.rec.Of("getChat"), 1)
	assert.Equal(t, int64(-200), f.rec.Of("getChat")[0].Fn.(*tl.GetChat).ChatID)
	assert.Empty(t, call.Participants())

	f.u.Apply(&tl.UpdateUser{User: tl.User{ID: 9}})
	p := call.Participant(9)
	require.NotNil(t, p)
	assert.True(t, p.Ephemeral)
	assert.Equal(t, []int64{-200}, call.UnknownSpoken())
}

func TestSpeakingUnknownPeerRequestedOnce(t *testing.T) {
	f := newSpeakingFixture(t)
	f.u.Apply(&tl.UpdateSupergroupFullInfo{SupergroupID: 100})
	f.m.RunPending()
	require.NotNil(t, f.store.GroupCall(7))

	s := f.u.Speaking()
	for i := 0; i < 20; i++ {
		s.Handle(-100, 77, t0.Add(time.Duration(i)*time.Second))
	}
	require.Len(t, f.rec.Of("getUser"), 1)

	// a failed load lets the next signal ask again
	f.rec.Of("getUser")[0].Fail(&tl.Error{Code: 500, Message: "INTERNAL"})
	s.Handle(-100, 77, t0.Add(time.Minute))
	s.Handle(-100, 77, t0.Add(time.Minute))
	require.Len(t, f.rec.Of("getUser"), 2)

	f.rec.Of("getUser")[1].Reply(&tl.User{ID: 77})
	f.u.Apply(&tl.UpdateUser{User: tl.User{ID: 77}})
	f.m.RunPending()
	require.NotNil(t, f.store.GroupCall(7).Participant(77))
	s.Handle(-100, 77, t0.Add(2*time.Minute))
	assert.Len(t, f.rec.Of("getUser"), 2)
}

func TestSpeakingWithoutCall(t *testing.T) {
	f := newFixture(t)
	f.u.Apply(&tl.UpdateSupergroup{Supergroup: tl.Supergroup{ID: 100}})
	f.u.Apply(&tl.UpdateNewChat{Chat: *supergroupChat(-100, 100, 0)})
	f.u.Apply(&tl.UpdateNewChat{Chat: tl.Chat{ID: 3, Type: tl.ChatType{Type: tl.ChatTypePrivate, UserID: 3}}})

	s := f.u.Speaking()
	s.Handle(-100, 3, t0)
	s.Handle(3, 3, t0)
	s.Handle(-999, 3, t0)
	assert.Empty(t, s.Pending(-100))
	assert.Empty(t, f.rec.Calls)
}

func TestSpeakingClear(t *testing.T) {
	f := newSpeakingFixture(t)
	s := f.u.Speaking()
	s.Handle(-100, 3, t0)
	s.Clear()
	assert.Empty(t, s.Pending(-100))

	s.Handle(-100, 3, t0)
	assert.Len(t, f.rec.Of("getSupergroupFullInfo"), 2, "clear forgets requests in flight")
}
