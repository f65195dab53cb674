// Package session wires the sync core of one logged-in session: the event
// loop, the rpc client, the entity store, the dispatcher and the feature
// mergers. Nothing here is global; every session owns its components.
package session

import (
	"context"
	"sync"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/mqy/minisync/api"
	"github.com/mqy/minisync/auth"
	"github.com/mqy/minisync/data"
	"github.com/mqy/minisync/event"
	"github.com/mqy/minisync/kv"
	"github.com/mqy/minisync/loop"
	"github.com/mqy/minisync/rpc"
	"github.com/mqy/minisync/source"
	"github.com/mqy/minisync/tl"
	"github.com/mqy/minisync/updates"
)

type Deps struct {
	// ID names the session in logs and transport metadata. Empty means a
	// fresh one.
	ID   string
	Conn rpc.IConn
	KV   kv.IStore

	Liveness updates.LivenessConfig

	// Source optionally replays recorded pushes next to the live ones.
	Source       source.IKafkaReader
	SourceConfig source.Config
}

type Session struct {
	ID string

	loop     *loop.Loop
	client   *rpc.Client
	sender   *rpc.Scoped
	kv       kv.IStore
	store    *data.Store
	activity *Activity
	updates  *updates.Updates
	source   *source.Kafka

	ChatLinks     *api.ChatLinks
	CloudPassword *api.CloudPassword
	Usernames     *api.Usernames
	Factchecks    *api.Factchecks
	Shortcuts     *api.Shortcuts
	Boosts        *api.Boosts
	Credits       *api.Credits
	Drafts        *api.Drafts
	Options       *api.Options
	Calls         *api.Calls

	lifetime  event.Lifetime
	runOnce   sync.Once
	destroyed chan struct{}
}

func New(d Deps) *Session {
	if d.ID == "" {
		d.ID = auth.NewSessionID()
	}
	if d.Liveness == (updates.LivenessConfig{}) {
		d.Liveness = updates.DefaultLivenessConfig()
	}

	s := &Session{
		ID:        d.ID,
		loop:      loop.New(),
		kv:        d.KV,
		destroyed: make(chan struct{}),
	}
	s.client = rpc.NewClient(d.Conn, s.loop, func(up tl.Update) { s.updates.Apply(up) })
	s.sender = rpc.NewScoped(s.client)
	s.store = data.NewStore(s.loop)
	s.activity = NewActivity(s.loop)

	s.ChatLinks = api.NewChatLinks(s.sender)
	s.CloudPassword = api.NewCloudPassword(s.sender)
	s.Usernames = api.NewUsernames(s.sender, s.store)
	s.Factchecks = api.NewFactchecks(s.sender, s.store)
	s.Shortcuts = api.NewShortcuts(s.sender)
	s.Boosts = api.NewBoosts(s.sender, s.store)
	s.Credits = api.NewCredits(s.sender)
	s.Drafts = api.NewDrafts(s.sender, s.store, d.KV)
	s.Options = api.NewOptions(d.KV)
	s.Calls = api.NewCalls()

	s.updates = updates.New(updates.Deps{
		Sched:      s.loop,
		Store:      s.store,
		Sender:     s.sender,
		Activity:   s.activity,
		Liveness:   d.Liveness,
		Options:    []updates.IOptionSink{s.Factchecks, s.Options},
		Shortcuts:  s.Shortcuts,
		Factchecks: s.Factchecks,
		Calls:      s.Calls,
	})
	if d.Source != nil {
		s.source = source.New(d.Source, s.loop, s.updates.Apply, d.SourceConfig)
	}

	s.lifetime.Add(s.sender.Destroy)
	s.lifetime.Add(s.updates.Destroy)
	s.lifetime.Add(s.updates.Liveness().OnWentOffline(s.Drafts.SaveCurrentToCloud))
	s.lifetime.Add(s.updates.AuthorizationState().Changes(func(state string) {
		switch state {
		case tl.AuthorizationStateReady:
			s.preload()
		case tl.AuthorizationStateLoggingOut, tl.AuthorizationStateClosed:
			s.Calls.Clear()
		}
	}))
	return s
}

func (s *Session) Store() *data.Store { return s.store }

func (s *Session) Updates() *updates.Updates { return s.updates }

func (s *Session) Activity() *Activity { return s.activity }

// Run drives the session until ctx is done or the connection fails. The
// session is destroyed when Run returns. Run may be called only once.
func (s *Session) Run(ctx context.Context) error {
	err := errors.New("session: already run")
	s.runOnce.Do(func() { err = s.run(ctx) })
	return err
}

func (s *Session) run(ctx context.Context) error {
	glog.Infof("session %s: start", s.ID)
	defer glog.Infof("session %s: stopped", s.ID)

	loopCtx, stopLoop := context.WithCancel(context.Background())
	loopDone := make(chan struct{})
	go func() {
		s.loop.Run(loopCtx)
		close(loopDone)
	}()
	defer func() {
		stopLoop()
		<-loopDone
	}()

	var startErr error
	if err := loop.Call(ctx, s.loop, func() { startErr = s.start(ctx) }); err != nil {
		s.destroy()
		return err
	}
	if startErr != nil {
		s.destroy()
		return startErr
	}

	runCtx, cancel := context.WithCancel(ctx)
	var srcDone chan struct{}
	if s.source != nil {
		srcDone = make(chan struct{}, 1)
		go s.source.Run(runCtx, srcDone)
	}

	err := s.client.Run(runCtx)
	cancel()
	if srcDone != nil {
		<-srcDone
	}
	s.destroy()
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// start restores the persisted state. It runs on the loop.
func (s *Session) start(ctx context.Context) error {
	if err := s.Options.Load(ctx, s.updates.Liveness(), s.Factchecks); err != nil {
		return errors.Wrap(err, "loading options")
	}
	if err := s.Drafts.Load(ctx); err != nil {
		return errors.Wrap(err, "loading drafts")
	}
	glog.Infof("session %s: restored %d unsent drafts", s.ID, s.Drafts.Dirty())
	return nil
}

func (s *Session) preload() {
	glog.V(3).Infof("session %s: preload", s.ID)
	s.Shortcuts.Preload()
	s.ChatLinks.Preload()
	s.CloudPassword.Reload()
	s.Drafts.SaveCurrentToCloud()
}

// destroy cancels every outstanding request and closes the storage. It
// runs once, on the loop when the loop is still alive.
func (s *Session) destroy() {
	select {
	case <-s.destroyed:
		return
	default:
	}
	close(s.destroyed)
	done := make(chan struct{})
	s.loop.Post(func() {
		s.lifetime.Destroy()
		close(done)
	})
	<-done
	if s.kv != nil {
		if err := s.kv.Close(); err != nil {
			glog.Errorf("session %s: close kv: %v", s.ID, err)
		}
	}
}

// Quit reports the session offline before shutdown. It returns once the
// server confirmed it, at once when the session was not online, or when ctx
// ends first.
func (s *Session) Quit(ctx context.Context) error {
	confirmed := make(chan struct{})
	var once sync.Once
	done := func() { once.Do(func() { close(confirmed) }) }
	if err := loop.Call(ctx, s.loop, func() {
		if !s.updates.Liveness().IsQuitPrevent(done) {
			done()
		}
	}); err != nil {
		return err
	}
	select {
	case <-confirmed:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do runs fn on the event loop of the session and waits for it. It counts as
// local activity.
func (s *Session) Do(ctx context.Context, fn func()) error {
	return loop.Call(ctx, s.loop, func() {
		s.activity.Touch()
		fn()
	})
}

// Done is closed once the session is destroyed.
func (s *Session) Done() <-chan struct{} { return s.destroyed }
