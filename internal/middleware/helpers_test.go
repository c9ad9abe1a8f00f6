package middleware

import (
	"sync"
	"time"
)

// fakeInteraction implements Interaction in memory and records every
// response-producing call.
type fakeInteraction struct {
	mu       sync.Mutex
	kind     InteractionKind
	command  string
	deferred bool
	replied  bool
	modal    map[string]string
	opts     map[string]string

	replies   []Response
	followups []Response
	edits     []Response

	replyErr    error
	followUpErr error
}

func (f *fakeInteraction) Kind() InteractionKind { return f.kind }
func (f *fakeInteraction) CommandName() string   { return f.command }

func (f *fakeInteraction) Deferred() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deferred
}

func (f *fakeInteraction) Replied() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.replied
}

func (f *fakeInteraction) Reply(p Response) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.replyErr != nil {
		return f.replyErr
	}
	f.replies = append(f.replies, p)
	f.replied = true
	return nil
}

func (f *fakeInteraction) EditReply(p Response) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, p)
	return nil
}

func (f *fakeInteraction) FollowUp(p Response) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.followUpErr != nil {
		return f.followUpErr
	}
	f.followups = append(f.followups, p)
	return nil
}

func (f *fakeInteraction) TextInput(id string) string { return f.modal[id] }

func (f *fakeInteraction) StringOption(name string) (string, bool) {
	v, ok := f.opts[name]
	return v, ok
}

func (f *fakeInteraction) StringOptions() map[string]string {
	out := make(map[string]string, len(f.opts))
	for k, v := range f.opts {
		out[k] = v
	}
	return out
}

// sent returns every response delivered through any verb.
func (f *fakeInteraction) sent() []Response {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]Response{}, f.replies...)
	out = append(out, f.edits...)
	return append(out, f.followups...)
}

func newTestContext(in *fakeInteraction, userID, guildID string) *InteractionContext {
	c := NewInteractionContext(in, userID, guildID)
	c.StartTime = time.Now()
	return c
}
