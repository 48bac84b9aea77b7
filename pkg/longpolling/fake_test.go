package longpolling

import (
	"net/http"
	"sync"
	"sync/atomic"

	log "github.com/Goden-Gun/longpoll-lib/pkg/logger"
	"github.com/Goden-Gun/longpoll-lib/pkg/transport"
)

// fakeConn is a minimal logical connection for transport tests. State is a
// real CAS so the race-sensitive tests exercise the same transitions a
// production connection would.
type fakeConn struct {
	state atomic.Int32

	endpoint string
	token    string

	lastActive bool // VerifyLastActive result

	mu           sync.Mutex
	events       []string // ordered: "reconnected", "message:<body>", "error"
	errs         []error
	messages     []string
	reconnects   int
	disconnects  int
	lastMarked   int
	messageID    string
	groupsToken  string
	preparedReqs int
}

func newFakeConn(endpoint string) *fakeConn {
	c := &fakeConn{endpoint: endpoint, token: "tok-1", lastActive: true}
	c.state.Store(int32(transport.StateConnected))
	return c
}

func (c *fakeConn) State() transport.State {
	return transport.State(c.state.Load())
}

func (c *fakeConn) setState(s transport.State) {
	c.state.Store(int32(s))
}

func (c *fakeConn) ChangeState(from, to transport.State) bool {
	return c.state.CompareAndSwap(int32(from), int32(to))
}

func (c *fakeConn) Disconnect() {
	c.setState(transport.StateDisconnected)
	c.mu.Lock()
	c.disconnects++
	c.mu.Unlock()
}

func (c *fakeConn) OnMessage(data []byte) {
	c.mu.Lock()
	c.messages = append(c.messages, string(data))
	c.events = append(c.events, "message:"+string(data))
	c.mu.Unlock()
}

func (c *fakeConn) OnReconnected() {
	c.mu.Lock()
	c.reconnects++
	c.events = append(c.events, "reconnected")
	c.mu.Unlock()
}

func (c *fakeConn) OnError(err error) {
	c.mu.Lock()
	c.errs = append(c.errs, err)
	c.events = append(c.events, "error")
	c.mu.Unlock()
}

func (c *fakeConn) PrepareRequest(*http.Request) {
	c.mu.Lock()
	c.preparedReqs++
	c.mu.Unlock()
}

func (c *fakeConn) Trace(log.Level, string, ...any) {}

func (c *fakeConn) MarkLastMessage() {
	c.mu.Lock()
	c.lastMarked++
	c.mu.Unlock()
}

func (c *fakeConn) VerifyLastActive() bool { return c.lastActive }

func (c *fakeConn) Endpoint() string        { return c.endpoint }
func (c *fakeConn) ConnectionToken() string { return c.token }
func (c *fakeConn) Protocol() string        { return "1.5" }

func (c *fakeConn) MessageID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.messageID
}

func (c *fakeConn) SetMessageID(id string) {
	c.mu.Lock()
	c.messageID = id
	c.mu.Unlock()
}

func (c *fakeConn) GroupsToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.groupsToken
}

func (c *fakeConn) SetGroupsToken(tok string) {
	c.mu.Lock()
	c.groupsToken = tok
	c.mu.Unlock()
}

func (c *fakeConn) snapshotEvents() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.events))
	copy(out, c.events)
	return out
}

func (c *fakeConn) reconnectCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reconnects
}

func (c *fakeConn) errorCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.errs)
}

// fakeInit records initialization signals and runs registered failure hooks.
type fakeInit struct {
	mu       sync.Mutex
	received int
	failed   []error
	hooks    []func()
}

func (f *fakeInit) Received() {
	f.mu.Lock()
	f.received++
	f.mu.Unlock()
}

func (f *fakeInit) Failed(err error) {
	f.mu.Lock()
	f.failed = append(f.failed, err)
	hooks := f.hooks
	f.mu.Unlock()
	for _, h := range hooks {
		h()
	}
}

func (f *fakeInit) OnFailure(fn func()) {
	f.mu.Lock()
	f.hooks = append(f.hooks, fn)
	f.mu.Unlock()
}

func (f *fakeInit) receivedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.received
}

func (f *fakeInit) failedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.failed)
}
