package urls

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseQuery(t *testing.T, raw string) (path string, q url.Values) {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u.Path, u.Query()
}

func TestNegotiateURL(t *testing.T) {
	b := New("http://example.test/signalr", "1.5", `[{"Name":"chat"}]`)

	path, q := parseQuery(t, b.Negotiate())
	assert.Equal(t, "/signalr/negotiate", path)
	assert.Equal(t, "1.5", q.Get("clientProtocol"))
	assert.Equal(t, `[{"Name":"chat"}]`, q.Get("connectionData"))
}

func TestConnectionDataOmittedWhenEmpty(t *testing.T) {
	b := New("http://example.test/signalr", "1.5", "")

	_, q := parseQuery(t, b.Negotiate())
	assert.False(t, q.Has("connectionData"))
}

func TestTrailingSlashNormalized(t *testing.T) {
	b := New("http://example.test/signalr///", "1.5", "")

	path, _ := parseQuery(t, b.Negotiate())
	assert.Equal(t, "/signalr/negotiate", path)
}

func TestConnectURL(t *testing.T) {
	b := New("http://example.test/signalr", "1.5", "")

	path, q := parseQuery(t, b.Connect("longPolling", "tok=="))
	assert.Equal(t, "/signalr/connect", path)
	assert.Equal(t, "longPolling", q.Get("transport"))
	assert.Equal(t, "tok==", q.Get("connectionToken"), "token survives URL encoding")
}

func TestPollURLMessageID(t *testing.T) {
	b := New("http://example.test/signalr", "1.5", "")

	_, q := parseQuery(t, b.Poll("longPolling", "tok", "d-42,0|1"))
	assert.Equal(t, "d-42,0|1", q.Get("messageId"))

	_, q = parseQuery(t, b.Poll("longPolling", "tok", ""))
	assert.False(t, q.Has("messageId"), "no resume point on the first poll")
}

func TestReconnectURLGroupsToken(t *testing.T) {
	b := New("http://example.test/signalr", "1.5", "")

	path, q := parseQuery(t, b.Reconnect("longPolling", "tok", "42", "grp=="))
	assert.Equal(t, "/signalr/reconnect", path)
	assert.Equal(t, "42", q.Get("messageId"))
	assert.Equal(t, "grp==", q.Get("groupsToken"))

	_, q = parseQuery(t, b.Reconnect("longPolling", "tok", "", ""))
	assert.False(t, q.Has("messageId"))
	assert.False(t, q.Has("groupsToken"))
}

func TestAbortURL(t *testing.T) {
	b := New("http://example.test/signalr", "1.5", "")

	path, q := parseQuery(t, b.Abort("longPolling", "tok"))
	assert.Equal(t, "/signalr/abort", path)
	assert.Equal(t, "longPolling", q.Get("transport"))
	assert.Equal(t, "1.5", q.Get("clientProtocol"))
}
