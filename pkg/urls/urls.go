// Package urls builds the endpoint URLs of the polling protocol. All builders
// are pure string construction; the transport decides which one to use per
// request.
package urls

import (
	"net/url"
	"strings"
)

// Builder constructs negotiate/connect/poll/reconnect/abort URLs for one
// endpoint.
type Builder struct {
	endpoint       string
	protocol       string
	connectionData string
}

// New returns a builder for the given base endpoint. protocol is the client
// protocol version sent on every request; connectionData is the opaque
// connection-specific payload (may be empty).
func New(endpoint, protocol, connectionData string) *Builder {
	return &Builder{
		endpoint:       strings.TrimRight(endpoint, "/"),
		protocol:       protocol,
		connectionData: connectionData,
	}
}

// Negotiate returns the negotiate URL.
func (b *Builder) Negotiate() string {
	return b.build("negotiate", url.Values{})
}

// Connect returns the initial connect URL for the named transport.
func (b *Builder) Connect(transport, connectionToken string) string {
	v := url.Values{}
	v.Set("transport", transport)
	v.Set("connectionToken", connectionToken)
	return b.build("connect", v)
}

// Poll returns the poll URL. messageID resumes the stream after the last
// delivered message.
func (b *Builder) Poll(transport, connectionToken, messageID string) string {
	v := url.Values{}
	v.Set("transport", transport)
	v.Set("connectionToken", connectionToken)
	if messageID != "" {
		v.Set("messageId", messageID)
	}
	return b.build("poll", v)
}

// Reconnect returns the reconnect URL. The groups token restores group
// membership lost with the previous poll stream.
func (b *Builder) Reconnect(transport, connectionToken, messageID, groupsToken string) string {
	v := url.Values{}
	v.Set("transport", transport)
	v.Set("connectionToken", connectionToken)
	if messageID != "" {
		v.Set("messageId", messageID)
	}
	if groupsToken != "" {
		v.Set("groupsToken", groupsToken)
	}
	return b.build("reconnect", v)
}

// Abort returns the abort URL.
func (b *Builder) Abort(transport, connectionToken string) string {
	v := url.Values{}
	v.Set("transport", transport)
	v.Set("connectionToken", connectionToken)
	return b.build("abort", v)
}

func (b *Builder) build(path string, v url.Values) string {
	v.Set("clientProtocol", b.protocol)
	if b.connectionData != "" {
		v.Set("connectionData", b.connectionData)
	}
	return b.endpoint + "/" + path + "?" + v.Encode()
}
