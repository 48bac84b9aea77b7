// Package longpolling implements the client-side long polling transport:
// negotiate, one initial connect request, then a serialized poll loop that
// recovers from interruptions without the owning connection observing more
// than a transient reconnecting state.
//
// Reconnect recovery is organized in episodes. Each poll cycle opens a fresh
// episode guarded by an Invoker; an inbound message, the delayed reconnect
// timer, a poll error and the disconnect signal all race through that
// Invoker, and exactly one of them decides the episode. Aborting is a
// separate request/acknowledge protocol honored at poll cycle boundaries.
package longpolling
