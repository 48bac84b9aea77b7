// Package transport holds the pieces shared by every client transport:
// the connection state model, the Connection and InitHandler contracts, poll
// response processing, and error classification.
//
// Concrete transports (see pkg/longpolling) depend on this package only; the
// logical connection implementation lives in the embedding service.
package transport
