package rpc

import (
	"context"

	"github.com/nspcc-dev/neo-sdk-go/pkg/smartcontract"
	"go.uber.org/zap"
)

// SessionIterator is a handle to a server-side iterator session opened
// by invokescript/invokefunction when the node has sessions enabled. It
// carries only the references needed to page through the iterator and
// close it; all state for the iterator itself lives on the node.
type SessionIterator struct {
	client     *Client
	sessionID  string
	iteratorID string
}

// NewSessionIterator builds a SessionIterator for an iterator a prior
// invokescript/invokefunction call returned.
func NewSessionIterator(c *Client, sessionID, iteratorID string) *SessionIterator {
	return &SessionIterator{client: c, sessionID: sessionID, iteratorID: iteratorID}
}

// Next fetches up to n more items via traverseiterator(session, iterator, n).
func (s *SessionIterator) Next(ctx context.Context, n int) ([]smartcontract.Parameter, error) {
	var out []smartcontract.Parameter
	err := s.client.call(ctx, "traverseiterator", []interface{}{s.sessionID, s.iteratorID, n}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Close releases the session via terminatesession(session). Best
// effort: failures are logged at warn level through the client's
// logger, never returned or panicked on, since a session also expires
// server-side on its own.
func (s *SessionIterator) Close(ctx context.Context) error {
	err := s.client.call(ctx, "terminatesession", []interface{}{s.sessionID}, nil)
	if err != nil {
		s.client.log.Warn("failed to terminate iterator session",
			zap.String("session", s.sessionID), zap.Error(err))
	}
	return nil
}
