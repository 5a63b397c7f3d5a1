package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/concave-dev/floodgate/internal/cluster"
	"github.com/concave-dev/floodgate/internal/store"
	"github.com/concave-dev/floodgate/internal/submit"
	"github.com/concave-dev/floodgate/internal/wire"
	"github.com/go-resty/resty/v2"
)

// ErrNoStorageNodes is returned by ClusterWriter when no alive storage node
// is known.
var ErrNoStorageNodes = errors.New("no storage nodes available")

// StatusError is a non-2xx response from a node.
type StatusError struct {
	Node       string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("node %s answered %d: %s", e.Node, e.StatusCode, e.Message)
}

// Temporary reports whether the node may accept the same write later.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// IsRetryable reports whether a failed write is worth another attempt:
// transport errors and temporary node responses are, client errors are not.
func IsRetryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	return !errors.Is(err, context.Canceled)
}

// StoreWriter writes requests into a local store.
func StoreWriter(s *store.Store) submit.WriteFunc {
	return func(ctx context.Context, req submit.Request) error {
		return s.Put(ctx, req.ID, req.Payload)
	}
}

// NodeWriter writes every request to a single node.
type NodeWriter struct {
	client  *resty.Client
	apiAddr string
}

// NewNodeWriter returns a writer for the node listening on apiAddr.
func NewNodeWriter(client *resty.Client, apiAddr string) *NodeWriter {
	return &NodeWriter{client: client, apiAddr: apiAddr}
}

// Write implements submit.WriteFunc.
func (w *NodeWriter) Write(ctx context.Context, req submit.Request) error {
	return postRecord(ctx, w.client, w.apiAddr, req)
}

// MemberSource lists the storage nodes writes may go to.
type MemberSource interface {
	StorageNodes() []*cluster.Node
}

// ClusterWriter spreads writes round-robin over the storage nodes reported by
// its MemberSource at the time of each write.
type ClusterWriter struct {
	client  *resty.Client
	members MemberSource
	next    atomic.Uint64
}

// NewClusterWriter returns a writer over members.
func NewClusterWriter(client *resty.Client, members MemberSource) *ClusterWriter {
	return &ClusterWriter{client: client, members: members}
}

// Write implements submit.WriteFunc.
func (w *ClusterWriter) Write(ctx context.Context, req submit.Request) error {
	nodes := w.members.StorageNodes()
	if len(nodes) == 0 {
		return ErrNoStorageNodes
	}

	node := nodes[(w.next.Add(1)-1)%uint64(len(nodes))]
	return postRecord(ctx, w.client, node.APIAddr(), req)
}

func postRecord(ctx context.Context, client *resty.Client, apiAddr string, req submit.Request) error {
	var errBody wire.Envelope[any]

	resp, err := client.R().
		SetContext(ctx).
		SetBody(wire.RecordRequest{ID: req.ID, Payload: req.Payload}).
		SetError(&errBody).
		Post(APIBaseURL(apiAddr) + "/records")
	if err != nil {
		return fmt.Errorf("write to %s: %w", apiAddr, err)
	}

	if resp.IsError() {
		msg := errBody.Error
		if msg == "" {
			msg = resp.Status()
		}
		return &StatusError{Node: apiAddr, StatusCode: resp.StatusCode(), Message: msg}
	}

	return nil
}
