// Package grpc is the default SEND/EVENT-side transport collaborator:
// it carries gossip.Message over google.golang.org/grpc, using a codec
// to turn each Message into the bytes a wrapperspb.BytesValue envelope
// carries. It is external to the core by construction (spec §1, §6):
// the engine knows nothing about it beyond the SendFunc closure this
// package hands back.
package grpc

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/flowmesh/swim/codec"
	"github.com/flowmesh/swim/gossip"
	"github.com/flowmesh/swim/internal/address"
	"github.com/flowmesh/swim/internal/node"
)

// Transport dials peers over grpc and serves an inbound Exchange
// endpoint that decodes and forwards to whatever Handle was last set
// to. A zero-value Handle drops inbound traffic silently, matching the
// engine's own "no collaborator configured yet" posture during startup.
type Transport struct {
	codec  codec.Codec
	logger *zap.Logger
	pool   *Pool

	dialTimeout time.Duration

	mu     sync.RWMutex
	handle func(msg gossip.Message, recvTime time.Time)

	server *grpc.Server
}

// New constructs a Transport using c to encode and decode messages.
// logger defaults to a no-op logger if nil. dialOpts are passed through
// to every grpc.DialContext call the connection pool makes.
func New(c codec.Codec, logger *zap.Logger, dialOpts ...grpc.DialOption) *Transport {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transport{
		codec:       c,
		logger:      logger,
		pool:        NewPool(dialOpts...),
		dialTimeout: 5 * time.Second,
	}
}

// Handle registers the function invoked for every successfully decoded
// inbound message. It is typically Engine.HandleMessage.
func (t *Transport) Handle(fn func(msg gossip.Message, recvTime time.Time)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handle = fn
}

// Send implements gossip.SendFunc: it encodes msg, dials (or reuses a
// pooled connection to) target's address, and issues an Exchange RPC.
// Per spec §1's callback contract the engine never inspects the result;
// failures are logged and otherwise swallowed here, at the transport
// boundary, rather than surfaced back across the callback.
func (t *Transport) Send(msg gossip.Message, target node.View) {
	if err := t.send(msg, target); err != nil {
		t.logger.Warn("gossip send failed",
			zap.Stringer("target", target.ID),
			zap.String("address", target.Address.String()),
			zap.Error(err),
		)
	}
}

func (t *Transport) send(msg gossip.Message, target node.View) error {
	if err := target.Address.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), t.dialTimeout)
	defer cancel()

	conn, err := t.pool.Acquire(ctx, target.Address)
	if err != nil {
		return err
	}

	payload, err := t.codec.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "encode gossip message")
	}

	out := new(wrapperspb.BytesValue)
	return conn.Invoke(ctx, gossipExchangeFullMethod, &wrapperspb.BytesValue{Value: payload}, out)
}

// Exchange implements gossipServer: it decodes the inbound envelope and
// forwards the result to whatever Handle currently points at. It always
// returns an empty envelope; SWIM replies travel as their own pong
// message on the engine's own schedule, not as the RPC response.
func (t *Transport) Exchange(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	msg, err := t.codec.Unmarshal(in.GetValue())
	if err != nil {
		return nil, errors.Wrap(err, "decode gossip message")
	}

	t.mu.RLock()
	handle := t.handle
	t.mu.RUnlock()
	if handle != nil {
		handle(msg, time.Now())
	}

	return &wrapperspb.BytesValue{}, nil
}

// Serve listens on addr and runs the grpc server until ctx is
// cancelled, at which point it gracefully stops. It blocks until the
// server has fully stopped.
func (t *Transport) Serve(ctx context.Context, addr address.Address) error {
	lis, err := net.Listen("tcp", string(addr))
	if err != nil {
		return errors.Wrapf(err, "listen on %s", addr)
	}

	t.server = grpc.NewServer()
	registerGossipServer(t.server, t)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		t.logger.Info("gossip transport listening", zap.String("address", string(addr)))
		return t.server.Serve(lis)
	})
	group.Go(func() error {
		<-groupCtx.Done()
		t.server.GracefulStop()
		return nil
	})
	return group.Wait()
}

// Close releases every pooled outbound connection. It does not stop a
// server started with Serve; cancel that call's context instead.
func (t *Transport) Close() error {
	return t.pool.Close()
}
