package grpc

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/hashicorp/go-multierror"
	"google.golang.org/grpc"

	"github.com/flowmesh/swim/internal/address"
)

// Pool keeps at most one ClientConn per address alive at a time,
// dialing lazily on first use. It mirrors the teacher's own transport
// pool idiom (one long-lived conn per peer, acquired on demand) without
// depending on an unvendored first-party package for it.
type Pool struct {
	opts []grpc.DialOption

	mu    sync.Mutex
	conns map[address.Address]*grpc.ClientConn
}

// NewPool constructs an empty Pool that will dial new connections with
// opts.
func NewPool(opts ...grpc.DialOption) *Pool {
	return &Pool{opts: opts, conns: make(map[address.Address]*grpc.ClientConn)}
}

// Acquire returns the pooled connection for addr, dialing one if none
// exists yet. The returned conn is shared; callers must not close it
// themselves.
func (p *Pool) Acquire(ctx context.Context, addr address.Address) (*grpc.ClientConn, error) {
	p.mu.Lock()
	if conn, ok := p.conns[addr]; ok {
		p.mu.Unlock()
		return conn, nil
	}
	p.mu.Unlock()

	conn, err := grpc.DialContext(ctx, string(addr), p.opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", addr)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if existing, ok := p.conns[addr]; ok {
		_ = conn.Close()
		return existing, nil
	}
	p.conns[addr] = conn
	return conn, nil
}

// Close closes every pooled connection, aggregating any errors.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var result *multierror.Error
	for addr, conn := range p.conns {
		if err := conn.Close(); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "close %s", addr))
		}
		delete(p.conns, addr)
	}
	return result.ErrorOrNil()
}
