// Command swimnode is a reference driver that wires the gossip.Engine
// core to the grpc transport, the YAML codec, the dedup suppressor, the
// pebble-backed store, and an armon/go-metrics sink. It is explicitly
// outside the core's scope (spec §1): it exists only to exercise the
// domain stack end to end.
package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/flowmesh/swim/codec"
	"github.com/flowmesh/swim/gossip"
	"github.com/flowmesh/swim/internal/address"
	"github.com/flowmesh/swim/internal/node"
	"github.com/flowmesh/swim/metrics"
	"github.com/flowmesh/swim/store"
	"github.com/flowmesh/swim/transport/dedup"
	swimgrpc "github.com/flowmesh/swim/transport/grpc"
)

func main() {
	args := parseCliArgs()

	logger := newLogger(args.verbose)
	defer logger.Sync()

	tickPeriod, err := time.ParseDuration(args.tickPeriod)
	if err != nil {
		logger.Fatal("invalid tick-period", zap.Error(err))
	}

	snapStore, err := openStore(args.dataDir)
	if err != nil {
		logger.Fatal("failed to open snapshot store", zap.Error(err))
	}
	defer snapStore.Close()

	metricsSink, err := metrics.NewArmon("swimnode")
	if err != nil {
		logger.Fatal("failed to start metrics sink", zap.Error(err))
	}

	self, err := selfView(snapStore, args, logger)
	if err != nil {
		logger.Fatal("failed to establish local view", zap.Error(err))
	}

	transport := swimgrpc.New(codec.YAML{}, logger, grpc.WithTransportCredentials(insecure.NewCredentials()))
	defer transport.Close()

	suppressor, err := dedup.New(4096)
	if err != nil {
		logger.Fatal("failed to start dedup suppressor", zap.Error(err))
	}

	engine, err := gossip.New(self, gossip.Config{
		Send:    transport.Send,
		Event:   logEvent(logger),
		Logger:  logger,
		Metrics: metricsSink,
	})
	if err != nil {
		logger.Fatal("failed to construct gossip engine", zap.Error(err))
	}

	// The engine and the suppressor run only on the loop below; grpc
	// handler goroutines hand messages over here, dropping them when full.
	type inbound struct {
		msg      gossip.Message
		recvTime time.Time
	}
	inbox := make(chan inbound, 1024)
	transport.Handle(func(msg gossip.Message, recvTime time.Time) {
		select {
		case inbox <- inbound{msg: msg, recvTime: recvTime}:
		default:
		}
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	serveErr := make(chan error, 1)
	go func() { serveErr <- transport.Serve(ctx, address.Address(args.bindAddr)) }()

	if args.joinAddr != "" {
		// The remote's real ID is unknown here; this stub entry carries
		// only the address so the meet message has somewhere to go, and
		// it is stored under the zero ID. HandleMessage drops messages
		// from a sender that is not in the table, so the remote's pong
		// does not admit it, and nothing replaces the stub with the
		// remote's real view. The remote admits this node from the meet.
		engine.Meet(node.View{Address: address.Address(args.joinAddr)})
	}

	ticker := time.NewTicker(tickPeriod)
	defer ticker.Stop()

	flushTicker := time.NewTicker(30 * time.Second)
	defer flushTicker.Stop()

	logger.Info("swimnode started",
		zap.Stringer("id", self.ID),
		zap.String("bind_addr", args.bindAddr),
		zap.String("public_addr", args.publicAddr),
	)

runLoop:
	for {
		select {
		case in := <-inbox:
			if !suppressor.Seen(in.msg) {
				engine.HandleMessage(in.msg, in.recvTime)
			}
		case <-ticker.C:
			engine.Tick()
		case <-flushTicker.C:
			if err := snapStore.Save(store.Snapshot{
				Self:    engine.Self(),
				Peers:   engine.GetNodes(),
				SavedAt: time.Now(),
			}); err != nil {
				logger.Warn("failed to flush membership snapshot", zap.Error(err))
			}
		case <-ctx.Done():
			break runLoop
		}
	}

	logger.Info("shutting down", zap.Int("known_peers", engine.Size()))
	if err := <-serveErr; err != nil {
		logger.Warn("grpc server exited with error", zap.Error(err))
	}
}

// selfView reconstructs the local node's identity from the last saved
// snapshot if one exists, or mints a fresh random ID otherwise. A
// restarted process keeps its ID and carries its config epoch forward
// bumped by one, so its new view wins CanReplace comparisons against
// the views peers still hold from before the restart.
func selfView(s *store.Store, args cliArgs, logger *zap.Logger) (node.View, error) {
	if snap, err := s.Load(); err == nil {
		logger.Info("restored self view from snapshot", zap.Stringer("id", snap.Self.ID))
		v := snap.Self
		v.Address = address.Address(args.publicAddr)
		v.ConfigEpoch++
		v.Role = args.role
		v.Region = args.region
		return v, nil
	}

	id, err := node.NewID()
	if err != nil {
		return node.View{}, err
	}
	return node.View{
		ID:          id,
		Address:     address.Address(args.publicAddr),
		Role:        args.role,
		Region:      args.region,
		ConfigEpoch: 1,
	}, nil
}

func openStore(dir string) (*store.Store, error) {
	if dir == "" {
		return store.OpenMem()
	}
	return store.Open(dir)
}

func logEvent(logger *zap.Logger) gossip.EventFunc {
	return func(v node.View, previous node.Status) {
		logger.Info("membership transition",
			zap.Stringer("id", v.ID),
			zap.Stringer("from", previous),
			zap.Stringer("to", v.Status),
			zap.String("address", v.Address.String()),
		)
	}
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
