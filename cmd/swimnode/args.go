package main

import "flag"

type cliArgs struct {
	bindAddr   string
	publicAddr string
	joinAddr   string
	dataDir    string
	verbose    bool
	role       string
	region     string
	tickPeriod string
}

func parseCliArgs() cliArgs {
	var args cliArgs

	flag.StringVar(&args.bindAddr, "bind-addr", "127.0.0.1:7946", "address to bind the gossip grpc server")
	flag.StringVar(&args.publicAddr, "public-addr", "", "address to advertise to other nodes (defaults to bind-addr)")
	flag.StringVar(&args.joinAddr, "join-addr", "", "address of an existing node to meet on startup")
	flag.StringVar(&args.dataDir, "data-dir", "", "directory for the membership snapshot store (empty for in-memory)")
	flag.StringVar(&args.role, "role", "", "opaque role tag advertised in this node's view")
	flag.StringVar(&args.region, "region", "", "opaque region tag advertised in this node's view")
	flag.StringVar(&args.tickPeriod, "tick-period", "100ms", "interval between gossip ticks")
	flag.BoolVar(&args.verbose, "verbose", false, "verbose logging")

	flag.Parse()

	if args.publicAddr == "" {
		args.publicAddr = args.bindAddr
	}
	return args
}
