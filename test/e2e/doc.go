/*
Package main provides end-to-end tests for the workpool binary.

# Package Structure

	test/e2e/
	├── main.go          Entry point: flags, config, InfraManager setup, Ginkgo runner
	├── tests.go         Ginkgo test specs (serving, history, metrics, max connections)
	├── doc.go           This file
	├── infra/           Workpool lifecycle
	│   ├── infra.go     InfraManager interface + WorkpoolConfig
	│   ├── process.go   ProcessInfraManager (runs the binary as a child process)
	│   └── external.go  ExternalInfraManager (no-op, externally managed)
	└── service/
	    └── service.go   WorkpoolSvc: HTTP client for the workpool server

# InfraManager

InfraManager is the central abstraction for the server lifecycle:

	type InfraManager interface {
	    StartWorkpool(cfg) (address, error)
	    StopWorkpool()                      SIGTERM, then wait for the drain
	    WaitWorkpool(timeout)               wait for a self-initiated exit
	}

Two implementations:
  - ProcessInfraManager: starts `workpool serve` and polls the address until
    it accepts connections (default).
  - ExternalInfraManager: no-op; the server is started by the caller.

Selected via the -infra-mode flag ("process" or "external"). Specs that need
the process to exit on its own are skipped in external mode.

Note that the readiness probe opens a connection, so it counts towards
--max-connections.

# Running

	go build -o bin/workpool ./cmd/workpool
	go run ./test/e2e -binary bin/workpool -statics-folder .
*/
package main
