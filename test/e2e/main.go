package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/kubev2v/workpool/test/e2e/infra"
)

type configuration struct {
	InfraMode     string // "process" or "external"
	Binary        string
	Address       string
	StaticsFolder string
	KeepProcess   bool
}

var (
	cfg          configuration
	infraManager infra.InfraManager
)

func (c configuration) Validate() error {
	if c.InfraMode != "process" && c.InfraMode != "external" {
		return fmt.Errorf("invalid infra-mode %q: must be 'process' or 'external'", c.InfraMode)
	}
	if c.InfraMode == "process" && c.Binary == "" {
		return errors.New("workpool binary is empty")
	}
	if _, _, err := net.SplitHostPort(c.Address); err != nil {
		return fmt.Errorf("failed to parse address: %v", err)
	}
	return nil
}

func main() {
	flag.StringVar(&cfg.InfraMode, "infra-mode", "process", "Infrastructure mode: 'process' (run the binary) or 'external' (already running)")
	flag.StringVar(&cfg.Binary, "binary", "bin/workpool", "Path to the workpool binary")
	flag.StringVar(&cfg.Address, "address", "127.0.0.1:17878", "Address the workpool server listens on")
	flag.StringVar(&cfg.StaticsFolder, "statics-folder", ".", "Folder holding hello.html and 404.html")
	flag.BoolVar(&cfg.KeepProcess, "keep-process", false, "Keep the workpool process running after test completion (useful for debugging)")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	zap.ReplaceGlobals(logger)
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("failed to validate configuration: %v", err)
	}

	switch cfg.InfraMode {
	case "process":
		im, err := infra.NewProcessInfraManager(cfg.Binary, cfg.KeepProcess)
		if err != nil {
			log.Fatalf("failed to create process infra manager: %v", err)
		}
		infraManager = im
	case "external":
		infraManager = infra.NewExternalInfraManager(cfg.Address)
	}

	RegisterFailHandler(Fail)
	if !RunSpecs(&testing.T{}, "E2E Suite") {
		os.Exit(1)
	}
}
