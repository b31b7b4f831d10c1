package infra

import "time"

// ExternalInfraManager implements InfraManager for a workpool server that is
// managed outside the test run. Start returns the configured address as is.
type ExternalInfraManager struct {
	address string
}

// NewExternalInfraManager creates a new ExternalInfraManager.
func NewExternalInfraManager(address string) *ExternalInfraManager {
	return &ExternalInfraManager{address: address}
}

func (e *ExternalInfraManager) StartWorkpool(_ WorkpoolConfig) (string, error) {
	return e.address, nil
}

func (e *ExternalInfraManager) StopWorkpool() error                { return nil }
func (e *ExternalInfraManager) WaitWorkpool(_ time.Duration) error { return nil }
