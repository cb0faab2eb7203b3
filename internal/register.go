package internal

import (
	"k8s.io/klog/v2"

	"github.com/nexboard/nexboard/internal/handler"
)

// registerManagers instantiates every registered manager with the injected
// store services.
func registerManagers(conf *handler.RegisterConfig) []handler.Manager {
	managers := make([]handler.Manager, 0, len(handler.Registers))
	for _, register := range handler.Registers {
		manager := register(conf)
		managers = append(managers, manager)
		klog.Infof("Registered manager: %s", manager.GetName())
	}
	return managers
}
