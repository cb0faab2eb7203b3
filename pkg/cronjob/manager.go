package cronjob

import (
	"context"

	"github.com/robfig/cron/v3"
	"k8s.io/klog/v2"
)

// Manager wraps the cron scheduler for background maintenance jobs.
type Manager struct {
	cron *cron.Cron
}

func NewManager() *Manager {
	return &Manager{cron: cron.New()}
}

// Schedule registers fn under the given cron spec. Job failures are logged,
// not propagated.
func (m *Manager) Schedule(spec, name string, fn func(ctx context.Context) error) (cron.EntryID, error) {
	id, err := m.cron.AddFunc(spec, func() {
		if err := fn(context.Background()); err != nil {
			klog.Errorf("cron job %s failed: %v", name, err)
		}
	})
	if err != nil {
		return -1, err
	}
	klog.Infof("scheduled cron job %s with spec %q", name, spec)
	return id, nil
}

func (m *Manager) Start() {
	m.cron.Start()
}

// Stop halts scheduling and waits for a running job to finish.
func (m *Manager) Stop() {
	<-m.cron.Stop().Done()
}
