package workers

import (
	"channel-gate/contract"
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

// HealthStats is one sample of the gate activity and of the process footprint.
type HealthStats struct {
	ActiveChannels int
	Sessions       int
	RamBytes       uint64
	CpuPercent     float64
	PidStatus      string
}

// HealthWorker logs the number of broadcasting channels, tracked sessions and
// the process usage every interval.
type HealthWorker struct {
	log       *slog.Logger
	scheduler contract.IScheduler
	directory contract.IIdentityDirectory
	interval  time.Duration
}

func NewHealthWorker(log *slog.Logger, scheduler contract.IScheduler, directory contract.IIdentityDirectory, interval time.Duration) *HealthWorker {
	return &HealthWorker{log: log, scheduler: scheduler, directory: directory, interval: interval}
}

func (w *HealthWorker) Run(ctx context.Context) error {
	if w.interval <= 0 {
		w.log.Debug("Health reporting disabled")
		return nil
	}
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			stats := w.Collect(p)
			w.log.Info("Gate health",
				"active_channels", stats.ActiveChannels,
				"sessions", stats.Sessions,
				"ram_bytes", stats.RamBytes,
				"cpu_percent", stats.CpuPercent,
				"status", stats.PidStatus,
			)
		}
	}
}

// Collect samples the gate. Process metrics are left at zero when p is nil or unreadable.
func (w *HealthWorker) Collect(p *process.Process) HealthStats {
	stats := HealthStats{ActiveChannels: len(w.scheduler.Active())}

	identities, err := w.directory.List()
	if err != nil {
		w.log.Warn("Failed to count sessions", "error", err)
	} else {
		stats.Sessions = len(identities)
	}

	if p == nil {
		return stats
	}
	if memInfo, err := p.MemoryInfo(); err == nil {
		stats.RamBytes = memInfo.RSS
	}
	if cpu, err := p.CPUPercent(); err == nil {
		stats.CpuPercent = cpu
	}
	if status, err := p.Status(); err == nil {
		stats.PidStatus = status
	}
	return stats
}
