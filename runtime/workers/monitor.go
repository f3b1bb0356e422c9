package workers

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/process"
)

// MonitorWorker periodically logs process-level health: resident
// memory, CPU share and the number of active rooms. It is supervised
// like any other worker but is purely observational.
type MonitorWorker struct {
	log         *slog.Logger
	interval    time.Duration
	activeRooms func() int
}

func NewMonitorWorker(log *slog.Logger, interval time.Duration, activeRooms func() int) *MonitorWorker {
	return &MonitorWorker{log: log, interval: interval, activeRooms: activeRooms}
}

func (w *MonitorWorker) Run(ctx context.Context) error {
	proc, err := process.NewProcess(int32(os.Getpid()))
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
			w.report(proc)
		}
	}
}

func (w *MonitorWorker) report(proc *process.Process) {
	attrs := []any{
		"goroutines", runtime.NumGoroutine(),
		"rooms", w.activeRooms(),
	}

	if mem, err := proc.MemoryInfo(); err == nil {
		attrs = append(attrs, "rss_mb", mem.RSS/(1024*1024))
	} else {
		w.log.Warn("Memory stats unavailable", "error", err)
	}

	if cpu, err := proc.CPUPercent(); err == nil {
		attrs = append(attrs, "cpu_percent", cpu)
	}

	w.log.Info("Process stats", attrs...)
}
