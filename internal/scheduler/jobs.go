package scheduler

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/qubitlab/qubitlab/internal/events"
	"github.com/qubitlab/qubitlab/internal/modules/evolution"
	"github.com/qubitlab/qubitlab/internal/modules/experiments"
)

// SessionSweepJob removes evolution sessions idle past their TTL.
type SessionSweepJob struct {
	Manager *evolution.Manager
	Bus     *events.Bus
	TTL     time.Duration
	Log     zerolog.Logger
}

func (j *SessionSweepJob) Name() string { return "session_sweep" }

func (j *SessionSweepJob) Run() error {
	removed := j.Manager.Sweep(j.TTL)
	if removed > 0 && j.Bus != nil {
		j.Bus.Publish(events.SessionsSwept, "scheduler", map[string]any{"removed": removed})
	}
	return nil
}

// HistoryPruneJob deletes experiment runs older than the retention window.
type HistoryPruneJob struct {
	Repo      *experiments.Repository
	Bus       *events.Bus
	Retention time.Duration
	Log       zerolog.Logger
}

func (j *HistoryPruneJob) Name() string { return "history_prune" }

func (j *HistoryPruneJob) Run() error {
	deleted, err := j.Repo.PruneOlderThan(j.Retention)
	if err != nil {
		return err
	}
	if deleted > 0 {
		j.Log.Info().Int64("deleted", deleted).Msg("Pruned experiment history")
		if j.Bus != nil {
			j.Bus.Publish(events.HistoryPruned, "scheduler", map[string]any{"deleted": deleted})
		}
	}
	return nil
}
