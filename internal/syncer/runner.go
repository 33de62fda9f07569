// Package syncer drains the pending-operation queue against the remote once
// connectivity is confirmed. It is triggered explicitly (reconnect event or
// a manual "sync now"), never by background polling.
package syncer

import (
	"context"
	"fmt"

	"github.com/rapport-app/rapport/internal/logging"
	"github.com/rapport-app/rapport/internal/syncqueue"
)

// Replayer applies one queued mutation for its store against the remote.
// The repositories implement this. The resolved map carries temp-id to
// durable-id mappings established earlier in the same pass.
type Replayer interface {
	StoreName() string
	Replay(ctx context.Context, entry *syncqueue.Entry, resolved map[string]string) error
}

// EntryError records a single queued operation that failed remote replay.
// It is non-fatal to the pass; the entry stays queued for the next run.
type EntryError struct {
	EntryID   int64
	StoreName string
	Operation syncqueue.Operation
	Err       error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("replay %s #%d (%s): %v", e.StoreName, e.EntryID, e.Operation, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }

// Report summarizes one reconciliation pass.
type Report struct {
	Replayed int
	Failed   int
	Failures []*EntryError
}

// Runner replays the queue per entity type, independently and in strict
// enqueue order within each store. A pass is idempotent at queue-entry
// granularity: an entry is acked only after its remote call durably
// succeeded, so re-running after a crash just picks up the leftovers.
type Runner struct {
	queue     *syncqueue.Queue
	replayers []Replayer
	log       logging.Logger
}

// New builds a Runner over the given per-store replayers.
func New(queue *syncqueue.Queue, log logging.Logger, replayers ...Replayer) *Runner {
	return &Runner{queue: queue, replayers: replayers, log: log}
}

// Run performs one reconciliation pass. A failed entry is logged, counted
// and skipped so later entries for unrelated records keep moving; only a
// queue storage failure aborts the pass. After a pass, callers should
// refresh any in-memory views from the local store.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := &Report{}

	for _, rep := range r.replayers {
		name := rep.StoreName()

		entries, err := r.queue.PendingFor(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("reading queue for %s: %w", name, err)
		}
		if len(entries) == 0 {
			continue
		}

		r.log.Info(ctx, "reconciling store", "store", name, "pending", len(entries))

		// Temp ids resolved by creates earlier in this pass, consulted
		// by dependent update/delete entries.
		resolved := make(map[string]string)

		for i := range entries {
			entry := &entries[i]

			if err := rep.Replay(ctx, entry, resolved); err != nil {
				ee := &EntryError{EntryID: entry.ID, StoreName: name, Operation: entry.Operation, Err: err}
				r.log.Error(ctx, "replay failed, entry retained", "store", name, "entry", entry.ID, "op", string(entry.Operation), "err", err)
				report.Failed++
				report.Failures = append(report.Failures, ee)
				continue
			}

			if err := r.queue.Ack(ctx, entry.ID); err != nil {
				// The remote call succeeded but the ack did not; the
				// entry will replay again next pass (at-least-once).
				r.log.Warn(ctx, "ack failed, entry will replay", "store", name, "entry", entry.ID, "err", err)
			}
			report.Replayed++
		}
	}

	r.log.Info(ctx, "reconciliation pass finished", "replayed", report.Replayed, "failed", report.Failed)
	return report, nil
}
