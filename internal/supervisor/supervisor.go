// Package supervisor owns the worker pool's lifecycle: spawning worker
// subprocesses, persisting their identities to the store's registry,
// forwarding graceful shutdown, reaping exited children, and reporting
// status.
package supervisor

import (
	"context"
	"os"
	"os/exec"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/queuectl/queuectl/internal/model"
	"github.com/queuectl/queuectl/internal/store"
)

// WorkerRunSubcommand is the hidden cobra subcommand the Supervisor re-execs
// its own binary into for each pool slot. It is not advertised in --help.
const WorkerRunSubcommand = "__worker-run"

// GracePeriod is how long stop() waits for workers to exit on their own
// before force-killing stragglers.
const GracePeriod = 30 * time.Second

// Supervisor manages a pool of worker OS processes against a single Store.
type Supervisor struct {
	Store   *store.Store
	DBPath  string
	Binary  string // path to this binary, for re-exec; defaults to os.Executable()
	log     zerolog.Logger
}

func New(st *store.Store, dbPath string, log zerolog.Logger) (*Supervisor, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, errors.Wrap(err, "resolve own executable path")
	}
	return &Supervisor{Store: st, DBPath: dbPath, Binary: exe, log: log}, nil
}

// Status is the registry annotated with process liveness.
type Status struct {
	WorkerID  string
	OSPID     int
	StartedAt time.Time
	Alive     bool
}

// Start spawns count independent worker subprocesses. It refuses if the
// registry already has live entries — a pool is already running.
//
// Orphan recovery runs here, once, before any worker is spawned: Start has
// just confirmed no pool is live, so no other process can be mid-claim
// against this database. Running it from Store.Open instead would fire on
// every `--db` open, including a second pool worker booting or an operator
// running `list`/`status` against an already-running pool, resetting a
// live claim out from under its worker.
func (s *Supervisor) Start(ctx context.Context, count int) error {
	statuses, err := s.Status(ctx)
	if err != nil {
		return err
	}
	for _, st := range statuses {
		if st.Alive {
			return errors.New("a worker pool is already running; stop it first")
		}
	}

	if err := s.Store.RecoverOrphans(ctx); err != nil {
		return errors.Wrap(err, "recover orphaned jobs")
	}

	for i := 0; i < count; i++ {
		workerID := uuid.NewString()
		cmd := exec.Command(s.Binary, WorkerRunSubcommand, "--db", s.DBPath, "--worker-id", workerID)
		detachProcess(cmd)

		logFile, err := os.OpenFile("worker.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return errors.Wrap(err, "open worker.log")
		}
		cmd.Stdout = logFile
		cmd.Stderr = logFile

		if err := cmd.Start(); err != nil {
			logFile.Close()
			return errors.Wrapf(err, "spawn worker %s", workerID)
		}
		// The child inherits the fd; the parent's copy can close once the
		// process is launched.
		logFile.Close()

		if err := s.Store.RegisterWorker(ctx, workerID, cmd.Process.Pid); err != nil {
			return errors.Wrapf(err, "register worker %s", workerID)
		}

		// We intentionally do not Wait() here — the Supervisor reaps via
		// liveness checks in Status/Stop, not by blocking on each child,
		// so `worker start` returns immediately.
		go releaseZombie(cmd)

		s.log.Info().Str("worker_id", workerID).Int("pid", cmd.Process.Pid).Msg("spawned worker")
	}

	return nil
}

// Stop signals every live registry entry, waits up to GracePeriod, then
// force-kills stragglers, and clears the registry.
func (s *Supervisor) Stop(ctx context.Context) error {
	records, err := s.Store.ListWorkers(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return errors.New("no worker pool is running")
	}

	var live []model.WorkerRecord
	for _, rec := range records {
		if processAlive(rec.OSPID) {
			_ = signalGraceful(rec.OSPID)
			live = append(live, rec)
		}
	}

	deadline := time.Now().Add(GracePeriod)
	for len(live) > 0 && time.Now().Before(deadline) {
		time.Sleep(200 * time.Millisecond)
		live = filterAlive(live)
	}
	for _, rec := range live {
		s.log.Warn().Str("worker_id", rec.WorkerID).Int("pid", rec.OSPID).Msg("force-killing straggler")
		_ = signalKill(rec.OSPID)
	}

	return s.Store.ClearRegistry(ctx)
}

// Restart is stop() followed by start(count).
func (s *Supervisor) Restart(ctx context.Context, count int) error {
	if err := s.Stop(ctx); err != nil {
		// Nothing running is fine on restart; any other stop failure is not.
		if !isNoPoolError(err) {
			return err
		}
	}
	return s.Start(ctx, count)
}

// Status returns the registry annotated with liveness, garbage-collecting
// entries whose PID is no longer live.
func (s *Supervisor) Status(ctx context.Context) ([]Status, error) {
	records, err := s.Store.ListWorkers(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Status, 0, len(records))
	for _, rec := range records {
		alive := processAlive(rec.OSPID)
		if !alive {
			// In-flight jobs held by this worker are reclaimed by
			// Store.RecoverOrphans when Start next launches a pool, not here.
			if err := s.Store.UnregisterWorker(ctx, rec.WorkerID); err != nil {
				s.log.Warn().Err(err).Str("worker_id", rec.WorkerID).Msg("failed to gc dead registry entry")
			}
			continue
		}
		out = append(out, Status{
			WorkerID:  rec.WorkerID,
			OSPID:     rec.OSPID,
			StartedAt: rec.StartedAt,
			Alive:     true,
		})
	}
	return out, nil
}

func filterAlive(records []model.WorkerRecord) []model.WorkerRecord {
	var out []model.WorkerRecord
	for _, rec := range records {
		if processAlive(rec.OSPID) {
			out = append(out, rec)
		}
	}
	return out
}

func isNoPoolError(err error) bool {
	return err != nil && err.Error() == "no worker pool is running"
}

// releaseZombie waits on a detached child so it doesn't linger as a zombie
// once it exits; the Supervisor doesn't use the wait status for anything.
func releaseZombie(cmd *exec.Cmd) {
	_ = cmd.Wait()
}
