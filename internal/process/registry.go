package process

import (
	"context"
	"os/exec"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nexusforge/agentcore/pkg/models"
)

type record struct {
	mu      sync.Mutex
	proc    models.ManagedProcess
	cmd     *exec.Cmd
	waitErr error
	waited  bool
}

// Registry is the Process Registry: a per-session map from process id
// to managed record. Mutations (start/stop/cleanup) are serialized per
// session via serialQueue; status/list refresh lazily and may be called
// concurrently from stream subscribers.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]map[string]*record
	queue    *serialQueue
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]map[string]*record), queue: newSerialQueue()}
}

func (r *Registry) bucket(sessionID string) map[string]*record {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.sessions[sessionID]
	if !ok {
		b = make(map[string]*record)
		r.sessions[sessionID] = b
	}
	return b
}

// refresh performs the lazy exitCode/finishedAt capture described in
// spec §4.D: if the process is no longer running and no exit code has
// been recorded yet, capture it now.
func refresh(rec *record) models.ManagedProcess {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.proc.Running && rec.cmd.ProcessState != nil {
		rec.finishLocked()
	}
	return rec.proc.Clone()
}

func (rec *record) finishLocked() {
	now := time.Now().UTC()
	rec.proc.FinishedAt = &now
	rec.proc.Running = false
	code := exitCodeOf(rec.waitErr, rec.cmd)
	rec.proc.ExitCode = &code
}

func exitCodeOf(waitErr error, cmd *exec.Cmd) int {
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	if exitErr, ok := waitErr.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}
	return -1
}

func (r *Registry) liveCount(sessionID string) int {
	count := 0
	for _, rec := range r.bucket(sessionID) {
		proc := refresh(rec)
		if proc.Running || proc.ExitCode == nil {
			count++
		}
	}
	return count
}

// Start spawns a new managed process for sessionID, discarding its
// stdout/stderr. Fails with KindProcessLimitReached when the session
// already has maxProcesses live processes.
func (r *Registry) Start(ctx context.Context, sessionID, command string, args []string, cwd string, maxProcesses int) (models.ManagedProcess, error) {
	return submit(r.queue, sessionID, ctx, func(context.Context) (models.ManagedProcess, error) {
		if r.liveCount(sessionID) >= maxProcesses {
			return models.ManagedProcess{}, models.New(models.KindProcessLimitReached, "process limit reached for session")
		}
		cmd := exec.Command(command, args...)
		if cwd != "" {
			cmd.Dir = cwd
		}
		cmd.Stdout = nil
		cmd.Stderr = nil

		if err := cmd.Start(); err != nil {
			return models.ManagedProcess{}, models.Wrap(models.KindLaunchFailed, err, "start process")
		}

		rec := &record{cmd: cmd, proc: models.ManagedProcess{
			ID: uuid.NewString(), SessionID: sessionID, Command: command, Args: args,
			Cwd: cwd, StartedAt: time.Now().UTC(), Running: true,
		}}
		go func() {
			err := cmd.Wait()
			rec.mu.Lock()
			rec.waitErr = err
			rec.waited = true
			if rec.proc.Running {
				rec.finishLocked()
			}
			rec.mu.Unlock()
		}()

		bucket := r.bucket(sessionID)
		r.mu.Lock()
		bucket[rec.proc.ID] = rec
		r.mu.Unlock()
		return rec.proc.Clone(), nil
	})
}

// Status returns the current (lazily refreshed) record for a process.
func (r *Registry) Status(sessionID, processID string) (models.ManagedProcess, error) {
	bucket := r.bucket(sessionID)
	r.mu.RLock()
	rec, ok := bucket[processID]
	r.mu.RUnlock()
	if !ok {
		return models.ManagedProcess{}, models.New(models.KindProcessNotFound, "process not found: "+processID)
	}
	return refresh(rec), nil
}

// List returns a snapshot of every process registered for a session.
func (r *Registry) List(sessionID string) []models.ManagedProcess {
	bucket := r.bucket(sessionID)
	r.mu.RLock()
	recs := make([]*record, 0, len(bucket))
	for _, rec := range bucket {
		recs = append(recs, rec)
	}
	r.mu.RUnlock()

	out := make([]models.ManagedProcess, 0, len(recs))
	for _, rec := range recs {
		out = append(out, refresh(rec))
	}
	return out
}

// Stop terminates a live process and waits for its exit.
func (r *Registry) Stop(ctx context.Context, sessionID, processID string) (models.ManagedProcess, error) {
	return submit(r.queue, sessionID, ctx, func(context.Context) (models.ManagedProcess, error) {
		bucket := r.bucket(sessionID)
		r.mu.RLock()
		rec, ok := bucket[processID]
		r.mu.RUnlock()
		if !ok {
			return models.ManagedProcess{}, models.New(models.KindProcessNotFound, "process not found: "+processID)
		}
		killAndWait(rec)
		return refresh(rec), nil
	})
}

func killAndWait(rec *record) {
	rec.mu.Lock()
	running := rec.proc.Running
	cmd := rec.cmd
	rec.mu.Unlock()
	if !running {
		return
	}
	if cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
	for i := 0; i < 200; i++ {
		rec.mu.Lock()
		waited := rec.waited
		rec.mu.Unlock()
		if waited {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// Cleanup terminates and waits for every live process owned by a
// session, then discards its records.
func (r *Registry) Cleanup(ctx context.Context, sessionID string) error {
	_, err := submit(r.queue, sessionID, ctx, func(context.Context) (any, error) {
		bucket := r.bucket(sessionID)
		r.mu.Lock()
		recs := make([]*record, 0, len(bucket))
		for _, rec := range bucket {
			recs = append(recs, rec)
		}
		delete(r.sessions, sessionID)
		r.mu.Unlock()

		for _, rec := range recs {
			killAndWait(rec)
		}
		return nil, nil
	})
	r.queue.dropLaneIfIdle(sessionID)
	return err
}

// Shutdown cleans up every session's processes.
func (r *Registry) Shutdown(ctx context.Context) error {
	r.mu.RLock()
	sessionIDs := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		sessionIDs = append(sessionIDs, id)
	}
	r.mu.RUnlock()

	var firstErr error
	for _, id := range sessionIDs {
		if err := r.Cleanup(ctx, id); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
