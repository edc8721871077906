package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/opengds/terminal-server-go/internal/repository"
	"github.com/opengds/terminal-server-go/internal/workspace"
)

// SessionLockReleaser drops per-session engine state once a session dies.
type SessionLockReleaser interface {
	ReleaseSession(tokenHash string)
}

// CleanupJob sweeps workspaces whose redis session has expired and
// discards them so their inventory holds return to the pool.
type CleanupJob struct {
	workspaces  *workspace.Manager
	coordinator *workspace.Coordinator
	sessionRepo repository.SessionRepository
	locks       SessionLockReleaser
	interval    time.Duration
	done        chan struct{}
}

func NewCleanupJob(
	workspaces *workspace.Manager,
	coordinator *workspace.Coordinator,
	sessionRepo repository.SessionRepository,
	locks SessionLockReleaser,
	interval time.Duration,
) *CleanupJob {
	return &CleanupJob{
		workspaces:  workspaces,
		coordinator: coordinator,
		sessionRepo: sessionRepo,
		locks:       locks,
		interval:    interval,
		done:        make(chan struct{}),
	}
}

func (j *CleanupJob) Start() {
	go j.run()
	log.Info().Dur("interval", j.interval).Msg("cleanup job started")
}

func (j *CleanupJob) Stop() {
	close(j.done)
	log.Info().Msg("cleanup job stopped")
}

func (j *CleanupJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.cleanup()

	for {
		select {
		case <-j.done:
			return
		case <-ticker.C:
			j.cleanup()
		}
	}
}

func (j *CleanupJob) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), j.interval)
	defer cancel()

	swept := 0
	for _, ws := range j.workspaces.All() {
		alive, err := j.sessionRepo.Exists(ctx, ws.TokenHash)
		if err != nil {
			log.Error().Err(err).Msg("cleanup: session check failed")
			continue
		}
		if alive {
			continue
		}

		j.coordinator.Discard(ctx, ws)
		if j.locks != nil {
			j.locks.ReleaseSession(ws.TokenHash)
		}
		swept++
	}

	if swept > 0 {
		log.Info().Int("workspaces", swept).Msg("cleanup: expired workspaces discarded")
	}
}
