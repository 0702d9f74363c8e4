// Package dashboard aggregates the home-screen data: account info, quiz
// statistics and recent schoolwork analyses. The three fetches are
// independent, so they run concurrently and each section degrades to nil on
// its own failure.
package dashboard

import (
	"context"

	"github.com/sourcegraph/conc"

	"github.com/mpetrov/studhelper-go/internal/api"
	"github.com/mpetrov/studhelper-go/internal/logger"
)

// Backend is the subset of the api client the dashboard needs.
type Backend interface {
	MyInfo(ctx context.Context) (api.UserInfo, error)
	RecentScores(ctx context.Context) (api.ScoreStats, error)
	SchoolworkRecents(ctx context.Context) ([]api.SchoolworkAnalysis, error)
}

// Snapshot is one load of the home screen. A nil section means its fetch
// failed; the rest is still usable.
type Snapshot struct {
	User    *api.UserInfo
	Scores  *api.ScoreStats
	Recents []api.SchoolworkAnalysis
	Partial bool
}

// Loader fetches dashboard snapshots.
type Loader struct {
	backend Backend
}

// New creates a Loader.
func New(backend Backend) *Loader {
	return &Loader{backend: backend}
}

// Load fetches all sections concurrently and never fails outright.
func (l *Loader) Load(ctx context.Context) Snapshot {
	var snap Snapshot

	wg := conc.NewWaitGroup()
	wg.Go(func() {
		info, err := l.backend.MyInfo(ctx)
		if err != nil {
			logger.L.Warn("dashboard: account info unavailable", "error", err)
			return
		}
		snap.User = &info
	})
	wg.Go(func() {
		stats, err := l.backend.RecentScores(ctx)
		if err != nil {
			logger.L.Warn("dashboard: score stats unavailable", "error", err)
			return
		}
		snap.Scores = &stats
	})
	wg.Go(func() {
		recents, err := l.backend.SchoolworkRecents(ctx)
		if err != nil {
			logger.L.Warn("dashboard: recent schoolwork unavailable", "error", err)
			return
		}
		snap.Recents = recents
	})
	wg.Wait()

	snap.Partial = snap.User == nil || snap.Scores == nil || snap.Recents == nil
	return snap
}
