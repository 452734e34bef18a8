package hotspot

import (
	"context"
	"time"

	"github.com/colonyops/hotspot/internal/core/doctor"
)

// probeAccession is fetched by the UniProt reachability check (human
// hemoglobin alpha, a small and stable entry).
const probeAccession = "P69905"

// DoctorOptions selects which checks run and whether fixable issues are repaired.
type DoctorOptions struct {
	Autofix bool
	Offline bool
}

// RunChecks executes the health checks and returns their report.
func (a *App) RunChecks(ctx context.Context, configPath string, opts DoctorOptions) doctor.Report {
	checks := []doctor.Check{
		doctor.NewConfigCheck(a.Config, configPath),
		doctor.NewSchemaCheck(a.DB),
		doctor.NewCacheCheck(a.Sequences, a.Canonical, a.Config.Cache.TTL, func(ctx context.Context) (int, error) {
			res, err := a.Prune(ctx, 0)
			return res.Sequences, err
		}, opts.Autofix),
	}
	if !opts.Offline {
		checks = append(checks, doctor.NewUniProtCheck(a.UniProt, probeAccession, 10*time.Second))
	}

	rep := doctor.RunAll(ctx, checks)
	a.log.Debug().Int("warned", rep.Warned).Int("failed", rep.Failed).Msg("doctor finished")
	return rep
}
