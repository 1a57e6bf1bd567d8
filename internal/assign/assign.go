// Package assign wires the weekly secretary assignment pipeline together
// over a store the caller has already connected: optionally clear proposed
// assignments, load data, create admin blocks, build the model, solve,
// post-process, report, and conditionally persist. This is the single entry
// point the CLI calls.
package assign

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/secretary-assign/internal/calendar"
	"github.com/jakechorley/secretary-assign/internal/domain"
	"github.com/jakechorley/secretary-assign/internal/needindex"
	"github.com/jakechorley/secretary-assign/internal/postprocess"
	"github.com/jakechorley/secretary-assign/internal/report"
	"github.com/jakechorley/secretary-assign/internal/solver"
	"github.com/jakechorley/secretary-assign/internal/store"
)

// Sentinel errors for the precondition failures callers may want to
// distinguish with errors.Is. ErrNoEligibleCandidates is never returned by
// this package and is not referenced elsewhere; it names the zero-eligible
// condition that postprocess.Tier reports as TierZeroEligible.
var (
	ErrNotMonday              = errors.New("week start is not a Monday")
	ErrAdminDepartmentMissing = errors.New("Administration department not found")
	ErrNoEligibleCandidates   = errors.New("need has no eligible candidates")
)

// Options carries the CLI flags this run was invoked with.
type Options struct {
	WeekStart                     time.Time
	DryRun                        bool
	ClearProposed                 bool
	Verbose                       bool
	TimeLimitSeconds              int
	IncludeAdminInWorkloadBalance bool
}

// Outcome is everything the caller (CLI or a future reporting surface) needs
// after a run: the solved result with surgery linkage already applied, the
// data it was computed from, and how many rows were persisted.
type Outcome struct {
	Result  *solver.Result
	Written int
	Data    *store.WeekData
}

// AssignWeek runs the full pipeline for one week against st, logging each
// step at Debug the way the original tool's orchestration script did.
func AssignWeek(ctx context.Context, st store.Store, logger *zap.Logger, opts Options) (*Outcome, error) {
	if !calendar.IsMonday(opts.WeekStart) {
		return nil, fmt.Errorf("%w: %s", ErrNotMonday, opts.WeekStart.Format("2006-01-02"))
	}

	logger.Debug("Starting AssignWeek",
		zap.String("week", opts.WeekStart.Format("2006-01-02")),
		zap.Bool("dry_run", opts.DryRun),
		zap.Bool("clear_proposed", opts.ClearProposed))

	if opts.ClearProposed {
		logger.Debug("Clearing previously proposed assignments")
		deleted, err := st.ClearProposedAssignments(ctx, opts.WeekStart)
		if err != nil {
			return nil, fmt.Errorf("failed to clear proposed assignments: %w", err)
		}
		logger.Debug("Cleared proposed assignments", zap.Int("deleted", deleted))
	}

	logger.Debug("Loading week data")
	data, err := st.LoadWeekData(ctx, opts.WeekStart)
	if err != nil {
		return nil, fmt.Errorf("failed to load week data: %w", err)
	}
	logger.Debug("Loaded week data",
		zap.Int("secretaries", len(data.Secretaries)),
		zap.Int("needs", len(data.Needs)),
		zap.Int("eligibility", len(data.Eligibility)),
		zap.Int("availability", len(data.Availability)))

	if data.AdminDepartmentID == 0 {
		return nil, fmt.Errorf("precondition failed: %w", ErrAdminDepartmentMissing)
	}

	logger.Debug("Creating admin blocks for the week")
	adminBlocks, err := st.CreateAdminBlocks(ctx, opts.WeekStart, data.AdminDepartmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to create admin blocks: %w", err)
	}
	logger.Debug("Admin blocks ready", zap.Int("count", len(adminBlocks)))

	appendAdminNeeds(data, adminBlocks)

	availability := buildAvailabilitySlots(data.Availability)
	idx := needindex.Build(data.Needs, data.Eligibility, availability)
	logger.Debug("Indexed needs", zap.Int("total", len(idx.Needs)), zap.Int("admin_offset", idx.AdminOffset))

	cfg := solver.Config{
		IncludeAdminInWorkloadBalance: opts.IncludeAdminInWorkloadBalance,
		TimeLimitSeconds:              opts.TimeLimitSeconds,
	}

	logger.Debug("Building CP-SAT model")
	built, err := solver.Build(data, idx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build model: %w", err)
	}

	logger.Debug("Solving", zap.Int("time_limit_seconds", opts.TimeLimitSeconds))
	result, err := built.Solve(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("solver error: %w", err)
	}
	logger.Debug("Solve complete", zap.String("status", string(result.Status)), zap.Duration("wall_time", result.WallTime))

	postprocess.LinkSurgerySecretaries(result.Assignments, data.DoctorActivities)

	outcome := &Outcome{
		Result: result,
		Data:   data,
	}

	if result.Status != solver.StatusOptimal && result.Status != solver.StatusFeasible {
		logger.Debug("No solution to persist", zap.String("status", string(result.Status)))
		return outcome, nil
	}

	if opts.DryRun {
		logger.Debug("Dry run: not persisting assignments", zap.Int("count", len(result.Assignments)))
		return outcome, nil
	}

	logger.Debug("Writing assignments", zap.Int("count", len(result.Assignments)))
	written, err := st.WriteAssignments(ctx, result.Assignments)
	if err != nil {
		return nil, fmt.Errorf("failed to write assignments: %w", err)
	}
	outcome.Written = written

	return outcome, nil
}

// Report writes the console report (and, if verbose, the diagnostic
// breakdown) for an outcome to w.
func Report(w io.Writer, outcome *Outcome, verbose bool) {
	report.Console(w, outcome.Data, outcome.Result)
	if verbose {
		report.Verbose(w, outcome.Result)
	}
}

// appendAdminNeeds folds the just-created/loaded ADMIN blocks into the
// week's need list as nominal, never-binding needs (§3: "gap large enough
// never to bind"), one per (block, standard role).
func appendAdminNeeds(data *store.WeekData, adminBlocks []domain.WorkBlock) {
	const nominalAdminGap = 1 << 20
	for _, b := range adminBlocks {
		data.Needs = append(data.Needs, domain.Need{
			BlockID:      b.ID,
			Date:         b.Date,
			Period:       b.Period,
			DepartmentID: b.DepartmentID,
			Department:   "Administration",
			BlockType:    domain.BlockAdmin,
			RoleID:       domain.StandardRoleID,
			RoleName:     "Standard",
			Gap:          nominalAdminGap,
			Type:         domain.NeedAdmin,
		})
	}
}

func buildAvailabilitySlots(slots []domain.AvailabilitySlot) map[int]map[needindex.Slot]bool {
	m := map[int]map[needindex.Slot]bool{}
	for _, s := range slots {
		if m[s.SecretaryID] == nil {
			m[s.SecretaryID] = map[needindex.Slot]bool{}
		}
		m[s.SecretaryID][needindex.Slot{Date: s.Date, Period: s.Period}] = true
	}
	return m
}
