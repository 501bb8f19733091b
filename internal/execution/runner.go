package execution

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"evmfill/internal/collector"
	"evmfill/internal/config"
	"evmfill/internal/discovery"
	"evmfill/internal/domain"
	"evmfill/internal/filler"
	"evmfill/internal/guard"
	"evmfill/internal/identity"
	"evmfill/internal/spec"
)

// FillFunc produces the fixture for one run. filler.Fill is the production
// implementation.
type FillFunc func(ctx context.Context, t8n filler.TransitionTool, b11r filler.BlockBuilder, test spec.Test, fork string, engine string, ref spec.ReferenceSpec, eips []int) (*domain.FilledFixture, error)

// Runner fills the runs of one filler module into its own collector scope
type Runner struct {
	config   *config.Config
	t8n      filler.TransitionTool
	b11r     filler.BlockBuilder
	resolver *identity.Resolver
	fill     FillFunc
}

// NewRunner creates a new Runner sharing the session's tool handles
func NewRunner(cfg *config.Config, t8n filler.TransitionTool, b11r filler.BlockBuilder) *Runner {
	return &Runner{
		config:   cfg,
		t8n:      t8n,
		b11r:     b11r,
		resolver: identity.NewResolver(cfg.GetFillerPath()),
		fill:     filler.Fill,
	}
}

// WithFill returns a copy of the runner using fill to produce fixtures
func (r *Runner) WithFill(fill FillFunc) *Runner {
	cp := *r
	cp.fill = fill
	return &cp
}

// Run fills every run of the module in order, then flushes the module's
// fixtures once. A failed run does not stop the module. If ctx is cancelled
// at any point before the flush, including during the last run, the module
// is abandoned without writing anything.
func (r *Runner) Run(ctx context.Context, fl *discovery.Filler, workerID int) domain.ModuleResult {
	result := domain.ModuleResult{Module: fl.RelPath}
	scope := collector.OpenScope(r.config.GetOutputDir(), r.resolver)

	log.Debug("Filling module", "module", fl.RelPath, "runs", len(fl.Runs), "worker", workerID)
	for _, run := range fl.Runs {
		if ctx.Err() != nil {
			break
		}
		start := time.Now()
		err := r.fillRun(ctx, scope, fl, run)
		rr := domain.RunResult{
			Run:      run,
			Module:   fl.RelPath,
			Success:  err == nil,
			Duration: time.Since(start),
		}
		if err != nil {
			rr.Error = err
			log.Debug("Run failed", "run", run.ID, "err", err)
		}
		result.Runs = append(result.Runs, rr)
	}
	if ctx.Err() != nil {
		log.Warn("Module aborted before flush", "module", fl.RelPath, "err", ctx.Err())
		result.Aborted = true
		return result
	}

	result.Entries = scope.Entries()
	result.Files, result.FlushErr = scope.Close()
	if result.FlushErr != nil {
		log.Error("Could not write fixtures", "module", fl.RelPath, "err", result.FlushErr)
	}
	return result
}

// fillRun takes one run through guard, fill and record.
func (r *Runner) fillRun(ctx context.Context, scope *collector.Scope, fl *discovery.Filler, run domain.Run) error {
	if err := guard.Check(run.Kinds); err != nil {
		return annotate(err, run, fl.RelPath)
	}

	decl := fl.Test(run)
	fixture, err := r.fill(ctx, r.t8n, r.b11r, decl.Spec(), run.Fork, r.config.Engine, fl.File.ReferenceSpec, fl.File.EIPs)
	if err != nil {
		return annotate(err, run, fl.RelPath)
	}
	if fixture == nil {
		return annotate(domain.NewError(domain.ErrTool, "fill produced no fixture"), run, fl.RelPath)
	}
	fixture.Name = decl.FixtureName

	if err := scope.RecordRun(run, fixture); err != nil {
		var fe *domain.FillError
		if !errors.As(err, &fe) {
			err = domain.WrapError(domain.ErrIO, "could not record fixture", err)
		}
		return annotate(err, run, fl.RelPath)
	}
	return nil
}

// annotate attributes err to the run. Context added by wrapping a
// FillError is folded into its message; other errors become TOOL errors.
func annotate(err error, run domain.Run, module string) *domain.FillError {
	var fe *domain.FillError
	if !errors.As(err, &fe) {
		fe = domain.WrapError(domain.ErrTool, "fill failed", err)
	} else {
		cp := *fe
		if prefix := strings.TrimSuffix(err.Error(), fe.Error()); prefix != err.Error() {
			cp.Message = prefix + cp.Message
		}
		fe = &cp
	}
	fe.RunID = run.ID
	fe.Module = module
	return fe
}
