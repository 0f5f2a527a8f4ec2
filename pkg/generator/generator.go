// Package generator orchestrates part generation: it resolves the requested
// engine from the adapter registry, runs the rules engine, computes a unique
// output path, and executes the blocking backend build on a bounded worker
// pool. All failures surface as a typed *Error; nothing here panics past the
// offload boundary.
package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"partforge/pkg/builder"
	"partforge/pkg/intent"
	"partforge/pkg/observability"
	"partforge/pkg/rules"
)

// DefaultEngine is used when the caller supplies no engine key.
const DefaultEngine = "primary"

// Options configure a Generator.
type Options struct {
	OutputDir     string        // directory artifacts are written to
	Limits        rules.Limits  // manufacturability constraints
	Workers       int           // max concurrent builds; <=0 means 1
	BuildTimeout  time.Duration // per-build budget; <=0 disables the timeout
	DefaultEngine string        // used when a request names no engine; "" means DefaultEngine
	Logger        *zap.Logger   // nil defaults to zap.NewNop()
}

// Generator runs the validation/build pipeline. It is safe for concurrent
// use: the registry and options are read-only after construction, and each
// Generate call works on its own part value.
type Generator struct {
	registry *builder.Registry
	opts     Options
	pool     *pool
	log      *zap.Logger
}

// New builds a Generator around a populated registry.
func New(registry *builder.Registry, opts Options) *Generator {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{
		registry: registry,
		opts:     opts,
		pool:     newPool(opts.Workers),
		log:      log,
	}
}

// Warnings returns the advisory findings from the most recent validation of
// part. It re-runs validation, which is pure and cheap, so the generator
// itself stays stateless across requests.
func (g *Generator) Warnings(part intent.Part) []rules.Warning {
	return rules.Validate(part, g.opts.Limits).Warnings
}

// Generate validates part and builds it with the engine registered under
// engineKey (empty selects DefaultEngine). On success it returns the path
// of the newly created artifact; on failure the returned error is always a
// *Error carrying the failure kind.
//
// Steps 1-3 (engine resolution, validation, path computation) touch the
// filesystem only to create the output directory; the adapter is never
// invoked for an intent that failed validation.
func (g *Generator) Generate(ctx context.Context, part intent.Part, engineKey string) (string, error) {
	start := time.Now()
	if engineKey == "" {
		engineKey = g.opts.DefaultEngine
	}
	if engineKey == "" {
		engineKey = DefaultEngine
	}

	b, err := g.registry.Get(engineKey)
	if err != nil {
		return "", g.fail(engineKey, start, engineError(engineKey, err))
	}

	res := rules.Validate(part, g.opts.Limits)
	if !res.Accepted() {
		observability.ValidationRejections.Inc()
		return "", g.fail(engineKey, start, &Error{
			Kind:       ValidationFailed,
			Message:    fmt.Sprintf("%d rule violations", len(res.Violations)),
			Violations: res.Violations,
		})
	}
	for _, w := range res.Warnings {
		g.log.Warn("manufacturability advisory",
			zap.String("rule", w.Rule), zap.String("detail", w.Message))
	}

	path, err := g.outputPath(b.Ext())
	if err != nil {
		return "", g.fail(engineKey, start, &Error{
			Kind:    InternalFault,
			Message: "could not prepare the output directory",
			Err:     err,
		})
	}

	if err := g.pool.run(ctx, g.opts.BuildTimeout, func() error {
		return b.Build(part, path)
	}); err != nil {
		return "", g.fail(engineKey, start, buildError(err))
	}

	g.log.Info("part generated",
		zap.String("engine", engineKey),
		zap.String("path", path),
		zap.Duration("elapsed", time.Since(start)))
	observability.ObserveGeneration(engineKey, "success", time.Since(start))
	return path, nil
}

// fail logs and counts a failed generation, then returns err unchanged.
func (g *Generator) fail(engineKey string, start time.Time, err *Error) *Error {
	if err.Kind == InternalFault {
		// Full detail stays in the log; the caller gets a generic message.
		g.log.Error("generation fault",
			zap.String("engine", engineKey), zap.Error(err.Err))
	} else {
		g.log.Info("generation rejected",
			zap.String("engine", engineKey),
			zap.String("kind", string(err.Kind)),
			zap.String("detail", err.Message))
	}
	observability.ObserveGeneration(engineKey, string(err.Kind), time.Since(start))
	return err
}

// outputPath creates the output directory if absent (idempotent, safe under
// concurrent creation) and returns a collision-free artifact path:
// part_<UTC timestamp>_<disambiguator><ext>. The random disambiguator keeps
// concurrent generations within the same timestamp tick distinct, so no
// directory lock is needed.
func (g *Generator) outputPath(ext string) (string, error) {
	if err := os.MkdirAll(g.opts.OutputDir, 0o755); err != nil {
		return "", err
	}
	stamp := time.Now().UTC().Format("20060102_150405")
	disambiguator := uuid.NewString()[:8]
	name := fmt.Sprintf("part_%s_%s%s", stamp, disambiguator, ext)
	return filepath.Join(g.opts.OutputDir, name), nil
}

// engineError translates a registry lookup failure into the taxonomy.
func engineError(key string, err error) *Error {
	switch {
	case errors.Is(err, builder.ErrUnknownEngine):
		return &Error{Kind: UnsupportedEngine, Message: err.Error(), Err: err}
	case errors.Is(err, builder.ErrUnavailable):
		return &Error{Kind: MissingCapability, Message: err.Error(), Err: err}
	default:
		return &Error{Kind: InternalFault, Message: "engine lookup failed", Err: err}
	}
}

// buildError translates an offload-layer failure into the taxonomy. Adapter
// failures keep their full detail; panics become internal faults.
func buildError(err error) *Error {
	switch {
	case errors.Is(err, errBuildPanic):
		return &Error{Kind: InternalFault, Message: "internal error during build", Err: err}
	case errors.Is(err, errSlotWait):
		// The build never started, so there is no partial file to disclose.
		return &Error{
			Kind:    GenerationFailed,
			Message: "no build worker became available in time",
			Err:     err,
		}
	case errors.Is(err, context.DeadlineExceeded):
		return &Error{
			Kind:    GenerationFailed,
			Message: "build timed out; a partially written file may remain in the output directory",
			Err:     err,
		}
	case errors.Is(err, context.Canceled):
		return &Error{Kind: GenerationFailed, Message: "build canceled", Err: err}
	default:
		return &Error{Kind: GenerationFailed, Message: err.Error(), Err: err}
	}
}
