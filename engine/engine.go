package engine

import (
	"context"

	"github.com/tetratelabs/wazero"

	"github.com/fieldworks/witnesscalc/errors"
)

// Backend selects the wazero execution strategy for guest code.
type Backend int

const (
	// BackendCompiler uses wazero's ahead-of-time compiler. Fastest; the
	// default on supported platforms.
	BackendCompiler Backend = iota
	// BackendInterpreter uses wazero's interpreter. Slower, but available
	// everywhere and useful for step-limited or deterministic runs.
	BackendInterpreter
)

func (b Backend) String() string {
	switch b {
	case BackendInterpreter:
		return "interpreter"
	default:
		return "compiler"
	}
}

// Config holds configuration for engine creation
type Config struct {
	// Backend selects the wazero execution strategy.
	Backend Backend

	// MemoryLimitPages caps guest memory per instance in 64KB pages.
	// 0 means wazero's default (65536 pages = 4GB).
	MemoryLimitPages uint32

	// CloseOnContextDone makes in-flight guest calls abort when the calling
	// context is canceled or times out. The protocol itself has no abort;
	// cancellation works by tearing down the execution context.
	CloseOnContextDone bool
}

// Engine wraps a wazero runtime configured for one backend.
type Engine struct {
	runtime wazero.Runtime
	backend Backend
}

// New creates an engine. A nil cfg selects the compiling backend with
// default limits.
func New(ctx context.Context, cfg *Config) (*Engine, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	var runtimeCfg wazero.RuntimeConfig
	switch cfg.Backend {
	case BackendInterpreter:
		runtimeCfg = wazero.NewRuntimeConfigInterpreter()
	default:
		runtimeCfg = wazero.NewRuntimeConfigCompiler()
	}
	if cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}
	if cfg.CloseOnContextDone {
		runtimeCfg = runtimeCfg.WithCloseOnContextDone(true)
	}

	e := &Engine{
		runtime: wazero.NewRuntimeWithConfig(ctx, runtimeCfg),
		backend: cfg.Backend,
	}

	if err := instantiateHostModule(ctx, e.runtime); err != nil {
		e.runtime.Close(ctx)
		return nil, errors.ModuleLoad("instantiate host callback module", err)
	}
	return e, nil
}

// Backend reports which execution strategy this engine uses.
func (e *Engine) Backend() Backend {
	return e.backend
}

// LoadModule compiles circuit module bytes and verifies the guest export
// table. The compiled module is immutable and may instantiate any number of
// isolated guests.
func (e *Engine) LoadModule(ctx context.Context, wasmBytes []byte) (*Module, error) {
	compiled, err := e.runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, errors.ModuleLoad("compile module", err)
	}

	exported := compiled.ExportedFunctions()
	var missing []string
	for _, name := range requiredExports {
		if _, ok := exported[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		compiled.Close(ctx)
		return nil, errors.MissingExport(missing...)
	}

	_, hasVersion := exported[fnGetVersion]

	return &Module{
		engine:     e,
		compiled:   compiled,
		hasVersion: hasVersion,
	}, nil
}

// Close releases the runtime and everything compiled in it.
func (e *Engine) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}
