package engine

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	witnesscalc "github.com/fieldworks/witnesscalc"
	"github.com/fieldworks/witnesscalc/errors"
)

// Names of the guest export table. Any module compiled against this protocol
// exposes them verbatim.
const (
	fnInit                = "init"
	fnGetFieldNumLen32    = "getFieldNumLen32"
	fnGetRawPrime         = "getRawPrime"
	fnReadSharedRWMemory  = "readSharedRWMemory"
	fnWriteSharedRWMemory = "writeSharedRWMemory"
	fnSetInputSignal      = "setInputSignal"
	fnGetWitness          = "getWitness"
	fnGetWitnessSize      = "getWitnessSize"
	fnGetVersion          = "getVersion" // optional; absence implies version 1
)

var requiredExports = []string{
	fnInit,
	fnGetFieldNumLen32,
	fnGetRawPrime,
	fnReadSharedRWMemory,
	fnWriteSharedRWMemory,
	fnSetInputSignal,
	fnGetWitness,
	fnGetWitnessSize,
}

// Module is a compiled circuit module.
type Module struct {
	engine     *Engine
	compiled   wazero.CompiledModule
	hasVersion bool
}

// Instantiate creates a fresh isolated guest: its own linear memory, call
// table, and callback state. Instances are anonymous so concurrent
// instantiation from one Module never conflicts.
func (m *Module) Instantiate(ctx context.Context) (witnesscalc.Guest, error) {
	g := &guest{
		fns:        make(map[string]api.Function, len(requiredExports)+1),
		state:      &callbackState{},
		hasVersion: m.hasVersion,
	}

	// The guest's start function may already call host imports, so the
	// callback state must be resolvable during instantiation.
	ctx = withCallbackState(ctx, g.state)

	instance, err := m.engine.runtime.InstantiateModule(ctx, m.compiled,
		wazero.NewModuleConfig().WithName(""))
	if err != nil {
		return nil, errors.ModuleLoad("instantiate module", err)
	}
	g.instance = instance

	for _, name := range requiredExports {
		fn := instance.ExportedFunction(name)
		if fn == nil {
			instance.Close(ctx)
			return nil, errors.MissingExport(name)
		}
		g.fns[name] = fn
	}
	if m.hasVersion {
		if fn := instance.ExportedFunction(fnGetVersion); fn != nil {
			g.fns[fnGetVersion] = fn
		}
	}
	g.state.messageReader = messageReaderFor(ctx, instance)

	return g, nil
}

// Close releases the compiled module.
func (m *Module) Close(ctx context.Context) error {
	return m.compiled.Close(ctx)
}

// guest is one running execution context. Not safe for concurrent use; the
// protocol above it is strictly sequential per computation.
type guest struct {
	instance   api.Module
	fns        map[string]api.Function
	state      *callbackState
	hasVersion bool
}

var _ witnesscalc.Guest = (*guest)(nil)

// call invokes a guest export and folds traps and guest-reported errors into
// one typed result. A report through exceptionHandler wins over the generic
// wazero trap it triggers, carrying the circom error code and message.
func (g *guest) call(ctx context.Context, name string, params ...uint64) ([]uint64, error) {
	fn, ok := g.fns[name]
	if !ok {
		return nil, errors.MissingExport(name)
	}

	ctx = withCallbackState(ctx, g.state)
	results, err := fn.Call(ctx, params...)

	if report := g.state.takeReport(); report != nil {
		Logger().Debug("guest reported error",
			zap.String("export", name),
			zap.Uint32("code", report.code),
			zap.String("message", report.message))
		return nil, errors.GuestReport(errors.PhaseExecute, report.code, report.message)
	}
	if err != nil {
		return nil, errors.GuestTrap(errors.PhaseExecute, name, err)
	}
	return results, nil
}

func (g *guest) callU32(ctx context.Context, name string, params ...uint64) (uint32, error) {
	results, err := g.call(ctx, name, params...)
	if err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, errors.GuestTrap(errors.PhaseExecute, name, errNoResult)
	}
	return uint32(results[0]), nil
}

func (g *guest) Init(ctx context.Context, sanityCheck bool) error {
	flag := uint64(0)
	if sanityCheck {
		flag = 1
	}
	_, err := g.call(ctx, fnInit, flag)
	return err
}

func (g *guest) GetFieldNumLen32(ctx context.Context) (uint32, error) {
	return g.callU32(ctx, fnGetFieldNumLen32)
}

func (g *guest) GetRawPrime(ctx context.Context) error {
	_, err := g.call(ctx, fnGetRawPrime)
	return err
}

func (g *guest) ReadSharedRWMemory(ctx context.Context, i uint32) (uint32, error) {
	return g.callU32(ctx, fnReadSharedRWMemory, uint64(i))
}

func (g *guest) WriteSharedRWMemory(ctx context.Context, i, v uint32) error {
	_, err := g.call(ctx, fnWriteSharedRWMemory, uint64(i), uint64(v))
	return err
}

func (g *guest) SetInputSignal(ctx context.Context, msb, lsb, pos uint32) error {
	_, err := g.call(ctx, fnSetInputSignal, uint64(msb), uint64(lsb), uint64(pos))
	return err
}

func (g *guest) GetWitness(ctx context.Context, i uint32) error {
	_, err := g.call(ctx, fnGetWitness, uint64(i))
	return err
}

func (g *guest) GetWitnessSize(ctx context.Context) (uint32, error) {
	return g.callU32(ctx, fnGetWitnessSize)
}

func (g *guest) GetVersion(ctx context.Context) (uint32, error) {
	if !g.hasVersion {
		// Legacy pre-versioned guest.
		return 1, nil
	}
	return g.callU32(ctx, fnGetVersion)
}

func (g *guest) Close(ctx context.Context) error {
	return g.instance.Close(ctx)
}
