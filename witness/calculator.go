package witness

import (
	"context"
	"math/big"

	"go.uber.org/zap"

	witnesscalc "github.com/fieldworks/witnesscalc"
	"github.com/fieldworks/witnesscalc/engine"
	"github.com/fieldworks/witnesscalc/errors"
	"github.com/fieldworks/witnesscalc/limb"
	"github.com/fieldworks/witnesscalc/signal"
)

// Option configures a Calculator.
type Option func(*options)

type options struct {
	engineCfg   engine.Config
	sanityCheck bool
}

// WithSanityCheck enables the guest's internal consistency assertions for
// every computation.
func WithSanityCheck() Option {
	return func(o *options) { o.sanityCheck = true }
}

// WithBackend selects the wazero execution strategy.
func WithBackend(b engine.Backend) Option {
	return func(o *options) { o.engineCfg.Backend = b }
}

// WithMemoryLimitPages caps guest memory per computation in 64KB pages.
func WithMemoryLimitPages(pages uint32) Option {
	return func(o *options) { o.engineCfg.MemoryLimitPages = pages }
}

// WithCloseOnContextDone aborts in-flight guest calls when the calling
// context is canceled. Cancellation tears down the execution context; the
// protocol itself has no abort.
func WithCloseOnContextDone() Option {
	return func(o *options) { o.engineCfg.CloseOnContextDone = true }
}

// WithLogger routes engine diagnostics to l.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { engine.SetLogger(l) }
}

// Calculator computes witnesses for one compiled circuit module.
//
// The field parameters are discovered once at construction and stay
// constant for the Calculator's lifetime. Calculator is safe for concurrent
// use; each computation gets an isolated guest.
type Calculator struct {
	src         witnesscalc.GuestSource
	eng         *engine.Engine
	mod         *engine.Module
	prime       *big.Int
	n32         uint32
	n64         uint32
	version     uint32
	sanityCheck bool
}

// New compiles circuit module bytes in a fresh engine and discovers the
// field parameters.
func New(ctx context.Context, wasmBytes []byte, opts ...Option) (*Calculator, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	eng, err := engine.New(ctx, &o.engineCfg)
	if err != nil {
		return nil, err
	}

	mod, err := eng.LoadModule(ctx, wasmBytes)
	if err != nil {
		eng.Close(ctx)
		return nil, err
	}

	c, err := newFromSource(ctx, mod, o)
	if err != nil {
		eng.Close(ctx)
		return nil, err
	}
	c.eng = eng
	c.mod = mod
	return c, nil
}

// NewFromSource builds a Calculator over any GuestSource. Used for guests
// embedded by other means than this package's engine.
func NewFromSource(ctx context.Context, src witnesscalc.GuestSource, opts ...Option) (*Calculator, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return newFromSource(ctx, src, o)
}

// newFromSource performs prime discovery: one throwaway guest answers
// getFieldNumLen32 and getRawPrime, and the transfer region is read back
// into the prime.
func newFromSource(ctx context.Context, src witnesscalc.GuestSource, o options) (*Calculator, error) {
	g, err := src.Instantiate(ctx)
	if err != nil {
		return nil, err
	}
	defer g.Close(ctx)

	n32, err := g.GetFieldNumLen32(ctx)
	if err != nil {
		return nil, errors.WithPhase(err, errors.PhaseDiscover)
	}
	if n32 == 0 {
		return nil, errors.InvalidInput(errors.PhaseDiscover, "guest reported a zero-width field")
	}

	if err := g.GetRawPrime(ctx); err != nil {
		return nil, errors.WithPhase(err, errors.PhaseDiscover)
	}
	prime, err := readElement(ctx, g, n32)
	if err != nil {
		return nil, errors.WithPhase(err, errors.PhaseDiscover)
	}
	if prime.Sign() <= 0 {
		return nil, errors.InvalidInput(errors.PhaseDiscover, "guest reported a non-positive prime")
	}

	version, err := g.GetVersion(ctx)
	if err != nil {
		return nil, errors.WithPhase(err, errors.PhaseDiscover)
	}

	return &Calculator{
		src:         src,
		prime:       prime,
		n32:         n32,
		n64:         uint32((prime.BitLen() + 63) / 64),
		version:     version,
		sanityCheck: o.sanityCheck,
	}, nil
}

// Prime returns the field modulus discovered from the guest.
func (c *Calculator) Prime() *big.Int {
	return new(big.Int).Set(c.prime)
}

// N32 returns the field element width in 32-bit words on the wire.
func (c *Calculator) N32() uint32 { return c.n32 }

// N64 returns the field element width in 64-bit limbs.
func (c *Calculator) N64() uint32 { return c.n64 }

// Version returns the guest protocol version (1 for legacy guests without
// the getVersion export).
func (c *Calculator) Version() uint32 { return c.version }

// Close releases the underlying engine, if this Calculator owns one.
func (c *Calculator) Close(ctx context.Context) error {
	if c.mod != nil {
		c.mod.Close(ctx)
		c.mod = nil
	}
	if c.eng != nil {
		err := c.eng.Close(ctx)
		c.eng = nil
		return err
	}
	return nil
}

// CalculateWitness runs the circuit over inputs and returns the raw witness
// vector, one value per wire slot. The computation runs in a fresh guest;
// on any failure the whole computation is discarded.
func (c *Calculator) CalculateWitness(ctx context.Context, inputs Assignment) ([]*big.Int, error) {
	g, err := c.src.Instantiate(ctx)
	if err != nil {
		return nil, err
	}
	defer g.Close(ctx)

	if err := g.Init(ctx, c.sanityCheck); err != nil {
		return nil, errors.WithPhase(err, errors.PhaseExecute)
	}

	if err := c.loadInputs(ctx, g, inputs); err != nil {
		return nil, err
	}

	size, err := g.GetWitnessSize(ctx)
	if err != nil {
		return nil, errors.WithPhase(err, errors.PhaseExecute)
	}

	wtns := make([]*big.Int, size)
	for i := uint32(0); i < size; i++ {
		if err := g.GetWitness(ctx, i); err != nil {
			return nil, errors.WithPhase(err, errors.PhaseExtract)
		}
		v, err := readElement(ctx, g, c.n32)
		if err != nil {
			return nil, errors.WithPhase(err, errors.PhaseExtract)
		}
		wtns[i] = v
	}
	return wtns, nil
}

// CalculateWitnessElements runs the circuit and returns the witness mapped
// onto canonical field elements in [0, prime).
func (c *Calculator) CalculateWitnessElements(ctx context.Context, inputs Assignment) ([]Element, error) {
	raw, err := c.CalculateWitness(ctx, inputs)
	if err != nil {
		return nil, err
	}

	elements := make([]Element, len(raw))
	for i, w := range raw {
		elements[i] = NewElement(w, c.prime)
	}
	return elements, nil
}

// loadInputs transfers every input value: encode, write the transfer region
// word by word, then signal. The region is one shared buffer, so each
// write-then-signal pair completes before the next value starts.
func (c *Calculator) loadInputs(ctx context.Context, g witnesscalc.Guest, inputs Assignment) error {
	for _, in := range inputs {
		msb, lsb := signal.Address(in.Name)
		for i, v := range in.Values {
			if v == nil {
				return errors.InvalidInput(errors.PhaseInput, "nil value for signal "+in.Name)
			}
			if err := writeElement(ctx, g, v, c.n32); err != nil {
				return errors.WithPhase(err, errors.PhaseInput)
			}
			if err := g.SetInputSignal(ctx, msb, lsb, uint32(i)); err != nil {
				return errors.WithPhase(err, errors.PhaseInput)
			}
		}
	}
	return nil
}

// writeElement encodes v into n32 limbs and writes them to the transfer
// region with the word order reversed: wire word j receives limb n32-1-j.
func writeElement(ctx context.Context, g witnesscalc.Guest, v *big.Int, n32 uint32) error {
	limbs, err := limb.Encode(v, int(n32))
	if err != nil {
		return err
	}
	for j := uint32(0); j < n32; j++ {
		if err := g.WriteSharedRWMemory(ctx, j, limbs[n32-1-j]); err != nil {
			return err
		}
	}
	return nil
}

// readElement reads n32 words back from the transfer region, undoing the
// same word-order reversal, and decodes them.
func readElement(ctx context.Context, g witnesscalc.Guest, n32 uint32) (*big.Int, error) {
	limbs := make([]uint32, n32)
	for j := uint32(0); j < n32; j++ {
		w, err := g.ReadSharedRWMemory(ctx, j)
		if err != nil {
			return nil, err
		}
		limbs[n32-1-j] = w
	}
	return limb.Decode(limbs), nil
}
