package witness

import (
	"context"
	"fmt"
	"math/big"

	witnesscalc "github.com/fieldworks/witnesscalc"
	"github.com/fieldworks/witnesscalc/errors"
	"github.com/fieldworks/witnesscalc/limb"
	"github.com/fieldworks/witnesscalc/signal"
)

// fakeGuest is an in-process guest implementing the a+b circuit over a small
// prime. It checks the transfer discipline: every setInputSignal must be
// preceded by exactly n32 writes for the value it consumes.
type fakeGuest struct {
	prime  *big.Int
	n32    uint32
	shared []uint32

	a, b   *big.Int
	inited bool
	sanity bool
	writes int
	closed bool
	legacy bool

	// optional failure injection
	failGetWitness func(i uint32) error
	failInit       error
}

func newFakeGuest(prime *big.Int, n32 uint32) *fakeGuest {
	return &fakeGuest{prime: prime, n32: n32, shared: make([]uint32, n32)}
}

func (f *fakeGuest) putShared(v *big.Int) error {
	limbs, err := limb.Encode(v, int(f.n32))
	if err != nil {
		return err
	}
	for j := uint32(0); j < f.n32; j++ {
		f.shared[j] = limbs[f.n32-1-j]
	}
	return nil
}

func (f *fakeGuest) takeShared() *big.Int {
	limbs := make([]uint32, f.n32)
	for j := uint32(0); j < f.n32; j++ {
		limbs[f.n32-1-j] = f.shared[j]
	}
	return limb.Decode(limbs)
}

func (f *fakeGuest) Init(ctx context.Context, sanityCheck bool) error {
	if f.failInit != nil {
		return f.failInit
	}
	f.inited = true
	f.sanity = sanityCheck
	return nil
}

func (f *fakeGuest) GetFieldNumLen32(ctx context.Context) (uint32, error) {
	return f.n32, nil
}

func (f *fakeGuest) GetRawPrime(ctx context.Context) error {
	return f.putShared(f.prime)
}

func (f *fakeGuest) ReadSharedRWMemory(ctx context.Context, i uint32) (uint32, error) {
	if i >= f.n32 {
		return 0, fmt.Errorf("shared read out of range: %d", i)
	}
	return f.shared[i], nil
}

func (f *fakeGuest) WriteSharedRWMemory(ctx context.Context, i, v uint32) error {
	if i >= f.n32 {
		return fmt.Errorf("shared write out of range: %d", i)
	}
	f.shared[i] = v
	f.writes++
	return nil
}

func (f *fakeGuest) SetInputSignal(ctx context.Context, msb, lsb, pos uint32) error {
	if !f.inited {
		return fmt.Errorf("setInputSignal before init")
	}
	if f.writes != int(f.n32) {
		return fmt.Errorf("signal consumed %d writes, want %d", f.writes, f.n32)
	}
	f.writes = 0
	if pos != 0 {
		return errors.GuestReport(errors.PhaseExecute, 6, "Input signal array access exceeds the size")
	}

	v := f.takeShared()
	aMsb, aLsb := signal.Address("a")
	bMsb, bLsb := signal.Address("b")
	switch {
	case msb == aMsb && lsb == aLsb:
		f.a = v
	case msb == bMsb && lsb == bLsb:
		f.b = v
	default:
		return errors.GuestReport(errors.PhaseExecute, 1, "Signal not found")
	}
	return nil
}

func (f *fakeGuest) GetWitness(ctx context.Context, i uint32) error {
	if f.failGetWitness != nil {
		if err := f.failGetWitness(i); err != nil {
			return err
		}
	}
	if f.a == nil || f.b == nil {
		return errors.GuestReport(errors.PhaseExecute, 4, "Assert Failed")
	}
	var v *big.Int
	switch i {
	case 0:
		v = big.NewInt(1)
	case 1:
		v = new(big.Int).Add(f.a, f.b)
		v.Mod(v, f.prime)
	case 2:
		v = f.a
	case 3:
		v = f.b
	default:
		return fmt.Errorf("witness index out of range: %d", i)
	}
	return f.putShared(v)
}

func (f *fakeGuest) GetWitnessSize(ctx context.Context) (uint32, error) {
	return 4, nil
}

func (f *fakeGuest) GetVersion(ctx context.Context) (uint32, error) {
	if f.legacy {
		return 1, nil
	}
	return 2, nil
}

func (f *fakeGuest) Close(ctx context.Context) error {
	f.closed = true
	return nil
}

// fakeSource hands out fresh fakeGuests and remembers them so tests can
// check isolation and cleanup.
type fakeSource struct {
	prime     *big.Int
	n32       uint32
	prepare   func(*fakeGuest)
	instances []*fakeGuest
}

var _ witnesscalc.GuestSource = (*fakeSource)(nil)

func newFakeSource(prime int64, n32 uint32) *fakeSource {
	return &fakeSource{prime: big.NewInt(prime), n32: n32}
}

func (s *fakeSource) Instantiate(ctx context.Context) (witnesscalc.Guest, error) {
	g := newFakeGuest(s.prime, s.n32)
	if s.prepare != nil {
		s.prepare(g)
	}
	s.instances = append(s.instances, g)
	return g, nil
}
