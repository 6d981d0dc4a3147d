package witnesscalc

import "context"

// Guest is the capability surface of an instantiated circuit module.
//
// The methods mirror the guest's export table one to one. Values move between
// host and guest exclusively through the shared transfer region: the host
// writes a field element one 32-bit word at a time with WriteSharedRWMemory
// before SetInputSignal, and reads one back with ReadSharedRWMemory after
// GetRawPrime or GetWitness.
//
// A Guest owns mutable execution state and must not be shared across
// goroutines or reused across witness computations.
type Guest interface {
	// Init prepares the guest for a computation. sanityCheck enables the
	// guest's internal consistency assertions.
	Init(ctx context.Context, sanityCheck bool) error

	// GetFieldNumLen32 returns n32, the number of 32-bit words in one field
	// element on the wire.
	GetFieldNumLen32(ctx context.Context) (uint32, error)

	// GetRawPrime asks the guest to place the field prime's limbs in the
	// shared transfer region.
	GetRawPrime(ctx context.Context) error

	// ReadSharedRWMemory reads word i of the shared transfer region.
	ReadSharedRWMemory(ctx context.Context, i uint32) (uint32, error)

	// WriteSharedRWMemory writes word i of the shared transfer region.
	WriteSharedRWMemory(ctx context.Context, i, v uint32) error

	// SetInputSignal instructs the guest to consume the transfer region as
	// slot pos of the signal addressed by the (msb, lsb) name hash.
	SetInputSignal(ctx context.Context, msb, lsb, pos uint32) error

	// GetWitness asks the guest to place witness slot i in the transfer
	// region.
	GetWitness(ctx context.Context, i uint32) error

	// GetWitnessSize returns the number of witness slots.
	GetWitnessSize(ctx context.Context) (uint32, error)

	// GetVersion returns the guest protocol version. Guests predating the
	// getVersion export report version 1.
	GetVersion(ctx context.Context) (uint32, error)

	// Close releases the guest execution context.
	Close(ctx context.Context) error
}

// GuestSource produces fresh, isolated Guest instances from one loaded
// circuit module. Implementations must give every Instantiate call its own
// linear memory and call state.
type GuestSource interface {
	Instantiate(ctx context.Context) (Guest, error)
}
