// Package witnesscalc computes circuit witnesses by driving circom-compiled
// WebAssembly guest modules.
//
// A circom circuit compiles to a wasm module exposing a small fixed export
// table. The host feeds named input signals into the guest through a shared
// transfer region of 32-bit words, asks the guest to run the circuit, and
// reads back the full witness vector: one big-integer value per circuit wire.
//
// # Architecture Overview
//
// The library is organized into concern packages:
//
//	witnesscalc/         Root package with the Guest capability interfaces
//	├── witness/         Protocol engine: calculator, inputs, field elements
//	├── engine/          wazero embedding of the guest module
//	├── limb/            32-bit limb codec for the shared transfer region
//	├── signal/          FNV-1a signal name addressing
//	├── wtns/            .wtns binary witness file writer
//	└── errors/          Structured error types
//
// # Quick Start
//
// Load a circuit and compute a witness:
//
//	calc, err := witness.New(ctx, wasmBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer calc.Close(ctx)
//
//	inputs := witness.AssignmentFromMap(map[string][]*big.Int{
//	    "a": {big.NewInt(3)},
//	    "b": {big.NewInt(5)},
//	})
//	wtns, err := calc.CalculateWitness(ctx, inputs)
//
// # Thread Safety
//
// Calculator is safe for concurrent use: every witness computation runs in a
// freshly instantiated guest with its own linear memory, so concurrent calls
// share only the immutable compiled module. A single Guest instance is NOT
// thread-safe and is never shared across calls.
package witnesscalc
