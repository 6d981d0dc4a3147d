// Package engine embeds circom guest modules in a wazero runtime.
//
// The package provides three main types:
//
//	Engine - Creates and manages a wazero runtime for one backend
//	Module - A compiled circuit module, can create guest instances
//	guest  - A running, isolated execution context (witnesscalc.Guest)
//
// # Backends
//
// Two embeddings exist behind the same Guest capability surface:
//
//	BackendCompiler    - wazero's ahead-of-time compiling backend (default)
//	BackendInterpreter - wazero's interpreter, for platforms without
//	                     compiler support or for deterministic debugging
//
// The witness protocol above this package is identical for both; only the
// RuntimeConfig differs.
//
// # Instantiation Flow
//
//  1. Engine.LoadModule() compiles the module bytes once and verifies the
//     required circom export table
//  2. Module.Instantiate() creates a fresh guest with its own linear memory
//     and call state; instances are anonymous so they can be created
//     concurrently
//  3. The guest's runtime.* host imports (exceptionHandler and the
//     diagnostic hooks) are served by a host module whose handlers resolve
//     per-instance state from the call context, so concurrent guests never
//     share mutable callback state
//
// # Traps
//
// Every guest call returns a typed error. A trap reported through the
// guest's exceptionHandler import carries the circom runtime error code and
// its message; an embedding-level fault carries the wazero cause. Partial
// results are never returned past a trap.
//
// # Thread Safety
//
// Engine and Module are safe for concurrent use. A guest instance is NOT
// thread-safe and must be used by a single witness computation.
package engine
