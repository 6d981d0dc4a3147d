package engine

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"
)

// hostModuleName is the import namespace the guest expects its callbacks in.
const hostModuleName = "runtime"

// The circom runtime's error code table. The guest passes the code to
// exceptionHandler; the text lives host-side.
var guestErrorText = map[uint32]string{
	1: "Signal not found",
	2: "Too many signals set",
	3: "Signal already set",
	4: "Assert Failed",
	5: "Not enough memory",
	6: "Input signal array access exceeds the size",
}

var errNoResult = errors.New("guest returned no result")

// guestReport is one error signaled by the guest through exceptionHandler.
type guestReport struct {
	code    uint32
	message string
}

// callbackState is the per-instance sink for host callbacks. The host
// module is shared across all guests of a runtime, so handlers resolve
// their state from the call context rather than from globals; each guest
// carries its own state and concurrent guests never interleave.
type callbackState struct {
	mu            sync.Mutex
	report        *guestReport
	buffer        strings.Builder
	messageReader func(ctx context.Context) string
}

type callbackStateKey struct{}

func withCallbackState(ctx context.Context, st *callbackState) context.Context {
	return context.WithValue(ctx, callbackStateKey{}, st)
}

func callbackStateFrom(ctx context.Context) *callbackState {
	st, _ := ctx.Value(callbackStateKey{}).(*callbackState)
	return st
}

// recordError captures the guest's error code plus any message text the
// guest staged through its message buffer beforehand.
func (st *callbackState) recordError(code uint32) {
	st.mu.Lock()
	defer st.mu.Unlock()

	msg := guestErrorText[code]
	if extra := st.buffer.String(); extra != "" {
		msg += " " + extra
		st.buffer.Reset()
	}
	// Keep the first report; the guest may fire more than once while
	// unwinding.
	if st.report == nil {
		st.report = &guestReport{code: code, message: strings.TrimSpace(msg)}
	}
}

func (st *callbackState) appendMessage(msg string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.buffer.Len() > 0 {
		st.buffer.WriteByte(' ')
	}
	st.buffer.WriteString(msg)
}

// takeReport returns and clears the pending guest report, if any.
func (st *callbackState) takeReport() *guestReport {
	st.mu.Lock()
	defer st.mu.Unlock()
	r := st.report
	st.report = nil
	return r
}

// instantiateHostModule links the runtime.* callback stubs the guest may
// import: the fatal error reporter and the diagnostic no-ops. Called once
// per engine.
func instantiateHostModule(ctx context.Context, r wazero.Runtime) error {
	_, err := r.NewHostModuleBuilder(hostModuleName).
		NewFunctionBuilder().
		WithFunc(func(ctx context.Context, code int32) {
			if st := callbackStateFrom(ctx); st != nil {
				st.recordError(uint32(code))
			}
		}).
		Export("exceptionHandler").
		NewFunctionBuilder().
		WithFunc(func(ctx context.Context) {
			st := callbackStateFrom(ctx)
			if st == nil {
				return
			}
			if st.messageReader != nil {
				if msg := st.messageReader(ctx); msg != "" {
					st.appendMessage(msg)
					Logger().Debug("guest message", zap.String("message", msg))
				}
			}
		}).
		Export("printErrorMessage").
		NewFunctionBuilder().
		WithFunc(func(ctx context.Context) {
			st := callbackStateFrom(ctx)
			if st == nil {
				return
			}
			if st.messageReader != nil {
				if msg := st.messageReader(ctx); msg != "" {
					st.appendMessage(msg)
					Logger().Debug("guest message", zap.String("message", msg))
				}
			}
		}).
		Export("writeBufferMessage").
		NewFunctionBuilder().
		WithFunc(func(ctx context.Context) {
			Logger().Debug("guest requested shared memory display")
		}).
		Export("showSharedRWMemory").
		Instantiate(ctx)
	return err
}

// messageReaderFor drains the guest's message buffer through its optional
// getMessageChar export, one character per call until zero. Guests without
// the export get a nil reader and the diagnostic hooks stay silent.
func messageReaderFor(ctx context.Context, instance api.Module) func(context.Context) string {
	fn := instance.ExportedFunction("getMessageChar")
	if fn == nil {
		return nil
	}
	return func(ctx context.Context) string {
		var b strings.Builder
		for i := 0; i < 1024; i++ {
			res, err := fn.Call(ctx)
			if err != nil || len(res) == 0 {
				break
			}
			c := uint32(res[0])
			if c == 0 {
				break
			}
			b.WriteByte(byte(c))
		}
		return b.String()
	}
}
