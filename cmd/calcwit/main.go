// Command calcwit computes circuit witnesses from compiled circom wasm.
//
// Usage:
//
//	calcwit calculate --wasm circuit.wasm --inputs inputs.json --output witness.wtns
//	calcwit info --wasm circuit.wasm
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fieldworks/witnesscalc/engine"
	"github.com/fieldworks/witnesscalc/witness"
	"github.com/fieldworks/witnesscalc/wtns"
)

var (
	flagWasm        string
	flagInputs      string
	flagOutput      string
	flagInterpreter bool
	flagSanityCheck bool
	flagJSON        bool
	flagVerbose     bool
)

func main() {
	root := &cobra.Command{
		Use:           "calcwit",
		Short:         "Witness calculator for circom circuits",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flagWasm, "wasm", "", "path to the compiled circuit wasm")
	root.PersistentFlags().BoolVar(&flagInterpreter, "interpreter", false, "use the interpreter backend instead of the compiler")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	root.MarkPersistentFlagRequired("wasm")

	calculate := &cobra.Command{
		Use:   "calculate",
		Short: "Compute a witness and write it as a wtns file",
		RunE:  runCalculate,
	}
	calculate.Flags().StringVar(&flagInputs, "inputs", "", "path to the inputs JSON file")
	calculate.Flags().StringVar(&flagOutput, "output", "witness.wtns", "path to write the witness to")
	calculate.Flags().BoolVar(&flagSanityCheck, "sanity-check", false, "enable the guest's internal constraint checks")
	calculate.Flags().BoolVar(&flagJSON, "json", false, "write witness values as a JSON array instead of wtns")
	calculate.MarkFlagRequired("inputs")

	info := &cobra.Command{
		Use:   "info",
		Short: "Print circuit field parameters",
		RunE:  runInfo,
	}

	root.AddCommand(calculate, info)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newCalculator(ctx context.Context) (*witness.Calculator, error) {
	if flagVerbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
		engine.SetLogger(logger)
	}

	data, err := os.ReadFile(flagWasm)
	if err != nil {
		return nil, fmt.Errorf("read wasm: %w", err)
	}

	var opts []witness.Option
	if flagSanityCheck {
		opts = append(opts, witness.WithSanityCheck())
	}
	if flagInterpreter {
		opts = append(opts, witness.WithBackend(engine.BackendInterpreter))
	}
	return witness.New(ctx, data, opts...)
}

func runCalculate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	calc, err := newCalculator(ctx)
	if err != nil {
		return err
	}
	defer calc.Close(ctx)

	inputData, err := os.ReadFile(flagInputs)
	if err != nil {
		return fmt.Errorf("read inputs: %w", err)
	}
	assignment, err := witness.ParseInputs(inputData)
	if err != nil {
		return err
	}

	elements, err := calc.CalculateWitnessElements(ctx, assignment)
	if err != nil {
		return err
	}

	out, err := os.Create(flagOutput)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	if flagJSON {
		values := make([]string, len(elements))
		for i, el := range elements {
			values[i] = el.String()
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", " ")
		if err := enc.Encode(values); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
	} else {
		values := make([]*big.Int, len(elements))
		for i, el := range elements {
			values[i] = el.BigInt()
		}
		if err := wtns.Write(out, calc.Prime(), values); err != nil {
			return err
		}
	}

	fmt.Printf("Witness of %d values written to %s\n", len(elements), flagOutput)
	return nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	calc, err := newCalculator(ctx)
	if err != nil {
		return err
	}
	defer calc.Close(ctx)

	fmt.Printf("Prime:            %s\n", calc.Prime())
	fmt.Printf("Field words (32): %d\n", calc.N32())
	fmt.Printf("Field words (64): %d\n", calc.N64())
	fmt.Printf("Protocol version: %d\n", calc.Version())
	if id, ok := witness.Curve(calc.Prime()); ok {
		fmt.Printf("Curve:            %s\n", id)
	}
	return nil
}
