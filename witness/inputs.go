package witness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"sort"

	gethmath "github.com/ethereum/go-ethereum/common/math"

	"github.com/fieldworks/witnesscalc/errors"
)

// Input binds one signal name to its ordered values. Scalar signals carry a
// single value; array signals carry one value per slot, multi-dimensional
// arrays flattened in row-major order as the guest expects.
type Input struct {
	Name   string
	Values []*big.Int
}

// Assignment is an ordered collection of inputs. Name uniqueness is the
// caller's responsibility; it is not enforced here.
type Assignment []Input

// AssignmentFromMap builds an Assignment with names in sorted order, so the
// transfer sequence is deterministic across runs.
func AssignmentFromMap(m map[string][]*big.Int) Assignment {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	a := make(Assignment, 0, len(m))
	for _, name := range names {
		a = append(a, Input{Name: name, Values: m[name]})
	}
	return a
}

// ParseInputs decodes the circom inputs JSON convention: an object mapping
// signal names to a value or a (possibly nested) array of values. Values
// are JSON numbers or strings in decimal or 0x-hexadecimal.
func ParseInputs(data []byte) (Assignment, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.PhaseParse, errors.KindInvalidInput, err, "decode inputs object")
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	a := make(Assignment, 0, len(raw))
	for _, name := range names {
		values, err := parseValues(raw[name])
		if err != nil {
			return nil, errors.Wrap(errors.PhaseParse, errors.KindInvalidInput, err,
				fmt.Sprintf("signal %q", name))
		}
		a = append(a, Input{Name: name, Values: values})
	}
	return a, nil
}

// parseValues flattens a scalar or nested array into an ordered value list.
func parseValues(raw json.RawMessage) ([]*big.Int, error) {
	var node any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&node); err != nil {
		return nil, err
	}
	return flattenValues(node, nil)
}

func flattenValues(node any, acc []*big.Int) ([]*big.Int, error) {
	switch v := node.(type) {
	case []any:
		var err error
		for _, item := range v {
			acc, err = flattenValues(item, acc)
			if err != nil {
				return nil, err
			}
		}
		return acc, nil
	case json.Number:
		b, ok := new(big.Int).SetString(v.String(), 10)
		if !ok {
			return nil, fmt.Errorf("non-integer number %q", v.String())
		}
		return append(acc, b), nil
	case string:
		b, ok := gethmath.ParseBig256(v)
		if !ok {
			return nil, fmt.Errorf("cannot parse value %q as decimal or hex", v)
		}
		return append(acc, b), nil
	case bool:
		b := big.NewInt(0)
		if v {
			b.SetInt64(1)
		}
		return append(acc, b), nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", node)
	}
}
