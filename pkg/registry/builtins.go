package registry

import (
	"context"
	"fmt"
	"math"
	"strings"
)

// Default returns a registry seeded with the built-in operations used
// by the CLI: basic arithmetic, sum over a sequence, and string concat.
func Default() *Registry {
	r := NewRegistry()
	r.Register("add", binaryNumeric(func(a, b float64) (float64, error) { return a + b, nil }))
	r.Register("sub", binaryNumeric(func(a, b float64) (float64, error) { return a - b, nil }))
	r.Register("mul", binaryNumeric(func(a, b float64) (float64, error) { return a * b, nil }))
	r.Register("div", binaryNumeric(func(a, b float64) (float64, error) {
		if b == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return a / b, nil
	}))
	r.Register("pow", binaryNumeric(func(a, b float64) (float64, error) { return math.Pow(a, b), nil }))
	r.Register("sum", opSum)
	r.Register("concat", opConcat)
	return r
}

func binaryNumeric(f func(a, b float64) (float64, error)) Op {
	return func(ctx context.Context, args []any) (any, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("expected 2 arguments, got %d", len(args))
		}
		a, err := toFloat(args[0])
		if err != nil {
			return nil, err
		}
		b, err := toFloat(args[1])
		if err != nil {
			return nil, err
		}
		return f(a, b)
	}
}

// opSum adds up a single sequence argument.
func opSum(ctx context.Context, args []any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("expected 1 argument, got %d", len(args))
	}
	seq, ok := args[0].([]any)
	if !ok {
		return nil, fmt.Errorf("expected a sequence, got %T", args[0])
	}
	total := 0.0
	for _, item := range seq {
		v, err := toFloat(item)
		if err != nil {
			return nil, err
		}
		total += v
	}
	return total, nil
}

// opConcat joins all arguments as strings.
func opConcat(ctx context.Context, args []any) (any, error) {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = fmt.Sprint(arg)
	}
	return strings.Join(parts, ""), nil
}

// toFloat coerces the numeric types seen across the module's codecs
// (YAML ints, JSON float64, msgpack int64 family) into float64.
func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}
}
