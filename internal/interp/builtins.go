package interp

import (
	"fmt"
	"os"
	"strings"

	"gaut/internal/arena"
	"gaut/internal/ast"
)

// builtinPrint backs print and println. Both return their message so
// output calls compose in expression position.
func (in *Interpreter) builtinPrint(name string, args []ast.Expr, e *env) (Value, error) {
	vals, err := in.evalArgs(name, args, e, 1)
	if err != nil {
		return Value{}, err
	}
	msg, err := wantStr(name, vals[0])
	if err != nil {
		return Value{}, err
	}
	if name == "println" {
		fmt.Fprintln(in.stdout, msg)
	} else {
		fmt.Fprint(in.stdout, msg)
	}
	return StrVal(msg), nil
}

func (in *Interpreter) evalBuiltin(name string, args []ast.Expr, e *env) (Value, error) {
	switch name {
	case "read_file":
		vals, err := in.evalArgs(name, args, e, 1)
		if err != nil {
			return Value{}, err
		}
		path, err := wantStr(name, vals[0])
		if err != nil {
			return Value{}, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return Value{}, fmt.Errorf("read_file: %w", err)
		}
		return StrVal(string(data)), nil

	case "write_file":
		vals, err := in.evalArgs(name, args, e, 2)
		if err != nil {
			return Value{}, err
		}
		path, err := wantStr(name, vals[0])
		if err != nil {
			return Value{}, err
		}
		data, err := wantStr(name, vals[1])
		if err != nil {
			return Value{}, err
		}
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			return Value{}, fmt.Errorf("write_file: %w", err)
		}
		return Unit, nil

	case "try_read_file":
		vals, err := in.evalArgs(name, args, e, 1)
		if err != nil {
			return Value{}, err
		}
		path, err := wantStr(name, vals[0])
		if err != nil {
			return Value{}, err
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			data = nil
		}
		return Value{Kind: ValRecord, Fields: []FieldVal{
			{Name: "ok", Val: BoolVal(readErr == nil)},
			{Name: "data", Val: StrVal(string(data))},
		}}, nil

	case "try_write_file":
		vals, err := in.evalArgs(name, args, e, 2)
		if err != nil {
			return Value{}, err
		}
		path, err := wantStr(name, vals[0])
		if err != nil {
			return Value{}, err
		}
		data, err := wantStr(name, vals[1])
		if err != nil {
			return Value{}, err
		}
		return BoolVal(os.WriteFile(path, []byte(data), 0o644) == nil), nil

	case "args":
		if _, err := in.evalArgs(name, args, e, 0); err != nil {
			return Value{}, err
		}
		return BytesVal([]byte(strings.Join(in.args, "\n"))), nil

	case "bytes_to_str":
		vals, err := in.evalArgs(name, args, e, 1)
		if err != nil {
			return Value{}, err
		}
		if vals[0].Kind != ValBytes {
			return Value{}, fmt.Errorf("%w: bytes_to_str expects Bytes", ErrType)
		}
		return StrVal(string(vals[0].Bytes)), nil

	case "str_len":
		vals, err := in.evalArgs(name, args, e, 1)
		if err != nil {
			return Value{}, err
		}
		s, err := wantStr(name, vals[0])
		if err != nil {
			return Value{}, err
		}
		return IntVal(int64(len(s))), nil

	case "str_byte_at":
		vals, err := in.evalArgs(name, args, e, 2)
		if err != nil {
			return Value{}, err
		}
		s, err := wantStr(name, vals[0])
		if err != nil {
			return Value{}, err
		}
		if vals[1].Kind != ValInt {
			return Value{}, fmt.Errorf("%w: str_byte_at index must be i32", ErrType)
		}
		return IntVal(int64(arena.ByteAt([]byte(s), vals[1].Int))), nil

	case "str_slice":
		vals, err := in.evalArgs(name, args, e, 3)
		if err != nil {
			return Value{}, err
		}
		s, err := wantStr(name, vals[0])
		if err != nil {
			return Value{}, err
		}
		if vals[1].Kind != ValInt || vals[2].Kind != ValInt {
			return Value{}, fmt.Errorf("%w: str_slice bounds must be i32", ErrType)
		}
		return StrVal(string(arena.SliceOf([]byte(s), vals[1].Int, vals[2].Int))), nil
	}
	return Value{}, fmt.Errorf("%w: %s", ErrUnknownName, name)
}

func (in *Interpreter) evalArgs(name string, args []ast.Expr, e *env, arity int) ([]Value, error) {
	if len(args) != arity {
		return nil, fmt.Errorf("%w: %s expects %d argument(s), got %d", ErrType, name, arity, len(args))
	}
	vals := make([]Value, 0, len(args))
	for _, a := range args {
		v, err := in.evalExpr(a, e, evalMove)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return vals, nil
}

func wantStr(name string, v Value) (string, error) {
	if v.Kind != ValStr {
		return "", fmt.Errorf("%w: %s expects Str", ErrType, name)
	}
	return v.Str, nil
}
