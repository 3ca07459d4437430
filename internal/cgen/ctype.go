package cgen

import (
	"fmt"
	"strings"

	"gaut/internal/ast"
	"gaut/internal/types"
)

// resolveType lowers a syntactic type against the checked alias table.
// The checker already validated every type in the program, so a miss here
// is an internal error.
func (g *Generator) resolveType(te ast.TypeExpr) (types.Type, error) {
	switch t := te.(type) {
	case *ast.NamedType:
		if ty, ok := types.PrimitiveByName(t.Name.Name); ok {
			return ty, nil
		}
		if ty, ok := g.prog.Aliases[t.Name.Name]; ok {
			return ty, nil
		}
		return types.Type{}, fmt.Errorf("%w: unresolved type %s", ErrInternal, t.Name.Name)
	case *ast.RefType:
		elem, err := g.resolveType(t.Elem)
		if err != nil {
			return types.Type{}, err
		}
		return types.Ref(elem), nil
	case *ast.RecordType:
		fields := make([]types.Field, 0, len(t.Fields))
		for _, f := range t.Fields {
			fty, err := g.resolveType(f.Ty)
			if err != nil {
				return types.Type{}, err
			}
			fields = append(fields, types.Field{Name: f.Name.Name, Ty: fty})
		}
		return types.Record(fields), nil
	}
	return types.Type{}, fmt.Errorf("%w: unsupported type expression", ErrInternal)
}

// cValueType maps a resolved type to its C spelling in value position.
// Unit values are plain int zeros.
func (g *Generator) cValueType(ty types.Type) (string, error) {
	switch ty.Kind {
	case types.KindI32:
		return "int32_t", nil
	case types.KindI64:
		return "int64_t", nil
	case types.KindU8:
		return "uint8_t", nil
	case types.KindBool:
		return "bool", nil
	case types.KindStr:
		return "char*", nil
	case types.KindBytes:
		return "gaut_bytes", nil
	case types.KindUnit:
		return "int", nil
	case types.KindRef:
		elem, err := g.cValueType(*ty.Elem)
		if err != nil {
			return "", err
		}
		return elem + "*", nil
	case types.KindRecord:
		if ty.Alias != "" {
			return ty.Alias, nil
		}
		if name, ok := g.recordAlias(ty); ok {
			return name, nil
		}
		var sb strings.Builder
		sb.WriteString("struct { ")
		for _, f := range ty.Fields {
			cty, err := g.cValueType(f.Ty)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&sb, "%s %s; ", cty, f.Name)
		}
		sb.WriteString("}")
		return sb.String(), nil
	}
	return "", fmt.Errorf("%w: cannot map type %s", ErrInternal, ty)
}

// cReturnType is cValueType except that Unit becomes void.
func (g *Generator) cReturnType(ty types.Type) (string, error) {
	if ty.IsUnit() {
		return "void", nil
	}
	return g.cValueType(ty)
}

// recordAlias finds the declared typedef structurally matching ty, in
// declaration order so the choice is stable.
func (g *Generator) recordAlias(ty types.Type) (string, bool) {
	if ty.Kind != types.KindRecord {
		return "", false
	}
	if ty.Alias != "" {
		return ty.Alias, true
	}
	for _, name := range g.prog.AliasOrder {
		aliased := g.prog.Aliases[name]
		if aliased.Kind == types.KindRecord && types.Equal(aliased, ty) {
			return name, true
		}
	}
	return "", false
}

// cQuote renders s as a C string literal.
func cQuote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case 0:
			sb.WriteString(`\0`)
		default:
			if c < 0x20 || c == 0x7f {
				fmt.Fprintf(&sb, `\x%02x`, c)
			} else {
				sb.WriteByte(c)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
