package sema

import (
	"gaut/internal/types"
)

// builtinSig is a predeclared function signature. User declarations with
// the same name override the builtin, matching the runtime's weak-symbol
// shims.
type builtinSig struct {
	params []ParamInfo
	ret    types.Type
}

var builtinFuncs = map[string]builtinSig{
	"print": {
		params: []ParamInfo{{Name: "msg", Ty: types.Str}},
		ret:    types.Str,
	},
	"println": {
		params: []ParamInfo{{Name: "msg", Ty: types.Str}},
		ret:    types.Str,
	},
	"read_file": {
		params: []ParamInfo{{Name: "path", Ty: types.Str}},
		ret:    types.Str,
	},
	"write_file": {
		params: []ParamInfo{
			{Name: "path", Ty: types.Str},
			{Name: "data", Ty: types.Str},
		},
		ret: types.Unit,
	},
	"try_read_file": {
		params: []ParamInfo{{Name: "path", Ty: types.Str}},
		ret:    readFileResultType,
	},
	"try_write_file": {
		params: []ParamInfo{
			{Name: "path", Ty: types.Str},
			{Name: "data", Ty: types.Str},
		},
		ret: types.Bool,
	},
	"args": {
		ret: types.Bytes,
	},
	"bytes_to_str": {
		params: []ParamInfo{{Name: "buf", Ty: types.Bytes}},
		ret:    types.Str,
	},
	"str_len": {
		params: []ParamInfo{{Name: "s", Ty: types.Str}},
		ret:    types.I32,
	},
	"str_byte_at": {
		params: []ParamInfo{
			{Name: "s", Ty: types.Str},
			{Name: "i", Ty: types.I32},
		},
		ret: types.I32,
	},
	"str_slice": {
		params: []ParamInfo{
			{Name: "s", Ty: types.Str},
			{Name: "start", Ty: types.I32},
			{Name: "len", Ty: types.I32},
		},
		ret: types.Str,
	},
}

// readFileResultType is the predeclared ReadFileResult record returned by
// try_read_file.
var readFileResultType = types.Type{
	Kind: types.KindRecord,
	Fields: []types.Field{
		{Name: "ok", Ty: types.Bool},
		{Name: "data", Ty: types.Str},
	},
	Alias: "ReadFileResult",
}

// builtinAliases are type names available without declaration, beyond the
// primitives.
var builtinAliases = map[string]types.Type{
	"ReadFileResult": readFileResultType,
}
