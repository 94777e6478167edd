package msl

import "strings"

// reservedWords contains identifiers that cannot be declared in MSL.
// This includes C++14 keywords, alternative operator tokens, Metal
// qualifiers and names the writer declares itself.
var reservedWords = map[string]struct{}{
	// =========================================================================
	// C++14 Keywords
	// =========================================================================
	"alignas": {}, "alignof": {}, "asm": {}, "auto": {}, "bool": {}, "break": {},
	"case": {}, "catch": {}, "char": {}, "char16_t": {}, "char32_t": {},
	"class": {}, "const": {}, "const_cast": {}, "constexpr": {}, "continue": {},
	"decltype": {}, "default": {}, "delete": {}, "do": {}, "double": {},
	"dynamic_cast": {}, "else": {}, "enum": {}, "explicit": {}, "export": {},
	"extern": {}, "false": {}, "float": {}, "for": {}, "friend": {}, "goto": {},
	"if": {}, "inline": {}, "int": {}, "long": {}, "mutable": {}, "namespace": {},
	"new": {}, "noexcept": {}, "nullptr": {}, "operator": {}, "private": {},
	"protected": {}, "public": {}, "register": {}, "reinterpret_cast": {},
	"return": {}, "short": {}, "signed": {}, "sizeof": {}, "static": {},
	"static_assert": {}, "static_cast": {}, "struct": {}, "switch": {},
	"template": {}, "this": {}, "thread_local": {}, "throw": {}, "true": {},
	"try": {}, "typedef": {}, "typeid": {}, "typename": {}, "union": {},
	"unsigned": {}, "using": {}, "virtual": {}, "void": {}, "volatile": {},
	"wchar_t": {}, "while": {},

	// =========================================================================
	// Alternative Operator Tokens
	// =========================================================================
	"and": {}, "and_eq": {}, "bitand": {}, "bitor": {}, "compl": {}, "not": {},
	"not_eq": {}, "or": {}, "or_eq": {}, "xor": {}, "xor_eq": {},

	// =========================================================================
	// Metal Qualifiers and Types
	// =========================================================================
	"metal": {}, "std": {}, "main": {},
	"vertex": {}, "fragment": {}, "kernel": {},
	"device": {}, "constant": {}, "thread": {}, "threadgroup": {},
	"threadgroup_imageblock": {}, "ray_data": {}, "object_data": {},
	"half": {}, "uint": {}, "uchar": {}, "ushort": {}, "ulong": {},
	"size_t": {}, "ptrdiff_t": {}, "sampler": {},
	"texture1d": {}, "texture2d": {}, "texture3d": {}, "texturecube": {},
	"depth2d": {}, "array": {}, "packed_float3": {},
	"NAN": {}, "INFINITY": {}, "MAXFLOAT": {},

	// =========================================================================
	// Generated Interface Names
	// =========================================================================
	inputVar:  {},
	outputVar: {},
}

// isReserved reports whether name cannot be declared in MSL. Vector and
// matrix type spellings such as float4 or int2 are reserved as well.
func isReserved(name string) bool {
	if _, ok := reservedWords[name]; ok {
		return true
	}
	return isTypeShorthand(name)
}

// isTypeShorthand matches scalarN and scalarNxM for Metal's scalar names.
func isTypeShorthand(name string) bool {
	for _, base := range []string{"bool", "char", "uchar", "short", "ushort", "int", "uint", "long", "ulong", "half", "float"} {
		rest, ok := strings.CutPrefix(name, base)
		if !ok {
			continue
		}
		if len(rest) == 1 && rest[0] >= '2' && rest[0] <= '4' {
			return true
		}
		if len(rest) == 3 && rest[0] >= '2' && rest[0] <= '4' && rest[1] == 'x' && rest[2] >= '2' && rest[2] <= '4' {
			return true
		}
	}
	return false
}

// isIdentifier reports whether name matches [A-Za-z_][A-Za-z0-9_]*.
func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		letter := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if !letter && (i == 0 || r < '0' || r > '9') {
			return false
		}
	}
	return true
}
