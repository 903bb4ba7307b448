package xilcore

import "strings"

// Logic is a single four-valued-plus logic scalar, modeled after
// IEEE-1164 std_logic: '0', '1', 'Z' (high impedance), '-' (don't
// care), 'X'/'U' (unknown/uninitialized), 'L'/'H' (weak low/high) and
// 'W' (weak unknown). Only '0', '1' and '-' are honored by equality
// and arithmetic lowering; the rest round-trip through String/Equal but
// are otherwise implementation-defined, as spec'd.
type Logic byte

// Recognized Logic values.
const (
	Logic0        Logic = '0'
	Logic1        Logic = '1'
	LogicZ        Logic = 'Z'
	LogicDontCare Logic = '-'
	LogicX        Logic = 'X'
	LogicU        Logic = 'U'
	LogicL        Logic = 'L'
	LogicH        Logic = 'H'
	LogicW        Logic = 'W'
)

// String returns the single-character representation of l.
func (l Logic) String() string { return string(rune(l)) }

// Equal compares l against a single-character literal, e.g. l.Equal("1").
func (l Logic) Equal(lit string) bool {
	return len(lit) == 1 && byte(l) == lit[0]
}

// IsOne reports whether l is the literal '1'.
func (l Logic) IsOne() bool { return l == Logic1 }

// IsZero reports whether l is the literal '0'.
func (l Logic) IsZero() bool { return l == Logic0 }

// Not returns the logical complement of l for the two defined values;
// any other value is returned unchanged (implementation-defined, as
// spec'd for don't-care/unknown inputs).
func (l Logic) Not() Logic {
	switch l {
	case Logic0:
		return Logic1
	case Logic1:
		return Logic0
	default:
		return l
	}
}

// LogicVector is a fixed, statically known width vector of Logic
// values, most-significant bit first in bits[0].
//
// Width is immutable after construction: every method that would
// change the bit count returns a new LogicVector rather than mutating
// the receiver.
type LogicVector struct {
	bits []Logic
}

// Width returns the vector's bit width.
func (v LogicVector) Width() int { return len(v.bits) }

// Zeros returns a width-w vector of '0's.
func Zeros(w int) LogicVector { return fill(w, Logic0) }

// Ones returns a width-w vector of '1's.
func Ones(w int) LogicVector { return fill(w, Logic1) }

// DontCares returns a width-w vector of '-'s.
func DontCares(w int) LogicVector { return fill(w, LogicDontCare) }

func fill(w int, l Logic) LogicVector {
	if w < 0 {
		panic(newOutOfRange("LogicVector width", w, "must be >= 0"))
	}
	b := make([]Logic, w)
	for i := range b {
		b[i] = l
	}
	return LogicVector{b}
}

// FromLogics builds a vector from explicit bits, MSB first.
func FromLogics(bits ...Logic) LogicVector {
	b := make([]Logic, len(bits))
	copy(b, bits)
	return LogicVector{b}
}

// Bit returns the bit at position i, where 0 is the least significant bit.
func (v LogicVector) Bit(i int) Logic {
	return v.bits[len(v.bits)-1-i]
}

// WithBit returns a copy of v with bit i (0 = LSB) set to l.
func (v LogicVector) WithBit(i int, l Logic) LogicVector {
	b := make([]Logic, len(v.bits))
	copy(b, v.bits)
	b[len(b)-1-i] = l
	return LogicVector{b}
}

// Concat concatenates vectors MSB-to-LSB: Concat(hi, lo) puts hi in the
// upper bits of the result.
func Concat(vs ...LogicVector) LogicVector {
	var b []Logic
	for _, v := range vs {
		b = append(b, v.bits...)
	}
	return LogicVector{b}
}

// Slice returns bits [high:low] inclusive, 0-indexed from the LSB, as a
// new vector of width high-low+1.
func (v LogicVector) Slice(high, low int) LogicVector {
	if low < 0 || high < low || high >= len(v.bits) {
		panic(newOutOfRange("LogicVector.Slice", high, "out of [0, width) range"))
	}
	b := make([]Logic, high-low+1)
	for i := range b {
		b[len(b)-1-i] = v.Bit(low + i)
	}
	return LogicVector{b}
}

// String renders the vector MSB first, e.g. "0110".
func (v LogicVector) String() string {
	var sb strings.Builder
	for _, l := range v.bits {
		sb.WriteByte(byte(l))
	}
	return sb.String()
}

// IsBinary reports whether every bit is '0' or '1', the precondition
// for reinterpreting the vector as an unsigned integer.
func (v LogicVector) IsBinary() bool {
	for _, l := range v.bits {
		if l != Logic0 && l != Logic1 {
			return false
		}
	}
	return true
}

// AsUnsigned reinterprets v as an unsigned integer. It panics if v
// contains any bit outside {'0','1'}; callers must check IsBinary
// first when the vector may carry don't-cares.
func (v LogicVector) AsUnsigned() uint64 {
	if !v.IsBinary() {
		panic(newInvalidConfiguration("LogicVector.AsUnsigned", "vector contains non-binary bits"))
	}
	var u uint64
	for i := 0; i < len(v.bits); i++ {
		u <<= 1
		if v.bits[i] == Logic1 {
			u |= 1
		}
	}
	return u
}

// Unsigned is an unsigned integer of statically known width W, backed
// by a canonical LogicVector view.
type Unsigned struct {
	v LogicVector
}

// UnsignedFromVector reinterprets v as an Unsigned of its own width.
// Panics if v is not binary; see LogicVector.AsUnsigned.
func UnsignedFromVector(v LogicVector) Unsigned {
	if !v.IsBinary() {
		panic(newInvalidConfiguration("UnsignedFromVector", "vector contains non-binary bits"))
	}
	return Unsigned{v}
}

// FromUint builds an Unsigned of width w from v. It panics if v does
// not fit in w bits (OutOfRange), per spec.
func FromUint(v uint64, w int) Unsigned {
	if w < 0 {
		panic(newOutOfRange("Unsigned width", w, "must be >= 0"))
	}
	if w < 64 && v >= (uint64(1)<<uint(w)) {
		panic(newOutOfRange("FromUint value", v, "does not fit in declared width"))
	}
	bits := make([]Logic, w)
	for i := 0; i < w; i++ {
		if v&(uint64(1)<<uint(i)) != 0 {
			bits[w-1-i] = Logic1
		} else {
			bits[w-1-i] = Logic0
		}
	}
	return Unsigned{LogicVector{bits}}
}

// Width returns the declared bit width.
func (u Unsigned) Width() int { return u.v.Width() }

// Value returns the canonical LogicVector view of u.
func (u Unsigned) Value() LogicVector { return u.v }

// Uint64 returns u's numeric value.
func (u Unsigned) Uint64() uint64 { return u.v.AsUnsigned() }

// Resize truncates (w < Width()) or zero-extends (w > Width()) u to a
// new width w.
func (u Unsigned) Resize(w int) Unsigned {
	if w < 0 {
		panic(newOutOfRange("Unsigned.Resize width", w, "must be >= 0"))
	}
	cur := u.Width()
	if w == 0 {
		return Unsigned{Zeros(0)}
	}
	if w <= cur {
		return Unsigned{u.v.Slice(w-1, 0)}
	}
	return Unsigned{Concat(Zeros(w-cur), u.v)}
}

// AddMod1 returns u+1, wrapping modulo 2^W (the BCU's linear-successor
// arithmetic).
func (u Unsigned) AddMod1() Unsigned {
	w := u.Width()
	if w == 0 {
		return u
	}
	if w >= 64 {
		return FromUint(u.Uint64()+1, w)
	}
	mask := (uint64(1) << uint(w)) - 1
	return FromUint((u.Uint64()+1)&mask, w)
}
