package value

// Add implements `+`: string concatenation if either operand
// is a string, else float addition if either is a float, else int
// addition with platform signed-64 wraparound.
func Add(a, b Value) (Value, error) {
	if a.kind == StringKind || b.kind == StringKind {
		return String(a.String() + b.String()), nil
	}
	if !a.IsNumber() || !b.IsNumber() {
		return Nil, typeErrorf("cannot add %s and %s", a.Kind(), b.Kind())
	}
	if a.kind == FloatKind || b.kind == FloatKind {
		return Float(a.AsFloat() + b.AsFloat()), nil
	}
	return Int(a.i + b.i), nil
}

// Sub implements numeric `-`.
func Sub(a, b Value) (Value, error) {
	if !a.IsNumber() || !b.IsNumber() {
		return Nil, typeErrorf("cannot subtract %s and %s", a.Kind(), b.Kind())
	}
	if a.kind == FloatKind || b.kind == FloatKind {
		return Float(a.AsFloat() - b.AsFloat()), nil
	}
	return Int(a.i - b.i), nil
}

// Mul implements numeric `*`.
func Mul(a, b Value) (Value, error) {
	if !a.IsNumber() || !b.IsNumber() {
		return Nil, typeErrorf("cannot multiply %s and %s", a.Kind(), b.Kind())
	}
	if a.kind == FloatKind || b.kind == FloatKind {
		return Float(a.AsFloat() * b.AsFloat()), nil
	}
	return Int(a.i * b.i), nil
}

// Div implements numeric `/`. Division by zero fails with ValueError.
func Div(a, b Value) (Value, error) {
	if !a.IsNumber() || !b.IsNumber() {
		return Nil, typeErrorf("cannot divide %s and %s", a.Kind(), b.Kind())
	}
	if a.kind == FloatKind || b.kind == FloatKind {
		divisor := b.AsFloat()
		if divisor == 0 {
			return Nil, valueErrorf("Division by zero")
		}
		return Float(a.AsFloat() / divisor), nil
	}
	if b.i == 0 {
		return Nil, valueErrorf("Division by zero")
	}
	return Int(a.i / b.i), nil
}

// Mod implements `%`, integer operands only.
func Mod(a, b Value) (Value, error) {
	if !a.IsInt() || !b.IsInt() {
		return Nil, typeErrorf("modulo requires integer operands, got %s and %s", a.Kind(), b.Kind())
	}
	if b.i == 0 {
		return Nil, valueErrorf("Modulo by zero")
	}
	return Int(a.i % b.i), nil
}

// Compare implements `<, <=, >, >=`: numeric operands compare
// as floats, string operands compare lexicographically, otherwise fails.
// It returns -1, 0, or 1.
func Compare(a, b Value) (int, error) {
	if a.IsNumber() && b.IsNumber() {
		af, bf := a.AsFloat(), b.AsFloat()
		switch {
		case af < bf:
			return -1, nil
		case af > bf:
			return 1, nil
		default:
			return 0, nil
		}
	}
	if a.kind == StringKind && b.kind == StringKind {
		switch {
		case a.s < b.s:
			return -1, nil
		case a.s > b.s:
			return 1, nil
		default:
			return 0, nil
		}
	}
	return 0, typeErrorf("cannot order %s and %s", a.Kind(), b.Kind())
}

// Negate implements unary `-`.
func Negate(v Value) (Value, error) {
	switch v.kind {
	case IntKind:
		return Int(-v.i), nil
	case FloatKind:
		return Float(-v.f), nil
	default:
		return Nil, typeErrorf("cannot negate %s", v.Kind())
	}
}

// Not implements unary `!`: the boolean of the operand's negated truthiness.
func Not(v Value) Value {
	return Bool(!v.Truthy())
}

// Index implements bracketed container access: Array with an int index
// (out-of-range fails), Object with a string key (missing key fails on
// read).
func Index(container, idx Value) (Value, error) {
	switch container.kind {
	case ArrayKind:
		if !idx.IsInt() {
			return Nil, typeErrorf("array index must be an int, got %s", idx.Kind())
		}
		elems := container.arr.Elements
		i := idx.i
		if i < 0 || i >= int64(len(elems)) {
			return Nil, valueErrorf("array index %d out of range [0, %d)", i, len(elems))
		}
		return elems[i], nil
	case ObjectKind:
		if !idx.IsString() {
			return Nil, typeErrorf("object key must be a string, got %s", idx.Kind())
		}
		val, ok := container.obj.Fields[idx.s]
		if !ok {
			return Nil, valueErrorf("object has no key %q", idx.s)
		}
		return val, nil
	default:
		return Nil, typeErrorf("cannot index into %s", container.Kind())
	}
}

// SetIndex implements bracketed container assignment: Array with an int
// index (out-of-range fails), Object with a string key (missing key is
// inserted).
func SetIndex(container, idx, val Value) error {
	switch container.kind {
	case ArrayKind:
		if !idx.IsInt() {
			return typeErrorf("array index must be an int, got %s", idx.Kind())
		}
		elems := container.arr.Elements
		i := idx.i
		if i < 0 || i >= int64(len(elems)) {
			return valueErrorf("array index %d out of range [0, %d)", i, len(elems))
		}
		elems[i] = val
		return nil
	case ObjectKind:
		if !idx.IsString() {
			return typeErrorf("object key must be a string, got %s", idx.Kind())
		}
		container.obj.Fields[idx.s] = val
		return nil
	default:
		return typeErrorf("cannot index into %s", container.Kind())
	}
}

// Member implements property access for Object (named entry, Nil if
// missing) and Device (fixed property set). Other receivers fail.
func Member(receiver Value, name string) (Value, error) {
	switch receiver.kind {
	case ObjectKind:
		if val, ok := receiver.obj.Fields[name]; ok {
			return val, nil
		}
		return Nil, nil
	case DeviceKind:
		d := receiver.dev
		switch name {
		case "serial":
			return String(d.Serial), nil
		case "model":
			return String(d.Model), nil
		case "screenWidth":
			return Int(int64(d.ScreenWidth)), nil
		case "screenHeight":
			return Int(int64(d.ScreenHeight)), nil
		case "androidVersion":
			return String(d.AndroidVersion), nil
		default:
			return Nil, valueErrorf("device has no property %q", name)
		}
	default:
		return Nil, typeErrorf("cannot access member %q of %s", name, receiver.Kind())
	}
}
