package value

import "testing"

func TestTruthiness(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"nil", Nil, false},
		{"false", Bool(false), false},
		{"true", Bool(true), true},
		{"zero int", Int(0), false},
		{"nonzero int", Int(1), true},
		{"zero float", Float(0), false},
		{"empty string", String(""), false},
		{"nonempty string", String("x"), true},
		{"empty array", NewArray(nil), false},
		{"nonempty array", NewArray([]Value{Int(1)}), true},
		{"empty object", NewObject(nil), false},
		{"device", NewDevice(&Device{Serial: "abc"}), true},
	}
	for _, tc := range tests {
		if got := tc.v.Truthy(); got != tc.want {
			t.Errorf("%s: Truthy() = %v, want %v", tc.name, got, tc.want)
		}
		// For any truthy v, !!v == true; for any falsy v, !!v == false.
		doubleNot := Not(Not(tc.v))
		if doubleNot.Bool() != tc.want {
			t.Errorf("%s: !!v = %v, want %v", tc.name, doubleNot.Bool(), tc.want)
		}
	}
}

func TestStringIdempotence(t *testing.T) {
	vals := []Value{Nil, Bool(true), Int(42), Float(3.5), String("hi"), NewArray([]Value{Int(1), String("a")})}
	for _, v := range vals {
		s1 := v.String()
		s2 := String(s1).String()
		if s1 != s2 {
			t.Errorf("ToString(ToString(%v)) = %q, want %q", v, s2, s1)
		}
	}
}

func TestAddStringConcatenation(t *testing.T) {
	got, err := Add(String("hi"), String(" there"))
	if err != nil {
		t.Fatal(err)
	}
	if got.Str() != "hi there" {
		t.Errorf("got %q", got.Str())
	}
	got, err = Add(String("n="), Int(5))
	if err != nil {
		t.Fatal(err)
	}
	if got.Str() != "n=5" {
		t.Errorf("got %q", got.Str())
	}
}

func TestAddNumeric(t *testing.T) {
	got, err := Add(Int(2), Int(3))
	if err != nil || got.Int() != 5 {
		t.Errorf("Add(2,3) = %v, %v", got, err)
	}
	got, err = Add(Int(2), Float(1.5))
	if err != nil || !got.IsFloat() || got.Float() != 3.5 {
		t.Errorf("Add(2,1.5) = %v, %v", got, err)
	}
}

func TestDivisionByZero(t *testing.T) {
	_, err := Div(Int(10), Int(0))
	if err == nil {
		t.Fatal("expected division by zero error")
	}
	opErr, ok := err.(*OpError)
	if !ok || opErr.Kind != ValueError {
		t.Fatalf("expected ValueError, got %v", err)
	}
}

func TestModByZero(t *testing.T) {
	_, err := Mod(Int(10), Int(0))
	if err == nil {
		t.Fatal("expected modulo by zero error")
	}
}

func TestEqualityAcrossKinds(t *testing.T) {
	if Int(1).Equal(String("1")) {
		t.Error("differing kinds must not be equal")
	}
	if !Nil.Equal(Nil) {
		t.Error("Nil == Nil")
	}
	if !Float(1.00000000001).Equal(Float(1.00000000002)) {
		t.Error("floats within 1e-10 tolerance should be equal")
	}
	if Float(1.0).Equal(Float(1.1)) {
		t.Error("floats outside tolerance should not be equal")
	}
}

func TestArrayObjectIdentityEquality(t *testing.T) {
	a1 := NewArray([]Value{Int(1)})
	a2 := NewArray([]Value{Int(1)})
	if a1.Equal(a2) {
		t.Error("distinct arrays with equal contents must not be == (identity semantics)")
	}
	if !a1.Equal(a1) {
		t.Error("an array must equal itself")
	}
}

func TestIndexArrayOutOfRange(t *testing.T) {
	arr := NewArray([]Value{Int(1), Int(2)})
	if _, err := Index(arr, Int(5)); err == nil {
		t.Error("expected out-of-range error")
	}
	v, err := Index(arr, Int(1))
	if err != nil || v.Int() != 2 {
		t.Errorf("Index(arr,1) = %v, %v", v, err)
	}
}

func TestIndexObjectInsertOnWrite(t *testing.T) {
	obj := NewObject(nil)
	if err := SetIndex(obj, String("k"), Int(5)); err != nil {
		t.Fatal(err)
	}
	v, err := Index(obj, String("k"))
	if err != nil || v.Int() != 5 {
		t.Errorf("got %v, %v", v, err)
	}
	if _, err := Index(obj, String("missing")); err == nil {
		t.Error("expected missing-key error on read")
	}
}

func TestDeviceMemberAccess(t *testing.T) {
	dev := NewDevice(&Device{Serial: "abc123", Model: "Pixel", ScreenWidth: 1080, ScreenHeight: 2400, AndroidVersion: "14"})
	v, err := Member(dev, "serial")
	if err != nil || v.Str() != "abc123" {
		t.Errorf("got %v, %v", v, err)
	}
	v, err = Member(dev, "screenWidth")
	if err != nil || v.Int() != 1080 {
		t.Errorf("got %v, %v", v, err)
	}
}

func TestCompareStringsLexicographic(t *testing.T) {
	c, err := Compare(String("apple"), String("banana"))
	if err != nil || c != -1 {
		t.Errorf("Compare(apple,banana) = %d, %v", c, err)
	}
}
