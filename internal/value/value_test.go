package value

import "testing"

func TestNumberString(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{5, "5"},
		{5.5, "5.5"},
		{0, "0"},
		{-3, "-3"},
	}
	for _, tt := range tests {
		if got := NewNumber(tt.in).String(); got != tt.want {
			t.Errorf("Number(%v).String() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNumberNaNNotEqualToItself(t *testing.T) {
	nan := NewNumber(nanValue())
	if nan.Equal(nan) {
		t.Fatal("NaN should never equal itself")
	}
}

func nanValue() float64 {
	var zero float64
	return zero / zero
}

func TestStringInspectQuotesAndEscapes(t *testing.T) {
	s := NewString("a\n\"b\"\\c")
	want := `"a\n\"b\"\\c"`
	if got := s.Inspect(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCrossTypeEqualityIsAlwaysFalse(t *testing.T) {
	if NewNumber(1).Equal(NewString("1")) {
		t.Error("number should never equal string")
	}
	if NewBool(true).Equal(NewNumber(1)) {
		t.Error("bool should never equal number")
	}
}

func TestArrayCopyIsIndependent(t *testing.T) {
	a := NewArray([]Value{NewNumber(1), NewNumber(2), NewNumber(3)})
	b := a.Copy().(*Array)
	b.Elements = append(b.Elements, NewNumber(4))
	if len(a.Elements) != 3 {
		t.Fatalf("mutating the copy affected the original: %v", a.Elements)
	}
}

func TestArrayEqualityElementwise(t *testing.T) {
	a := NewArray([]Value{NewNumber(1), NewString("x")})
	b := NewArray([]Value{NewNumber(1), NewString("x")})
	c := NewArray([]Value{NewNumber(1), NewString("y")})
	if !a.Equal(b) {
		t.Error("expected equal arrays to compare equal")
	}
	if a.Equal(c) {
		t.Error("expected different arrays to compare unequal")
	}
}

func TestArrayStringRendersStringsQuoted(t *testing.T) {
	a := NewArray([]Value{NewString("hi"), NewNumber(2)})
	want := `["hi", 2]`
	if got := a.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDictPreservesInsertionOrder(t *testing.T) {
	d := NewDict()
	d.Set("b", NewNumber(2))
	d.Set("a", NewNumber(1))
	d.Set("b", NewNumber(99)) // overwrite should not reorder
	keys := d.Keys()
	if len(keys) != 2 || keys[0] != "b" || keys[1] != "a" {
		t.Fatalf("got keys %v, want [b a]", keys)
	}
	v, _ := d.Get("b")
	if !v.Equal(NewNumber(99)) {
		t.Errorf("overwrite did not take effect: %v", v)
	}
}

func TestDictCopyIsIndependent(t *testing.T) {
	d := NewDict()
	d.Set("k", NewNumber(1))
	cp := d.Copy().(*Dict)
	cp.Set("k", NewNumber(2))
	v, _ := d.Get("k")
	if !v.Equal(NewNumber(1)) {
		t.Fatalf("mutating the copy affected the original: %v", v)
	}
}

func TestUpperLowerRoundTrip(t *testing.T) {
	s := "Hello World"
	if got := Upper(Lower(Upper(s))); got != Upper(s) {
		t.Errorf("s.upper().lower().upper() = %q, want %q", got, Upper(s))
	}
}
