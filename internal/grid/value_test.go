package grid

import (
	"encoding/json"
	"testing"
)

func TestValue_Equal(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"both null", Null(), Null(), true},
		{"zero value is null", Value{}, Null(), true},
		{"null vs empty string", Null(), String(""), false},
		{"null vs zero", Null(), Number(0), false},
		{"equal strings", String("x"), String("x"), true},
		{"different strings", String("x"), String("y"), false},
		{"equal numbers", Number(1.5), Number(1.5), true},
		{"different numbers", Number(1), Number(2), false},
		{"equal bools", Bool(true), Bool(true), true},
		{"different bools", Bool(true), Bool(false), false},
		{"number vs string of same text", Number(1), String("1"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
			// Equality is symmetric.
			if got := tt.b.Equal(tt.a); got != tt.want {
				t.Errorf("Equal() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValue_Display(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"null", Null(), ""},
		{"string", String("hello"), "hello"},
		{"integer number", Number(5), "5"},
		{"decimal number", Number(1.25), "1.25"},
		{"bool", Bool(true), "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Display(); got != tt.want {
				t.Errorf("Display() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValue_JSONRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		json string
	}{
		{"null", Null(), "null"},
		{"string", String("a"), `"a"`},
		{"number", Number(2.5), "2.5"},
		{"bool", Bool(false), "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.v)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(data) != tt.json {
				t.Errorf("Marshal() = %s, want %s", data, tt.json)
			}

			var back Value
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if !back.Equal(tt.v) {
				t.Errorf("round trip = %v, want %v", back, tt.v)
			}
		})
	}
}

func TestValue_UnmarshalRejectsComposite(t *testing.T) {
	var v Value
	if err := json.Unmarshal([]byte(`{"a":1}`), &v); err == nil {
		t.Error("Unmarshal() of object expected error, got nil")
	}
	if err := json.Unmarshal([]byte(`[1,2]`), &v); err == nil {
		t.Error("Unmarshal() of array expected error, got nil")
	}
}

func TestFromAny(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Value
	}{
		{"nil", nil, Null()},
		{"string", "x", String("x")},
		{"bytes", []byte("y"), String("y")},
		{"bool", true, Bool(true)},
		{"int", 7, Number(7)},
		{"int64", int64(-3), Number(-3)},
		{"float64", 2.5, Number(2.5)},
		{"uint32", uint32(9), Number(9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromAny(tt.in); !got.Equal(tt.want) {
				t.Errorf("FromAny(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFromAny_WideIntegersKeepPrecision(t *testing.T) {
	// float64 holds integers exactly only up to 2^53; wider values must
	// keep their decimal form so a big integer key is never rewritten
	// rounded.
	tests := []struct {
		name string
		in   any
		want Value
	}{
		{"largest exact int64", int64(1 << 53), Number(1 << 53)},
		{"smallest exact negative", int64(-(1 << 53)), Number(-(1 << 53))},
		{"one past exact", int64(1<<53 + 1), String("9007199254740993")},
		{"one past exact negative", int64(-(1<<53 + 1)), String("-9007199254740993")},
		{"max int64", int64(1<<63 - 1), String("9223372036854775807")},
		{"max uint64", uint64(1<<64 - 1), String("18446744073709551615")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromAny(tt.in); !got.Equal(tt.want) {
				t.Errorf("FromAny(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
