package vector

import (
	"encoding/base64"
	"errors"
	"testing"
)

func TestEncodeDecode(t *testing.T) {
	v := []float32{0.25, -1.5, 3}
	s, err := Encode(v)
	if err != nil {
		t.Fatal(err)
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "[0.25,-1.5,3]" {
		t.Errorf("encoded JSON = %s", raw)
	}
	got, err := Decode(s)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[1] != -1.5 {
		t.Errorf("Decode() = %v", got)
	}
}

func TestDecode_errors(t *testing.T) {
	if _, err := Decode("  "); !errors.Is(err, ErrEmptyEncoding) {
		t.Errorf("blank input: got %v", err)
	}
	if _, err := Decode("not base64!"); err == nil {
		t.Error("expected base64 error")
	}
	if _, err := Decode(base64.StdEncoding.EncodeToString([]byte(`{"a":1}`))); err == nil {
		t.Error("expected JSON error")
	}
}

func TestBytesRoundTrip(t *testing.T) {
	v := []float32{1.5, -2, 0}
	got := FromBytes(ToBytes(v))
	if len(got) != len(v) {
		t.Fatalf("len = %d", len(got))
	}
	for i := range v {
		if got[i] != v[i] {
			t.Errorf("index %d: got %v want %v", i, got[i], v[i])
		}
	}
	if len(FromBytes([]byte{1, 2, 3})) != 0 {
		t.Error("partial value should be ignored")
	}
}
