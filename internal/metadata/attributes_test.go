package metadata

import "testing"

func TestGUID(t *testing.T) {
	// prolog 0x0001, UInt32 a=0x12345678 (LE), UInt16 b=0x9ABC, UInt16 c=0xDEF0,
	// then 8 bytes 00..07.
	blob := []byte{
		0x01, 0x00,
		0x78, 0x56, 0x34, 0x12,
		0xBC, 0x9A,
		0xF0, 0xDE,
		0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07,
	}
	g, err := GUID(CustomAttribute{Value: blob})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [16]byte{0x78, 0x56, 0x34, 0x12, 0xBC, 0x9A, 0xF0, 0xDE, 0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07}
	if g != want {
		t.Errorf("expected %v, got %v", want, g)
	}
}

func TestStringArg(t *testing.T) {
	// prolog, then SerString "Foo" (length 3).
	blob := []byte{0x01, 0x00, 0x03, 'F', 'o', 'o'}
	s, err := StringArg(CustomAttribute{Value: blob})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != "Foo" {
		t.Errorf("expected Foo, got %q", s)
	}
}

func TestStringArg_Null(t *testing.T) {
	blob := []byte{0x01, 0x00, 0xFF}
	s, err := StringArg(CustomAttribute{Value: blob})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != "" {
		t.Errorf("expected empty string for a null SerString, got %q", s)
	}
}

func TestArgReader_RejectsBadPrefix(t *testing.T) {
	_, err := newArgReader([]byte{0x02, 0x00})
	if err == nil {
		t.Fatalf("expected an error for a bad custom attribute prolog")
	}
}

func TestFormatGUID(t *testing.T) {
	g := [16]byte{0x78, 0x56, 0x34, 0x12, 0xBC, 0x9A, 0xF0, 0xDE, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	got := FormatGUID(g)
	want := "12345678-9ABC-DEF0-0102-030405060708"
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}
