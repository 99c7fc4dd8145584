package metadata

import "testing"

func TestReadCompressedUint_OneByte(t *testing.T) {
	v, n, err := readCompressedUint([]byte{0x03})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 3 || n != 1 {
		t.Errorf("expected (3, 1), got (%d, %d)", v, n)
	}
}

func TestReadCompressedUint_TwoByte(t *testing.T) {
	// 0x3FFF is the largest two-byte value: 0xBF 0xFF per §II.23.2.
	v, n, err := readCompressedUint([]byte{0xBF, 0xFF})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0x3FFF || n != 2 {
		t.Errorf("expected (0x3FFF, 2), got (0x%x, %d)", v, n)
	}
}

func TestReadCompressedUint_FourByte(t *testing.T) {
	v, n, err := readCompressedUint([]byte{0xC0, 0x00, 0x00, 0x04})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 4 || n != 4 {
		t.Errorf("expected (4, 4), got (%d, %d)", v, n)
	}
}

func TestHeapsString(t *testing.T) {
	h := &heaps{strings: []byte("\x00Foo\x00Bar\x00")}
	s, err := h.string(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != "Foo" {
		t.Errorf("expected %q, got %q", "Foo", s)
	}
}

func TestHeapsString_ZeroIsEmpty(t *testing.T) {
	h := &heaps{strings: []byte("\x00Foo\x00")}
	s, err := h.string(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != "" {
		t.Errorf("expected empty string for index 0, got %q", s)
	}
}

func TestHeapsBlob(t *testing.T) {
	h := &heaps{blob: []byte{0x00, 0x03, 0x01, 0x02, 0x03}}
	b, err := h.blobBytes(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b) != 3 || b[0] != 1 || b[1] != 2 || b[2] != 3 {
		t.Errorf("expected [1 2 3], got %v", b)
	}
}

func TestHeapsGUID(t *testing.T) {
	guidBytes := make([]byte, 16)
	for i := range guidBytes {
		guidBytes[i] = byte(i)
	}
	h := &heaps{guid: guidBytes}
	g, err := h.guidValue(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g != [16]byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15} {
		t.Errorf("unexpected GUID bytes: %v", g)
	}
}

func TestDecodeCoded(t *testing.T) {
	k := codedIndexKind{2, []tableID{tblTypeDef, tblTypeRef, tblTypeSpec}}
	table, rid := decodeCoded(k, (5<<2)|1)
	if table != tblTypeRef || rid != 5 {
		t.Errorf("expected (tblTypeRef, 5), got (%v, %d)", table, rid)
	}
}

func TestDecodeCoded_NoneSlot(t *testing.T) {
	table, rid := decodeCoded(hasCustomAttribute, 8) // tag 8 -> Permission slot, tblNone
	if table != tblNone || rid != 0 {
		t.Errorf("expected (tblNone, 0) for an unused slot, got (%v, %d)", table, rid)
	}
}

func TestFormatGUID_ByteOrder(t *testing.T) {
	g := [16]byte{0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88, 0x99, 0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF, 0x00}
	got := FormatGUID(g)
	want := "44332211-6655-8877-99AA-BBCCDDEEFF00"
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}
