package metadata

import "testing"

func TestConstant_GUID(t *testing.T) {
	c := &Constant{Raw: []byte{
		0x78, 0x56, 0x34, 0x12,
		0xBC, 0x9A,
		0xF0, 0xDE,
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
	}}
	want := [16]byte{0x78, 0x56, 0x34, 0x12, 0xBC, 0x9A, 0xF0, 0xDE, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	if got := c.GUID(); got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestConstant_Int32UInt32(t *testing.T) {
	c := &Constant{Raw: []byte{0xFF, 0xFF, 0xFF, 0xFF}}
	if c.Int32() != -1 {
		t.Errorf("expected -1, got %d", c.Int32())
	}
	if c.UInt32() != 0xFFFFFFFF {
		t.Errorf("expected 0xFFFFFFFF, got %x", c.UInt32())
	}
}

func TestInterfaceImpl_IsDefault(t *testing.T) {
	withMarker := InterfaceImpl{Attributes: []CustomAttribute{
		{Namespace: "Windows.Foundation.Metadata", Name: "DefaultAttribute"},
	}}
	if !withMarker.IsDefault() {
		t.Errorf("expected IsDefault to be true when DefaultAttribute is present")
	}

	without := InterfaceImpl{Attributes: []CustomAttribute{
		{Namespace: "Windows.Foundation.Metadata", Name: "OverloadAttribute"},
	}}
	if without.IsDefault() {
		t.Errorf("expected IsDefault to be false without DefaultAttribute")
	}
}
