package protocol

import (
	"bytes"
	"io"
	"testing"
)

func TestTextFrameRoundTrip(t *testing.T) {
	data := EncodeText(FrameNavigate, "enter/physics-lab")
	f, err := DecodeFrame(data)
	if err != nil {
		t.Fatalf("DecodeFrame error: %v", err)
	}
	if f.Type != FrameNavigate {
		t.Errorf("Type = 0x%02x, want FrameNavigate", f.Type)
	}
	if f.Text != "enter/physics-lab" {
		t.Errorf("Text = %q, want %q", f.Text, "enter/physics-lab")
	}
}

func TestStylesheetFrameRoundTrip(t *testing.T) {
	css := []byte("body{margin:0}")
	f, err := DecodeFrame(EncodeStylesheet(css))
	if err != nil {
		t.Fatalf("DecodeFrame error: %v", err)
	}
	if f.Type != FrameSetStylesheet {
		t.Errorf("Type = 0x%02x, want FrameSetStylesheet", f.Type)
	}
	if !bytes.Equal(f.Data, css) {
		t.Errorf("Data = %q, want %q", f.Data, css)
	}
}

func TestViewportFrameRoundTrip(t *testing.T) {
	f, err := DecodeFrame(EncodeViewport(true))
	if err != nil {
		t.Fatalf("DecodeFrame error: %v", err)
	}
	if f.Type != FrameViewport || !f.Flag {
		t.Errorf("got %+v, want viewport mobile=true", f)
	}
}

func TestClearSurfaceFrame(t *testing.T) {
	f, err := DecodeFrame(EncodeClearSurface())
	if err != nil {
		t.Fatalf("DecodeFrame error: %v", err)
	}
	if f.Type != FrameClearSurface {
		t.Errorf("Type = 0x%02x, want FrameClearSurface", f.Type)
	}
}

func TestDecodeFrameErrors(t *testing.T) {
	if _, err := DecodeFrame(nil); err != io.ErrUnexpectedEOF {
		t.Errorf("empty: err = %v, want ErrUnexpectedEOF", err)
	}

	if _, err := DecodeFrame([]byte{0x7F}); err == nil {
		t.Error("unknown opcode: expected error")
	}

	// Length prefix claims more bytes than the buffer holds.
	truncated := []byte{byte(FrameSetTitle), 0x05, 'a', 'b'}
	if _, err := DecodeFrame(truncated); err != io.ErrUnexpectedEOF {
		t.Errorf("truncated: err = %v, want ErrUnexpectedEOF", err)
	}

	// Length prefix above the allocation cap.
	e := NewEncoder()
	e.WriteByte(byte(FrameSetTitle))
	e.WriteUvarint(MaxPayload + 1)
	if _, err := DecodeFrame(e.Bytes()); err != ErrAllocationTooLarge {
		t.Errorf("oversized: err = %v, want ErrAllocationTooLarge", err)
	}
}

func TestUvarintBoundaries(t *testing.T) {
	values := []uint64{0, 1, 0x7F, 0x80, 0x3FFF, 0x4000, 1<<32 - 1, 1<<63 + 5}
	for _, v := range values {
		e := NewEncoder()
		e.WriteUvarint(v)
		d := NewDecoder(e.Bytes())
		got, err := d.ReadUvarint()
		if err != nil {
			t.Fatalf("ReadUvarint(%d) error: %v", v, err)
		}
		if got != v {
			t.Errorf("round trip = %d, want %d", got, v)
		}
		if !d.EOF() {
			t.Errorf("decoder not at EOF after %d", v)
		}
	}
}
