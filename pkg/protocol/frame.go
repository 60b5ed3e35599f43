package protocol

import "fmt"

// FrameType identifies the operation carried by a frame.
type FrameType byte

// Server-to-client frames drive the surface.
const (
	FrameSetTitle      FrameType = 0x01 // Text: document title
	FrameSetContent    FrameType = 0x02 // Text: surface markup
	FrameSetStylesheet FrameType = 0x03 // Data: stylesheet bytes
	FrameClearSurface  FrameType = 0x04 // no payload
	FrameNavPush       FrameType = 0x05 // Text: path pushed onto history
)

// Client-to-server frames report intents.
const (
	FrameNavigate FrameType = 0x10 // Text: target path
	FramePopState FrameType = 0x11 // Text: path restored by back/forward
	FrameViewport FrameType = 0x12 // Flag: mobile viewport
)

// Frame is a decoded wire frame. Which fields are meaningful depends on
// Type; unused fields are zero.
type Frame struct {
	Type FrameType
	Text string
	Data []byte
	Flag bool
}

// EncodeText encodes a frame carrying a single string payload.
func EncodeText(t FrameType, text string) []byte {
	e := NewEncoder()
	e.WriteByte(byte(t))
	e.WriteString(text)
	return e.Bytes()
}

// EncodeStylesheet encodes a FrameSetStylesheet.
func EncodeStylesheet(css []byte) []byte {
	e := NewEncoder()
	e.WriteByte(byte(FrameSetStylesheet))
	e.WriteLenBytes(css)
	return e.Bytes()
}

// EncodeClearSurface encodes a FrameClearSurface.
func EncodeClearSurface() []byte {
	return []byte{byte(FrameClearSurface)}
}

// EncodeViewport encodes a FrameViewport.
func EncodeViewport(mobile bool) []byte {
	e := NewEncoder()
	e.WriteByte(byte(FrameViewport))
	e.WriteBool(mobile)
	return e.Bytes()
}

// DecodeFrame decodes a single wire frame.
func DecodeFrame(data []byte) (Frame, error) {
	d := NewDecoder(data)
	op, err := d.ReadByte()
	if err != nil {
		return Frame{}, err
	}

	f := Frame{Type: FrameType(op)}
	switch f.Type {
	case FrameSetTitle, FrameSetContent, FrameNavPush, FrameNavigate, FramePopState:
		f.Text, err = d.ReadString()
	case FrameSetStylesheet:
		f.Data, err = d.ReadLenBytes()
	case FrameClearSurface:
		// no payload
	case FrameViewport:
		f.Flag, err = d.ReadBool()
	default:
		return Frame{}, fmt.Errorf("protocol: unknown frame type 0x%02x", op)
	}
	if err != nil {
		return Frame{}, err
	}
	return f, nil
}
