// Package wire implements the binary packet format spoken over the
// galaxy server's websocket connection: packet headers, path addressing,
// length-prefixed payloads, and the typed reader/writer used to decode
// and encode payload fields.
package wire

import (
	"bytes"
	"fmt"
)

// Header bits select which optional path fields follow the command byte.
const (
	headerFlagSession       = 0x80
	headerFlagUniverseGroup = 0x40
	headerFlagPlayer        = 0x20
	headerFlagUniverse      = 0x10
	headerFlagShip          = 0x08
	headerFlagSub           = 0x04
	headerLengthMask        = 0x03
)

// ErrorCommand is the reserved command byte that marks a server error frame.
const ErrorCommand = 0xFF

// DefaultMaxPacketSize bounds payload size unless overridden by the caller.
const DefaultMaxPacketSize = 1 << 20

// Packet is one frame of the wire protocol: a command, an optional
// correlation (session) id, optional path addressing, and a payload.
type Packet struct {
	Command       byte
	Correlation   byte // 0 means server-initiated, no correlation
	UniverseGroup uint16
	Player        uint16
	Universe      byte
	Ship          byte
	Sub           byte
	Payload       []byte
}

// NewPacket builds a packet with no path addressing set.
func NewPacket(command byte) *Packet {
	return &Packet{Command: command}
}

// Reader returns a typed reader over the packet's payload.
func (p *Packet) Reader() *Reader {
	return NewReader(bytes.NewReader(p.Payload))
}

// Writer returns a typed writer seeded with the packet's current payload.
// Call SetPayload(w.Bytes()) once done writing to commit the result back.
func (p *Packet) Writer() *Writer {
	buf := bytes.NewBuffer(append([]byte(nil), p.Payload...))
	return NewWriter(buf)
}

// SetPayload commits the bytes produced by a Writer back onto the packet.
func (p *Packet) SetPayload(payload []byte) {
	p.Payload = payload
}

// ErrRequestedPacketSizeIsInvalid is returned when a decoded length
// prefix exceeds the configured maximum packet size.
type ErrRequestedPacketSizeIsInvalid struct {
	Max  uint32
	Was  uint32
}

func (e ErrRequestedPacketSizeIsInvalid) Error() string {
	return fmt.Sprintf("wire: requested packet size %d exceeds maximum of %d", e.Was, e.Max)
}

// ParsePacket decodes exactly one packet from r, enforcing maxPacketSize
// on the decoded payload length.
func ParsePacket(r *Reader, maxPacketSize uint32) (*Packet, error) {
	header, err := r.ReadByte()
	if err != nil {
		return nil, err
	}

	p := &Packet{}

	p.Command, err = r.ReadByte()
	if err != nil {
		return nil, err
	}

	if header&headerFlagSession != 0 {
		if p.Correlation, err = r.ReadByte(); err != nil {
			return nil, err
		}
	}
	if header&headerFlagUniverseGroup != 0 {
		if p.UniverseGroup, err = r.ReadUint16(); err != nil {
			return nil, err
		}
	}
	if header&headerFlagPlayer != 0 {
		if p.Player, err = r.ReadUint16(); err != nil {
			return nil, err
		}
	}
	if header&headerFlagUniverse != 0 {
		if p.Universe, err = r.ReadByte(); err != nil {
			return nil, err
		}
	}
	if header&headerFlagShip != 0 {
		if p.Ship, err = r.ReadByte(); err != nil {
			return nil, err
		}
	}
	if header&headerFlagSub != 0 {
		if p.Sub, err = r.ReadByte(); err != nil {
			return nil, err
		}
	}

	var length uint32
	switch header & headerLengthMask {
	case 0x00:
		length = 0
	case 0x01:
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		length = uint32(b) + 1
	case 0x02:
		v, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		length = uint32(v) + 257
	case 0x03:
		v, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		length = v + 65793
	}

	if length > maxPacketSize {
		return nil, ErrRequestedPacketSizeIsInvalid{Max: maxPacketSize, Was: length}
	}

	if length > 0 {
		p.Payload, err = r.ReadBytes(int(length))
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

// WriteTo encodes the packet (header, command, path fields, length, payload)
// into w.
func (p *Packet) WriteTo(w *Writer) error {
	var header byte

	if p.Correlation != 0 {
		header |= headerFlagSession
	}
	if p.UniverseGroup != 0 {
		header |= headerFlagUniverseGroup
	}
	if p.Player != 0 {
		header |= headerFlagPlayer
	}
	if p.Universe != 0 {
		header |= headerFlagUniverse
	}
	if p.Ship != 0 {
		header |= headerFlagShip
	}
	if p.Sub != 0 {
		header |= headerFlagSub
	}

	n := len(p.Payload)
	switch {
	case n > 65792:
		header |= 0x03
	case n > 256:
		header |= 0x02
	case n > 0:
		header |= 0x01
	}

	if err := w.WriteByte(header); err != nil {
		return err
	}
	if err := w.WriteByte(p.Command); err != nil {
		return err
	}
	if p.Correlation != 0 {
		if err := w.WriteByte(p.Correlation); err != nil {
			return err
		}
	}
	if p.UniverseGroup != 0 {
		if err := w.WriteUint16(p.UniverseGroup); err != nil {
			return err
		}
	}
	if p.Player != 0 {
		if err := w.WriteUint16(p.Player); err != nil {
			return err
		}
	}
	if p.Universe != 0 {
		if err := w.WriteByte(p.Universe); err != nil {
			return err
		}
	}
	if p.Ship != 0 {
		if err := w.WriteByte(p.Ship); err != nil {
			return err
		}
	}
	if p.Sub != 0 {
		if err := w.WriteByte(p.Sub); err != nil {
			return err
		}
	}

	switch {
	case n > 65792:
		if err := w.WriteUint32(uint32(n - 65793)); err != nil {
			return err
		}
	case n > 256:
		if err := w.WriteUint16(uint16(n - 257)); err != nil {
			return err
		}
	case n > 0:
		if err := w.WriteByte(byte(n - 1)); err != nil {
			return err
		}
	}

	if n > 0 {
		return w.WriteBytes(p.Payload)
	}
	return nil
}

// Encode serializes the packet to a fresh byte slice.
func (p *Packet) Encode() ([]byte, error) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := p.WriteTo(w); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SplitFrame decodes every packet concatenated within one websocket
// binary message. A single frame may carry several packets back to back.
func SplitFrame(frame []byte, maxPacketSize uint32) ([]*Packet, error) {
	r := NewReader(bytes.NewReader(frame))
	var packets []*Packet
	for r.Len() > 0 {
		p, err := ParsePacket(r, maxPacketSize)
		if err != nil {
			return nil, err
		}
		packets = append(packets, p)
	}
	return packets, nil
}

// JoinFrame concatenates the wire encoding of every packet into one frame,
// suitable for a single websocket binary message.
func JoinFrame(packets ...*Packet) ([]byte, error) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	for _, p := range packets {
		if err := p.WriteTo(w); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
