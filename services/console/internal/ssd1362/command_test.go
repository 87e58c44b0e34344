package ssd1362

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeTable(t *testing.T) {
	cases := []struct {
		cmd  Command
		want []byte
	}{
		{ColumnAddress(0, 0x7F), []byte{0x15, 0x00, 0x7F}},
		{RowAddress(0, 0x3F), []byte{0x75, 0x00, 0x3F}},
		{Contrast(0x7F), []byte{0x81, 0x7F}},
		{Remap(0x43), []byte{0xA0, 0x43}},
		{StartLine(5), []byte{0xA1, 0x05}},
		{DisplayOffset(9), []byte{0xA2, 0x09}},
		{VScrollArea(8, 56), []byte{0xA3, 8, 56}},
		{Mode(ModeNormal), []byte{0xA4}},
		{Mode(ModeAllOn), []byte{0xA5}},
		{Mode(ModeAllOff), []byte{0xA6}},
		{Mode(ModeInverse), []byte{0xA7}},
		{Multiplex(0x3F), []byte{0xA8, 0x3F}},
		{InternalVDD(true), []byte{0xAB, 0x01}},
		{InternalVDD(false), []byte{0xAB, 0x00}},
		{InternalIREF(true), []byte{0xAD, 0x9E}},
		{InternalIREF(false), []byte{0xAD, 0x8E}},
		{DisplayOn(true), []byte{0xAF}},
		{DisplayOn(false), []byte{0xAE}},
		{PhaseLength(0x11), []byte{0xB1, 0x11}},
		{DisplayClockDiv(0xF, 0x0), []byte{0xB3, 0xF0}},
		{DisplayClockDiv(0x3, 0x2), []byte{0xB3, 0x32}},
		{DisplayClockDiv(0x1F, 0x2A), []byte{0xB3, 0xFA}},
		{PreChargePeriod(4), []byte{0xB6, 0x04}},
		{DefaultGrayScale(), []byte{0xB9}},
		{PreChargeVoltage(0x04), []byte{0xBC, 0x04}},
		{PreChargeCapacitor(true), []byte{0xBD, 0x01}},
		{VcomhDeselect(Vcomh072), []byte{0xBE, 0x00}},
		{VcomhDeselect(Vcomh082), []byte{0xBE, 0x05}},
		{VcomhDeselect(Vcomh086), []byte{0xBE, 0x07}},
		{CommandLock(false), []byte{0xFD, 0x12}},
		{CommandLock(true), []byte{0xFD, 0x16}},
	}
	for _, tc := range cases {
		f := tc.cmd.Encode()
		require.Equal(t, tc.want, f.Slice(), tc.cmd.Kind().String())
		require.Equal(t, len(tc.want), f.Len)
	}
}

// One representative per kind, built from arbitrary parameters.
func build(k Kind, a, b uint8) Command {
	switch k {
	case KindColumnAddress:
		return ColumnAddress(a, b)
	case KindRowAddress:
		return RowAddress(a, b)
	case KindContrast:
		return Contrast(a)
	case KindRemap:
		return Remap(a)
	case KindStartLine:
		return StartLine(a)
	case KindDisplayOffset:
		return DisplayOffset(a)
	case KindVScrollArea:
		return VScrollArea(a, b)
	case KindMode:
		return Mode(DisplayMode(a % 4))
	case KindMultiplex:
		return Multiplex(a)
	case KindInternalVDD:
		return InternalVDD(a&1 == 1)
	case KindInternalIREF:
		return InternalIREF(a&1 == 1)
	case KindDisplayOn:
		return DisplayOn(a&1 == 1)
	case KindPhaseLength:
		return PhaseLength(a)
	case KindDisplayClockDiv:
		return DisplayClockDiv(a, b)
	case KindPreChargePeriod:
		return PreChargePeriod(a)
	case KindDefaultGrayScale:
		return DefaultGrayScale()
	case KindPreChargeVoltage:
		return PreChargeVoltage(a)
	case KindPreChargeCapacitor:
		return PreChargeCapacitor(a&1 == 1)
	case KindVcomhDeselect:
		return VcomhDeselect([]VcomhLevel{Vcomh072, Vcomh082, Vcomh086}[a%3])
	default:
		return CommandLock(a&1 == 1)
	}
}

func TestLengthAndOpcodeStableAcrossParameters(t *testing.T) {
	// Flag commands fold the parameter into the opcode byte.
	foldsParam := map[Kind]bool{KindMode: true, KindDisplayOn: true}
	for k := Kind(0); k < numKinds; k++ {
		ref := build(k, 0, 0).Encode()
		for a := 0; a < 256; a += 7 {
			for b := 0; b < 256; b += 31 {
				c := build(k, uint8(a), uint8(b))
				require.Equal(t, k, c.Kind())
				f := c.Encode()
				require.Equal(t, ref.Len, f.Len, k.String())
				require.True(t, f.Len >= 1 && f.Len <= 3)
				if foldsParam[k] {
					require.Equal(t, ref.Bytes[0]&^0x3, f.Bytes[0]&^0x3, k.String())
				} else {
					require.Equal(t, ref.Bytes[0], f.Bytes[0], k.String())
				}
				require.Equal(t, f, c.Encode(), "encoding is pure")
				require.Equal(t, f.Bytes[0], c.Opcode())
			}
		}
	}
}

type recIface struct {
	cmds [][]byte
	data [][]byte
	err  error
}

func (r *recIface) SendCommands(p []byte) error {
	r.cmds = append(r.cmds, append([]byte(nil), p...))
	return r.err
}

func (r *recIface) SendData(p []byte) error {
	r.data = append(r.data, append([]byte(nil), p...))
	return r.err
}

func TestSendUsesCommandChannel(t *testing.T) {
	var r recIface
	require.NoError(t, DisplayClockDiv(0xF, 0).Send(&r))
	require.Equal(t, [][]byte{{0xB3, 0xF0}}, r.cmds)
	require.Empty(t, r.data)
}

func TestSendAllStopsAtFirstError(t *testing.T) {
	r := recIface{err: errors.New("bus")}
	err := SendAll(&r, PowerOn)
	require.EqualError(t, err, "bus")
	require.Len(t, r.cmds, 1)
}

func TestKindNames(t *testing.T) {
	require.Equal(t, "command_lock", KindCommandLock.String())
	require.Equal(t, "unknown", numKinds.String())
}
