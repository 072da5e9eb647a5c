package util

import "encoding/binary"

const (
	MaxVarInt32Length = 5
	MaxVarInt64Length = 10
)

// EncodeVarInt32 writes value into data and returns the number of bytes written.
// data must have room for VarIntLength(value) bytes.
func EncodeVarInt32(data []byte, value uint32) uint32 {
	// 对于每个byte b，如果b的最高位为1，则说明后边还有其他byte，如果b的最高位为0，则说明这是最后一个byte
	// little endian
	const B uint8 = 128
	if value < (1 << 7) {
		data[0] = uint8(value)
		return 1
	} else if value < (1 << 14) {
		data[0] = uint8(value) | B
		data[1] = uint8(value >> 7)
		return 2
	} else if value < (1 << 21) {
		data[0] = uint8(value) | B
		data[1] = uint8(value>>7) | B
		data[2] = uint8(value >> 14)
		return 3
	} else if value < (1 << 28) {
		data[0] = uint8(value) | B
		data[1] = uint8(value>>7) | B
		data[2] = uint8(value>>14) | B
		data[3] = uint8(value >> 21)
		return 4
	}
	data[0] = uint8(value) | B
	data[1] = uint8(value>>7) | B
	data[2] = uint8(value>>14) | B
	data[3] = uint8(value>>21) | B
	data[4] = uint8(value >> 28)
	return 5
}

func EncodeVarInt64(data []byte, value uint64) uint32 {
	const B = 128
	idx := 0
	for value >= B {
		data[idx] = uint8(value) | B
		value >>= 7
		idx++
	}
	data[idx] = uint8(value)
	return uint32(idx + 1)
}

// AppendVarInt32 appends the varint encoding of value to dst.
func AppendVarInt32(dst []byte, value uint32) []byte {
	var buf [MaxVarInt32Length]byte
	n := EncodeVarInt32(buf[:], value)
	return append(dst, buf[:n]...)
}

func EncodeFixedUint64(data []byte, value uint64) {
	binary.LittleEndian.PutUint64(data, value)
}

func DecodeFixedUint64(data []byte) uint64 {
	return binary.LittleEndian.Uint64(data)
}

func EncodeFixedUint32(data []byte, value uint32) {
	binary.LittleEndian.PutUint32(data, value)
}

func DecodeFixedUint32(data []byte) uint32 {
	return binary.LittleEndian.Uint32(data)
}

func VarIntLength(value uint64) uint32 {
	length := uint32(1)
	for value >= 128 {
		value >>= 7
		length++
	}
	return length
}

// DecodeVarInt32 decodes a varint from the front of data. The terminating
// byte must be found within len(data) and within five bytes.
func DecodeVarInt32(data []byte) (value uint32, size uint32, err error) {
	shift := 0
	for i := 0; i < len(data) && shift <= 28; i++ {
		b := data[i]
		if shift == 28 && b > 0x0f {
			return 0, 0, NewLevelDbError(ErrCorruption, "varint32 overflows 32 bits")
		}
		value |= uint32(b&127) << shift
		size += 1
		if (b & 128) == 0 {
			return value, size, nil
		}
		shift += 7
	}
	return 0, 0, NewLevelDbError(ErrCorruption, "truncated varint32 in %d bytes", len(data))
}

func DecodeVarInt64(data []byte) (value uint64, size uint32, err error) {
	shift := 0
	for i := 0; i < len(data) && shift <= 63; i++ {
		b := data[i]
		if shift == 63 && b > 1 {
			return 0, 0, NewLevelDbError(ErrCorruption, "varint64 overflows 64 bits")
		}
		value |= uint64(b&127) << shift
		size += 1
		if (b & 128) == 0 {
			return value, size, nil
		}
		shift += 7
	}
	return 0, 0, NewLevelDbError(ErrCorruption, "truncated varint64 in %d bytes", len(data))
}
