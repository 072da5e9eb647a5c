package db

import (
	"fmt"
	"math"

	"memtable-golang/leveldb/util"
)

type ValueType uint8
type SequenceNumber uint64

const (
	// 注意: ValueTypeDeletion 必须比 ValueTypeValue 的值小
	// 因为在 skiplist 中，internalKey相同时，按 tag 从大到小排序
	// 查询时，LookupKey 中用的是 valueTypeForSeek
	// 如果某个 seq 执行的是删除操作，以这个 seq 查询时，要能 Seek 到这条删除记录
	ValueTypeDeletion ValueType = 0x0
	ValueTypeValue    ValueType = 0x1

	// valueTypeForSeek is the highest-numbered ValueType, so a lookup key
	// sorts before every entry with the same user key and sequence.
	valueTypeForSeek = ValueTypeValue
)

// MaxSequenceNumber leaves the bottom 8 bits of the tag for the type.
const MaxSequenceNumber SequenceNumber = (1 << 56) - 1

const internalKeyTagSize = 8

// maxUserKeySize keeps the internal key length within a varint32.
const maxUserKeySize = math.MaxUint32 - internalKeyTagSize

func (t ValueType) String() string {
	switch t {
	case ValueTypeDeletion:
		return "Deletion"
	case ValueTypeValue:
		return "Value"
	}
	return fmt.Sprintf("ValueType(%d)", uint8(t))
}

func (t ValueType) valid() bool {
	return t == ValueTypeDeletion || t == ValueTypeValue
}

func PackSequenceAndType(seq SequenceNumber, valueType ValueType) uint64 {
	return uint64(seq)<<8 | uint64(valueType)
}

func UnpackSequenceAndType(tag uint64) (SequenceNumber, ValueType) {
	return SequenceNumber(tag >> 8), ValueType(tag & 0xff)
}

type ParsedInternalKey struct {
	UserKey  Slice
	Sequence SequenceNumber
	Type     ValueType
}

func (k ParsedInternalKey) String() string {
	return fmt.Sprintf("%s@%d(%s)", k.UserKey, k.Sequence, k.Type)
}

// AppendInternalKey appends userKey ++ fixed64(seq<<8|type) to dst.
func AppendInternalKey(dst Slice, key ParsedInternalKey) Slice {
	var tag [internalKeyTagSize]byte
	util.EncodeFixedUint64(tag[:], PackSequenceAndType(key.Sequence, key.Type))
	dst = append(dst, key.UserKey...)
	return append(dst, tag[:]...)
}

func ParseInternalKey(internalKey Slice) (ParsedInternalKey, error) {
	if len(internalKey) < internalKeyTagSize {
		return ParsedInternalKey{}, util.NewLevelDbError(util.ErrCorruption,
			"internal key too short: %d bytes", len(internalKey))
	}
	seq, valueType := ExtractTag(internalKey)
	if !valueType.valid() {
		return ParsedInternalKey{}, util.NewLevelDbError(util.ErrCorruption,
			"unknown value type %d in internal key", uint8(valueType))
	}
	return ParsedInternalKey{
		UserKey:  ExtractUserKey(internalKey),
		Sequence: seq,
		Type:     valueType,
	}, nil
}

// ExtractUserKey REQUIRES: len(internalKey) >= 8
func ExtractUserKey(internalKey Slice) Slice {
	return internalKey[:len(internalKey)-internalKeyTagSize]
}

// ExtractTag REQUIRES: len(internalKey) >= 8
func ExtractTag(internalKey Slice) (SequenceNumber, ValueType) {
	return UnpackSequenceAndType(util.DecodeFixedUint64(internalKey[len(internalKey)-internalKeyTagSize:]))
}

// EntryLength returns the exact size of an encoded entry.
func EntryLength(userKeySize, valueSize int) int {
	internalKeySize := uint64(userKeySize) + internalKeyTagSize
	return int(util.VarIntLength(internalKeySize)) + int(internalKeySize) +
		int(util.VarIntLength(uint64(valueSize))) + valueSize
}

// EncodeEntry writes one memtable entry into data, which must be exactly
// EntryLength(len(userKey), len(value)) bytes.
//
// Format of an entry is concatenation of:
//
//	key_size     : varint32 of internal_key.size()
//	key bytes    : char[internal_key.size()]
//	tag          : uint64((sequence << 8) | type)
//	value_size   : varint32 of value.size()
//	value bytes  : char[value.size()]
func EncodeEntry(data Slice, seq SequenceNumber, valueType ValueType, userKey, value Slice) error {
	if len(userKey) > maxUserKeySize || uint64(len(value)) > math.MaxUint32 {
		return util.NewLevelDbError(util.ErrInvalidArgument,
			"entry too large: key %d bytes, value %d bytes", len(userKey), len(value))
	}
	if expected := EntryLength(len(userKey), len(value)); len(data) != expected {
		return util.NewLevelDbError(util.ErrInvalidArgument,
			"entry buffer is %d bytes, need exactly %d", len(data), expected)
	}

	keySize := uint32(len(userKey))
	internalKeySize := keySize + internalKeyTagSize

	currentLength := util.EncodeVarInt32(data, internalKeySize)
	copy(data[currentLength:], userKey)
	currentLength += keySize
	util.EncodeFixedUint64(data[currentLength:], PackSequenceAndType(seq, valueType))
	currentLength += internalKeyTagSize
	currentLength += util.EncodeVarInt32(data[currentLength:], uint32(len(value)))
	copy(data[currentLength:], value)
	return nil
}

// DecodeEntryPrefix returns views of the internal key and of everything
// after it, without copying.
func DecodeEntryPrefix(entry Slice) (internalKey Slice, rest Slice, err error) {
	keyLength, keyLengthSize, err := util.DecodeVarInt32(entry)
	if err != nil {
		return nil, nil, err
	}
	end := uint64(keyLengthSize) + uint64(keyLength)
	if end > uint64(len(entry)) {
		return nil, nil, util.NewLevelDbError(util.ErrCorruption,
			"internal key length %d runs past entry of %d bytes", keyLength, len(entry))
	}
	if keyLength < internalKeyTagSize {
		return nil, nil, util.NewLevelDbError(util.ErrCorruption,
			"internal key length %d shorter than its tag", keyLength)
	}
	return entry[keyLengthSize:end], entry[end:], nil
}

func DecodeEntry(entry Slice) (ParsedInternalKey, Slice, error) {
	internalKey, rest, err := DecodeEntryPrefix(entry)
	if err != nil {
		return ParsedInternalKey{}, nil, err
	}
	key, err := ParseInternalKey(internalKey)
	if err != nil {
		return ParsedInternalKey{}, nil, err
	}
	value, err := GetLengthPrefixedSlice(rest)
	if err != nil {
		return ParsedInternalKey{}, nil, err
	}
	return key, value, nil
}

func GetLengthPrefixedSlice(data Slice) (Slice, error) {
	length, lengthSize, err := util.DecodeVarInt32(data)
	if err != nil {
		return nil, err
	}
	end := uint64(lengthSize) + uint64(length)
	if end > uint64(len(data)) {
		return nil, util.NewLevelDbError(util.ErrCorruption,
			"length prefix %d runs past buffer of %d bytes", length, len(data))
	}
	return data[lengthSize:end], nil
}

// LookupKey is the memtable search key for a user key at a snapshot:
// varint32(len) ++ userKey ++ fixed64(seq<<8|valueTypeForSeek).
type LookupKey struct {
	data            Slice
	userKeyStartIdx uint32
}

// NewLookupKey clamps seq to MaxSequenceNumber so the tag cannot wrap.
func NewLookupKey(userKey Slice, seq SequenceNumber) *LookupKey {
	seq = min(seq, MaxSequenceNumber)
	internalKeySize := uint32(len(userKey)) + internalKeyTagSize
	internalKeySizeLength := util.VarIntLength(uint64(internalKeySize))
	totalLength := internalKeySizeLength + internalKeySize

	data := make(Slice, totalLength)
	util.EncodeVarInt32(data, internalKeySize)
	copy(data[internalKeySizeLength:], userKey)
	util.EncodeFixedUint64(data[internalKeySizeLength+uint32(len(userKey)):], PackSequenceAndType(seq, valueTypeForSeek))

	return &LookupKey{
		data:            data,
		userKeyStartIdx: internalKeySizeLength,
	}
}

func (key *LookupKey) MemTableKey() Slice {
	return key.data
}

func (key *LookupKey) InternalKey() Slice {
	return key.data[key.userKeyStartIdx:]
}

func (key *LookupKey) UserKey() Slice {
	return key.data[key.userKeyStartIdx : len(key.data)-internalKeyTagSize]
}
