package util

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

type ErrorNo uint32

const (
	ErrOk ErrorNo = iota
	ErrUnknown
	// ErrCorruption reports a length-prefixed field that runs past its buffer
	// or an internal key too short to hold its tag.
	ErrCorruption
	ErrAllocationFailed
	ErrInvalidArgument
)

var errorNoNames = map[ErrorNo]string{
	ErrOk:               "ok",
	ErrUnknown:          "unknown",
	ErrCorruption:       "corruption",
	ErrAllocationFailed: "allocation failed",
	ErrInvalidArgument:  "invalid argument",
}

func (no ErrorNo) String() string {
	if name, ok := errorNoNames[no]; ok {
		return name
	}
	return fmt.Sprintf("ErrorNo(%d)", uint32(no))
}

type LevelDbError struct {
	errorNo ErrorNo
	msg     string
}

func NewLevelDbError(errNo ErrorNo, msg string, args ...any) *LevelDbError {
	return &LevelDbError{
		errorNo: errNo,
		msg:     fmt.Sprintf(msg, args...),
	}
}

func (err *LevelDbError) Error() string {
	return fmt.Sprintf("ErrorNo: %d (%s), Msg: %s", err.errorNo, err.errorNo, err.msg)
}

// GetErrorNo unwraps err looking for a LevelDbError. Wrapped errors keep
// their code.
func GetErrorNo(err error) ErrorNo {
	if err == nil {
		return ErrOk
	}
	var levelDbErr *LevelDbError
	if !errors.As(err, &levelDbErr) {
		return ErrUnknown
	}
	return levelDbErr.errorNo
}

func IsCorruption(err error) bool {
	return GetErrorNo(err) == ErrCorruption
}

func IsAllocationFailed(err error) bool {
	return GetErrorNo(err) == ErrAllocationFailed
}
