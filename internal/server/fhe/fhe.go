// Package fhe defines the encrypted-arithmetic capability the reveal core
// consumes. Ciphertexts are opaque handles; the core never inspects them.
package fhe

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

// Handle is an opaque reference to an encrypted value.
type Handle []byte

// Uninitialized is the sentinel returned for counters that do not exist.
var Uninitialized Handle

// Arithmetic is the narrow homomorphic interface used for topic counters.
type Arithmetic interface {
	// EncryptConstant returns a fresh encryption of v.
	EncryptConstant(v uint64) (Handle, error)
	// Add returns an encryption of a+b.
	Add(a, b Handle) (Handle, error)
	// IsInitialized reports whether h refers to a value.
	IsInitialized(h Handle) bool
}

// ErrForeignHandle is returned when a handle was not produced by the
// arithmetic it is passed to.
var ErrForeignHandle = errors.New("fhe: foreign handle")

var clearPrefix = []byte("clr:")

// Clear is a plaintext-counting Arithmetic for development and tests.
// Its handles carry the value in the clear and must never be used with
// confidential data.
type Clear struct{}

func (Clear) EncryptConstant(v uint64) (Handle, error) {
	return clearHandle(v), nil
}

func (Clear) Add(a, b Handle) (Handle, error) {
	x, err := ClearValue(a)
	if err != nil {
		return nil, err
	}
	y, err := ClearValue(b)
	if err != nil {
		return nil, err
	}
	return clearHandle(x + y), nil
}

func (Clear) IsInitialized(h Handle) bool {
	return len(h) > 0
}

// ClearValue decrypts a handle produced by Clear.
func ClearValue(h Handle) (uint64, error) {
	if !bytes.HasPrefix(h, clearPrefix) {
		return 0, ErrForeignHandle
	}
	v, err := strconv.ParseUint(string(h[len(clearPrefix):]), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrForeignHandle, err)
	}
	return v, nil
}

// ClearString returns a Clear-style handle wrapping an arbitrary string, for
// record fields submitted in development setups.
func ClearString(s string) Handle {
	return append(bytes.Clone(clearPrefix), s...)
}

// ClearText is the inverse of ClearString.
func ClearText(h Handle) (string, error) {
	if !bytes.HasPrefix(h, clearPrefix) {
		return "", ErrForeignHandle
	}
	return string(h[len(clearPrefix):]), nil
}

func clearHandle(v uint64) Handle {
	return ClearString(strconv.FormatUint(v, 10))
}
