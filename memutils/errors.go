package memutils

import "github.com/pkg/errors"

// PowerOfTwoError is the error returned from CheckPow2 or other methods if the number being tested is not a power of two
var PowerOfTwoError error = errors.New("number must be a power of two")

// NegativeSizeError is the error returned from NewLayout when an element size or instance count is negative
var NegativeSizeError error = errors.New("size must not be negative")

// OverflowError is the error returned from NewLayout when a size does not fit in an int
var OverflowError error = errors.New("size overflows int")
