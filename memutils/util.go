package memutils

import (
	cerrors "github.com/cockroachdb/errors"
)

type Number interface {
	~int | ~uint
}

func CheckPow2[T Number](number T, name string) error {
	if number&(number-1) != 0 {
		return cerrors.Wrapf(PowerOfTwoError, "%s is %d", name, number)
	}
	return nil
}

func AlignUp(value int, alignment uint) int {
	return (value + int(alignment) - 1) & int(^(alignment - 1))
}

// InstanceAlignment returns the smallest size at or above instanceSize that is a multiple of
// minOffsetAlignment, such as a device's minUniformBufferOffsetAlignment. A minOffsetAlignment of 0
// means the offset is unconstrained and instanceSize is returned as-is.
func InstanceAlignment(instanceSize int, minOffsetAlignment uint) int {
	DebugCheckPow2(minOffsetAlignment, "minimum offset alignment")

	if minOffsetAlignment > 0 {
		return AlignUp(instanceSize, minOffsetAlignment)
	}

	return instanceSize
}
