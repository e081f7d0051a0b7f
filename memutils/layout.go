package memutils

import (
	"math"

	cerrors "github.com/cockroachdb/errors"
)

// Layout describes how InstanceCount equally sized instances are packed into a single allocation.
// Each instance occupies AlignmentSize bytes, of which the first ElementSize bytes are meaningful.
type Layout struct {
	ElementSize   int
	AlignmentSize int
	InstanceCount int
}

// NewLayout computes the Layout for instanceCount instances of elementSize bytes each, with every
// instance beginning on a multiple of minOffsetAlignment. minOffsetAlignment must be 0 or a power of two.
func NewLayout(elementSize, instanceCount int, minOffsetAlignment uint) (Layout, error) {
	if elementSize < 0 {
		return Layout{}, cerrors.Wrapf(NegativeSizeError, "element size is %d", elementSize)
	}
	if instanceCount < 0 {
		return Layout{}, cerrors.Wrapf(NegativeSizeError, "instance count is %d", instanceCount)
	}
	if minOffsetAlignment > math.MaxInt {
		return Layout{}, cerrors.Wrapf(OverflowError, "minimum offset alignment is %d", minOffsetAlignment)
	}
	err := CheckPow2(minOffsetAlignment, "minimum offset alignment")
	if err != nil {
		return Layout{}, err
	}

	alignmentSize := InstanceAlignment(elementSize, minOffsetAlignment)
	if alignmentSize < elementSize {
		return Layout{}, cerrors.Wrapf(OverflowError, "element size %d aligned to %d", elementSize, minOffsetAlignment)
	}

	layout := Layout{
		ElementSize:   elementSize,
		AlignmentSize: alignmentSize,
		InstanceCount: instanceCount,
	}
	if layout.overflows() {
		return Layout{}, cerrors.Wrapf(OverflowError, "%d instances of %d bytes", instanceCount, alignmentSize)
	}

	return layout, nil
}

func (l Layout) overflows() bool {
	return l.AlignmentSize != 0 && l.InstanceCount > math.MaxInt/l.AlignmentSize
}

// TotalSize is the number of bytes needed to hold every instance
func (l Layout) TotalSize() int {
	return l.AlignmentSize * l.InstanceCount
}

// Offset is the byte offset of the instance at index
func (l Layout) Offset(index int) int {
	return index * l.AlignmentSize
}

// PaddingSize is the number of unused bytes trailing each instance
func (l Layout) PaddingSize() int {
	return l.AlignmentSize - l.ElementSize
}

func (l Layout) Validate() error {
	if l.AlignmentSize < l.ElementSize {
		return cerrors.Newf("alignment size %d is smaller than element size %d", l.AlignmentSize, l.ElementSize)
	}
	if l.InstanceCount < 0 {
		return cerrors.Newf("instance count %d is negative", l.InstanceCount)
	}
	if l.overflows() {
		return cerrors.Newf("total size of %d instances of %d bytes overflows", l.InstanceCount, l.AlignmentSize)
	}

	return nil
}
