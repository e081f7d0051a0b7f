package buffer

import (
	"fmt"
	"unsafe"

	"github.com/vkngwrapper/instbuf/memutils"
)

// WriteValue copies value into the instance at index. T must be a fixed-size type without pointers
// and no larger than the buffer's ElementSize.
func WriteValue[T any](b *Buffer, index int, value *T) {
	size := int(unsafe.Sizeof(*value))
	checkValueSize(b, size)
	memutils.DebugCheckIndex(index, b.layout.InstanceCount)

	data := unsafe.Slice((*byte)(unsafe.Pointer(value)), size)
	b.WriteToBuffer(data, size, b.layout.Offset(index))
}

// ReadValue copies the instance at index out of the buffer as a T
func ReadValue[T any](b *Buffer, index int) T {
	var value T
	size := int(unsafe.Sizeof(value))
	checkValueSize(b, size)
	memutils.DebugCheckIndex(index, b.layout.InstanceCount)

	data := unsafe.Slice((*byte)(unsafe.Pointer(&value)), size)
	b.ReadFromBuffer(data, size, b.layout.Offset(index))
	return value
}

func checkValueSize(b *Buffer, size int) {
	if size > b.layout.ElementSize {
		panic(fmt.Sprintf("a value of %d bytes does not fit in an element of %d bytes", size, b.layout.ElementSize))
	}
}
