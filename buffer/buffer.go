package buffer

import (
	"unsafe"

	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/instbuf/device"
	"github.com/vkngwrapper/instbuf/internal/vulkan"
	"github.com/vkngwrapper/instbuf/memutils"
	"golang.org/x/exp/slog"
)

// WholeSize can be passed as a size to Map, WriteToBuffer, ReadFromBuffer, Flush, Invalidate and
// DescriptorInfo to address the entire buffer
const WholeSize = -1

// DeviceContext is the device-side collaborator of a Buffer. *device.Context satisfies it.
//
//go:generate mockgen -source buffer.go -destination ./mocks/device_context.go -package mocks
type DeviceContext interface {
	CreateBuffer(size int, usage core1_0.BufferUsageFlags, properties core1_0.MemoryPropertyFlags) (device.BufferMemory, common.VkResult, error)
	DestroyBuffer(buffer core1_0.Buffer)
	FreeMemory(memoryTypeIndex int, size int, memory core1_0.DeviceMemory)
	WaitIdle() (common.VkResult, error)
	FlushMappedMemoryRanges(ranges []core1_0.MappedMemoryRange) (common.VkResult, error)
	InvalidateMappedMemoryRanges(ranges []core1_0.MappedMemoryRange) (common.VkResult, error)
	IsMemoryTypeHostNonCoherent(memoryTypeIndex int) bool
}

var _ DeviceContext = (*device.Context)(nil)

// CreateInfo describes the buffer to create in New
type CreateInfo struct {
	// ElementSize is the number of meaningful bytes in each instance
	ElementSize int
	// InstanceCount is the number of instances the buffer holds
	InstanceCount int
	Usage         core1_0.BufferUsageFlags
	// MemoryProperties are the property flags the backing memory type must have
	MemoryProperties core1_0.MemoryPropertyFlags
	// MinOffsetAlignment is the alignment each instance must begin on, usually one of the device's
	// Min*BufferOffsetAlignment limits. It must be 0 or a power of two; 0 packs instances tightly.
	MinOffsetAlignment uint
	Flags              CreateFlags
	Name               string
}

type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Buffer is a single Vulkan buffer, bound to memory allocated exclusively for it, that holds
// InstanceCount instances of ElementSize bytes each. Every instance begins on a multiple of
// AlignmentSize so that it can be addressed with a dynamic descriptor offset.
//
// Buffer is not safe for concurrent use unless it was created with CreateSynchronized, and must not
// be copied.
type Buffer struct {
	noCopy noCopy

	logger  *slog.Logger
	context DeviceContext

	name  string
	flags CreateFlags

	layout           memutils.Layout
	usage            core1_0.BufferUsageFlags
	memoryProperties core1_0.MemoryPropertyFlags

	buffer          core1_0.Buffer
	memory          *vulkan.SynchronizedMemory
	memoryTypeIndex int
	allocationSize  int

	destroyed bool
}

// New creates a Buffer and the device memory backing it
//
// logger - The logger that buffer operations will be reported to
//
// context - The DeviceContext the buffer and its memory will be created with, usually a *device.Context
//
// createInfo - The layout, usage and memory requirements of the buffer
func New(logger *slog.Logger, context DeviceContext, createInfo CreateInfo) (*Buffer, common.VkResult, error) {
	layout, err := memutils.NewLayout(createInfo.ElementSize, createInfo.InstanceCount, createInfo.MinOffsetAlignment)
	if err != nil {
		return nil, core1_0.VKErrorUnknown, err
	}
	memutils.DebugValidate(layout)

	logger.Debug("Buffer::New",
		slog.String("Name", createInfo.Name),
		slog.Int("ElementSize", layout.ElementSize),
		slog.Int("AlignmentSize", layout.AlignmentSize),
		slog.Int("InstanceCount", layout.InstanceCount),
		slog.String("Flags", createInfo.Flags.String()))

	bufferMemory, res, err := context.CreateBuffer(layout.TotalSize(), createInfo.Usage, createInfo.MemoryProperties)
	if err != nil {
		return nil, res, err
	}

	buffer := &Buffer{
		logger:  logger,
		context: context,

		name:  createInfo.Name,
		flags: createInfo.Flags,

		layout:           layout,
		usage:            createInfo.Usage,
		memoryProperties: createInfo.MemoryProperties,

		buffer:          bufferMemory.Buffer,
		memory:          vulkan.NewSynchronizedMemory(bufferMemory.Memory, createInfo.Flags&CreateSynchronized != 0),
		memoryTypeIndex: bufferMemory.MemoryTypeIndex,
		allocationSize:  bufferMemory.AllocationSize,
	}

	if createInfo.Flags&CreateMapped != 0 {
		res, err = buffer.Map(WholeSize, 0)
		if err != nil {
			destroyErr := buffer.Destroy()
			if destroyErr != nil {
				logger.Error("failed to destroy buffer after a failed persistent map", slog.Any("error", destroyErr))
			}
			return nil, res, err
		}
	}

	return buffer, res, nil
}

func (b *Buffer) Name() string {
	return b.name
}

func (b *Buffer) SetName(name string) {
	b.name = name
}

func (b *Buffer) ElementSize() int                              { return b.layout.ElementSize }
func (b *Buffer) AlignmentSize() int                            { return b.layout.AlignmentSize }
func (b *Buffer) InstanceCount() int                            { return b.layout.InstanceCount }
func (b *Buffer) Size() int                                     { return b.layout.TotalSize() }
func (b *Buffer) Layout() memutils.Layout                       { return b.layout }
func (b *Buffer) Usage() core1_0.BufferUsageFlags               { return b.usage }
func (b *Buffer) MemoryProperties() core1_0.MemoryPropertyFlags { return b.memoryProperties }
func (b *Buffer) Flags() CreateFlags                            { return b.flags }
func (b *Buffer) Handle() core1_0.Buffer                        { return b.buffer }
func (b *Buffer) Memory() core1_0.DeviceMemory                  { return b.memory.VulkanDeviceMemory() }
func (b *Buffer) MemoryTypeIndex() int                          { return b.memoryTypeIndex }

// AllocationSize is the size of the device memory backing the buffer, which may be larger than Size
func (b *Buffer) AllocationSize() int { return b.allocationSize }

// MappedData is the host address of the start of the mapped range, or nil if the buffer is not mapped
func (b *Buffer) MappedData() unsafe.Pointer { return b.memory.MappedData() }
func (b *Buffer) IsMapped() bool             { return b.memory.IsMapped() }

// NeedsFlush reports whether the buffer's memory is host visible but not host coherent, in which
// case host writes must be flushed and device writes invalidated for the other side to see them.
// It is false for memory the host cannot map at all.
func (b *Buffer) NeedsFlush() bool {
	return b.context.IsMemoryTypeHostNonCoherent(b.memoryTypeIndex)
}

// Map maps size bytes of the buffer's memory, beginning offset bytes in, into host address space.
// A size of WholeSize maps everything from offset to the end of the memory. Mapping a buffer that
// is already mapped panics.
func (b *Buffer) Map(size, offset int) (common.VkResult, error) {
	b.logger.Debug("Buffer::Map", slog.Int("Size", size), slog.Int("Offset", offset))

	if b.destroyed {
		panic("attempted to map a buffer that has been destroyed")
	}

	_, res, err := b.memory.Map(offset, size, 0)
	return res, err
}

// Unmap releases the buffer's host mapping. It is safe to call on a buffer that is not mapped.
func (b *Buffer) Unmap() {
	b.logger.Debug("Buffer::Unmap")

	b.memory.Unmap()
}

// WriteToBuffer copies size bytes from data into the mapping, offset bytes from the mapped base. A
// size of WholeSize copies Size bytes to the mapped base and ignores offset. The buffer must be mapped.
func (b *Buffer) WriteToBuffer(data []byte, size, offset int) {
	b.logger.Debug("Buffer::WriteToBuffer", slog.Int("Size", size), slog.Int("Offset", offset))

	if !b.memory.IsMapped() {
		panic("attempted to write to a buffer that is not mapped")
	}

	if size == WholeSize {
		b.memory.Write(0, data[:b.Size()])
		return
	}

	b.memory.Write(offset, data[:size])
}

// ReadFromBuffer copies size bytes out of the mapping into dst, starting offset bytes from the mapped
// base. A size of WholeSize copies Size bytes from the mapped base and ignores offset. The buffer
// must be mapped.
func (b *Buffer) ReadFromBuffer(dst []byte, size, offset int) {
	b.logger.Debug("Buffer::ReadFromBuffer", slog.Int("Size", size), slog.Int("Offset", offset))

	if !b.memory.IsMapped() {
		panic("attempted to read from a buffer that is not mapped")
	}

	if size == WholeSize {
		b.memory.Read(0, dst[:b.Size()])
		return
	}

	b.memory.Read(offset, dst[:size])
}

// Flush makes host writes to the range visible to the device. It is only required for memory that
// is not host coherent. Offset and size are passed to the driver unchanged, so they must respect
// the device's nonCoherentAtomSize.
func (b *Buffer) Flush(size, offset int) (common.VkResult, error) {
	b.logger.Debug("Buffer::Flush", slog.Int("Size", size), slog.Int("Offset", offset))

	return b.context.FlushMappedMemoryRanges([]core1_0.MappedMemoryRange{b.mappedRange(size, offset)})
}

// Invalidate makes device writes to the range visible to the host. It is only required for memory
// that is not host coherent.
func (b *Buffer) Invalidate(size, offset int) (common.VkResult, error) {
	b.logger.Debug("Buffer::Invalidate", slog.Int("Size", size), slog.Int("Offset", offset))

	return b.context.InvalidateMappedMemoryRanges([]core1_0.MappedMemoryRange{b.mappedRange(size, offset)})
}

func (b *Buffer) mappedRange(size, offset int) core1_0.MappedMemoryRange {
	return core1_0.MappedMemoryRange{
		Memory: b.memory.VulkanDeviceMemory(),
		Offset: offset,
		Size:   size,
	}
}

// DescriptorInfo describes size bytes of the buffer, beginning at offset, for a descriptor write
func (b *Buffer) DescriptorInfo(size, offset int) core1_0.DescriptorBufferInfo {
	return core1_0.DescriptorBufferInfo{
		Buffer: b.buffer,
		Offset: offset,
		Range:  size,
	}
}

// WriteToIndex copies ElementSize bytes of data into the instance at index
func (b *Buffer) WriteToIndex(data []byte, index int) {
	memutils.DebugCheckIndex(index, b.layout.InstanceCount)
	b.WriteToBuffer(data, b.layout.ElementSize, b.layout.Offset(index))
}

// ReadFromIndex copies the ElementSize bytes of the instance at index into dst
func (b *Buffer) ReadFromIndex(dst []byte, index int) {
	memutils.DebugCheckIndex(index, b.layout.InstanceCount)
	b.ReadFromBuffer(dst, b.layout.ElementSize, b.layout.Offset(index))
}

// FlushIndex flushes the whole aligned slot of the instance at index
func (b *Buffer) FlushIndex(index int) (common.VkResult, error) {
	memutils.DebugCheckIndex(index, b.layout.InstanceCount)
	return b.Flush(b.layout.AlignmentSize, b.layout.Offset(index))
}

// InvalidateIndex invalidates the whole aligned slot of the instance at index
func (b *Buffer) InvalidateIndex(index int) (common.VkResult, error) {
	memutils.DebugCheckIndex(index, b.layout.InstanceCount)
	return b.Invalidate(b.layout.AlignmentSize, b.layout.Offset(index))
}

// DescriptorInfoForIndex describes the aligned slot of the instance at index
func (b *Buffer) DescriptorInfoForIndex(index int) core1_0.DescriptorBufferInfo {
	memutils.DebugCheckIndex(index, b.layout.InstanceCount)
	return b.DescriptorInfo(b.layout.AlignmentSize, b.layout.Offset(index))
}

// Destroy unmaps the buffer, waits for the device to go idle, then destroys the buffer and frees
// its memory, in that order. The buffer and memory are released even if waiting fails, in which
// case the wait error is returned. Destroying a buffer twice panics.
func (b *Buffer) Destroy() error {
	b.logger.Debug("Buffer::Destroy", slog.String("Name", b.name))

	if b.destroyed {
		panic("attempted to destroy a buffer that has already been destroyed")
	}
	b.destroyed = true

	b.memory.Unmap()

	res, err := b.context.WaitIdle()
	if err != nil {
		b.logger.Error("device did not go idle before buffer destruction",
			slog.String("Name", b.name),
			slog.Any("Result", res),
			slog.Any("error", err))
	}

	b.context.DestroyBuffer(b.buffer)
	b.context.FreeMemory(b.memoryTypeIndex, b.allocationSize, b.memory.VulkanDeviceMemory())
	b.buffer = nil

	return err
}
