package device

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/core/v2/core1_1"
	"github.com/vkngwrapper/core/v2/driver"
	"github.com/vkngwrapper/extensions/v2/ext_memory_priority"
	"github.com/vkngwrapper/extensions/v2/khr_buffer_device_address"
	"github.com/vkngwrapper/extensions/v2/khr_dedicated_allocation"
	"github.com/vkngwrapper/instbuf/internal/vulkan"
	"golang.org/x/exp/slog"
)

const (
	// DefaultMemoryPriority is the priority passed to ext_memory_priority when CreateOptions.MemoryPriority
	// is left at 0
	DefaultMemoryPriority float32 = 0.5
)

// CreateOptions contains optional settings when creating a Context
type CreateOptions struct {
	// VulkanCallbacks is an optional set of callbacks that will be passed to Vulkan whenever buffers
	// and device memory are created or destroyed through this Context
	VulkanCallbacks *driver.AllocationCallbacks

	// MemoryCallbackOptions is an optional set of callbacks that will be executed when device memory
	// is allocated or freed through this Context
	MemoryCallbackOptions *MemoryCallbackOptions

	// MemoryPriority is the priority, between 0 and 1, attached to every allocation when ext_memory_priority
	// is active on the device. 0 selects DefaultMemoryPriority.
	MemoryPriority float32
}

// BufferMemory is a buffer bound at offset 0 to a device memory allocation made exclusively for it
type BufferMemory struct {
	Buffer          core1_0.Buffer
	Memory          core1_0.DeviceMemory
	MemoryTypeIndex int
	// AllocationSize is the size of Memory, which may be larger than the size requested for Buffer
	AllocationSize int
}

// Context owns nothing but knows how to create and release buffer memory on a single device. It is
// the device-side collaborator of buffer.Buffer.
type Context struct {
	logger              *slog.Logger
	device              core1_0.Device
	physicalDevice      core1_0.PhysicalDevice
	allocationCallbacks *driver.AllocationCallbacks
	memoryPriority      float32

	extensionData *vulkan.ExtensionData
	deviceMemory  *vulkan.DeviceMemoryProperties
}

// New creates a new Context
//
// physicalDevice - The PhysicalDevice that owns the provided Device
//
// device - The Device that buffers and memory will be created on
//
// options - Optional parameters: it is valid to leave all the fields blank
func New(logger *slog.Logger, physicalDevice core1_0.PhysicalDevice, device core1_0.Device, options CreateOptions) (*Context, error) {
	if options.MemoryPriority < 0 || options.MemoryPriority > 1 {
		return nil, errors.Newf("device.CreateOptions.MemoryPriority must be between 0 and 1, but was %f", options.MemoryPriority)
	}

	context := &Context{
		logger:              logger,
		device:              device,
		physicalDevice:      physicalDevice,
		allocationCallbacks: options.VulkanCallbacks,
		memoryPriority:      options.MemoryPriority,
		extensionData:       vulkan.NewExtensionData(device),
	}

	if context.memoryPriority == 0 {
		context.memoryPriority = DefaultMemoryPriority
	}

	var err error
	context.deviceMemory, err = vulkan.NewDeviceMemoryProperties(
		options.VulkanCallbacks,
		&memoryCallbacks{
			Callbacks: options.MemoryCallbackOptions,
			Context:   context,
		},
		device,
		physicalDevice,
	)
	if err != nil {
		return nil, err
	}

	return context, nil
}

func (c *Context) Device() core1_0.Device                 { return c.device }
func (c *Context) PhysicalDevice() core1_0.PhysicalDevice { return c.physicalDevice }
func (c *Context) AllocationCallbacks() *driver.AllocationCallbacks {
	return c.allocationCallbacks
}

// MinUniformBufferOffsetAlignment is the alignment that dynamic uniform buffer offsets must satisfy
func (c *Context) MinUniformBufferOffsetAlignment() uint {
	return uint(c.deviceMemory.DeviceProperties().Limits.MinUniformBufferOffsetAlignment)
}

// MinStorageBufferOffsetAlignment is the alignment that dynamic storage buffer offsets must satisfy
func (c *Context) MinStorageBufferOffsetAlignment() uint {
	return uint(c.deviceMemory.DeviceProperties().Limits.MinStorageBufferOffsetAlignment)
}

// NonCoherentAtomSize is the granularity that flushed and invalidated ranges of non-coherent memory must
// be aligned to
func (c *Context) NonCoherentAtomSize() uint {
	return uint(c.deviceMemory.DeviceProperties().Limits.NonCoherentAtomSize)
}

func (c *Context) IsMemoryTypeHostNonCoherent(memoryTypeIndex int) bool {
	return c.deviceMemory.IsMemoryTypeHostNonCoherent(memoryTypeIndex)
}

// AllocationCount is the number of device memory allocations currently live on this Context
func (c *Context) AllocationCount() int {
	return int(c.deviceMemory.AllocationCount())
}

// HeapUsage returns the number and total size of live allocations made from a memory heap
func (c *Context) HeapUsage(heapIndex int) (count int, bytes int) {
	return c.deviceMemory.HeapUsage(heapIndex)
}

// CreateBuffer creates a buffer of size bytes, allocates memory with properties for it and binds the
// two together. If any step fails, everything created so far is released and the driver's result is
// returned.
func (c *Context) CreateBuffer(size int, usage core1_0.BufferUsageFlags, properties core1_0.MemoryPropertyFlags) (BufferMemory, common.VkResult, error) {
	c.logger.Debug("Context::CreateBuffer",
		slog.Int("Size", size),
		slog.String("Usage", usage.String()),
		slog.String("Properties", properties.String()))

	if size <= 0 {
		return BufferMemory{}, core1_0.VKErrorUnknown, errors.Newf("attempted to create a buffer with a size of %d", size)
	}

	buffer, res, err := c.device.CreateBuffer(c.allocationCallbacks, core1_0.BufferCreateInfo{
		Size:        size,
		Usage:       usage,
		SharingMode: core1_0.SharingModeExclusive,
	})
	if err != nil {
		return BufferMemory{}, res, err
	}

	requirements := buffer.MemoryRequirements()
	memoryTypeIndex, res, err := c.deviceMemory.FindMemoryTypeIndex(requirements.MemoryTypeBits, properties)
	if err != nil {
		buffer.Destroy(c.allocationCallbacks)
		return BufferMemory{}, res, err
	}

	allocateInfo := c.memoryAllocateInfo(buffer, usage, memoryTypeIndex, requirements.Size)
	memory, res, err := c.deviceMemory.AllocateVulkanMemory(allocateInfo)
	if err != nil {
		buffer.Destroy(c.allocationCallbacks)
		return BufferMemory{}, res, err
	}

	res, err = buffer.BindBufferMemory(memory, 0)
	if err != nil {
		buffer.Destroy(c.allocationCallbacks)
		c.deviceMemory.FreeVulkanMemory(memoryTypeIndex, requirements.Size, memory)
		return BufferMemory{}, res, err
	}

	c.logger.Debug("    Created Buffer",
		slog.Int("MemoryTypeIndex", memoryTypeIndex),
		slog.Int("AllocationSize", requirements.Size))

	return BufferMemory{
		Buffer:          buffer,
		Memory:          memory,
		MemoryTypeIndex: memoryTypeIndex,
		AllocationSize:  requirements.Size,
	}, res, nil
}

func (c *Context) memoryAllocateInfo(buffer core1_0.Buffer, usage core1_0.BufferUsageFlags, memoryTypeIndex int, size int) core1_0.MemoryAllocateInfo {
	allocInfo := core1_0.MemoryAllocateInfo{
		MemoryTypeIndex: memoryTypeIndex,
		AllocationSize:  size,
	}

	// The memory only ever backs this one buffer, so it can always be a dedicated allocation
	if c.extensionData.DedicatedAllocations {
		dedicatedAllocInfo := khr_dedicated_allocation.MemoryDedicatedAllocateInfo{
			Buffer: buffer,
		}
		dedicatedAllocInfo.Next = allocInfo.Next
		allocInfo.Next = dedicatedAllocInfo
	}

	if c.extensionData.BufferDeviceAddress && usage&khr_buffer_device_address.BufferUsageShaderDeviceAddress != 0 {
		allocFlagsInfo := core1_1.MemoryAllocateFlagsInfo{
			Flags: khr_buffer_device_address.MemoryAllocateDeviceAddress,
		}
		allocFlagsInfo.Next = allocInfo.Next
		allocInfo.Next = allocFlagsInfo
	}

	if c.extensionData.UseMemoryPriority {
		priorityInfo := ext_memory_priority.MemoryPriorityAllocateInfo{
			Priority: c.memoryPriority,
		}
		priorityInfo.Next = allocInfo.Next
		allocInfo.Next = priorityInfo
	}

	return allocInfo
}

// DestroyBuffer destroys a buffer created by CreateBuffer. The memory bound to it must be freed
// separately with FreeMemory, after the buffer is destroyed.
func (c *Context) DestroyBuffer(buffer core1_0.Buffer) {
	c.logger.Debug("Context::DestroyBuffer")

	if buffer != nil {
		buffer.Destroy(c.allocationCallbacks)
	}
}

// FreeMemory frees memory allocated by CreateBuffer
func (c *Context) FreeMemory(memoryTypeIndex int, size int, memory core1_0.DeviceMemory) {
	c.logger.Debug("Context::FreeMemory", slog.Int("MemoryTypeIndex", memoryTypeIndex), slog.Int("Size", size))

	if memory != nil {
		c.deviceMemory.FreeVulkanMemory(memoryTypeIndex, size, memory)
	}
}

// WaitIdle blocks until the device has finished all outstanding work
func (c *Context) WaitIdle() (common.VkResult, error) {
	c.logger.Debug("Context::WaitIdle")

	return c.device.WaitIdle()
}

func (c *Context) FlushMappedMemoryRanges(ranges []core1_0.MappedMemoryRange) (common.VkResult, error) {
	c.logger.Debug("Context::FlushMappedMemoryRanges", slog.Int("Count", len(ranges)))

	return c.deviceMemory.FlushOrInvalidateRanges(ranges, vulkan.CacheOperationFlush)
}

func (c *Context) InvalidateMappedMemoryRanges(ranges []core1_0.MappedMemoryRange) (common.VkResult, error) {
	c.logger.Debug("Context::InvalidateMappedMemoryRanges", slog.Int("Count", len(ranges)))

	return c.deviceMemory.FlushOrInvalidateRanges(ranges, vulkan.CacheOperationInvalidate)
}
