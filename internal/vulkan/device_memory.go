package vulkan

import (
	"fmt"
	"math"
	"math/bits"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/core/v2/driver"
	"github.com/vkngwrapper/instbuf/memutils"
)

type MemoryCallbacks interface {
	Allocate(memoryType int, memory core1_0.DeviceMemory, size int)
	Free(memoryType int, memory core1_0.DeviceMemory, size int)
}

type DeviceMemoryProperties struct {
	// Number of live device memory allocations per heap
	allocationCount [common.MaxMemoryHeaps]int32
	// Size of live device memory allocations per heap
	allocationBytes [common.MaxMemoryHeaps]int64
	// Number of live device memory allocations across all heaps, checked against maxMemoryAllocationCount
	memoryCount uint32

	allocationCallbacks *driver.AllocationCallbacks
	memoryCallbacks     MemoryCallbacks

	device           core1_0.Device
	deviceProperties *core1_0.PhysicalDeviceProperties
	memoryProperties *core1_0.PhysicalDeviceMemoryProperties
}

func NewDeviceMemoryProperties(
	allocationCallbacks *driver.AllocationCallbacks,
	memoryCallbacks MemoryCallbacks,
	device core1_0.Device,
	physicalDevice core1_0.PhysicalDevice,
) (*DeviceMemoryProperties, error) {
	deviceProperties := &DeviceMemoryProperties{
		allocationCallbacks: allocationCallbacks,
		memoryCallbacks:     memoryCallbacks,

		device: device,
	}

	var err error
	deviceProperties.deviceProperties, err = physicalDevice.Properties()
	if err != nil {
		return nil, err
	}
	if deviceProperties.deviceProperties.Limits == nil {
		return nil, errors.New("physical device properties did not include device limits")
	}

	deviceProperties.memoryProperties = physicalDevice.MemoryProperties()

	limits := deviceProperties.deviceProperties.Limits
	err = memutils.CheckPow2(limits.NonCoherentAtomSize, "device nonCoherentAtomSize")
	if err != nil {
		return nil, err
	}
	err = memutils.CheckPow2(limits.MinUniformBufferOffsetAlignment, "device minUniformBufferOffsetAlignment")
	if err != nil {
		return nil, err
	}
	err = memutils.CheckPow2(limits.MinStorageBufferOffsetAlignment, "device minStorageBufferOffsetAlignment")
	if err != nil {
		return nil, err
	}

	return deviceProperties, nil
}

func (m *DeviceMemoryProperties) MemoryTypeCount() int {
	return len(m.memoryProperties.MemoryTypes)
}

func (m *DeviceMemoryProperties) MemoryTypeIndexToHeapIndex(memTypeIndex int) int {
	return m.memoryProperties.MemoryTypes[memTypeIndex].HeapIndex
}

func (m *DeviceMemoryProperties) DeviceProperties() *core1_0.PhysicalDeviceProperties {
	return m.deviceProperties
}

func (m *DeviceMemoryProperties) MemoryTypeProperties(memoryTypeIndex int) core1_0.MemoryType {
	return m.memoryProperties.MemoryTypes[memoryTypeIndex]
}

func (m *DeviceMemoryProperties) IsMemoryTypeHostNonCoherent(memoryTypeIndex int) bool {
	flags := m.memoryProperties.MemoryTypes[memoryTypeIndex].PropertyFlags

	return flags&(core1_0.MemoryPropertyHostVisible|core1_0.MemoryPropertyHostCoherent) == core1_0.MemoryPropertyHostVisible
}

// FindMemoryTypeIndex selects a memory type permitted by memoryTypeBits that has every flag in
// requiredFlags. When several qualify, the one carrying the fewest additional property flags wins.
func (m *DeviceMemoryProperties) FindMemoryTypeIndex(
	memoryTypeBits uint32,
	requiredFlags core1_0.MemoryPropertyFlags,
) (int, common.VkResult, error) {
	bestMemoryTypeIndex := -1
	minCost := math.MaxInt

	for memTypeIndex := 0; memTypeIndex < m.MemoryTypeCount(); memTypeIndex++ {
		memTypeBit := uint32(1 << memTypeIndex)

		if memTypeBit&memoryTypeBits == 0 {
			// This memory type is banned by the bitmask
			continue
		}

		flags := m.MemoryTypeProperties(memTypeIndex).PropertyFlags
		if requiredFlags&flags != requiredFlags {
			// This memory type is missing required flags
			continue
		}

		cost := bits.OnesCount32(uint32(flags &^ requiredFlags))
		if cost == 0 {
			return memTypeIndex, core1_0.VKSuccess, nil
		} else if cost < minCost {
			bestMemoryTypeIndex = memTypeIndex
			minCost = cost
		}
	}

	if bestMemoryTypeIndex < 0 {
		return -1, core1_0.VKErrorFeatureNotPresent, errors.Wrapf(core1_0.VKErrorFeatureNotPresent.ToError(),
			"no memory type in bits %b has properties %s", memoryTypeBits, requiredFlags.String())
	}

	return bestMemoryTypeIndex, core1_0.VKSuccess, nil
}

func (m *DeviceMemoryProperties) addAllocation(heapIndex int, allocationSize int) {
	atomic.AddInt64(&m.allocationBytes[heapIndex], int64(allocationSize))
	atomic.AddInt32(&m.allocationCount[heapIndex], 1)
}

func (m *DeviceMemoryProperties) removeAllocation(heapIndex, allocationSize int) {
	newVal := atomic.AddInt64(&m.allocationBytes[heapIndex], int64(-allocationSize))
	if newVal < 0 {
		panic(fmt.Sprintf("allocation bytes for heapIndex %d went negative", heapIndex))
	}

	newCountVal := atomic.AddInt32(&m.allocationCount[heapIndex], -1)
	if newCountVal < 0 {
		panic(fmt.Sprintf("allocation count for heapIndex %d went negative", heapIndex))
	}
}

func (m *DeviceMemoryProperties) AllocateVulkanMemory(
	allocateInfo core1_0.MemoryAllocateInfo,
) (mem core1_0.DeviceMemory, res common.VkResult, err error) {
	newDeviceCount := atomic.AddUint32(&m.memoryCount, 1)
	defer func() {
		// If we failed out, roll back the device increment
		if err != nil {
			// Decrement
			atomic.AddUint32(&m.memoryCount, ^uint32(0))
		}
	}()

	if int(newDeviceCount) > m.deviceProperties.Limits.MaxMemoryAllocationCount {
		return nil, core1_0.VKErrorTooManyObjects, core1_0.VKErrorTooManyObjects.ToError()
	}

	mem, res, err = m.device.AllocateMemory(m.allocationCallbacks, allocateInfo)
	if err != nil {
		return nil, res, err
	}

	m.addAllocation(m.MemoryTypeIndexToHeapIndex(allocateInfo.MemoryTypeIndex), allocateInfo.AllocationSize)

	if m.memoryCallbacks != nil {
		m.memoryCallbacks.Allocate(
			allocateInfo.MemoryTypeIndex,
			mem,
			allocateInfo.AllocationSize,
		)
	}

	return mem, res, nil
}

func (m *DeviceMemoryProperties) FreeVulkanMemory(memoryType int, size int, memory core1_0.DeviceMemory) {
	if m.memoryCallbacks != nil {
		m.memoryCallbacks.Free(
			memoryType,
			memory,
			size,
		)
	}

	memory.Free(m.allocationCallbacks)

	heapIndex := m.MemoryTypeIndexToHeapIndex(memoryType)
	m.removeAllocation(heapIndex, size)
	// Decrement
	atomic.AddUint32(&m.memoryCount, ^uint32(0))
}

// HeapUsage returns the number and total size of the live allocations made from a heap
func (m *DeviceMemoryProperties) HeapUsage(heapIndex int) (count int, bytes int) {
	return int(atomic.LoadInt32(&m.allocationCount[heapIndex])), int(atomic.LoadInt64(&m.allocationBytes[heapIndex]))
}

func (m *DeviceMemoryProperties) AllocationCount() uint32 {
	return atomic.LoadUint32(&m.memoryCount)
}

type CacheOperation uint32

const (
	CacheOperationFlush CacheOperation = iota
	CacheOperationInvalidate
)

var cacheOperationMapping = make(map[CacheOperation]string)

func (o CacheOperation) String() string {
	return cacheOperationMapping[o]
}

func init() {
	cacheOperationMapping[CacheOperationFlush] = "CacheOperationFlush"
	cacheOperationMapping[CacheOperationInvalidate] = "CacheOperationInvalidate"
}

func (m *DeviceMemoryProperties) FlushOrInvalidateRanges(memRanges []core1_0.MappedMemoryRange, operation CacheOperation) (common.VkResult, error) {
	if len(memRanges) == 0 {
		return core1_0.VKSuccess, nil
	}

	switch operation {
	case CacheOperationFlush:
		return m.device.FlushMappedMemoryRanges(memRanges)
	case CacheOperationInvalidate:
		return m.device.InvalidateMappedMemoryRanges(memRanges)
	}

	return core1_0.VKErrorUnknown, errors.Newf("attempted to carry out invalid cache operation %s", operation.String())
}
