package vulkan

import (
	"unsafe"

	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/instbuf/internal/utils"
)

// SynchronizedMemory tracks the single host mapping of one core1_0.DeviceMemory. Host reads and writes
// through the mapping are serialized by mapMutex when it is in use.
type SynchronizedMemory struct {
	mapData unsafe.Pointer

	mapMutex utils.OptionalMutex
	memory   core1_0.DeviceMemory
}

func NewSynchronizedMemory(memory core1_0.DeviceMemory, useMutex bool) *SynchronizedMemory {
	return &SynchronizedMemory{
		memory: memory,
		mapMutex: utils.OptionalMutex{
			UseMutex: useMutex,
		},
	}
}

func (m *SynchronizedMemory) VulkanDeviceMemory() core1_0.DeviceMemory {
	return m.memory
}

func (m *SynchronizedMemory) MappedData() unsafe.Pointer {
	m.mapMutex.Lock()
	defer m.mapMutex.Unlock()

	return m.mapData
}

func (m *SynchronizedMemory) IsMapped() bool {
	return m.MappedData() != nil
}

// Map maps [offset, offset+size) of the memory into host address space. A size of -1 maps through the
// end of the memory. Mapping memory that is already mapped is a programming error and panics.
func (m *SynchronizedMemory) Map(offset int, size int, flags core1_0.MemoryMapFlags) (unsafe.Pointer, common.VkResult, error) {
	m.mapMutex.Lock()
	defer m.mapMutex.Unlock()

	if m.mapData != nil {
		panic("attempted to map device memory that is already mapped")
	}

	mappedData, result, err := m.memory.Map(offset, size, flags)
	if err != nil {
		return nil, result, err
	}

	m.mapData = mappedData
	return mappedData, result, nil
}

// Unmap releases the host mapping, if there is one
func (m *SynchronizedMemory) Unmap() {
	m.mapMutex.Lock()
	defer m.mapMutex.Unlock()

	if m.mapData == nil {
		return
	}

	m.memory.Unmap()
	m.mapData = nil
}

// Write copies data into the mapping, offset bytes from the mapped base
func (m *SynchronizedMemory) Write(offset int, data []byte) {
	m.mapMutex.Lock()
	defer m.mapMutex.Unlock()

	if m.mapData == nil {
		panic("attempted to write to device memory that is not mapped")
	}
	if len(data) == 0 {
		return
	}

	dest := unsafe.Slice((*byte)(unsafe.Add(m.mapData, offset)), len(data))
	copy(dest, data)
}

// Read copies len(dst) bytes out of the mapping, starting offset bytes from the mapped base
func (m *SynchronizedMemory) Read(offset int, dst []byte) {
	m.mapMutex.Lock()
	defer m.mapMutex.Unlock()

	if m.mapData == nil {
		panic("attempted to read from device memory that is not mapped")
	}
	if len(dst) == 0 {
		return
	}

	source := unsafe.Slice((*byte)(unsafe.Add(m.mapData, offset)), len(dst))
	copy(dst, source)
}
