package vulkan

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/core/v2/mocks"
	"github.com/vkngwrapper/instbuf/memutils"
	"go.uber.org/mock/gomock"
)

type recordedCallback struct {
	MemoryType int
	Memory     core1_0.DeviceMemory
	Size       int
}

type recordingCallbacks struct {
	allocated []recordedCallback
	freed     []recordedCallback
}

func (c *recordingCallbacks) Allocate(memoryType int, memory core1_0.DeviceMemory, size int) {
	c.allocated = append(c.allocated, recordedCallback{memoryType, memory, size})
}

func (c *recordingCallbacks) Free(memoryType int, memory core1_0.DeviceMemory, size int) {
	c.freed = append(c.freed, recordedCallback{memoryType, memory, size})
}

func testMemoryTypes() []core1_0.MemoryType {
	return []core1_0.MemoryType{
		{
			PropertyFlags: core1_0.MemoryPropertyDeviceLocal,
			HeapIndex:     0,
		},
		{
			PropertyFlags: core1_0.MemoryPropertyHostVisible | core1_0.MemoryPropertyHostCoherent | core1_0.MemoryPropertyHostCached,
			HeapIndex:     1,
		},
		{
			PropertyFlags: core1_0.MemoryPropertyHostVisible | core1_0.MemoryPropertyHostCoherent,
			HeapIndex:     1,
		},
		{
			PropertyFlags: core1_0.MemoryPropertyHostVisible,
			HeapIndex:     1,
		},
	}
}

func readyDeviceMemory(t *testing.T, ctrl *gomock.Controller, limits core1_0.PhysicalDeviceLimits, callbacks MemoryCallbacks) (*mocks.MockDevice, *DeviceMemoryProperties, error) {
	device := mocks.NewMockDevice(ctrl)
	physicalDevice := mocks.NewMockPhysicalDevice(ctrl)

	physicalDevice.EXPECT().Properties().Return(&core1_0.PhysicalDeviceProperties{
		DriverType: core1_0.PhysicalDeviceTypeDiscreteGPU,
		Limits:     &limits,
	}, nil)
	physicalDevice.EXPECT().MemoryProperties().Return(&core1_0.PhysicalDeviceMemoryProperties{
		MemoryTypes: testMemoryTypes(),
		MemoryHeaps: []core1_0.MemoryHeap{
			{
				Size:  1000000,
				Flags: core1_0.MemoryHeapDeviceLocal,
			},
			{
				Size:  1000000,
				Flags: 0,
			},
		},
	}).AnyTimes()

	deviceMemory, err := NewDeviceMemoryProperties(nil, callbacks, device, physicalDevice)
	return device, deviceMemory, err
}

func defaultLimits() core1_0.PhysicalDeviceLimits {
	return core1_0.PhysicalDeviceLimits{
		NonCoherentAtomSize:             64,
		MinUniformBufferOffsetAlignment: 256,
		MinStorageBufferOffsetAlignment: 16,
		MaxMemoryAllocationCount:        2,
	}
}

func TestDeviceMemoryPropertiesRejectsBadLimits(t *testing.T) {
	ctrl := gomock.NewController(t)

	limits := defaultLimits()
	limits.MinUniformBufferOffsetAlignment = 96

	_, _, err := readyDeviceMemory(t, ctrl, limits, nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, memutils.PowerOfTwoError))
}

func TestIsMemoryTypeHostNonCoherent(t *testing.T) {
	ctrl := gomock.NewController(t)

	_, deviceMemory, err := readyDeviceMemory(t, ctrl, defaultLimits(), nil)
	require.NoError(t, err)

	require.False(t, deviceMemory.IsMemoryTypeHostNonCoherent(0))
	require.False(t, deviceMemory.IsMemoryTypeHostNonCoherent(1))
	require.False(t, deviceMemory.IsMemoryTypeHostNonCoherent(2))
	require.True(t, deviceMemory.IsMemoryTypeHostNonCoherent(3))
}

var findMemoryTypeTestCases = map[string]struct {
	MemoryTypeBits uint32
	Required       core1_0.MemoryPropertyFlags
	ExpectedIndex  int
	ExpectedResult common.VkResult
}{
	"Device Local": {
		MemoryTypeBits: 0xffffffff,
		Required:       core1_0.MemoryPropertyDeviceLocal,
		ExpectedIndex:  0,
		ExpectedResult: core1_0.VKSuccess,
	},
	"Host Visible Prefers Fewest Extra Flags": {
		MemoryTypeBits: 0xffffffff,
		Required:       core1_0.MemoryPropertyHostVisible,
		ExpectedIndex:  3,
		ExpectedResult: core1_0.VKSuccess,
	},
	"Host Coherent Exact Match": {
		MemoryTypeBits: 0xffffffff,
		Required:       core1_0.MemoryPropertyHostVisible | core1_0.MemoryPropertyHostCoherent,
		ExpectedIndex:  2,
		ExpectedResult: core1_0.VKSuccess,
	},
	"Type Bits Exclude Exact Match": {
		MemoryTypeBits: 0x3,
		Required:       core1_0.MemoryPropertyHostVisible | core1_0.MemoryPropertyHostCoherent,
		ExpectedIndex:  1,
		ExpectedResult: core1_0.VKSuccess,
	},
	"No Match": {
		MemoryTypeBits: 0x1,
		Required:       core1_0.MemoryPropertyHostVisible,
		ExpectedIndex:  -1,
		ExpectedResult: core1_0.VKErrorFeatureNotPresent,
	},
}

func TestFindMemoryTypeIndex(t *testing.T) {
	for testName, testCase := range findMemoryTypeTestCases {
		t.Run(testName, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			_, deviceMemory, err := readyDeviceMemory(t, ctrl, defaultLimits(), nil)
			require.NoError(t, err)

			index, res, err := deviceMemory.FindMemoryTypeIndex(testCase.MemoryTypeBits, testCase.Required)
			require.Equal(t, testCase.ExpectedIndex, index)
			require.Equal(t, testCase.ExpectedResult, res)
			if testCase.ExpectedResult == core1_0.VKSuccess {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestAllocateAndFreeVulkanMemory(t *testing.T) {
	ctrl := gomock.NewController(t)

	callbacks := &recordingCallbacks{}
	device, deviceMemory, err := readyDeviceMemory(t, ctrl, defaultLimits(), callbacks)
	require.NoError(t, err)

	memory := mocks.EasyMockDeviceMemory(ctrl)
	allocInfo := core1_0.MemoryAllocateInfo{
		MemoryTypeIndex: 2,
		AllocationSize:  1024,
	}
	device.EXPECT().AllocateMemory(gomock.Any(), allocInfo).Return(memory, core1_0.VKSuccess, nil)

	mem, res, err := deviceMemory.AllocateVulkanMemory(allocInfo)
	require.NoError(t, err)
	require.Equal(t, core1_0.VKSuccess, res)
	require.Equal(t, memory, mem)
	require.Equal(t, uint32(1), deviceMemory.AllocationCount())

	count, bytes := deviceMemory.HeapUsage(1)
	require.Equal(t, 1, count)
	require.Equal(t, 1024, bytes)
	require.Equal(t, []recordedCallback{{2, memory, 1024}}, callbacks.allocated)

	memory.EXPECT().Free(gomock.Any())
	deviceMemory.FreeVulkanMemory(2, 1024, mem)

	require.Equal(t, uint32(0), deviceMemory.AllocationCount())
	count, bytes = deviceMemory.HeapUsage(1)
	require.Equal(t, 0, count)
	require.Equal(t, 0, bytes)
	require.Equal(t, []recordedCallback{{2, memory, 1024}}, callbacks.freed)
}

func TestAllocateVulkanMemoryEnforcesAllocationCount(t *testing.T) {
	ctrl := gomock.NewController(t)

	limits := defaultLimits()
	limits.MaxMemoryAllocationCount = 1
	device, deviceMemory, err := readyDeviceMemory(t, ctrl, limits, nil)
	require.NoError(t, err)

	memory := mocks.EasyMockDeviceMemory(ctrl)
	device.EXPECT().AllocateMemory(gomock.Any(), gomock.Any()).Return(memory, core1_0.VKSuccess, nil)

	_, _, err = deviceMemory.AllocateVulkanMemory(core1_0.MemoryAllocateInfo{MemoryTypeIndex: 0, AllocationSize: 16})
	require.NoError(t, err)

	_, res, err := deviceMemory.AllocateVulkanMemory(core1_0.MemoryAllocateInfo{MemoryTypeIndex: 0, AllocationSize: 16})
	require.Error(t, err)
	require.Equal(t, core1_0.VKErrorTooManyObjects, res)
	require.Equal(t, uint32(1), deviceMemory.AllocationCount())
}

func TestAllocateVulkanMemoryDriverFailure(t *testing.T) {
	ctrl := gomock.NewController(t)

	callbacks := &recordingCallbacks{}
	device, deviceMemory, err := readyDeviceMemory(t, ctrl, defaultLimits(), callbacks)
	require.NoError(t, err)

	device.EXPECT().AllocateMemory(gomock.Any(), gomock.Any()).Return(nil, core1_0.VKErrorOutOfDeviceMemory, core1_0.VKErrorOutOfDeviceMemory.ToError())

	_, res, err := deviceMemory.AllocateVulkanMemory(core1_0.MemoryAllocateInfo{MemoryTypeIndex: 0, AllocationSize: 16})
	require.Error(t, err)
	require.Equal(t, core1_0.VKErrorOutOfDeviceMemory, res)
	require.Equal(t, uint32(0), deviceMemory.AllocationCount())
	require.Empty(t, callbacks.allocated)
}

func TestFlushOrInvalidateRanges(t *testing.T) {
	ctrl := gomock.NewController(t)

	device, deviceMemory, err := readyDeviceMemory(t, ctrl, defaultLimits(), nil)
	require.NoError(t, err)

	memory := mocks.EasyMockDeviceMemory(ctrl)
	ranges := []core1_0.MappedMemoryRange{
		{
			Memory: memory,
			Offset: 128,
			Size:   64,
		},
	}

	device.EXPECT().FlushMappedMemoryRanges(ranges).Return(core1_0.VKSuccess, nil)
	device.EXPECT().InvalidateMappedMemoryRanges(ranges).Return(core1_0.VKErrorDeviceLost, core1_0.VKErrorDeviceLost.ToError())

	res, err := deviceMemory.FlushOrInvalidateRanges(ranges, CacheOperationFlush)
	require.NoError(t, err)
	require.Equal(t, core1_0.VKSuccess, res)

	res, err = deviceMemory.FlushOrInvalidateRanges(ranges, CacheOperationInvalidate)
	require.Error(t, err)
	require.Equal(t, core1_0.VKErrorDeviceLost, res)

	res, err = deviceMemory.FlushOrInvalidateRanges(nil, CacheOperationFlush)
	require.NoError(t, err)
	require.Equal(t, core1_0.VKSuccess, res)

	_, err = deviceMemory.FlushOrInvalidateRanges(ranges, CacheOperation(7))
	require.Error(t, err)
}
