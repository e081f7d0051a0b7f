package vulkan

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/mocks"
	"github.com/vkngwrapper/extensions/v2/ext_memory_priority"
	"github.com/vkngwrapper/extensions/v2/khr_buffer_device_address"
	"github.com/vkngwrapper/extensions/v2/khr_dedicated_allocation"
	"github.com/vkngwrapper/extensions/v2/khr_get_memory_requirements2"
	"go.uber.org/mock/gomock"
)

func TestExtensionsNew_NoExtensions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, _, device := mocks.MockRig1_0(ctrl, common.Vulkan1_0, []string{}, []string{})

	extension := NewExtensionData(device)

	require.Equal(t, &ExtensionData{
		DedicatedAllocations: false,
		BufferDeviceAddress:  false,
		UseMemoryPriority:    false,
	}, extension)
}

func TestExtensionsNew_Core1_1(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, _, device := mocks.MockRig1_1(ctrl, common.Vulkan1_1, []string{}, []string{})

	extension := NewExtensionData(device)

	require.Equal(t, &ExtensionData{
		DedicatedAllocations: true,
		BufferDeviceAddress:  false,
		UseMemoryPriority:    false,
	}, extension)
}

func TestExtensionsNew_Core1_2(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, _, device := mocks.MockRig1_2(ctrl, common.Vulkan1_2, []string{}, []string{})

	extension := NewExtensionData(device)

	require.Equal(t, &ExtensionData{
		DedicatedAllocations: true,
		BufferDeviceAddress:  true,
		UseMemoryPriority:    false,
	}, extension)
}

func TestExtensionsNew_SpareExtensions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, _, device := mocks.MockRig1_0(ctrl, common.Vulkan1_0, []string{},
		[]string{
			ext_memory_priority.ExtensionName,
			khr_buffer_device_address.ExtensionName,
		})

	extension := NewExtensionData(device)

	require.Equal(t, &ExtensionData{
		DedicatedAllocations: false,
		BufferDeviceAddress:  true,
		UseMemoryPriority:    true,
	}, extension)
}

func TestExtensionsNew_DedicatedAllocations(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, _, device := mocks.MockRig1_0(ctrl, common.Vulkan1_0, []string{},
		[]string{
			khr_get_memory_requirements2.ExtensionName,
			khr_dedicated_allocation.ExtensionName,
		})

	extension := NewExtensionData(device)

	require.Equal(t, &ExtensionData{
		DedicatedAllocations: true,
		BufferDeviceAddress:  false,
		UseMemoryPriority:    false,
	}, extension)
}

func TestExtensionsNew_NoDedicatedAllocations(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, _, device := mocks.MockRig1_0(ctrl, common.Vulkan1_0, []string{},
		[]string{
			khr_dedicated_allocation.ExtensionName,
		})

	extension := NewExtensionData(device)

	require.Equal(t, &ExtensionData{
		DedicatedAllocations: false,
		BufferDeviceAddress:  false,
		UseMemoryPriority:    false,
	}, extension)
}
