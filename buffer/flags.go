package buffer

import "github.com/vkngwrapper/core/v2/common"

// CreateFlags exposes options for buffer behavior that can be applied at creation time
type CreateFlags int32

var createFlagsMapping = common.NewFlagStringMapping[CreateFlags]()

func (f CreateFlags) Register(str string) {
	createFlagsMapping.Register(f, str)
}
func (f CreateFlags) String() string {
	return createFlagsMapping.FlagsToString(f)
}

const (
	// CreateMapped maps the whole buffer immediately after it is created. The mapping lasts until
	// Unmap or Destroy is called.
	//
	// The memory properties must include core1_0.MemoryPropertyHostVisible.
	CreateMapped CreateFlags = 1 << iota
	// CreateSynchronized guards Map, Unmap and host copies with a mutex so that the buffer can be
	// written from several goroutines. Without it, the buffer must be externally synchronized.
	CreateSynchronized
)

func init() {
	CreateMapped.Register("CreateMapped")
	CreateSynchronized.Register("CreateSynchronized")
}
