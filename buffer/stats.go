package buffer

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// BuildStatsString returns a JSON object describing the buffer's layout, flags and mapping state
func (b *Buffer) BuildStatsString() string {
	writer := jwriter.NewWriter()
	obj := writer.Object()
	b.PrintParameters(&obj)
	obj.End()

	return string(writer.Bytes())
}

// PrintParameters writes the buffer's description into an object that is already open
func (b *Buffer) PrintParameters(json *jwriter.ObjectState) {
	if b.name != "" {
		json.Name("Name").String(b.name)
	}

	json.Name("ElementSize").Int(b.layout.ElementSize)
	json.Name("AlignmentSize").Int(b.layout.AlignmentSize)
	json.Name("InstanceCount").Int(b.layout.InstanceCount)
	json.Name("Size").Int(b.layout.TotalSize())
	json.Name("AllocationSize").Int(b.allocationSize)
	json.Name("MemoryTypeIndex").Int(b.memoryTypeIndex)
	json.Name("Usage").String(b.usage.String())
	json.Name("MemoryProperties").String(b.memoryProperties.String())
	json.Name("Flags").String(b.flags.String())
	json.Name("Mapped").Bool(b.IsMapped())
}
