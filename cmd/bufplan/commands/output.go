package commands

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/instbuf/memutils"
)

func writeLayout(json *jwriter.ObjectState, name string, layout memutils.Layout) {
	if name != "" {
		json.Name("Name").String(name)
	}
	json.Name("ElementSize").Int(layout.ElementSize)
	json.Name("AlignmentSize").Int(layout.AlignmentSize)
	json.Name("InstanceCount").Int(layout.InstanceCount)
	json.Name("TotalSize").Int(layout.TotalSize())
	json.Name("PaddingBytes").Int(layout.PaddingSize() * layout.InstanceCount)
}

func writeStatistics(json *jwriter.ObjectState, stats *memutils.Statistics) {
	json.Name("BufferCount").Int(stats.BufferCount)
	json.Name("InstanceCount").Int(stats.InstanceCount)
	json.Name("ElementBytes").Int(stats.ElementBytes)
	json.Name("AllocationBytes").Int(stats.AllocationBytes)
	json.Name("PaddingBytes").Int(stats.PaddingBytes())
}
