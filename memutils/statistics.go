package memutils

type Statistics struct {
	BufferCount     int
	InstanceCount   int
	ElementBytes    int
	AllocationBytes int
}

// PaddingBytes is the number of allocated bytes that alignment leaves unused
func (s *Statistics) PaddingBytes() int {
	return s.AllocationBytes - s.ElementBytes
}

func (s *Statistics) AddLayout(layout Layout) {
	s.BufferCount++
	s.InstanceCount += layout.InstanceCount
	s.ElementBytes += layout.ElementSize * layout.InstanceCount
	s.AllocationBytes += layout.TotalSize()
}
