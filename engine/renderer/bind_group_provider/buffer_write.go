package bind_group_provider

// BufferWrite describes a single GPU buffer write operation targeting a specific binding
// on a BindGroupProvider at a given byte offset. Name identifies the uniform in logs.
type BufferWrite struct {
	Name     string
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}
