package program

// OffsetType defines the classification of an image offset. Every offset has
// exactly one type.
type OffsetType uint8

// offset types.
const (
	Unvisited        OffsetType = iota // not reached by tracing, rendered as data
	CodeStart                          // first byte of an instruction
	CodeContinuation                   // operand byte of an instruction
	DataOffset                         // reached by tracing but not decodable
)

// IsCode returns whether the offset is part of an instruction.
func (t OffsetType) IsCode() bool {
	return t == CodeStart || t == CodeContinuation
}

// IsData returns whether the offset is rendered as data.
func (t OffsetType) IsData() bool {
	return t == Unvisited || t == DataOffset
}

func (t OffsetType) String() string {
	switch t {
	case Unvisited:
		return "unvisited"
	case CodeStart:
		return "code start"
	case CodeContinuation:
		return "code continuation"
	case DataOffset:
		return "data"
	default:
		return "invalid"
	}
}
