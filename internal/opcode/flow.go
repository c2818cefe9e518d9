package opcode

// FlowKind classifies how control proceeds after an instruction.
type FlowKind uint8

// flow kinds.
const (
	Normal       FlowKind = iota // falls through to the next instruction
	Branch                       // conditional, falls through or continues at the target
	Jump                         // unconditional, continues at the target
	JumpIndirect                 // unconditional, target is only known at runtime
	Call                         // subroutine call, continues at the target and after return at the next instruction
	Return                       // subroutine or interrupt return
	Break                        // software interrupt
)

var flowKindNames = [...]string{
	Normal:       "normal",
	Branch:       "branch",
	Jump:         "jump",
	JumpIndirect: "jump indirect",
	Call:         "call",
	Return:       "return",
	Break:        "break",
}

func (k FlowKind) String() string {
	if int(k) < len(flowKindNames) {
		return flowKindNames[k]
	}
	return "unknown"
}

// FallsThrough returns whether execution can continue at the instruction following
// an instruction of this kind.
func (k FlowKind) FallsThrough() bool {
	return k == Normal || k == Branch || k == Call
}

// UsesTarget returns whether the decoded operand address of an instruction of this
// kind is a control flow destination.
func (k FlowKind) UsesTarget() bool {
	return k == Branch || k == Jump || k == Call
}
