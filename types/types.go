// Package types defines the shared data structures for triggercore.
// Apart from equality and enum names, this package contains no logic.
package types

// FieldType says where a field's value comes from.
type FieldType int

const (
	MemoryAddress FieldType = iota // live read
	PreviousValue                  // read from the prior frame
	Value                          // embedded literal
)

// FieldSize is the read width of a memory field.
type FieldSize int

const (
	SizeNone FieldSize = iota
	Bit0
	Bit1
	Bit2
	Bit3
	Bit4
	Bit5
	Bit6
	Bit7
	LowNibble
	HighNibble
	Byte
	Word
	DWord
)

// IsBit reports whether s reads a single bit.
func (s FieldSize) IsBit() bool {
	return s >= Bit0 && s <= Bit7
}

// BitIndex returns 0..7 for Bit0..Bit7 and -1 otherwise.
func (s FieldSize) BitIndex() int {
	if !s.IsBit() {
		return -1
	}
	return int(s - Bit0)
}

// MaxValue is the largest value a read of this width can produce.
func (s FieldSize) MaxValue() uint32 {
	switch {
	case s.IsBit():
		return 1
	case s == LowNibble, s == HighNibble:
		return 0x0F
	case s == Byte:
		return 0xFF
	case s == Word:
		return 0xFFFF
	default:
		return 0xFFFFFFFF
	}
}

// Field is one operand of a requirement.
type Field struct {
	Type  FieldType
	Size  FieldSize
	Value uint32 // address for memory fields, literal for Value fields
}

// Equal compares two fields. The size of a literal is not part of its identity.
func (f Field) Equal(o Field) bool {
	if f.Type != o.Type || f.Value != o.Value {
		return false
	}
	return f.Type == Value || f.Size == o.Size
}

// IsMemory reports whether the field reads memory (current or previous frame).
func (f Field) IsMemory() bool {
	return f.Type == MemoryAddress || f.Type == PreviousValue
}

// RequirementOperator is the comparison applied between Left and Right.
type RequirementOperator int

const (
	OpNone RequirementOperator = iota
	OpEqual
	OpNotEqual
	OpLessThan
	OpLessThanOrEqual
	OpGreaterThan
	OpGreaterThanOrEqual
)

// String returns the operator as written in the trigger encoding.
func (op RequirementOperator) String() string {
	switch op {
	case OpEqual:
		return "="
	case OpNotEqual:
		return "!="
	case OpLessThan:
		return "<"
	case OpLessThanOrEqual:
		return "<="
	case OpGreaterThan:
		return ">"
	case OpGreaterThanOrEqual:
		return ">="
	default:
		return ""
	}
}

// RequirementType is the role a requirement plays in its group.
type RequirementType int

const (
	RoleNone RequirementType = iota // ANDed with the rest of the group
	ResetIf                         // resets every hit count while true
	PauseIf                         // freezes the group while true
)

// Requirement is a single comparison clause.
type Requirement struct {
	Type     RequirementType
	Left     Field
	Right    Field
	Operator RequirementOperator
	HitCount uint16 // 0 = every frame, N = at least N frames in total
}

// Equal is structural equality over all five components.
func (r Requirement) Equal(o Requirement) bool {
	return r.Type == o.Type &&
		r.Operator == o.Operator &&
		r.HitCount == o.HitCount &&
		r.Left.Equal(o.Left) &&
		r.Right.Equal(o.Right)
}

// IsPlain reports whether the requirement is an ordinary every-frame clause.
func (r Requirement) IsPlain() bool {
	return r.Type == RoleNone && r.HitCount == 0
}

// Achievement is a finalized achievement definition.
type Achievement struct {
	ID          int
	Title       string
	Description string
	Points      int
	BadgeName   string
	Core        []Requirement
	Alts        [][]Requirement
}

// Leaderboard is a finalized leaderboard definition. Start, Cancel and
// Submit are encoded triggers; Value is kept verbatim.
type Leaderboard struct {
	ID          int
	Title       string
	Description string
	Start       string
	Cancel      string
	Submit      string
	Value       string
}

// AchievementSet is everything a front end produced for one game.
type AchievementSet struct {
	Title        string
	GameID       int
	Achievements []Achievement
	Leaderboards []Leaderboard
}
