package formsyntax

// CollectionState tracks which logical field of a pair is under construction.
type CollectionState uint8

const (
	// PrepKey waits for the first character of a key. Entering it with a
	// non-empty key buffer flushes the pending pair.
	PrepKey CollectionState = iota
	// BuildKey accumulates key characters.
	BuildKey
	// PrepVal waits for the first character of a value.
	PrepVal
	// BuildVal accumulates value characters.
	BuildVal
)

func (s CollectionState) String() string {
	switch s {
	case PrepKey:
		return "PrepKey"
	case BuildKey:
		return "BuildKey"
	case PrepVal:
		return "PrepVal"
	case BuildVal:
		return "BuildVal"
	default:
		return "CollectionState(?)"
	}
}

// StringState tracks how the character stream of the active field is decoded.
type StringState uint8

const (
	// Default reads unquoted characters.
	Default StringState = iota
	// EndKey follows whitespace after an unquoted key; only spaces and a
	// colon are allowed.
	EndKey
	// SpecialChar copies the next character literally, then returns to Default.
	SpecialChar
	// InStr reads characters inside a quoted token.
	InStr
	// OutStr follows the closing quote of a quoted key.
	OutStr
	// InStrSpecial copies the next character literally, then returns to InStr.
	InStrSpecial
)

func (s StringState) String() string {
	switch s {
	case Default:
		return "Default"
	case EndKey:
		return "EndKey"
	case SpecialChar:
		return "SpecialChar"
	case InStr:
		return "InStr"
	case OutStr:
		return "OutStr"
	case InStrSpecial:
		return "InStrSpecial"
	default:
		return "StringState(?)"
	}
}
