package console

import "fmt"

// DisplayMode selects how inbound bytes are rendered on screen.
type DisplayMode int

const (
	DisplayPlainText DisplayMode = iota
	DisplayHexadecimal
)

// String returns the wire name used by the settings API.
func (m DisplayMode) String() string {
	switch m {
	case DisplayPlainText:
		return "plain"
	case DisplayHexadecimal:
		return "hex"
	default:
		return "unknown"
	}
}

// ParseDisplayMode converts a settings API value to a DisplayMode.
func ParseDisplayMode(s string) (DisplayMode, error) {
	switch s {
	case "plain", "text", "utf8":
		return DisplayPlainText, nil
	case "hex", "hexadecimal":
		return DisplayHexadecimal, nil
	default:
		return DisplayPlainText, fmt.Errorf("unknown display mode: %q", s)
	}
}

// DataMode selects the encoding applied to text the user sends.
type DataMode int

const (
	DataUTF8 DataMode = iota
	DataHexadecimal
)

func (m DataMode) String() string {
	switch m {
	case DataUTF8:
		return "utf8"
	case DataHexadecimal:
		return "hex"
	default:
		return "unknown"
	}
}

// ParseDataMode converts a settings API value to a DataMode.
func ParseDataMode(s string) (DataMode, error) {
	switch s {
	case "utf8", "ascii", "text":
		return DataUTF8, nil
	case "hex", "hexadecimal":
		return DataHexadecimal, nil
	default:
		return DataUTF8, fmt.Errorf("unknown data mode: %q", s)
	}
}

// LineEnding selects the terminator appended to outbound commands.
type LineEnding int

const (
	LineEndingNone LineEnding = iota
	LineEndingNewLine
	LineEndingCarriageReturn
	LineEndingBoth
)

func (e LineEnding) String() string {
	switch e {
	case LineEndingNone:
		return "none"
	case LineEndingNewLine:
		return "newline"
	case LineEndingCarriageReturn:
		return "carriage_return"
	case LineEndingBoth:
		return "both"
	default:
		return "unknown"
	}
}

// Bytes returns the terminator bytes appended to outbound payloads.
func (e LineEnding) Bytes() []byte {
	switch e {
	case LineEndingNewLine:
		return []byte("\n")
	case LineEndingCarriageReturn:
		return []byte("\r")
	case LineEndingBoth:
		return []byte("\r\n")
	default:
		return nil
	}
}

// ParseLineEnding converts a settings API value to a LineEnding.
func ParseLineEnding(s string) (LineEnding, error) {
	switch s {
	case "none", "":
		return LineEndingNone, nil
	case "newline", "nl", "lf":
		return LineEndingNewLine, nil
	case "carriage_return", "cr":
		return LineEndingCarriageReturn, nil
	case "both", "crlf":
		return LineEndingBoth, nil
	default:
		return LineEndingNone, fmt.Errorf("unknown line ending: %q", s)
	}
}
