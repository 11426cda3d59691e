package logic

import "fmt"

// CodeLen is the number of characters in an access code.
const CodeLen = 4

// Placeholder fills unentered code positions.
const Placeholder byte = '_'

// Code is a fixed-length access code.
type Code [CodeLen]byte

// EmptyCode is a code with every position unentered.
var EmptyCode = Code{Placeholder, Placeholder, Placeholder, Placeholder}

// ParseCode converts a 4-digit string into a Code.
func ParseCode(s string) (Code, error) {
	var c Code
	if len(s) != CodeLen {
		return c, fmt.Errorf("code must be %d digits, got %d characters", CodeLen, len(s))
	}
	for i := 0; i < CodeLen; i++ {
		if !isDigit(s[i]) {
			return c, fmt.Errorf("code character %d is %q, want a digit", i+1, s[i])
		}
		c[i] = s[i]
	}
	return c, nil
}

func (c Code) String() string {
	return string(c[:])
}

// CodeEntry is the code being typed on the keypad.
type CodeEntry struct {
	code Code
	n    int
}

// NewCodeEntry returns an empty entry.
func NewCodeEntry() CodeEntry {
	return CodeEntry{code: EmptyCode}
}

// Append adds a digit. It reports false if the entry is already full.
func (e *CodeEntry) Append(d byte) bool {
	if e.n >= CodeLen {
		return false
	}
	e.code[e.n] = d
	e.n++
	return true
}

// Delete removes the last digit. It reports false if the entry is empty.
func (e *CodeEntry) Delete() bool {
	if e.n == 0 {
		return false
	}
	e.n--
	e.code[e.n] = Placeholder
	return true
}

// Reset clears the entry back to placeholders.
func (e *CodeEntry) Reset() {
	e.code = EmptyCode
	e.n = 0
}

// Code returns the entered characters with placeholders in unentered positions.
func (e *CodeEntry) Code() Code {
	return e.code
}

// Len returns the number of digits entered.
func (e *CodeEntry) Len() int {
	return e.n
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
