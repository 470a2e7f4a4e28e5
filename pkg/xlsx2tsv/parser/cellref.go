package parser

import (
	"fmt"
	"strconv"
)

// maxColumnLetters bounds the column part of a reference; "XFD", the last
// spreadsheet column, needs three.
const maxColumnLetters = 4

// CellAddress is a 0-based cell position.
type CellAddress struct {
	Row int
	Col int
}

// ParseCellRef decodes a reference such as "C5" into a 0-based address.
// The column letters are a bijective base-26 number (A=0, Z=25, AA=26) and
// are case-insensitive; the digits are the 1-based row.
func ParseCellRef(ref string) (CellAddress, error) {
	i := 0
	col := 0
	for i < len(ref) && isLetter(ref[i]) {
		if i == maxColumnLetters {
			return CellAddress{}, fmt.Errorf("invalid cell reference %q: column too wide", ref)
		}
		col = col*26 + int(upper(ref[i])-'A'+1)
		i++
	}
	if i == 0 {
		return CellAddress{}, fmt.Errorf("invalid cell reference %q: missing column", ref)
	}
	digits := ref[i:]
	if digits == "" {
		return CellAddress{}, fmt.Errorf("invalid cell reference %q: missing row", ref)
	}
	for j := 0; j < len(digits); j++ {
		if digits[j] < '0' || digits[j] > '9' {
			return CellAddress{}, fmt.Errorf("invalid cell reference %q", ref)
		}
	}
	row, err := strconv.Atoi(digits)
	if err != nil || row < 1 {
		return CellAddress{}, fmt.Errorf("invalid cell reference %q: bad row", ref)
	}
	return CellAddress{Row: row - 1, Col: col - 1}, nil
}

// String formats the address back into A1 notation.
func (a CellAddress) String() string {
	var letters []byte
	for n := a.Col + 1; n > 0; n = (n - 1) / 26 {
		letters = append([]byte{byte('A' + (n-1)%26)}, letters...)
	}
	return string(letters) + strconv.Itoa(a.Row+1)
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
