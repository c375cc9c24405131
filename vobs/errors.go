package vobs

import "fmt"

// IndexOutOfRangeError is the panic value from [*Vector.Entry]
// when the requested index does not exist.
type IndexOutOfRangeError struct {
	Index, Len int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("entry index %d out of range for length %d", e.Index, e.Len)
}
