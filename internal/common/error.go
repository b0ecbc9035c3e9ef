package common

import "fmt"

var (
	ErrNotFound           = fmt.Errorf("not found")
	ErrInvalidInput       = fmt.Errorf("invalid input")
	ErrMalformedRange     = fmt.Errorf("malformed range")
	ErrUnsatisfiableRange = fmt.Errorf("unsatisfiable range")
	ErrLectureDisabled    = fmt.Errorf("lecture disabled")
)
