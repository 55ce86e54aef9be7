package progress

import "errors"

// Errors returned when a progress bar cannot be built or reset.
var (
	ErrEmptyTotal    = errors.New("at least one task is required")
	ErrTotalOverflow = errors.New("the total number of tasks cannot exceed 4,294,967,295")
	ErrEmptyTask     = errors.New("task names cannot be empty")
	ErrTaskOverflow  = errors.New("task names cannot exceed 65,535 bytes")
)
