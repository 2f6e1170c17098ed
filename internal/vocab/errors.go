package vocab

import "fmt"

// ValidationError is a missing or malformed request parameter.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("Thiếu tham số '%s'.", e.Field)
}

// NotFoundError is a well-formed lesson lookup with no matching records.
type NotFoundError struct {
	Level string
	Topic string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Không tìm thấy bài học cho Level %s và Topic %s.", e.Level, e.Topic)
}
