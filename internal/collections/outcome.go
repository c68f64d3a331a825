package collections

// NoticeLevel tags an outcome for the presentation layer.
type NoticeLevel string

const (
	// NoticeSuccess reports a completed operation.
	NoticeSuccess NoticeLevel = "success"
	// NoticeWarning reports a completed operation with degraded data,
	// such as a placeholder record, or an informational duplicate.
	NoticeWarning NoticeLevel = "warning"
	// NoticeError reports an operation that changed nothing.
	NoticeError NoticeLevel = "error"
)

// Outcome is the user-facing result of an add, delete, or resync operation.
// Messages are short plain language; operator detail goes to the logs only.
type Outcome struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

func successOutcome(message string) Outcome {
	return Outcome{Level: NoticeSuccess, Message: message}
}

func warningOutcome(message string) Outcome {
	return Outcome{Level: NoticeWarning, Message: message}
}

func errorOutcome(message string) Outcome {
	return Outcome{Level: NoticeError, Message: message}
}
