package port

type Notifier interface {
	// Error surfaces a failed operation to the user.
	Error(message, title string)

	// Warning surfaces a recoverable problem, e.g. an auto-corrected
	// preference.
	Warning(message, title string)

	Info(message, title string)
	Success(message, title string)
}
