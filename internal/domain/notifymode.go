package domain

// NotifyMode is the user-level notification preference.
type NotifyMode string

const (
	NotifyAll      NotifyMode = "all"
	NotifyMentions NotifyMode = "mentions"
	NotifyNone     NotifyMode = "none"
)
