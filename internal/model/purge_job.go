package model

// PurgeJob is the payload of a history purge message. An empty PDFName means
// all of the user's records, which is how account deletion cascades into the
// chat history.
type PurgeJob struct {
	UserID  uint   `json:"user_id"`
	PDFName string `json:"pdf_name,omitempty"`
}
