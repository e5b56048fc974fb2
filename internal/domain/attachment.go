package domain

// Attachment is an optional photo sent along with a transfer.
type Attachment struct {
	Filename    string // as sent by the client, never used as a storage key
	ContentType string
	Size        int64
	Content     []byte
}
