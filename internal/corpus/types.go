package corpus

import "time"

// Document is the durable record of one uploaded file within a session.
type Document struct {
	ID         int64     `json:"id"`
	Filename   string    `json:"filename"`
	SessionID  string    `json:"session_id"`
	UploadTime time.Time `json:"upload_time"`
	NumChunks  int       `json:"num_chunks"`
}

// Chunk is one contiguous text segment of a Document, kept for accounting
// and debugging. Vectors live only in the session's index artifact.
type Chunk struct {
	ID         int64  `json:"id"`
	DocumentID int64  `json:"document_id"`
	Content    string `json:"content"`
}

// QueryLogEntry is an append-only record of one answered question.
type QueryLogEntry struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Question  string    `json:"question"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// UploadFile is one file in an ingestion batch.
type UploadFile struct {
	Name string
	Data []byte
}

// IngestResult reports the outcome of an ingestion batch: the accumulated
// distinct filenames known to the session after the batch.
type IngestResult struct {
	UploadedFilenames []string `json:"uploaded_files"`
}

// RemovalResult reports a successful document removal.
type RemovalResult struct {
	Status   string `json:"status"`
	Filename string `json:"filename"`
}
