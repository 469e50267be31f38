package workflows

type DocumentIngestInput struct {
	DocumentID int64  `json:"document_id"`
	ClientID   string `json:"client_id,omitempty"`
}

type ChunkedUploadInput struct {
	DocumentID int64  `json:"document_id"`
	TotalParts int    `json:"total_parts"`
	ClientID   string `json:"client_id,omitempty"`
}

type ReprocessInput struct {
	DocumentID int64  `json:"document_id"`
	ClientID   string `json:"client_id,omitempty"`
}

type KnowledgeEntryIngestInput struct {
	EntryID  int64  `json:"entry_id"`
	ClientID string `json:"client_id,omitempty"`
}
