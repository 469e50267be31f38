package activities

type ProcessDocumentInput struct {
	DocumentID int64  `json:"document_id"`
	ClientID   string `json:"client_id,omitempty"`
}

type AssembleUploadInput struct {
	DocumentID int64  `json:"document_id"`
	TotalParts int    `json:"total_parts"`
	ClientID   string `json:"client_id,omitempty"`
}

type ReprocessDocumentInput struct {
	DocumentID int64  `json:"document_id"`
	ClientID   string `json:"client_id,omitempty"`
}

type ProcessKnowledgeEntryInput struct {
	EntryID  int64  `json:"entry_id"`
	ClientID string `json:"client_id,omitempty"`
}
