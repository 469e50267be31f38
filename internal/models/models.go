package models

import "time"

const (
	UploadStatusUploading  = "uploading"
	UploadStatusUploaded   = "uploaded"
	UploadStatusProcessing = "processing"
	UploadStatusCompleted  = "completed"
	UploadStatusFailed     = "failed"
)

const (
	StepUpload         = "upload"
	StepUploaded       = "uploaded"
	StepTextExtraction = "text_extraction"
	StepTextCleaning   = "text_cleaning"
	StepChunking       = "chunking"
	StepEmbedding      = "embedding"
	StepEmbeddingBatch = "embedding_batch"
	StepCompleted      = "completed"
	StepError          = "error"
	StepAssemblyError  = "assembly_error"
)

const (
	ChunkStatusPending   = "pending"
	ChunkStatusProcessed = "processed"
	ChunkStatusFailed    = "failed"
)

// ProcessingStatus is the polled status snapshot for a parent. Step is one of
// the Step* constants, Progress is monotonic 0-100 within a run.
type ProcessingStatus struct {
	Step         string `json:"step"`
	Progress     int    `json:"progress"`
	Error        string `json:"error,omitempty"`
	FilePath     string `json:"file_path,omitempty"`
	MimeType     string `json:"mime_type,omitempty"`
	Batch        int    `json:"batch,omitempty"`
	TotalBatches int    `json:"total_batches,omitempty"`
}

type Document struct {
	ID               int64             `json:"id"`
	Filename         string            `json:"filename"`
	OriginalFilename string            `json:"original_filename"`
	FilePath         string            `json:"file_path"`
	FileSize         int64             `json:"file_size"`
	MimeType         string            `json:"mime_type"`
	UploadStatus     string            `json:"upload_status"`
	ProcessingStatus ProcessingStatus  `json:"processing_status"`
	ChunkCount       int               `json:"chunk_count"`
	TotalChunks      int               `json:"total_chunks"`
	ExtractedText    string            `json:"extracted_text,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

type KnowledgeEntry struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title"`
	Summary          string    `json:"summary,omitempty"`
	Content          string    `json:"content"`
	Keywords         []string  `json:"keywords,omitempty"`
	Categories       []string  `json:"categories,omitempty"`
	Source           string    `json:"source,omitempty"`
	Author           string    `json:"author,omitempty"`
	Date             string    `json:"date,omitempty"`
	ChunkCount       int       `json:"chunk_count"`
	ProcessingStatus string    `json:"processing_status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type ParentKind string

const (
	ParentDocument  ParentKind = "document"
	ParentKnowledge ParentKind = "knowledge_entry"
)

// ParentRef names the single owner of a chunk. A chunk belongs to a document
// or a knowledge entry, never both.
type ParentRef struct {
	Kind ParentKind `json:"kind"`
	ID   int64      `json:"id"`
}

func DocumentParent(id int64) ParentRef  { return ParentRef{Kind: ParentDocument, ID: id} }
func KnowledgeParent(id int64) ParentRef { return ParentRef{Kind: ParentKnowledge, ID: id} }

type ChunkMeta struct {
	PageNumber    int    `json:"page_number,omitempty"`
	SectionHeader string `json:"section_header,omitempty"`
}

type Chunk struct {
	ID               int64     `json:"id"`
	Parent           ParentRef `json:"parent"`
	ChunkIndex       int       `json:"chunk_index"`
	Content          string    `json:"content"`
	ContentCleaned   string    `json:"content_cleaned,omitempty"`
	Embedding        []float32 `json:"-"`
	Meta             ChunkMeta `json:"metadata,omitempty"`
	WordCount        int       `json:"word_count"`
	CharCount        int       `json:"char_count"`
	ProcessingStatus string    `json:"processing_status"`
	CreatedAt        time.Time `json:"created_at"`
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type SourceReference struct {
	DocumentID     int64   `json:"document_id"`
	DocumentTitle  string  `json:"document_title"`
	Filename       string  `json:"filename,omitempty"`
	ChunkID        int64   `json:"chunk_id"`
	PageNumber     int     `json:"page_number,omitempty"`
	Author         string  `json:"author,omitempty"`
	Date           string  `json:"date,omitempty"`
	SectionHeader  string  `json:"section_header,omitempty"`
	RelevanceScore float64 `json:"relevance_score"`
}

type ChatResponse struct {
	Query          string            `json:"query"`
	Response       string            `json:"response"`
	Sources        []SourceReference `json:"sources"`
	Timestamp      time.Time         `json:"timestamp"`
	ProcessingTime float64           `json:"processing_time"`
	ModelUsed      string            `json:"model_used,omitempty"`
}
