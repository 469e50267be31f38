package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"knowbase/internal/config"
	"knowbase/internal/embedding"
	"knowbase/internal/ingest"
	"knowbase/internal/models"
	"knowbase/internal/notify"
	"knowbase/internal/providers"
	"knowbase/internal/retrieval"
	"knowbase/internal/storage"
	"knowbase/internal/util"
	"knowbase/internal/vector"
	"knowbase/internal/workflows"

	"github.com/google/uuid"
	enumspb "go.temporal.io/api/enums/v1"
	tclient "go.temporal.io/sdk/client"
)

type Server struct {
	cfg           config.Config
	db            *storage.DB
	documentRepo  *storage.DocumentRepo
	knowledgeRepo *storage.KnowledgeRepo
	chunkRepo     *storage.ChunkRepo
	engine        *retrieval.Engine
	temporal      tclient.Client
	events        notify.Subscriber
}

func NewServer(cfg config.Config) *Server {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := storage.NewDB(ctx, cfg.PostgresURL)
	if err != nil {
		panic(err)
	}
	pm, err := providers.NewManager(cfg.EmbedProviders, cfg.LLMProviders, cfg.EmbedDim)
	if err != nil {
		panic(err)
	}
	tc, err := tclient.Dial(tclient.Options{HostPort: cfg.TemporalAddress})
	if err != nil {
		panic(err)
	}

	documentRepo := storage.NewDocumentRepo(db)
	knowledgeRepo := storage.NewKnowledgeRepo(db)
	adapter := embedding.NewAdapter(pm.EmbedProvider(), cfg.EmbedDim)
	engine := retrieval.NewEngine(retrieval.Options{
		TopK:          cfg.TopK,
		ContextBudget: cfg.ContextBudget,
	}, vector.NewSearcher(db.Pool), adapter, pm.LLMProvider(), documentRepo, knowledgeRepo)

	var events notify.Subscriber = notify.NewMemoryHub()
	if cfg.RedisAddr != "" {
		events = notify.NewRedisPublisher(cfg.RedisAddr)
	}

	return &Server{
		cfg:           cfg,
		db:            db,
		documentRepo:  documentRepo,
		knowledgeRepo: knowledgeRepo,
		chunkRepo:     storage.NewChunkRepo(db),
		engine:        engine,
		temporal:      tc,
		events:        events,
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/documents", s.handleDocuments)
	mux.HandleFunc("/documents/upload", s.handleUpload)
	mux.HandleFunc("/documents/upload-chunked", s.handleChunkedInit)
	mux.HandleFunc("/documents/", s.handleDocumentScoped)
	mux.HandleFunc("/knowledge", s.handleKnowledge)
	mux.HandleFunc("/knowledge/", s.handleKnowledgeScoped)
	mux.HandleFunc("/chat", s.handleChat)
	mux.HandleFunc("/events/", s.handleEvents)
	return withCORS(mux)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	docs, err := s.documentRepo.ListDocuments(r.Context(), offset, limit)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs, "count": len(docs)})
}

// handleUpload is the single-request path: save the file, create the
// document and hand the id to the ingestion workflow.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxFileSize)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("parse multipart: %w", err))
		return
	}
	file, fh, err := r.FormFile("file")
	if err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("no file provided"))
		return
	}
	defer file.Close()

	if err := util.EnsureDir(s.cfg.UploadDir); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}

	storedName := uuid.NewString() + filepath.Ext(fh.Filename)
	savedPath, err := saveUploadedFile(s.cfg.UploadDir, storedName, file)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}

	docID, err := s.documentRepo.CreateDocument(r.Context(), models.Document{
		Filename:         storedName,
		OriginalFilename: filepath.Base(fh.Filename),
		FilePath:         savedPath,
		FileSize:         fh.Size,
		MimeType:         fh.Header.Get("Content-Type"),
		UploadStatus:     models.UploadStatusUploaded,
		ProcessingStatus: models.ProcessingStatus{Step: models.StepUploaded, Progress: 100},
	})
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}

	clientID := r.FormValue("client_id")
	if err := s.startIngest(r.Context(), docID, clientID); err != nil {
		writeErr(w, http.StatusConflict, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{
		"id":                docID,
		"filename":          storedName,
		"original_filename": filepath.Base(fh.Filename),
		"upload_status":     models.UploadStatusProcessing,
	})
}

// handleChunkedInit creates the document shell for a chunked upload. Parts
// arrive via /documents/{id}/parts/{index} and /documents/{id}/complete
// triggers assembly.
func (s *Server) handleChunkedInit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	var req struct {
		Filename string `json:"filename"`
		FileSize int64  `json:"file_size"`
		MimeType string `json:"mime_type,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	req.Filename = strings.TrimSpace(req.Filename)
	if req.Filename == "" {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("filename is required"))
		return
	}
	if s.cfg.MaxFileSize > 0 && req.FileSize > s.cfg.MaxFileSize {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("file exceeds maximum size"))
		return
	}
	if err := util.EnsureDir(s.cfg.UploadDir); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}

	storedName := uuid.NewString() + filepath.Ext(req.Filename)
	docID, err := s.documentRepo.CreateDocument(r.Context(), models.Document{
		Filename:         storedName,
		OriginalFilename: filepath.Base(req.Filename),
		FileSize:         req.FileSize,
		MimeType:         req.MimeType,
		UploadStatus:     models.UploadStatusUploading,
		ProcessingStatus: models.ProcessingStatus{Step: models.StepUpload, Progress: 0},
	})
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": docID, "upload_status": models.UploadStatusUploading})
}

func (s *Server) handleDocumentScoped(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/documents/"), "/"), "/")
	if len(parts) < 1 || parts[0] == "" {
		writeErr(w, http.StatusNotFound, fmt.Errorf("not found"))
		return
	}
	docID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		writeErr(w, http.StatusNotFound, fmt.Errorf("not found"))
		return
	}

	switch {
	case len(parts) == 1:
		s.handleDocument(w, r, docID)
	case len(parts) == 2 && parts[1] == "status":
		s.handleDocumentStatus(w, r, docID)
	case len(parts) == 2 && parts[1] == "chunks":
		s.handleDocumentChunks(w, r, docID)
	case len(parts) == 2 && parts[1] == "reprocess":
		s.handleReprocess(w, r, docID)
	case len(parts) == 2 && parts[1] == "complete":
		s.handleChunkedComplete(w, r, docID)
	case len(parts) == 3 && parts[1] == "parts":
		index, err := strconv.Atoi(parts[2])
		if err != nil || index < 0 {
			writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid part index"))
			return
		}
		s.handleUploadPart(w, r, docID, index)
	default:
		writeErr(w, http.StatusNotFound, fmt.Errorf("not found"))
	}
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request, docID int64) {
	switch r.Method {
	case http.MethodGet:
		doc, err := s.documentRepo.GetDocument(r.Context(), docID)
		if err != nil {
			writeNotFoundOr500(w, err)
			return
		}
		writeJSON(w, http.StatusOK, doc)
	case http.MethodDelete:
		doc, err := s.documentRepo.GetDocument(r.Context(), docID)
		if err != nil {
			writeNotFoundOr500(w, err)
			return
		}
		deleted, err := s.documentRepo.DeleteDocument(r.Context(), docID)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		if doc.FilePath != "" {
			if err := os.Remove(doc.FilePath); err != nil && !os.IsNotExist(err) {
				log.Printf("[api] remove file for document %d: %v", docID, err)
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"deleted": deleted})
	default:
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
	}
}

func (s *Server) handleDocumentStatus(w http.ResponseWriter, r *http.Request, docID int64) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	doc, err := s.documentRepo.GetDocument(r.Context(), docID)
	if err != nil {
		writeNotFoundOr500(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":                doc.ID,
		"upload_status":     doc.UploadStatus,
		"processing_status": doc.ProcessingStatus,
		"chunk_count":       doc.ChunkCount,
		"total_chunks":      doc.TotalChunks,
	})
}

func (s *Server) handleDocumentChunks(w http.ResponseWriter, r *http.Request, docID int64) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	if _, err := s.documentRepo.GetDocument(r.Context(), docID); err != nil {
		writeNotFoundOr500(w, err)
		return
	}
	chunks, err := s.chunkRepo.ListByParent(r.Context(), models.DocumentParent(docID))
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"chunks": chunks, "count": len(chunks)})
}

func (s *Server) handleReprocess(w http.ResponseWriter, r *http.Request, docID int64) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	if _, err := s.documentRepo.GetDocument(r.Context(), docID); err != nil {
		writeNotFoundOr500(w, err)
		return
	}
	clientID := r.URL.Query().Get("client_id")
	we, err := s.temporal.ExecuteWorkflow(r.Context(), tclient.StartWorkflowOptions{
		ID:                                       workflows.DocumentIngestWorkflowID(docID),
		TaskQueue:                                s.cfg.TemporalTaskQueue,
		WorkflowIDReusePolicy:                    enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}, workflows.ReprocessWorkflow, workflows.ReprocessInput{DocumentID: docID, ClientID: clientID})
	if err != nil {
		writeErr(w, http.StatusConflict, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"workflow_id": we.GetID(), "run_id": we.GetRunID()})
}

func (s *Server) handleUploadPart(w http.ResponseWriter, r *http.Request, docID int64, index int) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	if _, err := s.documentRepo.GetDocument(r.Context(), docID); err != nil {
		writeNotFoundOr500(w, err)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxFileSize)

	var src io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			writeErr(w, http.StatusBadRequest, fmt.Errorf("parse multipart: %w", err))
			return
		}
		file, _, err := r.FormFile("chunk")
		if err != nil {
			writeErr(w, http.StatusBadRequest, fmt.Errorf("no chunk provided"))
			return
		}
		defer file.Close()
		src = file
	}

	partPath := ingest.PartPath(s.cfg.UploadDir, docID, index)
	out, err := os.Create(partPath)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, fmt.Errorf("create part: %w", err))
		return
	}
	n, err := io.Copy(out, src)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, fmt.Errorf("write part: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": docID, "part": index, "bytes": n})
}

func (s *Server) handleChunkedComplete(w http.ResponseWriter, r *http.Request, docID int64) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	var req struct {
		TotalParts int    `json:"total_parts"`
		ClientID   string `json:"client_id,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	if req.TotalParts <= 0 {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("total_parts is required"))
		return
	}
	if _, err := s.documentRepo.GetDocument(r.Context(), docID); err != nil {
		writeNotFoundOr500(w, err)
		return
	}

	we, err := s.temporal.ExecuteWorkflow(r.Context(), tclient.StartWorkflowOptions{
		ID:                                       workflows.DocumentIngestWorkflowID(docID),
		TaskQueue:                                s.cfg.TemporalTaskQueue,
		WorkflowIDReusePolicy:                    enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}, workflows.ChunkedUploadWorkflow, workflows.ChunkedUploadInput{
		DocumentID: docID,
		TotalParts: req.TotalParts,
		ClientID:   req.ClientID,
	})
	if err != nil {
		writeErr(w, http.StatusConflict, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"workflow_id": we.GetID(), "run_id": we.GetRunID()})
}

func (s *Server) handleKnowledge(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		entries, err := s.knowledgeRepo.ListEntries(r.Context(), offset, limit)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"entries": entries, "count": len(entries)})
	case http.MethodPost:
		var entry models.KnowledgeEntry
		if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
			writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
			return
		}
		entry.Title = strings.TrimSpace(entry.Title)
		if entry.Title == "" || strings.TrimSpace(entry.Content) == "" {
			writeErr(w, http.StatusBadRequest, fmt.Errorf("title and content are required"))
			return
		}
		entry.ProcessingStatus = models.ChunkStatusPending
		entryID, err := s.knowledgeRepo.CreateEntry(r.Context(), entry)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}

		clientID := r.URL.Query().Get("client_id")
		we, err := s.temporal.ExecuteWorkflow(r.Context(), tclient.StartWorkflowOptions{
			ID:                                       workflows.KnowledgeIngestWorkflowID(entryID),
			TaskQueue:                                s.cfg.TemporalTaskQueue,
			WorkflowIDReusePolicy:                    enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
			WorkflowExecutionErrorWhenAlreadyStarted: true,
		}, workflows.KnowledgeEntryIngestWorkflow, workflows.KnowledgeEntryIngestInput{EntryID: entryID, ClientID: clientID})
		if err != nil {
			writeErr(w, http.StatusConflict, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]any{"id": entryID, "workflow_id": we.GetID()})
	default:
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
	}
}

func (s *Server) handleKnowledgeScoped(w http.ResponseWriter, r *http.Request) {
	idStr := strings.Trim(strings.TrimPrefix(r.URL.Path, "/knowledge/"), "/")
	entryID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeErr(w, http.StatusNotFound, fmt.Errorf("not found"))
		return
	}
	switch r.Method {
	case http.MethodGet:
		entry, err := s.knowledgeRepo.GetEntry(r.Context(), entryID)
		if err != nil {
			writeNotFoundOr500(w, err)
			return
		}
		writeJSON(w, http.StatusOK, entry)
	case http.MethodDelete:
		deleted, err := s.knowledgeRepo.DeleteEntry(r.Context(), entryID)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"deleted": deleted})
	default:
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
	}
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	var req struct {
		Query          string               `json:"query"`
		ChatHistory    []models.ChatMessage `json:"chat_history,omitempty"`
		DocumentIDs    []int64              `json:"document_ids,omitempty"`
		UseGraphSearch bool                 `json:"use_graph_search,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("query is required"))
		return
	}

	resp, err := s.engine.Answer(r.Context(), req.Query, req.ChatHistory, req.DocumentIDs, req.UseGraphSearch)
	if err != nil {
		if errors.Is(err, util.ErrQueryEmbedding) {
			writeErr(w, http.StatusBadGateway, err)
			return
		}
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleEvents streams processing events for one client id over SSE.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	clientID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/events/"), "/")
	if clientID == "" {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("client id is required"))
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeErr(w, http.StatusInternalServerError, fmt.Errorf("streaming unsupported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch, closeFn := s.events.Subscribe(r.Context(), clientID)
	defer closeFn()

	keepalive := time.NewTicker(15 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepalive.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		case ev, ok := <-ch:
			if !ok {
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, payload)
			flusher.Flush()
		}
	}
}

func (s *Server) startIngest(ctx context.Context, docID int64, clientID string) error {
	_, err := s.temporal.ExecuteWorkflow(ctx, tclient.StartWorkflowOptions{
		ID:                                       workflows.DocumentIngestWorkflowID(docID),
		TaskQueue:                                s.cfg.TemporalTaskQueue,
		WorkflowIDReusePolicy:                    enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}, workflows.DocumentIngestWorkflow, workflows.DocumentIngestInput{DocumentID: docID, ClientID: clientID})
	return err
}

func saveUploadedFile(dstDir, storedName string, src multipart.File) (string, error) {
	tmp, err := os.CreateTemp(dstDir, "upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	if _, err := io.Copy(tmp, src); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	finalPath := util.SafeJoin(dstDir, storedName)
	if err := os.Rename(tmp.Name(), finalPath); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("atomic move upload: %w", err)
	}
	return finalPath, nil
}

func writeNotFoundOr500(w http.ResponseWriter, err error) {
	if errors.Is(err, util.ErrNotFound) {
		writeErr(w, http.StatusNotFound, err)
		return
	}
	writeErr(w, http.StatusInternalServerError, err)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, err error) {
	msg := "request failed"
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, code, map[string]any{"error": map[string]any{"status": code, "message": msg}})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
