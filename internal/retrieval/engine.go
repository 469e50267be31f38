package retrieval

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"knowbase/internal/models"
	"knowbase/internal/providers"
	"knowbase/internal/util"
	"knowbase/internal/vector"
)

const noContextAnswer = "I don't have relevant information in the knowledge base to answer this question. Try uploading documents that cover this topic first."

const generateFailureAnswer = "I apologize, but I'm having trouble generating a response right now. Please try again later."

type Searcher interface {
	SearchChunks(ctx context.Context, queryVec []float32, topK int, documentIDs []int64) ([]vector.Result, error)
}

type Embedder interface {
	Embed(ctx context.Context, text, mode string) []float32
}

type Generator interface {
	Generate(ctx context.Context, req providers.GenerateRequest) (providers.GenerateResponse, providers.ProviderInfo, error)
}

type DocumentGetter interface {
	GetDocument(ctx context.Context, id int64) (models.Document, error)
}

type EntryGetter interface {
	GetEntry(ctx context.Context, id int64) (models.KnowledgeEntry, error)
}

type Options struct {
	TopK          int
	ContextBudget int
}

func (o *Options) normalize() {
	if o.TopK <= 0 {
		o.TopK = 7
	}
	if o.ContextBudget <= 0 {
		o.ContextBudget = 4000
	}
}

// Engine answers a query over the ingested corpus: embed the enhanced query,
// run a similarity search, assemble a token-budgeted context and have the
// language model produce an attributed answer.
type Engine struct {
	opts      Options
	searcher  Searcher
	embedder  Embedder
	generator Generator
	documents DocumentGetter
	entries   EntryGetter
}

func NewEngine(opts Options, searcher Searcher, embedder Embedder, generator Generator, documents DocumentGetter, entries EntryGetter) *Engine {
	opts.normalize()
	return &Engine{
		opts:      opts,
		searcher:  searcher,
		embedder:  embedder,
		generator: generator,
		documents: documents,
		entries:   entries,
	}
}

// EnhanceQuery folds the most recent user turns into the retrieval query so
// follow-up questions keep their referents. Only the last four history
// messages are considered and assistant turns are ignored.
func EnhanceQuery(query string, history []models.ChatMessage) string {
	if len(history) > 4 {
		history = history[len(history)-4:]
	}
	var parts []string
	for _, msg := range history {
		if msg.Role != "user" || strings.TrimSpace(msg.Content) == "" {
			continue
		}
		parts = append(parts, "Previous question: "+msg.Content)
	}
	if len(parts) == 0 {
		return query
	}
	return strings.Join(parts, " ") + ". Current question: " + query
}

// Answer runs the full retrieval flow. documentIDs restricts the search to
// those documents when non-empty. The graph flag is accepted for API
// compatibility and has no effect.
func (e *Engine) Answer(ctx context.Context, query string, history []models.ChatMessage, documentIDs []int64, useGraph bool) (models.ChatResponse, error) {
	start := time.Now()
	if useGraph {
		log.Printf("[retrieval] graph search requested but not enabled, using vector search")
	}

	enhanced := EnhanceQuery(query, history)
	queryVec := e.embedder.Embed(ctx, enhanced, providers.ModeQuery)
	if queryVec == nil {
		return models.ChatResponse{}, util.ErrQueryEmbedding
	}

	results, err := e.searcher.SearchChunks(ctx, queryVec, e.opts.TopK, documentIDs)
	if err != nil {
		return models.ChatResponse{}, fmt.Errorf("search chunks: %w", err)
	}

	contextText, sources := e.assembleContext(ctx, results)

	answer := noContextAnswer
	modelUsed := ""
	if contextText != "" {
		gen, info, genErr := e.generator.Generate(ctx, providers.GenerateRequest{
			Query:   query,
			Context: contextText,
		})
		modelUsed = info.Model
		if genErr != nil {
			log.Printf("[retrieval] %s generate failed: %v", info.Name, genErr)
			answer = generateFailureAnswer
		} else {
			answer = gen.Text
		}
	}

	return models.ChatResponse{
		Query:          query,
		Response:       answer,
		Sources:        sources,
		Timestamp:      time.Now().UTC(),
		ProcessingTime: time.Since(start).Seconds(),
		ModelUsed:      modelUsed,
	}, nil
}

// assembleContext builds the prompt context from search results in rank
// order, stopping once the estimated token budget is spent. A source
// reference is emitted only for chunks that made it into the context, so
// attribution always matches what the model saw.
func (e *Engine) assembleContext(ctx context.Context, results []vector.Result) (string, []models.SourceReference) {
	var blocks []string
	var sources []models.SourceReference
	used := 0
	parents := map[models.ParentRef]parentInfo{}

	for i, r := range results {
		info, ok := parents[r.Parent]
		if !ok {
			info = e.resolveParent(ctx, r.Parent)
			parents[r.Parent] = info
		}

		block := fmt.Sprintf("[Source %d: %s, Section %d]\n%s\n", i+1, info.title, r.ChunkIndex+1, r.Content)
		estimate := estimateTokens(block)
		if used+estimate > e.opts.ContextBudget {
			break
		}
		used += estimate
		blocks = append(blocks, block)

		sources = append(sources, models.SourceReference{
			DocumentID:     r.Parent.ID,
			DocumentTitle:  info.title,
			Filename:       info.filename,
			ChunkID:        r.ChunkID,
			PageNumber:     r.Meta.PageNumber,
			Author:         info.author,
			Date:           info.date,
			SectionHeader:  r.Meta.SectionHeader,
			RelevanceScore: relevance(r.Distance),
		})
	}
	return strings.Join(blocks, "\n"), sources
}

type parentInfo struct {
	title    string
	filename string
	author   string
	date     string
}

func (e *Engine) resolveParent(ctx context.Context, parent models.ParentRef) parentInfo {
	switch parent.Kind {
	case models.ParentDocument:
		doc, err := e.documents.GetDocument(ctx, parent.ID)
		if err != nil {
			log.Printf("[retrieval] resolve document %d: %v", parent.ID, err)
			return parentInfo{title: "Unknown document"}
		}
		title := doc.Metadata["title"]
		if title == "" {
			title = doc.OriginalFilename
		}
		return parentInfo{
			title:    title,
			filename: doc.OriginalFilename,
			author:   doc.Metadata["author"],
			date:     doc.Metadata["date"],
		}
	case models.ParentKnowledge:
		entry, err := e.entries.GetEntry(ctx, parent.ID)
		if err != nil {
			log.Printf("[retrieval] resolve knowledge entry %d: %v", parent.ID, err)
			return parentInfo{title: "Unknown entry"}
		}
		return parentInfo{
			title:  entry.Title,
			author: entry.Author,
			date:   entry.Date,
		}
	default:
		return parentInfo{title: "Unknown source"}
	}
}

// estimateTokens is the cheap length/4 heuristic. Close enough for a budget
// cutoff and avoids tokenizing every candidate chunk on the query path.
func estimateTokens(s string) int {
	return len(s) / 4
}

// relevance maps a cosine distance onto (0, 1], higher meaning closer.
func relevance(distance float64) float64 {
	return 1.0 / (1.0 + distance)
}
