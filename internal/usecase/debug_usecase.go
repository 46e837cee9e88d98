package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/entity"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/feature"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/port/repository"
	"go.uber.org/zap"
)

const DefaultDebugLimit = 10

type DebugDump struct {
	TotalDocuments int64                `json:"totalDocuments"`
	Documents      []entity.RawDocument `json:"documents"`
	Message        string               `json:"message"`
}

type ContentSummary struct {
	ID       string          `json:"id"`
	Features map[string]bool `json:"features"`
	Headline string          `json:"headline"`
	Time     string          `json:"time"`
}

type DebugContent struct {
	TotalDocuments int64            `json:"total_documents"`
	Documents      []ContentSummary `json:"documents"`
	Message        string           `json:"message"`
}

// DebugUseCase exposes raw views of the primary collection for diagnostics.
type DebugUseCase struct {
	contentRepo repository.ContentRepository
	logger      *zap.Logger
}

func NewDebugUseCase(cr repository.ContentRepository, log *zap.Logger) *DebugUseCase {
	return &DebugUseCase{contentRepo: cr, logger: log}
}

func (uc *DebugUseCase) Dump(ctx context.Context, limit int) (*DebugDump, error) {
	limit = orDefaultLimit(limit, DefaultDebugLimit)
	total, docs, err := uc.load(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("DebugUseCase.Dump: %w", err)
	}
	return &DebugDump{
		TotalDocuments: total,
		Documents:      docs,
		Message:        fmt.Sprintf("Showing %d of %d documents from %s", len(docs), total, entity.SourceGenerated),
	}, nil
}

// Content summarises each document as its id, flag bag, headline and time.
func (uc *DebugUseCase) Content(ctx context.Context, limit int) (*DebugContent, error) {
	limit = orDefaultLimit(limit, DefaultDebugLimit)
	total, docs, err := uc.load(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("DebugUseCase.Content: %w", err)
	}

	summaries := make([]ContentSummary, 0, len(docs))
	for _, doc := range docs {
		raw, _ := doc["features"].(map[string]interface{})
		flags, _ := feature.FromRaw(raw)
		summaries = append(summaries, ContentSummary{
			ID:       fmt.Sprint(doc["_id"]),
			Features: flags,
			Headline: firstText(doc, "original_headline", "headline", "title"),
			Time:     timeText(doc["time"]),
		})
	}
	return &DebugContent{
		TotalDocuments: total,
		Documents:      summaries,
		Message:        fmt.Sprintf("Showing %d of %d documents from %s", len(summaries), total, entity.SourceGenerated),
	}, nil
}

func (uc *DebugUseCase) load(ctx context.Context, limit int) (int64, []entity.RawDocument, error) {
	total, err := uc.contentRepo.Count(ctx)
	if err != nil {
		uc.logger.Error("Failed to count documents for debug", zap.Error(err))
		return 0, nil, err
	}
	docs, err := uc.contentRepo.ListRaw(ctx, limit)
	if err != nil {
		uc.logger.Error("Failed to list documents for debug", zap.Error(err))
		return 0, nil, err
	}
	if docs == nil {
		docs = []entity.RawDocument{}
	}
	return total, docs, nil
}

func firstText(doc entity.RawDocument, keys ...string) string {
	for _, k := range keys {
		if s, ok := doc[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func timeText(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case time.Time:
		return entity.FormatTimestamp(t)
	case interface{ Time() time.Time }:
		return entity.FormatTimestamp(t.Time())
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
