package report

import (
	"context"
	"time"

	"github.com/lastikpazari/backend/internal/domain/report"
	"github.com/lastikpazari/backend/internal/domain/shared"
	"github.com/lastikpazari/backend/internal/domain/shared/valueobject"
	"github.com/lastikpazari/backend/internal/infrastructure/export"
	"github.com/lastikpazari/backend/internal/infrastructure/logger"
	"github.com/lastikpazari/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Format is an export document format
type Format string

const (
	FormatExcel Format = "xlsx"
	FormatWord  Format = "docx"
)

// Content types of the export formats
const (
	ContentTypeExcel = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeWord  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// FilenamePrefix starts every export filename
const FilenamePrefix = "lastik-analiz-raporu"

// ArchiveStorage keeps a copy of generated documents
type ArchiveStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	PresignGet(ctx context.Context, key, filename string) (string, time.Time, error)
}

// Document is a generated export
type Document struct {
	Filename    string
	ContentType string
	Content     []byte
	// URL is a presigned download link, set when the document was archived
	URL       string
	ExpiresAt time.Time
}

// ExportService builds analysis documents and archives them
type ExportService struct {
	archive ArchiveStorage
	now     func() time.Time
}

// NewExportService creates a new ExportService. archive may be nil.
func NewExportService(archive ArchiveStorage) *ExportService {
	return &ExportService{archive: archive, now: time.Now}
}

// Export renders the analysis as an Excel workbook or Word document
func (s *ExportService) Export(ctx context.Context, analysis *report.Analysis, format Format) (*Document, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "export", string(format),
		telemetry.SpanAttrFormat, string(format))
	defer span.End()

	if analysis == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Analysis payload is required")
	}
	if err := analysis.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	var (
		content     []byte
		contentType string
		err         error
	)
	switch format {
	case FormatExcel:
		content, err = export.BuildWorkbook(analysis, now)
		contentType = ContentTypeExcel
	case FormatWord:
		content, err = export.BuildDocument(analysis, now)
		contentType = ContentTypeWord
	default:
		return nil, shared.NewDomainError("INVALID_FORMAT", "Unknown export format: "+string(format))
	}
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	doc := &Document{
		Filename:    Filename(format, now),
		ContentType: contentType,
		Content:     content,
	}
	s.archiveDocument(ctx, doc, now)

	logger.FromContext(ctx).Info("Analysis exported",
		zap.String("format", string(format)),
		zap.String("filename", doc.Filename),
		zap.Int("bytes", len(content)),
		zap.String("severity", string(analysis.Severity().Level)))
	return doc, nil
}

// archiveDocument uploads doc and sets its download URL.
// Archiving is best effort; the caller still gets the document.
func (s *ExportService) archiveDocument(ctx context.Context, doc *Document, now time.Time) {
	if s.archive == nil {
		return
	}
	key := ArchiveKey(doc.Filename, now)
	log := logger.FromContext(ctx).With(zap.String("key", key))

	if err := s.archive.Put(ctx, key, doc.Content, doc.ContentType); err != nil {
		log.Warn("Failed to archive export", zap.Error(err))
		return
	}
	url, expiresAt, err := s.archive.PresignGet(ctx, key, doc.Filename)
	if err != nil {
		log.Warn("Failed to presign export", zap.Error(err))
		return
	}
	doc.URL = url
	doc.ExpiresAt = expiresAt
}

// Filename returns lastik-analiz-raporu-YYYYMMDD-HHMMSS.<ext> in Istanbul time
func Filename(format Format, now time.Time) string {
	return FilenamePrefix + "-" + now.In(valueobject.Istanbul).Format("20060102-150405") + "." + string(format)
}

// ArchiveKey returns exports/YYYY/MM/<filename>
func ArchiveKey(filename string, now time.Time) string {
	return "exports/" + now.In(valueobject.Istanbul).Format("2006/01") + "/" + filename
}
