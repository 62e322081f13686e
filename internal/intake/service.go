package intake

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/joseph-ayodele/resume-intake/constants"
	"github.com/joseph-ayodele/resume-intake/internal/archive"
	"github.com/joseph-ayodele/resume-intake/internal/common"
	"github.com/joseph-ayodele/resume-intake/internal/extract"
	"github.com/joseph-ayodele/resume-intake/internal/llm"
	"github.com/joseph-ayodele/resume-intake/internal/rowstore"
	"github.com/joseph-ayodele/resume-intake/internal/twilio"
)

// MinTextLength is the stripped-length floor below which a plain message gets
// the generic instructional reply instead of field recovery.
const MinTextLength = 10

// MediaFetcher downloads one provider media attachment to local disk.
type MediaFetcher interface {
	Download(ctx context.Context, mediaURL, contentType, fallbackSID string) (string, error)
}

// Config holds behavior flags for the orchestrator.
type Config struct {
	// RequirePersist turns a failed append into an error reply. Off by
	// default: persistence stays best-effort and user feedback is decoupled
	// from storage durability.
	RequirePersist bool

	// KeepDownloads leaves downloaded attachments on disk after the reply.
	KeepDownloads bool
}

// Service coordinates one inbound event end to end: classify, extract,
// recover, persist, reply. Terminal state is always a reply string.
type Service struct {
	logger    *slog.Logger
	cfg       Config
	extractor extract.TextExtractor
	recoverer llm.FieldRecoverer
	store     rowstore.RowStore
	media     MediaFetcher
	journal   *archive.Journal // optional
}

func NewService(
	logger *slog.Logger,
	cfg Config,
	extractor extract.TextExtractor,
	recoverer llm.FieldRecoverer,
	store rowstore.RowStore,
	media MediaFetcher,
	journal *archive.Journal,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		logger:    logger,
		cfg:       cfg,
		extractor: extractor,
		recoverer: recoverer,
		store:     store,
		media:     media,
		journal:   journal,
	}
}

// HandleEvent processes one webhook event and returns the reply message.
// No failure inside any stage escapes as an error: everything degrades into
// a reply.
func (s *Service) HandleEvent(ctx context.Context, ev twilio.InboundEvent) string {
	s.logger.Info("intake.event",
		"req_id", common.RequestIDFromContext(ctx),
		"num_media", ev.NumMedia,
		"body_len", len(ev.Body),
	)
	if ev.NumMedia > 0 {
		return s.handleMedia(ctx, ev)
	}
	return s.handleText(ctx, ev)
}

func (s *Service) handleMedia(ctx context.Context, ev twilio.InboundEvent) string {
	path, err := s.media.Download(ctx, ev.MediaURL, ev.ContentType, ev.AccountSID)
	if err != nil {
		s.logger.Error("intake.media.download_failed", "content_type", ev.ContentType, "error", err)
		reply := downloadGenericErrorReply(err)
		var se *twilio.StatusError
		if errors.As(err, &se) {
			reply = downloadErrorReply(se.StatusCode)
		}
		s.record(ctx, archive.Entry{Path: "media", ReplyKind: "error", Error: err.Error()})
		return reply
	}
	if !s.cfg.KeepDownloads {
		defer func() {
			if rmErr := os.Remove(path); rmErr != nil {
				s.logger.Warn("intake.media.cleanup_failed", "path", path, "error", rmErr)
			}
		}()
	}

	res := s.extractor.Extract(ctx, path, ev.ContentType)
	s.logger.Info("intake.media.extracted",
		"path", path,
		"provenance", string(res.Provenance),
		"pages", res.Pages,
		"text_len", len(res.Text),
		"warnings", len(res.Warnings),
	)
	if strings.TrimSpace(res.Text) == "" {
		s.logger.Error("intake.media.no_text", "path", path, "provenance", string(res.Provenance))
		s.record(ctx, archive.Entry{
			Path: "media", Provenance: res.Provenance,
			ReplyKind: "error", Error: "no text extracted",
		})
		return replyNoText
	}

	rec := s.recoverer.RecoverFields(ctx, res.Text)
	return s.persistAndReply(ctx, rec, "media", res.Provenance)
}

func (s *Service) handleText(ctx context.Context, ev twilio.InboundEvent) string {
	body := strings.TrimSpace(ev.Body)
	if len(body) < MinTextLength {
		s.record(ctx, archive.Entry{Path: "text", ReplyKind: "instructional"})
		return replySendResume
	}
	if !constants.LooksLikeResume(body) {
		s.logger.Info("intake.text.not_resume_like", "body_len", len(body))
		s.record(ctx, archive.Entry{Path: "text", ReplyKind: "instructional"})
		return replyNotResume
	}

	rec := s.recoverer.RecoverFields(ctx, ev.Body)
	return s.persistAndReply(ctx, rec, "text", constants.ProvenancePlainMessage)
}

// persistAndReply appends the record's five canonical columns and composes
// the final reply. An append failure is logged and journaled but does not
// change the reply unless RequirePersist is set.
func (s *Service) persistAndReply(ctx context.Context, rec llm.ResumeRecord, path string, prov constants.Provenance) string {
	persisted := false
	if err := s.store.AppendRow(ctx, rec.Columns()); err != nil {
		s.logger.Error("intake.persist.failed", "provenance", string(prov), "error", err)
		if s.cfg.RequirePersist {
			s.record(ctx, archive.Entry{
				Path: path, Provenance: prov,
				ReplyKind: "error", Error: err.Error(),
			})
			return replyPersistFailed
		}
	} else {
		persisted = true
	}

	if rec.IsError() {
		s.record(ctx, archive.Entry{
			Path: path, Provenance: prov,
			ReplyKind: "error", Persisted: persisted, Error: rec.Err,
		})
		return processingErrorReply(rec.Err)
	}

	s.record(ctx, archive.Entry{
		Path: path, Provenance: prov,
		ReplyKind: "success", Persisted: persisted,
	})
	return successReply(rec)
}

func (s *Service) record(ctx context.Context, e archive.Entry) {
	if s.journal == nil {
		return
	}
	s.journal.Record(ctx, e)
}
