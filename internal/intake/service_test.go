package intake

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/resume-intake/constants"
	"github.com/joseph-ayodele/resume-intake/internal/extract"
	"github.com/joseph-ayodele/resume-intake/internal/llm"
	"github.com/joseph-ayodele/resume-intake/internal/twilio"
)

type fakeExtractor struct {
	result extract.TextExtractionResult
	calls  int
}

func (f *fakeExtractor) Extract(_ context.Context, _, _ string) extract.TextExtractionResult {
	f.calls++
	return f.result
}

type fakeRecoverer struct {
	record llm.ResumeRecord
	calls  int
	text   string
}

func (f *fakeRecoverer) RecoverFields(_ context.Context, text string) llm.ResumeRecord {
	f.calls++
	f.text = text
	return f.record
}

type fakeStore struct {
	rows [][5]string
	err  error
}

func (f *fakeStore) EnsureHeader(context.Context) error { return nil }

func (f *fakeStore) AppendRow(_ context.Context, row [5]string) error {
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, row)
	return nil
}

type fakeFetcher struct {
	path string
	err  error
}

func (f *fakeFetcher) Download(_ context.Context, _, _, _ string) (string, error) {
	return f.path, f.err
}

func goodRecord() llm.ResumeRecord {
	return llm.ResumeRecord{
		FullName:    "Jane Doe",
		Email:       "jane@example.com",
		PhoneNumber: "9876543210",
		CGPA:        "8.7",
		CollegeName: "NIT Trichy",
	}
}

func newTestService(cfg Config, ext *fakeExtractor, rec *fakeRecoverer, store *fakeStore, media *fakeFetcher) *Service {
	return NewService(nil, cfg, ext, rec, store, media, nil)
}

func TestHandleEvent_ShortTextGetsInstructions(t *testing.T) {
	rec := &fakeRecoverer{}
	store := &fakeStore{}
	svc := newTestService(Config{}, &fakeExtractor{}, rec, store, &fakeFetcher{})

	reply := svc.HandleEvent(context.Background(), twilio.InboundEvent{Body: "hi"})

	assert.Equal(t, replySendResume, reply)
	assert.Equal(t, 0, rec.calls)
	assert.Empty(t, store.rows)
}

func TestHandleEvent_NonResumeTextGetsGuidance(t *testing.T) {
	rec := &fakeRecoverer{}
	store := &fakeStore{}
	svc := newTestService(Config{}, &fakeExtractor{}, rec, store, &fakeFetcher{})

	reply := svc.HandleEvent(context.Background(), twilio.InboundEvent{
		Body: "hello there, how is your day going?",
	})

	assert.Equal(t, replyNotResume, reply)
	assert.Equal(t, 0, rec.calls)
	assert.Empty(t, store.rows)
}

func TestHandleEvent_ResumeLikeTextIsProcessed(t *testing.T) {
	rec := &fakeRecoverer{record: goodRecord()}
	store := &fakeStore{}
	svc := newTestService(Config{}, &fakeExtractor{}, rec, store, &fakeFetcher{})

	body := "Jane Doe, email jane@example.com, CGPA 8.7, NIT Trichy"
	reply := svc.HandleEvent(context.Background(), twilio.InboundEvent{Body: body})

	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, body, rec.text, "field recovery sees the raw body, not a trimmed copy")
	require.Len(t, store.rows, 1)
	assert.Equal(t, [5]string{"Jane Doe", "jane@example.com", "9876543210", "8.7", "NIT Trichy"}, store.rows[0])
	assert.Contains(t, reply, "Resume processed successfully")
	assert.Contains(t, reply, "Full Name: Jane Doe")
	assert.Contains(t, reply, "BTech College Name: NIT Trichy")
}

func TestHandleEvent_MediaDownloadStatusError(t *testing.T) {
	store := &fakeStore{}
	media := &fakeFetcher{err: &twilio.StatusError{StatusCode: 403}}
	svc := newTestService(Config{}, &fakeExtractor{}, &fakeRecoverer{}, store, media)

	reply := svc.HandleEvent(context.Background(), twilio.InboundEvent{
		NumMedia:    1,
		MediaURL:    "https://api.example.com/media/1",
		ContentType: "application/pdf",
	})

	assert.Contains(t, reply, "403")
	assert.Empty(t, store.rows)
}

func TestHandleEvent_MediaDownloadGenericError(t *testing.T) {
	media := &fakeFetcher{err: errors.New("dial tcp: connection refused")}
	svc := newTestService(Config{}, &fakeExtractor{}, &fakeRecoverer{}, &fakeStore{}, media)

	reply := svc.HandleEvent(context.Background(), twilio.InboundEvent{NumMedia: 1})

	assert.Contains(t, reply, "Error downloading resume")
	assert.Contains(t, reply, "connection refused")
}

func TestHandleEvent_MediaNoTextExtracted(t *testing.T) {
	ext := &fakeExtractor{result: extract.TextExtractionResult{Text: "  \n ", Provenance: constants.ProvenancePDFDirect}}
	rec := &fakeRecoverer{}
	store := &fakeStore{}
	svc := newTestService(Config{KeepDownloads: true}, ext, rec, store, &fakeFetcher{path: "/tmp/resume.pdf"})

	reply := svc.HandleEvent(context.Background(), twilio.InboundEvent{
		NumMedia:    1,
		ContentType: "application/pdf",
	})

	assert.Equal(t, replyNoText, reply)
	assert.Equal(t, 0, rec.calls)
	assert.Empty(t, store.rows)
}

func TestHandleEvent_MediaSuccess(t *testing.T) {
	ext := &fakeExtractor{result: extract.TextExtractionResult{
		Text:       "Jane Doe jane@example.com CGPA 8.7",
		Provenance: constants.ProvenancePDFDirect,
		Pages:      1,
	}}
	rec := &fakeRecoverer{record: goodRecord()}
	store := &fakeStore{}
	svc := newTestService(Config{KeepDownloads: true}, ext, rec, store, &fakeFetcher{path: "/tmp/resume.pdf"})

	reply := svc.HandleEvent(context.Background(), twilio.InboundEvent{
		NumMedia:    1,
		ContentType: "application/pdf",
	})

	assert.Equal(t, 1, ext.calls)
	assert.Equal(t, 1, rec.calls)
	require.Len(t, store.rows, 1)
	assert.Contains(t, reply, "Resume processed successfully")
}

func TestHandleEvent_DownloadRemovedWhenNotKept(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))

	ext := &fakeExtractor{result: extract.TextExtractionResult{Text: "enough text here"}}
	svc := newTestService(Config{KeepDownloads: false}, ext, &fakeRecoverer{record: goodRecord()}, &fakeStore{}, &fakeFetcher{path: path})

	svc.HandleEvent(context.Background(), twilio.InboundEvent{NumMedia: 1, ContentType: "application/pdf"})

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "the downloaded file is cleaned up after the reply")
}

func TestHandleEvent_PersistFailureStillReplies(t *testing.T) {
	rec := &fakeRecoverer{record: goodRecord()}
	store := &fakeStore{err: errors.New("sheet unreachable")}
	svc := newTestService(Config{}, &fakeExtractor{}, rec, store, &fakeFetcher{})

	reply := svc.HandleEvent(context.Background(), twilio.InboundEvent{
		Body: "Jane Doe, email jane@example.com, CGPA 8.7",
	})

	assert.Contains(t, reply, "Resume processed successfully",
		"persistence stays best-effort unless RequirePersist is set")
}

func TestHandleEvent_PersistFailureWithRequirePersist(t *testing.T) {
	rec := &fakeRecoverer{record: goodRecord()}
	store := &fakeStore{err: errors.New("sheet unreachable")}
	svc := newTestService(Config{RequirePersist: true}, &fakeExtractor{}, rec, store, &fakeFetcher{})

	reply := svc.HandleEvent(context.Background(), twilio.InboundEvent{
		Body: "Jane Doe, email jane@example.com, CGPA 8.7",
	})

	assert.Equal(t, replyPersistFailed, reply)
}

func TestHandleEvent_ErrorRecordStillPersistsPlaceholderRow(t *testing.T) {
	errRec := llm.ResumeRecord{
		FullName:    constants.NotAvailable,
		Email:       constants.NotAvailable,
		PhoneNumber: constants.NotAvailable,
		CGPA:        constants.NotAvailable,
		CollegeName: constants.NotAvailable,
		Err:         "model quota exceeded",
	}
	store := &fakeStore{}
	svc := newTestService(Config{}, &fakeExtractor{}, &fakeRecoverer{record: errRec}, store, &fakeFetcher{})

	reply := svc.HandleEvent(context.Background(), twilio.InboundEvent{
		Body: "Jane Doe, email jane@example.com, CGPA 8.7",
	})

	require.Len(t, store.rows, 1)
	for _, v := range store.rows[0] {
		assert.Equal(t, constants.NotAvailable, v)
	}
	assert.Contains(t, reply, "Error processing resume")
	assert.Contains(t, reply, "model quota exceeded")
}
