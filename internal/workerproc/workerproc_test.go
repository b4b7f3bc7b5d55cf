package workerproc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/queue"
	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/storage/object/local"
	"resume-builder/resume/ats"
	"resume-builder/resume/model"
)

func encode(t *testing.T, msg queue.Message) string {
	t.Helper()
	raw, err := queue.EncodeMessage(msg)
	require.NoError(t, err)
	return string(raw)
}

func TestParseMessageErrors(t *testing.T) {
	_, _, err := ParseMessage("  ")
	assert.IsType(t, ErrEmptyBody{}, err)

	_, meta, err := ParseMessage("{not json")
	assert.IsType(t, ErrDecode{}, err)
	assert.Equal(t, 9, meta.BodyLen)
	assert.Len(t, meta.BodySHA, 64)

	other := queue.NewExportedMessage("u1", "r1", "pdf", "modern", "k")
	other.Type = "resume.deleted"
	_, _, err = ParseMessage(encode(t, other))
	var typeErr ErrUnexpectedType
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "resume.deleted", typeErr.Type)

	missing := queue.NewExportedMessage("u1", "", "pdf", "modern", "k")
	missing.RequestID = "req-1"
	_, _, err = ParseMessage(encode(t, missing))
	var idErr ErrMissingResumeID
	require.ErrorAs(t, err, &idErr)
	assert.Equal(t, "req-1", idErr.RequestID)
}

type recordingProcessor struct {
	got []queue.Message
	err error
}

func (p *recordingProcessor) ProcessExport(_ context.Context, msg queue.Message) error {
	p.got = append(p.got, msg)
	return p.err
}

func TestHandleMessageUsesParsedMessage(t *testing.T) {
	msg := queue.NewExportedMessage("u1", "r1", "docx", "classic", "exports/x.docx")
	proc := &recordingProcessor{}

	ctx := WithParsedMessage(context.Background(), msg)
	require.NoError(t, HandleMessage(ctx, proc, "ignored"))
	require.Len(t, proc.got, 1)
	assert.Equal(t, "r1", proc.got[0].ResumeID)

	require.NoError(t, HandleMessage(context.Background(), proc, encode(t, msg)))
	assert.Len(t, proc.got, 2)
}

func TestHandleMessageWrapsProcessError(t *testing.T) {
	msg := queue.NewExportedMessage("u1", "r1", "pdf", "modern", "")
	proc := &recordingProcessor{err: errors.New("store offline")}

	err := HandleMessage(context.Background(), proc, encode(t, msg))
	var procErr ErrProcess
	require.ErrorAs(t, err, &procErr)
	assert.Equal(t, "r1", procErr.ResumeID)
	assert.True(t, procErr.Retryable())

	for _, permanent := range []error{resumes.ErrNotFound, ErrOwnerMismatch, fmt.Errorf("artifact x: %w", ErrEmptyArtifact)} {
		proc.err = permanent
		err = HandleMessage(context.Background(), proc, encode(t, msg))
		require.ErrorAs(t, err, &procErr)
		assert.False(t, procErr.Retryable(), permanent.Error())
	}

	assert.Error(t, HandleMessage(context.Background(), nil, encode(t, msg)))
}

func seed(t *testing.T, repo *resumes.MemoryRepo, key string) resumes.Record {
	t.Helper()
	rec := resumes.Record{
		ID:           "r1",
		UserID:       "u1",
		TemplateID:   model.TemplateModern,
		Data:         model.ResumeData{PersonalInfo: model.PersonalInfo{FirstName: "Ada", Summary: "skills and experience"}},
		ExportFormat: "html",
		StorageKey:   key,
	}
	require.NoError(t, repo.Insert(context.Background(), rec))
	return rec
}

func TestVerifierChecksArtifact(t *testing.T) {
	ctx := context.Background()
	store := local.New(t.TempDir())
	_, err := store.Put(ctx, "exports/u/resume.html", "text/html", strings.NewReader("<html>ok</html>"))
	require.NoError(t, err)

	repo := resumes.NewMemoryRepo()
	rec := seed(t, repo, "exports/u/resume.html")

	v := NewVerifier(repo, store)
	var gotSize int64
	var gotScore ats.Result
	v.OnVerified = func(_ queue.Message, size int64, result ats.Result) {
		gotSize = size
		gotScore = result
	}
	msg := queue.NewExportedMessage("u1", "r1", "html", "modern", "")
	require.NoError(t, v.ProcessExport(ctx, msg))
	assert.Equal(t, int64(len("<html>ok</html>")), gotSize)
	assert.Equal(t, ats.Score(ats.Text(rec.Data)), gotScore)
}

func TestVerifierFailures(t *testing.T) {
	ctx := context.Background()
	store := local.New(t.TempDir())
	repo := resumes.NewMemoryRepo()
	seed(t, repo, "exports/u/missing.pdf")
	v := NewVerifier(repo, store)

	err := v.ProcessExport(ctx, queue.NewExportedMessage("u1", "nope", "pdf", "modern", ""))
	assert.ErrorIs(t, err, resumes.ErrNotFound)

	err = v.ProcessExport(ctx, queue.NewExportedMessage("u2", "r1", "pdf", "modern", ""))
	assert.ErrorIs(t, err, ErrOwnerMismatch)

	err = v.ProcessExport(ctx, queue.NewExportedMessage("u1", "r1", "pdf", "modern", ""))
	assert.Error(t, err)

	_, err = store.Put(ctx, "exports/u/empty.pdf", "application/pdf", strings.NewReader(""))
	require.NoError(t, err)
	err = v.ProcessExport(ctx, queue.NewExportedMessage("u1", "r1", "pdf", "modern", "exports/u/empty.pdf"))
	assert.ErrorIs(t, err, ErrEmptyArtifact)
}
