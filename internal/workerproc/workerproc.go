// Package workerproc decodes resume.exported events and verifies the archived export they
// point at. Both the long-running worker and the Lambda worker go through HandleMessage.
package workerproc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"resume-builder/internal/queue"
	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/storage/object"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/resume/ats"
)

// MessageMeta captures details useful for logging and diagnostics.
type MessageMeta struct {
	BodyLen int
	BodySHA string
}

// ComputeMeta returns the body length and SHA-256 hash.
func ComputeMeta(body string) MessageMeta {
	if body == "" {
		return MessageMeta{}
	}
	sum := sha256.Sum256([]byte(body))
	return MessageMeta{BodyLen: len(body), BodySHA: hex.EncodeToString(sum[:])}
}

// ErrEmptyBody indicates an empty queue payload.
type ErrEmptyBody struct {
	Meta MessageMeta
}

func (e ErrEmptyBody) Error() string { return "empty message body" }

// ErrDecode indicates a JSON decode failure.
type ErrDecode struct {
	Meta MessageMeta
	Err  error
}

func (e ErrDecode) Error() string {
	if e.Err == nil {
		return "decode message"
	}
	return "decode message: " + e.Err.Error()
}

// ErrUnexpectedType is returned for events this worker does not consume.
type ErrUnexpectedType struct {
	Meta MessageMeta
	Type string
}

func (e ErrUnexpectedType) Error() string { return "unexpected event type " + e.Type }

// ErrMissingResumeID indicates an export event without a resume id.
type ErrMissingResumeID struct {
	Meta      MessageMeta
	RequestID string
}

func (e ErrMissingResumeID) Error() string { return "missing resume id" }

// ErrProcess indicates processing failed after successful parsing.
type ErrProcess struct {
	ResumeID  string
	RequestID string
	Err       error
}

func (e ErrProcess) Error() string {
	if e.Err == nil {
		return "process export"
	}
	return "process export: " + e.Err.Error()
}

func (e ErrProcess) Unwrap() error { return e.Err }

// Retryable reports whether redelivering the message could succeed.
func (e ErrProcess) Retryable() bool {
	for _, permanent := range []error{resumes.ErrNotFound, ErrOwnerMismatch, ErrEmptyArtifact} {
		if errors.Is(e.Err, permanent) {
			return false
		}
	}
	return true
}

// ParseMessage validates and decodes the queue payload.
func ParseMessage(body string) (queue.Message, MessageMeta, error) {
	meta := ComputeMeta(body)
	if strings.TrimSpace(body) == "" {
		return queue.Message{}, meta, ErrEmptyBody{Meta: meta}
	}

	msg, err := queue.DecodeMessage([]byte(body))
	if err != nil {
		return queue.Message{}, meta, ErrDecode{Meta: meta, Err: err}
	}
	if msg.Type != queue.EventResumeExported {
		return msg, meta, ErrUnexpectedType{Meta: meta, Type: msg.Type}
	}
	if strings.TrimSpace(msg.ResumeID) == "" {
		return msg, meta, ErrMissingResumeID{Meta: meta, RequestID: msg.RequestID}
	}
	return msg, meta, nil
}

type parsedMessageKey struct{}

// WithParsedMessage stores a decoded message in the context for reuse.
func WithParsedMessage(ctx context.Context, msg queue.Message) context.Context {
	return context.WithValue(ctx, parsedMessageKey{}, msg)
}

func parsedMessageFromContext(ctx context.Context) (queue.Message, bool) {
	if ctx == nil {
		return queue.Message{}, false
	}
	msg, ok := ctx.Value(parsedMessageKey{}).(queue.Message)
	return msg, ok
}

// Processor handles one decoded export event.
type Processor interface {
	ProcessExport(ctx context.Context, msg queue.Message) error
}

// HandleMessage parses, validates, and processes a message payload.
func HandleMessage(ctx context.Context, proc Processor, body string) error {
	if proc == nil {
		return errors.New("export processor not configured")
	}

	msg, ok := parsedMessageFromContext(ctx)
	if !ok {
		var err error
		msg, _, err = ParseMessage(body)
		if err != nil {
			return err
		}
	}
	if strings.TrimSpace(msg.ResumeID) == "" {
		return ErrMissingResumeID{Meta: ComputeMeta(body), RequestID: msg.RequestID}
	}

	if err := proc.ProcessExport(ctx, msg); err != nil {
		return ErrProcess{ResumeID: msg.ResumeID, RequestID: msg.RequestID, Err: err}
	}
	return nil
}

var (
	// ErrOwnerMismatch means the event names a user other than the record's owner.
	ErrOwnerMismatch = errors.New("resume owner mismatch")
	// ErrEmptyArtifact means the stored export has no content.
	ErrEmptyArtifact = errors.New("stored export is empty")
)

// Verifier checks that an exported resume was archived intact and logs its ATS score.
type Verifier struct {
	Resumes resumes.Repo
	Store   object.Store

	// OnVerified is called after a successful check. Optional.
	OnVerified func(msg queue.Message, size int64, result ats.Result)
}

func NewVerifier(repo resumes.Repo, store object.Store) *Verifier {
	return &Verifier{Resumes: repo, Store: store}
}

func (v *Verifier) ProcessExport(ctx context.Context, msg queue.Message) error {
	if v.Resumes == nil {
		return errors.New("resume repository not configured")
	}
	rec, err := v.Resumes.GetByID(ctx, msg.ResumeID)
	if err != nil {
		return fmt.Errorf("load resume %s: %w", msg.ResumeID, err)
	}
	if msg.UserID != "" && rec.UserID != msg.UserID {
		return ErrOwnerMismatch
	}

	key := msg.StorageKey
	if key == "" {
		key = rec.StorageKey
	}
	var size int64
	if key != "" && v.Store != nil {
		size, err = artifactSize(ctx, v.Store, key)
		if err != nil {
			return err
		}
	}

	result := ats.Score(ats.Text(rec.Data))
	telemetry.Info("worker.export.verified", map[string]any{
		"resume_id":   rec.ID,
		"user_id":     rec.UserID,
		"format":      msg.Format,
		"storage_key": key,
		"size_bytes":  size,
		"ats_score":   result.Score,
		"request_id":  msg.RequestID,
	})
	if v.OnVerified != nil {
		v.OnVerified(msg, size, result)
	}
	return nil
}

func artifactSize(ctx context.Context, store object.Store, key string) (int64, error) {
	rc, err := store.Open(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("open export %s: %w", key, err)
	}
	defer rc.Close()
	n, err := io.Copy(io.Discard, rc)
	if err != nil {
		return 0, fmt.Errorf("read export %s: %w", key, err)
	}
	if n == 0 {
		return 0, ErrEmptyArtifact
	}
	return n, nil
}
