package sync

import (
	"context"
	"encoding/base64"
	"path"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/nhle/xray-sync/internal/model"
	"github.com/nhle/xray-sync/internal/source"
)

// FileReader reads a file. Relative paths are taken from the test-set root.
type FileReader interface {
	ReadFile(p string) ([]byte, error)
}

// StepResult counts the remote changes made by SyncSteps.
type StepResult struct {
	Deleted            int
	Created            int
	AttachmentFailures int
}

// StepSynchronizer replaces the remote step list of a test with the local one.
type StepSynchronizer struct {
	store  source.StepStore
	files  FileReader
	logger *zap.Logger
}

// NewStepSynchronizer creates a StepSynchronizer reading attachments
// through files.
func NewStepSynchronizer(
	store source.StepStore,
	files FileReader,
	logger *zap.Logger,
) *StepSynchronizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StepSynchronizer{
		store:  store,
		files:  files,
		logger: logger,
	}
}

// SyncSteps deletes every remote step of testKey and then creates steps in
// order. Relative attachment paths are resolved against dir. There is no rollback:
// a failure part way leaves the remote list partially rebuilt.
func (s *StepSynchronizer) SyncSteps(
	ctx context.Context,
	testKey string,
	dir string,
	steps []model.TestStep,
) (*StepResult, error) {
	result := &StepResult{}

	existing, err := s.store.ListSteps(ctx, testKey)
	if err != nil {
		return result, err
	}

	for _, step := range existing {
		if err := s.store.DeleteStep(ctx, testKey, step.ID); err != nil {
			return result, err
		}
		result.Deleted++
	}

	for i, step := range steps {
		attachments := make([]source.Attachment, 0, len(step.Attachments))
		for _, att := range step.Attachments {
			data, ok := s.encodeAttachment(attachmentPath(dir, att.FilePath))
			if !ok {
				result.AttachmentFailures++
			}
			attachments = append(attachments, source.Attachment{
				Data:        data,
				FileName:    att.FileName,
				ContentType: att.ContentType,
			})
		}

		err := s.store.CreateStep(ctx, testKey, source.NewStep{
			Step:        step.Step,
			Data:        step.Data,
			Result:      step.Result,
			Attachments: attachments,
		})
		if err != nil {
			return result, err
		}
		result.Created++

		s.logger.Debug("created test step",
			zap.String("key", testKey),
			zap.Int("index", i+1),
			zap.Int("attachments", len(attachments)),
		)
	}

	s.logger.Info("replaced test steps",
		zap.String("key", testKey),
		zap.Int("deleted", result.Deleted),
		zap.Int("created", result.Created),
	)

	return result, nil
}

// attachmentPath locates an attachment of a test living in dir. Absolute
// paths are kept as written.
func attachmentPath(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return path.Join(dir, filepath.ToSlash(p))
}

// encodeAttachment returns the base64 content of the file at p. A read
// failure is logged and yields an empty payload so the step is still created.
func (s *StepSynchronizer) encodeAttachment(p string) (string, bool) {
	data, err := s.files.ReadFile(p)
	if err != nil {
		s.logger.Warn("reading attachment failed, sending it without content",
			zap.String("path", p),
			zap.Error(err),
		)
		return "", false
	}
	return base64.StdEncoding.EncodeToString(data), true
}
