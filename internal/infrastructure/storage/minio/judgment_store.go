package minio

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lexanalitica/Sentencia-Intelligence/internal/infrastructure/monitoring/logging"
)

// JudgmentStore keeps the raw text of judgment documents in the documents
// bucket, keyed by corpus and document id.
type JudgmentStore struct {
	repo   ObjectRepository
	bucket string
	logger logging.Logger
}

// StoredJudgment describes a stored judgment blob.
type StoredJudgment struct {
	CorpusID   string
	DocumentID string
	Name       string
	Size       int64
	StoredAt   time.Time
}

// NewJudgmentStore builds the store over the blob repository.
func NewJudgmentStore(repo ObjectRepository, bucket string, log logging.Logger) *JudgmentStore {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &JudgmentStore{
		repo:   repo,
		bucket: bucket,
		logger: log.Named("judgments"),
	}
}

func judgmentKey(corpusID, documentID string) string {
	return fmt.Sprintf("corpus/%s/%s.txt", corpusID, documentID)
}

// Put stores the judgment text and records the original filename as object
// metadata.
func (s *JudgmentStore) Put(ctx context.Context, corpusID, documentID, name, content string) (*StoredJudgment, error) {
	result, err := s.repo.Upload(ctx, &UploadRequest{
		Bucket:      s.bucket,
		ObjectKey:   judgmentKey(corpusID, documentID),
		Data:        []byte(content),
		ContentType: "text/plain; charset=utf-8",
		Metadata: map[string]string{
			"document-name": name,
			"corpus-id":     corpusID,
		},
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("judgment stored",
		logging.String("corpus_id", corpusID),
		logging.String("document_id", documentID),
		logging.Int64("size", result.Size))

	return &StoredJudgment{
		CorpusID:   corpusID,
		DocumentID: documentID,
		Name:       name,
		Size:       result.Size,
		StoredAt:   result.UploadedAt,
	}, nil
}

// Get fetches the judgment text.
func (s *JudgmentStore) Get(ctx context.Context, corpusID, documentID string) (string, error) {
	result, err := s.repo.Download(ctx, s.bucket, judgmentKey(corpusID, documentID))
	if err != nil {
		return "", err
	}
	return string(result.Data), nil
}

// List enumerates the judgments stored for a corpus.
func (s *JudgmentStore) List(ctx context.Context, corpusID string) ([]StoredJudgment, error) {
	prefix := fmt.Sprintf("corpus/%s/", corpusID)
	listed, err := s.repo.List(ctx, s.bucket, prefix, &ListOptions{Recursive: true})
	if err != nil {
		return nil, err
	}

	judgments := make([]StoredJudgment, 0, len(listed.Objects))
	for _, obj := range listed.Objects {
		documentID := strings.TrimSuffix(strings.TrimPrefix(obj.ObjectKey, prefix), ".txt")
		judgments = append(judgments, StoredJudgment{
			CorpusID:   corpusID,
			DocumentID: documentID,
			Name:       obj.Metadata["document-name"],
			Size:       obj.Size,
			StoredAt:   obj.LastModified,
		})
	}
	return judgments, nil
}

// Delete removes one judgment blob.
func (s *JudgmentStore) Delete(ctx context.Context, corpusID, documentID string) error {
	return s.repo.Delete(ctx, s.bucket, judgmentKey(corpusID, documentID))
}

// DeleteCorpus removes every judgment stored for a corpus.
func (s *JudgmentStore) DeleteCorpus(ctx context.Context, corpusID string) error {
	judgments, err := s.List(ctx, corpusID)
	if err != nil {
		return err
	}
	keys := make([]string, len(judgments))
	for i, j := range judgments {
		keys[i] = judgmentKey(corpusID, j.DocumentID)
	}
	if len(keys) == 0 {
		return nil
	}
	deleteErrs, err := s.repo.DeleteBatch(ctx, s.bucket, keys)
	if err != nil {
		return err
	}
	if len(deleteErrs) > 0 {
		s.logger.Warn("some judgment blobs failed to delete",
			logging.String("corpus_id", corpusID),
			logging.Int("failed", len(deleteErrs)))
	}
	return nil
}

// PresignedDownloadURL exposes a time-limited link to the raw judgment.
func (s *JudgmentStore) PresignedDownloadURL(ctx context.Context, corpusID, documentID string, expiry time.Duration) (string, error) {
	return s.repo.PresignedDownloadURL(ctx, s.bucket, judgmentKey(corpusID, documentID), expiry)
}
