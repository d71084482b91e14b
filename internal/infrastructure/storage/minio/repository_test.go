package minio

import (
	"context"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexanalitica/Sentencia-Intelligence/internal/infrastructure/monitoring/logging"
)

func newTestRepository(api MinIOAPI) ObjectRepository {
	return NewObjectRepository(newTestClient(api), logging.NewNopLogger())
}

func TestUploadValidation(t *testing.T) {
	repo := newTestRepository(&mockMinIOAPI{})
	ctx := context.Background()

	_, err := repo.Upload(ctx, &UploadRequest{ObjectKey: "k"})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = repo.Upload(ctx, &UploadRequest{Bucket: "b"})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestUploadDetectsContentTypeAndPassesMetadata(t *testing.T) {
	var gotOpts minio.PutObjectOptions
	var gotData []byte
	api := &mockMinIOAPI{
		putObjectFunc: func(ctx context.Context, bucket, key string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
			gotOpts = opts
			gotData, _ = io.ReadAll(reader)
			return minio.UploadInfo{Bucket: bucket, Key: key, Size: size, ETag: "etag-1"}, nil
		},
	}
	repo := newTestRepository(api)

	content := "SENTENCIA. Estimamos el recurso interpuesto contra el INSS."
	result, err := repo.Upload(context.Background(), &UploadRequest{
		Bucket:    "sentencia-documents",
		ObjectKey: "corpus/c1/d1.txt",
		Data:      []byte(content),
		Metadata:  map[string]string{"document-name": "sentencia_tsj.txt"},
	})
	require.NoError(t, err)

	assert.Equal(t, "etag-1", result.ETag)
	assert.Equal(t, content, string(gotData))
	assert.Contains(t, gotOpts.ContentType, "text/plain")
	assert.Equal(t, "sentencia_tsj.txt", gotOpts.UserMetadata["document-name"])
}

func TestExistsMapsNoSuchKey(t *testing.T) {
	api := &mockMinIOAPI{
		statObjectFunc: func(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
			return minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey"}
		},
	}
	repo := newTestRepository(api)

	exists, err := repo.Exists(context.Background(), "b", "missing")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGetMetadataNotFound(t *testing.T) {
	api := &mockMinIOAPI{
		statObjectFunc: func(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
			return minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey"}
		},
	}
	repo := newTestRepository(api)

	_, err := repo.GetMetadata(context.Background(), "b", "missing")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestListRespectsMaxKeys(t *testing.T) {
	api := &mockMinIOAPI{
		listObjectsFunc: func(ctx context.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
			ch := make(chan minio.ObjectInfo, 3)
			ch <- minio.ObjectInfo{Key: "corpus/c1/a.txt", Size: 10}
			ch <- minio.ObjectInfo{Key: "corpus/c1/b.txt", Size: 20}
			ch <- minio.ObjectInfo{Key: "corpus/c1/c.txt", Size: 30}
			close(ch)
			return ch
		},
	}
	repo := newTestRepository(api)

	result, err := repo.List(context.Background(), "b", "corpus/c1/", &ListOptions{MaxKeys: 2, Recursive: true})
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalCount)
	assert.Len(t, result.Objects, 2)
}

func TestDeleteBatchCollectsErrors(t *testing.T) {
	api := &mockMinIOAPI{
		removeObjectsFunc: func(ctx context.Context, bucket string, objectsCh <-chan minio.ObjectInfo, opts minio.RemoveObjectsOptions) <-chan minio.RemoveObjectError {
			out := make(chan minio.RemoveObjectError, 1)
			go func() {
				defer close(out)
				for obj := range objectsCh {
					if obj.Key == "corpus/c1/bad.txt" {
						out <- minio.RemoveObjectError{ObjectName: obj.Key, Err: minio.ErrorResponse{Code: "AccessDenied"}}
					}
				}
			}()
			return out
		},
	}
	repo := newTestRepository(api)

	errs, err := repo.DeleteBatch(context.Background(), "b", []string{"corpus/c1/ok.txt", "corpus/c1/bad.txt"})
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "corpus/c1/bad.txt", errs[0].ObjectKey)
}
