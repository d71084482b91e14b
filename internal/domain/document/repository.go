package document

import (
	"context"

	"github.com/lexanalitica/Sentencia-Intelligence/pkg/types/common"
)

// Repository persists corpora and their document metadata.  Document content
// itself lives in object storage; implementations return documents with the
// Content field empty.
type Repository interface {
	Save(ctx context.Context, c *Corpus) error
	FindByID(ctx context.Context, id common.ID) (*Corpus, error)
	List(ctx context.Context, p common.Pagination) ([]Corpus, int, error)
	AddDocument(ctx context.Context, corpusID common.ID, doc Document) error
	Delete(ctx context.Context, id common.ID) error
}
