package repositories

import (
	"context"
	"database/sql"

	"github.com/lexanalitica/Sentencia-Intelligence/internal/domain/document"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/infrastructure/database/postgres"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/lexanalitica/Sentencia-Intelligence/pkg/errors"
	"github.com/lexanalitica/Sentencia-Intelligence/pkg/types/common"
)

type postgresCorpusRepo struct {
	conn     *postgres.Connection
	logger   logging.Logger
	executor queryExecutor
}

// NewPostgresCorpusRepo builds the corpus repository.
func NewPostgresCorpusRepo(conn *postgres.Connection, log logging.Logger) document.Repository {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &postgresCorpusRepo{
		conn:     conn,
		logger:   log.Named("corpus_repo"),
		executor: conn.DB(),
	}
}

// Save upserts the corpus row and inserts any documents not yet persisted,
// all in one transaction.
func (r *postgresCorpusRepo) Save(ctx context.Context, c *document.Corpus) error {
	tx, err := r.conn.DB().BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to begin transaction")
	}
	defer tx.Rollback()

	const corpusQuery = `
		INSERT INTO corpora (id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, updated_at = EXCLUDED.updated_at
	`
	if _, err := tx.ExecContext(ctx, corpusQuery, c.ID, c.Name, c.CreatedAt, c.UpdatedAt); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to save corpus")
	}

	const docQuery = `
		INSERT INTO documents (id, corpus_id, name, instance, size_bytes, content_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`
	for _, doc := range c.Documents {
		if _, err := tx.ExecContext(ctx, docQuery, doc.ID, c.ID, doc.Name, doc.Instance.String(), doc.Size, doc.Hash); err != nil {
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to save document metadata")
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to commit transaction")
	}
	return nil
}

// FindByID loads the corpus with its document metadata.  Document content is
// not stored here; callers hydrate it from the judgment store.
func (r *postgresCorpusRepo) FindByID(ctx context.Context, id common.ID) (*document.Corpus, error) {
	const corpusQuery = `SELECT id, name, created_at, updated_at FROM corpora WHERE id = $1`

	var c document.Corpus
	err := r.executor.QueryRowContext(ctx, corpusQuery, id).Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.New(errors.ErrCodeCorpusNotFound, "corpus not found")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load corpus")
	}

	const docQuery = `
		SELECT id, name, instance, size_bytes, content_hash
		FROM documents WHERE corpus_id = $1 ORDER BY created_at, id
	`
	rows, err := r.executor.QueryContext(ctx, docQuery, id)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load documents")
	}
	defer rows.Close()

	for rows.Next() {
		var doc document.Document
		var instance string
		if err := rows.Scan(&doc.ID, &doc.Name, &instance, &doc.Size, &doc.Hash); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan document")
		}
		doc.Instance = document.Instance(instance)
		c.Documents = append(c.Documents, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate documents")
	}

	return &c, nil
}

// List returns a page of corpora ordered by creation time, newest first.
func (r *postgresCorpusRepo) List(ctx context.Context, p common.Pagination) ([]document.Corpus, int, error) {
	p.Normalize()

	var total int
	if err := r.executor.QueryRowContext(ctx, `SELECT COUNT(*) FROM corpora`).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to count corpora")
	}

	const query = `
		SELECT c.id, c.name, c.created_at, c.updated_at,
		       COUNT(d.id) AS document_count
		FROM corpora c
		LEFT JOIN documents d ON d.corpus_id = c.id
		GROUP BY c.id
		ORDER BY c.created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.executor.QueryContext(ctx, query, p.PageSize, p.Offset())
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list corpora")
	}
	defer rows.Close()

	var corpora []document.Corpus
	for rows.Next() {
		var c document.Corpus
		var docCount int
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt, &docCount); err != nil {
			return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan corpus")
		}
		corpora = append(corpora, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate corpora")
	}

	return corpora, total, nil
}

// AddDocument appends one document's metadata to an existing corpus.
func (r *postgresCorpusRepo) AddDocument(ctx context.Context, corpusID common.ID, doc document.Document) error {
	const query = `
		INSERT INTO documents (id, corpus_id, name, instance, size_bytes, content_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.executor.ExecContext(ctx, query, doc.ID, corpusID, doc.Name, doc.Instance.String(), doc.Size, doc.Hash); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to add document")
	}

	const touch = `UPDATE corpora SET updated_at = NOW() WHERE id = $1`
	if _, err := r.executor.ExecContext(ctx, touch, corpusID); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to touch corpus")
	}
	return nil
}

// Delete removes the corpus; document rows cascade.
func (r *postgresCorpusRepo) Delete(ctx context.Context, id common.ID) error {
	res, err := r.executor.ExecContext(ctx, `DELETE FROM corpora WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to delete corpus")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to read affected rows")
	}
	if affected == 0 {
		return errors.New(errors.ErrCodeCorpusNotFound, "corpus not found")
	}
	return nil
}
