package repositories

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/lexanalitica/Sentencia-Intelligence/internal/application/analysis"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/infrastructure/database/postgres"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/lexanalitica/Sentencia-Intelligence/pkg/errors"
	"github.com/lexanalitica/Sentencia-Intelligence/pkg/types/common"
)

// AnalysisRepository extends the application's persistence port with query
// operations used by the HTTP interface.
type AnalysisRepository interface {
	analysis.ResultRepository
	ListByCorpus(ctx context.Context, corpusID common.ID, p common.Pagination) ([]analysis.Result, int, error)
	FindLatestByCorpusHash(ctx context.Context, corpusHash string) (*analysis.Result, error)
}

type postgresAnalysisRepo struct {
	conn     *postgres.Connection
	logger   logging.Logger
	executor queryExecutor
}

// NewPostgresAnalysisRepo builds the analysis result repository.  The full
// result (counts, contributions, prediction explanation, insights) is kept
// as a JSONB payload; scalar columns exist for indexing and listing.
func NewPostgresAnalysisRepo(conn *postgres.Connection, log logging.Logger) AnalysisRepository {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &postgresAnalysisRepo{
		conn:     conn,
		logger:   log.Named("analysis_repo"),
		executor: conn.DB(),
	}
}

func (r *postgresAnalysisRepo) Save(ctx context.Context, result *analysis.Result) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal analysis result")
	}

	const query = `
		INSERT INTO analysis_results (
			id, corpus_id, corpus_hash, risk_level, final_score,
			probability_favorable, confidence, document_count, duration_ms,
			payload, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = r.executor.ExecContext(ctx, query,
		result.ID,
		result.CorpusID,
		result.CorpusHash,
		string(result.Risk.Level),
		result.Risk.FinalScore,
		result.Prediction.ProbabilityFavorable,
		result.Prediction.Confidence,
		len(result.Documents),
		result.Duration.Milliseconds(),
		payload,
		result.CreatedAt,
		result.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to save analysis result")
	}

	r.logger.Debug("analysis result persisted",
		logging.String("analysis_id", result.ID.String()),
		logging.String("corpus_id", result.CorpusID.String()))
	return nil
}

func (r *postgresAnalysisRepo) FindByID(ctx context.Context, id common.ID) (*analysis.Result, error) {
	const query = `SELECT payload FROM analysis_results WHERE id = $1`
	return r.scanPayload(r.executor.QueryRowContext(ctx, query, id))
}

func (r *postgresAnalysisRepo) FindLatestByCorpusHash(ctx context.Context, corpusHash string) (*analysis.Result, error) {
	const query = `
		SELECT payload FROM analysis_results
		WHERE corpus_hash = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	return r.scanPayload(r.executor.QueryRowContext(ctx, query, corpusHash))
}

func (r *postgresAnalysisRepo) ListByCorpus(ctx context.Context, corpusID common.ID, p common.Pagination) ([]analysis.Result, int, error) {
	p.Normalize()

	var total int
	if err := r.executor.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM analysis_results WHERE corpus_id = $1`, corpusID,
	).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to count analyses")
	}

	const query = `
		SELECT payload FROM analysis_results
		WHERE corpus_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.executor.QueryContext(ctx, query, corpusID, p.PageSize, p.Offset())
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list analyses")
	}
	defer rows.Close()

	var results []analysis.Result
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan analysis")
		}
		var result analysis.Result
		if err := json.Unmarshal(payload, &result); err != nil {
			return nil, 0, errors.Wrap(err, errors.ErrCodeSerialization, "failed to unmarshal analysis result")
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate analyses")
	}

	return results, total, nil
}

func (r *postgresAnalysisRepo) scanPayload(row *sql.Row) (*analysis.Result, error) {
	var payload []byte
	err := row.Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, errors.New(errors.ErrCodeAnalysisNotFound, "analysis not found")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load analysis result")
	}

	var result analysis.Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to unmarshal analysis result")
	}
	return &result, nil
}
