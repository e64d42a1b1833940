package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dastarruer/search-engine/internal/term"
)

// Postgres is the real Gateway implementation, backed by a pgx connection
// pool. tf_scores and tf_idf_scores are stored as hstore columns, mapping
// page ID to score.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps an already-configured pool. Callers build the pool
// (see Connect) and run Migrate before passing it here.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) Close() {
	p.pool.Close()
}

func (p *Postgres) InsertUncrawled(ctx context.Context, url string) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO pages (url, is_crawled, is_indexed) VALUES ($1, FALSE, FALSE)
		 ON CONFLICT (url) DO NOTHING`, url)
	return err
}

func (p *Postgres) MarkCrawled(ctx context.Context, url, html, title string) error {
	_, err := p.pool.Exec(ctx,
		`UPDATE pages SET html = $1, title = $2, is_crawled = TRUE WHERE url = $3`,
		html, title, url)
	return err
}

func (p *Postgres) FetchUncrawledBatch(ctx context.Context, limit int) ([]string, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT url FROM pages WHERE is_crawled = FALSE LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}

func (p *Postgres) FetchCrawledSet(ctx context.Context, limit int) ([]string, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT url FROM pages WHERE is_crawled = TRUE LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}

func (p *Postgres) FetchUnindexedCrawled(ctx context.Context, limit int) ([]IndexablePage, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id::text, html FROM pages WHERE is_indexed = FALSE AND is_crawled = TRUE LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []IndexablePage
	for rows.Next() {
		var ip IndexablePage
		if err := rows.Scan(&ip.ID, &ip.HTML); err != nil {
			return nil, err
		}
		pages = append(pages, ip)
	}
	return pages, rows.Err()
}

func (p *Postgres) MarkIndexed(ctx context.Context, pageID string) error {
	_, err := p.pool.Exec(ctx, `UPDATE pages SET is_indexed = TRUE WHERE id::text = $1`, pageID)
	return err
}

func (p *Postgres) CountIndexed(ctx context.Context) (int64, error) {
	var count int64
	err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM pages WHERE is_indexed = TRUE`).Scan(&count)
	return count, err
}

func (p *Postgres) FetchTerm(ctx context.Context, normalized string) (*term.Term, bool, error) {
	var idf float64
	var pageFrequency int
	var tfScores, tfIDFScores pgtype.Hstore

	err := p.pool.QueryRow(ctx,
		`SELECT idf, page_frequency, tf_scores, tf_idf_scores FROM terms WHERE term = $1`,
		normalized,
	).Scan(&idf, &pageFrequency, &tfScores, &tfIDFScores)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, err
	}

	t := term.New(normalized)
	t.IDF = idf
	t.PageFrequency = pageFrequency
	hstoreToScores(tfScores, t.TFScores)
	hstoreToScores(tfIDFScores, t.TFIDFScores)
	return t, true, nil
}

func (p *Postgres) UpsertTerm(ctx context.Context, t *term.Term) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO terms (term, idf, page_frequency, tf_scores, tf_idf_scores)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (term) DO UPDATE SET
		   idf = EXCLUDED.idf,
		   page_frequency = EXCLUDED.page_frequency,
		   tf_scores = EXCLUDED.tf_scores,
		   tf_idf_scores = EXCLUDED.tf_idf_scores`,
		t.Term, t.IDF, t.PageFrequency, scoresToHstore(t.TFScores), scoresToHstore(t.TFIDFScores))
	return err
}

func scoresToHstore(scores map[string]float64) pgtype.Hstore {
	h := make(pgtype.Hstore, len(scores))
	for pageID, score := range scores {
		v := fmt.Sprintf("%g", score)
		h[pageID] = &v
	}
	return h
}

func hstoreToScores(h pgtype.Hstore, dst map[string]float64) {
	for pageID, v := range h {
		if v == nil {
			continue
		}
		var f float64
		if _, err := fmt.Sscanf(*v, "%g", &f); err == nil {
			dst[pageID] = f
		}
	}
}
