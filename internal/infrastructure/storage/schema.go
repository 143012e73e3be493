package storage

import (
	"context"
	"database/sql"
)

// Schema keeps table creation next to the queries that depend on it. The
// enhancement columns belong to the quality pass; the pipeline only reads and
// writes up to the analysis column.
const schema = `
CREATE TABLE IF NOT EXISTS articles (
	id                TEXT NOT NULL,
	source            TEXT NOT NULL,
	title             TEXT NOT NULL DEFAULT '',
	content           TEXT NOT NULL DEFAULT '',
	url               TEXT NOT NULL DEFAULT '',
	pub_date          TIMESTAMPTZ NOT NULL,
	category          TEXT NOT NULL DEFAULT '',
	summary           TEXT NOT NULL DEFAULT '',
	author            TEXT NOT NULL DEFAULT '',
	image_url         TEXT NOT NULL DEFAULT '',
	tags              JSONB NOT NULL DEFAULT '[]',
	created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	processed         BOOLEAN NOT NULL DEFAULT FALSE,
	analysis          JSONB,
	quality_enhanced  BOOLEAN NOT NULL DEFAULT FALSE,
	enhanced_title    TEXT NOT NULL DEFAULT '',
	enhanced_summary  TEXT NOT NULL DEFAULT '',
	enhanced_insights TEXT NOT NULL DEFAULT '',
	quality_score     DOUBLE PRECISION NOT NULL DEFAULT 0,
	PRIMARY KEY (id, source)
);

CREATE INDEX IF NOT EXISTS idx_articles_unresolved
	ON articles (pub_date DESC) WHERE processed = FALSE;

CREATE TABLE IF NOT EXISTS flash_news (
	id         TEXT NOT NULL,
	source     TEXT NOT NULL,
	title      TEXT NOT NULL DEFAULT '',
	content    TEXT NOT NULL DEFAULT '',
	url        TEXT NOT NULL DEFAULT '',
	pub_date   TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (id, source)
);

CREATE TABLE IF NOT EXISTS logs (
	id         BIGSERIAL PRIMARY KEY,
	article_id TEXT NOT NULL,
	type       TEXT NOT NULL,
	message    TEXT NOT NULL,
	timestamp  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// EnsureSchema creates the pipeline tables when they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return storeErr("ensure_schema", err)
	}
	return nil
}
