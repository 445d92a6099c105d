package indexer

const schema = `
CREATE TABLE IF NOT EXISTS pages (
	url          TEXT UNIQUE NOT NULL,
	title        TEXT,
	keywords     TEXT,
	text_preview TEXT,
	crawled_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_url ON pages(url);
CREATE INDEX IF NOT EXISTS idx_crawled_at ON pages(crawled_at);
`
