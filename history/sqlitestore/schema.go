package sqlitestore

const Schema = `
CREATE TABLE IF NOT EXISTS observations (
	date DATETIME NOT NULL,
	ticker TEXT NOT NULL,
	field TEXT NOT NULL,
	value REAL,
	batch_id TEXT NOT NULL,
	PRIMARY KEY (date, ticker, field)
);

CREATE TABLE IF NOT EXISTS batches (
	batch_id TEXT PRIMARY KEY,
	source TEXT NOT NULL,
	rows INTEGER NOT NULL,
	created DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_observations_ticker_field ON observations(ticker, field);
`
