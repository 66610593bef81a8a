package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS observations (
    year                 INTEGER PRIMARY KEY,
    cost                 REAL NOT NULL,
    recorded_at          TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS estimates (
    id                   TEXT PRIMARY KEY,
    project              TEXT NOT NULL DEFAULT '',
    duration_months      INTEGER NOT NULL,
    labor                REAL NOT NULL,
    material             REAL NOT NULL,
    equipment            REAL NOT NULL,
    misc                 REAL NOT NULL,
    total                REAL NOT NULL,
    currency             TEXT NOT NULL,
    created_at           TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_estimates_created ON estimates(created_at);
`
