package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS translations (
    key         TEXT PRIMARY KEY,
    translated  TEXT NOT NULL,
    created_at  TEXT NOT NULL,
    last_used   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_translations_last_used ON translations(last_used);
`
