package sink

// SQLiteSchema creates the results table in SQLite.
const SQLiteSchema = `
CREATE TABLE IF NOT EXISTS supplier_field_validation (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    supplier_id TEXT NOT NULL,
    field_name TEXT NOT NULL,
    field_value TEXT,
    is_valid INTEGER NOT NULL,
    failure_reason TEXT,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sfv_supplier ON supplier_field_validation(supplier_id, created_at);
`

// PostgresSchema creates the results table in PostgreSQL.
const PostgresSchema = `
CREATE TABLE IF NOT EXISTS supplier_field_validation (
    id BIGSERIAL PRIMARY KEY,
    supplier_id TEXT NOT NULL,
    field_name TEXT NOT NULL,
    field_value TEXT,
    is_valid BOOLEAN NOT NULL,
    failure_reason TEXT,
    created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sfv_supplier ON supplier_field_validation(supplier_id, created_at);
`

const insertRow = `
INSERT INTO supplier_field_validation
    (supplier_id, field_name, field_value, is_valid, failure_reason, created_at)
VALUES (?, ?, ?, ?, ?, ?)
`

// columns lists the insert columns in Row order.
var columns = []string{"supplier_id", "field_name", "field_value", "is_valid", "failure_reason", "created_at"}
