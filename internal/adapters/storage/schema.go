package storage

// Both dialects keep the same table and column names; only the type
// spellings differ. Timestamps are stored as unix milliseconds.

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS directorates (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS roles (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS grades (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  tier INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS employees (
  id TEXT PRIMARY KEY,
  full_name TEXT NOT NULL,
  directorate_id TEXT NOT NULL REFERENCES directorates(id),
  role_id TEXT NOT NULL REFERENCES roles(id),
  grade_id TEXT NOT NULL REFERENCES grades(id),
  tenure_months INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS performance_yearly (
  employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
  year INTEGER NOT NULL,
  rating INTEGER NOT NULL,
  PRIMARY KEY (employee_id, year)
);

CREATE TABLE IF NOT EXISTS competencies_yearly (
  employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
  pillar_code TEXT NOT NULL,
  year INTEGER NOT NULL,
  score REAL NOT NULL,
  PRIMARY KEY (employee_id, pillar_code, year)
);

CREATE TABLE IF NOT EXISTS profiles_psych (
  employee_id TEXT PRIMARY KEY REFERENCES employees(id) ON DELETE CASCADE,
  pauli REAL,
  gtq REAL,
  iq REAL
);

CREATE TABLE IF NOT EXISTS strength_themes (
  employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
  theme_rank INTEGER NOT NULL,
  theme TEXT NOT NULL,
  PRIMARY KEY (employee_id, theme_rank)
);

CREATE TABLE IF NOT EXISTS scoring_runs (
  id TEXT PRIMARY KEY,
  request_id TEXT NOT NULL DEFAULT '',
  evaluation_year INTEGER NOT NULL,
  cohort_size INTEGER NOT NULL,
  employees_scored INTEGER NOT NULL,
  baseline_count INTEGER NOT NULL,
  duration_ms INTEGER NOT NULL,
  started_at INTEGER NOT NULL,
  finished_at INTEGER NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS directorates (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS roles (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS grades (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  tier INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS employees (
  id TEXT PRIMARY KEY,
  full_name TEXT NOT NULL,
  directorate_id TEXT NOT NULL REFERENCES directorates(id),
  role_id TEXT NOT NULL REFERENCES roles(id),
  grade_id TEXT NOT NULL REFERENCES grades(id),
  tenure_months INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS performance_yearly (
  employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
  year INTEGER NOT NULL,
  rating INTEGER NOT NULL,
  PRIMARY KEY (employee_id, year)
);

CREATE TABLE IF NOT EXISTS competencies_yearly (
  employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
  pillar_code TEXT NOT NULL,
  year INTEGER NOT NULL,
  score DOUBLE PRECISION NOT NULL,
  PRIMARY KEY (employee_id, pillar_code, year)
);

CREATE TABLE IF NOT EXISTS profiles_psych (
  employee_id TEXT PRIMARY KEY REFERENCES employees(id) ON DELETE CASCADE,
  pauli DOUBLE PRECISION,
  gtq DOUBLE PRECISION,
  iq DOUBLE PRECISION
);

CREATE TABLE IF NOT EXISTS strength_themes (
  employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
  theme_rank INTEGER NOT NULL,
  theme TEXT NOT NULL,
  PRIMARY KEY (employee_id, theme_rank)
);

CREATE TABLE IF NOT EXISTS scoring_runs (
  id TEXT PRIMARY KEY,
  request_id TEXT NOT NULL DEFAULT '',
  evaluation_year INTEGER NOT NULL,
  cohort_size INTEGER NOT NULL,
  employees_scored INTEGER NOT NULL,
  baseline_count INTEGER NOT NULL,
  duration_ms BIGINT NOT NULL,
  started_at BIGINT NOT NULL,
  finished_at BIGINT NOT NULL
);
`
