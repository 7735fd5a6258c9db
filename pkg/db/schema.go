package db

const (
	// SchemaV1 defines the SQL statements for version 1 of the database schema.
	// This schema pertains to the 'gardendb' component.
	//
	// Dependent tables deliberately carry plain integer reference columns
	// instead of ON DELETE CASCADE foreign keys: removing a plant has to
	// rewrite the membership lists of surviving tasks, which an engine-level
	// cascade cannot express, so the whole deletion protocol runs as one
	// explicit transaction in pkg/garden.
	SchemaV1 = `
CREATE TABLE IF NOT EXISTS seedling_versions (
    component TEXT PRIMARY KEY,
    version INTEGER NOT NULL,
    created_at REAL DEFAULT (unixepoch())
);

CREATE TABLE IF NOT EXISTS plants (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name VARCHAR(256) NOT NULL,
    latin_name VARCHAR(256),
    status VARCHAR(32) NOT NULL DEFAULT 'active',
    lifecycle VARCHAR(32),
    sowing_start INTEGER,
    sowing_end INTEGER,
    harvest_start INTEGER,
    harvest_end INTEGER,
    frost_tolerance VARCHAR(64),
    instructions TEXT,
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_plants_status ON plants(status);

CREATE TABLE IF NOT EXISTS diary_entries (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    plant_id INTEGER NOT NULL,
    date TEXT NOT NULL,
    care_stage VARCHAR(64),
    note TEXT,
    year INTEGER NOT NULL,
    task_id INTEGER
);

CREATE INDEX IF NOT EXISTS idx_diary_entries_plant_id ON diary_entries(plant_id);
CREATE INDEX IF NOT EXISTS idx_diary_entries_date ON diary_entries(date);
CREATE INDEX IF NOT EXISTS idx_diary_entries_year ON diary_entries(year);
CREATE INDEX IF NOT EXISTS idx_diary_entries_task_id ON diary_entries(task_id);

CREATE TABLE IF NOT EXISTS tasks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    description TEXT NOT NULL,
    date TEXT NOT NULL,
    time TEXT,
    plant_ids TEXT NOT NULL DEFAULT '[]',
    completed_plant_ids TEXT NOT NULL DEFAULT '[]',
    completed INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_completed ON tasks(completed);
CREATE INDEX IF NOT EXISTS idx_tasks_date ON tasks(date);

CREATE TABLE IF NOT EXISTS photos (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    plant_id INTEGER NOT NULL,
    diary_entry_id INTEGER,
    data_url TEXT NOT NULL,
    is_main_photo INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_photos_plant_id ON photos(plant_id);
CREATE INDEX IF NOT EXISTS idx_photos_diary_entry_id ON photos(diary_entry_id);

CREATE TABLE IF NOT EXISTS companion_plantings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    plant_id INTEGER NOT NULL,
    companion_plant_id INTEGER NOT NULL,
    benefits TEXT
);

CREATE INDEX IF NOT EXISTS idx_companion_plantings_plant_id ON companion_plantings(plant_id);
CREATE INDEX IF NOT EXISTS idx_companion_plantings_companion_plant_id ON companion_plantings(companion_plant_id);

CREATE TABLE IF NOT EXISTS settings (
    key VARCHAR(128) PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at REAL DEFAULT (unixepoch())
);

CREATE TABLE IF NOT EXISTS scheduled_notifications (
    task_id INTEGER PRIMARY KEY,
    payload TEXT NOT NULL,
    created_at REAL DEFAULT (unixepoch())
);
`
)
