package schema

// SchemaSQL contains the full database schema initialization script
const SchemaSQL = `
-- Tracked Characters

CREATE TABLE IF NOT EXISTS wow_character (
    character_id SERIAL PRIMARY KEY,
    key VARCHAR(255) UNIQUE NOT NULL,
    region VARCHAR(10) NOT NULL,
    realm VARCHAR(100) NOT NULL,
    name VARCHAR(100) NOT NULL,
    level INTEGER,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- Per-slot Gear Log
-- One row per (character, slot, day).

CREATE TABLE IF NOT EXISTS gear_log (
    gear_id SERIAL PRIMARY KEY,
    character_id INTEGER NOT NULL REFERENCES wow_character(character_id) ON DELETE CASCADE,
    record_day DATE NOT NULL,
    slot VARCHAR(30) NOT NULL,
    item_id INTEGER NOT NULL DEFAULT 0,
    ilevel INTEGER NOT NULL DEFAULT 0,
    name VARCHAR(255) NOT NULL DEFAULT '',
    quality VARCHAR(20) NOT NULL DEFAULT '',
    size VARCHAR(30),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (character_id, slot, record_day)
);

CREATE INDEX IF NOT EXISTS idx_gear_log_character_day ON gear_log (character_id, record_day);

-- Daily Progress Log
-- One row per (character, day). Weekly values are derived at read time.

CREATE TABLE IF NOT EXISTS progress_log (
    progress_id SERIAL PRIMARY KEY,
    character_id INTEGER NOT NULL REFERENCES wow_character(character_id) ON DELETE CASCADE,
    character_level INTEGER,
    record_day DATE NOT NULL,
    average_item_level INTEGER NOT NULL DEFAULT 0,
    pinnacle_quest_done BOOLEAN NOT NULL DEFAULT FALSE,
    profession_1_quest_done BOOLEAN NOT NULL DEFAULT FALSE,
    profession_2_quest_done BOOLEAN NOT NULL DEFAULT FALSE,
    delves_completed INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (character_id, record_day)
);

CREATE INDEX IF NOT EXISTS idx_progress_log_character_day ON progress_log (character_id, record_day);
`
