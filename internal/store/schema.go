package store

// No uniqueness constraint on (object pair, conjunction_time): repeated
// detection runs may insert duplicate records for the same pair, which is
// accepted behavior.
const schema = `
CREATE TABLE IF NOT EXISTS conjunctions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    object1_id INTEGER,
    object1_catalog_number INTEGER,
    object1_name TEXT,
    object1_category TEXT,
    object2_id INTEGER,
    object2_catalog_number INTEGER,
    object2_name TEXT,
    object2_category TEXT,
    detected_at TIMESTAMP NOT NULL,
    conjunction_time TIMESTAMP NOT NULL,
    closest_distance_km REAL NOT NULL,
    object1_velocity_km_s REAL,
    object2_velocity_km_s REAL,
    relative_velocity_km_s REAL,
    probability REAL,
    orbit_zone TEXT,
    notes TEXT
);

CREATE TABLE IF NOT EXISTS maneuver_plans (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    conjunction_id INTEGER NOT NULL,
    maneuvering_catalog_number INTEGER NOT NULL,
    maneuver_type TEXT NOT NULL,
    delta_v_m_s REAL NOT NULL,
    execution_time TIMESTAMP NOT NULL,
    expected_miss_distance_km REAL NOT NULL,
    fuel_cost_kg REAL NOT NULL,
    risk_reduction_percent REAL NOT NULL,
    generated_at TIMESTAMP NOT NULL,
    FOREIGN KEY (conjunction_id) REFERENCES conjunctions(id)
);

CREATE INDEX IF NOT EXISTS idx_conjunctions_time ON conjunctions(conjunction_time);
CREATE INDEX IF NOT EXISTS idx_conjunctions_detected ON conjunctions(detected_at);
CREATE INDEX IF NOT EXISTS idx_conjunctions_object1 ON conjunctions(object1_catalog_number);
CREATE INDEX IF NOT EXISTS idx_conjunctions_object2 ON conjunctions(object2_catalog_number);
CREATE INDEX IF NOT EXISTS idx_plans_conjunction ON maneuver_plans(conjunction_id);
`
