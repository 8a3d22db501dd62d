package db

// Float columns are nullable: SQLite stores NaN as NULL, and the decoded
// tables may carry NaN anywhere a double is read.
const schema = `
-- Cameras table
CREATE TABLE IF NOT EXISTS cameras (
    id INTEGER PRIMARY KEY,
    model TEXT NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL
);

-- Intrinsic parameters, one row per value in record order
CREATE TABLE IF NOT EXISTS camera_params (
    camera_id INTEGER NOT NULL,
    idx INTEGER NOT NULL,
    name TEXT NOT NULL,
    value REAL,
    FOREIGN KEY (camera_id) REFERENCES cameras(id) ON DELETE CASCADE,
    PRIMARY KEY (camera_id, idx)
);

-- Images table; camera_id is not a foreign key since the model does not guarantee it exists
CREATE TABLE IF NOT EXISTS images (
    id INTEGER PRIMARY KEY,
    camera_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    qw REAL, qx REAL, qy REAL, qz REAL,
    tx REAL, ty REAL, tz REAL
);

-- Keypoints of each image; point3d_id is -1 when untriangulated
CREATE TABLE IF NOT EXISTS observations (
    image_id INTEGER NOT NULL,
    idx INTEGER NOT NULL,
    x REAL,
    y REAL,
    point3d_id INTEGER NOT NULL,
    FOREIGN KEY (image_id) REFERENCES images(id) ON DELETE CASCADE,
    PRIMARY KEY (image_id, idx)
);

-- Points table
CREATE TABLE IF NOT EXISTS points3d (
    id INTEGER PRIMARY KEY,
    x REAL, y REAL, z REAL,
    r INTEGER NOT NULL, g INTEGER NOT NULL, b INTEGER NOT NULL,
    error REAL
);

-- Tracks table
CREATE TABLE IF NOT EXISTS tracks (
    point3d_id INTEGER NOT NULL,
    idx INTEGER NOT NULL,
    image_id INTEGER NOT NULL,
    point2d_idx INTEGER NOT NULL,
    FOREIGN KEY (point3d_id) REFERENCES points3d(id) ON DELETE CASCADE,
    PRIMARY KEY (point3d_id, idx)
);

-- Indexes for performance
CREATE INDEX IF NOT EXISTS idx_images_camera ON images(camera_id);
CREATE INDEX IF NOT EXISTS idx_observations_point ON observations(point3d_id);
CREATE INDEX IF NOT EXISTS idx_tracks_image ON tracks(image_id);
`
