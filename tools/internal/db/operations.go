package db

import (
	"context"
	"database/sql"
	"fmt"
	"maps"
	"slices"

	"github.com/yyyoichi/sparsemodel"
)

// SaveModel replaces the stored model with m in a single transaction.
// Unsigned ids are stored bit for bit as SQLite integers.
func (d *DB) SaveModel(ctx context.Context, m *sparsemodel.Model) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"tracks", "points3d", "observations", "images", "camera_params", "cameras"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	if err := saveCameras(ctx, tx, m.Cameras); err != nil {
		return err
	}
	if err := saveImages(ctx, tx, m.Images); err != nil {
		return err
	}
	if err := savePoints(ctx, tx, m.Points); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func saveCameras(ctx context.Context, tx *sql.Tx, cameras map[int32]sparsemodel.Camera) error {
	camStmt, err := tx.PrepareContext(ctx, "INSERT INTO cameras (id, model, width, height) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare camera insert: %w", err)
	}
	defer camStmt.Close()
	paramStmt, err := tx.PrepareContext(ctx, "INSERT INTO camera_params (camera_id, idx, name, value) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare param insert: %w", err)
	}
	defer paramStmt.Close()

	for _, id := range slices.Sorted(maps.Keys(cameras)) {
		cam := cameras[id]
		if _, err := camStmt.ExecContext(ctx, cam.ID, cam.Model, int64(cam.Width), int64(cam.Height)); err != nil {
			return fmt.Errorf("failed to insert camera %d: %w", cam.ID, err)
		}
		model, _ := sparsemodel.LookupCameraModel(cam.Model)
		for i, v := range cam.Params {
			name := fmt.Sprintf("p%d", i)
			if i < len(model.ParamNames) {
				name = model.ParamNames[i]
			}
			if _, err := paramStmt.ExecContext(ctx, cam.ID, i, name, v); err != nil {
				return fmt.Errorf("failed to insert camera %d param %d: %w", cam.ID, i, err)
			}
		}
	}
	return nil
}

func saveImages(ctx context.Context, tx *sql.Tx, images map[int32]sparsemodel.Image) error {
	imgStmt, err := tx.PrepareContext(ctx, `INSERT INTO images
		(id, camera_id, name, qw, qx, qy, qz, tx, ty, tz) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare image insert: %w", err)
	}
	defer imgStmt.Close()
	obsStmt, err := tx.PrepareContext(ctx, "INSERT INTO observations (image_id, idx, x, y, point3d_id) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare observation insert: %w", err)
	}
	defer obsStmt.Close()

	for _, id := range slices.Sorted(maps.Keys(images)) {
		img := images[id]
		q, t := img.Qvec, img.Tvec
		if _, err := imgStmt.ExecContext(ctx, img.ID, img.CameraID, img.Name,
			q[0], q[1], q[2], q[3], t[0], t[1], t[2]); err != nil {
			return fmt.Errorf("failed to insert image %d: %w", img.ID, err)
		}
		for i, o := range img.Observations {
			if _, err := obsStmt.ExecContext(ctx, img.ID, i, o.X, o.Y, o.Point3DID); err != nil {
				return fmt.Errorf("failed to insert image %d observation %d: %w", img.ID, i, err)
			}
		}
	}
	return nil
}

func savePoints(ctx context.Context, tx *sql.Tx, points map[uint64]sparsemodel.Point3D) error {
	ptStmt, err := tx.PrepareContext(ctx, "INSERT INTO points3d (id, x, y, z, r, g, b, error) VALUES (?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare point insert: %w", err)
	}
	defer ptStmt.Close()
	trackStmt, err := tx.PrepareContext(ctx, "INSERT INTO tracks (point3d_id, idx, image_id, point2d_idx) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare track insert: %w", err)
	}
	defer trackStmt.Close()

	for _, id := range slices.Sorted(maps.Keys(points)) {
		p := points[id]
		if _, err := ptStmt.ExecContext(ctx, int64(p.ID), p.XYZ[0], p.XYZ[1], p.XYZ[2],
			p.RGB[0], p.RGB[1], p.RGB[2], p.Error); err != nil {
			return fmt.Errorf("failed to insert point %d: %w", p.ID, err)
		}
		for i, e := range p.Track {
			if _, err := trackStmt.ExecContext(ctx, int64(p.ID), i, int64(e.ImageID), int64(e.Point2DIndex)); err != nil {
				return fmt.Errorf("failed to insert point %d track %d: %w", p.ID, i, err)
			}
		}
	}
	return nil
}

// Count returns the number of rows in one of the model tables.
func (d *DB) Count(ctx context.Context, table string) (int, error) {
	switch table {
	case "cameras", "camera_params", "images", "observations", "points3d", "tracks":
	default:
		return 0, fmt.Errorf("unknown table %q", table)
	}
	var n int
	if err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}
