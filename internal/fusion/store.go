package fusion

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SessionStore persists per-session pushing data: generated trajectory
// waypoints keyed by variant index, and the tick-ordered fusion log.
// Schema is created at open; the store owns a single sqlite file.
type SessionStore struct {
	db        *sql.DB
	sessionID string
	closed    bool
}

// OpenSessionStore opens (or creates) the session database. The caller
// must have blank-imported the sqlite driver.
func OpenSessionStore(path string) (*SessionStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS push_sessions (
			session_id TEXT PRIMARY KEY,
			created_unix_nanos BIGINT,
			movement_mode TEXT,
			control_mode TEXT,
			traj_shape TEXT
		);
		CREATE TABLE IF NOT EXISTS push_trajectories (
			session_id TEXT,
			variant_index INTEGER,
			point_index INTEGER,
			x DOUBLE, y DOUBLE, z DOUBLE,
			roll DOUBLE, pitch DOUBLE, yaw DOUBLE,
			PRIMARY KEY (session_id, variant_index, point_index),
			FOREIGN KEY (session_id) REFERENCES push_sessions(session_id)
		);
		CREATE TABLE IF NOT EXISTS push_fusion_log (
			session_id TEXT,
			tick INTEGER,
			absent INTEGER,
			corners_json TEXT,
			ids_json TEXT,
			pixel_cx DOUBLE, pixel_cy DOUBLE,
			cam_cx DOUBLE, cam_cy DOUBLE, cam_cz DOUBLE,
			base_cx DOUBLE, base_cy DOUBLE, base_cz DOUBLE,
			cam_pose_json TEXT,
			base_pose_json TEXT,
			PRIMARY KEY (session_id, tick),
			FOREIGN KEY (session_id) REFERENCES push_sessions(session_id)
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create session schema: %w", err)
	}

	return &SessionStore{db: db}, nil
}

// BeginSession registers a new session row and returns its id. All
// subsequent writes attach to this session.
func (s *SessionStore) BeginSession(movementMode, controlMode, trajShape string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(`
		INSERT INTO push_sessions (session_id, created_unix_nanos, movement_mode, control_mode, traj_shape)
		VALUES (?, ?, ?, ?, ?)`,
		id, time.Now().UnixNano(), movementMode, controlMode, trajShape,
	)
	if err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}
	s.sessionID = id
	return id, nil
}

// SaveTrajectory persists one episode-pair's waypoints. Re-saving the
// same variant (the second episode of a pair regenerates an identical
// trajectory) overwrites in place.
func (s *SessionStore) SaveTrajectory(variant int, pos, rpy [][3]float64) error {
	if len(pos) != len(rpy) {
		return fmt.Errorf("trajectory position/orientation length mismatch: %d vs %d", len(pos), len(rpy))
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin trajectory tx: %w", err)
	}
	defer tx.Rollback()

	for i := range pos {
		_, err := tx.Exec(`
			INSERT OR REPLACE INTO push_trajectories
				(session_id, variant_index, point_index, x, y, z, roll, pitch, yaw)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			s.sessionID, variant, i,
			pos[i][0], pos[i][1], pos[i][2],
			rpy[i][0], rpy[i][1], rpy[i][2],
		)
		if err != nil {
			return fmt.Errorf("insert trajectory point %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// WriteLog persists the accumulated fusion log. Absent entries keep
// their tick row with NULL estimate columns so the log stays aligned
// with the control loop.
func (s *SessionStore) WriteLog(entries []Entry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin log tx: %w", err)
	}
	defer tx.Rollback()

	for _, e := range entries {
		cornersJSON, err := json.Marshal(e.Corners)
		if err != nil {
			return fmt.Errorf("marshal corners for tick %d: %w", e.Tick, err)
		}
		idsJSON, err := json.Marshal(e.IDs)
		if err != nil {
			return fmt.Errorf("marshal ids for tick %d: %w", e.Tick, err)
		}

		_, err = tx.Exec(`
			INSERT OR REPLACE INTO push_fusion_log (
				session_id, tick, absent, corners_json, ids_json,
				pixel_cx, pixel_cy,
				cam_cx, cam_cy, cam_cz,
				base_cx, base_cy, base_cz,
				cam_pose_json, base_pose_json
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			s.sessionID, e.Tick, boolToInt(e.Absent), string(cornersJSON), string(idsJSON),
			nullCoord(e.PixelCentroid, 0), nullCoord(e.PixelCentroid, 1),
			nullCoord3(e.CamCentroid, 0), nullCoord3(e.CamCentroid, 1), nullCoord3(e.CamCentroid, 2),
			nullCoord3(e.BaseCentroid, 0), nullCoord3(e.BaseCentroid, 1), nullCoord3(e.BaseCentroid, 2),
			nullPose(e.CamPose), nullPose(e.BasePose),
		)
		if err != nil {
			return fmt.Errorf("insert fusion log tick %d: %w", e.Tick, err)
		}
	}
	return tx.Commit()
}

// BaseCentroids returns fused base-frame centroids in tick order,
// skipping absent ticks. Used by reporting tools.
func (s *SessionStore) BaseCentroids(sessionID string) ([][3]float64, error) {
	rows, err := s.db.Query(`
		SELECT base_cx, base_cy, base_cz FROM push_fusion_log
		WHERE session_id = ? AND absent = 0 AND base_cx IS NOT NULL
		ORDER BY tick`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query base centroids: %w", err)
	}
	defer rows.Close()

	var out [][3]float64
	for rows.Next() {
		var x, y, z float64
		if err := rows.Scan(&x, &y, &z); err != nil {
			return nil, fmt.Errorf("scan base centroid: %w", err)
		}
		out = append(out, [3]float64{x, y, z})
	}
	return out, rows.Err()
}

// Trajectories returns waypoint positions per variant index for a
// session.
func (s *SessionStore) Trajectories(sessionID string) (map[int][][3]float64, error) {
	rows, err := s.db.Query(`
		SELECT variant_index, x, y, z FROM push_trajectories
		WHERE session_id = ?
		ORDER BY variant_index, point_index`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query trajectories: %w", err)
	}
	defer rows.Close()

	out := make(map[int][][3]float64)
	for rows.Next() {
		var variant int
		var x, y, z float64
		if err := rows.Scan(&variant, &x, &y, &z); err != nil {
			return nil, fmt.Errorf("scan trajectory point: %w", err)
		}
		out[variant] = append(out[variant], [3]float64{x, y, z})
	}
	return out, rows.Err()
}

// Sessions lists session ids, newest first.
func (s *SessionStore) Sessions() ([]string, error) {
	rows, err := s.db.Query(`SELECT session_id FROM push_sessions ORDER BY created_unix_nanos DESC`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan session id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// SessionID returns the active session id, empty before BeginSession.
func (s *SessionStore) SessionID() string { return s.sessionID }

// Close releases the database. Idempotent.
func (s *SessionStore) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullCoord(p *[2]float64, i int) interface{} {
	if p == nil {
		return nil
	}
	return p[i]
}

func nullCoord3(p *[3]float64, i int) interface{} {
	if p == nil {
		return nil
	}
	return p[i]
}

func nullPose(p *[16]float64) interface{} {
	if p == nil {
		return nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil
	}
	return string(b)
}
