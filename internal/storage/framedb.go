package storage

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/san-kum/orbitsim/internal/celestial"
	"github.com/san-kum/orbitsim/internal/engine"
)

const frameSchema = `
CREATE TABLE frames (
	frame 	INTEGER,
	tick 	INTEGER,
	time 	REAL,
	name 	TEXT,
	x 		REAL,
	y 		REAL,
	vx 		REAL,
	vy 		REAL,
	mass 	REAL);
CREATE INDEX idx_frame ON frames (frame);
CREATE INDEX idx_name ON frames (name, frame);
`

const (
	insertFrame = `INSERT INTO frames VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`
	queryFrame  = `SELECT name, x, y, vx, vy, mass FROM frames WHERE frame = ? ORDER BY rowid ASC;`
	queryTrack  = `SELECT frame, tick, time, x, y, vx, vy, mass FROM frames WHERE name = ? ORDER BY frame ASC;`
	countFrames = `SELECT COUNT(DISTINCT frame) FROM frames;`
)

// FrameRow is one body in one recorded frame.
type FrameRow struct {
	Frame int
	Tick  int64
	Time  float64
	Name  string
	X, Y  float64
	VX    float64
	VY    float64
	Mass  float64
}

// FrameDB records body states into an SQLite file. It is an engine.Observer
// that keeps every Nth tick; each frame is written in one transaction.
type FrameDB struct {
	db    *sql.DB
	stmt  *sql.Stmt
	every int64
	frame int
	err   error
}

// OpenFrameDB creates a new database at path. An existing file is never
// overwritten.
func OpenFrameDB(path string, every int) (*FrameDB, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrExists, path)
	}
	db, err := sql.Open("sqlite3", "file:"+path+"?_journal_mode=OFF&_synchronous=OFF")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(frameSchema); err != nil {
		db.Close()
		return nil, err
	}
	stmt, err := db.Prepare(insertFrame)
	if err != nil {
		db.Close()
		return nil, err
	}
	if every < 1 {
		every = 1
	}
	return &FrameDB{db: db, stmt: stmt, every: int64(every)}, nil
}

// ReadFrameDB opens an existing database for queries only. Recording into it
// fails with ErrReadOnly.
func ReadFrameDB(path string) (*FrameDB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoFrameDB, path)
	}
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return &FrameDB{db: db, every: 1}, nil
}

func (f *FrameDB) OnTick(sys *celestial.System, stats engine.Statistics) {
	if f.err != nil || stats.Ticks%f.every != 0 {
		return
	}
	f.err = f.Record(sys, stats.Ticks)
}

// Record writes the current state of sys as the next frame.
func (f *FrameDB) Record(sys *celestial.System, tick int64) error {
	if f.stmt == nil {
		return ErrReadOnly
	}
	tx, err := f.db.Begin()
	if err != nil {
		return err
	}
	stmt := tx.Stmt(f.stmt)
	for _, b := range sys.Bodies {
		_, err = stmt.Exec(f.frame, tick, sys.Time, b.Name,
			b.Position.X, b.Position.Y, b.Velocity.X, b.Velocity.Y, b.Mass)
		if err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	f.frame++
	return nil
}

// Err reports the first write failure seen by OnTick. Recording stops after it.
func (f *FrameDB) Err() error {
	return f.err
}

func (f *FrameDB) Frames() (int, error) {
	var n int
	err := f.db.QueryRow(countFrames).Scan(&n)
	return n, err
}

func (f *FrameDB) Frame(frame int) ([]FrameRow, error) {
	rows, err := f.db.Query(queryFrame, frame)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FrameRow
	for rows.Next() {
		r := FrameRow{Frame: frame}
		if err := rows.Scan(&r.Name, &r.X, &r.Y, &r.VX, &r.VY, &r.Mass); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Track returns every recorded state of the named body in frame order.
func (f *FrameDB) Track(name string) ([]FrameRow, error) {
	rows, err := f.db.Query(queryTrack, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FrameRow
	for rows.Next() {
		r := FrameRow{Name: name}
		if err := rows.Scan(&r.Frame, &r.Tick, &r.Time, &r.X, &r.Y, &r.VX, &r.VY, &r.Mass); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (f *FrameDB) Close() error {
	if f.stmt != nil {
		f.stmt.Close()
	}
	return f.db.Close()
}
