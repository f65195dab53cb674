package kv

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const (
	getSQL     = "SELECT v FROM kv WHERE bucket = ? AND k = ?"
	insertSQL  = "INSERT INTO kv (bucket, k, v) VALUES (?, ?, ?)"
	updateSQL  = "UPDATE kv SET v = ? WHERE bucket = ? AND k = ?"
	deleteSQL  = "DELETE FROM kv WHERE bucket = ? AND k = ?"
	forEachSQL = "SELECT k, v FROM kv WHERE bucket = ? ORDER BY k"
)

type dialect struct {
	driver      string
	createTable string
	txOpts      *sql.TxOptions
}

var dialects = map[string]dialect{
	"mysql": {
		driver: "mysql",
		createTable: "CREATE TABLE IF NOT EXISTS kv (" +
			"bucket VARCHAR(64) NOT NULL, k VARCHAR(191) NOT NULL, v MEDIUMBLOB NOT NULL, " +
			"PRIMARY KEY (bucket, k))",
		txOpts: &sql.TxOptions{Isolation: sql.LevelRepeatableRead},
	},
	"sqlite": {
		driver: "sqlite",
		createTable: "CREATE TABLE IF NOT EXISTS kv (" +
			"bucket TEXT NOT NULL, k TEXT NOT NULL, v BLOB NOT NULL, " +
			"PRIMARY KEY (bucket, k))",
	},
}

// sqlStore implements IStore over a single "kv" table.
type sqlStore struct {
	*sql.DB
	d dialect
}

// OpenSQL opens a mysql or sqlite database and creates the kv table.
func OpenSQL(kind, dsn string) (IStore, error) {
	d, ok := dialects[kind]
	if !ok {
		return nil, errors.Errorf("kv: unknown sql kind %q", kind)
	}
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if kind == "sqlite" {
		// sqlite serializes writers; a single connection avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(d.createTable); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating kv table")
	}
	glog.Infof("kv: %s store ready", kind)
	return &sqlStore{DB: db, d: d}, nil
}

func (s *sqlStore) withTx(ctx context.Context, exec func(ctx context.Context, tx *sql.Tx) error) error {
	tx, err := s.BeginTx(ctx, s.d.txOpts)
	if err != nil {
		return errors.Wrap(err, "begin")
	}

	if err := exec(ctx, tx); err != nil {
		if err2 := tx.Rollback(); err2 != nil {
			glog.Errorf("failed to rollback: %v", err2)
		}
		return err
	}

	return errors.Wrap(tx.Commit(), "commit")
}

// IsDupKeyError reports a primary key violation from either driver.
func IsDupKeyError(err error) bool {
	err = errors.Cause(err)
	if val, ok := err.(*mysql.MySQLError); ok {
		return val.Number == 1062
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (s *sqlStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	var v []byte
	err := s.QueryRowContext(ctx, getSQL, bucket, key).Scan(&v)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get %s/%s", bucket, key)
	}
	return v, nil
}

func (s *sqlStore) Put(ctx context.Context, bucket, key string, value []byte) error {
	return s.withTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, insertSQL, bucket, key, value)
		if err == nil {
			return nil
		}
		if !IsDupKeyError(err) {
			return errors.Wrapf(err, "insert %s/%s", bucket, key)
		}
		// Already there: replace in the same transaction.
		if _, err := tx.ExecContext(ctx, updateSQL, value, bucket, key); err != nil {
			return errors.Wrapf(err, "update %s/%s", bucket, key)
		}
		return nil
	})
}

func (s *sqlStore) Delete(ctx context.Context, bucket, key string) error {
	_, err := s.ExecContext(ctx, deleteSQL, bucket, key)
	return errors.Wrapf(err, "delete %s/%s", bucket, key)
}

func (s *sqlStore) ForEach(ctx context.Context, bucket string, fn func(string, []byte) error) error {
	rows, err := s.QueryContext(ctx, forEachSQL, bucket)
	if err != nil {
		return errors.Wrapf(err, "list %s", bucket)
	}
	defer rows.Close()

	for rows.Next() {
		var k string
		var v []byte
		if err := rows.Scan(&k, &v); err != nil {
			return errors.Wrap(err, "scanning kv row")
		}
		if err := fn(k, v); err != nil {
			return err
		}
	}
	return errors.Wrap(rows.Err(), "iterating kv rows")
}

func (s *sqlStore) Close() error {
	return s.DB.Close()
}
