// Package datarecording persists simulation results into an SQLite
// database. Tables are derived from flat struct types by reflection and
// inserts are buffered until Flush.
package datarecording

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// DataRecorder is a backend that can record and store data.
type DataRecorder interface {
	// CreateTable creates a new table shaped after the sample entry.
	CreateTable(tableName string, sampleEntry any)

	// InsertData buffers one entry of the table's type.
	InsertData(tableName string, entry any)

	// ListTables returns the names of all tables.
	ListTables() []string

	// Flush writes all buffered entries to the database.
	Flush()

	// Close flushes and closes the database.
	Close() error
}

// New creates a DataRecorder backed by an SQLite file at path. An empty
// path picks a generated name. The file must not already exist.
func New(path string) DataRecorder {
	w := &sqliteWriter{
		dbName:    path,
		batchSize: 100000,
		tables:    make(map[string]*table),
	}

	w.init()

	atexit.Register(func() { w.Flush() })

	return w
}

// NewWithDB creates a DataRecorder on an open database.
func NewWithDB(db *sql.DB) DataRecorder {
	w := &sqliteWriter{
		db:        db,
		batchSize: 100000,
		tables:    make(map[string]*table),
	}

	atexit.Register(func() { w.Flush() })

	return w
}

type table struct {
	structType reflect.Type
	entries    []any
}

type sqliteWriter struct {
	db *sql.DB

	dbName     string
	tables     map[string]*table
	batchSize  int
	entryCount int
}

func (w *sqliteWriter) init() {
	if w.dbName == "" {
		w.dbName = "schedsim_results_" + xid.New().String()
	}

	filename := w.dbName
	if !strings.HasSuffix(filename, ".sqlite3") {
		filename += ".sqlite3"
	}

	if _, err := os.Stat(filename); err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	fmt.Fprintf(os.Stderr, "Database created for recording: %s\n", filename)

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}

	w.db = db
}

func isAllowedKind(kind reflect.Kind) bool {
	switch kind {
	case
		reflect.Bool,
		reflect.Int,
		reflect.Int8,
		reflect.Int16,
		reflect.Int32,
		reflect.Int64,
		reflect.Uint,
		reflect.Uint8,
		reflect.Uint16,
		reflect.Uint32,
		reflect.Uint64,
		reflect.Float32,
		reflect.Float64,
		reflect.String:
		return true
	default:
		return false
	}
}

func fieldNames(t reflect.Type) []string {
	names := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		names = append(names, t.Field(i).Name)
	}
	return names
}

func checkStructFields(entry any) error {
	t := reflect.TypeOf(entry)
	if t.Kind() != reflect.Struct {
		return errors.New("entry is not a struct")
	}

	for i := 0; i < t.NumField(); i++ {
		if !isAllowedKind(t.Field(i).Type.Kind()) {
			return fmt.Errorf("field %s has unsupported type", t.Field(i).Name)
		}
	}

	return nil
}

func (w *sqliteWriter) CreateTable(tableName string, sampleEntry any) {
	if err := checkStructFields(sampleEntry); err != nil {
		panic(err)
	}

	structType := reflect.TypeOf(sampleEntry)
	fields := strings.Join(fieldNames(structType), ", \n\t")

	createTableSQL := `CREATE TABLE ` + tableName +
		` (` + "\n\t" + fields + "\n" + `);`
	w.mustExecute(createTableSQL)

	w.tables[tableName] = &table{
		structType: structType,
		entries:    []any{},
	}
}

func (w *sqliteWriter) InsertData(tableName string, entry any) {
	t, exists := w.tables[tableName]
	if !exists {
		panic(fmt.Sprintf("table %s does not exist", tableName))
	}

	if reflect.TypeOf(entry) != t.structType {
		panic(fmt.Sprintf("entry type does not match table %s", tableName))
	}

	t.entries = append(t.entries, entry)

	w.entryCount++
	if w.entryCount >= w.batchSize {
		w.Flush()
	}
}

func (w *sqliteWriter) ListTables() []string {
	tables := make([]string, 0, len(w.tables))
	for name := range w.tables {
		tables = append(tables, name)
	}

	return tables
}

func (w *sqliteWriter) Flush() {
	if w.entryCount == 0 {
		return
	}

	w.mustExecute("BEGIN TRANSACTION")
	defer w.mustExecute("COMMIT TRANSACTION")

	for tableName, t := range w.tables {
		if len(t.entries) == 0 {
			continue
		}

		stmt := w.prepareInsert(tableName, t.structType)

		for _, entry := range t.entries {
			v := reflect.ValueOf(entry)

			args := make([]any, 0, v.NumField())
			for i := 0; i < v.NumField(); i++ {
				args = append(args, v.Field(i).Interface())
			}

			if _, err := stmt.Exec(args...); err != nil {
				panic(err)
			}
		}

		t.entries = nil
		stmt.Close()
	}

	w.entryCount = 0
}

func (w *sqliteWriter) Close() error {
	w.Flush()
	return w.db.Close()
}

func (w *sqliteWriter) mustExecute(query string) sql.Result {
	res, err := w.db.Exec(query)
	if err != nil {
		panic(fmt.Errorf("failed to execute %q: %w", query, err))
	}

	return res
}

func (w *sqliteWriter) prepareInsert(tableName string, t reflect.Type) *sql.Stmt {
	marks := make([]string, t.NumField())
	for i := range marks {
		marks[i] = "?"
	}

	sqlStr := "INSERT INTO " + tableName +
		" VALUES (" + strings.Join(marks, ", ") + ")"

	stmt, err := w.db.Prepare(sqlStr)
	if err != nil {
		panic(err)
	}

	return stmt
}
