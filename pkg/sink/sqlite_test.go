package sink

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"mercator-hq/vendorgate/pkg/portal"
)

func sampleRows() []Row {
	value := "Acme"
	reason := portal.ReasonMissingRequired
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	return []Row{
		{SupplierID: "S-1", FieldName: "name", FieldValue: &value, IsValid: true, CreatedAt: created},
		{SupplierID: "S-1", FieldName: "email", IsValid: false, FailureReason: &reason, CreatedAt: created},
	}
}

func TestSQLiteSink_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")
	s, err := NewSQLiteSink(&SQLiteConfig{Path: path, Driver: DriverModernc, WALMode: true, BusyTimeout: time.Second})
	if err != nil {
		t.Fatalf("NewSQLiteSink() error = %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	if err := s.Ping(ctx); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	if err := s.Write(ctx, sampleRows()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := s.Write(ctx, nil); err != nil {
		t.Fatalf("Write(nil) error = %v", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT field_name, field_value, is_valid, failure_reason FROM supplier_field_validation WHERE supplier_id = ? ORDER BY id`, "S-1")
	if err != nil {
		t.Fatal(err)
	}
	defer rows.Close()

	type stored struct {
		name   string
		value  sql.NullString
		valid  bool
		reason sql.NullString
	}
	var got []stored
	for rows.Next() {
		var r stored
		if err := rows.Scan(&r.name, &r.value, &r.valid, &r.reason); err != nil {
			t.Fatal(err)
		}
		got = append(got, r)
	}
	if err := rows.Err(); err != nil {
		t.Fatal(err)
	}

	if len(got) != 2 {
		t.Fatalf("stored %d rows, want 2", len(got))
	}
	if got[0].name != "name" || !got[0].valid || got[0].value.String != "Acme" || got[0].reason.Valid {
		t.Errorf("row 0 = %+v", got[0])
	}
	if got[1].name != "email" || got[1].valid || got[1].value.Valid || got[1].reason.String != portal.ReasonMissingRequired {
		t.Errorf("row 1 = %+v", got[1])
	}
}

func TestSQLiteSink_WriteAfterClose(t *testing.T) {
	s, err := NewSQLiteSink(&SQLiteConfig{Path: filepath.Join(t.TempDir(), "r.db"), Driver: DriverModernc})
	if err != nil {
		t.Fatalf("NewSQLiteSink() error = %v", err)
	}
	s.Close()

	err = s.Write(context.Background(), sampleRows())
	var se *StorageError
	if !errors.As(err, &se) {
		t.Fatalf("Write() error = %v, want *StorageError", err)
	}
	if se.Backend != "sqlite" {
		t.Errorf("Backend = %q, want sqlite", se.Backend)
	}
}

func TestNewSQLiteSink_UnknownDriver(t *testing.T) {
	if _, err := NewSQLiteSink(&SQLiteConfig{Path: "x.db", Driver: "oracle"}); err == nil {
		t.Error("NewSQLiteSink() error = nil, want error")
	}
}
