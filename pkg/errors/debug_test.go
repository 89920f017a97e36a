package errors

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

func TestDumpCapturesPgxDetails(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "work_designers_one_active_idx",
		TableName:      "work_designers",
		Message:        "duplicate key value violates unique constraint",
	}
	err := Wrap(CodeConflict, fmt.Errorf("insert designer: %w", pgErr), "designer already assigned")

	d := Dump(err)
	if d.Code != CodeConflict {
		t.Fatalf("expected conflict code, got %s", d.Code)
	}
	if d.PGCode != "23505" || d.PGConstraint != "work_designers_one_active_idx" || d.PGTable != "work_designers" {
		t.Fatalf("unexpected pg fields %+v", d)
	}
	if len(d.Chain) != 3 {
		t.Fatalf("expected 3 chain entries, got %d: %v", len(d.Chain), d.Chain)
	}
}

func TestDumpCapturesPqDetails(t *testing.T) {
	pqErr := &pq.Error{Code: "23503", Constraint: "works_contact_id_fkey", Table: "works"}
	d := Dump(fmt.Errorf("insert work: %w", pqErr))
	if d.PGCode != "23503" || d.PGConstraint != "works_contact_id_fkey" {
		t.Fatalf("unexpected pq fields %+v", d)
	}
	if d.Code != "" {
		t.Fatalf("untyped error should not carry a code, got %s", d.Code)
	}
}

func TestDumpNil(t *testing.T) {
	if d := Dump(nil); d.TopMessage != "" || len(d.Chain) != 0 {
		t.Fatalf("expected empty dump, got %+v", d)
	}
}

func TestDumpNamesEntityAndGormKind(t *testing.T) {
	cause := fmt.Errorf("insert art work: %w", gorm.ErrDuplicatedKey)
	d := Dump(ValidationFailure("ArtWork", ActionUpdated, cause))

	if d.Entity != "ArtWork" {
		t.Fatalf("expected entity ArtWork, got %q", d.Entity)
	}
	if d.DBKind != "duplicated_key" {
		t.Fatalf("expected duplicated_key, got %q", d.DBKind)
	}
	if d.Code != CodeValidation {
		t.Fatalf("expected validation code, got %s", d.Code)
	}
}
