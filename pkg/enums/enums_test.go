package enums

import "testing"

func TestStatusCatalog(t *testing.T) {
	all := AllStatuses()
	if len(all) != 9 {
		t.Fatalf("expected 9 statuses, got %d", len(all))
	}
	for i, s := range all {
		if int(s) != i {
			t.Fatalf("status at %d has id %d", i, s)
		}
	}
	if StatusDiseno.String() != "Diseño" || StatusPorCobrar.String() != "Por cobrar" {
		t.Fatalf("unexpected names %q %q", StatusDiseno, StatusPorCobrar)
	}
	if StatusID(42).IsValid() {
		t.Fatal("42 must not be a valid status")
	}
	if !StatusCancelado.IsClosed() || !StatusTerminado.IsClosed() || StatusPorFacturar.IsClosed() {
		t.Fatal("only Terminado and Cancelado close a work")
	}
	if _, err := ParseStatusID(9); err == nil {
		t.Fatal("expected error for unknown status id")
	}
	all[0] = StatusCancelado
	if AllStatuses()[0] != StatusPendiente {
		t.Fatal("AllStatuses must return a copy")
	}
}

func TestRoleParsing(t *testing.T) {
	role, err := ParseRole("Diseñador SR")
	if err != nil || role != RoleDisenadorSR {
		t.Fatalf("unexpected parse result %q %v", role, err)
	}
	if _, err := ParseRole("Gerente"); err == nil {
		t.Fatal("expected error for unknown role")
	}
	if len(AllRoles()) != 8 {
		t.Fatalf("expected 8 roles, got %d", len(AllRoles()))
	}
}
