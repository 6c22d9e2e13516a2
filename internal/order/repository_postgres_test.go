package order

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func orderRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "order_id", "customer_id", "items", "sub_total", "tax_rate",
		"tax_amount", "grand_total", "payment_mode", "status", "created_at", "gateway_order_id",
		"gateway_signature", "payment_id", "payment_status", "paid_at", "billing"})
}

func TestPostgresGetByOrderID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	created := time.Now().UTC()
	rows := orderRows().AddRow(int64(1), "FD1", 42, []byte(`[{"foodId":1,"name":"Paneer Tikka","quantity":1,"unitPrice":220,"total":220}]`),
		220.0, 5.0, 11.0, 231.0, "UPI", "PENDING", created, nil, nil, nil, nil, nil, nil)
	mock.ExpectQuery("FROM orders WHERE order_id").WithArgs("FD1").WillReturnRows(rows)

	ord, err := repo.GetByOrderID("FD1")
	if err != nil {
		t.Fatalf("GetByOrderID failed: %v", err)
	}
	if ord.OrderID != "FD1" || ord.Status != StatusPending || ord.GrandTotal != 231.0 {
		t.Fatalf("unexpected order %+v", ord)
	}
	if len(ord.Lines) != 1 || ord.Lines[0].Name != "Paneer Tikka" {
		t.Fatalf("unexpected lines %+v", ord.Lines)
	}
	if ord.GatewayOrderID != "" || ord.PaidAt != nil {
		t.Fatalf("expected empty payment fields, got %+v", ord)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresGetByOrderID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("FROM orders WHERE order_id").WithArgs("FD404").WillReturnRows(orderRows())

	if _, err := repo.GetByOrderID("FD404"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresUpdateStatusConditional(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	created := time.Now().UTC()
	mock.ExpectExec("UPDATE orders SET status").
		WithArgs("PROCESSING", "FD1", "PAID").
		WillReturnResult(sqlmock.NewResult(0, 1))
	rows := orderRows().AddRow(int64(1), "FD1", 42, []byte(`[]`),
		220.0, 5.0, 11.0, 231.0, "UPI", "PROCESSING", created, "gw_1", nil, "pay_1", "paid", created, nil)
	mock.ExpectQuery("FROM orders WHERE order_id").WithArgs("FD1").WillReturnRows(rows)

	ord, err := repo.UpdateStatus("FD1", StatusPaid, StatusProcessing)
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if ord.Status != StatusProcessing {
		t.Fatalf("expected PROCESSING, got %s", ord.Status)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresUpdateStatusLostRace(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	// zero rows affected but the order exists: a concurrent writer moved it
	created := time.Now().UTC()
	mock.ExpectExec("UPDATE orders SET status").
		WithArgs("PROCESSING", "FD1", "PAID").
		WillReturnResult(sqlmock.NewResult(0, 0))
	rows := orderRows().AddRow(int64(1), "FD1", 42, []byte(`[]`),
		220.0, 5.0, 11.0, 231.0, "UPI", "CANCELLED", created, nil, nil, nil, nil, nil, nil)
	mock.ExpectQuery("FROM orders WHERE order_id").WithArgs("FD1").WillReturnRows(rows)

	if _, err := repo.UpdateStatus("FD1", StatusPaid, StatusProcessing); err != ErrInvalidTransition {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	// zero rows affected and no such order
	mock.ExpectExec("UPDATE orders SET status").
		WithArgs("PROCESSING", "FD404", "PAID").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FROM orders WHERE order_id").WithArgs("FD404").WillReturnRows(orderRows())

	if _, err := repo.UpdateStatus("FD404", StatusPaid, StatusProcessing); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresMarkPaidReplayIsNoOp(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	// the guard on status = PENDING matched nothing: the order is already PAID
	created := time.Now().UTC()
	paidAt := created.Add(time.Minute)
	mock.ExpectExec("UPDATE orders").
		WithArgs("PAID", "pay_1", "sig", sqlmock.AnyArg(), "FD1", "PENDING").
		WillReturnResult(sqlmock.NewResult(0, 0))
	rows := orderRows().AddRow(int64(1), "FD1", 42, []byte(`[]`),
		220.0, 5.0, 11.0, 231.0, "UPI", "PAID", created, "gw_1", "sig", "pay_1", "paid", paidAt, nil)
	mock.ExpectQuery("FROM orders WHERE order_id").WithArgs("FD1").WillReturnRows(rows)

	ord, applied, err := repo.MarkPaid("FD1", "pay_1", "sig", paidAt)
	if err != nil {
		t.Fatalf("MarkPaid failed: %v", err)
	}
	if applied {
		t.Fatalf("expected replay not to apply")
	}
	if ord.Status != StatusPaid {
		t.Fatalf("expected PAID, got %s", ord.Status)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
