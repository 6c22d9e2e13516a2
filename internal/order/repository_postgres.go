package order

import (
	"database/sql"
	"encoding/json"
	"time"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const orderColumns = `id, order_id, customer_id, items, sub_total, tax_rate, tax_amount, grand_total,
        payment_mode, status, created_at, gateway_order_id, gateway_signature, payment_id, payment_status, paid_at, billing`

func (r *PostgresRepository) Create(ord Order) (Order, error) {
	linesJSON, err := json.Marshal(ord.Lines)
	if err != nil {
		return Order{}, err
	}
	var billingJSON []byte
	if ord.Billing != nil {
		billingJSON, err = json.Marshal(ord.Billing)
		if err != nil {
			return Order{}, err
		}
	}

	err = r.db.QueryRow(`INSERT INTO orders
        (order_id, customer_id, items, sub_total, tax_rate, tax_amount, grand_total, payment_mode, status, created_at, billing)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id`,
		ord.OrderID, ord.CustomerID, linesJSON, ord.SubTotal, ord.TaxRate, ord.TaxAmount, ord.GrandTotal,
		ord.PaymentMode, string(ord.Status), ord.CreatedAt, nullableJSON(billingJSON)).Scan(&ord.ID)
	if err != nil {
		return Order{}, err
	}
	return ord, nil
}

func (r *PostgresRepository) GetByOrderID(orderID string) (Order, error) {
	row := r.db.QueryRow(`SELECT `+orderColumns+` FROM orders WHERE order_id = $1`, orderID)
	return scanOrder(row)
}

func (r *PostgresRepository) GetByGatewayOrderID(gatewayOrderID string) (Order, error) {
	if gatewayOrderID == "" {
		return Order{}, ErrNotFound
	}
	row := r.db.QueryRow(`SELECT `+orderColumns+` FROM orders WHERE gateway_order_id = $1`, gatewayOrderID)
	return scanOrder(row)
}

func (r *PostgresRepository) ListByCustomer(customerID int) ([]Order, error) {
	rows, err := r.db.Query(`SELECT `+orderColumns+` FROM orders WHERE customer_id = $1 ORDER BY created_at DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *PostgresRepository) ListByCustomerAndStatus(customerID int, st Status) ([]Order, error) {
	rows, err := r.db.Query(`SELECT `+orderColumns+` FROM orders WHERE customer_id = $1 AND status = $2 ORDER BY created_at DESC`,
		customerID, string(st))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *PostgresRepository) ListRecent(limit int) ([]Order, error) {
	rows, err := r.db.Query(`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *PostgresRepository) ListByStatus(st Status) ([]Order, error) {
	rows, err := r.db.Query(`SELECT `+orderColumns+` FROM orders WHERE status = $1 ORDER BY created_at DESC`, string(st))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *PostgresRepository) SetGatewayOrder(orderID, gatewayOrderID, paymentStatus string) error {
	res, err := r.db.Exec(`UPDATE orders SET gateway_order_id = $1, payment_status = $2 WHERE order_id = $3`,
		gatewayOrderID, paymentStatus, orderID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateStatus is a conditional write: the row only changes when its status
// still equals `from`, so a concurrent transition cannot be overwritten.
func (r *PostgresRepository) UpdateStatus(orderID string, from, to Status) (Order, error) {
	res, err := r.db.Exec(`UPDATE orders SET status = $1 WHERE order_id = $2 AND status = $3`,
		string(to), orderID, string(from))
	if err != nil {
		return Order{}, err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		// either the order is gone or the status moved under us
		if _, err := r.GetByOrderID(orderID); err != nil {
			return Order{}, ErrNotFound
		}
		return Order{}, ErrInvalidTransition
	}
	return r.GetByOrderID(orderID)
}

// MarkPaid enforces the idempotency guard at the data layer: the UPDATE is
// gated on status = PENDING, so replays and races resolve to zero affected
// rows instead of double-applying.
func (r *PostgresRepository) MarkPaid(orderID, paymentID, signature string, paidAt time.Time) (Order, bool, error) {
	res, err := r.db.Exec(`UPDATE orders
        SET status = $1, payment_id = $2, gateway_signature = $3, payment_status = 'paid', paid_at = $4
        WHERE order_id = $5 AND status = $6`,
		string(StatusPaid), paymentID, signature, paidAt, orderID, string(StatusPending))
	if err != nil {
		return Order{}, false, err
	}
	n, _ := res.RowsAffected()
	ord, getErr := r.GetByOrderID(orderID)
	if getErr != nil {
		return Order{}, false, getErr
	}
	return ord, n > 0, nil
}

func (r *PostgresRepository) Delete(orderID string) error {
	res, err := r.db.Exec(`DELETE FROM orders WHERE order_id = $1`, orderID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (Order, error) {
	var ord Order
	var linesJSON []byte
	var billingJSON []byte
	var status string
	var gatewayOrderID, gatewaySignature, paymentID, paymentStatus sql.NullString
	var paidAt sql.NullTime

	err := row.Scan(&ord.ID, &ord.OrderID, &ord.CustomerID, &linesJSON,
		&ord.SubTotal, &ord.TaxRate, &ord.TaxAmount, &ord.GrandTotal,
		&ord.PaymentMode, &status, &ord.CreatedAt,
		&gatewayOrderID, &gatewaySignature, &paymentID, &paymentStatus, &paidAt, &billingJSON)
	if err == sql.ErrNoRows {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}

	ord.Status = Status(status)
	if err := json.Unmarshal(linesJSON, &ord.Lines); err != nil {
		return Order{}, err
	}
	if len(billingJSON) > 0 {
		ord.Billing = new(BillingDetails)
		if err := json.Unmarshal(billingJSON, ord.Billing); err != nil {
			return Order{}, err
		}
	}
	ord.GatewayOrderID = gatewayOrderID.String
	ord.GatewaySignature = gatewaySignature.String
	ord.PaymentID = paymentID.String
	ord.PaymentStatus = paymentStatus.String
	if paidAt.Valid {
		t := paidAt.Time
		ord.PaidAt = &t
	}
	return ord, nil
}

func scanOrders(rows *sql.Rows) ([]Order, error) {
	orders := make([]Order, 0)
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, ord)
	}
	return orders, rows.Err()
}

func nullableJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
