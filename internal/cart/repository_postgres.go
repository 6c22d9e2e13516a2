package cart

import (
	"database/sql"
	"encoding/json"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindAllByUser(userID int) ([]Cart, error) {
	rows, err := r.db.Query(`SELECT cart_id, user_id, items FROM carts WHERE user_id = $1 ORDER BY cart_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	carts := make([]Cart, 0)
	for rows.Next() {
		var c Cart
		var itemsJSON []byte
		if err := rows.Scan(&c.ID, &c.UserID, &itemsJSON); err != nil {
			return nil, err
		}
		c.Items = make(map[int]int)
		if len(itemsJSON) > 0 {
			if err := json.Unmarshal(itemsJSON, &c.Items); err != nil {
				return nil, err
			}
		}
		carts = append(carts, c)
	}
	return carts, rows.Err()
}

func (r *PostgresRepository) Save(c Cart) (Cart, error) {
	itemsJSON, err := json.Marshal(c.Items)
	if err != nil {
		return Cart{}, err
	}
	if c.ID == 0 {
		err = r.db.QueryRow(`INSERT INTO carts (user_id, items) VALUES ($1, $2) RETURNING cart_id`,
			c.UserID, itemsJSON).Scan(&c.ID)
		if err != nil {
			return Cart{}, err
		}
		return c, nil
	}
	if _, err := r.db.Exec(`UPDATE carts SET items = $1 WHERE cart_id = $2`, itemsJSON, c.ID); err != nil {
		return Cart{}, err
	}
	return c, nil
}

func (r *PostgresRepository) Delete(cartID int) error {
	_, err := r.db.Exec(`DELETE FROM carts WHERE cart_id = $1`, cartID)
	return err
}
