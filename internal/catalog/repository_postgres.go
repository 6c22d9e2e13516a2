package catalog

import (
	"database/sql"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(foodID int) (Food, error) {
	var f Food
	err := r.db.QueryRow(`SELECT food_id, name, price, COALESCE(description, ''), COALESCE(category, '')
        FROM foods WHERE food_id = $1`, foodID).
		Scan(&f.ID, &f.Name, &f.Price, &f.Description, &f.Category)
	if err == sql.ErrNoRows {
		return Food{}, ErrNotFound
	}
	if err != nil {
		return Food{}, err
	}
	return f, nil
}

func (r *PostgresRepository) List() ([]Food, error) {
	rows, err := r.db.Query(`SELECT food_id, name, price, COALESCE(description, ''), COALESCE(category, '')
        FROM foods ORDER BY food_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFoods(rows)
}

// ListByIDs returns the foods whose id appears in ids, ordered like ids.
// An empty slice skips the query entirely.
func (r *PostgresRepository) ListByIDs(ids []int) ([]Food, error) {
	if len(ids) == 0 {
		return []Food{}, nil
	}
	rows, err := r.db.Query(`SELECT food_id, name, price, COALESCE(description, ''), COALESCE(category, '')
        FROM foods
        WHERE food_id = ANY($1::int[])
        ORDER BY array_position($1::int[], food_id)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFoods(rows)
}

func (r *PostgresRepository) Create(f Food) (Food, error) {
	err := r.db.QueryRow(`INSERT INTO foods (name, price, description, category)
        VALUES ($1,$2,$3,$4) RETURNING food_id`,
		f.Name, f.Price, f.Description, f.Category).Scan(&f.ID)
	if err != nil {
		return Food{}, err
	}
	return f, nil
}

func scanFoods(rows *sql.Rows) ([]Food, error) {
	foods := make([]Food, 0)
	for rows.Next() {
		var f Food
		if err := rows.Scan(&f.ID, &f.Name, &f.Price, &f.Description, &f.Category); err != nil {
			return nil, err
		}
		foods = append(foods, f)
	}
	return foods, rows.Err()
}
