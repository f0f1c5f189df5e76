// Package sqlite implements a codec that keeps the four record collections
// in a single embedded SQLite database file. Each write replaces the rows of
// one kind inside a transaction.
package sqlite

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/logistics/pkg/types"
)

// FileName is the database file inside the data directory.
const FileName = "logistics.db"

//go:embed schema.sql
var schemaSQL string

// Codec implements types.Codec on top of SQLite.
type Codec struct {
	db   *sql.DB
	path string
}

var _ types.Codec = (*Codec)(nil)

// Open creates dataDir if needed, opens or creates the database file, and
// applies the schema.
func Open(dataDir string) (*Codec, error) {
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory %s: %w", dataDir, err)
	}

	path := filepath.Join(dataDir, FileName)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &Codec{db: db, path: path}, nil
}

// Path returns the database file path.
func (c *Codec) Path() string {
	return c.path
}

// Close implements types.Codec.
func (c *Codec) Close() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

// replace runs fill inside a transaction after clearing tables.
func (c *Codec) replace(fill func(tx *sql.Tx) error, tables ...string) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, t := range tables {
		if _, err := tx.Exec("DELETE FROM " + t); err != nil {
			return fmt.Errorf("clearing %s: %w", t, err)
		}
	}
	if err := fill(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func parseDate(table string, id int64, s string) (types.Date, error) {
	d, err := types.ParseDate(s)
	if err != nil {
		return types.Date{}, fmt.Errorf("%s row %d: %w", table, id, err)
	}
	return d, nil
}

// ReadCompanies implements types.Codec.
func (c *Codec) ReadCompanies() ([]*types.Company, error) {
	rows, err := c.db.Query("SELECT company_id, name, date FROM companies ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("query companies: %w", err)
	}
	defer rows.Close()

	companies := []*types.Company{}
	for rows.Next() {
		var (
			id         int64
			name, date string
		)
		if err := rows.Scan(&id, &name, &date); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		d, err := parseDate("companies", id, date)
		if err != nil {
			return nil, err
		}
		companies = append(companies, types.NewCompany(name, d, types.ID(id)))
	}
	return companies, rows.Err()
}

// WriteCompanies implements types.Codec.
func (c *Codec) WriteCompanies(companies []*types.Company) error {
	return c.replace(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare("INSERT INTO companies (seq, company_id, name, date) VALUES (?, ?, ?, ?)")
		if err != nil {
			return fmt.Errorf("prepare company insert: %w", err)
		}
		defer stmt.Close()
		for i, co := range companies {
			if _, err := stmt.Exec(i, int64(co.ID), co.Name, co.Date.String()); err != nil {
				return fmt.Errorf("insert company %s: %w", co.ID, err)
			}
		}
		return nil
	}, "companies")
}

// ReadProducts implements types.Codec.
func (c *Codec) ReadProducts() ([]*types.Product, error) {
	rows, err := c.db.Query("SELECT product_id, name, company_id, weight, date FROM products ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := []*types.Product{}
	for rows.Next() {
		var (
			id, company        int64
			name, weight, date string
		)
		if err := rows.Scan(&id, &name, &company, &weight, &date); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		w, err := decimal.NewFromString(weight)
		if err != nil {
			return nil, fmt.Errorf("products row %d: weight %q: %w", id, weight, err)
		}
		d, err := parseDate("products", id, date)
		if err != nil {
			return nil, err
		}
		products = append(products, types.NewProduct(name, types.CompanyRef(company), w, d, types.ID(id)))
	}
	return products, rows.Err()
}

// WriteProducts implements types.Codec.
func (c *Codec) WriteProducts(products []*types.Product) error {
	return c.replace(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT INTO products (seq, product_id, name, company_id, weight, date)
			VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare product insert: %w", err)
		}
		defer stmt.Close()
		for i, p := range products {
			_, err := stmt.Exec(i, int64(p.ID), p.Name, int64(p.Company), p.Weight.String(), p.Date.String())
			if err != nil {
				return fmt.Errorf("insert product %s: %w", p.ID, err)
			}
		}
		return nil
	}, "products")
}

// ReadUsers implements types.Codec.
func (c *Codec) ReadUsers() ([]*types.User, error) {
	rows, err := c.db.Query(`SELECT user_id, first_name, last_name, birthday, administrator, username, password
		FROM users ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := []*types.User{}
	for rows.Next() {
		var (
			id                                        int64
			first, last, birthday, username, password string
			admin                                     bool
		)
		if err := rows.Scan(&id, &first, &last, &birthday, &admin, &username, &password); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		d, err := parseDate("users", id, birthday)
		if err != nil {
			return nil, err
		}
		users = append(users, types.NewUser(first, last, d, types.ID(id), admin, username, password))
	}
	return users, rows.Err()
}

// WriteUsers implements types.Codec.
func (c *Codec) WriteUsers(users []*types.User) error {
	return c.replace(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT INTO users
			(seq, user_id, first_name, last_name, birthday, administrator, username, password)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare user insert: %w", err)
		}
		defer stmt.Close()
		for i, u := range users {
			_, err := stmt.Exec(i, int64(u.ID), u.FirstName, u.LastName, u.Birthday.String(),
				u.Administrator, u.Username, u.Password)
			if err != nil {
				return fmt.Errorf("insert user %s: %w", u.ID, err)
			}
		}
		return nil
	}, "users")
}

// ReadWarehouses implements types.Codec. A warehouse whose stock exceeds its
// capacity fails the load.
func (c *Codec) ReadWarehouses() ([]*types.Warehouse, error) {
	rows, err := c.db.Query("SELECT warehouse_id, name, capacity, date FROM warehouses ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("query warehouses: %w", err)
	}

	warehouses := []*types.Warehouse{}
	byID := make(map[types.ID]*types.Warehouse)
	for rows.Next() {
		var (
			id, capacity int64
			name, date   string
		)
		if err := rows.Scan(&id, &name, &capacity, &date); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		d, err := parseDate("warehouses", id, date)
		if err != nil {
			rows.Close()
			return nil, err
		}
		w := types.NewWarehouse(name, int(capacity), d, types.ID(id))
		warehouses = append(warehouses, w)
		byID[w.ID] = w
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	stock, err := c.db.Query("SELECT warehouse_id, product_id, quantity FROM warehouse_stock")
	if err != nil {
		return nil, fmt.Errorf("query warehouse stock: %w", err)
	}
	defer stock.Close()
	for stock.Next() {
		var wid, pid, qty int64
		if err := stock.Scan(&wid, &pid, &qty); err != nil {
			return nil, fmt.Errorf("scan warehouse stock: %w", err)
		}
		if w, ok := byID[types.ID(wid)]; ok {
			w.Stock[types.ProductRef(pid)] = int(qty)
		}
	}
	if err := stock.Err(); err != nil {
		return nil, err
	}

	for _, w := range warehouses {
		if total := w.Quantity(); total > w.Capacity {
			return nil, fmt.Errorf("warehouse %s holds %d of %d: %w",
				w.ID, total, w.Capacity, types.ErrCapacityExceeded)
		}
	}
	return warehouses, nil
}

// WriteWarehouses implements types.Codec.
func (c *Codec) WriteWarehouses(warehouses []*types.Warehouse) error {
	return c.replace(func(tx *sql.Tx) error {
		whStmt, err := tx.Prepare(`INSERT INTO warehouses (seq, warehouse_id, name, capacity, date)
			VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare warehouse insert: %w", err)
		}
		defer whStmt.Close()
		stockStmt, err := tx.Prepare(`INSERT INTO warehouse_stock (warehouse_id, product_id, quantity)
			VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare stock insert: %w", err)
		}
		defer stockStmt.Close()

		for i, w := range warehouses {
			if _, err := whStmt.Exec(i, int64(w.ID), w.Name, w.Capacity, w.Date.String()); err != nil {
				return fmt.Errorf("insert warehouse %s: %w", w.ID, err)
			}
			for _, p := range w.Products() {
				if _, err := stockStmt.Exec(int64(w.ID), int64(p), w.Stock[p]); err != nil {
					return fmt.Errorf("insert stock %s/%s: %w", w.ID, p, err)
				}
			}
		}
		return nil
	}, "warehouse_stock", "warehouses")
}
