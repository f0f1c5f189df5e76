package linefile

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"github.com/mesh-intelligence/logistics/pkg/types"
)

// writeFile truncates name and writes every line produced by emit. The
// directory is created if needed. The write is not atomic.
func (c *Codec) writeFile(name string, emit func(w *bufio.Writer)) error {
	if err := os.MkdirAll(c.dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory %s: %w", c.dataDir, err)
	}
	path := c.path(name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	w := bufio.NewWriter(f)
	emit(w)
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

func writeLines(w *bufio.Writer, lines ...string) {
	for _, l := range lines {
		w.WriteString(l)
		w.WriteByte('\n')
	}
}

func decimalID(id types.ID) string {
	return strconv.FormatInt(int64(id), 10)
}

// WriteCompanies implements types.Codec.
func (c *Codec) WriteCompanies(companies []*types.Company) error {
	return c.writeFile(CompaniesFile, func(w *bufio.Writer) {
		for _, co := range companies {
			writeLines(w, co.Name, co.Date.String(), decimalID(co.ID))
		}
	})
}

// WriteProducts implements types.Codec.
func (c *Codec) WriteProducts(products []*types.Product) error {
	return c.writeFile(ProductsFile, func(w *bufio.Writer) {
		for _, p := range products {
			writeLines(w,
				p.Name,
				decimalID(p.Company.ID()),
				p.Weight.String(),
				p.Date.String(),
				decimalID(p.ID),
			)
		}
	})
}

// WriteUsers implements types.Codec.
func (c *Codec) WriteUsers(users []*types.User) error {
	return c.writeFile(UsersFile, func(w *bufio.Writer) {
		for _, u := range users {
			writeLines(w,
				u.FirstName,
				u.LastName,
				u.Birthday.String(),
				decimalID(u.ID),
				strconv.FormatBool(u.Administrator),
				u.Username,
				u.Password,
			)
		}
	})
}

// WriteWarehouses implements types.Codec. Stock lines are written in
// ascending product id order.
func (c *Codec) WriteWarehouses(warehouses []*types.Warehouse) error {
	return c.writeFile(WarehousesFile, func(w *bufio.Writer) {
		for _, wh := range warehouses {
			products := wh.Products()
			writeLines(w,
				wh.Name,
				strconv.Itoa(wh.Capacity),
				wh.Date.String(),
				decimalID(wh.ID),
				strconv.Itoa(len(products)),
			)
			for _, p := range products {
				writeLines(w, decimalID(p.ID())+","+strconv.Itoa(wh.Stock[p]))
			}
		}
	})
}
