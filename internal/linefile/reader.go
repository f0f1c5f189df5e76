// This file implements collection loading. A missing file is an empty
// collection; a truncated trailing record is dropped; any field that fails to
// parse aborts the load.
package linefile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/logistics/pkg/types"
)

// lineReader yields trimmed lines and tracks the current line number for
// error messages. Lines have no length limit.
type lineReader struct {
	name string
	br   *bufio.Reader
	line int
	err  error
}

// next returns the next trimmed line, or false at end of file or on a read
// error. A final line without a newline is still returned.
func (r *lineReader) next() (string, bool) {
	if r.err != nil {
		return "", false
	}
	s, err := r.br.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			r.err = err
			return "", false
		}
		if s == "" {
			return "", false
		}
	}
	r.line++
	return strings.TrimSpace(s), true
}

// take reads n lines. It returns false if the file ends first.
func (r *lineReader) take(n int) ([]string, bool) {
	fields := make([]string, 0, n)
	for range n {
		s, ok := r.next()
		if !ok {
			return nil, false
		}
		fields = append(fields, s)
	}
	return fields, true
}

// fail wraps err with the file name and the line it was read from. offset
// counts back from the current line.
func (r *lineReader) fail(offset int, what, value string, err error) error {
	return fmt.Errorf("%s line %d: %s %q: %w", r.name, r.line-offset, what, value, err)
}

// readFile opens name and hands a lineReader to read. A missing file yields
// no call to read.
func (c *Codec) readFile(name string, read func(r *lineReader) error) error {
	path := c.path(name)
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s: %w", path, ErrIsDirectory)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := &lineReader{name: name, br: bufio.NewReader(f)}
	if err := read(r); err != nil {
		return err
	}
	if r.err != nil {
		return fmt.Errorf("reading %s: %w", path, r.err)
	}
	return nil
}

func parseID(s string) (types.ID, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedLine, err)
	}
	return types.ID(v), nil
}

func parseInt(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedLine, err)
	}
	return v, nil
}

func parseBool(s string) (bool, error) {
	switch {
	case strings.EqualFold(s, "true"):
		return true, nil
	case strings.EqualFold(s, "false"):
		return false, nil
	default:
		return false, fmt.Errorf("%w: not true or false", ErrMalformedLine)
	}
}

// ReadCompanies implements types.Codec.
func (c *Codec) ReadCompanies() ([]*types.Company, error) {
	companies := []*types.Company{}
	err := c.readFile(CompaniesFile, func(r *lineReader) error {
		for {
			f, ok := r.take(companyLines)
			if !ok {
				return nil
			}
			date, err := types.ParseDate(f[1])
			if err != nil {
				return r.fail(1, "company date", f[1], err)
			}
			id, err := parseID(f[2])
			if err != nil {
				return r.fail(0, "company id", f[2], err)
			}
			companies = append(companies, types.NewCompany(f[0], date, id))
		}
	})
	if err != nil {
		return nil, err
	}
	return companies, nil
}

// ReadProducts implements types.Codec.
func (c *Codec) ReadProducts() ([]*types.Product, error) {
	products := []*types.Product{}
	err := c.readFile(ProductsFile, func(r *lineReader) error {
		for {
			f, ok := r.take(productLines)
			if !ok {
				return nil
			}
			company, err := parseID(f[1])
			if err != nil {
				return r.fail(3, "product company", f[1], err)
			}
			weight, err := decimal.NewFromString(f[2])
			if err != nil {
				return r.fail(2, "product weight", f[2], fmt.Errorf("%w: %v", ErrMalformedLine, err))
			}
			date, err := types.ParseDate(f[3])
			if err != nil {
				return r.fail(1, "product date", f[3], err)
			}
			id, err := parseID(f[4])
			if err != nil {
				return r.fail(0, "product id", f[4], err)
			}
			products = append(products, types.NewProduct(f[0], types.CompanyRef(company), weight, date, id))
		}
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

// ReadUsers implements types.Codec.
func (c *Codec) ReadUsers() ([]*types.User, error) {
	users := []*types.User{}
	err := c.readFile(UsersFile, func(r *lineReader) error {
		for {
			f, ok := r.take(userLines)
			if !ok {
				return nil
			}
			birthday, err := types.ParseDate(f[2])
			if err != nil {
				return r.fail(4, "user birthday", f[2], err)
			}
			id, err := parseID(f[3])
			if err != nil {
				return r.fail(3, "user id", f[3], err)
			}
			admin, err := parseBool(f[4])
			if err != nil {
				return r.fail(2, "user administrator", f[4], err)
			}
			users = append(users, types.NewUser(f[0], f[1], birthday, id, admin, f[5], f[6]))
		}
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// ReadWarehouses implements types.Codec. Stock lines are productId,quantity
// pairs; a warehouse whose stock exceeds its capacity fails the load.
func (c *Codec) ReadWarehouses() ([]*types.Warehouse, error) {
	warehouses := []*types.Warehouse{}
	err := c.readFile(WarehousesFile, func(r *lineReader) error {
		for {
			f, ok := r.take(warehouseHeaderLines)
			if !ok {
				return nil
			}
			capacity, err := parseInt(f[1])
			if err != nil {
				return r.fail(3, "warehouse capacity", f[1], err)
			}
			date, err := types.ParseDate(f[2])
			if err != nil {
				return r.fail(2, "warehouse date", f[2], err)
			}
			id, err := parseID(f[3])
			if err != nil {
				return r.fail(1, "warehouse id", f[3], err)
			}
			count, err := parseInt(f[4])
			if err != nil || count < 0 {
				if err == nil {
					err = fmt.Errorf("%w: negative product count", ErrMalformedLine)
				}
				return r.fail(0, "warehouse product count", f[4], err)
			}

			w := types.NewWarehouse(f[0], capacity, date, id)
			for range count {
				line, ok := r.next()
				if !ok {
					return nil
				}
				product, quantity, err := parseStockLine(line)
				if err != nil {
					return r.fail(0, "warehouse stock", line, err)
				}
				w.Stock[product] = quantity
			}
			if total := w.Quantity(); total > w.Capacity {
				return fmt.Errorf("%s: warehouse %s holds %d of %d: %w",
					WarehousesFile, w.ID, total, w.Capacity, types.ErrCapacityExceeded)
			}
			warehouses = append(warehouses, w)
		}
	})
	if err != nil {
		return nil, err
	}
	return warehouses, nil
}

func parseStockLine(line string) (types.ProductRef, int, error) {
	pid, qty, ok := strings.Cut(line, ",")
	if !ok {
		return 0, 0, fmt.Errorf("%w: want productId,quantity", ErrMalformedLine)
	}
	id, err := parseID(strings.TrimSpace(pid))
	if err != nil {
		return 0, 0, err
	}
	quantity, err := parseInt(strings.TrimSpace(qty))
	if err != nil {
		return 0, 0, err
	}
	if quantity < 0 {
		return 0, 0, fmt.Errorf("%w: negative quantity", ErrMalformedLine)
	}
	return types.ProductRef(id), quantity, nil
}
