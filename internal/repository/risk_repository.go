package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/godilite/dealer-risk/internal/repository/models"
	"github.com/godilite/dealer-risk/internal/risk"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("record not found")

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type Option func(*RiskRepository)

// WithDialect sets the SQL dialect. The default is sqlite.
func WithDialect(d Dialect) Option {
	return func(r *RiskRepository) { r.dialect = d }
}

// WithIDGenerator overrides how IDs are minted for records inserted without one.
func WithIDGenerator(fn func() string) Option {
	return func(r *RiskRepository) { r.newID = fn }
}

// WithEngine sets the engine whose rules imported visits must satisfy.
func WithEngine(e *risk.Engine) Option {
	return func(r *RiskRepository) { r.engine = e }
}

type RiskRepository struct {
	db      *sql.DB
	dialect Dialect
	newID   func() string
	engine  *risk.Engine
}

func NewRiskRepository(db *sql.DB, opts ...Option) *RiskRepository {
	r := &RiskRepository{
		db:      db,
		dialect: DialectSQLite,
		newID:   uuid.NewString,
		engine:  risk.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

const visitColumns = `id, customer_id, dealership_id, visit_date, service_delay_days, price,
	feedback_provided, stars, repeat_issues, was_issue_resolved`

func scanVisit(sc interface{ Scan(dest ...any) error }) (risk.Visit, error) {
	var row models.Visit
	if err := sc.Scan(
		&row.ID, &row.CustomerID, &row.DealershipID, &row.VisitDate, &row.ServiceDelayInDays, &row.Price,
		&row.FeedbackProvided, &row.Stars, &row.RepeatIssues, &row.WasIssueResolved,
	); err != nil {
		return risk.Visit{}, err
	}
	return toRiskVisit(row)
}

// GetVisit fetches a single visit by ID.
func (r *RiskRepository) GetVisit(ctx context.Context, id string) (risk.Visit, error) {
	query := r.dialect.rebind(`SELECT ` + visitColumns + ` FROM visits WHERE id = ?`)

	v, err := scanVisit(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return risk.Visit{}, fmt.Errorf("visit %q: %w", id, ErrNotFound)
		}
		return risk.Visit{}, fmt.Errorf("query GetVisit: %w", err)
	}
	return v, nil
}

// ListVisitsByCustomer returns a customer's visits, oldest first.
func (r *RiskRepository) ListVisitsByCustomer(ctx context.Context, customerID string) ([]risk.Visit, error) {
	query := r.dialect.rebind(`SELECT ` + visitColumns + ` FROM visits WHERE customer_id = ? ORDER BY visit_date, id`)
	return r.listVisits(ctx, "ListVisitsByCustomer", query, customerID)
}

// ListVisitsByDealership returns every visit recorded at a dealership, oldest first.
func (r *RiskRepository) ListVisitsByDealership(ctx context.Context, dealershipID string) ([]risk.Visit, error) {
	query := r.dialect.rebind(`SELECT ` + visitColumns + ` FROM visits WHERE dealership_id = ? ORDER BY visit_date, id`)
	return r.listVisits(ctx, "ListVisitsByDealership", query, dealershipID)
}

func (r *RiskRepository) listVisits(ctx context.Context, op, query string, args ...any) ([]risk.Visit, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", op, err)
	}
	defer rows.Close()

	visits := []risk.Visit{}
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s row: %w", op, err)
		}
		visits = append(visits, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", op, err)
	}
	return visits, nil
}

// GetCustomer fetches a customer by ID.
func (r *RiskRepository) GetCustomer(ctx context.Context, id string) (risk.Customer, error) {
	query := r.dialect.rebind(`
		SELECT id, dealership_id, name, car_model, car_year, car_registration
		FROM customers WHERE id = ?`)

	var row models.Customer
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&row.ID, &row.DealershipID, &row.Name, &row.CarModel, &row.CarYear, &row.CarRegistration)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return risk.Customer{}, fmt.Errorf("customer %q: %w", id, ErrNotFound)
		}
		return risk.Customer{}, fmt.Errorf("query GetCustomer: %w", err)
	}
	return toRiskCustomer(row), nil
}

// ListCustomersByDealership returns a dealership's customers ordered by name.
func (r *RiskRepository) ListCustomersByDealership(ctx context.Context, dealershipID string) ([]risk.Customer, error) {
	query := r.dialect.rebind(`
		SELECT id, dealership_id, name, car_model, car_year, car_registration
		FROM customers WHERE dealership_id = ? ORDER BY name, id`)

	rows, err := r.db.QueryContext(ctx, query, dealershipID)
	if err != nil {
		return nil, fmt.Errorf("query ListCustomersByDealership: %w", err)
	}
	defer rows.Close()

	customers := []risk.Customer{}
	for rows.Next() {
		var row models.Customer
		if err := rows.Scan(&row.ID, &row.DealershipID, &row.Name, &row.CarModel, &row.CarYear, &row.CarRegistration); err != nil {
			return nil, fmt.Errorf("scan ListCustomersByDealership row: %w", err)
		}
		customers = append(customers, toRiskCustomer(row))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ListCustomersByDealership: %w", err)
	}
	return customers, nil
}

// GetDealership fetches a dealership by ID.
func (r *RiskRepository) GetDealership(ctx context.Context, id string) (risk.Dealership, error) {
	query := r.dialect.rebind(`SELECT id, company, unique_name, address FROM dealerships WHERE id = ?`)

	var row models.Dealership
	err := r.db.QueryRowContext(ctx, query, id).Scan(&row.ID, &row.Company, &row.UniqueName, &row.Address)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return risk.Dealership{}, fmt.Errorf("dealership %q: %w", id, ErrNotFound)
		}
		return risk.Dealership{}, fmt.Errorf("query GetDealership: %w", err)
	}
	return toRiskDealership(row), nil
}

// InsertDealership stores d, minting an ID when it has none.
func (r *RiskRepository) InsertDealership(ctx context.Context, d risk.Dealership) (risk.Dealership, error) {
	return r.insertDealership(ctx, r.db, d)
}

// InsertCustomer stores c, minting an ID when it has none.
func (r *RiskRepository) InsertCustomer(ctx context.Context, c risk.Customer) (risk.Customer, error) {
	return r.insertCustomer(ctx, r.db, c)
}

// InsertVisit stores v, minting an ID when it has none.
func (r *RiskRepository) InsertVisit(ctx context.Context, v risk.Visit) (risk.Visit, error) {
	return r.insertVisit(ctx, r.db, v)
}

// Batch is a set of records imported together.
type Batch struct {
	Dealerships []risk.Dealership `json:"dealerships"`
	Customers   []risk.Customer   `json:"customers"`
	Visits      []risk.Visit      `json:"visits"`
}

// Import inserts a batch in one transaction, parents before children.
// A batch holding any visit the engine would refuse to score is rejected
// whole with risk.ErrInvalidVisit before anything is written.
func (r *RiskRepository) Import(ctx context.Context, b Batch) (err error) {
	for i, v := range b.Visits {
		if err := r.engine.ValidateVisit(v); err != nil {
			return fmt.Errorf("import visit #%d: %w", i+1, err)
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin Import: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, d := range b.Dealerships {
		if _, err = r.insertDealership(ctx, tx, d); err != nil {
			return err
		}
	}
	for _, c := range b.Customers {
		if _, err = r.insertCustomer(ctx, tx, c); err != nil {
			return err
		}
	}
	for _, v := range b.Visits {
		if _, err = r.insertVisit(ctx, tx, v); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit Import: %w", err)
	}
	return nil
}

func (r *RiskRepository) insertDealership(ctx context.Context, ex execer, d risk.Dealership) (risk.Dealership, error) {
	if d.ID == "" {
		d.ID = r.newID()
	}
	query := r.dialect.rebind(`INSERT INTO dealerships (id, company, unique_name, address) VALUES (?, ?, ?, ?)`)
	if _, err := ex.ExecContext(ctx, query, d.ID, d.Company, d.UniqueName, d.Address); err != nil {
		return risk.Dealership{}, fmt.Errorf("insert dealership %q: %w", d.ID, err)
	}
	return d, nil
}

func (r *RiskRepository) insertCustomer(ctx context.Context, ex execer, c risk.Customer) (risk.Customer, error) {
	if c.ID == "" {
		c.ID = r.newID()
	}
	query := r.dialect.rebind(`
		INSERT INTO customers (id, dealership_id, name, car_model, car_year, car_registration)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if _, err := ex.ExecContext(ctx, query,
		c.ID, c.DealershipID, c.Name, c.Car.Model, c.Car.Year, c.Car.RegistrationNumber,
	); err != nil {
		return risk.Customer{}, fmt.Errorf("insert customer %q: %w", c.ID, err)
	}
	return c, nil
}

func (r *RiskRepository) insertVisit(ctx context.Context, ex execer, v risk.Visit) (risk.Visit, error) {
	if v.ID == "" {
		v.ID = r.newID()
	}
	row := fromRiskVisit(v)
	query := r.dialect.rebind(`INSERT INTO visits (` + visitColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if _, err := ex.ExecContext(ctx, query,
		row.ID, row.CustomerID, row.DealershipID, row.VisitDate, row.ServiceDelayInDays, row.Price,
		row.FeedbackProvided, row.Stars, row.RepeatIssues, row.WasIssueResolved,
	); err != nil {
		return risk.Visit{}, fmt.Errorf("insert visit %q: %w", v.ID, err)
	}
	return v, nil
}
