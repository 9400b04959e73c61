// Package postgres содержит Postgres-реализацию хранилища сотрудников.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"employeehub/internal/employees/domain/entities"
	"employeehub/internal/employees/ports/repositories"
	"employeehub/pkg/db/postgres"
	"employeehub/pkg/logger"
)

// Имена ограничений уникальности таблицы employees.
const (
	constraintEmail      = "employees_email_key"
	constraintPrimaryKey = "employees_pkey"
)

const (
	employeeColumns = `id, name, email, mobile, designation, gender, course, image, created_at, updated_at`
	searchCondition = ` WHERE name ILIKE $1 OR email ILIKE $1 OR designation ILIKE $1`

	errCtxCreating = "error creating employee"
	errCtxQuerying = "error querying employee"
	errCtxListing  = "error listing employees"
	errCtxCounting = "error counting employees"
	errCtxUpdating = "error updating employee"
	errCtxDeleting = "error deleting employee"
)

// PgxPoolInterface - подмножество pgxpool.Pool, нужное репозиторию.
type PgxPoolInterface interface {
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
}

// EmployeeRepository реализует repositories.EmployeeRepository для Postgres.
type EmployeeRepository struct {
	pool PgxPoolInterface
}

// NewEmployeeRepository создает новый экземпляр репозитория сотрудников.
func NewEmployeeRepository(pool PgxPoolInterface) repositories.EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

func repoLog(ctx context.Context, method string) *logger.Logger {
	return logger.Log(ctx).With(zap.String("repository", "employee"), zap.String("method", method))
}

// Create сохраняет запись. Нарушения уникальности транслируются в доменные ошибки.
func (r *EmployeeRepository) Create(ctx context.Context, e *entities.Employee) (*entities.Employee, error) {
	log := repoLog(ctx, "Create")

	query := `
        INSERT INTO employees (id, name, email, mobile, designation, gender, course, image, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING ` + employeeColumns

	created, err := scanEmployee(r.pool.QueryRow(ctx, query,
		e.ID, e.Name, e.Email, e.Mobile, e.Designation, e.Gender, e.Course, e.Image, e.CreatedAt, e.UpdatedAt,
	))
	if err != nil {
		if constraint, ok := postgres.UniqueViolation(err); ok {
			log.Debug(ctx, "unique constraint rejected insert", zap.String("constraint", constraint))
			return nil, duplicateEmployeeError(constraint, err)
		}
		log.Error(ctx, errCtxCreating, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCreating, err)
	}

	return created, nil
}

// FindByID находит запись по ID.
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*entities.Employee, error) {
	return r.findOne(ctx, "FindByID", `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)
}

// FindByEmail находит запись по email.
func (r *EmployeeRepository) FindByEmail(ctx context.Context, email string) (*entities.Employee, error) {
	return r.findOne(ctx, "FindByEmail", `SELECT `+employeeColumns+` FROM employees WHERE email = $1`, email)
}

func (r *EmployeeRepository) findOne(ctx context.Context, method, query string, arg any) (*entities.Employee, error) {
	log := repoLog(ctx, method)

	employee, err := scanEmployee(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "employee not found")
			return nil, entities.ErrEmployeeNotFound
		}
		log.Error(ctx, errCtxQuerying, zap.Error(err))
		return nil, fmt.Errorf("%s (%s): %w", errCtxQuerying, method, err)
	}

	return employee, nil
}

// List возвращает страницу записей и общее число совпадений. Новые записи идут первыми.
func (r *EmployeeRepository) List(ctx context.Context, q entities.ListQuery) ([]*entities.Employee, int64, error) {
	log := repoLog(ctx, "List")

	var (
		where string
		args  []any
	)
	if q.Search != "" {
		where = searchCondition
		args = append(args, LikePattern(q.Search))
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM employees`+where, args...).Scan(&total); err != nil {
		log.Error(ctx, errCtxCounting, zap.Error(err))
		return nil, 0, fmt.Errorf("%s: %w", errCtxCounting, err)
	}

	query := fmt.Sprintf(`SELECT %s FROM employees%s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		employeeColumns, where, len(args)+1, len(args)+2)
	args = append(args, q.Limit, q.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		log.Error(ctx, errCtxListing, zap.Error(err))
		return nil, 0, fmt.Errorf("%s: %w", errCtxListing, err)
	}
	defer rows.Close()

	employees := make([]*entities.Employee, 0, q.Limit)
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			log.Error(ctx, errCtxListing, zap.Error(err))
			return nil, 0, fmt.Errorf("%s: %w", errCtxListing, err)
		}
		employees = append(employees, employee)
	}
	if err := rows.Err(); err != nil {
		log.Error(ctx, errCtxListing, zap.Error(err))
		return nil, 0, fmt.Errorf("%s: %w", errCtxListing, err)
	}

	log.Debug(ctx, "employees listed", zap.Int("count", len(employees)), zap.Int64("total", total))
	return employees, total, nil
}

// Update перезаписывает изменяемые поля записи.
func (r *EmployeeRepository) Update(ctx context.Context, e *entities.Employee) (*entities.Employee, error) {
	log := repoLog(ctx, "Update").With(zap.String("employeeID", e.ID))

	query := `
        UPDATE employees
        SET name = $2, email = $3, mobile = $4, designation = $5, gender = $6, course = $7, image = $8, updated_at = $9
        WHERE id = $1
        RETURNING ` + employeeColumns

	updated, err := scanEmployee(r.pool.QueryRow(ctx, query,
		e.ID, e.Name, e.Email, e.Mobile, e.Designation, e.Gender, e.Course, e.Image, e.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "employee disappeared before update")
			return nil, entities.ErrEmployeeNotFound
		}
		if constraint, ok := postgres.UniqueViolation(err); ok {
			log.Debug(ctx, "unique constraint rejected update", zap.String("constraint", constraint))
			return nil, duplicateEmployeeError(constraint, err)
		}
		log.Error(ctx, errCtxUpdating, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxUpdating, err)
	}

	return updated, nil
}

// Delete удаляет запись по ID.
func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	log := repoLog(ctx, "Delete").With(zap.String("employeeID", id))

	tag, err := r.pool.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		log.Error(ctx, errCtxDeleting, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxDeleting, err)
	}

	if tag.RowsAffected() == 0 {
		return entities.ErrEmployeeNotFound
	}

	return nil
}

// LikePattern строит шаблон ILIKE для поиска подстроки. Метасимволы LIKE экранируются.
func LikePattern(term string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
	return "%" + escaped + "%"
}

func scanEmployee(row pgx.Row) (*entities.Employee, error) {
	var e entities.Employee
	if err := row.Scan(
		&e.ID,
		&e.Name,
		&e.Email,
		&e.Mobile,
		&e.Designation,
		&e.Gender,
		&e.Course,
		&e.Image,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &e, nil
}

func duplicateEmployeeError(constraint string, cause error) error {
	switch constraint {
	case constraintEmail:
		return fmt.Errorf("%w: %w", entities.ErrEmailTaken, cause)
	case constraintPrimaryKey:
		return fmt.Errorf("%w: %w", entities.ErrEmployeeIDTaken, cause)
	default:
		return fmt.Errorf("unexpected unique constraint %q: %w", constraint, cause)
	}
}
