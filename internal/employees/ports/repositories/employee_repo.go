// Package repositories описывает хранилище записей о сотрудниках.
package repositories

import (
	"context"

	"employeehub/internal/employees/domain/entities"
)

// EmployeeRepository определяет операции над записями о сотрудниках.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *entities.Employee) (*entities.Employee, error)

	FindByID(ctx context.Context, id string) (*entities.Employee, error)

	FindByEmail(ctx context.Context, email string) (*entities.Employee, error)

	List(ctx context.Context, query entities.ListQuery) ([]*entities.Employee, int64, error)

	Update(ctx context.Context, employee *entities.Employee) (*entities.Employee, error)

	Delete(ctx context.Context, id string) error
}
