// Package api описывает основной порт учета сотрудников.
package api

import (
	"context"

	"employeehub/internal/employees/domain/entities"
	"employeehub/internal/employees/ports/storage"
)

// EmployeeInput - поля записи, пришедшие от клиента. CourseSet означает, что поле course присутствовало в запросе.
type EmployeeInput struct {
	Name        string
	Email       string
	Mobile      string
	Designation string
	Gender      string
	Course      []string
	CourseSet   bool
}

// EmployeeUseCase определяет операции над записями о сотрудниках.
type EmployeeUseCase interface {
	Create(ctx context.Context, input EmployeeInput, image *storage.Image) (*entities.Employee, error)

	List(ctx context.Context, page, limit int, search string) (*entities.Page, error)

	Get(ctx context.Context, id string) (*entities.Employee, error)

	Update(ctx context.Context, id string, input EmployeeInput, image *storage.Image) (*entities.Employee, error)

	Delete(ctx context.Context, id string) error
}
