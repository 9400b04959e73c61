// Package entities содержит доменные сущности учета сотрудников.
package entities

import (
	"errors"
	"time"
)

// Ошибки хранилища сотрудников.
var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrEmailTaken       = errors.New("email already exists")
	ErrEmployeeIDTaken  = errors.New("employee id already exists")
)

// Поля сотрудника, которые могут конфликтовать.
const (
	FieldEmail = "email"
	FieldID    = "id"
)

// Допустимые должности.
const (
	DesignationHR      = "HR"
	DesignationManager = "Manager"
	DesignationSales   = "Sales"
)

// Допустимые значения пола.
const (
	GenderMale   = "M"
	GenderFemale = "F"
)

// Допустимые курсы.
const (
	CourseMCA = "MCA"
	CourseBCA = "BCA"
	CourseBSC = "BSC"
)

var (
	designations = map[string]struct{}{DesignationHR: {}, DesignationManager: {}, DesignationSales: {}}
	genders      = map[string]struct{}{GenderMale: {}, GenderFemale: {}}
	courses      = map[string]struct{}{CourseMCA: {}, CourseBCA: {}, CourseBSC: {}}
)

// ValidDesignation сообщает, входит ли значение в перечень должностей.
func ValidDesignation(v string) bool {
	_, ok := designations[v]
	return ok
}

// ValidGender сообщает, входит ли значение в перечень полов.
func ValidGender(v string) bool {
	_, ok := genders[v]
	return ok
}

// ValidCourse сообщает, входит ли значение в перечень курсов.
func ValidCourse(v string) bool {
	_, ok := courses[v]
	return ok
}

// Employee - запись о сотруднике.
type Employee struct {
	ID          string
	Name        string
	Email       string
	Mobile      string
	Designation string
	Gender      string
	Course      []string
	Image       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Page - страница результатов поиска сотрудников. Limit - фактически примененный размер страницы.
type Page struct {
	Employees   []*Employee
	Total       int64
	TotalPages  int
	CurrentPage int
	Limit       int
}

// ListQuery - параметры постраничного поиска.
type ListQuery struct {
	Search string
	Limit  int
	Offset int
}
