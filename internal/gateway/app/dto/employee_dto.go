package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"employeehub/internal/employees/domain/entities"
	"employeehub/internal/employees/ports/api"
)

// CourseList принимает course как строку или массив строк.
type CourseList []string

// UnmarshalJSON реализует json.Unmarshaler.
func (c *CourseList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		*c = CourseList{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*c = many
	return nil
}

// EmployeeRequest - JSON-тело частичного обновления. Отсутствующий course остается nil.
type EmployeeRequest struct {
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Mobile      string      `json:"mobile"`
	Designation string      `json:"designation"`
	Gender      string      `json:"gender"`
	Course      *CourseList `json:"course"`
}

// ToInput преобразует запрос во входные данные сервиса.
func (r *EmployeeRequest) ToInput() api.EmployeeInput {
	input := api.EmployeeInput{
		Name:        r.Name,
		Email:       r.Email,
		Mobile:      r.Mobile,
		Designation: r.Designation,
		Gender:      r.Gender,
	}
	if r.Course != nil {
		input.Course = *r.Course
		input.CourseSet = true
	}
	return input
}

// EmployeeResponse - представление записи для клиента.
type EmployeeResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Mobile      string    `json:"mobile"`
	Designation string    `json:"designation"`
	Gender      string    `json:"gender"`
	Course      []string  `json:"course"`
	Image       string    `json:"image"`
	CreateDate  time.Time `json:"createDate"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewEmployeeResponse строит ответ из доменной записи.
func NewEmployeeResponse(e *entities.Employee) EmployeeResponse {
	course := e.Course
	if course == nil {
		course = []string{}
	}
	return EmployeeResponse{
		ID:          e.ID,
		Name:        e.Name,
		Email:       e.Email,
		Mobile:      e.Mobile,
		Designation: e.Designation,
		Gender:      e.Gender,
		Course:      course,
		Image:       e.Image,
		CreateDate:  e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// EmployeePageResponse - страница списка сотрудников.
type EmployeePageResponse struct {
	Employees   []EmployeeResponse `json:"employees"`
	TotalPages  int                `json:"totalPages"`
	CurrentPage int                `json:"currentPage"`
	Total       int64              `json:"total"`
	Limit       int                `json:"limit"`
}

// NewEmployeePageResponse строит ответ из страницы результатов.
func NewEmployeePageResponse(page *entities.Page) EmployeePageResponse {
	employees := make([]EmployeeResponse, 0, len(page.Employees))
	for _, e := range page.Employees {
		employees = append(employees, NewEmployeeResponse(e))
	}
	return EmployeePageResponse{
		Employees:   employees,
		TotalPages:  page.TotalPages,
		CurrentPage: page.CurrentPage,
		Total:       page.Total,
		Limit:       page.Limit,
	}
}
