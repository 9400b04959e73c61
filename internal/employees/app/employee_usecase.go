// Package app содержит сценарии учета сотрудников.
package app

import (
	"context"
	"errors"
	"math"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"employeehub/internal/apperr"
	"employeehub/internal/employees/domain/entities"
	"employeehub/internal/employees/ports/api"
	"employeehub/internal/employees/ports/repositories"
	ports "employeehub/internal/employees/ports/storage"
	"employeehub/pkg/logger"
)

// Сообщения, которые видит клиент.
const (
	MsgAllFieldsRequired      = "All fields are required"
	MsgInvalidEmail           = "Invalid email format"
	MsgInvalidMobile          = "Invalid mobile number"
	MsgNameTooShort           = "Name must be at least 2 characters"
	MsgInvalidDesignation     = "Invalid designation"
	MsgInvalidGender          = "Invalid gender"
	MsgInvalidCourse          = "Invalid course"
	MsgCourseRequired         = "At least one course must be selected"
	MsgEmailExists            = "Email already exists"
	MsgEmployeeIDExists       = "Employee id already exists"
	MsgUnsupportedImage       = "Only JPG/PNG files are allowed"
	MsgEmployeeNotFound       = "Employee not found"
	MsgErrorCreatingEmployee  = "Error creating employee"
	MsgErrorFetchingEmployees = "Error fetching employees"
	MsgErrorFetchingEmployee  = "Error fetching employee"
	MsgErrorUpdatingEmployee  = "Error updating employee"
	MsgErrorDeletingEmployee  = "Error deleting employee"
)

// Параметры постраничного вывода.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	minNameLen   = 2
)

const (
	methodCreate = "Create"
	methodList   = "List"
	methodGet    = "Get"
	methodUpdate = "Update"
	methodDelete = "Delete"

	msgEmployeeCreated   = "employee created"
	msgEmployeeUpdated   = "employee updated"
	msgEmployeeDeleted   = "employee deleted"
	msgEmployeeRejected  = "employee input rejected"
	msgErrSaveImage      = "failed to store image"
	msgErrCleanupImage   = "failed to remove image"
	msgErrRepository     = "employee repository failure"
	msgOrphanImageRemove = "removing image of failed write"
)

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	mobilePattern = regexp.MustCompile(`^\d{10}$`)
)

// EmployeeUseCaseImpl реализует интерфейс EmployeeUseCase.
type EmployeeUseCaseImpl struct {
	repo   repositories.EmployeeRepository
	images ports.ImageStorage
	now    func() time.Time
}

// NewEmployeeUseCase создает новый экземпляр сервиса сотрудников.
func NewEmployeeUseCase(repo repositories.EmployeeRepository, images ports.ImageStorage) api.EmployeeUseCase {
	return &EmployeeUseCaseImpl{
		repo:   repo,
		images: images,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

type normalizedInput struct {
	name        string
	email       string
	mobile      string
	designation string
	gender      string
	course      []string
	courseSet   bool
}

func normalize(in api.EmployeeInput) normalizedInput {
	return normalizedInput{
		name:        strings.TrimSpace(in.Name),
		email:       strings.ToLower(strings.TrimSpace(in.Email)),
		mobile:      strings.TrimSpace(in.Mobile),
		designation: strings.TrimSpace(in.Designation),
		gender:      strings.TrimSpace(in.Gender),
		course:      NormalizeCourses(in.Course),
		courseSet:   in.CourseSet || len(in.Course) > 0,
	}
}

// NormalizeCourses убирает пробелы, пустые значения и повторы, сохраняя порядок первого появления.
func NormalizeCourses(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// validateFields проверяет непустые поля. Пустые значения пропускаются: их обязательность решает вызывающий.
func validateFields(in normalizedInput) error {
	if in.email != "" && !emailPattern.MatchString(in.email) {
		return apperr.Validation(MsgInvalidEmail)
	}
	if in.mobile != "" && !mobilePattern.MatchString(in.mobile) {
		return apperr.Validation(MsgInvalidMobile)
	}
	if in.name != "" && utf8.RuneCountInString(in.name) < minNameLen {
		return apperr.Validation(MsgNameTooShort)
	}
	if in.designation != "" && !entities.ValidDesignation(in.designation) {
		return apperr.Validation(MsgInvalidDesignation)
	}
	if in.gender != "" && !entities.ValidGender(in.gender) {
		return apperr.Validation(MsgInvalidGender)
	}
	if in.courseSet {
		for _, c := range in.course {
			if !entities.ValidCourse(c) {
				return apperr.Validation(MsgInvalidCourse)
			}
		}
		if len(in.course) == 0 {
			return apperr.Validation(MsgCourseRequired)
		}
	}
	return nil
}

func validateImage(image *ports.Image) error {
	if image != nil && !ports.AllowedContentType(image.ContentType) {
		return apperr.Validation(MsgUnsupportedImage)
	}
	return nil
}

// Create проверяет ввод, сохраняет изображение и создает запись.
func (u *EmployeeUseCaseImpl) Create(ctx context.Context, input api.EmployeeInput, image *ports.Image) (*entities.Employee, error) {
	in := normalize(input)
	log := logger.Log(ctx).With(zap.String("method", methodCreate), zap.String("email", in.email))

	if in.name == "" || in.email == "" || in.mobile == "" || in.designation == "" || in.gender == "" ||
		!in.courseSet || image == nil {
		log.Debug(ctx, msgEmployeeRejected, zap.String("reason", MsgAllFieldsRequired))
		return nil, apperr.Validation(MsgAllFieldsRequired)
	}

	if err := validateFields(in); err != nil {
		log.Debug(ctx, msgEmployeeRejected, zap.Error(err))
		return nil, err
	}

	if err := u.ensureEmailFree(ctx, log, in.email, "", MsgErrorCreatingEmployee); err != nil {
		return nil, err
	}

	if err := validateImage(image); err != nil {
		log.Debug(ctx, msgEmployeeRejected, zap.String("contentType", image.ContentType))
		return nil, err
	}

	ref, err := u.images.Save(ctx, image)
	if err != nil {
		log.Error(ctx, msgErrSaveImage, zap.Error(err))
		return nil, apperr.Internal(MsgErrorCreatingEmployee, err)
	}

	now := u.now()
	created, err := u.repo.Create(ctx, &entities.Employee{
		ID:          uuid.NewString(),
		Name:        in.name,
		Email:       in.email,
		Mobile:      in.mobile,
		Designation: in.designation,
		Gender:      in.gender,
		Course:      in.course,
		Image:       ref,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		log.Debug(ctx, msgOrphanImageRemove, zap.String("ref", ref))
		u.removeImage(ctx, log, ref)
		return nil, translateWriteError(ctx, log, err, MsgErrorCreatingEmployee)
	}

	log.Info(ctx, msgEmployeeCreated, zap.String("employeeID", created.ID))
	return created, nil
}

// List возвращает страницу записей. Некорректные page и limit заменяются значениями по умолчанию,
// limit ограничен MaxLimit, page - так, чтобы смещение помещалось в int.
func (u *EmployeeUseCaseImpl) List(ctx context.Context, page, limit int, search string) (*entities.Page, error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if maxPage := math.MaxInt / limit; page > maxPage {
		page = maxPage
	}
	search = strings.TrimSpace(search)

	log := logger.Log(ctx).With(zap.String("method", methodList), zap.Int("page", page), zap.Int("limit", limit))

	employees, total, err := u.repo.List(ctx, entities.ListQuery{
		Search: search,
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		log.Error(ctx, msgErrRepository, zap.Error(err))
		return nil, apperr.Internal(MsgErrorFetchingEmployees, err)
	}

	return &entities.Page{
		Employees:   employees,
		Total:       total,
		TotalPages:  int((total + int64(limit) - 1) / int64(limit)),
		CurrentPage: page,
		Limit:       limit,
	}, nil
}

// Get возвращает запись по ID.
func (u *EmployeeUseCaseImpl) Get(ctx context.Context, id string) (*entities.Employee, error) {
	log := logger.Log(ctx).With(zap.String("method", methodGet), zap.String("employeeID", id))
	return u.load(ctx, log, id, MsgErrorFetchingEmployee)
}

func (u *EmployeeUseCaseImpl) load(ctx context.Context, log *logger.Logger, id, internalMsg string) (*entities.Employee, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.NotFound(MsgEmployeeNotFound)
	}

	employee, err := u.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, entities.ErrEmployeeNotFound) {
			return nil, apperr.NotFound(MsgEmployeeNotFound)
		}
		log.Error(ctx, msgErrRepository, zap.Error(err))
		return nil, apperr.Internal(internalMsg, err)
	}
	return employee, nil
}

// Update применяет к записи непустые поля и, при наличии, новое изображение.
func (u *EmployeeUseCaseImpl) Update(
	ctx context.Context,
	id string,
	input api.EmployeeInput,
	image *ports.Image,
) (*entities.Employee, error) {
	log := logger.Log(ctx).With(zap.String("method", methodUpdate), zap.String("employeeID", id))

	current, err := u.load(ctx, log, id, MsgErrorUpdatingEmployee)
	if err != nil {
		return nil, err
	}

	in := normalize(input)
	if err := validateFields(in); err != nil {
		log.Debug(ctx, msgEmployeeRejected, zap.Error(err))
		return nil, err
	}

	if in.email != "" && in.email != current.Email {
		if err := u.ensureEmailFree(ctx, log, in.email, current.ID, MsgErrorUpdatingEmployee); err != nil {
			return nil, err
		}
	}

	if err := validateImage(image); err != nil {
		log.Debug(ctx, msgEmployeeRejected, zap.String("contentType", image.ContentType))
		return nil, err
	}

	next := merge(current, in)
	oldImage := current.Image
	if image != nil {
		ref, err := u.images.Save(ctx, image)
		if err != nil {
			log.Error(ctx, msgErrSaveImage, zap.Error(err))
			return nil, apperr.Internal(MsgErrorUpdatingEmployee, err)
		}
		next.Image = ref
	}
	next.UpdatedAt = u.now()

	updated, err := u.repo.Update(ctx, next)
	if err != nil {
		if image != nil {
			log.Debug(ctx, msgOrphanImageRemove, zap.String("ref", next.Image))
			u.removeImage(ctx, log, next.Image)
		}
		return nil, translateWriteError(ctx, log, err, MsgErrorUpdatingEmployee)
	}

	if image != nil && oldImage != "" && oldImage != updated.Image {
		u.removeImage(ctx, log, oldImage)
	}

	log.Info(ctx, msgEmployeeUpdated)
	return updated, nil
}

func merge(current *entities.Employee, in normalizedInput) *entities.Employee {
	next := *current
	next.Course = append([]string(nil), current.Course...)

	if in.name != "" {
		next.Name = in.name
	}
	if in.email != "" {
		next.Email = in.email
	}
	if in.mobile != "" {
		next.Mobile = in.mobile
	}
	if in.designation != "" {
		next.Designation = in.designation
	}
	if in.gender != "" {
		next.Gender = in.gender
	}
	if in.courseSet {
		next.Course = in.course
	}
	return &next
}

// Delete удаляет запись и ее изображение.
func (u *EmployeeUseCaseImpl) Delete(ctx context.Context, id string) error {
	log := logger.Log(ctx).With(zap.String("method", methodDelete), zap.String("employeeID", id))

	current, err := u.load(ctx, log, id, MsgErrorDeletingEmployee)
	if err != nil {
		return err
	}

	if err := u.repo.Delete(ctx, current.ID); err != nil {
		if errors.Is(err, entities.ErrEmployeeNotFound) {
			return apperr.NotFound(MsgEmployeeNotFound)
		}
		log.Error(ctx, msgErrRepository, zap.Error(err))
		return apperr.Internal(MsgErrorDeletingEmployee, err)
	}

	if current.Image != "" {
		u.removeImage(ctx, log, current.Image)
	}

	log.Info(ctx, msgEmployeeDeleted)
	return nil
}

func (u *EmployeeUseCaseImpl) ensureEmailFree(
	ctx context.Context,
	log *logger.Logger,
	email, ownerID, internalMsg string,
) error {
	existing, err := u.repo.FindByEmail(ctx, email)
	switch {
	case err == nil && existing != nil && existing.ID != ownerID:
		return apperr.Conflict(entities.FieldEmail, MsgEmailExists)
	case err != nil && !errors.Is(err, entities.ErrEmployeeNotFound):
		log.Error(ctx, msgErrRepository, zap.Error(err))
		return apperr.Internal(internalMsg, err)
	}
	return nil
}

func (u *EmployeeUseCaseImpl) removeImage(ctx context.Context, log *logger.Logger, ref string) {
	if err := u.images.Delete(ctx, ref); err != nil {
		log.Warn(ctx, msgErrCleanupImage, zap.String("ref", ref), zap.Error(err))
	}
}

func translateWriteError(ctx context.Context, log *logger.Logger, err error, internalMsg string) error {
	switch {
	case errors.Is(err, entities.ErrEmailTaken):
		return apperr.Conflict(entities.FieldEmail, MsgEmailExists)
	case errors.Is(err, entities.ErrEmployeeIDTaken):
		return apperr.Conflict(entities.FieldID, MsgEmployeeIDExists)
	case errors.Is(err, entities.ErrEmployeeNotFound):
		return apperr.NotFound(MsgEmployeeNotFound)
	}
	log.Error(ctx, msgErrRepository, zap.Error(err))
	return apperr.Internal(internalMsg, err)
}
