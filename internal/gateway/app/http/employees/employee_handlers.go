// Package employees содержит HTTP обработчики записей о сотрудниках.
package employees

import (
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"employeehub/internal/apperr"
	"employeehub/internal/employees/ports/api"
	"employeehub/internal/employees/ports/storage"
	"employeehub/internal/gateway/app/dto"
	"employeehub/internal/gateway/app/http/respond"
	"employeehub/pkg/logger"
)

// Константы для логирования и ответов.
const (
	LogHandlerCreate = "employee handler: create"
	LogHandlerList   = "employee handler: list"
	LogHandlerGet    = "employee handler: get"
	LogHandlerUpdate = "employee handler: update"
	LogHandlerDelete = "employee handler: delete"

	MsgEmployeeDeleted = "Employee deleted successfully"
	MsgInvalidRequest  = "Invalid request body"

	logInvalidRequest   = "invalid request"
	logCloseImageFailed = "failed to close uploaded image"
	errOpenImage        = "opening uploaded image"
)

// Имена полей формы.
const (
	fieldName        = "name"
	fieldEmail       = "email"
	fieldMobile      = "mobile"
	fieldDesignation = "designation"
	fieldGender      = "gender"
	fieldCourse      = "course"
	fieldCourseArray = "course[]"
	fieldImage       = "image"
)

// Handler содержит HTTP обработчики для сотрудников.
type Handler struct {
	useCase api.EmployeeUseCase
}

// NewHandler создает новый экземпляр обработчика сотрудников.
func NewHandler(useCase api.EmployeeUseCase) *Handler {
	return &Handler{useCase: useCase}
}

// Create обрабатывает multipart запрос на создание записи.
func (h *Handler) Create(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerCreate)

	input, image, err := parseEmployeeRequest(ctx)
	if err != nil {
		return respond.Error(ctx, err)
	}
	if image != nil {
		defer closeImage(ctx, image)
	}

	employee, err := h.useCase.Create(requestCtx, input, imageOf(image))
	if err != nil {
		return respond.Error(ctx, err)
	}

	return respond.JSON(ctx, fiber.StatusCreated, dto.NewEmployeeResponse(employee))
}

// List возвращает страницу записей с необязательным поиском.
func (h *Handler) List(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerList)

	page := queryInt(ctx, "page")
	limit := queryInt(ctx, "limit")

	result, err := h.useCase.List(requestCtx, page, limit, ctx.Query("search"))
	if err != nil {
		return respond.Error(ctx, err)
	}

	return respond.JSON(ctx, fiber.StatusOK, dto.NewEmployeePageResponse(result))
}

// Get возвращает запись по идентификатору.
func (h *Handler) Get(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerGet)

	employee, err := h.useCase.Get(requestCtx, ctx.Params("id"))
	if err != nil {
		return respond.Error(ctx, err)
	}

	return respond.JSON(ctx, fiber.StatusOK, dto.NewEmployeeResponse(employee))
}

// Update частично обновляет запись. Принимает multipart или JSON.
func (h *Handler) Update(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerUpdate)

	input, image, err := parseEmployeeRequest(ctx)
	if err != nil {
		return respond.Error(ctx, err)
	}
	if image != nil {
		defer closeImage(ctx, image)
	}

	employee, err := h.useCase.Update(requestCtx, ctx.Params("id"), input, imageOf(image))
	if err != nil {
		return respond.Error(ctx, err)
	}

	return respond.JSON(ctx, fiber.StatusOK, dto.NewEmployeeResponse(employee))
}

// Delete удаляет запись.
func (h *Handler) Delete(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerDelete)

	if err := h.useCase.Delete(requestCtx, ctx.Params("id")); err != nil {
		return respond.Error(ctx, err)
	}

	return respond.Message(ctx, fiber.StatusOK, MsgEmployeeDeleted)
}

// uploadedImage - открытый файл из multipart формы.
type uploadedImage struct {
	image storage.Image
	file  multipart.File
}

func imageOf(u *uploadedImage) *storage.Image {
	if u == nil {
		return nil
	}
	return &u.image
}

func closeImage(ctx fiber.Ctx, u *uploadedImage) {
	if err := u.file.Close(); err != nil {
		requestCtx := ctx.Context()
		logger.Log(requestCtx).Warn(requestCtx, logCloseImageFailed, zap.Error(err))
	}
}

func parseEmployeeRequest(ctx fiber.Ctx) (api.EmployeeInput, *uploadedImage, error) {
	contentType := strings.ToLower(ctx.Get(fiber.HeaderContentType))

	switch {
	case strings.HasPrefix(contentType, fiber.MIMEApplicationJSON):
		var req dto.EmployeeRequest
		if err := ctx.Bind().JSON(&req); err != nil {
			requestCtx := ctx.Context()
			logger.Log(requestCtx).Debug(requestCtx, logInvalidRequest, zap.Error(err))
			return api.EmployeeInput{}, nil, apperr.Validation(MsgInvalidRequest)
		}
		return req.ToInput(), nil, nil
	case strings.HasPrefix(contentType, fiber.MIMEMultipartForm):
		return parseMultipart(ctx)
	default:
		return api.EmployeeInput{}, nil, nil
	}
}

func parseMultipart(ctx fiber.Ctx) (api.EmployeeInput, *uploadedImage, error) {
	form, err := ctx.MultipartForm()
	if err != nil {
		requestCtx := ctx.Context()
		logger.Log(requestCtx).Debug(requestCtx, logInvalidRequest, zap.Error(err))
		return api.EmployeeInput{}, nil, apperr.Validation(MsgInvalidRequest)
	}

	first := func(key string) string {
		if values := form.Value[key]; len(values) > 0 {
			return values[0]
		}
		return ""
	}

	input := api.EmployeeInput{
		Name:        first(fieldName),
		Email:       first(fieldEmail),
		Mobile:      first(fieldMobile),
		Designation: first(fieldDesignation),
		Gender:      first(fieldGender),
	}

	courses, hasCourse := form.Value[fieldCourse]
	bracketed, hasBracketed := form.Value[fieldCourseArray]
	if hasCourse || hasBracketed {
		input.Course = append(append([]string{}, courses...), bracketed...)
		input.CourseSet = true
	}

	image, err := openImage(form.File[fieldImage])
	if err != nil {
		return api.EmployeeInput{}, nil, err
	}
	return input, image, nil
}

func openImage(headers []*multipart.FileHeader) (*uploadedImage, error) {
	if len(headers) == 0 {
		return nil, nil
	}
	header := headers[0]

	file, err := header.Open()
	if err != nil {
		return nil, apperr.Internal(respond.MsgInternalServerError, fmt.Errorf("%s: %w", errOpenImage, err))
	}

	return &uploadedImage{
		image: storage.Image{
			Filename:    header.Filename,
			ContentType: header.Header.Get(fiber.HeaderContentType),
			Size:        header.Size,
			Content:     file,
		},
		file: file,
	}, nil
}

// queryInt возвращает 0 для отсутствующего или нечислового значения. Значения по умолчанию подставляет сервис.
func queryInt(ctx fiber.Ctx, key string) int {
	value, err := strconv.Atoi(ctx.Query(key))
	if err != nil {
		return 0
	}
	return value
}
