package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/event-management-api/internal/auth"
	"github.com/yukikurage/event-management-api/internal/config"
	"github.com/yukikurage/event-management-api/internal/constants"
	"github.com/yukikurage/event-management-api/internal/database"
	"github.com/yukikurage/event-management-api/internal/dto"
	apierrors "github.com/yukikurage/event-management-api/internal/errors"
	"github.com/yukikurage/event-management-api/internal/models"
	"github.com/yukikurage/event-management-api/internal/notify"
	"github.com/yukikurage/event-management-api/internal/render"
	"github.com/yukikurage/event-management-api/internal/repository"
	"github.com/yukikurage/event-management-api/internal/services"
	"github.com/yukikurage/event-management-api/internal/storage"
	"github.com/yukikurage/event-management-api/internal/validation"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fixedCircuit gobreaker.State

func (f fixedCircuit) State() gobreaker.State { return gobreaker.State(f) }

// HandlerTestSuite drives handlers over real services and in-memory sqlite
type HandlerTestSuite struct {
	suite.Suite
	db *gorm.DB

	authService   *services.AuthService
	eventService  *services.EventService
	registrations *services.RegistrationService

	auth         *AuthHandler
	users        *UserHandler
	events       *EventHandler
	activities   *ActivityHandler
	files        *FileHandler
	registration *RegistrationHandler
	certificates *CertificateHandler
	health       *HealthHandler
	organizer    *models.User
	participant  *models.User
}

func (suite *HandlerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(validation.Register())
}

// SetupTest runs before each test
func (suite *HandlerTestSuite) SetupTest() {
	var err error
	suite.db, err = database.Open(sqlite.Open(":memory:"), database.NewGormLogger("silent"))
	suite.Require().NoError(err)
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)
	suite.Require().NoError(database.Migrate(suite.db))

	store, err := storage.NewLocalStore(suite.T().TempDir(), "/uploads")
	suite.Require().NoError(err)
	renderer, err := render.NewPNGRenderer(suite.T().TempDir(), "/static/certificados")
	suite.Require().NoError(err)
	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	suite.Require().NoError(err)

	users := repository.NewUserRepository(suite.db)
	events := repository.NewEventRepository(suite.db)
	activities := repository.NewActivityRepository(suite.db)
	files := repository.NewFileRepository(suite.db)
	registrations := repository.NewRegistrationRepository(suite.db)
	certificates := repository.NewCertificateRepository(suite.db)

	suite.authService = services.NewAuthService(users, tokens)
	suite.eventService = services.NewEventService(events, files, store)
	suite.registrations = services.NewRegistrationService(registrations, events, notify.NopNotifier{})

	suite.auth = NewAuthHandler(suite.authService)
	suite.users = NewUserHandler(services.NewUserService(users))
	suite.events = NewEventHandler(suite.eventService)
	suite.activities = NewActivityHandler(services.NewActivityService(activities, events))
	suite.files = NewFileHandler(services.NewFileService(files, events, store))
	suite.registration = NewRegistrationHandler(suite.registrations)
	suite.certificates = NewCertificateHandler(services.NewCertificateService(
		certificates, registrations, events, renderer, config.RenderModeDeferred, notify.NopNotifier{},
	))
	suite.health = NewHealthHandler(suite.db, nil)

	suite.organizer = suite.createUser("Prof. Carlos", "carlos@uni.br", models.RoleOrganizer)
	suite.participant = suite.createUser("Ana Souza", "ana@uni.br", models.RoleParticipant)
}

// TearDownTest runs after each test
func (suite *HandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *HandlerTestSuite) createUser(name, email string, role models.Role) *models.User {
	user, err := suite.authService.Register(context.Background(), services.RegisterInput{
		Name:     name,
		Email:    email,
		Password: "secret123",
		Role:     role,
	})
	suite.Require().NoError(err)
	return user
}

func (suite *HandlerTestSuite) createEvent(capacity int) *models.Event {
	start := time.Now().Add(48 * time.Hour)
	event, err := suite.eventService.Create(context.Background(), services.CreateEventInput{
		Name:      "Semana de Computação",
		StartDate: start,
		EndDate:   start.Add(4 * time.Hour),
		Capacity:  &capacity,
	}, suite.organizer.ID)
	suite.Require().NoError(err)
	return event
}

// serve mounts handler on route and performs one request.
// A non-zero userID plays the part of RequireAuth.
func (suite *HandlerTestSuite) serve(method, route, target string, body io.Reader, contentType string, userID uint64, handler gin.HandlerFunc) *httptest.ResponseRecorder {
	r := gin.New()
	r.Handle(method, route, func(c *gin.Context) {
		if userID != 0 {
			c.Set(constants.ContextKeyUserID, userID)
		}
		c.Next()
	}, handler)

	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) serveJSON(method, route, target string, payload interface{}, userID uint64, handler gin.HandlerFunc) *httptest.ResponseRecorder {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		suite.Require().NoError(err)
		body = bytes.NewReader(raw)
	}
	return suite.serve(method, route, target, body, "application/json", userID, handler)
}

func (suite *HandlerTestSuite) decode(w *httptest.ResponseRecorder, v interface{}) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (suite *HandlerTestSuite) assertError(w *httptest.ResponseRecorder, status int, code string) {
	suite.T().Helper()
	suite.Require().Equal(status, w.Code, w.Body.String())
	var body apierrors.APIError
	suite.decode(w, &body)
	suite.Equal(code, body.Code)
}

// Auth

func (suite *HandlerTestSuite) TestRegister_ReturnsToken() {
	w := suite.serveJSON(http.MethodPost, "/auth/register", "/auth/register", map[string]interface{}{
		"nome":      "Bruno",
		"email":     "bruno@uni.br",
		"senha":     "secret123",
		"matricula": "2024001",
	}, 0, suite.auth.Register)

	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var resp dto.AuthResponse
	suite.decode(w, &resp)
	suite.NotEmpty(resp.AccessToken)
	suite.NotEmpty(resp.Message)
	suite.Equal("bruno@uni.br", resp.User.Email)
	suite.Equal(models.RoleParticipant, resp.User.Role)
}

func (suite *HandlerTestSuite) TestRegister_Rejections() {
	w := suite.serveJSON(http.MethodPost, "/auth/register", "/auth/register", map[string]interface{}{
		"nome": "Outra Ana", "email": "ana@uni.br", "senha": "secret123",
	}, 0, suite.auth.Register)
	suite.assertError(w, http.StatusConflict, apierrors.ErrCodeConflict)

	w = suite.serveJSON(http.MethodPost, "/auth/register", "/auth/register", map[string]interface{}{
		"nome": "X", "email": "not-an-email", "senha": "123",
	}, 0, suite.auth.Register)
	suite.Require().Equal(http.StatusBadRequest, w.Code)
	var body struct {
		Details []validation.FieldError `json:"details"`
	}
	suite.decode(w, &body)
	fields := make([]string, 0, len(body.Details))
	for _, d := range body.Details {
		fields = append(fields, d.Field)
	}
	suite.ElementsMatch([]string{"email", "senha"}, fields)

	w = suite.serveJSON(http.MethodPost, "/auth/register", "/auth/register", map[string]interface{}{
		"nome": "X", "email": "x@uni.br", "senha": "secret123", "papel": "superuser",
	}, 0, suite.auth.Register)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.serve(http.MethodPost, "/auth/register", "/auth/register", nil, "application/json", 0, suite.auth.Register)
	suite.assertError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)
}

func (suite *HandlerTestSuite) TestLogin() {
	w := suite.serveJSON(http.MethodPost, "/auth", "/auth", map[string]string{
		"email": "ANA@uni.br", "senha": "secret123",
	}, 0, suite.auth.Login)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.AuthResponse
	suite.decode(w, &resp)
	suite.NotEmpty(resp.AccessToken)
	suite.Equal(suite.participant.ID, resp.User.ID)

	w = suite.serveJSON(http.MethodPost, "/auth", "/auth", map[string]string{
		"email": "ana@uni.br", "senha": "wrong-password",
	}, 0, suite.auth.Login)
	suite.assertError(w, http.StatusUnauthorized, apierrors.ErrCodeUnauthorized)
}

func (suite *HandlerTestSuite) TestGetCurrentUser() {
	w := suite.serve(http.MethodGet, "/auth/profile", "/auth/profile", nil, "", suite.participant.ID, suite.auth.GetCurrentUser)
	suite.Require().Equal(http.StatusOK, w.Code)
	var user dto.UserDTO
	suite.decode(w, &user)
	suite.Equal("Ana Souza", user.Name)

	w = suite.serve(http.MethodGet, "/auth/profile", "/auth/profile", nil, "", 0, suite.auth.GetCurrentUser)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestProfile() {
	w := suite.serve(http.MethodGet, "/usuarios/profile", "/usuarios/profile", nil, "", suite.participant.ID, suite.users.GetProfile)
	suite.Require().Equal(http.StatusOK, w.Code)

	route := "/usuarios/:id"
	target := fmt.Sprintf("/usuarios/%d", suite.participant.ID)

	w = suite.serveJSON(http.MethodPut, route, target, map[string]string{"nome": "Ana Maria", "matricula": "2024099"}, suite.participant.ID, suite.users.UpdateProfile)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var user dto.UserDTO
	suite.decode(w, &user)
	suite.Equal("Ana Maria", user.Name)
	suite.Require().NotNil(user.RegistrationNumber)
	suite.Equal("2024099", *user.RegistrationNumber)

	w = suite.serveJSON(http.MethodPut, route, target, map[string]string{"nome": "Intruso"}, suite.organizer.ID, suite.users.UpdateProfile)
	suite.assertError(w, http.StatusForbidden, apierrors.ErrCodeForbidden)

	w = suite.serveJSON(http.MethodPut, route, target, map[string]string{"email": "carlos@uni.br"}, suite.participant.ID, suite.users.UpdateProfile)
	suite.assertError(w, http.StatusConflict, apierrors.ErrCodeConflict)

	w = suite.serve(http.MethodGet, "/usuarios/matricula/:matricula", "/usuarios/matricula/2024099", nil, "", suite.organizer.ID, suite.users.GetByRegistrationNumber)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(w, &user)
	suite.Equal(suite.participant.ID, user.ID)
}

// Events

func (suite *HandlerTestSuite) TestCreateEvent() {
	start := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	w := suite.serveJSON(http.MethodPost, "/organizador/eventos/create", "/organizador/eventos/create", map[string]interface{}{
		"nome":        "Hackathon",
		"data_inicio": start,
		"data_fim":    start.Add(8 * time.Hour),
		"capacidade":  30,
	}, suite.organizer.ID, suite.events.CreateEvent)

	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var resp dto.EventResponse
	suite.decode(w, &resp)
	suite.Equal("Hackathon", resp.Event.Name)
	suite.Equal(30, resp.Event.Capacity)
	suite.Equal(models.EventStatusActive, resp.Event.Status)
	suite.Equal(constants.DefaultEventLocation, resp.Event.Location)
	suite.Equal(suite.organizer.ID, resp.Event.OrganizerID)
}

func (suite *HandlerTestSuite) TestCreateEvent_Validation() {
	start := time.Now().Add(24 * time.Hour)
	w := suite.serveJSON(http.MethodPost, "/organizador/eventos/create", "/organizador/eventos/create", map[string]interface{}{
		"nome":        "Hackathon",
		"data_inicio": start,
		"data_fim":    start.Add(-time.Hour),
	}, suite.organizer.ID, suite.events.CreateEvent)
	suite.assertError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)

	w = suite.serveJSON(http.MethodPost, "/organizador/eventos/create", "/organizador/eventos/create", map[string]interface{}{
		"nome":        "Hackathon",
		"data_inicio": start,
		"data_fim":    start.Add(time.Hour),
		"capacidade":  0,
	}, suite.organizer.ID, suite.events.CreateEvent)
	suite.assertError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)
}

func (suite *HandlerTestSuite) TestCreateEvent_DatetimeLocalDates() {
	start := time.Now().Add(24 * time.Hour).Truncate(time.Minute)
	w := suite.serveJSON(http.MethodPost, "/organizador/eventos/create", "/organizador/eventos/create", map[string]interface{}{
		"nome":        "Hackathon",
		"data_inicio": start.Format("2006-01-02T15:04"),
		"data_fim":    start.Add(3 * time.Hour).Format("2006-01-02T15:04"),
	}, suite.organizer.ID, suite.events.CreateEvent)

	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var resp dto.EventResponse
	suite.decode(w, &resp)
	suite.True(start.Equal(resp.Event.StartDate), resp.Event.StartDate.String())
	suite.True(start.Add(3*time.Hour).Equal(resp.Event.EndDate), resp.Event.EndDate.String())

	route := "/organizador/eventos/:id"
	target := fmt.Sprintf("/organizador/eventos/%d", resp.Event.ID)
	moved := start.Add(2 * time.Hour)
	w = suite.serveJSON(http.MethodPut, route, target, map[string]interface{}{
		"data_inicio": moved.Format("2006-01-02T15:04"),
		"data_fim":    moved.Add(time.Hour).Format("2006-01-02T15:04:05"),
	}, suite.organizer.ID, suite.events.UpdateEvent)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.decode(w, &resp)
	suite.True(moved.Equal(resp.Event.StartDate), resp.Event.StartDate.String())
	suite.Equal("Hackathon", resp.Event.Name)
}

func (suite *HandlerTestSuite) TestCreateEvent_BadDates() {
	start := time.Now().Add(24 * time.Hour)
	w := suite.serveJSON(http.MethodPost, "/organizador/eventos/create", "/organizador/eventos/create", map[string]interface{}{
		"nome":        "Hackathon",
		"data_inicio": "amanhã",
		"data_fim":    start.Format("2006-01-02T15:04"),
	}, suite.organizer.ID, suite.events.CreateEvent)
	suite.assertError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)

	w = suite.serveJSON(http.MethodPost, "/organizador/eventos/create", "/organizador/eventos/create", map[string]interface{}{
		"nome":        "Hackathon",
		"data_inicio": start.Format("2006-01-02T15:04"),
	}, suite.organizer.ID, suite.events.CreateEvent)
	suite.assertError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)
}

func (suite *HandlerTestSuite) TestGetEvent() {
	event := suite.createEvent(2)
	_, err := suite.registrations.RegisterForEvent(context.Background(), event.ID, suite.participant.ID)
	suite.Require().NoError(err)

	w := suite.serve(http.MethodGet, "/eventos/:id", fmt.Sprintf("/eventos/%d", event.ID), nil, "", 0, suite.events.GetEvent)
	suite.Require().Equal(http.StatusOK, w.Code)
	var resp dto.EventDTO
	suite.decode(w, &resp)
	suite.EqualValues(1, resp.ConfirmedCount)
	suite.EqualValues(1, resp.AvailableSeats)
	suite.Require().NotNil(resp.Organizer)
	suite.Equal("Prof. Carlos", resp.Organizer.Name)

	w = suite.serve(http.MethodGet, "/eventos/:id", "/eventos/9999", nil, "", 0, suite.events.GetEvent)
	suite.assertError(w, http.StatusNotFound, apierrors.ErrCodeNotFound)

	w = suite.serve(http.MethodGet, "/eventos/:id", "/eventos/abc", nil, "", 0, suite.events.GetEvent)
	suite.assertError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)
}

func (suite *HandlerTestSuite) TestListEvents_Pagination() {
	for i := 0; i < 3; i++ {
		suite.createEvent(10)
	}

	w := suite.serve(http.MethodGet, "/eventos", "/eventos?pagina=2&tamanho=2", nil, "", 0, suite.events.ListEvents)
	suite.Require().Equal(http.StatusOK, w.Code)
	var resp dto.EventListResponse
	suite.decode(w, &resp)
	suite.Equal(2, resp.Page)
	suite.Equal(2, resp.PageSize)
	suite.EqualValues(3, resp.Total)
	suite.Equal(2, resp.TotalPages)
	suite.Len(resp.Events, 1)

	w = suite.serve(http.MethodGet, "/eventos", "/eventos?data_inicio=ontem", nil, "", 0, suite.events.ListEvents)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestUpdateEventStatus() {
	event := suite.createEvent(10)
	route := "/organizador/eventos/:id/status"
	target := fmt.Sprintf("/organizador/eventos/%d/status", event.ID)

	w := suite.serveJSON(http.MethodPatch, route, target, map[string]string{"status": "pausado"}, suite.organizer.ID, suite.events.UpdateEventStatus)
	suite.assertError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)

	w = suite.serveJSON(http.MethodPatch, route, target, map[string]string{"status": "cancelado"}, suite.participant.ID, suite.events.UpdateEventStatus)
	suite.assertError(w, http.StatusForbidden, apierrors.ErrCodeForbidden)

	w = suite.serveJSON(http.MethodPatch, route, target, map[string]string{"status": "cancelado"}, suite.organizer.ID, suite.events.UpdateEventStatus)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.EventResponse
	suite.decode(w, &resp)
	suite.Equal(models.EventStatusCancelled, resp.Event.Status)
}

// Activities

func (suite *HandlerTestSuite) TestCreateActivity_ListedUnderEvent() {
	event := suite.createEvent(10)
	start := event.StartDate.Add(time.Hour)

	w := suite.serveJSON(http.MethodPost, "/organizador/eventos/:id/create/atividades",
		fmt.Sprintf("/organizador/eventos/%d/create/atividades", event.ID),
		map[string]interface{}{"nome": "Palestra", "data_inicio": start, "data_fim": start.Add(time.Hour)},
		suite.organizer.ID, suite.activities.CreateActivity)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = suite.serve(http.MethodGet, "/eventos/:id/atividades", fmt.Sprintf("/eventos/%d/atividades", event.ID), nil, "", 0, suite.activities.ListByEvent)
	suite.Require().Equal(http.StatusOK, w.Code)
	var list []dto.ActivityDTO
	suite.decode(w, &list)
	suite.Require().Len(list, 1)
	suite.Equal("Palestra", list[0].Name)
}

func (suite *HandlerTestSuite) TestActivity_DatetimeLocalDates() {
	event := suite.createEvent(10)
	start := event.StartDate.Add(time.Hour).Truncate(time.Minute)

	w := suite.serveJSON(http.MethodPost, "/organizador/eventos/:id/create/atividades",
		fmt.Sprintf("/organizador/eventos/%d/create/atividades", event.ID),
		map[string]interface{}{
			"nome":        "Minicurso",
			"data_inicio": start.Format("2006-01-02T15:04"),
			"data_fim":    start.Add(time.Hour).Format("2006-01-02T15:04"),
		},
		suite.organizer.ID, suite.activities.CreateActivity)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var resp dto.ActivityResponse
	suite.decode(w, &resp)
	suite.True(start.Equal(resp.Activity.StartDate), resp.Activity.StartDate.String())

	w = suite.serveJSON(http.MethodPut, "/organizador/atividades/:id",
		fmt.Sprintf("/organizador/atividades/%d", resp.Activity.ID),
		map[string]interface{}{"data_fim": start.Add(2 * time.Hour).Format("2006-01-02T15:04")},
		suite.organizer.ID, suite.activities.UpdateActivity)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.decode(w, &resp)
	suite.True(start.Add(2*time.Hour).Equal(resp.Activity.EndDate), resp.Activity.EndDate.String())
}

// Files

func (suite *HandlerTestSuite) multipartBody(field, filename string, content []byte) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if field != "" {
		part, err := writer.CreateFormFile(field, filename)
		suite.Require().NoError(err)
		_, err = part.Write(content)
		suite.Require().NoError(err)
	}
	suite.Require().NoError(writer.Close())
	return body, writer.FormDataContentType()
}

func (suite *HandlerTestSuite) TestUploadAndDownload() {
	event := suite.createEvent(10)
	body, contentType := suite.multipartBody(constants.UploadFormField, "programacao.pdf", []byte("%PDF-1.4 conteudo"))

	w := suite.serve(http.MethodPost, "/eventos/:id/arquivos/upload", fmt.Sprintf("/eventos/%d/arquivos/upload", event.ID),
		body, contentType, suite.organizer.ID, suite.files.Upload)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var resp dto.FileResponse
	suite.decode(w, &resp)
	suite.Equal("programacao.pdf", resp.File.Filename)
	suite.EqualValues(len("%PDF-1.4 conteudo"), resp.File.Size)
	suite.Contains(resp.File.URL, "/uploads/")

	w = suite.serve(http.MethodGet, "/arquivos/:id/download", fmt.Sprintf("/arquivos/%d/download", resp.File.ID), nil, "", 0, suite.files.Download)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal("%PDF-1.4 conteudo", w.Body.String())
	suite.Contains(w.Header().Get("Content-Disposition"), "programacao.pdf")

	w = suite.serve(http.MethodDelete, "/eventos/:id/arquivos/:fileId", fmt.Sprintf("/eventos/%d/arquivos/%d", event.ID, resp.File.ID),
		nil, "", suite.organizer.ID, suite.files.DeleteFile)
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.serve(http.MethodGet, "/arquivos/:id", fmt.Sprintf("/arquivos/%d", resp.File.ID), nil, "", 0, suite.files.GetFile)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestUpload_Rejections() {
	event := suite.createEvent(10)
	route := "/eventos/:id/arquivos/upload"
	target := fmt.Sprintf("/eventos/%d/arquivos/upload", event.ID)

	body, contentType := suite.multipartBody("", "", nil)
	w := suite.serve(http.MethodPost, route, target, body, contentType, suite.organizer.ID, suite.files.Upload)
	suite.assertError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)

	body, contentType = suite.multipartBody(constants.UploadFormField, "grande.bin", bytes.Repeat([]byte("x"), constants.MaxUploadSize+1))
	w = suite.serve(http.MethodPost, route, target, body, contentType, suite.organizer.ID, suite.files.Upload)
	suite.assertError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)

	body, contentType = suite.multipartBody(constants.UploadFormField, "a.txt", []byte("a"))
	w = suite.serve(http.MethodPost, route, target, body, contentType, suite.participant.ID, suite.files.Upload)
	suite.assertError(w, http.StatusForbidden, apierrors.ErrCodeForbidden)
}

// Registrations

func (suite *HandlerTestSuite) TestRegisterForEvent() {
	event := suite.createEvent(1)
	route := "/participante/eventos/:id/inscricao"
	target := fmt.Sprintf("/participante/eventos/%d/inscricao", event.ID)

	w := suite.serve(http.MethodPost, route, target, nil, "", suite.participant.ID, suite.registration.Register)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var resp dto.RegistrationResponse
	suite.decode(w, &resp)
	suite.Equal(models.RegistrationStatusConfirmed, resp.Registration.Status)
	suite.Equal(event.ID, resp.Registration.EventID)

	w = suite.serve(http.MethodPost, route, target, nil, "", suite.participant.ID, suite.registration.Register)
	suite.assertError(w, http.StatusConflict, apierrors.ErrCodeConflict)

	other := suite.createUser("Bruno", "bruno@uni.br", models.RoleParticipant)
	w = suite.serve(http.MethodPost, route, target, nil, "", other.ID, suite.registration.Register)
	suite.assertError(w, http.StatusConflict, apierrors.ErrCodeCapacityExceeded)
}

func (suite *HandlerTestSuite) TestCancelRegistration() {
	event := suite.createEvent(5)
	_, err := suite.registrations.RegisterForEvent(context.Background(), event.ID, suite.participant.ID)
	suite.Require().NoError(err)

	route := "/participante/eventos/:id/desinscricao"
	target := fmt.Sprintf("/participante/eventos/%d/desinscricao", event.ID)

	w := suite.serve(http.MethodDelete, route, target, nil, "", suite.participant.ID, suite.registration.Cancel)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = suite.serve(http.MethodDelete, route, target, nil, "", suite.participant.ID, suite.registration.Cancel)
	suite.assertError(w, http.StatusNotFound, apierrors.ErrCodeNotFound)
}

func (suite *HandlerTestSuite) TestMyEvents() {
	for i := 0; i < 3; i++ {
		event := suite.createEvent(5)
		_, err := suite.registrations.RegisterForEvent(context.Background(), event.ID, suite.participant.ID)
		suite.Require().NoError(err)
	}

	w := suite.serve(http.MethodGet, "/participante/eventos", "/participante/eventos?tamanho=2", nil, "", suite.participant.ID, suite.registration.MyEvents)
	suite.Require().Equal(http.StatusOK, w.Code)
	var resp dto.ParticipantEventListResponse
	suite.decode(w, &resp)
	suite.EqualValues(3, resp.Total)
	suite.Equal(2, resp.TotalPages)
	suite.Len(resp.Events, 2)
	suite.NotZero(resp.Events[0].RegistrationID)
}

func (suite *HandlerTestSuite) TestUpdateRegistrationStatus() {
	event := suite.createEvent(5)
	registration, err := suite.registrations.RegisterForEvent(context.Background(), event.ID, suite.participant.ID)
	suite.Require().NoError(err)

	route := "/organizador/inscricoes/:id/status"
	target := fmt.Sprintf("/organizador/inscricoes/%d/status", registration.ID)

	w := suite.serveJSON(http.MethodPatch, route, target, map[string]string{"status": "aprovada"}, suite.organizer.ID, suite.registration.UpdateStatus)
	suite.assertError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)

	w = suite.serveJSON(http.MethodPatch, route, target, map[string]string{"status": "pendente"}, suite.organizer.ID, suite.registration.UpdateStatus)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.RegistrationResponse
	suite.decode(w, &resp)
	suite.Equal(models.RegistrationStatusPending, resp.Registration.Status)
}

// Certificates

func (suite *HandlerTestSuite) TestCertificateFlow() {
	event := suite.createEvent(5)
	_, err := suite.registrations.RegisterForEvent(context.Background(), event.ID, suite.participant.ID)
	suite.Require().NoError(err)

	w := suite.serveJSON(http.MethodPost, "/certificados/organizador", "/certificados/organizador",
		map[string]interface{}{"evento_id": event.ID}, suite.organizer.ID, suite.certificates.GenerateForEvent)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var list dto.CertificateListResponse
	suite.decode(w, &list)
	suite.Require().Equal(1, list.Total)
	cert := list.Certificates[0]
	suite.Regexp(`^[0-9A-F]{4}-[0-9A-F]{4}-[0-9A-F]{4}$`, cert.Code)
	suite.Nil(cert.URL)

	w = suite.serve(http.MethodGet, "/certificados/verificar/:codigo", "/certificados/verificar/"+cert.Code, nil, "", 0, suite.certificates.Verify)
	suite.Require().Equal(http.StatusOK, w.Code)
	var verification dto.CertificateVerificationDTO
	suite.decode(w, &verification)
	suite.True(verification.Valid)
	suite.Equal("Ana Souza", verification.ParticipantName)

	w = suite.serve(http.MethodGet, "/certificados/:id/imagem", fmt.Sprintf("/certificados/%d/imagem", cert.ID), nil, "", suite.participant.ID, suite.certificates.Image)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal("image/png", w.Header().Get("Content-Type"))
	suite.True(bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))

	stranger := suite.createUser("Carla", "carla@uni.br", models.RoleParticipant)
	w = suite.serve(http.MethodGet, "/certificados/:id", fmt.Sprintf("/certificados/%d", cert.ID), nil, "", stranger.ID, suite.certificates.GetCertificate)
	suite.assertError(w, http.StatusForbidden, apierrors.ErrCodeForbidden)

	w = suite.serve(http.MethodGet, "/certificados/meus", "/certificados/meus", nil, "", suite.participant.ID, suite.certificates.Mine)
	suite.Require().Equal(http.StatusOK, w.Code)
	var mine []dto.CertificateDTO
	suite.decode(w, &mine)
	suite.Len(mine, 1)

	w = suite.serve(http.MethodDelete, "/certificados/:id", fmt.Sprintf("/certificados/%d", cert.ID), nil, "", suite.organizer.ID, suite.certificates.DeleteCertificate)
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.serve(http.MethodGet, "/certificados/verificar/:codigo", "/certificados/verificar/"+cert.Code, nil, "", 0, suite.certificates.Verify)
	suite.assertError(w, http.StatusNotFound, apierrors.ErrCodeNotFound)
}

func (suite *HandlerTestSuite) TestGenerateForParticipant_Validation() {
	w := suite.serveJSON(http.MethodPost, "/certificados/organizador/participante", "/certificados/organizador/participante",
		map[string]interface{}{"evento_id": 1}, suite.organizer.ID, suite.certificates.GenerateForParticipant)
	suite.assertError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)
}

// Health

func (suite *HandlerTestSuite) TestHealth() {
	w := suite.serve(http.MethodGet, "/health", "/health", nil, "", 0, suite.health.Health)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"database":"up"`)
	suite.Contains(w.Body.String(), `"notifications":"disabled"`)

	tripped := NewHealthHandler(suite.db, fixedCircuit(gobreaker.StateOpen))
	w = suite.serve(http.MethodGet, "/health", "/health", nil, "", 0, tripped.Health)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"notifications":"open"`)

	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	suite.Require().NoError(sqlDB.Close())

	w = suite.serve(http.MethodGet, "/health", "/health", nil, "", 0, suite.health.Health)
	suite.Equal(http.StatusServiceUnavailable, w.Code)
}

// TestHandlerTestSuite runs the handler test suite
func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
