package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"rbs/src/config"
	"rbs/src/db"
	"rbs/src/lib"
	"rbs/src/middlewares"
	"rbs/src/types"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type TestSuite struct {
	suite.Suite
	DB    *gorm.DB
	Mock  sqlmock.Sqlmock
	Token string
}

var testJWTKey = []byte(os.Getenv("JWT_SECRET"))

func NewMockDB() (*gorm.DB, sqlmock.Sqlmock) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}))
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}

	return gormDB, mock
}

func generateJWT(email string, id uint) (string, error) {
	claims := &types.Claims{
		Username: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(id),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(testJWTKey)
}

func (s *TestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	registerValidators()

	d, mock := NewMockDB()
	db.NewDB(d)
	s.DB = d
	s.Mock = mock

	token, err := generateJWT("someone@example.com", 1)
	if err != nil {
		log.Fatalf("Error generating JWT token: %s\n", err.Error())
	}
	s.Token = token
}

// expectAuthUser arms the user lookup the auth middleware performs.
func (s *TestSuite) expectAuthUser() {
	s.Mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "username"}).
			AddRow(1, "someone@example.com", "someone"))
}

func (s *TestSuite) newAuthorizedRouter() *gin.Engine {
	router := setupRouter()
	apiv1 := apiv1Group(router)
	apiv1.Use(middlewares.AuthMiddleware)
	bookingHandlers(apiv1)
	resourceHandlers(apiv1)
	customerHandlers(apiv1)
	return router
}

func (s *TestSuite) TestPingRoute() {
	router := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 200, w.Code)
	assert.Equal(s.T(), "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func (s *TestSuite) TestMaintenanceMode() {
	os.Setenv("MAINTENANCE_MODE", "true")
	defer os.Unsetenv("MAINTENANCE_MODE")

	router := setupRouter()
	router = maintenanceModeMiddleware(router)
	apiv1Group(router)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 503, w.Code)
}

func (s *TestSuite) TestRejectsMissingToken() {
	router := s.newAuthorizedRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/bookings", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 401, w.Code)
}

func (s *TestSuite) TestRejectsBareBearerHeader() {
	router := s.newAuthorizedRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/bookings", nil)
	req.Header.Set("Authorization", "Bearer")
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 401, w.Code)
}

func (s *TestSuite) TestRejectsForgedToken() {
	router := s.newAuthorizedRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/bookings", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 401, w.Code)
}

func (s *TestSuite) TestBookingRequestValidation() {
	router := s.newAuthorizedRouter()

	start := time.Now().UTC().Add(48 * time.Hour).Format(config.TIME_PARSE_FORMAT)
	s.Run("Should reject end_time not after start_time with 400", func() {
		s.expectAuthUser()

		body, _ := json.Marshal(map[string]any{
			"resource":   1,
			"customer":   uuid.NewString(),
			"start_time": start,
			"end_time":   start,
		})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/bookings", strings.NewReader(string(body)))
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.Token))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
		assert.Nil(s.T(), s.Mock.ExpectationsWereMet())
	})

	s.Run("Should reject a past start_time with 400", func() {
		s.expectAuthUser()

		past := time.Now().UTC().Add(-time.Hour).Format(config.TIME_PARSE_FORMAT)
		end := time.Now().UTC().Add(time.Hour).Format(config.TIME_PARSE_FORMAT)
		body, _ := json.Marshal(map[string]any{
			"resource":   1,
			"customer":   uuid.NewString(),
			"start_time": past,
			"end_time":   end,
		})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/bookings", strings.NewReader(string(body)))
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.Token))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
		assert.Nil(s.T(), s.Mock.ExpectationsWereMet())
	})
}

func (s *TestSuite) TestCreateBookingConflictResponse() {
	router := s.newAuthorizedRouter()
	customerID := uuid.New()

	start := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Hour)
	end := start.Add(time.Hour)

	s.expectAuthUser()
	s.Mock.ExpectBegin()
	s.Mock.ExpectExec(`SET LOCAL lock_timeout`).WillReturnResult(sqlmock.NewResult(0, 0))
	s.Mock.ExpectQuery(`SELECT \* FROM "resources"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "customer_id"}).
			AddRow(1, "Court A", customerID.String()))
	s.Mock.ExpectExec(`SELECT pg_advisory_xact_lock\(\$1::int, \$2::int\)`).WillReturnResult(sqlmock.NewResult(0, 0))
	s.Mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "resource_id", "user_id", "start_time", "end_time"}).
			AddRow(7, 1, 2, start, end))
	s.Mock.ExpectRollback()

	body, _ := json.Marshal(map[string]any{
		"resource":   1,
		"customer":   customerID.String(),
		"start_time": start.Format(config.TIME_PARSE_FORMAT),
		"end_time":   end.Format(config.TIME_PARSE_FORMAT),
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/bookings", strings.NewReader(string(body)))
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.Token))
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 409, w.Code)
	assert.Contains(s.T(), w.Body.String(), "Interval is not available")
	assert.Nil(s.T(), s.Mock.ExpectationsWereMet())
}

func (s *TestSuite) TestCreateBookingUnknownResourceResponse() {
	router := s.newAuthorizedRouter()

	start := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Hour)
	end := start.Add(time.Hour)

	s.expectAuthUser()
	s.Mock.ExpectBegin()
	s.Mock.ExpectExec(`SET LOCAL lock_timeout`).WillReturnResult(sqlmock.NewResult(0, 0))
	s.Mock.ExpectQuery(`SELECT \* FROM "resources"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "customer_id"}))
	s.Mock.ExpectRollback()

	body, _ := json.Marshal(map[string]any{
		"resource":   1,
		"customer":   uuid.NewString(),
		"start_time": start.Format(config.TIME_PARSE_FORMAT),
		"end_time":   end.Format(config.TIME_PARSE_FORMAT),
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/bookings", strings.NewReader(string(body)))
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.Token))
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 404, w.Code)
	assert.Contains(s.T(), w.Body.String(), "Resource not found")
	assert.Nil(s.T(), s.Mock.ExpectationsWereMet())
}

func (s *TestSuite) TestActiveCustomerFallsBackToDatabase() {
	router := s.newAuthorizedRouter()

	// Unreachable cache: the handler must fall back to the role graph.
	lib.NewRedisClient(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}))

	customerID := uuid.New()
	s.expectAuthUser()
	s.Mock.ExpectQuery(`SELECT \* FROM "customers" WHERE owner_id =`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "owner_id"}).
			AddRow(customerID.String(), "acme", 1))
	s.Mock.ExpectQuery(`SELECT \* FROM "customers" WHERE id =`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "owner_id"}).
			AddRow(customerID.String(), "acme", 1))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/customers/active", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.Token))
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 200, w.Code)
	assert.Contains(s.T(), w.Body.String(), customerID.String())
	assert.Nil(s.T(), s.Mock.ExpectationsWereMet())
}

func (s *TestSuite) TestGetBookingNotFoundResponse() {
	router := s.newAuthorizedRouter()

	s.expectAuthUser()
	s.Mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/bookings/5", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.Token))
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 404, w.Code)
	assert.Nil(s.T(), s.Mock.ExpectationsWereMet())
}

func TestRunner(t *testing.T) {
	suite.Run(t, new(TestSuite))
}
