package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/fsdevblog/groph-shop/internal/domain"
	"github.com/fsdevblog/groph-shop/internal/logger"
	"github.com/fsdevblog/groph-shop/internal/transport/api/mocks"
	"github.com/fsdevblog/groph-shop/internal/transport/api/testutils"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type AuthHandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	mockUserService *mocks.MockUserServicer
	jwtSecret       []byte
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

func (s *AuthHandlerTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())

	s.mockUserService = mocks.NewMockUserServicer(mockCtrl)
	s.jwtSecret = []byte("super secret key")

	s.router = New(RouterArgs{
		Logger:       logger.New(io.Discard),
		UserService:  s.mockUserService,
		JWTSecretKey: s.jwtSecret,
	})
}

func (s *AuthHandlerTestSuite) TestRegister() {
	registeredUser := domain.User{
		ID:       1,
		Username: "newuser",
		Email:    "new@example.com",
		Role:     domain.RoleUser,
		Balance:  decimal.Zero,
	}

	s.mockUserService.EXPECT().
		Register(gomock.Any(), gomock.Any()).
		Return(&registeredUser, "jwt-token", nil)
	s.mockUserService.EXPECT().
		Register(gomock.Any(), gomock.Any()).
		Return(nil, "", domain.ErrUsernameTaken)

	cases := []struct {
		name       string
		payload    string
		wantStatus int
		wantToken  bool
	}{
		{
			name:       "ok",
			payload:    `{"login": "newuser", "email": "new@example.com", "password": "secret123"}`,
			wantStatus: http.StatusCreated,
			wantToken:  true,
		},
		{
			name:       "login taken",
			payload:    `{"login": "taken", "email": "taken@example.com", "password": "secret123"}`,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "invalid email",
			payload:    `{"login": "newuser", "email": "not-an-email", "password": "secret123"}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "short password",
			payload:    `{"login": "newuser", "email": "new@example.com", "password": "123"}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "oversized address",
			payload: fmt.Sprintf(
				`{"login": "newuser", "email": "new@example.com", "password": "secret123", "address": %q}`,
				testutils.GenerateOverBytesUnderRunes(100),
			),
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			resp, reqErr := testutils.MakeRequest(testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPost,
				URL:    RouteGroup + RegisterRoute,
				Body:   bytes.NewBufferString(t.payload),
			})
			s.Require().NoError(reqErr)
			defer resp.Body.Close() //nolint:errcheck

			s.Equal(t.wantStatus, resp.StatusCode)

			if t.wantToken {
				s.True(strings.HasPrefix(resp.Header.Get("Authorization"), "Bearer "))

				var body struct {
					User UserResponse `json:"user"`
				}
				s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
				s.Equal(registeredUser.Username, body.User.Username)
				s.Equal(domain.RoleUser, body.User.Role)
				s.Zero(body.User.Balance)
			}
		})
	}
}

func (s *AuthHandlerTestSuite) TestLogin() {
	savedUser := domain.User{ID: 1, Username: "test", Role: domain.RoleUser}

	s.mockUserService.EXPECT().
		Login(gomock.Any(), gomock.Any()).
		Return(&savedUser, "jwt-token", nil)
	s.mockUserService.EXPECT().
		Login(gomock.Any(), gomock.Any()).
		Return(nil, "", domain.ErrPasswordMissMatch)
	s.mockUserService.EXPECT().
		Login(gomock.Any(), gomock.Any()).
		Return(nil, "", domain.ErrRecordNotFound)

	cases := []struct {
		name       string
		payload    string
		wantStatus int
	}{
		{name: "ok", payload: `{"login": "test", "password": "secret123"}`, wantStatus: http.StatusOK},
		{name: "wrong password", payload: `{"login": "test", "password": "wrongpass"}`, wantStatus: http.StatusUnauthorized},
		// Несуществующий логин неотличим от неверного пароля.
		{name: "unknown login", payload: `{"login": "ghost", "password": "secret123"}`, wantStatus: http.StatusUnauthorized},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			resp, reqErr := testutils.MakeRequest(testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPost,
				URL:    RouteGroup + LoginRoute,
				Body:   bytes.NewBufferString(t.payload),
			})
			s.Require().NoError(reqErr)
			defer resp.Body.Close() //nolint:errcheck

			s.Equal(t.wantStatus, resp.StatusCode)

			if t.wantStatus == http.StatusOK {
				s.Equal("Bearer jwt-token", resp.Header.Get("Authorization"))
			}
		})
	}
}
