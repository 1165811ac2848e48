package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/fsdevblog/groph-shop/internal/domain"
	"github.com/fsdevblog/groph-shop/internal/logger"
	"github.com/fsdevblog/groph-shop/internal/service/tokens"
	"github.com/fsdevblog/groph-shop/internal/transport/api/mocks"
	"github.com/fsdevblog/groph-shop/internal/transport/api/testutils"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ProductsHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockProductService *mocks.MockProductServicer
	jwtSecret          []byte
}

func TestProductsHandlerSuite(t *testing.T) {
	suite.Run(t, new(ProductsHandlerTestSuite))
}

func (s *ProductsHandlerTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())

	s.mockProductService = mocks.NewMockProductServicer(mockCtrl)
	s.jwtSecret = []byte("super secret key")

	s.router = New(RouterArgs{
		Logger:         logger.New(io.Discard),
		ProductService: s.mockProductService,
		JWTSecretKey:   s.jwtSecret,
	})
}

func (s *ProductsHandlerTestSuite) tokenWithRole(userID int64, role domain.RoleType) string {
	token, err := tokens.GenerateUserJWT(userID, role, time.Hour, s.jwtSecret)
	s.Require().NoError(err)
	return token
}

func (s *ProductsHandlerTestSuite) TestIndex() {
	jwtToken := s.tokenWithRole(1, domain.RoleUser)

	products := []domain.Product{
		{ID: 1, Name: "widget", Price: decimal.RequireFromString("10.50"), Stock: 5},
		{ID: 2, Name: "gadget", Price: decimal.NewFromInt(3), Stock: 0},
	}
	s.mockProductService.EXPECT().GetAll(gomock.Any()).Return(products, nil)

	resp, reqErr := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    RouteGroup + ProductsRoute,
	}, testutils.WithHeader("Authorization", "Bearer "+jwtToken))
	s.Require().NoError(reqErr)
	defer resp.Body.Close() //nolint:errcheck

	s.Equal(http.StatusOK, resp.StatusCode)

	var body []ProductResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	s.Require().Len(body, 2)
	s.Equal("widget", body[0].Name)
	s.InDelta(10.50, body[0].Price, 0.001)
}

func (s *ProductsHandlerTestSuite) TestCreateRoleGuard() {
	created := domain.Product{
		ID:    1,
		Name:  "widget",
		Price: decimal.RequireFromString("10.50"),
		Stock: 5,
	}

	// Запись в каталог разрешена только админу: для обычного юзера сервис не вызывается.
	s.mockProductService.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(&created, nil).Times(1)

	cases := []struct {
		name       string
		role       domain.RoleType
		wantStatus int
	}{
		{name: "admin", role: domain.RoleAdmin, wantStatus: http.StatusCreated},
		{name: "plain user", role: domain.RoleUser, wantStatus: http.StatusForbidden},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			jwtToken := s.tokenWithRole(1, t.role)

			payload := bytes.NewBufferString(`{"name": "widget", "description": "d", "price": "10.50", "stock": 5}`)
			resp, reqErr := testutils.MakeRequest(testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPost,
				URL:    RouteGroup + ProductsRoute,
				Body:   payload,
			}, testutils.WithHeader("Authorization", "Bearer "+jwtToken))
			s.Require().NoError(reqErr)
			defer resp.Body.Close() //nolint:errcheck

			s.Equal(t.wantStatus, resp.StatusCode)
		})
	}
}

func (s *ProductsHandlerTestSuite) TestShowNotFound() {
	jwtToken := s.tokenWithRole(1, domain.RoleUser)

	s.mockProductService.EXPECT().
		GetByID(gomock.Any(), int64(404)).
		Return(nil, domain.ErrRecordNotFound)

	resp, reqErr := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    RouteGroup + ProductsRoute + "/404",
	}, testutils.WithHeader("Authorization", "Bearer "+jwtToken))
	s.Require().NoError(reqErr)
	defer resp.Body.Close() //nolint:errcheck

	s.Equal(http.StatusNotFound, resp.StatusCode)
}
