package service

import (
	"testing"
	"time"

	"github.com/fsdevblog/groph-shop/internal/domain"
	"github.com/fsdevblog/groph-shop/internal/repository/repoargs"
	"github.com/fsdevblog/groph-shop/internal/service/mocks"
	"github.com/fsdevblog/groph-shop/pkg/uow"
	uowmocks "github.com/fsdevblog/groph-shop/pkg/uow/mocks"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type InvoiceServiceTestSuite struct {
	suite.Suite
	mockUOW         *uowmocks.MockUOW
	mockOrderRepo   *mocks.MockOrderRepository
	mockUserRepo    *mocks.MockUserRepository
	mockProductRepo *mocks.MockProductRepository
	invoiceService  *InvoiceService
}

func TestInvoiceServiceSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}

func (s *InvoiceServiceTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(mockCtrl)
	s.mockOrderRepo = mocks.NewMockOrderRepository(mockCtrl)
	s.mockUserRepo = mocks.NewMockUserRepository(mockCtrl)
	s.mockProductRepo = mocks.NewMockProductRepository(mockCtrl)

	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.OrderRepoName)).
		Return(s.mockOrderRepo, nil).AnyTimes()
	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()
	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.ProductRepoName)).
		Return(s.mockProductRepo, nil).AnyTimes()

	invoiceService, servErr := NewInvoiceService(s.mockUOW)
	s.Require().NoError(servErr)
	s.invoiceService = invoiceService
}

func (s *InvoiceServiceTestSuite) TestBuildInvoice() {
	createdAt := time.Date(2025, time.March, 14, 12, 0, 0, 0, time.UTC)
	order := domain.Order{ID: 7, CreatedAt: createdAt, UserID: 1, TotalPrice: decimal.RequireFromString("115.00")}
	buyer := domain.User{ID: 1, Username: "buyer", Address: "Main st. 1"}

	items := []domain.OrderItem{
		{ID: 1, OrderID: 7, ProductID: 100, Quantity: 2, PriceAtPurchase: decimal.RequireFromString("50.00")},
		{ID: 2, OrderID: 7, ProductID: 200, Quantity: 1, PriceAtPurchase: decimal.RequireFromString("15.00")},
	}
	products := []domain.Product{
		{ID: 100, Name: "widget"},
		{ID: 200, Name: "gadget"},
	}

	s.mockOrderRepo.EXPECT().FindOrderByID(gomock.Any(), order.ID).Return(&order, nil)
	s.mockUserRepo.EXPECT().FindUserByID(gomock.Any(), buyer.ID).Return(&buyer, nil)
	s.mockOrderRepo.EXPECT().GetItemsByOrderID(gomock.Any(), order.ID).Return(items, nil)
	s.mockProductRepo.EXPECT().FindProductsByIDs(gomock.Any(), []int64{100, 200}).Return(products, nil)

	inv, err := s.invoiceService.BuildInvoice(
		s.T().Context(),
		Requester{UserID: 1, Role: domain.RoleUser},
		order.ID,
	)

	s.Require().NoError(err)
	s.Equal("INV_7", inv.Number)
	s.Equal("2025-03-14", inv.Date)
	s.Equal("buyer", inv.BuyerName)
	s.Equal("Main st. 1", inv.BuyerAddress)

	s.Require().Len(inv.Lines, 2)
	s.Equal("widget", inv.Lines[0].ProductName)
	s.True(inv.Lines[0].LineTotal.Equal(decimal.RequireFromString("100.00")))
	s.Equal("gadget", inv.Lines[1].ProductName)

	// Сумма счета восстанавливается из price_at_purchase позиций и сходится с заказом.
	s.True(inv.TotalPrice.Equal(order.TotalPrice))
}

func (s *InvoiceServiceTestSuite) TestBuildInvoiceAccess() {
	order := domain.Order{ID: 7, UserID: 1, TotalPrice: decimal.NewFromInt(10)}

	s.mockOrderRepo.EXPECT().FindOrderByID(gomock.Any(), order.ID).Return(&order, nil)

	_, err := s.invoiceService.BuildInvoice(
		s.T().Context(),
		Requester{UserID: 2, Role: domain.RoleUser},
		order.ID,
	)
	s.ErrorIs(err, domain.ErrOwnerConflict)
}

func (s *InvoiceServiceTestSuite) TestBuildInvoiceOrderNotFound() {
	s.mockOrderRepo.EXPECT().FindOrderByID(gomock.Any(), int64(404)).
		Return(nil, domain.ErrRecordNotFound)

	_, err := s.invoiceService.BuildInvoice(
		s.T().Context(),
		Requester{UserID: 1, Role: domain.RoleAdmin},
		404,
	)

	var notFoundErr *domain.EntityNotFoundError
	s.Require().ErrorAs(err, &notFoundErr)
	s.Equal(domain.EntityOrder, notFoundErr.Kind)
}
