package service

import (
	"testing"

	"github.com/fsdevblog/groph-shop/internal/domain"
	"github.com/fsdevblog/groph-shop/internal/repository/repoargs"
	"github.com/fsdevblog/groph-shop/internal/service/mocks"
	"github.com/fsdevblog/groph-shop/pkg/uow"
	uowmocks "github.com/fsdevblog/groph-shop/pkg/uow/mocks"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type CartServiceTestSuite struct {
	suite.Suite
	mockUOW         *uowmocks.MockUOW
	mockCartRepo    *mocks.MockCartRepository
	mockProductRepo *mocks.MockProductRepository
	cartService     *CartService
}

func TestCartServiceSuite(t *testing.T) {
	suite.Run(t, new(CartServiceTestSuite))
}

func (s *CartServiceTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(mockCtrl)
	s.mockCartRepo = mocks.NewMockCartRepository(mockCtrl)
	s.mockProductRepo = mocks.NewMockProductRepository(mockCtrl)

	// Мок получения репозиториев из uow. Выполняется в инициализации сервиса.
	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.CartRepoName)).
		Return(s.mockCartRepo, nil).AnyTimes()
	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.ProductRepoName)).
		Return(s.mockProductRepo, nil).AnyTimes()

	cartService, servErr := NewCartService(s.mockUOW)
	s.Require().NoError(servErr)
	s.cartService = cartService
}

func (s *CartServiceTestSuite) TestGetCartAuthorization() {
	cart := domain.Cart{ID: 10, UserID: 1}

	s.mockCartRepo.EXPECT().FindCartByID(gomock.Any(), cart.ID).
		Return(&cart, nil).Times(3)

	cases := []struct {
		name      string
		requester Requester
		wantErr   error
	}{
		{name: "owner", requester: Requester{UserID: 1, Role: domain.RoleUser}},
		{name: "admin", requester: Requester{UserID: 99, Role: domain.RoleAdmin}},
		{name: "stranger", requester: Requester{UserID: 2, Role: domain.RoleUser}, wantErr: domain.ErrOwnerConflict},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			got, err := s.cartService.GetCart(s.T().Context(), t.requester, cart.ID)
			s.Require().ErrorIs(err, t.wantErr)
			if t.wantErr == nil {
				s.Equal(&cart, got)
			}
		})
	}
}

func (s *CartServiceTestSuite) TestAddItem() {
	owner := Requester{UserID: 1, Role: domain.RoleUser}
	cart := domain.Cart{ID: 10, UserID: 1}
	product := domain.Product{ID: 100, Name: "widget", Price: decimal.NewFromInt(50), Stock: 3}

	s.mockCartRepo.EXPECT().FindCartByID(gomock.Any(), cart.ID).
		Return(&cart, nil).Times(2)
	s.mockProductRepo.EXPECT().FindProductByID(gomock.Any(), product.ID).
		Return(&product, nil).Times(2)

	createdItem := domain.CartItem{ID: 1, CartID: cart.ID, ProductID: product.ID, Quantity: 2}
	s.mockCartRepo.EXPECT().
		AddItem(gomock.Any(), gomock.Eq(repoargs.CreateCartItem{
			CartID:    cart.ID,
			ProductID: product.ID,
			Quantity:  2,
		})).
		Return(&createdItem, nil)

	cases := []struct {
		name     string
		quantity int32
		wantErr  error
	}{
		{name: "ok", quantity: 2},
		// Добавление сверяется с остатком, но не резервирует его.
		{name: "over stock", quantity: 5, wantErr: domain.ErrNotEnoughStock},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			item, err := s.cartService.AddItem(s.T().Context(), owner, AddCartItemArgs{
				CartID:    cart.ID,
				ProductID: product.ID,
				Quantity:  t.quantity,
			})
			s.Require().ErrorIs(err, t.wantErr)
			if t.wantErr == nil {
				s.Equal(&createdItem, item)
			}
		})
	}
}

func (s *CartServiceTestSuite) TestUpdateItemOwnership() {
	cart := domain.Cart{ID: 10, UserID: 1}
	item := domain.CartItem{ID: 1, CartID: cart.ID, ProductID: 100, Quantity: 1}

	// Принадлежность позиции проверяется через ее корзину.
	s.mockCartRepo.EXPECT().FindItemByID(gomock.Any(), item.ID).
		Return(&item, nil)
	s.mockCartRepo.EXPECT().FindCartByID(gomock.Any(), cart.ID).
		Return(&cart, nil)

	_, err := s.cartService.UpdateItem(s.T().Context(), Requester{UserID: 2, Role: domain.RoleUser}, item.ID, 3)
	s.ErrorIs(err, domain.ErrOwnerConflict)
}

func (s *CartServiceTestSuite) TestTotal() {
	owner := Requester{UserID: 1, Role: domain.RoleUser}
	cart := domain.Cart{ID: 10, UserID: 1}

	items := []domain.CartItem{
		{ID: 1, CartID: cart.ID, ProductID: 100, Quantity: 2},
		{ID: 2, CartID: cart.ID, ProductID: 200, Quantity: 3},
	}
	products := []domain.Product{
		{ID: 100, Price: decimal.RequireFromString("10.50"), Stock: 10},
		{ID: 200, Price: decimal.NewFromInt(5), Stock: 10},
	}

	s.mockCartRepo.EXPECT().FindCartByID(gomock.Any(), cart.ID).
		Return(&cart, nil)
	s.mockCartRepo.EXPECT().GetItems(gomock.Any(), cart.ID).
		Return(items, nil)
	s.mockProductRepo.EXPECT().FindProductsByIDs(gomock.Any(), []int64{100, 200}).
		Return(products, nil)

	total, err := s.cartService.Total(s.T().Context(), owner, cart.ID)

	s.Require().NoError(err)
	// 2*10.50 + 3*5
	s.True(total.Equal(decimal.RequireFromString("36.00")), total.String())
}

func (s *CartServiceTestSuite) TestTotalEmptyCart() {
	owner := Requester{UserID: 1, Role: domain.RoleUser}
	cart := domain.Cart{ID: 10, UserID: 1}

	s.mockCartRepo.EXPECT().FindCartByID(gomock.Any(), cart.ID).
		Return(&cart, nil)
	s.mockCartRepo.EXPECT().GetItems(gomock.Any(), cart.ID).
		Return([]domain.CartItem{}, nil)

	total, err := s.cartService.Total(s.T().Context(), owner, cart.ID)

	s.Require().NoError(err)
	s.True(total.IsZero())
}
