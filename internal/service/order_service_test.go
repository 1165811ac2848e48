package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/fsdevblog/groph-shop/internal/domain"
	"github.com/fsdevblog/groph-shop/internal/repository/repoargs"
	"github.com/fsdevblog/groph-shop/internal/service/mocks"
	"github.com/fsdevblog/groph-shop/pkg/uow"
	uowmocks "github.com/fsdevblog/groph-shop/pkg/uow/mocks"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
)

type OrderServiceTestSuite struct {
	suite.Suite
	mockCtrl        *gomock.Controller
	mockUOW         *uowmocks.MockUOW
	mockTX          *uowmocks.MockTX
	mockUserRepo    *mocks.MockUserRepository
	mockProductRepo *mocks.MockProductRepository
	mockCartRepo    *mocks.MockCartRepository
	mockOrderRepo   *mocks.MockOrderRepository
	orderService    *OrderService
}

func TestOrderServiceSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}

func (s *OrderServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(s.mockCtrl)
	s.mockTX = uowmocks.NewMockTX(s.mockCtrl)
	s.mockUserRepo = mocks.NewMockUserRepository(s.mockCtrl)
	s.mockProductRepo = mocks.NewMockProductRepository(s.mockCtrl)
	s.mockCartRepo = mocks.NewMockCartRepository(s.mockCtrl)
	s.mockOrderRepo = mocks.NewMockOrderRepository(s.mockCtrl)

	// Мок получения репозитория из uow. Выполняется в инициализации сервиса.
	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.OrderRepoName)).
		Return(s.mockOrderRepo, nil).AnyTimes()

	l := logrus.New()
	l.SetOutput(io.Discard)

	orderService, servErr := NewOrderService(s.mockUOW, l)
	s.Require().NoError(servErr)
	s.orderService = orderService
}

func (s *OrderServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

// expectTransaction настраивает прохождение uow.Do через мок транзакции и выдачу
// всех четырех репозиториев чекаута.
func (s *OrderServiceTestSuite) expectTransaction() {
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.ProductRepoName)).
		Return(s.mockProductRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.CartRepoName)).
		Return(s.mockCartRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.OrderRepoName)).
		Return(s.mockOrderRepo, nil).AnyTimes()

	s.mockUOW.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(ctx, s.mockTX)
		})
}

func (s *OrderServiceTestSuite) TestCheckoutCartNotFound() {
	s.expectTransaction()

	s.mockCartRepo.EXPECT().FindCartByID(gomock.Any(), int64(10)).
		Return(nil, domain.ErrRecordNotFound)

	summary, err := s.orderService.Checkout(context.Background(), 1, 10)

	s.Nil(summary)
	s.ErrorIs(err, domain.ErrRecordNotFound)

	var notFoundErr *domain.EntityNotFoundError
	s.Require().ErrorAs(err, &notFoundErr)
	s.Equal(domain.EntityCart, notFoundErr.Kind)
	s.Equal(int64(10), notFoundErr.ID)
}

func (s *OrderServiceTestSuite) TestCheckoutOwnerConflict() {
	s.expectTransaction()

	s.mockCartRepo.EXPECT().FindCartByID(gomock.Any(), int64(10)).
		Return(&domain.Cart{ID: 10, UserID: 2}, nil)

	summary, err := s.orderService.Checkout(context.Background(), 1, 10)

	s.Nil(summary)
	s.ErrorIs(err, domain.ErrOwnerConflict)
}

func (s *OrderServiceTestSuite) TestCheckoutEmptyCart() {
	s.expectTransaction()

	s.mockCartRepo.EXPECT().FindCartByID(gomock.Any(), int64(10)).
		Return(&domain.Cart{ID: 10, UserID: 1}, nil)
	s.mockCartRepo.EXPECT().GetItems(gomock.Any(), int64(10)).
		Return([]domain.CartItem{}, nil)

	summary, err := s.orderService.Checkout(context.Background(), 1, 10)

	s.Nil(summary)
	s.ErrorIs(err, domain.ErrCartEmpty)
}

func (s *OrderServiceTestSuite) TestCheckoutStockShortfall() {
	s.expectTransaction()

	// Две позиции одного товара: по отдельности каждая проходит по остатку,
	// суммарно - нет.
	items := []domain.CartItem{
		{ID: 1, CartID: 10, ProductID: 100, Quantity: 3},
		{ID: 2, CartID: 10, ProductID: 100, Quantity: 3},
	}

	s.mockCartRepo.EXPECT().FindCartByID(gomock.Any(), int64(10)).
		Return(&domain.Cart{ID: 10, UserID: 1}, nil)
	s.mockCartRepo.EXPECT().GetItems(gomock.Any(), int64(10)).
		Return(items, nil)
	s.mockProductRepo.EXPECT().FindProductsByIDs(gomock.Any(), []int64{100, 100}).
		Return([]domain.Product{
			{ID: 100, Name: "widget", Price: decimal.NewFromInt(50), Stock: 5},
		}, nil)

	summary, err := s.orderService.Checkout(context.Background(), 1, 10)

	s.Nil(summary)
	s.ErrorIs(err, domain.ErrNotEnoughStock)

	var stockErr *domain.StockInsufficientError
	s.Require().ErrorAs(err, &stockErr)
	s.Equal(int64(100), stockErr.ProductID)
}

func (s *OrderServiceTestSuite) TestCheckoutVanishedProduct() {
	s.expectTransaction()

	s.mockCartRepo.EXPECT().FindCartByID(gomock.Any(), int64(10)).
		Return(&domain.Cart{ID: 10, UserID: 1}, nil)
	s.mockCartRepo.EXPECT().GetItems(gomock.Any(), int64(10)).
		Return([]domain.CartItem{{ID: 1, CartID: 10, ProductID: 100, Quantity: 1}}, nil)
	// Товар удален между добавлением в корзину и чекаутом.
	s.mockProductRepo.EXPECT().FindProductsByIDs(gomock.Any(), []int64{100}).
		Return([]domain.Product{}, nil)

	summary, err := s.orderService.Checkout(context.Background(), 1, 10)

	s.Nil(summary)

	var notFoundErr *domain.EntityNotFoundError
	s.Require().ErrorAs(err, &notFoundErr)
	s.Equal(domain.EntityProduct, notFoundErr.Kind)
}

func (s *OrderServiceTestSuite) TestCheckoutBalanceShortfall() {
	s.expectTransaction()

	s.mockCartRepo.EXPECT().FindCartByID(gomock.Any(), int64(10)).
		Return(&domain.Cart{ID: 10, UserID: 1}, nil)
	s.mockCartRepo.EXPECT().GetItems(gomock.Any(), int64(10)).
		Return([]domain.CartItem{{ID: 1, CartID: 10, ProductID: 100, Quantity: 2}}, nil)
	s.mockProductRepo.EXPECT().FindProductsByIDs(gomock.Any(), []int64{100}).
		Return([]domain.Product{
			{ID: 100, Name: "widget", Price: decimal.NewFromInt(60), Stock: 10},
		}, nil)
	s.mockUserRepo.EXPECT().FindUserByID(gomock.Any(), int64(1)).
		Return(&domain.User{ID: 1, Balance: decimal.NewFromInt(100)}, nil)

	summary, err := s.orderService.Checkout(context.Background(), 1, 10)

	s.Nil(summary)
	s.ErrorIs(err, domain.ErrNotEnoughBalance)
}

func (s *OrderServiceTestSuite) TestCheckoutStockRaceAtCommit() {
	s.expectTransaction()

	s.mockCartRepo.EXPECT().FindCartByID(gomock.Any(), int64(10)).
		Return(&domain.Cart{ID: 10, UserID: 1}, nil)
	s.mockCartRepo.EXPECT().GetItems(gomock.Any(), int64(10)).
		Return([]domain.CartItem{{ID: 1, CartID: 10, ProductID: 100, Quantity: 2}}, nil)
	s.mockProductRepo.EXPECT().FindProductsByIDs(gomock.Any(), []int64{100}).
		Return([]domain.Product{
			{ID: 100, Name: "widget", Price: decimal.NewFromInt(10), Stock: 2},
		}, nil)
	s.mockUserRepo.EXPECT().FindUserByID(gomock.Any(), int64(1)).
		Return(&domain.User{ID: 1, Balance: decimal.NewFromInt(1000)}, nil)
	// Конкурентный чекаут успел списать остаток первым: условное обновление
	// не затронуло ни одной строки.
	s.mockProductRepo.EXPECT().DecrementStock(gomock.Any(), int64(100), int32(2)).
		Return(domain.NewStockInsufficientError(100))

	summary, err := s.orderService.Checkout(context.Background(), 1, 10)

	s.Nil(summary)
	s.ErrorIs(err, domain.ErrNotEnoughStock)
}

func (s *OrderServiceTestSuite) TestCheckoutSuccess() {
	s.expectTransaction()

	var buyerID int64 = 1
	var cartID int64 = 10
	now := time.Now()

	items := []domain.CartItem{
		{ID: 1, CartID: cartID, ProductID: 100, Quantity: 2},
		{ID: 2, CartID: cartID, ProductID: 200, Quantity: 1},
	}
	products := []domain.Product{
		{ID: 100, Name: "widget", Price: decimal.NewFromInt(50), Stock: 5},
		{ID: 200, Name: "gadget", Price: decimal.NewFromInt(30), Stock: 1},
	}
	// 2*50 + 1*30
	total := decimal.NewFromInt(130)

	createdOrder := domain.Order{ID: 7, CreatedAt: now, UserID: buyerID, TotalPrice: total}

	s.mockCartRepo.EXPECT().FindCartByID(gomock.Any(), cartID).
		Return(&domain.Cart{ID: cartID, UserID: buyerID}, nil)
	s.mockCartRepo.EXPECT().GetItems(gomock.Any(), cartID).
		Return(items, nil)
	s.mockProductRepo.EXPECT().FindProductsByIDs(gomock.Any(), []int64{100, 200}).
		Return(products, nil)
	s.mockUserRepo.EXPECT().FindUserByID(gomock.Any(), buyerID).
		Return(&domain.User{ID: buyerID, Balance: decimal.NewFromInt(200)}, nil)

	s.mockProductRepo.EXPECT().DecrementStock(gomock.Any(), int64(100), int32(2)).Return(nil)
	s.mockProductRepo.EXPECT().DecrementStock(gomock.Any(), int64(200), int32(1)).Return(nil)

	s.mockOrderRepo.EXPECT().
		CreateOrder(gomock.Any(), buyerID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, totalPrice decimal.Decimal) (*domain.Order, error) {
			s.True(totalPrice.Equal(total))
			return &createdOrder, nil
		})

	s.mockOrderRepo.EXPECT().
		BatchCreateItems(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, itemArgs []repoargs.OrderItemCreate, fn repoargs.OrderItemBatchQueryRow) {
			// Позиции заказа несут цену из снимка, а не повторное чтение товара.
			s.Require().Len(itemArgs, 2)
			s.Equal(int64(7), itemArgs[0].OrderID)
			s.Equal(int64(100), itemArgs[0].ProductID)
			s.Equal(int32(2), itemArgs[0].Quantity)
			s.True(itemArgs[0].PriceAtPurchase.Equal(decimal.NewFromInt(50)))
			s.Equal(int64(200), itemArgs[1].ProductID)
			s.True(itemArgs[1].PriceAtPurchase.Equal(decimal.NewFromInt(30)))
			for i := range itemArgs {
				fn(i, nil)
			}
		})

	s.mockUserRepo.EXPECT().
		DebitBalance(gomock.Any(), buyerID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, amount decimal.Decimal) error {
			s.True(amount.Equal(total))
			return nil
		})

	s.mockCartRepo.EXPECT().DeleteItemsByCartID(gomock.Any(), cartID).Return(nil)
	s.mockCartRepo.EXPECT().DeleteCart(gomock.Any(), cartID).Return(nil)

	summary, err := s.orderService.Checkout(context.Background(), buyerID, cartID)

	s.Require().NoError(err)
	s.Equal(int64(7), summary.OrderID)
	s.True(summary.TotalPrice.Equal(total))
	s.Equal(now, summary.CreatedAt)
}

func (s *OrderServiceTestSuite) TestCheckoutOrderInsertFailureRollsBack() {
	s.expectTransaction()

	var buyerID int64 = 1
	var cartID int64 = 10

	s.mockCartRepo.EXPECT().FindCartByID(gomock.Any(), cartID).
		Return(&domain.Cart{ID: cartID, UserID: buyerID}, nil)
	s.mockCartRepo.EXPECT().GetItems(gomock.Any(), cartID).
		Return([]domain.CartItem{{ID: 1, CartID: cartID, ProductID: 100, Quantity: 1}}, nil)
	s.mockProductRepo.EXPECT().FindProductsByIDs(gomock.Any(), []int64{100}).
		Return([]domain.Product{{ID: 100, Price: decimal.NewFromInt(10), Stock: 1}}, nil)
	s.mockUserRepo.EXPECT().FindUserByID(gomock.Any(), buyerID).
		Return(&domain.User{ID: buyerID, Balance: decimal.NewFromInt(10)}, nil)
	s.mockProductRepo.EXPECT().DecrementStock(gomock.Any(), int64(100), int32(1)).Return(nil)

	insertErr := errors.New("insert failed")
	s.mockOrderRepo.EXPECT().CreateOrder(gomock.Any(), buyerID, gomock.Any()).
		Return(nil, insertErr)

	// До списания баланса и сноса корзины дело не доходит: ошибка коммита
	// откатывает транзакцию целиком.
	summary, err := s.orderService.Checkout(context.Background(), buyerID, cartID)

	s.Nil(summary)
	s.ErrorIs(err, insertErr)
}

func (s *OrderServiceTestSuite) TestCheckoutTeardownFailureRollsBack() {
	s.expectTransaction()

	var buyerID int64 = 1
	var cartID int64 = 10

	s.mockCartRepo.EXPECT().FindCartByID(gomock.Any(), cartID).
		Return(&domain.Cart{ID: cartID, UserID: buyerID}, nil)
	s.mockCartRepo.EXPECT().GetItems(gomock.Any(), cartID).
		Return([]domain.CartItem{{ID: 1, CartID: cartID, ProductID: 100, Quantity: 1}}, nil)
	s.mockProductRepo.EXPECT().FindProductsByIDs(gomock.Any(), []int64{100}).
		Return([]domain.Product{{ID: 100, Price: decimal.NewFromInt(10), Stock: 1}}, nil)
	s.mockUserRepo.EXPECT().FindUserByID(gomock.Any(), buyerID).
		Return(&domain.User{ID: buyerID, Balance: decimal.NewFromInt(10)}, nil)
	s.mockProductRepo.EXPECT().DecrementStock(gomock.Any(), int64(100), int32(1)).Return(nil)
	s.mockOrderRepo.EXPECT().CreateOrder(gomock.Any(), buyerID, gomock.Any()).
		Return(&domain.Order{ID: 7, UserID: buyerID, TotalPrice: decimal.NewFromInt(10)}, nil)
	s.mockOrderRepo.EXPECT().
		BatchCreateItems(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, itemArgs []repoargs.OrderItemCreate, fn repoargs.OrderItemBatchQueryRow) {
			for i := range itemArgs {
				fn(i, nil)
			}
		})
	s.mockUserRepo.EXPECT().DebitBalance(gomock.Any(), buyerID, gomock.Any()).Return(nil)

	teardownErr := errors.New("delete failed")
	s.mockCartRepo.EXPECT().DeleteItemsByCartID(gomock.Any(), cartID).Return(teardownErr)

	summary, err := s.orderService.Checkout(context.Background(), buyerID, cartID)

	s.Nil(summary)
	s.ErrorIs(err, teardownErr)
}

func (s *OrderServiceTestSuite) TestItemsOwnerConflict() {
	order := domain.Order{ID: 7, UserID: 2, TotalPrice: decimal.NewFromInt(10)}

	s.mockOrderRepo.EXPECT().FindOrderByID(gomock.Any(), int64(7)).
		Return(&order, nil).Times(2)
	s.mockOrderRepo.EXPECT().GetItemsByOrderID(gomock.Any(), int64(7)).
		Return([]domain.OrderItem{}, nil)

	_, err := s.orderService.Items(context.Background(), Requester{UserID: 1, Role: domain.RoleUser}, 7)
	s.ErrorIs(err, domain.ErrOwnerConflict)

	// Админ проходит проверку владения.
	_, adminErr := s.orderService.Items(context.Background(), Requester{UserID: 1, Role: domain.RoleAdmin}, 7)
	s.NoError(adminErr)
}
