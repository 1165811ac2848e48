package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fsdevblog/groph-shop/internal/domain"
	"github.com/fsdevblog/groph-shop/internal/repository/repoargs"
	"github.com/fsdevblog/groph-shop/pkg/uow"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type OrderService struct {
	uow       uow.UOW
	orderRepo OrderRepository
	l         *logrus.Logger
}

func NewOrderService(u uow.UOW, l *logrus.Logger) (*OrderService, error) {
	orderRepo, err := uow.GetRepositoryAs[OrderRepository](u, uow.RepositoryName(repoargs.OrderRepoName))
	if err != nil {
		return nil, err
	}
	return &OrderService{
		uow:       u,
		orderRepo: orderRepo,
		l:         l,
	}, nil
}

// lineSnapshot снимок одной позиции корзины, сделанный в начале чекаута. Цена берется из
// товара ровно один раз и используется и для проверки баланса, и для price_at_purchase,
// чтобы сумма к списанию не могла разойтись с записанной в заказ.
type lineSnapshot struct {
	ProductID int64
	Quantity  int32
	Price     decimal.Decimal
}

// Checkout превращает корзину в заказ. Все пять шагов - чтение корзины, валидация остатков,
// валидация баланса, коммит (списание остатков, создание заказа и его позиций, списание
// баланса) и удаление корзины - выполняются в одной транзакции: либо применяется все,
// либо ничего.
//
// Помимо предварительной валидации, списание остатка и баланса выполняется условными
// обновлениями. Конкурентный чекаут, успевший списать остаток первым, обнаружится по нулю
// затронутых строк и вернется как StockInsufficientError уже на этапе коммита; транзакция
// при этом откатится целиком.
//
// Возвращаемые ошибки: domain.ErrCartEmpty, domain.ErrNotEnoughBalance,
// *domain.StockInsufficientError, *domain.EntityNotFoundError, domain.ErrOwnerConflict.
// Все прочее - сбой коммита, состояние БД не меняется.
func (s *OrderService) Checkout(ctx context.Context, buyerID, cartID int64) (*domain.OrderSummary, error) {
	var summary *domain.OrderSummary

	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		repos, reposErr := checkoutRepos(tx)
		if reposErr != nil {
			return reposErr
		}

		items, itemsErr := s.readCartItems(c, repos.carts, buyerID, cartID)
		if itemsErr != nil {
			return itemsErr
		}

		lines, total, snapErr := s.snapshotLines(c, repos.products, items)
		if snapErr != nil {
			return snapErr
		}

		if err := s.validateBalance(c, repos.users, buyerID, total); err != nil {
			return err
		}

		order, commitErr := s.commit(c, repos, buyerID, lines, total)
		if commitErr != nil {
			return commitErr
		}

		if err := s.teardownCart(c, repos.carts, cartID); err != nil {
			// Заказ уже materialized внутри транзакции; откат всего чекаута - единственный
			// способ не оставить заказ без снесенной корзины.
			s.l.WithError(err).WithField("cartID", cartID).
				Error("cart teardown failed after commit, rolling back checkout")
			return err
		}

		summary = &domain.OrderSummary{
			OrderID:    order.ID,
			TotalPrice: order.TotalPrice,
			CreatedAt:  order.CreatedAt,
		}
		return nil
	})

	if txErr != nil {
		if isCheckoutFailure(txErr) {
			return nil, txErr
		}
		return nil, fmt.Errorf("checkout: %w", txErr)
	}
	return summary, nil
}

type checkoutRepoSet struct {
	users    UserRepository
	products ProductRepository
	carts    CartRepository
	orders   OrderRepository
}

func checkoutRepos(tx uow.TX) (*checkoutRepoSet, error) {
	users, usersErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
	if usersErr != nil {
		return nil, usersErr //nolint:wrapcheck
	}
	products, productsErr := uow.GetAs[ProductRepository](tx, uow.RepositoryName(repoargs.ProductRepoName))
	if productsErr != nil {
		return nil, productsErr //nolint:wrapcheck
	}
	carts, cartsErr := uow.GetAs[CartRepository](tx, uow.RepositoryName(repoargs.CartRepoName))
	if cartsErr != nil {
		return nil, cartsErr //nolint:wrapcheck
	}
	orders, ordersErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
	if ordersErr != nil {
		return nil, ordersErr //nolint:wrapcheck
	}
	return &checkoutRepoSet{users: users, products: products, carts: carts, orders: orders}, nil
}

// readCartItems загружает корзину, проверяет владение и возвращает ее позиции.
// Пустая корзина отклоняется с ErrCartEmpty.
func (s *OrderService) readCartItems(
	ctx context.Context,
	carts CartRepository,
	buyerID, cartID int64,
) ([]domain.CartItem, error) {
	cart, cartErr := carts.FindCartByID(ctx, cartID)
	if cartErr != nil {
		if errors.Is(cartErr, domain.ErrRecordNotFound) {
			return nil, domain.NewEntityNotFoundError(domain.EntityCart, cartID)
		}
		return nil, cartErr //nolint:wrapcheck
	}
	if cart.UserID != buyerID {
		return nil, domain.ErrOwnerConflict
	}

	items, itemsErr := carts.GetItems(ctx, cartID)
	if itemsErr != nil {
		return nil, itemsErr //nolint:wrapcheck
	}
	if len(items) == 0 {
		return nil, domain.ErrCartEmpty
	}
	return items, nil
}

// snapshotLines загружает товары корзины одним запросом, снимает с них цену и проверяет
// достаточность остатков: суммарное запрошенное количество по каждому товару не должно
// превышать его текущий остаток. Возвращает снимки позиций и итоговую сумму.
func (s *OrderService) snapshotLines(
	ctx context.Context,
	products ProductRepository,
	items []domain.CartItem,
) ([]lineSnapshot, decimal.Decimal, error) {
	found, findErr := products.FindProductsByIDs(ctx, productIDsOf(items))
	if findErr != nil {
		return nil, decimal.Zero, findErr //nolint:wrapcheck
	}
	productByID := make(map[int64]domain.Product, len(found))
	for _, product := range found {
		productByID[product.ID] = product
	}

	requested := make(map[int64]int32, len(items))
	for _, item := range items {
		requested[item.ProductID] += item.Quantity
	}

	lines := make([]lineSnapshot, len(items))
	total := decimal.Zero
	for i, item := range items {
		product, ok := productByID[item.ProductID]
		if !ok {
			return nil, decimal.Zero, domain.NewEntityNotFoundError(domain.EntityProduct, item.ProductID)
		}
		if requested[item.ProductID] > product.Stock {
			return nil, decimal.Zero, domain.NewStockInsufficientError(product.ID)
		}
		lines[i] = lineSnapshot{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     product.Price,
		}
		total = total.Add(product.Price.Mul(decimal.NewFromInt32(item.Quantity)))
	}
	return lines, total, nil
}

func (s *OrderService) validateBalance(
	ctx context.Context,
	users UserRepository,
	buyerID int64,
	total decimal.Decimal,
) error {
	buyer, buyerErr := users.FindUserByID(ctx, buyerID)
	if buyerErr != nil {
		if errors.Is(buyerErr, domain.ErrRecordNotFound) {
			return domain.NewEntityNotFoundError(domain.EntityUser, buyerID)
		}
		return buyerErr //nolint:wrapcheck
	}
	if buyer.Balance.LessThan(total) {
		return domain.ErrNotEnoughBalance
	}
	return nil
}

// commit выполняет шаги секвенсора: условно списывает остатки, создает заказ и его позиции
// со снятой ценой, условно списывает баланс. Любая ошибка откатывает транзакцию целиком.
func (s *OrderService) commit(
	ctx context.Context,
	repos *checkoutRepoSet,
	buyerID int64,
	lines []lineSnapshot,
	total decimal.Decimal,
) (*domain.Order, error) {
	for _, req := range aggregateQuantities(lines) {
		if err := repos.products.DecrementStock(ctx, req.ProductID, req.Quantity); err != nil {
			return nil, err //nolint:wrapcheck
		}
	}

	order, orderErr := repos.orders.CreateOrder(ctx, buyerID, total)
	if orderErr != nil {
		return nil, orderErr //nolint:wrapcheck
	}

	itemArgs := make([]repoargs.OrderItemCreate, len(lines))
	for i, line := range lines {
		itemArgs[i] = repoargs.OrderItemCreate{
			OrderID:         order.ID,
			ProductID:       line.ProductID,
			Quantity:        line.Quantity,
			PriceAtPurchase: line.Price,
		}
	}
	var itemsErr error
	repos.orders.BatchCreateItems(ctx, itemArgs, func(_ int, err error) {
		if err != nil {
			itemsErr = err
		}
	})
	if itemsErr != nil {
		return nil, itemsErr
	}

	if err := repos.users.DebitBalance(ctx, buyerID, total); err != nil {
		return nil, err //nolint:wrapcheck
	}
	return order, nil
}

// teardownCart удаляет потребленные позиции и саму корзину, отвязывая ее от юзера.
func (s *OrderService) teardownCart(ctx context.Context, carts CartRepository, cartID int64) error {
	if err := carts.DeleteItemsByCartID(ctx, cartID); err != nil {
		return err //nolint:wrapcheck
	}
	return carts.DeleteCart(ctx, cartID) //nolint:wrapcheck
}

type stockRequirement struct {
	ProductID int64
	Quantity  int32
}

// aggregateQuantities сводит позиции к суммарному списанию по каждому товару,
// сохраняя порядок первого появления.
func aggregateQuantities(lines []lineSnapshot) []stockRequirement {
	index := make(map[int64]int, len(lines))
	var reqs []stockRequirement
	for _, line := range lines {
		if i, ok := index[line.ProductID]; ok {
			reqs[i].Quantity += line.Quantity
			continue
		}
		index[line.ProductID] = len(reqs)
		reqs = append(reqs, stockRequirement{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	return reqs
}

// isCheckoutFailure отличает типизированные отказы чекаута от инфраструктурных сбоев.
func isCheckoutFailure(err error) bool {
	return errors.Is(err, domain.ErrCartEmpty) ||
		errors.Is(err, domain.ErrNotEnoughBalance) ||
		errors.Is(err, domain.ErrNotEnoughStock) ||
		errors.Is(err, domain.ErrRecordNotFound) ||
		errors.Is(err, domain.ErrOwnerConflict)
}

func (s *OrderService) GetAll(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.orderRepo.GetAll(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return orders, nil
}

// GetByUserID возвращает заказы юзера отсортированные по дате создания по убыванию.
func (s *OrderService) GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error) {
	orders, err := s.orderRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return orders, nil
}

func (s *OrderService) GetByID(ctx context.Context, requester Requester, orderID int64) (*domain.Order, error) {
	order, err := s.orderRepo.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if order.UserID != requester.UserID && !requester.IsAdmin() {
		return nil, domain.ErrOwnerConflict
	}
	return order, nil
}

// Items возвращает позиции заказа. Доступ - владелец заказа либо админ.
func (s *OrderService) Items(ctx context.Context, requester Requester, orderID int64) ([]domain.OrderItem, error) {
	if _, err := s.GetByID(ctx, requester, orderID); err != nil {
		return nil, err
	}
	items, err := s.orderRepo.GetItemsByOrderID(ctx, orderID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return items, nil
}
