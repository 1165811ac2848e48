package service

import (
	"context"

	"github.com/fsdevblog/groph-shop/internal/domain"
	"github.com/fsdevblog/groph-shop/internal/repository/repoargs"
	"github.com/fsdevblog/groph-shop/pkg/uow"
	"github.com/shopspring/decimal"
)

// Requester идентифицирует инициатора запроса. Роль берется из jwt клейма и нужна
// для правила "владелец или админ".
type Requester struct {
	UserID int64
	Role   domain.RoleType
}

func (r Requester) IsAdmin() bool {
	return r.Role == domain.RoleAdmin
}

type CartService struct {
	uow         uow.UOW
	cartRepo    CartRepository
	productRepo ProductRepository
}

func NewCartService(u uow.UOW) (*CartService, error) {
	cartRepo, cartRepoErr := uow.GetRepositoryAs[CartRepository](u, uow.RepositoryName(repoargs.CartRepoName))
	if cartRepoErr != nil {
		return nil, cartRepoErr
	}
	rName := uow.RepositoryName(repoargs.ProductRepoName)
	productRepo, productRepoErr := uow.GetRepositoryAs[ProductRepository](u, rName)
	if productRepoErr != nil {
		return nil, productRepoErr
	}
	return &CartService{
		uow:         u,
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}, nil
}

// GetCartForUser возвращает корзину юзера. Корзина заводится при регистрации и удаляется
// чекаутом, так что между успешным чекаутом и следующим Provision корзины может не быть.
func (s *CartService) GetCartForUser(ctx context.Context, userID int64) (*domain.Cart, error) {
	cart, err := s.cartRepo.FindCartByUserID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return cart, nil
}

// Provision заводит юзеру новую пустую корзину.
func (s *CartService) Provision(ctx context.Context, userID int64) (*domain.Cart, error) {
	cart, err := s.cartRepo.CreateCart(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return cart, nil
}

func (s *CartService) GetCart(ctx context.Context, requester Requester, cartID int64) (*domain.Cart, error) {
	return s.authorizedCart(ctx, requester, cartID)
}

func (s *CartService) Items(ctx context.Context, requester Requester, cartID int64) ([]domain.CartItem, error) {
	if _, err := s.authorizedCart(ctx, requester, cartID); err != nil {
		return nil, err
	}
	items, err := s.cartRepo.GetItems(ctx, cartID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return items, nil
}

type AddCartItemArgs struct {
	CartID    int64
	ProductID int64
	Quantity  int32
}

// AddItem добавляет позицию в корзину. Количество сверяется с текущим остатком товара,
// но не резервирует его: окончательная проверка происходит при чекауте.
func (s *CartService) AddItem(ctx context.Context, requester Requester, args AddCartItemArgs) (*domain.CartItem, error) {
	if _, err := s.authorizedCart(ctx, requester, args.CartID); err != nil {
		return nil, err
	}

	product, productErr := s.productRepo.FindProductByID(ctx, args.ProductID)
	if productErr != nil {
		return nil, productErr //nolint:wrapcheck
	}
	if product.Stock < args.Quantity {
		return nil, domain.NewStockInsufficientError(product.ID)
	}

	item, err := s.cartRepo.AddItem(ctx, repoargs.CreateCartItem{
		CartID:    args.CartID,
		ProductID: args.ProductID,
		Quantity:  args.Quantity,
	})
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return item, nil
}

// UpdateItem меняет количество в существующей позиции корзины.
func (s *CartService) UpdateItem(
	ctx context.Context,
	requester Requester,
	cartItemID int64,
	quantity int32,
) (*domain.CartItem, error) {
	item, itemErr := s.cartRepo.FindItemByID(ctx, cartItemID)
	if itemErr != nil {
		return nil, itemErr //nolint:wrapcheck
	}
	if _, err := s.authorizedCart(ctx, requester, item.CartID); err != nil {
		return nil, err
	}

	product, productErr := s.productRepo.FindProductByID(ctx, item.ProductID)
	if productErr != nil {
		return nil, productErr //nolint:wrapcheck
	}
	if product.Stock < quantity {
		return nil, domain.NewStockInsufficientError(product.ID)
	}

	updated, err := s.cartRepo.UpdateItem(ctx, repoargs.UpdateCartItem{ID: cartItemID, Quantity: quantity})
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return updated, nil
}

func (s *CartService) DeleteItem(ctx context.Context, requester Requester, cartItemID int64) error {
	item, itemErr := s.cartRepo.FindItemByID(ctx, cartItemID)
	if itemErr != nil {
		return itemErr //nolint:wrapcheck
	}
	if _, err := s.authorizedCart(ctx, requester, item.CartID); err != nil {
		return err
	}
	return s.cartRepo.DeleteItem(ctx, cartItemID) //nolint:wrapcheck
}

// Total считает стоимость корзины на лету: сумма quantity * текущая цена товара.
// Итог нигде не кешируется.
func (s *CartService) Total(ctx context.Context, requester Requester, cartID int64) (decimal.Decimal, error) {
	if _, err := s.authorizedCart(ctx, requester, cartID); err != nil {
		return decimal.Zero, err
	}

	items, itemsErr := s.cartRepo.GetItems(ctx, cartID)
	if itemsErr != nil {
		return decimal.Zero, itemsErr //nolint:wrapcheck
	}
	if len(items) == 0 {
		return decimal.Zero, nil
	}

	products, productsErr := s.productRepo.FindProductsByIDs(ctx, productIDsOf(items))
	if productsErr != nil {
		return decimal.Zero, productsErr //nolint:wrapcheck
	}
	priceByID := make(map[int64]decimal.Decimal, len(products))
	for _, product := range products {
		priceByID[product.ID] = product.Price
	}

	total := decimal.Zero
	for _, item := range items {
		price, ok := priceByID[item.ProductID]
		if !ok {
			return decimal.Zero, domain.NewEntityNotFoundError(domain.EntityProduct, item.ProductID)
		}
		total = total.Add(price.Mul(decimal.NewFromInt32(item.Quantity)))
	}
	return total, nil
}

// authorizedCart загружает корзину и проверяет право доступа: владелец либо админ.
func (s *CartService) authorizedCart(ctx context.Context, requester Requester, cartID int64) (*domain.Cart, error) {
	cart, err := s.cartRepo.FindCartByID(ctx, cartID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if cart.UserID != requester.UserID && !requester.IsAdmin() {
		return nil, domain.ErrOwnerConflict
	}
	return cart, nil
}

func productIDsOf(items []domain.CartItem) []int64 {
	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}
	return ids
}
