package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fsdevblog/groph-shop/internal/domain"
	"github.com/fsdevblog/groph-shop/internal/invoice"
	"github.com/fsdevblog/groph-shop/internal/repository/repoargs"
	"github.com/fsdevblog/groph-shop/pkg/uow"
	"github.com/shopspring/decimal"
)

type InvoiceService struct {
	uow         uow.UOW
	orderRepo   OrderRepository
	userRepo    UserRepository
	productRepo ProductRepository
}

func NewInvoiceService(u uow.UOW) (*InvoiceService, error) {
	orderRepo, orderRepoErr := uow.GetRepositoryAs[OrderRepository](u, uow.RepositoryName(repoargs.OrderRepoName))
	if orderRepoErr != nil {
		return nil, orderRepoErr
	}
	userRepo, userRepoErr := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr
	}
	rName := uow.RepositoryName(repoargs.ProductRepoName)
	productRepo, productRepoErr := uow.GetRepositoryAs[ProductRepository](u, rName)
	if productRepoErr != nil {
		return nil, productRepoErr
	}
	return &InvoiceService{
		uow:         u,
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		productRepo: productRepo,
	}, nil
}

// BuildInvoice собирает данные счета по заказу. Сумма счета пересчитывается из
// price_at_purchase позиций, а не берется из заказа: для корректного заказа значения
// совпадают, расхождение означало бы поврежденные данные.
func (s *InvoiceService) BuildInvoice(
	ctx context.Context,
	requester Requester,
	orderID int64,
) (*invoice.Invoice, error) {
	order, orderErr := s.orderRepo.FindOrderByID(ctx, orderID)
	if orderErr != nil {
		if errors.Is(orderErr, domain.ErrRecordNotFound) {
			return nil, domain.NewEntityNotFoundError(domain.EntityOrder, orderID)
		}
		return nil, orderErr //nolint:wrapcheck
	}
	if order.UserID != requester.UserID && !requester.IsAdmin() {
		return nil, domain.ErrOwnerConflict
	}

	buyer, buyerErr := s.userRepo.FindUserByID(ctx, order.UserID)
	if buyerErr != nil {
		return nil, buyerErr //nolint:wrapcheck
	}

	items, itemsErr := s.orderRepo.GetItemsByOrderID(ctx, orderID)
	if itemsErr != nil {
		return nil, itemsErr //nolint:wrapcheck
	}

	nameByID, namesErr := s.productNames(ctx, items)
	if namesErr != nil {
		return nil, namesErr
	}

	lines := make([]invoice.Line, len(items))
	total := decimal.Zero
	for i, item := range items {
		lineTotal := item.PriceAtPurchase.Mul(decimal.NewFromInt32(item.Quantity))
		lines[i] = invoice.Line{
			ProductName:     nameByID[item.ProductID],
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase,
			LineTotal:       lineTotal,
		}
		total = total.Add(lineTotal)
	}

	return &invoice.Invoice{
		Number:       fmt.Sprintf("INV_%d", order.ID),
		Date:         order.CreatedAt.Format(time.DateOnly),
		BuyerName:    buyer.Username,
		BuyerAddress: buyer.Address,
		Lines:        lines,
		TotalPrice:   total,
	}, nil
}

// GeneratePDF собирает счет и отдает его в виде pdf документа.
func (s *InvoiceService) GeneratePDF(ctx context.Context, requester Requester, orderID int64) ([]byte, error) {
	inv, err := s.BuildInvoice(ctx, requester, orderID)
	if err != nil {
		return nil, err
	}
	pdf, pdfErr := invoice.RenderPDF(inv)
	if pdfErr != nil {
		return nil, fmt.Errorf("generating invoice pdf: %w", pdfErr)
	}
	return pdf, nil
}

func (s *InvoiceService) productNames(ctx context.Context, items []domain.OrderItem) (map[int64]string, error) {
	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}
	products, err := s.productRepo.FindProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	nameByID := make(map[int64]string, len(products))
	for _, product := range products {
		nameByID[product.ID] = product.Name
	}
	return nameByID, nil
}
