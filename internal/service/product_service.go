package service

import (
	"context"

	"github.com/fsdevblog/groph-shop/internal/domain"
	"github.com/fsdevblog/groph-shop/internal/repository/repoargs"
	"github.com/fsdevblog/groph-shop/pkg/uow"
)

type ProductService struct {
	uow         uow.UOW
	productRepo ProductRepository
}

func NewProductService(u uow.UOW) (*ProductService, error) {
	rName := uow.RepositoryName(repoargs.ProductRepoName)
	productRepo, productRepoErr := uow.GetRepositoryAs[ProductRepository](u, rName)
	if productRepoErr != nil {
		return nil, productRepoErr
	}
	return &ProductService{
		uow:         u,
		productRepo: productRepo,
	}, nil
}

func (p *ProductService) GetAll(ctx context.Context) ([]domain.Product, error) {
	products, err := p.productRepo.GetAll(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return products, nil
}

func (p *ProductService) GetByID(ctx context.Context, productID int64) (*domain.Product, error) {
	product, err := p.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return product, nil
}

func (p *ProductService) Create(ctx context.Context, args repoargs.CreateProduct) (*domain.Product, error) {
	product, err := p.productRepo.CreateProduct(ctx, args)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return product, nil
}

func (p *ProductService) Update(ctx context.Context, args repoargs.UpdateProduct) (*domain.Product, error) {
	product, err := p.productRepo.UpdateProduct(ctx, args)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return product, nil
}

func (p *ProductService) Delete(ctx context.Context, productID int64) error {
	return p.productRepo.DeleteProduct(ctx, productID) //nolint:wrapcheck
}

// IsEnough проверяет, хватает ли остатка товара на запрошенное количество. Проверка
// информационная: гарантию дает только условное списание в момент чекаута.
func (p *ProductService) IsEnough(ctx context.Context, productID int64, qty int32) (bool, error) {
	product, err := p.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		return false, err //nolint:wrapcheck
	}
	return product.Stock >= qty, nil
}
