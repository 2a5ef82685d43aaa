package impl

import (
	"context"
	"log/slog"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	fallbackPageSize = 20
	fallbackMaxPage  = 100
)

// catalogService implements the CatalogUsecase interface.
type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	reviewRepo   repository.ReviewRepository

	defaultPageSize int
	maxPageSize     int
	logger          *slog.Logger
}

// CatalogServiceParams holds dependencies for catalogService, injected by Fx.
type CatalogServiceParams struct {
	fx.In

	ProductRepo  repository.ProductRepository
	CategoryRepo repository.CategoryRepository
	ReviewRepo   repository.ReviewRepository
	Config       *config.Config
	Logger       *slog.Logger
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(params CatalogServiceParams) usecase.CatalogUsecase {
	defaultPageSize := fallbackPageSize
	maxPageSize := fallbackMaxPage
	if params.Config != nil && params.Config.Catalog != nil {
		if params.Config.Catalog.DefaultPageSize > 0 {
			defaultPageSize = params.Config.Catalog.DefaultPageSize
		}
		if params.Config.Catalog.MaxPageSize > 0 {
			maxPageSize = params.Config.Catalog.MaxPageSize
		}
	}

	return &catalogService{
		productRepo:     params.ProductRepo,
		categoryRepo:    params.CategoryRepo,
		reviewRepo:      params.ReviewRepo,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
		logger:          params.Logger,
	}
}

func (srv *catalogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// normalizePaging clamps the requested page window into configured bounds.
func (srv *catalogService) normalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = srv.defaultPageSize
	}
	if pageSize > srv.maxPageSize {
		pageSize = srv.maxPageSize
	}

	return page, pageSize
}

// ListProducts returns a page of the catalog, optionally narrowed to one
// category. With SellerOnly set it instead returns the caller's own products
// for the seller dashboard, which requires the admin role.
func (srv *catalogService) ListProducts(ctx context.Context, principal entity.Principal, input *usecase.ListProductsInput) (*usecase.ProductListOutput, error) {
	page, pageSize := srv.normalizePaging(input.Page, input.PageSize)

	query := repository.ProductListQuery{
		CategoryID: input.CategoryID,
		Limit:      pageSize,
		Offset:     (page - 1) * pageSize,
	}
	if input.SellerOnly {
		if !principal.IsAdmin() {
			return nil, domainerrors.ErrForbidden.WrapMessage("seller listing requires the admin role")
		}
		sellerID := principal.UserID
		query.SellerID = &sellerID
	}

	products, total, err := srv.productRepo.List(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return &usecase.ProductListOutput{
		Products: products,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// GetProduct returns a product together with its reviews.
func (srv *catalogService) GetProduct(ctx context.Context, productID uuid.UUID) (*usecase.ProductDetailOutput, error) {
	product, err := srv.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound.WrapMessage("product not found")
		}

		return nil, errors.Wrap(err, "failed to find product")
	}

	reviews, err := srv.reviewRepo.FindByProductID(ctx, productID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load product reviews")
	}

	return &usecase.ProductDetailOutput{Product: product, Reviews: reviews}, nil
}

// CreateProduct creates a product owned by the calling seller. Admin only.
func (srv *catalogService) CreateProduct(ctx context.Context, principal entity.Principal, input *usecase.CreateProductInput) (*entity.Product, error) {
	if !principal.IsAdmin() {
		return nil, domainerrors.ErrForbidden.WrapMessage("only admins may create products")
	}

	if input.CategoryID != nil {
		if _, err := srv.categoryRepo.FindByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return nil, domainerrors.ErrCategoryNotFound.WrapMessage("category not found")
			}

			return nil, errors.Wrap(err, "failed to find category")
		}
	}

	product := &entity.Product{
		ID:          uuid.New(),
		SellerID:    principal.UserID,
		CategoryID:  input.CategoryID,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		ImageURL:    input.ImageURL,
	}

	if err := srv.productRepo.Create(ctx, product); err != nil {
		return nil, errors.Wrap(err, "failed to create product")
	}

	srv.log(ctx).Info("Product created", slog.Any("productID", product.ID), slog.Any("sellerID", principal.UserID))

	return product, nil
}

// UpdateProduct applies a partial update to a product owned by the caller.
func (srv *catalogService) UpdateProduct(ctx context.Context, principal entity.Principal, productID uuid.UUID, input *usecase.UpdateProductInput) (*entity.Product, error) {
	product, err := srv.ownedProduct(ctx, principal, productID)
	if err != nil {
		return nil, err
	}

	if input.CategoryID != nil {
		if _, err := srv.categoryRepo.FindByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return nil, domainerrors.ErrCategoryNotFound.WrapMessage("category not found")
			}

			return nil, errors.Wrap(err, "failed to find category")
		}
		product.CategoryID = input.CategoryID
	}
	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, domainerrors.ErrValidationFailed.WrapMessage("price must not be negative")
		}
		product.Price = *input.Price
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, domainerrors.ErrValidationFailed.WrapMessage("stock must not be negative")
		}
		product.Stock = *input.Stock
	}
	if input.ImageURL != nil {
		product.ImageURL = *input.ImageURL
	}

	if err := srv.productRepo.Update(ctx, product); err != nil {
		return nil, errors.Wrap(err, "failed to update product")
	}

	srv.log(ctx).Info("Product updated", slog.Any("productID", product.ID))

	return product, nil
}

// DeleteProduct removes a product owned by the caller. Existing order items
// keep their frozen name and price, so past orders are unaffected.
func (srv *catalogService) DeleteProduct(ctx context.Context, principal entity.Principal, productID uuid.UUID) error {
	product, err := srv.ownedProduct(ctx, principal, productID)
	if err != nil {
		return err
	}

	if err := srv.productRepo.Delete(ctx, product.ID); err != nil {
		return errors.Wrap(err, "failed to delete product")
	}

	srv.log(ctx).Info("Product deleted", slog.Any("productID", product.ID))

	return nil
}

// ownedProduct loads a product and checks the caller may manage it.
func (srv *catalogService) ownedProduct(ctx context.Context, principal entity.Principal, productID uuid.UUID) (*entity.Product, error) {
	if !principal.IsAdmin() {
		return nil, domainerrors.ErrForbidden.WrapMessage("only admins may manage products")
	}

	product, err := srv.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound.WrapMessage("product not found")
		}

		return nil, errors.Wrap(err, "failed to find product")
	}

	if product.SellerID != principal.UserID {
		return nil, domainerrors.ErrProductOwnershipViolation.WrapMessage("product belongs to another seller")
	}

	return product, nil
}

// ListCategories returns every category.
func (srv *catalogService) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	categories, err := srv.categoryRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}

	return categories, nil
}

// CreateCategory creates a category. Admin only.
func (srv *catalogService) CreateCategory(ctx context.Context, principal entity.Principal, input *usecase.CreateCategoryInput) (*entity.Category, error) {
	if !principal.IsAdmin() {
		return nil, domainerrors.ErrForbidden.WrapMessage("only admins may create categories")
	}

	category := &entity.Category{
		ID:   uuid.New(),
		Name: input.Name,
	}
	if err := srv.categoryRepo.Create(ctx, category); err != nil {
		return nil, errors.Wrap(err, "failed to create category")
	}

	srv.log(ctx).Info("Category created", slog.Any("categoryID", category.ID), slog.String("name", category.Name))

	return category, nil
}

// DeleteCategory removes a category, detaching its products. Admin only.
func (srv *catalogService) DeleteCategory(ctx context.Context, principal entity.Principal, categoryID uuid.UUID) error {
	if !principal.IsAdmin() {
		return domainerrors.ErrForbidden.WrapMessage("only admins may delete categories")
	}

	if _, err := srv.categoryRepo.FindByID(ctx, categoryID); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return domainerrors.ErrCategoryNotFound.WrapMessage("category not found")
		}

		return errors.Wrap(err, "failed to find category")
	}

	if err := srv.categoryRepo.Delete(ctx, categoryID); err != nil {
		return errors.Wrap(err, "failed to delete category")
	}

	srv.log(ctx).Info("Category deleted", slog.Any("categoryID", categoryID))

	return nil
}
