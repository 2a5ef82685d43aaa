package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/delivery/http/response"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ProductHandler holds dependencies for catalog handlers.
type ProductHandler struct {
	uc usecase.CatalogUsecase
}

// NewProductHandler is the constructor for ProductHandler, injected by Fx.
func NewProductHandler(uc usecase.CatalogUsecase) *ProductHandler {
	return &ProductHandler{
		uc: uc,
	}
}

// ListProducts handles the public catalog listing.
// Supported query parameters: category_id, page, page_size.
func (h *ProductHandler) ListProducts(c echo.Context) error {
	input := &usecase.ListProductsInput{
		Page:     intQueryParam(c, "page", 1),
		PageSize: intQueryParam(c, "page_size", 0),
	}

	if raw := c.QueryParam("category_id"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			return response.BadRequest(c, "INVALID_INPUT", "Invalid category ID")
		}
		input.CategoryID = &categoryID
	}

	output, err := h.uc.ListProducts(c.Request().Context(), principalOrAnonymous(c), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Products retrieved successfully")
}

// ListOwnProducts handles the seller dashboard listing. Admin only.
func (h *ProductHandler) ListOwnProducts(c echo.Context) error {
	principal, ok := principalFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	input := &usecase.ListProductsInput{
		SellerOnly: true,
		Page:       intQueryParam(c, "page", 1),
		PageSize:   intQueryParam(c, "page_size", 0),
	}

	output, err := h.uc.ListProducts(c.Request().Context(), principal, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Products retrieved successfully")
}

// GetProduct handles the product detail request, reviews included.
func (h *ProductHandler) GetProduct(c echo.Context) error {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid product ID")
	}

	output, err := h.uc.GetProduct(c.Request().Context(), productID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Product retrieved successfully")
}

// CreateProduct handles product creation. Admin only.
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	principal, ok := principalFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var input *usecase.CreateProductInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product input")
	}
	if err := c.Validate(input); err != nil {
		return err
	}

	product, err := h.uc.CreateProduct(c.Request().Context(), principal, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Created(c, product, "Product created successfully")
}

// UpdateProduct handles a partial product update. Admin only.
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	principal, ok := principalFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid product ID")
	}

	var input *usecase.UpdateProductInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product input")
	}
	if err := c.Validate(input); err != nil {
		return err
	}

	product, err := h.uc.UpdateProduct(c.Request().Context(), principal, productID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product, "Product updated successfully")
}

// DeleteProduct handles product deletion. Admin only.
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	principal, ok := principalFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid product ID")
	}

	if err := h.uc.DeleteProduct(c.Request().Context(), principal, productID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Product deleted"}, "Product deleted successfully")
}

// ListCategories handles the public category listing.
func (h *ProductHandler) ListCategories(c echo.Context) error {
	categories, err := h.uc.ListCategories(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, categories, "Categories retrieved successfully")
}

// CreateCategory handles category creation. Admin only.
func (h *ProductHandler) CreateCategory(c echo.Context) error {
	principal, ok := principalFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var input *usecase.CreateCategoryInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid category input")
	}
	if err := c.Validate(input); err != nil {
		return err
	}

	category, err := h.uc.CreateCategory(c.Request().Context(), principal, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Created(c, category, "Category created successfully")
}

// DeleteCategory handles category deletion. Admin only.
func (h *ProductHandler) DeleteCategory(c echo.Context) error {
	principal, ok := principalFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid category ID")
	}

	if err := h.uc.DeleteCategory(c.Request().Context(), principal, categoryID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Category deleted"}, "Category deleted successfully")
}

// intQueryParam parses an integer query parameter, falling back on absence or garbage.
func intQueryParam(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return value
}
