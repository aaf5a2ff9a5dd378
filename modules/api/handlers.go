package api

import (
	"math"
	"strconv"
	"strings"

	"github.com/0x-70da/horus-shop/modules/auth"
	"github.com/0x-70da/horus-shop/modules/cart"
	"github.com/0x-70da/horus-shop/modules/catalog"
	"github.com/0x-70da/horus-shop/modules/wishlist"
	"github.com/gofiber/fiber/v2"
)

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	catalog  catalog.CatalogPort
	cart     cart.CartPort
	wishlist wishlist.WishlistPort
	auth     auth.AuthPort
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(catalogPort catalog.CatalogPort, cartPort cart.CartPort, wishlistPort wishlist.WishlistPort, authPort auth.AuthPort) *Handlers {
	return &Handlers{
		catalog:  catalogPort,
		cart:     cartPort,
		wishlist: wishlistPort,
		auth:     authPort,
	}
}

// Sessions

// CreateSession handles POST /api/v1/sessions.
func (h *Handlers) CreateSession(c *fiber.Ctx) error {
	sess, err := h.auth.CreateSession(c.UserContext())
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sess)
}

// Catalog

// ListProducts handles GET /products.
func (h *Handlers) ListProducts(c *fiber.Ctx) error {
	req, err := parseListQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
	}

	resp, err := h.catalog.ListProducts(c.UserContext(), req)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(resp)
}

// GetProduct handles GET /products/:id.
func (h *Handlers) GetProduct(c *fiber.Ctx) error {
	product, err := h.catalog.GetProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(fiber.Map{"product": product})
}

// GetProductBySlug handles GET /products/slug/:slug.
func (h *Handlers) GetProductBySlug(c *fiber.Ctx) error {
	product, err := h.catalog.GetProductBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(fiber.Map{"product": product})
}

// ListReviews handles GET /products/:id/reviews.
func (h *Handlers) ListReviews(c *fiber.Ctx) error {
	reviews, err := h.catalog.ListReviews(c.UserContext(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(fiber.Map{
		"reviews": reviews,
		"total":   len(reviews),
	})
}

// UpdatePrice handles PUT /products/:id/price.
func (h *Handlers) UpdatePrice(c *fiber.Ctx) error {
	var req PriceRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	resp, err := h.catalog.UpdatePrice(c.UserContext(), c.Params("id"), *req.Price)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(resp)
}

// Search handles GET /search.
func (h *Handlers) Search(c *fiber.Ctx) error {
	products, err := h.catalog.SearchProducts(c.UserContext(), c.Query("q"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(fiber.Map{
		"query":    c.Query("q"),
		"products": products,
		"total":    len(products),
	})
}

// ListCategories handles GET /categories.
func (h *Handlers) ListCategories(c *fiber.Ctx) error {
	categories, err := h.catalog.ListCategories(c.UserContext())
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(fiber.Map{"categories": categories})
}

// GetCategory handles GET /categories/:slug.
func (h *Handlers) GetCategory(c *fiber.Ctx) error {
	resp, err := h.catalog.GetCategory(c.UserContext(), c.Params("slug"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(resp)
}

// ListBrands handles GET /brands.
func (h *Handlers) ListBrands(c *fiber.Ctx) error {
	brands, err := h.catalog.ListBrands(c.UserContext())
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(fiber.Map{"brands": brands})
}

// GetCollection handles GET /collections/:name.
func (h *Handlers) GetCollection(c *fiber.Ctx) error {
	resp, err := h.catalog.ListCollection(c.UserContext(), c.Params("name"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(resp)
}

// Cart

// GetCart handles GET /cart.
func (h *Handlers) GetCart(c *fiber.Ctx) error {
	view, err := h.cart.GetCart(c.UserContext(), sessionID(c))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(cart.CartResponse{Cart: *view})
}

// AddCartItem handles POST /cart/items. Quantity defaults to 1.
func (h *Handlers) AddCartItem(c *fiber.Ctx) error {
	var req AddCartItemRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	view, err := h.cart.AddItem(c.UserContext(), &cart.AddItemRequest{
		SessionID: sessionID(c),
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Quantity:  quantity,
	})
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(cart.CartResponse{Cart: *view})
}

// UpdateCartItem handles PATCH /cart/items/:productId.
func (h *Handlers) UpdateCartItem(c *fiber.Ctx) error {
	var req UpdateCartItemRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	view, err := h.cart.UpdateQuantity(c.UserContext(), &cart.UpdateQuantityRequest{
		SessionID: sessionID(c),
		ProductID: c.Params("productId"),
		VariantID: req.VariantID,
		Quantity:  *req.Quantity,
	})
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(cart.CartResponse{Cart: *view})
}

// RemoveCartItem handles DELETE /cart/items/:productId.
func (h *Handlers) RemoveCartItem(c *fiber.Ctx) error {
	view, err := h.cart.RemoveItem(c.UserContext(), sessionID(c), c.Params("productId"), c.Query("variant_id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(cart.CartResponse{Cart: *view})
}

// ClearCart handles DELETE /cart.
func (h *Handlers) ClearCart(c *fiber.Ctx) error {
	view, err := h.cart.ClearCart(c.UserContext(), sessionID(c))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(cart.CartResponse{Cart: *view})
}

// ApplyPromo handles POST /cart/promo. Unknown codes answer 200 with
// applied=false and an unchanged cart.
func (h *Handlers) ApplyPromo(c *fiber.Ctx) error {
	var req PromoRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	view, applied, err := h.cart.ApplyPromo(c.UserContext(), sessionID(c), req.Code)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(cart.CartResponse{Cart: *view, Applied: &applied})
}

// RemovePromo handles DELETE /cart/promo.
func (h *Handlers) RemovePromo(c *fiber.Ctx) error {
	view, err := h.cart.RemovePromo(c.UserContext(), sessionID(c))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(cart.CartResponse{Cart: *view})
}

// Wishlist

// GetWishlist handles GET /wishlist.
func (h *Handlers) GetWishlist(c *fiber.Ctx) error {
	view, err := h.wishlist.GetWishlist(c.UserContext(), sessionID(c))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(wishlist.WishlistResponse{Wishlist: *view})
}

// AddWishlistItem handles POST /wishlist/items.
func (h *Handlers) AddWishlistItem(c *fiber.Ctx) error {
	var req WishlistItemRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	resp, err := h.wishlist.Add(c.UserContext(), sessionID(c), req.ProductID)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(resp)
}

// ToggleWishlistItem handles POST /wishlist/items/:productId/toggle.
func (h *Handlers) ToggleWishlistItem(c *fiber.Ctx) error {
	resp, err := h.wishlist.Toggle(c.UserContext(), sessionID(c), c.Params("productId"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(resp)
}

// RefreshWishlistItem handles POST /wishlist/items/:productId/refresh.
func (h *Handlers) RefreshWishlistItem(c *fiber.Ctx) error {
	view, err := h.wishlist.RefreshProduct(c.UserContext(), sessionID(c), c.Params("productId"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(wishlist.WishlistResponse{Wishlist: *view})
}

// RemoveWishlistItem handles DELETE /wishlist/items/:productId.
func (h *Handlers) RemoveWishlistItem(c *fiber.Ctx) error {
	view, err := h.wishlist.Remove(c.UserContext(), sessionID(c), c.Params("productId"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(wishlist.WishlistResponse{Wishlist: *view})
}

// ClearWishlist handles DELETE /wishlist.
func (h *Handlers) ClearWishlist(c *fiber.Ctx) error {
	view, err := h.wishlist.Clear(c.UserContext(), sessionID(c))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(wishlist.WishlistResponse{Wishlist: *view})
}

// Auth

// GetAuth handles GET /auth.
func (h *Handlers) GetAuth(c *fiber.Ctx) error {
	resp, err := h.auth.GetAuth(c.UserContext(), sessionID(c))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(resp)
}

// Login handles POST /auth/login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	resp, err := h.auth.Login(c.UserContext(), &auth.LoginRequest{
		SessionID: sessionID(c),
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(resp)
}

// Register handles POST /auth/register.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	resp, err := h.auth.Register(c.UserContext(), &auth.RegisterRequest{
		SessionID: sessionID(c),
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Logout handles POST /auth/logout.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	resp, err := h.auth.Logout(c.UserContext(), sessionID(c))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(resp)
}

// UpdateProfile handles PATCH /auth/profile.
func (h *Handlers) UpdateProfile(c *fiber.Ctx) error {
	var req ProfileRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	resp, err := h.auth.UpdateProfile(c.UserContext(), &auth.UpdateProfileRequest{
		SessionID: sessionID(c),
		Profile:   req.ToUpdate(),
	})
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(resp)
}

// AddAddress handles POST /auth/addresses.
func (h *Handlers) AddAddress(c *fiber.Ctx) error {
	var req AddressRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	resp, err := h.auth.AddAddress(c.UserContext(), &auth.AddressRequest{
		SessionID: sessionID(c),
		Address:   req.ToAddress(""),
	})
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// UpdateAddress handles PUT /auth/addresses/:id.
func (h *Handlers) UpdateAddress(c *fiber.Ctx) error {
	var req AddressRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	resp, err := h.auth.UpdateAddress(c.UserContext(), &auth.AddressRequest{
		SessionID: sessionID(c),
		Address:   req.ToAddress(c.Params("id")),
	})
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(resp)
}

// RemoveAddress handles DELETE /auth/addresses/:id.
func (h *Handlers) RemoveAddress(c *fiber.Ctx) error {
	resp, err := h.auth.RemoveAddress(c.UserContext(), sessionID(c), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(resp)
}

// Orders

// ListOrders handles GET /orders for the signed-in user.
func (h *Handlers) ListOrders(c *fiber.Ctx) error {
	userID, err := h.currentUserID(c)
	if err != nil {
		return handleError(c, err)
	}

	orders, err := h.catalog.ListOrders(c.UserContext(), userID)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(fiber.Map{
		"orders": orders,
		"total":  len(orders),
	})
}

// GetOrder handles GET /orders/:id. The id may also be an order number.
func (h *Handlers) GetOrder(c *fiber.Ctx) error {
	userID, err := h.currentUserID(c)
	if err != nil {
		return handleError(c, err)
	}

	order, err := h.catalog.GetOrder(c.UserContext(), c.Params("id"), userID)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(fiber.Map{"order": order})
}

func (h *Handlers) currentUserID(c *fiber.Ctx) (string, error) {
	resp, err := h.auth.GetAuth(c.UserContext(), sessionID(c))
	if err != nil {
		return "", err
	}
	if !resp.Auth.IsAuthenticated || resp.Auth.User == nil {
		return "", auth.ErrNotAuthenticated
	}
	return resp.Auth.User.ID, nil
}

// parseListQuery reads the listing query string. Multi-value dimensions
// accept comma-separated values.
func parseListQuery(c *fiber.Ctx) (*catalog.ListProductsRequest, error) {
	req := &catalog.ListProductsRequest{
		Query:         c.Query("q"),
		Categories:    splitList(c.Query("category")),
		Subcategories: splitList(c.Query("subcategory")),
		Brands:        splitList(c.Query("brand")),
		Tags:          splitList(c.Query("tag")),
		Sort:          c.Query("sort"),
		InStockOnly:   c.QueryBool("in_stock", false),
		Offset:        c.QueryInt("offset", 0),
		Limit:         c.QueryInt("limit", 0),
	}

	var err error
	if req.MinPrice, err = queryFloat(c, "min_price"); err != nil {
		return nil, err
	}
	if req.MaxPrice, err = queryFloat(c, "max_price"); err != nil {
		return nil, err
	}
	if req.MinRating, err = queryFloat(c, "min_rating"); err != nil {
		return nil, err
	}
	if req.Offset < 0 || req.Limit < 0 {
		return nil, errInvalidPaging
	}
	return req, nil
}

var errInvalidPaging = fiber.NewError(fiber.StatusBadRequest, "offset and limit must not be negative")

func queryFloat(c *fiber.Ctx, key string) (*float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fiber.NewError(fiber.StatusBadRequest, key+" must be a number")
	}
	return &v, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
