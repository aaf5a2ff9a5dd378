package catalog

import (
	"strings"
	"time"
)

// Catalog is a read-only snapshot of every catalog collection.
type Catalog struct {
	Products    []Product
	Categories  []Category
	Brands      []Brand
	Reviews     []Review
	Orders      []Order
	Banners     []PromoBanner
	FlashDeals  []FlashDeal
	byID        map[string]int
	bySlug      map[string]int
	categoryIdx map[string]int
}

// New builds a Catalog and its lookup indexes. Flash deals are resolved
// against the product list; deals pointing at unknown products are dropped.
func New(products []Product, categories []Category, brands []Brand, reviews []Review, orders []Order, banners []PromoBanner, deals []FlashDeal) *Catalog {
	c := &Catalog{
		Products:    products,
		Categories:  categories,
		Brands:      brands,
		Reviews:     reviews,
		Orders:      orders,
		Banners:     banners,
		byID:        make(map[string]int, len(products)),
		bySlug:      make(map[string]int, len(products)),
		categoryIdx: make(map[string]int, len(categories)),
	}
	for i, p := range products {
		c.byID[p.ID] = i
		c.bySlug[p.Slug] = i
	}
	for i, cat := range categories {
		c.categoryIdx[cat.Slug] = i
	}
	for _, d := range deals {
		p, ok := c.ProductByID(d.ProductID)
		if !ok {
			continue
		}
		d.Product = p
		c.FlashDeals = append(c.FlashDeals, d)
	}
	return c
}

// ProductByID looks a product up by its opaque id.
func (c *Catalog) ProductByID(id string) (Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Product{}, false
	}
	return c.Products[i], true
}

// ProductBySlug looks a product up by its URL slug.
func (c *Catalog) ProductBySlug(slug string) (Product, bool) {
	i, ok := c.bySlug[slug]
	if !ok {
		return Product{}, false
	}
	return c.Products[i], true
}

// ProductsByCategory returns the products of a category in catalog order.
func (c *Catalog) ProductsByCategory(slug string) []Product {
	return c.filter(func(p Product) bool { return p.Category == slug })
}

// CategoryBySlug looks a category up by slug.
func (c *Catalog) CategoryBySlug(slug string) (Category, bool) {
	i, ok := c.categoryIdx[slug]
	if !ok {
		return Category{}, false
	}
	return c.Categories[i], true
}

// BrandBySlug looks a brand up by slug.
func (c *Catalog) BrandBySlug(slug string) (Brand, bool) {
	for _, b := range c.Brands {
		if b.Slug == slug {
			return b, true
		}
	}
	return Brand{}, false
}

// Search returns products whose name, description, brand or any tag
// contains query, ignoring case. An empty query matches everything.
func (c *Catalog) Search(query string) []Product {
	return Search(c.Products, query)
}

// Search is the slice form of Catalog.Search.
func Search(products []Product, query string) []Product {
	q := strings.ToLower(query)
	result := make([]Product, 0)
	for _, p := range products {
		if matchesQuery(p, q) {
			result = append(result, p)
		}
	}
	return result
}

func matchesQuery(p Product, lowerQuery string) bool {
	if strings.Contains(strings.ToLower(p.Name), lowerQuery) ||
		strings.Contains(strings.ToLower(p.Description), lowerQuery) ||
		strings.Contains(strings.ToLower(p.Brand), lowerQuery) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), lowerQuery) {
			return true
		}
	}
	return false
}

// Featured returns products flagged as featured.
func (c *Catalog) Featured() []Product {
	return c.filter(func(p Product) bool { return p.Featured })
}

// BestSellers returns products flagged as best sellers.
func (c *Catalog) BestSellers() []Product {
	return c.filter(func(p Product) bool { return p.BestSeller })
}

// NewArrivals returns products flagged as new arrivals.
func (c *Catalog) NewArrivals() []Product {
	return c.filter(func(p Product) bool { return p.NewArrival })
}

// ReviewsByProduct returns the reviews written for a product.
func (c *Catalog) ReviewsByProduct(productID string) []Review {
	result := make([]Review, 0)
	for _, r := range c.Reviews {
		if r.ProductID == productID {
			result = append(result, r)
		}
	}
	return result
}

// OrdersByUser returns the orders placed by a user.
func (c *Catalog) OrdersByUser(userID string) []Order {
	result := make([]Order, 0)
	for _, o := range c.Orders {
		if o.UserID == userID {
			result = append(result, o)
		}
	}
	return result
}

// OrderByID looks an order up by id or by its human-readable order number.
func (c *Catalog) OrderByID(id string) (Order, bool) {
	for _, o := range c.Orders {
		if o.ID == id || o.OrderNumber == id {
			return o, true
		}
	}
	return Order{}, false
}

// ActiveFlashDeals returns deals whose window contains now.
func (c *Catalog) ActiveFlashDeals(now time.Time) []FlashDeal {
	result := make([]FlashDeal, 0)
	for _, d := range c.FlashDeals {
		if !now.Before(d.StartDate) && !now.After(d.EndDate) {
			result = append(result, d)
		}
	}
	return result
}

// ActiveBanners returns banners without an end date or not yet expired.
func (c *Catalog) ActiveBanners(now time.Time) []PromoBanner {
	result := make([]PromoBanner, 0)
	for _, b := range c.Banners {
		if b.EndDate == nil || !now.After(*b.EndDate) {
			result = append(result, b)
		}
	}
	return result
}

func (c *Catalog) filter(keep func(Product) bool) []Product {
	result := make([]Product, 0)
	for _, p := range c.Products {
		if keep(p) {
			result = append(result, p)
		}
	}
	return result
}
