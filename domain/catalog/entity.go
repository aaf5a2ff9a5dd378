// Package catalog holds the storefront's read-only product data and the pure
// query, search and listing functions over it.
package catalog

import "time"

// ProductSpec is a single name/value line of a product's specification sheet.
type ProductSpec struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// ProductVariant is a purchasable configuration of a product.
// When selected, its price and stock supersede the parent product's.
type ProductVariant struct {
	ID       string  `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Color    string  `json:"color,omitempty" yaml:"color"`
	ColorHex string  `json:"colorHex,omitempty" yaml:"colorHex"`
	Storage  string  `json:"storage,omitempty" yaml:"storage"`
	Price    float64 `json:"price" yaml:"price"`
	Stock    int     `json:"stock" yaml:"stock"`
	Image    string  `json:"image,omitempty" yaml:"image"`
}

// Product is a catalog entry.
type Product struct {
	ID               string           `json:"id" yaml:"id"`
	Name             string           `json:"name" yaml:"name"`
	Slug             string           `json:"slug" yaml:"slug"`
	Description      string           `json:"description" yaml:"description"`
	ShortDescription string           `json:"shortDescription" yaml:"shortDescription"`
	Price            float64          `json:"price" yaml:"price"`
	OriginalPrice    *float64         `json:"originalPrice,omitempty" yaml:"originalPrice"`
	Images           []string         `json:"images" yaml:"images"`
	Category         string           `json:"category" yaml:"category"`
	Subcategory      string           `json:"subcategory,omitempty" yaml:"subcategory"`
	Brand            string           `json:"brand" yaml:"brand"`
	Rating           float64          `json:"rating" yaml:"rating"`
	ReviewCount      int              `json:"reviewCount" yaml:"reviewCount"`
	Stock            int              `json:"stock" yaml:"stock"`
	Specs            []ProductSpec    `json:"specs" yaml:"specs"`
	Variants         []ProductVariant `json:"variants,omitempty" yaml:"variants"`
	Tags             []string         `json:"tags" yaml:"tags"`
	Featured         bool             `json:"featured,omitempty" yaml:"featured"`
	BestSeller       bool             `json:"bestSeller,omitempty" yaml:"bestSeller"`
	NewArrival       bool             `json:"newArrival,omitempty" yaml:"newArrival"`
	CreatedAt        time.Time        `json:"createdAt" yaml:"createdAt"`
}

// Variant returns the variant with the given id.
func (p Product) Variant(id string) (ProductVariant, bool) {
	for _, v := range p.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return ProductVariant{}, false
}

// EffectivePrice returns the unit price for the product, or for the
// selected variant when one is given.
func (p Product) EffectivePrice(v *ProductVariant) float64 {
	if v != nil {
		return v.Price
	}
	return p.Price
}

// InStock reports availability. Variant stock supersedes the parent's.
func (p Product) InStock() bool {
	if len(p.Variants) == 0 {
		return p.Stock > 0
	}
	for _, v := range p.Variants {
		if v.Stock > 0 {
			return true
		}
	}
	return false
}

// Subcategory is a child grouping inside a category.
type Subcategory struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Slug         string `json:"slug" yaml:"slug"`
	ProductCount int    `json:"productCount" yaml:"productCount"`
}

// Category is a top-level product grouping.
type Category struct {
	ID            string        `json:"id" yaml:"id"`
	Name          string        `json:"name" yaml:"name"`
	Slug          string        `json:"slug" yaml:"slug"`
	Description   string        `json:"description" yaml:"description"`
	Image         string        `json:"image" yaml:"image"`
	Icon          string        `json:"icon" yaml:"icon"`
	Subcategories []Subcategory `json:"subcategories" yaml:"subcategories"`
	ProductCount  int           `json:"productCount" yaml:"productCount"`
	Featured      bool          `json:"featured,omitempty" yaml:"featured"`
}

// Brand is a product manufacturer.
type Brand struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Slug         string `json:"slug" yaml:"slug"`
	Logo         string `json:"logo" yaml:"logo"`
	ProductCount int    `json:"productCount" yaml:"productCount"`
}

// Review is a customer review of a product.
type Review struct {
	ID         string    `json:"id" yaml:"id"`
	ProductID  string    `json:"productId" yaml:"productId"`
	UserID     string    `json:"userId" yaml:"userId"`
	UserName   string    `json:"userName" yaml:"userName"`
	UserAvatar string    `json:"userAvatar,omitempty" yaml:"userAvatar"`
	Rating     int       `json:"rating" yaml:"rating"`
	Title      string    `json:"title" yaml:"title"`
	Comment    string    `json:"comment" yaml:"comment"`
	Helpful    int       `json:"helpful" yaml:"helpful"`
	Verified   bool      `json:"verified" yaml:"verified"`
	CreatedAt  time.Time `json:"createdAt" yaml:"createdAt"`
}

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

// Order statuses.
const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
	OrderReturned   OrderStatus = "returned"
)

// OrderItem is a line of a placed order.
type OrderItem struct {
	ProductID    string  `json:"productId" yaml:"productId"`
	ProductName  string  `json:"productName" yaml:"productName"`
	ProductImage string  `json:"productImage" yaml:"productImage"`
	Quantity     int     `json:"quantity" yaml:"quantity"`
	Price        float64 `json:"price" yaml:"price"`
	Variant      string  `json:"variant,omitempty" yaml:"variant"`
}

// OrderAddress is the shipping address copied onto an order.
type OrderAddress struct {
	ID           string `json:"id" yaml:"id"`
	FullName     string `json:"fullName" yaml:"fullName"`
	AddressLine1 string `json:"addressLine1" yaml:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty" yaml:"addressLine2"`
	City         string `json:"city" yaml:"city"`
	State        string `json:"state" yaml:"state"`
	ZipCode      string `json:"zipCode" yaml:"zipCode"`
	Country      string `json:"country" yaml:"country"`
	Phone        string `json:"phone" yaml:"phone"`
}

// TrackingEvent is one step of a shipment's history.
type TrackingEvent struct {
	Date        time.Time `json:"date" yaml:"date"`
	Status      string    `json:"status" yaml:"status"`
	Location    string    `json:"location" yaml:"location"`
	Description string    `json:"description" yaml:"description"`
}

// Order is a placed order with its tracking history.
type Order struct {
	ID                string          `json:"id" yaml:"id"`
	OrderNumber       string          `json:"orderNumber" yaml:"orderNumber"`
	UserID            string          `json:"userId" yaml:"userId"`
	Items             []OrderItem     `json:"items" yaml:"items"`
	Status            OrderStatus     `json:"status" yaml:"status"`
	Subtotal          float64         `json:"subtotal" yaml:"subtotal"`
	Shipping          float64         `json:"shipping" yaml:"shipping"`
	Tax               float64         `json:"tax" yaml:"tax"`
	Total             float64         `json:"total" yaml:"total"`
	ShippingAddress   OrderAddress    `json:"shippingAddress" yaml:"shippingAddress"`
	PaymentMethod     string          `json:"paymentMethod" yaml:"paymentMethod"`
	TrackingNumber    string          `json:"trackingNumber,omitempty" yaml:"trackingNumber"`
	TrackingEvents    []TrackingEvent `json:"trackingEvents,omitempty" yaml:"trackingEvents"`
	EstimatedDelivery *time.Time      `json:"estimatedDelivery,omitempty" yaml:"estimatedDelivery"`
	CreatedAt         time.Time       `json:"createdAt" yaml:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt" yaml:"updatedAt"`
}

// PromoBanner is a marketing banner shown on the storefront.
type PromoBanner struct {
	ID              string     `json:"id" yaml:"id"`
	Title           string     `json:"title" yaml:"title"`
	Subtitle        string     `json:"subtitle" yaml:"subtitle"`
	Description     string     `json:"description" yaml:"description"`
	Image           string     `json:"image" yaml:"image"`
	CTAText         string     `json:"ctaText" yaml:"ctaText"`
	CTALink         string     `json:"ctaLink" yaml:"ctaLink"`
	BackgroundColor string     `json:"backgroundColor" yaml:"backgroundColor"`
	EndDate         *time.Time `json:"endDate,omitempty" yaml:"endDate"`
}

// FlashDeal is a time-boxed discount on a single product.
type FlashDeal struct {
	ID              string    `json:"id" yaml:"id"`
	ProductID       string    `json:"productId" yaml:"productId"`
	Product         Product   `json:"product" yaml:"-"`
	DiscountPercent float64   `json:"discountPercent" yaml:"discountPercent"`
	StartDate       time.Time `json:"startDate" yaml:"startDate"`
	EndDate         time.Time `json:"endDate" yaml:"endDate"`
}
