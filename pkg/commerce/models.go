package commerce

import (
	"net/mail"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection names.
const (
	UsersCollection      = "users"
	ProductsCollection   = "products"
	VariantsCollection   = "product_variants"
	CategoriesCollection = "categories"
	OrdersCollection     = "orders"
)

// User is a registered account. The password hash is stored but never serialized.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"`
}

// SignupRequest is the signup payload.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Normalize trims the name and lower-cases the email.
func (r *SignupRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r SignupRequest) Validate() error {
	errs := fieldErrors{}
	if r.Name == "" {
		errs.add("name", "is required")
	}
	if r.Email == "" {
		errs.add("email", "is required")
	} else if addr, err := mail.ParseAddress(r.Email); err != nil || addr.Address != r.Email {
		errs.add("email", "must be a valid email address")
	}
	if r.Password == "" {
		errs.add("password", "is required")
	}
	return errs.err()
}

// Product is a catalog entry.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description *string            `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64            `bson:"price" json:"price"`
	Category    string             `bson:"category" json:"category"`
	Tags        []string           `bson:"tags" json:"tags"`
	Stock       int                `bson:"stock" json:"stock"`
	IsActive    bool               `bson:"is_active" json:"is_active"`
}

// ProductInput is the create payload. IsActive defaults to true.
type ProductInput struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Stock       *int     `json:"stock"`
	IsActive    *bool    `json:"is_active"`
}

func (p ProductInput) Validate() error {
	errs := fieldErrors{}
	if strings.TrimSpace(p.Name) == "" {
		errs.add("name", "is required")
	}
	if strings.TrimSpace(p.Category) == "" {
		errs.add("category", "is required")
	}
	requireNonNegativeFloat(errs, "price", p.Price, true)
	requireNonNegativeInt(errs, "stock", p.Stock, true)
	return errs.err()
}

func (p ProductInput) product() Product {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	active := true
	if p.IsActive != nil {
		active = *p.IsActive
	}
	return Product{
		Name:        p.Name,
		Description: p.Description,
		Price:       *p.Price,
		Category:    p.Category,
		Tags:        tags,
		Stock:       *p.Stock,
		IsActive:    active,
	}
}

// ProductUpdate is a partial product update. Nil fields are left unchanged.
type ProductUpdate struct {
	Name        *string  `json:"name" bson:"name"`
	Description *string  `json:"description" bson:"description"`
	Price       *float64 `json:"price" bson:"price"`
	Category    *string  `json:"category" bson:"category"`
	Tags        []string `json:"tags" bson:"tags"`
	Stock       *int     `json:"stock" bson:"stock"`
	IsActive    *bool    `json:"is_active" bson:"is_active"`
}

func (u ProductUpdate) Validate() error {
	errs := fieldErrors{}
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		errs.add("name", "must not be empty")
	}
	if u.Category != nil && strings.TrimSpace(*u.Category) == "" {
		errs.add("category", "must not be empty")
	}
	requireNonNegativeFloat(errs, "price", u.Price, false)
	requireNonNegativeInt(errs, "stock", u.Stock, false)
	return errs.err()
}

// Variant is a purchasable variation of a product.
type Variant struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID   primitive.ObjectID `bson:"productId" json:"productId"`
	Color       string             `bson:"color" json:"color"`
	Size        *string            `bson:"size" json:"size"`
	SKU         *string            `bson:"sku" json:"sku"`
	Price       float64            `bson:"price" json:"price"`
	Stock       int                `bson:"stock" json:"stock"`
	IsAvailable bool               `bson:"isAvailable" json:"isAvailable"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// VariantInput is the create payload. IsAvailable defaults to true.
type VariantInput struct {
	ProductID   string   `json:"productId"`
	Color       string   `json:"color"`
	Size        *string  `json:"size"`
	SKU         *string  `json:"sku"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	IsAvailable *bool    `json:"isAvailable"`
}

func (v VariantInput) Validate() error {
	errs := fieldErrors{}
	if v.ProductID == "" {
		errs.add("productId", "is required")
	}
	if strings.TrimSpace(v.Color) == "" {
		errs.add("color", "is required")
	}
	requireNonNegativeFloat(errs, "price", v.Price, true)
	requireNonNegativeInt(errs, "stock", v.Stock, true)
	return errs.err()
}

func (v VariantInput) variant(productID primitive.ObjectID, now time.Time) Variant {
	available := true
	if v.IsAvailable != nil {
		available = *v.IsAvailable
	}
	return Variant{
		ProductID:   productID,
		Color:       v.Color,
		Size:        v.Size,
		SKU:         v.SKU,
		Price:       *v.Price,
		Stock:       *v.Stock,
		IsAvailable: available,
		CreatedAt:   now,
	}
}

// VariantUpdate is a partial variant update.
type VariantUpdate struct {
	Color       *string  `json:"color" bson:"color"`
	Size        *string  `json:"size" bson:"size"`
	SKU         *string  `json:"sku" bson:"sku"`
	Price       *float64 `json:"price" bson:"price"`
	Stock       *int     `json:"stock" bson:"stock"`
	IsAvailable *bool    `json:"isAvailable" bson:"isAvailable"`
}

func (u VariantUpdate) Validate() error {
	errs := fieldErrors{}
	if u.Color != nil && strings.TrimSpace(*u.Color) == "" {
		errs.add("color", "must not be empty")
	}
	requireNonNegativeFloat(errs, "price", u.Price, false)
	requireNonNegativeInt(errs, "stock", u.Stock, false)
	return errs.err()
}

// VariantUpdateItem addresses one variant in a bulk update.
type VariantUpdateItem struct {
	VariantID string        `json:"variant_id"`
	Data      VariantUpdate `json:"data"`
}

// Category groups products by name.
type Category struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name string             `bson:"name" json:"name"`
}

// CategoryInput is the create and update payload.
type CategoryInput struct {
	Name string `json:"name" bson:"name"`
}

func (c CategoryInput) Validate() error {
	errs := fieldErrors{}
	if strings.TrimSpace(c.Name) == "" {
		errs.add("name", "is required")
	}
	return errs.err()
}

// OrderItem is a snapshot of a purchased product taken at order time.
type OrderItem struct {
	ProductID   string  `bson:"product_id" json:"product_id"`
	ProductName string  `bson:"product_name" json:"product_name"`
	Price       float64 `bson:"price" json:"price"`
	Quantity    int     `bson:"quantity" json:"quantity"`
	TotalPrice  float64 `bson:"total_price" json:"total_price"`
}

// Order is a placed order. Totals are stored as supplied, never recomputed.
type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID       string             `bson:"order_id" json:"order_id"`
	UserID        string             `bson:"user_id" json:"user_id"`
	Items         []OrderItem        `bson:"items" json:"items"`
	TotalAmount   float64            `bson:"total_amount" json:"total_amount"`
	PaymentMethod string             `bson:"payment_method" json:"payment_method"`
	Status        string             `bson:"status" json:"status"`
	OrderDate     time.Time          `bson:"order_date" json:"order_date"`
}

// OrderInput is the create and full-update payload.
type OrderInput struct {
	OrderID       string      `json:"order_id"`
	UserID        string      `json:"user_id"`
	Items         []OrderItem `json:"items"`
	TotalAmount   *float64    `json:"total_amount"`
	PaymentMethod string      `json:"payment_method"`
	Status        string      `json:"status"`
	OrderDate     *time.Time  `json:"order_date"`
}

func (o OrderInput) Validate() error {
	errs := fieldErrors{}
	if strings.TrimSpace(o.UserID) == "" {
		errs.add("user_id", "is required")
	}
	if o.Items == nil {
		errs.add("items", "is required")
	}
	for i, item := range o.Items {
		errs.prefixed(itemField(i), item.Validate())
	}
	requireNonNegativeFloat(errs, "total_amount", o.TotalAmount, true)
	if strings.TrimSpace(o.PaymentMethod) == "" {
		errs.add("payment_method", "is required")
	}
	if strings.TrimSpace(o.Status) == "" {
		errs.add("status", "is required")
	}
	return errs.err()
}

func (i OrderItem) Validate() error {
	errs := fieldErrors{}
	if i.ProductID == "" {
		errs.add("product_id", "is required")
	}
	if i.ProductName == "" {
		errs.add("product_name", "is required")
	}
	if i.Price < 0 {
		errs.add("price", "must not be negative")
	}
	if i.Quantity < 0 {
		errs.add("quantity", "must not be negative")
	}
	if i.TotalPrice < 0 {
		errs.add("total_price", "must not be negative")
	}
	return errs.err()
}

func itemField(i int) string {
	return "items[" + strconv.Itoa(i) + "]"
}

func requireNonNegativeFloat(errs fieldErrors, field string, v *float64, required bool) {
	switch {
	case v == nil:
		if required {
			errs.add(field, "is required")
		}
	case *v < 0:
		errs.add(field, "must not be negative")
	}
}

func requireNonNegativeInt(errs fieldErrors, field string, v *int, required bool) {
	switch {
	case v == nil:
		if required {
			errs.add(field, "is required")
		}
	case *v < 0:
		errs.add(field, "must not be negative")
	}
}
