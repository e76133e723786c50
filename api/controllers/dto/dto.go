// Package dto maps persistence models onto the JSON shapes the API exposes.
package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/amirdashti/darchin-backend/internal/payment"
	"github.com/amirdashti/darchin-backend/pkg/db/models"
	"github.com/amirdashti/darchin-backend/pkg/types"
)

type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUser(u *models.User) *User {
	if u == nil {
		return nil
	}
	return &User{
		ID:        u.ID,
		Name:      u.Name,
		Phone:     u.Phone,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

type AuthResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type Address struct {
	ID        uuid.UUID `json:"id"`
	Address   string    `json:"address"`
	Lat       *float64  `json:"lat,omitempty"`
	Lng       *float64  `json:"lng,omitempty"`
	IsDefault bool      `json:"is_default"`
	Price     int       `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

func NewAddress(a *models.Address) *Address {
	if a == nil {
		return nil
	}
	return &Address{
		ID:        a.ID,
		Address:   a.Address,
		Lat:       a.Lat,
		Lng:       a.Lng,
		IsDefault: a.IsDefault,
		Price:     a.Price,
		CreatedAt: a.CreatedAt,
	}
}

func NewAddressList(list []models.Address) []*Address {
	out := make([]*Address, 0, len(list))
	for i := range list {
		out = append(out, NewAddress(&list[i]))
	}
	return out
}

type Category struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	ImageURL *string   `json:"image_url,omitempty"`
}

func NewCategory(c *models.Category) *Category {
	if c == nil {
		return nil
	}
	return &Category{ID: c.ID, Name: c.Name, ImageURL: c.ImageURL}
}

func NewCategoryList(list []models.Category) []*Category {
	out := make([]*Category, 0, len(list))
	for i := range list {
		out = append(out, NewCategory(&list[i]))
	}
	return out
}

type Product struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Price       int       `json:"price"`
	CategoryID  uuid.UUID `json:"category_id"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Available   bool      `json:"available"`
}

func NewProduct(p *models.Product) *Product {
	if p == nil {
		return nil
	}
	return &Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		CategoryID:  p.CategoryID,
		ImageURL:    p.ImageURL,
		Available:   p.Available,
	}
}

func NewProductList(list []models.Product) []*Product {
	out := make([]*Product, 0, len(list))
	for i := range list {
		out = append(out, NewProduct(&list[i]))
	}
	return out
}

type Cart struct {
	Items      types.OrderItems `json:"items"`
	TotalPrice int              `json:"total_price"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

func NewCart(c *models.Cart) *Cart {
	if c == nil {
		return &Cart{Items: types.OrderItems{}}
	}
	items := c.Items
	if items == nil {
		items = types.OrderItems{}
	}
	return &Cart{Items: items, TotalPrice: c.TotalPrice, UpdatedAt: c.UpdatedAt}
}

type Order struct {
	ID            uuid.UUID        `json:"id"`
	Items         types.OrderItems `json:"items"`
	TotalPrice    int              `json:"total_price"`
	Status        string           `json:"status"`
	ReceiptNumber int64            `json:"receipt_number"`
	CreatedAt     time.Time        `json:"created_at"`
}

func NewOrder(o *models.Order) *Order {
	if o == nil {
		return nil
	}
	return &Order{
		ID:            o.ID,
		Items:         o.Items,
		TotalPrice:    o.TotalPrice,
		Status:        string(o.Status),
		ReceiptNumber: o.ReceiptNumber,
		CreatedAt:     o.CreatedAt,
	}
}

func NewOrderList(list []models.Order) []*Order {
	out := make([]*Order, 0, len(list))
	for i := range list {
		out = append(out, NewOrder(&list[i]))
	}
	return out
}

// PaymentCreated echoes the quoted totals in Toman next to the Rial amount
// frozen on the payment, so the client can show the delivery fee it was
// quoted before redirecting to the gateway.
type PaymentCreated struct {
	PaymentID     uuid.UUID `json:"payment_id"`
	Authority     string    `json:"authority"`
	PayURL        string    `json:"pay_url"`
	Amount        int       `json:"amount"`
	TotalPrice    int       `json:"total_price"`
	ShippingPrice int       `json:"shipping_price"`
	Status        string    `json:"status"`
}

func NewPaymentCreated(r *payment.CreatePaymentResult) *PaymentCreated {
	if r == nil {
		return nil
	}
	return &PaymentCreated{
		PaymentID:     r.PaymentID,
		Authority:     r.Authority,
		PayURL:        r.PayURL,
		Amount:        r.Amount,
		TotalPrice:    r.TotalPrice,
		ShippingPrice: r.ShippingPrice,
		Status:        string(r.Status),
	}
}
