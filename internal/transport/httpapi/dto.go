package httpapi

import (
	"encoding/json"
	"time"

	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/domain"
	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/service/order"
)

type createOrderRequest struct {
	OrderItems           []orderItemRequest     `json:"orderItems" binding:"required,min=1,dive"`
	ShippingAddress      shippingAddressPayload `json:"shippingAddress"`
	PaymentMethod        string                 `json:"paymentMethod"`
	PaymentMethodDetails json.RawMessage        `json:"paymentMethodDetails"`
	ItemsPrice           float64                `json:"itemsPrice"`
	TaxPrice             float64                `json:"taxPrice"`
	ShippingPrice        float64                `json:"shippingPrice"`
	TotalPrice           float64                `json:"totalPrice"`
	UserID               string                 `json:"user" binding:"required"`
}

type orderItemRequest struct {
	ProductID string  `json:"product" binding:"required"`
	Qty       int32   `json:"qty" binding:"required,gt=0"`
	Price     float64 `json:"price" binding:"gte=0"`
}

type shippingAddressPayload struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type updateOrderRequest struct {
	OrderItems      *[]orderItemRequest     `json:"orderItems"`
	ShippingAddress *shippingAddressPayload `json:"shippingAddress"`
	PaymentMethod   *string                 `json:"paymentMethod"`
	PaymentResult   *paymentResultPayload   `json:"paymentResult"`
	ItemsPrice      *float64                `json:"itemsPrice"`
	TaxPrice        *float64                `json:"taxPrice"`
	ShippingPrice   *float64                `json:"shippingPrice"`
	TotalPrice      *float64                `json:"totalPrice"`
	UserID          *string                 `json:"user"`
	IsPaid          *bool                   `json:"isPaid"`
	PaidAt          *time.Time              `json:"paidAt"`
	IsDelivered     *bool                   `json:"isDelivered"`
	DeliveredAt     *time.Time              `json:"deliveredAt"`
	Status          *string                 `json:"status"`
}

type paymentResultPayload struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}

type checkoutSessionRequest struct {
	Items []checkoutItemRequest `json:"items" binding:"required,min=1,dive"`
}

type checkoutItemRequest struct {
	Name     string  `json:"name" binding:"required"`
	Price    float64 `json:"price" binding:"gte=0"`
	Quantity int64   `json:"quantity" binding:"required,gt=0"`
}

type orderResponse struct {
	ID                   string                  `json:"id"`
	OrderNumber          string                  `json:"orderNumber"`
	User                 *userResponse           `json:"user,omitempty"`
	UserID               string                  `json:"userId"`
	OrderItems           []orderItemResponse     `json:"orderItems"`
	ShippingAddress      shippingAddressPayload  `json:"shippingAddress"`
	PaymentMethod        string                  `json:"paymentMethod"`
	PaymentMethodDetails json.RawMessage         `json:"paymentMethodDetails,omitempty"`
	PaymentResult        *paymentResultPayload   `json:"paymentResult,omitempty"`
	ItemsPrice           float64                 `json:"itemsPrice"`
	TaxPrice             float64                 `json:"taxPrice"`
	ShippingPrice        float64                 `json:"shippingPrice"`
	TotalPrice           float64                 `json:"totalPrice"`
	IsPaid               bool                    `json:"isPaid"`
	PaidAt               *time.Time              `json:"paidAt,omitempty"`
	IsDelivered          bool                    `json:"isDelivered"`
	DeliveredAt          *time.Time              `json:"deliveredAt,omitempty"`
	Status               string                  `json:"status"`
	CreatedAt            time.Time               `json:"createdAt"`
	UpdatedAt            time.Time               `json:"updatedAt"`
}

type orderItemResponse struct {
	ID        string           `json:"id"`
	ProductID string           `json:"product"`
	Product   *productResponse `json:"productDetails,omitempty"`
	Qty       int32            `json:"qty"`
	Price     float64          `json:"price"`
}

type productResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image,omitempty"`
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type countResponse struct {
	TotalOrders int64 `json:"totalOrders"`
}

type checkoutSessionResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Error   string `json:"error"`
	OrderID string `json:"orderId,omitempty"`
}

func (r createOrderRequest) toParams() order.CreateParams {
	return order.CreateParams{
		Items:                toItemParams(r.OrderItems),
		ShippingAddress:      r.ShippingAddress.toDomain(),
		PaymentMethod:        r.PaymentMethod,
		PaymentMethodDetails: r.PaymentMethodDetails,
		ItemsPrice:           r.ItemsPrice,
		TaxPrice:             r.TaxPrice,
		ShippingPrice:        r.ShippingPrice,
		TotalPrice:           r.TotalPrice,
		UserID:               r.UserID,
	}
}

func (r updateOrderRequest) toParams() order.UpdateParams {
	params := order.UpdateParams{
		PaymentMethod: r.PaymentMethod,
		ItemsPrice:    r.ItemsPrice,
		TaxPrice:      r.TaxPrice,
		ShippingPrice: r.ShippingPrice,
		TotalPrice:    r.TotalPrice,
		UserID:        r.UserID,
		IsPaid:        r.IsPaid,
		PaidAt:        r.PaidAt,
		IsDelivered:   r.IsDelivered,
		DeliveredAt:   r.DeliveredAt,
	}
	if r.OrderItems != nil {
		items := toItemParams(*r.OrderItems)
		params.Items = &items
	}
	if r.ShippingAddress != nil {
		address := r.ShippingAddress.toDomain()
		params.ShippingAddress = &address
	}
	if r.PaymentResult != nil {
		params.PaymentResult = &domain.PaymentResult{
			ID:           r.PaymentResult.ID,
			Status:       r.PaymentResult.Status,
			UpdateTime:   r.PaymentResult.UpdateTime,
			EmailAddress: r.PaymentResult.EmailAddress,
		}
	}
	if r.Status != nil {
		status := domain.OrderStatus(*r.Status)
		params.Status = &status
	}
	return params
}

func (r checkoutSessionRequest) toItems() []domain.CheckoutItem {
	items := make([]domain.CheckoutItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, domain.CheckoutItem{
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}
	return items
}

func toItemParams(items []orderItemRequest) []order.ItemParams {
	params := make([]order.ItemParams, 0, len(items))
	for _, item := range items {
		params = append(params, order.ItemParams{
			ProductID: item.ProductID,
			Qty:       item.Qty,
			Price:     item.Price,
		})
	}
	return params
}

func (p shippingAddressPayload) toDomain() domain.ShippingAddress {
	return domain.ShippingAddress{
		Address:    p.Address,
		City:       p.City,
		PostalCode: p.PostalCode,
		Country:    p.Country,
	}
}

func toOrderResponse(order domain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		itemResponse := orderItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Qty:       item.Qty,
			Price:     item.Price,
		}
		if item.Product != nil {
			itemResponse.Product = &productResponse{
				ID:    item.Product.ID,
				Name:  item.Product.Name,
				Price: item.Product.Price,
				Image: item.Product.Image,
			}
		}
		items = append(items, itemResponse)
	}

	response := orderResponse{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		OrderItems:  items,
		ShippingAddress: shippingAddressPayload{
			Address:    order.ShippingAddress.Address,
			City:       order.ShippingAddress.City,
			PostalCode: order.ShippingAddress.PostalCode,
			Country:    order.ShippingAddress.Country,
		},
		PaymentMethod:        order.PaymentMethod,
		PaymentMethodDetails: order.PaymentMethodDetails,
		ItemsPrice:           order.ItemsPrice,
		TaxPrice:             order.TaxPrice,
		ShippingPrice:        order.ShippingPrice,
		TotalPrice:           order.TotalPrice,
		IsPaid:               order.IsPaid,
		PaidAt:               order.PaidAt,
		IsDelivered:          order.IsDelivered,
		DeliveredAt:          order.DeliveredAt,
		Status:               string(order.Status),
		CreatedAt:            order.CreatedAt,
		UpdatedAt:            order.UpdatedAt,
	}
	if order.User != nil {
		response.User = &userResponse{
			ID:    order.User.ID,
			Name:  order.User.Name,
			Email: order.User.Email,
		}
	}
	if order.PaymentResult != nil {
		response.PaymentResult = &paymentResultPayload{
			ID:           order.PaymentResult.ID,
			Status:       order.PaymentResult.Status,
			UpdateTime:   order.PaymentResult.UpdateTime,
			EmailAddress: order.PaymentResult.EmailAddress,
		}
	}
	return response
}

func toOrderResponses(orders []domain.Order) []orderResponse {
	responses := make([]orderResponse, 0, len(orders))
	for _, item := range orders {
		responses = append(responses, toOrderResponse(item))
	}
	return responses
}
