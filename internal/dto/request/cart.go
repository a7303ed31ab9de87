package request

type ItemOptionRequest struct {
	ID       string  `json:"id" validate:"required,uuid4"`
	Name     string  `json:"name" validate:"required"`
	Price    float64 `json:"price" validate:"min=0"`
	Quantity int     `json:"quantity" validate:"required,min=1"`
}

type AddCartItemRequest struct {
	FoodID         string              `json:"foodId" validate:"required,uuid4"`
	ServiceType    string              `json:"serviceType" validate:"required"`
	Quantity       int                 `json:"quantity" validate:"required,min=1"`
	Customizations []ItemOptionRequest `json:"customizations,omitempty" validate:"omitempty,dive"`
	AddOns         []ItemOptionRequest `json:"addOns,omitempty" validate:"omitempty,dive"`
	Notes          string              `json:"notes,omitempty"`
}

type UpdateCartItemRequest struct {
	FoodID   string `json:"foodId" validate:"required,uuid4"`
	Quantity int    `json:"quantity" validate:"min=0"`
}

type ApplyCouponRequest struct {
	Code string `json:"code" validate:"required"`
}

type ConnectCartRequest struct {
	CartID string `json:"cartId" validate:"required,uuid4"`
}
