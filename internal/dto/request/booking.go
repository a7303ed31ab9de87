package request

type CreateBookingRequest struct {
	ServiceType    string  `json:"serviceType" validate:"required"`
	Address        string  `json:"address,omitempty"`
	Latitude       float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude      float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	Name           string  `json:"name,omitempty"`
	PhoneNumber    string  `json:"phoneNumber,omitempty"`
	PersonCount    int     `json:"personCount,omitempty" validate:"omitempty,min=1"`
	VehicleDetails string  `json:"vehicleDetails,omitempty"`
	ReachTime      string  `json:"reachTime,omitempty"`
	Notes          string  `json:"notes,omitempty"`
}

type ModifiedItemRequest struct {
	FoodID          string `json:"foodId" validate:"required,uuid4"`
	UpdatedQuantity int    `json:"updatedQuantity" validate:"required,min=1"`
	Reason          string `json:"reason,omitempty"`
}

type VendorRespondRequest struct {
	Action          string                `json:"action" validate:"required,oneof=accept reject"`
	RejectionReason string                `json:"rejectionReason,omitempty"`
	SuggestedTime   string                `json:"suggestedTime,omitempty"`
	ModifiedItems   []ModifiedItemRequest `json:"modifiedItems,omitempty" validate:"omitempty,dive"`
}

type PaymentConfirmRequest struct {
	TransactionID       string  `json:"transactionId,omitempty"`
	ProviderReferenceID string  `json:"providerReferenceId,omitempty"`
	Amount              float64 `json:"amount,omitempty" validate:"omitempty,gt=0"`
	PaymentMethod       string  `json:"paymentMethod,omitempty"`
}
