package response

import (
	"food-ordering/internal/data/entity"
)

type VendorResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Image       string  `json:"image,omitempty"`
	Address     string  `json:"address"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Phone       string  `json:"phone,omitempty"`
	Rating      float64 `json:"rating"`
	IsOpen      bool    `json:"is_open"`
}

func VendorToResponse(vendor *entity.Vendor) VendorResponse {
	return VendorResponse{
		ID:          vendor.ID.String(),
		Name:        vendor.Name,
		Description: vendor.Description,
		Image:       vendor.Image,
		Address:     vendor.Address,
		Latitude:    vendor.Latitude,
		Longitude:   vendor.Longitude,
		Phone:       vendor.Phone,
		Rating:      vendor.Rating,
		IsOpen:      vendor.IsOpen,
	}
}

type FoodResponse struct {
	ID            string  `json:"id"`
	VendorID      string  `json:"vendor_id"`
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	Image         string  `json:"image,omitempty"`
	FoodType      string  `json:"food_type,omitempty"`
	Price         float64 `json:"price"`
	DiscountPrice float64 `json:"discount_price,omitempty"`
	PackingCharge float64 `json:"packing_charge,omitempty"`
	IsPrebook     bool    `json:"is_prebook"`
}

func FoodToResponse(food *entity.Food) FoodResponse {
	return FoodResponse{
		ID:            food.ID.String(),
		VendorID:      food.VendorID.String(),
		Name:          food.Name,
		Description:   food.Description,
		Image:         food.Image,
		FoodType:      food.FoodType,
		Price:         food.Price,
		DiscountPrice: food.DiscountPrice,
		PackingCharge: food.PackingCharge,
		IsPrebook:     food.IsPrebook,
	}
}

type BannerResponse struct {
	ID       string `json:"id"`
	VendorID string `json:"vendor_id,omitempty"`
	Title    string `json:"title,omitempty"`
	Image    string `json:"image"`
	Position int    `json:"position"`
}

func BannerToResponse(banner *entity.Banner) BannerResponse {
	resp := BannerResponse{
		ID:       banner.ID.String(),
		Title:    banner.Title,
		Image:    banner.Image,
		Position: banner.Position,
	}
	if banner.VendorID != nil {
		resp.VendorID = banner.VendorID.String()
	}
	return resp
}
