package usecase

import (
	"context"
	"fmt"

	"food-ordering/internal/data/repository"
	"food-ordering/internal/dto/request"
	"food-ordering/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CatalogService interface {
	GetVendors(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.VendorResponse], error)
	GetVendor(ctx context.Context, vendorID uuid.UUID) (*response.VendorResponse, error)
	GetVendorFoods(ctx context.Context, vendorID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.FoodResponse], error)
	GetBanners(ctx context.Context) ([]response.BannerResponse, error)
}

type catalogService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCatalogService(repo *repository.Repository, log *zap.Logger) CatalogService {
	return &catalogService{
		repo: repo,
		log:  log.With(zap.String("service", "catalog")),
	}
}

func (s *catalogService) GetVendors(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.VendorResponse], error) {
	vendors, err := s.repo.Vendor.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get vendors: %w", err)
	}

	total, err := s.repo.Vendor.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count vendors: %w", err)
	}

	responses := make([]response.VendorResponse, len(vendors))
	for i, vendor := range vendors {
		responses[i] = response.VendorToResponse(vendor)
	}

	return response.NewPaginatedResponse(responses, req.Page, req.PerPage, total), nil
}

func (s *catalogService) GetVendor(ctx context.Context, vendorID uuid.UUID) (*response.VendorResponse, error) {
	vendor, err := s.repo.Vendor.FindByID(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("get vendor: %w", err)
	}
	if vendor == nil {
		return nil, ErrVendorNotFound
	}

	resp := response.VendorToResponse(vendor)
	return &resp, nil
}

func (s *catalogService) GetVendorFoods(ctx context.Context, vendorID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.FoodResponse], error) {
	vendor, err := s.repo.Vendor.FindByID(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("get vendor foods: %w", err)
	}
	if vendor == nil {
		return nil, ErrVendorNotFound
	}

	foods, err := s.repo.Food.FindByVendorID(ctx, vendorID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get vendor foods: %w", err)
	}

	total, err := s.repo.Food.CountByVendorID(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("count vendor foods: %w", err)
	}

	responses := make([]response.FoodResponse, len(foods))
	for i, food := range foods {
		responses[i] = response.FoodToResponse(food)
	}

	return response.NewPaginatedResponse(responses, req.Page, req.PerPage, total), nil
}

func (s *catalogService) GetBanners(ctx context.Context) ([]response.BannerResponse, error) {
	banners, err := s.repo.Banner.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("get banners: %w", err)
	}

	responses := make([]response.BannerResponse, len(banners))
	for i, banner := range banners {
		responses[i] = response.BannerToResponse(banner)
	}
	return responses, nil
}
