package services

import (
	"errors"
	"math"

	"farmstand/internal/authz"
	"farmstand/internal/domain"
	"farmstand/internal/repos"

	"github.com/google/uuid"
)

var ErrNotFarmer = errors.New("farmer role required")

// CatalogService covers the public browse surface plus farmer-side
// profile and product management.
type CatalogService struct {
	Farmers  *repos.FarmerRepo
	Products *repos.ProductRepo
}

func NewCatalogService(farmers *repos.FarmerRepo, products *repos.ProductRepo) *CatalogService {
	return &CatalogService{Farmers: farmers, Products: products}
}

// CreateProfile registers the caller's farm. FARMER role only; the
// unique user_id constraint keeps it to one profile per account.
func (s *CatalogService) CreateProfile(caller authz.Caller, p *domain.FarmerProfile) (*domain.FarmerProfile, error) {
	if caller.Anonymous() {
		return nil, authz.ErrDenied
	}
	if !caller.IsFarmer() {
		return nil, ErrNotFarmer
	}
	p.ID = uuid.NewString()
	p.UserID = caller.ID
	if err := s.Farmers.Create(p); err != nil {
		return nil, err
	}
	return s.Farmers.Get(p.ID)
}

func (s *CatalogService) UpdateProfile(caller authz.Caller, p *domain.FarmerProfile) error {
	ok, err := s.Farmers.Update(caller.ID, p)
	if err != nil {
		return err
	}
	if !ok {
		return authz.ErrDenied
	}
	return nil
}

func (s *CatalogService) Farmer(id string) (*domain.FarmerProfile, error) {
	return s.Farmers.Get(id)
}

// OwnProfile returns the caller's farm, if they have one.
func (s *CatalogService) OwnProfile(caller authz.Caller) (*domain.FarmerProfile, error) {
	if caller.Anonymous() {
		return nil, authz.ErrDenied
	}
	return s.Farmers.ByUserID(caller.ID)
}

// FarmersNear lists farms, optionally filtered to those whose delivery
// radius covers the given point. lat/lng of 0,0 disables the filter.
func (s *CatalogService) FarmersNear(lat, lng float64) ([]domain.FarmerProfile, error) {
	all, err := s.Farmers.List()
	if err != nil {
		return nil, err
	}
	if lat == 0 && lng == 0 {
		return all, nil
	}
	out := []domain.FarmerProfile{}
	for _, f := range all {
		if f.OffersPickup || haversineKm(lat, lng, f.Lat, f.Lng) <= f.DeliveryRadiusKm {
			out = append(out, f)
		}
	}
	return out, nil
}

// haversineKm is the great-circle distance between two coordinates.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKm = 6371.0
	rad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := rad(lat2 - lat1)
	dLng := rad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

func (s *CatalogService) CreateProduct(caller authz.Caller, p *domain.Product) (*domain.Product, error) {
	if caller.Anonymous() {
		return nil, authz.ErrDenied
	}
	p.ID = uuid.NewString()
	ok, err := s.Products.Create(caller.ID, p)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, authz.ErrDenied
	}
	return s.Products.Get(p.ID)
}

func (s *CatalogService) UpdateProduct(caller authz.Caller, p *domain.Product) error {
	ok, err := s.Products.Update(caller.ID, p)
	if err != nil {
		return err
	}
	if !ok {
		return authz.ErrDenied
	}
	return nil
}

func (s *CatalogService) DeleteProduct(caller authz.Caller, productID string) error {
	ok, err := s.Products.Delete(caller.ID, productID)
	if err != nil {
		return err
	}
	if !ok {
		return authz.ErrDenied
	}
	return nil
}

func (s *CatalogService) Product(id string) (*domain.Product, error) {
	return s.Products.Get(id)
}

func (s *CatalogService) FarmProducts(farmerID string) ([]domain.Product, error) {
	return s.Products.ListByFarmer(farmerID)
}

func (s *CatalogService) SearchProducts(q, category string) ([]domain.Product, error) {
	return s.Products.Search(q, category)
}
