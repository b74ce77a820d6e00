package services

import (
	"farmstand/internal/authz"
	"farmstand/internal/repos"
)

type FavoriteService struct {
	Favorites *repos.FavoriteRepo
}

func NewFavoriteService(favorites *repos.FavoriteRepo) *FavoriteService {
	return &FavoriteService{Favorites: favorites}
}

func (s *FavoriteService) Add(caller authz.Caller, farmerID string) error {
	return s.Favorites.Add(caller, farmerID)
}

func (s *FavoriteService) Remove(caller authz.Caller, farmerID string) error {
	ok, err := s.Favorites.Remove(caller.ID, farmerID)
	if err != nil {
		return err
	}
	if !ok {
		return authz.ErrDenied
	}
	return nil
}

func (s *FavoriteService) List(caller authz.Caller) ([]repos.FavoriteRow, error) {
	if caller.Anonymous() {
		return nil, authz.ErrDenied
	}
	return s.Favorites.List(caller.ID)
}
