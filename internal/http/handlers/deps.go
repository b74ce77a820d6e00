package handlers

import (
	"farmstand/internal/repos"
	"farmstand/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	AuthHandler         *AuthHandler
	FarmerHandler       *FarmerHandler
	ProductHandler      *ProductHandler
	OrderHandler        *OrderHandler
	ReviewHandler       *ReviewHandler
	FavoriteHandler     *FavoriteHandler
	MessageHandler      *MessageHandler
	NotificationHandler *NotificationHandler
}

func NewDeps(db *sqlx.DB, auth *services.AuthService) *Deps {
	farmerRepo := repos.NewFarmerRepo(db)
	productRepo := repos.NewProductRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	reviewRepo := repos.NewReviewRepo(db)
	favoriteRepo := repos.NewFavoriteRepo(db)
	messageRepo := repos.NewMessageRepo(db)
	notificationRepo := repos.NewNotificationRepo(db)

	catalogSvc := services.NewCatalogService(farmerRepo, productRepo)
	orderSvc := services.NewOrderService(orderRepo)
	reviewSvc := services.NewReviewService(reviewRepo)
	favoriteSvc := services.NewFavoriteService(favoriteRepo)
	messageSvc := services.NewMessageService(messageRepo)
	notificationSvc := services.NewNotificationService(notificationRepo)

	return &Deps{
		AuthHandler:         &AuthHandler{Auth: auth},
		FarmerHandler:       &FarmerHandler{Catalog: catalogSvc},
		ProductHandler:      &ProductHandler{Catalog: catalogSvc},
		OrderHandler:        &OrderHandler{Orders: orderSvc},
		ReviewHandler:       &ReviewHandler{Reviews: reviewSvc},
		FavoriteHandler:     &FavoriteHandler{Favorites: favoriteSvc},
		MessageHandler:      &MessageHandler{Messages: messageSvc},
		NotificationHandler: &NotificationHandler{Notifications: notificationSvc},
	}
}
