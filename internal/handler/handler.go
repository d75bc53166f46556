package handler

import "github.com/konalla/appadhesionudrgv3-sub000/internal/service"

type Handlers struct {
	Photo *PhotoHandler
	Admin *AdminHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Photo: NewPhotoHandler(services.Photo),
		Admin: NewAdminHandler(services.Photo),
	}
}
