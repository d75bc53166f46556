package service

import (
	"github.com/redis/go-redis/v9"

	"github.com/konalla/appadhesionudrgv3-sub000/internal/config"
	"github.com/konalla/appadhesionudrgv3-sub000/internal/repository"
	"github.com/konalla/appadhesionudrgv3-sub000/internal/service/photo"
	"github.com/konalla/appadhesionudrgv3-sub000/internal/service/report"
	"github.com/konalla/appadhesionudrgv3-sub000/internal/storage"
)

type Services struct {
	Photo  photo.Service
	Report report.Service
}

func NewServices(repos *repository.Repositories, store storage.AssetStore, redisClient *redis.Client, cfg *config.Config) *Services {
	reportService := report.NewService(cfg)
	photoService := photo.NewService(store, repos.Member, redisClient, cfg)
	photoService.SetReportService(reportService)

	return &Services{
		Photo:  photoService,
		Report: reportService,
	}
}
