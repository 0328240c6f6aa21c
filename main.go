package main

import (
	"context"
	"flag"

	"github.com/go-redis/redis/v8"

	"libms/config"
	"libms/handler"
	"libms/log"
	"libms/repository"
	"libms/service"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	flag.Parse()

	logger := log.GetLogger(context.Background())
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	db := repository.InitDatabase(cfg.Database)
	users := repository.NewUserRepo(db)
	books := repository.NewBookRepo(db)
	borrows := repository.NewBorrowRepo(db)

	throttle := service.NewNoopThrottle()
	if cfg.Redis.Address != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Address})
		throttle = service.NewRedisThrottle(client, cfg.Redis.LoginLimit, cfg.Redis.LoginWindow)
	}

	registerSvc := service.NewRegisterService(users, cfg.Auth.BcryptCost)
	authSvc := service.NewAuthService(users, throttle, []byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)
	bookSvc := service.NewBookService(books, borrows, cfg.Server.BaseURL, cfg.Upload.Dir)

	router := handler.NewRouter(cfg, registerSvc, authSvc, bookSvc)
	if err := router.Run(cfg.Server.Address); err != nil {
		logger.Fatalf("server stopped: %v", err)
	}
}
