package main

import (
	"log"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/funwhale/orderboard/biz/dal/model"
	"github.com/funwhale/orderboard/biz/handler"
	"github.com/funwhale/orderboard/biz/middleware"
	"github.com/funwhale/orderboard/biz/router"
	"github.com/funwhale/orderboard/biz/service"
	"github.com/funwhale/orderboard/pkg/config"
	"github.com/funwhale/orderboard/pkg/database"
	"github.com/funwhale/orderboard/pkg/lock"
	"github.com/funwhale/orderboard/pkg/redis"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	if err := db.AutoMigrate(
		&model.Profile{},
		&model.Pipeline{},
		&model.Stage{},
		&model.Card{},
	); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	redisClient, err := redis.NewClient(cfg.Redis)
	if err != nil {
		log.Fatalf("connect redis: %v", err)
	}
	if redisClient != nil {
		middleware.InitWriteLock(lock.New(redisClient,
			"orderboard:write_lock", 30*time.Second, 5*time.Second))
		log.Printf("distributed write lock enabled")
	}

	svc := service.NewService(db)
	h := handler.NewBoardHandler(svc)

	srv := server.Default(server.WithHostPorts(cfg.Server.Address))
	srv.Use(middleware.Recovery())
	srv.Use(middleware.Logging())
	srv.Use(middleware.CORS(&cfg.CORS))
	srv.Use(middleware.Auth())

	router.RegisterBoardRoutes(srv, h)

	srv.Spin()
}
