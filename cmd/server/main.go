package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"terminal-terrace/atlas-forum/config"
	"terminal-terrace/atlas-forum/internal/database"
	"terminal-terrace/atlas-forum/internal/grpc"
	"terminal-terrace/atlas-forum/internal/route"
)

func main() {
	configPath := flag.String("config", "config.yaml", "配置文件路径")
	flag.Parse()

	// 1. 加载配置
	config.MustLoad(*configPath)
	conf := config.Conf
	if conf.Server.Mode != "" {
		gin.SetMode(conf.Server.Mode)
	}

	// 2. 初始化关联存储
	store, err := database.InitStore(conf)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer store.Close()
	log.Printf("[server] 关联存储: %s", conf.Store.Driver)

	// 3. gRPC 健康检查
	grpcServer, err := grpc.NewServer(conf.Server.GRPCPort, store, 0)
	if err != nil {
		log.Fatalf("Failed to create gRPC server: %v", err)
	}
	go func() {
		log.Printf("[server] gRPC health listening on %s", grpcServer.GetAddr())
		if err := grpcServer.Start(); err != nil {
			log.Printf("[server] gRPC server stopped: %v", err)
		}
	}()

	// 4. 设置路由
	r := route.SetupRouter(conf, store)

	// 5. 启动服务
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", conf.Server.Host, conf.Server.Port),
		Handler:      r,
		ReadTimeout:  conf.Server.ReadTimeout,
		WriteTimeout: conf.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("[server] HTTP listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("[server] shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[server] HTTP shutdown: %v", err)
	}
	grpcServer.Stop()
}
