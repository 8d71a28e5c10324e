package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/HiQuang210/GFashion-Frontend-sub000/internal/domain"
	"github.com/HiQuang210/GFashion-Frontend-sub000/internal/pkg/logger"
	"github.com/HiQuang210/GFashion-Frontend-sub000/internal/stubapi"
)

// mockapi sobe o backend de mentira para desenvolvimento local do cliente,
// com um catálogo e um usuário de demonstração semeados.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logg := logger.NewLogger(getLogLevel())

	srv := stubapi.New(logg)
	seed(srv)

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      srv,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logg.Info("Backend de desenvolvimento ouvindo.", map[string]interface{}{"port": port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Fatal("Servidor falhou.", err)
		}
	}()

	// Graceful Shutdown (captura de sinal)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logg.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logg.Error("Desligamento do servidor forçado.", err)
	}
}

func getLogLevel() string {
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		return level
	}
	return "debug"
}

func seed(srv *stubapi.Server) {
	srv.SeedUser("demo@gfashion.dev", "demo123")

	srv.SeedProduct(domain.Product{
		ID:    "ao-thun-basic",
		Name:  "Basic Cotton Tee",
		Type:  "shirt",
		Price: 199000,
		Variants: []domain.ProductVariant{
			{Color: "White", Sizes: []domain.SizeStock{{Size: "S", Stock: 12}, {Size: "M", Stock: 5}, {Size: "L", Stock: 0}}},
			{Color: "Black", Sizes: []domain.SizeStock{{Size: "S", Stock: 3}, {Size: "M", Stock: 8}}},
		},
	})
	srv.SeedProduct(domain.Product{
		ID:    "quan-jean-slim",
		Name:  "Slim Fit Jeans",
		Type:  "pants",
		Price: 549000,
		Variants: []domain.ProductVariant{
			{Color: "Blue", Sizes: []domain.SizeStock{{Size: "29", Stock: 7}, {Size: "30", Stock: 2}, {Size: "31", Stock: 9}}},
		},
	})
	srv.SeedProduct(domain.Product{
		ID:    "ao-khoac-bomber",
		Name:  "Bomber Jacket",
		Type:  "jacket",
		Price: 1234567,
		Variants: []domain.ProductVariant{
			{Color: "Olive", Sizes: []domain.SizeStock{{Size: "M", Stock: 4}, {Size: "L", Stock: 6}}},
		},
	})
}
