package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medmatch/catalog"
	"medmatch/database"
	"medmatch/internal/config"
	"medmatch/server"
)

func main() {
	log.Println("═══════════════════════════════════════════════════════")
	log.Println("Запуск сервера нормализации медицинских изделий...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	store, err := database.NewStore(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Ошибка открытия базы данных: %v", err)
	}
	defer store.Close()

	models := catalog.NewModelCatalog(cfg.ModelCatalogPath)
	chars := catalog.NewCharacteristicCatalog(cfg.CharacteristicCatalogPath, cfg.CatalogSkipLines)

	srv := server.NewServer(cfg, store, models, chars)

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("Ошибка запуска сервера: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	log.Println("═══════════════════════════════════════════════════════")
	log.Printf("Сервер запущен на порту %s", cfg.Port)
	log.Printf("База данных: %s", cfg.DatabasePath)
	log.Printf("Эталонных моделей: %d", models.Reference().Len())
	log.Printf("Эталонных характеристик: %d", chars.Len())
	log.Println("Для остановки нажмите Ctrl+C")
	log.Println("═══════════════════════════════════════════════════════")

	<-sigChan
	log.Println("Получен сигнал завершения, останавливаю сервер...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Ошибка при остановке сервера: %v", err)
	} else {
		log.Println("Сервер успешно остановлен")
	}
}
