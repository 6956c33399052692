package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"heart-dimensions/config"
	telegram "heart-dimensions/internal/api"
	"heart-dimensions/internal/container"
	"heart-dimensions/internal/infrastructure/raster"
	"heart-dimensions/internal/infrastructure/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	imagePath := flag.String("image", "", "path to the chest x-ray image")
	maskPath := flag.String("mask", "", "path to the heart segmentation mask")
	ppi := flag.Float64("ppi", cfg.ResolutionPPI, "image resolution in pixels per inch")
	outPath := flag.String("out", cfg.OutputPath, "where to save the annotated image")
	runBot := flag.Bool("bot", false, "run the Telegram bot")
	flag.Parse()

	// Создаём хранилище пользователей
	userRepo := storage.NewMemoryUserRepository()

	// Собираем сервисы приложения
	appContainer, err := container.NewDefault(userRepo, cfg.GeometryBackend, cfg.Options())
	if err != nil {
		log.Fatalf("Failed to build services: %v", err)
	}

	if *runBot {
		if cfg.TelegramToken == "" {
			log.Fatal("TELEGRAM_TOKEN is required")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Создаём бота
		bot, err := telegram.NewBot(cfg.TelegramToken, appContainer)
		if err != nil {
			log.Fatalf("Failed to create bot: %v", err)
		}

		log.Println("Bot is running...")
		if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Fatalf("Bot error: %v", err)
		}
		return
	}

	if *imagePath == "" || *maskPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := measure(appContainer, *imagePath, *maskPath, *ppi, *outPath); err != nil {
		log.Fatal(err)
	}
}

// measure измеряет сердце по файлам и сохраняет размеченный снимок.
func measure(c *container.Container, imagePath, maskPath string, ppi float64, outPath string) error {
	img, err := raster.Load(imagePath)
	if err != nil {
		return fmt.Errorf("load image: %w", err)
	}
	mask, err := raster.Load(maskPath)
	if err != nil {
		return fmt.Errorf("load mask: %w", err)
	}

	out, err := c.MeasurementService.Analyze(context.Background(), img, mask, ppi)
	if err != nil {
		return err
	}

	dims := out.Dimensions
	if !dims.Detected {
		fmt.Println("No heart detected in the segmentation mask.")
		return nil
	}

	if err := raster.Save(outPath, out.Annotated); err != nil {
		return fmt.Errorf("save annotated image: %w", err)
	}

	fmt.Printf("Annotated image with center lines saved as '%s'\n", outPath)
	fmt.Printf("Detected Heart Length (center lines): %.2f cm\n", dims.Length.Centimeters)
	fmt.Printf("Detected Heart Breadth (center lines): %.2f cm\n", dims.Breadth.Centimeters)
	return nil
}
