package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"superlingo/internal/logger"
	"superlingo/internal/server"
	"superlingo/internal/tts"
)

func main() {
	_ = godotenv.Load()

	logg, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		log.Fatal(err)
	}
	defer logg.Sync()

	binary := os.Getenv("TTS_BINARY")
	if binary == "" {
		binary = "piper"
	}

	device := tts.DetectDevice()
	gateway := tts.NewGateway(device, tts.CommandLoader(binary, os.Getenv("TTS_MODEL_PATH")), logg)
	logg.Info("TTS device selected", "device", device)

	s, err := server.New(logg, gateway)
	if err != nil {
		logg.Fatal("startup", "err", err)
	}
	if err := s.Run(); err != nil {
		logg.Fatal("server", "err", err)
	}
}
