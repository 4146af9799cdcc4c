package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/m04kA/MassageStudio-BookingService/internal/config"
	"github.com/m04kA/MassageStudio-BookingService/pkg/auth"
)

// Выпускает JWT администратора студии для доступа к /api/v1/admin
func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	email := flag.String("email", "", "administrator email")
	ttl := flag.Duration("ttl", 12*time.Hour, "token lifetime")
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "email is required")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize token manager: %v\n", err)
		os.Exit(1)
	}

	token, err := tokens.CreateAccessToken(*email, auth.RoleAdmin, *email, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
