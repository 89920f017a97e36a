package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/balarco/balarco-backend/internal/auth"
	"github.com/balarco/balarco-backend/pkg/config"
	"github.com/balarco/balarco-backend/pkg/db"
	"github.com/balarco/balarco-backend/pkg/enums"
	"github.com/balarco/balarco-backend/pkg/logger"
	"github.com/balarco/balarco-backend/pkg/migrate"
	"github.com/joho/godotenv"
)

func main() {
	ctx := context.Background()
	// bootstrap logger early (then re-init after config load)
	logg := logger.New(logger.Options{ServiceName: "migrate"})

	_ = godotenv.Load()

	// Flags
	cmd := flag.String("cmd", "up", "migration command: up|down|status|version|create|validate|create-user")
	dir := flag.String("dir", migrate.DefaultDir, "goose migrations directory")

	// Command-specific flags
	name := flag.String("name", "", "migration name (for create)")
	version := flag.String("version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	email := flag.String("email", "", "account email (for create-user)")
	username := flag.String("username", "", "account username (for create-user)")
	password := flag.String("password", "", "account password (for create-user)")
	roles := flag.String("roles", "", "comma separated role names (for create-user)")

	flag.Parse()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx = logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": *cmd,
		"dir": *dir,
	})

	// Commands that do NOT require DB
	switch *cmd {
	case "create":
		if *name == "" {
			fmt.Fprintln(os.Stderr, "missing -name for create")
			os.Exit(1)
		}
		logg.Info(ctx, "migrate ready")
		path, err := migrate.CreateSQLMigration(*dir, *name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create migration: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("created migration:", path)
		return

	case "validate":
		logg.Info(ctx, "migrate ready")
		if err := migrate.ValidateDir(*dir); err != nil {
			fmt.Fprintf(os.Stderr, "migration validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("migration validation passed")
		return
	}

	// Everything else needs DB
	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	requireResource(ctx, logg, "sql database", err)

	logg.Info(ctx, "migrate ready")
	dialect := migrate.DialectFor(cfg.DB.Driver)

	switch *cmd {
	case "up":
		if err := migrate.Run(ctx, sqlDB, dialect, *dir, "up"); err != nil {
			fmt.Fprintf(os.Stderr, "goose up failed: %v\n", err)
			os.Exit(1)
		}

	case "down":
		if err := migrate.Run(ctx, sqlDB, dialect, *dir, "down"); err != nil {
			fmt.Fprintf(os.Stderr, "goose down failed: %v\n", err)
			os.Exit(1)
		}

	case "status":
		if err := migrate.Run(ctx, sqlDB, dialect, *dir, "status"); err != nil {
			fmt.Fprintf(os.Stderr, "goose status failed: %v\n", err)
			os.Exit(1)
		}

	case "version":
		if *version == "" {
			fmt.Fprintln(os.Stderr, "missing -version for version command")
			os.Exit(1)
		}
		if err := migrate.MigrateToVersion(ctx, sqlDB, dialect, *dir, *version); err != nil {
			fmt.Fprintf(os.Stderr, "goose version migrate failed: %v\n", err)
			os.Exit(1)
		}

	case "create-user":
		parsed, err := parseRoles(*roles)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -roles: %v\n", err)
			os.Exit(1)
		}
		register, err := auth.NewRegisterService(auth.RegisterServiceParams{
			Tx:             dbClient,
			Users:          auth.UsersFromDB,
			PasswordConfig: cfg.Password,
		})
		requireResource(ctx, logg, "register service", err)

		user, err := register.Register(ctx, auth.RegisterRequest{
			Email:    *email,
			Username: *username,
			Password: *password,
			Roles:    parsed,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "create user failed: %v\n", err)
			os.Exit(1)
		}
		logg.Info(logg.WithUserID(ctx, user.ID.String()), "user created")
		fmt.Println("created user:", user.ID)

	default:
		fmt.Fprintln(os.Stderr, "unknown -cmd value:", *cmd)
		os.Exit(1)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}

func parseRoles(raw string) ([]enums.Role, error) {
	var out []enums.Role
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		role, err := enums.ParseRole(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	return out, nil
}
