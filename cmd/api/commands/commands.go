package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/districhem/backoffice/internal/adapters/githubstore"
	"github.com/districhem/backoffice/internal/adapters/repository"
	"github.com/districhem/backoffice/internal/application/services"
	"github.com/districhem/backoffice/internal/infrastructure/config"
	"github.com/districhem/backoffice/internal/infrastructure/logger"
	"github.com/districhem/backoffice/internal/infrastructure/server"
	"github.com/districhem/backoffice/internal/ports"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the back-office API server",
		Long:  "Start the back-office API server with all configured routes and middleware",
		Run: func(cmd *cobra.Command, args []string) {
			runServer()
		},
	}
}

// NewUserCommand creates the user management command
func NewUserCommand() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "User management commands",
		Long:  "Create and manage back-office accounts stored in the users table",
	}

	createUserCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new back-office account",
		Run: func(cmd *cobra.Command, args []string) {
			login, _ := cmd.Flags().GetString("login")
			password, _ := cmd.Flags().GetString("password")
			admin, _ := cmd.Flags().GetBool("admin")

			if login == "" || password == "" {
				log.Fatal("Login and password are required")
			}

			createUser(login, password, admin)
		},
	}

	createUserCmd.Flags().String("login", "", "Account login (required)")
	createUserCmd.Flags().String("password", "", "Account password (required)")
	createUserCmd.Flags().Bool("admin", false, "Grant admin rights")

	hashCmd := &cobra.Command{
		Use:   "hash",
		Short: "Print the hash of a password without touching the users table",
		Run: func(cmd *cobra.Command, args []string) {
			password, _ := cmd.Flags().GetString("password")
			legacy, _ := cmd.Flags().GetBool("legacy")

			if password == "" {
				log.Fatal("Password is required")
			}

			if legacy {
				fmt.Println(services.LegacyHashPassword(password))
				return
			}

			hash, err := services.HashPassword(password)
			if err != nil {
				log.Fatalf("Failed to hash password: %v", err)
			}
			fmt.Println(hash)
		},
	}

	hashCmd.Flags().String("password", "", "Password to hash (required)")
	hashCmd.Flags().Bool("legacy", false, "Use the legacy SHA-256 scheme")

	userCmd.AddCommand(createUserCmd)
	userCmd.AddCommand(hashCmd)
	return userCmd
}

// NewCheckCommand creates the consistency audit command
func NewCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Audit the taxonomy files for referential drift",
		Long:  "Cross-check the industries and products tables for category names present on one side only, duplicate references, duplicate IDs and duplicate logins",
		Run: func(cmd *cobra.Command, args []string) {
			runCheck()
		},
	}
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the back-office version",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load()
			if err != nil {
				fmt.Println("Districhem Back-office (unconfigured)")
				return
			}
			fmt.Printf("%s v%s\n", cfg.App.Name, cfg.App.Version)
		},
	}
}

func runServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	srv, err := server.New(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize server", "error", err)
	}

	appLogger.Info("Starting back-office API server",
		"port", cfg.Server.Port,
		"environment", cfg.App.Environment,
	)

	go func() {
		if err := srv.Start(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
			appLogger.Warn("Server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Graceful shutdown failed", "error", err)
	}

	os.Exit(0)
}

func runCheck() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	store := githubstore.New(cfg.Store, appLogger)
	productRepo := repository.NewProductRepository(store, appLogger)
	industryRepo := repository.NewIndustryRepository(store, appLogger)
	userRepo := repository.NewUserRepository(store, appLogger)
	historyRepo := repository.NewHistoryRepository(store, appLogger)

	historyService := services.NewHistoryService(historyRepo, appLogger)
	taxonomyService := services.NewTaxonomyService(industryRepo, productRepo, historyService, appLogger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users, err := userRepo.GetAll(ctx)
	if err != nil {
		log.Fatalf("Failed to load users: %v", err)
	}

	report, err := taxonomyService.Audit(ctx, users)
	if err != nil {
		log.Fatalf("Audit failed: %v", err)
	}

	if report.Clean() {
		fmt.Println("Tables are consistent")
		return
	}

	printList := func(label string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Printf("%s:\n", label)
		for _, item := range items {
			fmt.Printf("  - %s\n", item)
		}
	}

	printList("Categories missing in products.json", report.MissingInProducts)
	printList("Categories missing in categories.json", report.MissingInIndustries)
	printList("Duplicate product references", report.DuplicateReferences)
	printList("Duplicate logins", report.DuplicateLogins)
	if len(report.DuplicateIndustryID) > 0 {
		fmt.Println("Duplicate industry IDs:")
		for _, id := range report.DuplicateIndustryID {
			fmt.Printf("  - %d\n", id)
		}
	}

	os.Exit(1)
}

func createUser(login, password string, admin bool) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	store := githubstore.New(cfg.Store, appLogger)
	userRepo := repository.NewUserRepository(store, appLogger)
	historyRepo := repository.NewHistoryRepository(store, appLogger)
	historyService := services.NewHistoryService(historyRepo, appLogger)
	userService := services.NewUserService(userRepo, historyService, appLogger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	isAdmin := 0
	if admin {
		isAdmin = 1
	}

	user, err := userService.Create(ctx, 0, ports.CreateUserRequest{
		Login:    login,
		Password: password,
		IsAdmin:  isAdmin,
	})
	if err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Printf("User created successfully:\n")
	fmt.Printf("  ID: %d\n", user.ID)
	fmt.Printf("  Login: %s\n", user.Login)
	fmt.Printf("  Admin: %t\n", admin)
}
