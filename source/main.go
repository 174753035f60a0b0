package main

import (
	"context"
	"crm/source/database"
	"crm/source/entities/auth"
	"crm/source/entities/board"
	"crm/source/entities/clients"
	"crm/source/entities/funnels"
	"crm/source/entities/leads"
	leadshistory "crm/source/entities/leads_history"
	"crm/source/entities/origins"
	"crm/source/entities/report"
	"crm/source/entities/settings"
	"crm/source/entities/users"
	"crm/source/entities/webhooks"
	"crm/source/middlewares"
	"crm/source/schemas"
	"crm/source/utils"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const SHUTDOWN_TIMEOUT = 15 * time.Second

func main() {
	rootCmd := &cobra.Command{
		Use:           "crm",
		Short:         "Multi-tenant CRM API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(createAdminCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads configuration and installs the global logger.
func bootstrap() (*utils.Config, error) {
	if err := utils.LoadEnvVariables(); err != nil {
		return nil, err
	}
	cfg, err := utils.LoadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := utils.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	utils.Log = logger

	if cfg.Env == utils.ENV_RELEASE {
		fmt.Printf("\033[1;31;47m[ATENÇÃO] Rodando em ambiente de PRODUÇÃO!\033[0m\n")
	} else {
		fmt.Printf("[INFO] Ambiente atual: %s\n", cfg.Env)
	}
	return cfg, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API (default)",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := bootstrap()
	if err != nil {
		return err
	}
	defer utils.Log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.OpenMySQL(ctx, cfg.MySQLURI)
	if err != nil {
		return err
	}
	defer db.Close()

	mongoClient, err := database.ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		return err
	}
	defer mongoClient.Disconnect(context.Background())

	rdb, err := database.ConnectRedis(ctx, cfg.RedisURI)
	if err != nil {
		return err
	}
	defer rdb.Close()

	tokens := middlewares.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiration)
	hub := board.NewHub()
	webhookRepo := webhooks.NewRepository(db)
	dispatcher := webhooks.NewDispatcher(webhookRepo, cfg.WebhookTimeout)

	router := newRouter(handlers{
		tokens:   tokens,
		auth:     auth.NewHandler(auth.NewUserRepository(db), tokens),
		users:    users.NewHandler(users.NewRepository(db)),
		clients:  clients.NewHandler(clients.NewRepository(db)),
		funnels:  funnels.NewHandler(funnels.NewRepository(db)),
		leads:    leads.NewHandler(leads.NewRepository(db), dispatcher, leadshistory.NewStore(mongoClient, cfg.Env), hub),
		webhooks: webhooks.NewHandler(webhookRepo, dispatcher),
		origins:  origins.NewHandler(origins.NewRepository(db)),
		settings: settings.NewHandler(settings.NewStore(rdb)),
		board:    board.NewHandler(hub, tokens),
		report:   report.NewHandler(report.NewRepository(db)),
	}, cfg.AllowedOrigins)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		utils.Log.Info("server started", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	utils.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the MySQL tables that do not exist yet",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bootstrap()
			if err != nil {
				return err
			}

			db, err := database.OpenMySQL(cmd.Context(), cfg.MySQLURI)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.Migrate(cmd.Context(), db); err != nil {
				return err
			}
			utils.Log.Info("schema is up to date")
			return nil
		},
	}
}

func createAdminCmd() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" || email == "" || len(password) < 6 {
				return errors.New("--name, --email and a --password of at least 6 characters are required")
			}

			cfg, err := bootstrap()
			if err != nil {
				return err
			}

			db, err := database.OpenMySQL(cmd.Context(), cfg.MySQLURI)
			if err != nil {
				return err
			}
			defer db.Close()

			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}

			repo := users.NewRepository(db)
			taken, err := repo.EmailTaken(cmd.Context(), email, 0)
			if err != nil {
				return err
			}
			if taken {
				return fmt.Errorf("a user with email %s already exists", email)
			}

			id, err := repo.Create(cmd.Context(), schemas.User{
				Name:         name,
				Email:        email,
				PasswordHash: hash,
				Role:         schemas.ROLE_ADMIN,
			})
			if err != nil {
				return err
			}

			utils.Log.Info("admin created", zap.Int64("user_id", id), zap.String("email", email))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "admin display name")
	cmd.Flags().StringVar(&email, "email", "", "admin login email")
	cmd.Flags().StringVar(&password, "password", "", "admin password")

	return cmd
}
