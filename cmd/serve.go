package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/vscarantav/parallelscriptures/internal/auth"
	"github.com/vscarantav/parallelscriptures/internal/config"
	"github.com/vscarantav/parallelscriptures/internal/db"
	"github.com/vscarantav/parallelscriptures/internal/scripture"
	"github.com/vscarantav/parallelscriptures/internal/server"
	"github.com/vscarantav/parallelscriptures/internal/web"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the scripture reader server",
	Long:  `Starts the web server hosting the reading pages, the JSON API, and the account system.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if servePort != 0 {
			cfg.Port = servePort
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return fmt.Errorf("creating data dir: %w", err)
		}

		// Open database.
		dbPath := filepath.Join(cfg.DataDir, "scriptures.db")
		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		// Upstream client and the localized-name store.
		client := scripture.NewClient(
			cfg.UpstreamBase,
			cfg.UserAgent,
			time.Duration(cfg.FetchTimeout)*time.Second,
			cfg.FetchRetries,
		)
		names := scripture.LoadNames(
			filepath.Join(cfg.DataDir, "booksnames.json"),
			client,
			time.Duration(cfg.BooksCacheTTL)*time.Second,
		)

		// Create and start server.
		srv := server.New(server.Config{
			Port:     cfg.Port,
			DataDir:  cfg.DataDir,
			AllowAll: true,
		}, database)

		registerAllRoutes(srv, cfg, client, names)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "parallelscriptures v%s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "  Upstream: %s\n", cfg.UpstreamBase)

		return srv.Start()
	},
}

// registerAllRoutes wires up the feature routes. The session middleware
// is scoped to a group because the base router already has routes.
func registerAllRoutes(srv *server.Server, cfg *config.Config, client *scripture.Client, names *scripture.Names) {
	authStore := auth.NewStore(srv.Database())
	signer := auth.NewSigner(cfg.SecretKey, time.Duration(cfg.TokenMaxAge)*time.Second)
	mailer := auth.NewMailer(cfg.SMTP)

	srv.Router().Group(func(r chi.Router) {
		// Session resolution runs for every page so they can show who
		// is signed in.
		r.Use(auth.Middleware(authStore))

		auth.RegisterRoutes(r, auth.NewHandler(authStore, signer, mailer, cfg.ShowDevLinks))
		web.RegisterRoutes(r, web.New(client, names, cfg))
	})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
