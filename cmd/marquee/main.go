package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/mdoering/marquee/internal/api"
	"github.com/mdoering/marquee/internal/config"
	"github.com/mdoering/marquee/internal/domain"
	"github.com/mdoering/marquee/internal/log"
	"github.com/mdoering/marquee/internal/service"
	"github.com/mdoering/marquee/internal/session"
	"github.com/mdoering/marquee/internal/store"
	"github.com/mdoering/marquee/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion, reset bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&reset, "reset", false, "clear the saved server and all local data")
	flag.Parse()

	if showVersion {
		fmt.Printf("marquee %s\n", Version)
		return
	}

	if reset {
		if err := runReset(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runReset drops the cached catalog, session and images, and forgets
// the server URL so the next start walks through setup again.
func runReset() error {
	if err := config.ClearData(); err != nil {
		return err
	}
	if err := config.ClearServerConfig(); err != nil {
		return err
	}
	fmt.Println("Local data and server settings cleared.")
	return nil
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting marquee", "version", Version)

	if !cfg.IsConfigured() {
		if err := runSetupFlow(cfg); err != nil {
			return err
		}
	}

	kv, err := store.Open(config.GetDataPath())
	if err != nil {
		return fmt.Errorf("failed to open data store: %w", err)
	}
	defer kv.Close()

	sess := session.NewStore(kv, logger)
	client := api.NewClient(cfg.Server.URL, sess, logger)

	catalogSvc := service.NewCatalogService(client, kv, logger)
	favoritesSvc := service.NewFavoritesService(catalogSvc, client, sess, logger)
	gallerySvc := service.NewGalleryService(client, config.GetImageCachePath(), logger)
	searchSvc := service.NewSearchService(catalogSvc, logger)

	model := tui.NewModel(client, sess, catalogSvc, favoritesSvc, gallerySvc, searchSvc)

	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// runSetupFlow prompts for the server URL and an initial login, then
// persists both. Registration happens inside the TUI afterwards.
func runSetupFlow(cfg *config.Config) error {
	fmt.Println()
	fmt.Println("Welcome to marquee!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	var serverURL string
	for {
		fmt.Print("Enter your catalog server URL (e.g., https://movies.example.com): ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		serverURL = strings.TrimSpace(input)

		if serverURL == "" {
			fmt.Println("Server URL cannot be empty. Please try again.")
			continue
		}
		if _, err := url.ParseRequestURI(serverURL); err != nil {
			fmt.Println("That does not look like a URL. Please try again.")
			continue
		}
		break
	}

	cfg.Server.URL = serverURL
	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	// Verify the URL with an anonymous login attempt so a typo is
	// caught here instead of inside the TUI
	fmt.Println()
	fmt.Println("Log in to verify the connection (leave username empty to skip):")
	fmt.Print("Username: ")
	input, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	username := strings.TrimSpace(input)
	if username == "" {
		fmt.Println()
		fmt.Println("✓ Configuration saved. Run marquee again to log in.")
		os.Exit(0)
	}

	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	client := api.NewClient(serverURL, emptyTokens{}, log.NullLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := client.Login(ctx, domain.Credentials{
		Username: username,
		Password: string(passwordBytes),
	})
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	kv, err := store.Open(config.GetDataPath())
	if err != nil {
		return fmt.Errorf("failed to open data store: %w", err)
	}
	defer kv.Close()

	sess := session.NewStore(kv, log.NullLogger())
	if err := sess.SetSession(result.User, result.Token); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	fmt.Println()
	fmt.Printf("✓ Logged in as %s\n", result.User.Username)
	fmt.Println()
	return nil
}

// emptyTokens is the token source for pre-session requests
type emptyTokens struct{}

func (emptyTokens) Token() string    { return "" }
func (emptyTokens) Username() string { return "" }
