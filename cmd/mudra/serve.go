package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/monitoring"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

var (
	serveAddr    string
	serveDB      string
	servePlugins string
	serveStatic  string
	serveTray    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the gesture server",
	Long: `Run the HTTP and websocket server. Flags override the values in the
settings file.`,
	Run: serve,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "database file")
	serveCmd.Flags().StringVar(&servePlugins, "plugins", "", "plugin directory")
	serveCmd.Flags().StringVar(&serveStatic, "static", "", "directory of static web files")
	serveCmd.Flags().BoolVar(&serveTray, "tray", false, "show a system tray icon")
}

// applyFlags overrides settings with the flags given on the command line.
func applyFlags(cmd *cobra.Command, s *config.Settings) {
	flags := cmd.Flags()
	if flags.Changed("addr") {
		s.Addr = serveAddr
	}
	if flags.Changed("db") {
		s.DBPath = serveDB
	}
	if flags.Changed("plugins") {
		s.PluginDir = servePlugins
	}
	if flags.Changed("static") {
		s.StaticDir = serveStatic
	}
	if flags.Changed("tray") {
		s.Tray = serveTray
	}
	if s.StaticDir == "" {
		s.StaticDir = findWebDir()
	}
}

func serve(cmd *cobra.Command, args []string) {
	fmt.Println("Mudra - Directional Gesture Recognition")

	settings, err := loadSettings()
	if err != nil {
		log.Fatal("Failed to load settings: ", err)
	}
	applyFlags(cmd, settings)

	if err := os.MkdirAll(filepath.Dir(settings.DBPath), 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	st, err := store.New(settings.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	a := app.New(app.Config{
		Store:           st,
		PluginDir:       settings.PluginDir,
		PluginTimeoutMs: settings.PluginTimeoutMs,
		Session:         settings.Session(),
	})
	if err := a.LoadSettings(); err != nil {
		monitoring.Logf("Failed to load stored settings: %v", err)
	}
	if err := a.DiscoverPlugins(); err != nil {
		monitoring.Logf("Plugin discovery failed: %v", err)
	}
	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start dispatcher: %v", err)
	}
	defer a.Stop()

	if settings.StaticDir != "" {
		fmt.Printf("Serving static files from: %s\n", settings.StaticDir)
	}

	srv := server.New(server.Config{
		StaticDir: settings.StaticDir,
		App:       a,
		Defaults:  settings.Recognition(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !settings.Tray {
		if err := srv.ListenAndServe(ctx, settings.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
		return
	}

	// systray owns the main goroutine, so the server runs beside it
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe(ctx, settings.Addr)
	}()

	t := tray.New(a.IsEnabled())
	t.OnToggle(a.SetEnabled)
	t.OnSettings(func() { openBrowser(settingsURL(settings.Addr)) })
	t.OnQuit(stop)
	a.OnMatch(t.SetLastMatch)
	go func() {
		<-ctx.Done()
		t.Quit()
	}()
	t.Run()

	stop()
	if err := <-errCh; err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// settingsURL returns the browser URL for a listen address such as ":8080".
func settingsURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/"
}

func openBrowser(url string) {
	var c *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		c = exec.Command("open", url)
	case "windows":
		c = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		c = exec.Command("xdg-open", url)
	}
	if err := c.Start(); err != nil {
		monitoring.Logf("Failed to open browser: %v", err)
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.mudra/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	dir, err := config.Dir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(dir, "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
