// Command mudra runs the gesture engine server and offers offline tools
// for scoring and replaying traces.
package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "mudra",
	Short: "Directional gesture recognition engine",
	Long: `Mudra matches pointer traces against stored direction patterns
and runs the plugin action bound to each recognized gesture.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "settings file (default ~/.mudra/settings.json)")
}

// loadSettings reads the settings file named by --config, or the default one.
func loadSettings() (*config.Settings, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return config.Load(path)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
