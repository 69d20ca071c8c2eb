package main

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"statichttpd/internal/config"
	"statichttpd/internal/server"
	"statichttpd/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "statichttpd",
	Short: "serve static files from the working directory",
	Long: `statichttpd serves the current working directory over HTTP.
Requests are resolved strictly beneath the directory the server was
started in; directories are answered with index.html when present or
with a generated listing otherwise.`,
	Args: cobra.ArbitraryArgs, // extra arguments are ignored
	Run: func(cmd *cobra.Command, args []string) {
		runServer()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.String())
	},
}

func init() {
	viper.SetEnvPrefix("statichttpd")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	def := config.Default()
	rootCmd.Flags().Uint16P("port", "p", def.Port, "port on which to listen")
	rootCmd.Flags().String("addr", def.Addr, "address on which to listen")
	rootCmd.Flags().Int("workers", def.Workers, "size of the connection worker pool")
	_ = viper.BindPFlag("port", rootCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("addr", rootCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("workers", rootCmd.Flags().Lookup("workers"))

	rootCmd.AddCommand(versionCmd)
}

// parsePort validates a port value from flags or environment. The flag path
// is range-checked by cobra already; environment overrides arrive as an
// arbitrary uint and must not be truncated into the uint16 silently.
func parsePort(v uint) (uint16, error) {
	if v < 1 || v > 65535 {
		return 0, fmt.Errorf("port %d out of range 1..65535", v)
	}
	return uint16(v), nil
}

func runServer() {
	cfg := config.Default()
	port, err := parsePort(viper.GetUint("port"))
	if err != nil {
		log.Fatalf("invalid port: %v", err)
	}
	cfg.Port = port
	cfg.Addr = viper.GetString("addr")
	cfg.Workers = viper.GetInt("workers")

	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("determine working directory: %v", err)
	}
	root, err := config.ResolveRoot(wd)
	if err != nil {
		log.Fatalf("resolve root %q: %v", wd, err)
	}
	cfg.Root = root

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	log.Infof("statichttpd %s", version.String())
	log.Infof("listening on %s", cfg.Listen())
	log.Infof("serving %s", cfg.Root)

	// Bind first so startup errors surface before any request, then serve
	// forever.
	if err := server.New(cfg).ListenAndServe(); err != nil {
		log.Fatalf("serve: %v", err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
