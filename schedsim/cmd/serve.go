package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/schedlab/schedsim/monitoring"
	"github.com/schedlab/schedsim/session"
)

var (
	servePort int
	serveOpen bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve an interactive simulation session over HTTP",
	Long: `Serve starts the monitoring server around a fresh session.
Clients drive the simulation through /api/init, /api/step, /api/run,
/api/pause, and /api/reset. The SCHEDSIM_PORT environment variable (or a
.env file) provides the default port.`,
	RunE: serve,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0,
		"port to listen on (0 picks SCHEDSIM_PORT or a random port)")
	serveCmd.Flags().BoolVar(&serveOpen, "open", false,
		"open the server address in a browser")

	rootCmd.AddCommand(serveCmd)
}

func serve(cmd *cobra.Command, args []string) error {
	// A missing .env file is fine; flags and the environment still apply.
	_ = godotenv.Load()

	port := servePort
	if port == 0 {
		if env := os.Getenv("SCHEDSIM_PORT"); env != "" {
			p, err := strconv.Atoi(env)
			if err != nil {
				return fmt.Errorf("bad SCHEDSIM_PORT %q: %w", env, err)
			}
			port = p
		}
	}

	controller := session.NewController()
	monitor := monitoring.NewMonitor(controller)
	if port != 0 {
		monitor.WithPortNumber(port)
	}

	addr, err := monitor.StartServer()
	if err != nil {
		return err
	}

	if serveOpen {
		if err := browser.OpenURL("http://" + addr); err != nil {
			fmt.Fprintf(os.Stderr, "cannot open browser: %v\n", err)
		}
	}

	select {}
}
