package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"jamberry-workstation/lib/configutil"
	"jamberry-workstation/lib/restyutil"
	"jamberry-workstation/lib/scrapers/workstation"
	"jamberry-workstation/lib/serviceutil"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "workstation-cli",
	Short: "workstation-cli pulls reports, orders and customers out of a workstation account.",
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type Config struct {
	BaseUrl  string `json:"baseUrl"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// credentials come from workstation.json5 (plus its .local overlay),
// with WORKSTATION_USERNAME/WORKSTATION_PASSWORD from the environment
// or a .env file taking precedence.
func readConfig() Config {
	godotenv.Load()

	cfg, err := configutil.Read[Config]("workstation.json5")
	if err != nil && !os.IsNotExist(err) {
		serviceutil.Fatal("failed to read config", err)
	}
	if username := os.Getenv("WORKSTATION_USERNAME"); username != "" {
		cfg.Username = username
	}
	if password := os.Getenv("WORKSTATION_PASSWORD"); password != "" {
		cfg.Password = password
	}

	if cfg.Username == "" || cfg.Password == "" {
		serviceutil.Fatal(
			"missing credentials",
			errors.New("set WORKSTATION_USERNAME and WORKSTATION_PASSWORD or fill in workstation.json5"),
		)
	}
	return cfg
}

func createClient(ctx context.Context, cfg Config) *workstation.Client {
	workstation.SetRestyInstrumentOutput(restyutil.NewFilesystemOutput(".dev/resty/workstation"))

	client, err := workstation.NewClient(ctx, workstation.ClientOptions{
		BaseUrl:  cfg.BaseUrl,
		Username: cfg.Username,
		Password: cfg.Password,
	})
	if err != nil {
		serviceutil.Fatal("failed to initialize client", err)
	}
	if err := client.Login(ctx); err != nil {
		serviceutil.Fatal("failed to login to workstation", err)
	}
	return client
}
