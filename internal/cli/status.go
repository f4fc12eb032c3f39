package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vietddude/mender/internal/core/config"
	"github.com/vietddude/mender/internal/core/domain"
	"github.com/vietddude/mender/internal/health"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show engine health and registered strategies",
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	base := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	client := &http.Client{Timeout: 5 * time.Second}

	var report health.Report
	if err := fetchJSON(client, base+"/health/detailed", &report); err != nil {
		slog.Error("Failed to query engine health", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Status: %s\n", report.Status)
	fmt.Printf("Success rate: %.2f%% over %d activations\n", report.SuccessRatePct, report.TotalActivations)
	if report.LastActivation != nil {
		fmt.Printf("Last activation: %s\n", report.LastActivation.Format(time.RFC3339))
	}
	fmt.Println()

	var strategies []*domain.RecoveryStrategy
	if err := fetchJSON(client, base+"/strategies", &strategies); err != nil {
		slog.Error("Failed to query strategies", "error", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "STRATEGY\tCATEGORY\tACTIONS\tMAX/HOUR\tCOOLDOWN")

	for _, s := range strategies {
		maxPerHour := "-"
		if s.MaxPerHour > 0 {
			maxPerHour = fmt.Sprintf("%d", s.MaxPerHour)
		}
		cooldown := "-"
		if s.Cooldown > 0 {
			cooldown = s.Cooldown.String()
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", s.ID, s.Category, len(s.Actions), maxPerHour, cooldown)
	}
	_ = w.Flush()
}

func fetchJSON(client *http.Client, url string, out any) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	return json.NewDecoder(resp.Body).Decode(out)
}
