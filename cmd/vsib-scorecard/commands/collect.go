package commands

import (
	"fmt"
	"log/slog"
	"os"
	"time"
	"vsib-scorecard/lib/configutil"
	"vsib-scorecard/lib/roster"
	"vsib-scorecard/lib/scrapers/vsib"
	"vsib-scorecard/lib/serviceutil"
	"vsib-scorecard/lib/telemetry"
	"vsib-scorecard/services/collector"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type PortalConfig struct {
	BaseUrl     string `json:"base_url"`
	Headless    bool   `json:"headless"`
	ManualLogin bool   `json:"manual_login"`
	UserDataDir string `json:"user_data_dir"`
}

type CollectConfig struct {
	Portal              PortalConfig `json:"portal"`
	Roster              string       `json:"roster"`
	DataDir             string       `json:"data_dir"`
	ErrorLog            string       `json:"error_log"`
	RequestDelaySeconds int          `json:"request_delay_seconds"`
}

func defaultCollectConfig() CollectConfig {
	return CollectConfig{
		Portal: PortalConfig{
			Headless: true,
		},
		Roster:   "conf/hr.toml",
		DataDir:  "data",
		ErrorLog: "log.txt",
	}
}

func init() {
	rootCmd.AddCommand(collectCmd)
}

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Scrapes the scorecard page of every supplier in the roster and saves the raw HTML.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		cfg, err := configutil.ReadConfig[CollectConfig]("config.json5")
		if os.IsNotExist(err) {
			cfg = defaultCollectConfig()
		} else if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}
		if cfg.Roster == "" {
			cfg.Roster = "conf/hr.toml"
		}

		// no IDs means no work, bail out before a browser ever starts
		r, err := roster.Load(cfg.Roster)
		if err != nil {
			serviceutil.Fatal("cannot proceed without supplier IDs", err)
		}
		ids, err := r.SupplierIDs()
		if err != nil {
			serviceutil.Fatal("cannot proceed without supplier IDs", err)
		}
		slog.Info("loaded supplier roster", "path", cfg.Roster, "ids", len(ids))

		telemetry.InstrumentPerfStats(ctx)

		session, err := vsib.NewSession(ctx, vsib.Options{
			BaseURL:     cfg.Portal.BaseUrl,
			Headless:    cfg.Portal.Headless && !cfg.Portal.ManualLogin,
			UserDataDir: cfg.Portal.UserDataDir,
		})
		if err != nil {
			serviceutil.Fatal("failed to start browser", err)
		}
		defer session.Close()

		if cfg.Portal.ManualLogin {
			err = session.ManualLogin(ctx)
			if err != nil {
				serviceutil.Fatal("manual login failed", err)
			}
			baseURL := cfg.Portal.BaseUrl
			if baseURL == "" {
				baseURL = vsib.DefaultBaseURL
			}
			err = vsib.VerifySession(ctx, baseURL, session.Cookies())
			if err != nil {
				slog.Warn("session probe failed, pages may come back as login redirects", "err", err)
			}
		}

		t1 := time.Now()
		meta, err := collector.Run(ctx, session, ids, collector.Options{
			DataDir:      cfg.DataDir,
			ErrorLogPath: cfg.ErrorLog,
			RequestDelay: time.Duration(cfg.RequestDelaySeconds) * time.Second,
		})
		if err != nil {
			serviceutil.Fatal("batch run failed", err)
		}
		slog.Info("collection time", "seconds", time.Since(t1).Seconds())

		printBatchSummary(meta)
	},
}

func printBatchSummary(meta collector.BatchMetadata) {
	t := newTable()
	t.AppendHeader(table.Row{"Supplier", "Status", "Key Elements", "Error"})
	for _, r := range meta.Results {
		t.AppendRow(table.Row{r.SupplierID, r.Status, r.KeyElements, r.Error})
	}
	t.AppendFooter(table.Row{
		fmt.Sprintf("%d total", meta.TotalSuppliers),
		fmt.Sprintf("%d ok / %d failed", meta.Successful, meta.Failed),
		"",
		meta.SuccessRate,
	})
	t.Render()
}
