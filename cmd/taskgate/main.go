package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zen-systems/taskgate/pkg/adapter"
	"github.com/zen-systems/taskgate/pkg/analyze"
	"github.com/zen-systems/taskgate/pkg/config"
	"github.com/zen-systems/taskgate/pkg/docs"
	"github.com/zen-systems/taskgate/pkg/metrics"
	"github.com/zen-systems/taskgate/pkg/router"
	"github.com/zen-systems/taskgate/pkg/service"
	"github.com/zen-systems/taskgate/pkg/session"
	"github.com/zen-systems/taskgate/pkg/task"
)

var (
	configFile string
	log        = logrus.New()
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "taskgate",
		Short: "Complexity-aware task router for LLM providers",
		Long: `Taskgate scores each task's complexity and reasoning requirements,
	then routes it to the provider tier that fits: fast models for simple
	tasks, capable models for complex ones, and a reasoning specialist for
	tasks that need explicit step-by-step output. Any provider failure is
	retried once against the cheapest tier.`,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to config file")

	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(chatCmd())
	rootCmd.AddCommand(thresholdsCmd())
	rootCmd.AddCommand(modelsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func askCmd() *cobra.Command {
	var priority string
	var reasoning bool
	var showAnalysis bool
	var adapterName string
	var model string

	cmd := &cobra.Command{
		Use:   "ask [task]",
		Short: "Route a task to the appropriate provider tier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if adapterName == "" && model != "" {
				return fmt.Errorf("--model requires --adapter")
			}

			svc, cleanup, err := buildService("")
			if err != nil {
				return err
			}
			defer cleanup()

			call := task.CallContext{
				Priority:          task.Priority(priority),
				RequiresReasoning: reasoning,
			}

			var result *service.Result
			if adapterName != "" {
				result, err = svc.ProcessTaskWith(context.Background(), adapterName, model, task.FromText(args[0]), call)
			} else {
				result, err = svc.ProcessTask(context.Background(), task.FromText(args[0]), call)
			}
			if err != nil {
				return err
			}

			if result.Tier != "" {
				fmt.Fprintf(os.Stderr, "Routed to %s (%s), complexity %d\n",
					result.Tier, result.Model, result.Analysis.Complexity)
			} else {
				fmt.Fprintf(os.Stderr, "Sent to %s (%s), complexity %d\n",
					adapterName, result.Model, result.Analysis.Complexity)
			}
			if result.Cost != nil {
				fmt.Fprintf(os.Stderr, "Estimated cost: $%.6f\n", result.Cost.Amount)
			}
			if result.FallbackUsed {
				fmt.Fprintln(os.Stderr, "Primary provider failed; response is from the fallback tier")
			}
			if showAnalysis {
				printJSON(os.Stderr, result.Analysis)
			}

			fmt.Println(result.Response.Content)
			return nil
		},
	}

	cmd.Flags().StringVar(&priority, "priority", "", `routing priority hint ("high" or "low")`)
	cmd.Flags().BoolVar(&reasoning, "reasoning", false, "force the step-by-step reasoning tier")
	cmd.Flags().BoolVar(&showAnalysis, "show-analysis", false, "print the task analysis")
	cmd.Flags().StringVar(&adapterName, "adapter", "", "override adapter (google, anthropic, deepseek, openai)")
	cmd.Flags().StringVar(&model, "model", "", "override model (requires --adapter)")
	return cmd
}

func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [task]",
		Short: "Score and classify a task without routing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			analysis := analyze.AnalyzeTask(task.FromText(args[0]))
			printJSON(os.Stdout, analysis)

			fmt.Fprintf(os.Stderr, "Would route to tier: %s\n", router.TierFor(analysis, cfg.Thresholds))
			return nil
		},
	}
}

func chatCmd() *cobra.Command {
	var sessionID string
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive chat with task detection and session history",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := buildService(metricsAddr)
			if err != nil {
				return err
			}
			defer cleanup()

			if sessionID == "" {
				sessionID = "default"
			}

			scanner := bufio.NewScanner(os.Stdin)
			fmt.Fprintln(os.Stderr, "taskgate chat (ctrl-d to exit)")
			for {
				fmt.Fprint(os.Stderr, "> ")
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}

				chatResult, err := svc.ProcessChat(context.Background(), sessionID, line, task.CallContext{})
				if err != nil {
					fmt.Fprintf(os.Stderr, "error: %v\n", err)
					continue
				}
				fmt.Println(chatResult.Display)
			}
			return scanner.Err()
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "session identifier")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	return cmd
}

func thresholdsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "thresholds [simple=N] [medium=N] [complex=N]",
		Short: "Show or update the routing thresholds (updates are saved to the config file)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			table := router.NewThresholdTable(cfg.Thresholds)

			if len(args) > 0 {
				update, err := parseThresholdArgs(args)
				if err != nil {
					return err
				}
				if err := table.Update(update); err != nil {
					return err
				}
				path := configFile
				if path == "" {
					path = filepath.Join(cfg.ConfigDir, "config.yaml")
				}
				if err := config.SaveThresholds(path, table.Snapshot()); err != nil {
					return err
				}
			}

			th := table.Snapshot()
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "BOUNDARY\tVALUE\tTIER AT OR BELOW\n")
			fmt.Fprintf(w, "simple\t%d\t%s\n", th.Simple, router.TierFlash)
			fmt.Fprintf(w, "medium\t%d\t%s\n", th.Medium, router.TierPro)
			fmt.Fprintf(w, "complex\t%d\t%s\n", th.Complex, router.TierSonnet)
			fmt.Fprintf(w, "above\t-\t%s\n", router.TierOpus)
			return w.Flush()
		},
	}
	return cmd
}

func modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List configured adapters, models and tier assignments",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			adapters, err := createAdapters(cfg)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "ADAPTER\tMODELS\n")
			for name, a := range adapters {
				fmt.Fprintf(w, "%s\t%s\n", name, strings.Join(a.Models(), ", "))
			}
			fmt.Fprintf(w, "\nTIER\tADAPTER\tMODEL\n")
			for _, tier := range router.Tiers() {
				target := router.TargetFor(tier)
				fmt.Fprintf(w, "%s\t%s\t%s\n", tier, target.Adapter, target.Model)
			}
			return w.Flush()
		},
	}
}

func loadConfig() (*config.Config, error) {
	if configFile != "" {
		return config.LoadFile(configFile)
	}
	return config.Load()
}

// createAdapters builds the adapter registry from configured API keys.
func createAdapters(cfg *config.Config) (map[string]adapter.Adapter, error) {
	adapters := make(map[string]adapter.Adapter)

	if cfg.HasAdapter("anthropic") {
		a, err := adapter.NewAnthropicAdapter(cfg.AnthropicAPIKey)
		if err != nil {
			return nil, err
		}
		adapters["anthropic"] = a
	}
	if cfg.HasAdapter("google") {
		a, err := adapter.NewGoogleAdapter(cfg.GoogleAPIKey)
		if err != nil {
			return nil, err
		}
		adapters["google"] = a
	}
	if cfg.HasAdapter("deepseek") {
		a, err := adapter.NewDeepSeekAdapter(cfg.DeepSeekAPIKey)
		if err != nil {
			return nil, err
		}
		adapters["deepseek"] = a
	}
	if cfg.HasAdapter("openai") {
		a, err := adapter.NewOpenAIAdapter(cfg.OpenAIAPIKey)
		if err != nil {
			return nil, err
		}
		adapters["openai"] = a
	}

	if len(adapters) == 0 {
		return nil, fmt.Errorf("no API keys configured; set ANTHROPIC_API_KEY, GOOGLE_API_KEY or DEEPSEEK_API_KEY")
	}

	return adapters, nil
}

// buildService wires the full service from configuration. The returned
// cleanup stops the config watcher and closes the session store.
func buildService(metricsAddr string) (*service.Service, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	adapters, err := createAdapters(cfg)
	if err != nil {
		return nil, nil, err
	}

	store, err := session.NewSQLiteStore(cfg.SessionDB)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open session store: %w", err)
	}

	creator, err := docs.NewFSCreator(cfg.DocumentDir)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("failed to create document store: %w", err)
	}

	var sink metrics.Sink = metrics.NopSink{}
	if metricsAddr != "" {
		registry := prometheus.NewRegistry()
		sink = metrics.NewPromSink(registry)
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				log.WithError(err).Warn("metrics server stopped")
			}
		}()
	}

	r := router.New(adapters, router.WithLogger(log))
	svc := service.New(r, cfg.Thresholds,
		service.WithSessions(store),
		service.WithDocuments(creator),
		service.WithMetrics(sink),
		service.WithPricing(cfg.Pricing),
		service.WithServiceLogger(log),
	)

	stopWatch := func() {}
	watchPath := configFile
	if watchPath == "" {
		watchPath = filepath.Join(cfg.ConfigDir, "config.yaml")
	}
	if stop, err := config.WatchThresholds(watchPath, svc.ApplyThresholds, log); err == nil {
		stopWatch = stop
	} else {
		log.WithError(err).Debug("config watcher unavailable")
	}

	cleanup := func() {
		stopWatch()
		store.Close()
	}
	return svc, cleanup, nil
}

func parseThresholdArgs(args []string) (router.ThresholdUpdate, error) {
	var update router.ThresholdUpdate
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return update, fmt.Errorf("expected key=value, got %q", arg)
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return update, fmt.Errorf("invalid value for %s: %q", key, value)
		}
		switch strings.ToLower(key) {
		case "simple":
			update.Simple = &n
		case "medium":
			update.Medium = &n
		case "complex":
			update.Complex = &n
		default:
			return update, fmt.Errorf("unknown threshold %q", key)
		}
	}
	return update, nil
}

func printJSON(w *os.File, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return
	}
	fmt.Fprintln(w, string(data))
}
