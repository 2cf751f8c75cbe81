package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"modelhost/internal/config"
)

// app carries the resolved configuration and logger into subcommands.
type app struct {
	cfg config.Config
	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.Defaults(), log: zerolog.Nop()}
	root := &cobra.Command{
		Use:           "modelhost",
		Short:         "Supervise one local model worker process",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringP("config", "c", "", "Config file (.yaml, .json or .toml)")
	pf.String("models-dir", "", "Directory to scan for models (default ~/models/llm)")
	pf.StringSlice("model-ext", nil, "Model file extensions (default gguf,bin,pt)")
	pf.String("llama-bin", "", "llama.cpp CLI used by the local-binary strategy")
	pf.StringSlice("llama-args", nil, "Extra arguments for the llama.cpp CLI")
	pf.String("log-level", "", "Log level: debug|info|warn|error")
	pf.String("log-format", "", "Log format: auto|console|json")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd, os.LookupEnv)
		if err != nil {
			return err
		}
		a.cfg = cfg
		a.log = newLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)
		return nil
	}

	root.AddCommand(newServeCmd(a), newModelsCmd(a), newResolveCmd(a), newDemoWorkerCmd())
	return root
}

// resolveConfig layers defaults < config file < MODELHOST_* env < flags.
func resolveConfig(cmd *cobra.Command, lookup func(string) (string, bool)) (config.Config, error) {
	cfg := config.Defaults()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		fileCfg, err := config.Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = cfg.Merge(fileCfg)
	}
	envCfg, err := config.FromEnv(lookup)
	if err != nil {
		return cfg, err
	}
	cfg = cfg.Merge(envCfg)
	return cfg.Merge(flagConfig(cmd)), nil
}

// flagConfig collects only the flags the user actually set.
func flagConfig(cmd *cobra.Command) config.Config {
	var c config.Config
	fs := cmd.Flags()
	changed := fs.Changed
	if changed("models-dir") {
		c.ModelsDir, _ = fs.GetString("models-dir")
	}
	if changed("model-ext") {
		c.ModelExtensions, _ = fs.GetStringSlice("model-ext")
	}
	if changed("llama-bin") {
		c.LlamaBin, _ = fs.GetString("llama-bin")
	}
	if changed("llama-args") {
		c.LlamaArgs, _ = fs.GetStringSlice("llama-args")
	}
	if changed("log-level") {
		c.LogLevel, _ = fs.GetString("log-level")
	}
	if changed("log-format") {
		c.LogFormat, _ = fs.GetString("log-format")
	}
	if changed("addr") {
		c.Addr, _ = fs.GetString("addr")
	}
	if changed("event-buffer") {
		c.EventBuffer, _ = fs.GetInt("event-buffer")
	}
	if changed("stop-grace") {
		d, _ := fs.GetDuration("stop-grace")
		c.StopGraceMS = config.Int(int(d / time.Millisecond))
	}
	if changed("write-timeout") {
		d, _ := fs.GetDuration("write-timeout")
		c.WriteTimeoutMS = config.Int(int(d / time.Millisecond))
	}
	if changed("forward-prompt") {
		b, _ := fs.GetBool("forward-prompt")
		c.ForwardPromptOnStart = &b
	}
	if changed("watch") {
		b, _ := fs.GetBool("watch")
		c.WatchModels = &b
	}
	if changed("demo-count") {
		c.DemoCount, _ = fs.GetInt("demo-count")
	}
	if changed("demo-interval") {
		d, _ := fs.GetDuration("demo-interval")
		c.DemoIntervalMS = int(d / time.Millisecond)
	}
	if changed("cors") {
		b, _ := fs.GetBool("cors")
		c.CORSEnabled = &b
	}
	if changed("cors-origins") {
		c.CORSOrigins, _ = fs.GetStringSlice("cors-origins")
	}
	if changed("max-body-bytes") {
		c.MaxBodyBytes, _ = fs.GetInt64("max-body-bytes")
	}
	return c
}
