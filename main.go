package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"arena/config"
	"arena/logging"
	"arena/model"
	"arena/provider"
	"arena/ui"
)

const Version = "v0.1.0"

func main() {
	configPath := flag.String("config", "", "path to config.toml (default ~/.config/arena/config.toml)")
	prompt := flag.String("p", "", "run one cycle for this prompt, print every card and exit")
	initConfig := flag.Bool("init", false, "write a commented default config and exit")
	check := flag.Bool("check", false, "check that the upstream (or proxy) is reachable and exit")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("arena", Version)
		return
	}

	if *initConfig {
		path := *configPath
		if path == "" {
			path = config.GetConfigFilePath()
		}
		if err := config.WriteDefaultConfig(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", config.ExpandPath(path))
		return
	}

	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read .env: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fail(*prompt == "" && !*check, ui.StageConfig, *configPath, err)
	}

	// The alt screen owns the terminal, so the client only ever logs to a file
	logOpts := logging.Options{Debug: cfg.Log.Debug}
	if cfg.Log.Debug {
		logOpts.File = cfg.DebugLogPath()
		logOpts.MaxSizeMB = cfg.Log.MaxSizeMB
	}
	if err := logging.Setup(logOpts); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Close()

	log.Infof("arena %s starting (config %q)", Version, cfg.Source)

	client, err := provider.NewClientFromConfig(cfg)
	if err != nil {
		fail(*prompt == "" && !*check, ui.StageUpstream, *configPath, err)
	}

	m := model.NewModel(cfg, model.DefaultRegistry(), client, Version)

	if *check || *prompt != "" {
		var code int
		if *check {
			code = runCheck(m)
		} else {
			code = runHeadless(m, *prompt)
		}
		logging.Close()
		os.Exit(code)
	}

	view := ui.NewAppView(m)
	defer view.Close()

	p := tea.NewProgram(view, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running arena: %v\n", err)
		os.Exit(1)
	}
}

// fail reports a start-up error, in a modal when the TUI would have run.
func fail(modal bool, stage ui.StartupStage, configPath string, err error) {
	if !modal {
		fmt.Fprintf(os.Stderr, "%s: %v\n", stage.Title(), err)
		for _, hint := range ui.StartupHints(stage, err, configPath) {
			fmt.Fprintf(os.Stderr, "  %s\n", hint)
		}
		os.Exit(1)
	}

	p := tea.NewProgram(ui.NewStartupErrorModal(stage, err, configPath), tea.WithAltScreen())
	if _, runErr := p.Run(); runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
	}
	os.Exit(1)
}

func runCheck(m *model.Model) int {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	if m.Config.ProxyMode() {
		err = m.Backend.Ping(ctx)
	} else {
		err = provider.ValidateUpstream(ctx, provider.UpstreamConfig(m.Config))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s (%s): unreachable: %v\n", m.UpstreamLabel(), m.Mode(), err)
		return 1
	}
	if m.Config.ProxyMode() {
		fmt.Printf("%s (%s): ok\n", m.UpstreamLabel(), m.Mode())
	} else {
		fmt.Printf("%s (%s, model %s): ok\n", m.UpstreamLabel(), m.Mode(), provider.ModelName(m.Config))
	}
	return 0
}

// runHeadless runs one cycle and prints the cards. Exit status is 1 when any card failed.
func runHeadless(m *model.Model, prompt string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cycle, err := m.Arena.Submit(ctx, prompt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	if err := cycle.Wait(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Interrupted before every model answered: %v\n", err)
		return 130
	}

	snap := m.Arena.Snapshot()
	fmt.Print(ui.RenderReport(m.Registry, snap, m.UpstreamLabel()))

	for _, id := range snap.Order {
		if snap.State(id).Status == model.StatusError {
			return 1
		}
	}
	return 0
}
