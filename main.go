package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/mqy/minisync/config"
	"github.com/mqy/minisync/session"
)

const quitTimeout = 3 * time.Second

var (
	flagConfig   = flag.String("config", "", "JSON config file, defaults are used for missing fields")
	flagPidFile  = flag.String("pid-file", "minisync.pid", "pid file")
	flagPprofDir = flag.String("pprof-dir", "pprof", "dir to save pprof data files")
)

var rootCmd = &cobra.Command{
	Use:           "minisync",
	Short:         "Keeps the local state of a session in sync with the server",
	SilenceUsage:  true,
	SilenceErrors: true,
	// The go flags were set by cobra; mark them parsed for glog.
	PersistentPreRun: func(*cobra.Command, []string) { _ = flag.CommandLine.Parse(nil) },
}

// exitCode is set by the command that ran.
var exitCode int

func main() {
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	rootCmd.AddCommand(newRunCmd(), newReplayCmd())

	if err := rootCmd.Execute(); err != nil {
		exitCode = errorf("%v", err)
	}
	glog.Flush()
	// NOTE: os.Exit() does not call defers.
	os.Exit(exitCode)
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run a session until SIGINT or SIGTERM",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Parse(*flagConfig)
			if err != nil {
				exitCode = errorf("config: %v", err)
				return
			}
			exitCode = serve(cfg)
		},
	}
}

func newReplayCmd() *cobra.Command {
	var opts struct {
		Brokers string
		Topic   string
		GroupID string
	}
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Run a session that also applies recorded updates from kafka",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Parse(*flagConfig)
			if err != nil {
				exitCode = errorf("config: %v", err)
				return
			}
			if opts.Brokers != "" {
				cfg.Source.Brokers = strings.Split(opts.Brokers, ",")
			}
			if opts.Topic != "" {
				cfg.Source.Topic = opts.Topic
			}
			if opts.GroupID != "" {
				cfg.Source.GroupID = opts.GroupID
			}
			if !cfg.Source.Enabled() {
				exitCode = errorf("--brokers or source.brokers is required")
				return
			}
			if err := cfg.Validate(); err != nil {
				exitCode = errorf("config: %v", err)
				return
			}
			exitCode = serve(cfg)
		},
	}
	cmd.Flags().StringVar(&opts.Brokers, "brokers", "", "comma separated kafka brokers")
	cmd.Flags().StringVar(&opts.Topic, "topic", "", "kafka topic of recorded updates")
	cmd.Flags().StringVar(&opts.GroupID, "group-id", "", "kafka consumer group")
	return cmd
}

func serve(cfg *config.Config) int {
	pid := os.Getpid()

	if err := savePid(*flagPidFile, pid); err != nil {
		return errorf("pid file: %v", err)
	}
	defer func() {
		_ = os.Remove(*flagPidFile)
	}()

	pprofDir := filepath.Join(*flagPprofDir, strconv.Itoa(pid))
	if err := os.MkdirAll(pprofDir, 0750); err != nil {
		return errorf("--pprof-dir: error create dir `%s`: %v", pprofDir, err)
	}
	defer func() {
		_ = os.RemoveAll(pprofDir)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := session.Open(ctx, cfg)
	if err != nil {
		return errorf("open session: %v", err)
	}

	var metricsServer *http.Server
	if cfg.Metrics.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(
			prometheus.DefaultGatherer,
			promhttp.HandlerOpts{},
		))
		metricsServer = &http.Server{Addr: cfg.Metrics.Addr, Handler: mux}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				glog.Errorf("metrics server: %v", err)
			}
		}()
	}

	runErr := make(chan error, 1)
	go func() { runErr <- s.Run(ctx) }()

	glog.Infof("minisync session %s is running", s.ID)
	glog.Infof("`kill -USR1 %d` to dump goroutines; `kill -USR2 %d` to start/stop profiler; `CTRL+c` or `kill %d` to graceful stop", pid, pid, pid)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGUSR1, syscall.SIGUSR2, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigCh)

	var (
		prof     *Profiler
		stopping bool
		code     int
	)

loop:
	for {
		select {
		case sig := <-sigCh:
			switch sig {
			case syscall.SIGUSR1:
				dumpGoroutines(pprofDir)
			case syscall.SIGUSR2:
				if prof == nil {
					prof = StartProfiler(pprofDir)
				} else {
					prof.Stop()
					prof = nil
				}
			case syscall.SIGTERM, syscall.SIGINT:
				if stopping {
					glog.Infof("minisync is already in stop")
					continue
				}
				stopping = true
				glog.Infof("received signal `%s` stopping", sig.String())
				go func() {
					qctx, qcancel := context.WithTimeout(ctx, quitTimeout)
					defer qcancel()
					if err := s.Quit(qctx); err != nil {
						glog.Warningf("offline status not confirmed: %v", err)
					}
					cancel()
				}()
			}
		case err := <-runErr:
			if err != nil {
				code = errorf("session: %v", err)
			}
			break loop
		}
	}

	if prof != nil {
		prof.Stop()
	}
	if metricsServer != nil {
		sctx, scancel := context.WithTimeout(context.Background(), time.Second)
		_ = metricsServer.Shutdown(sctx)
		scancel()
	}
	glog.Info("minisync exited")
	return code
}

func errorf(format string, args ...interface{}) int {
	glog.Errorf(format, args...)
	return 1
}

func savePid(name string, pid int) error {
	if _, err := os.Stat(name); err == nil {
		// Ok, see, if we have a stale lockfile here
		content, err := os.ReadFile(name)
		if err != nil {
			return err
		}
		if len(content) > 0 {
			oldPid, err := strconv.Atoi(strings.TrimSpace(string(content)))
			if err != nil {
				return err
			}

			proc, err := os.FindProcess(oldPid)
			if err != nil {
				return err
			}
			defer proc.Release()

			if err := proc.Signal(syscall.Signal(0)); err == nil {
				return fmt.Errorf("exists with pid: %d, the process is running", oldPid)
			}
			glog.Infof("pid file exists with pid: %d, but is not running", oldPid)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat error: %v", err)
	}

	if err := os.WriteFile(name, []byte(strconv.Itoa(pid)), 0600); err != nil {
		return fmt.Errorf("write error: %v", err)
	}
	glog.Infof("pid file: write pid done")
	return nil
}
