package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/snipmd/snipmd/pkg/gitrepo"
	"github.com/snipmd/snipmd/pkg/logger"
	"github.com/snipmd/snipmd/pkg/presenter"
	"github.com/spf13/cobra"
)

// WatchConfig holds configuration for the watch command
type WatchConfig struct {
	DebounceTime int
	Quiet        bool
}

// NewWatchConfig creates a new WatchConfig with default values
func NewWatchConfig() *WatchConfig {
	return &WatchConfig{
		DebounceTime: 500,
		Quiet:        false,
	}
}

// Validate checks the configuration values
func (c *WatchConfig) Validate() error {
	if c.DebounceTime < 100 || c.DebounceTime > 10000 {
		return errors.New("debounce time must be between 100 and 10000 milliseconds")
	}
	return nil
}

// fileEvent is one filesystem change flowing through the debouncer
type fileEvent struct {
	Path string
	Op   fsnotify.Op
	Time time.Time
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the snippet repository and sync on changes",
	Long: `Watch the active snippet repository for Markdown changes and run a
sync after each settled burst of edits.

Events are debounced per file so rapid saves trigger one sync, not one
per write. Stop with Ctrl+C.

Example:
  snipmd watch
  snipmd watch --debounce 1000 --quiet`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		config := getWatchConfigFromFlags(cmd)
		if err := config.Validate(); err != nil {
			presenter.Error(err, "Invalid watch configuration")
			os.Exit(1)
		}
		if config.Quiet {
			presenter.SetQuiet(true)
		}

		cfg := loadConfig(ctx)
		repoName := activeRepoName(ctx, &cfg)
		repo, err := openRepo(repoName)
		if err != nil {
			presenter.Error(err, "Failed to open the snippet repository")
			os.Exit(1)
		}
		if !repo.Initialized() {
			presenter.Info(fmt.Sprintf("Initializing snippet repository %q...", repoName))
			if err := repo.Bootstrap(ctx); err != nil {
				presenter.Error(err, "Failed to initialize the snippet repository")
				os.Exit(1)
			}
		}

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigCh
			presenter.Info("Stopping watcher...")
			cancel()
		}()

		runWatch(ctx, repo, repoName, config)
	},
}

func init() {
	watchDefaults := NewWatchConfig()
	watchCmd.Flags().Int("debounce", watchDefaults.DebounceTime, "Debounce time in milliseconds before a change triggers a sync")
	watchCmd.Flags().BoolP("quiet", "q", watchDefaults.Quiet, "Suppress informational output")
}

// getWatchConfigFromFlags extracts watch configuration from command flags
func getWatchConfigFromFlags(cmd *cobra.Command) *WatchConfig {
	config := NewWatchConfig()

	if debounce, err := cmd.Flags().GetInt("debounce"); err == nil {
		config.DebounceTime = debounce
	}
	if quiet, err := cmd.Flags().GetBool("quiet"); err == nil {
		config.Quiet = quiet
	}

	return config
}

func runWatch(ctx context.Context, repo *gitrepo.Repo, repoName string, config *WatchConfig) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		presenter.Error(err, "Failed to create the file watcher")
		logger.G(ctx).WithError(err).Fatal("Failed to create file watcher")
	}
	defer watcher.Close()

	// Setup debouncing mechanism
	events := make(chan fileEvent)
	settled := make(chan fileEvent)

	// Start debouncer goroutine
	go debounceFileEvents(ctx, events, settled, time.Duration(config.DebounceTime)*time.Millisecond)

	// Sync after each settled burst
	go func() {
		for {
			select {
			case event, ok := <-settled:
				if !ok {
					return
				}
				presenter.Info(fmt.Sprintf("Change detected: %s (%s)", filepath.Base(event.Path), event.Op))
				logger.G(ctx).WithFields(map[string]interface{}{
					"file":      event.Path,
					"operation": event.Op.String(),
					"timestamp": event.Time,
				}).Debug("File change detected")
				if err := runSync(ctx, repo, repoName); err != nil {
					presenter.Warning(fmt.Sprintf("Sync failed: %v", err))
					logger.G(ctx).WithError(err).Error("Sync after file change failed")
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	// Watch for events
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				// The sync itself churns .git constantly; never react to it
				if strings.Contains(event.Name, string(os.PathSeparator)+".git"+string(os.PathSeparator)) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				// Only snippet files matter
				if !strings.EqualFold(filepath.Ext(event.Name), ".md") {
					continue
				}
				events <- fileEvent{
					Path: event.Name,
					Op:   event.Op,
					Time: time.Now(),
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				presenter.Error(err, "File watcher error")
				logger.G(ctx).WithError(err).Error("Error watching files")
			case <-ctx.Done():
				return
			}
		}
	}()

	// Add the repository and its subdirectories to the watcher
	err = filepath.Walk(repo.Dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if info.Name() == ".git" {
				return filepath.SkipDir
			}
			logger.G(ctx).WithField("directory", path).Debug("Adding directory to watcher")
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		presenter.Error(err, "Failed to watch the repository")
		logger.G(ctx).WithError(err).Fatal("Failed to watch directories")
	}

	presenter.Info(fmt.Sprintf("Watching %q for snippet changes... Press Ctrl+C to stop", repoName))
	logger.G(ctx).WithField("directory", repo.Dir).Info("File watcher initialized")

	// Wait for context cancellation
	<-ctx.Done()
}

// Debounce file events to prevent processing multiple rapid changes to the same file
func debounceFileEvents(ctx context.Context, input <-chan fileEvent, output chan<- fileEvent, delay time.Duration) {
	var pending = make(map[string]*time.Timer)

	for {
		select {
		case event, ok := <-input:
			if !ok {
				// Clean up pending timers before returning
				for _, timer := range pending {
					timer.Stop()
				}
				return
			}
			// Cancel any pending timers for this file
			if timer, exists := pending[event.Path]; exists {
				timer.Stop()
				delete(pending, event.Path)
			}

			// Create a new timer
			eventCopy := event // Create a copy of the event to avoid race conditions
			pending[event.Path] = time.AfterFunc(delay, func() {
				select {
				case output <- eventCopy:
					delete(pending, eventCopy.Path)
				case <-ctx.Done():
					// Context cancelled, don't send the event
					delete(pending, eventCopy.Path)
				}
			})
		case <-ctx.Done():
			// Clean up pending timers before returning
			for _, timer := range pending {
				timer.Stop()
			}
			return
		}
	}
}
