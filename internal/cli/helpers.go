package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"

	"addrvec/config"
	"addrvec/internal/adapter/dataset"
	"addrvec/internal/adapter/nn"
	"addrvec/internal/adapter/store"
	"addrvec/internal/domain"
)

// resolveDataDir turns an optional positional path argument into the data
// directory, defaulting to the root dir.
func resolveDataDir(args []string) (string, error) {
	path := GetRootDir()
	if len(args) > 0 {
		var err error
		path, err = filepath.Abs(args[0])
		if err != nil {
			return "", fmt.Errorf("invalid path: %w", err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path is not a directory: %s", path)
	}
	return path, nil
}

// newLoader builds a dataset loader from the active config.
func newLoader(cfg *config.Config) *dataset.Loader {
	return dataset.NewLoader(dataset.Options{
		Includes:      cfg.Data.Includes,
		Excludes:      cfg.Data.Excludes,
		Delimiter:     cfg.Data.Delimiter,
		Header:        cfg.Data.Header,
		AddressColumn: cfg.Data.AddressColumn,
		GroupColumn:   cfg.Data.GroupColumn,
	})
}

// loadRecords loads the address records under the data directory.
func loadRecords(cfg *config.Config, path string) ([]domain.AddressRecord, error) {
	records, err := newLoader(cfg).Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	return records, nil
}

// openModelStore opens the model database for the data directory,
// requiring it to exist unless create is set.
func openModelStore(path string, create bool) (*store.BoltStore, error) {
	dbPath := config.ModelDBPath(path)
	if !create {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("no trained model found. Run 'addrvec train' first")
		}
	} else if err := config.EnsureStateDir(path); err != nil {
		return nil, fmt.Errorf("failed to create .addrvec directory: %w", err)
	}

	st, err := store.NewBoltStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open model store: %w", err)
	}
	return st, nil
}

// loadEncoder restores the trained encoder from the latest checkpoint.
func loadEncoder(st *store.BoltStore) (*nn.Network, error) {
	cp, err := st.LoadCheckpoint(store.LatestCheckpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to load checkpoint: %w", err)
	}
	return nn.Restore(cp.Config, cp.Weights), nil
}

// newProgressBar builds a bar in the house style.
func newProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
