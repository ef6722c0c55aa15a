// Package dataset discovers and loads the address CSV files a model is
// trained on.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"addrvec/internal/domain"
)

// Loader reads address records from delimited files matched by
// include/exclude glob patterns.
type Loader struct {
	includes      []string
	excludes      []string
	delimiter     rune
	header        bool
	addressColumn string
	groupColumn   string
}

// Options configures a Loader. Zero values fall back to sensible defaults.
type Options struct {
	Includes      []string
	Excludes      []string
	Delimiter     string
	Header        bool
	AddressColumn string
	GroupColumn   string
}

// NewLoader creates a loader for the given options.
func NewLoader(opts Options) *Loader {
	includes := opts.Includes
	if len(includes) == 0 {
		includes = []string{"**/*.csv"}
	}
	delim := ','
	if opts.Delimiter != "" {
		delim = rune(opts.Delimiter[0])
	}
	addrCol := opts.AddressColumn
	if addrCol == "" {
		addrCol = "address"
	}
	return &Loader{
		includes:      includes,
		excludes:      opts.Excludes,
		delimiter:     delim,
		header:        opts.Header,
		addressColumn: addrCol,
		groupColumn:   opts.GroupColumn,
	}
}

// Discover returns the data files under root matching the configured
// patterns.
func (l *Loader) Discover(root string) ([]string, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var files []string
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		if info.IsDir() {
			if l.shouldExclude(relPath + "/") {
				return filepath.SkipDir
			}
			return nil
		}

		if l.shouldInclude(relPath) && !l.shouldExclude(relPath) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// Load discovers and parses all data files under root.
func (l *Loader) Load(root string) ([]domain.AddressRecord, error) {
	files, err := l.Discover(root)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no data files matched under %s", root)
	}

	var records []domain.AddressRecord
	for _, file := range files {
		recs, err := l.LoadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
		records = append(records, recs...)
	}
	return records, nil
}

// LoadFile parses a single delimited file into address records. When the
// group column is missing or unconfigured every record lands in one shared
// group, which degrades negative sampling but still trains.
func (l *Loader) LoadFile(path string) ([]domain.AddressRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = l.delimiter
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	addrIdx, groupIdx := 0, -1
	start := 0
	if l.header {
		addrIdx, groupIdx = l.resolveColumns(rows[0])
		if addrIdx < 0 {
			return nil, fmt.Errorf("column %q not found in %s", l.addressColumn, path)
		}
		start = 1
	}

	base := filepath.Base(path)
	var records []domain.AddressRecord
	for i := start; i < len(rows); i++ {
		row := rows[i]
		if addrIdx >= len(row) {
			return nil, fmt.Errorf("row %d in %s has %d columns, need %d", i+1, path, len(row), addrIdx+1)
		}
		addr := strings.TrimSpace(row[addrIdx])
		if addr == "" {
			continue
		}
		group := domain.DefaultGroup
		if groupIdx >= 0 && groupIdx < len(row) {
			if g := strings.TrimSpace(row[groupIdx]); g != "" {
				group = g
			}
		}
		records = append(records, domain.AddressRecord{
			ID:      base + "#" + strconv.Itoa(i),
			Address: addr,
			Group:   group,
		})
	}
	return records, nil
}

func (l *Loader) resolveColumns(header []string) (addrIdx, groupIdx int) {
	addrIdx, groupIdx = -1, -1
	for i, name := range header {
		name = strings.TrimSpace(name)
		if strings.EqualFold(name, l.addressColumn) {
			addrIdx = i
		}
		if l.groupColumn != "" && strings.EqualFold(name, l.groupColumn) {
			groupIdx = i
		}
	}
	return addrIdx, groupIdx
}

func (l *Loader) shouldInclude(path string) bool {
	for _, pattern := range l.includes {
		matched, err := doublestar.Match(pattern, path)
		if err == nil && matched {
			return true
		}
	}
	return false
}

func (l *Loader) shouldExclude(path string) bool {
	for _, pattern := range l.excludes {
		matched, err := doublestar.Match(pattern, path)
		if err == nil && matched {
			return true
		}
	}
	return false
}

// Stats summarizes loaded records.
func Stats(records []domain.AddressRecord, files int) domain.DatasetStats {
	groups := make(map[string]int)
	for _, r := range records {
		groups[r.Group]++
	}
	usable := 0
	for _, r := range records {
		if groups[r.Group] > 1 {
			usable++
		}
	}
	return domain.DatasetStats{
		Records:       len(records),
		Groups:        len(groups),
		UsableAnchors: usable,
		Files:         files,
	}
}
