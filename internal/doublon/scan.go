package doublon

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"
)

// DefaultProgressInterval is the default interval for progress updates.
const DefaultProgressInterval = 500 * time.Millisecond

// logger provides conditional debug output.
type logger struct {
	enabled bool
}

// printf prints debug output if logging is enabled.
func (l logger) printf(format string, args ...any) {
	if l.enabled {
		//nolint:forbidigo // Debug output to console
		fmt.Printf(format, args...)
	}
}

// ScanOptions configures a directory scan.
type ScanOptions struct {
	// Excludes contains regex patterns to exclude.
	Excludes []string
	// MinSize is the minimum file size in bytes.
	MinSize int64
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration
	// Debug indicates whether debug output is enabled.
	Debug bool
}

// collector aggregates records from concurrent fastwalk callbacks using a
// mutex.
type collector struct {
	mu         sync.Mutex // Protect concurrent access
	records    []*Record
	fileCount  int64
	totalBytes int64
	errorCount int64
}

// add records one discovered file. This operation is protected by a mutex
// since fastwalk calls the callback from multiple goroutines concurrently.
func (c *collector) add(r *Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, r)
	c.fileCount++
	c.totalBytes += r.Size
}

// addError increments the error counter.
func (c *collector) addError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errorCount++
}

// startProgressReporter invokes hook(files, bytes) on each tick until ctx is
// done.
//
//nolint:varnamelen // c is idiomatic for collector
func startProgressReporter(ctx context.Context, c *collector, hook func(int64, int64), interval time.Duration) {
	if hook == nil {
		return
	}

	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.mu.Lock()

				files := c.fileCount
				bytes := c.totalBytes
				c.mu.Unlock()
				hook(files, bytes)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// shouldExcludeByPattern checks if path matches any exclusion regex.
func shouldExcludeByPattern(path string, patterns []*regexp.Regexp) *regexp.Regexp {
	if len(patterns) == 0 {
		return nil
	}

	fPath := filepath.ToSlash(path)

	for _, re := range patterns {
		if re.MatchString(fPath) {
			return re
		}
	}

	return nil
}

// Scan walks the tree rooted at root and returns one record per regular
// file, sorted by path for deterministic downstream output.
//
// Symlinks are not followed. Entries matching an exclusion pattern are
// pruned (whole directories included). Entries that fail to stat are
// counted and skipped, never fatal. The walk can be cancelled via ctx;
// progress updates are sent to progressHook if provided.
//
// A root that does not exist or is not a directory fails immediately.
func Scan(ctx context.Context, root string, opt ScanOptions, progressHook func(int64, int64)) ([]*Record, error) {
	log := logger{enabled: opt.Debug}

	if root == "" {
		root = "."
	}

	// Normalize to native format to handle both C:/Path and C:\Path inputs
	root = filepath.Clean(root)

	// validate path exists and is accessible
	if statInfo, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("accessing path %q: %w", root, err)
	} else if !statInfo.IsDir() {
		return nil, fmt.Errorf("path %q is not a directory", root)
	}

	excludeRegexes := make([]*regexp.Regexp, 0, len(opt.Excludes))

	for _, p := range opt.Excludes {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling exclusion pattern %q: %w", p, err)
		}

		excludeRegexes = append(excludeRegexes, re)
	}

	collector := &collector{}

	// Create child context to ensure progress reporter cleanup
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	startProgressReporter(ctx, collector, progressHook, opt.ProgressInterval)

	// Configure fastwalk
	conf := &fastwalk.Config{
		Follow: false, // Don't follow symlinks
	}

	// Walk directory with fastwalk (parallel traversal)
	//nolint:varnamelen // d is standard for DirEntry
	walkErr := fastwalk.Walk(conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.printf("[debug]: error accessing path %s: %v\n", path, err)
			collector.addError()

			return nil // Skip unreadable entries
		}

		// Check cancellation periodically
		select {
		case <-ctx.Done():
			return context.Canceled
		default:
		}

		// Check regex exclusion patterns
		if matchedPattern := shouldExcludeByPattern(path, excludeRegexes); matchedPattern != nil {
			fPath := filepath.ToSlash(path)

			if d.IsDir() {
				log.printf("[debug]: excluding directory: %s\n", fPath)
				log.printf("	 matched regex: %s\n", matchedPattern.String())

				return filepath.SkipDir
			}

			log.printf("[debug]: excluding file: %s\n", fPath)
			log.printf("	 matched regex: %s\n", matchedPattern.String())

			return nil
		}

		if d.IsDir() {
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		fileInfo, err := d.Info()
		if err != nil {
			collector.addError()

			return nil //nolint:nilerr // Intentionally skip errors during walk
		}

		if fileInfo.Size() < opt.MinSize {
			return nil
		}

		collector.add(newRecordFromInfo(path, fileInfo.Size(), fileInfo.ModTime()))

		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	collector.mu.Lock()
	records := collector.records
	errCount := collector.errorCount
	collector.mu.Unlock()

	if errCount > 0 {
		log.printf("[debug]: %d entries skipped due to access errors\n", errCount)
	}

	// Stable output regardless of traversal order.
	sort.Slice(records, func(i, j int) bool { return records[i].Path < records[j].Path })

	return records, nil
}
