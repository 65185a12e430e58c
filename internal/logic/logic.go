// Package logic orchestrates the read command end to end: extract the input
// archives, discover the Glog files inside them, decode each file
// concurrently, filter and format surviving records, and write them to the
// configured output path.
package logic

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mobileops/glogread/internal/archive"
	"github.com/mobileops/glogread/internal/config"
	"github.com/mobileops/glogread/internal/discover"
	"github.com/mobileops/glogread/internal/fileutil"
	"github.com/mobileops/glogread/internal/glog"
	"github.com/mobileops/glogread/internal/output"
)

// Stats summarizes one Run for the CLI's closing diagnostic line.
type Stats struct {
	FilesScanned   int
	FilesErrored   int
	EntriesWritten int
	Duration       time.Duration
}

// Run extracts cfg.Input, decodes every discovered Glog file, and writes
// the formatted, type-filtered records to cfg.Output.
func Run(cfg *config.Config, logger zerolog.Logger) (Stats, error) {
	start := time.Now()

	tempDir, err := os.MkdirTemp("", "glogread-*")
	if err != nil {
		return Stats{}, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir) //nolint:errcheck // best-effort cleanup

	for _, zipPath := range cfg.Input {
		if _, err := archive.Extract(zipPath, tempDir); err != nil {
			return Stats{}, fmt.Errorf("extracting %s: %w", zipPath, err)
		}
	}

	glogFiles, err := discover.GlogFiles(tempDir)
	if err != nil {
		return Stats{}, fmt.Errorf("discovering glog files: %w", err)
	}
	mmapFiles, err := discover.MmapFiles(tempDir)
	if err != nil {
		return Stats{}, fmt.Errorf("discovering glogmmap files: %w", err)
	}
	files := append(glogFiles, mmapFiles...)

	writer, err := fileutil.NewAtomicWriter(cfg.Output)
	if err != nil {
		return Stats{}, fmt.Errorf("creating output writer: %w", err)
	}

	keep := newTypeFilter(cfg.Types)

	var mu sync.Mutex
	var entriesWritten, filesErrored int

	g := new(errgroup.Group)
	g.SetLimit(max(1, cfg.Parallel))

	for _, path := range files {
		path := path
		g.Go(func() error {
			n, ferr := processFile(path, cfg.Key, keep, &mu, writer, logger)

			mu.Lock()
			entriesWritten += n
			if ferr != nil {
				filesErrored++
			}
			mu.Unlock()

			if ferr != nil {
				logger.Error().Err(ferr).Str("file", path).Msg("decoding failed")
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		writer.Abort()
		return Stats{}, fmt.Errorf("processing files: %w", err)
	}

	if err := writer.Commit(); err != nil {
		return Stats{}, fmt.Errorf("finalizing output: %w", err)
	}

	return Stats{
		FilesScanned:   len(files),
		FilesErrored:   filesErrored,
		EntriesWritten: entriesWritten,
		Duration:       time.Since(start),
	}, nil
}

// processFile decodes one Glog file to completion, writing every surviving
// record to writer under mu, and returns how many records it wrote.
// NeedRecover conditions are logged and skipped; a fatal Read error ends
// this file but does not fail the whole run.
func processFile(
	path string,
	hexKey string,
	keep func(int32) bool,
	mu *sync.Mutex,
	writer *fileutil.AtomicWriter,
	logger zerolog.Logger,
) (int, error) {
	reader, err := glog.Open(path, hexKey)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer reader.Close()

	out := make([]byte, glog.SingleLogMaxLength)
	written := 0

	for {
		result, err := reader.Read(out)
		if err != nil {
			return written, fmt.Errorf("%s: %w", path, err)
		}

		switch result.Outcome {
		case glog.EOF:
			return written, nil

		case glog.NeedRecover:
			logger.Warn().Str("file", path).Int("code", result.Code).Msg("entry recovered, skipping")

		case glog.Success:
			if result.N == 0 {
				continue
			}
			rec, err := glog.DecodeRecord(out[:result.N])
			if err != nil {
				logger.Warn().Str("file", path).Err(err).Msg("skipping unparseable record")
				continue
			}
			if !keep(rec.Type) {
				continue
			}

			line := output.FormatLine(rec) + "\n"
			mu.Lock()
			_, writeErr := writer.Write([]byte(line))
			mu.Unlock()
			if writeErr != nil {
				return written, fmt.Errorf("writing output: %w", writeErr)
			}
			written++
		}
	}
}

// newTypeFilter builds a membership predicate over an optional set of i32
// type codes (spec §6 CLI "-t"); an empty filter keeps everything.
func newTypeFilter(types []int32) func(int32) bool {
	if len(types) == 0 {
		return func(int32) bool { return true }
	}
	set := make(map[int32]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return func(t int32) bool {
		_, ok := set[t]
		return ok
	}
}
