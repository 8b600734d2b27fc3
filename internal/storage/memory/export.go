// internal/storage/memory/export.go
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	v1 "github.com/openfootball/matchsim/internal/storage/memory/export/v1"
	"github.com/openfootball/matchsim/pkg/core"
)

// exportJSON writes the match data to a (optionally gzipped) JSON replay file
func (b *Backend) exportJSON() error {
	export := v1.Build(&v1.MatchData{
		Match:             b.match,
		Venue:             b.venue,
		Players:           b.players,
		PhaseChanges:      b.phaseChanges,
		PossessionChanges: b.possessionChanges,
		Goals:             b.goals,
		Digests:           b.digests,
		Result:            b.result,
	})

	// Build filename from fixture name and kickoff time
	matchName := strings.ReplaceAll(b.matchName(), " ", "_")
	matchName = strings.ReplaceAll(matchName, ":", "_")
	timestamp := b.match.KickoffTime.Format("20060102_150405")

	var filename string
	if b.cfg.CompressOutput {
		filename = fmt.Sprintf("%s_%s.json.gz", matchName, timestamp)
	} else {
		filename = fmt.Sprintf("%s_%s.json", matchName, timestamp)
	}

	outputPath := filepath.Join(b.cfg.OutputDir, filename)

	// Ensure output directory exists
	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if b.cfg.CompressOutput {
		if err := b.writeGzipJSON(outputPath, export); err != nil {
			return err
		}
	} else {
		if err := b.writeJSON(outputPath, export); err != nil {
			return err
		}
	}

	b.lastExportPath = outputPath
	return nil
}

func (b *Backend) matchName() string {
	return fmt.Sprintf("%s vs %s", b.match.HomeTeam, b.match.AwayTeam)
}

// GetExportedFilePath returns the path of the last exported replay
func (b *Backend) GetExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}

// GetExportMetadata returns the metadata for the last exported replay
func (b *Backend) GetExportMetadata() core.UploadMetadata {
	b.mu.RLock()
	defer b.mu.RUnlock()

	meta := core.UploadMetadata{
		Competition: b.match.Competition,
		MatchName:   b.matchName(),
		Tag:         b.match.Tag,
	}
	if b.result != nil {
		meta.FinalTick = b.result.FinalTick
	}
	return meta
}

func (b *Backend) writeJSON(path string, data v1.Export) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	return encoder.Encode(data)
}

func (b *Backend) writeGzipJSON(path string, data v1.Export) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gzWriter := gzip.NewWriter(f)
	defer gzWriter.Close()

	encoder := json.NewEncoder(gzWriter)
	return encoder.Encode(data)
}
