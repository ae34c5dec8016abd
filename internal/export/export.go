package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/osgood/armorytrack/internal/domain"
	"github.com/osgood/armorytrack/internal/gear"
	"github.com/osgood/armorytrack/internal/logger"
	"github.com/osgood/armorytrack/internal/metrics"
)

const (
	snapshotFileName = "equipment.json"
	dirPermissions   = 0o755
	filePermissions  = 0o644
)

// Writer exports gear snapshots as JSON files under a storage root. Files
// land at <root>/<day>/<region>/<realm>/<name>/equipment.json and re-running
// a day overwrites the file in place.
type Writer struct {
	root string
}

// NewWriter creates a Writer rooted at dir
func NewWriter(dir string) *Writer {
	return &Writer{root: dir}
}

// Path returns where the snapshot for (character, day) is written
func (w *Writer) Path(character *domain.Character, day time.Time) string {
	return filepath.Join(
		w.root,
		domain.Day(day).Format(time.DateOnly),
		character.Region,
		character.Realm,
		character.Name,
		snapshotFileName,
	)
}

// WriteSnapshot serializes the snapshot's slot attribute map and writes it to
// the character's per-day path, creating parent directories as needed
func (w *Writer) WriteSnapshot(ctx context.Context, character *domain.Character, snapshot *gear.Snapshot) error {
	path := w.Path(character, snapshot.Day)

	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	data, err := json.Marshal(snapshot.Attributes)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, filePermissions); err != nil {
		return fmt.Errorf("failed to write snapshot file: %w", err)
	}

	logger.FromContext(ctx).Debug("Exported gear snapshot", "path", path, "slots", len(snapshot.Attributes))
	metrics.SnapshotExportsTotal.Inc()
	return nil
}
