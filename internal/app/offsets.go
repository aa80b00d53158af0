package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/relabs-tech/tilt_maze/internal/mpu6050"
)

// StoredOffsets is the JSON document the calibrate tool writes and the
// game reads at startup. Offsets are raw counts, so the ranges they were
// taken at are recorded with them.
type StoredOffsets struct {
	Version    int             `json:"version"`
	Timestamp  time.Time       `json:"timestamp"`
	AccelRange byte            `json:"accel_range"`
	GyroRange  byte            `json:"gyro_range"`
	Offsets    mpu6050.Offsets `json:"offsets"`
}

// SaveOffsets writes the offsets file, creating parent directories as
// needed.
func SaveOffsets(path string, s StoredOffsets) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create offsets dir: %w", err)
		}
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal offsets: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write offsets file: %w", err)
	}
	return nil
}

// LoadOffsets reads an offsets file written by SaveOffsets.
func LoadOffsets(path string) (StoredOffsets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return StoredOffsets{}, fmt.Errorf("read offsets file: %w", err)
	}
	var s StoredOffsets
	if err := json.Unmarshal(data, &s); err != nil {
		return StoredOffsets{}, fmt.Errorf("parse offsets file: %w", err)
	}
	return s, nil
}
