package collab

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// WeatherDirs treats every immediate subdirectory of the weather directory
// as one dataset.
type WeatherDirs struct{}

func (WeatherDirs) ReadWeatherSets(ctx context.Context, dir string) ([]WeatherSet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read weather datasets: %w", err)
	}
	var sets []WeatherSet
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		sets = append(sets, WeatherSet{Name: e.Name(), Dir: filepath.Join(dir, e.Name())})
	}
	return sets, nil
}
