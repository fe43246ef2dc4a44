package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// saveSnapshot runs on the GL thread right after the surface was drawn;
// encoding happens off the main loop.
func (w *ViewerWindow) saveSnapshot() {
	img := w.surface.Snapshot()
	log := w.log

	go func() {
		path, err := writeSnapshotPNG(img)
		if err != nil {
			log.Warn("snapshot failed", zap.Error(err))
			return
		}
		log.Info("snapshot saved", zap.String("path", path))
	}()
}

// writeSnapshotPNG drops the frame into ~/Pictures when that exists,
// otherwise the home directory.
func writeSnapshotPNG(img image.Image) (string, error) {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("snapshot dir: %w", err)
	}
	if pictures := filepath.Join(dir, "Pictures"); dirExists(pictures) {
		dir = pictures
	}

	name := "glbackdrop-" + time.Now().Format("20060102-150405") + ".png"
	path := filepath.Join(dir, name)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %v: %w", path, err)
	}

	if err := png.Encode(file, img); err != nil {
		file.Close()
		return "", fmt.Errorf("encode %v: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return "", err
	}
	return path, nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
