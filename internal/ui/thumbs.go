package ui

import (
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/blacktop/go-termimg"
	"github.com/nfnt/resize"
	"github.com/spf13/viper"
)

// Shared HTTP client for image downloads
var imageDownloadClient *http.Client

func init() {
	transport := &http.Transport{
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   5,
		IdleConnTimeout:       60 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	imageDownloadClient = &http.Client{
		Timeout:   8 * time.Second,
		Transport: transport,
	}
}

func thumbCacheDir() string {
	return filepath.Join(os.TempDir(), "etui_thumbs")
}

// renderThumbnail fetches the image, scales it to the cell box, and renders it
// as halfblocks. Results are cached on disk keyed by item and size.
func renderThumbnail(imageURL string, width, height int, itemID string) (string, error) {
	if imageURL == "" {
		return "", fmt.Errorf("no image URL provided")
	}
	if width < 10 {
		width = 10
	}
	if height < 5 {
		height = 5
	}

	cacheDir := thumbCacheDir()
	os.MkdirAll(cacheDir, 0o755) // nolint:errcheck
	cacheFile := filepath.Join(cacheDir, fmt.Sprintf("%s_%dx%d.txt", itemID, width, height))
	if cached, err := os.ReadFile(cacheFile); err == nil {
		return string(cached), nil
	}

	processedFile := filepath.Join(cacheDir, fmt.Sprintf("%s_%dx%d.jpg", itemID, width, height))
	if _, err := os.Stat(processedFile); os.IsNotExist(err) {
		if err := downloadAndScale(imageURL, processedFile, width, height); err != nil {
			return "", err
		}
	}

	img, err := termimg.Open(processedFile)
	if err != nil {
		os.Remove(processedFile) // nolint:errcheck
		return "", fmt.Errorf("failed to open processed image: %w", err)
	}

	rendered, err := img.Width(width).Height(height).Protocol(termimg.Halfblocks).Render()
	if err != nil {
		return "", fmt.Errorf("failed to render image: %w", err)
	}

	lines := strings.Split(rendered, "\n")
	if len(lines) > height {
		rendered = strings.Join(lines[:height], "\n")
	}

	os.WriteFile(cacheFile, []byte(rendered), 0o644) // nolint:errcheck
	return rendered, nil
}

func downloadAndScale(imageURL, outputPath string, termWidth, termHeight int) error {
	resp, err := imageDownloadClient.Get(imageURL)
	if err != nil {
		return fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned HTTP %d for image", resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	// Halfblock cells are roughly 9x18 pixels.
	targetW, targetH := fitDimensions(img.Bounds().Dx(), img.Bounds().Dy(), termWidth*9, termHeight*18)

	var resized image.Image = img
	if targetW != img.Bounds().Dx() || targetH != img.Bounds().Dy() {
		resized = resize.Resize(uint(targetW), uint(targetH), img, imageFilter())
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	quality := viper.GetInt("image_quality")
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return jpeg.Encode(file, resized, &jpeg.Options{Quality: quality})
}

func imageFilter() resize.InterpolationFunction {
	switch viper.GetString("image_filter") {
	case "nearest":
		return resize.NearestNeighbor
	case "bilinear", "triangle":
		return resize.Bilinear
	case "bicubic", "catmull-rom":
		return resize.Bicubic
	case "lanczos2":
		return resize.Lanczos2
	default:
		return resize.Lanczos3
	}
}

func fitDimensions(origWidth, origHeight, maxWidth, maxHeight int) (int, int) {
	if origWidth <= maxWidth && origHeight <= maxHeight {
		return origWidth, origHeight
	}
	widthRatio := float64(maxWidth) / float64(origWidth)
	heightRatio := float64(maxHeight) / float64(origHeight)
	ratio := widthRatio
	if heightRatio < widthRatio {
		ratio = heightRatio
	}
	return int(float64(origWidth) * ratio), int(float64(origHeight) * ratio)
}

// cleanupThumbCache removes cache files older than 48 hours.
func cleanupThumbCache() {
	cacheDir := thumbCacheDir()
	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		return
	}
	cutoff := time.Now().Add(-48 * time.Hour)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if info, err := entry.Info(); err == nil && info.ModTime().Before(cutoff) {
			os.Remove(filepath.Join(cacheDir, entry.Name())) // nolint:errcheck
		}
	}
}
