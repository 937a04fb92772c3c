package dictionary

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Client is used for downloads. Tests may replace it.
var Client = &http.Client{Timeout: 30 * time.Second}

// EnsureDictionary checks if a word list exists at path. If not, it downloads
// one from rawURL. Gzipped bodies are decompressed and HTML pages are reduced
// to their words of wordLength letters. The file only appears at path once the
// download is complete.
func EnsureDictionary(ctx context.Context, path, rawURL string, wordLength int) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	if rawURL == "" {
		return fmt.Errorf("word list %s not found and no download url configured", path)
	}

	slog.Info("word list not found, downloading", slog.String("path", path), slog.String("url", rawURL))
	if err := download(ctx, rawURL, path, wordLength); err != nil {
		return fmt.Errorf("download %s: %w", rawURL, err)
	}
	return nil
}

func download(ctx context.Context, rawURL, destPath string, wordLength int) error {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "wordlesolver-cli")

	resp, err := Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed: %s", resp.Status)
	}

	var body io.Reader = resp.Body
	if strings.HasSuffix(pageURL.Path, ".gz") || resp.Header.Get("Content-Type") == "application/gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		body = gz
	}

	if dir := filepath.Dir(destPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".download-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if isHTML(resp.Header.Get("Content-Type")) {
		words, err := FromHTML(body, pageURL, wordLength)
		if err != nil {
			tmp.Close()
			return err
		}
		_, err = io.WriteString(tmp, strings.Join(words.Strings(), "\n")+"\n")
		if err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write to file: %w", err)
		}
	} else if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write to file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), destPath)
}

func isHTML(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && (mt == "text/html" || mt == "application/xhtml+xml")
}
