package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/caarlos0/env/v11"
)

var targets = []Target{
	{Kind: "image", Endpoint: "/generate-image", Field: "image"},
	{Kind: "document", Endpoint: "/generate-from-document", Field: "document"},
	{Kind: "audio", Endpoint: "/generate-from-audio", Field: "audio"},
}

func main() {
	ctx := context.Background()

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("config error: %v", err)
	}

	results := []BenchResult{benchmarkText(ctx, cfg)}
	for _, target := range targets {
		dataPath := filepath.Join(cfg.DataDir, target.Kind)

		files, _ := os.ReadDir(dataPath)
		for _, file := range files {
			if file.IsDir() {
				continue
			}
			res := benchmarkFile(ctx, cfg, target, filepath.Join(dataPath, file.Name()))

			if res.Err != nil {
				log.Println("ERR:", res.File, res.Err)
			} else {
				log.Printf("OK %s %v", res.File, res.Duration)
			}

			results = append(results, res)
		}
	}

	printMarkdown(results)
}

func benchmarkText(ctx context.Context, cfg Config) BenchResult {
	start := time.Now()

	body, err := sonic.Marshal(TextRequest{Prompt: cfg.Prompt})
	if err != nil {
		return BenchResult{Kind: "text", Err: err}
	}

	out, err := post(ctx, cfg.BaseURL+"/generate-text", "application/json", bytes.NewReader(body))
	return BenchResult{
		File:     "prompt",
		Kind:     "text",
		Duration: time.Since(start),
		Chars:    len(out),
		Err:      err,
		Size:     int64(len(body)),
	}
}

func benchmarkFile(ctx context.Context, cfg Config, target Target, filePath string) BenchResult {
	start := time.Now()

	fileRaw, err := os.ReadFile(filePath)
	if err != nil {
		return BenchResult{File: filePath, Kind: target.Kind, Err: err}
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, target.Field, filepath.Base(filePath)))
	if mimeType := mime.TypeByExtension(filepath.Ext(filePath)); mimeType != "" {
		h.Set("Content-Type", mimeType)
	}
	part, err := mw.CreatePart(h)
	if err == nil {
		_, err = part.Write(fileRaw)
	}
	if err == nil && target.Kind == "image" {
		err = mw.WriteField("prompt", cfg.Prompt)
	}
	if err == nil {
		err = mw.Close()
	}
	if err != nil {
		return BenchResult{File: filePath, Kind: target.Kind, Err: fmt.Errorf("build form: %w", err)}
	}

	out, err := post(ctx, cfg.BaseURL+target.Endpoint, mw.FormDataContentType(), &buf)
	return BenchResult{
		File:     filepath.Base(filePath),
		Kind:     target.Kind,
		Duration: time.Since(start),
		Chars:    len(out),
		Err:      err,
		Size:     int64(len(fileRaw)),
	}
}

func post(ctx context.Context, url, contentType string, body io.Reader) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", contentType)

	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var out Response
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bad status %d: %s", resp.StatusCode, out.Error)
	}
	return out.Output, nil
}

func aggregate(results []BenchResult) map[string]Agg {
	m := map[string]Agg{}
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		a := m[r.Kind]
		a.Count++
		a.TotalBytes += r.Size
		a.Total += r.Duration
		m[r.Kind] = a
	}
	return m
}

func printMarkdown(results []BenchResult) {
	fmt.Println("\n## Benchmark Results")
	fmt.Println()
	fmt.Println("| Kind | Requests | Avg Time | Total Time | Avg File Size |")
	fmt.Println("|------|----------|----------|------------|---------------|")

	agg := aggregate(results)

	kinds := make([]string, 0, len(agg))
	for kind := range agg {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	var (
		totalCount    int
		totalDuration time.Duration
		totalBytes    int64
	)

	for _, kind := range kinds {
		a := agg[kind]
		avg := a.Total / time.Duration(a.Count)
		avgSize := a.TotalBytes / int64(a.Count)
		fmt.Printf("| %s | %d | %v | %v | %s |\n",
			kind,
			a.Count,
			avg.Round(time.Millisecond),
			a.Total.Round(time.Millisecond),
			humanBytes(avgSize),
		)
		totalCount += a.Count
		totalDuration += a.Total
		totalBytes += a.TotalBytes
	}

	if totalCount > 0 {
		mean := totalDuration / time.Duration(totalCount)
		avgSize := totalBytes / int64(totalCount)
		fmt.Printf("| **ALL** | %d | %v | %v | %s |\n",
			totalCount,
			mean.Round(time.Millisecond),
			totalDuration.Round(time.Millisecond),
			humanBytes(avgSize),
		)
	}
}

func humanBytes(size int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)
	switch {
	case size >= GB:
		return fmt.Sprintf("%.2f GB", float64(size)/GB)
	case size >= MB:
		return fmt.Sprintf("%.2f MB", float64(size)/MB)
	case size >= KB:
		return fmt.Sprintf("%.2f KB", float64(size)/KB)
	default:
		return fmt.Sprintf("%d B", size)
	}
}
