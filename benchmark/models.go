package main

import "time"

type Config struct {
	BaseURL string `env:"BENCH_BASE_URL" envDefault:"http://localhost:3000"`
	DataDir string `env:"BENCH_DATA_DIR" envDefault:"data"`
	Prompt  string `env:"BENCH_PROMPT" envDefault:"Describe what you see."`
}

type TextRequest struct {
	Prompt string `json:"prompt"`
}

type Response struct {
	Output string `json:"output"`
	Error  string `json:"error"`
}

// Target maps a dataset directory to the endpoint and form field it feeds.
type Target struct {
	Kind     string
	Endpoint string
	Field    string
}

type BenchResult struct {
	File     string
	Kind     string
	Duration time.Duration
	Chars    int
	Err      error
	Size     int64
}

type Agg struct {
	Count      int
	Total      time.Duration
	TotalBytes int64
}
