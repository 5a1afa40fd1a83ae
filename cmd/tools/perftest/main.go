// main.go - Performance testing tool for loadpulse
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"sync"
	"sync/atomic"
	"syscall"
	"text/tabwriter"
	"time"
)

// PerfConfig holds the configuration for the performance test
type PerfConfig struct {
	BaseURL     string
	Concurrency int
	Duration    time.Duration
	EventRatio  int // percentage of requests sent as custom events
	Timeout     time.Duration
}

// PerfStats holds statistics about the performance test
type PerfStats struct {
	TotalRequests      int64
	SuccessfulRequests int64
	FailedRequests     int64

	mu            sync.Mutex
	statusCodes   map[int]int64
	responseTimes []time.Duration
}

func (s *PerfStats) record(status int, latency time.Duration, ok bool) {
	atomic.AddInt64(&s.TotalRequests, 1)
	if ok {
		atomic.AddInt64(&s.SuccessfulRequests, 1)
	} else {
		atomic.AddInt64(&s.FailedRequests, 1)
	}

	s.mu.Lock()
	s.statusCodes[status]++
	s.responseTimes = append(s.responseTimes, latency)
	s.mu.Unlock()
}

var samplePages = []string{
	"https://example.com/",
	"https://example.com/pricing",
	"https://example.com/docs",
	"https://example.com/blog/launch",
}

var sampleEvents = []string{"button_click", "signup", "download", "video_play"}

func main() {
	cfg := parseFlags()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Duration)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	stats := &PerfStats{statusCodes: make(map[int]int64)}
	client := &http.Client{Timeout: cfg.Timeout}

	fmt.Printf("Running against %s with %d workers for %s\n", cfg.BaseURL, cfg.Concurrency, cfg.Duration)

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker(ctx, client, cfg, stats)
		}()
	}
	wg.Wait()

	printStats(stats, time.Since(start))
}

func parseFlags() *PerfConfig {
	cfg := &PerfConfig{}
	flag.StringVar(&cfg.BaseURL, "url", "http://localhost:3000", "base URL of the loadpulse server")
	flag.IntVar(&cfg.Concurrency, "concurrency", 8, "number of concurrent workers")
	flag.DurationVar(&cfg.Duration, "duration", 30*time.Second, "test duration")
	flag.IntVar(&cfg.EventRatio, "event-ratio", 20, "percentage of requests sent as custom events")
	flag.DurationVar(&cfg.Timeout, "timeout", 5*time.Second, "per-request timeout")
	flag.Parse()
	return cfg
}

func worker(ctx context.Context, client *http.Client, cfg *PerfConfig, stats *PerfStats) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		var path string
		var payload map[string]interface{}
		if rand.Intn(100) < cfg.EventRatio {
			path = "/api/analytics/event"
			payload = map[string]interface{}{
				"event": sampleEvents[rand.Intn(len(sampleEvents))],
				"data":  map[string]interface{}{"sessionId": rand.Intn(10000)},
			}
		} else {
			path = "/api/analytics/pageload"
			payload = map[string]interface{}{
				"url": samplePages[rand.Intn(len(samplePages))],
			}
		}

		body, err := json.Marshal(payload)
		if err != nil {
			stats.record(0, 0, false)
			continue
		}

		req, err := http.NewRequestWithContext(ctx, "POST", cfg.BaseURL+path, bytes.NewReader(body))
		if err != nil {
			stats.record(0, 0, false)
			continue
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", "loadpulse-perftest")

		reqStart := time.Now()
		resp, err := client.Do(req)
		latency := time.Since(reqStart)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			stats.record(0, latency, false)
			continue
		}
		resp.Body.Close()

		stats.record(resp.StatusCode, latency, resp.StatusCode == http.StatusOK)
	}
}

func printStats(stats *PerfStats, elapsed time.Duration) {
	stats.mu.Lock()
	defer stats.mu.Unlock()

	sort.Slice(stats.responseTimes, func(i, j int) bool {
		return stats.responseTimes[i] < stats.responseTimes[j]
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "\nTotal requests:\t%d\n", stats.TotalRequests)
	fmt.Fprintf(w, "Successful:\t%d\n", stats.SuccessfulRequests)
	fmt.Fprintf(w, "Failed:\t%d\n", stats.FailedRequests)
	fmt.Fprintf(w, "Throughput:\t%.1f req/s\n", float64(stats.TotalRequests)/elapsed.Seconds())

	if len(stats.responseTimes) > 0 {
		fmt.Fprintf(w, "Latency p50:\t%s\n", percentile(stats.responseTimes, 50))
		fmt.Fprintf(w, "Latency p95:\t%s\n", percentile(stats.responseTimes, 95))
		fmt.Fprintf(w, "Latency p99:\t%s\n", percentile(stats.responseTimes, 99))
	}

	for code, count := range stats.statusCodes {
		fmt.Fprintf(w, "Status %d:\t%d\n", code, count)
	}
	w.Flush()
}

// percentile returns the p-th percentile of sorted latencies.
func percentile(sorted []time.Duration, p int) time.Duration {
	idx := len(sorted) * p / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
