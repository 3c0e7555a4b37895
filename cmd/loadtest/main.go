package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/vladislavdragonenkov/shopcheck/internal/regression"
)

type loadMode string

const (
	modeSignIn   loadMode = "sign-in"
	modeCart     loadMode = "cart"
	modeCheckout loadMode = "checkout"
)

const (
	scenarioKey     = "scenario"
	transportStatus = "transport"

	// Имя участника: префикс + 3 символа прогона + до 4 символов индекса в base36.
	maxPrefixLen     = 3
	runTagLen        = 3
	maxScenarioIndex = 36 * 36 * 36 * 36
)

type config struct {
	apiURL      string
	total       int
	totalSet    bool
	duration    time.Duration
	concurrency int
	timeout     time.Duration
	mode        loadMode
	productID   int64
	quantity    int
	userPrefix  string
	username    string
	password    string
	outputPath  string
}

type latencySummary struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
	P50 float64 `json:"p50"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
}

type stepReport struct {
	Calls     int64            `json:"calls"`
	Success   int64            `json:"success"`
	Failed    int64            `json:"failed"`
	ErrorRate float64          `json:"error_rate"`
	Statuses  map[string]int64 `json:"statuses"`
	LatencyMs latencySummary   `json:"latency_ms"`
}

type report struct {
	StartedAt         time.Time             `json:"started_at"`
	Mode              loadMode              `json:"mode"`
	DurationSeconds   float64               `json:"duration_seconds"`
	TotalScenarios    int64                 `json:"total_scenarios"`
	SuccessScenarios  int64                 `json:"success_scenarios"`
	FailedScenarios   int64                 `json:"failed_scenarios"`
	ErrorRate         float64               `json:"error_rate"`
	RPS               float64               `json:"rps"`
	ScenarioLatencyMs latencySummary        `json:"scenario_latency_ms"`
	Steps             map[string]stepReport `json:"steps"`
}

type stepStats struct {
	calls     int64
	success   int64
	failed    int64
	statuses  map[string]int64
	latencies []float64
}

type collector struct {
	mu    sync.Mutex
	steps map[string]*stepStats
}

func newCollector() *collector {
	return &collector{steps: make(map[string]*stepStats)}
}

// record учитывает вызов. status - HTTP-код или transportStatus.
func (c *collector) record(step string, latency time.Duration, status string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats, exists := c.steps[step]
	if !exists {
		stats = &stepStats{statuses: make(map[string]int64)}
		c.steps[step] = stats
	}

	stats.calls++
	if ok {
		stats.success++
	} else {
		stats.failed++
	}
	stats.statuses[status]++
	stats.latencies = append(stats.latencies, float64(latency.Microseconds())/1000.0)
}

func (c *collector) buildReport(mode loadMode, startedAt time.Time, duration time.Duration) report {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := report{
		StartedAt:       startedAt.UTC(),
		Mode:            mode,
		DurationSeconds: duration.Seconds(),
		Steps:           make(map[string]stepReport, len(c.steps)),
	}

	for name, stats := range c.steps {
		statuses := make(map[string]int64, len(stats.statuses))
		for status, count := range stats.statuses {
			statuses[status] = count
		}
		step := stepReport{
			Calls:     stats.calls,
			Success:   stats.success,
			Failed:    stats.failed,
			ErrorRate: ratio(stats.failed, stats.calls),
			Statuses:  statuses,
			LatencyMs: buildLatencySummary(stats.latencies),
		}
		if name == scenarioKey {
			result.TotalScenarios = step.Calls
			result.SuccessScenarios = step.Success
			result.FailedScenarios = step.Failed
			result.ErrorRate = step.ErrorRate
			result.ScenarioLatencyMs = step.LatencyMs
			continue
		}
		result.Steps[name] = step
	}
	if duration > 0 {
		result.RPS = float64(result.TotalScenarios) / duration.Seconds()
	}
	return result
}

func defaultAPIURL() string {
	if v := strings.TrimSpace(os.Getenv("API_URL")); v != "" {
		return v
	}
	return "http://localhost:8080"
}

func parseConfig(args []string) (config, error) {
	var cfg config
	var modeValue string

	fs := flag.NewFlagSet("loadtest", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.apiURL, "api-url", defaultAPIURL(), "shop API base URL (fallback: API_URL)")
	fs.IntVar(&cfg.total, "total", 200, "total scenarios in count mode; in duration mode only used when explicitly set")
	fs.DurationVar(&cfg.duration, "duration", 0, "optional time-based run duration (e.g. 1m)")
	fs.IntVar(&cfg.concurrency, "concurrency", 20, "number of concurrent workers")
	fs.DurationVar(&cfg.timeout, "timeout", 5*time.Second, "per-request timeout")
	fs.StringVar(&modeValue, "mode", string(modeCart), "load mode: sign-in | cart | checkout")
	fs.Int64Var(&cfg.productID, "product-id", 1, "product to put into the cart")
	fs.IntVar(&cfg.quantity, "quantity", 1, "quantity per cart add")
	fs.StringVar(&cfg.userPrefix, "user-prefix", "lt", "username prefix for joined members (up to 3 chars)")
	fs.StringVar(&cfg.username, "username", "test2345", "existing member for sign-in mode")
	fs.StringVar(&cfg.password, "password", "Qwpo1209!@", "password of the existing member")
	fs.StringVar(&cfg.outputPath, "output", "", "optional JSON report output file path")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "total" {
			cfg.totalSet = true
		}
	})

	mode, err := parseMode(modeValue)
	if err != nil {
		return cfg, err
	}
	cfg.mode = mode
	cfg.apiURL = strings.TrimRight(strings.TrimSpace(cfg.apiURL), "/")

	switch {
	case cfg.apiURL == "":
		return cfg, errors.New("api-url is required")
	case cfg.duration < 0:
		return cfg, errors.New("duration must be >= 0")
	case cfg.duration == 0 && cfg.total <= 0:
		return cfg, errors.New("total must be > 0 when duration is not set")
	case cfg.duration > 0 && cfg.totalSet && cfg.total <= 0:
		return cfg, errors.New("total must be > 0 when explicitly set with duration")
	case cfg.total > maxScenarioIndex:
		return cfg, fmt.Errorf("total must be <= %d", maxScenarioIndex)
	case cfg.concurrency <= 0:
		return cfg, errors.New("concurrency must be > 0")
	case cfg.timeout <= 0:
		return cfg, errors.New("timeout must be > 0")
	case cfg.productID <= 0:
		return cfg, errors.New("product-id must be > 0")
	case cfg.quantity <= 0:
		return cfg, errors.New("quantity must be > 0")
	case cfg.userPrefix == "" || utf8.RuneCountInString(cfg.userPrefix) > maxPrefixLen:
		return cfg, fmt.Errorf("user-prefix must be 1..%d chars", maxPrefixLen)
	case cfg.mode == modeSignIn && (cfg.username == "" || cfg.password == ""):
		return cfg, errors.New("username and password are required for sign-in mode")
	}
	return cfg, nil
}

func parseMode(value string) (loadMode, error) {
	switch mode := loadMode(strings.TrimSpace(value)); mode {
	case modeSignIn, modeCart, modeCheckout:
		return mode, nil
	default:
		return "", fmt.Errorf("unsupported mode: %s", value)
	}
}

func main() {
	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = cfg.concurrency
	client := regression.NewClient(cfg.apiURL, cfg.timeout,
		regression.WithHTTPClient(&http.Client{Timeout: cfg.timeout, Transport: transport}))

	result := run(context.Background(), cfg, client)

	printReport(os.Stdout, result, cfg)
	if cfg.outputPath != "" {
		if err := writeJSONReport(cfg.outputPath, result); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "failed to write report: %v\n", err)
			os.Exit(1)
		}
	}
	if result.FailedScenarios > 0 {
		os.Exit(1)
	}
}

// run выполняет сценарии пулом воркеров и собирает отчёт.
func run(ctx context.Context, cfg config, client *regression.Client) report {
	startedAt := time.Now()
	runTag := newRunTag()
	col := newCollector()

	jobs := make(chan int, cfg.concurrency*2)
	var wg sync.WaitGroup
	for range cfg.concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range jobs {
				_ = runScenario(ctx, client, cfg, runTag, index, col)
			}
		}()
	}

	dispatchJobs(jobs, cfg)
	wg.Wait()

	return col.buildReport(cfg.mode, startedAt, time.Since(startedAt))
}

func dispatchJobs(jobs chan<- int, cfg config) {
	defer close(jobs)

	if cfg.duration <= 0 {
		for i := 0; i < cfg.total; i++ {
			jobs <- i
		}
		return
	}

	timer := time.NewTimer(cfg.duration)
	defer timer.Stop()

	for i := 0; i < maxScenarioIndex; i++ {
		if cfg.totalSet && i >= cfg.total {
			return
		}

		select {
		case <-timer.C:
			return
		case jobs <- i:
		}
	}
}

func newRunTag() string {
	return scenarioID(int64(rand.IntN(36*36*36)), runTagLen)
}

// scenarioID кодирует v в base36, дополняя нулями до width.
func scenarioID(v int64, width int) string {
	s := strconv.FormatInt(v, 36)
	if len(s) < width {
		s = strings.Repeat("0", width-len(s)) + s
	}
	return s
}

func usernameFor(prefix, runTag string, index int) string {
	return prefix + runTag + strconv.FormatInt(int64(index), 36)
}

func runScenario(ctx context.Context, client *regression.Client, cfg config, runTag string, index int, col *collector) (err error) {
	started := time.Now()
	defer func() {
		status := "ok"
		if err != nil {
			status = "failed"
		}
		col.record(scenarioKey, time.Since(started), status, err == nil)
	}()

	username, password := cfg.username, cfg.password
	if cfg.mode != modeSignIn {
		username = usernameFor(cfg.userPrefix, runTag, index)
		password = "LoadTest1!@"
		join := regression.SampleJoin(username)
		join.Email = username + "@lt.co"
		join.Password = password
		if _, err := step(col, "join", http.StatusAccepted, func() (*regression.Response, error) {
			return client.Join(ctx, join)
		}); err != nil {
			return err
		}
	}

	var tokens regression.TokenResponse
	resp, err := step(col, "sign-in", http.StatusAccepted, func() (*regression.Response, error) {
		var (
			resp *regression.Response
			err  error
		)
		tokens, resp, err = client.SignIn(ctx, regression.SignInRequest{Username: username, Password: password})
		var statusErr *regression.StatusError
		if errors.As(err, &statusErr) {
			err = nil
		}
		return resp, err
	})
	if err != nil {
		return err
	}
	if tokens.AccessToken == "" {
		return fmt.Errorf("sign in %s: empty access token (status %d)", username, resp.Status)
	}
	token := tokens.AccessToken

	if cfg.mode == modeSignIn {
		_, err = step(col, "get-cart", http.StatusOK, func() (*regression.Response, error) {
			return client.GetCart(ctx, token)
		})
		return err
	}

	if _, err := step(col, "add-cart", http.StatusAccepted, func() (*regression.Response, error) {
		return client.AddCart(ctx, token, regression.AddCartRequest{ProductID: cfg.productID, Quantity: cfg.quantity})
	}); err != nil {
		return err
	}

	if cfg.mode == modeCheckout {
		if _, err := step(col, "checkout", http.StatusAccepted, func() (*regression.Response, error) {
			return client.Checkout(ctx, token)
		}); err != nil {
			return err
		}
		_, err = step(col, "my-orders", http.StatusOK, func() (*regression.Response, error) {
			return client.MyOrders(ctx, token)
		})
		return err
	}

	if _, err := step(col, "get-cart", http.StatusOK, func() (*regression.Response, error) {
		return client.GetCart(ctx, token)
	}); err != nil {
		return err
	}
	_, err = step(col, "clear-cart", http.StatusAccepted, func() (*regression.Response, error) {
		return client.DeleteCart(ctx, token)
	})
	return err
}

// step выполняет вызов, записывает его в collector и требует статус want.
func step(col *collector, name string, want int, call func() (*regression.Response, error)) (*regression.Response, error) {
	started := time.Now()
	resp, err := call()
	if err != nil {
		col.record(name, time.Since(started), transportStatus, false)
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	col.record(name, time.Since(started), strconv.Itoa(resp.Status), resp.Status == want)
	if resp.Status != want {
		return resp, &regression.StatusError{Op: name, Status: resp.Status, Body: resp.Text()}
	}
	return resp, nil
}

func writeJSONReport(path string, result report) error {
	cleanPath := filepath.Clean(path)
	if cleanPath == "." || cleanPath == string(filepath.Separator) {
		return errors.New("output path must point to a file")
	}
	if cleanPath == ".." || strings.HasPrefix(cleanPath, ".."+string(filepath.Separator)) {
		return fmt.Errorf("output path must be inside current directory: %s", path)
	}

	// #nosec G304 -- path is an explicit CLI output parameter for local load-test reports.
	file, err := os.Create(cleanPath)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func printReport(out io.Writer, result report, cfg config) {
	_, _ = fmt.Fprintln(out, "Load test summary")
	_, _ = fmt.Fprintf(out, "mode=%s run=%s total=%d success=%d failed=%d error_rate=%.4f\n",
		cfg.mode,
		runTarget(cfg),
		result.TotalScenarios,
		result.SuccessScenarios,
		result.FailedScenarios,
		result.ErrorRate,
	)
	_, _ = fmt.Fprintf(out, "duration=%.2fs rps=%.2f\n", result.DurationSeconds, result.RPS)
	_, _ = fmt.Fprintf(out, "scenario latency ms: min=%.2f avg=%.2f p50=%.2f p95=%.2f p99=%.2f max=%.2f\n",
		result.ScenarioLatencyMs.Min,
		result.ScenarioLatencyMs.Avg,
		result.ScenarioLatencyMs.P50,
		result.ScenarioLatencyMs.P95,
		result.ScenarioLatencyMs.P99,
		result.ScenarioLatencyMs.Max,
	)

	names := make([]string, 0, len(result.Steps))
	for name := range result.Steps {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		stats := result.Steps[name]
		_, _ = fmt.Fprintf(out,
			"%s: calls=%d success=%d failed=%d error_rate=%.4f p50=%.2fms p95=%.2fms p99=%.2fms\n",
			name,
			stats.Calls,
			stats.Success,
			stats.Failed,
			stats.ErrorRate,
			stats.LatencyMs.P50,
			stats.LatencyMs.P95,
			stats.LatencyMs.P99,
		)
	}
}

func runTarget(cfg config) string {
	if cfg.duration <= 0 {
		return fmt.Sprintf("count:%d", cfg.total)
	}
	if cfg.totalSet {
		return fmt.Sprintf("duration:%s,max-total:%d", cfg.duration, cfg.total)
	}
	return fmt.Sprintf("duration:%s", cfg.duration)
}

func buildLatencySummary(values []float64) latencySummary {
	if len(values) == 0 {
		return latencySummary{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, value := range sorted {
		sum += value
	}

	return latencySummary{
		Min: sorted[0],
		Max: sorted[len(sorted)-1],
		Avg: sum / float64(len(sorted)),
		P50: percentile(sorted, 50),
		P95: percentile(sorted, 95),
		P99: percentile(sorted, 99),
	}
}

func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	rank := (p / 100.0) * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}

	weight := rank - float64(lower)
	return sorted[lower] + (sorted[upper]-sorted[lower])*weight
}

func ratio(failed, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(failed) / float64(total)
}
