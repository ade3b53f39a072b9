package status

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Summary captures the port status of the engine across platforms.
type Summary struct {
	State      string
	StateLabel string
	UpdatedAt  time.Time
	Platforms  []Platform
	Features   []Feature
}

// Platform is one OS/architecture combination.
type Platform struct {
	Name   string
	Arch   string
	Status string
	Notes  string
}

// Feature tracks a cross-platform piece of work.
type Feature struct {
	Name   string
	Status string
	Notes  string
}

// LocalFile is the default name of the status data inside the content FS.
const LocalFile = "status.yaml"

const defaultCacheTTL = 2 * time.Minute

// ErrNotFound indicates the status feed has nothing to offer.
var ErrNotFound = errors.New("status: not found")

// Client fetches status summaries from an external feed with local fallbacks.
type Client struct {
	feedURL   string
	http      *http.Client
	local     fs.FS
	localFile string
	ttl       time.Duration
	now       func() time.Time
	logger    *zap.Logger

	mu      sync.RWMutex
	cached  Summary
	expires time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for the remote feed.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLocalFS sets where the local YAML status data lives.
func WithLocalFS(fsys fs.FS, name string) Option {
	return func(c *Client) {
		c.local = fsys
		if strings.TrimSpace(name) != "" {
			c.localFile = name
		}
	}
}

// WithCacheTTL configures the cache duration.
func WithCacheTTL(d time.Duration) Option {
	return func(c *Client) {
		if d <= 0 {
			d = time.Minute
		}
		c.ttl = d
	}
}

// WithLogger sets the logger used to report feed failures.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient builds a status client. When feedURL is empty the client serves
// local or built-in data only.
func NewClient(feedURL string, opts ...Option) *Client {
	c := &Client{
		feedURL:   strings.TrimSpace(feedURL),
		http:      &http.Client{Timeout: 5 * time.Second},
		localFile: LocalFile,
		ttl:       defaultCacheTTL,
		now:       time.Now,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchSummary returns the status summary, prioritizing cached values, then
// the remote feed, then local data, and finally the built-in fallback.
func (c *Client) FetchSummary(ctx context.Context) (Summary, error) {
	if summary, ok := c.cachedSummary(); ok {
		return summary, nil
	}

	var summary Summary
	if c.feedURL != "" {
		remote, err := c.fetchRemote(ctx)
		switch {
		case err == nil:
			summary = remote
		case ctx.Err() != nil:
			return Summary{}, ctx.Err()
		case !errors.Is(err, ErrNotFound):
			c.logger.Warn("status feed unavailable, using local data", zap.Error(err))
		}
	}
	if summary.State == "" && c.local != nil {
		local, err := readLocal(c.local, c.localFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			c.logger.Warn("status data unreadable, using built-in data", zap.String("file", c.localFile), zap.Error(err))
		}
		summary = local
	}
	if summary.State == "" {
		summary = fallbackSummary
	}
	c.storeSummary(summary)
	return cloneSummary(summary), nil
}

func (c *Client) fetchRemote(ctx context.Context) (Summary, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return Summary{}, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return Summary{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return Summary{}, ErrNotFound
	}
	if resp.StatusCode >= 400 {
		return Summary{}, fmt.Errorf("status: remote status %d", resp.StatusCode)
	}

	var payload rawSummary
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Summary{}, fmt.Errorf("status: decode feed: %w", err)
	}
	return mapRawSummary(payload), nil
}

func readLocal(fsys fs.FS, name string) (Summary, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Summary{}, err
	}
	var payload rawSummary
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return Summary{}, fmt.Errorf("status: parse %s: %w", name, err)
	}
	return mapRawSummary(payload), nil
}

func mapRawSummary(raw rawSummary) Summary {
	summary := Summary{
		State:      strings.TrimSpace(raw.State),
		StateLabel: strings.TrimSpace(raw.StateLabel),
		UpdatedAt:  parseTime(raw.UpdatedAt),
	}
	if summary.StateLabel == "" {
		summary.StateLabel = Label(summary.State)
	}
	for _, p := range raw.Platforms {
		summary.Platforms = append(summary.Platforms, Platform{
			Name:   strings.TrimSpace(p.Name),
			Arch:   strings.TrimSpace(p.Arch),
			Status: strings.TrimSpace(p.Status),
			Notes:  strings.TrimSpace(p.Notes),
		})
	}
	for _, f := range raw.Features {
		summary.Features = append(summary.Features, Feature{
			Name:   strings.TrimSpace(f.Name),
			Status: strings.TrimSpace(f.Status),
			Notes:  strings.TrimSpace(f.Notes),
		})
	}
	return summary
}

// rawSummary is the shared wire shape of the JSON feed and the YAML file.
type rawSummary struct {
	State      string        `json:"state" yaml:"state"`
	StateLabel string        `json:"state_label" yaml:"state_label"`
	UpdatedAt  string        `json:"updated_at" yaml:"updated_at"`
	Platforms  []rawPlatform `json:"platforms" yaml:"platforms"`
	Features   []rawFeature  `json:"features" yaml:"features"`
}

type rawPlatform struct {
	Name   string `json:"name" yaml:"name"`
	Arch   string `json:"arch" yaml:"arch"`
	Status string `json:"status" yaml:"status"`
	Notes  string `json:"notes" yaml:"notes"`
}

type rawFeature struct {
	Name   string `json:"name" yaml:"name"`
	Status string `json:"status" yaml:"status"`
	Notes  string `json:"notes" yaml:"notes"`
}

func (c *Client) cachedSummary() (Summary, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.cached.State == "" || c.now().After(c.expires) {
		return Summary{}, false
	}
	return cloneSummary(c.cached), true
}

func (c *Client) storeSummary(summary Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cached = cloneSummary(summary)
	c.expires = c.now().Add(c.ttl)
}

func cloneSummary(src Summary) Summary {
	cp := src
	if len(src.Platforms) > 0 {
		cp.Platforms = make([]Platform, len(src.Platforms))
		copy(cp.Platforms, src.Platforms)
	}
	if len(src.Features) > 0 {
		cp.Features = make([]Feature, len(src.Features))
		copy(cp.Features, src.Features)
	}
	return cp
}

// Label returns a human readable label for a status code.
func Label(code string) string {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "working", "operational", "done":
		return "Working"
	case "partial", "in_progress":
		return "In progress"
	case "broken":
		return "Broken"
	case "planned":
		return "Planned"
	case "untested", "":
		return "Untested"
	default:
		return code
	}
}

var fallbackSummary = Summary{
	State:      "partial",
	StateLabel: "Most platforms working",
	UpdatedAt:  time.Date(2006, 1, 1, 0, 0, 0, 0, time.UTC),
	Platforms: []Platform{
		{Name: "Linux", Arch: "x86", Status: "working"},
		{Name: "Linux", Arch: "x86_64", Status: "working"},
		{Name: "Mac OS X", Arch: "PowerPC", Status: "working"},
		{Name: "Windows", Arch: "x86", Status: "working", Notes: "MinGW and MSVC builds"},
		{Name: "FreeBSD", Arch: "x86", Status: "working"},
	},
	Features: []Feature{
		{Name: "SDL input, video and sound", Status: "done"},
		{Name: "OpenAL support", Status: "in_progress", Notes: "Goal for 1.34"},
		{Name: "Removal of DirectX", Status: "planned"},
	},
}

func parseTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
