// Package presence answers one question: is any configured phone on the
// local network right now. Detection failures degrade to "away" so the
// refresh cadence slows down instead of the dashboard crashing.
package presence

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"traindash/internal/telemetry"
)

// Method selects how devices are detected.
type Method string

const (
	MethodARPScan    Method = "arp-scan"
	MethodDHCPLeases Method = "dhcp-leases"
)

// DefaultCacheTTL bounds how often a scan actually runs.
const DefaultCacheTTL = 30 * time.Second

const scanTimeout = 5 * time.Second

// Common lease file locations, checked in order.
var defaultLeasePaths = []string{
	"/var/lib/dhcp/dhcpd.leases",
	"/var/lib/dhcpd/dhcpd.leases",
	"/var/db/dhcpd.leases",
}

// Detector checks for configured MAC addresses on the local network,
// memoizing the result for the cache TTL.
type Detector struct {
	macs    []string
	ttl     time.Duration
	metrics *telemetry.Metrics

	mu        sync.Mutex
	cached    bool
	checkedAt time.Time

	// Injection points for tests.
	runCmd     func(ctx context.Context, name string, args ...string) (string, error)
	leasePaths []string
}

// NewDetector creates a detector for the given MAC addresses. MACs are
// matched case-insensitively in colon-delimited form.
func NewDetector(macs []string) *Detector {
	normalized := make([]string, 0, len(macs))
	for _, mac := range macs {
		mac = strings.ToLower(strings.TrimSpace(mac))
		if mac != "" {
			normalized = append(normalized, mac)
		}
	}

	return &Detector{
		macs:       normalized,
		ttl:        DefaultCacheTTL,
		runCmd:     runCommand,
		leasePaths: defaultLeasePaths,
	}
}

// SetMetrics attaches scan instrumentation.
func (d *Detector) SetMetrics(metrics *telemetry.Metrics) {
	d.metrics = metrics
}

// IsAnyoneHome reports whether any configured device is present. The result
// is cached for the TTL; concurrent callers during a scan wait rather than
// launching their own.
func (d *Detector) IsAnyoneHome(ctx context.Context) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.checkedAt.IsZero() && time.Since(d.checkedAt) < d.ttl {
		return d.cached
	}

	result := false
	if len(d.macs) > 0 {
		result = d.detect(ctx)
		if d.metrics != nil {
			d.metrics.PresenceScans.Inc()
		}
	}

	d.cached = result
	d.checkedAt = time.Now()
	return result
}

// detect tries each method in order of preference. A method that fails
// outright (missing binary, no privilege, no lease file) falls through; a
// method that ran and saw nothing is a definitive "away".
func (d *Detector) detect(ctx context.Context) bool {
	if found, err := d.checkARPScan(ctx); err == nil {
		return found
	}

	if found, err := d.checkDHCPLeases(); err == nil {
		return found
	}

	return false
}

func (d *Detector) checkARPScan(ctx context.Context) (bool, error) {
	output, err := d.runCmd(ctx, "sudo", "arp-scan", "--localnet", "--quiet")
	if err != nil {
		return false, err
	}

	return d.containsAnyMAC(output), nil
}

func (d *Detector) checkDHCPLeases() (bool, error) {
	for _, path := range d.leasePaths {
		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		return d.containsAnyMAC(string(content)), nil
	}

	return false, os.ErrNotExist
}

func (d *Detector) containsAnyMAC(text string) bool {
	text = strings.ToLower(text)
	for _, mac := range d.macs {
		if strings.Contains(text, mac) {
			return true
		}
	}
	return false
}

func runCommand(ctx context.Context, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, scanTimeout)
	defer cancel()

	output, err := exec.CommandContext(ctx, name, args...).Output()
	return string(output), err
}
