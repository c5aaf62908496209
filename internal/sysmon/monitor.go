// Package sysmon collects Raspberry Pi system stats for the e-paper status
// display. Every probe degrades to an absent value; a Pi without vcgencmd
// or WiFi still gets a rendered screen.
package sysmon

import (
	"context"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

const probeTimeout = 2 * time.Second

// RAMUsage describes memory pressure in display-friendly units.
type RAMUsage struct {
	Percent float64 `json:"percent"`
	UsedMB  uint64  `json:"used_mb"`
	TotalMB uint64  `json:"total_mb"`
}

// WiFiStatus describes the wlan0 association.
type WiFiStatus struct {
	Connected bool   `json:"connected"`
	SSID      string `json:"ssid,omitempty"`
	SignalDBm *int   `json:"signal_dbm,omitempty"`
}

// Stats is everything the status display shows.
type Stats struct {
	CPUTempC *float64   `json:"cpu_temp_c,omitempty"`
	RAM      RAMUsage   `json:"ram"`
	WiFi     WiFiStatus `json:"wifi"`
	Home     *bool      `json:"home,omitempty"`
}

// Monitor reads system stats from the usual Pi sources.
type Monitor struct {
	runCmd      func(ctx context.Context, name string, args ...string) (string, error)
	thermalPath string
	meminfoPath string
}

// NewMonitor creates a monitor using the live system.
func NewMonitor() *Monitor {
	return &Monitor{
		runCmd:      runCommand,
		thermalPath: "/sys/class/thermal/thermal_zone0/temp",
		meminfoPath: "/proc/meminfo",
	}
}

// Stats collects all probes. The presence flag is attached by the caller,
// which owns the detector.
func (m *Monitor) Stats(ctx context.Context) Stats {
	stats := Stats{
		RAM:  m.RAM(),
		WiFi: m.WiFi(ctx),
	}
	if temp, ok := m.CPUTemp(ctx); ok {
		stats.CPUTempC = &temp
	}
	return stats
}

// CPUTemp returns the CPU temperature in Celsius. vcgencmd is tried first
// (Pi-specific), then the generic thermal zone.
func (m *Monitor) CPUTemp(ctx context.Context) (float64, bool) {
	if output, err := m.runCmd(ctx, "vcgencmd", "measure_temp"); err == nil {
		// Output format: temp=42.8'C
		if temp, ok := parseVcgencmdTemp(output); ok {
			return temp, true
		}
	}

	if raw, err := os.ReadFile(m.thermalPath); err == nil {
		if milli, err := strconv.Atoi(strings.TrimSpace(string(raw))); err == nil {
			return float64(milli) / 1000.0, true
		}
	}

	return 0, false
}

// RAM reads usage from /proc/meminfo.
func (m *Monitor) RAM() RAMUsage {
	raw, err := os.ReadFile(m.meminfoPath)
	if err != nil {
		return RAMUsage{}
	}

	var totalKB, availableKB uint64
	for _, line := range strings.Split(string(raw), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		value, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			continue
		}
		switch fields[0] {
		case "MemTotal:":
			totalKB = value
		case "MemAvailable:":
			availableKB = value
		}
	}

	if totalKB == 0 {
		return RAMUsage{}
	}

	usedKB := totalKB - availableKB
	return RAMUsage{
		Percent: float64(usedKB) / float64(totalKB) * 100,
		UsedMB:  usedKB / 1024,
		TotalMB: totalKB / 1024,
	}
}

// WiFi reports the current association via iwgetid/iwconfig.
func (m *Monitor) WiFi(ctx context.Context) WiFiStatus {
	output, err := m.runCmd(ctx, "iwgetid", "-r")
	ssid := strings.TrimSpace(output)
	if err != nil || ssid == "" {
		return WiFiStatus{}
	}

	status := WiFiStatus{Connected: true, SSID: ssid}

	if output, err := m.runCmd(ctx, "iwconfig", "wlan0"); err == nil {
		if dbm, ok := parseSignalLevel(output); ok {
			status.SignalDBm = &dbm
		}
	}

	return status
}

func parseVcgencmdTemp(output string) (float64, bool) {
	output = strings.TrimSpace(output)
	output = strings.TrimPrefix(output, "temp=")
	value, _, found := strings.Cut(output, "'")
	if !found {
		return 0, false
	}
	temp, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return temp, true
}

func parseSignalLevel(output string) (int, bool) {
	for _, line := range strings.Split(output, "\n") {
		_, rest, found := strings.Cut(line, "Signal level=")
		if !found {
			continue
		}
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			continue
		}
		dbm, err := strconv.Atoi(strings.TrimSuffix(fields[0], "dBm"))
		if err != nil {
			continue
		}
		return dbm, true
	}
	return 0, false
}

func runCommand(ctx context.Context, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	output, err := exec.CommandContext(ctx, name, args...).Output()
	return string(output), err
}
