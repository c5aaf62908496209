package presence

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestIsAnyoneHomeDetectsMAC(t *testing.T) {
	d := NewDetector([]string{"AA:BB:CC:DD:EE:FF"})
	d.runCmd = func(ctx context.Context, name string, args ...string) (string, error) {
		return "192.168.1.10\taa:bb:cc:dd:ee:ff\tApple, Inc.\n", nil
	}

	if !d.IsAnyoneHome(context.Background()) {
		t.Error("Expected presence for MAC in scan output (case-insensitive)")
	}
}

func TestIsAnyoneHomeAbsentMAC(t *testing.T) {
	d := NewDetector([]string{"aa:bb:cc:dd:ee:ff"})
	d.runCmd = func(ctx context.Context, name string, args ...string) (string, error) {
		return "192.168.1.20\t11:22:33:44:55:66\tSomething Else\n", nil
	}

	if d.IsAnyoneHome(context.Background()) {
		t.Error("Expected away when no configured MAC appears")
	}
}

func TestIsAnyoneHomeScanFailureDegradesToAway(t *testing.T) {
	d := NewDetector([]string{"aa:bb:cc:dd:ee:ff"})
	d.runCmd = func(ctx context.Context, name string, args ...string) (string, error) {
		return "", errors.New("arp-scan: permission denied")
	}
	d.leasePaths = []string{filepath.Join(t.TempDir(), "missing.leases")}

	// Must not panic or propagate; degraded answer is "away".
	if d.IsAnyoneHome(context.Background()) {
		t.Error("Expected away when every detection method fails")
	}
}

func TestIsAnyoneHomeDHCPLeaseFallback(t *testing.T) {
	leaseFile := filepath.Join(t.TempDir(), "dhcpd.leases")
	content := "lease 192.168.1.30 {\n  hardware ethernet AA:BB:CC:DD:EE:FF;\n}\n"
	if err := os.WriteFile(leaseFile, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	d := NewDetector([]string{"aa:bb:cc:dd:ee:ff"})
	d.runCmd = func(ctx context.Context, name string, args ...string) (string, error) {
		return "", errors.New("sudo: arp-scan: command not found")
	}
	d.leasePaths = []string{leaseFile}

	if !d.IsAnyoneHome(context.Background()) {
		t.Error("Expected presence via lease file fallback")
	}
}

func TestIsAnyoneHomeCachesResult(t *testing.T) {
	scans := 0
	d := NewDetector([]string{"aa:bb:cc:dd:ee:ff"})
	d.runCmd = func(ctx context.Context, name string, args ...string) (string, error) {
		scans++
		return "aa:bb:cc:dd:ee:ff", nil
	}

	for i := 0; i < 5; i++ {
		if !d.IsAnyoneHome(context.Background()) {
			t.Fatal("Expected presence")
		}
	}
	if scans != 1 {
		t.Errorf("Expected 1 scan within the TTL, got %d", scans)
	}

	// Expire the cache and check a rescan happens.
	d.checkedAt = time.Now().Add(-DefaultCacheTTL - time.Second)
	d.IsAnyoneHome(context.Background())
	if scans != 2 {
		t.Errorf("Expected rescan after TTL, got %d scans", scans)
	}
}

func TestIsAnyoneHomeNoDevicesConfigured(t *testing.T) {
	d := NewDetector(nil)
	d.runCmd = func(ctx context.Context, name string, args ...string) (string, error) {
		t.Fatal("No scan should run without configured devices")
		return "", nil
	}

	if d.IsAnyoneHome(context.Background()) {
		t.Error("Expected away with no devices configured")
	}
}
