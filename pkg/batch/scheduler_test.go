package batch

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestScheduler_Start(t *testing.T) {
	tests := []struct {
		name        string
		schedule    string
		wantRunning bool
		wantError   bool
	}{
		{"valid daily schedule", "0 2 * * *", true, false},
		{"valid hourly schedule", "0 * * * *", true, false},
		{"empty schedule", "", false, false},
		{"invalid schedule", "invalid cron", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := NewRunner(testEngine(), Config{
				PortalRoot: t.TempDir(),
				ReportDir:  t.TempDir(),
				Logger:     discardLogger(),
			})
			scheduler := NewScheduler(runner, tt.schedule)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			err := scheduler.Start(ctx)
			if (err != nil) != tt.wantError {
				t.Errorf("Start() error = %v, wantError %v", err, tt.wantError)
			}
			if scheduler.IsRunning() != tt.wantRunning {
				t.Errorf("IsRunning() = %v, want %v", scheduler.IsRunning(), tt.wantRunning)
			}

			if tt.wantRunning {
				next := scheduler.NextRun()
				if next == nil {
					t.Fatal("NextRun() = nil for running scheduler")
				}
				if !next.After(time.Now()) {
					t.Errorf("NextRun() = %v, want a future time", next)
				}
				scheduler.Stop()
				if scheduler.IsRunning() {
					t.Error("IsRunning() = true after Stop()")
				}
			}
		})
	}
}

func TestScheduler_StopsOnContextCancel(t *testing.T) {
	runner := NewRunner(testEngine(), Config{
		PortalRoot: t.TempDir(),
		ReportDir:  t.TempDir(),
		Logger:     discardLogger(),
	})
	scheduler := NewScheduler(runner, "*/5 * * * *")

	ctx, cancel := context.WithCancel(context.Background())
	if err := scheduler.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for scheduler.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if scheduler.IsRunning() {
		t.Error("scheduler still running after context cancel")
	}
}

func TestScheduler_RunOnce(t *testing.T) {
	root := t.TempDir()
	reportDir := t.TempDir()
	writeFile(t, filepath.Join(root, "vendor_a.json"), `{"email": "a@b.com"}`)

	runner := NewRunner(testEngine(), Config{PortalRoot: root, ReportDir: reportDir, Logger: discardLogger()})
	scheduler := NewScheduler(runner, "0 2 * * *")

	scheduler.runOnce(context.Background())

	readReport(t, filepath.Join(reportDir, "vendor_a"+ReportSuffix))
}
