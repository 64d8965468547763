package metrics_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Paintersrp/singer/internal/metrics"
)

func TestWriteTextfileExposesMetrics(t *testing.T) {
	metrics.EmitBuildInfo()
	metrics.RecordLaunch(nil)
	metrics.RecordTermination(nil, true)
	metrics.RecordCategory(metrics.StageExport, errors.New("boom"))

	path := filepath.Join(t.TempDir(), "singer.prom")
	if err := metrics.WriteTextfile(path); err != nil {
		t.Fatalf("write textfile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	body := string(data)

	for _, want := range []string{
		`singer_launches_total{result="success"}`,
		`singer_terminations_total{result="no_match"}`,
		`singer_categories_total{result="failure",stage="export"}`,
		"singer_build_info{",
		"go_version=",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in textfile:\n%s", want, body)
		}
	}
}

func TestWriteTextfileWithoutPathIsNoop(t *testing.T) {
	if err := metrics.WriteTextfile(""); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}
