package metrics

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultNoMatch = "no_match"
)

// Stage label values for the compile pipeline.
const (
	StageExport  = "export"
	StageCompile = "compile"
	StageCleanup = "cleanup"
)

var (
	registry = prometheus.NewRegistry()

	launches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "singer",
		Name:      "launches_total",
		Help:      "Detached launches of the supervised program by result.",
	}, []string{"result"})

	terminations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "singer",
		Name:      "terminations_total",
		Help:      "Bulk termination requests by result.",
	}, []string{"result"})

	categories = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "singer",
		Name:      "categories_total",
		Help:      "Rule-set categories processed by pipeline stage and result.",
	}, []string{"stage", "result"})

	buildInfo = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "singer",
		Name:      "build_info",
		Help:      "Build metadata for the running singer binary.",
	}, []string{"go_version", "vcs", "vcs_revision", "vcs_time", "vcs_modified"})

	buildInfoOnce sync.Once
)

func init() {
	registry.MustRegister(launches, terminations, categories, buildInfo)
}

// Registry returns the Prometheus registry containing all singer metrics.
func Registry() *prometheus.Registry {
	return registry
}

// RecordLaunch counts a launch attempt.
func RecordLaunch(err error) {
	launches.WithLabelValues(result(err)).Inc()
}

// RecordTermination counts a termination request. noMatch marks a request
// that found nothing to kill.
func RecordTermination(err error, noMatch bool) {
	if noMatch {
		terminations.WithLabelValues(ResultNoMatch).Inc()
		return
	}
	terminations.WithLabelValues(result(err)).Inc()
}

// RecordCategory counts one pipeline stage outcome for a category.
func RecordCategory(stage string, err error) {
	categories.WithLabelValues(stage, result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}

// EmitBuildInfo publishes build metadata about the running binary.
func EmitBuildInfo() {
	buildInfoOnce.Do(func() {
		labels := prometheus.Labels{
			"go_version":   runtime.Version(),
			"vcs":          "",
			"vcs_revision": "",
			"vcs_time":     "",
			"vcs_modified": "",
		}
		if info, ok := debug.ReadBuildInfo(); ok {
			if info.GoVersion != "" {
				labels["go_version"] = info.GoVersion
			}
			for _, setting := range info.Settings {
				switch setting.Key {
				case "vcs":
					labels["vcs"] = setting.Value
				case "vcs.revision":
					labels["vcs_revision"] = setting.Value
				case "vcs.time":
					labels["vcs_time"] = setting.Value
				case "vcs.modified":
					labels["vcs_modified"] = setting.Value
				}
			}
		}
		buildInfo.With(labels).Set(1)
	})
}

// WriteTextfile writes the registry in the Prometheus text format to path,
// for pickup by the node_exporter textfile collector.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
