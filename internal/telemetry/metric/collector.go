package metric

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/respd-go/internal/infra/buildinfo"
)

// BuildInfoCollector exports a constant respd_build_info gauge labelled with
// the binary's version data.
type BuildInfoCollector struct {
	desc *prometheus.Desc
	info buildinfo.Info
}

// NewBuildInfoCollector creates a collector for the running binary.
func NewBuildInfoCollector() *BuildInfoCollector {
	return newBuildInfoCollector(buildinfo.Get())
}

func newBuildInfoCollector(info buildinfo.Info) *BuildInfoCollector {
	return &BuildInfoCollector{
		desc: prometheus.NewDesc(
			prometheus.BuildFQName(Namespace, "", "build_info"),
			"Build information of the running respd binary",
			[]string{"version", "commit", "go_version"},
			nil,
		),
		info: info,
	}
}

// Describe implements prometheus.Collector.
func (c *BuildInfoCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect implements prometheus.Collector.
func (c *BuildInfoCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, 1,
		c.info.Version, c.info.Commit, c.info.GoVersion)
}
