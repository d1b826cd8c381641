package benchmark

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"testing"

	"github.com/yndnr/respd-go/internal/server/redisserver"
	"github.com/yndnr/respd-go/internal/telemetry/logger"
	"github.com/yndnr/respd-go/internal/telemetry/metric"
)

// PayloadSizes defines the ECHO payload sizes for benchmarking.
var PayloadSizes = []int{16, 256, 4096, 65536, 1 << 20}

// SmallPayloadSizes for quick benchmarks.
var SmallPayloadSizes = []int{16, 256, 4096}

// payload returns n printable bytes.
func payload(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'a' + byte(i%26)
	}
	return b
}

// startServer starts a RESP server on a loopback port.
func startServer(b *testing.B) string {
	b.Helper()

	log, err := logger.New(logger.Config{Output: io.Discard})
	if err != nil {
		b.Fatalf("logger.New() error = %v", err)
	}
	srv := redisserver.New(&redisserver.Config{
		Address:     "127.0.0.1:0",
		ErrorPolicy: redisserver.PolicyReply,
	}, metric.NewRegistry(), log)
	if err := srv.Start(context.Background()); err != nil {
		b.Fatalf("Start() error = %v", err)
	}
	b.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv.Addr().String()
}

// reportMemory reports memory usage.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
	b.ReportMetric(float64(m.NumGC), prefix+"_GC")
}

// runWithPayloadSizes runs a benchmark function with various payload sizes.
func runWithPayloadSizes(b *testing.B, sizes []int, benchFn func(b *testing.B, size int)) {
	for _, size := range sizes {
		b.Run(fmt.Sprintf("bytes_%d", size), func(b *testing.B) {
			benchFn(b, size)
		})
	}
}
