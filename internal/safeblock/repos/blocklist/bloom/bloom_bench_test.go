package bloom

import (
	"fmt"
	"testing"
)

func benchKeys(n int, suffix string) []string {
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = fmt.Sprintf("k%04d.%s", i, suffix)
	}
	return out
}

func BenchmarkFilter_Positive(b *testing.B) {
	const n = 1000
	bf := NewFactory().New(n, 0.01)
	keys := benchKeys(n, "present.test")
	for _, k := range keys {
		bf.Add(k)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = bf.MightContain(keys[i%len(keys)])
	}
}

// BenchmarkFilter_FalsePositiveRate reports the observed rate against a
// disjoint key set.
func BenchmarkFilter_FalsePositiveRate(b *testing.B) {
	const n = 1000
	const trials = 50_000

	bf := NewFactory().New(n, 0.01)
	for _, k := range benchKeys(n, "present.fpr") {
		bf.Add(k)
	}
	absent := benchKeys(trials, "absent.fpr")

	b.ReportAllocs()
	b.ResetTimer()
	fp := 0
	for i := 0; i < b.N; i++ {
		if bf.MightContain(absent[i%trials]) {
			fp++
		}
	}
	b.StopTimer()
	b.ReportMetric(float64(fp)/float64(b.N)*100, "fp_percent")
}
