package tokens

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEstimatingCounter(t *testing.T) {
	counter := NewEstimatingCounter()
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"test", 1},
		{"testing", 2},
		{"The quick brown fox jumps over the lazy dog.", 11},
		{string(make([]byte, 100)), 25},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, counter.Count(tt.input), "Count(%q)", tt.input)
	}
}

func TestTotal(t *testing.T) {
	require.Equal(t, 0, Total(NewEstimatingCounter(), nil))
	require.Equal(t, 3, Total(NewEstimatingCounter(), []string{"test", "testing"}))
}

var benchInput = strings.Repeat("The quick brown fox jumps over the lazy dog. ", 100)

func BenchmarkEstimatingCounter(b *testing.B) {
	counter := &EstimatingCounter{}
	b.ResetTimer()
	for b.Loop() {
		counter.Count(benchInput)
	}
}
