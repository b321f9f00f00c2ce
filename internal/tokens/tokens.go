// Package tokens estimates how many model tokens a prompt costs.
package tokens

import (
	"math"
)

const charsPerToken = 4

// Counter counts tokens in text.
type Counter interface {
	Count(text string) int
}

// EstimatingCounter approximates token count as ~4 characters per token.
type EstimatingCounter struct{}

func NewEstimatingCounter() *EstimatingCounter {
	return &EstimatingCounter{}
}

func (*EstimatingCounter) Count(text string) int {
	return Estimate(text)
}

// Estimate returns the approximate token count of text, rounding up.
func Estimate(text string) int {
	return int(math.Ceil(float64(len(text)) / float64(charsPerToken)))
}

// Total sums the estimates of several prompts.
func Total(c Counter, texts []string) int {
	n := 0
	for _, t := range texts {
		n += c.Count(t)
	}
	return n
}
