package reporting

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/voicejournal/promptlab/internal/models"
)

// JUnit XML schema types

// JUnitTestSuites is the top-level container.
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite maps to one prompt family.
type JUnitTestSuite struct {
	XMLName    xml.Name        `xml:"testsuite"`
	Name       string          `xml:"name,attr"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Timestamp  string          `xml:"timestamp,attr"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	TestCases  []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase maps to one prompt version.
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
}

// JUnitFailure marks a version whose average fell below the threshold.
type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitProperty is a key-value metadata entry.
type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// ConvertToJUnit reports each prompt version as a test case that fails when
// its average score is below threshold. Empty families are left out.
func ConvertToJUnit(result *models.ExperimentResult, threshold float64) *JUnitTestSuites {
	out := &JUnitTestSuites{Name: "promptlab"}

	for _, family := range models.Families() {
		section := result.Family(family)
		if section.Empty() {
			continue
		}

		suite := JUnitTestSuite{
			Name:      familyTitle(family),
			Timestamp: result.CreatedAt.UTC().Format(time.RFC3339),
			Properties: []JUnitProperty{
				{Name: "dataset_version", Value: result.DatasetVersion},
				{Name: "dataset_size", Value: fmt.Sprintf("%d", result.DatasetSize)},
				{Name: "model", Value: result.Model},
				{Name: "mode", Value: string(result.Mode)},
				{Name: "threshold", Value: fmt.Sprintf("%.4f", threshold)},
			},
		}

		for _, v := range section.Versions() {
			tc := JUnitTestCase{Name: v, Classname: string(family)}
			if avg := section.Averages[v]; avg < threshold {
				tc.Failure = buildFailure(v, avg, threshold, section.Samples[v])
				suite.Failures++
			}
			suite.TestCases = append(suite.TestCases, tc)
		}
		suite.Tests = len(suite.TestCases)

		out.Tests += suite.Tests
		out.Failures += suite.Failures
		out.TestSuites = append(out.TestSuites, suite)
	}

	return out
}

func buildFailure(version string, avg, threshold float64, samples []models.SampleScore) *JUnitFailure {
	var body strings.Builder
	for _, s := range samples {
		if s.Score < threshold {
			fmt.Fprintf(&body, "[LOW] %s: score=%.2f\n", s.SampleID, s.Score)
		}
	}
	return &JUnitFailure{
		Message: fmt.Sprintf("%s: avg=%.2f below %.2f", version, avg, threshold),
		Type:    "ScoreBelowThreshold",
		Body:    body.String(),
	}
}

// MarshalJUnit renders the JUnit report as an XML document.
func MarshalJUnit(result *models.ExperimentResult, threshold float64) ([]byte, error) {
	data, err := xml.MarshalIndent(ConvertToJUnit(result, threshold), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JUnit XML: %w", err)
	}
	return append([]byte(xml.Header), data...), nil
}
