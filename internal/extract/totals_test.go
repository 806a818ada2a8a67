package extract_test

import (
	"testing"

	"github.com/maikimilk/KyuyoBiyori/internal/extract"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestParseTotalsFindsAllThreeFigures(t *testing.T) {
	text := "支給合計 356,300\n控除合計 83,400\n差引支給額 272,900"

	got := extract.ParseTotals(text)

	assert.Equal(t, intPtr(356300), got.Gross)
	assert.Equal(t, intPtr(83400), got.Deduction)
	assert.Equal(t, intPtr(272900), got.Net)
}

func TestParseTotalsInfersGross(t *testing.T) {
	// Some layouts only print deduction and net; gross is their sum
	text := "控除合計 83,400\n差引支給額 272,900"

	got := extract.ParseTotals(text)

	assert.Equal(t, intPtr(356300), got.Gross)
	assert.Equal(t, intPtr(83400), got.Deduction)
	assert.Equal(t, intPtr(272900), got.Net)
}

func TestParseTotalsAlternativeLabels(t *testing.T) {
	text := "総支給額: 400,000円  手取額: 310,000円"

	got := extract.ParseTotals(text)

	assert.Equal(t, intPtr(400000), got.Gross)
	assert.Nil(t, got.Deduction)
	assert.Equal(t, intPtr(310000), got.Net)
}

func TestParseTotalsFullWidthText(t *testing.T) {
	text := "支給合計　３５６，３００"

	got := extract.ParseTotals(text)

	assert.Equal(t, intPtr(356300), got.Gross)
}

func TestParseTotalsAbsent(t *testing.T) {
	got := extract.ParseTotals("基本給 269,000円")

	assert.Nil(t, got.Gross)
	assert.Nil(t, got.Deduction)
	assert.Nil(t, got.Net)
}
