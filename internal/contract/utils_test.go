package contract

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"winsfinder/schema"
)

func TestImpactLabels(t *testing.T) {
	assert.Equal(t, "High", GetPlainImpactLabel(schema.HighImpact))
	assert.Equal(t, "Medium", GetPlainImpactLabel(schema.MediumImpact))
	assert.Equal(t, "Low", GetPlainImpactLabel(schema.LowImpact))

	// Unknown impact values degrade to the lowest label
	assert.Equal(t, "Low", GetPlainImpactLabel(schema.Impact("bogus")))

	color.NoColor = true
	assert.Equal(t, "High", GetColorImpactLabel(schema.HighImpact))
	assert.Equal(t, "Medium", GetColorImpactLabel(schema.MediumImpact))
	assert.Equal(t, "Low", GetColorImpactLabel(schema.LowImpact))
}
