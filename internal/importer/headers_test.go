package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"logical name passes through", "ID_Rosliny", ColPlantID},
		{"lowercase", "id_rosliny", ColPlantID},
		{"diacritics", "Piętro", ColFloor},
		{"diacritics with space", "Strefa główna", ColMainZone},
		{"stroked l", "Lokalizacja szczegółowa", ColSubZone},
		{"ascii with space", "Rodzaj donicy", ColPotType},
		{"surrounding whitespace", "  Roslina ", ColSpecies},
		{"precise spot", "Lokalizacja_precyzyjna", ColSpot},
		{"unknown passes through", "Uwagi", "Uwagi"},
		{"unknown trims whitespace", " Uwagi ", "Uwagi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalHeader(tt.header))
		})
	}
}

func TestFoldDiacritics(t *testing.T) {
	assert.Equal(t, "Strefa glowna", foldDiacritics("Strefa główna"))
	assert.Equal(t, "Lokalizacja szczegolowa", foldDiacritics("Lokalizacja szczegółowa"))
	assert.Equal(t, "plain", foldDiacritics("plain"))
}
