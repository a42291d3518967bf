package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/bib/services/credit-risk-service/internal/domain/model"
	"github.com/bibbank/bib/services/credit-risk-service/internal/domain/service"
)

func TestExtractTemporalFeatures(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected service.TemporalFeatures
	}{
		{
			name:     "RFC3339 timestamp",
			raw:      "2018-11-15T02:18:49Z",
			expected: service.TemporalFeatures{Hour: 2, Day: 15, Month: 11, Year: 2018},
		},
		{
			name:     "space-separated timestamp",
			raw:      "2019-02-01 23:05:00",
			expected: service.TemporalFeatures{Hour: 23, Day: 1, Month: 2, Year: 2019},
		},
		{
			name:     "date only",
			raw:      "2020-06-30",
			expected: service.TemporalFeatures{Hour: 0, Day: 30, Month: 6, Year: 2020},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := service.ExtractTemporalFeatures(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExtractTemporalFeatures_ParseError(t *testing.T) {
	_, err := service.ExtractTemporalFeatures("not-a-timestamp")
	require.Error(t, err)

	var parseErr *model.ParseError
	assert.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "TransactionStartTime", parseErr.Field)
}

func TestTemporalFeaturesFromTime(t *testing.T) {
	ts := time.Date(2018, time.November, 15, 2, 18, 49, 0, time.UTC)
	got := service.TemporalFeaturesFromTime(ts)
	assert.Equal(t, service.TemporalFeatures{Hour: 2, Day: 15, Month: 11, Year: 2018}, got)
}
