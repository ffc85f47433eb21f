package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"storeloft/internal/domains/payment/model"
)

func TestSplitAmount(t *testing.T) {
	tests := []struct {
		name            string
		total           int64
		feePercent      int64
		wantFee         int64
		wantTransferred int64
	}{
		{
			name:            "exact split",
			total:           10000,
			feePercent:      3,
			wantFee:         300,
			wantTransferred: 9700,
		},
		{
			name:            "rounds half up",
			total:           1050,
			feePercent:      5,
			wantFee:         53, // 52.5 rounds up
			wantTransferred: 997,
		},
		{
			name:            "rounds down below half",
			total:           1049,
			feePercent:      5,
			wantFee:         52, // 52.45 rounds down
			wantTransferred: 997,
		},
		{
			name:            "small amount",
			total:           1,
			feePercent:      3,
			wantFee:         0,
			wantTransferred: 1,
		},
		{
			name:            "zero fee percent",
			total:           9999,
			feePercent:      0,
			wantFee:         0,
			wantTransferred: 9999,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee, transferred := model.SplitAmount(tt.total, tt.feePercent)

			assert.Equal(t, tt.wantFee, fee)
			assert.Equal(t, tt.wantTransferred, transferred)
			assert.Equal(t, tt.total, fee+transferred, "split must preserve the total")
		})
	}
}
