package qrcode

import (
	"encoding/json"
	"testing"

	"storefront/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQRCodeService(t *testing.T) {
	tests := []struct {
		name                 string
		size                 int
		errorCorrectionLevel string
	}{
		{"Low error correction", 256, "L"},
		{"Medium error correction", 256, "M"},
		{"High error correction", 256, "Q"},
		{"Highest error correction", 256, "H"},
		{"Default error correction", 256, "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{
				QRCode: &config.QRCodeConfig{
					Size:                 tt.size,
					ErrorCorrectionLevel: tt.errorCorrectionLevel,
				},
			}
			service := NewQRCodeService(cfg)
			assert.NotNil(t, service)
		})
	}

	// Nil config falls back to defaults
	assert.NotNil(t, NewQRCodeService(nil))
}

func TestQRCodeService_GeneratePaymentQR(t *testing.T) {
	cfg := &config.Config{
		QRCode: &config.QRCodeConfig{Size: 256, ErrorCorrectionLevel: "M"},
	}
	service := NewQRCodeService(cfg)
	orderID := uuid.New()

	qrBytes, err := service.GeneratePaymentQR(orderID, 27000)
	require.NoError(t, err)
	assert.NotEmpty(t, qrBytes)

	// Verify it's a valid PNG (starts with PNG magic number)
	assert.Equal(t, byte(0x89), qrBytes[0])
	assert.Equal(t, byte(0x50), qrBytes[1])
	assert.Equal(t, byte(0x4E), qrBytes[2])
	assert.Equal(t, byte(0x47), qrBytes[3])
}

func TestQRCodeService_ParsePaymentQR(t *testing.T) {
	service := NewQRCodeService(nil)
	orderID := uuid.New()

	payload, err := json.Marshal(PaymentQRData{
		OrderID: orderID.String(),
		Amount:  15000,
		Type:    "payment",
	})
	require.NoError(t, err)

	parsedID, amount, err := service.ParsePaymentQR(string(payload))
	require.NoError(t, err)
	assert.Equal(t, orderID, parsedID)
	assert.Equal(t, int64(15000), amount)
}

func TestQRCodeService_ParsePaymentQR_InvalidPayloads(t *testing.T) {
	service := NewQRCodeService(nil)
	orderID := uuid.New()

	tests := []struct {
		name    string
		payload string
		errMsg  string
	}{
		{
			"Not JSON",
			"not-json-at-all",
			"failed to unmarshal QR code data",
		},
		{
			"Wrong type",
			`{"order_id":"` + orderID.String() + `","amount":15000,"type":"subscription"}`,
			"invalid QR code type",
		},
		{
			"Non-positive amount",
			`{"order_id":"` + orderID.String() + `","amount":0,"type":"payment"}`,
			"invalid QR code amount",
		},
		{
			"Malformed order ID",
			`{"order_id":"not-a-uuid","amount":15000,"type":"payment"}`,
			"failed to parse order ID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsedID, amount, err := service.ParsePaymentQR(tt.payload)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.Equal(t, uuid.Nil, parsedID)
			assert.Zero(t, amount)
		})
	}
}

func TestQRCodeService_GeneratePaymentQR_DifferentSizes(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{"Small QR", 128},
		{"Medium QR", 256},
		{"Large QR", 512},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{
				QRCode: &config.QRCodeConfig{Size: tt.size, ErrorCorrectionLevel: "M"},
			}
			service := NewQRCodeService(cfg)

			qrBytes, err := service.GeneratePaymentQR(uuid.New(), 9900)
			require.NoError(t, err)
			assert.NotEmpty(t, qrBytes)
		})
	}
}
