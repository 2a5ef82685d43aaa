// Package qrcode renders payment QR codes.
package qrcode

import (
	"encoding/json"
	"fmt"

	"storefront/config"
	"storefront/internal/domain/service"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

const (
	paymentQRType = "payment"

	defaultQRSize = 256
)

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// PaymentQRData represents the payment QR code payload.
type PaymentQRData struct {
	OrderID string `json:"order_id"`
	Amount  int64  `json:"amount"`
	Type    string `json:"type"`
}

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(cfg *config.Config) service.QRCodeService {
	size := defaultQRSize
	errorCorrectionLevel := ""
	if cfg != nil && cfg.QRCode != nil {
		if cfg.QRCode.Size > 0 {
			size = cfg.QRCode.Size
		}
		errorCorrectionLevel = cfg.QRCode.ErrorCorrectionLevel
	}

	// Set error correction level
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
	}
}

// GeneratePaymentQR generates a PNG QR code carrying the order's payment payload.
func (s *qrcodeService) GeneratePaymentQR(orderID uuid.UUID, amount int64) ([]byte, error) {
	data := PaymentQRData{
		OrderID: orderID.String(),
		Amount:  amount,
		Type:    paymentQRType,
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal QR code data: %w", err)
	}

	qrCode, err := qrcode.New(string(jsonData), s.errorCorrectionLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}

	return pngBytes, nil
}

// ParsePaymentQR parses a payment payload and returns the order ID and amount.
func (s *qrcodeService) ParsePaymentQR(qrData string) (uuid.UUID, int64, error) {
	var data PaymentQRData
	if err := json.Unmarshal([]byte(qrData), &data); err != nil {
		return uuid.Nil, 0, fmt.Errorf("failed to unmarshal QR code data: %w", err)
	}

	if data.Type != paymentQRType {
		return uuid.Nil, 0, fmt.Errorf("invalid QR code type: %s", data.Type)
	}
	if data.Amount <= 0 {
		return uuid.Nil, 0, fmt.Errorf("invalid QR code amount: %d", data.Amount)
	}

	orderID, err := uuid.Parse(data.OrderID)
	if err != nil {
		return uuid.Nil, 0, fmt.Errorf("failed to parse order ID: %w", err)
	}

	return orderID, data.Amount, nil
}
