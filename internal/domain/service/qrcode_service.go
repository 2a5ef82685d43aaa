package service

import "github.com/google/uuid"

// QRCodeService renders payment QR codes for unpaid orders.
type QRCodeService interface {
	// GeneratePaymentQR returns a PNG-encoded QR code carrying the payment
	// payload for the given order and amount in minor currency units.
	GeneratePaymentQR(orderID uuid.UUID, amount int64) ([]byte, error)

	// ParsePaymentQR decodes a payment payload and returns the order ID and amount.
	ParsePaymentQR(qrData string) (uuid.UUID, int64, error)
}
