package render

import (
	"errors"
	"image"

	"github.com/skip2/go-qrcode"
)

const defaultQRCodeSizePx = 256

var ErrEmptyPayload = errors.New("qr payload is empty")

// ShareQRCode returns a QR code image carrying a share code.
func ShareQRCode(code string, sizePx int) (image.Image, error) {
	if code == "" {
		return nil, ErrEmptyPayload
	}
	if sizePx <= 0 {
		sizePx = defaultQRCodeSizePx
	}

	qrCode, err := qrcode.New(code, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	return qrCode.Image(sizePx), nil
}

// ShareQRCodePNG is ShareQRCode encoded as PNG.
func ShareQRCodePNG(code string, sizePx int) ([]byte, error) {
	if code == "" {
		return nil, ErrEmptyPayload
	}
	if sizePx <= 0 {
		sizePx = defaultQRCodeSizePx
	}
	return qrcode.Encode(code, qrcode.Medium, sizePx)
}
