package lightning

import (
	"fmt"
	"image"
	"strings"

	"github.com/makiuchi-d/gozxing"
	zxingqr "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/nfnt/resize"
	"github.com/skip2/go-qrcode"
)

// maxScanSize bounds the longer edge of images handed to the qr reader.
const maxScanSize = 1024

// QRCode encodes content as a png qr code of size x size pixels.
func QRCode(content string, size int) ([]byte, error) {
	return qrcode.Encode(content, qrcode.Medium, size)
}

// ScanQRCode reads an invoice or lnurl from a qr code image.
func ScanQRCode(img image.Image) (string, error) {
	bounds := img.Bounds()
	if bounds.Dx() > maxScanSize || bounds.Dy() > maxScanSize {
		img = resize.Thumbnail(maxScanSize, maxScanSize, img, resize.Lanczos3)
	}
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", err
	}
	result, err := zxingqr.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		return "", err
	}
	payload := Normalize(result.GetText())
	if IsInvoice(payload) || IsLnurl(payload) {
		return strings.ToLower(payload), nil
	}
	return "", fmt.Errorf("no codes found")
}
