package x11

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/BurntSushi/xgb/xproto"
)

// CaptureWindow grabs the window contents and returns them as base64-encoded
// PNG text. The window must be mapped.
func (c *Connection) CaptureWindow(windowID xproto.Window) ([]byte, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get geometry for window %d: %w", windowID, err)
	}
	if geom.Width == 0 || geom.Height == 0 {
		return nil, fmt.Errorf("window %d has empty geometry", windowID)
	}

	reply, err := xproto.GetImage(
		c.XUtil.Conn(),
		xproto.ImageFormatZPixmap,
		xproto.Drawable(windowID),
		0, 0,
		geom.Width, geom.Height,
		^uint32(0),
	).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to read image for window %d: %w", windowID, err)
	}

	img, err := imageFromBGRX(reply.Data, int(geom.Width), int(geom.Height))
	if err != nil {
		return nil, err
	}
	return encodePNGBase64(img)
}

// imageFromBGRX converts a 24/32-bit ZPixmap buffer (B, G, R, pad per pixel)
// into an opaque RGBA image.
func imageFromBGRX(data []byte, width, height int) (*image.RGBA, error) {
	if want := width * height * 4; len(data) < want {
		return nil, fmt.Errorf("image data is %d bytes, want %d for %dx%d at 32bpp", len(data), want, width, height)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < width*height; i++ {
		src := data[i*4 : i*4+4]
		dst := img.Pix[i*4 : i*4+4]
		dst[0] = src[2]
		dst[1] = src[1]
		dst[2] = src[0]
		dst[3] = 0xff
	}
	return img, nil
}

func encodePNGBase64(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	out := make([]byte, base64.StdEncoding.EncodedLen(buf.Len()))
	base64.StdEncoding.Encode(out, buf.Bytes())
	return out, nil
}
