package sim

import (
	"bytes"

	"github.com/apex/log"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

var labelFace *text.GoTextFace

const labelFontSize = 13.0

func init() {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		log.WithError(err).Error("load label font")
		return
	}
	labelFace = &text.GoTextFace{
		Source: source,
		Size:   labelFontSize,
	}
}
