package docx

import (
	"bytes"
	"fmt"
	"math"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	emuPerMM    = 36000
	emuPerPixel = 9525 // at 96 dpi

	imageRelType  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	relsNamespace = "http://schemas.openxmlformats.org/package/2006/relationships"
)

// Image replaces a placeholder with an inline picture. With WidthMM set the
// picture has that width and a proportional height; otherwise it is scaled
// to fit inside MaxWidthMM x MaxHeightMM keeping its aspect ratio. With
// neither, the picture keeps its natural size at 96 dpi.
type Image struct {
	Data        []byte
	WidthMM     float64
	MaxWidthMM  float64
	MaxHeightMM float64
}

// prepare decodes the picture, applies EXIF orientation and re-encodes it
// as PNG. It returns the drawing extent in EMU.
func (img Image) prepare() ([]byte, int64, int64, error) {
	src, err := imaging.Decode(bytes.NewReader(img.Data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%w: open image: %v", ErrTemplate, err)
	}
	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, 0, 0, fmt.Errorf("%w: image has no pixels", ErrTemplate)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, src, imaging.PNG); err != nil {
		return nil, 0, 0, fmt.Errorf("%w: encode image: %v", ErrTemplate, err)
	}
	cx, cy := img.extent(b.Dx(), b.Dy())
	return buf.Bytes(), cx, cy, nil
}

// extent sizes a w x h pixel picture in EMU.
func (img Image) extent(w, h int) (int64, int64) {
	pw, ph := float64(w)*emuPerPixel, float64(h)*emuPerPixel
	switch {
	case img.WidthMM > 0:
		cx := img.WidthMM * emuPerMM
		return int64(math.Round(cx)), int64(math.Round(cx * ph / pw))
	case img.MaxWidthMM > 0 && img.MaxHeightMM > 0:
		scale := math.Min(img.MaxWidthMM*emuPerMM/pw, img.MaxHeightMM*emuPerMM/ph)
		return int64(math.Round(pw * scale)), int64(math.Round(ph * scale))
	default:
		return int64(pw), int64(ph)
	}
}

var (
	relIDPattern  = regexp.MustCompile(`Id="rId(\d+)"`)
	pngDefaultPat = regexp.MustCompile(`(?i)<Default[^>]*Extension="png"`)
)

// relsPart returns the relationships part that belongs to partName.
func relsPart(partName string) string {
	dir, file := path.Split(partName)
	return dir + "_rels/" + file + ".rels"
}

// addImage stores a PNG as a media part, relates it to partName and
// returns the relationship id.
func (d *Document) addImage(partName string, data []byte) (string, error) {
	ct, ok := d.index[contentTypesPart]
	if !ok {
		return "", fmt.Errorf("%w: missing %s", ErrTemplate, contentTypesPart)
	}
	if !pngDefaultPat.Match(ct.data) {
		s := string(ct.data)
		i := strings.LastIndex(s, "</Types>")
		if i < 0 {
			return "", fmt.Errorf("%w: malformed %s", ErrTemplate, contentTypesPart)
		}
		ct.data = []byte(s[:i] + `<Default Extension="png" ContentType="image/png"/>` + s[i:])
	}

	var media string
	for {
		d.images++
		media = "word/media/docgen_image" + strconv.Itoa(d.images) + ".png"
		if _, taken := d.index[media]; !taken {
			break
		}
	}
	d.add(&part{name: media, data: data})

	relsName := relsPart(partName)
	rels, ok := d.index[relsName]
	if !ok {
		rels = &part{
			name: relsName,
			data: []byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" +
				`<Relationships xmlns="` + relsNamespace + `"></Relationships>`),
		}
		d.add(rels)
	}

	s := string(rels.data)
	next := 1
	for _, m := range relIDPattern.FindAllStringSubmatch(s, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= next {
			next = n + 1
		}
	}
	id := "rId" + strconv.Itoa(next)
	target := strings.TrimPrefix(media, path.Dir(partName)+"/")

	i := strings.LastIndex(s, "</Relationships>")
	if i < 0 {
		return "", fmt.Errorf("%w: malformed %s", ErrTemplate, relsName)
	}
	rels.data = []byte(s[:i] + `<Relationship Id="` + id + `" Type="` + imageRelType + `" Target="` + target + `"/>` + s[i:])
	return id, nil
}

// drawing returns a run holding an inline picture. Namespaces are declared
// locally so the run is valid whatever the host part declares.
func drawing(relID string, seq int, cx, cy int64) string {
	id := 10000 + seq
	return fmt.Sprintf(`<w:r><w:drawing>`+
		`<wp:inline xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing" distT="0" distB="0" distL="0" distR="0">`+
		`<wp:extent cx="%[3]d" cy="%[4]d"/>`+
		`<wp:docPr id="%[1]d" name="Picture %[1]d"/>`+
		`<a:graphic xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">`+
		`<a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:pic xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:nvPicPr><pic:cNvPr id="%[1]d" name="image%[1]d.png"/><pic:cNvPicPr/></pic:nvPicPr>`+
		`<pic:blipFill><a:blip xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" r:embed="%[2]s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`+
		`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%[3]d" cy="%[4]d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`+
		`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r>`,
		id, relID, cx, cy)
}
