package ingest

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/akolanti/ContentAPI/internal/config"
	"github.com/akolanti/ContentAPI/internal/domain/contentModel"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const defaultImageExt = ".png"

var rasterExts = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tiff"}

func init() {
	api.DisableConfigDir()
}

// rawImage is an embedded image as stored in the PDF.
type rawImage struct {
	Name     string
	FileType string
	Data     []byte
}

type imageSource interface {
	PageImages(pageNumber int) ([]rawImage, error)
}

// ImageResult is the outcome for one image on a page. Failed images are
// skipped by the extractor.
type ImageResult struct {
	Image contentModel.ImageRecord
	Err   error
}

// pdfImageSource indexes every image of the document on first use.
type pdfImageSource struct {
	raw []byte

	once  sync.Once
	index map[int][]rawImage
	err   error
}

func newPDFImageSource(raw []byte) *pdfImageSource {
	return &pdfImageSource{raw: raw}
}

func (s *pdfImageSource) PageImages(pageNumber int) ([]rawImage, error) {
	s.once.Do(func() {
		s.index, s.err = extractImages(s.raw, nil)
	})
	if s.err == nil {
		return s.index[pageNumber], nil
	}
	// one bad page spoils the whole-document pass; retry just this page
	index, err := extractImages(s.raw, []string{strconv.Itoa(pageNumber)})
	if err != nil {
		return nil, err
	}
	return index[pageNumber], nil
}

func extractImages(raw []byte, selectedPages []string) (index map[int][]rawImage, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("image extraction panicked: %v", r)
		}
	}()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pages, err := api.ExtractImagesRaw(bytes.NewReader(raw), selectedPages, conf)
	if err != nil {
		return nil, err
	}

	index = make(map[int][]rawImage)
	for _, byObject := range pages {
		images := make([]model.Image, 0, len(byObject))
		for _, img := range byObject {
			images = append(images, img)
		}
		sort.Slice(images, func(i, j int) bool {
			if images[i].Name != images[j].Name {
				return images[i].Name < images[j].Name
			}
			return images[i].ObjNr < images[j].ObjNr
		})
		for _, img := range images {
			if img.Reader == nil {
				continue
			}
			data, err := io.ReadAll(img)
			if err != nil {
				continue
			}
			index[img.PageNr] = append(index[img.PageNr], rawImage{
				Name:     img.Name,
				FileType: img.FileType,
				Data:     data,
			})
		}
	}
	return index, nil
}

// imageName picks the stored name for the image at 0-based position n.
func imageName(img rawImage, n int) string {
	name := filepath.Base(strings.TrimSpace(img.Name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = fmt.Sprintf("image_%d", n)
	}
	if !hasRasterExt(name) {
		if ext := extFromFileType(img.FileType); ext != "" {
			name += ext
		}
	}
	return normalizeImageName(name)
}

// normalizeImageName appends the default extension unless the name
// already carries a recognized raster one.
func normalizeImageName(name string) string {
	if hasRasterExt(name) {
		return name
	}
	return name + defaultImageExt
}

func hasRasterExt(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range rasterExts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func extFromFileType(fileType string) string {
	switch strings.ToLower(strings.TrimPrefix(fileType, ".")) {
	case "jpg", "jpeg":
		return ".jpg"
	case "png":
		return ".png"
	case "tif", "tiff":
		return ".tiff"
	case "gif":
		return ".gif"
	case "bmp":
		return ".bmp"
	}
	return ""
}

// decodeImageInfo returns the upper-cased format and size, or "unknown" and nil.
func decodeImageInfo(data []byte) (string, *contentModel.Dimensions) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "unknown", nil
	}
	return strings.ToUpper(format), &contentModel.Dimensions{cfg.Width, cfg.Height}
}

func base64Preview(data []byte) string {
	encoded := base64.StdEncoding.EncodeToString(data)
	if len(encoded) > config.Base64PreviewChars {
		return encoded[:config.Base64PreviewChars] + "..."
	}
	return encoded
}

// saveImages writes each image under dir as page_<pageIndex>_<name> and
// returns one result per image in page order.
func saveImages(images []rawImage, dir string, pageIndex int) []ImageResult {
	results := make([]ImageResult, 0, len(images))
	if len(images) == 0 {
		return results
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		for range images {
			results = append(results, ImageResult{Err: fmt.Errorf("create image dir: %w", err)})
		}
		return results
	}

	for n, img := range images {
		results = append(results, saveImage(img, n, dir, pageIndex))
	}
	return results
}

func saveImage(img rawImage, n int, dir string, pageIndex int) (result ImageResult) {
	defer func() {
		if r := recover(); r != nil {
			result = ImageResult{Err: fmt.Errorf("image %d: %v", n, r)}
		}
	}()
	if len(img.Data) == 0 {
		return ImageResult{Err: fmt.Errorf("image %d: no data", n)}
	}

	name := imageName(img, n)
	path := filepath.Join(dir, fmt.Sprintf("page_%d_%s", pageIndex, name))
	if err := os.WriteFile(path, img.Data, 0o640); err != nil {
		return ImageResult{Err: fmt.Errorf("image %d: %w", n, err)}
	}

	format, size := decodeImageInfo(img.Data)
	return ImageResult{Image: contentModel.ImageRecord{
		ImageName:     name,
		ImageFormat:   format,
		ImageSize:     size,
		ImagePath:     path,
		Base64Preview: base64Preview(img.Data),
	}}
}

// collectImages keeps the successful results, numbering them from 1.
func collectImages(results []ImageResult) ([]contentModel.ImageRecord, []error) {
	images := make([]contentModel.ImageRecord, 0, len(results))
	var failures []error
	for _, r := range results {
		if r.Err != nil {
			failures = append(failures, r.Err)
			continue
		}
		img := r.Image
		img.ImageIndex = len(images) + 1
		images = append(images, img)
	}
	return images, failures
}
