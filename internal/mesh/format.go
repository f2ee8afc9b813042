package mesh

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Decode errors.
var (
	// ErrUnsupportedFormat is returned for asset suffixes outside the
	// supported set.
	ErrUnsupportedFormat = errors.New("unsupported model format")
	// ErrMalformedAsset is returned when structural parsing cannot produce
	// at least one triangle.
	ErrMalformedAsset = errors.New("malformed model asset")
)

// Format identifies a supported asset format.
type Format int

const (
	// FormatUnknown is an unrecognized asset suffix.
	FormatUnknown Format = iota
	// FormatSceneContainer is a binary glTF scene container (.glb/.gltf).
	FormatSceneContainer
	// FormatPlainText is the line-oriented vertex/face record format (.obj).
	FormatPlainText
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatSceneContainer:
		return "scene-container"
	case FormatPlainText:
		return "plain-text"
	default:
		return "unknown"
	}
}

// DetectFormat resolves the format from the asset URL's file extension,
// case-insensitively. Query strings and fragments are ignored.
func DetectFormat(assetURL string) Format {
	p := assetURL
	if u, err := url.Parse(assetURL); err == nil && u.Path != "" {
		p = u.Path
	}

	switch strings.ToLower(path.Ext(p)) {
	case ".glb", ".gltf":
		return FormatSceneContainer
	case ".obj":
		return FormatPlainText
	default:
		return FormatUnknown
	}
}

// Decode parses raw asset bytes of the given format into a Mesh. It fails
// with ErrUnsupportedFormat for an unrecognized format and ErrMalformedAsset
// when the data yields no triangles.
func Decode(data []byte, format Format) (*Mesh, error) {
	switch format {
	case FormatSceneContainer:
		return decodeSceneContainer(data)
	case FormatPlainText:
		return decodePlainText(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}
