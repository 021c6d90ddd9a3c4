package skin

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const pixelSize = 4

const (
	SingleSkinSize  = 64 * 32 * pixelSize
	DoubleSkinSize  = 64 * 64 * pixelSize
	Skin128x64Size  = 128 * 64 * pixelSize
	Skin128x128Size = 128 * 128 * pixelSize
)

const (
	GeometryCustom     = "geometry.humanoid.custom"
	GeometryCustomSlim = "geometry.humanoid.customSlim"
)

const DefaultSkinId = "Steve"

var (
	ErrInvalidSkinSize   = errors.New("invalid skin size")
	ErrNilCapeData       = errors.New("cape data must not be nil")
	ErrMalformedEncoding = errors.New("value is not a valid standard base64 string")
)

var encoding = base64.StdEncoding

// Skin describes the visual appearance of a player: skin and cape textures
// and the geometry the client should apply them to.
//
// Every payload is kept in two views: raw (decoded) and encoded (standard base64).
// The most recently set view is authoritative, the other one is nil until
// an accessor derives and caches it. A nil slice always means "absent",
// while an empty non-nil slice is a present empty value.
//
// Skin is not safe for concurrent use: read accessors fill the caches.
type Skin struct {
	skinId string

	skinData        []byte
	encodedSkinData []byte

	capeData        []byte
	encodedCapeData []byte

	geometryName        string
	geometryData        *string
	encodedGeometryData []byte
}

func New() *Skin {
	geometryData := ""

	return &Skin{
		skinId:       DefaultSkinId,
		skinData:     make([]byte, SingleSkinSize),
		capeData:     []byte{},
		geometryName: GeometryCustom,
		geometryData: &geometryData,
	}
}

// IsValid reports whether the stored raw skin has one of the allowed sizes.
// It doesn't decode the encoded view: when only the encoded skin is known,
// call SkinData first.
func (s *Skin) IsValid() bool {
	return IsValidSkinSize(len(s.skinData))
}

func IsValidSkinSize(length int) bool {
	return length == SingleSkinSize ||
		length == DoubleSkinSize ||
		length == Skin128x64Size ||
		length == Skin128x128Size
}

func (s *Skin) SkinId() string {
	return s.skinId
}

// SetSkinId ignores blank values and keeps the current id.
func (s *Skin) SetSkinId(skinId string) {
	if strings.TrimSpace(skinId) == "" {
		return
	}

	s.skinId = skinId
}

func (s *Skin) GeometryName() string {
	return s.geometryName
}

// SetGeometryName falls back to GeometryCustom for blank values.
func (s *Skin) SetGeometryName(model string) {
	if strings.TrimSpace(model) == "" {
		model = GeometryCustom
	}

	s.geometryName = model
}

func (s *Skin) SkinData() []byte {
	if s.skinData == nil {
		if s.encodedSkinData == nil {
			return []byte{}
		}

		s.skinData = decode(s.encodedSkinData)
	}

	return s.skinData
}

func (s *Skin) EncodedSkinData() []byte {
	if s.encodedSkinData == nil {
		if s.skinData == nil {
			return []byte{}
		}

		s.encodedSkinData = encode(s.skinData)
	}

	return s.encodedSkinData
}

// SetSkinData stores a copy of data, so later changes to the slice don't affect the skin.
func (s *Skin) SetSkinData(data []byte) error {
	if data == nil || !IsValidSkinSize(len(data)) {
		return fmt.Errorf("%w: %d bytes", ErrInvalidSkinSize, len(data))
	}

	if s.skinData == nil || !bytes.Equal(data, s.skinData) {
		s.skinData = bytes.Clone(data)
		s.encodedSkinData = nil
	}

	return nil
}

// SetEncodedSkinData replaces the skin with a standard padded base64 value.
// A nil value is ignored. Anything else that isn't valid base64 is rejected
// with ErrMalformedEncoding and leaves the skin untouched. The size of the
// decoded payload isn't checked here, see IsValid.
func (s *Skin) SetEncodedSkinData(data []byte) error {
	if data == nil || (s.encodedSkinData != nil && bytes.Equal(data, s.encodedSkinData)) {
		return nil
	}

	if !IsStdBase64(data) {
		return fmt.Errorf("skin: %w", ErrMalformedEncoding)
	}

	s.skinData = nil
	s.encodedSkinData = bytes.Clone(data)

	return nil
}

func (s *Skin) CapeData() []byte {
	if s.capeData == nil {
		if s.encodedCapeData == nil {
			return []byte{}
		}

		s.capeData = decode(s.encodedCapeData)
	}

	return s.capeData
}

func (s *Skin) EncodedCapeData() []byte {
	if s.encodedCapeData == nil {
		if s.capeData == nil {
			return []byte{}
		}

		s.encodedCapeData = encode(s.capeData)
	}

	return s.encodedCapeData
}

// SetCapeData accepts any length, an empty slice removes the cape.
// Like SetSkinData it stores a copy of data.
func (s *Skin) SetCapeData(data []byte) error {
	if data == nil {
		return ErrNilCapeData
	}

	if s.capeData == nil || !bytes.Equal(data, s.capeData) {
		s.capeData = bytes.Clone(data)
		s.encodedCapeData = nil
	}

	return nil
}

// SetEncodedCapeData replaces the cape with a standard padded base64 value.
// A nil value is ignored, a malformed one is rejected with ErrMalformedEncoding.
func (s *Skin) SetEncodedCapeData(data []byte) error {
	if data == nil || (s.encodedCapeData != nil && bytes.Equal(data, s.encodedCapeData)) {
		return nil
	}

	if !IsStdBase64(data) {
		return fmt.Errorf("cape: %w", ErrMalformedEncoding)
	}

	s.capeData = nil
	s.encodedCapeData = bytes.Clone(data)

	return nil
}

// GeometryData decodes the geometry as UTF-8 text. Invalid byte sequences
// are replaced with U+FFFD.
func (s *Skin) GeometryData() string {
	if s.geometryData == nil {
		if s.encodedGeometryData == nil {
			return ""
		}

		geometryData := strings.ToValidUTF8(string(decode(s.encodedGeometryData)), "\uFFFD")
		s.geometryData = &geometryData
	}

	return *s.geometryData
}

func (s *Skin) EncodedGeometryData() []byte {
	if s.encodedGeometryData == nil {
		if s.geometryData == nil {
			return []byte{}
		}

		s.encodedGeometryData = encode([]byte(*s.geometryData))
	}

	return s.encodedGeometryData
}

// SetGeometryData stores the geometry JSON as is, its content isn't validated.
func (s *Skin) SetGeometryData(data string) {
	if s.geometryData == nil || data != *s.geometryData {
		s.geometryData = &data
		s.encodedGeometryData = nil
	}
}

// SetEncodedGeometryData replaces the geometry with a standard padded base64 value.
// A nil value is ignored, a malformed one is rejected with ErrMalformedEncoding.
func (s *Skin) SetEncodedGeometryData(data []byte) error {
	if data == nil || (s.encodedGeometryData != nil && bytes.Equal(data, s.encodedGeometryData)) {
		return nil
	}

	if !IsStdBase64(data) {
		return fmt.Errorf("geometry: %w", ErrMalformedEncoding)
	}

	s.geometryData = nil
	s.encodedGeometryData = bytes.Clone(data)

	return nil
}

// Copy returns an independent instance holding the raw views of s.
// Payloads known only in the encoded form are decoded first so they aren't lost.
// Encoded caches aren't transferred and will be rebuilt by the copy on demand.
func (s *Skin) Copy() *Skin {
	geometryData := s.GeometryData()

	return &Skin{
		skinId:       s.skinId,
		skinData:     bytes.Clone(s.SkinData()),
		capeData:     bytes.Clone(s.CapeData()),
		geometryName: s.geometryName,
		geometryData: &geometryData,
	}
}

func encode(data []byte) []byte {
	result := make([]byte, encoding.EncodedLen(len(data)))
	encoding.Encode(result, data)

	return result
}

// decode expects the value to be checked with IsStdBase64 beforehand
func decode(data []byte) []byte {
	result := make([]byte, encoding.DecodedLen(len(data)))
	n, err := encoding.Decode(result, data)
	if err != nil {
		return []byte{}
	}

	return result[:n]
}

// IsStdBase64 reports whether data is a padded standard base64 string
// without line breaks or other characters outside of the alphabet.
func IsStdBase64(data []byte) bool {
	if len(data)%4 != 0 {
		return false
	}

	padding := 0
	for i, c := range data {
		switch {
		case c == '=':
			if i < len(data)-2 {
				return false
			}

			padding++
		case padding > 0:
			return false
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '+', c == '/':
		default:
			return false
		}
	}

	return true
}
