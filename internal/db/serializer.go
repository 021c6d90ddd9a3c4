package db

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/klauspost/compress/zlib"
	"github.com/valyala/fastjson"

	"ely.by/appearance/internal/skin"
)

type AppearanceSerializer interface {
	Serialize(appearance *Appearance) ([]byte, error)
	Deserialize(value []byte) (*Appearance, error)
}

func NewJsonSerializer() *JsonSerializer {
	return &JsonSerializer{
		parserPool: &fastjson.ParserPool{},
	}
}

type JsonSerializer struct {
	parserPool *fastjson.ParserPool
}

// The payloads are written in their encoded form, so the base64 strings go straight into the document
// without escaping. Skin id, geometry name and uuid are user-provided and must be quoted properly.
func (s *JsonSerializer) Serialize(appearance *Appearance) ([]byte, error) {
	sk := appearance.Skin
	skinData := sk.EncodedSkinData()
	capeData := sk.EncodedCapeData()
	geometryData := sk.EncodedGeometryData()

	var builder strings.Builder
	builder.Grow(len(skinData) + len(capeData) + len(geometryData) + 256)
	builder.WriteString(`{"uuid":`)
	builder.WriteString(quote(appearance.Uuid))
	builder.WriteString(`,"skinId":`)
	builder.WriteString(quote(sk.SkinId()))
	if len(skinData) != 0 {
		builder.WriteString(`,"skinData":"`)
		builder.Write(skinData)
		builder.WriteString(`"`)
	}

	if len(capeData) != 0 {
		builder.WriteString(`,"capeData":"`)
		builder.Write(capeData)
		builder.WriteString(`"`)
	}

	builder.WriteString(`,"geometryName":`)
	builder.WriteString(quote(sk.GeometryName()))
	if len(geometryData) != 0 {
		builder.WriteString(`,"geometryData":"`)
		builder.Write(geometryData)
		builder.WriteString(`"`)
	}

	builder.WriteString("}")

	return []byte(builder.String()), nil
}

func (s *JsonSerializer) Deserialize(value []byte) (*Appearance, error) {
	parser := s.parserPool.Get()
	defer s.parserPool.Put(parser)
	v, err := parser.ParseBytes(value)
	if err != nil {
		return nil, err
	}

	sk := skin.New()
	sk.SetSkinId(string(v.GetStringBytes("skinId")))
	sk.SetGeometryName(string(v.GetStringBytes("geometryName")))
	// Parsed byte slices point into the pooled parser buffer, so they must be copied
	if err := sk.SetEncodedSkinData(bytes.Clone(nonNil(v.GetStringBytes("skinData")))); err != nil {
		return nil, err
	}

	if err := sk.SetEncodedCapeData(bytes.Clone(nonNil(v.GetStringBytes("capeData")))); err != nil {
		return nil, err
	}

	if err := sk.SetEncodedGeometryData(bytes.Clone(nonNil(v.GetStringBytes("geometryData")))); err != nil {
		return nil, err
	}

	return &Appearance{
		Uuid: string(v.GetStringBytes("uuid")),
		Skin: sk,
	}, nil
}

func quote(value string) string {
	// Marshaling a string never fails
	result, _ := json.Marshal(value)

	return string(result)
}

func nonNil(value []byte) []byte {
	if value == nil {
		return []byte{}
	}

	return value
}

func NewZlibEncoder(serializer AppearanceSerializer) *ZlibEncoder {
	return &ZlibEncoder{serializer}
}

type ZlibEncoder struct {
	serializer AppearanceSerializer
}

func (s *ZlibEncoder) Serialize(appearance *Appearance) ([]byte, error) {
	serialized, err := s.serializer.Serialize(appearance)
	if err != nil {
		return nil, err
	}

	var buff bytes.Buffer
	writer := zlib.NewWriter(&buff)
	_, err = writer.Write(serialized)
	if err != nil {
		return nil, err
	}

	_ = writer.Close()

	return buff.Bytes(), nil
}

func (s *ZlibEncoder) Deserialize(value []byte) (*Appearance, error) {
	buff := bytes.NewReader(value)
	reader, err := zlib.NewReader(buff)
	if err != nil {
		return nil, err
	}

	resultBuffer := new(bytes.Buffer)
	_, err = io.Copy(resultBuffer, reader)
	if err != nil {
		return nil, err
	}

	_ = reader.Close()

	return s.serializer.Deserialize(resultBuffer.Bytes())
}
