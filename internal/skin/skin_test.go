package skin

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filledBuffer(size int, value byte) []byte {
	return bytes.Repeat([]byte{value}, size)
}

func TestNew(t *testing.T) {
	s := New()

	assert.True(t, s.IsValid())
	assert.Equal(t, DefaultSkinId, s.SkinId())
	assert.Equal(t, GeometryCustom, s.GeometryName())
	assert.Equal(t, make([]byte, SingleSkinSize), s.SkinData())
	assert.NotNil(t, s.CapeData())
	assert.Empty(t, s.CapeData())
	assert.Equal(t, "", s.GeometryData())
	assert.Empty(t, s.EncodedCapeData())
	assert.Empty(t, s.EncodedGeometryData())
}

func TestIsValidSkinSize(t *testing.T) {
	for _, length := range []int{SingleSkinSize, DoubleSkinSize, Skin128x64Size, Skin128x128Size} {
		assert.True(t, IsValidSkinSize(length), "length %d", length)
	}

	for _, length := range []int{0, 1, 100, SingleSkinSize - 1, SingleSkinSize + 4, 64 * 48 * 4, Skin128x128Size * 2} {
		assert.False(t, IsValidSkinSize(length), "length %d", length)
	}
}

func TestSkin_IsValid(t *testing.T) {
	t.Run("valid raw skin", func(t *testing.T) {
		s := New()
		require.NoError(t, s.SetSkinData(make([]byte, Skin128x128Size)))
		assert.True(t, s.IsValid())
	})

	t.Run("only encoded view is known", func(t *testing.T) {
		s := New()
		require.NoError(t, s.SetEncodedSkinData(encode(make([]byte, DoubleSkinSize))))
		assert.False(t, s.IsValid())

		s.SkinData()
		assert.True(t, s.IsValid())
	})

	t.Run("encoded view of invalid size", func(t *testing.T) {
		s := New()
		require.NoError(t, s.SetEncodedSkinData(encode(make([]byte, 100))))
		assert.Len(t, s.SkinData(), 100)
		assert.False(t, s.IsValid())
	})
}

func TestSkin_SkinData(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		raw := filledBuffer(DoubleSkinSize, 0x7f)
		s := New()
		require.NoError(t, s.SetSkinData(raw))
		encoded := s.EncodedSkinData()
		assert.Equal(t, []byte(base64.StdEncoding.EncodeToString(raw)), encoded)

		other := New()
		require.NoError(t, other.SetEncodedSkinData(encoded))
		assert.Equal(t, raw, other.SkinData())
	})

	t.Run("both views absent", func(t *testing.T) {
		s := New()
		s.skinData = nil
		assert.NotNil(t, s.SkinData())
		assert.Empty(t, s.SkinData())
		assert.NotNil(t, s.EncodedSkinData())
		assert.Empty(t, s.EncodedSkinData())
	})

	t.Run("encoded view is memoized", func(t *testing.T) {
		s := New()
		require.NoError(t, s.SetSkinData(filledBuffer(SingleSkinSize, 1)))
		first := s.EncodedSkinData()

		s.skinData = filledBuffer(SingleSkinSize, 2)
		second := s.EncodedSkinData()
		assert.Equal(t, first, second)
		assert.Same(t, &first[0], &second[0])
	})

	t.Run("raw view is memoized", func(t *testing.T) {
		s := New()
		require.NoError(t, s.SetEncodedSkinData(encode(filledBuffer(SingleSkinSize, 3))))
		first := s.SkinData()

		s.encodedSkinData = encode(filledBuffer(SingleSkinSize, 4))
		assert.Equal(t, first, s.SkinData())
	})
}

func TestSkin_SetSkinData(t *testing.T) {
	t.Run("reject invalid size", func(t *testing.T) {
		s := New()
		err := s.SetSkinData(make([]byte, 100))
		assert.ErrorIs(t, err, ErrInvalidSkinSize)
		assert.Equal(t, make([]byte, SingleSkinSize), s.SkinData())
	})

	t.Run("reject nil", func(t *testing.T) {
		s := New()
		assert.ErrorIs(t, s.SetSkinData(nil), ErrInvalidSkinSize)
	})

	t.Run("reject empty", func(t *testing.T) {
		s := New()
		assert.ErrorIs(t, s.SetSkinData([]byte{}), ErrInvalidSkinSize)
	})

	t.Run("update raw and invalidate encoded view", func(t *testing.T) {
		s := New()
		stale := s.EncodedSkinData()

		fresh := filledBuffer(DoubleSkinSize, 0xff)
		require.NoError(t, s.SetSkinData(fresh))
		assert.Equal(t, fresh, s.SkinData())
		assert.NotEqual(t, stale, s.EncodedSkinData())
		assert.Equal(t, encode(fresh), s.EncodedSkinData())
	})

	t.Run("replace encoded-only state", func(t *testing.T) {
		s := New()
		require.NoError(t, s.SetEncodedSkinData(encode(filledBuffer(SingleSkinSize, 9))))

		fresh := filledBuffer(SingleSkinSize, 10)
		require.NoError(t, s.SetSkinData(fresh))
		assert.Equal(t, encode(fresh), s.EncodedSkinData())
	})

	t.Run("later changes to the argument don't leak into the skin", func(t *testing.T) {
		s := New()
		raw := make([]byte, SingleSkinSize)
		require.NoError(t, s.SetSkinData(raw))
		encoded := s.EncodedSkinData()

		raw[0] = 1
		assert.Equal(t, byte(0), s.SkinData()[0])
		assert.Equal(t, encode(s.SkinData()), encoded)
	})

	t.Run("same value keeps the cache", func(t *testing.T) {
		s := New()
		encoded := s.EncodedSkinData()
		require.NoError(t, s.SetSkinData(make([]byte, SingleSkinSize)))
		assert.Same(t, &encoded[0], &s.EncodedSkinData()[0])
	})
}

func TestSkin_SetEncodedSkinData(t *testing.T) {
	t.Run("nil is ignored", func(t *testing.T) {
		s := New()
		require.NoError(t, s.SetEncodedSkinData(nil))
		assert.True(t, s.IsValid())
		assert.Equal(t, make([]byte, SingleSkinSize), s.SkinData())
	})

	t.Run("identical value is ignored", func(t *testing.T) {
		s := New()
		require.NoError(t, s.SetSkinData(filledBuffer(SingleSkinSize, 5)))
		encoded := s.EncodedSkinData()

		require.NoError(t, s.SetEncodedSkinData(bytes.Clone(encoded)))
		assert.True(t, s.IsValid(), "raw view must stay in place")
	})

	t.Run("clear raw view", func(t *testing.T) {
		s := New()
		require.NoError(t, s.SetEncodedSkinData(encode(filledBuffer(Skin128x64Size, 6))))
		assert.Nil(t, s.skinData)
		assert.Equal(t, filledBuffer(Skin128x64Size, 6), s.SkinData())
	})

	t.Run("no size validation", func(t *testing.T) {
		s := New()
		assert.NoError(t, s.SetEncodedSkinData(encode([]byte("short"))))
	})

	t.Run("reject malformed base64", func(t *testing.T) {
		s := New()
		err := s.SetEncodedSkinData([]byte("not base64!"))
		assert.ErrorIs(t, err, ErrMalformedEncoding)
		assert.True(t, s.IsValid())
	})
}

func TestSkin_Cape(t *testing.T) {
	t.Run("reject nil", func(t *testing.T) {
		s := New()
		assert.ErrorIs(t, s.SetCapeData(nil), ErrNilCapeData)
	})

	t.Run("any size is accepted", func(t *testing.T) {
		s := New()
		require.NoError(t, s.SetCapeData([]byte{1, 2, 3}))
		assert.Equal(t, []byte{1, 2, 3}, s.CapeData())
		assert.Equal(t, []byte("AQID"), s.EncodedCapeData())
	})

	t.Run("round trip", func(t *testing.T) {
		raw := filledBuffer(64*32*4, 0x10)
		s := New()
		require.NoError(t, s.SetCapeData(raw))

		other := New()
		require.NoError(t, other.SetEncodedCapeData(s.EncodedCapeData()))
		assert.Equal(t, raw, other.CapeData())
	})

	t.Run("invalidate encoded view", func(t *testing.T) {
		s := New()
		require.NoError(t, s.SetCapeData([]byte{1}))
		assert.Equal(t, []byte("AQ=="), s.EncodedCapeData())

		require.NoError(t, s.SetCapeData([]byte{2}))
		assert.Equal(t, []byte("Ag=="), s.EncodedCapeData())
	})

	t.Run("remove cape set in encoded form", func(t *testing.T) {
		s := New()
		require.NoError(t, s.SetEncodedCapeData([]byte("AQID")))
		require.NoError(t, s.SetCapeData([]byte{}))
		assert.Empty(t, s.CapeData())
		assert.Empty(t, s.EncodedCapeData())
	})

	t.Run("encoded setter ignores nil and identical values", func(t *testing.T) {
		s := New()
		require.NoError(t, s.SetCapeData([]byte{1, 2, 3}))
		encoded := s.EncodedCapeData()

		require.NoError(t, s.SetEncodedCapeData(nil))
		require.NoError(t, s.SetEncodedCapeData([]byte("AQID")))
		assert.Same(t, &encoded[0], &s.EncodedCapeData()[0])
		assert.NotNil(t, s.capeData)
	})

	t.Run("reject malformed base64", func(t *testing.T) {
		s := New()
		assert.ErrorIs(t, s.SetEncodedCapeData([]byte("AQI")), ErrMalformedEncoding)
	})

	t.Run("later changes to the argument don't leak into the cape", func(t *testing.T) {
		s := New()
		raw := []byte{1, 2, 3}
		require.NoError(t, s.SetCapeData(raw))

		raw[0] = 9
		assert.Equal(t, []byte{1, 2, 3}, s.CapeData())
		assert.Equal(t, []byte("AQID"), s.EncodedCapeData())

		encoded := []byte("AQID")
		require.NoError(t, s.SetEncodedCapeData([]byte("Ag==")))
		require.NoError(t, s.SetEncodedCapeData(encoded))
		encoded[0] = 'B'
		assert.Equal(t, []byte{1, 2, 3}, s.CapeData())
	})
}

func TestSkin_Geometry(t *testing.T) {
	geometry := `{"format_version":"1.12.0","minecraft:geometry":[]}`

	t.Run("round trip", func(t *testing.T) {
		s := New()
		s.SetGeometryData(geometry)

		other := New()
		require.NoError(t, other.SetEncodedGeometryData(s.EncodedGeometryData()))
		assert.Equal(t, geometry, other.GeometryData())
	})

	t.Run("utf-8 text", func(t *testing.T) {
		s := New()
		require.NoError(t, s.SetEncodedGeometryData([]byte(base64.StdEncoding.EncodeToString([]byte(`{"name":"Стив"}`)))))
		assert.Equal(t, `{"name":"Стив"}`, s.GeometryData())
	})

	t.Run("invalid utf-8 is replaced", func(t *testing.T) {
		s := New()
		require.NoError(t, s.SetEncodedGeometryData([]byte(base64.StdEncoding.EncodeToString([]byte("{\xff}")))))
		assert.Equal(t, "{\uFFFD}", s.GeometryData())
	})

	t.Run("invalidate encoded view", func(t *testing.T) {
		s := New()
		s.SetGeometryData("a")
		assert.Equal(t, []byte("YQ=="), s.EncodedGeometryData())

		s.SetGeometryData("b")
		assert.Equal(t, []byte("Yg=="), s.EncodedGeometryData())
	})

	t.Run("empty string replaces encoded-only state", func(t *testing.T) {
		s := New()
		require.NoError(t, s.SetEncodedGeometryData([]byte("YQ==")))
		s.SetGeometryData("")
		assert.Equal(t, "", s.GeometryData())
		assert.Empty(t, s.EncodedGeometryData())
	})

	t.Run("both views absent", func(t *testing.T) {
		s := New()
		s.geometryData = nil
		assert.Equal(t, "", s.GeometryData())
		assert.Empty(t, s.EncodedGeometryData())
	})

	t.Run("reject malformed base64", func(t *testing.T) {
		s := New()
		assert.ErrorIs(t, s.SetEncodedGeometryData([]byte("e30=\n")), ErrMalformedEncoding)
	})
}

func TestSkin_SetSkinId(t *testing.T) {
	s := New()
	s.SetSkinId("")
	assert.Equal(t, DefaultSkinId, s.SkinId())

	s.SetSkinId("   ")
	assert.Equal(t, DefaultSkinId, s.SkinId())

	s.SetSkinId("Alex")
	assert.Equal(t, "Alex", s.SkinId())

	s.SetSkinId("\t\n")
	assert.Equal(t, "Alex", s.SkinId())
}

func TestSkin_SetGeometryName(t *testing.T) {
	s := New()
	s.SetGeometryName(GeometryCustomSlim)
	assert.Equal(t, GeometryCustomSlim, s.GeometryName())

	s.SetGeometryName("")
	assert.Equal(t, GeometryCustom, s.GeometryName())

	s.SetGeometryName("geometry.custom.wings")
	s.SetGeometryName("   ")
	assert.Equal(t, GeometryCustom, s.GeometryName())
}

func TestSkin_Copy(t *testing.T) {
	t.Run("independent values", func(t *testing.T) {
		s := New()
		s.SetSkinId("Alex")
		s.SetGeometryName(GeometryCustomSlim)
		s.SetGeometryData("{}")
		require.NoError(t, s.SetSkinData(filledBuffer(DoubleSkinSize, 1)))
		require.NoError(t, s.SetCapeData([]byte{1, 2, 3, 4}))

		c := s.Copy()
		assert.Equal(t, "Alex", c.SkinId())
		assert.Equal(t, GeometryCustomSlim, c.GeometryName())
		assert.Equal(t, "{}", c.GeometryData())
		assert.Equal(t, s.SkinData(), c.SkinData())
		assert.Equal(t, s.CapeData(), c.CapeData())

		c.SkinData()[0] = 0xff
		c.CapeData()[0] = 0xff
		assert.Equal(t, byte(1), s.SkinData()[0])
		assert.Equal(t, byte(1), s.CapeData()[0])
	})

	t.Run("encoded caches are not transferred", func(t *testing.T) {
		s := New()
		s.EncodedSkinData()
		s.EncodedCapeData()
		s.EncodedGeometryData()

		c := s.Copy()
		assert.Nil(t, c.encodedSkinData)
		assert.Nil(t, c.encodedCapeData)
		assert.Nil(t, c.encodedGeometryData)
	})

	t.Run("payloads known only in encoded form survive", func(t *testing.T) {
		raw := filledBuffer(Skin128x64Size, 7)
		s := New()
		require.NoError(t, s.SetEncodedSkinData(encode(raw)))
		require.NoError(t, s.SetEncodedCapeData([]byte("AQID")))
		require.NoError(t, s.SetEncodedGeometryData([]byte("e30=")))

		c := s.Copy()
		assert.True(t, c.IsValid())
		assert.Equal(t, raw, c.SkinData())
		assert.Equal(t, []byte{1, 2, 3}, c.CapeData())
		assert.Equal(t, "{}", c.GeometryData())
	})
}

func TestIsStdBase64(t *testing.T) {
	for value, expected := range map[string]bool{
		"":         true,
		"AQID":     true,
		"AQ==":     true,
		"AQI=":     true,
		"e30=":     true,
		"AQI":      false,
		"A===":     false,
		"AQ=I":     false,
		"AQ-_":     false,
		"AQID\r\n": false,
		"AQ ID":    false,
	} {
		assert.Equal(t, expected, IsStdBase64([]byte(value)), "value %q", value)
	}
}
