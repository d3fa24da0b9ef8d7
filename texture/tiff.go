package texture

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/exp/mmap"
)

// Tag numbers per the TIFF 6.0 spec.
// https://www.loc.gov/preservation/digital/formats/content/tiff_tags.shtml
const (
	tagImageWidth                = 256
	tagImageLength               = 257
	tagBitsPerSample             = 258
	tagCompression               = 259
	tagPhotometricInterpretation = 262
	tagSamplesPerPixel           = 277
	tagTileWidth                 = 322
	tagTileLength                = 323
	tagTileOffsets               = 324
	tagTileByteCounts            = 325
)

const (
	compressionNone    = 1
	compressionDeflate = 8

	photometricBlackIsZero = 1
	photometricRGB         = 2
)

type tiffHeader struct {
	ByteOrder       binary.ByteOrder
	Width, Height   int
	TileWidth       int
	TileHeight      int
	TileOffsets     []int
	TileByteCounts  []int
	BitsPerSample   []int
	SamplesPerPixel int
	Photometric     int
	Compression     int
}

// tiledTiff is an image.Image over a memory-mapped tiled TIFF. Tiles
// are decompressed on demand and kept in a small LRU, so sampling a
// handful of bodies never pulls a whole planetary map into memory.
type tiledTiff struct {
	header tiffHeader
	reader *mmap.ReaderAt
	cache  *lru.Cache // tileIndex -> []byte
}

func loadTiled(path string) (image.Image, error) {
	reader, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}

	header, err := parseTiffHeader(reader)
	if err != nil {
		reader.Close()
		return nil, err
	}

	if header.Compression != compressionNone && header.Compression != compressionDeflate {
		reader.Close()
		return nil, fmt.Errorf("unsupported compression: %d", header.Compression)
	}
	switch header.Photometric {
	case photometricBlackIsZero:
		if header.SamplesPerPixel != 1 || len(header.BitsPerSample) == 0 || header.BitsPerSample[0] != 8 {
			reader.Close()
			return nil, fmt.Errorf("unsupported grayscale format")
		}
	case photometricRGB:
		if header.SamplesPerPixel != 3 || len(header.BitsPerSample) == 0 || header.BitsPerSample[0] != 8 {
			reader.Close()
			return nil, fmt.Errorf("unsupported RGB format")
		}
	default:
		reader.Close()
		return nil, fmt.Errorf("unsupported photometric interpretation: %d", header.Photometric)
	}

	if len(header.TileOffsets) == 0 || len(header.TileOffsets) != len(header.TileByteCounts) {
		reader.Close()
		return nil, fmt.Errorf("invalid tile offset/length")
	}
	if header.TileWidth <= 0 || header.TileHeight <= 0 {
		reader.Close()
		return nil, fmt.Errorf("invalid tile dimensions")
	}

	cache, _ := lru.New(200)

	return &tiledTiff{
		header: header,
		reader: reader,
		cache:  cache,
	}, nil
}

func (t *tiledTiff) ColorModel() color.Model {
	return color.RGBAModel
}

func (t *tiledTiff) Bounds() image.Rectangle {
	return image.Rect(0, 0, t.header.Width, t.header.Height)
}

func (t *tiledTiff) At(x, y int) color.Color {
	h := t.header

	tileX := x / h.TileWidth
	tileY := y / h.TileHeight
	tilesAcross := int(math.Ceil(float64(h.Width) / float64(h.TileWidth)))
	tileIndex := tileY*tilesAcross + tileX

	var tile []byte
	if val, ok := t.cache.Get(tileIndex); ok {
		tile = val.([]byte)
	} else {
		tile = t.loadTile(tileIndex)
		t.cache.Add(tileIndex, tile)
	}

	localX := x % h.TileWidth
	localY := y % h.TileHeight
	rowStride := h.TileWidth * h.SamplesPerPixel
	pixOffset := localY*rowStride + localX*h.SamplesPerPixel

	switch h.Photometric {
	case photometricRGB:
		return color.RGBA{
			R: tile[pixOffset],
			G: tile[pixOffset+1],
			B: tile[pixOffset+2],
			A: 255,
		}
	default: // BlackIsZero grayscale
		v := tile[pixOffset]
		return color.RGBA{R: v, G: v, B: v, A: 255}
	}
}

func (t *tiledTiff) loadTile(index int) []byte {
	h := t.header
	offset := h.TileOffsets[index]
	byteCount := h.TileByteCounts[index]

	buf := make([]byte, byteCount)
	_, err := t.reader.ReadAt(buf, int64(offset))
	if err != nil {
		panic(fmt.Sprintf("failed to read tile %d: %v", index, err))
	}

	if h.Compression == compressionDeflate {
		r, err := zlib.NewReader(bytes.NewReader(buf))
		if err != nil {
			panic(fmt.Sprintf("zlib decompression error: %v", err))
		}
		defer r.Close()
		tile, err := io.ReadAll(r)
		if err != nil {
			panic(fmt.Sprintf("zlib read error: %v", err))
		}
		return tile
	}
	return buf
}

func parseTiffHeader(reader io.ReaderAt) (tiffHeader, error) {
	read := func(offset int64, size int) ([]byte, error) {
		buf := make([]byte, size)
		_, err := reader.ReadAt(buf, offset)
		return buf, err
	}

	// Read 8-byte header
	header, err := read(0, 8)
	if err != nil {
		return tiffHeader{}, err
	}

	var bo binary.ByteOrder
	switch string(header[0:2]) {
	case "II":
		bo = binary.LittleEndian
	case "MM":
		bo = binary.BigEndian
	default:
		return tiffHeader{}, fmt.Errorf("invalid byte order")
	}
	if bo.Uint16(header[2:4]) != 42 {
		return tiffHeader{}, fmt.Errorf("invalid TIFF magic number")
	}
	ifdOffset := int64(bo.Uint32(header[4:8]))

	// Read number of entries
	entryCountRaw, err := read(ifdOffset, 2)
	if err != nil {
		return tiffHeader{}, err
	}
	numEntries := int(bo.Uint16(entryCountRaw))
	entriesRaw, err := read(ifdOffset+2, numEntries*12)
	if err != nil {
		return tiffHeader{}, err
	}

	hdr := tiffHeader{
		ByteOrder:       bo,
		SamplesPerPixel: -1,
		Photometric:     -1,
		Compression:     -1,
	}

	for i := 0; i < numEntries; i++ {
		entry := entriesRaw[i*12 : (i+1)*12]
		tag := bo.Uint16(entry[0:2])
		count := bo.Uint32(entry[4:8])
		valOffset := int64(bo.Uint32(entry[8:12]))

		readShortArray := func() ([]int, error) {
			if count == 1 {
				return []int{int(bo.Uint16(entry[8:10]))}, nil
			}
			buf, err := read(valOffset, int(count*2))
			if err != nil {
				return nil, err
			}
			out := make([]int, count)
			for i := uint32(0); i < count; i++ {
				out[i] = int(bo.Uint16(buf[i*2:]))
			}
			return out, nil
		}
		readLongArray := func() ([]int, error) {
			if count == 1 {
				return []int{int(valOffset)}, nil
			}
			buf, err := read(valOffset, int(count*4))
			if err != nil {
				return nil, err
			}
			out := make([]int, count)
			for i := uint32(0); i < count; i++ {
				out[i] = int(bo.Uint32(buf[i*4:]))
			}
			return out, nil
		}

		switch tag {
		case tagImageWidth:
			hdr.Width = int(valOffset)
		case tagImageLength:
			hdr.Height = int(valOffset)
		case tagBitsPerSample:
			hdr.BitsPerSample, err = readShortArray()
			if err != nil {
				return tiffHeader{}, err
			}
		case tagCompression:
			hdr.Compression = int(bo.Uint16(entry[8:10]))
		case tagPhotometricInterpretation:
			hdr.Photometric = int(bo.Uint16(entry[8:10]))
		case tagSamplesPerPixel:
			hdr.SamplesPerPixel = int(bo.Uint16(entry[8:10]))
		case tagTileWidth:
			hdr.TileWidth = int(valOffset)
		case tagTileLength:
			hdr.TileHeight = int(valOffset)
		case tagTileOffsets:
			hdr.TileOffsets, err = readLongArray()
			if err != nil {
				return tiffHeader{}, err
			}
		case tagTileByteCounts:
			hdr.TileByteCounts, err = readLongArray()
			if err != nil {
				return tiffHeader{}, err
			}
		}
	}

	return hdr, nil
}
