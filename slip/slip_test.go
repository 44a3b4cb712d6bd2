package slip

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want []byte
	}{
		{"empty", nil, []byte{End, End}},
		{"plain", []byte("abc"), []byte{End, 'a', 'b', 'c', End}},
		{"end", []byte{1, End, 2}, []byte{End, 1, Esc, EscEnd, 2, End}},
		{"esc", []byte{Esc}, []byte{End, Esc, EscEsc, End}},
		{"both", []byte{End, Esc}, []byte{End, Esc, EscEnd, Esc, EscEsc, End}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Encode(tt.data))
		})
	}
}

func TestEncode_NoRawSpecialBytes(t *testing.T) {
	payload := []byte{0x00, End, 0x41, Esc, End, Esc, 0xFF}
	frame := Encode(payload)

	inner := frame[1 : len(frame)-1]
	assert.Equal(t, End, int(frame[0]))
	assert.Equal(t, End, int(frame[len(frame)-1]))
	assert.NotContains(t, string(inner), string([]byte{End}))

	// every Esc in the body must start an escape pair
	for i := 0; i < len(inner); i++ {
		if inner[i] == Esc {
			require.Less(t, i+1, len(inner))
			assert.Contains(t, []byte{EscEnd, EscEsc}, inner[i+1])
			i++
		}
	}

	var d Decoder
	assert.Equal(t, [][]byte{payload}, d.Feed(frame))
}

func TestDecoder_Feed(t *testing.T) {
	tests := []struct {
		name   string
		chunks [][]byte
		want   [][]byte
	}{
		{
			"single frame",
			[][]byte{{End, 1, 2, 3, End}},
			[][]byte{{1, 2, 3}},
		},
		{
			"duplicate ends",
			[][]byte{{End, End, End, 1, End, End}},
			[][]byte{{1}},
		},
		{
			"two frames one chunk",
			[][]byte{{End, 1, End, End, 2, End}},
			[][]byte{{1}, {2}},
		},
		{
			"escape split across chunks",
			[][]byte{{End, 1, Esc}, {EscEnd, 2, End}},
			[][]byte{{1, End, 2}},
		},
		{
			"terminator in next chunk",
			[][]byte{{End, 1, 2}, {End}},
			[][]byte{{1, 2}},
		},
		{
			"unmapped escape kept raw",
			[][]byte{{End, Esc, 0x41, End}},
			[][]byte{{0x41}},
		},
		{
			"garbage before leading end",
			[][]byte{{9, 9}, {End, 1, End}},
			[][]byte{{9, 9}, {1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Decoder
			var got [][]byte
			for _, c := range tt.chunks {
				got = append(got, d.Feed(c)...)
			}
			assert.Equal(t, tt.want, got)
			assert.Zero(t, d.Buffered())
		})
	}
}

func TestDecoder_PartialFrameIsKept(t *testing.T) {
	var d Decoder
	assert.Empty(t, d.Feed([]byte{End, 1, 2}))
	assert.Equal(t, 2, d.Buffered())

	d.Reset()
	assert.Zero(t, d.Buffered())
	assert.Equal(t, [][]byte{{3}}, d.Feed([]byte{3, End}))
}

func TestDecoder_FramesDoNotAlias(t *testing.T) {
	var d Decoder
	first := d.Feed([]byte{End, 1, 2, End})
	second := d.Feed([]byte{3, 4, End})
	assert.Equal(t, []byte{1, 2}, first[0])
	assert.Equal(t, []byte{3, 4}, second[0])
}

// Every split of an encoded frame must decode to exactly the payload.
func TestDecoder_AnyChunking(t *testing.T) {
	payload := []byte{'/', 'a', 0, 0, End, Esc, Esc, End, 0x7F, EscEnd, EscEsc}
	frame := Encode(payload)

	for size := 1; size <= len(frame); size++ {
		var d Decoder
		var got [][]byte
		for off := 0; off < len(frame); off += size {
			end := off + size
			if end > len(frame) {
				end = len(frame)
			}
			got = append(got, d.Feed(frame[off:end])...)
		}
		require.Equal(t, [][]byte{payload}, got, "chunk size %d", size)
	}

	// split at every single position into two chunks
	for cut := 0; cut <= len(frame); cut++ {
		var d Decoder
		got := append(d.Feed(frame[:cut]), d.Feed(frame[cut:])...)
		require.Equal(t, [][]byte{payload}, got, "cut at %d", cut)
	}
}

func FuzzDecoder(f *testing.F) {
	f.Add([]byte("/fader1"), 3)
	f.Add([]byte{End, Esc, EscEnd, EscEsc}, 1)
	f.Fuzz(func(t *testing.T, payload []byte, size int) {
		if len(payload) == 0 {
			return
		}
		if size < 1 {
			size = 1
		}
		frame := Encode(payload)

		var d Decoder
		var got [][]byte
		for off := 0; off < len(frame); off += size {
			end := off + size
			if end > len(frame) {
				end = len(frame)
			}
			got = append(got, d.Feed(frame[off:end])...)
		}
		if len(got) != 1 || !bytes.Equal(got[0], payload) {
			t.Fatalf("decode(encode(%v)) = %v", payload, got)
		}
	})
}

func BenchmarkDecoder_Feed(b *testing.B) {
	frame := Encode(bytes.Repeat([]byte{1, End, 2, Esc}, 64))
	var d Decoder
	b.ReportAllocs()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		d.Feed(frame)
	}
}
