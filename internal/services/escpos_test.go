package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Riboost-Studio/order-print-hub/internal/render"
)

func TestESCPOSJob_Header(t *testing.T) {
	job := newESCPOSJob()
	assert.Equal(t, []byte{ESC, '@', ESC, 't', codePagePC852}, job.Bytes())
}

func TestESCPOSJob_Emit(t *testing.T) {
	tests := []struct {
		name string
		d    render.Directive
		want []byte
	}{
		{"align center", render.Align(render.AlignCenter), []byte{ESC, 'a', 1}},
		{"bold on", render.Bold(true), []byte{ESC, 'E', 1}},
		{"bold off", render.Bold(false), []byte{ESC, 'E', 0}},
		{"text size", render.TextSize(1, 1), []byte{GS, '!', 0x11}},
		{"text size clamped", render.TextSize(9, -1), []byte{GS, '!', 0x70}},
		{"text normal", render.TextNormal(), []byte{GS, '!', 0}},
		{"println", render.Println("Hi"), []byte{'H', 'i', LF}},
		{"draw line", render.DrawLine(3), []byte{'=', '=', '=', LF}},
		{"cut", render.Cut(), []byte{ESC, 'd', 3, GS, 'V', 'A', 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := newESCPOSJob()
			header := len(job.Bytes())
			require.NoError(t, job.emit(tt.d))
			assert.Equal(t, tt.want, job.Bytes()[header:])
		})
	}
}

func TestESCPOSJob_EncodesLatin2(t *testing.T) {
	job := newESCPOSJob()
	header := len(job.Bytes())
	require.NoError(t, job.emit(render.Println("Łódź")))

	// PC852: Ł=0x9D ó=0xA2 d=0x64 ź=0xAB
	assert.Equal(t, []byte{0x9D, 0xA2, 0x64, 0xAB, LF}, job.Bytes()[header:])
}

func TestESCPOSJob_RejectsUnencodableText(t *testing.T) {
	job := newESCPOSJob()
	err := job.emit(render.Println("Pizza 🍕"))
	assert.Error(t, err)
}

func TestESCPOSJob_UnknownOp(t *testing.T) {
	job := newESCPOSJob()
	assert.Error(t, job.emit(render.Directive{Op: render.Op(99)}))
}

func TestESCPOSJob_FullReceipt(t *testing.T) {
	job := newESCPOSJob()
	for _, d := range render.DefaultLayout().Thermal(burgerOrder(), fixedNow) {
		require.NoError(t, job.emit(d))
	}
	out := job.Bytes()
	assert.True(t, bytes.Contains(out, []byte("NEW ORDER")))
	assert.True(t, bytes.Contains(out, []byte("TOTAL: $25.98")))
	assert.True(t, bytes.HasSuffix(out, []byte{GS, 'V', 'A', 0}))
}
