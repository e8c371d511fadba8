package services

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/Riboost-Studio/order-print-hub/internal/render"
)

// ESC/POS Commands
const (
	ESC byte = 0x1B
	GS  byte = 0x1D
	LF  byte = 0x0A

	// codePagePC852 selects PC852 (Latin-2) with ESC t on Epson compatibles.
	codePagePC852 byte = 18
	lineCharacter      = "="
)

// escposJob buffers one receipt. It is never shared between print calls.
type escposJob struct {
	buf bytes.Buffer
	enc *encoding.Encoder
}

func newESCPOSJob() *escposJob {
	j := &escposJob{enc: charmap.CodePage852.NewEncoder()}
	j.buf.Write([]byte{ESC, '@'})                // Initialize printer
	j.buf.Write([]byte{ESC, 't', codePagePC852}) // Character table
	return j
}

func (j *escposJob) emit(d render.Directive) error {
	switch d.Op {
	case render.OpAlign:
		j.buf.Write([]byte{ESC, 'a', byte(d.Align)})
	case render.OpTextSize:
		j.buf.Write([]byte{GS, '!', byte(clampSize(d.Width)<<4 | clampSize(d.Height))})
	case render.OpTextNormal:
		j.buf.Write([]byte{GS, '!', 0})
	case render.OpBold:
		var on byte
		if d.On {
			on = 1
		}
		j.buf.Write([]byte{ESC, 'E', on})
	case render.OpPrintln:
		return j.println(d.Text)
	case render.OpDrawLine:
		return j.println(strings.Repeat(lineCharacter, d.Width))
	case render.OpCut:
		j.buf.Write([]byte{ESC, 'd', 3})        // ESC d 3 - feed 3 lines
		j.buf.Write([]byte{GS, 'V', 'A', 0x00}) // GS V A 0 - partial cut
	default:
		return fmt.Errorf("unsupported directive %s", d.Op)
	}
	return nil
}

func (j *escposJob) println(text string) error {
	encoded, err := j.enc.String(text)
	if err != nil {
		return fmt.Errorf("encode %q for PC852: %w", text, err)
	}
	j.buf.WriteString(encoded)
	j.buf.WriteByte(LF)
	return nil
}

func (j *escposJob) Bytes() []byte {
	return j.buf.Bytes()
}

func clampSize(n int) int {
	if n < 0 {
		return 0
	}
	if n > 7 {
		return 7
	}
	return n
}
