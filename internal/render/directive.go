// Package render turns orders into printer output: thermal draw directives
// and a self-contained HTML document for the PDF path.
package render

type Op int

const (
	OpAlign Op = iota
	OpTextSize
	OpTextNormal
	OpBold
	OpPrintln
	OpDrawLine
	OpCut
)

func (o Op) String() string {
	switch o {
	case OpAlign:
		return "align"
	case OpTextSize:
		return "text-size"
	case OpTextNormal:
		return "text-normal"
	case OpBold:
		return "bold"
	case OpPrintln:
		return "println"
	case OpDrawLine:
		return "draw-line"
	case OpCut:
		return "cut"
	}
	return "unknown"
}

type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// Directive is a single device-independent thermal printer command.
type Directive struct {
	Op     Op
	Text   string    // OpPrintln
	Align  Alignment // OpAlign
	On     bool      // OpBold
	Width  int       // OpTextSize, OpDrawLine (characters)
	Height int       // OpTextSize
}

func Align(a Alignment) Directive   { return Directive{Op: OpAlign, Align: a} }
func TextSize(w, h int) Directive   { return Directive{Op: OpTextSize, Width: w, Height: h} }
func TextNormal() Directive         { return Directive{Op: OpTextNormal} }
func Bold(on bool) Directive        { return Directive{Op: OpBold, On: on} }
func Println(text string) Directive { return Directive{Op: OpPrintln, Text: text} }
func DrawLine(width int) Directive  { return Directive{Op: OpDrawLine, Width: width} }
func Cut() Directive                { return Directive{Op: OpCut} }
