package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewChromeRenderer_Defaults(t *testing.T) {
	r := NewChromeRenderer(ChromeConfig{})
	assert.Equal(t, defaultRenderTimeout, r.config.Timeout)
	assert.NotNil(t, r.logger)

	r = NewChromeRenderer(ChromeConfig{Timeout: time.Second, ExecPath: "/usr/bin/chromium", NoSandbox: true})
	assert.Equal(t, time.Second, r.config.Timeout)
	assert.Len(t, r.allocatorOptions(), len(NewChromeRenderer(ChromeConfig{}).allocatorOptions())+3)
}

func TestPDFParams_A4(t *testing.T) {
	p := pdfParams()
	assert.InDelta(t, 8.27, p.PaperWidth, 0.01)
	assert.InDelta(t, 11.69, p.PaperHeight, 0.01)
	assert.InDelta(t, mmToInches(20), p.MarginTop, 0.0001)
	assert.InDelta(t, mmToInches(20), p.MarginLeft, 0.0001)
	assert.True(t, p.PrintBackground)
}
