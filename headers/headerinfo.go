// organic-motion - detect organic motion in grayscale video frames
// Copyright (C) 2020, The Cacophony Project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package headers reads the camera description a frame producer sends
// before its first frame.
package headers

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// Header keys
const (
	XResolution = "ResX"
	YResolution = "ResY"
	FPS         = "FPS"
	FrameSize   = "FrameSize"
	Brand       = "Brand"
	Model       = "Model"
	PixelFormat = "PixelFormat"
)

// Pixel formats. Lepton frames are 16 bit radiometric values with
// telemetry and need converting before analysis.
const (
	FormatGray8  = "gray8"
	FormatLepton = "lepton3"
)

// HeaderInfo contains the camera description fields sent by a frame
// producer.
type HeaderInfo struct {
	resX        int
	resY        int
	fps         int
	framesize   int
	brand       string
	model       string
	pixelFormat string
}

// ResX implements cptvframe.CameraSpec.
func (h *HeaderInfo) ResX() int {
	return h.resX
}

// ResY implements cptvframe.CameraSpec.
func (h *HeaderInfo) ResY() int {
	return h.resY
}

// FPS implements cptvframe.CameraSpec.
func (h *HeaderInfo) FPS() int {
	return h.fps
}

// FrameSize returns the number of bytes in each frame (include any
// telemetry bytes).
func (h *HeaderInfo) FrameSize() int {
	return h.framesize
}

func (h *HeaderInfo) Model() string {
	return h.model
}

func (h *HeaderInfo) Brand() string {
	return h.brand
}

// PixelFormat returns the declared pixel format. Without one, frames of
// exactly one byte per pixel are taken to be gray8 and anything else to be
// lepton3.
func (h *HeaderInfo) PixelFormat() string {
	if h.pixelFormat != "" {
		return h.pixelFormat
	}
	if h.framesize == h.resX*h.resY {
		return FormatGray8
	}
	return FormatLepton
}

func (h *HeaderInfo) String() string {
	return fmt.Sprintf("%s %s %dx%d@%dfps %s (%d bytes/frame)",
		h.brand, h.model, h.resX, h.resY, h.fps, h.PixelFormat(), h.framesize)
}

func (h *HeaderInfo) Validate() error {
	if h.resX <= 0 || h.resY <= 0 {
		return fmt.Errorf("invalid resolution %dx%d", h.resX, h.resY)
	}
	if h.framesize < h.resX*h.resY {
		return fmt.Errorf("frame size %d too small for %dx%d", h.framesize, h.resX, h.resY)
	}
	switch h.PixelFormat() {
	case FormatGray8, FormatLepton:
		return nil
	default:
		return fmt.Errorf("unsupported pixel format %q", h.pixelFormat)
	}
}

// ReadHeaderInfo reads YAML lines up to the first blank line.
func ReadHeaderInfo(reader *bufio.Reader) (*HeaderInfo, error) {
	var buf bytes.Buffer
	for {
		line, err := reader.ReadString(byte('\n'))
		if err != nil {
			return nil, errors.Wrap(err, "reading camera header")
		}
		if strings.TrimSpace(line) == "" {
			break
		}
		buf.WriteString(line)
	}
	h := make(map[string]interface{})
	if err := yaml.Unmarshal(buf.Bytes(), &h); err != nil {
		return nil, errors.Wrap(err, "parsing camera header")
	}

	info := &HeaderInfo{
		resX:        toInt(h[XResolution]),
		resY:        toInt(h[YResolution]),
		fps:         toInt(h[FPS]),
		framesize:   toInt(h[FrameSize]),
		brand:       toStr(h[Brand]),
		model:       toStr(h[Model]),
		pixelFormat: toStr(h[PixelFormat]),
	}
	if err := info.Validate(); err != nil {
		return nil, err
	}
	return info, nil
}

// New builds a HeaderInfo directly, for producers that don't send one.
func New(resX, resY, fps, frameSize int, brand, model, pixelFormat string) *HeaderInfo {
	return &HeaderInfo{
		resX:        resX,
		resY:        resY,
		fps:         fps,
		framesize:   frameSize,
		brand:       brand,
		model:       model,
		pixelFormat: pixelFormat,
	}
}

func toInt(v interface{}) int {
	out, ok := v.(int)
	if !ok {
		return 0
	}
	return out
}

func toStr(v interface{}) string {
	out, ok := v.(string)
	if !ok {
		return ""
	}
	return out
}
