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

package headers

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readHeader(s string) (*HeaderInfo, error) {
	return ReadHeaderInfo(bufio.NewReader(strings.NewReader(s)))
}

func TestReadLeptonHeader(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader(
		"ResX: 160\nResY: 120\nFPS: 9\nFrameSize: 39040\nBrand: flir\nModel: lepton3.5\n\nFRAMEDATA"))
	h, err := ReadHeaderInfo(reader)
	require.NoError(t, err)

	assert.Equal(t, 160, h.ResX())
	assert.Equal(t, 120, h.ResY())
	assert.Equal(t, 9, h.FPS())
	assert.Equal(t, 39040, h.FrameSize())
	assert.Equal(t, "flir", h.Brand())
	assert.Equal(t, "lepton3.5", h.Model())
	assert.Equal(t, FormatLepton, h.PixelFormat())

	// The reader is left at the first frame.
	rest, _ := reader.ReadString('\n')
	assert.Equal(t, "FRAMEDATA", rest)
}

func TestGray8Inferred(t *testing.T) {
	h, err := readHeader("ResX: 320\nResY: 240\nFPS: 30\nFrameSize: 76800\n\n")
	require.NoError(t, err)
	assert.Equal(t, FormatGray8, h.PixelFormat())
}

func TestBadHeaders(t *testing.T) {
	_, err := readHeader("ResX: 320\nResY: 240\nFPS: 30\nFrameSize: 100\n\n")
	assert.EqualError(t, err, "frame size 100 too small for 320x240")

	_, err = readHeader("ResX: 320\nResY: 240\nFrameSize: 76800\nPixelFormat: rgb\n\n")
	assert.EqualError(t, err, `unsupported pixel format "rgb"`)

	_, err = readHeader("ResX: 320\n")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	h := New(160, 120, 9, 160*120, "test", "model", "")
	assert.NoError(t, h.Validate())
	assert.Equal(t, FormatGray8, h.PixelFormat())
	assert.Equal(t, "test model 160x120@9fps gray8 (19200 bytes/frame)", h.String())
}
