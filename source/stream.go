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

package source

import (
	"io"

	"github.com/TheCacophonyProject/go-cptv/cptvframe"
	"github.com/TheCacophonyProject/lepton3"
	"github.com/pkg/errors"

	"github.com/TheCacophonyProject/organic-motion/headers"
	"github.com/TheCacophonyProject/organic-motion/motion"
)

// NewStreamSource reads frames described by camera from r. Each read must
// return exactly one frame, as a unixpacket connection does, or r must be
// a plain byte stream.
func NewStreamSource(r io.Reader, camera *headers.HeaderInfo) *StreamSource {
	s := &StreamSource{
		r:      r,
		camera: camera,
		raw:    make([]byte, camera.FrameSize()),
	}
	if camera.PixelFormat() == headers.FormatLepton {
		s.thermal = cptvframe.NewFrame(camera)
	}
	return s
}

type StreamSource struct {
	r       io.Reader
	camera  *headers.HeaderInfo
	raw     []byte
	thermal *cptvframe.Frame
}

func (s *StreamSource) Next(out *motion.Frame) error {
	if _, err := io.ReadFull(s.r, s.raw); err != nil {
		if err == io.EOF {
			return err
		}
		return errors.Wrap(err, "reading frame")
	}

	if s.thermal != nil {
		if err := lepton3.ParseRawFrame(s.raw, s.thermal); err != nil {
			return errors.Wrap(err, "parsing lepton frame")
		}
		ThermalToGray(s.thermal, out)
		return nil
	}

	// out shares raw, so it is only valid until the next call.
	out.Width = s.camera.ResX()
	out.Height = s.camera.ResY()
	out.Pix = s.raw[:s.camera.ResX()*s.camera.ResY()]
	return nil
}
