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
	"os"

	cptv "github.com/TheCacophonyProject/go-cptv"
	"github.com/TheCacophonyProject/go-cptv/cptvframe"
	"github.com/TheCacophonyProject/lepton3"
	"github.com/pkg/errors"

	"github.com/TheCacophonyProject/organic-motion/headers"
	"github.com/TheCacophonyProject/organic-motion/motion"
)

// LeptonCamera describes the Lepton 3 frames stored in CPTV recordings.
var LeptonCamera = headers.New(
	lepton3.FrameCols, lepton3.FrameRows, lepton3.FramesHz,
	lepton3.FrameCols*lepton3.FrameRows*2,
	"flir", "lepton3", headers.FormatLepton)

// OpenCPTV opens a CPTV recording for playback through a detector.
func OpenCPTV(filename string) (*CPTVSource, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", filename)
	}
	reader, err := cptv.NewReader(file)
	if err != nil {
		file.Close()
		return nil, errors.Wrapf(err, "reading CPTV header of %s", filename)
	}
	return &CPTVSource{
		file:    file,
		reader:  reader,
		thermal: cptvframe.NewFrame(LeptonCamera),
	}, nil
}

type CPTVSource struct {
	file    *os.File
	reader  *cptv.Reader
	thermal *cptvframe.Frame
	frames  int
}

// Next returns io.EOF once the recording is exhausted.
func (s *CPTVSource) Next(out *motion.Frame) error {
	if err := s.reader.ReadFrame(s.thermal); err != nil {
		if errors.Cause(err) == io.EOF {
			return io.EOF
		}
		return errors.Wrapf(err, "reading frame %d", s.frames)
	}
	s.frames++
	ThermalToGray(s.thermal, out)
	return nil
}

func (s *CPTVSource) Close() error {
	return s.file.Close()
}
