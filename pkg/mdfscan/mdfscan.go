// Package mdfscan walks the channels of an MF4 measurement file and
// collects the set of CAN identifiers recorded in identifier channels.
package mdfscan

import (
	"math"
	"os"
	"strings"

	mf4 "github.com/LincolnG4/GoMDF"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
)

// idChannelMark is the substring the producing toolchain puts in the names
// of identifier channels (e.g. "CAN_DataFrame.ID"). The match is
// case-sensitive; this is a naming convention, not a general detector.
const idChannelMark = ".ID"

// maxExtendedID is the largest 29-bit identifier; samples outside
// [0, maxExtendedID] are not CAN ids.
const maxExtendedID = 0x1FFFFFFF

// Container is the slice of the MF4 reader the scanner needs. *mf4.MF4
// satisfies it.
type Container interface {
	// ListAllChannels returns every channel with its data-group index.
	ListAllChannels() []mf4.Channel
	// GetChannelSample returns the sample series of one channel.
	GetChannelSample(dataGroupIndex int, channelName string) ([]interface{}, error)
}

// Scanner collects identifier samples from a measurement container.
type Scanner struct {
	log      *logrus.Logger
	progress bool
}

// NewScanner returns a Scanner. With progress enabled it renders a channel
// progress bar on stderr while scanning.
func NewScanner(log *logrus.Logger, progress bool) *Scanner {
	return &Scanner{log: log, progress: progress}
}

// ScanFile opens the MF4 at path and collects its identifier set. Open and
// parse failures are returned; the caller reports them and ends the run.
func (s *Scanner) ScanFile(path string) (map[uint32]struct{}, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening measurement file")
	}
	defer file.Close()

	m, err := mf4.ReadFile(file, &mf4.ReadOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "reading measurement file")
	}

	return s.Collect(m), nil
}

// Collect unions the integer samples of every identifier channel in the
// container into one set. The fold is best-effort: a channel whose samples
// can't be retrieved contributes nothing and the scan moves on.
func (s *Scanner) Collect(c Container) map[uint32]struct{} {
	channels := c.ListAllChannels()

	var bar *progressbar.ProgressBar
	if s.progress {
		bar = progressbar.Default(int64(len(channels)), "scanning channels")
	}

	ids := make(map[uint32]struct{})
	for _, ch := range channels {
		if bar != nil {
			_ = bar.Add(1)
		}
		if !strings.Contains(ch.Name, idChannelMark) {
			continue
		}
		samples, err := c.GetChannelSample(ch.DataGroupIndex, ch.Name)
		if err != nil {
			s.log.Debugf("skipping channel %q in group %d: %v", ch.Name, ch.DataGroupIndex, err)
			continue
		}
		for _, sample := range samples {
			id, ok := coerceID(sample)
			if !ok {
				continue
			}
			ids[id] = struct{}{}
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return ids
}

// coerceID converts a sample value of whatever numeric type the container
// stored into a CAN identifier. Values outside the 29-bit identifier range
// (and NaN) are rejected so garbage channels don't pollute the set.
func coerceID(sample interface{}) (uint32, bool) {
	var v int64
	switch s := sample.(type) {
	case float64:
		if math.IsNaN(s) || s < 0 || s > maxExtendedID {
			return 0, false
		}
		v = int64(s)
	case float32:
		f := float64(s)
		if math.IsNaN(f) || f < 0 || f > maxExtendedID {
			return 0, false
		}
		v = int64(f)
	case uint64:
		if s > maxExtendedID {
			return 0, false
		}
		v = int64(s)
	case uint32:
		v = int64(s)
	case uint16:
		v = int64(s)
	case uint8:
		v = int64(s)
	case uint:
		if uint64(s) > maxExtendedID {
			return 0, false
		}
		v = int64(s)
	case int64:
		v = s
	case int32:
		v = int64(s)
	case int16:
		v = int64(s)
	case int8:
		v = int64(s)
	case int:
		v = int64(s)
	default:
		return 0, false
	}
	if v < 0 || v > maxExtendedID {
		return 0, false
	}
	return uint32(v), true
}
