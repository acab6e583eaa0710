// tests for mdfscan.go
package mdfscan

import (
	"fmt"
	"io"
	"math"
	"testing"

	mf4 "github.com/LincolnG4/GoMDF"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

// fakeContainer serves canned channel layouts and sample series.
type fakeContainer struct {
	channels []mf4.Channel
	samples  map[string][]interface{}
	fail     map[string]bool
}

func (f *fakeContainer) ListAllChannels() []mf4.Channel {
	return f.channels
}

func (f *fakeContainer) GetChannelSample(dataGroupIndex int, channelName string) ([]interface{}, error) {
	if f.fail[channelName] {
		return nil, fmt.Errorf("record deserialization failed")
	}
	return f.samples[channelName], nil
}

func newTestScanner() *Scanner {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewScanner(log, false)
}

func TestCollectDeduplicates(t *testing.T) {
	c := &fakeContainer{
		channels: []mf4.Channel{
			{Name: "t", DataGroupIndex: 0},
			{Name: "CAN_DataFrame.ID", DataGroupIndex: 0},
		},
		samples: map[string][]interface{}{
			"CAN_DataFrame.ID": {float64(0x123), float64(0x123), float64(0x18FEF100)},
		},
	}

	ids := newTestScanner().Collect(c)

	assert.Equal(t, map[uint32]struct{}{
		0x123:      {},
		0x18FEF100: {},
	}, ids)
}

func TestCollectChannelSelection(t *testing.T) {
	tests := []struct {
		name    string
		channel string
		matched bool
	}{
		{"frame id channel", "CAN_DataFrame.ID", true},
		{"bus-prefixed id channel", "CAN1.CAN_DataFrame.ID", true},
		{"timestamp channel", "CAN_DataFrame.Timestamp", false},
		{"lowercase marker is not matched", "can_dataframe.id", false},
		{"IDE flag channel", "CAN_DataFrame.IDE", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &fakeContainer{
				channels: []mf4.Channel{{Name: tt.channel, DataGroupIndex: 0}},
				samples:  map[string][]interface{}{tt.channel: {uint32(0x42)}},
			}

			ids := newTestScanner().Collect(c)
			if tt.matched {
				assert.Contains(t, ids, uint32(0x42))
			} else {
				assert.Empty(t, ids)
			}
		})
	}
}

func TestCollectSkipsFailingChannels(t *testing.T) {
	c := &fakeContainer{
		channels: []mf4.Channel{
			{Name: "CAN1.ID", DataGroupIndex: 0},
			{Name: "CAN2.ID", DataGroupIndex: 1},
		},
		samples: map[string][]interface{}{
			"CAN1.ID": {int64(0x100)},
			"CAN2.ID": {int64(0x200)},
		},
		fail: map[string]bool{"CAN1.ID": true},
	}

	ids := newTestScanner().Collect(c)

	// the failing channel contributes nothing, the scan continues
	assert.Equal(t, map[uint32]struct{}{0x200: {}}, ids)
}

func TestCollectEmptyContainer(t *testing.T) {
	c := &fakeContainer{channels: []mf4.Channel{
		{Name: "Speed", DataGroupIndex: 0},
		{Name: "RPM", DataGroupIndex: 0},
	}}

	ids := newTestScanner().Collect(c)

	assert.Empty(t, ids)
}

func TestCoerceID(t *testing.T) {
	tests := []struct {
		name   string
		sample interface{}
		want   uint32
		ok     bool
	}{
		{"float64", float64(0x18FEF100), 0x18FEF100, true},
		{"float32", float32(0x123), 0x123, true},
		{"uint64", uint64(0x7FF), 0x7FF, true},
		{"uint32", uint32(0x800), 0x800, true},
		{"uint16", uint16(0x123), 0x123, true},
		{"uint8", uint8(0x42), 0x42, true},
		{"int64", int64(0x1FFFFFFF), 0x1FFFFFFF, true},
		{"int32", int32(0x123), 0x123, true},
		{"int", int(0x123), 0x123, true},
		{"zero", uint32(0), 0, true},
		{"negative float wraps to no id", float64(-1), 0, false},
		{"negative int is not an id", int64(-5), 0, false},
		{"NaN is not an id", math.NaN(), 0, false},
		{"float above 29 bits", float64(0x20000000), 0, false},
		{"uint64 above 29 bits", uint64(0x200000000), 0, false},
		{"int64 above 29 bits", int64(0x20000000), 0, false},
		{"string is not an id", "0x123", 0, false},
		{"nil is not an id", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := coerceID(tt.sample)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScanFileMissing(t *testing.T) {
	_, err := newTestScanner().ScanFile("testdata/does_not_exist.mf4")
	assert.Error(t, err)
}
