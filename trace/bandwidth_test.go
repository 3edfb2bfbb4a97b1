package trace

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestBandwidth_String_PicksLargestEvenUnit(t *testing.T) {
	cases := []struct {
		bw   Bandwidth
		want string
	}{
		{Bps(0), "0bps"},
		{Bps(999), "999bps"},
		{Kbps(1), "1Kbps"},
		{Kbps(1500), "1500Kbps"},
		{Mbps(12), "12Mbps"},
		{Gbps(2), "2Gbps"},
		{Bps(12_000_001), "12000001bps"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.bw.String())
	}
}

func TestParseBandwidth_AcceptsUnitSuffixes(t *testing.T) {
	cases := []struct {
		in   string
		want Bandwidth
	}{
		{"12Mbps", Mbps(12)},
		{"12mbps", Mbps(12)},
		{"1.5Mbps", Kbps(1500)},
		{"800Kbps", Kbps(800)},
		{"1Gbps", Gbps(1)},
		{"250bps", Bps(250)},
	}
	for _, c := range cases {
		got, err := ParseBandwidth(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
}

func TestParseBandwidth_RejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "Mbps", "12", "-3Mbps", "NaNMbps", "12Tbps"} {
		_, err := ParseBandwidth(in)
		assert.Error(t, err, in)
	}
}

func TestBandwidth_JSONIsNumericYAMLIsHumanized(t *testing.T) {
	// GIVEN 12 Mbps
	bw := Mbps(12)

	// THEN JSON carries raw bits/s and YAML the unit-suffixed string
	j, err := json.Marshal(bw)
	require.NoError(t, err)
	assert.Equal(t, "12000000", string(j))

	y, err := yaml.Marshal(bw)
	require.NoError(t, err)
	assert.Equal(t, "12Mbps\n", string(y))
}

func TestBandwidth_DecodersAcceptBothForms(t *testing.T) {
	// JSON decoder takes a number or a humanized string
	var fromNum, fromStr Bandwidth
	require.NoError(t, json.Unmarshal([]byte(`12000000`), &fromNum))
	require.NoError(t, json.Unmarshal([]byte(`"12Mbps"`), &fromStr))
	assert.Equal(t, fromNum, fromStr)

	// YAML decoder takes a raw integer or a humanized string
	var fromInt, fromHuman Bandwidth
	require.NoError(t, yaml.Unmarshal([]byte(`12000000`), &fromInt))
	require.NoError(t, yaml.Unmarshal([]byte(`12Mbps`), &fromHuman))
	assert.Equal(t, fromInt, fromHuman)
}

func TestBandwidth_MulF64_Saturates(t *testing.T) {
	assert.Equal(t, Mbps(6), Mbps(12).MulF64(0.5))
	assert.Equal(t, Bandwidth(0), Mbps(12).MulF64(-1))
	huge := Bandwidth(1 << 63)
	assert.Equal(t, Bandwidth(^uint64(0)), huge.MulF64(4))
}
