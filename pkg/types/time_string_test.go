package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeString_Minutes(t *testing.T) {
	tests := []struct {
		in      TimeString
		want    int
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "09:30", want: 570},
		{in: "23:59", want: 1439},
		{in: "24:00", want: 1440},
		{in: "24:01", wantErr: true},
		{in: "25:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "9:30", wantErr: true},
		{in: "09-30", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			got, err := tt.in.Minutes()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	got, err := TimeString("11:30").AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("12:00"), got)

	got, err = TimeString("23:00").AddMinutes(60)
	require.NoError(t, err)
	assert.True(t, got.IsEndOfDay())

	_, err = TimeString("23:30").AddMinutes(60)
	assert.ErrorIs(t, err, ErrTimeOutOfRange)
}

func TestTimeString_Compare(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("09:15"))
	assert.False(t, TimeString("09:15").IsBefore("09:15"))
	assert.True(t, TimeString("24:00").IsAfter("23:45"))
	assert.False(t, TimeString("bad").IsBefore("09:00"))
}

func TestTimeString_ScanValue(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan(int64(540)))
	assert.Equal(t, TimeString("09:00"), ts)

	require.NoError(t, ts.Scan([]byte("17:45:00")))
	assert.Equal(t, TimeString("17:45"), ts)

	require.NoError(t, ts.Scan("1440"))
	assert.Equal(t, TimeString("24:00"), ts)

	assert.Error(t, ts.Scan(int64(-1)))
	assert.Error(t, ts.Scan(3.14))

	v, err := TimeString("10:15").Value()
	require.NoError(t, err)
	assert.Equal(t, int64(615), v)
}
